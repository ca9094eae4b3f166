package ticketing

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	// transcriptMinLimit and transcriptMaxLimit clamp the requested message count.
	transcriptMinLimit = 10
	transcriptMaxLimit = 200

	// transcriptMaxAttachments caps the attachment URLs rendered per message.
	transcriptMaxAttachments = 10

	// fetchPageSize is the largest page the message history endpoint serves.
	fetchPageSize = 100
)

// Transcript renders the most recent messages of the channel as plain text, oldest
// first, one `[timestamp] author: content` line per message with attachment URLs below.
// When history cannot be fetched (usually missing permissions) an explanatory
// placeholder is returned instead of an error.
func (m *Manager) Transcript(channelID string, limit int) string {
	if limit < transcriptMinLimit {
		limit = transcriptMinLimit
	}
	if limit > transcriptMaxLimit {
		limit = transcriptMaxLimit
	}

	msgs, err := m.fetchHistory(channelID, limit)
	if err != nil {
		return fmt.Sprintf("Could not fetch the channel history (%v). The bot may be missing the Read Message History permission.", err)
	}
	if len(msgs) == 0 {
		return "No messages in this channel."
	}

	sort.Slice(msgs, func(i, j int) bool { return msgs[i].timestamp.Before(msgs[j].timestamp) })

	var b strings.Builder
	for _, msg := range msgs {
		fmt.Fprintf(&b, "[%s] %s: %s\n", msg.timestamp.UTC().Format(time.RFC3339), msg.author, msg.content)
		for i, url := range msg.attachments {
			if i >= transcriptMaxAttachments {
				break
			}
			fmt.Fprintf(&b, "    attachment: %s\n", url)
		}
	}
	return b.String()
}

type transcriptMessage struct {
	timestamp   time.Time
	author      string
	content     string
	attachments []string
}

func (m *Manager) fetchHistory(channelID string, limit int) ([]transcriptMessage, error) {
	var out []transcriptMessage
	beforeID := ""

	for len(out) < limit {
		page := limit - len(out)
		if page > fetchPageSize {
			page = fetchPageSize
		}

		msgs, err := m.session.ChannelMessages(channelID, page, beforeID, "", "")
		if err != nil {
			return nil, err
		}
		if len(msgs) == 0 {
			break
		}

		for _, msg := range msgs {
			author := "unknown"
			if msg.Author != nil {
				author = msg.Author.Username
			}

			var attachments []string
			for _, a := range msg.Attachments {
				attachments = append(attachments, a.URL)
			}

			out = append(out, transcriptMessage{
				timestamp:   msg.Timestamp,
				author:      author,
				content:     msg.Content,
				attachments: attachments,
			})
		}

		// Pages come newest first; the last entry is the oldest of the page.
		beforeID = msgs[len(msgs)-1].ID
		if len(msgs) < page {
			break
		}
	}

	return out, nil
}
