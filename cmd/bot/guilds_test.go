package main

import (
	"strings"
	"testing"

	"github.com/Jacobbrewer1/concord/pkg/bugtracking"
	"github.com/stretchr/testify/require"
)

func TestSplitBugReport(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantTitle string
		wantDesc  string
	}{
		{
			name:      "title and body",
			content:   "Login crashes\nSteps: open the app, enter an empty password.",
			wantTitle: "Login crashes",
			wantDesc:  "Steps: open the app, enter an empty password.",
		},
		{
			name:      "single line doubles as description",
			content:   "Board is slow",
			wantTitle: "Board is slow",
			wantDesc:  "Board is slow",
		},
		{
			name:      "empty content gets placeholders",
			content:   "   ",
			wantTitle: "Untitled report",
			wantDesc:  "No description captured.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, desc := splitBugReport(tt.content)
			require.Equal(t, tt.wantTitle, title)
			require.Equal(t, tt.wantDesc, desc)
		})
	}
}

func TestSplitBugReport_Truncates(t *testing.T) {
	longLine := strings.Repeat("t", bugtracking.MaxTitleLen+20)
	longBody := strings.Repeat("d", bugtracking.MaxDescriptionLen+20)

	title, desc := splitBugReport(longLine + "\n" + longBody)
	require.Len(t, []rune(title), bugtracking.MaxTitleLen)
	require.Len(t, []rune(desc), bugtracking.MaxDescriptionLen)
}
