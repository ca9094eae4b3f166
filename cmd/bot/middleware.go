package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/Jacobbrewer1/concord/cmd/bot/monitoring"
	"github.com/Jacobbrewer1/concord/pkg/logging"
	"github.com/Jacobbrewer1/concord/pkg/messages"
	"github.com/Jacobbrewer1/concord/pkg/request"
	"github.com/bwmarrin/discordgo"
	"github.com/gorilla/mux"
)

const (
	// PathMetrics is the path for metrics.
	PathMetrics = "/metrics"

	// PathHealth is the path for the health check.
	PathHealth = "/health"
)

// commandProcessor handles a single interaction.
type commandProcessor func(a IApp, i *discordgo.InteractionCreate) error

// authOption is an option for the auth middleware. It indicates the type of authentication required.
type authOption int

const (
	// authOptionNone indicates that no authentication is required.
	authOptionNone authOption = iota
)

type Controller func(w http.ResponseWriter, r *http.Request)

func middlewareHttp(handler Controller, _ authOption, a IApp) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().UTC()
		cw := request.NewClientWriter(w)

		// Recover from any panics that occur in the handler.
		defer func() {
			if rec := recover(); rec != nil {
				a.Log().Error("Panic in handler",
					slog.String(logging.KeyError, fmt.Sprintf("%v", rec)),
					slog.String("stack", string(debug.Stack())),
				)
				cw.WriteHeader(http.StatusInternalServerError)
				if err := json.NewEncoder(cw).Encode(request.NewMessage(request.ErrInternalServer.Error())); err != nil {
					a.Log().Error("Error encoding response", slog.String(logging.KeyError, err.Error()))
				}
			}
		}()

		var path string
		route := mux.CurrentRoute(r)
		if route != nil { // The route may be nil if the request is not routed.
			var err error
			path, err = route.GetPathTemplate()
			if err != nil {
				// An error here is only returned if the route does not define a path.
				a.Log().Error("Error getting path template", slog.String(logging.KeyError, err.Error()))
				path = r.URL.Path // If the route does not define a path, use the URL path.
			}
		} else {
			path = r.URL.Path // If the route is nil, use the URL path.
		}

		defer func() {
			// Run the deferred function after the request has been handled, as the status code will not be available until then.
			monitoring.HttpTotalRequests.WithLabelValues(path, r.Method, fmt.Sprintf("%d", cw.StatusCode())).Inc()
			monitoring.HttpRequestDuration.WithLabelValues(path, r.Method, fmt.Sprintf("%d", cw.StatusCode())).Observe(time.Since(now).Seconds())
		}()

		handler(cw, r)
	}
}

// controllerKey returns the routing key for an interaction: the command name for slash
// commands, the custom ID (up to the first ":", which carries arguments) for components
// and modals.
func controllerKey(i *discordgo.InteractionCreate) string {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		return i.ApplicationCommandData().Name
	case discordgo.InteractionMessageComponent:
		return strings.SplitN(i.MessageComponentData().CustomID, ":", 2)[0]
	case discordgo.InteractionModalSubmit:
		return strings.SplitN(i.ModalSubmitData().CustomID, ":", 2)[0]
	default:
		return ""
	}
}

// interactionHandler routes every inbound interaction to its processor. Processor errors
// are logged and converted into a generic ephemeral reply; they never crash the process.
func interactionHandler(a IApp, commands, components, modals map[string]commandProcessor) func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	return func(_ *discordgo.Session, i *discordgo.InteractionCreate) {
		// Recover from any panics that occur in the processor.
		defer func() {
			if rec := recover(); rec != nil {
				a.Log().Error("Panic in interaction handler",
					slog.String(logging.KeyError, fmt.Sprintf("%v", rec)),
					slog.String("stack", string(debug.Stack())),
				)
				if err := respondError(a, i); err != nil {
					a.Log().Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
				}
			}
		}()

		key := controllerKey(i)
		if key == "" {
			return
		}

		// Every command operates on a guild; a DM interaction carries no member.
		if i.Member == nil || i.GuildID == "" {
			if err := respondEphemeral(a, i, messages.ErrGuildOnly); err != nil {
				a.Log().Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
			}
			return
		}

		var processor commandProcessor
		var ok bool
		switch i.Type {
		case discordgo.InteractionApplicationCommand:
			processor, ok = commands[key]
		case discordgo.InteractionMessageComponent:
			processor, ok = components[key]
		case discordgo.InteractionModalSubmit:
			processor, ok = modals[key]
		}

		if !ok {
			a.Log().Error("No controller found for interaction", slog.String("key", key))
			if err := respondError(a, i); err != nil {
				a.Log().Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
			}
			return
		}

		a.Log().Debug("Handling interaction " + key)
		t := time.Now().UTC()
		defer func() {
			monitoring.DiscordCommandDuration.WithLabelValues(key).Observe(time.Since(t).Seconds())
		}()

		if err := processor(a, i); err != nil {
			a.Log().Error(fmt.Sprintf("Error processing interaction %s", key),
				slog.String(logging.KeyError, err.Error()))

			if err := respondError(a, i); err != nil {
				a.Log().Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
			}
		}
	}
}
