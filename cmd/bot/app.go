package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"

	"github.com/Jacobbrewer1/concord/cmd/bot/config"
	"github.com/Jacobbrewer1/concord/cmd/bot/monitoring"
	"github.com/Jacobbrewer1/concord/pkg/bugtracking"
	"github.com/Jacobbrewer1/concord/pkg/dataaccess"
	"github.com/Jacobbrewer1/concord/pkg/economy"
	"github.com/Jacobbrewer1/concord/pkg/logging"
	"github.com/Jacobbrewer1/concord/pkg/notify"
	"github.com/Jacobbrewer1/concord/pkg/request"
	"github.com/Jacobbrewer1/concord/pkg/ticketing"
	"github.com/Jacobbrewer1/concord/pkg/vouching"
	"github.com/bwmarrin/discordgo"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// IApp is the interface for the application.
type IApp interface {
	// Session returns the discord session.
	Session() *discordgo.Session

	// Log returns the logger.
	Log() *slog.Logger

	// Store returns the DAL set.
	Store() *dataaccess.Store

	// Tickets returns the ticket manager.
	Tickets() *ticketing.Manager

	// Bugs returns the bug tracker.
	Bugs() *bugtracking.Tracker

	// Vouches returns the vouch ledger.
	Vouches() *vouching.Ledger

	// Economy returns the economy service.
	Economy() *economy.Service

	// Sink returns the log sink.
	Sink() *notify.Sink
}

type App struct {
	// is the logger.
	*slog.Logger

	// r is the router for the application.
	r *mux.Router

	// svr is the server for the application.
	svr *http.Server

	// s is the discord session.
	s *discordgo.Session

	// store is the DAL set, selected by the configured backend.
	store *dataaccess.Store

	// Feature components.
	tickets *ticketing.Manager
	bugs    *bugtracking.Tracker
	vouches *vouching.Ledger
	economy *economy.Service
	sink    *notify.Sink
}

// NewApp creates a new instance of App.
func NewApp(l *slog.Logger, r *mux.Router) *App {
	return &App{
		Logger: l,
		r:      r,
	}
}

func (a *App) Run() error {
	// Register bot.
	if err := a.RegisterBot(); err != nil {
		return fmt.Errorf("error registering bot: %w", err)
	}

	a.s.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		a.Info(fmt.Sprintf("Logged in as %s#%s", r.User.Username, r.User.Discriminator))
	})

	if err := a.RegisterDiscordHandlers(); err != nil {
		return fmt.Errorf("error registering discord handlers: %w", err)
	}

	// Open websocket.
	if err := a.s.Open(); err != nil {
		return fmt.Errorf("error opening connection to Discord: %w", err)
	}

	// Register slash commands.
	if err := a.registerSlashCommands(); err != nil {
		return fmt.Errorf("error registering slash commands: %w", err)
	}

	a.Info("Bot is now running.")

	a.generateServer()
	a.setupRoutes()
	a.runServer()

	// Register listener for shutdown signal.
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)

	// Process shutdown signal.
	for sig := range c {
		a.Info("Received shutdown signal", slog.String("signal", sig.String()))
		if err := a.ShutdownHook(); err != nil {
			a.Error("Error shutting down application", slog.String(logging.KeyError, err.Error()))
		}
		os.Exit(0)
	}
	return nil
}

func (a *App) ShutdownHook() error {
	// Reset the total number of guilds to 0.
	monitoring.TotalDiscordGuilds.Set(0)

	// Unregister slash commands.
	if err := a.unregisterSlashCommands(); err != nil {
		return fmt.Errorf("error unregistering slash commands: %w", err)
	}

	// Close the connection to Discord.
	if err := a.s.Close(); err != nil {
		return fmt.Errorf("error closing connection to Discord: %w", err)
	}
	return nil
}

func (a *App) RegisterBot() error {
	// Default the number of guilds to 0.
	monitoring.TotalDiscordGuilds.Set(0)

	dg, err := discordgo.New("Bot " + config.BotToken)
	if err != nil {
		return fmt.Errorf("error creating Discord session: %w", err)
	}

	dg.Identify.Intents = discordgo.IntentsAllWithoutPrivileged
	if config.MessageContent {
		// Privileged; without it, bug ingestion falls back to placeholder text.
		dg.Identify.Intents |= discordgo.IntentMessageContent
	}

	a.s = dg

	// Select the store for the configured backend.
	switch {
	case dataaccess.MongoDB != nil:
		a.store = dataaccess.NewMongoStore(a.Log())
	case dataaccess.PostgresDB != nil:
		store, err := dataaccess.NewPostgresSettingsStore(a.Log())
		if err != nil {
			return fmt.Errorf("error creating postgres store: %w", err)
		}
		a.store = store
	default:
		a.store = dataaccess.NewInMemoryStore()
	}

	// Build the feature components on top of the store and session.
	a.sink = notify.NewSink(a.Log(), a.s, a.store.Guilds)
	a.tickets = ticketing.NewManager(a.Log(), a.s, a.store.Guilds, a.store.Tickets, a.sink, func() *discordgo.User {
		if a.s.State == nil {
			return nil
		}
		return a.s.State.User
	})
	a.bugs = bugtracking.NewTracker(a.Log(), a.s, a.store.Guilds, a.store.Bugs)
	a.vouches = vouching.NewLedger(a.Log(), a.store.Guilds, a.store.Vouches)
	a.economy = economy.NewService(a.Log(), a.store.Progress)

	return nil
}

func (a *App) runServer() {
	go func() {
		a.Info("Starting monitoring server")
		if err := a.svr.ListenAndServe(); err != nil {
			a.Error("Error starting monitoring server", slog.String(logging.KeyError, err.Error()))
			a.Warn("Monitoring server will not be available")
		}
	}()
}

func (a *App) setupRoutes() {
	// PathMetrics is the path for metrics.
	a.r.HandleFunc(PathMetrics, promhttp.Handler().ServeHTTP).Methods(http.MethodGet)

	// PathHealth is the path for health check.
	a.r.HandleFunc(PathHealth, middlewareHttp(a.healthCheck(), authOptionNone, a)).Methods(http.MethodGet)

	// NotFoundHandler is the handler for 404.
	a.r.NotFoundHandler = request.NotFoundHandler(a.Log())

	// MethodNotAllowedHandler is the handler for 405.
	a.r.MethodNotAllowedHandler = request.MethodNotAllowedHandler(a.Log())
}

func (a *App) generateServer() {
	a.svr = &http.Server{
		Addr:    ":" + config.MonitoringPort,
		Handler: a.r,
	}
}

func (a *App) RegisterDiscordHandlers() error {
	// Bot joined guild.
	a.s.AddHandler(guildJoinedHandler(a))

	// Bot left guild.
	a.s.AddHandler(guildLeaveHandler(a))

	// Count every gateway event by type.
	a.s.AddHandler(func(_ *discordgo.Session, e *discordgo.Event) {
		if e.Type != "" {
			monitoring.TotalDiscordEvents.WithLabelValues(e.Type).Inc()
		}
	})

	// Message create handler: XP grants and bug-input ingestion.
	a.s.AddHandler(messageCreateHandler(a))

	// Interaction create handler.
	a.s.AddHandler(interactionHandler(a, slashControllers, componentControllers, modalControllers))

	return nil
}

func (a *App) Session() *discordgo.Session {
	return a.s
}

func (a *App) Log() *slog.Logger {
	return a.Logger
}

func (a *App) Store() *dataaccess.Store {
	return a.store
}

func (a *App) Tickets() *ticketing.Manager {
	return a.tickets
}

func (a *App) Bugs() *bugtracking.Tracker {
	return a.bugs
}

func (a *App) Vouches() *vouching.Ledger {
	return a.vouches
}

func (a *App) Economy() *economy.Service {
	return a.economy
}

func (a *App) Sink() *notify.Sink {
	return a.sink
}
