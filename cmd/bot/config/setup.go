package config

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/Jacobbrewer1/concord/pkg/dataaccess"
	"github.com/Jacobbrewer1/concord/pkg/dataaccess/connection"
	"github.com/Jacobbrewer1/concord/pkg/logging"
	"github.com/joho/godotenv"
)

// Parse reads the environment into the package values and connects the configured
// backends. The process exits when a required value is missing.
func Parse(l *slog.Logger) {
	// Local development convenience; the file is optional.
	if err := godotenv.Load(); err == nil {
		l.Debug("Loaded environment from .env file")
	}

	if envBT := os.Getenv(EnvBotToken); envBT != "" {
		l.Debug("Found bot token in environment", slog.String("key", EnvBotToken))
		BotToken = envBT
	}

	if envAppId := os.Getenv(EnvApplicationId); envAppId != "" {
		l.Debug("Found application ID in environment", slog.String("key", EnvApplicationId))
		ApplicationId = envAppId
	}

	if envGuildId := os.Getenv(EnvGuildId); envGuildId != "" {
		l.Debug("Found guild restriction in environment", slog.String("key", EnvGuildId))
		GuildId = envGuildId
	}

	if envMongoUri := os.Getenv(EnvMongoUri); envMongoUri != "" {
		l.Debug("Found MongoDB URI in environment", slog.String("key", EnvMongoUri))
		MongoUri = envMongoUri
	}

	if envDatabaseUrl := os.Getenv(EnvDatabaseUrl); envDatabaseUrl != "" {
		l.Debug("Found Postgres URL in environment", slog.String("key", EnvDatabaseUrl))
		DatabaseUrl = envDatabaseUrl
	}

	if envMC := os.Getenv(EnvMessageContent); envMC != "" {
		mc, err := strconv.ParseBool(envMC)
		if err != nil {
			l.Warn("Invalid message content toggle, defaulting to false",
				slog.String("key", EnvMessageContent), slog.String("value", envMC))
		}
		MessageContent = mc
	}

	if envMonitoringPort := os.Getenv(EnvMonitoringPort); envMonitoringPort != "" {
		l.Debug("Found monitoring port in environment", slog.String("key", EnvMonitoringPort))
		MonitoringPort = envMonitoringPort
	} else {
		// Default to 8080 if not provided.
		MonitoringPort = "8080"

		l.Info("No monitoring port provided in environment, defaulting to 8080", slog.String("key", EnvMonitoringPort))
	}

	if BotToken == "" || ApplicationId == "" {
		l.Error("Not all required environment variables have been provided", slog.String(logging.KeyError, "Incomplete configuration"))
		os.Exit(1)
	}

	if MongoUri != "" {
		connectMongo(l)
	} else if DatabaseUrl != "" {
		connectPostgres(l)
	} else {
		l.Warn("No database configured, state will not survive a restart")
	}
}

func connectMongo(l *slog.Logger) {
	mongoConn := new(connection.MongoDB)
	mongoConn.ConnectionString = MongoUri

	db, err := mongoConn.Connect()
	if err != nil {
		l.Error("Error connecting to mongo", slog.String(logging.KeyError, err.Error()))
		os.Exit(1)
	} else if db == nil {
		l.Error("MongoDB came back nil", slog.String(logging.KeyError, "MongoDB came back nil"))
		os.Exit(1)
	}

	dataaccess.MongoDB = db

	l.Debug("Connected to MongoDB", slog.String("key", EnvMongoUri))
}

func connectPostgres(l *slog.Logger) {
	pgConn := new(connection.Postgres)
	pgConn.ConnectionString = DatabaseUrl

	db, err := pgConn.Connect()
	if err != nil {
		l.Error("Error connecting to postgres", slog.String(logging.KeyError, err.Error()))
		os.Exit(1)
	}

	dataaccess.PostgresDB = db

	l.Debug("Connected to Postgres", slog.String("key", EnvDatabaseUrl))
}
