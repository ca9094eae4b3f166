package logging

import (
	"log/slog"
	"os"
)

const (
	// KeyAppName is the key for the application name.
	KeyAppName = `app`

	// KeyError is the key for an error.
	KeyError = `err`

	// KeyDal is the key for the data access layer.
	KeyDal = `dal`

	// KeyGuild is the key for a guild ID.
	KeyGuild = `guild`

	// KeyChannel is the key for a channel ID.
	KeyChannel = `channel`

	// KeyUser is the key for a user ID.
	KeyUser = `user`
)

// Name is the name of the application that the logger is created for.
type Name string

// Config is the configuration for a logger.
type Config struct {
	// appName is the name of the application.
	appName string

	// level is the minimum level that will be logged.
	level slog.Leveler
}

// NewConfig creates a new logging configuration.
func NewConfig(appName Name) *Config {
	return &Config{
		appName: string(appName),
		level:   slog.LevelDebug,
	}
}

// CommonLogger creates the common logger for the application. All logs are written to
// stdout as JSON with the application name attached.
func CommonLogger(c *Config) (*slog.Logger, error) {
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: c.level,
	})

	l := slog.New(h).With(slog.String(KeyAppName, c.appName))

	// Set the default logger so that packages logging through slog.Default share it.
	slog.SetDefault(l)

	return l, nil
}
