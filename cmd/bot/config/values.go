package config

const (
	// AppName is the name of the application.
	AppName = "concord"

	// EnvBotToken is the environment variable for the bot token.
	EnvBotToken = `BOT_TOKEN`

	// EnvApplicationId is the environment variable for the application ID.
	EnvApplicationId = `APPLICATION_ID`

	// EnvGuildId is the environment variable restricting command registration to a
	// single guild. Commands register globally when unset.
	EnvGuildId = `GUILD_ID`

	// EnvMongoUri is the environment variable for the MongoDB URI.
	EnvMongoUri = `MONGO_URI`

	// EnvDatabaseUrl is the environment variable for the Postgres connection string.
	EnvDatabaseUrl = `DATABASE_URL`

	// EnvMessageContent is the environment variable toggling the privileged
	// message-content intent. Without it, bug ingestion falls back to placeholders.
	EnvMessageContent = `MESSAGE_CONTENT`

	// EnvMonitoringPort is the environment variable for the monitoring port.
	EnvMonitoringPort = `MONITORING_PORT`
)

var (
	// BotToken is the token for the bot.
	BotToken string

	// ApplicationId is the ID of the application.
	ApplicationId string

	// GuildId is the optional guild restriction for command registration.
	GuildId string

	// MongoUri is the URI for the MongoDB database.
	MongoUri string

	// DatabaseUrl is the Postgres connection string.
	DatabaseUrl string

	// MessageContent is whether the bot may read message text.
	MessageContent bool

	// MonitoringPort is the port for the monitoring server.
	MonitoringPort string
)
