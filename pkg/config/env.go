package config

const (
	EnvMongoURI                     = "MONGO_URI"
	EnvMongoDatabaseName            = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout             = "MONGO_CONN_TIMEOUT"
	EnvMongoServerSelectionTimeout  = "MONGO_SERVER_SELECTION_TIMEOUT"
	EnvMongoReadTimeout             = "MONGO_READ_TIMEOUT"
	EnvMongoWriteTimeout            = "MONGO_WRITE_TIMEOUT"
	EnvServerless                   = "SERVERLESS"

	EnvPort           = "PORT"
	EnvLogLevel       = "LOG_LEVEL"
	EnvAllowedOrigins = "ALLOWED_ORIGINS"

	EnvJWTSecret          = "JWT_SECRET"
	EnvTokenTTL           = "TOKEN_TTL"
	EnvAdminLoginEmail    = "ADMIN_LOGIN_EMAIL"
	EnvAdminLoginPassword = "ADMIN_LOGIN_PASSWORD"

	EnvSMTPHost        = "SMTP_HOST"
	EnvSMTPPort        = "SMTP_PORT"
	EnvSMTPUser        = "SMTP_USER"
	EnvSMTPPass        = "SMTP_PASS"
	EnvFromEmail       = "FROM_EMAIL"
	EnvAdminEmail      = "ADMIN_EMAIL"
	EnvMailSendTimeout = "MAIL_SEND_TIMEOUT"

	EnvBlogDatabaseURL = "BLOG_DATABASE_URL"

	EnvKafkaBrokers       = "KAFKA_BROKERS"
	EnvBookingEventsTopic = "BOOKING_EVENTS_TOPIC"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
)
