package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"dentalave/pkg/logger"
)

type Config struct {
	MongoURI                    string
	MongoDatabaseName           string
	MongoConnTimeout            time.Duration
	MongoServerSelectionTimeout time.Duration
	MongoReadTimeout            time.Duration
	MongoWriteTimeout           time.Duration
	Serverless                  bool

	Port           string
	AllowedOrigins []string

	JWTSecret          string
	TokenTTL           time.Duration
	AdminLoginEmail    string
	AdminLoginPassword string

	SMTPHost        string
	SMTPPort        int
	SMTPUser        string
	SMTPPass        string
	FromEmail       string
	AdminEmail      string
	MailSendTimeout time.Duration

	BlogDatabaseURL string

	KafkaBrokers       []string
	BookingEventsTopic string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	Log *logger.Logger
}

func Load(serviceName string) *Config {
	cfg := &Config{
		MongoURI:                    sanitizeURI(getEnvStr(EnvMongoURI, "")),
		MongoDatabaseName:           getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:            getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),
		MongoServerSelectionTimeout: getEnvDuration(EnvMongoServerSelectionTimeout, DefaultMongoServerSelectionTimeout),
		MongoReadTimeout:            getEnvDuration(EnvMongoReadTimeout, DefaultMongoReadTimeout),
		MongoWriteTimeout:           getEnvDuration(EnvMongoWriteTimeout, DefaultMongoWriteTimeout),
		Serverless:                  getEnvBool(EnvServerless, false),

		Port:           getEnvStr(EnvPort, DefaultPort),
		AllowedOrigins: splitList(getEnvStr(EnvAllowedOrigins, DefaultAllowedOrigins)),

		JWTSecret:          getEnvStr(EnvJWTSecret, ""),
		TokenTTL:           getEnvDuration(EnvTokenTTL, DefaultTokenTTL),
		AdminLoginEmail:    getEnvStr(EnvAdminLoginEmail, DefaultAdminLoginEmail),
		AdminLoginPassword: getEnvStr(EnvAdminLoginPassword, ""),

		SMTPHost:        getEnvStr(EnvSMTPHost, ""),
		SMTPPort:        getEnvNum(EnvSMTPPort, DefaultSMTPPort),
		SMTPUser:        getEnvStr(EnvSMTPUser, ""),
		SMTPPass:        getEnvStr(EnvSMTPPass, ""),
		FromEmail:       getEnvStr(EnvFromEmail, DefaultFromEmail),
		AdminEmail:      getEnvStr(EnvAdminEmail, DefaultAdminEmail),
		MailSendTimeout: getEnvDuration(EnvMailSendTimeout, DefaultMailSendTimeout),

		BlogDatabaseURL: getEnvStr(EnvBlogDatabaseURL, ""),

		KafkaBrokers:       splitList(getEnvStr(EnvKafkaBrokers, "")),
		BookingEventsTopic: getEnvStr(EnvBookingEventsTopic, DefaultBookingEventsTopic),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

// Validate checks boot-time invariants only. The Mongo URI is deliberately
// not required here: the connection manager validates it lazily so the
// server still starts and reports the problem per request, the same way the
// original deployment behaved.
func (cfg *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.JWTSecret == "" {
		errs = append(errs, "JWTSecret cannot be empty")
	}
	if cfg.AdminLoginPassword == "" {
		errs = append(errs, "AdminLoginPassword cannot be empty")
	}
	if cfg.TokenTTL <= 0 {
		errs = append(errs, fmt.Sprintf("TokenTTL must be positive, got: %s", cfg.TokenTTL))
	}

	if cfg.SMTPPort < 1 || cfg.SMTPPort > 65535 {
		errs = append(errs, fmt.Sprintf("SMTPPort must be between 1 and 65535, got: %d", cfg.SMTPPort))
	}
	if cfg.MailSendTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("MailSendTimeout must be positive, got: %s", cfg.MailSendTimeout))
	}

	if cfg.MongoConnTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
	}
	if cfg.MongoServerSelectionTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("MongoServerSelectionTimeout must be positive, got: %s", cfg.MongoServerSelectionTimeout))
	}
	if cfg.MongoDatabaseName == "" {
		errs = append(errs, "MongoDatabaseName cannot be empty")
	}

	if cfg.RateLimitRequests <= 0 {
		errs = append(errs, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.RateLimitWindow <= 0 {
		errs = append(errs, fmt.Sprintf("RateLimitWindow must be positive, got: %s", cfg.RateLimitWindow))
	}
	if cfg.RequestTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.MaxRequestSize <= 0 {
		errs = append(errs, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}
	if cfg.ReadTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}

	if len(errs) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, e := range errs {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, e)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"mongo_server_selection_timeout", cfg.MongoServerSelectionTimeout,
		"serverless", cfg.Serverless,
		"port", cfg.Port,
		"allowed_origins", cfg.AllowedOrigins,
		"token_ttl", cfg.TokenTTL,
		"admin_login_email", cfg.AdminLoginEmail,
		"smtp_configured", cfg.SMTPHost != "" && cfg.SMTPUser != "" && cfg.SMTPPass != "",
		"smtp_host", cfg.SMTPHost,
		"smtp_port", cfg.SMTPPort,
		"from_email", cfg.FromEmail,
		"admin_email", cfg.AdminEmail,
		"mail_send_timeout", cfg.MailSendTimeout,
		"blog_storage_configured", cfg.BlogDatabaseURL != "",
		"kafka_brokers", cfg.KafkaBrokers,
		"booking_events_topic", cfg.BookingEventsTopic,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
	)
}

// SMTPConfigured reports whether the mail relay has enough configuration to
// attempt a send. Mirrors the original's host+user+pass check.
func (cfg *Config) SMTPConfigured() bool {
	return cfg.SMTPHost != "" && cfg.SMTPUser != "" && cfg.SMTPPass != ""
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

// sanitizeURI trims whitespace and surrounding quotes that sometimes leak
// in from environment files.
func sanitizeURI(uri string) string {
	uri = strings.TrimSpace(uri)
	if len(uri) >= 2 {
		if (uri[0] == '"' && uri[len(uri)-1] == '"') || (uri[0] == '\'' && uri[len(uri)-1] == '\'') {
			uri = uri[1 : len(uri)-1]
		}
	}
	return uri
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
