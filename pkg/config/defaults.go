package config

import "time"

const (
	DefaultMongoDatabaseName           = "dentalave"
	DefaultMongoConnTimeout            = 10 * time.Second
	DefaultMongoServerSelectionTimeout = 5 * time.Second
	DefaultMongoReadTimeout            = 5 * time.Second
	DefaultMongoWriteTimeout           = 5 * time.Second

	DefaultPort = "8080"

	DefaultLogLevel = "info"

	DefaultAllowedOrigins = "http://localhost:3000,http://localhost:5173"

	DefaultTokenTTL        = 8 * time.Hour
	DefaultAdminLoginEmail = "demo@admin"

	DefaultSMTPPort        = 587
	DefaultFromEmail       = "Dental Avenue <no-reply@dentalavenue.example>"
	DefaultAdminEmail      = "admin@dentalavenue.example"
	DefaultMailSendTimeout = 10 * time.Second

	DefaultBookingEventsTopic = "booking-events"

	DefaultRateLimitRequests = 10
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
)
