package main

import (
	"context"

	authhandler "dentalave/internal/auth/handler"
	authservice "dentalave/internal/auth/service"
	bookinghandler "dentalave/internal/bookings/handler"
	bookingrepository "dentalave/internal/bookings/repository"
	bookingservice "dentalave/internal/bookings/service"
	bookingvalidator "dentalave/internal/bookings/validator"
	bloghandler "dentalave/internal/blogs/handler"
	blogrepository "dentalave/internal/blogs/repository"
	blogservice "dentalave/internal/blogs/service"
	healthhandler "dentalave/internal/health/handler"
	"dentalave/pkg/app"
	"dentalave/pkg/client"
	"dentalave/pkg/config"
	"dentalave/pkg/contracts"
	"dentalave/pkg/events"
	"dentalave/pkg/mailer"
)

const serviceName = "dentalave-api"

func main() {
	cfg := config.Load(serviceName)
	log := cfg.Log

	manager := client.NewManager(cfg)
	dispatcher := mailer.New(cfg)
	publisher := events.NewPublisher(cfg, serviceName)

	blogRepo, err := blogrepository.NewBlogRepository(cfg.BlogDatabaseURL, log)
	if err != nil {
		log.Fatal("Failed to open blog database", "error", err)
	}

	authSvc := authservice.New(authservice.Config{
		JWTSecret:     cfg.JWTSecret,
		TokenTTL:      cfg.TokenTTL,
		AdminEmail:    cfg.AdminLoginEmail,
		AdminPassword: cfg.AdminLoginPassword,
	}, log)

	bookingRepo := bookingrepository.NewBookingRepository(manager, cfg.MongoReadTimeout, cfg.MongoWriteTimeout, log)
	bookingSvc := bookingservice.NewBookingService(
		manager,
		bookingRepo,
		bookingvalidator.NewBookingValidator(),
		dispatcher,
		publisher,
		log,
	)

	blogSvc := blogservice.NewBlogService(blogRepo, log)

	handlers := []contracts.Handler{
		healthhandler.NewHealthHandler(manager, log),
		authhandler.NewAuthHandler(authSvc, log),
		bookinghandler.NewBookingHandler(bookingSvc, authSvc, log),
		bloghandler.NewBlogHandler(blogSvc, authSvc, log),
	}

	application := app.New(cfg, handlers,
		func(ctx context.Context) error { return manager.Disconnect(ctx) },
		func(context.Context) error { return publisher.Close() },
		func(context.Context) error { return blogRepo.Close() },
	)

	if err := application.Run(); err != nil {
		log.Fatal("Server failed", "error", err)
	}
}
