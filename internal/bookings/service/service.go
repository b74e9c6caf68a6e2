package service

import (
	"context"
	"time"

	"dentalave/pkg/events"
	"dentalave/pkg/logger"
	"dentalave/pkg/mailer"
	"dentalave/pkg/model"
)

// ConnectionEnsurer establishes the database connection before any
// validation runs, so a misconfigured deployment fails with a config error
// rather than a misleading validation one.
type ConnectionEnsurer interface {
	EnsureReady(ctx context.Context) error
}

type Repository interface {
	Create(ctx context.Context, booking *model.Booking) (*model.Booking, error)
	FindAll(ctx context.Context) ([]model.Booking, error)
}

type Validator interface {
	ValidateRequest(req *model.BookingRequest) (time.Time, error)
}

type Notifier interface {
	Notify(booking *model.Booking) mailer.Outcome
}

type Auditor interface {
	Publish(ctx context.Context, event events.BookingEvent)
}

type BookingService struct {
	ensurer    ConnectionEnsurer
	repository Repository
	validator  Validator
	notifier   Notifier
	auditor    Auditor
	log        *logger.Logger
}

func NewBookingService(
	ensurer ConnectionEnsurer,
	repository Repository,
	validator Validator,
	notifier Notifier,
	auditor Auditor,
	log *logger.Logger,
) *BookingService {
	return &BookingService{
		ensurer:    ensurer,
		repository: repository,
		validator:  validator,
		notifier:   notifier,
		auditor:    auditor,
		log:        log,
	}
}

// Create connects, validates, persists, then notifies. Notification and
// audit failures never surface to the caller; the booking is confirmed the
// moment it is persisted.
func (s *BookingService) Create(ctx context.Context, req *model.BookingRequest) (*model.Booking, error) {
	if err := s.ensurer.EnsureReady(ctx); err != nil {
		return nil, err
	}

	date, err := s.validator.ValidateRequest(req)
	if err != nil {
		return nil, err
	}

	booking := &model.Booking{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Phone:       req.Phone,
		Location:    req.Location,
		BookingDate: date,
	}

	booking, err = s.repository.Create(ctx, booking)
	if err != nil {
		return nil, err
	}

	s.auditor.Publish(ctx, events.BookingEvent{
		Type:      events.TypeBookingCreated,
		BookingID: booking.ID.Hex(),
		Email:     booking.Email,
	})

	outcome := s.notifier.Notify(booking)
	if !outcome.Skipped && !outcome.CustomerSent {
		s.log.Warn("Booking confirmed without customer email", "booking_id", booking.ID.Hex())
	}

	s.auditor.Publish(ctx, events.BookingEvent{
		Type:         events.TypeBookingNotified,
		BookingID:    booking.ID.Hex(),
		Email:        booking.Email,
		Skipped:      outcome.Skipped,
		CustomerSent: outcome.CustomerSent,
		AdminSent:    outcome.AdminSent,
	})

	return booking, nil
}

// List returns all bookings, newest first.
func (s *BookingService) List(ctx context.Context) ([]model.Booking, error) {
	if err := s.ensurer.EnsureReady(ctx); err != nil {
		return nil, err
	}

	return s.repository.FindAll(ctx)
}
