package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "dentalave/pkg/errors"
	"dentalave/pkg/events"
	"dentalave/pkg/logger"
	"dentalave/pkg/mailer"
	"dentalave/pkg/model"
)

type mockEnsurer struct {
	err   error
	calls int
}

func (m *mockEnsurer) EnsureReady(context.Context) error {
	m.calls++
	return m.err
}

type mockRepository struct {
	createFn  func(ctx context.Context, booking *model.Booking) (*model.Booking, error)
	findAllFn func(ctx context.Context) ([]model.Booking, error)
	created   []*model.Booking
}

func (m *mockRepository) Create(ctx context.Context, booking *model.Booking) (*model.Booking, error) {
	m.created = append(m.created, booking)
	if m.createFn != nil {
		return m.createFn(ctx, booking)
	}
	booking.ID = primitive.NewObjectID()
	return booking, nil
}

func (m *mockRepository) FindAll(ctx context.Context) ([]model.Booking, error) {
	if m.findAllFn != nil {
		return m.findAllFn(ctx)
	}
	return []model.Booking{}, nil
}

type mockValidator struct {
	date time.Time
	err  error
}

func (m *mockValidator) ValidateRequest(*model.BookingRequest) (time.Time, error) {
	return m.date, m.err
}

type mockNotifier struct {
	outcome mailer.Outcome
	calls   int
}

func (m *mockNotifier) Notify(*model.Booking) mailer.Outcome {
	m.calls++
	return m.outcome
}

type mockAuditor struct {
	published []events.BookingEvent
}

func (m *mockAuditor) Publish(_ context.Context, event events.BookingEvent) {
	m.published = append(m.published, event)
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: logger.ERROR, Format: logger.TEXT})
}

func validRequest() *model.BookingRequest {
	return &model.BookingRequest{
		FirstName: "Jordan",
		LastName:  "Lee",
		Email:     "jordan@example.com",
		Phone:     "+15550100",
		Date:      "2026-10-01T09:30:00Z",
	}
}

func TestCreateHappyPath(t *testing.T) {
	ensurer := &mockEnsurer{}
	repo := &mockRepository{}
	notifier := &mockNotifier{outcome: mailer.Outcome{CustomerSent: true, AdminSent: true}}
	auditor := &mockAuditor{}
	date := time.Date(2026, 10, 1, 9, 30, 0, 0, time.UTC)

	svc := NewBookingService(ensurer, repo, &mockValidator{date: date}, notifier, auditor, testLogger())

	booking, err := svc.Create(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.ID.IsZero() {
		t.Error("expected booking id to be set")
	}
	if !booking.BookingDate.Equal(date) {
		t.Errorf("expected booking date %v, got %v", date, booking.BookingDate)
	}
	if notifier.calls != 1 {
		t.Errorf("expected 1 notification, got %d", notifier.calls)
	}
	if len(auditor.published) != 2 {
		t.Fatalf("expected 2 audit events, got %d", len(auditor.published))
	}
	if auditor.published[0].Type != events.TypeBookingCreated {
		t.Errorf("expected first event %s, got %s", events.TypeBookingCreated, auditor.published[0].Type)
	}
	if auditor.published[1].Type != events.TypeBookingNotified {
		t.Errorf("expected second event %s, got %s", events.TypeBookingNotified, auditor.published[1].Type)
	}
	if !auditor.published[1].CustomerSent || !auditor.published[1].AdminSent {
		t.Error("expected notified event to record both sends")
	}
}

func TestCreateConnectionFailureShortCircuits(t *testing.T) {
	ensurer := &mockEnsurer{err: apperrors.Config("MONGO_URI environment variable is not set", nil)}
	repo := &mockRepository{}
	notifier := &mockNotifier{}

	svc := NewBookingService(ensurer, repo, &mockValidator{}, notifier, &mockAuditor{}, testLogger())

	_, err := svc.Create(context.Background(), validRequest())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeConfig {
		t.Errorf("expected code %s, got %s", apperrors.CodeConfig, appErr.Code)
	}
	if len(repo.created) != 0 {
		t.Error("expected no persistence attempt")
	}
	if notifier.calls != 0 {
		t.Error("expected no notification attempt")
	}
}

func TestCreateValidationFailureDoesNotPersist(t *testing.T) {
	ensurer := &mockEnsurer{}
	repo := &mockRepository{}
	notifier := &mockNotifier{}
	validationErr := apperrors.Validation("Missing required fields", map[string]any{"email": "is required"})

	svc := NewBookingService(ensurer, repo, &mockValidator{err: validationErr}, notifier, &mockAuditor{}, testLogger())

	_, err := svc.Create(context.Background(), validRequest())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if ensurer.calls != 1 {
		t.Error("expected connection to be established before validation")
	}
	if len(repo.created) != 0 {
		t.Error("expected no persistence attempt")
	}
	if notifier.calls != 0 {
		t.Error("expected no notification attempt")
	}
}

func TestCreateSucceedsWhenNotificationSkipped(t *testing.T) {
	notifier := &mockNotifier{outcome: mailer.Outcome{Skipped: true}}
	auditor := &mockAuditor{}

	svc := NewBookingService(&mockEnsurer{}, &mockRepository{}, &mockValidator{}, notifier, auditor, testLogger())

	booking, err := svc.Create(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.ID.IsZero() {
		t.Error("expected booking id to be set")
	}
	if !auditor.published[1].Skipped {
		t.Error("expected notified event to record the skip")
	}
}

func TestCreateSucceedsWhenEmailsFail(t *testing.T) {
	notifier := &mockNotifier{outcome: mailer.Outcome{}}

	svc := NewBookingService(&mockEnsurer{}, &mockRepository{}, &mockValidator{}, notifier, &mockAuditor{}, testLogger())

	if _, err := svc.Create(context.Background(), validRequest()); err != nil {
		t.Fatalf("expected booking to succeed despite failed emails: %v", err)
	}
}

func TestCreatePersistenceFailureSkipsNotification(t *testing.T) {
	repo := &mockRepository{
		createFn: func(context.Context, *model.Booking) (*model.Booking, error) {
			return nil, apperrors.Persistence("Failed to save booking", errors.New("write concern error"))
		},
	}
	notifier := &mockNotifier{}
	auditor := &mockAuditor{}

	svc := NewBookingService(&mockEnsurer{}, repo, &mockValidator{}, notifier, auditor, testLogger())

	_, err := svc.Create(context.Background(), validRequest())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if notifier.calls != 0 {
		t.Error("expected no notification for failed persistence")
	}
	if len(auditor.published) != 0 {
		t.Error("expected no audit events for failed persistence")
	}
}

func TestListReturnsNewestFirst(t *testing.T) {
	older := model.Booking{FirstName: "First", CreatedAt: time.Now().Add(-time.Hour)}
	newer := model.Booking{FirstName: "Second", CreatedAt: time.Now()}

	repo := &mockRepository{
		findAllFn: func(context.Context) ([]model.Booking, error) {
			return []model.Booking{newer, older}, nil
		},
	}

	svc := NewBookingService(&mockEnsurer{}, repo, &mockValidator{}, &mockNotifier{}, &mockAuditor{}, testLogger())

	bookings, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bookings) != 2 {
		t.Fatalf("expected 2 bookings, got %d", len(bookings))
	}
	if bookings[0].FirstName != "Second" {
		t.Errorf("expected newest booking first, got %s", bookings[0].FirstName)
	}
}

func TestListConnectionFailure(t *testing.T) {
	ensurer := &mockEnsurer{err: apperrors.Unavailable("database", errors.New("dial timeout"))}

	svc := NewBookingService(ensurer, &mockRepository{}, &mockValidator{}, &mockNotifier{}, &mockAuditor{}, testLogger())

	_, err := svc.List(context.Background())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if appErr := apperrors.AsAppError(err); appErr.StatusCode() != 503 {
		t.Errorf("expected status 503, got %d", appErr.StatusCode())
	}
}

func TestListEmptyCollection(t *testing.T) {
	svc := NewBookingService(&mockEnsurer{}, &mockRepository{}, &mockValidator{}, &mockNotifier{}, &mockAuditor{}, testLogger())

	bookings, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bookings == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(bookings) != 0 {
		t.Errorf("expected 0 bookings, got %d", len(bookings))
	}
}
