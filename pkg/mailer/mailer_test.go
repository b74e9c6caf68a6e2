package mailer

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"gopkg.in/gomail.v2"

	"dentalave/pkg/logger"
	"dentalave/pkg/model"
)

type fakeSender struct {
	mu       sync.Mutex
	messages []*gomail.Message
	sendFn   func(msg *gomail.Message) error
}

func (f *fakeSender) Send(msg *gomail.Message) error {
	f.mu.Lock()
	f.messages = append(f.messages, msg)
	f.mu.Unlock()

	if f.sendFn != nil {
		return f.sendFn(msg)
	}
	return nil
}

func (f *fakeSender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.messages)
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: logger.ERROR, Format: logger.TEXT})
}

func testBooking() *model.Booking {
	return &model.Booking{
		ID:          primitive.NewObjectID(),
		FirstName:   "Jordan",
		LastName:    "Lee",
		Email:       "jordan@example.com",
		Phone:       "+15550100",
		BookingDate: time.Date(2026, 10, 1, 9, 30, 0, 0, time.UTC),
	}
}

func TestNotifySkippedWithoutSender(t *testing.T) {
	d := NewWithSender(nil, "from@example.com", "admin@example.com", time.Second, testLogger())

	outcome := d.Notify(testBooking())
	if !outcome.Skipped {
		t.Error("expected outcome to be skipped")
	}
	if outcome.CustomerSent || outcome.AdminSent {
		t.Error("expected no sends when skipped")
	}
}

func TestNotifySendsBothMessages(t *testing.T) {
	sender := &fakeSender{}
	d := NewWithSender(sender, "from@example.com", "admin@example.com", time.Second, testLogger())

	outcome := d.Notify(testBooking())
	if outcome.Skipped {
		t.Error("expected outcome not to be skipped")
	}
	if !outcome.CustomerSent {
		t.Error("expected customer email to send")
	}
	if !outcome.AdminSent {
		t.Error("expected admin email to send")
	}
	if sender.count() != 2 {
		t.Errorf("expected 2 messages, got %d", sender.count())
	}
}

func TestNotifyOneFailureDoesNotBlockTheOther(t *testing.T) {
	sender := &fakeSender{
		sendFn: func(msg *gomail.Message) error {
			if to := msg.GetHeader("To"); len(to) == 1 && to[0] == "jordan@example.com" {
				return errors.New("mailbox full")
			}
			return nil
		},
	}
	d := NewWithSender(sender, "from@example.com", "admin@example.com", time.Second, testLogger())

	outcome := d.Notify(testBooking())
	if outcome.CustomerSent {
		t.Error("expected customer send to fail")
	}
	if !outcome.AdminSent {
		t.Error("expected admin send to succeed despite customer failure")
	}
}

func TestNotifyTimesOutSlowSends(t *testing.T) {
	block := make(chan struct{})
	defer close(block)

	sender := &fakeSender{
		sendFn: func(*gomail.Message) error {
			<-block
			return nil
		},
	}
	d := NewWithSender(sender, "from@example.com", "admin@example.com", 20*time.Millisecond, testLogger())

	start := time.Now()
	outcome := d.Notify(testBooking())
	elapsed := time.Since(start)

	if outcome.CustomerSent || outcome.AdminSent {
		t.Error("expected both sends to time out")
	}
	if elapsed > time.Second {
		t.Errorf("expected Notify to return promptly, took %s", elapsed)
	}
}

func TestCustomerMessageContent(t *testing.T) {
	d := NewWithSender(&fakeSender{}, "from@example.com", "admin@example.com", time.Second, testLogger())

	t.Run("with location", func(t *testing.T) {
		booking := testBooking()
		booking.Location = "Main Street Clinic"

		msg := d.customerMessage(booking)
		body := messageBody(t, msg)
		if !strings.Contains(body, "Main Street Clinic") {
			t.Errorf("expected body to mention the location, got %q", body)
		}
		if !strings.Contains(body, "2026-10-01T09:30:00Z") {
			t.Errorf("expected body to carry the RFC 3339 date, got %q", body)
		}
	})

	t.Run("location fallback", func(t *testing.T) {
		msg := d.customerMessage(testBooking())
		body := messageBody(t, msg)
		if !strings.Contains(body, "our clinic") {
			t.Errorf("expected fallback location, got %q", body)
		}
	})
}

func TestAdminMessageContent(t *testing.T) {
	d := NewWithSender(&fakeSender{}, "from@example.com", "admin@example.com", time.Second, testLogger())

	msg := d.adminMessage(testBooking())
	if to := msg.GetHeader("To"); len(to) != 1 || to[0] != "admin@example.com" {
		t.Errorf("expected admin recipient, got %v", to)
	}

	body := messageBody(t, msg)
	for _, want := range []string{"Jordan", "Lee", "jordan@example.com", "+15550100"} {
		if !strings.Contains(body, want) {
			t.Errorf("expected body to contain %q, got %q", want, body)
		}
	}
}

func messageBody(t *testing.T, msg *gomail.Message) string {
	t.Helper()
	var sb strings.Builder
	if _, err := msg.WriteTo(&sb); err != nil {
		t.Fatalf("failed to render message: %v", err)
	}
	return sb.String()
}
