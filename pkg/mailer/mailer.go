package mailer

import (
	"fmt"
	"sync"
	"time"

	"gopkg.in/gomail.v2"

	"dentalave/pkg/config"
	"dentalave/pkg/logger"
	"dentalave/pkg/model"
)

// Sender performs one SMTP delivery. Kept as a single method so tests can
// substitute the relay.
type Sender interface {
	Send(msg *gomail.Message) error
}

type smtpSender struct {
	dialer *gomail.Dialer
}

func (s *smtpSender) Send(msg *gomail.Message) error {
	return s.dialer.DialAndSend(msg)
}

// Outcome records what happened to each message of a notification. It is
// informational only; no caller may fail a booking because of it.
type Outcome struct {
	Skipped      bool `json:"skipped"`
	CustomerSent bool `json:"customerSent"`
	AdminSent    bool `json:"adminSent"`
}

// Dispatcher sends the two best-effort booking emails: a confirmation to
// the customer and an alert to the clinic admin. Each send is independent,
// bounded by sendTimeout, and only ever logged on failure.
type Dispatcher struct {
	sender      Sender
	from        string
	adminEmail  string
	sendTimeout time.Duration
	log         *logger.Logger
}

func New(cfg *config.Config) *Dispatcher {
	d := &Dispatcher{
		from:        cfg.FromEmail,
		adminEmail:  cfg.AdminEmail,
		sendTimeout: cfg.MailSendTimeout,
		log:         cfg.Log,
	}

	if cfg.SMTPConfigured() {
		d.sender = &smtpSender{
			dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass),
		}
	}

	return d
}

// NewWithSender is used by tests and by callers that already own a relay.
func NewWithSender(sender Sender, from, adminEmail string, sendTimeout time.Duration, log *logger.Logger) *Dispatcher {
	return &Dispatcher{
		sender:      sender,
		from:        from,
		adminEmail:  adminEmail,
		sendTimeout: sendTimeout,
		log:         log,
	}
}

// Notify attempts both messages concurrently and waits at most sendTimeout
// per message. A failure in either send never reaches the caller.
func (d *Dispatcher) Notify(booking *model.Booking) Outcome {
	if d.sender == nil {
		d.log.Warn("SMTP not configured, skipped booking emails", "booking_id", booking.ID.Hex())
		return Outcome{Skipped: true}
	}

	var outcome Outcome
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		outcome.CustomerSent = d.send("customer confirmation", booking, d.customerMessage(booking))
	}()
	go func() {
		defer wg.Done()
		outcome.AdminSent = d.send("admin alert", booking, d.adminMessage(booking))
	}()

	wg.Wait()
	return outcome
}

func (d *Dispatcher) send(label string, booking *model.Booking, msg *gomail.Message) bool {
	errCh := make(chan error, 1)
	go func() {
		errCh <- d.sender.Send(msg)
	}()

	timer := time.NewTimer(d.sendTimeout)
	defer timer.Stop()

	select {
	case err := <-errCh:
		if err != nil {
			d.log.Error("Failed to send "+label+" email", "booking_id", booking.ID.Hex(), "error", err)
			return false
		}
		d.log.Info("Sent "+label+" email", "booking_id", booking.ID.Hex())
		return true
	case <-timer.C:
		d.log.Error("Timed out sending "+label+" email", "booking_id", booking.ID.Hex(), "timeout", d.sendTimeout)
		return false
	}
}

func (d *Dispatcher) customerMessage(booking *model.Booking) *gomail.Message {
	location := booking.Location
	if location == "" {
		location = "our clinic"
	}
	date := booking.BookingDate.Format(time.RFC3339)

	msg := gomail.NewMessage()
	msg.SetHeader("From", d.from)
	msg.SetHeader("To", booking.Email)
	msg.SetHeader("Reply-To", d.adminEmail)
	msg.SetHeader("Subject", "Your booking is confirmed - Dental Avenue")
	msg.SetBody("text/plain", fmt.Sprintf(
		"Hi %s,\n\nYour booking for %s at %s is confirmed.\n\nThanks,\nDental Avenue",
		booking.FirstName, date, location,
	))
	msg.AddAlternative("text/html", fmt.Sprintf(
		"<p>Hi <strong>%s</strong>,</p><p>Your booking for <strong>%s</strong> at <strong>%s</strong> is confirmed.</p><p>Thanks,<br/>Dental Avenue</p>",
		booking.FirstName, date, location,
	))
	return msg
}

func (d *Dispatcher) adminMessage(booking *model.Booking) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", d.from)
	msg.SetHeader("To", d.adminEmail)
	msg.SetHeader("Subject", "New booking received")
	msg.SetBody("text/plain", fmt.Sprintf(
		"A new booking has been made by %s %s (%s). Please contact them at %s.",
		booking.FirstName, booking.LastName, booking.Email, booking.Phone,
	))
	return msg
}
