package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/jwalitptl/hms-api/internal/config"
	"github.com/jwalitptl/hms-api/internal/model"
)

// Service sends appointment notifications. Delivery is best-effort;
// callers log failures and never fail the request on them.
type Service interface {
	SendBookingConfirmation(ctx context.Context, to string, apt *model.Appointment) error
	SendCancellation(ctx context.Context, to string, apt *model.Appointment) error
}

func NewService(cfg config.EmailConfig) Service {
	if cfg.Host == "" {
		return &noopService{}
	}
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

type smtpService struct {
	dialer *gomail.Dialer
	from   string
}

func (s *smtpService) SendBookingConfirmation(ctx context.Context, to string, apt *model.Appointment) error {
	body := fmt.Sprintf(
		"Your appointment on %s (%d minutes) has been booked.",
		apt.DateTime.Format("Mon, 02 Jan 2006 15:04 MST"),
		apt.Duration,
	)
	return s.send(to, "Appointment confirmed", body)
}

func (s *smtpService) SendCancellation(ctx context.Context, to string, apt *model.Appointment) error {
	body := fmt.Sprintf(
		"Your appointment on %s has been canceled.",
		apt.DateTime.Format("Mon, 02 Jan 2006 15:04 MST"),
	)
	return s.send(to, "Appointment canceled", body)
}

func (s *smtpService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// noopService is used when SMTP is not configured.
type noopService struct{}

func (*noopService) SendBookingConfirmation(context.Context, string, *model.Appointment) error {
	return nil
}

func (*noopService) SendCancellation(context.Context, string, *model.Appointment) error {
	return nil
}
