package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/directauto/lead-intake/internal/config"
	"github.com/directauto/lead-intake/internal/leads"
	"github.com/directauto/lead-intake/pkg/logging"
)

// Notifier alerts a human about a stored lead. Failures are logged by the
// intake pipeline and never alter the client response.
type Notifier interface {
	NotifyLead(ctx context.Context, rec *leads.Record) error
}

// Noop is the notifier selected when no alert channel is configured.
type Noop struct{}

// NotifyLead does nothing.
func (Noop) NotifyLead(context.Context, *leads.Record) error { return nil }

// SMSSender sends a single text message to an operator.
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

// Service fans a new-lead alert out to whichever channels are configured.
type Service struct {
	sms            SMSSender
	smsRecipient   string
	email          EmailSender
	emailRecipient string
	logger         *logging.Logger
}

// NewService builds a notification service. Either channel may be nil.
func NewService(sms SMSSender, smsRecipient string, email EmailSender, emailRecipient string, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		sms:            sms,
		smsRecipient:   smsRecipient,
		email:          email,
		emailRecipient: emailRecipient,
		logger:         logger,
	}
}

var _ Notifier = (*Service)(nil)
var _ Notifier = Noop{}

// NotifyLead composes a short alert from the stored record and sends it on
// every configured channel. Per-channel failures are collected so the caller
// can log them; a failure on one channel does not stop the other.
func (s *Service) NotifyLead(ctx context.Context, rec *leads.Record) error {
	body := composeAlert(rec)

	var errs []error

	if s.sms != nil && s.smsRecipient != "" {
		if err := s.sms.SendSMS(ctx, s.smsRecipient, body); err != nil {
			s.logger.Error("notify: lead alert SMS failed", "error", err, "to", s.smsRecipient)
			errs = append(errs, err)
		} else {
			s.logger.Info("notify: lead alert SMS sent", "to", s.smsRecipient)
		}
	}

	if s.email != nil && s.emailRecipient != "" {
		msg := EmailMessage{
			To:      s.emailRecipient,
			Subject: fmt.Sprintf("New lead: %s", leadName(rec)),
			Body:    body,
		}
		if err := s.email.Send(ctx, msg); err != nil {
			s.logger.Error("notify: lead alert email failed", "error", err, "to", s.emailRecipient)
			errs = append(errs, err)
		} else {
			s.logger.Info("notify: lead alert email sent", "to", s.emailRecipient)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("notify: %d alert(s) failed", len(errs))
	}
	return nil
}

// composeAlert renders the heat tier, name, phone, and AI summary into a
// short operator-facing message.
func composeAlert(rec *leads.Record) string {
	var b strings.Builder

	if rec.Heat != nil {
		fmt.Fprintf(&b, "[%s] ", *rec.Heat)
	}
	fmt.Fprintf(&b, "New lead: %s", leadName(rec))
	if rec.Phone != nil {
		fmt.Fprintf(&b, " (%s)", *rec.Phone)
	}
	if rec.ContactMethod != nil {
		fmt.Fprintf(&b, ". Prefers %s", *rec.ContactMethod)
	}
	if rec.AISummary != nil {
		fmt.Fprintf(&b, ". %s", *rec.AISummary)
	}
	return b.String()
}

func leadName(rec *leads.Record) string {
	var parts []string
	if rec.FirstName != nil {
		parts = append(parts, *rec.FirstName)
	}
	if rec.LastName != nil {
		parts = append(parts, *rec.LastName)
	}
	if len(parts) == 0 {
		return "(no name)"
	}
	return strings.Join(parts, " ")
}

// FromConfig selects a notifier based on which alert credentials are present.
// SMS requires all four Twilio values; email requires the SendGrid trio.
// With neither configured the no-op notifier is returned.
func FromConfig(cfg *config.Config, logger *logging.Logger) Notifier {
	if logger == nil {
		logger = logging.Default()
	}

	var sms SMSSender
	var smsTo string
	if cfg.SMSConfigured() {
		sms = NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber, logger)
		smsTo = cfg.AlertPhoneNumber
	}

	var email EmailSender
	var emailTo string
	if cfg.EmailConfigured() {
		email = NewSendGridSender(SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger)
		emailTo = cfg.AlertEmail
	}

	if sms == nil && email == nil {
		logger.Info("notify: no alert channel configured, notifications disabled")
		return Noop{}
	}
	return NewService(sms, smsTo, email, emailTo, logger)
}
