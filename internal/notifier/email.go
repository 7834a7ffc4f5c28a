package notifier

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/pfrederiksen/sportcast/internal/config"
	"github.com/pfrederiksen/sportcast/internal/logger"
	"github.com/pfrederiksen/sportcast/internal/qualify"
)

// EmailNotifier delivers qualification reports over SMTP.
type EmailNotifier struct {
	dialer    *gomail.Dialer
	sender    string
	recipient string
	log       *logger.Logger
}

// NewEmailNotifier creates an EmailNotifier from config. Credentials must
// already have been validated at startup.
func NewEmailNotifier(cfg *config.Config, log *logger.Logger) (*EmailNotifier, error) {
	if cfg.SMTPUser == "" || cfg.SMTPPassword == "" || cfg.Recipient == "" {
		return nil, fmt.Errorf("missing SMTP credentials or recipient")
	}

	dialer := gomail.NewDialer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTPUser, cfg.SMTPPassword)

	return &EmailNotifier{
		dialer:    dialer,
		sender:    cfg.SMTPUser,
		recipient: cfg.Recipient,
		log:       log,
	}, nil
}

// Notify sends the qualified-events report.
func (n *EmailNotifier) Notify(qualified []qualify.QualifiedEvent) error {
	if len(qualified) == 0 {
		return n.NotifyEmpty()
	}
	return n.send(formatSubject(len(qualified)), formatHTML(qualified))
}

// NotifyEmpty sends the distinct "no qualifying events" message.
func (n *EmailNotifier) NotifyEmpty() error {
	return n.send(emptySubject, formatEmptyHTML())
}

func (n *EmailNotifier) send(subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", n.sender)
	m.SetHeader("To", n.recipient)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := n.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}

	n.log.Info("email sent", logger.Fields{
		"recipient": n.recipient,
		"subject":   subject,
	})
	return nil
}
