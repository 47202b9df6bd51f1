// Package notification delivers fetch-failure alert mail to the administrator.
package notification

import (
	"context"
	"fmt"
	"time"

	"indiamart_bridge/platform/config"
	"indiamart_bridge/platform/logger"

	gomail "github.com/wneessen/go-mail"
)

const alertSubject = "IndiaMART lead fetch failed"

// SMTPNotifier sends plain-text alert mail over the configured SMTP server.
type SMTPNotifier struct {
	host      string
	port      int
	username  string
	password  string
	fromEmail string
	toEmail   string
	log       *logger.Logger
}

// NewSMTPNotifier creates a notifier from the alert configuration, or nil when
// alerting is not configured. Callers treat a nil notifier as disabled.
func NewSMTPNotifier(cfg config.AlertConfig, log *logger.Logger) *SMTPNotifier {
	if !cfg.IsAlertEnabled() {
		return nil
	}

	return &SMTPNotifier{
		host:      cfg.GetAlertSMTPHost(),
		port:      cfg.GetAlertSMTPPort(),
		username:  cfg.GetAlertSMTPUsername(),
		password:  cfg.GetAlertSMTPPassword(),
		fromEmail: cfg.GetAlertFromAddress(),
		toEmail:   cfg.GetAlertToAddress(),
		log:       log,
	}
}

// SendFetchFailureAlert mails the failure message to the configured recipient.
func (n *SMTPNotifier) SendFetchFailureAlert(ctx context.Context, message string) error {
	msg := gomail.NewMsg()
	if err := msg.From(n.fromEmail); err != nil {
		return fmt.Errorf("alert from: %w", err)
	}
	if err := msg.To(n.toEmail); err != nil {
		return fmt.Errorf("alert to: %w", err)
	}
	msg.Subject(alertSubject)
	msg.SetBodyString(gomail.TypeTextPlain, fmt.Sprintf(
		"The scheduled IndiaMART lead fetch failed.\n\nReason: %s\n\nCheck the fetch logs for details.\n", message))

	client, err := gomail.NewClient(n.host,
		gomail.WithPort(n.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(n.username),
		gomail.WithPassword(n.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
	)
	if err != nil {
		return fmt.Errorf("alert smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("alert smtp send: %w", err)
	}

	n.log.Info("fetch failure alert sent", "to", n.toEmail)
	return nil
}
