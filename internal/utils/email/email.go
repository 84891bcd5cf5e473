package email

import (
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/BladePruebasSC/cloud-loans-web-sub006/internal/config"
	"github.com/BladePruebasSC/cloud-loans-web-sub006/internal/models"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
	send   func(e *email.Email, addr string, auth smtp.Auth) error
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

// SendDigest e-mails a list of new reminders for a company
func (s *Sender) SendDigest(to, company string, items []models.Notification) error {
	if len(items) == 0 {
		return nil
	}

	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = fmt.Sprintf("%d loan reminders need attention", len(items))
	e.Text = []byte(DigestBody(company, items, time.Now()))

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}
	if err := s.send(e, addr, auth); err != nil {
		s.logger.Errorf("Failed to send digest to %s: %v", to, err)
		return fmt.Errorf("failed to send digest: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}

// DigestBody renders the plain-text digest
func DigestBody(company string, items []models.Notification, at time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Reminders for company %s as of %s:\n\n", company, at.Format("2006-01-02 15:04"))
	for _, n := range items {
		fmt.Fprintf(&b, "[%s] %s (%s)\n    %s\n", strings.ToUpper(string(n.Priority)), n.Title, n.DueDate, n.Message)
		if n.Amount > 0 {
			fmt.Fprintf(&b, "    Amount: %.2f\n", n.Amount)
		}
	}
	b.WriteString("\nLoan administration")
	return b.String()
}
