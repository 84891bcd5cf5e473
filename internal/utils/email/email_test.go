package email

import (
	"errors"
	"io"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/BladePruebasSC/cloud-loans-web-sub006/internal/config"
	"github.com/BladePruebasSC/cloud-loans-web-sub006/internal/models"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

func newTestSender(send func(e *email.Email, addr string, auth smtp.Auth) error) *Sender {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	s := NewSender(&config.Config{
		SMTPHost:    "smtp.example.com",
		SMTPPort:    "2525",
		SenderEmail: "loans@example.com",
	}, logger)
	s.send = send
	return s
}

var digestItems = []models.Notification{
	{Priority: models.PriorityHigh, Title: "Overdue payment: Ana", Message: "Payment is 3 days overdue", DueDate: "2024-05-01", Amount: 250},
	{Priority: models.PriorityHigh, Title: "Collection follow-up: Luis", Message: "Follow-up call scheduled for today", DueDate: "2024-05-04"},
}

func TestSendDigest(t *testing.T) {
	var got *email.Email
	var gotAddr string
	s := newTestSender(func(e *email.Email, addr string, auth smtp.Auth) error {
		got, gotAddr = e, addr
		if auth != nil {
			t.Error("auth should be nil without SMTP username")
		}
		return nil
	})

	if err := s.SendDigest("ops@example.com", "acme", digestItems); err != nil {
		t.Fatalf("SendDigest() error: %v", err)
	}
	if gotAddr != "smtp.example.com:2525" {
		t.Errorf("addr = %q, want smtp.example.com:2525", gotAddr)
	}
	if got.Subject != "2 loan reminders need attention" {
		t.Errorf("Subject = %q", got.Subject)
	}
	if got.From != "loans@example.com" || len(got.To) != 1 || got.To[0] != "ops@example.com" {
		t.Errorf("From/To = %q/%v", got.From, got.To)
	}
}

func TestSendDigest_Empty(t *testing.T) {
	s := newTestSender(func(*email.Email, string, smtp.Auth) error {
		t.Error("send should not be called")
		return nil
	})
	if err := s.SendDigest("ops@example.com", "acme", nil); err != nil {
		t.Errorf("SendDigest() error: %v", err)
	}
}

func TestSendDigest_Error(t *testing.T) {
	s := newTestSender(func(*email.Email, string, smtp.Auth) error {
		return errors.New("dial tcp: refused")
	})
	if err := s.SendDigest("ops@example.com", "acme", digestItems); err == nil {
		t.Error("expected error")
	}
}

func TestDigestBody(t *testing.T) {
	body := DigestBody("acme", digestItems, time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC))
	for _, want := range []string{
		"company acme as of 2024-05-01 09:30",
		"[HIGH] Overdue payment: Ana (2024-05-01)",
		"Amount: 250.00",
		"Follow-up call scheduled for today",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q:\n%s", want, body)
		}
	}
}
