package mocks

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"gitlab.com/verimail/verimail-backend/internal/domain/mails"
)

type MockMailSender struct {
	mu        sync.Mutex
	sentMails []mails.Payload
}

func NewMockMailSender() *MockMailSender {
	return &MockMailSender{
		sentMails: make([]mails.Payload, 0),
	}
}

func (m *MockMailSender) SendMail(ctx context.Context, payload mails.Payload) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sentMails = append(m.sentMails, mails.Payload{
		To:      payload.To,
		Subject: payload.Subject,
		Body:    payload.Body,
	})
	fmt.Printf("Mock mail sent to %s with subject: %s\n", payload.To, payload.Subject)
	fmt.Printf("Mail body: %s\n", payload.Body)
	return nil
}

func (m *MockMailSender) GetSentMails() []mails.Payload {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]mails.Payload{}, m.sentMails...)
}

func (m *MockMailSender) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sentMails = make([]mails.Payload, 0)
}

func (m *MockMailSender) AssertMailSent(t *testing.T, email, subject string) {
	t.Helper()

	mailsSent := m.GetSentMails()
	for _, sent := range mailsSent {
		if sent.To == email && strings.Contains(sent.Subject, subject) {
			return
		}
	}
	t.Errorf("Expected mail to %s with subject containing %s not found", email, subject)
}

func (m *MockMailSender) AssertNoMailSent(t *testing.T) {
	t.Helper()

	if count := len(m.GetSentMails()); count != 0 {
		t.Errorf("Expected no mails to be sent, but %d were", count)
	}
}
