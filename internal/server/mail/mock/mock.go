// Package mock provides a recording Mailer for tests.
package mock

import (
	"context"
	"sync"
)

// Sent captures a single delivered reset message.
type Sent struct {
	To       string
	RawToken string
}

// MailerMock records every send; Err (when set) is returned instead.
type MailerMock struct {
	mu   sync.Mutex
	sent []Sent

	Err error
}

func (m *MailerMock) SendPasswordReset(ctx context.Context, to string, rawToken string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.sent = append(m.sent, Sent{To: to, RawToken: rawToken})
	return nil
}

// Messages returns a copy of everything delivered so far.
func (m *MailerMock) Messages() []Sent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Sent(nil), m.sent...)
}
