// Package testutil provides in-memory fakes for the portfolio API tests.
package testutil

import (
	"context"
	"fmt"
	"sync"
)

// SentMail records one delivery attempt accepted by the fake sender.
type SentMail struct {
	To      string
	Subject string
	Body    string
}

// FakeSender is an in-memory mailer.Sender that records sends and can be
// programmed to fail for specific recipients or attempt indices.
type FakeSender struct {
	mu sync.Mutex

	// Sent holds the successful deliveries in order.
	Sent []SentMail

	// FailTo makes sends to these addresses fail.
	FailTo map[string]bool

	// FailAttempts makes the nth send attempt fail (1-based).
	FailAttempts map[int]bool

	attempts int
}

// NewFakeSender creates an always-succeeding fake sender.
func NewFakeSender() *FakeSender {
	return &FakeSender{
		FailTo:       make(map[string]bool),
		FailAttempts: make(map[int]bool),
	}
}

// Send records the attempt and fails when programmed to.
func (f *FakeSender) Send(_ context.Context, to, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.attempts++
	if f.FailTo[to] || f.FailAttempts[f.attempts] {
		return fmt.Errorf("simulated send failure to %s", to)
	}

	f.Sent = append(f.Sent, SentMail{To: to, Subject: subject, Body: body})
	return nil
}

// Attempts returns the total number of send attempts, failed ones included.
func (f *FakeSender) Attempts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attempts
}
