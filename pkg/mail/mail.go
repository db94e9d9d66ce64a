package mail

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrNoRecipients is returned when a message has no To address.
var ErrNoRecipients = errors.New("mail: no recipients")

// ErrNoSender is returned when a message has no From address.
var ErrNoSender = errors.New("mail: no sender")

// Message is an outgoing email.
type Message struct {
	From        string
	To          []string
	ReplyTo     string
	Subject     string
	HTML        string
	Text        string
	Attachments []Attachment

	// IdempotencyKey deduplicates sends on the provider side. The client
	// generates one when empty.
	IdempotencyKey string
}

// Attachment is a file attached to a Message.
type Attachment struct {
	Filename    string
	Content     []byte
	ContentType string
}

// Validate checks the fields every provider requires.
func (m Message) Validate() error {
	if m.From == "" {
		return ErrNoSender
	}
	if len(m.To) == 0 {
		return ErrNoRecipients
	}
	return nil
}

// Sender delivers messages.
type Sender interface {
	// Send delivers m and returns the provider's message id.
	Send(ctx context.Context, m Message) (id string, err error)
}

// APIError is a non-2xx response from the provider.
type APIError struct {
	StatusCode int
	Name       string
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("mail: provider returned %d %s: %s", e.StatusCode, e.Name, e.Message)
	}
	return fmt.Sprintf("mail: provider returned %d: %s", e.StatusCode, e.Message)
}

// Recorder is an in-memory Sender. It keeps every message it is given and
// returns Err, if set, instead of accepting them.
type Recorder struct {
	mu   sync.Mutex
	sent []Message

	// Err is returned by Send when non-nil.
	Err error
}

// Send implements Sender.
func (r *Recorder) Send(ctx context.Context, m Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := m.Validate(); err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return "", r.Err
	}
	r.sent = append(r.sent, m)
	return fmt.Sprintf("recorded-%d", len(r.sent)), nil
}

// Sent returns a copy of the accepted messages.
func (r *Recorder) Sent() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.sent...)
}

// Count returns how many messages were accepted.
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}
