package leads

import "strings"

// MaxMessageLength bounds the contact message.
const MaxMessageLength = 5000

// ContactRequest is the body of POST /api/contact.
type ContactRequest struct {
	Message      string `json:"message"`
	Email        string `json:"email"`
	Plan         string `json:"plan,omitempty"`
	Subscription bool   `json:"subscription,omitempty"`
	Honey        string `json:"honey,omitempty"`
}

// Honeypot reports whether the hidden spam field was filled in.
func (r *ContactRequest) Honeypot() bool {
	return strings.TrimSpace(r.Honey) != ""
}

// Validate returns the first validation failure, or nil.
func (r *ContactRequest) Validate() error {
	return Check(
		Field{Name: "message", Value: r.Message, Validators: []Validator{
			Required("Message is required"),
		}},
		Field{Name: "email", Value: r.Email, Validators: []Validator{
			Required("Reply email is required"),
			Email("Reply email is required"),
		}},
		Field{Name: "message", Value: r.Message, Validators: []Validator{
			MaxLength(MaxMessageLength, "Message is too long"),
		}},
	)
}
