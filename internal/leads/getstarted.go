package leads

import (
	"encoding/base64"
	"fmt"
	"path"
	"strings"
)

// Attachment limits for POST /api/get-started.
const (
	MaxAttachments     = 5
	MaxAttachmentBytes = 5 << 20
	MaxTotalBytes      = 10 << 20
)

// AttachmentInput is an uploaded file as sent by the browser.
type AttachmentInput struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
	Type     string `json:"type"`
}

// Attachment is a decoded upload.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// GetStartedRequest is the body of POST /api/get-started.
type GetStartedRequest struct {
	BusinessName string            `json:"businessName"`
	ContactName  string            `json:"contactName"`
	Email        string            `json:"email"`
	Phone        string            `json:"phone,omitempty"`
	Website      string            `json:"website,omitempty"`
	Industry     string            `json:"industry,omitempty"`
	Services     []string          `json:"services,omitempty"`
	Budget       string            `json:"budget,omitempty"`
	Timeline     string            `json:"timeline,omitempty"`
	Goals        string            `json:"goals"`
	Style        string            `json:"style,omitempty"`
	Colors       string            `json:"colors,omitempty"`
	Inspiration  string            `json:"inspiration,omitempty"`
	Plan         string            `json:"plan,omitempty"`
	Subscription bool              `json:"subscription,omitempty"`
	Honey        string            `json:"honey,omitempty"`
	Attachments  []AttachmentInput `json:"attachments,omitempty"`
}

// Honeypot reports whether the hidden spam field was filled in.
func (r *GetStartedRequest) Honeypot() bool {
	return strings.TrimSpace(r.Honey) != ""
}

// Validate checks the required fields. Attachments are checked by
// DecodeAttachments.
func (r *GetStartedRequest) Validate() error {
	if err := Check(
		Field{Name: "businessName", Value: r.BusinessName, Validators: []Validator{
			Required("Business name is required"),
		}},
		Field{Name: "contactName", Value: r.ContactName, Validators: []Validator{
			Required("Your name is required"),
		}},
		Field{Name: "email", Value: r.Email, Validators: []Validator{
			Required("A valid email is required"),
			Email("A valid email is required"),
		}},
		Field{Name: "goals", Value: r.Goals, Validators: []Validator{
			Required("Please describe your goals"),
			MaxLength(MaxMessageLength, "Goals are too long"),
		}},
	); err != nil {
		return err
	}
	return r.checkAttachmentCount()
}

func (r *GetStartedRequest) checkAttachmentCount() error {
	if len(r.Attachments) > MaxAttachments {
		return ValidationError{Field: "attachments", Message: "Too many attachments"}
	}
	return nil
}

// DecodeAttachments decodes and size-checks the uploads. Browsers send data
// URLs as often as bare base64, so a "data:...;base64," prefix is stripped.
func (r *GetStartedRequest) DecodeAttachments() ([]Attachment, error) {
	if err := r.checkAttachmentCount(); err != nil {
		return nil, err
	}

	out := make([]Attachment, 0, len(r.Attachments))
	total := 0
	for i, in := range r.Attachments {
		name := CleanFilename(in.Filename)
		if name == "" {
			name = fmt.Sprintf("attachment-%d", i+1)
		}

		raw := in.Content
		if strings.HasPrefix(raw, "data:") {
			if idx := strings.Index(raw, ","); idx != -1 {
				raw = raw[idx+1:]
			}
		}
		if base64.StdEncoding.DecodedLen(len(raw)) > MaxAttachmentBytes+3 {
			return nil, ValidationError{Field: "attachments", Message: "Attachment " + name + " is too large"}
		}
		data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(raw))
		if err != nil {
			return nil, ValidationError{Field: "attachments", Message: "Attachment " + name + " is not valid base64"}
		}
		if len(data) > MaxAttachmentBytes {
			return nil, ValidationError{Field: "attachments", Message: "Attachment " + name + " is too large"}
		}
		total += len(data)
		if total > MaxTotalBytes {
			return nil, ValidationError{Field: "attachments", Message: "Attachments are too large"}
		}

		ct := strings.TrimSpace(in.Type)
		if ct == "" {
			ct = "application/octet-stream"
		}
		out = append(out, Attachment{Filename: name, ContentType: ct, Data: data})
	}
	return out, nil
}

// CleanFilename strips directories and control characters from a
// client-supplied filename.
func CleanFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(strings.TrimSpace(name))
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, name)
}
