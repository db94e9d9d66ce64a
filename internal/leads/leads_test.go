package leads

import (
	"encoding/base64"
	"strings"
	"testing"
)

func TestContactRequest_Validate(t *testing.T) {
	tests := []struct {
		name string
		req  ContactRequest
		want string
	}{
		{"valid", ContactRequest{Message: "hi there", Email: "a@b.com"}, ""},
		{"missing message", ContactRequest{Message: "  ", Email: "a@b.com"}, "Message is required"},
		{"bad email", ContactRequest{Message: "hi", Email: "bad"}, "Reply email is required"},
		{"empty email", ContactRequest{Message: "hi"}, "Reply email is required"},
		{"too long", ContactRequest{Message: strings.Repeat("x", MaxMessageLength+1), Email: "a@b.com"}, "Message is too long"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			got := ""
			if err != nil {
				got = err.Error()
			}
			if got != tt.want {
				t.Errorf("Validate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestContactRequest_ValidationErrorField(t *testing.T) {
	err := (&ContactRequest{Message: "hi", Email: "bad"}).Validate()
	ve, ok := err.(ValidationError)
	if !ok || ve.Field != "email" {
		t.Errorf("expected email ValidationError, got %#v", err)
	}
}

func TestHoneypot(t *testing.T) {
	if !(&ContactRequest{Honey: "spam"}).Honeypot() {
		t.Error("filled honeypot not detected")
	}
	if (&ContactRequest{Honey: "  "}).Honeypot() {
		t.Error("whitespace honeypot treated as spam")
	}
	if !(&GetStartedRequest{Honey: "x"}).Honeypot() {
		t.Error("get-started honeypot not detected")
	}
}

func validGetStarted() GetStartedRequest {
	return GetStartedRequest{
		BusinessName: "Acme",
		ContactName:  "Sam",
		Email:        "sam@acme.io",
		Goals:        "A new site",
	}
}

func TestGetStartedRequest_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*GetStartedRequest)
		want   string
	}{
		{"valid", func(*GetStartedRequest) {}, ""},
		{"missing business", func(r *GetStartedRequest) { r.BusinessName = "" }, "Business name is required"},
		{"missing contact", func(r *GetStartedRequest) { r.ContactName = "" }, "Your name is required"},
		{"bad email", func(r *GetStartedRequest) { r.Email = "nope" }, "A valid email is required"},
		{"missing goals", func(r *GetStartedRequest) { r.Goals = "" }, "Please describe your goals"},
		{"too many attachments", func(r *GetStartedRequest) {
			r.Attachments = make([]AttachmentInput, MaxAttachments+1)
		}, "Too many attachments"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validGetStarted()
			tt.mutate(&req)
			got := ""
			if err := req.Validate(); err != nil {
				got = err.Error()
			}
			if got != tt.want {
				t.Errorf("Validate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeAttachments(t *testing.T) {
	req := validGetStarted()
	req.Attachments = []AttachmentInput{
		{Filename: "../../etc/brief.txt", Content: base64.StdEncoding.EncodeToString([]byte("brief")), Type: "text/plain"},
		{Filename: "", Content: "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte{1, 2, 3})},
	}

	files, err := req.DecodeAttachments()
	if err != nil {
		t.Fatalf("DecodeAttachments() error: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("got %d files, want 2", len(files))
	}
	if files[0].Filename != "brief.txt" || string(files[0].Data) != "brief" || files[0].ContentType != "text/plain" {
		t.Errorf("unexpected first file: %+v", files[0])
	}
	if files[1].Filename != "attachment-2" || len(files[1].Data) != 3 || files[1].ContentType != "application/octet-stream" {
		t.Errorf("unexpected second file: %+v", files[1])
	}
}

func TestDecodeAttachments_Errors(t *testing.T) {
	big := base64.StdEncoding.EncodeToString(make([]byte, MaxAttachmentBytes+1))
	four := base64.StdEncoding.EncodeToString(make([]byte, 4<<20))

	tests := []struct {
		name string
		in   []AttachmentInput
		want string
	}{
		{"bad base64", []AttachmentInput{{Filename: "a.pdf", Content: "%%%"}}, "Attachment a.pdf is not valid base64"},
		{"too large", []AttachmentInput{{Filename: "big.bin", Content: big}}, "Attachment big.bin is too large"},
		{"total too large", []AttachmentInput{
			{Filename: "1", Content: four}, {Filename: "2", Content: four}, {Filename: "3", Content: four},
		}, "Attachments are too large"},
		{"too many", make([]AttachmentInput, MaxAttachments+1), "Too many attachments"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validGetStarted()
			req.Attachments = tt.in
			_, err := req.DecodeAttachments()
			if err == nil || err.Error() != tt.want {
				t.Errorf("DecodeAttachments() error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestCleanFilename(t *testing.T) {
	tests := map[string]string{
		"report.pdf":          "report.pdf",
		"C:\\Users\\x\\a.png": "a.png",
		"../..":               "",
		"":                    "",
		"tab\tname.txt":       "tabname.txt",
	}
	for in, want := range tests {
		if got := CleanFilename(in); got != want {
			t.Errorf("CleanFilename(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestContactEmail(t *testing.T) {
	env := Envelope{From: "Portfolio <hello@example.com>", To: []string{"me@example.com"}}
	msg, err := ContactEmail(env, &ContactRequest{
		Message: "<script>alert(1)</script>",
		Email:   " visitor@example.com ",
		Plan:    "starter",
	})
	if err != nil {
		t.Fatalf("ContactEmail() error: %v", err)
	}
	if msg.Subject != "New contact message" || msg.ReplyTo != "visitor@example.com" {
		t.Errorf("unexpected headers: subject=%q reply=%q", msg.Subject, msg.ReplyTo)
	}
	if strings.Contains(msg.HTML, "<script>") {
		t.Error("HTML body not escaped")
	}
	if !strings.Contains(msg.Text, "<script>alert(1)</script>") {
		t.Error("text body should carry the raw message")
	}
	if !strings.Contains(msg.Text, "Plan: starter") {
		t.Errorf("text body missing plan:\n%s", msg.Text)
	}
}

func TestGetStartedEmail(t *testing.T) {
	env := Envelope{From: "a@example.com", To: []string{"b@example.com"}}
	req := validGetStarted()
	req.Services = []string{"Design", "Build"}
	files := []Attachment{{Filename: "logo.png", ContentType: "image/png", Data: []byte{1}}}

	msg, err := GetStartedEmail(env, &req, files)
	if err != nil {
		t.Fatalf("GetStartedEmail() error: %v", err)
	}
	if msg.Subject != "New project inquiry: Acme" {
		t.Errorf("Subject = %q", msg.Subject)
	}
	if len(msg.Attachments) != 1 || msg.Attachments[0].Filename != "logo.png" {
		t.Errorf("unexpected attachments: %+v", msg.Attachments)
	}
	for _, want := range []string{"Services: Design, Build", "Attachments: logo.png", "A new site"} {
		if !strings.Contains(msg.Text, want) {
			t.Errorf("text body missing %q:\n%s", want, msg.Text)
		}
	}
}
