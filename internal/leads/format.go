package leads

import (
	"bytes"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"github.com/vango-dev/portfolio/pkg/mail"
)

// Envelope holds the addressing shared by every notification.
type Envelope struct {
	From string
	To   []string
}

type row struct {
	Label string
	Value string
}

type emailData struct {
	Title string
	Rows  []row
	Body  string
	Files []string
}

const htmlBody = `<div style="font-family:system-ui,sans-serif;line-height:1.5">
<h2>{{.Title}}</h2>
<table cellpadding="4">
{{- range .Rows}}
<tr><td><strong>{{.Label}}</strong></td><td>{{.Value}}</td></tr>
{{- end}}
</table>
{{- if .Body}}
<p style="white-space:pre-wrap">{{.Body}}</p>
{{- end}}
{{- if .Files}}
<p><strong>Attachments:</strong> {{range $i, $f := .Files}}{{if $i}}, {{end}}{{$f}}{{end}}</p>
{{- end}}
</div>`

const textBody = `{{.Title}}
{{range .Rows}}
{{.Label}}: {{.Value}}
{{- end}}
{{if .Body}}
{{.Body}}
{{end}}
{{- if .Files}}
Attachments: {{range $i, $f := .Files}}{{if $i}}, {{end}}{{$f}}{{end}}
{{end}}`

var (
	htmlTmpl = htmltemplate.Must(htmltemplate.New("html").Parse(htmlBody))
	textTmpl = texttemplate.Must(texttemplate.New("text").Parse(textBody))
)

func render(d emailData) (html, text string, err error) {
	var hb, tb bytes.Buffer
	if err := htmlTmpl.Execute(&hb, d); err != nil {
		return "", "", err
	}
	if err := textTmpl.Execute(&tb, d); err != nil {
		return "", "", err
	}
	return hb.String(), tb.String(), nil
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// appendRow adds a row when value is non-empty.
func appendRow(rows []row, label, value string) []row {
	value = strings.TrimSpace(value)
	if value == "" {
		return rows
	}
	return append(rows, row{Label: label, Value: value})
}

// ContactEmail builds the notification for a contact submission.
func ContactEmail(env Envelope, r *ContactRequest) (mail.Message, error) {
	rows := []row{{Label: "Reply to", Value: strings.TrimSpace(r.Email)}}
	rows = appendRow(rows, "Plan", r.Plan)
	rows = append(rows, row{Label: "Newsletter", Value: yesNo(r.Subscription)})

	html, text, err := render(emailData{
		Title: "New contact message",
		Rows:  rows,
		Body:  strings.TrimSpace(r.Message),
	})
	if err != nil {
		return mail.Message{}, err
	}
	return mail.Message{
		From:    env.From,
		To:      env.To,
		ReplyTo: strings.TrimSpace(r.Email),
		Subject: "New contact message",
		HTML:    html,
		Text:    text,
	}, nil
}

// GetStartedEmail builds the notification for a project inquiry.
func GetStartedEmail(env Envelope, r *GetStartedRequest, files []Attachment) (mail.Message, error) {
	business := strings.TrimSpace(r.BusinessName)

	var rows []row
	rows = appendRow(rows, "Business", business)
	rows = appendRow(rows, "Contact", r.ContactName)
	rows = appendRow(rows, "Email", r.Email)
	rows = appendRow(rows, "Phone", r.Phone)
	rows = appendRow(rows, "Website", r.Website)
	rows = appendRow(rows, "Industry", r.Industry)
	rows = appendRow(rows, "Services", strings.Join(r.Services, ", "))
	rows = appendRow(rows, "Budget", r.Budget)
	rows = appendRow(rows, "Timeline", r.Timeline)
	rows = appendRow(rows, "Plan", r.Plan)
	rows = appendRow(rows, "Style", r.Style)
	rows = appendRow(rows, "Colors", r.Colors)
	rows = appendRow(rows, "Inspiration", r.Inspiration)
	rows = append(rows, row{Label: "Newsletter", Value: yesNo(r.Subscription)})

	names := make([]string, 0, len(files))
	atts := make([]mail.Attachment, 0, len(files))
	for _, f := range files {
		names = append(names, f.Filename)
		atts = append(atts, mail.Attachment{Filename: f.Filename, Content: f.Data, ContentType: f.ContentType})
	}

	html, text, err := render(emailData{
		Title: "New project inquiry",
		Rows:  rows,
		Body:  strings.TrimSpace(r.Goals),
		Files: names,
	})
	if err != nil {
		return mail.Message{}, err
	}
	return mail.Message{
		From:        env.From,
		To:          env.To,
		ReplyTo:     strings.TrimSpace(r.Email),
		Subject:     "New project inquiry: " + business,
		HTML:        html,
		Text:        text,
		Attachments: atts,
	}, nil
}
