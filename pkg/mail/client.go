package mail

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/resend/resend-go/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultBaseURL is the Resend API endpoint.
const DefaultBaseURL = "https://api.resend.com"

// Client sends mail through the Resend API.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	tracer  trace.Tracer

	api *resend.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL overrides the API endpoint.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.http = hc
	}
}

// NewClient creates a Client authenticated with apiKey.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		tracer:  otel.Tracer("github.com/vango-dev/portfolio/pkg/mail"),
	}
	for _, opt := range opts {
		opt(c)
	}

	hc := *c.http
	hc.Transport = statusTransport{next: c.http.Transport}
	c.api = resend.NewCustomClient(&hc, apiKey)
	if u, err := url.Parse(c.baseURL + "/"); err == nil {
		c.api.BaseURL = u
	}
	return c
}

// Send implements Sender.
func (c *Client) Send(ctx context.Context, m Message) (string, error) {
	if err := m.Validate(); err != nil {
		return "", err
	}

	ctx, span := c.tracer.Start(ctx, "mail.send",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.Int("mail.recipients", len(m.To)),
			attribute.Int("mail.attachments", len(m.Attachments)),
		),
	)
	defer span.End()

	id, err := c.send(ctx, m)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	span.SetAttributes(attribute.String("mail.id", id))
	return id, nil
}

func (c *Client) send(ctx context.Context, m Message) (string, error) {
	req := &resend.SendEmailRequest{
		From:    m.From,
		To:      m.To,
		Subject: m.Subject,
		Html:    m.HTML,
		Text:    m.Text,
		ReplyTo: m.ReplyTo,
	}
	for _, a := range m.Attachments {
		req.Attachments = append(req.Attachments, &resend.Attachment{
			Filename:    a.Filename,
			Content:     a.Content,
			ContentType: a.ContentType,
		})
	}

	key := m.IdempotencyKey
	if key == "" {
		key = uuid.NewString()
	}

	status := new(int)
	ctx = context.WithValue(ctx, statusKey{}, status)
	resp, err := c.api.Emails.SendWithOptions(ctx, req, &resend.SendEmailOptions{IdempotencyKey: key})
	if err != nil {
		if *status == 0 || (*status >= 200 && *status <= 299) {
			return "", &sendError{err: err}
		}
		return "", &APIError{
			StatusCode: *status,
			Message:    strings.TrimSpace(strings.TrimPrefix(err.Error(), "[ERROR]:")),
		}
	}
	return resp.Id, nil
}

// sendError wraps a failure that never produced a provider response.
type sendError struct {
	err error
}

func (e *sendError) Error() string { return "mail: send: " + e.err.Error() }

func (e *sendError) Unwrap() error { return e.err }

type statusKey struct{}

// statusTransport records the provider's response status in the request
// context so failed sends can be reported as APIError.
type statusTransport struct {
	next http.RoundTripper
}

func (t statusTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	next := t.next
	if next == nil {
		next = http.DefaultTransport
	}
	resp, err := next.RoundTrip(r)
	if err == nil {
		if p, ok := r.Context().Value(statusKey{}).(*int); ok {
			*p = resp.StatusCode
		}
	}
	return resp, err
}
