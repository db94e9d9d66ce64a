// Package api implements the form endpoints.
//
// Both endpoints handle a request in the same order:
//
//  1. the email provider must be configured (500)
//  2. the body must be JSON within the size limit (400, 413)
//  3. a filled honeypot is answered with success and dropped
//  4. the payload is validated (400)
//  5. attachments are archived when a store is configured (best effort)
//  6. the notification is sent (500 on failure)
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/vango-dev/portfolio/internal/archive"
	"github.com/vango-dev/portfolio/internal/leads"
	"github.com/vango-dev/portfolio/internal/telemetry"
	"github.com/vango-dev/portfolio/pkg/mail"
)

// Body limits.
const (
	DefaultContactLimit    int64 = 64 << 10
	DefaultGetStartedLimit int64 = 15 << 20
)

// DefaultSendTimeout bounds a provider call.
const DefaultSendTimeout = 20 * time.Second

// Form names used in logs, metrics and archive keys.
const (
	FormContact    = "contact"
	FormGetStarted = "get-started"
)

// Submission outcomes.
const (
	OutcomeSent         = "sent"
	OutcomeSpam         = "spam"
	OutcomeInvalid      = "invalid"
	OutcomeUnconfigured = "unconfigured"
	OutcomeBadRequest   = "bad_request"
	OutcomeTooLarge     = "too_large"
	OutcomeFailed       = "failed"
)

// Config configures the handlers.
type Config struct {
	// Envelope addresses every notification.
	Envelope leads.Envelope

	// Configured reports whether the email provider can send. When false
	// every submission fails with MsgNotConfigured.
	Configured bool

	// Sender delivers notifications.
	Sender mail.Sender

	// Archive stores get-started attachments. Nil disables archiving.
	Archive archive.Store

	// Metrics counts outcomes. Nil disables counting.
	Metrics *telemetry.Metrics

	// Logger receives failures. Default: slog.Default().
	Logger *slog.Logger

	// ContactLimit and GetStartedLimit bound the request bodies.
	ContactLimit    int64
	GetStartedLimit int64

	// SendTimeout bounds a single provider call.
	SendTimeout time.Duration

	// Now and NewID are replaced in tests.
	Now   func() time.Time
	NewID func() string
}

// Handler serves POST /api/contact and POST /api/get-started.
type Handler struct {
	cfg Config
}

// New creates a Handler, filling unset Config fields with defaults.
func New(cfg Config) *Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.ContactLimit <= 0 {
		cfg.ContactLimit = DefaultContactLimit
	}
	if cfg.GetStartedLimit <= 0 {
		cfg.GetStartedLimit = DefaultGetStartedLimit
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = DefaultSendTimeout
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.NewID == nil {
		cfg.NewID = func() string { return uuid.NewString() }
	}
	if cfg.Sender == nil {
		cfg.Configured = false
	}
	return &Handler{cfg: cfg}
}

// Routes registers the endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/api/contact", h.Contact)
	r.Post("/api/get-started", h.GetStarted)
}

// Contact handles POST /api/contact.
func (h *Handler) Contact(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, FormContact, h.contact)
}

// GetStarted handles POST /api/get-started.
func (h *Handler) GetStarted(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, FormGetStarted, h.getStarted)
}

type submitFunc func(r *http.Request, log *slog.Logger) (outcome string, err error)

func (h *Handler) serve(w http.ResponseWriter, r *http.Request, form string, fn submitFunc) {
	log := h.cfg.Logger.With("form", form)
	if id := middleware.GetReqID(r.Context()); id != "" {
		log = log.With("request_id", id)
	}

	outcome, err := h.precheck(w, r, form)
	if err == nil {
		outcome, err = fn(r, log)
	}
	h.cfg.Metrics.RecordSubmission(form, outcome)

	if err != nil {
		var he *HTTPError
		if errors.As(err, &he) && he.Code >= http.StatusInternalServerError {
			log.Error("submission failed", "outcome", outcome, "error", err)
		} else {
			log.Info("submission rejected", "outcome", outcome, "error", err)
		}
		writeError(w, err)
		return
	}
	log.Info("submission accepted", "outcome", outcome)
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

// precheck applies the provider check and the body limit.
func (h *Handler) precheck(w http.ResponseWriter, r *http.Request, form string) (string, error) {
	if !h.cfg.Configured {
		return OutcomeUnconfigured, Internal(MsgNotConfigured, nil)
	}
	limit := h.cfg.ContactLimit
	if form == FormGetStarted {
		limit = h.cfg.GetStartedLimit
	}
	if r.ContentLength > limit {
		return OutcomeTooLarge, &HTTPError{Code: http.StatusRequestEntityTooLarge, Message: MsgTooLarge}
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	return "", nil
}

// decode reads a JSON body into v.
func decode(r *http.Request, v any) (string, error) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return OutcomeTooLarge, &HTTPError{Code: http.StatusRequestEntityTooLarge, Message: MsgTooLarge, Err: err}
		}
		return OutcomeBadRequest, BadRequest(MsgInvalidJSON, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return OutcomeBadRequest, BadRequest(MsgInvalidJSON, err)
	}
	return "", nil
}

func invalid(err error) (string, error) {
	var ve leads.ValidationError
	if errors.As(err, &ve) {
		return OutcomeInvalid, BadRequest(ve.Message, err)
	}
	return OutcomeInvalid, BadRequest(err.Error(), err)
}

func (h *Handler) contact(r *http.Request, log *slog.Logger) (string, error) {
	var req leads.ContactRequest
	if outcome, err := decode(r, &req); err != nil {
		return outcome, err
	}
	if req.Honeypot() {
		return OutcomeSpam, nil
	}
	if err := req.Validate(); err != nil {
		return invalid(err)
	}

	msg, err := leads.ContactEmail(h.cfg.Envelope, &req)
	if err != nil {
		return OutcomeFailed, Internal(MsgSendFailed, err)
	}
	msg.IdempotencyKey = h.cfg.NewID()
	return h.send(r.Context(), log, msg)
}

func (h *Handler) getStarted(r *http.Request, log *slog.Logger) (string, error) {
	var req leads.GetStartedRequest
	if outcome, err := decode(r, &req); err != nil {
		return outcome, err
	}
	if req.Honeypot() {
		return OutcomeSpam, nil
	}
	if err := req.Validate(); err != nil {
		return invalid(err)
	}
	files, err := req.DecodeAttachments()
	if err != nil {
		return invalid(err)
	}

	id := h.cfg.NewID()
	h.archive(r.Context(), log, id, files)

	msg, err := leads.GetStartedEmail(h.cfg.Envelope, &req, files)
	if err != nil {
		return OutcomeFailed, Internal(MsgSendFailed, err)
	}
	msg.IdempotencyKey = id
	return h.send(r.Context(), log.With("submission_id", id), msg)
}

// archive stores the attachments. Failures are logged and counted only.
func (h *Handler) archive(ctx context.Context, log *slog.Logger, id string, files []leads.Attachment) {
	if h.cfg.Archive == nil || len(files) == 0 {
		return
	}
	at := h.cfg.Now()
	for _, f := range files {
		key := archive.Key(FormGetStarted, id, f.Filename, at)
		if err := h.cfg.Archive.Put(ctx, key, f.ContentType, f.Data); err != nil {
			h.cfg.Metrics.RecordArchiveError()
			log.Warn("archive attachment", "key", key, "error", err)
			continue
		}
		log.Debug("archived attachment", "key", key, "bytes", len(f.Data))
	}
}

func (h *Handler) send(ctx context.Context, log *slog.Logger, msg mail.Message) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, h.cfg.SendTimeout)
	defer cancel()

	id, err := h.cfg.Sender.Send(ctx, msg)
	h.cfg.Metrics.RecordEmail(err)
	if err != nil {
		return OutcomeFailed, Internal(MsgSendFailed, err)
	}
	log.Debug("notification sent", "email_id", id)
	return OutcomeSent, nil
}
