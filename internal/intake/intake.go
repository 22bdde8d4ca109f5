package intake

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/directauto/lead-intake/internal/classify"
	"github.com/directauto/lead-intake/internal/config"
	"github.com/directauto/lead-intake/internal/leads"
	"github.com/directauto/lead-intake/internal/notify"
	"github.com/directauto/lead-intake/internal/observability/metrics"
	"github.com/directauto/lead-intake/internal/storage"
	"github.com/directauto/lead-intake/pkg/logging"
)

// Result is a transport-agnostic response: the HTTP server and the lambda
// entrypoint both render it onto their own response shapes.
type Result struct {
	Status  int
	Headers map[string]string
	Body    any
}

// SuccessResponse is the body returned for a stored lead.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ErrorResponse is the body returned for every failure category that reaches
// the client. Status carries the upstream storage status when one exists.
type ErrorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status,omitempty"`
}

// Service runs the submission pipeline: parse, classify (best effort),
// persist, notify (best effort). Configuration is passed in at construction
// so tests can substitute fake credentials and collaborators.
type Service struct {
	cfg        *config.Config
	store      storage.Inserter
	classifier classify.Classifier
	notifier   notify.Notifier
	metrics    *metrics.IntakeMetrics
	logger     *logging.Logger
}

// NewService wires the pipeline. classifier and notifier may be nil, in which
// case the no-op implementations are used; metrics may be nil.
func NewService(cfg *config.Config, store storage.Inserter, classifier classify.Classifier, notifier notify.Notifier, m *metrics.IntakeMetrics, logger *logging.Logger) *Service {
	if classifier == nil {
		classifier = classify.Noop{}
	}
	if notifier == nil {
		notifier = notify.Noop{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		cfg:        cfg,
		store:      store,
		classifier: classifier,
		notifier:   notifier,
		metrics:    m,
		logger:     logger,
	}
}

// Handle processes one submission request and returns the response to render.
// It never panics the transport: every failure category maps to a Result.
func (s *Service) Handle(ctx context.Context, method string, body []byte) Result {
	switch strings.ToUpper(strings.TrimSpace(method)) {
	case http.MethodOptions:
		// Preflight: succeed immediately, no body processing.
		return Result{
			Status: http.StatusOK,
			Headers: map[string]string{
				"Access-Control-Allow-Methods": "POST, OPTIONS",
				"Access-Control-Allow-Headers": "Content-Type",
			},
		}
	case http.MethodPost:
	default:
		s.metrics.ObserveSubmission("method_not_allowed")
		return Result{Status: http.StatusMethodNotAllowed, Body: ErrorResponse{Error: "Method not allowed"}}
	}

	if len(bytes.TrimSpace(body)) == 0 {
		body = []byte("{}")
	}

	var sub leads.Submission
	if err := json.Unmarshal(body, &sub); err != nil {
		s.logger.Error("failed to parse submission body", "error", err)
		s.metrics.ObserveSubmission("invalid_json")
		return Result{Status: http.StatusBadRequest, Body: ErrorResponse{Error: "Invalid JSON"}}
	}

	// Deployment misconfiguration, not a per-request condition: fail before
	// any external call.
	if !s.cfg.StorageConfigured() {
		s.logger.Error("storage configuration missing")
		s.metrics.ObserveSubmission("config_missing")
		return Result{Status: http.StatusInternalServerError, Body: ErrorResponse{Error: "Storage configuration missing"}}
	}

	s.logger.Info("new lead submission",
		"phone", sub.PhoneValue(),
		"contact_method", sub.ContactMethodValue(),
	)

	cls := s.classify(ctx, &sub)

	rec := leads.NewRecord(&sub, json.RawMessage(body), cls)
	if rec.Phone != nil {
		normalized := leads.NormalizePhone(*rec.Phone, s.cfg.DefaultPhoneRegion)
		rec.Phone = &normalized
	}

	if err := s.store.InsertLead(ctx, rec); err != nil {
		s.logger.Error("failed to save lead", "error", err)
		s.metrics.ObserveSubmission("storage_failed")

		resp := ErrorResponse{Error: "Failed to save lead"}
		var statusErr *storage.StatusError
		if errors.As(err, &statusErr) {
			resp.Status = statusErr.StatusCode
		} else {
			resp.Error = "Unexpected error while saving lead"
		}
		return Result{Status: http.StatusInternalServerError, Body: resp}
	}
	s.metrics.ObserveSubmission("stored")

	notified := s.notifyLead(ctx, &rec)

	msg := "Lead received and stored."
	if cls != nil {
		msg += " AI classification applied."
	}
	if notified {
		msg += " Alert sent."
	}
	return Result{Status: http.StatusOK, Body: SuccessResponse{Success: true, Message: msg}}
}

// classify runs the optional enrichment stage. Every failure path degrades to
// "no enrichment" and is recorded; nothing here can fail the request.
func (s *Service) classify(ctx context.Context, sub *leads.Submission) *leads.Classification {
	if _, disabled := s.classifier.(classify.Noop); disabled {
		s.metrics.ObserveClassification("skipped")
		return nil
	}

	cls, err := s.classifier.Classify(ctx, sub)
	if err != nil {
		s.logger.Error("lead classification failed, continuing without enrichment", "error", err)
		s.metrics.ObserveClassification("failed")
		return nil
	}
	if cls == nil {
		s.metrics.ObserveClassification("skipped")
		return nil
	}
	s.metrics.ObserveClassification("ok")
	return cls
}

// notifyLead runs the optional alert stage after a successful insert. The
// response has already been determined; failures are logged and swallowed.
func (s *Service) notifyLead(ctx context.Context, rec *leads.Record) bool {
	if _, disabled := s.notifier.(notify.Noop); disabled {
		s.metrics.ObserveNotification("skipped")
		return false
	}

	if err := s.notifier.NotifyLead(ctx, rec); err != nil {
		s.logger.Error("lead alert failed", "error", err)
		s.metrics.ObserveNotification("failed")
		return false
	}
	s.metrics.ObserveNotification("ok")
	return true
}
