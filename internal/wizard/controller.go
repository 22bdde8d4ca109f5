package wizard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/directauto/lead-intake/pkg/logging"
)

const (
	msgPhoneRequired   = "Please add a phone number so we know where to follow up."
	msgContactRequired = "Please choose how you'd like us to reach out."
	msgSubmitFailed    = "Something went wrong sending your info. Please try again in a moment or text us directly."
	msgSubmitSucceeded = "Got it. We'll review your info and reach out with real options shortly."
)

// ControllerConfig configures a wizard controller.
type ControllerConfig struct {
	StepCount int
	Endpoint  string
	View      View
	// RequireContactMethod mirrors whether the form renders a contact-method
	// selector; when false the contactMethod guard is skipped.
	RequireContactMethod bool
	HTTPClient           *http.Client
	Logger               *logging.Logger
}

// Controller wires the step state machine to a View and submits the
// aggregated form exactly once per user action. The locked submit control is
// the sole guard against concurrent submissions.
type Controller struct {
	state                *State
	view                 View
	endpoint             string
	requireContactMethod bool
	httpClient           *http.Client
	logger               *logging.Logger
	submitting           bool
}

// NewController builds a controller and renders the first step.
func NewController(cfg ControllerConfig) *Controller {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	c := &Controller{
		state:                NewState(cfg.StepCount),
		view:                 cfg.View,
		endpoint:             cfg.Endpoint,
		requireContactMethod: cfg.RequireContactMethod,
		httpClient:           cfg.HTTPClient,
		logger:               cfg.Logger,
	}
	c.view.ShowStep(c.state.Current())
	return c
}

// Current returns the active step index.
func (c *Controller) Current() int { return c.state.Current() }

// Next advances one step and re-renders.
func (c *Controller) Next() {
	c.view.ShowStep(c.state.Advance())
}

// Back retreats one step and re-renders.
func (c *Controller) Back() {
	c.view.ShowStep(c.state.Retreat())
}

// Submit validates the required fields and posts the collected payload. All
// outcomes are rendered through the View; on failure the step and the entered
// form data are preserved so the user can retry.
func (c *Controller) Submit(ctx context.Context, form url.Values, pageURL, referrer string) {
	if c.submitting {
		// Control is disabled while a submission is in flight.
		return
	}

	c.view.ClearStatus()

	payload := CollectPayload(form, pageURL, referrer)
	if payload.PhoneValue() == "" {
		c.view.SetStatus(msgPhoneRequired, StatusError)
		return
	}
	if c.requireContactMethod && payload.ContactMethodValue() == "" {
		c.view.SetStatus(msgContactRequired, StatusError)
		return
	}

	c.submitting = true
	c.view.LockSubmit(true)
	defer func() {
		c.submitting = false
		c.view.LockSubmit(false)
	}()

	if err := c.post(ctx, payload); err != nil {
		c.logger.Error("lead submission failed", "error", err)
		c.view.SetStatus(msgSubmitFailed, StatusError)
		return
	}

	c.view.SetStatus(msgSubmitSucceeded, StatusSuccess)
	c.view.ResetForm()
	c.view.ShowStep(c.state.JumpToTerminal())
}

func (c *Controller) post(ctx context.Context, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &submitError{status: resp.StatusCode}
	}
	return nil
}

type submitError struct {
	status int
}

func (e *submitError) Error() string {
	return fmt.Sprintf("wizard: submission rejected with status %d", e.status)
}
