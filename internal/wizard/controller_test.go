package wizard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/directauto/lead-intake/pkg/logging"
)

// recordingView captures every projection call in order.
type recordingView struct {
	steps      []int
	lockEvents []bool
	status     string
	statusKind StatusKind
	formResets int
}

func (v *recordingView) ShowStep(index int)  { v.steps = append(v.steps, index) }
func (v *recordingView) LockSubmit(l bool)   { v.lockEvents = append(v.lockEvents, l) }
func (v *recordingView) ClearStatus()        { v.status = ""; v.statusKind = "" }
func (v *recordingView) ResetForm()          { v.formResets++ }
func (v *recordingView) SetStatus(m string, k StatusKind) {
	v.status = m
	v.statusKind = k
}

func newController(t *testing.T, endpoint string, view View) *Controller {
	t.Helper()
	return NewController(ControllerConfig{
		StepCount:            5,
		Endpoint:             endpoint,
		View:                 view,
		RequireContactMethod: true,
		Logger:               logging.Default(),
	})
}

func validForm() url.Values {
	form := url.Values{}
	form.Set("phone", "5551234567")
	form.Set("contactMethod", "Text")
	form.Set("firstName", "Ana")
	return form
}

func TestController_NextBackRenderEachStep(t *testing.T) {
	view := &recordingView{}
	c := newController(t, "http://unused", view)

	c.Next()
	c.Next()
	c.Back()

	want := []int{0, 1, 2, 1}
	if len(view.steps) != len(want) {
		t.Fatalf("expected %d renders, got %v", len(want), view.steps)
	}
	for i, step := range want {
		if view.steps[i] != step {
			t.Errorf("render %d: expected step %d, got %d", i, step, view.steps[i])
		}
	}
}

func TestController_Submit_MissingPhoneSkipsNetwork(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	view := &recordingView{}
	c := newController(t, srv.URL, view)
	c.Next()

	form := url.Values{}
	form.Set("contactMethod", "Text")
	c.Submit(context.Background(), form, "https://example.com/", "")

	if calls != 0 {
		t.Errorf("expected no network call, got %d", calls)
	}
	if view.status != msgPhoneRequired || view.statusKind != StatusError {
		t.Errorf("expected phone validation message, got %q (%s)", view.status, view.statusKind)
	}
	if c.Current() != 1 {
		t.Errorf("expected step unchanged, got %d", c.Current())
	}
	if len(view.lockEvents) != 0 {
		t.Errorf("expected submit control untouched, got %v", view.lockEvents)
	}
}

func TestController_Submit_MissingContactMethodSkipsNetwork(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	view := &recordingView{}
	c := newController(t, srv.URL, view)

	form := url.Values{}
	form.Set("phone", "5551234567")
	c.Submit(context.Background(), form, "https://example.com/", "")

	if calls != 0 {
		t.Errorf("expected no network call, got %d", calls)
	}
	if view.status != msgContactRequired {
		t.Errorf("expected contact-method validation message, got %q", view.status)
	}
}

func TestController_Submit_Success(t *testing.T) {
	calls := 0
	var locked bool
	var lockedDuringCall bool

	view := &recordingView{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		lockedDuringCall = locked
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"success":true,"message":"ok"}`))
	}))
	defer srv.Close()

	c := NewController(ControllerConfig{
		StepCount:            5,
		Endpoint:             srv.URL,
		View:                 view,
		RequireContactMethod: true,
	})

	// Mirror the view's lock state so the server callback can see it.
	c.view = &lockTrackingView{recordingView: view, locked: &locked}

	c.Submit(context.Background(), validForm(), "https://example.com/?utm_source=fb", "https://fb.com/")

	if calls != 1 {
		t.Fatalf("expected exactly one network call, got %d", calls)
	}
	if !lockedDuringCall {
		t.Error("expected submit control locked while the call was pending")
	}
	if locked {
		t.Error("expected submit control unlocked after submission")
	}
	if view.statusKind != StatusSuccess {
		t.Errorf("expected success status, got %q (%s)", view.status, view.statusKind)
	}
	if view.formResets != 1 {
		t.Errorf("expected form cleared once, got %d", view.formResets)
	}
	if c.Current() != 4 {
		t.Errorf("expected jump to terminal step, got %d", c.Current())
	}
}

func TestController_Submit_ServerErrorKeepsState(t *testing.T) {
	var locked bool
	view := &recordingView{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newController(t, srv.URL, view)
	c.view = &lockTrackingView{recordingView: view, locked: &locked}
	c.Next()
	c.Next()

	c.Submit(context.Background(), validForm(), "https://example.com/", "")

	if view.status != msgSubmitFailed || view.statusKind != StatusError {
		t.Errorf("expected retry message, got %q (%s)", view.status, view.statusKind)
	}
	if c.Current() != 2 {
		t.Errorf("expected step preserved on failure, got %d", c.Current())
	}
	if view.formResets != 0 {
		t.Error("expected form data preserved on failure")
	}
	if locked {
		t.Error("expected submit control re-enabled after failure")
	}
}

func TestController_Submit_NetworkErrorKeepsState(t *testing.T) {
	view := &recordingView{}
	c := newController(t, "http://127.0.0.1:1", view)

	c.Submit(context.Background(), validForm(), "https://example.com/", "")

	if view.status != msgSubmitFailed {
		t.Errorf("expected retry message, got %q", view.status)
	}
	if c.Current() != 0 {
		t.Errorf("expected step preserved, got %d", c.Current())
	}
}

func TestController_Submit_IgnoredWhileInFlight(t *testing.T) {
	view := &recordingView{}
	c := newController(t, "http://unused", view)
	c.submitting = true

	c.Submit(context.Background(), validForm(), "https://example.com/", "")

	if len(view.lockEvents) != 0 {
		t.Errorf("expected in-flight submission to be ignored, got lock events %v", view.lockEvents)
	}
}

// lockTrackingView mirrors LockSubmit into a shared flag so HTTP test servers
// can observe the lock state mid-request.
type lockTrackingView struct {
	*recordingView
	locked *bool
}

func (v *lockTrackingView) LockSubmit(l bool) {
	*v.locked = l
	v.recordingView.LockSubmit(l)
}
