package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/aws/aws-lambda-go/events"

	appconfig "github.com/directauto/lead-intake/internal/config"
	"github.com/directauto/lead-intake/internal/intake"
	"github.com/directauto/lead-intake/internal/leads"
	"github.com/directauto/lead-intake/pkg/logging"
)

type fakeInserter struct {
	inserted []leads.Record
	err      error
}

func (f *fakeInserter) InsertLead(ctx context.Context, rec leads.Record) error {
	if f.err != nil {
		return f.err
	}
	f.inserted = append(f.inserted, rec)
	return nil
}

func testService(store *fakeInserter) *intake.Service {
	cfg := &appconfig.Config{
		SupabaseURL:            "https://example.supabase.co",
		SupabaseServiceRoleKey: "service-key",
		SupabaseTable:          "leads",
		DefaultPhoneRegion:     "US",
	}
	return intake.NewService(cfg, store, nil, nil, nil, logging.NewWithWriter("error", discard{}))
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func request(method, body string, b64 bool) events.APIGatewayV2HTTPRequest {
	evt := events.APIGatewayV2HTTPRequest{Body: body, IsBase64Encoded: b64}
	evt.RequestContext.HTTP.Method = method
	return evt
}

func TestHandle_StoresLead(t *testing.T) {
	store := &fakeInserter{}
	svc := testService(store)

	evt := request(http.MethodPost, `{"phone":"+14155552671","contactMethod":"Text"}`, false)
	res, err := handle(context.Background(), svc, evt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.StatusCode, res.Body)
	}
	if res.Headers["Access-Control-Allow-Origin"] != "*" {
		t.Fatalf("expected wildcard CORS header, got %v", res.Headers)
	}
	if res.Headers["Content-Type"] != "application/json" {
		t.Fatalf("expected JSON content type, got %v", res.Headers)
	}

	var body map[string]any
	if err := json.Unmarshal([]byte(res.Body), &body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if body["success"] != true {
		t.Fatalf("expected success response, got %s", res.Body)
	}
	if len(store.inserted) != 1 {
		t.Fatalf("expected one inserted record, got %d", len(store.inserted))
	}
}

func TestHandle_DecodesBase64Body(t *testing.T) {
	store := &fakeInserter{}
	svc := testService(store)

	payload := `{"phone":"+14155552671"}`
	evt := request(http.MethodPost, base64.StdEncoding.EncodeToString([]byte(payload)), true)

	res, err := handle(context.Background(), svc, evt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.StatusCode, res.Body)
	}
	if len(store.inserted) != 1 {
		t.Fatalf("expected one inserted record, got %d", len(store.inserted))
	}
}

func TestHandle_InvalidBase64(t *testing.T) {
	svc := testService(&fakeInserter{})

	evt := request(http.MethodPost, "not-base64!!!", true)
	res, err := handle(context.Background(), svc, evt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.StatusCode)
	}
	if res.Headers["Access-Control-Allow-Origin"] != "*" {
		t.Fatalf("expected wildcard CORS header on error, got %v", res.Headers)
	}
}

func TestHandle_Preflight(t *testing.T) {
	svc := testService(&fakeInserter{})

	evt := request(http.MethodOptions, "", false)
	res, err := handle(context.Background(), svc, evt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	if res.Body != "" {
		t.Fatalf("expected empty preflight body, got %q", res.Body)
	}
	if res.Headers["Access-Control-Allow-Methods"] == "" {
		t.Fatalf("expected allow methods header, got %v", res.Headers)
	}
}

func TestHandle_MethodNotAllowed(t *testing.T) {
	svc := testService(&fakeInserter{})

	evt := request(http.MethodGet, "", false)
	res, err := handle(context.Background(), svc, evt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", res.StatusCode)
	}
	if !strings.Contains(res.Body, "Method not allowed") {
		t.Fatalf("unexpected body: %s", res.Body)
	}
}
