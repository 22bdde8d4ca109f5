package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/directauto/lead-intake/internal/classify"
	appconfig "github.com/directauto/lead-intake/internal/config"
	"github.com/directauto/lead-intake/internal/intake"
	"github.com/directauto/lead-intake/internal/notify"
	"github.com/directauto/lead-intake/internal/storage"
	"github.com/directauto/lead-intake/pkg/logging"
)

func main() {
	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	ctx := context.Background()

	classifier, err := classify.FromConfig(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize classifier", "error", err)
		os.Exit(1)
	}
	if closer, ok := classifier.(io.Closer); ok {
		defer closer.Close()
	}

	notifier := notify.FromConfig(cfg, logger)
	store := storage.NewSupabaseClient(cfg.SupabaseURL, cfg.SupabaseServiceRoleKey, cfg.SupabaseTable, cfg.StorageTimeout, logger)

	svc := intake.NewService(cfg, store, classifier, notifier, nil, logger)

	lambda.Start(func(ctx context.Context, evt events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
		return handle(ctx, svc, evt)
	})
}

func handle(ctx context.Context, svc *intake.Service, evt events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	body, err := decodeBody(evt)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{
			StatusCode: http.StatusBadRequest,
			Headers:    baseHeaders(false),
			Body:       `{"error":"Invalid request body encoding"}`,
		}, nil
	}

	res := svc.Handle(ctx, evt.RequestContext.HTTP.Method, body)

	headers := baseHeaders(res.Body != nil)
	for k, v := range res.Headers {
		headers[k] = v
	}

	out := events.APIGatewayV2HTTPResponse{
		StatusCode: res.Status,
		Headers:    headers,
	}
	if res.Body != nil {
		encoded, err := json.Marshal(res.Body)
		if err != nil {
			return events.APIGatewayV2HTTPResponse{
				StatusCode: http.StatusInternalServerError,
				Headers:    baseHeaders(true),
				Body:       `{"error":"Internal error"}`,
			}, nil
		}
		out.Body = string(encoded)
	}
	return out, nil
}

// baseHeaders always carries the wildcard CORS origin so browser clients on
// the marketing site can read every response, including errors.
func baseHeaders(hasBody bool) map[string]string {
	headers := map[string]string{
		"Access-Control-Allow-Origin": "*",
	}
	if hasBody {
		headers["Content-Type"] = "application/json"
	}
	return headers
}

func decodeBody(evt events.APIGatewayV2HTTPRequest) ([]byte, error) {
	if !evt.IsBase64Encoded {
		return []byte(evt.Body), nil
	}
	return base64.StdEncoding.DecodeString(evt.Body)
}
