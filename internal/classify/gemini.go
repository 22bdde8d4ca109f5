package classify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/directauto/lead-intake/internal/leads"
	"github.com/directauto/lead-intake/pkg/logging"
)

// GeminiClassifier classifies leads through Google's Gemini API.
type GeminiClassifier struct {
	client  *genai.Client
	modelID string
	timeout time.Duration
	logger  *logging.Logger
}

// NewGeminiClassifier builds a classifier backed by the Gemini API.
func NewGeminiClassifier(ctx context.Context, apiKey, modelID string, timeout time.Duration, logger *logging.Logger) (*GeminiClassifier, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("classify: gemini api key is required")
	}
	if strings.TrimSpace(modelID) == "" {
		modelID = "gemini-2.5-flash"
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("classify: failed to create gemini client: %w", err)
	}

	return &GeminiClassifier{
		client:  client,
		modelID: modelID,
		timeout: timeout,
		logger:  logger,
	}, nil
}

// Classify requests a strict-JSON classification at low temperature. The call
// is bounded by the configured timeout so a slow model cannot stall intake.
func (c *GeminiClassifier) Classify(ctx context.Context, sub *leads.Submission) (*leads.Classification, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	model := c.client.GenerativeModel(c.modelID)
	model.SetTemperature(0.2)
	model.SetMaxOutputTokens(200)
	model.SystemInstruction = genai.NewUserContent(genai.Text(systemPrompt))

	resp, err := model.GenerateContent(ctx, genai.Text(buildUserPrompt(sub)))
	if err != nil {
		return nil, fmt.Errorf("classify: gemini completion failed: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return nil, errors.New("classify: gemini returned no candidates")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return nil, errors.New("classify: gemini returned empty content")
	}

	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}

	cls, err := parseClassification(text.String())
	if err != nil {
		return nil, err
	}

	c.logger.Debug("lead classified",
		"heat", string(cls.Heat),
		"timeline_bucket", string(cls.TimelineBucket),
		"vehicle_intent", string(cls.VehicleIntent),
	)
	return cls, nil
}

// Close releases resources held by the Gemini client.
func (c *GeminiClassifier) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}
