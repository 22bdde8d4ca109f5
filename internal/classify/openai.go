package classify

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"

	"github.com/directauto/lead-intake/internal/leads"
	"github.com/directauto/lead-intake/pkg/logging"
)

var openaiTracer = otel.Tracer("leadintake.internal.classify.openai")

// chatClient is the slice of the OpenAI API the classifier needs; tests
// substitute a fake.
type chatClient interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIClassifier classifies leads through the OpenAI chat-completions API.
type OpenAIClassifier struct {
	client  chatClient
	model   string
	timeout time.Duration
	logger  *logging.Logger
}

// NewOpenAIClassifier builds a classifier backed by the OpenAI API.
func NewOpenAIClassifier(apiKey, model string, timeout time.Duration, logger *logging.Logger) *OpenAIClassifier {
	return NewOpenAIClassifierWithClient(openai.NewClient(apiKey), model, timeout, logger)
}

// NewOpenAIClassifierWithClient allows injecting the chat client.
func NewOpenAIClassifierWithClient(client chatClient, model string, timeout time.Duration, logger *logging.Logger) *OpenAIClassifier {
	if model == "" {
		model = "gpt-4o-mini"
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &OpenAIClassifier{
		client:  client,
		model:   model,
		timeout: timeout,
		logger:  logger,
	}
}

// Classify requests a strict-JSON classification at low temperature. The call
// is bounded by the configured timeout so a slow model cannot stall intake.
func (c *OpenAIClassifier) Classify(ctx context.Context, sub *leads.Submission) (*leads.Classification, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	ctx, span := openaiTracer.Start(ctx, "classify.openai")
	defer span.End()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0.2,
		MaxTokens:   200,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildUserPrompt(sub)},
		},
	})
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("classify: openai completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("classify: openai returned no choices")
	}

	cls, err := parseClassification(resp.Choices[0].Message.Content)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	c.logger.Debug("lead classified",
		"heat", string(cls.Heat),
		"timeline_bucket", string(cls.TimelineBucket),
		"vehicle_intent", string(cls.VehicleIntent),
	)
	return cls, nil
}
