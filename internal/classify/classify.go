package classify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/directauto/lead-intake/internal/config"
	"github.com/directauto/lead-intake/internal/leads"
	"github.com/directauto/lead-intake/pkg/logging"
)

// Classifier produces the four enrichment fields for a submission. Failures
// are never fatal to intake; callers log and continue without enrichment.
type Classifier interface {
	Classify(ctx context.Context, sub *leads.Submission) (*leads.Classification, error)
}

// Noop is the classifier selected when no classification credential is
// configured. It reports no enrichment and never fails.
type Noop struct{}

// Classify returns no classification.
func (Noop) Classify(context.Context, *leads.Submission) (*leads.Classification, error) {
	return nil, nil
}

// FromConfig selects a classifier implementation based on which credentials
// are present. Provider "auto" prefers OpenAI, then Gemini, then none.
func FromConfig(ctx context.Context, cfg *config.Config, logger *logging.Logger) (Classifier, error) {
	if logger == nil {
		logger = logging.Default()
	}

	provider := cfg.ClassifierProvider
	if provider == "" {
		provider = "auto"
	}

	switch provider {
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, errors.New("classify: OPENAI_API_KEY is required for provider openai")
		}
		return NewOpenAIClassifier(cfg.OpenAIAPIKey, cfg.ClassifierModel, cfg.ClassifierTimeout, logger), nil
	case "gemini":
		return NewGeminiClassifier(ctx, cfg.GeminiAPIKey, cfg.ClassifierModel, cfg.ClassifierTimeout, logger)
	case "none":
		return Noop{}, nil
	case "auto":
		if cfg.OpenAIAPIKey != "" {
			return NewOpenAIClassifier(cfg.OpenAIAPIKey, cfg.ClassifierModel, cfg.ClassifierTimeout, logger), nil
		}
		if cfg.GeminiAPIKey != "" {
			return NewGeminiClassifier(ctx, cfg.GeminiAPIKey, cfg.ClassifierModel, cfg.ClassifierTimeout, logger)
		}
		logger.Info("classify: no classifier credential configured, enrichment disabled")
		return Noop{}, nil
	default:
		return nil, fmt.Errorf("classify: unknown provider %q", provider)
	}
}

// parseClassification extracts the strict-JSON classification object from
// model output. Models occasionally wrap the JSON in prose or code fences, so
// the outermost braces are located before unmarshalling.
func parseClassification(text string) (*leads.Classification, error) {
	content := strings.TrimSpace(text)
	startIdx := strings.Index(content, "{")
	endIdx := strings.LastIndex(content, "}")
	if startIdx >= 0 && endIdx > startIdx {
		content = content[startIdx : endIdx+1]
	}

	var cls leads.Classification
	if err := json.Unmarshal([]byte(content), &cls); err != nil {
		return nil, fmt.Errorf("classify: response is not valid JSON: %w", err)
	}

	if !cls.Heat.Valid() {
		return nil, fmt.Errorf("classify: invalid heat tier %q", cls.Heat)
	}
	if !cls.TimelineBucket.Valid() {
		return nil, fmt.Errorf("classify: invalid timeline bucket %q", cls.TimelineBucket)
	}
	if !cls.VehicleIntent.Valid() {
		cls.VehicleIntent = leads.VehicleUnknown
	}
	cls.Summary = strings.TrimSpace(cls.Summary)

	return &cls, nil
}
