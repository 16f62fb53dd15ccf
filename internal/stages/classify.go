package stages

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"shelver/internal/config"
	"shelver/internal/records"
	"shelver/internal/services"
	"shelver/internal/services/llm"
	"shelver/internal/stage"
)

const classifyStageName = "classify"

const promptSnippetLimit = 4000

// Classify asks the LLM to pick one classification from the configured
// taxonomy. The choice drives both the frontmatter and the final destination
// folder.
type Classify struct {
	cfg    *config.Config
	client Completer
}

// NewClassify constructs the classification executor.
func NewClassify(cfg *config.Config, client Completer) *Classify {
	return &Classify{cfg: cfg, client: client}
}

func (s *Classify) Execute(ctx context.Context, rec *records.FileRecord) error {
	if !llmConfigured(s.client) {
		return services.Wrap(services.ErrConfiguration, classifyStageName, "", "llm api key not configured", nil)
	}
	userPrompt := fmt.Sprintf(
		"File name: %s\nAllowed classifications: %s\n\nContent:\n%s",
		filepath.Base(rec.CurrentPath),
		strings.Join(s.cfg.Organizer.Classifications, ", "),
		snippet(rec.ExtractedText, promptSnippetLimit),
	)
	payload, err := s.client.CompleteJSON(ctx, ClassifyPrompt, userPrompt)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, classifyStageName, "llm request", "classification request failed", err)
	}
	var decision struct {
		Classification string `json:"classification"`
	}
	if err := llm.DecodeJSON(payload, &decision); err != nil {
		return services.Wrap(services.ErrExternalTool, classifyStageName, "parse response", "classification response was not valid JSON", err)
	}
	chosen, ok := s.matchClassification(decision.Classification)
	if !ok {
		return services.Wrap(services.ErrValidation, classifyStageName, "",
			fmt.Sprintf("model returned %q which is not an allowed classification", decision.Classification), nil)
	}
	rec.Classification = chosen
	return nil
}

func (s *Classify) HealthCheck(ctx context.Context) stage.Health {
	return llmHealth(classifyStageName, s.client)
}

// matchClassification normalizes the model output against the configured
// taxonomy so capitalization differences do not fail the stage.
func (s *Classify) matchClassification(value string) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, allowed := range s.cfg.Organizer.Classifications {
		if normalized == strings.ToLower(allowed) {
			return allowed, true
		}
	}
	return "", false
}
