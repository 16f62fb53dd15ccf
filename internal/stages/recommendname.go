package stages

import (
	"context"
	"fmt"
	"path/filepath"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"shelver/internal/config"
	"shelver/internal/records"
	"shelver/internal/services"
	"shelver/internal/services/llm"
	"shelver/internal/stage"
	"shelver/internal/textutil"
)

const recommendNameStageName = "recommend_name"

// RecommendName asks the LLM for a descriptive title and turns it into a
// filesystem-safe file name, keeping the document's original extension.
type RecommendName struct {
	cfg    *config.Config
	client Completer
}

// NewRecommendName constructs the name recommendation executor.
func NewRecommendName(cfg *config.Config, client Completer) *RecommendName {
	return &RecommendName{cfg: cfg, client: client}
}

func (s *RecommendName) Execute(ctx context.Context, rec *records.FileRecord) error {
	if !llmConfigured(s.client) {
		return services.Wrap(services.ErrConfiguration, recommendNameStageName, "", "llm api key not configured", nil)
	}
	userPrompt := fmt.Sprintf(
		"Current file name: %s\nClassification: %s\n\nContent:\n%s",
		filepath.Base(rec.CurrentPath),
		rec.Classification,
		snippet(rec.ExtractedText, promptSnippetLimit),
	)
	payload, err := s.client.CompleteJSON(ctx, RecommendNamePrompt, userPrompt)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, recommendNameStageName, "llm request", "name recommendation request failed", err)
	}
	var decision struct {
		Name string `json:"name"`
	}
	if err := llm.DecodeJSON(payload, &decision); err != nil {
		return services.Wrap(services.ErrExternalTool, recommendNameStageName, "parse response", "name response was not valid JSON", err)
	}
	name := SafeFileName(decision.Name)
	if name == "" {
		return services.Wrap(services.ErrValidation, recommendNameStageName, "",
			fmt.Sprintf("model returned unusable name %q", decision.Name), nil)
	}
	rec.NewName = name + filepath.Ext(rec.CurrentPath)
	return nil
}

func (s *RecommendName) HealthCheck(ctx context.Context) stage.Health {
	return llmHealth(recommendNameStageName, s.client)
}

// SafeFileName title-cases a proposed document title and strips characters
// unsafe for filenames. Returns "" when nothing usable remains.
func SafeFileName(title string) string {
	cleaned := textutil.SanitizeFileName(title)
	if cleaned == "" {
		return ""
	}
	return cases.Title(language.Und, cases.NoLower).String(cleaned)
}
