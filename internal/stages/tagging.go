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

const taggingStageName = "tagging"

// Tagging asks the LLM for topic tags, keeping the model's relevance order
// and capping the count at the configured maximum.
type Tagging struct {
	cfg    *config.Config
	client Completer
}

// NewTagging constructs the tag recommendation executor.
func NewTagging(cfg *config.Config, client Completer) *Tagging {
	return &Tagging{cfg: cfg, client: client}
}

func (s *Tagging) Execute(ctx context.Context, rec *records.FileRecord) error {
	if !llmConfigured(s.client) {
		return services.Wrap(services.ErrConfiguration, taggingStageName, "", "llm api key not configured", nil)
	}
	userPrompt := fmt.Sprintf(
		"File name: %s\nClassification: %s\nMaximum tags: %d\n\nContent:\n%s",
		filepath.Base(rec.CurrentPath),
		rec.Classification,
		s.cfg.Organizer.MaxTags,
		snippet(rec.ExtractedText, promptSnippetLimit),
	)
	payload, err := s.client.CompleteJSON(ctx, TaggingPrompt, userPrompt)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, taggingStageName, "llm request", "tag recommendation request failed", err)
	}
	var decision struct {
		Tags []string `json:"tags"`
	}
	if err := llm.DecodeJSON(payload, &decision); err != nil {
		return services.Wrap(services.ErrExternalTool, taggingStageName, "parse response", "tag response was not valid JSON", err)
	}
	rec.Tags = NormalizeTags(decision.Tags, s.cfg.Organizer.MaxTags)
	return nil
}

func (s *Tagging) HealthCheck(ctx context.Context) stage.Health {
	return llmHealth(taggingStageName, s.client)
}

// NormalizeTags lowercases tags, strips leading #, replaces inner whitespace
// with hyphens, drops empties and duplicates, and caps the count. Order is
// preserved.
func NormalizeTags(tags []string, limit int) []string {
	if limit <= 0 {
		limit = len(tags)
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimPrefix(strings.TrimSpace(tag), "#")
		tag = strings.ToLower(strings.Join(strings.Fields(tag), "-"))
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
		if len(out) == limit {
			break
		}
	}
	return out
}
