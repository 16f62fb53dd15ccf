package stages

import (
	"context"
	"path/filepath"
	"strings"

	"shelver/internal/config"
	"shelver/internal/records"
	"shelver/internal/stage"
	"shelver/internal/vault"
)

// Completer is the slice of the LLM client the AI-assisted stages need.
type Completer interface {
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	Configured() bool
}

// BuildAll wires one executor per pipeline action. The scheduler dispatches
// by action; the terminal completed marker has no executor.
func BuildAll(cfg *config.Config, v *vault.Vault, client Completer) map[records.Action]stage.Handler {
	return map[records.Action]stage.Handler{
		records.ActionCleanup:          NewCleanup(cfg, v),
		records.ActionRename:           NewRename(v),
		records.ActionExtract:          NewExtract(cfg, v),
		records.ActionMovingAttachment: NewAttachments(cfg, v),
		records.ActionClassify:         NewClassify(cfg, client),
		records.ActionTagging:          NewTagging(cfg, client),
		records.ActionApplyingTags:     NewApplyTags(v),
		records.ActionRecommendName:    NewRecommendName(cfg, client),
		records.ActionApplyingName:     NewApplyName(v),
		records.ActionFormatting:       NewFormatting(cfg, v, client),
		records.ActionMoving:           NewMoving(cfg, v),
	}
}

func isTextPath(cfg *config.Config, path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, allowed := range cfg.Organizer.TextExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

func llmConfigured(client Completer) bool {
	return client != nil && client.Configured()
}

func llmHealth(name string, client Completer) stage.Health {
	if !llmConfigured(client) {
		return stage.Unhealthy(name, "llm api key not configured")
	}
	return stage.Healthy(name)
}

// snippet bounds the document text included in prompts.
func snippet(text string, limit int) string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
