package stages

import (
	"context"
	"fmt"
	"strings"

	"shelver/internal/config"
	"shelver/internal/records"
	"shelver/internal/services"
	"shelver/internal/services/llm"
	"shelver/internal/stage"
	"shelver/internal/vault"
)

const formattingStageName = "formatting"

// formattingContentLimit bounds the document size sent for reformatting.
// Larger documents are left as-is rather than truncated and corrupted.
const formattingContentLimit = 24000

// Formatting asks the LLM to reformat the document according to its
// classification and rewrites the file in place.
type Formatting struct {
	cfg    *config.Config
	vault  *vault.Vault
	client Completer
}

// NewFormatting constructs the formatting executor.
func NewFormatting(cfg *config.Config, v *vault.Vault, client Completer) *Formatting {
	return &Formatting{cfg: cfg, vault: v, client: client}
}

func (s *Formatting) Execute(ctx context.Context, rec *records.FileRecord) error {
	if !llmConfigured(s.client) {
		return services.Wrap(services.ErrConfiguration, formattingStageName, "", "llm api key not configured", nil)
	}
	content, err := s.vault.ReadText(rec.CurrentPath)
	if err != nil {
		return services.Wrap(services.ErrTransient, formattingStageName, "read file", "failed to read document", err)
	}
	if len([]rune(content)) > formattingContentLimit {
		return nil
	}
	userPrompt := fmt.Sprintf("Classification: %s\n\nContent:\n%s", rec.Classification, content)
	payload, err := s.client.CompleteJSON(ctx, FormattingPrompt, userPrompt)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, formattingStageName, "llm request", "formatting request failed", err)
	}
	var decision struct {
		Content string `json:"content"`
	}
	if err := llm.DecodeJSON(payload, &decision); err != nil {
		return services.Wrap(services.ErrExternalTool, formattingStageName, "parse response", "formatting response was not valid JSON", err)
	}
	formatted := decision.Content
	if strings.TrimSpace(formatted) == "" {
		return services.Wrap(services.ErrValidation, formattingStageName, "", "model returned empty content", nil)
	}
	if !strings.HasSuffix(formatted, "\n") {
		formatted += "\n"
	}
	if formatted == content {
		return nil
	}
	if err := s.vault.WriteText(rec.CurrentPath, formatted); err != nil {
		return services.Wrap(services.ErrTransient, formattingStageName, "write file", "failed to write formatted document", err)
	}
	rec.ExtractedText = formatted
	return nil
}

func (s *Formatting) HealthCheck(ctx context.Context) stage.Health {
	return llmHealth(formattingStageName, s.client)
}
