package stages

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"shelver/internal/config"
	"shelver/internal/records"
	"shelver/internal/services"
	"shelver/internal/stage"
	"shelver/internal/vault"
)

const extractStageName = "extract"

// Extract reads supported text formats into the record so the AI stages can
// see the document. Binary formats end the run as bypassed.
type Extract struct {
	cfg   *config.Config
	vault *vault.Vault
}

// NewExtract constructs the extract executor.
func NewExtract(cfg *config.Config, v *vault.Vault) *Extract {
	return &Extract{cfg: cfg, vault: v}
}

func (s *Extract) Execute(ctx context.Context, rec *records.FileRecord) error {
	if !isTextPath(s.cfg, rec.CurrentPath) {
		ext := strings.ToLower(filepath.Ext(rec.CurrentPath))
		if ext == "" {
			ext = "no extension"
		}
		return services.Bypass(extractStageName, fmt.Sprintf("unsupported format (%s)", ext))
	}
	content, err := s.vault.ReadText(rec.CurrentPath)
	if err != nil {
		return services.Wrap(services.ErrTransient, extractStageName, "read file", "failed to read document content", err)
	}
	rec.ExtractedText = content
	return nil
}

func (s *Extract) HealthCheck(ctx context.Context) stage.Health {
	return stage.Healthy(extractStageName)
}
