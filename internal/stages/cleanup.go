package stages

import (
	"context"
	"path/filepath"
	"strings"

	"shelver/internal/config"
	"shelver/internal/records"
	"shelver/internal/services"
	"shelver/internal/stage"
	"shelver/internal/vault"
)

const cleanupStageName = "cleanup"

// temporaryExtensions are in-progress download/editor artifacts that should
// never enter the pipeline.
var temporaryExtensions = map[string]struct{}{
	".tmp":        {},
	".part":       {},
	".crdownload": {},
	".swp":        {},
}

// Cleanup is the first stage: it filters out files the pipeline should not
// touch and normalizes trailing whitespace in text files.
type Cleanup struct {
	cfg   *config.Config
	vault *vault.Vault
}

// NewCleanup constructs the cleanup executor.
func NewCleanup(cfg *config.Config, v *vault.Vault) *Cleanup {
	return &Cleanup{cfg: cfg, vault: v}
}

func (s *Cleanup) Execute(ctx context.Context, rec *records.FileRecord) error {
	name := filepath.Base(rec.CurrentPath)
	if strings.HasPrefix(name, ".") {
		return services.Bypass(cleanupStageName, "hidden file")
	}
	if _, temp := temporaryExtensions[strings.ToLower(filepath.Ext(name))]; temp || strings.HasSuffix(name, "~") {
		return services.Bypass(cleanupStageName, "temporary file")
	}
	size, err := s.vault.Size(rec.CurrentPath)
	if err != nil {
		return services.Wrap(services.ErrValidation, cleanupStageName, "stat file", "file is not readable", err)
	}
	if size == 0 {
		return services.Bypass(cleanupStageName, "empty file")
	}
	if !isTextPath(s.cfg, rec.CurrentPath) {
		return nil
	}
	content, err := s.vault.ReadText(rec.CurrentPath)
	if err != nil {
		return services.Wrap(services.ErrValidation, cleanupStageName, "read file", "file is not readable", err)
	}
	cleaned := trimTrailingWhitespace(content)
	if cleaned == content {
		return nil
	}
	if err := s.vault.WriteText(rec.CurrentPath, cleaned); err != nil {
		return services.Wrap(services.ErrTransient, cleanupStageName, "write file", "failed to rewrite cleaned content", err)
	}
	return nil
}

func (s *Cleanup) HealthCheck(ctx context.Context) stage.Health {
	return stage.Healthy(cleanupStageName)
}

// trimTrailingWhitespace removes trailing spaces/tabs per line and collapses
// trailing blank lines to a single final newline.
func trimTrailingWhitespace(content string) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\r")
	}
	out := strings.Join(lines, "\n")
	out = strings.TrimRight(out, "\n")
	return out + "\n"
}
