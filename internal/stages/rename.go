package stages

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"shelver/internal/records"
	"shelver/internal/services"
	"shelver/internal/stage"
	"shelver/internal/vault"
)

const renameStageName = "rename"

// conflictSuffix matches sync-conflict style names: "note (1).md",
// "note (conflicted copy).md".
var conflictSuffix = regexp.MustCompile(`\((\d+|conflicted copy[^)]*)\)\s*$`)

// Rename gives untitled and conflict-suffixed files a timestamped safe name
// so later stages operate on a stable, meaningful path.
type Rename struct {
	vault *vault.Vault
	now   func() time.Time
}

// NewRename constructs the rename executor.
func NewRename(v *vault.Vault) *Rename {
	return &Rename{vault: v, now: time.Now}
}

func (s *Rename) Execute(ctx context.Context, rec *records.FileRecord) error {
	name := filepath.Base(rec.CurrentPath)
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	if !needsRename(stem) {
		return nil
	}
	fresh := "inbox-" + s.now().Format("20060102-150405") + ext
	moved, err := s.vault.Rename(rec.CurrentPath, fresh)
	if err != nil {
		return services.Wrap(services.ErrTransient, renameStageName, "rename file", "failed to assign safe name", err)
	}
	rec.CurrentPath = moved
	return nil
}

func (s *Rename) HealthCheck(ctx context.Context) stage.Health {
	return stage.Healthy(renameStageName)
}

func needsRename(stem string) bool {
	lowered := strings.ToLower(strings.TrimSpace(stem))
	if lowered == "" || strings.HasPrefix(lowered, "untitled") || lowered == "new note" {
		return true
	}
	return conflictSuffix.MatchString(lowered)
}
