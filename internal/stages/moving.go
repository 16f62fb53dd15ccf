package stages

import (
	"context"
	"path/filepath"

	"shelver/internal/config"
	"shelver/internal/records"
	"shelver/internal/services"
	"shelver/internal/stage"
	"shelver/internal/textutil"
	"shelver/internal/vault"
)

const movingStageName = "moving"

// unsortedFolder receives files that reach the final move without a
// classification.
const unsortedFolder = "unsorted"

// Moving relocates the finished file into the library folder derived from
// its classification.
type Moving struct {
	cfg   *config.Config
	vault *vault.Vault
}

// NewMoving constructs the final move executor.
func NewMoving(cfg *config.Config, v *vault.Vault) *Moving {
	return &Moving{cfg: cfg, vault: v}
}

func (s *Moving) Execute(ctx context.Context, rec *records.FileRecord) error {
	folder := unsortedFolder
	if rec.Classification != "" {
		folder = textutil.SanitizeToken(rec.Classification)
	}
	dest := filepath.Join(s.cfg.Paths.LibraryDir, folder)
	moved, err := s.vault.MoveTo(rec.CurrentPath, dest)
	if err != nil {
		return services.Wrap(services.ErrTransient, movingStageName, "move file", "failed to move file into the library", err)
	}
	rec.CurrentPath = moved
	rec.NewPath = moved
	return nil
}

func (s *Moving) HealthCheck(ctx context.Context) stage.Health {
	if s.cfg.Paths.LibraryDir == "" {
		return stage.Unhealthy(movingStageName, "library directory not configured")
	}
	return stage.Healthy(movingStageName)
}
