package stages

import (
	"context"
	"path/filepath"

	"shelver/internal/records"
	"shelver/internal/services"
	"shelver/internal/stage"
	"shelver/internal/vault"
)

const applyNameStageName = "applying_name"

// ApplyName renames the file to the recommended name.
type ApplyName struct {
	vault *vault.Vault
}

// NewApplyName constructs the name application executor.
func NewApplyName(v *vault.Vault) *ApplyName {
	return &ApplyName{vault: v}
}

func (s *ApplyName) Execute(ctx context.Context, rec *records.FileRecord) error {
	if rec.NewName == "" || rec.NewName == filepath.Base(rec.CurrentPath) {
		return nil
	}
	moved, err := s.vault.Rename(rec.CurrentPath, rec.NewName)
	if err != nil {
		return services.Wrap(services.ErrTransient, applyNameStageName, "rename file", "failed to apply recommended name", err)
	}
	rec.CurrentPath = moved
	// Collision suffixes can alter the final name.
	rec.NewName = filepath.Base(moved)
	return nil
}

func (s *ApplyName) HealthCheck(ctx context.Context) stage.Health {
	return stage.Healthy(applyNameStageName)
}
