package stages

import (
	"context"

	"shelver/internal/records"
	"shelver/internal/services"
	"shelver/internal/stage"
	"shelver/internal/vault"
)

const applyTagsStageName = "applying_tags"

// ApplyTags writes the recommended tags and the classification into the
// document's frontmatter.
type ApplyTags struct {
	vault *vault.Vault
}

// NewApplyTags constructs the tag application executor.
func NewApplyTags(v *vault.Vault) *ApplyTags {
	return &ApplyTags{vault: v}
}

func (s *ApplyTags) Execute(ctx context.Context, rec *records.FileRecord) error {
	if len(rec.Tags) == 0 && rec.Classification == "" {
		return nil
	}
	content, err := s.vault.ReadText(rec.CurrentPath)
	if err != nil {
		return services.Wrap(services.ErrTransient, applyTagsStageName, "read file", "failed to read document", err)
	}
	fields := map[string]any{}
	if len(rec.Tags) > 0 {
		fields["tags"] = rec.Tags
	}
	if rec.Classification != "" {
		fields["classification"] = rec.Classification
	}
	updated, err := upsertFrontmatter(content, fields)
	if err != nil {
		return services.Wrap(services.ErrValidation, applyTagsStageName, "update frontmatter", "document frontmatter is malformed", err)
	}
	if updated == content {
		return nil
	}
	if err := s.vault.WriteText(rec.CurrentPath, updated); err != nil {
		return services.Wrap(services.ErrTransient, applyTagsStageName, "write file", "failed to write tagged document", err)
	}
	rec.ExtractedText = updated
	return nil
}

func (s *ApplyTags) HealthCheck(ctx context.Context) stage.Health {
	return stage.Healthy(applyTagsStageName)
}
