package stages

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"

	"shelver/internal/config"
	"shelver/internal/records"
	"shelver/internal/services"
	"shelver/internal/stage"
	"shelver/internal/vault"
)

const attachmentsStageName = "moving_attachment"

var (
	// markdownEmbed matches image/file embeds: ![alt](target).
	markdownEmbed = regexp.MustCompile(`!\[[^\]]*\]\(([^)\s]+)\)`)
	// wikiEmbed matches Obsidian-style embeds: ![[target]].
	wikiEmbed = regexp.MustCompile(`!\[\[([^\]|]+)(?:\|[^\]]*)?\]\]`)
)

// attachmentVault is the slice of vault behavior the stage uses.
type attachmentVault interface {
	ReadText(path string) (string, error)
	WriteText(path, content string) error
	Exists(path string) bool
	MoveTo(path, destDir string) (string, error)
}

var _ attachmentVault = (*vault.Vault)(nil)

// Attachments relocates files embedded by a markdown document into the
// configured attachments directory and rewrites the embeds to point there.
// Non-markdown documents pass through untouched.
type Attachments struct {
	cfg   *config.Config
	vault attachmentVault
}

// NewAttachments constructs the attachment relocation executor.
func NewAttachments(cfg *config.Config, v attachmentVault) *Attachments {
	return &Attachments{cfg: cfg, vault: v}
}

func (s *Attachments) Execute(ctx context.Context, rec *records.FileRecord) error {
	if strings.ToLower(filepath.Ext(rec.CurrentPath)) != ".md" {
		return nil
	}
	content, err := s.vault.ReadText(rec.CurrentPath)
	if err != nil {
		return services.Wrap(services.ErrTransient, attachmentsStageName, "read file", "failed to read document", err)
	}
	docDir := filepath.Dir(rec.CurrentPath)
	moved := make(map[string]string)
	var moveErr error

	relocate := func(target string) (string, bool) {
		if replacement, ok := moved[target]; ok {
			return replacement, true
		}
		if strings.Contains(target, "://") || filepath.IsAbs(target) {
			return "", false
		}
		source := filepath.Join(docDir, filepath.FromSlash(target))
		if !s.vault.Exists(source) {
			return "", false
		}
		dest, err := s.vault.MoveTo(source, s.cfg.Paths.AttachmentsDir)
		if err != nil {
			if moveErr == nil {
				moveErr = err
			}
			return "", false
		}
		replacement := embedTarget(docDir, dest)
		moved[target] = replacement
		return replacement, true
	}

	rewritten := markdownEmbed.ReplaceAllStringFunc(content, func(match string) string {
		target := markdownEmbed.FindStringSubmatch(match)[1]
		replacement, ok := relocate(target)
		if !ok {
			return match
		}
		return strings.Replace(match, "("+target+")", "("+replacement+")", 1)
	})
	rewritten = wikiEmbed.ReplaceAllStringFunc(rewritten, func(match string) string {
		target := strings.TrimSpace(wikiEmbed.FindStringSubmatch(match)[1])
		replacement, ok := relocate(target)
		if !ok {
			return match
		}
		return "![[" + replacement + "]]"
	})
	if moveErr != nil {
		// Attachments that already moved must keep their rewritten links;
		// on a retry their sources are gone and the embeds cannot be
		// repaired anymore.
		if rewritten != content {
			if werr := s.vault.WriteText(rec.CurrentPath, rewritten); werr == nil && rec.ExtractedText != "" {
				rec.ExtractedText = rewritten
			}
		}
		return services.Wrap(services.ErrTransient, attachmentsStageName, "move attachment", "failed to relocate attachment", moveErr)
	}
	if rewritten == content {
		return nil
	}
	if err := s.vault.WriteText(rec.CurrentPath, rewritten); err != nil {
		return services.Wrap(services.ErrTransient, attachmentsStageName, "write file", "failed to rewrite embed links", err)
	}
	if rec.ExtractedText != "" {
		rec.ExtractedText = rewritten
	}
	return nil
}

func (s *Attachments) HealthCheck(ctx context.Context) stage.Health {
	if strings.TrimSpace(s.cfg.Paths.AttachmentsDir) == "" {
		return stage.Unhealthy(attachmentsStageName, "attachments directory not configured")
	}
	return stage.Healthy(attachmentsStageName)
}

// embedTarget renders the moved attachment's path relative to the document,
// falling back to the absolute path when no relative form exists.
func embedTarget(docDir, dest string) string {
	rel, err := filepath.Rel(docDir, dest)
	if err != nil {
		return dest
	}
	return filepath.ToSlash(rel)
}
