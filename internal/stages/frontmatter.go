package stages

import (
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
)

const frontmatterDelimiter = "---"

// splitFrontmatter separates a leading YAML frontmatter block from the
// document body. The returned body keeps its original form; frontmatter is
// "" when the document has none.
func splitFrontmatter(content string) (frontmatter, body string) {
	if !strings.HasPrefix(content, frontmatterDelimiter+"\n") && content != frontmatterDelimiter {
		return "", content
	}
	rest := strings.TrimPrefix(content, frontmatterDelimiter+"\n")
	end := strings.Index(rest, "\n"+frontmatterDelimiter)
	if end < 0 {
		return "", content
	}
	frontmatter = rest[:end]
	body = rest[end+len("\n"+frontmatterDelimiter):]
	body = strings.TrimPrefix(body, "\n")
	return frontmatter, body
}

// upsertFrontmatter sets the given keys in the document's YAML frontmatter,
// creating the block when absent. Existing unrelated keys are preserved.
func upsertFrontmatter(content string, fields map[string]any) (string, error) {
	raw, body := splitFrontmatter(content)
	data := map[string]any{}
	if raw != "" {
		if err := yaml.Unmarshal([]byte(raw), &data); err != nil {
			return "", fmt.Errorf("parse frontmatter: %w", err)
		}
	}
	for key, value := range fields {
		data[key] = value
	}
	encoded, err := yaml.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("encode frontmatter: %w", err)
	}
	var b strings.Builder
	b.WriteString(frontmatterDelimiter + "\n")
	b.Write(encoded)
	b.WriteString(frontmatterDelimiter + "\n")
	if body != "" {
		b.WriteString("\n" + strings.TrimPrefix(body, "\n"))
	}
	return b.String(), nil
}
