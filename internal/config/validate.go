package config

import (
	"fmt"
	"strings"
)

// Validate verifies the configuration is internally consistent. It is called
// by Load after normalization; callers constructing configs by hand (tests)
// should call it themselves.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Paths.InboxDir) == "" {
		return fmt.Errorf("paths.inbox_dir is required")
	}
	if strings.TrimSpace(c.Paths.LibraryDir) == "" {
		return fmt.Errorf("paths.library_dir is required")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return fmt.Errorf("paths.log_dir is required")
	}
	if c.Paths.InboxDir == c.Paths.LibraryDir {
		return fmt.Errorf("paths.inbox_dir and paths.library_dir must differ; the final move would re-trigger the watcher")
	}
	if len(c.Organizer.Classifications) == 0 {
		return fmt.Errorf("organizer.classifications must not be empty")
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}
