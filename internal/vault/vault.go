package vault

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Vault wraps filesystem operations rooted at the configured directories.
// Paths passed to its methods are absolute; Vault does not chroot, it only
// centralizes the move/rename/copy semantics the stages share.
type Vault struct{}

// New returns a Vault.
func New() *Vault {
	return &Vault{}
}

// ReadText returns the full content of path.
func (v *Vault) ReadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return string(data), nil
}

// WriteText rewrites path with content, preserving the existing file mode
// when the file already exists.
func (v *Vault) WriteText(path, content string) error {
	mode := fs.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Exists reports whether path exists.
func (v *Vault) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Size returns the file size in bytes.
func (v *Vault) Size(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// EnsureDir creates dir (and parents) if missing.
func (v *Vault) EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	return nil
}

// Rename renames the file at path to newName within the same directory and
// returns the resulting path. Collisions get a numeric suffix.
func (v *Vault) Rename(path, newName string) (string, error) {
	dir := filepath.Dir(path)
	target := UniquePath(filepath.Join(dir, newName))
	if target == path {
		return path, nil
	}
	if err := os.Rename(path, target); err != nil {
		return "", fmt.Errorf("rename %s: %w", filepath.Base(path), err)
	}
	return target, nil
}

// MoveTo relocates the file at path into destDir, creating the directory if
// needed. It falls back to copy+remove when rename crosses filesystems.
func (v *Vault) MoveTo(path, destDir string) (string, error) {
	if err := v.EnsureDir(destDir); err != nil {
		return "", err
	}
	target := UniquePath(filepath.Join(destDir, filepath.Base(path)))
	if err := os.Rename(path, target); err == nil {
		return target, nil
	} else if !isCrossDevice(err) {
		return "", fmt.Errorf("move %s: %w", filepath.Base(path), err)
	}
	if err := copyFile(path, target); err != nil {
		return "", fmt.Errorf("move %s: %w", filepath.Base(path), err)
	}
	if err := os.Remove(path); err != nil {
		return "", fmt.Errorf("move %s: remove source: %w", filepath.Base(path), err)
	}
	return target, nil
}

// UniquePath returns path unchanged when it is free, otherwise the first
// "name (n).ext" variant that does not exist yet.
func UniquePath(path string) string {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return path
	}
	dir := filepath.Dir(path)
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(filepath.Base(path), ext)
	for n := 1; ; n++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s (%d)%s", stem, n, ext))
		if _, err := os.Stat(candidate); errors.Is(err, fs.ErrNotExist) {
			return candidate
		}
	}
}

func isCrossDevice(err error) bool {
	var linkErr *os.LinkError
	return errors.As(err, &linkErr)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	mode := fs.FileMode(0o644)
	if info, err := in.Stat(); err == nil {
		mode = info.Mode().Perm()
	}
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		_ = os.Remove(dst)
		return err
	}
	return out.Close()
}
