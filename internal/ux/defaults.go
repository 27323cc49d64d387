package ux

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// maxNameAttempts bounds the " (n)" suffix search in UniquePath.
const maxNameAttempts = 1000

// ExportPath resolves where a downloaded file is written. An empty out
// means the working directory, a directory means a file inside it named
// after the server's suggestion. Anything else is used as given.
func ExportPath(out, suggested string) string {
	if out == "" {
		return UniquePath(".", suggested)
	}
	if info, err := os.Stat(out); err == nil && info.IsDir() {
		return UniquePath(out, suggested)
	}
	return out
}

// UniquePath joins dir and name, appending " (1)", " (2)" and so on before
// the extension when the file already exists.
func UniquePath(dir, name string) string {
	name = filepath.Base(name)
	path := filepath.Join(dir, name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path
	}

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 1; i < maxNameAttempts; i++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s (%d)%s", stem, i, ext))
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
	return path
}

// WriteExport writes data to path with owner-only permissions.
func WriteExport(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// ValidateRequiredFile checks if a required file exists and provides helpful error
func ValidateRequiredFile(path string, fileType string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("%s not found at: %s", fileType, path)
	} else if err != nil {
		return fmt.Errorf("error accessing %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s at %s is a directory", fileType, path)
	}
	return nil
}
