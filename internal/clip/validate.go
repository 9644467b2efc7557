package clip

import (
	"fmt"
	"path/filepath"
	"strings"
)

// VideoExtensions lists the input containers accepted for import,
// lower-cased.
var VideoExtensions = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".avi":  true,
	".mkv":  true,
	".webm": true,
	".m4v":  true,
}

// IsVideoFile reports whether filename carries a supported extension,
// case-insensitively.
func IsVideoFile(filename string) bool {
	return VideoExtensions[strings.ToLower(filepath.Ext(filename))]
}

// ValidateImportFile checks extension and size constraints for
// picker-based imports. Trusted paths (drag-and-drop) may skip it.
func ValidateImportFile(filename string, size, maxBytes int64) error {
	if !IsVideoFile(filename) {
		exts := []string{".mp4", ".mov", ".avi", ".mkv", ".webm", ".m4v"}
		return fmt.Errorf("unsupported file format, supported formats: %s", strings.Join(exts, ", "))
	}
	if maxBytes > 0 && size > maxBytes {
		return fmt.Errorf("file too large, maximum size: %dMB", maxBytes/(1024*1024))
	}
	if size == 0 {
		return fmt.Errorf("file is empty")
	}
	return nil
}
