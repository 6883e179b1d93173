package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadText reads a plain-text term sheet. PDF-to-text conversion happens
// upstream of this repository; the extractor takes .txt or .md input.
func LoadText(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".txt", ".md", ".text":
	default:
		return "", fmt.Errorf("unsupported term sheet format %q, convert to .txt first", ext)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
