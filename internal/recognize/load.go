package recognize

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// supportedFormats maps file extensions to the canonical format tag.
var supportedFormats = map[string]string{
	".jpg":  "jpeg",
	".jpeg": "jpeg",
	".png":  "png",
	".pdf":  "pdf",
}

// SupportedFormats lists the accepted input formats.
func SupportedFormats() []string {
	return []string{"jpeg", "png", "pdf"}
}

// LoadCardImage reads a card image from disk and tags its format from the
// file extension.
func LoadCardImage(path string) (CardImage, error) {
	ext := strings.ToLower(filepath.Ext(path))
	format, ok := supportedFormats[ext]
	if !ok {
		return CardImage{}, fmt.Errorf("unsupported card image format %q (supported: %s)",
			ext, strings.Join(SupportedFormats(), ", "))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return CardImage{}, fmt.Errorf("read card image %s: %w", path, err)
	}

	return CardImage{Path: path, Data: data, Format: format}, nil
}
