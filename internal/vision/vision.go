// Package vision wraps the external vision-model collaborator: multi-part
// messages carrying a prompt plus one or more images, returning free text.
// Returned text is untrusted and goes through the extract package.
package vision

import (
	"context"
	"path/filepath"
	"strings"
)

// Image is a single image payload with its declared media type.
type Image struct {
	Kind string // "image/png", "image/jpeg", or "image/webp"
	Data []byte
}

// Request is one vision-model call.
type Request struct {
	Prompt string
	Images []Image
}

// Client is the vision-model collaborator contract.
type Client interface {
	// Generate sends the request and returns the model's raw text output.
	Generate(ctx context.Context, req Request) (string, error)
}

// SupportedExtensions lists the image formats accepted for ingestion.
var SupportedExtensions = []string{".png", ".jpg", ".jpeg", ".webp"}

// IsSupportedImage reports whether path has a supported image extension.
func IsSupportedImage(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, s := range SupportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

// GuessKind maps a file path to its image media type. Unknown extensions
// default to PNG, matching what the providers tolerate best.
func GuessKind(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	default:
		return "image/png"
	}
}
