// validation.go - Upload validation: allowed image types and size limits.
package server

import (
	"errors"
	"mime"
	"path/filepath"
	"strings"
)

// Upload limits shared across handlers.
const (
	// MaxUploadBytes is the per-file payload cap.
	MaxUploadBytes = 10 << 20 // 10 MiB
	// MaxBatchFiles is the most files accepted in one batch upload.
	MaxBatchFiles = 10

	// multipartOverhead is headroom for multipart boundaries and part
	// headers when capping a whole request body.
	multipartOverhead = 1 << 20
)

// errNotAnImage is the validation failure every rejected upload reports.
var errNotAnImage = errors.New("only image files are allowed")

// allowedImageExts is the fixed set of acceptable file extensions.
var allowedImageExts = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
	".svg":  true,
	".webp": true,
}

// allowedImageTypes is the fixed set of acceptable declared media types.
// image/jpg is not a registered type but common enough in the wild.
var allowedImageTypes = map[string]bool{
	"image/jpeg":    true,
	"image/jpg":     true,
	"image/png":     true,
	"image/gif":     true,
	"image/svg+xml": true,
	"image/webp":    true,
}

// validateImageUpload accepts a candidate only if BOTH its extension and
// its declared media type belong to the allowed image set. The bytes
// themselves are never inspected.
func validateImageUpload(filename, contentType string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedImageExts[ext] {
		return errNotAnImage
	}

	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return errNotAnImage
	}
	if !allowedImageTypes[strings.ToLower(mt)] {
		return errNotAnImage
	}
	return nil
}

// isAllowedImageName reports whether a stored name carries one of the
// allowed image extensions. Used to filter directory listings.
func isAllowedImageName(name string) bool {
	return allowedImageExts[strings.ToLower(filepath.Ext(name))]
}
