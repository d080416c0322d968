package decode

import (
	"fmt"
	"path/filepath"
	"strings"
)

// DefaultMaxUploadBytes caps uploads at 100MB.
const DefaultMaxUploadBytes int64 = 100 * 1024 * 1024

// UploadExtensions lists the extensions accepted for uploads.
var UploadExtensions = []string{"csv", "xlsx", "xls"}

// ValidateUpload checks an upload's extension and size before it is read.
// A maxBytes of 0 or less applies DefaultMaxUploadBytes.
func ValidateUpload(name string, size, maxBytes int64) error {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	if size > maxBytes {
		return fmt.Errorf("%w: %d bytes (max %dMB)", ErrTooLarge, size, maxBytes/(1024*1024))
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	for _, e := range UploadExtensions {
		if ext == e {
			return nil
		}
	}
	return fmt.Errorf("%w: %q (use CSV or Excel)", ErrInvalidExtension, filepath.Base(name))
}
