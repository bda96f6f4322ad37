package constants

import (
	"path/filepath"
	"strings"
)

// Ekstensi gambar yang diterima untuk upload bukti transfer
func IsAllowedImageExt(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".png", ".jpg", ".jpeg", ".webp":
		return true
	default:
		return false
	}
}
