package constants

import (
	"mime"
	"strings"
)

// DefaultExtension is the document extension processed when none is
// configured.
const DefaultExtension = ".pdf"

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MIMEForExtension resolves the payload media type sent alongside document
// bytes. Unknown extensions fall back to application/octet-stream.
func MIMEForExtension(ext string) string {
	e := NormalizeExt(ext)
	if mt := mime.TypeByExtension("." + e); mt != "" {
		// Strip parameters such as "; charset=utf-8".
		if i := strings.Index(mt, ";"); i >= 0 {
			mt = strings.TrimSpace(mt[:i])
		}
		return mt
	}
	switch e {
	case "pdf":
		return "application/pdf"
	case "jpg", "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
