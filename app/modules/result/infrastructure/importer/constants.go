package importer

import "time"

const (
	// Download limits
	downloadTimeout = 30 * time.Second
	maxRedirects    = 5
	maxFileSize     = 10 << 20 // 10MB

	userAgent = "Mozilla/5.0 (compatible; MotoPickem/1.0)"
)
