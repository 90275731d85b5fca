package storage

import (
	"context"
	"io"
)

// Uploader publishes generated artifacts (HTML reports, spreadsheets).
type Uploader interface {
	Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (storedPath string, err error)
}
