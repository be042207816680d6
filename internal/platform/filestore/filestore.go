package filestore

import (
	"context"
	"io"
)

// Store persists uploaded project files under a caller-chosen object name.
type Store interface {
	Save(ctx context.Context, name string, body io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, name string) error
}
