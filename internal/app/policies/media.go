package policies

import (
	"context"
	"io"
)

// MediaStore persists uploaded property photos and returns a public URL.
type MediaStore interface {
	Upload(ctx context.Context, name, contentType string, data io.Reader, size int64) (string, error)
}
