package files

import (
	"context"
)

// FileManager fetches user uploads into memory.
type FileManager interface {
	Download(ctx context.Context, fileID string) ([]byte, error)
}
