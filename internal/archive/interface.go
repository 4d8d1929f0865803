package archive

import (
	"context"
	"io"
)

// Extractor recovers media assets and slide relationships from a deck package
type Extractor interface {
	Open(ctx context.Context, path string) (*Package, error)
	Read(ctx context.Context, r io.ReaderAt, size int64) (*Package, error)
}
