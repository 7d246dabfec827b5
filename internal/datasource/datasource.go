// Package datasource defines where pipeline input comes from. The file
// subpackage implements it for local paths.
package datasource

import (
	"context"
	"io"
)

// Source opens the raw accident file (or a processed snapshot) for reading.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}
