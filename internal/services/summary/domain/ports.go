// Package domain holds the ports of the summary service
package domain

import (
	"context"
	"io"

	"peoplestats/internal/core/format"
	"peoplestats/internal/core/stats"
)

// RunnerPort is the public port of the module; the CLI calls it once per invocation
type RunnerPort interface {
	Run(ctx context.Context, path string, w io.Writer) error
}

// Detector classifies an input path
type Detector interface {
	Detect(path string) (format.Format, error)
}

// Artifact is a decompressed copy of a gzip input that must be closed after reading
type Artifact interface {
	Open() (io.ReadCloser, error)
	Close() error
	InMemory() bool
	Location() string
	Stats() (compressed, decompressed int64)
}

// Decompressor gunzips an input file
type Decompressor interface {
	Decompress(ctx context.Context, path string) (Artifact, error)
}

// RecordReader decodes every person record from a plain stream
type RecordReader interface {
	Read(r io.Reader, f format.Format) ([]stats.Person, error)
}
