// Package ingest adapts the gzip and record adapters to the summary ports
package ingest

import (
	"context"
	"io"

	"peoplestats/internal/adapters/ingest/gz"
	"peoplestats/internal/adapters/ingest/people"
	"peoplestats/internal/core/format"
	"peoplestats/internal/core/stats"
	"peoplestats/internal/services/summary/domain"
)

type detector struct{}

// NewDetector wraps format.Detect
func NewDetector() domain.Detector { return detector{} }

func (detector) Detect(path string) (format.Format, error) { return format.Detect(path) }

type decompressor struct{ opt gz.Options }

// NewDecompressor returns a gunzipper that keeps artifacts per opt
func NewDecompressor(opt gz.Options) domain.Decompressor { return decompressor{opt: opt} }

func (d decompressor) Decompress(ctx context.Context, path string) (domain.Artifact, error) {
	a, err := gz.Decompress(ctx, path, d.opt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

type reader struct{}

// NewReader wraps people.Read
func NewReader() domain.RecordReader { return reader{} }

func (reader) Read(r io.Reader, f format.Format) ([]stats.Person, error) { return people.Read(r, f) }
