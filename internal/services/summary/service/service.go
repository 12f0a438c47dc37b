// Package service runs one report: detect, gunzip when needed, read, aggregate, render
package service

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"peoplestats/internal/core/format"
	"peoplestats/internal/core/report"
	"peoplestats/internal/core/stats"
	perr "peoplestats/internal/platform/errors"
	"peoplestats/internal/platform/logger"
	"peoplestats/internal/services/summary/domain"
	"peoplestats/internal/services/summary/guardrails"

	"github.com/google/uuid"
)

// Config holds configuration options for the summary service
type Config struct {
	Timeouts guardrails.Timeouts
}

// Service implements domain.RunnerPort
type Service struct {
	Detect domain.Detector
	Gunzip domain.Decompressor
	Reader domain.RecordReader
	Cfg    Config

	newRunID func() string
	openFile func(string) (io.ReadCloser, error)
}

// New constructs the summary service
func New(d domain.Detector, g domain.Decompressor, r domain.RecordReader, cfg Config) *Service {
	if d == nil || g == nil || r == nil {
		panic("summary.Service requires a detector, decompressor and reader")
	}
	return &Service{
		Detect:   d,
		Gunzip:   g,
		Reader:   r,
		Cfg:      cfg,
		newRunID: uuid.NewString,
		openFile: func(p string) (io.ReadCloser, error) { return os.Open(p) },
	}
}

// Run produces the report for path and writes it to w.
// Nothing is written to w unless the whole run succeeds
func (s *Service) Run(ctx context.Context, path string, w io.Writer) error {
	ctx, cancel := guardrails.WithRun(ctx, s.Cfg.Timeouts)
	defer cancel()

	ctx = logger.WithRun(ctx, s.newRunID(), filepath.Base(path))
	log := logger.C(ctx)
	started := time.Now()

	f, err := s.Detect.Detect(path)
	if err != nil {
		return err
	}
	log.Info().Str("format", f.String()).Msgf("processing %s file %s", f, filepath.Base(path))

	src, release, err := s.open(ctx, path, f)
	if err != nil {
		return err
	}
	defer release()

	if err := ctx.Err(); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "run interrupted")
	}
	people, err := s.Reader.Read(src, f.Plain())
	if err != nil {
		return err
	}
	log.Debug().Int("records", len(people)).Msg("records decoded")

	state := stats.NewState()
	for i, p := range people {
		if err := state.Observe(p); err != nil {
			e, _ := perr.As(err)
			return perr.WithField(perr.Wrapf(err, perr.CodeOf(err), "record %d", i), fieldOf(e))
		}
	}
	rep := state.Finalize()
	if rep.Records == 0 {
		log.Warn().Msg("input has no records; reporting zeros")
	}

	var buf bytes.Buffer
	if err := report.Render(&buf, rep); err != nil {
		return perr.Wrap(err, perr.ErrorCodeIO, "render report")
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return perr.Wrap(err, perr.ErrorCodeIO, "write report")
	}

	log.Info().
		Int("records", rep.Records).
		Int("foods", state.DistinctFoods()).
		Int("zones", state.Zones()).
		Dur("elapsed", time.Since(started)).
		Msg("report complete")
	return nil
}

// open returns a reader over the plain bytes and a release func that must always run
func (s *Service) open(ctx context.Context, path string, f format.Format) (io.Reader, func(), error) {
	log := logger.C(ctx)

	if !f.Compressed() {
		rc, err := s.openFile(path)
		if err != nil {
			return nil, nil, perr.Wrapf(err, perr.ErrorCodeIO, "open %s", filepath.Base(path))
		}
		return rc, func() {
			if err := rc.Close(); err != nil {
				log.Warn().Err(err).Msg("error closing input")
			}
		}, nil
	}

	dctx, dcancel := guardrails.ForDecompress(ctx, s.Cfg.Timeouts)
	art, err := s.Gunzip.Decompress(dctx, path)
	dcancel()
	if err != nil {
		return nil, nil, err
	}
	c, d := art.Stats()
	log.Debug().Int64("compressed", c).Int64("decompressed", d).Str("artifact", art.Location()).Msg("input decompressed")

	release := func() { s.discard(ctx, art) }
	rc, err := art.Open()
	if err != nil {
		release()
		return nil, nil, err
	}
	return rc, func() {
		if err := rc.Close(); err != nil {
			log.Warn().Err(err).Str("artifact", art.Location()).Msg("error closing artifact")
		}
		release()
	}, nil
}

// discard removes the artifact; failure is logged and never fails the run
func (s *Service) discard(ctx context.Context, art domain.Artifact) {
	log := logger.C(ctx)
	if err := art.Close(); err != nil {
		log.Warn().Err(err).Str("artifact", art.Location()).Msg("could not delete decompressed file")
		return
	}
	if art.InMemory() {
		log.Debug().Str("artifact", art.Location()).Msg("released decompressed buffer")
		return
	}
	log.Info().Str("artifact", art.Location()).Msgf("Deleted file %s after processing", filepath.Base(art.Location()))
}

func fieldOf(e *perr.Error) string {
	if e == nil {
		return ""
	}
	return e.Field()
}
