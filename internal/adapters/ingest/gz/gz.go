// Package gz turns a gzip-compressed input file into a readable plain artifact
//
// The artifact is either a temp file named after the input minus its .gz suffix
// (the default) or an in-memory buffer. Callers must Close the artifact; Close
// removes the temp file and its private directory.
package gz

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	perr "peoplestats/internal/platform/errors"
	"peoplestats/internal/platform/logger"

	"github.com/klauspost/compress/gzip"
)

// Mode selects where decompressed bytes are kept
type Mode string

const (
	// ModeFile writes a temp file (default)
	ModeFile Mode = "file"
	// ModeMemory keeps the bytes in a buffer
	ModeMemory Mode = "memory"
)

// ParseMode maps a config string to a Mode, defaulting to ModeFile
func ParseMode(s string) Mode {
	if strings.EqualFold(strings.TrimSpace(s), string(ModeMemory)) {
		return ModeMemory
	}
	return ModeFile
}

// Options configures Decompress
type Options struct {
	Mode    Mode
	TempDir string // root for the private temp dir; empty means os.TempDir()
}

// Artifact is a decompressed copy of one gzip input
type Artifact struct {
	Name         string // input base name without the final .gz
	Path         string // temp file path; empty in memory mode
	Compressed   int64  // bytes read from the gzip input
	Decompressed int64  // bytes produced

	dir    string
	data   []byte
	closed bool
}

// seams for tests
var (
	removeFn   = os.Remove
	mkdirTemp  = os.MkdirTemp
	openSource = func(path string) (io.ReadCloser, error) { return os.Open(path) }
)

// PlainName strips the final .gz suffix from the base name of path
func PlainName(path string) string {
	base := filepath.Base(path)
	if i := strings.LastIndex(base, "."); i > 0 && strings.EqualFold(base[i:], ".gz") {
		return base[:i]
	}
	return base
}

// Decompress gunzips path into a new artifact
// Corrupt or unreadable input yields ErrorCodeDecompression and leaves nothing behind
func Decompress(ctx context.Context, path string, opt Options) (*Artifact, error) {
	src, err := openSource(path)
	if err != nil {
		return nil, perr.WithOp(perr.Wrapf(err, perr.ErrorCodeDecompression, "open %s", filepath.Base(path)), "gz.decompress")
	}
	defer func() {
		if cerr := src.Close(); cerr != nil {
			logger.Named("gz").Warn().Err(cerr).Str("path", path).Msg("error closing gzip source")
		}
	}()

	counted := &countingReader{r: &ctxReader{ctx: ctx, r: src}}
	zr, err := gzip.NewReader(counted)
	if err != nil {
		return nil, decompressionErr(ctx, path, err)
	}
	defer func() { _ = zr.Close() }()

	a := &Artifact{Name: PlainName(path)}

	if opt.Mode == ModeMemory {
		var buf bytes.Buffer
		n, err := io.Copy(&buf, zr)
		if err != nil {
			return nil, decompressionErr(ctx, path, err)
		}
		a.data = buf.Bytes()
		a.Decompressed = n
		a.Compressed = counted.n
		return a, nil
	}

	dir, err := mkdirTemp(opt.TempDir, "peoplestats-*")
	if err != nil {
		return nil, perr.WithOp(perr.Wrap(err, perr.ErrorCodeIO, "create temp dir"), "gz.decompress")
	}
	a.dir = dir
	a.Path = filepath.Join(dir, a.Name)

	out, err := os.OpenFile(a.Path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		_ = a.Close()
		return nil, perr.WithOp(perr.Wrapf(err, perr.ErrorCodeIO, "create %s", a.Name), "gz.decompress")
	}
	n, werr := io.Copy(out, zr)
	cerr := out.Close()
	if werr != nil {
		_ = a.Close()
		return nil, decompressionErr(ctx, path, werr)
	}
	if cerr != nil {
		_ = a.Close()
		return nil, perr.WithOp(perr.Wrapf(cerr, perr.ErrorCodeIO, "write %s", a.Name), "gz.decompress")
	}
	a.Decompressed = n
	a.Compressed = counted.n
	return a, nil
}

// decompressionErr keeps cancellation distinguishable from corrupt input
func decompressionErr(ctx context.Context, path string, err error) error {
	if cerr := ctx.Err(); cerr != nil && errors.Is(err, cerr) {
		return perr.WithOp(perr.Wrapf(err, perr.ErrorCodeUnknown, "gunzip %s interrupted", filepath.Base(path)), "gz.decompress")
	}
	return perr.WithOp(perr.Wrapf(err, perr.ErrorCodeDecompression, "gunzip %s", filepath.Base(path)), "gz.decompress")
}

// Open returns a fresh reader over the decompressed bytes
func (a *Artifact) Open() (io.ReadCloser, error) {
	if a.closed {
		return nil, perr.IOf("artifact %s already closed", a.Name)
	}
	if a.Path == "" {
		return io.NopCloser(bytes.NewReader(a.data)), nil
	}
	f, err := os.Open(a.Path)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeIO, "open %s", a.Name)
	}
	return f, nil
}

// InMemory reports whether the artifact lives in a buffer
func (a *Artifact) InMemory() bool { return a.Path == "" && a.dir == "" }

// Location is the temp path, or memory:<name> for buffered artifacts
func (a *Artifact) Location() string {
	if a.InMemory() {
		return "memory:" + a.Name
	}
	return a.Path
}

// Stats returns compressed bytes read and decompressed bytes produced
func (a *Artifact) Stats() (compressed, decompressed int64) { return a.Compressed, a.Decompressed }

// Close removes the temp file and its directory; safe to call more than once
// A removal failure is returned for the caller to log and never retried
func (a *Artifact) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true
	a.data = nil
	if a.dir == "" {
		return nil
	}
	var first error
	if a.Path != "" {
		if err := removeFn(a.Path); err != nil && !os.IsNotExist(err) {
			first = fmt.Errorf("remove %s: %w", a.Path, err)
		}
	}
	if err := removeFn(a.dir); err != nil && !os.IsNotExist(err) && first == nil {
		first = fmt.Errorf("remove %s: %w", a.dir, err)
	}
	return first
}

// ctxReader stops reading once ctx is done
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

// countingReader tracks how many compressed bytes were consumed
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
