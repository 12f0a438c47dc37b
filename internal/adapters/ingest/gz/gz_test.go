package gz

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	perr "peoplestats/internal/platform/errors"
	kit "peoplestats/internal/platform/testkit"
)

const sample = "siblings,favourite_food,birth_timezone,birth_timestamp\n2,Pizza,UTC,0\n"

func readAll(t *testing.T, a *Artifact) string {
	t.Helper()
	rc, err := a.Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = rc.Close() }()
	b, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	return string(b)
}

func TestPlainName(t *testing.T) {
	cases := map[string]string{
		"/data/people.csv.gz":  "people.csv",
		"people.JSON.GZ":       "people.JSON",
		"people.csv":           "people.csv",
		"/x/.gz":               ".gz",
		"nested.dir/a.json.gz": "a.json",
	}
	for in, want := range cases {
		if got := PlainName(in); got != want {
			t.Fatalf("PlainName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseMode(t *testing.T) {
	if ParseMode("memory") != ModeMemory || ParseMode(" MEMORY ") != ModeMemory {
		t.Fatalf("memory not parsed")
	}
	if ParseMode("") != ModeFile || ParseMode("file") != ModeFile || ParseMode("tape") != ModeFile {
		t.Fatalf("file default not applied")
	}
}

func TestDecompress_FileMode_RoundTripAndCleanup(t *testing.T) {
	src := kit.WriteGzip(t, "people.csv.gz", sample)
	tmpRoot := t.TempDir()

	a, err := Decompress(context.Background(), src, Options{Mode: ModeFile, TempDir: tmpRoot})
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if a.Name != "people.csv" || filepath.Base(a.Path) != "people.csv" {
		t.Fatalf("artifact naming: name=%q path=%q", a.Name, a.Path)
	}
	if filepath.Dir(filepath.Dir(a.Path)) != tmpRoot {
		t.Fatalf("artifact not under temp root: %s", a.Path)
	}
	if a.InMemory() {
		t.Fatalf("file mode artifact reports in-memory")
	}
	if got := readAll(t, a); got != sample {
		t.Fatalf("round trip mismatch: %q", got)
	}
	if a.Decompressed != int64(len(sample)) || a.Compressed == 0 {
		t.Fatalf("stats: compressed=%d decompressed=%d", a.Compressed, a.Decompressed)
	}

	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := os.Stat(a.Path); !os.IsNotExist(err) {
		t.Fatalf("temp file still present: %v", err)
	}
	entries, _ := os.ReadDir(tmpRoot)
	if len(entries) != 0 {
		t.Fatalf("temp root not empty: %v", entries)
	}
	// idempotent
	if err := a.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if _, err := a.Open(); err == nil {
		t.Fatalf("Open after Close should fail")
	}
}

func TestDecompress_MemoryMode(t *testing.T) {
	src := kit.WriteGzip(t, "people.json.gz", `[{"siblings":1}]`)
	a, err := Decompress(context.Background(), src, Options{Mode: ModeMemory})
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !a.InMemory() || a.Path != "" || a.Name != "people.json" {
		t.Fatalf("memory artifact = %+v", a)
	}
	if got := readAll(t, a); got != `[{"siblings":1}]` {
		t.Fatalf("round trip mismatch: %q", got)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestDecompress_Multistream(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(kit.Gzip(t, "siblings,favourite_food,birth_timezone,birth_timestamp\n"))
	buf.Write(kit.Gzip(t, "1,Pizza,UTC,0\n"))
	src := filepath.Join(t.TempDir(), "joined.csv.gz")
	if err := os.WriteFile(src, buf.Bytes(), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	a, err := Decompress(context.Background(), src, Options{Mode: ModeMemory})
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	defer func() { _ = a.Close() }()
	if got := readAll(t, a); got != "siblings,favourite_food,birth_timezone,birth_timestamp\n1,Pizza,UTC,0\n" {
		t.Fatalf("multistream mismatch: %q", got)
	}
}

func TestDecompress_CorruptInput(t *testing.T) {
	tmpRoot := t.TempDir()

	notGzip := kit.WriteFile(t, "people.csv.gz", "this is plain text")
	if _, err := Decompress(context.Background(), notGzip, Options{TempDir: tmpRoot}); perr.CodeOf(err) != perr.ErrorCodeDecompression {
		t.Fatalf("plain text code = %v (%v)", perr.CodeOf(err), err)
	}

	full := kit.Gzip(t, sample)
	truncated := filepath.Join(t.TempDir(), "trunc.csv.gz")
	if err := os.WriteFile(truncated, full[:len(full)-6], 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Decompress(context.Background(), truncated, Options{TempDir: tmpRoot}); perr.CodeOf(err) != perr.ErrorCodeDecompression {
		t.Fatalf("truncated code = %v (%v)", perr.CodeOf(err), err)
	}

	entries, _ := os.ReadDir(tmpRoot)
	if len(entries) != 0 {
		t.Fatalf("failed decompress left artifacts behind: %v", entries)
	}
}

func TestDecompress_MissingSource(t *testing.T) {
	_, err := Decompress(context.Background(), filepath.Join(t.TempDir(), "gone.csv.gz"), Options{})
	if perr.CodeOf(err) != perr.ErrorCodeDecompression {
		t.Fatalf("missing source code = %v (%v)", perr.CodeOf(err), err)
	}
}

func TestDecompress_Canceled(t *testing.T) {
	src := kit.WriteGzip(t, "people.csv.gz", sample)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Decompress(ctx, src, Options{Mode: ModeMemory})
	if err == nil || !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
	if perr.CodeOf(err) == perr.ErrorCodeDecompression {
		t.Fatalf("cancellation must not be reported as corrupt input")
	}
}

func TestDecompress_TempDirFailure(t *testing.T) {
	src := kit.WriteGzip(t, "people.csv.gz", sample)
	kit.Swap(t, &mkdirTemp, func(string, string) (string, error) { return "", errors.New("read-only fs") })
	_, err := Decompress(context.Background(), src, Options{Mode: ModeFile})
	if perr.CodeOf(err) != perr.ErrorCodeIO {
		t.Fatalf("temp dir failure code = %v (%v)", perr.CodeOf(err), err)
	}
}

func TestClose_RemovalFailureIsReported(t *testing.T) {
	src := kit.WriteGzip(t, "people.csv.gz", sample)
	a, err := Decompress(context.Background(), src, Options{Mode: ModeFile, TempDir: t.TempDir()})
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	path, dir := a.Path, a.dir
	t.Cleanup(func() { _ = os.RemoveAll(dir) })

	kit.Swap(t, &removeFn, func(string) error { return errors.New("device busy") })
	if err := a.Close(); err == nil {
		t.Fatalf("expected removal error")
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("file should still exist after failed removal: %v", err)
	}
}

func TestArtifact_LocationAndStats(t *testing.T) {
	mem := &Artifact{Name: "people.csv", Compressed: 10, Decompressed: 40}
	if mem.Location() != "memory:people.csv" {
		t.Fatalf("memory location = %q", mem.Location())
	}
	if c, d := mem.Stats(); c != 10 || d != 40 {
		t.Fatalf("stats = %d/%d", c, d)
	}
	onDisk := &Artifact{Name: "people.csv", Path: "/tmp/x/people.csv", dir: "/tmp/x"}
	if onDisk.Location() != "/tmp/x/people.csv" {
		t.Fatalf("file location = %q", onDisk.Location())
	}
}
