package module

import (
	"bytes"
	"context"
	"os"
	"testing"
	"time"

	"peoplestats/internal/adapters/ingest/gz"
	"peoplestats/internal/modkit"
	modcontract "peoplestats/internal/modkit/module"
	"peoplestats/internal/platform/config"
	kit "peoplestats/internal/platform/testkit"
	"peoplestats/internal/services/summary/domain"
)

func TestFromConfig_Defaults(t *testing.T) {
	opts := FromConfig(config.New())
	if opts.TempDir != "" || opts.GzipMode != gz.ModeFile || opts.Timeout != 0 || opts.DecompressTimeout != 0 {
		t.Fatalf("defaults = %+v", opts)
	}
}

func TestFromConfig_Env(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PEOPLESTATS_TEMP_DIR", dir)
	t.Setenv("PEOPLESTATS_GZIP_MODE", "MEMORY")
	t.Setenv("PEOPLESTATS_TIMEOUT", "2m")
	t.Setenv("PEOPLESTATS_DECOMPRESS_TIMEOUT", "30s")
	opts := FromConfig(config.New())
	if opts.TempDir != dir || opts.GzipMode != gz.ModeMemory {
		t.Fatalf("opts = %+v", opts)
	}
	if opts.Timeout != 2*time.Minute || opts.DecompressTimeout != 30*time.Second {
		t.Fatalf("timeouts = %v / %v", opts.Timeout, opts.DecompressTimeout)
	}
}

func TestFromConfig_BadGzipModePanics(t *testing.T) {
	t.Setenv("PEOPLESTATS_GZIP_MODE", "tape")
	kit.MustPanic(t, func() { _ = FromConfig(config.New()) })
}

func TestNew_OverridesWinOverEnv(t *testing.T) {
	t.Setenv("PEOPLESTATS_GZIP_MODE", "memory")
	t.Setenv("PEOPLESTATS_TEMP_DIR", "/env/dir")
	m := New(modkit.Deps{Cfg: config.New()},
		nil,
		func(o *Options) { o.TempDir = "/flag/dir" },
		func(o *Options) { o.GzipMode = gz.ModeFile },
	)
	if got := m.Options(); got.TempDir != "/flag/dir" || got.GzipMode != gz.ModeFile {
		t.Fatalf("options = %+v", got)
	}
}

func TestNew_WiresRunner(t *testing.T) {
	tmp := t.TempDir()
	m := New(modkit.Deps{Cfg: config.New()}, func(o *Options) {
		o.TempDir = tmp
		o.Timeout = time.Minute
	})
	if m.Name() != "summary" {
		t.Fatalf("name = %q", m.Name())
	}
	var _ modcontract.Module = m
	runner := modcontract.MustPortsOf[domain.RunnerPort](m)

	path := kit.WriteGzip(t, "people.json.gz",
		`[{"siblings":3,"favourite_food":"Ramen","birth_timezone":"Asia/Tokyo","birth_timestamp":1625066400000}]`)
	var out bytes.Buffer
	if err := runner.Run(context.Background(), path, &out); err != nil {
		t.Fatalf("Run: %v", err)
	}
	// 2021-06-30T15:20Z is July 1 in Tokyo
	kit.MustContain(t, out.String(), "June (0), July (1)")
	kit.MustContain(t, out.String(), "Three favourite foods: Ramen(1)\n")
	if entries, _ := os.ReadDir(tmp); len(entries) != 0 {
		t.Fatalf("temp artifacts left behind: %v", entries)
	}
}
