// Package module provides the summary module wiring
package module

import (
	"peoplestats/internal/adapters/ingest/gz"
	"peoplestats/internal/modkit"
	"peoplestats/internal/services/summary/domain"
	"peoplestats/internal/services/summary/guardrails"
	"peoplestats/internal/services/summary/ingest"
	"peoplestats/internal/services/summary/service"
)

// Ports defines the summary module ports
type Ports struct {
	Runner domain.RunnerPort
}

// Module implements the summary module
type Module struct {
	deps  modkit.Deps
	opts  Options
	ports Ports
}

// Override adjusts options after they are read from config, e.g. from CLI flags
type Override func(*Options)

// New constructs the summary module
// It reads PEOPLESTATS_* from deps.Cfg, applies overrides in order and wires the adapters
func New(deps modkit.Deps, overrides ...Override) *Module {
	opts := FromConfig(deps.Cfg)
	for _, o := range overrides {
		if o != nil {
			o(&opts)
		}
	}

	svc := service.New(
		ingest.NewDetector(),
		ingest.NewDecompressor(gz.Options{Mode: opts.GzipMode, TempDir: opts.TempDir}),
		ingest.NewReader(),
		service.Config{
			Timeouts: guardrails.Timeouts{
				Run:        opts.Timeout,
				Decompress: opts.DecompressTimeout,
			},
		},
	)

	deps.Named("summary").Debug().
		Str("gzip_mode", string(opts.GzipMode)).
		Str("temp_dir", opts.TempDir).
		Dur("timeout", opts.Timeout).
		Msg("summary module wired")

	return &Module{deps: deps, opts: opts, ports: Ports{Runner: svc}}
}

// Name returns the module name
func (m *Module) Name() string { return "summary" }

// Options returns the effective options after overrides
func (m *Module) Options() Options { return m.opts }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
