package module

import (
	"time"

	"peoplestats/internal/adapters/ingest/gz"
	"peoplestats/internal/platform/config"
)

// Options holds configuration options for the summary module
type Options struct {
	TempDir           string
	GzipMode          gz.Mode
	Timeout           time.Duration
	DecompressTimeout time.Duration
}

// FromConfig reads the summary options from config with PEOPLESTATS_ prefix
func FromConfig(cfg config.Conf) Options {
	ps := cfg.Prefix("PEOPLESTATS_")
	return Options{
		TempDir:           ps.MayString("TEMP_DIR", ""),
		GzipMode:          gz.ParseMode(ps.MayEnum("GZIP_MODE", string(gz.ModeFile), string(gz.ModeFile), string(gz.ModeMemory))),
		Timeout:           ps.MayDuration("TIMEOUT", 0),
		DecompressTimeout: ps.MayDuration("DECOMPRESS_TIMEOUT", 0),
	}
}
