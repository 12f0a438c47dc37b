package modkit

import (
	"bytes"
	"testing"

	"peoplestats/internal/platform/config"
	kit "peoplestats/internal/platform/testkit"

	"github.com/rs/zerolog"
)

func TestDeps_ZeroValue_IsOK(t *testing.T) {
	t.Parallel()
	var d Deps
	if !d.ZeroOK() {
		t.Fatal("zero-value Deps should be safe in tests (ZeroOK == true)")
	}
	kit.MustNotPanic(t, func() { d.Named("summary").Info().Msg("discarded") })
}

func TestDeps_Named_TagsComponent(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	d := Deps{Log: zerolog.New(&buf), Cfg: config.New()}
	d.Named("summary").Info().Msg("wired")
	kit.MustContain(t, buf.String(), `"component":"summary"`)
	kit.MustContain(t, buf.String(), `"message":"wired"`)
}
