// Package modkit provides module wiring and core deps
package modkit

import (
	"peoplestats/internal/platform/config"
	"peoplestats/internal/platform/logger"
)

// Deps holds core dependencies passed to modules
// this is wiring only and does not introduce new abstractions
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
}

// ZeroOK returns true when deps are safe to use with zero values in tests
// a zero Log discards everything and a zero Cfg reads unprefixed env
func (d Deps) ZeroOK() bool { return true }

// Named returns a child of Log tagged with component
func (d Deps) Named(component string) *logger.Logger {
	l := d.Log.With().Str("component", component).Logger()
	return &l
}
