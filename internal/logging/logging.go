// Package logging wires the module onto a single op/go-logging backend so
// every package gets the same formatting and level filtering.
package logging

import (
	"os"

	"github.com/op/go-logging"
)

var backendInitialized bool

// Get returns a named logger bound to the shared backend, initialising the
// backend on first use.
func Get(name string) *logging.Logger {
	if !backendInitialized {
		initBackend()
	}
	return logging.MustGetLogger(name)
}

func initBackend() {
	format := logging.MustStringFormatter(
		`%{time:15:04:05.000} %{level:.4s} %{module}: %{message}`,
	)
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	formatted := logging.NewBackendFormatter(backend, format)
	leveled := logging.AddModuleLevel(formatted)
	leveled.SetLevel(logging.WARNING, "")
	logging.SetBackend(leveled)
	backendInitialized = true
}

// SetLevel adjusts the minimum level emitted by the shared backend. Exposed
// so the pool's configuration layer can turn on Debug/Info for diagnosing a
// misbehaving search without touching every package's own logger.
func SetLevel(level logging.Level) {
	if !backendInitialized {
		initBackend()
	}
	logging.SetLevel(level, "")
}
