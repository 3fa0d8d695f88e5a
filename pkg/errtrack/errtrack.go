// Package errtrack sets up Sentry error reporting.
package errtrack

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/KHILANO5/Campusfound/config"
)

// Init configures the Sentry client. An empty DSN disables reporting and
// returns enabled == false.
func Init(cfg config.SentryConfig, release string) (enabled bool, err error) {
	if cfg.DSN == "" {
		return false, nil
	}
	err = sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		Release:          release,
		EnableTracing:    cfg.TracesSampleRate > 0,
		TracesSampleRate: cfg.TracesSampleRate,
		AttachStacktrace: true,
	})
	if err != nil {
		return false, fmt.Errorf("sentry init: %w", err)
	}
	return true, nil
}

// Flush waits for buffered events to be sent.
func Flush() { sentry.Flush(2 * time.Second) }
