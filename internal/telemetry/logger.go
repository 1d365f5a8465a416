package telemetry

import "github.com/posthog/posthog-go"

var _ posthog.Logger = logger{}

// logger discards everything PostHog reports. Telemetry failures must not
// reach the user, and stderr output would corrupt the TUI.
type logger struct{}

func (logger) Debugf(format string, args ...any) {}
func (logger) Logf(format string, args ...any)   {}
func (logger) Warnf(format string, args ...any)  {}
func (logger) Errorf(format string, args ...any) {}
