// Package telemetry sends opt-in usage events to PostHog.
package telemetry

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strconv"

	"github.com/denisbrodbeck/machineid"
	"github.com/juanibiapina/pullrefresh/internal/logging"
	"github.com/juanibiapina/pullrefresh/internal/version"
	"github.com/posthog/posthog-go"
)

const (
	DefaultEndpoint = "https://eu.i.posthog.com"
	appID           = "pullrefresh"
)

var (
	client     posthog.Client
	distinctId string

	baseProps = posthog.NewProperties().
			Set("goos", runtime.GOOS).
			Set("goarch", runtime.GOARCH).
			Set("term", os.Getenv("TERM")).
			Set("shell", filepath.Base(os.Getenv("SHELL"))).
			Set("version", version.Version).
			Set("go_version", runtime.Version())
)

// Init starts the PostHog client. Telemetry stays off without a key or when
// opted out through the environment.
func Init(key, endpoint string) {
	if key == "" || isDisabled() {
		return
	}
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	c, err := posthog.NewWithConfig(key, posthog.Config{
		Endpoint: endpoint,
		Logger:   logger{},
	})
	if err != nil {
		logging.Logger.Error("Failed to initialize PostHog client", "error", err)
		return
	}
	client = c
	distinctId = getDistinctId()
}

// Enabled reports whether events are being sent.
func Enabled() bool {
	return client != nil
}

func isDisabled() bool {
	if v, _ := strconv.ParseBool(os.Getenv("PULLREFRESH_TELEMETRY_DISABLED")); v {
		return true
	}
	if v, _ := strconv.ParseBool(os.Getenv("DO_NOT_TRACK")); v {
		return true
	}
	return false
}

// getDistinctId hashes the machine id with the app id so the raw id never
// leaves the machine.
func getDistinctId() string {
	id, err := machineid.ProtectedID(appID)
	if err != nil {
		logging.Logger.Debug("machine id unavailable", "error", err)
		return "anonymous"
	}
	return id
}

func send(event string, props ...any) {
	if client == nil {
		return
	}
	err := client.Enqueue(posthog.Capture{
		DistinctId: distinctId,
		Event:      event,
		Properties: pairsToProps(props...).Merge(baseProps),
	})
	if err != nil {
		logging.Logger.Error("Failed to enqueue PostHog event", "event", event, "props", props, "error", err)
	}
}

func Error(err any, props ...any) {
	if client == nil {
		return
	}
	props = append(
		[]any{
			"$exception_list",
			[]map[string]string{
				{"type": reflect.TypeOf(err).String(), "value": fmt.Sprintf("%v", err)},
			},
		},
		props...,
	)
	send("$exception", props...)
}

func Flush() {
	if client == nil {
		return
	}
	if err := client.Close(); err != nil {
		logging.Logger.Error("Failed to flush PostHog events", "error", err)
	}
	client = nil
}

func pairsToProps(props ...any) posthog.Properties {
	p := posthog.NewProperties()

	if len(props)%2 != 0 {
		logging.Logger.Error("Event properties must be provided as key-value pairs", "props", props)
		return p
	}

	for i := 0; i < len(props); i += 2 {
		key, ok := props[i].(string)
		if !ok {
			logging.Logger.Error("Event property key must be a string", "key", props[i])
			continue
		}
		p = p.Set(key, props[i+1])
	}
	return p
}
