package telemetry

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/juanibiapina/pullrefresh/internal/logging"
	"github.com/posthog/posthog-go"
)

// TestLoggerDoesNotOutputToStderr verifies that failed deliveries stay
// silent; stderr output would corrupt the TUI display.
func TestLoggerDoesNotOutputToStderr(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("simulated failure"))
	}))
	defer server.Close()

	oldStderr := os.Stderr
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stderr = w

	var logBuf bytes.Buffer
	oldLogger := logging.Logger
	logging.Logger = slog.New(slog.NewTextHandler(&logBuf, nil))

	testClient, err := posthog.NewWithConfig("test-key", posthog.Config{
		Endpoint:  server.URL,
		Logger:    logger{},
		BatchSize: 1,
	})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	testClient.Enqueue(posthog.Capture{
		DistinctId: "test-user",
		Event:      "test-event",
	})
	testClient.Close()

	w.Close()
	os.Stderr = oldStderr
	logging.Logger = oldLogger

	var stderrBuf bytes.Buffer
	io.Copy(&stderrBuf, r)
	r.Close()

	if out := stderrBuf.String(); out != "" {
		t.Errorf("expected no stderr output, got: %q", out)
	}
	if out := logBuf.String(); out != "" {
		t.Errorf("expected no log output, got: %q", out)
	}
}

func TestLoggerMethodsDoNotPanic(t *testing.T) {
	l := logger{}

	l.Debugf("debug message: %s", "test")
	l.Logf("log message: %s", "test")
	l.Warnf("warn message: %s", "test")
	l.Errorf("error message: %s", "test")
}

func TestIsDisabled(t *testing.T) {
	tests := []struct {
		name        string
		disabled    string
		doNotTrack  string
		wantDisable bool
	}{
		{"nothing set", "", "", false},
		{"app opt-out", "1", "", true},
		{"do not track", "", "true", true},
		{"garbage is ignored", "maybe", "", false},
		{"explicit false", "false", "0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PULLREFRESH_TELEMETRY_DISABLED", tt.disabled)
			t.Setenv("DO_NOT_TRACK", tt.doNotTrack)
			if got := isDisabled(); got != tt.wantDisable {
				t.Errorf("isDisabled() = %v, want %v", got, tt.wantDisable)
			}
		})
	}
}

func TestInit_WithoutKeyStaysOff(t *testing.T) {
	t.Setenv("PULLREFRESH_TELEMETRY_DISABLED", "")
	t.Setenv("DO_NOT_TRACK", "")

	Init("", "")
	defer Flush()

	if Enabled() {
		t.Error("expected telemetry to stay disabled without a key")
	}
	TUIRefreshTriggered("top")
}

func TestInit_OptOutWins(t *testing.T) {
	t.Setenv("DO_NOT_TRACK", "1")

	Init("test-key", "http://127.0.0.1:1")
	defer Flush()

	if Enabled() {
		t.Error("expected DO_NOT_TRACK to disable telemetry")
	}
}

func TestSend_DeliversEvent(t *testing.T) {
	t.Setenv("PULLREFRESH_TELEMETRY_DISABLED", "")
	t.Setenv("DO_NOT_TRACK", "")

	var mu sync.Mutex
	var bodies []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		bodies = append(bodies, string(b))
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	Init("test-key", server.URL)
	if !Enabled() {
		t.Fatal("expected telemetry to be enabled")
	}
	TUIRefreshTriggered("bottom")
	Flush()

	if Enabled() {
		t.Error("Flush() should release the client")
	}

	mu.Lock()
	defer mu.Unlock()
	all := strings.Join(bodies, "\n")
	if !strings.Contains(all, "tui:refresh_triggered") {
		t.Errorf("expected event in request bodies, got %q", all)
	}
	if !strings.Contains(all, `"direction":"bottom"`) {
		t.Errorf("expected direction property, got %q", all)
	}
}

func TestPairsToProps(t *testing.T) {
	p := pairsToProps("a", 1, "b", "two")
	if p["a"] != 1 || p["b"] != "two" {
		t.Errorf("pairsToProps() = %v", p)
	}

	if got := pairsToProps("odd"); len(got) != 0 {
		t.Errorf("pairsToProps(odd) = %v, want empty", got)
	}
}
