package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/juanibiapina/pullrefresh/internal/feed"
	"github.com/juanibiapina/pullrefresh/internal/headless"
	"github.com/juanibiapina/pullrefresh/internal/refresh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfig writes a config file pointing the feed into a temp dir.
func writeConfig(t *testing.T, extra string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := fmt.Sprintf("%s\n[feed]\ndatabase = %q\n", extra, filepath.Join(dir, "feed.db"))
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

// execute runs the root command. Flags keep their values between runs, so
// tests pass every flag they depend on.
func execute(t *testing.T, cfgPath string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(io.Discard)
	RootCmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := RootCmd.Execute()
	return out.String(), err
}

func TestSimulate_FlagGesture(t *testing.T) {
	cfgPath := writeConfig(t, "")

	out, err := execute(t, cfgPath, "simulate", "--json", "--script", "", "--direction", "top", "--drag", "-20,-50", "--wait", "300ms")
	require.NoError(t, err)

	var tr headless.Trace
	require.NoError(t, json.Unmarshal([]byte(out), &tr))
	assert.Equal(t, "stop", tr.FinalState)
	assert.Equal(t, 0.0, tr.FinalInset)
	assert.Equal(t, 1, tr.Handlers)
	assert.Equal(t, 1, tr.Completions)
}

func TestSimulate_HumanOutput(t *testing.T) {
	cfgPath := writeConfig(t, "")

	out, err := execute(t, cfgPath, "simulate", "--json=false", "--script", "", "--direction", "top", "--drag", "-50", "--wait", "300ms")
	require.NoError(t, err)
	assert.Contains(t, out, "state       trigger")
	assert.Contains(t, out, "final: stop, inset 0, handlers 1, completions 1")
}

func TestSimulate_Script(t *testing.T) {
	cfgPath := writeConfig(t, "")
	script := filepath.Join(t.TempDir(), "script.json")
	require.NoError(t, os.WriteFile(script, []byte(`{
		"direction": "bottom",
		"width": 320, "height": 480,
		"content_width": 320, "content_height": 1000,
		"steps": [
			{"action": "drag", "offset": 540},
			{"action": "release"}
		]
	}`), 0600))

	out, err := execute(t, cfgPath, "simulate", "--json", "--script", script)
	require.NoError(t, err)

	var tr headless.Trace
	require.NoError(t, json.Unmarshal([]byte(out), &tr))
	assert.Equal(t, "loading", tr.FinalState)
	assert.Equal(t, 1, tr.Handlers)
	assert.Equal(t, 88.0, tr.FinalInset)
}

func TestSimulate_Errors(t *testing.T) {
	cfgPath := writeConfig(t, "")

	_, err := execute(t, cfgPath, "simulate", "--json", "--script", "", "--direction", "up", "--drag", "-50")
	assert.ErrorIs(t, err, refresh.ErrUnknownDirection)

	_, err = execute(t, cfgPath, "simulate", "--json", "--script", filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "failed to open script")
}

func TestMeasure(t *testing.T) {
	cfgPath := writeConfig(t, "")

	out, err := execute(t, cfgPath, "measure", "top", "--offset", "-50", "--json=false")
	require.NoError(t, err)
	assert.Equal(t, "threshold -44  visible 50  percentage 1.00  triggered yes\n", out)

	out, err = execute(t, cfgPath, "measure", "bottom", "--offset", "520", "--auto-load-more=false", "--json")
	require.NoError(t, err)
	var m refresh.Measurement
	require.NoError(t, json.Unmarshal([]byte(out), &m))
	assert.Equal(t, 564.0, m.Threshold)
	assert.False(t, m.Triggered)

	_, err = execute(t, cfgPath, "measure", "up", "--offset", "0")
	assert.ErrorIs(t, err, refresh.ErrUnknownDirection)
}

func TestFeedCommands(t *testing.T) {
	cfgPath := writeConfig(t, "")

	out, err := execute(t, cfgPath, "feed", "seed", "3")
	require.NoError(t, err)
	assert.Equal(t, "Added 3 entries\n", out)

	out, err = execute(t, cfgPath, "feed", "prepend")
	require.NoError(t, err)
	assert.Equal(t, "Added #4 at the top\n", out)

	out, err = execute(t, cfgPath, "feed", "append")
	require.NoError(t, err)
	assert.Equal(t, "Added #5 at the bottom\n", out)

	out, err = execute(t, cfgPath, "feed", "list", "--json")
	require.NoError(t, err)
	var entries []feed.Entry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 5)
	assert.Equal(t, int64(4), entries[0].ID)
	assert.Equal(t, int64(5), entries[4].ID)

	out, err = execute(t, cfgPath, "feed", "clear")
	require.NoError(t, err)
	assert.Equal(t, "Removed 5 entries\n", out)

	out, err = execute(t, cfgPath, "feed", "list", "--json=false")
	require.NoError(t, err)
	assert.Equal(t, "No entries found\n", out)

	_, err = execute(t, cfgPath, "feed", "seed", "-2")
	assert.ErrorContains(t, err, "invalid row count")
}

func TestFeedSeed_UsesConfiguredRows(t *testing.T) {
	cfgPath := writeConfig(t, "")
	require.NoError(t, os.WriteFile(cfgPath, append(mustRead(t, cfgPath), []byte("seed_rows = 2\n")...), 0600))

	out, err := execute(t, cfgPath, "feed", "seed")
	require.NoError(t, err)
	assert.Equal(t, "Added 2 entries\n", out)
}

func TestConfigShow(t *testing.T) {
	cfgPath := writeConfig(t, "[refresh]\nindicator_extent = 5\n")

	out, err := execute(t, cfgPath, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "indicator_extent = 5.0")

	out, err = execute(t, cfgPath, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, cfgPath+"\n", out)
}

func TestInvalidConfigFails(t *testing.T) {
	cfgPath := writeConfig(t, "[refresh]\nindicator_extent = 0\n")

	_, err := execute(t, cfgPath, "measure", "top", "--offset", "0")
	assert.Error(t, err)
}

func TestCompleteDirections(t *testing.T) {
	got, _ := completeDirections(measureCmd, nil, "b")
	assert.Equal(t, []string{"bottom"}, got)

	got, _ = completeDirections(measureCmd, []string{"top"}, "")
	assert.Empty(t, got)
}

func mustRead(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}
