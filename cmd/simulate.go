package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/juanibiapina/pullrefresh/internal/headless"
	"github.com/juanibiapina/pullrefresh/internal/logging"
	"github.com/spf13/cobra"
)

var (
	simulateScript        string
	simulateDirection     string
	simulateWidth         float64
	simulateHeight        float64
	simulateContentWidth  float64
	simulateContentHeight float64
	simulateInset         []float64
	simulateExtent        float64
	simulateAutoLoadMore  bool
	simulateShowAbove     bool
	simulateMinDuration   time.Duration
	simulateDrag          []float64
	simulateWait          time.Duration
	simulateJSON          bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a gesture against a headless controller",
	Long: `Run a gesture against a controller attached to a simulated scroll view and
print everything the controller did, with virtual timestamps.

Without --script, the gesture is built from flags: drag through each --drag
offset, release, wait --wait, then stop the refresh. Anything still scheduled
after the last step runs before the trace is printed.

With --script, the scenario is read from a JSON file ("-" for stdin):
  {
    "direction": "top",
    "width": 320, "height": 480,
    "content_width": 320, "content_height": 1000,
    "min_refresh_duration": "1s",
    "steps": [
      {"action": "drag", "offset": -50},
      {"action": "release"},
      {"action": "wait", "duration": "300ms"},
      {"action": "stop", "animated": true}
    ]
  }

Actions: drag, release, trigger, stop, wait, enable, disable.

Examples:
  pullrefresh simulate --drag -20,-50
  pullrefresh simulate --direction bottom --drag 540 --json
  pullrefresh simulate --script scenario.json

Exit codes:
  0: Success
  1: Error (invalid script, unknown direction or action)`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var script *headless.Script
		if simulateScript != "" {
			s, err := readScript(cmd, simulateScript)
			if err != nil {
				return err
			}
			script = s
		} else {
			script = scriptFromFlags(cmd)
		}

		trace, err := headless.Run(script, logging.Logger)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if simulateJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(trace)
		}
		printTrace(out, trace)
		return nil
	},
}

func readScript(cmd *cobra.Command, path string) (*headless.Script, error) {
	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open script: %w", err)
		}
		defer f.Close()
		r = f
	}
	return headless.ParseScript(r)
}

func scriptFromFlags(cmd *cobra.Command) *headless.Script {
	s := &headless.Script{
		Direction:          simulateDirection,
		Width:              simulateWidth,
		Height:             simulateHeight,
		ContentWidth:       simulateContentWidth,
		ContentHeight:      simulateContentHeight,
		Extent:             simulateExtent,
		ShowAboveContent:   simulateShowAbove,
		MinRefreshDuration: simulateMinDuration.String(),
	}
	if s.ContentWidth == 0 {
		s.ContentWidth = s.Width
	}
	copy(s.Inset[:], simulateInset)
	if cmd.Flags().Changed("auto-load-more") {
		auto := simulateAutoLoadMore
		s.AutoLoadMore = &auto
	}

	for _, offset := range simulateDrag {
		s.Steps = append(s.Steps, headless.Step{Action: "drag", Offset: offset})
	}
	s.Steps = append(s.Steps,
		headless.Step{Action: "release"},
		headless.Step{Action: "wait", Duration: simulateWait.String()},
		headless.Step{Action: "stop", Animated: true},
	)
	return s
}

func printTrace(w io.Writer, trace *headless.Trace) {
	for _, e := range trace.Events {
		var detail string
		switch e.Kind {
		case "step":
			detail = e.Action
		case "state":
			detail = e.State
		case "percentage":
			detail = fmt.Sprintf("%.2f", *e.Percentage)
		case "inset":
			detail = fmt.Sprintf("%g", *e.Inset)
		}
		fmt.Fprintf(w, "%6dms  %-10s  %s\n", e.AtMs, e.Kind, detail)
	}
	fmt.Fprintf(w, "final: %s, inset %g, handlers %d, completions %d\n",
		trace.FinalState, trace.FinalInset, trace.Handlers, trace.Completions)
}

func init() {
	RootCmd.AddCommand(simulateCmd)
	f := simulateCmd.Flags()
	f.StringVar(&simulateScript, "script", "", "Read the scenario from a JSON file (- for stdin)")
	f.StringVarP(&simulateDirection, "direction", "d", "top", "Edge the controller is attached to (top, left, bottom, right)")
	f.Float64Var(&simulateWidth, "width", 320, "Viewport width")
	f.Float64Var(&simulateHeight, "height", 480, "Viewport height")
	f.Float64Var(&simulateContentWidth, "content-width", 0, "Content width (default: viewport width)")
	f.Float64Var(&simulateContentHeight, "content-height", 1000, "Content height")
	f.Float64SliceVar(&simulateInset, "inset", nil, "Content inset as top,left,bottom,right")
	f.Float64Var(&simulateExtent, "extent", 0, "Indicator size along the axis (default: 44)")
	f.BoolVar(&simulateAutoLoadMore, "auto-load-more", false, "Load more on reaching the end (default: true for bottom/right)")
	f.BoolVar(&simulateShowAbove, "show-above", false, "Lay the indicator out above the content inset")
	f.DurationVar(&simulateMinDuration, "min-refresh-duration", time.Second, "Expected length of a loading cycle")
	f.Float64SliceVar(&simulateDrag, "drag", []float64{-50}, "Offsets to drag through, in order")
	f.DurationVar(&simulateWait, "wait", 300*time.Millisecond, "Time between release and stop")
	f.BoolVar(&simulateJSON, "json", false, "Output in JSON format")

	simulateCmd.RegisterFlagCompletionFunc("direction", completeDirections)
}
