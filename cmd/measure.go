package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/juanibiapina/pullrefresh/internal/refresh"
	"github.com/spf13/cobra"
)

var (
	measureOffset        float64
	measureWidth         float64
	measureHeight        float64
	measureContentWidth  float64
	measureContentHeight float64
	measureInset         []float64
	measureExtent        float64
	measureAutoLoadMore  bool
	measureJSON          bool
)

var measureCmd = &cobra.Command{
	Use:   "measure <direction>",
	Short: "Show the trigger threshold for a content offset",
	Long: `Compare a content offset against the trigger threshold of a direction.

The offset is measured along the direction's axis: y for top and bottom,
x for left and right. Negative offsets pull past the leading edge.

Output format:
  threshold <t>  visible <v>  percentage <p>  triggered <yes|no>

Examples:
  pullrefresh measure top --offset -50
  pullrefresh measure bottom --offset 520 --auto-load-more=false
  pullrefresh measure left --offset -30 --inset 0,10,0,0 --extent 20

Exit codes:
  0: Success
  1: Error (unknown direction, missing offset)`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeDirections,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := refresh.ParseDirection(args[0])
		if err != nil {
			return err
		}
		if measureExtent <= 0 {
			return fmt.Errorf("extent must be positive")
		}

		m := refresh.Metrics{
			Size:   refresh.Size{Width: measureContentWidth, Height: measureContentHeight},
			Bounds: refresh.Rect{Size: refresh.Size{Width: measureWidth, Height: measureHeight}},
		}
		if m.Size.Width == 0 {
			m.Size.Width = measureWidth
		}
		var inset [4]float64
		copy(inset[:], measureInset)
		m.Inset = refresh.Insets{Top: inset[0], Left: inset[1], Bottom: inset[2], Right: inset[3]}
		if dir.IsVertical() {
			m.Offset.Y = measureOffset
		} else {
			m.Offset.X = measureOffset
		}

		auto := dir.IsLoadMore()
		if cmd.Flags().Changed("auto-load-more") {
			auto = measureAutoLoadMore
		}
		r := refresh.Measure(dir, auto, measureExtent, m)

		out := cmd.OutOrStdout()
		if measureJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(r)
		}

		triggered := "no"
		if r.Triggered {
			triggered = "yes"
		}
		fmt.Fprintf(out, "threshold %g  visible %g  percentage %.2f  triggered %s\n",
			r.Threshold, r.VisibleOffset, r.Percentage, triggered)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(measureCmd)
	f := measureCmd.Flags()
	f.Float64Var(&measureOffset, "offset", 0, "Content offset along the direction's axis")
	f.Float64Var(&measureWidth, "width", 320, "Viewport width")
	f.Float64Var(&measureHeight, "height", 480, "Viewport height")
	f.Float64Var(&measureContentWidth, "content-width", 0, "Content width (default: viewport width)")
	f.Float64Var(&measureContentHeight, "content-height", 1000, "Content height")
	f.Float64SliceVar(&measureInset, "inset", nil, "Content inset as top,left,bottom,right")
	f.Float64Var(&measureExtent, "extent", refresh.DefaultIndicatorExtent, "Indicator size along the axis")
	f.BoolVar(&measureAutoLoadMore, "auto-load-more", false, "Load more on reaching the end (default: true for bottom/right)")
	f.BoolVar(&measureJSON, "json", false, "Output in JSON format")
	measureCmd.MarkFlagRequired("offset")
}
