package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/nodegraph/am"
	"github.com/teranos/nodegraph/display"
	"github.com/teranos/nodegraph/errors"
	"github.com/teranos/nodegraph/graph"
	"github.com/teranos/nodegraph/layout"
	"github.com/teranos/nodegraph/logger"
	"github.com/teranos/nodegraph/sym"
	"github.com/teranos/nodegraph/view"
)

// LayoutCmd converges a layout without a browser and prints positions
var LayoutCmd = &cobra.Command{
	Use:   "layout [query]",
	Short: sym.Layout + " Converge a layout and print node positions",
	Long: sym.Layout + ` layout - Run the force simulation to convergence and print where
every node ends up, fitted to the given viewport.

The query uses the filter syntax: tag:<name>, focus:<id>, depth:<n>.
--focus lays out the local graph around one note (detail mode).

Examples:
  nodegraph layout                         # Whole graph
  nodegraph layout 'tag:"deep work"'       # One tag and its subtags
  nodegraph layout --focus n1 --depth 2    # Detail view of n1
  nodegraph layout -f yaml --width 1280 --height 720`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLayout,
}

var (
	layoutFocus      string
	layoutDepth      int
	layoutWidth      float64
	layoutHeight     float64
	layoutIterations int
	layoutFormat     string
	layoutDBPath     string
)

func init() {
	LayoutCmd.Flags().StringVar(&layoutFocus, "focus", "", "Lay out the neighborhood of this note id")
	LayoutCmd.Flags().IntVar(&layoutDepth, "depth", 0, "Neighborhood depth for --focus (default from config)")
	LayoutCmd.Flags().Float64Var(&layoutWidth, "width", 0, "Viewport width (default from config)")
	LayoutCmd.Flags().Float64Var(&layoutHeight, "height", 0, "Viewport height (default from config)")
	LayoutCmd.Flags().IntVar(&layoutIterations, "iterations", 0, "Max simulation ticks (default: warmup_iterations)")
	LayoutCmd.Flags().StringVarP(&layoutFormat, "format", "f", "table", "Output format: table, json, yaml, toml")
	LayoutCmd.Flags().StringVar(&layoutDBPath, "db-path", "", "Custom database path (overrides config)")
}

// layoutResult is the printable outcome of a headless layout.
// Node positions are screen coordinates after fitting.
type layoutResult struct {
	Mode       string           `json:"mode" yaml:"mode" toml:"mode"`
	Focus      string           `json:"focus,omitempty" yaml:"focus,omitempty" toml:"focus,omitempty"`
	Ticks      int              `json:"ticks" yaml:"ticks" toml:"ticks"`
	Alpha      float64          `json:"alpha" yaml:"alpha" toml:"alpha"`
	Converged  bool             `json:"converged" yaml:"converged" toml:"converged"`
	Width      float64          `json:"width" yaml:"width" toml:"width"`
	Height     float64          `json:"height" yaml:"height" toml:"height"`
	Zoom       float64          `json:"zoom" yaml:"zoom" toml:"zoom"`
	DurationMS int64            `json:"duration_ms" yaml:"duration_ms" toml:"duration_ms"`
	Nodes      []positionedNode `json:"nodes" yaml:"nodes" toml:"nodes"`
}

type positionedNode struct {
	ID    string  `json:"id" yaml:"id" toml:"id"`
	Label string  `json:"label" yaml:"label" toml:"label"`
	X     float64 `json:"x" yaml:"x" toml:"x"`
	Y     float64 `json:"y" yaml:"y" toml:"y"`
	Focal bool    `json:"focal,omitempty" yaml:"focal,omitempty" toml:"focal,omitempty"`
}

func runLayout(cmd *cobra.Command, args []string) error {
	format, err := display.ParseFormat(layoutFormat)
	if err != nil {
		return err
	}
	query := ""
	if len(args) == 1 {
		query = args[0]
	}
	if layoutFocus != "" && query != "" {
		return errors.New("use either a query or --focus; put focus:<id> in the query to combine them")
	}

	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	database, _, err := openDatabase(layoutDBPath)
	if err != nil {
		return errors.Wrap(err, "failed to open database")
	}
	defer database.Close()

	verbosity, _ := cmd.Flags().GetCount("verbose")
	builder := graph.NewBuilder(graph.NewStore(database, logger.Logger), verbosity, logger.Logger)

	var g *graph.Graph
	if layoutFocus != "" {
		depth := layoutDepth
		if depth == 0 {
			depth = cfg.Graph.NeighborhoodDepth
		}
		g, err = builder.BuildLocal(cmd.Context(), layoutFocus, depth, cfg.Graph.Limit)
	} else {
		g, err = builder.BuildFromQuery(cmd.Context(), query, cfg.Graph.Limit)
	}
	if err != nil {
		return err
	}

	opts := view.OptionsFromConfig(cfg)
	if layoutWidth > 0 {
		opts.Width = layoutWidth
	}
	if layoutHeight > 0 {
		opts.Height = layoutHeight
	}
	if layoutIterations > 0 {
		opts.WarmupIterations = layoutIterations
	}

	res := converge(g, opts)

	if format == display.FormatTable {
		return renderLayoutTable(res)
	}
	data, err := display.Marshal(res, format)
	if err != nil {
		return err
	}
	fmt.Print(string(data))
	if format == display.FormatJSON {
		fmt.Println()
	}
	return nil
}

// converge runs the simulation headlessly and fits it to the viewport
func converge(g *graph.Graph, opts view.Options) *layoutResult {
	start := time.Now()

	ctrl := view.NewController(opts, logger.Logger)
	ctrl.SetData(g)
	sim := ctrl.Simulation()
	iterations := opts.WarmupIterations
	if iterations <= 0 {
		iterations = view.DefaultOptions().WarmupIterations
	}
	sim.RunToConvergence(iterations)
	ctrl.FitToView()
	frame := ctrl.Frame()

	res := &layoutResult{
		Mode:       frame.Mode,
		Focus:      frame.Focus,
		Ticks:      sim.Ticks(),
		Alpha:      sim.Alpha(),
		Converged:  !sim.Running(),
		Width:      frame.Width,
		Height:     frame.Height,
		Zoom:       frame.Transform.K,
		DurationMS: time.Since(start).Milliseconds(),
		Nodes:      make([]positionedNode, 0, len(frame.Nodes)),
	}
	for _, n := range frame.Nodes {
		p := frame.Transform.Apply(layout.Vector{X: n.X, Y: n.Y})
		res.Nodes = append(res.Nodes, positionedNode{
			ID:    n.ID,
			Label: n.Label,
			X:     p.X,
			Y:     p.Y,
			Focal: n.Focal,
		})
	}
	return res
}

func renderLayoutTable(res *layoutResult) error {
	status := "converged"
	if !res.Converged {
		status = "budget exhausted"
	}
	pterm.Info.Printf("%s %s layout: %d nodes, %d ticks, %s (alpha %.4f, zoom %.2f)\n",
		sym.Layout, strings.ToLower(res.Mode), len(res.Nodes), res.Ticks, status, res.Alpha, res.Zoom)

	data := pterm.TableData{{"ID", "Label", "X", "Y", ""}}
	for _, n := range res.Nodes {
		marker := ""
		if n.Focal {
			marker = "focus"
		}
		data = append(data, []string{n.ID, n.Label, fmt.Sprintf("%.1f", n.X), fmt.Sprintf("%.1f", n.Y), marker})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}
