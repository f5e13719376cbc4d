package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/spf13/cobra"

	"github.com/san-kum/eyespot/internal/config"
	"github.com/san-kum/eyespot/internal/export"
	"github.com/san-kum/eyespot/internal/eyespot"
	"github.com/san-kum/eyespot/internal/metrics"
)

var (
	verbosity  int
	configFile string
	preset     string
	gridSize   int
	endTime    float64
	timeStep   float64
	method     string
	rtol       float64
	atol       float64
	maxStep    float64
	foci       []string
	fociOrder  string
	overrides  []string
	fromFile   string
)

func newLogger() logr.Logger {
	return funcr.New(func(prefix, args string) {
		if prefix != "" {
			fmt.Fprintln(os.Stderr, prefix, args)
		} else {
			fmt.Fprintln(os.Stderr, args)
		}
	}, funcr.Options{Verbosity: verbosity, LogTimestamp: true})
}

// addModelFlags registers the flags that describe one simulation.
func addModelFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "start from a preset (group/name)")
	f.IntVarP(&gridSize, "grid", "n", config.DefaultGridSize, "grid size N")
	f.Float64Var(&endTime, "time", config.DefaultEnd, "end of the time span")
	f.Float64Var(&timeStep, "step", config.DefaultStep, "spacing of reported times")
	f.StringVar(&method, "method", "rk45", "integration method (rk45, rk4)")
	f.Float64Var(&rtol, "rtol", config.DefaultRTol, "relative tolerance")
	f.Float64Var(&atol, "atol", config.DefaultATol, "absolute tolerance")
	f.Float64Var(&maxStep, "max-step", 0, "largest internal step (0 = unbounded)")
	f.StringArrayVar(&foci, "focus", nil, "focus cell as row,col (repeatable)")
	f.StringVar(&fociOrder, "foci-order", config.OrderRowCol, "order of focus coordinates (row_col, col_row)")
	f.StringArrayVar(&overrides, "set", nil, "parameter override name=value, e.g. k3=2 (repeatable)")
}

// addSourceFlags lets a command read a saved series instead of solving.
func addSourceFlags(cmd *cobra.Command) {
	addModelFlags(cmd)
	cmd.Flags().StringVar(&fromFile, "from", "", "read a series JSON written by run --out instead of solving")
}

// buildConfig layers defaults, preset, config file and changed flags, in
// that order.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		group, name, ok := strings.Cut(preset, "/")
		if !ok {
			return nil, fmt.Errorf("preset must be group/name, got %q", preset)
		}
		p := config.GetPreset(group, name)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available in %s: %v)", preset, group, config.ListPresets(group))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("grid") {
		cfg.GridSize = gridSize
		if !flags.Changed("focus") {
			cfg.Foci = [][2]int{{gridSize / 2, gridSize / 2}}
		}
	}
	if flags.Changed("time") {
		cfg.TimeSpan[1] = endTime
	}
	if flags.Changed("step") {
		cfg.TimeStep = timeStep
	}
	if flags.Changed("method") {
		cfg.Method = method
	}
	if flags.Changed("rtol") {
		cfg.RTol = rtol
	}
	if flags.Changed("atol") {
		cfg.ATol = atol
	}
	if flags.Changed("max-step") {
		cfg.MaxStep = maxStep
	}
	if flags.Changed("foci-order") {
		cfg.FociOrder = fociOrder
	}
	if flags.Changed("focus") {
		cfg.Foci = cfg.Foci[:0]
		for _, s := range foci {
			pos, err := parsePair(s)
			if err != nil {
				return nil, err
			}
			cfg.Foci = append(cfg.Foci, pos)
		}
	}
	for _, o := range overrides {
		name, value, ok := strings.Cut(o, "=")
		if !ok {
			return nil, fmt.Errorf("override must be name=value, got %q", o)
		}
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("override %s: %w", name, err)
		}
		if err := cfg.SetParam(name, v); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parsePair(s string) ([2]int, error) {
	a, b, ok := strings.Cut(s, ",")
	if !ok {
		return [2]int{}, fmt.Errorf("focus must be row,col, got %q", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(a))
	if err != nil {
		return [2]int{}, fmt.Errorf("focus %q: %w", s, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(b))
	if err != nil {
		return [2]int{}, fmt.Errorf("focus %q: %w", s, err)
	}
	return [2]int{x, y}, nil
}

// solveConfig runs one simulation with the standard metrics attached.
func solveConfig(ctx context.Context, cfg *config.Config, log logr.Logger) (*eyespot.Solution, error) {
	m, err := cfg.NewModel()
	if err != nil {
		return nil, err
	}
	m.WithLogger(log)
	times, err := cfg.EvalTimes()
	if err != nil {
		return nil, err
	}
	return m.Solve(ctx, cfg.Span(), times, eyespot.RunOptions{
		Method:  cfg.Method,
		Solver:  cfg.SolverOptions(),
		Metrics: metrics.Standard(m.Codec()),
	})
}

// loadOrSolve returns the series named by --from, or solves the configured
// model.
func loadOrSolve(cmd *cobra.Command) (*eyespot.Solution, string, error) {
	if fromFile != "" {
		sol, err := export.LoadSeries(fromFile)
		return sol, fromFile, err
	}
	cfg, err := buildConfig(cmd)
	if err != nil {
		return nil, "", err
	}
	sol, err := solveConfig(cmd.Context(), cfg, newLogger())
	title := fmt.Sprintf("eyespot N=%d t=[%g,%g]", cfg.GridSize, cfg.TimeSpan[0], cfg.TimeSpan[1])
	return sol, title, err
}
