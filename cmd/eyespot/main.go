package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/eyespot/internal/api"
	"github.com/san-kum/eyespot/internal/config"
	"github.com/san-kum/eyespot/internal/export"
	"github.com/san-kum/eyespot/internal/eyespot"
	"github.com/san-kum/eyespot/internal/sim"
	"github.com/san-kum/eyespot/internal/sweep"
	"github.com/san-kum/eyespot/internal/viz"
)

var (
	outFile    string
	outFormat  string
	theme      string
	timeIndex  int
	species    string
	cellRow    int
	cellCol    int
	maxWidth   int
	gifScale   int
	gifDelay   int
	addr       string
	staticDir  string
	maxGrid    int
	maxTimes   int
	axes       []string
	rankMetric string
	descending bool
	limit      int
	noLabel    bool
	mask       string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "eyespot",
		Short:         "reaction-diffusion eyespot pigmentation simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().IntVarP(&verbosity, "verbose", "v", 0, "log verbosity (1 = solve summary, 2 = every step)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "solve and print metrics",
		RunE:  runSimulation,
	}
	addModelFlags(runCmd)
	runCmd.Flags().StringVarP(&outFile, "out", "o", "", "write the result to this file")
	runCmd.Flags().StringVar(&outFormat, "format", "series", "output format (series, final, csv, svg)")

	plotCmd := &cobra.Command{
		Use:   "plot [species...]",
		Short: "plot species totals over time",
		RunE:  plotSolution,
	}
	addSourceFlags(plotCmd)
	plotCmd.Flags().IntVar(&cellRow, "row", -1, "plot one cell instead of grid totals (with --col)")
	plotCmd.Flags().IntVar(&cellCol, "col", -1, "column of the plotted cell")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "print the dominant pigment map at one time",
		RunE:  showSolution,
	}
	addSourceFlags(showCmd)
	showCmd.Flags().IntVar(&timeIndex, "index", -1, "evaluation time index (negative counts from the end)")
	showCmd.Flags().StringVar(&species, "species", "", "render one species field (M1, M2, P0, P1, P2) instead")
	showCmd.Flags().StringVar(&theme, "theme", "classic", "color theme")
	showCmd.Flags().IntVar(&maxWidth, "width", 100, "maximum columns")
	showCmd.Flags().StringVar(&mask, "mask", "", "draw the cells of one pigment class (none, P0, P1, P2) as braille dots")

	animateCmd := &cobra.Command{
		Use:   "animate",
		Short: "write the dominant pigment map over time as a GIF",
		RunE:  animateSolution,
	}
	addSourceFlags(animateCmd)
	animateCmd.Flags().StringVarP(&outFile, "out", "o", "eyespot.gif", "GIF path")
	animateCmd.Flags().IntVar(&gifScale, "scale", 4, "pixels per cell")
	animateCmd.Flags().IntVar(&gifDelay, "delay", 5, "frame delay in 1/100 s")
	animateCmd.Flags().StringVar(&theme, "theme", "classic", "color theme")
	animateCmd.Flags().BoolVar(&noLabel, "no-label", false, "omit the time above each frame")

	viewCmd := &cobra.Command{
		Use:   "view",
		Short: "step through a solution interactively",
		RunE:  viewSolution,
	}
	addSourceFlags(viewCmd)
	viewCmd.Flags().StringVar(&theme, "theme", "classic", "color theme")
	viewCmd.Flags().StringVar(&outFile, "gif", "eyespot.gif", "path used by the G key")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the simulate API and the web client",
		RunE:  serve,
	}
	serveCmd.Flags().StringVar(&addr, "addr", ":5000", "listen address")
	serveCmd.Flags().StringVar(&staticDir, "static", "", "directory of the compiled web client")
	serveCmd.Flags().IntVar(&maxGrid, "max-grid", api.DefaultOptions().MaxGridSize, "largest grid a request may ask for")
	serveCmd.Flags().IntVar(&maxTimes, "max-times", api.DefaultOptions().MaxEvalTimes, "most evaluation times a request may ask for")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "solve a grid of parameter values in parallel",
		RunE:  runSweep,
	}
	addModelFlags(sweepCmd)
	sweepCmd.Flags().StringArrayVar(&axes, "axis", nil, "swept parameter, name=v1,v2 or name=start:stop:step (repeatable)")
	sweepCmd.Flags().StringVar(&rankMetric, "rank", "coverage_P2", "metric to rank points by")
	sweepCmd.Flags().BoolVar(&descending, "desc", true, "rank from largest to smallest")
	sweepCmd.Flags().IntVar(&limit, "jobs", 0, "concurrent solves (0 = GOMAXPROCS)")

	compareCmd := &cobra.Command{
		Use:   "compare [method...]",
		Short: "compare integration methods on the same configuration",
		RunE:  compareMethods,
	}
	addModelFlags(compareCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets [group]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			groups := config.ListGroups()
			if len(args) == 1 {
				groups = args
			}
			for _, g := range groups {
				presets := config.ListPresets(g)
				if len(presets) == 0 {
					fmt.Printf("no presets in group: %s\n", g)
					continue
				}
				fmt.Printf("%s:\n", g)
				for _, p := range presets {
					cfg := config.GetPreset(g, p)
					fmt.Printf("  %-10s N=%-4d t=[%g,%g] foci=%v\n", p, cfg.GridSize, cfg.TimeSpan[0], cfg.TimeSpan[1], cfg.Foci)
				}
			}
			return nil
		},
	}

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write the default configuration as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Save(args[0], config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, plotCmd, showCmd, animateCmd, viewCmd, serveCmd, sweepCmd, compareCmd, presetsCmd, initCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	fmt.Printf("solving %dx%d grid, t=[%g,%g], %d foci, %s...\n",
		cfg.GridSize, cfg.GridSize, cfg.TimeSpan[0], cfg.TimeSpan[1], len(cfg.Foci), cfg.Method)
	start := time.Now()

	sol, err := solveConfig(cmd.Context(), cfg, newLogger())
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", time.Since(start))
	fmt.Printf("times: %d  accepted: %d  rejected: %d  evaluations: %d\n",
		sol.Len(), sol.Stats.Accepted, sol.Stats.Rejected, sol.Stats.Evaluations)
	printMetrics(sol.Metrics)

	if outFile == "" {
		return nil
	}
	if err := writeResult(outFile, outFormat, sol); err != nil {
		return err
	}
	fmt.Printf("\nwrote %s (%s)\n", outFile, outFormat)
	return nil
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)

	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6g\n", name, m[name])
	}
}

func writeResult(path, format string, sol *eyespot.Solution) error {
	switch format {
	case "series":
		return export.SaveJSON(path, export.NewSeries(sol))
	case "final":
		final, err := export.NewFinal(sol)
		if err != nil {
			return err
		}
		return export.SaveJSON(path, final)
	case "csv":
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := export.WriteTotalsCSV(f, sol); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	case "svg":
		final, err := sol.Final()
		if err != nil {
			return err
		}
		return os.WriteFile(path, []byte(export.PigmentSVG(final.Classify(), viz.CurrentTheme, 6)), 0644)
	default:
		return fmt.Errorf("unknown format %q (want series, final, csv or svg)", format)
	}
}

func speciesIndex(name string) (int, error) {
	for i, s := range eyespot.SpeciesNames {
		if strings.EqualFold(s, name) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown species %q (want one of %v)", name, eyespot.SpeciesNames)
}

func plotSolution(cmd *cobra.Command, args []string) error {
	sol, _, err := loadOrSolve(cmd)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		args = []string{"M1", "M2"}
	}

	idx := make([]int, 0, len(args))
	for _, a := range args {
		i, err := speciesIndex(a)
		if err != nil {
			return err
		}
		idx = append(idx, i)
	}

	if cellRow >= 0 || cellCol >= 0 {
		pos := eyespot.Pos{Row: cellRow, Col: cellCol}
		series := make([][]float64, 0, len(idx))
		for _, i := range idx {
			s, err := viz.AtCell(sol, i, pos)
			if err != nil {
				return err
			}
			series = append(series, s)
		}
		fmt.Println(viz.PlotSeries(fmt.Sprintf("%v at %s", args, pos), 12, 80, series...))
		return nil
	}

	chart, err := viz.PlotTotals(sol, idx, 12, 80)
	if err != nil {
		return err
	}
	fmt.Println(chart)
	return nil
}

func showSolution(cmd *cobra.Command, args []string) error {
	sol, title, err := loadOrSolve(cmd)
	if err != nil {
		return err
	}
	i := timeIndex
	if i < 0 {
		i += sol.Len()
	}
	f, err := sol.Fields(i)
	if err != nil {
		return err
	}
	th := viz.GetTheme(theme)

	fmt.Println(viz.HeaderStyle.Render(fmt.Sprintf("%s  t=%g", title, sol.Times[i])))
	if species != "" {
		s, err := speciesIndex(species)
		if err != nil {
			return err
		}
		fmt.Print(viz.RenderField(f.Species()[s], maxWidth))
		return nil
	}
	m := f.Classify()
	if mask != "" {
		class, err := eyespot.ParsePigment(mask)
		if err != nil {
			return err
		}
		fmt.Print(viz.RenderMask(m, class, th))
		fmt.Printf("%s: %d cells\n", class, m.Counts()[class])
		return nil
	}
	fmt.Print(viz.RenderPigment(m, th, maxWidth))
	fmt.Println(viz.Legend(m, th))
	return nil
}

func animateSolution(cmd *cobra.Command, args []string) error {
	sol, _, err := loadOrSolve(cmd)
	if err != nil {
		return err
	}
	opts := viz.GIFOptions{Scale: gifScale, Delay: gifDelay, Theme: viz.GetTheme(theme), Label: !noLabel}
	if err := viz.SaveGIF(outFile, sol, opts); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d frames)\n", outFile, sol.Len())
	return nil
}

func viewSolution(cmd *cobra.Command, args []string) error {
	sol, title, err := loadOrSolve(cmd)
	if err != nil {
		return err
	}
	viz.SetTheme(theme)
	return viz.RunPlayer(sol, title, outFile)
}

func serve(cmd *cobra.Command, args []string) error {
	log := newLogger().WithName("api")
	opts := api.DefaultOptions()
	opts.StaticDir = staticDir
	opts.MaxGridSize = maxGrid
	opts.MaxEvalTimes = maxTimes

	srv := &http.Server{
		Addr:              addr,
		Handler:           api.NewServer(opts, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	log.Info("listening", "addr", addr, "static", staticDir)

	select {
	case err := <-errc:
		return err
	case <-cmd.Context().Done():
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if len(axes) == 0 {
		return fmt.Errorf("at least one --axis is required (parameters: %s)", strings.Join(config.ParamNames(), ", "))
	}

	parsed := make([]sweep.Axis, 0, len(axes))
	for _, a := range axes {
		axis, err := sweep.ParseAxis(a)
		if err != nil {
			return err
		}
		parsed = append(parsed, axis)
	}

	sw := sweep.New(cfg, parsed...).WithLimit(limit).WithLogger(newLogger())
	fmt.Printf("sweeping %d combinations...\n", len(sw.Combinations()))
	start := time.Now()

	points, err := sw.Run(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n\n", time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	header := make([]string, 0, len(parsed)+2)
	for _, a := range parsed {
		header = append(header, strings.ToUpper(a.Name))
	}
	header = append(header, strings.ToUpper(rankMetric), "PIGMENT_DRIFT")
	fmt.Fprintln(w, strings.Join(header, "\t"))

	for _, p := range sweep.Rank(points, rankMetric, descending) {
		row := make([]string, 0, len(header))
		for _, a := range parsed {
			row = append(row, fmt.Sprintf("%g", p.Params[a.Name]))
		}
		row = append(row, fmt.Sprintf("%.6g", p.Metrics[rankMetric]), fmt.Sprintf("%.2e", p.Metrics["pigment_drift"]))
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	for _, p := range points {
		if p.Err != nil {
			fmt.Printf("failed %v: %v\n", p.Params, p.Err)
		}
	}
	return nil
}

func compareMethods(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		args = []string{sim.MethodRK45, sim.MethodRK4}
	}

	fmt.Printf("comparing methods on %dx%d grid, t=[%g,%g]\n\n", cfg.GridSize, cfg.GridSize, cfg.TimeSpan[0], cfg.TimeSpan[1])
	fmt.Printf("%-8s  %-10s  %-12s  %-12s  %-12s\n", "method", "steps", "evaluations", "drift", "time_ms")
	fmt.Println(strings.Repeat("-", 62))

	for _, name := range args {
		c := cfg.Clone()
		c.Method = name
		if name == sim.MethodRK4 && c.MaxStep == 0 {
			c.MaxStep = 0.01
		}

		start := time.Now()
		sol, err := solveConfig(cmd.Context(), c, newLogger())
		elapsed := time.Since(start)
		if err != nil {
			fmt.Printf("%-8s  error: %v\n", name, err)
			continue
		}
		fmt.Printf("%-8s  %10d  %12d  %12.2e  %12.2f\n", name, sol.Stats.Accepted, sol.Stats.Evaluations,
			sol.Metrics["pigment_drift"], float64(elapsed.Microseconds())/1000)
	}
	return nil
}
