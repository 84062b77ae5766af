package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/actuate/internal/actuators"
	"github.com/san-kum/actuate/internal/articulation"
	"github.com/san-kum/actuate/internal/automation"
	"github.com/san-kum/actuate/internal/compute"
	"github.com/san-kum/actuate/internal/config"
	"github.com/san-kum/actuate/internal/dynamo"
	"github.com/san-kum/actuate/internal/experiment"
	"github.com/san-kum/actuate/internal/export"
	"github.com/san-kum/actuate/internal/metrics"
	"github.com/san-kum/actuate/internal/optim"
	"github.com/san-kum/actuate/internal/storage"
	"github.com/san-kum/actuate/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	logLevel   string
	numEnvs    int
	theme      string

	// compute inputs, broadcast to every joint
	target float64
	pos    float64
	vel    float64
	effort float64
	env    int

	// sweep
	axis   string
	from   float64
	to     float64
	steps  int
	noSave bool

	outFile   string
	width     int
	height    int
	svgWidth  int
	svgHeight int

	// optimize
	optAxis       string
	optFrom       float64
	optTo         float64
	optSteps      int
	stiffnessGrid []float64
	dampingGrid   []float64
	metricName    string
	topN          int
)

var logger = slog.Default()

// main registers the actuate commands and executes the root command,
// exiting with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:           "actuate",
		Short:         "actuator group lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(logLevel)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".actuate", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "articulation config file (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "anymal_c", "articulation preset, used when --config is empty")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().IntVar(&numEnvs, "envs", 0, "override the number of environments")
	rootCmd.PersistentFlags().StringVar(&theme, "theme", "cyberpunk", "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	inspectCmd := &cobra.Command{
		Use:   "inspect",
		Short: "show how the actuator groups resolve",
		RunE:  inspect,
	}

	computeCmd := &cobra.Command{
		Use:   "compute",
		Short: "run one compute step over every group",
		RunE:  computeStep,
	}
	computeCmd.Flags().Float64Var(&target, "target", 0.0, "position target")
	computeCmd.Flags().Float64Var(&pos, "pos", 0.0, "joint position")
	computeCmd.Flags().Float64Var(&vel, "vel", 0.0, "joint velocity")
	computeCmd.Flags().Float64Var(&effort, "effort", 0.0, "feed-forward effort")
	computeCmd.Flags().IntVar(&env, "env", 0, "environment to display")

	sweepCmd := &cobra.Command{
		Use:   "sweep [group]",
		Short: "sweep one group along velocity or position and store the result",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	defaults := experiment.DefaultConfig()
	sweepCmd.Flags().StringVar(&axis, "axis", defaults.Axis, "swept input (velocity, position)")
	sweepCmd.Flags().Float64Var(&from, "from", defaults.From, "sweep start")
	sweepCmd.Flags().Float64Var(&to, "to", defaults.To, "sweep end")
	sweepCmd.Flags().IntVar(&steps, "steps", defaults.Steps, "sweep points")
	sweepCmd.Flags().Float64Var(&target, "target", 0.0, "position target")
	sweepCmd.Flags().Float64Var(&effort, "effort", 0.0, "feed-forward effort")
	sweepCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the sweep")

	optimizeCmd := &cobra.Command{
		Use:   "optimize [group]",
		Short: "grid search uniform gains of one group against a sweep metric",
		Args:  cobra.ExactArgs(1),
		RunE:  optimizeGains,
	}
	optimizeCmd.Flags().StringVar(&optAxis, "axis", experiment.AxisPosition, "swept input (velocity, position)")
	optimizeCmd.Flags().Float64Var(&optFrom, "from", -1, "sweep start")
	optimizeCmd.Flags().Float64Var(&optTo, "to", 1, "sweep end")
	optimizeCmd.Flags().IntVar(&optSteps, "steps", 21, "sweep points")
	optimizeCmd.Flags().Float64Var(&target, "target", 0.0, "position target")
	optimizeCmd.Flags().Float64SliceVar(&stiffnessGrid, "stiffness", nil, "stiffness candidates")
	optimizeCmd.Flags().Float64SliceVar(&dampingGrid, "damping", nil, "damping candidates")
	optimizeCmd.Flags().StringVar(&metricName, "metric", "saturation", "metric to minimize")
	optimizeCmd.Flags().IntVar(&topN, "top", 5, "candidates to print")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted batch of sweeps",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the sweeps")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored sweeps",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored sweep",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&width, "width", 80, "plot width")
	plotCmd.Flags().IntVar(&height, "height", 12, "plot height")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a stored sweep to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id] [joint]",
		Short: "export one joint of a stored sweep to SVG",
		Args:  cobra.ExactArgs(2),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 640, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 360, "image height")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list articulation presets and actuator classes",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("presets:")
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
			fmt.Println("classes:")
			for _, c := range actuators.Classes() {
				fmt.Printf("  %s\n", c)
			}
			fmt.Println("devices:")
			for _, d := range compute.Names() {
				fmt.Printf("  %s\n", d)
			}
		},
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the selected articulation to a config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}

	tuneCmd := &cobra.Command{
		Use:   "tune [group]",
		Short: "tune one group interactively",
		Args:  cobra.ExactArgs(1),
		RunE:  runTune,
	}

	rootCmd.AddCommand(inspectCmd, computeCmd, sweepCmd, optimizeCmd, scenarioCmd, listCmd, plotCmd, exportJSONCmd, exportSVGCmd, presetsCmd, initCmd, tuneCmd)

	if err := rootCmd.Execute(); err != nil {
		logger.Error("command failed", "err", err)
		os.Exit(1)
	}
}

func setupLogging(level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	return nil
}

func loadConfig() (*config.Articulation, error) {
	var cfg *config.Articulation
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		c := *p
		cfg = &c
	}
	if numEnvs > 0 {
		cfg.NumEnvs = numEnvs
	}
	return cfg, nil
}

func loadArticulation() (*articulation.Articulation, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	art, err := articulation.New(cfg, actuators.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	logger.Info("articulation ready", "name", art.Name(), "joints", art.NumJoints(), "envs", art.NumEnvs(), "groups", len(art.Groups()))
	return art, nil
}

func findGroup(art *articulation.Articulation, name string) (actuators.Model, error) {
	m, ok := art.Group(name)
	if !ok {
		names := make([]string, 0, len(art.Groups()))
		for _, g := range art.Groups() {
			names = append(names, g.Base().Name())
		}
		return nil, fmt.Errorf("unknown group: %s (available: %v)", name, names)
	}
	return m, nil
}

func inspect(cmd *cobra.Command, args []string) error {
	art, err := loadArticulation()
	if err != nil {
		return err
	}
	styles := viz.NewStyles(viz.GetTheme(theme))

	fmt.Println(styles.Title.Render(fmt.Sprintf("%s  %d joints  %d envs", art.Name(), art.NumJoints(), art.NumEnvs())))
	for _, m := range art.Groups() {
		fmt.Println(viz.RenderGroup(m, styles))
	}

	names := art.JointNames()
	if idx := art.UnactuatedJoints(); len(idx) > 0 {
		unactuated := make([]string, len(idx))
		for i, j := range idx {
			unactuated[i] = names[j]
		}
		fmt.Println(styles.Subtle.Render("unactuated: " + strings.Join(unactuated, ", ")))
	}
	return nil
}

func computeStep(cmd *cobra.Command, args []string) error {
	art, err := loadArticulation()
	if err != nil {
		return err
	}
	if env < 0 || env >= art.NumEnvs() {
		return fmt.Errorf("env %d out of range [0, %d)", env, art.NumEnvs())
	}

	envs, n := art.NumEnvs(), art.NumJoints()
	action := actuators.Actions{
		Positions:  dynamo.Full(envs, n, target),
		Velocities: dynamo.NewField(envs, n),
		Efforts:    dynamo.Full(envs, n, effort),
	}
	out, err := art.Compute(action, dynamo.Full(envs, n, pos), dynamo.Full(envs, n, vel))
	if err != nil {
		return err
	}

	styles := viz.NewStyles(viz.GetTheme(theme))
	for _, m := range art.Groups() {
		g := m.Base()
		fmt.Println(styles.Title.Render(fmt.Sprintf("%s (%s)", g.Name(), g.Kind())))
		fmt.Println(viz.RenderActions(g, groupSlice(out, g), env, styles))
		fmt.Println()
	}
	return nil
}

// groupSlice gathers the columns of g out of full-width actions.
func groupSlice(out actuators.Actions, g *actuators.Group) actuators.Actions {
	pick := func(f *dynamo.Field) *dynamo.Field {
		if f == nil {
			return nil
		}
		sub := dynamo.NewField(f.Envs(), g.NumJoints())
		for e := 0; e < f.Envs(); e++ {
			row := sub.Row(e)
			for k, j := range g.JointIndices() {
				row[k] = f.At(e, j)
			}
		}
		return sub
	}
	return actuators.Actions{
		Positions:  pick(out.Positions),
		Velocities: pick(out.Velocities),
		Efforts:    pick(out.Efforts),
	}
}

func runSweep(cmd *cobra.Command, args []string) error {
	art, err := loadArticulation()
	if err != nil {
		return err
	}
	m, err := findGroup(art, args[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	exp := experiment.New(experiment.Config{
		Axis:   axis,
		From:   from,
		To:     to,
		Steps:  steps,
		Target: target,
		Effort: effort,
	})
	ms := metrics.Defaults()
	if err := exp.Setup(m, ms); err != nil {
		return err
	}

	logger.Info("sweep started", "group", args[0], "axis", axis, "from", from, "to", to, "steps", steps)
	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}

	order := make([]string, len(ms))
	for i, metric := range ms {
		order[i] = metric.Name()
	}
	styles := viz.NewStyles(viz.GetTheme(theme))
	fmt.Println(viz.PlotSweep(result, 80, 12))
	fmt.Println()
	fmt.Println(viz.RenderMetrics(result.Metrics, order, styles))

	if noSave {
		return nil
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(art.Name(), result)
	if err != nil {
		return err
	}
	logger.Info("sweep stored", "run", runID, "dir", dataDir)
	fmt.Printf("\nrun: %s\n", runID)
	return nil
}

func optimizeGains(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	base, ok := cfg.Actuator(args[0])
	if !ok {
		return fmt.Errorf("unknown group: %s", args[0])
	}

	var params []optim.Param
	if len(stiffnessGrid) > 0 {
		params = append(params, optim.Param{Name: "stiffness", Values: stiffnessGrid})
	}
	if len(dampingGrid) > 0 {
		params = append(params, optim.Param{Name: "damping", Values: dampingGrid})
	}
	if len(params) == 0 {
		return fmt.Errorf("nothing to search: pass --stiffness and/or --damping")
	}

	sweep := experiment.Config{Axis: optAxis, From: optFrom, To: optTo, Steps: optSteps, Target: target}
	build := func(p map[string]float64) (*experiment.Experiment, error) {
		acfg := base
		if v, ok := p["stiffness"]; ok {
			acfg.Stiffness = config.Uniform(v)
		}
		if v, ok := p["damping"]; ok {
			acfg.Damping = config.Uniform(v)
		}
		m, err := actuators.New(acfg, cfg.Joints, cfg.NumEnvs, actuators.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		exp := experiment.New(sweep)
		if err := exp.Setup(m, metrics.Defaults()); err != nil {
			return nil, err
		}
		return exp, nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	gs := optim.NewGridSearch(params)
	logger.Info("gain search started", "group", args[0], "candidates", len(gs.Candidates()), "metric", metricName)
	ranked, err := gs.Search(ctx, build, metricName)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tSTIFFNESS\tDAMPING\t"+strings.ToUpper(metricName))
	for i, c := range ranked {
		if i >= topN {
			break
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%.4f\n", i+1, paramString(c.Params, "stiffness"), paramString(c.Params, "damping"), c.Value)
	}
	return w.Flush()
}

func paramString(p map[string]float64, name string) string {
	v, ok := p[name]
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%g", v)
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	art, err := loadArticulation()
	if err != nil {
		return err
	}

	var st *storage.Store
	if !noSave {
		st = storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := automation.RunScenario(ctx, scenario, art, st, logger)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tGROUP\tAXIS\tPOINTS\tSATURATION\tRUN")
	for i, r := range results {
		runID := r.RunID
		if runID == "" {
			runID = "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%.3f\t%s\n", i+1, r.Result.Group, r.Result.Axis, len(r.Result.Inputs), r.Result.Metrics["saturation"], runID)
	}
	if ferr := w.Flush(); ferr != nil && err == nil {
		err = ferr
	}
	return err
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tARTICULATION\tGROUP\tMODEL\tAXIS\tSTEPS\tTIME")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
			run.ID,
			run.Articulation,
			run.Group,
			run.Model,
			run.Axis,
			run.Steps,
			run.Timestamp.Format("2006-01-02 15:04:05"),
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	result, err := st.LoadSweep(args[0])
	if err != nil {
		return err
	}
	if len(result.Inputs) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", args[0])
	fmt.Printf("group: %s (%s)\n", result.Group, result.Model)
	fmt.Printf("points: %d\n\n", len(result.Inputs))
	fmt.Println(viz.PlotSweep(result, width, height))
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	if outFile == "" {
		return st.WriteJSON(os.Stdout, args[0])
	}
	if err := st.ExportJSON(outFile, args[0]); err != nil {
		return err
	}
	logger.Info("run exported", "run", args[0], "path", outFile)
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	result, err := st.LoadSweep(args[0])
	if err != nil {
		return err
	}

	j := -1
	for i, name := range result.Joints {
		if name == args[1] {
			j = i
		}
	}
	if j < 0 {
		return fmt.Errorf("joint %s not in run %s (joints: %v)", args[1], args[0], result.Joints)
	}

	if outFile == "" {
		return export.WriteSweepSVG(os.Stdout, result, j, svgWidth, svgHeight)
	}
	f, err := os.Create(outFile)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := export.WriteSweepSVG(f, result, j, svgWidth, svgHeight); err != nil {
		return err
	}
	logger.Info("svg exported", "run", args[0], "joint", args[1], "path", outFile)
	return nil
}

func runTune(cmd *cobra.Command, args []string) error {
	art, err := loadArticulation()
	if err != nil {
		return err
	}
	m, err := findGroup(art, args[0])
	if err != nil {
		return err
	}

	tm := viz.NewTuneModel(m)
	tm.SetTheme(viz.GetTheme(theme))
	p := tea.NewProgram(tm, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
