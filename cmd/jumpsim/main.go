package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/jumpsim/internal/analysis"
	"github.com/san-kum/jumpsim/internal/audio"
	"github.com/san-kum/jumpsim/internal/config"
	"github.com/san-kum/jumpsim/internal/dynamo"
	"github.com/san-kum/jumpsim/internal/energy"
	"github.com/san-kum/jumpsim/internal/experiment"
	"github.com/san-kum/jumpsim/internal/export"
	"github.com/san-kum/jumpsim/internal/logging"
	"github.com/san-kum/jumpsim/internal/optim"
	"github.com/san-kum/jumpsim/internal/physics"
	"github.com/san-kum/jumpsim/internal/scenario"
	"github.com/san-kum/jumpsim/internal/storage"
	"github.com/san-kum/jumpsim/internal/viz"
)

//go:embed explain.md
var explainText string

var (
	dataDir string
	verbose bool
	logger  *zap.Logger

	configFile string
	preset     string
	overrides  []string

	modelName  string
	integrator string
	controller string
	dt         float64
	duration   float64
	seed       int64

	mass       float64
	dropHeight float64
	matDepth   float64
	stiffness  float64
	damping    float64
	gravity    float64
	omega      float64

	kp       float64
	ki       float64
	kd       float64
	target   float64
	maxForce float64

	sound   bool
	noSave  bool
	outFile string
	frameT  float64
	grids   []string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "jumpsim",
		Short: "trampoline jump energy simulator",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			l, err := logging.New(dataDir, verbose)
			if err != nil {
				logger = logging.Nop()
				return
			}
			logger = l
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".jumpsim", "data directory")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "echo debug logs to stderr")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a jump simulation and store the result",
		RunE:  runJump,
	}
	addModelFlags(runCmd)
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "skip persisting the run")

	energyCmd := &cobra.Command{
		Use:   "energy",
		Short: "print the energy table and charts for one reference bounce",
		RunE:  energyTable,
	}
	addModelFlags(energyCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "watch a jump with live energy bars",
		RunE:  runLive,
	}
	addModelFlags(liveCmd)
	liveCmd.Flags().BoolVar(&sound, "sound", false, "sonify the jump")

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "height-velocity phase portrait of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportMeta,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run samples to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run samples and metadata to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "bounce rhythm and spectrum of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	compareCmd := &cobra.Command{
		Use:   "compare [integrator1] [integrator2] ...",
		Short: "compare integrators on the same jump",
		Args:  cobra.MinimumNArgs(1),
		RunE:  compareIntegrators,
	}
	addModelFlags(compareCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list presets for a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for model: %s\n", args[0])
				return nil
			}
			sort.Strings(presets)
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted batch of jumps",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().BoolVar(&noSave, "no-save", false, "skip persisting the runs")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid-search parameters toward a target apex",
		RunE:  tuneParams,
	}
	addModelFlags(tuneCmd)
	tuneCmd.Flags().StringArrayVar(&grids, "grid", nil, "search axis, e.g. pump.kp=200:800:4")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [run_id]",
		Short: "render a stored run to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  snapshotRun,
	}
	snapshotCmd.Flags().StringVar(&outFile, "out", "jump.svg", "output file")
	snapshotCmd.Flags().Float64Var(&frameT, "frame", -1, "render the scene at this time instead of the trajectory")

	explainCmd := &cobra.Command{
		Use:   "explain",
		Short: "explain the physics behind the simulator",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := glamour.Render(explainText, "dark")
			if err != nil {
				return err
			}
			fmt.Print(out)
			return nil
		},
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark the jump models",
		RunE:  benchModels,
	}
	addModelFlags(benchCmd)

	rootCmd.AddCommand(runCmd, energyCmd, liveCmd, plotCmd, phaseCmd, listCmd,
		exportCmd, exportCSVCmd, exportJSONCmd, analyzeCmd, compareCmd,
		presetsCmd, scenarioCmd, tuneCmd, snapshotCmd, explainCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// addModelFlags attaches the shared simulation flags. Defaults mirror the
// reference jump; buildConfig only applies a flag the user actually set,
// so presets and config files shine through untouched values.
func addModelFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&modelName, "model", "trampoline", "jump model (trampoline, harmonic)")
	cmd.Flags().StringVar(&integrator, "integrator", "rk4", "integrator")
	cmd.Flags().StringVar(&controller, "controller", "none", "controller (none, pump)")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed")
	cmd.Flags().Float64Var(&mass, "mass", config.DefaultMass, "jumper mass (kg)")
	cmd.Flags().Float64Var(&dropHeight, "drop", config.DefaultDrop, "drop height above the mat surface (m)")
	cmd.Flags().Float64Var(&matDepth, "depth", config.DefaultMatDepth, "mat give at the lowest point (m)")
	cmd.Flags().Float64Var(&stiffness, "stiffness", 0, "mat stiffness (N/m), 0 derives it")
	cmd.Flags().Float64Var(&damping, "damping", 0, "mat damping (N·s/m)")
	cmd.Flags().Float64Var(&gravity, "gravity", config.DefaultGravity, "gravity (m/s²)")
	cmd.Flags().Float64Var(&omega, "omega", config.DefaultOmega, "harmonic angular frequency (rad/s)")
	cmd.Flags().Float64Var(&kp, "kp", config.DefaultKp, "pump proportional gain")
	cmd.Flags().Float64Var(&ki, "ki", config.DefaultKi, "pump integral gain")
	cmd.Flags().Float64Var(&kd, "kd", config.DefaultKd, "pump derivative gain")
	cmd.Flags().Float64Var(&target, "target", config.DefaultDrop, "pump target apex (m)")
	cmd.Flags().Float64Var(&maxForce, "max-force", 0, "pump force cap (N), 0 unlimited")
	cmd.Flags().StringVar(&configFile, "config", "", "config file (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "named preset")
	cmd.Flags().StringArrayVar(&overrides, "set", nil, "override, e.g. mat.damping=120")
}

// buildConfig resolves the effective config. Precedence, lowest first:
// preset, config file, explicit flags, --set overrides.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(modelName, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(modelName))
		}
		tmp := *p
		cfg = &tmp
	}

	if configFile != "" {
		if err := config.LoadInto(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	flagSets := map[string]func(){
		"model":      func() { cfg.Model = modelName },
		"integrator": func() { cfg.Integrator = integrator },
		"controller": func() { cfg.Controller = controller },
		"dt":         func() { cfg.Dt = dt },
		"time":       func() { cfg.Duration = duration },
		"seed":       func() { cfg.Seed = seed },
		"mass":       func() { cfg.Jumper.Mass = mass },
		"drop":       func() { cfg.Jumper.DropHeight = dropHeight },
		"depth":      func() { cfg.Mat.Depth = matDepth },
		"stiffness":  func() { cfg.Mat.Stiffness = stiffness },
		"damping":    func() { cfg.Mat.Damping = damping },
		"gravity":    func() { cfg.Mat.Gravity = gravity },
		"omega":      func() { cfg.Omega = omega },
		"kp":         func() { cfg.Pump.Kp = kp },
		"ki":         func() { cfg.Pump.Ki = ki },
		"kd":         func() { cfg.Pump.Kd = kd },
		"target":     func() { cfg.Pump.Target = target },
		"max-force":  func() { cfg.Pump.MaxForce = maxForce },
	}
	for name, apply := range flagSets {
		if cmd.Flags().Changed(name) {
			apply()
		}
	}

	if err := config.ApplyOverrides(cfg, overrides); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runJump(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	exp, err := experiment.New(cfg, nil)
	if err != nil {
		return err
	}

	fmt.Printf("running %s jump...\n", cfg.Model)
	logger.Info("starting run",
		zap.String("model", cfg.Model),
		zap.String("integrator", cfg.Integrator),
		zap.Float64("dt", cfg.Dt),
		zap.Float64("duration", cfg.Duration),
	)

	start := time.Now()
	result, err := exp.Run(context.Background())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("steps: %d\n", result.StepsTaken)

	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(storage.RunMetadata{
			Model:      cfg.Model,
			Seed:       cfg.Seed,
			Dt:         cfg.Dt,
			Duration:   cfg.Duration,
			Integrator: cfg.Integrator,
			Controller: cfg.Controller,
			Metrics:    result.Metrics,
		}, exp.Series(result), experiment.PushColumn(result))
		if err != nil {
			return err
		}
		logger.Info("run saved", zap.String("id", runID))
		fmt.Printf("run id: %s\n", runID)
	}

	fmt.Println("\nmetrics:")
	printMetrics(result.Metrics)
	return nil
}

func printMetrics(metrics map[string]float64) {
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, metrics[name])
	}
}

func energyTable(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	led, err := energy.NewLedger(cfg.Jumper.Mass, cfg.Mat.Gravity, cfg.Mat.Depth,
		cfg.Jumper.DropHeight, cfg.Mat.Stiffness)
	if err != nil {
		return err
	}
	osc, err := physics.NewHarmonic(led, cfg.Omega)
	if err != nil {
		return err
	}

	step := 0.05
	if cmd.Flags().Changed("dt") {
		step = cfg.Dt
	}
	series := led.Sweep(osc.HeightAt, step, osc.Period())

	fmt.Printf("jumper mass:    %.1f kg\n", led.Mass())
	fmt.Printf("gravity:        %.2f m/s²\n", led.Gravity())
	fmt.Printf("mat depth:      %.2f m\n", led.MatDepth())
	fmt.Printf("drop height:    %.2f m\n", led.DropHeight())
	fmt.Printf("stiffness:      %.1f N/m\n", led.Stiffness())
	fmt.Printf("energy budget:  %.1f J\n\n", led.Total())

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "T\tHEIGHT\tSPEED\tCOMPRESS\tKINETIC\tGRAVITY\tELASTIC\tTOTAL")
	for _, s := range series.Samples {
		fmt.Fprintf(w, "%.2f\t%.3f\t%.3f\t%.3f\t%.1f\t%.1f\t%.1f\t%.1f\n",
			s.Time, s.Height, s.Velocity, s.Compression,
			s.Kinetic, s.Gravitational, s.Elastic, s.Mechanical)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	charts := []struct {
		name string
		data []float64
	}{
		{"height (m)", series.Heights()},
		{"kinetic energy (J)", series.Kinetic()},
		{"gravitational energy (J)", series.Gravitational()},
		{"elastic energy (J)", series.Elastic()},
	}
	for _, c := range charts {
		fmt.Println()
		fmt.Println(asciigraph.Plot(c.data,
			asciigraph.Height(8),
			asciigraph.Width(80),
			asciigraph.Caption(c.name),
		))
	}
	return nil
}

func resolveLive(cfg *config.Config) (dynamo.System, dynamo.Integrator, dynamo.Controller, error) {
	registry := experiment.NewRegistry()

	dyn, err := registry.GetModel(cfg.Model, cfg.ModelParams())
	if err != nil {
		return nil, nil, nil, err
	}
	integ, err := registry.GetIntegrator(cfg.Integrator)
	if err != nil {
		return nil, nil, nil, err
	}
	name := cfg.Controller
	if name == "" {
		name = "none"
	}
	ctrl, err := registry.GetController(name, cfg.ControllerParams())
	if err != nil {
		return nil, nil, nil, err
	}
	return dyn, integ, ctrl, nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	dyn, integ, ctrl, err := resolveLive(cfg)
	if err != nil {
		return err
	}

	// The live view steps once per frame, so the display-time dt is
	// coarser than the storage default unless the user pins it.
	liveDt := cfg.Dt
	if !cmd.Flags().Changed("dt") && configFile == "" && preset == "" {
		liveDt = 0.01
	}

	scene := viz.NewScene(cfg.Mat.Depth, cfg.Jumper.DropHeight)
	m := viz.NewLive(dyn, integ, ctrl, cfg.InitState(), liveDt, scene, cfg.Model)
	defer m.Close()

	if configFile != "" {
		err := m.WatchConfig(configFile, func() (dynamo.System, dynamo.Controller, dynamo.State, error) {
			fresh := config.DefaultConfig()
			if err := config.LoadInto(configFile, fresh); err != nil {
				return nil, nil, nil, err
			}
			if err := config.ApplyOverrides(fresh, overrides); err != nil {
				return nil, nil, nil, err
			}
			d, _, c, err := resolveLive(fresh)
			if err != nil {
				return nil, nil, nil, err
			}
			return d, c, fresh.InitState(), nil
		})
		if err != nil {
			logger.Warn("config watch unavailable", zap.Error(err))
		}
	}

	if sound {
		budget := 0.0
		if h, ok := dyn.(dynamo.Hamiltonian); ok {
			budget = h.Energy(cfg.InitState())
		}
		son := audio.NewSonifier(cfg.Jumper.DropHeight, budget)
		if err := son.Start(); err != nil {
			logger.Warn("audio unavailable", zap.Error(err))
		} else {
			defer son.Stop()
			part, _ := dyn.(dynamo.Partitioned)
			m.OnStep = func(x dynamo.State, t float64) {
				kinetic := 0.0
				if part != nil {
					kinetic = part.Energies(x).Kinetic
				}
				son.Update(x[0], kinetic, x[0] < cfg.Mat.Depth)
			}
		}
	}

	p := tea.NewProgram(m)
	_, err = p.Run()
	return err
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	series, pushes, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}
	if series.Len() == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("model: %s\n", meta.Model)
	fmt.Printf("samples: %d\n", series.Len())

	charts := []struct {
		name string
		data []float64
	}{
		{"height (m)", series.Heights()},
		{"velocity (m/s)", series.Velocities()},
		{"mat compression (m)", series.Compressions()},
		{"kinetic energy (J)", series.Kinetic()},
		{"gravitational energy (J)", series.Gravitational()},
		{"elastic energy (J)", series.Elastic()},
		{"mechanical energy (J)", series.Mechanical()},
	}
	if len(pushes) > 0 {
		charts = append(charts, struct {
			name string
			data []float64
		}{"push force (N)", pushes})
	}

	for _, c := range charts {
		fmt.Println()
		fmt.Println(asciigraph.Plot(c.data,
			asciigraph.Height(8),
			asciigraph.Width(80),
			asciigraph.Caption(c.name),
		))
	}
	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	series, _, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}
	if series.Len() == 0 {
		return fmt.Errorf("no data to plot")
	}

	xData := series.Heights()
	yData := series.Velocities()

	fmt.Printf("phase portrait: %s\n", meta.ID)
	fmt.Printf("model: %s\n", meta.Model)
	fmt.Println("x-axis: height (m), y-axis: velocity (m/s)")
	fmt.Println()

	xMin, xMax := xData[0], xData[0]
	yMin, yMax := yData[0], yData[0]
	for i := range xData {
		if xData[i] < xMin {
			xMin = xData[i]
		}
		if xData[i] > xMax {
			xMax = xData[i]
		}
		if yData[i] < yMin {
			yMin = yData[i]
		}
		if yData[i] > yMax {
			yMax = yData[i]
		}
	}

	xRange := xMax - xMin
	yRange := yMax - yMin
	if xRange == 0 {
		xRange = 1
	}
	if yRange == 0 {
		yRange = 1
	}

	width, height := 70, 20
	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = make([]rune, width)
		for j := range grid[i] {
			grid[i][j] = ' '
		}
	}

	for i := range xData {
		px := int(float64(width-1) * (xData[i] - xMin) / xRange)
		py := int(float64(height-1) * (yData[i] - yMin) / yRange)
		py = height - 1 - py
		if px >= 0 && px < width && py >= 0 && py < height {
			if i < len(xData)/3 {
				grid[py][px] = '.'
			} else if i < 2*len(xData)/3 {
				grid[py][px] = 'o'
			} else {
				grid[py][px] = '●'
			}
		}
	}

	fmt.Printf("  %6.2f ┌%s┐\n", yMax, strings.Repeat("─", width))
	for i := range grid {
		if i == height/2 {
			fmt.Printf("  %6.2f │", (yMax+yMin)/2)
		} else {
			fmt.Print("         │")
		}
		fmt.Print(string(grid[i]))
		fmt.Println("│")
	}
	fmt.Printf("  %6.2f └%s┘\n", yMin, strings.Repeat("─", width))
	fmt.Printf("         %.2f%s%.2f\n", xMin, strings.Repeat(" ", width-12), xMax)
	fmt.Println("\nLegend: . = early, o = middle, ● = late")
	return nil
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
	fmt.Fprintln(w, "ID\tMODEL\tTIME\tDURATION\tDT\tINTEG\tCTRL\tAPEX")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%s\t%s\t%.3f\n",
			run.ID,
			run.Model,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Integrator,
			run.Controller,
			run.Metrics["apex_height"],
		)
	}
	return w.Flush()
}

func exportMeta(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	series, pushes, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}
	if series.Len() == 0 {
		return fmt.Errorf("no data to export")
	}
	return storage.ExportCSV(os.Stdout, series, pushes)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	series, pushes, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, meta, series, pushes)
}

// matSurface recovers the undeformed mat height from stored samples:
// height plus compression is constant during contact.
func matSurface(series *energy.Series) float64 {
	surface := 0.0
	for _, s := range series.Samples {
		if s.Compression > 0 && s.Height+s.Compression > surface {
			surface = s.Height + s.Compression
		}
	}
	return surface
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	series, _, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}
	if series.Len() == 0 {
		return fmt.Errorf("no data")
	}

	fmt.Printf("bounce analysis: %s\n", meta.ID)
	fmt.Printf("model: %s\n\n", meta.Model)

	stats := analysis.Bounce(series, matSurface(series))
	fmt.Printf("apexes:        %d\n", len(stats.Apexes))
	fmt.Printf("mean apex:     %.3f m\n", stats.MeanApex)
	fmt.Printf("mean period:   %.3f s\n", stats.MeanPeriod)
	fmt.Printf("air fraction:  %.1f%%\n", stats.AirFraction*100)
	fmt.Printf("peak speed:    %.3f m/s\n", stats.PeakSpeed)
	fmt.Printf("height range:  %.3f .. %.3f m\n\n", stats.LowestHeight, stats.HighestHeight)

	heights := series.Heights()
	if window := spectrumWindow(analysis.PowerSpectrum(heights)); window != nil {
		fmt.Println(asciigraph.Plot(window,
			asciigraph.Height(12),
			asciigraph.Width(80),
			asciigraph.Caption("height power spectrum"),
		))
	} else {
		fmt.Println("run too short for a spectrum")
	}

	freq := analysis.DominantFrequency(heights, meta.Dt)
	fmt.Printf("\ndominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("bounce period: %.3f s\n", 1.0/freq)
	}
	return nil
}

// spectrumWindow keeps the low-frequency quarter of a power spectrum,
// where the bounce fundamental lives, or nil when the run is too short
// to yield one.
func spectrumWindow(ps []float64) []float64 {
	if len(ps)/4 == 0 {
		return nil
	}
	return ps[:len(ps)/4]
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	base, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	fmt.Printf("comparing integrators on %s\n\n", base.Model)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tSTEPS\tTIME\tENERGY DRIFT\tAPEX")

	for _, name := range args {
		cfg := *base
		cfg.Integrator = name

		exp, err := experiment.New(&cfg, nil)
		if err != nil {
			return err
		}

		start := time.Now()
		result, err := exp.Run(context.Background())
		if err != nil {
			return err
		}
		elapsed := time.Since(start)

		fmt.Fprintf(w, "%s\t%d\t%v\t%.3e\t%.4f\n",
			name, result.StepsTaken, elapsed.Round(time.Microsecond),
			result.Metrics["energy_drift"], result.Metrics["apex_height"])
	}
	return w.Flush()
}

func runScenario(cmd *cobra.Command, args []string) error {
	script, err := scenario.Load(args[0])
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

	fmt.Printf("scenario: %s (%d runs)\n", script.Name, len(script.Runs))
	logger.Info("scenario start",
		zap.String("name", script.Name),
		zap.Int("runs", len(script.Runs)),
		zap.Bool("parallel", script.Parallel),
	)

	start := time.Now()
	outcomes, err := scenario.Execute(context.Background(), script, st)
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n\n", time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tID\tAPEX\tDRIFT\tCONTACT")
	for _, o := range outcomes {
		fmt.Fprintf(w, "%s\t%s\t%.4f\t%.3e\t%.1f%%\n",
			o.Run.Name, o.RunID,
			o.Result.Metrics["apex_height"],
			o.Result.Metrics["energy_drift"],
			o.Result.Metrics["contact_fraction"]*100,
		)
	}
	return w.Flush()
}

// parseGrid reads one --grid axis of the form key=lo:hi:n.
func parseGrid(spec string) (string, []float64, error) {
	key, rng, ok := strings.Cut(spec, "=")
	if !ok {
		return "", nil, fmt.Errorf("invalid grid spec: %s (want key=lo:hi:n)", spec)
	}
	parts := strings.Split(rng, ":")
	if len(parts) != 3 {
		return "", nil, fmt.Errorf("invalid grid range: %s (want lo:hi:n)", rng)
	}
	lo, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return "", nil, err
	}
	hi, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return "", nil, err
	}
	n, err := strconv.Atoi(parts[2])
	if err != nil {
		return "", nil, err
	}
	if n < 1 {
		return "", nil, fmt.Errorf("grid needs at least one point: %s", spec)
	}

	values := make([]float64, n)
	if n == 1 {
		values[0] = lo
	} else {
		for i := range values {
			values[i] = lo + (hi-lo)*float64(i)/float64(n-1)
		}
	}
	return key, values, nil
}

func tuneParams(cmd *cobra.Command, args []string) error {
	if len(grids) == 0 {
		return fmt.Errorf("no search axes; pass at least one --grid key=lo:hi:n")
	}

	base, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(grids))
	ranges := make([][]float64, 0, len(grids))
	total := 1
	for _, spec := range grids {
		key, values, err := parseGrid(spec)
		if err != nil {
			return err
		}
		keys = append(keys, key)
		ranges = append(ranges, values)
		total *= len(values)
	}

	fmt.Printf("searching %d grid points for apex %.2f m...\n", total, base.Pump.Target)
	logger.Info("tune start", zap.Strings("axes", keys), zap.Int("points", total))

	start := time.Now()
	search := optim.NewGridSearch(keys, ranges)
	best, err := search.Search(context.Background(), base, optim.TargetApex(base.Pump.Target))
	if err != nil {
		return err
	}

	fmt.Printf("completed %d runs in %v\n\n", best.Runs, time.Since(start))
	fmt.Println("best parameters:")
	names := make([]string, 0, len(best.Params))
	for name := range best.Params {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s = %g\n", name, best.Params[name])
	}
	fmt.Printf("score: %.6f\n", best.Score)
	return nil
}

func snapshotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	series, _, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}
	if series.Len() == 0 {
		return fmt.Errorf("no data to render")
	}

	var svg string
	if frameT >= 0 {
		// Scene frame at the sample closest to the requested time.
		idx := 0
		for i, s := range series.Samples {
			if s.Time <= frameT {
				idx = i
			}
		}
		sample := series.Samples[idx]

		surface := matSurface(series)
		drop := sample.Height
		for _, s := range series.Samples {
			if s.Height > drop {
				drop = s.Height
			}
		}

		scene := viz.NewScene(surface, drop)
		canvas := viz.NewCanvas(70, 22)
		scene.Draw(canvas, sample.Height)
		svg = export.CanvasToSVG(canvas, 4.0)
	} else {
		svg = export.CurveToSVG(series.Times(), series.Heights(), 800, 400, "#00ff88")
	}

	if err := os.WriteFile(outFile, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outFile)
	return nil
}

func benchModels(cmd *cobra.Command, args []string) error {
	base, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	durations := []float64{1.0, 5.0, 10.0}
	dts := []float64{0.0005, 0.001, 0.005}

	fmt.Printf("benchmarking %s\n\n", base.Model)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DURATION\tDT\tSTEPS\tTIME\tSTEPS/SEC")

	for _, dur := range durations {
		for _, step := range dts {
			cfg := *base
			cfg.Duration = dur
			cfg.Dt = step

			exp, err := experiment.New(&cfg, nil)
			if err != nil {
				return err
			}

			start := time.Now()
			result, err := exp.Run(context.Background())
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			stepsPerSec := float64(result.StepsTaken) / elapsed.Seconds()
			fmt.Fprintf(w, "%.1fs\t%.4fs\t%d\t%v\t%.0f\n",
				dur, step, result.StepsTaken, elapsed.Round(time.Microsecond), stepsPerSec)
		}
	}
	return w.Flush()
}
