package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"

	"github.com/san-kum/zntune/internal/analysis"
	"github.com/san-kum/zntune/internal/config"
	"github.com/san-kum/zntune/internal/diagram"
	"github.com/san-kum/zntune/internal/integrators"
	"github.com/san-kum/zntune/internal/response"
	"github.com/san-kum/zntune/internal/server"
	"github.com/san-kum/zntune/internal/storage"
	"github.com/san-kum/zntune/internal/viz"
)

var (
	dataDir    string
	configFile string
	verbose    bool

	equation    string
	inputVar    string
	outputVar   string
	method      string
	preset      string
	integrator  string
	samples     int
	duration    float64
	saveRun     bool
	jsonOut     bool
	plotCurve   bool
	diagramPath string

	addr    string
	outPath string
	force   bool
)

func main() {
	log.SetPrefix("zntune: ")

	rootCmd := &cobra.Command{
		Use:           "zntune",
		Short:         "reaction-curve PID tuning",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log pipeline diagnostics")

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "identify the plant and tune a PID controller",
		Args:  cobra.NoArgs,
		RunE:  runAnalyze,
	}
	analyzeCmd.Flags().StringVar(&equation, "equation", "", "differential equation (recorded, not parsed)")
	analyzeCmd.Flags().StringVar(&inputVar, "input", "u", "input variable name")
	analyzeCmd.Flags().StringVar(&outputVar, "output", "y", "output variable name")
	analyzeCmd.Flags().StringVar(&method, "method", config.DefaultMethod, "tuning method")
	analyzeCmd.Flags().StringVar(&preset, "preset", "", "use preset simulation grid")
	analyzeCmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator ("+strings.Join(integrators.Names(), ", ")+")")
	analyzeCmd.Flags().IntVar(&samples, "samples", config.DefaultSamples, "number of samples")
	analyzeCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "simulation horizon")
	analyzeCmd.Flags().BoolVar(&saveRun, "save", false, "store the run in the data directory")
	analyzeCmd.Flags().BoolVar(&jsonOut, "json", false, "print the run as JSON")
	analyzeCmd.Flags().BoolVar(&plotCurve, "plot", false, "plot the step response")
	analyzeCmd.Flags().StringVar(&diagramPath, "diagram", "", "write the diagram PNG to this file")

	compareCmd := &cobra.Command{
		Use:   "compare [integrator1] [integrator2] ...",
		Short: "compare integrators on the same plant",
		RunE:  compareIntegrators,
	}
	compareCmd.Flags().IntVar(&samples, "samples", config.DefaultSamples, "number of samples")
	compareCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "simulation horizon")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the step response of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	deleteCmd := &cobra.Command{
		Use:   "delete [run_id]",
		Short: "delete a stored run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd)
			if err != nil {
				return err
			}
			return st.Delete(args[0])
		},
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export the step response to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list simulation presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tDURATION\tSAMPLES\tINTEG")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%.1f\t%d\t%s\n", name, p.Duration, p.Samples, p.Integrator)
			}
			return w.Flush()
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage configuration files",
	}
	configInitCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the default configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(args[0]); err == nil && !force {
				return fmt.Errorf("%s exists (use --force to overwrite)", args[0])
			}
			if err := config.Save(args[0], config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}
	configInitCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	configCmd.AddCommand(configInitCmd)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the JSON API",
		Args:  cobra.NoArgs,
		RunE:  serve,
	}
	serveCmd.Flags().StringVar(&addr, "addr", config.DefaultAddr, "listen address")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "interactive terminal form",
		Args:  cobra.NoArgs,
		RunE:  runTUI,
	}

	rootCmd.AddCommand(analyzeCmd, compareCmd, listCmd, showCmd, plotCmd, deleteCmd, exportJSONCmd, exportCSVCmd, presetsCmd, configCmd, serveCmd, tuiCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadConfig layers defaults, the config file, a preset and explicit flags,
// in that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Lookup("preset") != nil && preset != "" {
		if err := cfg.ApplyPreset(preset); err != nil {
			return nil, err
		}
	}
	if flags.Changed("integrator") {
		cfg.Simulation.Integrator = integrator
	}
	if flags.Changed("samples") {
		cfg.Simulation.Samples = samples
	}
	if flags.Changed("time") {
		cfg.Simulation.Duration = duration
	}
	if flags.Changed("method") {
		cfg.Method = method
	}
	if flags.Changed("addr") {
		cfg.Server.Addr = addr
	}
	if flags.Changed("data") || configFile == "" {
		cfg.Storage.Dir = dataDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newAnalyzer(cfg *config.Config, logger *log.Logger) *analysis.Analyzer {
	return analysis.New(
		analysis.WithSimulation(response.Config{
			Duration:   cfg.Simulation.Duration,
			Samples:    cfg.Simulation.Samples,
			Integrator: cfg.Simulation.Integrator,
		}),
		analysis.WithTimeout(cfg.Simulation.Timeout),
		analysis.WithDiagram(diagramOptions(cfg)),
		analysis.WithLogger(logger),
	)
}

func diagramOptions(cfg *config.Config) diagram.Options {
	opts := diagram.DefaultOptions()
	if cfg.Diagram.Width > 0 {
		opts.Width = vgInches(cfg.Diagram.Width)
	}
	if cfg.Diagram.Height > 0 {
		opts.Height = vgInches(cfg.Diagram.Height)
	}
	if cfg.Diagram.DPI > 0 {
		opts.DPI = cfg.Diagram.DPI
	}
	return opts
}

func vgInches(in float64) vg.Length {
	return vg.Length(in) * vg.Inch
}

func openStore(cmd *cobra.Command) (*storage.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return storage.New(cfg.Storage.Dir), nil
}

func pipelineLogger() *log.Logger {
	if verbose {
		return log.Default()
	}
	return log.New(io.Discard, "", 0)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	req := analysis.Request{
		Equation: equation,
		Input:    inputVar,
		Output:   outputVar,
		Method:   cfg.Method,
	}

	run, err := newAnalyzer(cfg, pipelineLogger()).Run(context.Background(), req)
	if err != nil {
		if verbose {
			log.Printf("analyze: %v", err)
		}
		return errors.New(server.FailureMessage)
	}

	if saveRun {
		st := storage.New(cfg.Storage.Dir)
		if err := st.Init(); err != nil {
			return err
		}
		if _, err := st.Save(run); err != nil {
			return err
		}
	}

	if diagramPath != "" {
		img, err := run.Result.DiagramPNG()
		if err != nil {
			return err
		}
		if err := os.WriteFile(diagramPath, img, 0644); err != nil {
			return err
		}
	}

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(run)
	}

	shown := *run
	if !plotCurve {
		shown.Curve = nil
	}
	fmt.Print(viz.Report(viz.DefaultStyles, &shown, 80))
	fmt.Printf("\ncompleted in %v\n", run.Elapsed)
	if saveRun {
		fmt.Printf("run id: %s\n", run.ID)
	}
	if diagramPath != "" {
		fmt.Printf("diagram: %s\n", diagramPath)
	}
	return nil
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	names := args
	if len(names) == 0 {
		names = integrators.Names()
	}

	fmt.Printf("comparing integrators on %s (%d samples over %.1f)\n\n",
		analysis.PlaceholderPlant(), cfg.Simulation.Samples, cfg.Simulation.Duration)
	fmt.Printf("%-8s  %-10s  %-10s  %-10s  %-10s\n", "integ", "L", "T", "Kp", "time_ms")
	fmt.Println(strings.Repeat("-", 56))

	for _, name := range names {
		c := *cfg
		c.Simulation.Integrator = name
		if err := c.Validate(); err != nil {
			fmt.Printf("%-8s  error: %v\n", name, err)
			continue
		}

		run, err := newAnalyzer(&c, pipelineLogger()).Run(context.Background(), analysis.Request{})
		if err != nil {
			fmt.Printf("%-8s  error: %v\n", name, err)
			continue
		}
		res := run.Result
		fmt.Printf("%-8s  %10.6f  %10.6f  %10.6f  %10.2f\n", name, res.L, res.T, res.Kp, float64(run.Elapsed.Microseconds())/1000)
	}

	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tMETHOD\tINTEG\tL\tT\tKP\tKI\tKD")

	for _, run := range runs {
		r := run.Result
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.3f\t%.3f\t%.3f\t%.3f\t%.3f\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Method,
			run.Integrator,
			r.L, r.T, r.Kp, r.Ki, r.Kd,
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	curve, err := st.LoadCurve(args[0])
	if err != nil {
		return err
	}

	run := meta.Run(curve)
	fmt.Print(viz.Report(viz.DefaultStyles, run, 80))
	if meta.Request.Equation != "" {
		fmt.Printf("\nequation: %s (%s → %s)\n", meta.Request.Equation, meta.Request.Input, meta.Request.Output)
	}
	fmt.Printf("grid: %d samples over %.1f, %s\n", meta.Samples, meta.Duration, meta.Integrator)
	if img, err := meta.Result.DiagramPNG(); err == nil && img != nil {
		fmt.Printf("diagram: %d bytes PNG\n", len(img))
	}
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	curve, err := st.LoadCurve(args[0])
	if err != nil {
		return err
	}
	if curve.Len() == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("samples: %d\n\n", curve.Len())
	fmt.Println(viz.CurvePlot(curve, 80, 15, "y(t), unit step"))
	fmt.Println()
	fmt.Printf("L = %.3f  T = %.3f\n", meta.Result.L, meta.Result.T)
	return nil
}

func output() (io.Writer, func() error, error) {
	if outPath == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(outPath)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	curve, err := st.LoadCurve(args[0])
	if err != nil {
		return err
	}

	w, closeFn, err := output()
	if err != nil {
		return err
	}
	if err := storage.ExportJSON(w, meta, curve); err != nil {
		_ = closeFn()
		return err
	}
	return closeFn()
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	curve, err := st.LoadCurve(args[0])
	if err != nil {
		return err
	}
	if curve.Len() == 0 {
		return fmt.Errorf("no data to export")
	}

	w, closeFn, err := output()
	if err != nil {
		return err
	}
	if err := storage.WriteCurveCSV(w, curve); err != nil {
		_ = closeFn()
		return err
	}
	return closeFn()
}

func serve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(cfg.Storage.Dir)
	if err := st.Init(); err != nil {
		return err
	}

	srv := server.NewServer(newAnalyzer(cfg, log.Default()), st, log.Default())
	defer srv.Close()

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	log.Printf("listening on %s (runs in %s)", cfg.Server.Addr, cfg.Storage.Dir)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(cfg.Storage.Dir)
	if err := st.Init(); err != nil {
		return err
	}

	return viz.RunApp(newAnalyzer(cfg, pipelineLogger()), func(run *analysis.Run) error {
		_, err := st.Save(run)
		return err
	})
}
