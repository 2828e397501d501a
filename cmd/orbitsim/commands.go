package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/experiment"
	"github.com/san-kum/orbitsim/internal/export"
	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/san-kum/orbitsim/internal/sim"
	"github.com/san-kum/orbitsim/internal/storage"
	"github.com/san-kum/orbitsim/internal/viz"
)

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp, err := experiment.New(cfg)
	if err != nil {
		return err
	}
	bodies := storage.BodiesOf(exp.Registry().States())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %s: %d bodies, %d steps...\n", cfg.Name, exp.Registry().Len(), cfg.MaxSteps)
	start := time.Now()

	result, err := exp.Run(ctx)
	if err != nil && result == nil {
		return err
	}
	if err != nil {
		logger.Printf("interrupted after %d steps: %v", result.StepsTaken, err)
	}
	for _, e := range result.Errors {
		logger.Printf("integrity: %v", e)
	}

	elapsed := time.Since(start)

	runID, err := st.Save(storage.NewMetadata(cfg, bodies, result), result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d, frames: %d\n", result.StepsTaken, len(result.Frames))
	printMetrics(os.Stdout, result.Metrics)
	return nil
}

func printMetrics(w io.Writer, metrics map[string]float64) {
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(w, "\nmetrics:")
	for _, name := range names {
		fmt.Fprintf(w, "  %s: %.6f\n", name, metrics[name])
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}
	exp, err := experiment.New(cfg)
	if err != nil {
		return err
	}
	viz.SetTheme(theme)
	return viz.RunLive(exp)
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
	fmt.Fprintln(w, "ID\tNAME\tTIME\tBODIES\tSTEPS\tG\tDT\tSEED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%g\t%g\t%d\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			len(run.Bodies),
			run.Steps,
			run.G,
			run.Dt,
			run.Seed,
		)
	}

	return w.Flush()
}

// frameStates rebuilds the states a stored frame needs for energy.
func frameStates(f sim.Frame, bodies []storage.BodyInfo) []physics.BodyState {
	states := make([]physics.BodyState, len(f.Bodies))
	for i, b := range f.Bodies {
		states[i] = physics.BodyState{Index: i, Position: b.Position, Velocity: b.Velocity}
		if i < len(bodies) {
			states[i].Mass = bodies[i].Mass
			states[i].Radius = physics.Radius(bodies[i].Mass)
			states[i].Static = bodies[i].Static
		}
	}
	return states
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}

	if len(frames) < 2 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("name: %s\n", meta.Name)
	fmt.Printf("frames: %d\n\n", len(frames))

	const maxBodies = 4
	n := min(len(frames[0].Bodies), maxBodies)
	for i := 0; i < n; i++ {
		if i < len(meta.Bodies) && meta.Bodies[i].Static {
			continue
		}
		xs := make([]float64, len(frames))
		ys := make([]float64, len(frames))
		for k, f := range frames {
			xs[k] = f.Bodies[i].Position.X
			ys[k] = f.Bodies[i].Position.Y
		}
		graph := asciigraph.PlotMany([][]float64{xs, ys},
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.SeriesColors(asciigraph.Red, asciigraph.Blue),
			asciigraph.Caption(fmt.Sprintf("body %d x (red) and y (blue)", i)),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	stepCfg := meta.StepConfig()
	energy := make([]float64, len(frames))
	for k, f := range frames {
		energy[k] = stepCfg.Energy(frameStates(f, meta.Bodies))
	}
	fmt.Println(asciigraph.Plot(energy,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("total energy"),
	))
	return nil
}

// output returns the --out file, or stdout when unset.
func output() (io.WriteCloser, error) {
	if outFile == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(outFile)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}

	w, err := output()
	if err != nil {
		return err
	}
	defer w.Close()
	return storage.ExportJSON(w, *meta, frames)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}

	w, err := output()
	if err != nil {
		return err
	}
	defer w.Close()
	return storage.ExportCSV(w, frames)
}

func renderSVG(cmd *cobra.Command, args []string) error {
	var svg string

	if fromRun != "" {
		st := storage.New(dataDir)
		meta, err := st.Load(fromRun)
		if err != nil {
			return err
		}
		frames, err := st.LoadFrames(fromRun)
		if err != nil {
			return err
		}
		colors := make([]string, len(meta.Bodies))
		for i, b := range meta.Bodies {
			colors[i] = b.Color
		}
		svg = export.TrajectoriesSVG(frames, colors, meta.Width, meta.Height)
	} else {
		cfg, err := loadScenario(cmd, args)
		if err != nil {
			return err
		}
		exp, err := experiment.New(cfg)
		if err != nil {
			return err
		}
		if _, err := exp.Run(context.Background()); err != nil {
			return err
		}

		states := exp.Registry().States()
		if canvasSVG {
			c := viz.NewCanvas(80, 40)
			viz.DrawScene(c, states, viz.Fit(c, cfg.Width, cfg.Height))
			svg = export.CanvasToSVG(c, 4)
		} else {
			svg = export.FrameSVG(states, cfg.Width, cfg.Height)
		}
	}

	if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", svgOut)
	return nil
}

func showPresets(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		cfg := config.GetPreset(args[0])
		if cfg == nil {
			return fmt.Errorf("unknown preset: %s", args[0])
		}
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(cfg)
	}

	fmt.Println("presets:")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		fmt.Printf("  %-10s %d bodies", name, len(cfg.Bodies)+cfg.Generate.Count)
		if cfg.Generate.Count > 0 {
			fmt.Printf(" (%d generated)", cfg.Generate.Count)
		}
		fmt.Println()
	}
	return nil
}

func benchStepper(cmd *cobra.Command, args []string) error {
	if benchSteps < 1 {
		return fmt.Errorf("steps must be positive, got %d", benchSteps)
	}

	fmt.Printf("benchmarking %d steps\n\n", benchSteps)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODIES\tMODE\tTIME\tSTEPS/SEC")

	for _, n := range benchBodies {
		cfg := config.GetPreset("swarm")
		cfg.Generate.Count = n
		cfg.Seed = 42

		for _, par := range []bool{false, true} {
			cfg.Parallel = par
			reg, err := experiment.BuildRegistry(cfg, cfg.Seed)
			if err != nil {
				return err
			}
			stepper, err := physics.NewStepper(cfg.StepConfig())
			if err != nil {
				return err
			}

			start := time.Now()
			for i := 0; i < benchSteps; i++ {
				stepper.Step(reg)
			}
			elapsed := time.Since(start)

			mode := "serial"
			if par {
				mode = "parallel"
			}
			fmt.Fprintf(w, "%d\t%s\t%v\t%.0f\n", reg.Len(), mode, elapsed, float64(benchSteps)/elapsed.Seconds())
		}
	}

	return w.Flush()
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}
	if numRuns < 1 {
		return fmt.Errorf("runs must be positive, got %d", numRuns)
	}

	exp, err := experiment.New(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("running %s for %d seeds from %d...\n\n", cfg.Name, numRuns, cfg.Seed)
	results, err := exp.Ensemble(context.Background(), numRuns)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tSTEPS\tENERGY_DRIFT\tMOMENTUM_DRIFT\tCONTAINMENT")
	for i, r := range results {
		fmt.Fprintf(w, "%d\t%d\t%.3e\t%.3e\t%.3f\n",
			cfg.Seed+int64(i),
			r.StepsTaken,
			r.Metrics["energy_drift"],
			r.Metrics["momentum_drift"],
			r.Metrics["containment"],
		)
		for _, e := range r.Errors {
			logger.Printf("seed %d: %v", cfg.Seed+int64(i), e)
		}
	}
	return w.Flush()
}
