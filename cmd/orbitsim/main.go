package main

import (
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/orbitsim/internal/viz"
)

var (
	dataDir      string
	configFile   string
	preset       string
	steps        int
	dt           float64
	gravity      float64
	drift        float64
	restitution  float64
	minDistance  float64
	contactClamp bool
	trailLength  int
	recordEvery  int
	parallel     bool
	seed         int64
	colorMode    string
	generate     int
	frameRate    int
	theme        string
	outFile      string
	svgOut       string
	fromRun      string
	canvasSVG    bool
	numRuns      int
	benchSteps   int
	benchBodies  []int
	perturb      float64
	orbitBody    int

	sweepParam   string
	sweepMin     float64
	sweepMax     float64
	sweepN       int
	searchGrid   []string
	searchMetric string
)

var logger = log.New(os.Stderr, "orbitsim: ", 0)

// addScenarioFlags registers the flags that override a preset or config
// file. They only take effect when set explicitly.
func addScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().IntVar(&steps, "steps", 0, "number of steps")
	cmd.Flags().Float64Var(&dt, "dt", 0, "velocity kick per step")
	cmd.Flags().Float64Var(&gravity, "g", 0, "gravitational constant")
	cmd.Flags().Float64Var(&drift, "drift", 0, "velocity to position scale")
	cmd.Flags().Float64Var(&restitution, "restitution", 0, "wall restitution in (-1, 0)")
	cmd.Flags().Float64Var(&minDistance, "min-distance", 0, "force distance clamp")
	cmd.Flags().BoolVar(&contactClamp, "contact-clamp", true, "floor force distances at the sum of the radii")
	cmd.Flags().IntVar(&trailLength, "trail", 0, "trail length")
	cmd.Flags().IntVar(&recordEvery, "record-every", 0, "record a frame every n steps")
	cmd.Flags().BoolVar(&parallel, "parallel", false, "parallel force accumulation")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed")
	cmd.Flags().StringVar(&colorMode, "color-mode", "", "fixed, random or gradient")
	cmd.Flags().IntVar(&generate, "generate", 0, "number of random bodies to add")
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "orbitsim",
		Short: "n-body gravity sandbox",
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".orbitsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run simulation and store the result",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addScenarioFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "run simulation with live visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addScenarioFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 0, "frame rate")
	liveCmd.Flags().StringVar(&theme, "theme", "night", "panel theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot trajectories and energy of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run trajectories to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	svgCmd := &cobra.Command{
		Use:   "svg [preset]",
		Short: "render the final frame of a simulation as SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE:  renderSVG,
	}
	addScenarioFlags(svgCmd)
	svgCmd.Flags().StringVarP(&svgOut, "out", "o", "orbitsim.svg", "output file")
	svgCmd.Flags().StringVar(&fromRun, "run", "", "draw the stored trajectories of a run instead")
	svgCmd.Flags().BoolVar(&canvasSVG, "braille", false, "render the braille canvas instead of vectors")

	presetsCmd := &cobra.Command{
		Use:   "presets [name]",
		Short: "list presets, or print one as yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE:  showPresets,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark serial and parallel stepping",
		RunE:  benchStepper,
	}
	benchCmd.Flags().IntVar(&benchSteps, "steps", 200, "steps per measurement")
	benchCmd.Flags().IntSliceVar(&benchBodies, "bodies", []int{16, 64, 256}, "body counts")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble [preset]",
		Short: "run a preset for consecutive seeds",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runEnsemble,
	}
	addScenarioFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&numRuns, "runs", 8, "number of runs")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "orbital periods and path of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&orbitBody, "body", 0, "body whose path is drawn")

	lyapunovCmd := &cobra.Command{
		Use:   "lyapunov [preset]",
		Short: "estimate sensitivity to initial conditions",
		Args:  cobra.MaximumNArgs(1),
		RunE:  estimateLyapunov,
	}
	addScenarioFlags(lyapunovCmd)
	lyapunovCmd.Flags().Float64Var(&perturb, "perturb", 1e-6, "initial x offset of the first moving body")

	scriptCmd := &cobra.Command{
		Use:   "script [file]",
		Short: "run a yaml sequence of presets and store each run",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [preset]",
		Short: "run a preset over a range of one parameter",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	addScenarioFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "g", "parameter path, e.g. dt or bodies[0].vx")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.005, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 0.02, "last value")
	sweepCmd.Flags().IntVar(&sweepN, "n", 4, "number of values")

	searchCmd := &cobra.Command{
		Use:   "search [preset]",
		Short: "grid search parameters for the lowest metric",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSearch,
	}
	addScenarioFlags(searchCmd)
	searchCmd.Flags().StringArrayVar(&searchGrid, "grid", nil, "name=v1,v2,... (repeatable)")
	searchCmd.Flags().StringVar(&searchMetric, "metric", "energy_drift", "metric to minimize")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, analyzeCmd, exportJSONCmd, exportCSVCmd, svgCmd, presetsCmd, benchCmd, ensembleCmd, lyapunovCmd, scriptCmd, sweepCmd, searchCmd)

	if err := rootCmd.Execute(); err != nil {
		logger.Println(err)
		os.Exit(1)
	}
}
