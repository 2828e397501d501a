package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/san-kum/orbitsim/internal/analysis"
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/experiment"
	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/san-kum/orbitsim/internal/storage"
)

func analyzeRun(cmd *cobra.Command, args []string) error {
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
	if len(frames) < 4 {
		return fmt.Errorf("need at least 4 frames, run has %d", len(frames))
	}

	fmt.Printf("orbit analysis: %s\n", meta.ID)
	fmt.Printf("name: %s\n\n", meta.Name)

	for i := range frames[0].Bodies {
		if i < len(meta.Bodies) && meta.Bodies[i].Static {
			fmt.Printf("body %d: fixed\n", i)
			continue
		}
		xs := make([]float64, len(frames))
		for k, f := range frames {
			xs[k] = f.Bodies[i].Position.X
		}
		if period, ok := analysis.DominantPeriod(xs, float64(meta.RecordEvery)); ok {
			fmt.Printf("body %d: period %.1f steps\n", i, period)
		} else {
			fmt.Printf("body %d: no periodic motion\n", i)
		}
	}

	if orbitBody < 0 || orbitBody >= len(frames[0].Bodies) {
		return fmt.Errorf("no body %d in run", orbitBody)
	}
	path := make([]dynamo.Vec2, len(frames))
	for k, f := range frames {
		path[k] = f.Bodies[orbitBody].Position
	}
	fmt.Printf("\npath of body %d (o = start, ● = end):\n\n", orbitBody)
	fmt.Print(analysis.OrbitToASCII(path, 60, 24))
	return nil
}

func estimateLyapunov(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}

	moving := -1
	for i, b := range cfg.Bodies {
		if !b.Static {
			moving = i
			break
		}
	}
	if moving < 0 {
		return fmt.Errorf("%s lists no moving body to perturb", cfg.Name)
	}

	shifted := cfg.Clone()
	shifted.Bodies[moving].X += perturb

	ref, err := experiment.BuildRegistry(cfg, cfg.Seed)
	if err != nil {
		return err
	}
	perturbed, err := experiment.BuildRegistry(shifted, cfg.Seed)
	if err != nil {
		return err
	}
	stepper, err := physics.NewStepper(cfg.StepConfig())
	if err != nil {
		return err
	}

	saturate := min(cfg.Width, cfg.Height) / 10
	lambda, err := analysis.LyapunovExponent(ref, perturbed, stepper, cfg.MaxSteps, saturate)
	if err != nil {
		return err
	}

	fmt.Printf("%s: perturbed body %d by %g\n", cfg.Name, moving, perturb)
	fmt.Printf("lyapunov exponent: %.6f per step\n", lambda)
	if lambda > 0 {
		fmt.Printf("e-folding time: %.1f steps\n", 1/lambda)
	}
	return nil
}
