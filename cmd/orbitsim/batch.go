package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/orbitsim/internal/automation"
	"github.com/san-kum/orbitsim/internal/optim"
	"github.com/san-kum/orbitsim/internal/storage"
)

func runScript(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("scenario %s: %d steps\n", scenario.Name, len(scenario.Steps))
	_, err = automation.RunScenario(ctx, scenario, func(i int, r automation.StepResult) error {
		for _, e := range r.Result.Errors {
			logger.Printf("step %d integrity: %v", i+1, e)
		}
		meta := storage.NewMetadata(r.Config, storage.BodiesOf(r.Initial), r.Result)
		runID, err := st.Save(meta, r.Result)
		if err != nil {
			return err
		}
		fmt.Printf("  [%d] %s -> %s (%d steps)\n", i+1, r.Config.Name, runID, r.Result.StepsTaken)
		return nil
	})
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := automation.RunSweep(ctx, &automation.ParameterSweep{
		Base:      cfg,
		ParamName: sweepParam,
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepN,
	})
	if err != nil {
		return err
	}

	var names []string
	if len(results) > 0 {
		for name := range results[0].Metrics {
			names = append(names, name)
		}
		sort.Strings(names)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tSTEPS\t%s\tERRORS\n", strings.ToUpper(sweepParam), strings.ToUpper(strings.Join(names, "\t")))
	for _, r := range results {
		fmt.Fprintf(w, "%g\t%d", r.ParamValue, r.StepsTaken)
		for _, name := range names {
			fmt.Fprintf(w, "\t%.6f", r.Metrics[name])
		}
		fmt.Fprintf(w, "\t%d\n", len(r.Errors))
	}
	return w.Flush()
}

// parseGrid reads flags of the form name=v1,v2,v3.
func parseGrid(specs []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(specs))
	ranges := make([][]float64, 0, len(specs))
	for _, s := range specs {
		name, list, ok := strings.Cut(s, "=")
		if !ok || name == "" || list == "" {
			return nil, nil, fmt.Errorf("grid %q: want name=v1,v2", s)
		}
		var values []float64
		for _, field := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("grid %q: %w", s, err)
			}
			values = append(values, v)
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}
	return names, ranges, nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}
	names, ranges, err := parseGrid(searchGrid)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return fmt.Errorf("at least one --grid is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	params, best, err := optim.NewGridSearch(names, ranges).Search(ctx, optim.BuildFrom(cfg), searchMetric)
	if err != nil {
		return err
	}

	fmt.Printf("best %s: %.6f\n", searchMetric, best)
	for _, name := range names {
		fmt.Printf("  %s = %g\n", name, params[name])
	}
	return nil
}
