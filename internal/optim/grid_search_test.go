package optim

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/experiment"
)

func TestGridSearchVisitsEveryPoint(t *testing.T) {
	base := config.GetPreset("orbit")
	base.MaxSteps = 5

	var visited []map[string]float64
	build := func(params map[string]float64) (*experiment.Experiment, error) {
		visited = append(visited, params)
		return BuildFrom(base)(params)
	}

	gs := NewGridSearch([]string{"g", "dt"}, [][]float64{{0.005, 0.01}, {40, 80, 120}})
	params, _, err := gs.Search(context.Background(), build, "energy_drift")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(visited) != 6 {
		t.Errorf("expected 6 grid points, got %d", len(visited))
	}
	if _, ok := params["g"]; !ok {
		t.Errorf("best params missing g: %v", params)
	}
	if _, ok := params["dt"]; !ok {
		t.Errorf("best params missing dt: %v", params)
	}
}

func TestGridSearchPicksMinimum(t *testing.T) {
	base := config.GetPreset("orbit")
	base.MaxSteps = 50

	// with no gravity the moving bodies coast and momentum never changes
	gs := NewGridSearch([]string{"g"}, [][]float64{{0.02, 0, 0.01}})
	params, best, err := gs.Search(context.Background(), BuildFrom(base), "momentum_drift")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if params["g"] != 0 || best != 0 {
		t.Errorf("expected g=0 with zero drift, got %v (%v)", params, best)
	}
}

func TestGridSearchSkipsInvalidPoints(t *testing.T) {
	base := config.GetPreset("orbit")
	base.MaxSteps = 5

	gs := NewGridSearch([]string{"dt"}, [][]float64{{-1, 80}})
	params, _, err := gs.Search(context.Background(), BuildFrom(base), "energy_drift")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if params["dt"] != 80 {
		t.Errorf("expected the valid point, got %v", params)
	}
}

func TestGridSearchErrors(t *testing.T) {
	base := config.GetPreset("orbit")
	base.MaxSteps = 5

	if _, _, err := NewGridSearch([]string{"g"}, nil).Search(context.Background(), BuildFrom(base), "energy_drift"); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("mismatched grid: expected ErrParameterBounds, got %v", err)
	}
	if _, _, err := NewGridSearch([]string{"g"}, [][]float64{{0.01}}).Search(context.Background(), BuildFrom(base), "nope"); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("unknown metric: expected ErrParameterBounds, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := NewGridSearch([]string{"g"}, [][]float64{{0.01}}).Search(ctx, BuildFrom(base), "energy_drift"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
