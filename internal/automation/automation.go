// Package automation runs scripted sequences of simulations and
// parameter sweeps over a config field.
package automation

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/experiment"
	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/san-kum/orbitsim/internal/sim"
)

// Scenario defines a scripted simulation sequence
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep runs one preset or config file, with optional overrides
// applied through config.SetParam.
type ScenarioStep struct {
	Preset string             `yaml:"preset"`
	Config string             `yaml:"config"`
	Params map[string]float64 `yaml:"params"`
	SaveAs string             `yaml:"save_as"`
}

// StepResult pairs a finished run with the config that produced it.
type StepResult struct {
	Config  *config.Config
	Initial []physics.BodyState // bodies before the first step
	Result  *sim.Result
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s has no steps: %w", path, dynamo.ErrParameterBounds)
	}
	return &scenario, nil
}

// StepConfig resolves the config of one scenario step.
func StepConfig(step ScenarioStep) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case step.Preset != "":
		cfg = config.GetPreset(step.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", step.Preset)
		}
	case step.Config != "":
		loaded, err := config.Load(step.Config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	default:
		return nil, fmt.Errorf("step names neither preset nor config: %w", dynamo.ErrParameterBounds)
	}

	for name, v := range step.Params {
		if err := cfg.SetParam(name, v); err != nil {
			return nil, err
		}
	}
	if step.SaveAs != "" {
		cfg.Name = step.SaveAs
	}
	return cfg, nil
}

// RunScenario executes all steps in order. done, when set, is called after
// each step, e.g. to store the run; its error stops the scenario.
func RunScenario(ctx context.Context, scenario *Scenario, done func(i int, r StepResult) error) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := StepConfig(step)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		exp, err := experiment.New(cfg)
		if err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}
		initial := exp.Registry().States()

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		r := StepResult{Config: exp.Config(), Result: result, Initial: initial}
		results = append(results, r)
		if done != nil {
			if err := done(i, r); err != nil {
				return results, fmt.Errorf("step %d: %w", i+1, err)
			}
		}
	}

	return results, nil
}

// ParameterSweep runs a config at evenly spaced values of one parameter.
type ParameterSweep struct {
	Base      *config.Config
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
}

// SweepResult holds results from a parameter sweep
type SweepResult struct {
	ParamValue float64
	StepsTaken int
	Metrics    map[string]float64
	Errors     []error
}

func RunSweep(ctx context.Context, sweep *ParameterSweep) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("sweep steps %d: %w", sweep.NumSteps, dynamo.ErrParameterBounds)
	}

	paramStep := 0.0
	if sweep.NumSteps > 1 {
		paramStep = (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep

		cfg := sweep.Base.Clone()
		if err := cfg.SetParam(sweep.ParamName, paramVal); err != nil {
			return nil, err
		}

		exp, err := experiment.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sweep.ParamName, paramVal, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return nil, err
		}

		results = append(results, SweepResult{
			ParamValue: paramVal,
			StepsTaken: result.StepsTaken,
			Metrics:    result.Metrics,
			Errors:     result.Errors,
		})
	}

	return results, nil
}
