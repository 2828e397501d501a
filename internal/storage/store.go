package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/san-kum/orbitsim/internal/sim"
)

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "trajectories.csv"
)

var trajectoryHeader = []string{"step", "body", "x", "y", "vx", "vy"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// BodyInfo is the per-body part of a run that does not change with time.
type BodyInfo struct {
	Mass       float64 `json:"mass"`
	Static     bool    `json:"static,omitempty"`
	Color      string  `json:"color"`
	TrailColor string  `json:"trail_color"`
}

func BodiesOf(states []physics.BodyState) []BodyInfo {
	out := make([]BodyInfo, len(states))
	for i, st := range states {
		out[i] = BodyInfo{
			Mass:       st.Mass,
			Static:     st.Static,
			Color:      st.Color,
			TrailColor: st.TrailColor,
		}
	}
	return out
}

type RunMetadata struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Timestamp    time.Time          `json:"timestamp"`
	Seed         int64              `json:"seed"`
	Width        float64            `json:"width"`
	Height       float64            `json:"height"`
	Margin       float64            `json:"margin"`
	G            float64            `json:"g"`
	Dt           float64            `json:"dt"`
	Drift        float64            `json:"drift"`
	Restitution  float64            `json:"restitution"`
	MinDistance  float64            `json:"min_distance"`
	ContactClamp bool               `json:"contact_clamp"`
	Steps        int                `json:"steps"`
	RecordEvery  int                `json:"record_every"`
	Frames       int                `json:"frames"`
	Bodies       []BodyInfo         `json:"bodies"`
	Metrics      map[string]float64 `json:"metrics"`
}

// NewMetadata describes a finished run of cfg. bodies comes from the
// registry the run advanced, so colors are the resolved ones.
func NewMetadata(cfg *config.Config, bodies []BodyInfo, result *sim.Result) RunMetadata {
	return RunMetadata{
		Name:         cfg.Name,
		Timestamp:    time.Now(),
		Seed:         cfg.Seed,
		Width:        cfg.Width,
		Height:       cfg.Height,
		Margin:       cfg.Margin,
		G:            cfg.G,
		Dt:           cfg.Dt,
		Drift:        cfg.Drift,
		Restitution:  cfg.Restitution,
		MinDistance:  cfg.MinDistance,
		ContactClamp: cfg.ContactClamp,
		Steps:        result.StepsTaken,
		RecordEvery:  cfg.RecordEvery,
		Frames:       len(result.Frames),
		Bodies:       bodies,
		Metrics:      result.Metrics,
	}
}

// StepConfig returns the integrator constants the run used.
func (m RunMetadata) StepConfig() physics.StepConfig {
	return physics.StepConfig{
		G:            m.G,
		Dt:           m.Dt,
		Drift:        m.Drift,
		Restitution:  m.Restitution,
		MinDistance:  m.MinDistance,
		ContactClamp: m.ContactClamp,
		Domain:       physics.Domain{Width: m.Width, Height: m.Height, Margin: m.Margin},
	}
}

// Save writes meta and the recorded frames under a new run directory
// named <name>_<unix>, suffixed when that name is taken.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	base := fmt.Sprintf("%s_%d", meta.Name, meta.Timestamp.Unix())
	runID := base
	for n := 2; ; n++ {
		err := os.Mkdir(filepath.Join(s.baseDir, runID), 0755)
		if err == nil {
			break
		}
		if !errors.Is(err, os.ErrExist) {
			return "", err
		}
		runID = fmt.Sprintf("%s_%d", base, n)
	}
	runDir := filepath.Join(s.baseDir, runID)
	meta.ID = runID

	err := writeFile(filepath.Join(runDir, metadataFile), func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	})
	if err == nil {
		err = writeFile(filepath.Join(runDir, trajectoryFile), func(w io.Writer) error {
			return WriteTrajectories(w, result.Frames)
		})
	}
	if err != nil {
		// a partial run would be skipped by List forever
		os.RemoveAll(runDir)
		return "", fmt.Errorf("save %s: %w", runID, err)
	}
	return runID, nil
}

// writeFile creates path and fills it with write, reporting the close
// error when the write itself succeeded.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteTrajectories writes one row per body per frame.
func WriteTrajectories(out io.Writer, frames []sim.Frame) error {
	w := csv.NewWriter(out)
	if err := w.Write(trajectoryHeader); err != nil {
		return err
	}
	for _, f := range frames {
		for i, b := range f.Bodies {
			row := []string{
				strconv.Itoa(f.Step),
				strconv.Itoa(i),
				formatFloat(b.Position.X),
				formatFloat(b.Position.Y),
				formatFloat(b.Velocity.X),
				formatFloat(b.Velocity.Y),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// List returns the metadata of every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadFrames reads the recorded frames of a run back.
func (s *Store) LoadFrames(runID string) ([]sim.Frame, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, trajectoryFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadTrajectories(file)
}

// ReadTrajectories parses the output of WriteTrajectories. Rows must be
// grouped by step with bodies in order.
func ReadTrajectories(in io.Reader) ([]sim.Frame, error) {
	r := csv.NewReader(in)
	r.FieldsPerRecord = len(trajectoryHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []sim.Frame{}, nil
	}

	frames := make([]sim.Frame, 0)
	for line, record := range records[1:] {
		step, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: step: %w", line+2, err)
		}
		body, err := strconv.Atoi(record[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: body: %w", line+2, err)
		}

		var vals [4]float64
		for k := range vals {
			vals[k], err = strconv.ParseFloat(record[k+2], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %s: %w", line+2, trajectoryHeader[k+2], err)
			}
		}

		if len(frames) == 0 || frames[len(frames)-1].Step != step {
			frames = append(frames, sim.Frame{Step: step})
		}
		f := &frames[len(frames)-1]
		if body != len(f.Bodies) {
			return nil, fmt.Errorf("line %d: body %d out of order: %w", line+2, body, dynamo.ErrInvalidState)
		}
		f.Bodies = append(f.Bodies, sim.Sample{
			Position: dynamo.Vec2{X: vals[0], Y: vals[1]},
			Velocity: dynamo.Vec2{X: vals[2], Y: vals[3]},
		})
	}
	return frames, nil
}
