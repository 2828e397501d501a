package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/orbitsim/internal/sim"
)

type ExportData struct {
	Run    RunMetadata `json:"run"`
	Frames []sim.Frame `json:"frames"`
}

// ExportJSON writes a run and its frames as a single JSON document.
func ExportJSON(w io.Writer, meta RunMetadata, frames []sim.Frame) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportData{Run: meta, Frames: frames})
}

// ExportCSV writes frames in the trajectories.csv layout.
func ExportCSV(w io.Writer, frames []sim.Frame) error {
	return WriteTrajectories(w, frames)
}
