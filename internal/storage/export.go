package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/san-kum/actuate/internal/experiment"
)

type ExportData struct {
	ID           string             `json:"id"`
	Articulation string             `json:"articulation"`
	Group        string             `json:"group"`
	Model        string             `json:"model"`
	Axis         string             `json:"axis"`
	Joints       []string           `json:"joints"`
	Steps        int                `json:"steps"`
	Inputs       []float64          `json:"inputs"`
	Computed     [][]float64        `json:"computed"`
	Applied      [][]float64        `json:"applied"`
	Metrics      map[string]float64 `json:"metrics"`
}

func newExportData(meta *RunMetadata, result *experiment.Result) ExportData {
	return ExportData{
		ID:           meta.ID,
		Articulation: meta.Articulation,
		Group:        result.Group,
		Model:        result.Model,
		Axis:         result.Axis,
		Joints:       result.Joints,
		Steps:        len(result.Inputs),
		Inputs:       result.Inputs,
		Computed:     result.Computed,
		Applied:      result.Applied,
		Metrics:      result.Metrics,
	}
}

// ExportJSON writes a run and its sweep to path as one JSON document.
func (s *Store) ExportJSON(path, runID string) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create export file")
	}
	defer file.Close()
	return s.WriteJSON(file, runID)
}

func (s *Store) WriteJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	result, err := s.LoadSweep(runID)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return errors.Wrapf(encoder.Encode(newExportData(meta, result)), "export run %s", runID)
}
