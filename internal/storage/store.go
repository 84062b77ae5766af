package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/san-kum/actuate/internal/experiment"
)

const (
	metadataFile = "metadata.json"
	sweepFile    = "sweep.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return errors.Wrap(os.MkdirAll(s.baseDir, 0755), "create data directory")
}

type RunMetadata struct {
	ID           string             `json:"id"`
	Articulation string             `json:"articulation"`
	Group        string             `json:"group"`
	Model        string             `json:"model"`
	Axis         string             `json:"axis"`
	Timestamp    time.Time          `json:"timestamp"`
	Joints       []string           `json:"joints"`
	Steps        int                `json:"steps"`
	Metrics      map[string]float64 `json:"metrics"`
}

// Save writes result under a fresh run id and returns it.
func (s *Store) Save(articulation string, result *experiment.Result) (string, error) {
	runID := fmt.Sprintf("%s_%s", runPrefix(result.Group), uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", errors.Wrapf(err, "create run %s", runID)
	}

	meta := RunMetadata{
		ID:           runID,
		Articulation: articulation,
		Group:        result.Group,
		Model:        result.Model,
		Axis:         result.Axis,
		Timestamp:    time.Now(),
		Joints:       result.Joints,
		Steps:        len(result.Inputs),
		Metrics:      result.Metrics,
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeSweep(filepath.Join(runDir, sweepFile), result); err != nil {
		return "", err
	}
	return runID, nil
}

// runPrefix maps a group name onto a single path element.
func runPrefix(group string) string {
	prefix := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '_' || r == '-' || r == '.':
			return r
		}
		return '_'
	}, group)
	if strings.Trim(prefix, ".") == "" {
		return "run"
	}
	return prefix
}

func writeJSON(path string, v interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create metadata")
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		f.Close()
		return errors.Wrap(err, "encode metadata")
	}
	return errors.Wrap(f.Close(), "close metadata")
}

func writeSweep(path string, result *experiment.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create sweep file")
	}

	if err := writeSweepRows(csv.NewWriter(f), result); err != nil {
		f.Close()
		return err
	}
	return errors.Wrap(f.Close(), "close sweep file")
}

func writeSweepRows(w *csv.Writer, result *experiment.Result) error {
	header := []string{result.Axis}
	for _, j := range result.Joints {
		header = append(header, "computed_"+j)
	}
	for _, j := range result.Joints {
		header = append(header, "applied_"+j)
	}
	if err := w.Write(header); err != nil {
		return errors.Wrap(err, "write sweep header")
	}

	for i, x := range result.Inputs {
		row := []string{strconv.FormatFloat(x, 'f', 6, 64)}
		for _, v := range result.Computed[i] {
			row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
		}
		for _, v := range result.Applied[i] {
			row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return errors.Wrapf(err, "write sweep row %d", i)
		}
	}

	w.Flush()
	return errors.Wrap(w.Error(), "flush sweep file")
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, errors.Wrap(err, "list runs")
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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, errors.Wrapf(err, "load run %s", runID)
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, errors.Wrapf(err, "decode run %s", runID)
	}
	return &meta, nil
}

// LoadSweep reads back the sweep of a run. Metrics come from metadata.
func (s *Store) LoadSweep(runID string) (*experiment.Result, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filepath.Join(s.baseDir, runID, sweepFile))
	if err != nil {
		return nil, errors.Wrapf(err, "open sweep %s", runID)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "read sweep %s", runID)
	}

	n := len(meta.Joints)
	result := &experiment.Result{
		Group:   meta.Group,
		Model:   meta.Model,
		Axis:    meta.Axis,
		Joints:  meta.Joints,
		Metrics: meta.Metrics,
	}
	if len(records) < 2 {
		return result, nil
	}
	if got := len(records[0]); got != 1+2*n {
		return nil, errors.Errorf("sweep %s has %d columns, want %d (%s)", runID, got, 1+2*n, strings.Join(records[0], ","))
	}

	for i, record := range records[1:] {
		vals := make([]float64, len(record))
		for k, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "sweep %s row %d", runID, i)
			}
			vals[k] = v
		}
		result.Inputs = append(result.Inputs, vals[0])
		result.Computed = append(result.Computed, vals[1:1+n])
		result.Applied = append(result.Applied, vals[1+n:])
	}
	return result, nil
}
