package storage

import (
	"encoding/base64"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/zntune/internal/analysis"
	"github.com/san-kum/zntune/internal/response"
)

const (
	metadataFile = "metadata.json"
	curveFile    = "curve.csv"
	diagramFile  = "diagram.png"
)

var (
	ErrInvalidID = errors.New("storage: run id is not a uuid")
	ErrNoResult  = errors.New("storage: run has no result")
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

// RunMetadata is everything about a run except its curve. The diagram is
// kept separately as diagram.png and re-attached by Load.
type RunMetadata struct {
	ID         string             `json:"id"`
	Timestamp  time.Time          `json:"timestamp"`
	Request    analysis.Request   `json:"request"`
	Method     string             `json:"method"`
	Integrator string             `json:"integrator"`
	Duration   float64            `json:"duration"`
	Samples    int                `json:"samples"`
	Elapsed    time.Duration      `json:"elapsed"`
	Result     analysis.Result    `json:"result"`
	Metrics    map[string]float64 `json:"metrics"`
}

func NewMetadata(run *analysis.Run) RunMetadata {
	meta := RunMetadata{
		ID:         run.ID,
		Timestamp:  run.Started,
		Request:    run.Request,
		Method:     run.Method,
		Integrator: run.Integrator,
		Duration:   run.Duration,
		Samples:    run.Samples,
		Elapsed:    run.Elapsed,
		Metrics:    run.Metrics,
	}
	if run.Result != nil {
		meta.Result = *run.Result
		meta.Result.DiagramPNGBase64 = ""
	}
	return meta
}

func (s *Store) Save(run *analysis.Run) (string, error) {
	if run.Result == nil {
		return "", ErrNoResult
	}
	if _, err := uuid.Parse(run.ID); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, run.ID)
	}

	runDir := filepath.Join(s.baseDir, run.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewMetadata(run)); err != nil {
		return "", err
	}

	img, err := run.Result.DiagramPNG()
	if err != nil {
		return "", fmt.Errorf("storage: %w", err)
	}
	if img != nil {
		if err := os.WriteFile(filepath.Join(runDir, diagramFile), img, 0644); err != nil {
			return "", err
		}
	}

	csvFile, err := os.Create(filepath.Join(runDir, curveFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCurveCSV(csvFile, run.Curve); err != nil {
		return "", err
	}
	return run.ID, nil
}

// List returns stored runs, oldest first. Directories without readable
// metadata are skipped.
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

		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), metadataFile))
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) runDir(runID string) (string, error) {
	if _, err := uuid.Parse(runID); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, runID)
	}
	return filepath.Join(s.baseDir, runID), nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	dir, err := s.runDir(runID)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	img, err := os.ReadFile(filepath.Join(dir, diagramFile))
	switch {
	case err == nil:
		meta.Result.DiagramPNGBase64 = base64.StdEncoding.EncodeToString(img)
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("storage: diagram: %w", err)
	}

	return &meta, nil
}

func (s *Store) LoadCurve(runID string) (*response.Curve, error) {
	dir, err := s.runDir(runID)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(filepath.Join(dir, curveFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	curve := &response.Curve{}
	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) < 2 {
			continue
		}

		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		y, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			continue
		}
		curve.Times = append(curve.Times, t)
		curve.Values = append(curve.Values, y)
	}

	return curve, nil
}

// LoadDiagram returns the stored PNG bytes.
func (s *Store) LoadDiagram(runID string) ([]byte, error) {
	dir, err := s.runDir(runID)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(filepath.Join(dir, diagramFile))
}

func (s *Store) Delete(runID string) error {
	dir, err := s.runDir(runID)
	if err != nil {
		return err
	}
	return os.RemoveAll(dir)
}

// Run rebuilds the analysis run described by m, attaching curve.
func (m *RunMetadata) Run(curve *response.Curve) *analysis.Run {
	res := m.Result
	return &analysis.Run{
		ID:         m.ID,
		Request:    m.Request,
		Result:     &res,
		Method:     m.Method,
		Integrator: m.Integrator,
		Duration:   m.Duration,
		Samples:    m.Samples,
		Metrics:    m.Metrics,
		Started:    m.Timestamp,
		Elapsed:    m.Elapsed,
		Curve:      curve,
	}
}
