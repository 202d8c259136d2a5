package storage

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/zntune/internal/analysis"
	"github.com/san-kum/zntune/internal/response"
)

func testRun(started time.Time) *analysis.Run {
	return &analysis.Run{
		ID:         uuid.NewString(),
		Request:    analysis.Request{Equation: "y' = u", Method: "zn"},
		Method:     "ziegler-nichols",
		Integrator: "zoh",
		Duration:   1,
		Samples:    3,
		Started:    started,
		Elapsed:    time.Millisecond,
		Metrics:    map[string]float64{"final_value": 0.3934693402873666},
		Result: &analysis.Result{
			L: 0.5, T: 1.5, Kp: 3.6, Ki: 3.6, Kd: 0.9,
			OpenLoopText:     "1\n――――――\n2s + 1",
			ClosedLoopLatex:  `\frac{1}{s}`,
			DiagramPNGBase64: base64.StdEncoding.EncodeToString([]byte("\x89PNG fake")),
		},
		Curve: &response.Curve{
			Times:  []float64{0, 0.5, 1},
			Values: []float64{0, 0.22119921692859512, 0.3934693402873666},
		},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	run := testRun(time.Now())
	runID, err := st.Save(run)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID != run.ID {
		t.Errorf("expected id %s, got %s", run.ID, runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Request != run.Request {
		t.Errorf("request mismatch: %+v", meta.Request)
	}
	if meta.Result.Kp != 3.6 || meta.Result.OpenLoopText != run.Result.OpenLoopText {
		t.Errorf("result mismatch: %+v", meta.Result)
	}
	if meta.Result.DiagramPNGBase64 != run.Result.DiagramPNGBase64 {
		t.Errorf("diagram not re-attached: %q", meta.Result.DiagramPNGBase64)
	}

	raw, err := os.ReadFile(filepath.Join(st.Dir(), runID, metadataFile))
	if err != nil {
		t.Fatalf("read metadata failed: %v", err)
	}
	if bytes.Contains(raw, []byte(run.Result.DiagramPNGBase64)) {
		t.Error("diagram should not be stored in metadata.json")
	}
	if meta.Metrics["final_value"] != run.Metrics["final_value"] {
		t.Errorf("metrics mismatch: %v", meta.Metrics)
	}

	curve, err := st.LoadCurve(runID)
	if err != nil {
		t.Fatalf("load curve failed: %v", err)
	}
	if !reflect.DeepEqual(curve, run.Curve) {
		t.Errorf("curve mismatch: %+v", curve)
	}

	img, err := st.LoadDiagram(runID)
	if err != nil {
		t.Fatalf("load diagram failed: %v", err)
	}
	if string(img) != "\x89PNG fake" {
		t.Errorf("diagram bytes mismatch: %q", img)
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	later, _ := st.Save(testRun(base.Add(time.Hour)))
	earlier, _ := st.Save(testRun(base))

	if err := os.Mkdir(filepath.Join(st.Dir(), "junk"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != earlier || runs[1].ID != later {
		t.Errorf("runs not ordered by time: %s, %s", runs[0].ID, runs[1].ID)
	}
}

func TestStoreListMissingDir(t *testing.T) {
	runs, err := New(filepath.Join(t.TempDir(), "absent")).List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runID, err := st.Save(testRun(time.Now()))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	for _, name := range []string{"metadata.json", "curve.csv", "diagram.png"} {
		if _, err := os.Stat(filepath.Join(tmpDir, runID, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}

	data, err := os.ReadFile(filepath.Join(tmpDir, runID, "curve.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "time,y\n0,0\n0.5,") {
		t.Errorf("unexpected csv:\n%s", data)
	}
}

func TestStoreLoadWithoutDiagram(t *testing.T) {
	st := New(t.TempDir())
	run := testRun(time.Now())
	run.Result.DiagramPNGBase64 = ""

	runID, err := st.Save(run)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(st.Dir(), runID, diagramFile)); !os.IsNotExist(err) {
		t.Errorf("diagram.png should not exist, stat err = %v", err)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Result.DiagramPNGBase64 != "" {
		t.Errorf("expected empty diagram, got %q", meta.Result.DiagramPNGBase64)
	}
}

func TestStoreRejectsBadIDs(t *testing.T) {
	st := New(t.TempDir())

	for _, id := range []string{"", "../etc", "run_123"} {
		if _, err := st.Load(id); !errors.Is(err, ErrInvalidID) {
			t.Errorf("Load(%q) err = %v", id, err)
		}
		if _, err := st.LoadCurve(id); !errors.Is(err, ErrInvalidID) {
			t.Errorf("LoadCurve(%q) err = %v", id, err)
		}
		if err := st.Delete(id); !errors.Is(err, ErrInvalidID) {
			t.Errorf("Delete(%q) err = %v", id, err)
		}
	}

	run := testRun(time.Now())
	run.ID = "not-a-uuid"
	if _, err := st.Save(run); !errors.Is(err, ErrInvalidID) {
		t.Errorf("Save err = %v", err)
	}

	run = testRun(time.Now())
	run.Result = nil
	if _, err := st.Save(run); !errors.Is(err, ErrNoResult) {
		t.Errorf("Save err = %v", err)
	}
}

func TestStoreDelete(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save(testRun(time.Now()))
	if err != nil {
		t.Fatal(err)
	}
	if err := st.Delete(runID); err != nil {
		t.Fatal(err)
	}
	if _, err := st.Load(runID); !os.IsNotExist(err) {
		t.Errorf("expected not-exist after delete, got %v", err)
	}
}

func TestExportJSON(t *testing.T) {
	run := testRun(time.Now())
	meta := NewMetadata(run)

	var buf bytes.Buffer
	if err := ExportJSON(&buf, &meta, run.Curve); err != nil {
		t.Fatal(err)
	}

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"id", "request", "result", "metrics", "times", "values"} {
		if _, ok := got[k]; !ok {
			t.Errorf("missing key %q", k)
		}
	}
	if n := len(got["values"].([]any)); n != 3 {
		t.Errorf("expected 3 values, got %d", n)
	}
}
