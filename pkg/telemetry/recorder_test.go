package telemetry

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gocarina/gocsv"
	"github.com/lao-tseu-is-alive/go-steering-boids/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-steering-boids/pkg/simulation"
)

func floatEquals(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func frame(tick uint64, scenario string, speeds ...float64) simulation.Frame {
	f := simulation.Frame{Tick: tick, Scenario: scenario}
	for i, s := range speeds {
		f.Agents = append(f.Agents, simulation.AgentView{
			Kind:     simulation.KindBoid,
			Pos:      geometry.NewVector(float64(i)*10, 0),
			Vel:      geometry.NewVector(s, 0),
			Steering: geometry.NewVector(0, 1),
		})
	}
	return f
}

func TestRecorder_Windows(t *testing.T) {
	var buf bytes.Buffer
	r := NewRecorder(&buf, 2)

	steps := []simulation.Frame{
		frame(1, "Wander", 1, 3),
		frame(2, "Wander", 5, 7), // window full: speeds 1 3 5 7
		frame(3, "Wander", 2, 2),
	}
	for _, f := range steps {
		if err := r.Record(f); err != nil {
			t.Fatalf("Record() unexpected error: %v", err)
		}
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close() unexpected error: %v", err)
	}

	var rows []WindowStats
	if err := gocsv.Unmarshal(strings.NewReader(buf.String()), &rows); err != nil {
		t.Fatalf("output is not valid csv: %v\n%s", err, buf.String())
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2:\n%s", len(rows), buf.String())
	}
	if strings.Count(buf.String(), "window_end") != 1 {
		t.Errorf("the header should be written once:\n%s", buf.String())
	}

	first := rows[0]
	if first.WindowEnd != 2 || first.Scenario != "Wander" || first.Agents != 2 {
		t.Errorf("first row = %+v", first)
	}
	if !floatEquals(first.SpeedMean, 4) || !floatEquals(first.SpeedMax, 7) || !floatEquals(first.SpeedP50, 3) {
		t.Errorf("speed stats mean %v max %v p50 %v, want 4 7 3", first.SpeedMean, first.SpeedMax, first.SpeedP50)
	}
	// sample std of 1 3 5 7
	if !floatEquals(first.SpeedStd, math.Sqrt(20.0/3)) {
		t.Errorf("SpeedStd = %v", first.SpeedStd)
	}
	if !floatEquals(first.SteeringMean, 1) || !floatEquals(first.SteeringStd, 0) {
		t.Errorf("steering stats %v %v, want 1 0", first.SteeringMean, first.SteeringStd)
	}
	if !floatEquals(first.Spread, 5) {
		t.Errorf("Spread = %v, want 5", first.Spread)
	}
	if rows[1].WindowEnd != 3 || !floatEquals(rows[1].SpeedMean, 2) {
		t.Errorf("the partial window should be flushed on close, got %+v", rows[1])
	}
}

func TestRecorder_ScenarioChangeRestartsWindow(t *testing.T) {
	var buf bytes.Buffer
	r := NewRecorder(&buf, 2)
	_ = r.Record(frame(5, "Wander", 100, 100))
	_ = r.Record(frame(1, "Flocking", 1, 1))
	_ = r.Record(frame(2, "Flocking", 1, 1))

	var rows []WindowStats
	if err := gocsv.Unmarshal(strings.NewReader(buf.String()), &rows); err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].Scenario != "Flocking" || !floatEquals(rows[0].SpeedMean, 1) {
		t.Errorf("rows = %+v, want one Flocking window", rows)
	}
}

func TestNewFileRecorder(t *testing.T) {
	r, err := NewFileRecorder("", 10)
	if err != nil || r != nil {
		t.Errorf("an empty directory disables telemetry, got %v %v", r, err)
	}

	dir := filepath.Join(t.TempDir(), "out")
	r, err = NewFileRecorder(dir, 1)
	if err != nil {
		t.Fatalf("NewFileRecorder() unexpected error: %v", err)
	}
	if err := r.Record(frame(1, "Wander", 1, 2)); err != nil {
		t.Fatal(err)
	}
	if err := r.Close(); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if lines := strings.Count(strings.TrimSpace(string(b)), "\n"); lines != 1 {
		t.Errorf("telemetry.csv should hold a header and one row:\n%s", b)
	}
}

func BenchmarkRecorder_Record(b *testing.B) {
	speeds := make([]float64, 500)
	for i := range speeds {
		speeds[i] = float64(i % 25)
	}
	f := frame(1, "Flocking", speeds...)
	r := NewRecorder(&bytes.Buffer{}, 60)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f.Tick = uint64(i + 1)
		_ = r.Record(f)
	}
}
