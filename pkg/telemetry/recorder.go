// Package telemetry aggregates frames over tick windows and writes one CSV
// row per window.
package telemetry

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/gocarina/gocsv"
	"github.com/lao-tseu-is-alive/go-steering-boids/pkg/simulation"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds the statistics of one window of ticks.
type WindowStats struct {
	WindowStart uint64 `csv:"-"`
	WindowEnd   uint64 `csv:"window_end"`
	Scenario    string `csv:"scenario"`
	Agents      int    `csv:"agents"`

	// Speeds, sampled on every frame of the window
	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedMax  float64 `csv:"speed_max"`

	// Steering force magnitudes
	SteeringMean float64 `csv:"steering_mean"`
	SteeringStd  float64 `csv:"steering_std"`

	// Spread of the population around its centroid at window end
	Spread float64 `csv:"spread"`
}

// Recorder implements simulation.FrameRecorder.
type Recorder struct {
	w             io.Writer
	closer        io.Closer
	interval      int
	headerWritten bool

	frames   int
	start    uint64
	speeds   []float64
	steering []float64
	last     simulation.Frame
}

var _ simulation.FrameRecorder = (*Recorder)(nil)

// NewRecorder writes a row to w every interval frames.
func NewRecorder(w io.Writer, interval int) *Recorder {
	if interval < 1 {
		interval = 1
	}
	return &Recorder{w: w, interval: interval}
}

// NewFileRecorder creates dir and writes telemetry.csv inside it.
// It returns nil, nil when dir is empty (telemetry disabled).
func NewFileRecorder(dir string, interval int) (*Recorder, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating telemetry directory: %w", err)
	}
	f, err := os.Create(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating telemetry.csv: %w", err)
	}
	r := NewRecorder(f, interval)
	r.closer = f
	return r, nil
}

// Record accumulates f and flushes a row once the window is full.
// A frame from another scenario, or an earlier tick, starts a new window.
func (r *Recorder) Record(f simulation.Frame) error {
	if r.frames > 0 && (f.Scenario != r.last.Scenario || f.Tick < r.last.Tick) {
		r.reset()
	}
	if r.frames == 0 {
		r.start = f.Tick
	}
	for _, a := range f.Agents {
		if a.Kind == simulation.KindObstacle {
			continue
		}
		r.speeds = append(r.speeds, a.Vel.Len())
		r.steering = append(r.steering, a.Steering.Len())
	}
	r.frames++
	r.last = f
	if r.frames < r.interval {
		return nil
	}
	return r.Flush()
}

// Flush writes the pending window, if any.
func (r *Recorder) Flush() error {
	if r.frames == 0 {
		return nil
	}
	stats := r.window()
	r.reset()
	return r.write(stats)
}

// Close flushes the pending window and closes the file opened by NewFileRecorder.
func (r *Recorder) Close() error {
	err := r.Flush()
	if r.closer != nil {
		if cerr := r.closer.Close(); err == nil {
			err = cerr
		}
		r.closer = nil
	}
	return err
}

func (r *Recorder) window() WindowStats {
	ws := WindowStats{
		WindowStart: r.start,
		WindowEnd:   r.last.Tick,
		Scenario:    r.last.Scenario,
		Agents:      len(r.last.Agents),
		Spread:      spread(r.last.Agents),
	}
	if len(r.speeds) > 0 {
		ws.SpeedMean, ws.SpeedStd = stat.MeanStdDev(r.speeds, nil)
		ws.SpeedP50 = median(r.speeds)
		ws.SpeedMax = r.speeds[len(r.speeds)-1]
		ws.SteeringMean, ws.SteeringStd = stat.MeanStdDev(r.steering, nil)
	}
	return ws
}

// median sorts values in place.
func median(values []float64) float64 {
	sort.Float64s(values)
	return stat.Quantile(0.5, stat.Empirical, values, nil)
}

// spread is the root mean square distance of the agents to their centroid.
func spread(agents []simulation.AgentView) float64 {
	if len(agents) == 0 {
		return 0
	}
	xs := make([]float64, len(agents))
	ys := make([]float64, len(agents))
	for i, a := range agents {
		xs[i], ys[i] = a.Pos.X, a.Pos.Y
	}
	_, vx := stat.PopMeanVariance(xs, nil)
	_, vy := stat.PopMeanVariance(ys, nil)
	return math.Sqrt(vx + vy)
}

func (r *Recorder) reset() {
	r.frames = 0
	r.speeds = r.speeds[:0]
	r.steering = r.steering[:0]
}

func (r *Recorder) write(stats WindowStats) error {
	records := []WindowStats{stats}
	if !r.headerWritten {
		// First write includes headers
		if err := gocsv.Marshal(records, r.w); err != nil {
			return fmt.Errorf("writing telemetry: %w", err)
		}
		r.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, r.w); err != nil {
		return fmt.Errorf("writing telemetry: %w", err)
	}
	return nil
}
