// Package trace records rendered intro frames as JSON lines, or summarizes
// them in the log when no real render stage is attached.
package trace

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/goccy/go-json"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/amrayach/house-of-letters/internal/engine/camera"
	"github.com/amrayach/house-of-letters/internal/intro"
)

// Record is the serialized form of one frame.
type Record struct {
	Frame     int        `json:"frame"`
	ElapsedMS float64    `json:"elapsed_ms"`
	Phase     string     `json:"phase"`
	Raw       float32    `json:"raw"`
	Progress  float32    `json:"progress"`
	Position  [3]float32 `json:"position"`
	LookAt    [3]float32 `json:"look_at"`

	Bloom         float32    `json:"bloom"`
	Vignette      float32    `json:"vignette"`
	Chromatic     [2]float32 `json:"chromatic"`
	Lights        []float32  `json:"lights,omitempty"`
	Spotlight     float32    `json:"spotlight"`
	Background    [3]float32 `json:"background"`
	Fog           float32    `json:"fog"`
	Exposure      float32    `json:"exposure"`
	TemporalBlend float32    `json:"temporal_blend"`

	Objects   int `json:"objects"`
	Triangles int `json:"triangles"`
	Loaded    int `json:"loaded"`
	Total     int `json:"total"`
}

// NewRecord flattens f.
func NewRecord(f intro.Frame) Record {
	r := Record{
		Frame:         f.Index,
		ElapsedMS:     float64(f.Elapsed.Microseconds()) / 1000,
		Phase:         f.Phase.String(),
		Raw:           f.RawProgress,
		Progress:      f.Progress,
		Position:      f.Pose.Position.Array(),
		LookAt:        f.Pose.LookAt.Array(),
		Bloom:         f.Effects.Bloom,
		Vignette:      f.Effects.Vignette,
		Chromatic:     [2]float32{f.Effects.Chromatic.X, f.Effects.Chromatic.Y},
		Lights:        f.Effects.PointLights,
		Spotlight:     f.Effects.Spotlight,
		Background:    f.Effects.Background.Array(),
		Fog:           f.Effects.Fog,
		Exposure:      f.Effects.Exposure,
		TemporalBlend: f.Effects.TemporalBlend,
		Objects:       len(f.Objects),
		Loaded:        f.Loading.Loaded,
		Total:         f.Loading.Total,
	}
	for _, o := range f.Objects {
		if o.Mesh != nil {
			r.Triangles += o.Mesh.TriangleCount()
		}
	}
	return r
}

// Writer writes one JSON line per frame. It is safe for concurrent use.
type Writer struct {
	mu     sync.Mutex
	enc    *json.Encoder
	closer io.Closer
	count  int
}

// NewWriter writes records to w. Close closes w when it is an io.Closer.
func NewWriter(w io.Writer) *Writer {
	tw := &Writer{enc: json.NewEncoder(w)}
	if c, ok := w.(io.Closer); ok {
		tw.closer = c
	}
	return tw
}

// Create truncates path and writes records to it.
func Create(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating trace: %w", err)
	}
	return NewWriter(f), nil
}

// Render appends f to the trace.
func (w *Writer) Render(f intro.Frame) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.enc.Encode(NewRecord(f)); err != nil {
		return fmt.Errorf("writing frame %d: %w", f.Index, err)
	}
	w.count++
	return nil
}

// Count returns the number of records written.
func (w *Writer) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count
}

// Close closes the underlying writer if it is closable.
func (w *Writer) Close() error {
	if w.closer == nil {
		return nil
	}
	return w.closer.Close()
}

// LogRenderer logs phase changes and every Nth frame.
type LogRenderer struct {
	log   *zap.Logger
	every int

	mu    sync.Mutex
	phase camera.Phase
	seen  bool
}

// NewLogRenderer logs to log, sampling one frame in every (at least 1).
func NewLogRenderer(log *zap.Logger, every int) *LogRenderer {
	return &LogRenderer{log: log, every: max(every, 1)}
}

// Render logs f when its phase changed or it falls on the sample interval.
func (l *LogRenderer) Render(f intro.Frame) error {
	l.mu.Lock()
	changed := !l.seen || f.Phase != l.phase
	l.seen, l.phase = true, f.Phase
	l.mu.Unlock()

	fields := []zap.Field{
		zap.Int("frame", f.Index),
		zap.Stringer("phase", f.Phase),
		zap.Float32("progress", f.Progress),
		zap.Int("loaded", f.Loading.Loaded),
		zap.Int("total", f.Loading.Total),
	}
	switch {
	case changed:
		l.log.Info("phase", fields...)
	case f.Index%l.every == 0:
		pos := f.Pose.Position.Array()
		l.log.Debug("frame", append(fields,
			zap.Float32s("position", pos[:]),
			zap.Float32("bloom", f.Effects.Bloom))...)
	}
	return nil
}

type tee []intro.Renderer

// Tee renders every frame through each of rs in order. All renderers see
// every frame; their errors are combined.
func Tee(rs ...intro.Renderer) intro.Renderer {
	return tee(rs)
}

func (t tee) Render(f intro.Frame) error {
	var err error
	for _, r := range t {
		err = multierr.Append(err, r.Render(f))
	}
	return err
}
