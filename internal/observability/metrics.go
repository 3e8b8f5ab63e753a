package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	DirectionRead  = "read"
	DirectionWrite = "write"
)

var (
	registerOnce sync.Once

	frames = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "binrepr",
			Subsystem: "frame",
			Name:      "frames_total",
			Help:      "Frames moved through framed streams.",
		},
		[]string{"stream", "direction"},
	)
	frameBytes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "binrepr",
			Subsystem: "frame",
			Name:      "bytes_total",
			Help:      "Frame bytes moved through framed streams, headers included.",
		},
		[]string{"stream", "direction"},
	)
	frameErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "binrepr",
			Subsystem: "frame",
			Name:      "errors_total",
			Help:      "Framed stream failures by kind.",
		},
		[]string{"stream", "direction", "kind"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(frames, frameBytes, frameErrors)
	})
}

func RecordFrame(stream, direction string, size int) {
	RegisterMetrics()
	frames.WithLabelValues(stream, direction).Inc()
	frameBytes.WithLabelValues(stream, direction).Add(float64(size))
}

func RecordFrameError(stream, direction, kind string) {
	RegisterMetrics()
	frameErrors.WithLabelValues(stream, direction, kind).Inc()
}

// FrameCount returns the frames counter for one stream, for tests and
// debug endpoints.
func FrameCount(stream, direction string) prometheus.Counter {
	return frames.WithLabelValues(stream, direction)
}

// FrameErrorCount returns the error counter for one stream and kind.
func FrameErrorCount(stream, direction, kind string) prometheus.Counter {
	return frameErrors.WithLabelValues(stream, direction, kind)
}
