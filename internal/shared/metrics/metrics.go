package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	exportStartedTotal   atomic.Uint64
	exportCompletedTotal atomic.Uint64
	exportFailedTotal    atomic.Uint64
	exportAbortedTotal   atomic.Uint64
	exportBytesTotal     atomic.Uint64

	exportDuration = newHistogram([]float64{50, 100, 250, 500, 1000, 2000, 5000, 10000, 30000})
)

// IncExportStarted increments the started counter.
func IncExportStarted() {
	exportStartedTotal.Add(1)
}

// IncExportCompleted increments the completed counter.
func IncExportCompleted() {
	exportCompletedTotal.Add(1)
}

// IncExportFailed counts exports that failed before the first byte was streamed.
func IncExportFailed() {
	exportFailedTotal.Add(1)
}

// IncExportAborted counts exports whose stream was cut short.
func IncExportAborted() {
	exportAbortedTotal.Add(1)
}

// AddExportBytes adds to the streamed bytes counter.
func AddExportBytes(n int64) {
	if n > 0 {
		exportBytesTotal.Add(uint64(n))
	}
}

// ObserveExportDurationMs records an export duration in milliseconds.
func ObserveExportDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	exportDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "profile_export_started_total", "Total profile exports started", exportStartedTotal.Load())
	writeCounter(&buf, "profile_export_completed_total", "Total profile exports streamed to completion", exportCompletedTotal.Load())
	writeCounter(&buf, "profile_export_failed_total", "Total profile exports failed before streaming", exportFailedTotal.Load())
	writeCounter(&buf, "profile_export_aborted_total", "Total profile exports aborted mid-stream", exportAbortedTotal.Load())
	writeCounter(&buf, "profile_export_bytes_total", "Total document bytes streamed", exportBytesTotal.Load())
	writeHistogram(&buf, "profile_export_duration_ms", "Profile export duration in milliseconds", exportDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

// Observe records value in the first bucket whose bound holds it; cumulation
// happens at render time.
func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			return
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
	return out
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// SinceMillis returns the elapsed time since start in milliseconds.
func SinceMillis(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
