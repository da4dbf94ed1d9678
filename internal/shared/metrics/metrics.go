package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	analysisCompletedTotal atomic.Uint64
	analysisSkippedTotal   atomic.Uint64
	analysisFailedTotal    atomic.Uint64
	uploadsRejectedTotal   atomic.Uint64

	analysisDuration durationSummary
)

// IncAnalysisCompleted increments the completed-analysis counter.
func IncAnalysisCompleted() { analysisCompletedTotal.Add(1) }

// IncAnalysisSkipped increments the skipped counter (extraction failures).
func IncAnalysisSkipped() { analysisSkippedTotal.Add(1) }

// IncAnalysisFailed increments the failed counter (AI call failures).
func IncAnalysisFailed() { analysisFailedTotal.Add(1) }

// IncUploadRejected increments the rejected-upload counter.
func IncUploadRejected() { uploadsRejectedTotal.Add(1) }

// ObserveAnalysisDurationMs records an analysis duration in milliseconds.
func ObserveAnalysisDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	analysisDuration.Observe(value)
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
	writeCounter(&buf, "analysis_completed_total", "Total analyses completed", analysisCompletedTotal.Load())
	writeCounter(&buf, "analysis_skipped_total", "Total analyses skipped on extraction failure", analysisSkippedTotal.Load())
	writeCounter(&buf, "analysis_failed_total", "Total analyses failed at the AI boundary", analysisFailedTotal.Load())
	writeCounter(&buf, "uploads_rejected_total", "Total uploads rejected at admission", uploadsRejectedTotal.Load())

	sum, count := analysisDuration.Snapshot()
	fmt.Fprintf(&buf, "# HELP analysis_duration_ms Analysis duration in milliseconds\n")
	fmt.Fprintf(&buf, "# TYPE analysis_duration_ms summary\n")
	fmt.Fprintf(&buf, "analysis_duration_ms_sum %s\n", formatFloat(sum))
	fmt.Fprintf(&buf, "analysis_duration_ms_count %d\n", count)
	return buf.String()
}

type durationSummary struct {
	mu    sync.Mutex
	sum   float64
	count uint64
}

func (s *durationSummary) Observe(value float64) {
	s.mu.Lock()
	s.sum += value
	s.count++
	s.mu.Unlock()
}

func (s *durationSummary) Snapshot() (float64, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sum, s.count
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
