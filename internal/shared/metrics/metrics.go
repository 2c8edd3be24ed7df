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
	submissionStartedTotal   atomic.Uint64
	submissionSucceededTotal atomic.Uint64
	submissionFailedTotal    atomic.Uint64
	assetUploadOKTotal       atomic.Uint64
	assetUploadFailedTotal   atomic.Uint64
	orphanedAssetsTotal      atomic.Uint64

	orphanNoticesReceivedTotal  atomic.Uint64
	orphanNoticesCompletedTotal atomic.Uint64
	orphanNoticesFailedTotal    atomic.Uint64
	orphanNoticesDroppedTotal   atomic.Uint64

	submissionDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
)

// IncSubmissionStarted increments the started counter.
func IncSubmissionStarted() {
	submissionStartedTotal.Add(1)
}

// IncSubmissionSucceeded increments the succeeded counter.
func IncSubmissionSucceeded() {
	submissionSucceededTotal.Add(1)
}

// IncSubmissionFailed increments the failed counter.
func IncSubmissionFailed() {
	submissionFailedTotal.Add(1)
}

// IncAssetUpload counts one asset upload outcome.
func IncAssetUpload(ok bool) {
	if ok {
		assetUploadOKTotal.Add(1)
		return
	}
	assetUploadFailedTotal.Add(1)
}

// AddOrphanedAssets counts assets left unreferenced by a failed record creation.
func AddOrphanedAssets(n int) {
	if n <= 0 {
		return
	}
	orphanedAssetsTotal.Add(uint64(n))
}

// IncOrphanNoticesReceived counts queue messages picked up by the worker.
func IncOrphanNoticesReceived() {
	orphanNoticesReceivedTotal.Add(1)
}

// IncOrphanNoticesCompleted counts notices applied and deleted.
func IncOrphanNoticesCompleted() {
	orphanNoticesCompletedTotal.Add(1)
}

// IncOrphanNoticesFailed counts notices left on the queue for redelivery.
func IncOrphanNoticesFailed() {
	orphanNoticesFailedTotal.Add(1)
}

// IncOrphanNoticesDropped counts malformed notices deleted without processing.
func IncOrphanNoticesDropped() {
	orphanNoticesDroppedTotal.Add(1)
}

// ObserveSubmissionDurationMs records a submission attempt duration in milliseconds.
func ObserveSubmissionDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	submissionDuration.Observe(value)
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
	writeCounter(&buf, "submission_started_total", "Total book submissions started", submissionStartedTotal.Load())
	writeCounter(&buf, "submission_succeeded_total", "Total book submissions succeeded", submissionSucceededTotal.Load())
	writeCounter(&buf, "submission_failed_total", "Total book submissions failed", submissionFailedTotal.Load())
	writeCounter(&buf, "asset_upload_ok_total", "Total asset uploads stored", assetUploadOKTotal.Load())
	writeCounter(&buf, "asset_upload_failed_total", "Total asset uploads failed", assetUploadFailedTotal.Load())
	writeCounter(&buf, "orphaned_assets_total", "Total assets orphaned by failed record creation", orphanedAssetsTotal.Load())
	writeCounter(&buf, "orphan_notices_received_total", "Total orphaned-asset notices received by the worker", orphanNoticesReceivedTotal.Load())
	writeCounter(&buf, "orphan_notices_completed_total", "Total orphaned-asset notices applied", orphanNoticesCompletedTotal.Load())
	writeCounter(&buf, "orphan_notices_failed_total", "Total orphaned-asset notices that failed and will be retried", orphanNoticesFailedTotal.Load())
	writeCounter(&buf, "orphan_notices_dropped_total", "Total malformed orphaned-asset notices deleted", orphanNoticesDroppedTotal.Load())
	writeHistogram(&buf, "submission_duration_ms", "Submission attempt duration in milliseconds", submissionDuration.Snapshot())
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

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	// counts are per-bucket; writeHistogram accumulates them.
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			break
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
