package metrics

import (
	"bytes"
	"strings"
	"testing"
)

func TestRenderIncludesCountersAndHistogram(t *testing.T) {
	IncSubmissionStarted()
	IncSubmissionFailed()
	IncAssetUpload(true)
	IncAssetUpload(false)
	AddOrphanedAssets(3)
	ObserveSubmissionDurationMs(120)

	out := Render()
	for _, want := range []string{
		"# TYPE submission_started_total counter",
		"# TYPE asset_upload_failed_total counter",
		"# TYPE submission_duration_ms histogram",
		`submission_duration_ms_bucket{le="250"}`,
		`submission_duration_ms_bucket{le="+Inf"}`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestHistogramBucketsAreCumulative(t *testing.T) {
	h := newHistogram([]float64{10, 100})
	h.Observe(5)
	h.Observe(50)
	h.Observe(500)

	snap := h.Snapshot()
	if snap.count != 3 {
		t.Fatalf("expected count 3, got %d", snap.count)
	}
	if snap.counts[0] != 1 || snap.counts[1] != 1 {
		t.Fatalf("unexpected bucket counts: %v", snap.counts)
	}

	var buf bytes.Buffer
	writeHistogram(&buf, "h", "test", snap)
	out := buf.String()
	if !strings.Contains(out, `h_bucket{le="100"} 2`) || !strings.Contains(out, `h_bucket{le="+Inf"} 3`) {
		t.Fatalf("expected cumulative buckets:\n%s", out)
	}
	if formatFloat(2.5) != "2.5" || formatFloat(3) != "3" {
		t.Fatalf("unexpected float formatting")
	}
}
