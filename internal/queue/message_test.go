package queue

import (
	"reflect"
	"strings"
	"testing"
)

func TestMessageRoundTrip(t *testing.T) {
	msg := Message{
		Kind:       KindAssetsOrphaned,
		AssetIDs:   []string{"asset-1", "asset-2"},
		Reason:     "catalog rejected the record",
		RequestID:  "request-456",
		EnqueuedAt: "2026-01-30T22:00:00Z",
		Version:    CurrentVersion,
	}

	payload, err := EncodeMessage(msg)
	if err != nil {
		t.Fatalf("encode message: %v", err)
	}
	if !strings.Contains(string(payload), `"assetIds":["asset-1","asset-2"]`) {
		t.Fatalf("unexpected payload %s", payload)
	}

	got, err := DecodeMessage(payload)
	if err != nil {
		t.Fatalf("decode message: %v", err)
	}

	if !reflect.DeepEqual(got, msg) {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, msg)
	}
}

func TestDecodeRejectsNewerVersion(t *testing.T) {
	_, err := DecodeMessage([]byte(`{"kind":"assets.orphaned","assetIds":["a"],"version":7}`))
	if err == nil {
		t.Fatal("expected version error")
	}
}
