package queue

import (
	"context"
	"errors"
	"time"
)

// Client publishes messages to a queue backend.
type Client interface {
	Send(ctx context.Context, msg Message) error
}

// OrphanReporter publishes orphaned-asset notices for the worker to reconcile.
type OrphanReporter struct {
	Client Client
	Now    func() time.Time
}

type requestIDKey struct{}

// WithRequestID tags outgoing messages with the originating request.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestIDFromContext returns the request id set by WithRequestID.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(requestIDKey{}).(string)
	return v
}

// ReportOrphans sends one message listing every orphaned asset.
func (r *OrphanReporter) ReportOrphans(ctx context.Context, assetIDs []string, reason string) error {
	if r == nil || r.Client == nil {
		return errors.New("queue client not configured")
	}
	if len(assetIDs) == 0 {
		return nil
	}
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	return r.Client.Send(ctx, Message{
		Kind:       KindAssetsOrphaned,
		AssetIDs:   append([]string(nil), assetIDs...),
		Reason:     reason,
		RequestID:  RequestIDFromContext(ctx),
		EnqueuedAt: now().UTC().Format(time.RFC3339),
		Version:    CurrentVersion,
	})
}
