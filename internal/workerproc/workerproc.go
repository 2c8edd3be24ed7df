package workerproc

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"bookstore-admin/internal/assets"
	"bookstore-admin/internal/queue"
	"bookstore-admin/internal/shared/telemetry"
)

// StatusMarker updates asset lifecycle status.
type StatusMarker interface {
	MarkStatus(ctx context.Context, ids []string, status assets.Status) (int, error)
}

// MessageMeta captures details useful for logging and diagnostics.
type MessageMeta struct {
	BodyLen int
	BodySHA string
}

// ComputeMeta returns the body length and SHA-256 hash.
func ComputeMeta(body string) MessageMeta {
	if body == "" {
		return MessageMeta{BodyLen: 0, BodySHA: ""}
	}
	sum := sha256.Sum256([]byte(body))
	return MessageMeta{BodyLen: len(body), BodySHA: hex.EncodeToString(sum[:])}
}

// ErrEmptyBody indicates an empty queue payload.
type ErrEmptyBody struct {
	Meta MessageMeta
}

func (e ErrEmptyBody) Error() string { return "empty message body" }

// ErrDecode indicates a JSON decode failure.
type ErrDecode struct {
	Meta MessageMeta
	Err  error
}

func (e ErrDecode) Error() string {
	if e.Err == nil {
		return "decode message"
	}
	return "decode message: " + e.Err.Error()
}

// ErrUnknownKind indicates a message this worker does not handle.
type ErrUnknownKind struct {
	Kind      string
	RequestID string
}

func (e ErrUnknownKind) Error() string { return "unknown message kind " + e.Kind }

// ErrMissingAssetIDs indicates an orphan notice without asset ids.
type ErrMissingAssetIDs struct {
	Meta      MessageMeta
	RequestID string
}

func (e ErrMissingAssetIDs) Error() string { return "missing asset ids" }

// ErrProcess indicates processing failed after successful parsing.
type ErrProcess struct {
	AssetIDs  []string
	RequestID string
	Err       error
}

func (e ErrProcess) Error() string {
	if e.Err == nil {
		return "mark assets orphaned"
	}
	return "mark assets orphaned: " + e.Err.Error()
}

func (e ErrProcess) Unwrap() error { return e.Err }

// Permanent reports whether redelivering the message can never succeed.
func Permanent(err error) bool {
	var (
		empty   ErrEmptyBody
		decode  ErrDecode
		kind    ErrUnknownKind
		missing ErrMissingAssetIDs
	)
	return errors.As(err, &empty) || errors.As(err, &decode) || errors.As(err, &kind) || errors.As(err, &missing)
}

// ParseMessage validates and decodes the queue payload.
func ParseMessage(body string) (queue.Message, MessageMeta, error) {
	meta := ComputeMeta(body)
	if strings.TrimSpace(body) == "" {
		return queue.Message{}, meta, ErrEmptyBody{Meta: meta}
	}

	msg, err := queue.DecodeMessage([]byte(body))
	if err != nil {
		return queue.Message{}, meta, ErrDecode{Meta: meta, Err: err}
	}
	if msg.Kind != queue.KindAssetsOrphaned {
		return msg, meta, ErrUnknownKind{Kind: msg.Kind, RequestID: msg.RequestID}
	}
	if len(cleanIDs(msg.AssetIDs)) == 0 {
		return msg, meta, ErrMissingAssetIDs{Meta: meta, RequestID: msg.RequestID}
	}
	return msg, meta, nil
}

type parsedMessageKey struct{}

// WithParsedMessage stores a decoded message in the context for reuse.
func WithParsedMessage(ctx context.Context, msg queue.Message) context.Context {
	return context.WithValue(ctx, parsedMessageKey{}, msg)
}

func parsedMessageFromContext(ctx context.Context) (queue.Message, bool) {
	if ctx == nil {
		return queue.Message{}, false
	}
	msg, ok := ctx.Value(parsedMessageKey{}).(queue.Message)
	return msg, ok
}

// HandleMessage parses, validates, and applies an orphaned-asset notice.
func HandleMessage(ctx context.Context, marker StatusMarker, body string) error {
	if marker == nil {
		return errors.New("asset service not configured")
	}

	msg, ok := parsedMessageFromContext(ctx)
	if !ok {
		var err error
		msg, _, err = ParseMessage(body)
		if err != nil {
			return err
		}
	}

	ids := cleanIDs(msg.AssetIDs)
	if len(ids) == 0 {
		return ErrMissingAssetIDs{Meta: ComputeMeta(body), RequestID: msg.RequestID}
	}

	updated, err := marker.MarkStatus(ctx, ids, assets.StatusOrphaned)
	if err != nil {
		return ErrProcess{AssetIDs: ids, RequestID: msg.RequestID, Err: err}
	}
	telemetry.Info("worker.assets_orphaned", map[string]any{
		"request_id": msg.RequestID,
		"asset_ids":  ids,
		"updated":    updated,
		"reason":     msg.Reason,
	})
	return nil
}

func cleanIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
