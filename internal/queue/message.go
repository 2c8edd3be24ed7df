package queue

import (
	"encoding/json"
	"fmt"
)

// KindAssetsOrphaned marks assets that were stored but never referenced by a book.
const KindAssetsOrphaned = "assets.orphaned"

// CurrentVersion is the payload version producers write.
const CurrentVersion = 1

// Message is the payload sent to downstream queue consumers.
type Message struct {
	Kind       string   `json:"kind"`
	AssetIDs   []string `json:"assetIds"`
	Reason     string   `json:"reason,omitempty"`
	RequestID  string   `json:"requestId,omitempty"`
	EnqueuedAt string   `json:"enqueuedAt"`
	Version    int      `json:"version"`
}

// EncodeMessage returns the JSON representation of a message.
func EncodeMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}

// DecodeMessage parses a JSON payload into a Message.
func DecodeMessage(payload []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return Message{}, err
	}
	if msg.Version > CurrentVersion {
		return Message{}, fmt.Errorf("unsupported message version %d", msg.Version)
	}
	return msg, nil
}
