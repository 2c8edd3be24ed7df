package submission

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrSubmissionInFlight = errors.New("submission already in progress")
	ErrRetired            = errors.New("form is closed")
	ErrUnknownEdition     = errors.New("unknown edition")
	ErrUnknownField       = errors.New("unknown field")
	ErrInvalidField       = errors.New("invalid field value")
	ErrUnknownSlot        = errors.New("unknown attachment slot")
	errMissingAssetID     = errors.New("upload returned no asset id")
)

// Violation is one failed field rule.
type Violation struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (v Violation) String() string {
	return v.Field + " " + v.Reason
}

// ValidationError reports draft fields that did not satisfy the edition's rules.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return "validation failed"
	}
	return e.Violations[0].String()
}

// Map returns the violations keyed by field.
func (e *ValidationError) Map() map[string]string {
	out := make(map[string]string, len(e.Violations))
	for _, v := range e.Violations {
		out[v.Field] = v.Reason
	}
	return out
}

// AssetUploadError reports the first attachment that failed to store.
type AssetUploadError struct {
	Slot Slot
	Err  error
}

func (e *AssetUploadError) Error() string {
	return fmt.Sprintf("upload %s: %v", e.Slot, e.Err)
}

func (e *AssetUploadError) Unwrap() error { return e.Err }

// SubmissionTransportError reports a failed record-creation call.
// The listed assets were stored but nothing references them.
type SubmissionTransportError struct {
	Err              error
	OrphanedAssetIDs []string
}

func (e *SubmissionTransportError) Error() string {
	return fmt.Sprintf("create catalog record: %v", e.Err)
}

func (e *SubmissionTransportError) Unwrap() error { return e.Err }

// userMessager is implemented by transport errors that carry a server-provided reason.
type userMessager interface {
	UserMessage() string
}

func userMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	var um userMessager
	msg := ""
	if errors.As(err, &um) {
		msg = um.UserMessage()
	} else {
		msg = err.Error()
	}
	if strings.TrimSpace(msg) == "" {
		return fallback
	}
	return msg
}
