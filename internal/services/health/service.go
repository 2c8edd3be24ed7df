package health

import (
	"context"
	"time"
)

// Pinger is anything whose reachability can be checked.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

// PingContext calls f(ctx).
func (f PingFunc) PingContext(ctx context.Context) error { return f(ctx) }

// Status values reported per dependency.
const (
	StatusOK       = "ok"
	StatusDown     = "down"
	StatusDisabled = "disabled"
)

// Report is the health payload.
type Report struct {
	OK          bool   `json:"ok"`
	Database    string `json:"database"`
	ObjectStore string `json:"objectStore"`
}

// Service encapsulates health-related checks.
type Service struct {
	DB      Pinger
	Store   Pinger
	Timeout time.Duration
}

// NewService constructs a new health service. A nil database means in-memory repositories.
func NewService(db, store Pinger) *Service {
	return &Service{DB: db, Store: store, Timeout: 2 * time.Second}
}

// Status checks each dependency.
func (s *Service) Status(ctx context.Context) Report {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	r := Report{
		Database:    check(ctx, s.DB),
		ObjectStore: check(ctx, s.Store),
	}
	r.OK = r.Database != StatusDown && r.ObjectStore != StatusDown
	return r
}

func check(ctx context.Context, p Pinger) string {
	if p == nil {
		return StatusDisabled
	}
	if err := p.PingContext(ctx); err != nil {
		return StatusDown
	}
	return StatusOK
}
