package forms

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"bookstore-admin/internal/shared/auth"
	"bookstore-admin/internal/shared/id"
	"bookstore-admin/internal/shared/telemetry"
	"bookstore-admin/internal/submission"
)

var (
	ErrNotFound  = errors.New("form not found")
	ErrForbidden = errors.New("form not allowed for role")
)

// DepsFunc builds the pipeline collaborators for one form owner.
type DepsFunc func(ownerID string) submission.Deps

// Session is one open add-book form.
type Session struct {
	ID           string
	OwnerID      string
	Role         auth.Role
	Orchestrator *submission.Orchestrator
	View         *submission.ViewPresenter
	CreatedAt    time.Time

	lastSeen time.Time
}

// Store keeps open form sessions in memory. Sessions are never shared between owners.
type Store struct {
	TTL     time.Duration
	NewDeps DepsFunc
	Now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewStore constructs a Store.
func NewStore(ttl time.Duration, newDeps DepsFunc) *Store {
	return &Store{
		TTL:      ttl,
		NewDeps:  newDeps,
		sessions: make(map[string]*Session),
	}
}

// Create opens a form for the given edition. Vendors may only open vendor forms.
func (s *Store) Create(ownerID string, role auth.Role, kind submission.EditionKind, audience submission.Audience) (*Session, error) {
	edition, err := submission.NewEdition(kind, audience)
	if err != nil {
		return nil, err
	}
	if audience == submission.AudienceAdmin && role != auth.RoleAdmin {
		return nil, fmt.Errorf("%w: %s cannot open %s forms", ErrForbidden, role, audience)
	}

	formID, err := id.Generate("form")
	if err != nil {
		return nil, err
	}

	view := submission.NewViewPresenter()
	deps := s.NewDeps(ownerID)
	deps.Presenter = view

	now := s.now()
	sess := &Session{
		ID:           formID,
		OwnerID:      ownerID,
		Role:         role,
		Orchestrator: submission.New(formID, edition, deps),
		View:         view,
		CreatedAt:    now,
		lastSeen:     now,
	}

	s.mu.Lock()
	s.sessions[formID] = sess
	s.mu.Unlock()

	telemetry.Info("forms.opened", map[string]any{
		"form_id":  formID,
		"user_id":  ownerID,
		"edition":  string(kind),
		"audience": string(audience),
	})
	return sess, nil
}

// Get returns the owner's session and marks it active.
func (s *Store) Get(formID, ownerID string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[formID]
	if !ok || sess.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	sess.lastSeen = s.now()
	return sess, nil
}

// Delete retires and forgets the owner's session.
func (s *Store) Delete(formID, ownerID string) error {
	s.mu.Lock()
	sess, ok := s.sessions[formID]
	if !ok || sess.OwnerID != ownerID {
		s.mu.Unlock()
		return ErrNotFound
	}
	delete(s.sessions, formID)
	s.mu.Unlock()

	sess.Orchestrator.Retire()
	telemetry.Info("forms.closed", map[string]any{"form_id": formID, "user_id": ownerID})
	return nil
}

// Len returns the number of open sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep retires sessions idle for longer than TTL. Sessions with a running attempt are kept.
func (s *Store) Sweep() int {
	if s.TTL <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.TTL)

	var expired []*Session
	s.mu.Lock()
	for formID, sess := range s.sessions {
		if sess.lastSeen.After(cutoff) || sess.Orchestrator.State().InFlight() {
			continue
		}
		delete(s.sessions, formID)
		expired = append(expired, sess)
	}
	s.mu.Unlock()

	for _, sess := range expired {
		sess.Orchestrator.Retire()
		telemetry.Info("forms.expired", map[string]any{"form_id": sess.ID, "user_id": sess.OwnerID})
	}
	return len(expired)
}

// Run sweeps expired sessions until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

func (s *Store) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
