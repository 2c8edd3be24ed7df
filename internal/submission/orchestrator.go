package submission

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"bookstore-admin/internal/shared/metrics"
	"bookstore-admin/internal/shared/telemetry"
)

// Deps are the collaborators an Orchestrator talks to.
type Deps struct {
	Uploader  AssetUploader
	Submitter RecordSubmitter
	// Orphans and Presenter are optional.
	Orphans   OrphanReporter
	Presenter Presenter
}

// Orchestrator runs submission attempts for one form instance.
// It owns the form's draft and SubmissionState; at most one attempt runs at a time.
type Orchestrator struct {
	formID  string
	edition Edition
	deps    Deps

	mu      sync.Mutex
	draft   Draft
	state   State
	seq     uint64
	attempt int
	retired bool

	// presentMu orders presenter calls; presented is the seq last shown.
	presentMu sync.Mutex
	presented uint64
}

// New returns an Orchestrator with an empty draft in the Idle state.
func New(formID string, edition Edition, deps Deps) *Orchestrator {
	return &Orchestrator{
		formID:  formID,
		edition: edition,
		deps:    deps,
		draft:   Draft{Attachments: map[Slot]Attachment{}},
		state:   State{Phase: PhaseIdle},
	}
}

// Edition returns the descriptor the orchestrator was built with.
func (o *Orchestrator) Edition() Edition {
	return o.edition
}

// State returns the current submission state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Draft returns a copy of the current draft.
func (o *Orchestrator) Draft() Draft {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.draft.Clone()
}

// Update mutates the draft. It is rejected while an attempt is running.
func (o *Orchestrator) Update(fn func(*Draft) error) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.editableLocked(); err != nil {
		return err
	}
	next := o.draft.Clone()
	if err := fn(&next); err != nil {
		return err
	}
	o.draft = next
	return nil
}

// SetField assigns one scalar field.
func (o *Orchestrator) SetField(field, value string) error {
	return o.Update(func(d *Draft) error {
		return d.Set(field, value)
	})
}

// Attach puts a pending binary into a slot, replacing what was there.
func (o *Orchestrator) Attach(slot Slot, att Attachment) error {
	if !o.edition.HasSlot(slot) {
		return fmt.Errorf("%w: %q", ErrUnknownSlot, slot)
	}
	return o.Update(func(d *Draft) error {
		d.Attachments[slot] = att
		return nil
	})
}

// Detach empties a slot.
func (o *Orchestrator) Detach(slot Slot) error {
	if !o.edition.HasSlot(slot) {
		return fmt.Errorf("%w: %q", ErrUnknownSlot, slot)
	}
	return o.Update(func(d *Draft) error {
		delete(d.Attachments, slot)
		return nil
	})
}

// ClearAttachments empties every slot.
func (o *Orchestrator) ClearAttachments() error {
	return o.Update(func(d *Draft) error {
		d.Attachments = map[Slot]Attachment{}
		return nil
	})
}

// Reset starts a fresh draft and returns the state to Idle.
func (o *Orchestrator) Reset() error {
	o.mu.Lock()
	if err := o.editableLocked(); err != nil {
		o.mu.Unlock()
		return err
	}
	o.draft = Draft{Attachments: map[Slot]Attachment{}}
	state := State{Phase: PhaseIdle, Attempt: o.attempt}
	seq := o.setStateLocked(state)
	o.mu.Unlock()

	o.present(seq, state)
	return nil
}

// Retire tears the orchestrator down. Results of a running attempt are discarded.
func (o *Orchestrator) Retire() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.retired = true
}

// Submit runs one attempt to completion and returns its terminal state.
func (o *Orchestrator) Submit(ctx context.Context) (State, error) {
	done, err := o.SubmitAsync(ctx)
	if err != nil {
		return State{}, err
	}
	return <-done, nil
}

// SubmitAsync starts an attempt and returns a channel that receives its terminal state.
// The in-flight guard is checked before it returns, so a second call made while
// the attempt runs fails with ErrSubmissionInFlight.
func (o *Orchestrator) SubmitAsync(ctx context.Context) (<-chan State, error) {
	o.mu.Lock()
	if o.retired {
		o.mu.Unlock()
		return nil, ErrRetired
	}
	if o.state.InFlight() {
		o.mu.Unlock()
		return nil, ErrSubmissionInFlight
	}
	o.attempt++
	attempt := o.attempt
	draft := o.draft.Clone()
	prev := o.state.Phase
	state := State{Phase: PhaseValidating, Attempt: attempt}
	seq := o.setStateLocked(state)
	o.mu.Unlock()

	o.logTransition(attempt, prev, PhaseValidating)
	o.present(seq, state)

	done := make(chan State, 1)
	go func() {
		defer close(done)
		done <- o.run(ctx, attempt, draft)
	}()
	return done, nil
}

func (o *Orchestrator) run(ctx context.Context, attempt int, draft Draft) State {
	started := time.Now()
	metrics.IncSubmissionStarted()

	if violations := Validate(o.edition, draft); len(violations) > 0 {
		return o.fail(ctx, attempt, started, &ValidationError{Violations: violations}, nil)
	}

	if !o.advance(attempt, PhaseValidating, PhaseUploadingAssets) {
		return retiredState(attempt)
	}
	assetIDs, stored, err := o.uploadAll(ctx, draft)
	if err != nil {
		return o.fail(ctx, attempt, started, err, stored)
	}

	if !o.advance(attempt, PhaseUploadingAssets, PhaseAssemblingPayload) {
		o.reportOrphans(ctx, attempt, stored, "form closed before submission")
		return retiredState(attempt)
	}
	record, err := Assemble(o.edition, draft, assetIDs)
	if err != nil {
		return o.fail(ctx, attempt, started, fmt.Errorf("assemble catalog record: %w", err), stored)
	}

	if !o.advance(attempt, PhaseAssemblingPayload, PhaseSubmitting) {
		o.reportOrphans(ctx, attempt, stored, "form closed before submission")
		return retiredState(attempt)
	}
	confirmation, err := o.deps.Submitter.Submit(ctx, o.edition.Kind, record)
	if err != nil {
		return o.fail(ctx, attempt, started, &SubmissionTransportError{Err: err, OrphanedAssetIDs: stored}, stored)
	}

	return o.succeed(attempt, started, confirmation)
}

// uploadAll stores every declared slot concurrently and waits for all of them.
// Results are indexed by slot so the returned ids keep slot order.
func (o *Orchestrator) uploadAll(ctx context.Context, draft Draft) (map[Slot]string, []string, error) {
	slots := o.edition.Slots
	results := make([]AssetUploadResult, len(slots))

	var g errgroup.Group
	for i, slot := range slots {
		att := draft.Attachments[slot]
		g.Go(func() error {
			results[i] = o.uploadSlot(ctx, slot, att)
			return nil
		})
	}
	_ = g.Wait()

	ids := make(map[Slot]string, len(slots))
	var stored []string
	var firstErr error
	for i, slot := range slots {
		res := results[i]
		ok := res.OK && res.ID != ""
		metrics.IncAssetUpload(ok)
		if ok {
			ids[slot] = res.ID
			stored = append(stored, res.ID)
			continue
		}
		if firstErr == nil {
			cause := res.Err
			if cause == nil {
				cause = errMissingAssetID
			}
			firstErr = &AssetUploadError{Slot: slot, Err: cause}
		}
	}
	if firstErr != nil {
		return nil, stored, firstErr
	}
	return ids, stored, nil
}

func (o *Orchestrator) uploadSlot(ctx context.Context, slot Slot, att Attachment) (res AssetUploadResult) {
	defer func() {
		if r := recover(); r != nil {
			res = AssetUploadResult{Err: fmt.Errorf("uploader panic: %v", r)}
		}
	}()
	return o.deps.Uploader.Upload(ctx, att, slot.AssetKind())
}

// advance moves a still-current attempt from one phase to the next.
// It returns false when the attempt was superseded or the form retired.
func (o *Orchestrator) advance(attempt int, from, to Phase) bool {
	o.mu.Lock()
	if !o.currentLocked(attempt) {
		o.mu.Unlock()
		return false
	}
	state := State{Phase: to, Attempt: attempt}
	seq := o.setStateLocked(state)
	o.mu.Unlock()

	o.logTransition(attempt, from, to)
	o.present(seq, state)
	return true
}

func (o *Orchestrator) fail(ctx context.Context, attempt int, started time.Time, err error, stored []string) State {
	state := State{
		Phase:   PhaseFailed,
		Attempt: attempt,
		Error:   o.failureMessage(err),
		err:     err,
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		state.Violations = ve.Map()
	}

	if len(stored) > 0 {
		o.reportOrphans(ctx, attempt, stored, err.Error())
	}

	o.mu.Lock()
	if !o.currentLocked(attempt) {
		o.mu.Unlock()
		return state
	}
	prev := o.state.Phase
	seq := o.setStateLocked(state)
	o.mu.Unlock()

	metrics.IncSubmissionFailed()
	metrics.ObserveSubmissionDurationMs(float64(time.Since(started).Milliseconds()))
	o.logTransition(attempt, prev, PhaseFailed)
	telemetry.Error("submission.failed", map[string]any{
		"form_id": o.formID,
		"edition": string(o.edition.Kind),
		"attempt": attempt,
		"error":   err.Error(),
	})
	o.present(seq, state)
	return state
}

func (o *Orchestrator) succeed(attempt int, started time.Time, c Confirmation) State {
	state := State{
		Phase:    PhaseSucceeded,
		Attempt:  attempt,
		BookName: c.BookName,
		Message:  o.edition.SuccessMessage,
	}

	o.mu.Lock()
	if !o.currentLocked(attempt) {
		o.mu.Unlock()
		return state
	}
	seq := o.setStateLocked(state)
	o.draft = Draft{Attachments: map[Slot]Attachment{}}
	o.mu.Unlock()

	metrics.IncSubmissionSucceeded()
	metrics.ObserveSubmissionDurationMs(float64(time.Since(started).Milliseconds()))
	o.logTransition(attempt, PhaseSubmitting, PhaseSucceeded)
	telemetry.Info("submission.succeeded", map[string]any{
		"form_id":   o.formID,
		"edition":   string(o.edition.Kind),
		"attempt":   attempt,
		"book_id":   c.ID,
		"book_name": c.BookName,
	})
	o.present(seq, state)
	return state
}

func (o *Orchestrator) failureMessage(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}
	var ue *AssetUploadError
	if errors.As(err, &ue) {
		return userMessage(ue.Err, o.edition.FallbackError)
	}
	var te *SubmissionTransportError
	if errors.As(err, &te) {
		return userMessage(te.Err, o.edition.FallbackError)
	}
	return userMessage(err, o.edition.FallbackError)
}

// reportOrphans logs assets left without a catalog record and hands them to the reporter.
func (o *Orchestrator) reportOrphans(ctx context.Context, attempt int, ids []string, reason string) {
	if len(ids) == 0 {
		return
	}
	metrics.AddOrphanedAssets(len(ids))
	telemetry.Warn("submission.orphaned_assets", map[string]any{
		"form_id":   o.formID,
		"attempt":   attempt,
		"asset_ids": ids,
		"reason":    reason,
	})
	if o.deps.Orphans == nil {
		return
	}
	if err := o.deps.Orphans.ReportOrphans(ctx, ids, reason); err != nil {
		telemetry.Error("submission.orphan_report_failed", map[string]any{
			"form_id": o.formID,
			"attempt": attempt,
			"error":   err.Error(),
		})
	}
}

func (o *Orchestrator) editableLocked() error {
	if o.retired {
		return ErrRetired
	}
	if o.state.InFlight() {
		return ErrSubmissionInFlight
	}
	return nil
}

func (o *Orchestrator) currentLocked(attempt int) bool {
	return !o.retired && o.attempt == attempt
}

// setStateLocked records s and returns its sequence number for present.
func (o *Orchestrator) setStateLocked(s State) uint64 {
	o.state = s
	o.seq++
	return o.seq
}

// present hands s to the presenter unless a newer state was already shown.
// Callers present after releasing mu, so a slow goroutine can arrive late.
func (o *Orchestrator) present(seq uint64, s State) {
	if o.deps.Presenter == nil {
		return
	}
	o.presentMu.Lock()
	defer o.presentMu.Unlock()
	if seq <= o.presented {
		return
	}
	o.presented = seq
	o.deps.Presenter.Present(s)
}

// retiredState ends an attempt whose form was closed while it ran.
func retiredState(attempt int) State {
	return State{Phase: PhaseFailed, Attempt: attempt, Error: ErrRetired.Error(), err: ErrRetired}
}

func (o *Orchestrator) logTransition(attempt int, from, to Phase) {
	telemetry.Info("submission.status", map[string]any{
		"form_id":           o.formID,
		"edition":           string(o.edition.Kind),
		"audience":          string(o.edition.Audience),
		"attempt":           attempt,
		"status":            string(to),
		"status_transition": string(from) + "->" + string(to),
	})
}
