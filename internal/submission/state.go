package submission

// Phase is the step an attempt is in.
type Phase string

const (
	PhaseIdle              Phase = "idle"
	PhaseValidating        Phase = "validating"
	PhaseUploadingAssets   Phase = "uploading_assets"
	PhaseAssemblingPayload Phase = "assembling_payload"
	PhaseSubmitting        Phase = "submitting"
	PhaseSucceeded         Phase = "succeeded"
	PhaseFailed            Phase = "failed"
)

// Terminal reports whether the phase ends an attempt.
func (p Phase) Terminal() bool {
	return p == PhaseSucceeded || p == PhaseFailed
}

// InFlight reports whether an attempt is running.
func (p Phase) InFlight() bool {
	return p != PhaseIdle && !p.Terminal()
}

// State is the submission status exposed to the presenter.
type State struct {
	Phase      Phase             `json:"phase"`
	Attempt    int               `json:"attempt"`
	BookName   string            `json:"bookName,omitempty"`
	Message    string            `json:"message,omitempty"`
	Error      string            `json:"error,omitempty"`
	Violations map[string]string `json:"violations,omitempty"`

	err error
}

// InFlight reports whether an attempt is running.
func (s State) InFlight() bool {
	return s.Phase.InFlight()
}

// Err returns the typed failure behind a Failed state.
func (s State) Err() error {
	return s.err
}
