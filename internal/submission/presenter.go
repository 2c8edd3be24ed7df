package submission

import "sync"

// Presenter consumes state transitions to drive the busy indicator and result modal.
type Presenter interface {
	Present(State)
}

// PresenterFunc adapts a function to Presenter.
type PresenterFunc func(State)

// Present calls f(s).
func (f PresenterFunc) Present(s State) { f(s) }

// ModalMode selects how the result surface is rendered.
type ModalMode string

const (
	ModalSuccess ModalMode = "success"
	ModalError   ModalMode = "error"
)

// Modal is the result surface shown when an attempt ends.
type Modal struct {
	Mode     ModalMode `json:"mode"`
	BookName string    `json:"bookName,omitempty"`
	Message  string    `json:"message"`
}

// View is what the form renders around the inputs.
type View struct {
	Busy  bool   `json:"busy"`
	Modal *Modal `json:"modal,omitempty"`
}

// ViewPresenter keeps the current View for a form.
type ViewPresenter struct {
	mu   sync.Mutex
	view View
}

// NewViewPresenter returns a presenter in the neutral state.
func NewViewPresenter() *ViewPresenter {
	return &ViewPresenter{}
}

// Present applies a state transition to the view.
func (p *ViewPresenter) Present(s State) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch {
	case s.InFlight():
		p.view = View{Busy: true}
	case s.Phase == PhaseSucceeded:
		p.view = View{Modal: &Modal{Mode: ModalSuccess, BookName: s.BookName, Message: s.Message}}
	case s.Phase == PhaseFailed:
		p.view = View{Modal: &Modal{Mode: ModalError, Message: s.Error}}
	default:
		p.view = View{}
	}
}

// Dismiss closes the modal. The submission state is left alone.
func (p *ViewPresenter) Dismiss() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.view.Modal = nil
}

// View returns a copy of the current view.
func (p *ViewPresenter) View() View {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := p.view
	if out.Modal != nil {
		m := *out.Modal
		out.Modal = &m
	}
	return out
}
