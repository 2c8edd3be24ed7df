package bookctl

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"bookstore-admin/internal/submission"
)

var phaseLabels = map[submission.Phase]string{
	submission.PhaseValidating:        "validating draft",
	submission.PhaseUploadingAssets:   "uploading attachments",
	submission.PhaseAssemblingPayload: "assembling catalog record",
	submission.PhaseSubmitting:        "creating book",
}

// terminalPresenter prints one line per transition.
type terminalPresenter struct {
	mu sync.Mutex
	w  io.Writer
}

func newTerminalPresenter(w io.Writer) *terminalPresenter {
	return &terminalPresenter{w: w}
}

func (p *terminalPresenter) Present(s submission.State) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch {
	case s.InFlight():
		fmt.Fprintf(p.w, "... %s\n", phaseLabels[s.Phase])
	case s.Phase == submission.PhaseSucceeded:
		fmt.Fprintf(p.w, "OK  %s\n", s.Message)
		if s.BookName != "" {
			fmt.Fprintf(p.w, "    %s\n", s.BookName)
		}
	case s.Phase == submission.PhaseFailed:
		fmt.Fprintf(p.w, "ERR %s\n", s.Error)
		writeViolations(p.w, s.Violations)
	}
}

func writeViolations(w io.Writer, violations map[string]string) {
	fields := make([]string, 0, len(violations))
	for f := range violations {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		fmt.Fprintf(w, "    %s %s\n", f, violations[f])
	}
}

// stderrOrphans prints assets that were stored but never attached to a book.
// The remote API has no endpoint for reporting them.
type stderrOrphans struct {
	w io.Writer
}

func (o stderrOrphans) ReportOrphans(_ context.Context, ids []string, reason string) error {
	_, err := fmt.Fprintf(o.w, "unattached assets (%s): %s\n", reason, strings.Join(ids, ", "))
	return err
}
