package drafts

import (
	"fmt"
	"strings"

	apperrors "dealer-admin/internal/common/errors"
	"dealer-admin/internal/common/metrics"
)

// Machine enforces step order: a step may be visited or submitted only
// after every earlier step was submitted, and nothing changes once a draft
// is complete.
type Machine struct {
	steps []Step
}

func NewMachine() *Machine {
	return &Machine{steps: Steps}
}

func (m *Machine) Index(step Step) (int, bool) {
	for i, s := range m.steps {
		if s == step {
			return i, true
		}
	}
	return -1, false
}

// ParseStep accepts the step names used in URLs.
func (m *Machine) ParseStep(raw string) (Step, error) {
	step := Step(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), "-", "_"))
	if _, ok := m.Index(step); !ok {
		return "", apperrors.NewInvalidRequestError(fmt.Sprintf("unknown step %q", raw))
	}
	return step, nil
}

func (m *Machine) CanVisit(d *Draft, step Step) error {
	idx, ok := m.Index(step)
	if !ok {
		return apperrors.NewInvalidRequestError(fmt.Sprintf("unknown step %q", step))
	}
	for _, earlier := range m.steps[:idx] {
		if !d.Completed(earlier) {
			return apperrors.NewStepOutOfOrderError(string(step), string(earlier))
		}
	}
	return nil
}

// Submit records step as completed and moves the draft to its first
// incomplete step. Resubmitting a completed step is allowed.
func (m *Machine) Submit(d *Draft, step Step) error {
	if d.Locked() {
		metrics.DraftTransitions.WithLabelValues(string(step), "finalized").Inc()
		return apperrors.NewDraftFinalizedError(d.ID)
	}
	if err := m.CanVisit(d, step); err != nil {
		metrics.DraftTransitions.WithLabelValues(string(step), "rejected").Inc()
		return err
	}
	if !d.Completed(step) {
		d.CompletedSteps = append(d.CompletedSteps, step)
	}
	d.State = m.next(d)
	metrics.DraftTransitions.WithLabelValues(string(step), "accepted").Inc()
	return nil
}

// Claim moves a fully submitted draft to StateFinalizing. Only one caller
// can hold the claim; Finalize or Release ends it.
func (m *Machine) Claim(d *Draft) error {
	if d.Locked() {
		return apperrors.NewDraftFinalizedError(d.ID)
	}
	if missing := m.Missing(d); len(missing) > 0 {
		metrics.DraftTransitions.WithLabelValues(string(StateComplete), "rejected").Inc()
		return missingError(d.ID, missing)
	}
	d.State = StateFinalizing
	return nil
}

// Release returns a claimed draft to its last step.
func (m *Machine) Release(d *Draft) {
	if d.State == StateFinalizing {
		d.State = m.next(d)
	}
}

// Finalize moves a fully submitted draft to the terminal state.
func (m *Machine) Finalize(d *Draft) error {
	if d.IsComplete() {
		return apperrors.NewDraftFinalizedError(d.ID)
	}
	if missing := m.Missing(d); len(missing) > 0 {
		metrics.DraftTransitions.WithLabelValues(string(StateComplete), "rejected").Inc()
		return missingError(d.ID, missing)
	}
	d.State = StateComplete
	metrics.DraftTransitions.WithLabelValues(string(StateComplete), "accepted").Inc()
	return nil
}

func missingError(id string, missing []Step) error {
	names := make([]string, len(missing))
	for i, s := range missing {
		names[i] = string(s)
	}
	return apperrors.NewDraftIncompleteError(id, names)
}

func (m *Machine) Missing(d *Draft) []Step {
	var missing []Step
	for _, s := range m.steps {
		if !d.Completed(s) {
			missing = append(missing, s)
		}
	}
	return missing
}

// next is the first incomplete step, or the last step when all are done.
func (m *Machine) next(d *Draft) Step {
	for _, s := range m.steps {
		if !d.Completed(s) {
			return s
		}
	}
	return m.steps[len(m.steps)-1]
}

// Labels returns the step names for the stepper.
func (m *Machine) Labels() []string {
	out := make([]string, len(m.steps))
	for i, s := range m.steps {
		out[i] = string(s)
	}
	return out
}
