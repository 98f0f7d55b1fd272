// Package presentation maps workflow and record state onto what the admin
// UI renders: step progress, status badges and empty-step placeholders.
package presentation

import (
	"errors"
	"fmt"
)

var ErrStepOutOfRange = errors.New("current step out of range")

// StepperView is the progress bar of a multi-step form.
type StepperView struct {
	Steps   []string `json:"steps"`
	Current int      `json:"current"` // 1-based
	Label   string   `json:"label"`
	Width   string   `json:"width"`
}

// Stepper reports progress as current/len(steps). current is 1-based and
// must point at one of steps.
func Stepper(steps []string, current int) (StepperView, error) {
	if current < 1 || current > len(steps) {
		return StepperView{}, fmt.Errorf("%w: %d of %d", ErrStepOutOfRange, current, len(steps))
	}
	pct := float64(current) / float64(len(steps)) * 100
	return StepperView{
		Steps:   steps,
		Current: current,
		Label:   steps[current-1],
		Width:   fmt.Sprintf("%.2f%%", pct),
	}, nil
}
