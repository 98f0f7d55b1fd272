// internal/drafts/models.go
package drafts

import (
	"time"

	"dealer-admin/internal/models"
	"dealer-admin/internal/presentation"
)

type Step string

const (
	StepMainInfo Step = "main_info"
	StepSpecs    Step = "specs"
	StepSeo      Step = "seo"
	// StateComplete is terminal; it is never submitted as a step.
	StateComplete Step = "complete"
	// StateFinalizing marks a draft whose car is being created remotely.
	StateFinalizing Step = "finalizing"
)

// Steps is the fixed submission order.
var Steps = []Step{StepMainInfo, StepSpecs, StepSeo}

// Draft is an in-progress car listing. Each step fills one slice of it.
type Draft struct {
	ID             string              `json:"id"`
	State          Step                `json:"state"`
	CompletedSteps []Step              `json:"completedSteps"`
	MainInfo       *models.CarMainInfo `json:"mainInfo,omitempty"`
	Specs          *models.CarSpecs    `json:"specs,omitempty"`
	Seo            *models.CarSeo      `json:"seo,omitempty"`
	FinalizedCarID string              `json:"finalizedCarId,omitempty"`
	CreatedAt      time.Time           `json:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt"`
	// Version increases on every save; a save against an older version fails.
	Version int `json:"version"`
}

func (d *Draft) Completed(step Step) bool {
	for _, s := range d.CompletedSteps {
		if s == step {
			return true
		}
	}
	return false
}

func (d *Draft) IsComplete() bool {
	return d.State == StateComplete
}

// Locked reports whether the draft no longer accepts changes.
func (d *Draft) Locked() bool {
	return d.State == StateComplete || d.State == StateFinalizing
}

// slice returns the stored data of step, or nil when nothing was entered.
func (d *Draft) slice(step Step) interface{} {
	switch step {
	case StepMainInfo:
		if d.MainInfo != nil {
			return d.MainInfo
		}
	case StepSpecs:
		if d.Specs != nil {
			return d.Specs
		}
	case StepSeo:
		if d.Seo != nil {
			return d.Seo
		}
	}
	return nil
}

// StepView is what a step page needs to render.
type StepView struct {
	DraftID    string                   `json:"draftId"`
	Step       Step                     `json:"step"`
	State      Step                     `json:"state"`
	Stepper    presentation.StepperView `json:"stepper"`
	Data       interface{}              `json:"data,omitempty"`
	EmptyState *presentation.EmptyState `json:"emptyState,omitempty"`
	ReadOnly   bool                     `json:"readOnly"`
}

// carPayload is the body sent to the dealership API when a draft is
// finalized.
type carPayload struct {
	models.CarMainInfo
	Variants []models.Variant `json:"variants"`
	Seo      models.CarSeo    `json:"seo"`
}
