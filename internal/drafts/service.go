// internal/drafts/service.go
package drafts

import (
	"context"
	"time"

	"github.com/google/uuid"

	apperrors "dealer-admin/internal/common/errors"
	"dealer-admin/internal/common/i18n"
	"dealer-admin/internal/common/logger"
	"dealer-admin/internal/common/validation"
	"dealer-admin/internal/models"
	"dealer-admin/internal/presentation"
	"dealer-admin/internal/schemas"
)

// Remote creates the finalized car on the dealership API.
type Remote interface {
	Post(ctx context.Context, path string, body, out interface{}) error
}

// maxSaveAttempts bounds retries after a DRAFT_CONFLICT.
const maxSaveAttempts = 3

// Service runs the add-car workflow. The draft id is the only state the
// caller carries between steps.
type Service struct {
	store   Store
	machine *Machine
	remote  Remote
	indexer Indexer
	logger  logger.Logger
	now     func() time.Time
}

func NewService(store Store, remote Remote, indexer Indexer, log logger.Logger) *Service {
	if indexer == nil {
		indexer = NopIndexer{}
	}
	return &Service{
		store:   store,
		machine: NewMachine(),
		remote:  remote,
		indexer: indexer,
		logger:  log.WithFields(map[string]interface{}{"component": "drafts"}),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) Machine() *Machine {
	return s.machine
}

// Start opens a new draft positioned on the first step.
func (s *Service) Start(ctx context.Context) (*Draft, error) {
	now := s.now()
	d := &Draft{
		ID:             uuid.NewString(),
		State:          StepMainInfo,
		CompletedSteps: []Step{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.Create(ctx, d); err != nil {
		return nil, err
	}
	s.logger.Info("draft started", map[string]interface{}{"draftId": d.ID})
	return d, nil
}

func (s *Service) get(ctx context.Context, id string) (*Draft, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.NewDraftNotFoundError(id)
	}
	return s.store.Get(ctx, id)
}

// Load returns what the step page renders: stored data or an empty state,
// plus progress. Steps whose predecessors are unfinished are refused.
func (s *Service) Load(ctx context.Context, locale i18n.Locale, id string, step Step) (*StepView, error) {
	d, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.machine.CanVisit(d, step); err != nil {
		return nil, err
	}

	idx, _ := s.machine.Index(step)
	stepper, err := presentation.Stepper(s.machine.Labels(), idx+1)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	view := &StepView{
		DraftID:  d.ID,
		Step:     step,
		State:    d.State,
		Stepper:  stepper,
		ReadOnly: d.Locked(),
	}
	if data := d.slice(step); data != nil {
		view.Data = data
	} else {
		es := presentation.StepEmptyState(string(step), locale)
		view.EmptyState = &es
	}
	return view, nil
}

// Submit validates payload for step and stores it on the draft.
func (s *Service) Submit(ctx context.Context, locale i18n.Locale, id string, step Step, payload map[string]interface{}) (*Draft, error) {
	switch step {
	case StepMainInfo:
		return s.SubmitMainInfo(ctx, locale, id, payload)
	case StepSpecs:
		return s.SubmitSpecs(ctx, locale, id, payload)
	case StepSeo:
		return s.SubmitSeo(ctx, locale, id, payload)
	default:
		return nil, apperrors.NewInvalidRequestError("unknown step " + string(step))
	}
}

func (s *Service) SubmitMainInfo(ctx context.Context, locale i18n.Locale, id string, payload map[string]interface{}) (*Draft, error) {
	var info models.CarMainInfo
	return s.submit(ctx, locale, id, StepMainInfo, payload, schemas.AddCarMainDetailsSchema, &info, func(d *Draft) {
		d.MainInfo = &info
	})
}

func (s *Service) SubmitSpecs(ctx context.Context, locale i18n.Locale, id string, payload map[string]interface{}) (*Draft, error) {
	var specs models.CarSpecs
	return s.submit(ctx, locale, id, StepSpecs, payload, schemas.AddCarSpecsSchema, &specs, func(d *Draft) {
		d.Specs = &specs
	})
}

func (s *Service) SubmitSeo(ctx context.Context, locale i18n.Locale, id string, payload map[string]interface{}) (*Draft, error) {
	var seo models.CarSeo
	return s.submit(ctx, locale, id, StepSeo, payload, schemas.AddCarSeoSchema, &seo, func(d *Draft) {
		d.Seo = &seo
	})
}

func (s *Service) submit(
	ctx context.Context,
	locale i18n.Locale,
	id string,
	step Step,
	payload map[string]interface{},
	schema validation.JSONSchema,
	dst interface{},
	apply func(*Draft),
) (*Draft, error) {
	d, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	// step order is reported ahead of payload errors
	if d.Locked() {
		return nil, apperrors.NewDraftFinalizedError(d.ID)
	}
	if err := s.machine.CanVisit(d, step); err != nil {
		return nil, err
	}

	if err := validation.Check(payload, schema, locale, dst); err != nil {
		return nil, err
	}

	for attempt := 1; ; attempt++ {
		if err := s.machine.Submit(d, step); err != nil {
			return nil, err
		}
		apply(d)
		d.UpdatedAt = s.now()

		err := s.store.Save(ctx, d)
		if err == nil {
			break
		}
		if !apperrors.HasCode(err, apperrors.ErrCodeDraftConflict) || attempt == maxSaveAttempts {
			return nil, err
		}
		// another request saved first; replay this step on top of it
		if d, err = s.get(ctx, id); err != nil {
			return nil, err
		}
	}

	s.logger.Info("draft step submitted", map[string]interface{}{
		"draftId": d.ID,
		"step":    string(step),
		"state":   string(d.State),
	})
	return d, nil
}

// Finalize publishes a fully submitted draft as a car and marks the draft
// complete. The draft is claimed before the car is created so concurrent
// calls create at most one car. Search indexing is best effort.
func (s *Service) Finalize(ctx context.Context, id string) (*models.Car, error) {
	d, err := s.claim(ctx, id)
	if err != nil {
		return nil, err
	}

	payload := carPayload{CarMainInfo: *d.MainInfo, Variants: d.Specs.Variants, Seo: *d.Seo}
	var car models.Car
	if err := s.remote.Post(ctx, "/car", payload, &car); err != nil {
		s.release(ctx, d)
		return nil, err
	}

	if err := s.machine.Finalize(d); err != nil {
		return nil, err
	}
	d.FinalizedCarID = car.ID
	d.UpdatedAt = s.now()
	if err := s.store.Save(context.WithoutCancel(ctx), d); err != nil {
		s.logger.Error("car created but draft could not be marked complete", map[string]interface{}{
			"draftId": d.ID,
			"carId":   car.ID,
			"error":   err.Error(),
		})
		return nil, err
	}

	if err := s.indexer.IndexCar(ctx, &car); err != nil {
		s.logger.Warn("car search indexing failed", map[string]interface{}{
			"carId": car.ID,
			"error": err.Error(),
		})
	}

	s.logger.Info("draft finalized", map[string]interface{}{"draftId": d.ID, "carId": car.ID})
	return &car, nil
}

// claim moves the draft to StateFinalizing. Losing a race against another
// claim reports DRAFT_FINALIZED.
func (s *Service) claim(ctx context.Context, id string) (*Draft, error) {
	for attempt := 1; ; attempt++ {
		d, err := s.get(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := s.machine.Claim(d); err != nil {
			return nil, err
		}
		d.UpdatedAt = s.now()
		err = s.store.Save(ctx, d)
		if err == nil {
			return d, nil
		}
		if !apperrors.HasCode(err, apperrors.ErrCodeDraftConflict) || attempt == maxSaveAttempts {
			return nil, err
		}
	}
}

// release undoes a claim after the car could not be created.
func (s *Service) release(ctx context.Context, d *Draft) {
	s.machine.Release(d)
	d.UpdatedAt = s.now()
	if err := s.store.Save(context.WithoutCancel(ctx), d); err != nil {
		s.logger.Error("draft claim could not be released", map[string]interface{}{
			"draftId": d.ID,
			"error":   err.Error(),
		})
	}
}

// Abandon discards a draft. Finalized drafts are kept as a record of the
// car they produced.
func (s *Service) Abandon(ctx context.Context, id string) error {
	d, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if d.Locked() {
		return apperrors.NewDraftFinalizedError(d.ID)
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("draft abandoned", map[string]interface{}{"draftId": id})
	return nil
}

// PurgeStale removes unfinished drafts untouched for longer than olderThan.
func (s *Service) PurgeStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := s.now().Add(-olderThan)
	n, err := s.store.DeleteStale(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("stale drafts purged", map[string]interface{}{"count": n, "cutoff": cutoff})
	}
	return n, nil
}
