package web

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	apperrors "dealer-admin/internal/common/errors"
	"dealer-admin/internal/common/i18n"
	"dealer-admin/internal/common/logger"
	"dealer-admin/internal/common/result"
	"dealer-admin/internal/common/validation"
	"dealer-admin/internal/drafts"
	"dealer-admin/internal/models"
	"dealer-admin/internal/presentation"
	"dealer-admin/internal/schemas"
)

type ReferenceData interface {
	Brands(ctx context.Context) ([]models.Brand, error)
	ModelsByBrand(ctx context.Context, brandID string) ([]models.CarModel, error)
	Cities(ctx context.Context) ([]models.City, error)
	Reservations(ctx context.Context, req models.PageRequest) (models.Page[models.Reservation], error)
	TestDrives(ctx context.Context, page int) (models.Page[models.TestDrive], error)
	UpdateTestDriveStatus(ctx context.Context, locale i18n.Locale, id, status string) (models.TestDriveStatus, error)
}

type Drafts interface {
	Start(ctx context.Context) (*drafts.Draft, error)
	Load(ctx context.Context, locale i18n.Locale, id string, step drafts.Step) (*drafts.StepView, error)
	Submit(ctx context.Context, locale i18n.Locale, id string, step drafts.Step, payload map[string]interface{}) (*drafts.Draft, error)
	Finalize(ctx context.Context, id string) (*models.Car, error)
	Abandon(ctx context.Context, id string) error
	Machine() *drafts.Machine
}

type Notifications interface {
	Create(ctx context.Context, locale i18n.Locale, payload map[string]interface{}) (*models.Notification, error)
}

type Handler struct {
	reference     ReferenceData
	drafts        Drafts
	notifications Notifications
	errors        *apperrors.ErrorHandler
	indicator     result.Indicator
	logger        logger.Logger
}

func NewHandler(reference ReferenceData, draftSvc Drafts, notifications Notifications, log logger.Logger) *Handler {
	return &Handler{
		reference:     reference,
		drafts:        draftSvc,
		notifications: notifications,
		errors:        apperrors.NewErrorHandler(log),
		indicator:     result.LogIndicator(log),
		logger:        log,
	}
}

type testDriveRow struct {
	models.TestDrive
	Badge presentation.Badge `json:"badge"`
}

type reservationRow struct {
	models.Reservation
	Badge presentation.Badge `json:"badge"`
}

// ==========================
// Reference data
// ==========================

func (h *Handler) Brands(w http.ResponseWriter, r *http.Request) {
	brands, err := h.reference.Brands(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", brands)
}

func (h *Handler) ModelsByBrand(w http.ResponseWriter, r *http.Request) {
	carModels, err := h.reference.ModelsByBrand(r.Context(), chi.URLParam(r, "brandID"))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", carModels)
}

func (h *Handler) Cities(w http.ResponseWriter, r *http.Request) {
	cities, err := h.reference.Cities(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", cities)
}

func (h *Handler) Reservations(w http.ResponseWriter, r *http.Request) {
	var req models.PageRequest
	var err error
	if req.Page, err = queryInt(r, "page", 1); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	if req.Limit, err = queryInt(r, "limit", 10); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	if err := validateStruct(req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	page, err := h.reference.Reservations(r.Context(), req)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	locale := i18n.FromRequest(r)
	rows := make([]reservationRow, len(page.Items))
	for i, item := range page.Items {
		rows[i] = reservationRow{Reservation: item, Badge: presentation.ReservationStatusBadge(string(item.Status), locale)}
	}
	writeSuccess(w, http.StatusOK, "", models.Page[reservationRow]{Items: rows, Meta: page.Meta})
}

func (h *Handler) TestDrives(w http.ResponseWriter, r *http.Request) {
	pageNum, err := queryInt(r, "page", 1)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	if err := validateStruct(models.PageRequest{Page: pageNum, Limit: 1}); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	page, err := h.reference.TestDrives(r.Context(), pageNum)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	locale := i18n.FromRequest(r)
	rows := make([]testDriveRow, len(page.Items))
	for i, item := range page.Items {
		rows[i] = testDriveRow{TestDrive: item, Badge: presentation.TestDriveStatusBadge(string(item.Status), locale)}
	}
	writeSuccess(w, http.StatusOK, "", models.Page[testDriveRow]{Items: rows, Meta: page.Meta})
}

func (h *Handler) UpdateTestDriveStatus(w http.ResponseWriter, r *http.Request) {
	payload, err := readPayload(w, r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	status, _ := payload["status"].(string)
	id := chi.URLParam(r, "id")
	locale := i18n.FromRequest(r)

	res := result.Await(r.Context(), "update-test-drive-status", h.indicator, func(ctx context.Context) (models.TestDriveStatus, error) {
		return h.reference.UpdateTestDriveStatus(ctx, locale, id, status)
	})
	if !res.OK() {
		h.errors.Handle(w, r, res.Err)
		return
	}
	writeSuccess(w, http.StatusOK, locale.Pick("Status updated", "تم تحديث الحالة"), map[string]interface{}{
		"id":     id,
		"status": res.Value,
		"badge":  presentation.TestDriveStatusBadge(string(res.Value), locale),
	})
}

// ==========================
// Draft workflow
// ==========================

func (h *Handler) draftID(r *http.Request) (string, error) {
	id := r.URL.Query().Get("draft-id")
	if id == "" {
		return "", apperrors.NewInvalidRequestError("draft-id query parameter is required")
	}
	return id, nil
}

func (h *Handler) StartDraft(w http.ResponseWriter, r *http.Request) {
	d, err := h.drafts.Start(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "", map[string]interface{}{
		"draftId": d.ID,
		"state":   d.State,
	})
}

func (h *Handler) LoadDraftStep(w http.ResponseWriter, r *http.Request) {
	id, err := h.draftID(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	step, err := h.drafts.Machine().ParseStep(chi.URLParam(r, "step"))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	view, err := h.drafts.Load(r.Context(), i18n.FromRequest(r), id, step)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", view)
}

func (h *Handler) SubmitDraftStep(w http.ResponseWriter, r *http.Request) {
	id, err := h.draftID(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	step, err := h.drafts.Machine().ParseStep(chi.URLParam(r, "step"))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	payload, err := readPayload(w, r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	d, err := h.drafts.Submit(r.Context(), i18n.FromRequest(r), id, step, payload)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", map[string]interface{}{
		"draftId":        d.ID,
		"state":          d.State,
		"completedSteps": d.CompletedSteps,
	})
}

func (h *Handler) FinalizeDraft(w http.ResponseWriter, r *http.Request) {
	id, err := h.draftID(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	locale := i18n.FromRequest(r)

	res := result.Await(r.Context(), "finalize-draft", h.indicator, func(ctx context.Context) (*models.Car, error) {
		return h.drafts.Finalize(ctx, id)
	})
	if !res.OK() {
		h.errors.Handle(w, r, res.Err)
		return
	}
	writeSuccess(w, http.StatusCreated, locale.Pick("Car created", "تمت إضافة السيارة"), res.Value)
}

func (h *Handler) AbandonDraft(w http.ResponseWriter, r *http.Request) {
	id, err := h.draftID(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	if err := h.drafts.Abandon(r.Context(), id); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ==========================
// Content
// ==========================

func (h *Handler) CreateNotification(w http.ResponseWriter, r *http.Request) {
	payload, err := readPayload(w, r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	locale := i18n.FromRequest(r)

	res := result.Await(r.Context(), "create-notification", h.indicator, func(ctx context.Context) (*models.Notification, error) {
		return h.notifications.Create(ctx, locale, payload)
	})
	if !res.OK() {
		h.errors.Handle(w, r, res.Err)
		return
	}
	writeSuccess(w, http.StatusCreated, locale.Pick("Notification sent", "تم إرسال الإشعار"), res.Value)
}

func (h *Handler) ValidateNews(w http.ResponseWriter, r *http.Request) {
	payload, err := readPayload(w, r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	var news models.News
	if err := validation.Check(payload, schemas.NewsSchema, i18n.FromRequest(r), &news); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", news)
}
