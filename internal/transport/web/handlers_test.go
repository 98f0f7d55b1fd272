package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "dealer-admin/internal/common/errors"
	"dealer-admin/internal/common/i18n"
	"dealer-admin/internal/common/logger"
	"dealer-admin/internal/drafts"
	"dealer-admin/internal/models"
	"dealer-admin/internal/presentation"
)

// ====== Test Helper Functions ======

type fakeReference struct {
	brands      []models.Brand
	testDrives  []models.TestDrive
	lastPage    models.PageRequest
	updateErr   error
	updatedID   string
	updatedWith string
}

func (f *fakeReference) Brands(context.Context) ([]models.Brand, error) { return f.brands, nil }

func (f *fakeReference) ModelsByBrand(_ context.Context, brandID string) ([]models.CarModel, error) {
	if brandID == "missing" {
		return nil, apperrors.NewResourceNotFoundError("/model/model/brand/:id", "no such brand")
	}
	return []models.CarModel{{ID: "m1", Name: "Camry"}}, nil
}

func (f *fakeReference) Cities(context.Context) ([]models.City, error) { return nil, nil }

func (f *fakeReference) Reservations(_ context.Context, req models.PageRequest) (models.Page[models.Reservation], error) {
	f.lastPage = req
	return models.Page[models.Reservation]{Items: []models.Reservation{{ID: "r1", Status: models.ReservationPending}}}, nil
}

func (f *fakeReference) TestDrives(context.Context, int) (models.Page[models.TestDrive], error) {
	return models.Page[models.TestDrive]{Items: f.testDrives}, nil
}

func (f *fakeReference) UpdateTestDriveStatus(_ context.Context, _ i18n.Locale, id, status string) (models.TestDriveStatus, error) {
	f.updatedID, f.updatedWith = id, status
	if f.updateErr != nil {
		return "", f.updateErr
	}
	return models.TestDriveStatus(strings.TrimSpace(status)), nil
}

type fakeDrafts struct {
	machine  *drafts.Machine
	started  int
	abandon  error
	finalize error
	payload  map[string]interface{}
	step     drafts.Step
}

func (f *fakeDrafts) Start(context.Context) (*drafts.Draft, error) {
	f.started++
	return &drafts.Draft{ID: "d-1", State: drafts.StepMainInfo}, nil
}

func (f *fakeDrafts) Load(_ context.Context, _ i18n.Locale, id string, step drafts.Step) (*drafts.StepView, error) {
	return &drafts.StepView{DraftID: id, Step: step, State: drafts.StepMainInfo}, nil
}

func (f *fakeDrafts) Submit(_ context.Context, _ i18n.Locale, id string, step drafts.Step, payload map[string]interface{}) (*drafts.Draft, error) {
	f.step, f.payload = step, payload
	return &drafts.Draft{ID: id, State: drafts.StepSpecs, CompletedSteps: []drafts.Step{step}}, nil
}

func (f *fakeDrafts) Finalize(_ context.Context, id string) (*models.Car, error) {
	if f.finalize != nil {
		return nil, f.finalize
	}
	return &models.Car{ID: "car-9"}, nil
}

func (f *fakeDrafts) Abandon(context.Context, string) error { return f.abandon }

func (f *fakeDrafts) Machine() *drafts.Machine { return f.machine }

type fakeNotifications struct {
	err error
}

func (f *fakeNotifications) Create(_ context.Context, _ i18n.Locale, payload map[string]interface{}) (*models.Notification, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Notification{ID: "n-1", Type: models.NotificationGeneral}, nil
}

type fixture struct {
	reference     *fakeReference
	drafts        *fakeDrafts
	notifications *fakeNotifications
	router        http.Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := logger.NewTestLogger(t)
	f := &fixture{
		reference:     &fakeReference{brands: []models.Brand{{ID: "b1", Name: "Toyota"}}},
		drafts:        &fakeDrafts{machine: drafts.NewMachine()},
		notifications: &fakeNotifications{},
	}
	h := NewHandler(f.reference, f.drafts, f.notifications, log)
	f.router = NewRouter(h, RouterOptions{AllowedOrigins: []string{"*"}, Logger: log})
	return f
}

func (f *fixture) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

// ====== Tests ======

func TestBrands(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/api/brands?locale=ar", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ar", rec.Header().Get("Content-Language"))
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Len(t, body["data"], 1)
}

func TestModelsByBrand_NotFound(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/api/brands/missing/models", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, string(apperrors.ErrCodeResourceNotFound), decodeBody(t, rec)["code"])
}

func TestReservations_Paging(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantPage   models.PageRequest
	}{
		{"defaults", "", http.StatusOK, models.PageRequest{Page: 1, Limit: 10}},
		{"explicit", "?page=3&limit=25", http.StatusOK, models.PageRequest{Page: 3, Limit: 25}},
		{"zero page", "?page=0", http.StatusUnprocessableEntity, models.PageRequest{}},
		{"limit too large", "?limit=500", http.StatusUnprocessableEntity, models.PageRequest{}},
		{"not a number", "?page=two", http.StatusBadRequest, models.PageRequest{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			rec := f.do(t, http.MethodGet, "/api/reservations"+tt.query, "")
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.Equal(t, tt.wantPage, f.reference.lastPage)
		})
	}
}

func TestTestDrives_RowsCarryBadges(t *testing.T) {
	f := newFixture(t)
	f.reference.testDrives = []models.TestDrive{
		{ID: "t1", Status: models.TestDriveConfirmed},
		{ID: "t2", Status: "rescheduled"},
	}

	rec := f.do(t, http.MethodGet, "/api/test-drives", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data struct {
			Items []struct {
				ID    string             `json:"id"`
				Badge presentation.Badge `json:"badge"`
			} `json:"items"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data.Items, 2)
	assert.Equal(t, "Confirmed", body.Data.Items[0].Badge.Label)
	assert.Equal(t, presentation.ToneNeutral, body.Data.Items[1].Badge.Tone)
}

func TestUpdateTestDriveStatus(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPatch, "/api/test-drives/42", `{"status":"completed"}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "42", f.reference.updatedID)
	assert.Equal(t, "completed", f.reference.updatedWith)
}

func TestUpdateTestDriveStatus_RendersStoredStatus(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPatch, "/api/test-drives/42", `{"status":" confirmed "}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	data := decodeBody(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, "confirmed", data["status"])
	assert.Equal(t, "Confirmed", data["badge"].(map[string]interface{})["label"])
}

func TestUpdateTestDriveStatus_SurfacesFailure(t *testing.T) {
	f := newFixture(t)
	f.reference.updateErr = apperrors.NewRemoteAPIFailedError("/test-drive/:id", http.StatusBadGateway, errors.New("down"))

	rec := f.do(t, http.MethodPatch, "/api/test-drives/42", `{"status":"completed"}`)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["error"])
	assert.Equal(t, string(apperrors.ErrCodeRemoteAPIFailed), body["code"])
}

func TestUpdateTestDriveStatus_BadBody(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPatch, "/api/test-drives/42", `{"status":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, f.reference.updatedID)
}

func TestDraftFlow(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/cars/draft", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "d-1", decodeBody(t, rec)["data"].(map[string]interface{})["draftId"])

	rec = f.do(t, http.MethodGet, "/api/cars/draft/main-info?draft-id=d-1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPut, "/api/cars/draft/specs?draft-id=d-1", `{"variants":[]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, drafts.StepSpecs, f.drafts.step)
	assert.Contains(t, f.drafts.payload, "variants")

	rec = f.do(t, http.MethodPost, "/api/cars/draft/finalize?draft-id=d-1", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "car-9", decodeBody(t, rec)["data"].(map[string]interface{})["id"])

	rec = f.do(t, http.MethodDelete, "/api/cars/draft?draft-id=d-1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestDraft_Errors(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		target     string
		setup      func(*fakeDrafts)
		wantStatus int
		wantCode   apperrors.ErrorCode
	}{
		{
			name:       "missing draft id",
			method:     http.MethodGet,
			target:     "/api/cars/draft/specs",
			wantStatus: http.StatusBadRequest,
			wantCode:   apperrors.ErrCodeInvalidRequest,
		},
		{
			name:       "unknown step",
			method:     http.MethodGet,
			target:     "/api/cars/draft/pricing?draft-id=d-1",
			wantStatus: http.StatusBadRequest,
			wantCode:   apperrors.ErrCodeInvalidRequest,
		},
		{
			name:   "finalize incomplete",
			method: http.MethodPost,
			target: "/api/cars/draft/finalize?draft-id=d-1",
			setup: func(d *fakeDrafts) {
				d.finalize = apperrors.NewDraftIncompleteError("d-1", []string{"seo"})
			},
			wantStatus: apperrors.HTTPStatus(apperrors.ErrCodeDraftIncomplete),
			wantCode:   apperrors.ErrCodeDraftIncomplete,
		},
		{
			name:   "abandon unknown",
			method: http.MethodDelete,
			target: "/api/cars/draft?draft-id=nope",
			setup: func(d *fakeDrafts) {
				d.abandon = apperrors.NewDraftNotFoundError("nope")
			},
			wantStatus: http.StatusNotFound,
			wantCode:   apperrors.ErrCodeDraftNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.setup != nil {
				tt.setup(f.drafts)
			}
			rec := f.do(t, tt.method, tt.target, "")
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.Equal(t, string(tt.wantCode), decodeBody(t, rec)["code"])
		})
	}
}

func TestCreateNotification(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/api/notifications?locale=ar", `{"title":{"ar":"عرض","en":"Offer"}}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "تم إرسال الإشعار", body["message"])
}

func TestCreateNotification_PublishFailure(t *testing.T) {
	f := newFixture(t)
	f.notifications.err = apperrors.NewNotificationPublishFailedError(errors.New("sns down"))

	rec := f.do(t, http.MethodPost, "/api/notifications", `{}`)

	assert.Equal(t, apperrors.HTTPStatus(apperrors.ErrCodeNotificationPublishFailed), rec.Code)
}

func TestValidateNews(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/news/validate", `{"title":{"ar":"","en":"Launch"}}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, string(apperrors.ErrCodeValidationFailed), body["code"])
	assert.NotEmpty(t, body["fields"])
}

func TestHealthAndReady(t *testing.T) {
	log := logger.NewNoOpLogger()
	h := NewHandler(&fakeReference{}, &fakeDrafts{machine: drafts.NewMachine()}, &fakeNotifications{}, log)
	router := NewRouter(h, RouterOptions{
		Logger: log,
		Dependencies: map[string]Pinger{
			"redis":    pingerFunc(func(context.Context) error { return nil }),
			"postgres": pingerFunc(func(context.Context) error { return errors.New("connection refused") }),
		},
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")
}

type pingerFunc func(context.Context) error

func (p pingerFunc) Ping(ctx context.Context) error { return p(ctx) }
