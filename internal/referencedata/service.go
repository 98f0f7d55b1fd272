// Package referencedata serves dropdown lists and paginated record lists
// from the dealership API through the tagged query cache.
package referencedata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	apperrors "dealer-admin/internal/common/errors"
	"dealer-admin/internal/common/i18n"
	"dealer-admin/internal/common/logger"
	"dealer-admin/internal/common/validation"
	"dealer-admin/internal/models"
	"dealer-admin/internal/referencedata/queries"
	"dealer-admin/internal/referencedata/querycache"
	"dealer-admin/internal/schemas"
)

// Remote is the dealership API surface used for reads and the status
// mutation.
type Remote interface {
	queries.Remote
	Patch(ctx context.Context, path string, body, out interface{}) error
}

type Service struct {
	cache  *querycache.Cache
	remote Remote
	logger logger.Logger
}

func NewService(cache *querycache.Cache, remote Remote, log logger.Logger) *Service {
	return &Service{
		cache:  cache,
		remote: remote,
		logger: log.WithFields(map[string]interface{}{"component": "referencedata"}),
	}
}

func fetch[T any](ctx context.Context, s *Service, queryType models.QueryType, params map[string]string) (T, error) {
	var out T

	def, err := queries.Lookup(queryType)
	if err != nil {
		return out, apperrors.NewInternalError(err)
	}
	if _, _, err := def.Request(params); err != nil {
		return out, apperrors.NewInvalidRequestError(err.Error())
	}

	raw, err := s.cache.Fetch(ctx, queryType, params, def.Tags, func(ctx context.Context) ([]byte, error) {
		return queries.Execute(ctx, s.remote, queryType, params)
	})
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, apperrors.NewRemoteAPIFailedError(string(queryType), 0, fmt.Errorf("failed to decode %s: %w", queryType, err))
	}
	return out, nil
}

func (s *Service) Brands(ctx context.Context) ([]models.Brand, error) {
	return fetch[[]models.Brand](ctx, s, models.QueryTypeBrands, nil)
}

func (s *Service) ModelsByBrand(ctx context.Context, brandID string) ([]models.CarModel, error) {
	return fetch[[]models.CarModel](ctx, s, models.QueryTypeModelsByBrand, map[string]string{"brandId": brandID})
}

func (s *Service) Cities(ctx context.Context) ([]models.City, error) {
	return fetch[[]models.City](ctx, s, models.QueryTypeCities, nil)
}

func (s *Service) Reservations(ctx context.Context, req models.PageRequest) (models.Page[models.Reservation], error) {
	return fetch[models.Page[models.Reservation]](ctx, s, models.QueryTypeReservations, map[string]string{
		"page":  strconv.Itoa(req.Page),
		"limit": strconv.Itoa(req.Limit),
	})
}

func (s *Service) TestDrives(ctx context.Context, page int) (models.Page[models.TestDrive], error) {
	return fetch[models.Page[models.TestDrive]](ctx, s, models.QueryTypeTestDrives, map[string]string{
		"page": strconv.Itoa(page),
	})
}

// UpdateTestDriveStatus patches the status upstream and, once the remote
// accepted it, drops every cached test-drive list. It returns the status as
// sent upstream.
func (s *Service) UpdateTestDriveStatus(ctx context.Context, locale i18n.Locale, id string, status string) (models.TestDriveStatus, error) {
	if id == "" {
		return "", apperrors.NewInvalidRequestError("test drive id is required")
	}

	var req models.UpdateTestDriveStatusRequest
	if err := validation.Check(map[string]interface{}{"status": status}, schemas.TestDriveStatusSchema, locale, &req); err != nil {
		return "", err
	}

	if err := s.remote.Patch(ctx, "/test-drive/"+url.PathEscape(id), req, nil); err != nil {
		return "", err
	}

	if err := s.cache.Invalidate(ctx, models.TagTestDrive); err != nil {
		s.logger.Error("test drive updated but cache invalidation failed", map[string]interface{}{
			"testDriveId": id,
			"error":       err.Error(),
		})
	}

	s.logger.Info("test drive status updated", map[string]interface{}{
		"testDriveId": id,
		"status":      string(req.Status),
	})
	return req.Status, nil
}
