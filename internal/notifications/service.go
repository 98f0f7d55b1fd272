// Package notifications creates admin notifications on the dealership API
// and fans them out to subscribers.
package notifications

import (
	"context"

	"github.com/google/uuid"

	apperrors "dealer-admin/internal/common/errors"
	"dealer-admin/internal/common/i18n"
	"dealer-admin/internal/common/logger"
	"dealer-admin/internal/common/validation"
	"dealer-admin/internal/models"
	"dealer-admin/internal/schemas"
)

type Remote interface {
	Post(ctx context.Context, path string, body, out interface{}) error
}

type Service struct {
	remote    Remote
	publisher Publisher
	logger    logger.Logger
}

func NewService(remote Remote, publisher Publisher, log logger.Logger) *Service {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &Service{
		remote:    remote,
		publisher: publisher,
		logger:    log.WithFields(map[string]interface{}{"component": "notifications"}),
	}
}

// Create validates payload, stores the notification upstream and publishes
// it. A publish failure is reported after the notification was created.
func (s *Service) Create(ctx context.Context, locale i18n.Locale, payload map[string]interface{}) (*models.Notification, error) {
	var n models.Notification
	if err := validation.Check(payload, schemas.NotificationSchema, locale, &n); err != nil {
		return nil, err
	}
	n.ID = uuid.NewString()

	var created models.Notification
	if err := s.remote.Post(ctx, "/notification", n, &created); err != nil {
		return nil, err
	}
	if created.ID == "" {
		created = n
	}

	if err := s.publisher.Publish(ctx, &created); err != nil {
		s.logger.Error("notification created but publish failed", map[string]interface{}{
			"notificationId": created.ID,
			"error":          err.Error(),
		})
		return &created, apperrors.NewNotificationPublishFailedError(err).
			WithMetadata("notificationId", created.ID)
	}

	s.logger.Info("notification created", map[string]interface{}{
		"notificationId": created.ID,
		"type":           string(created.Type),
	})
	return &created, nil
}
