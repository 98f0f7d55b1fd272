package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "dealer-admin/internal/common/errors"
	"dealer-admin/internal/common/i18n"
	"dealer-admin/internal/common/logger"
	"dealer-admin/internal/models"
)

type fakeRemote struct {
	posted []models.Notification
	err    error
}

func (f *fakeRemote) Post(_ context.Context, path string, body, out interface{}) error {
	if f.err != nil {
		return f.err
	}
	n := body.(models.Notification)
	f.posted = append(f.posted, n)
	*(out.(*models.Notification)) = n
	return nil
}

type fakeSNS struct {
	inputs []*sns.PublishInput
	err    error
}

func (f *fakeSNS) Publish(_ context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.inputs = append(f.inputs, in)
	if f.err != nil {
		return nil, f.err
	}
	return &sns.PublishOutput{}, nil
}

func validPayload() map[string]interface{} {
	return map[string]interface{}{
		"title":   map[string]interface{}{"ar": "عرض جديد", "en": "New offer"},
		"message": map[string]interface{}{"ar": "خصم ١٠٪", "en": "10% off"},
		"date":    "2024-06-01",
		"type":    "offer",
	}
}

func TestCreate_PublishesToSNS(t *testing.T) {
	remote := &fakeRemote{}
	client := &fakeSNS{}
	svc := NewService(remote, NewSNSPublisher(client, "arn:aws:sns:me-south-1:123:dealer"), logger.NewTestLogger(t))

	n, err := svc.Create(context.Background(), i18n.English, validPayload())
	require.NoError(t, err)
	assert.NotEmpty(t, n.ID)
	require.Len(t, remote.posted, 1)

	require.Len(t, client.inputs, 1)
	in := client.inputs[0]
	assert.Equal(t, "arn:aws:sns:me-south-1:123:dealer", *in.TopicArn)
	assert.Equal(t, "New offer", *in.Subject)
	assert.Equal(t, "offer", *in.MessageAttributes["type"].StringValue)

	var body models.Notification
	require.NoError(t, json.Unmarshal([]byte(*in.Message), &body))
	assert.Equal(t, "عرض جديد", body.Title.Ar)
}

func TestCreate_ValidationFailure(t *testing.T) {
	remote := &fakeRemote{}
	svc := NewService(remote, nil, logger.NewNoOpLogger())

	payload := validPayload()
	payload["title"] = map[string]interface{}{"ar": "", "en": "New offer"}
	_, err := svc.Create(context.Background(), i18n.English, payload)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeValidationFailed))
	assert.Empty(t, remote.posted)
}

func TestCreate_PublishFailureAfterCreate(t *testing.T) {
	remote := &fakeRemote{}
	svc := NewService(remote, NewSNSPublisher(&fakeSNS{err: errors.New("throttled")}, "arn"), logger.NewTestLogger(t))

	n, err := svc.Create(context.Background(), i18n.English, validPayload())
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeNotificationPublishFailed))
	require.NotNil(t, n)
	assert.Len(t, remote.posted, 1)
	assert.Equal(t, n.ID, apperrors.As(err).Metadata["notificationId"])
}

func TestCreate_RemoteFailureSkipsPublish(t *testing.T) {
	client := &fakeSNS{}
	remote := &fakeRemote{err: apperrors.NewRemoteAPIFailedError("/notification", 502, errors.New("bad gateway"))}
	svc := NewService(remote, NewSNSPublisher(client, "arn"), logger.NewNoOpLogger())

	_, err := svc.Create(context.Background(), i18n.English, validPayload())
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeRemoteAPIFailed))
	assert.Empty(t, client.inputs)
}
