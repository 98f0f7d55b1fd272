package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"dealer-admin/internal/common/config"
	apperrors "dealer-admin/internal/common/errors"
)

type brand struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewRemoteClient(config.RemoteAPIConfig{BaseURL: srv.URL + "/", Token: "secret", Timeout: 2000})
}

func TestClient_GetDecodesEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/location/city", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		_, _ = io.WriteString(w, `{"success":true,"message":"ok","data":[{"id":"1","name":"Riyadh"}]}`)
	})

	var out []brand
	err := client.Get(context.Background(), "location/city", url.Values{"page": {"2"}}, &out)
	require.NoError(t, err)
	assert.Equal(t, []brand{{ID: "1", Name: "Riyadh"}}, out)
}

func TestClient_PatchSendsBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/test-drive/42", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "confirmed", body["status"])
		_, _ = io.WriteString(w, `{"success":true,"data":null}`)
	})

	err := client.Patch(context.Background(), "/test-drive/42", map[string]string{"status": "confirmed"}, nil)
	assert.NoError(t, err)
}

func TestClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantCode  apperrors.ErrorCode
		retryable bool
	}{
		{"not found", http.StatusNotFound, `{"message":"no such brand"}`, apperrors.ErrCodeResourceNotFound, false},
		{"server error", http.StatusBadGateway, `upstream broke`, apperrors.ErrCodeRemoteAPIFailed, true},
		{"client error", http.StatusBadRequest, `{"message":"bad page"}`, apperrors.ErrCodeRemoteAPIFailed, false},
		{"envelope missing success", http.StatusOK, `{"data":[]}`, apperrors.ErrCodeRemoteAPIFailed, false},
		{"success false", http.StatusOK, `{"success":false,"message":"denied"}`, apperrors.ErrCodeRemoteAPIFailed, false},
		{"not json", http.StatusOK, `<html>`, apperrors.ErrCodeRemoteAPIFailed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			var out []brand
			err := client.Get(context.Background(), "/brand", nil, &out)
			require.Error(t, err)
			stdErr := apperrors.As(err)
			require.NotNil(t, stdErr)
			assert.Equal(t, tt.wantCode, stdErr.Code)
			assert.Equal(t, tt.retryable, stdErr.Retryable)
		})
	}
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := NewRemoteClient(config.RemoteAPIConfig{BaseURL: srv.URL, Timeout: 20})
	err := client.Get(context.Background(), "/brand", nil, nil)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeRemoteAPITimeout), "got %v", err)
}

func TestEndpointLabel(t *testing.T) {
	assert.Equal(t, "/model/model/brand/:id", EndpointLabel("/model/model/brand/17"))
	assert.Equal(t, "/test-drive/:id", EndpointLabel("test-drive/5f0c6a7e-6d1f-4c39-9f0e-1d5c2a8b7e10"))
	assert.Equal(t, "/location/city", EndpointLabel("location/city"))
}

func TestClient_PropagatesTraceContext(t *testing.T) {
	provider := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	var traceparent string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		traceparent = r.Header.Get("Traceparent")
		_, _ = io.WriteString(w, `{"success":true,"data":[]}`)
	})

	ctx, span := provider.Tracer("test").Start(context.Background(), "caller")
	defer span.End()

	require.NoError(t, client.Get(ctx, "/brand", nil, nil))
	require.NotEmpty(t, traceparent)
	assert.Contains(t, traceparent, span.SpanContext().TraceID().String())
}
