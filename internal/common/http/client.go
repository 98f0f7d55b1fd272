// internal/common/http/client.go
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"dealer-admin/internal/common/config"
	apperrors "dealer-admin/internal/common/errors"
	"dealer-admin/internal/common/metrics"
)

const envelopeSchema = `{
	"type": "object",
	"properties": {
		"success": {"type": "boolean"},
		"message": {"type": ["string", "null"]}
	},
	"required": ["success"]
}`

var idSegment = regexp.MustCompile(`^([0-9]+|[0-9a-fA-F-]{32,36})$`)

var tracer = otel.Tracer("dealer-admin/remote")

// Client talks to the dealership API. Every response is expected inside the
// {success, message, data} envelope.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	envelope   *gojsonschema.Schema
}

func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		envelope: mustEnvelope(),
	}
}

// NewRemoteClient builds a client for the configured dealership API.
func NewRemoteClient(cfg config.RemoteAPIConfig) *Client {
	c := NewClient(config.GetDuration(cfg.Timeout))
	c.baseURL = strings.TrimRight(cfg.BaseURL, "/")
	c.token = cfg.Token
	return c
}

func mustEnvelope() *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(envelopeSchema))
	if err != nil {
		panic(fmt.Sprintf("invalid envelope schema: %v", err))
	}
	return schema
}

// Get fetches path and decodes the envelope's data into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.call(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.call(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) Patch(ctx context.Context, path string, body, out interface{}) error {
	return c.call(ctx, http.MethodPatch, path, nil, body, out)
}

func (c *Client) call(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	endpoint := EndpointLabel(path)
	ctx, span := tracer.Start(ctx, method+" "+endpoint,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("remote.endpoint", endpoint),
		),
	)
	defer span.End()

	err := c.send(ctx, method, endpoint, path, query, body, out)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (c *Client) send(ctx context.Context, method, endpoint, path string, query url.Values, body, out interface{}) error {
	target := c.baseURL + "/" + strings.TrimPrefix(path, "/")
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return apperrors.NewInvalidRequestError(fmt.Sprintf("failed to marshal request: %v", err))
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return apperrors.NewRemoteAPIFailedError(endpoint, 0, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.RemoteRequestDuration.WithLabelValues(method, endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RemoteRequests.WithLabelValues(method, endpoint, "error").Inc()
		if isTimeout(err) {
			return apperrors.NewRemoteAPITimeoutError(endpoint, err)
		}
		return apperrors.NewRemoteAPIFailedError(endpoint, 0, fmt.Errorf("failed to execute request: %w", err))
	}
	defer resp.Body.Close()
	metrics.RemoteRequests.WithLabelValues(method, endpoint, strconv.Itoa(resp.StatusCode)).Inc()
	trace.SpanFromContext(ctx).SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.NewRemoteAPIFailedError(endpoint, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err))
	}

	if resp.StatusCode == http.StatusNotFound {
		return apperrors.NewResourceNotFoundError(endpoint, remoteMessage(raw))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apperrors.NewRemoteAPIFailedError(endpoint, resp.StatusCode, errors.New(remoteMessage(raw)))
	}

	return c.decodeEnvelope(endpoint, resp.StatusCode, raw, out)
}

func (c *Client) decodeEnvelope(endpoint string, status int, raw []byte, out interface{}) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		if out == nil {
			return nil
		}
		return apperrors.NewRemoteAPIFailedError(endpoint, status, errors.New("empty response body"))
	}

	check, err := c.envelope.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return apperrors.NewRemoteAPIFailedError(endpoint, status, fmt.Errorf("failed to parse response: %w", err))
	}
	if !check.Valid() {
		msgs := make([]string, 0, len(check.Errors()))
		for _, e := range check.Errors() {
			msgs = append(msgs, e.String())
		}
		return apperrors.NewRemoteAPIFailedError(endpoint, status, fmt.Errorf("unexpected response shape: %s", strings.Join(msgs, "; ")))
	}

	var env struct {
		Success bool            `json:"success"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return apperrors.NewRemoteAPIFailedError(endpoint, status, fmt.Errorf("failed to unmarshal response: %w", err))
	}
	if !env.Success {
		return apperrors.NewRemoteAPIFailedError(endpoint, status, fmt.Errorf("remote reported failure: %s", env.Message))
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return apperrors.NewRemoteAPIFailedError(endpoint, status, fmt.Errorf("failed to decode data: %w", err))
	}
	return nil
}

func remoteMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Message != "" {
		return body.Message
	}
	if len(raw) > 256 {
		raw = raw[:256]
	}
	return string(raw)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// EndpointLabel collapses id-like path segments so metric labels stay bounded.
func EndpointLabel(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, s := range segments {
		if idSegment.MatchString(s) {
			segments[i] = ":id"
		}
	}
	return "/" + strings.Join(segments, "/")
}
