// Package firebase is a minimal Realtime Database REST client: every path is
// addressed as <base>/<path>.json and read, merged or appended with JSON bodies.
package firebase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"market-admin/internal/common/config"
	"market-admin/internal/common/errors"
	commonhttp "market-admin/internal/common/http"
	"market-admin/internal/common/logger"
	"market-admin/internal/common/metrics"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "market-admin/firebase"

// Store is the subset of the client used by the moderation actions.
type Store interface {
	Get(ctx context.Context, path string, out interface{}) (bool, error)
	Patch(ctx context.Context, path string, fields interface{}) error
	Post(ctx context.Context, path string, body interface{}) (string, error)
}

type Client struct {
	baseURL    string
	authToken  string
	httpClient *commonhttp.Client
	logger     logger.Logger
	tracer     trace.Tracer
}

func NewClient(cfg config.StoreConfig, httpClient *commonhttp.Client, log logger.Logger) *Client {
	base := cfg.BaseURL
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	if httpClient == nil {
		httpClient = commonhttp.NewClient(config.GetDuration(cfg.Timeout))
	}
	return &Client{
		baseURL:    base,
		authToken:  cfg.AuthToken,
		httpClient: httpClient,
		logger:     log.WithFields(map[string]interface{}{"component": "firebase"}),
		tracer:     otel.Tracer(tracerName),
	}
}

// Get decodes the value at path into out. A JSON null reply reports
// found=false and leaves out untouched.
func (c *Client) Get(ctx context.Context, path string, out interface{}) (bool, error) {
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return false, err
	}
	if isNull(body) {
		return false, nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return false, errors.NewStoreDecodeFailedError(path, err)
	}
	return true, nil
}

// Patch merges fields into the document at path.
func (c *Client) Patch(ctx context.Context, path string, fields interface{}) error {
	_, err := c.do(ctx, http.MethodPatch, path, fields)
	return err
}

// Post appends body under path and returns the generated push key.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (string, error) {
	resp, err := c.do(ctx, http.MethodPost, path, body)
	if err != nil {
		return "", err
	}
	var pushed struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(resp, &pushed); err != nil {
		return "", errors.NewStoreDecodeFailedError(path, err)
	}
	return pushed.Name, nil
}

// Ping issues a shallow read of the database root.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.doURL(ctx, http.MethodGet, "", c.buildURL("", url.Values{"shallow": {"true"}}), nil)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
	return c.doURL(ctx, method, path, c.buildURL(path, nil), payload)
}

func (c *Client) doURL(ctx context.Context, method, path, target string, payload interface{}) ([]byte, error) {
	ctx, span := c.tracer.Start(ctx, "firebase."+strings.ToLower(method), trace.WithAttributes(
		attribute.String("db.system", "firebase"),
		attribute.String("http.method", method),
		attribute.String("store.path", path),
	))
	defer span.End()

	body, err := c.send(ctx, method, path, target, payload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		metrics.StoreRequests.WithLabelValues(method, metrics.OutcomeFailure).Inc()
		c.logger.Debug("store request failed", map[string]interface{}{
			"method": method,
			"path":   path,
			"error":  err,
		})
		return nil, err
	}

	metrics.StoreRequests.WithLabelValues(method, metrics.OutcomeSuccess).Inc()
	return body, nil
}

func (c *Client) send(ctx context.Context, method, path, target string, payload interface{}) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s body: %w", path, err)
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.DoWithContext(ctx, req)
	if err != nil {
		return nil, errors.NewStoreUnreachableError(method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewStoreUnreachableError(method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.NewStoreRequestFailedError(method, path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return body, nil
}

func (c *Client) buildURL(path string, query url.Values) string {
	target := c.baseURL + strings.Trim(path, "/") + ".json"
	if c.authToken != "" {
		if query == nil {
			query = url.Values{}
		}
		query.Set("auth", c.authToken)
	}
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	return target
}

func isNull(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
