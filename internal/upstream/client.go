// Package upstream implements the HTTP client for the remote LMS REST API.
// The gateway forwards every CRUD operation here; it owns none of the data.
package upstream

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/noah-isme/lms-edge-api/pkg/config"
	appErrors "github.com/noah-isme/lms-edge-api/pkg/errors"
)

// CallObserver receives the timing of every completed upstream call.
type CallObserver interface {
	ObserveUpstreamCall(operation string, duration time.Duration)
}

// Client wraps the resty client with the upstream base URL and timeout. The
// hard timeout is deliberate: a hung upstream call must never leave a client
// spinning forever.
type Client struct {
	http   *resty.Client
	logger *zap.Logger
}

// New builds an upstream client from configuration.
func New(cfg config.UpstreamConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	rc := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")
	if cfg.RetryCount > 0 {
		rc.SetRetryCount(cfg.RetryCount)
	}
	return &Client{http: rc, logger: logger}
}

// WithObserver registers a timing observer for upstream calls. Operations are
// labelled method plus leading path segments to keep the cardinality bounded.
func (c *Client) WithObserver(observer CallObserver) *Client {
	if observer == nil {
		return c
	}
	c.http.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		observer.ObserveUpstreamCall(operationLabel(resp.Request.Method, resp.Request.RawRequest.URL.Path), resp.Time())
		return nil
	})
	return c
}

func operationLabel(method, path string) string {
	trimmed := strings.Trim(path, "/")
	segments := strings.Split(trimmed, "/")
	if len(segments) > 2 {
		segments = segments[:2]
	}
	return method + " /" + strings.Join(segments, "/")
}

// apiError converts a transport failure or a non-2xx response into a typed
// gateway error. 404s map to NOT_FOUND so handlers can redirect to safe
// fallbacks; everything else is an UPSTREAM_ERROR surfaced once, without
// retry, per the storefront's error model.
func (c *Client) apiError(op string, resp *resty.Response, err error) error {
	if err != nil {
		c.logger.Warn("upstream call failed", zap.String("op", op), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, fmt.Sprintf("%s failed", op))
	}
	if resp == nil {
		return appErrors.Clone(appErrors.ErrUpstream, fmt.Sprintf("%s: empty response", op))
	}
	if resp.IsSuccess() {
		return nil
	}
	c.logger.Warn("upstream returned error status",
		zap.String("op", op),
		zap.Int("status", resp.StatusCode()),
	)
	switch resp.StatusCode() {
	case http.StatusNotFound:
		return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("%s: not found", op))
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s rejected by upstream", op))
	case http.StatusUnauthorized, http.StatusForbidden:
		return appErrors.Clone(appErrors.ErrForbidden, fmt.Sprintf("%s not permitted", op))
	default:
		return appErrors.Clone(appErrors.ErrUpstream, fmt.Sprintf("%s: upstream status %d", op, resp.StatusCode()))
	}
}
