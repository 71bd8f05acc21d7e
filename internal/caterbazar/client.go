package caterbazar

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/caterbazar/caterbazar-console/internal/app/model"
	"github.com/caterbazar/caterbazar-console/internal/app/query"
	"github.com/caterbazar/caterbazar-console/internal/app/review"
	apperrors "github.com/caterbazar/caterbazar-console/internal/errors"
	"github.com/caterbazar/caterbazar-console/internal/metrics"
	"github.com/caterbazar/caterbazar-console/internal/session"
	"github.com/caterbazar/caterbazar-console/pkg/logger"
	"github.com/google/uuid"
)

const defaultTimeout = 30 * time.Second

// Client talks to the marketplace REST API on behalf of an admin. It never retries.
type Client struct {
	config     Config
	baseURL    string
	httpClient *http.Client
	notifier   *session.Notifier
	now        func() time.Time
}

// NewClient creates a new marketplace client. notifier may be nil.
func NewClient(config Config, notifier *session.Notifier) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if config.Timeout == 0 {
		config.Timeout = defaultTimeout
	}
	return &Client{
		config:     config,
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		httpClient: &http.Client{Timeout: config.Timeout},
		notifier:   notifier,
		now:        time.Now,
	}, nil
}

// GetConfig returns the client configuration
func (c *Client) GetConfig() Config {
	return c.config
}

// SearchVendors runs a vendor search with a parameter set from the query builder.
func (c *Client) SearchVendors(ctx context.Context, token string, params query.ParamSet) (*VendorSearchResult, error) {
	var out VendorSearchResult
	err := c.do(ctx, request{
		op:       "search_vendors",
		method:   http.MethodGet,
		path:     "/admin/vendors",
		rawQuery: params.Encode(),
		token:    token,
	}, &out)
	if err != nil {
		return nil, err
	}
	if out.Vendors == nil {
		out.Vendors = []model.Vendor{}
	}
	return &out, nil
}

func (c *Client) ListRegistrations(ctx context.Context, token string, q RegistrationListQuery) (*RegistrationList, error) {
	var out RegistrationList
	err := c.do(ctx, request{
		op:       "list_registrations",
		method:   http.MethodGet,
		path:     "/admin/business-registrations",
		rawQuery: q.Values().Encode(),
		token:    token,
	}, &out)
	if err != nil {
		return nil, err
	}
	if out.Registrations == nil {
		out.Registrations = []model.BusinessRegistration{}
	}
	return &out, nil
}

func (c *Client) GetRegistrationStats(ctx context.Context, token string) (*model.RegistrationStats, error) {
	var out struct {
		model.RegistrationStats
		Stats *model.RegistrationStats `json:"stats"`
	}
	err := c.do(ctx, request{
		op:     "registration_stats",
		method: http.MethodGet,
		path:   "/admin/business-registrations/stats",
		token:  token,
	}, &out)
	if err != nil {
		return nil, err
	}
	if out.Stats != nil {
		return out.Stats, nil
	}
	return &out.RegistrationStats, nil
}

func (c *Client) GetRegistration(ctx context.Context, token, id string) (*model.BusinessRegistration, error) {
	return c.registration(ctx, request{
		op:     "get_registration",
		method: http.MethodGet,
		path:   "/admin/business-registrations/" + url.PathEscape(id),
		token:  token,
	})
}

// ReviewRegistration submits a validated review and returns the updated registration.
func (c *Client) ReviewRegistration(ctx context.Context, token, id string, payload review.ReviewPayload) (*model.BusinessRegistration, error) {
	return c.registration(ctx, request{
		op:     "review_registration",
		method: http.MethodPut,
		path:   "/admin/business-registrations/" + url.PathEscape(id) + "/review",
		body:   payload,
		token:  token,
	})
}

// UpdateRegistration sends a validated edit and returns the updated registration.
func (c *Client) UpdateRegistration(ctx context.Context, token, id string, payload review.EditPayload) (*model.BusinessRegistration, error) {
	return c.registration(ctx, request{
		op:     "update_registration",
		method: http.MethodPut,
		path:   "/admin/business-registrations/" + url.PathEscape(id) + "/update",
		body:   payload,
		token:  token,
	})
}

// ForgotPassword is part of the password-reset family: a 401 is returned inline
// and never ends the session.
func (c *Client) ForgotPassword(ctx context.Context, req ForgotPasswordRequest) (*MessageResponse, error) {
	var out MessageResponse
	err := c.do(ctx, request{
		op:     "forgot_password",
		method: http.MethodPost,
		path:   "/auth/forgot-password",
		body:   req,
		exempt: true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ResetPassword(ctx context.Context, req ResetPasswordRequest) (*MessageResponse, error) {
	var out MessageResponse
	err := c.do(ctx, request{
		op:     "reset_password",
		method: http.MethodPost,
		path:   "/auth/reset-password",
		body:   req,
		exempt: true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// registration decodes either a bare registration or one wrapped in
// {"registration": ...}.
func (c *Client) registration(ctx context.Context, req request) (*model.BusinessRegistration, error) {
	var out struct {
		model.BusinessRegistration
		Registration *model.BusinessRegistration `json:"registration"`
	}
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	if out.Registration != nil {
		return out.Registration, nil
	}
	if out.ID == "" {
		return nil, &apperrors.TransportError{
			Status: http.StatusOK,
			Code:   apperrors.UpstreamError,
			Err:    fmt.Errorf("%w: %s returned no registration", ErrMalformedResponse, req.path),
		}
	}
	return &out.BusinessRegistration, nil
}

type request struct {
	op       string // metrics label
	method   string
	path     string
	rawQuery string
	body     interface{}
	token    string
	exempt   bool // password-reset family
}

// do performs one upstream call and decodes a 2xx body into out. Failures are
// always members of the apperrors taxonomy.
func (c *Client) do(ctx context.Context, req request, out interface{}) error {
	log := logger.WithContext(map[string]interface{}{
		"upstream_op": req.op,
		"method":      req.method,
		"path":        req.path,
	})

	if !req.exempt {
		if req.token == "" {
			return &apperrors.TransportError{
				Status: http.StatusUnauthorized,
				Code:   apperrors.AuthUnauthorized,
				Err:    ErrMissingToken,
			}
		}
		if session.TokenExpired(req.token, c.now()) {
			log.Info("Bearer token already expired, skipping upstream call")
			return c.expire(ctx, req.path, "token expired before request")
		}
	}

	endpoint := c.baseURL + req.path
	if req.rawQuery != "" {
		endpoint += "?" + req.rawQuery
	}

	var body io.Reader
	if req.body != nil {
		raw, err := json.Marshal(req.body)
		if err != nil {
			return apperrors.Classify(fmt.Errorf("failed to marshal request body: %w", err))
		}
		body = bytes.NewReader(raw)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, endpoint, body)
	if err != nil {
		return apperrors.Classify(fmt.Errorf("failed to create request: %w", err))
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.token)
	}
	if c.config.UserAgent != "" {
		httpReq.Header.Set("User-Agent", c.config.UserAgent)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	metrics.UpstreamDuration.WithLabelValues(req.op).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(req.op, metrics.Outcome(0)).Inc()
		log.Warn("Upstream request failed", map[string]interface{}{"error": err.Error()})
		if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
			return apperrors.Classify(err)
		}
		return &apperrors.TransportError{
			Code: apperrors.UpstreamUnavailable,
			Err:  fmt.Errorf("%w: %v", ErrNetworkError, err),
		}
	}
	defer resp.Body.Close()
	metrics.UpstreamRequests.WithLabelValues(req.op, metrics.Outcome(resp.StatusCode)).Inc()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &apperrors.TransportError{
			Status: resp.StatusCode,
			Code:   apperrors.UpstreamUnavailable,
			Err:    fmt.Errorf("failed to read response body: %w", err),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var eb errorBody
		_ = json.Unmarshal(raw, &eb)

		log.Warn("Upstream returned error", map[string]interface{}{
			"status_code": resp.StatusCode,
			"message":     eb.text(),
		})

		appErr := apperrors.FromResponse(resp.StatusCode, eb.code(), eb.text(), req.exempt)
		if apperrors.IsSessionExpired(appErr) {
			c.publishExpired(ctx, req.path, fmt.Sprintf("upstream returned %d", resp.StatusCode))
		}
		return appErr
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := decodeBody(raw, out); err != nil {
		return &apperrors.TransportError{
			Status: resp.StatusCode,
			Code:   apperrors.UpstreamError,
			Err:    fmt.Errorf("%w: %v", ErrMalformedResponse, err),
		}
	}
	return nil
}

// decodeBody accepts the payload either bare or inside {"data": ...}.
func decodeBody(raw []byte, out interface{}) error {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if json.Unmarshal(raw, &envelope) == nil && len(envelope.Data) > 0 && string(envelope.Data) != "null" {
		raw = envelope.Data
	}
	return json.Unmarshal(raw, out)
}

func (c *Client) expire(ctx context.Context, endpoint, reason string) error {
	c.publishExpired(ctx, endpoint, reason)
	return &apperrors.TransportError{
		Status:         http.StatusUnauthorized,
		Code:           apperrors.AuthSessionExpired,
		SessionExpired: true,
	}
}

func (c *Client) publishExpired(ctx context.Context, endpoint, reason string) {
	metrics.SessionsExpired.Inc()
	c.notifier.Publish(session.ExpiredEvent{
		At:        c.now(),
		ConsoleID: session.ConsoleIDFrom(ctx),
		Endpoint:  endpoint,
		Reason:    reason,
	})
}
