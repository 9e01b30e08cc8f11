// Package gateway is the single path by which the client talks to the
// mentordoc API. It attaches credentials, decodes structured errors and
// transparently refreshes an expired access token once before giving up and
// ending the session.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"mentordoc/client/internal/model"
	"mentordoc/client/internal/util"
)

const (
	apiPrefix   = "/v1"
	refreshPath = "/user/auth/refresh"

	// RequestIDHeader carries a per-request correlation id.
	RequestIDHeader = "X-Request-ID"
)

// Session is the slice of client state the gateway needs: the current
// credentials and the two ways of changing them.
type Session interface {
	AuthenticationData() *model.AuthenticationData
	SetAuthenticationData(data *model.AuthenticationData)
	Logout()
}

// Request describes one API call. Path is relative to the versioned API root.
type Request struct {
	Method string
	Path   string
	Body   any
	// Out receives the decoded JSON body of a successful response. Nil discards it.
	Out any
	// UseRefreshToken authenticates with the refresh token instead of the access token.
	UseRefreshToken bool
	Headers         map[string]string
	// Anonymous requests carry no credentials and never trigger a refresh.
	Anonymous bool
}

type Gateway struct {
	baseURL    string
	httpClient *http.Client
	session    Session
	log        zerolog.Logger
}

type Option func(*Gateway)

func WithHTTPClient(client *http.Client) Option {
	return func(g *Gateway) { g.httpClient = client }
}

func WithTimeout(timeout time.Duration) Option {
	return func(g *Gateway) { g.httpClient.Timeout = timeout }
}

func WithSession(session Session) Option {
	return func(g *Gateway) { g.session = session }
}

func WithLogger(log zerolog.Logger) Option {
	return func(g *Gateway) { g.log = log }
}

// New creates a gateway for the API served at baseURL (protocol and host, no
// trailing slash and no version prefix).
func New(baseURL string, opts ...Option) *Gateway {
	g := &Gateway{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// SetSession attaches the session after construction. The store and the
// gateway reference each other, so one of them has to be wired late.
func (g *Gateway) SetSession(session Session) {
	g.session = session
}

func (g *Gateway) BaseURL() string {
	return g.baseURL
}

// Do performs req. A 401 on an authenticated request triggers exactly one
// token refresh; when the refresh succeeds the request is retried once, when
// it fails the session is logged out and the original request fails.
func (g *Gateway) Do(ctx context.Context, req Request) error {
	return g.do(ctx, req, false)
}

func (g *Gateway) do(ctx context.Context, req Request, retried bool) error {
	resp, err := g.send(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return decodeSuccess(resp, req.Out)
	}

	if resp.StatusCode == http.StatusUnauthorized && g.handleUnauthorized(ctx, req, retried) {
		// drain so the connection can be reused by the retry
		_, _ = io.Copy(io.Discard, resp.Body)
		return g.do(ctx, req, true)
	}

	return decodeFailure(resp)
}

func (g *Gateway) send(ctx context.Context, req Request) (*http.Response, error) {
	var body io.Reader
	if req.Body != nil {
		encoded, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, g.baseURL+apiPrefix+req.Path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	requestID := util.NewID("req")
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set(RequestIDHeader, requestID)
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}
	if token := g.token(req); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	started := time.Now()
	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		g.log.Warn().Err(err).Str("method", method).Str("path", req.Path).Str("request_id", requestID).Msg("request failed")
		return nil, fmt.Errorf("%s %s: %w", method, req.Path, err)
	}
	g.log.Debug().
		Str("method", method).
		Str("path", req.Path).
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(started)).
		Msg("request")
	return resp, nil
}

func (g *Gateway) token(req Request) string {
	if req.Anonymous || g.session == nil {
		return ""
	}
	data := g.session.AuthenticationData()
	if data == nil {
		return ""
	}
	if req.UseRefreshToken {
		return data.RefreshToken
	}
	return data.AccessToken
}

// handleUnauthorized reports whether the request should be retried. The
// refresh request itself never recurses; whoever started the refresh owns
// the logout.
func (g *Gateway) handleUnauthorized(ctx context.Context, req Request, retried bool) bool {
	if req.Anonymous || req.UseRefreshToken || g.session == nil {
		return false
	}
	if retried {
		g.log.Info().Str("path", req.Path).Msg("refreshed credentials rejected, logging out")
		g.session.Logout()
		return false
	}

	data, err := g.refresh(ctx)
	if err != nil {
		g.log.Info().Err(err).Msg("token refresh failed, logging out")
		g.session.Logout()
		return false
	}
	g.session.SetAuthenticationData(data)
	return true
}

func (g *Gateway) refresh(ctx context.Context) (*model.AuthenticationData, error) {
	var data model.AuthenticationData
	err := g.do(ctx, Request{
		Method:          http.MethodPost,
		Path:            refreshPath,
		Out:             &data,
		UseRefreshToken: true,
	}, false)
	if err != nil {
		return nil, err
	}
	if data.AccessToken == "" {
		return nil, errors.New("refresh returned no access token")
	}
	return &data, nil
}

func decodeSuccess(resp *http.Response, out any) error {
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		httpErr := model.GenericHTTPError()
		httpErr.Status = resp.StatusCode
		return httpErr
	}
	return nil
}

func decodeFailure(resp *http.Response) error {
	httpErr := &model.HTTPError{}
	if err := json.NewDecoder(resp.Body).Decode(httpErr); err != nil || len(httpErr.Errors) == 0 {
		httpErr = model.GenericHTTPError()
	}
	httpErr.Status = resp.StatusCode
	return httpErr
}
