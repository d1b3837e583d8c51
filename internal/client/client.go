// Package client talks to the task board HTTP API and keeps the local
// session file.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/varshaaa-v/Web-Technology-Project/internal/dto"
	"golang.org/x/sync/singleflight"
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return e.Message
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// Client is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger

	mu           sync.RWMutex
	accessToken  string
	refreshToken string
	onRefresh    func(accessToken, refreshToken string)

	// concurrent 401s share one refresh; the server rotates refresh tokens
	refreshGroup singleflight.Group
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "api_client")
	return c
}

// SetSession replaces the token pair. Empty strings drop the session.
func (c *Client) SetSession(accessToken, refreshToken string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = accessToken
	c.refreshToken = refreshToken
}

// OnRefresh registers fn to receive every rotated token pair.
func (c *Client) OnRefresh(fn func(accessToken, refreshToken string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onRefresh = fn
}

func (c *Client) session() (string, string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken, c.refreshToken
}

func (c *Client) Register(ctx context.Context, name, email, password string) (*dto.AuthResponse, error) {
	var resp dto.AuthResponse
	req := dto.RegisterRequest{Name: name, Email: email, Password: password}
	if err := c.send(ctx, http.MethodPost, "/api/auth/register", nil, req, &resp, false); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*dto.AuthResponse, error) {
	var resp dto.AuthResponse
	req := dto.LoginRequest{Email: email, Password: password}
	if err := c.send(ctx, http.MethodPost, "/api/auth/login", nil, req, &resp, false); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Refresh rotates the session's refresh token and stores the new pair.
func (c *Client) Refresh(ctx context.Context) (*dto.AuthResponse, error) {
	_, refresh := c.session()
	if refresh == "" {
		return nil, &APIError{Status: http.StatusUnauthorized, Message: "no session to refresh"}
	}

	var resp dto.AuthResponse
	req := dto.RefreshRequest{RefreshToken: refresh}
	if err := c.send(ctx, http.MethodPost, "/api/auth/refresh", nil, req, &resp, false); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.accessToken = resp.AccessToken
	c.refreshToken = resp.RefreshToken
	hook := c.onRefresh
	c.mu.Unlock()

	if hook != nil {
		hook(resp.AccessToken, resp.RefreshToken)
	}
	c.logger.DebugContext(ctx, "session refreshed", "user_id", resp.ID)
	return &resp, nil
}

func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	req := dto.LogoutRequest{RefreshToken: refreshToken}
	return c.send(ctx, http.MethodPost, "/api/auth/logout", nil, req, nil, false)
}

func (c *Client) Health(ctx context.Context) (*dto.HealthResponse, error) {
	var resp dto.HealthResponse
	if err := c.send(ctx, http.MethodGet, "/api/health", nil, nil, &resp, false); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ListCategories(ctx context.Context, userID string) ([]dto.Category, error) {
	var resp []dto.Category
	q := url.Values{"userId": {userID}}
	if err := c.send(ctx, http.MethodGet, "/api/categories", q, nil, &resp, true); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) CreateCategory(ctx context.Context, name, userID string) (*dto.Category, error) {
	var resp dto.Category
	req := dto.CreateCategoryRequest{Name: name, UserID: userID}
	if err := c.send(ctx, http.MethodPost, "/api/categories", nil, req, &resp, true); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) RenameCategory(ctx context.Context, id, name string) (*dto.Category, error) {
	var resp dto.Category
	req := dto.RenameCategoryRequest{Name: name}
	if err := c.send(ctx, http.MethodPut, "/api/categories/"+url.PathEscape(id), nil, req, &resp, true); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.send(ctx, http.MethodDelete, "/api/categories/"+url.PathEscape(id), nil, nil, nil, true)
}

func (c *Client) ListTasks(ctx context.Context, userID string) ([]dto.Task, error) {
	var resp []dto.Task
	q := url.Values{"userId": {userID}}
	if err := c.send(ctx, http.MethodGet, "/api/tasks", q, nil, &resp, true); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) CreateTask(ctx context.Context, req dto.CreateTaskRequest) (*dto.Task, error) {
	var resp dto.Task
	if err := c.send(ctx, http.MethodPost, "/api/tasks", nil, req, &resp, true); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) UpdateTask(ctx context.Context, id string, patch dto.TaskPatch) (*dto.Task, error) {
	var resp dto.Task
	if err := c.send(ctx, http.MethodPut, "/api/tasks/"+url.PathEscape(id), nil, patch, &resp, true); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.send(ctx, http.MethodDelete, "/api/tasks/"+url.PathEscape(id), nil, nil, nil, true)
}

// send performs one API call. With authed set, a 401 triggers a refresh and
// one retry when a refresh token is held.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, body, out interface{}, authed bool) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal %s request: %w", path, err)
		}
	}

	if !authed {
		return c.roundTrip(ctx, method, path, query, payload, out, "")
	}

	access, refresh := c.session()
	err := c.roundTrip(ctx, method, path, query, payload, out, access)
	if StatusOf(err) != http.StatusUnauthorized || refresh == "" {
		return err
	}

	c.logger.InfoContext(ctx, "access token rejected, refreshing", "path", path)
	if rerr := c.renew(ctx, access); rerr != nil {
		c.logger.WarnContext(ctx, "session refresh failed", "error", rerr)
		return err
	}
	access, _ = c.session()
	return c.roundTrip(ctx, method, path, query, payload, out, access)
}

// renew refreshes the session unless it already moved past the rejected
// access token. Callers arriving during a refresh wait for its result.
func (c *Client) renew(ctx context.Context, rejected string) error {
	_, err, _ := c.refreshGroup.Do("refresh", func() (interface{}, error) {
		if access, _ := c.session(); access != rejected {
			return nil, nil
		}
		return c.Refresh(ctx)
	})
	return err
}

func (c *Client) roundTrip(ctx context.Context, method, path string, query url.Values, payload []byte, out interface{}, accessToken string) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	apiErr := &APIError{Status: resp.StatusCode}

	var body dto.ErrorResponse
	if err := json.Unmarshal(raw, &body); err == nil && body.Message != "" {
		apiErr.Message = body.Message
	} else {
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	return apiErr
}
