// Package client is a typed HTTP client for the Join API.
package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"join/internal/api"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	defaultTimeout    = 10 * time.Second
	defaultAttempts   = 3
	defaultRetryDelay = 500 * time.Millisecond
)

// TokenSource supplies the bearer token for authenticated requests.
// An empty token sends the request without an Authorization header.
type TokenSource interface {
	Token() string
}

// StaticToken is a TokenSource that always returns the same token.
type StaticToken string

func (t StaticToken) Token() string { return string(t) }

// APIError is returned for every non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("join api: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("join api: %d %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

type Client struct {
	baseURL    string
	tokens     TokenSource
	http       *http.Client
	timeout    time.Duration
	attempts   int
	retryDelay time.Duration
	log        logrus.FieldLogger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds every single request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithRetry sets how often the task list is fetched before giving up.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(c *Client) {
		if attempts < 1 {
			attempts = 1
		}
		c.attempts = attempts
		c.retryDelay = delay
	}
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Client) { c.log = l }
}

func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	if tokens == nil {
		tokens = StaticToken("")
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
		http:       &http.Client{},
		timeout:    defaultTimeout,
		attempts:   defaultAttempts,
		retryDelay: defaultRetryDelay,
		log:        logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Signup(ctx context.Context, req api.SignupRequest) (*api.AuthResponse, error) {
	var out api.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/signup/", false, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Login(ctx context.Context, req api.LoginRequest) (*api.AuthResponse, error) {
	var out api.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/login/", false, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListTasks fetches every task. Transport failures and 5xx responses are
// retried; 4xx responses are returned immediately.
func (c *Client) ListTasks(ctx context.Context) ([]api.Task, error) {
	var lastErr error
	for attempt := 1; attempt <= c.attempts; attempt++ {
		var tasks []api.Task
		err := c.do(ctx, http.MethodGet, "/tasks/", true, nil, &tasks)
		if err == nil {
			return tasks, nil
		}
		lastErr = err
		if !retryable(err) || attempt == c.attempts {
			break
		}
		c.log.WithError(err).WithField("attempt", attempt).Warn("list tasks failed, retrying")
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.retryDelay):
		}
	}
	return nil, fmt.Errorf("list tasks: %w", lastErr)
}

func (c *Client) GetTask(ctx context.Context, id uuid.UUID) (*api.Task, error) {
	var out api.Task
	if err := c.do(ctx, http.MethodGet, taskPath(id), true, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateTask(ctx context.Context, task api.Task) (*api.Task, error) {
	var out api.Task
	if err := c.do(ctx, http.MethodPost, "/tasks/", true, task, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateTask replaces the stored task with task, which must be persisted.
func (c *Client) UpdateTask(ctx context.Context, task api.Task) (*api.Task, error) {
	if !task.Persisted() {
		return nil, errors.New("update task: task has no id")
	}
	var out api.Task
	if err := c.do(ctx, http.MethodPut, taskPath(task.ID), true, task, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteTask(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, taskPath(id), true, nil, nil)
}

func (c *Client) ListContacts(ctx context.Context) ([]api.Contact, error) {
	var out []api.Contact
	if err := c.do(ctx, http.MethodGet, "/contacts/", true, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListCategories(ctx context.Context) ([]api.Category, error) {
	var out []api.Category
	if err := c.do(ctx, http.MethodGet, "/categories/", true, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateSubtask(ctx context.Context, subtask api.Subtask) (*api.Subtask, error) {
	var out api.Subtask
	if err := c.do(ctx, http.MethodPost, "/subtasks/", true, subtask, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateSubtask(ctx context.Context, subtask api.Subtask) (*api.Subtask, error) {
	if !subtask.Persisted() {
		return nil, errors.New("update subtask: subtask has no id")
	}
	var out api.Subtask
	if err := c.do(ctx, http.MethodPut, "/subtasks/"+subtask.ID.String()+"/", true, subtask, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func taskPath(id uuid.UUID) string {
	return "/tasks/" + id.String() + "/"
}

func (c *Client) do(ctx context.Context, method, path string, authenticated bool, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		payload, err := sonic.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authenticated {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s %s: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errBody api.ErrorResponse
		if sonic.Unmarshal(data, &errBody) == nil {
			apiErr.Message = errBody.Error
		}
		return apiErr
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := sonic.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func retryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 500
	}
	return !errors.Is(err, context.Canceled)
}
