// Package rest implements service.Service against the TODO REST backend.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"todoctl/internal/service"
)

const (
	// LoginPath exchanges credentials for a token.
	LoginPath = "/login"

	// TodosPath lists tasks (GET) and applies task actions (POST).
	TodosPath = "/todos"

	// maxErrorBody bounds how much of an error response is read.
	maxErrorBody = 64 << 10
)

// Doer sends a request. The authenticated client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client implements service.Service.
type Client struct {
	baseURL string
	http    *http.Client
	auth    Doer
	logger  *slog.Logger
}

// New creates a client for the backend at baseURL.
// httpClient is used for login; auth carries every task request.
func New(baseURL string, httpClient *http.Client, auth Doer, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		auth:    auth,
		logger:  logger,
	}
}

// todoRequest is the action envelope accepted by POST /todos.
type todoRequest struct {
	Action string      `json:"action"`
	ID     *int64      `json:"id,omitempty"`
	Todo   *todoFields `json:"todo,omitempty"`
}

type todoFields struct {
	ID        *int64  `json:"id,omitempty"`
	Task      *string `json:"task"`
	Assignee  *string `json:"assignee"`
	Creator   *string `json:"creator"`
	Completed bool    `json:"completed"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Login implements service.Service.
func (c *Client) Login(ctx context.Context, creds service.Credentials) (string, error) {
	body, err := json.Marshal(creds)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+LoginPath, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("login response", slog.Int("status", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
		return "", &service.LoginError{Status: resp.StatusCode}
	}

	var lr loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return "", fmt.Errorf("invalid login response: %w", err)
	}
	if lr.Token == "" {
		return "", errors.New("invalid login response: missing token")
	}
	return lr.Token, nil
}

// ListTodos implements service.Service.
func (c *Client) ListTodos(ctx context.Context) ([]service.Todo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+TodosPath, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.send(req, service.ActionFetch)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var todos []service.Todo
	if err := json.NewDecoder(resp.Body).Decode(&todos); err != nil {
		return nil, &service.RequestError{
			Action:  service.ActionFetch,
			Status:  resp.StatusCode,
			Message: "invalid response from server",
			Err:     err,
		}
	}
	return todos, nil
}

// AddTodo implements service.Service.
func (c *Client) AddTodo(ctx context.Context, in service.TodoInput) error {
	if err := service.ValidateTodo(&in); err != nil {
		return err
	}
	return c.post(ctx, service.ActionAdd, todoRequest{
		Action: string(service.ActionAdd),
		Todo: &todoFields{
			Task:      &in.Task,
			Assignee:  nullable(in.Assignee),
			Creator:   nullable(in.Creator),
			Completed: false,
		},
	})
}

// UpdateTodo implements service.Service. An empty task is sent as null so
// records without a description can still be toggled.
func (c *Client) UpdateTodo(ctx context.Context, id int64, in service.TodoInput) error {
	service.NormalizeTodo(&in)
	return c.post(ctx, service.ActionUpdate, todoRequest{
		Action: string(service.ActionUpdate),
		ID:     &id,
		Todo: &todoFields{
			ID:        &id,
			Task:      nullable(in.Task),
			Assignee:  nullable(in.Assignee),
			Creator:   nullable(in.Creator),
			Completed: in.Completed,
		},
	})
}

// DeleteTodo implements service.Service.
func (c *Client) DeleteTodo(ctx context.Context, id int64) error {
	return c.post(ctx, service.ActionDelete, todoRequest{
		Action: string(service.ActionDelete),
		ID:     &id,
	})
}

func (c *Client) post(ctx context.Context, action service.Action, payload todoRequest) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+TodosPath, bytes.NewReader(body))
	if err != nil {
		return err
	}

	resp, err := c.send(req, action)
	if err != nil {
		return err
	}
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
	resp.Body.Close()
	return nil
}

// send issues req through the authenticated client and converts transport
// failures and non-2xx responses into *service.RequestError. Session errors
// pass through unchanged.
func (c *Client) send(req *http.Request, action service.Action) (*http.Response, error) {
	resp, err := c.auth.Do(req)
	if err != nil {
		if service.IsSessionError(err) {
			return nil, err
		}
		return nil, &service.RequestError{Action: action, Message: err.Error(), Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, &service.RequestError{
			Action:  action,
			Status:  resp.StatusCode,
			Message: errorMessage(resp, action),
		}
	}
	return resp, nil
}

// errorMessage extracts the server's message. A body that is not JSON yields
// the action's fallback; JSON without a message yields the status.
func errorMessage(resp *http.Response, action service.Action) string {
	var mr messageResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxErrorBody)).Decode(&mr); err != nil {
		return action.FallbackMessage()
	}
	if mr.Message == "" {
		return fmt.Sprintf("HTTP error %d", resp.StatusCode)
	}
	return mr.Message
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
