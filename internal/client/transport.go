package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
)

// ErrNetwork wraps transport failures: the gateway was not reached or its
// reply could not be read.
var ErrNetwork = errors.New("network error")

// APIError is a non-success envelope returned by the gateway.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.Status, e.Message)
}

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// transport speaks the gateway's JSON protocol over fiber's HTTP client.
type transport struct {
	baseURL string
	timeout time.Duration

	mu    sync.RWMutex
	token string
}

func newTransport(baseURL string, timeout time.Duration) *transport {
	return &transport{baseURL: strings.TrimRight(baseURL, "/"), timeout: timeout}
}

func (t *transport) setToken(token string) {
	t.mu.Lock()
	t.token = token
	t.mu.Unlock()
}

func (t *transport) post(path string, body, out any) error {
	a := fiber.Post(t.baseURL + path).JSON(body)
	return t.do(a, out)
}

func (t *transport) get(path string, query url.Values, out any) error {
	a := fiber.Get(t.baseURL + path).QueryString(query.Encode())
	return t.do(a, out)
}

func (t *transport) do(a *fiber.Agent, out any) error {
	t.mu.RLock()
	if t.token != "" {
		a.Set(fiber.HeaderAuthorization, "Bearer "+t.token)
	}
	t.mu.RUnlock()
	a.Timeout(t.timeout)

	code, body, errs := a.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrNetwork, errors.Join(errs...))
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		if code >= fiber.StatusBadRequest {
			return &APIError{Status: code, Message: strings.TrimSpace(string(body))}
		}
		return fmt.Errorf("%w: malformed response: %w", ErrNetwork, err)
	}
	if code >= fiber.StatusBadRequest || !env.Success {
		return &APIError{Status: code, Message: env.Message}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: malformed response: %w", ErrNetwork, err)
	}
	return nil
}
