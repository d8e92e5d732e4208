// Package registerclient is the client side of the registration flow: a form
// controller that submits the registration fields asynchronously and exposes
// validation errors or the success state, and the HTTP client it submits
// through.
package registerclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ErrTransport marks failures where no usable server answer was obtained:
// connection errors, timeouts and unparsable bodies.
var ErrTransport = errors.New("transport error")

// Fields are the values submitted with a registration.
type Fields struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// User is the account returned by a successful registration.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Response is a decoded server answer.
type Response struct {
	StatusCode int                 `json:"-"`
	Message    string              `json:"message"`
	Errors     map[string][]string `json:"errors"`
	User       *User               `json:"user"`
}

// Success reports whether the registration was accepted.
func (r *Response) Success() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300 && r.User != nil
}

// Client posts registrations to a server. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client // httpClient must share its cookie jar with the token provider
	endpoint   string       // endpoint is the absolute URL of POST /register
}

// NewClient creates a Client posting to endpoint. A nil httpClient uses
// http.DefaultClient.
func NewClient(endpoint string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{httpClient: httpClient, endpoint: endpoint}
}

// Register submits fields with the anti-forgery token. Any answer the server
// gave in the JSON contract is returned as a Response, whatever its status.
// Errors wrap ErrTransport.
func (c *Client) Register(ctx context.Context, fields Fields, token string) (*Response, error) {
	bodyBytes, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("could not marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-CSRF-TOKEN", token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: could not send request: %w", ErrTransport, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: could not read response body: %w", ErrTransport, err)
	}

	res := &Response{StatusCode: resp.StatusCode}
	if err := json.Unmarshal(b, res); err != nil {
		return nil, fmt.Errorf("%w: could not decode response (status %d): %s",
			ErrTransport, resp.StatusCode, strings.TrimSpace(string(b)))
	}

	return res, nil
}
