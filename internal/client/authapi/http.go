package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"invoicer/internal/common"
)

// HTTPClient talks to the auth service over plain HTTP with JSON bodies.
type HTTPClient struct {
	endpointURL string
	hc          *http.Client
}

func NewHTTPClient(endpointURL string) *HTTPClient {
	return &HTTPClient{endpointURL: endpointURL, hc: &http.Client{}}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenRequest struct {
	Token string `json:"token"`
}

type updateRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Token    string `json:"token"`
}

type deleteRequest struct {
	Username string `json:"username"`
	Token    string `json:"token"`
}

type jwtResponse struct {
	JWT string `json:"jwt"`
}

func (c *HTTPClient) Register(ctx context.Context, username, password string) error {
	return c.do(ctx, http.MethodPut, credentialsRequest{Username: username, Password: password}, nil)
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) (string, error) {
	var resp jwtResponse
	if err := c.do(ctx, http.MethodPost, credentialsRequest{Username: username, Password: password}, &resp); err != nil {
		return "", err
	}
	return resp.JWT, nil
}

func (c *HTTPClient) Verify(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, tokenRequest{Token: token}, nil)
}

func (c *HTTPClient) UpdatePassword(ctx context.Context, username, password, token string) (string, error) {
	var resp jwtResponse
	if err := c.do(ctx, http.MethodPatch, updateRequest{Username: username, Password: password, Token: token}, &resp); err != nil {
		return "", err
	}
	return resp.JWT, nil
}

func (c *HTTPClient) Delete(ctx context.Context, username, token string) error {
	return c.do(ctx, http.MethodDelete, deleteRequest{Username: username, Token: token}, nil)
}

// do sends one JSON request and decodes the 200 response body into out when
// out is non-nil. Any status other than 200 is mapped to a sentinel error.
func (c *HTTPClient) do(ctx context.Context, method string, body any, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpointURL, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return mapStatus(resp.StatusCode)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func mapStatus(code int) error {
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return common.ErrUnauthorized
	case code >= 500:
		return common.ErrUnavailable
	default:
		return fmt.Errorf("auth api: unexpected status %d", code)
	}
}
