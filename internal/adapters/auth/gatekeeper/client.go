package gatekeeper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"vetcare-api/internal/platform/httpclient"
	"vetcare-api/internal/ports/auth"
)

var (
	ErrNotConfigured = errors.New("gatekeeper client not configured")
	ErrUnauthorized  = errors.New("gatekeeper unauthorized")
	ErrUpstream      = errors.New("gatekeeper upstream error")
)

// Config del cliente del proveedor de identidad.
// BaseURL y APIKey vienen de env en quien lo instancia (cmd/api).
type Config struct {
	BaseURL string
	APIKey  string

	// Header donde viaja la API key. Vacío => "X-Api-Key".
	APIKeyHeader string

	Timeout time.Duration
}

type Client struct {
	http         *httpclient.Client
	apiKey       string
	apiKeyHeader string
}

func NewClient(cfg Config) (*Client, error) {
	header := strings.TrimSpace(cfg.APIKeyHeader)
	if header == "" {
		header = "X-Api-Key"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	hc, err := httpclient.NewWithBaseURL(cfg.BaseURL, timeout)
	if err != nil {
		return nil, err
	}

	return &Client{
		http:         hc,
		apiKey:       strings.TrimSpace(cfg.APIKey),
		apiKeyHeader: header,
	}, nil
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.http != nil && c.http.BaseURL != "" && c.apiKey != ""
}

// VerifyToken valida un token de sesión contra el proveedor y trae la identidad.
func (c *Client) VerifyToken(ctx context.Context, token string) (auth.Claims, error) {
	if !c.IsConfigured() {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrUnauthorized
	}

	var out struct {
		UserID      string `json:"user_id"`
		Email       string `json:"email"`
		DisplayName string `json:"display_name"`
	}

	headers := map[string]string{
		c.apiKeyHeader:  c.apiKey,
		"Authorization": "Bearer " + token,
	}

	err := c.http.DoJSON(ctx, http.MethodPost, "/v1/tokens/verify", headers, map[string]string{"token": token}, &out)
	if err != nil {
		var httpErr *httpclient.HTTPError
		if errors.As(err, &httpErr) {
			if httpErr.StatusCode == http.StatusUnauthorized || httpErr.StatusCode == http.StatusForbidden {
				return auth.Claims{}, ErrUnauthorized
			}
			return auth.Claims{}, fmt.Errorf("%w: status=%d", ErrUpstream, httpErr.StatusCode)
		}
		return auth.Claims{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	out.UserID = strings.TrimSpace(out.UserID)
	if out.UserID == "" {
		return auth.Claims{}, errors.New("gatekeeper response missing user_id")
	}

	return auth.Claims{
		UserID:      out.UserID,
		Email:       strings.TrimSpace(out.Email),
		DisplayName: strings.TrimSpace(out.DisplayName),
	}, nil
}
