package lifecycle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"fitai-backend/internal/notification/domain"
)

// APIRegistrar persists tokens through the backend's HTTP API, for Go clients
// that run the manager outside the server process.
type APIRegistrar struct {
	baseURL     string
	bearerToken func(ctx context.Context) (string, error)
	httpClient  *http.Client
}

// NewAPIRegistrar creates a registrar posting to baseURL + /api/notifications/token
func NewAPIRegistrar(baseURL string, bearerToken func(ctx context.Context) (string, error)) *APIRegistrar {
	return &APIRegistrar{
		baseURL:     strings.TrimRight(baseURL, "/"),
		bearerToken: bearerToken,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}
}

// RegisterToken implements TokenRegistrar. The server resolves the user from
// the bearer token; userID is not sent.
func (a *APIRegistrar) RegisterToken(ctx context.Context, _ string, token domain.PushToken) error {
	body, err := json.Marshal(map[string]string{
		"token":    token.Token,
		"platform": string(token.Platform),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/api/notifications/token", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if a.bearerToken != nil {
		bearer, err := a.bearerToken(ctx)
		if err != nil {
			return fmt.Errorf("get bearer token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("register token: status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return nil
}
