package design

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/Ayush3323/printingbackend/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Client talks to the external customization service. It is constructed
// once at startup and injected where needed; token state lives on the
// client, not in a package-level singleton.
type Client struct {
	httpClient *http.Client
	baseURL    string
	clientID   string
	secretKey  string

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

func NewClient(baseURL, clientID, secretKey string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		clientID:   clientID,
		secretKey:  secretKey,
	}
}

var ErrRenderRejected = errors.New("render request rejected")

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// Token returns a valid bearer token, refreshing it when it is about to
// expire. Safe for concurrent use.
func (c *Client) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Until(c.expiresAt) > time.Minute {
		return c.token, nil
	}

	if err := c.refreshLocked(ctx); err != nil {
		return "", err
	}
	return c.token, nil
}

// RefreshToken forces a token refresh. Scheduled from the composition
// root so requests rarely pay the refresh latency.
func (c *Client) RefreshToken(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refreshLocked(ctx)
}

func (c *Client) refreshLocked(ctx context.Context) error {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+"/token", strings.NewReader(form.Encode()),
	)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.clientID, c.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("token endpoint returned %d", resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return fmt.Errorf("failed to decode token response: %w", err)
	}
	if tr.AccessToken == "" {
		return errors.New("token response missing access token")
	}

	c.token = tr.AccessToken
	c.expiresAt = time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second)

	logger.L().Debug("design service token refreshed",
		zap.Time("expires_at", c.expiresAt),
	)
	return nil
}

type renderRequest struct {
	ItemID      string          `json:"item_id"`
	CanvasState json.RawMessage `json:"canvas_state"`
}

// RequestRender asks the service to convert a frozen canvas state into a
// print-ready file. The result arrives later as a render-status event;
// callers only need to know the request was accepted.
func (c *Client) RequestRender(ctx context.Context, itemID uuid.UUID, canvas json.RawMessage) error {
	token, err := c.Token(ctx)
	if err != nil {
		return err
	}

	body, err := json.Marshal(renderRequest{
		ItemID:      itemID.String(),
		CanvasState: canvas,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+"/renders", strings.NewReader(string(body)),
	)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to request render: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", ErrRenderRejected, resp.StatusCode)
	}
	return nil
}
