package twitch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/streamlot/giveabot/internal/models"
	"go.uber.org/zap"
)

const defaultBaseURL = "https://api.twitch.tv/helix"

// ErrUserNotFound is returned when a login name does not resolve to a user
var ErrUserNotFound = errors.New("user not found")

// Config holds configuration for the Helix resolver
type Config struct {
	// ClientID for the Helix Client-Id header
	ClientID string

	// AccessToken for the Bearer authorization header
	AccessToken string

	// BroadcasterID is the channel whose subscriptions are queried
	BroadcasterID string

	// Timeout bounds every outbound request; defaults to 5s
	Timeout time.Duration

	// BaseURL overrides the Helix endpoint, used by tests
	BaseURL string

	// Logger for request logging
	Logger *zap.Logger
}

// helixResolver implements the Resolver interface against the Helix API
type helixResolver struct {
	clientID      string
	accessToken   string
	broadcasterID string
	baseURL       string
	client        *http.Client
	logger        *zap.Logger
}

// NewHelix creates a new Helix-backed resolver
func NewHelix(cfg *Config) (*helixResolver, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.ClientID == "" {
		return nil, errors.New("client ID cannot be empty")
	}

	if cfg.AccessToken == "" {
		return nil, errors.New("access token cannot be empty")
	}

	if cfg.BroadcasterID == "" {
		return nil, errors.New("broadcaster ID cannot be empty")
	}

	if cfg.Logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &helixResolver{
		clientID:      cfg.ClientID,
		accessToken:   cfg.AccessToken,
		broadcasterID: cfg.BroadcasterID,
		baseURL:       baseURL,
		client:        &http.Client{Timeout: timeout},
		logger:        cfg.Logger,
	}, nil
}

// ResolveUserID looks up the Twitch user ID for a login name
func (r *helixResolver) ResolveUserID(ctx context.Context, login string) (string, error) {
	reqURL := fmt.Sprintf("%s/users?login=%s", r.baseURL, url.QueryEscape(login))

	r.logger.Debug("resolving user id", zap.String("login", login))

	resp, err := r.get(ctx, reqURL)
	if err != nil {
		return "", fmt.Errorf("failed to resolve user id for %q: %w", login, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		r.logger.Warn("helix users request failed",
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(body)))
		return "", fmt.Errorf("users request failed with status %d", resp.StatusCode)
	}

	var result struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode users response: %w", err)
	}

	if len(result.Data) == 0 {
		return "", fmt.Errorf("%w: %s", ErrUserNotFound, login)
	}

	return result.Data[0].ID, nil
}

// GetSubscriptionTier looks up the user's subscription tier on the channel
func (r *helixResolver) GetSubscriptionTier(ctx context.Context, userID string) (models.SubscriptionTier, error) {
	reqURL := fmt.Sprintf("%s/subscriptions?broadcaster_id=%s&user_id=%s",
		r.baseURL, url.QueryEscape(r.broadcasterID), url.QueryEscape(userID))

	resp, err := r.get(ctx, reqURL)
	if err != nil {
		return models.TierNone, fmt.Errorf("failed to get subscription tier for %q: %w", userID, err)
	}
	defer resp.Body.Close()

	// Helix answers 404 for a user with no subscription on the channel
	if resp.StatusCode == http.StatusNotFound {
		return models.TierNone, nil
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		r.logger.Warn("helix subscriptions request failed",
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(body)))
		return models.TierNone, fmt.Errorf("subscriptions request failed with status %d", resp.StatusCode)
	}

	var result struct {
		Data []struct {
			Tier string `json:"tier"`
		} `json:"data"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return models.TierNone, fmt.Errorf("failed to decode subscriptions response: %w", err)
	}

	if len(result.Data) == 0 {
		return models.TierNone, nil
	}

	return models.TierFromHelix(result.Data[0].Tier), nil
}

func (r *helixResolver) get(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+r.accessToken)
	req.Header.Set("Client-Id", r.clientID)

	return r.client.Do(req)
}
