// Package gcal implements the calendar backend against the Google
// Calendar API.
package gcal

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/omriShneor/schedbot/internal/logger"
)

// Client wraps the Google Calendar API client for a single calendar.
type Client struct {
	service         *calendar.Service
	config          *oauth2.Config
	credentialsFile string
	tokenFile       string
	token           *oauth2.Token
	calendarID      string
	loc             *time.Location
}

// NewClient creates a new Google Calendar client for calendarID, with
// all-day event dates interpreted in loc.
func NewClient(credentialsFile, tokenFile, calendarID string, loc *time.Location) (*Client, error) {
	config, err := loadOAuthConfig(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load OAuth config: %w", err)
	}
	if calendarID == "" {
		calendarID = "primary"
	}
	if loc == nil {
		loc = time.UTC
	}

	client := &Client{
		config:          config,
		credentialsFile: credentialsFile,
		tokenFile:       tokenFile,
		calendarID:      calendarID,
		loc:             loc,
	}

	// Try to load an existing token and initialize the service.
	token, err := loadToken(tokenFile)
	if err == nil {
		client.token = token
		if err := client.tryInitService(); err != nil {
			// Token might be expired; the user will need to re-auth.
			logger.L().Warn("could not initialize calendar service with existing token", zap.Error(err))
		}
	}

	return client, nil
}

// tryInitService attempts to initialize the service, refreshing the token if needed.
func (c *Client) tryInitService() error {
	if c.token == nil {
		return fmt.Errorf("no token available")
	}

	ctx := context.Background()

	if !c.token.Valid() && c.token.RefreshToken != "" {
		tokenSource := c.config.TokenSource(ctx, c.token)
		newToken, err := tokenSource.Token()
		if err != nil {
			return fmt.Errorf("failed to refresh token: %w", err)
		}
		c.token = newToken
		if err := saveToken(c.tokenFile, newToken); err != nil {
			logger.L().Warn("could not save refreshed token", zap.Error(err))
		}
	}

	return c.initService(ctx)
}

// IsAuthenticated returns true if the client is authenticated.
func (c *Client) IsAuthenticated() bool {
	return c.service != nil
}

// GetAuthURL returns the OAuth authorization URL.
func (c *Client) GetAuthURL() string {
	return c.config.AuthCodeURL("state-token", oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// initService initializes the Calendar service with the current token.
func (c *Client) initService(ctx context.Context) error {
	if c.token == nil {
		return fmt.Errorf("no token available")
	}

	httpClient := c.config.Client(ctx, c.token)
	service, err := calendar.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return fmt.Errorf("failed to create calendar service: %w", err)
	}

	c.service = service
	return nil
}

// ExchangeCode exchanges an authorization code for a token and saves it.
func (c *Client) ExchangeCode(ctx context.Context, code string) error {
	token, err := c.config.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to exchange code for token: %w", err)
	}

	c.token = token
	if err := saveToken(c.tokenFile, token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	return c.initService(ctx)
}
