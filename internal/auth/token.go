package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2"

	"github.com/FranLegon/drive-folder-cleaner/internal/retry"
)

const (
	validateAttempts = 3
	validateDelay    = 2 * time.Second
)

// NewTokenSource returns a caching token source that refreshes from refreshToken
func NewTokenSource(config *oauth2.Config, refreshToken string) oauth2.TokenSource {
	token := &oauth2.Token{RefreshToken: refreshToken}
	return oauth2.ReuseTokenSource(nil, config.TokenSource(context.Background(), token))
}

// ValidateToken checks that a refresh token can still mint access tokens.
// A rejected grant is not retried.
func ValidateToken(ctx context.Context, config *oauth2.Config, refreshToken string) error {
	if refreshToken == "" {
		return errors.New("no refresh token stored")
	}
	return retry.Do(ctx, validateAttempts, validateDelay, func() error {
		ts := config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
		if _, err := ts.Token(); err != nil {
			var rErr *oauth2.RetrieveError
			if errors.As(err, &rErr) && rErr.Response != nil && rErr.Response.StatusCode < 500 {
				return retry.Permanent(fmt.Errorf("failed to refresh token: %w", err))
			}
			return fmt.Errorf("failed to refresh token: %w", err)
		}
		return nil
	})
}
