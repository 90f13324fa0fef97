package auth

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/browser"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/FranLegon/drive-folder-cleaner/internal/crypto"
	"github.com/FranLegon/drive-folder-cleaner/internal/logger"
)

const (
	// DefaultRedirectPort is used when the config does not set one
	DefaultRedirectPort = 6789

	callbackPath = "/oauth2cb"

	// Google OAuth scopes
	DriveScope         = "https://www.googleapis.com/auth/drive"
	DriveMetadataScope = "https://www.googleapis.com/auth/drive.metadata.readonly"

	flowTimeout = 5 * time.Minute
)

// openBrowser is replaced in tests
var openBrowser = browser.OpenURL

// GoogleOAuthConfig creates the OAuth2 configuration for the Drive API
func GoogleOAuthConfig(clientID, clientSecret string, port int) *oauth2.Config {
	if port <= 0 {
		port = DefaultRedirectPort
	}
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  fmt.Sprintf("http://localhost:%d%s", port, callbackPath),
		Scopes: []string{
			DriveScope,
			DriveMetadataScope,
		},
		Endpoint: google.Endpoint,
	}
}

// PerformOAuthFlow runs the browser consent flow and returns the refresh token
func PerformOAuthFlow(ctx context.Context, config *oauth2.Config) (string, error) {
	state, err := crypto.RandomState()
	if err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}

	code, err := waitForCode(ctx, config, state)
	if err != nil {
		return "", err
	}

	token, err := config.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("failed to exchange code for token: %w", err)
	}

	if token.RefreshToken == "" {
		return "", errors.New("no refresh token received (user may have already authorized)")
	}

	return token.RefreshToken, nil
}

// waitForCode serves the redirect URL until the authorization code arrives
func waitForCode(ctx context.Context, config *oauth2.Config, state string) (string, error) {
	redirect, err := parseRedirect(config.RedirectURL)
	if err != nil {
		return "", err
	}

	listener, err := net.Listen("tcp", redirect)
	if err != nil {
		return "", fmt.Errorf("failed to listen on %s: %w", redirect, err)
	}

	codeChan := make(chan string, 1)
	errChan := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc(callbackPath, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("state") != state {
			sendErr(errChan, errors.New("state mismatch"))
			fmt.Fprintf(w, "Error: State mismatch. You can close this window.")
			return
		}

		if e := r.URL.Query().Get("error"); e != "" {
			sendErr(errChan, fmt.Errorf("authorization denied: %s", e))
			fmt.Fprintf(w, "Error: Authorization denied. You can close this window.")
			return
		}

		code := r.URL.Query().Get("code")
		if code == "" {
			sendErr(errChan, errors.New("no authorization code received"))
			fmt.Fprintf(w, "Error: No authorization code received. You can close this window.")
			return
		}

		select {
		case codeChan <- code:
		default:
		}
		fmt.Fprintf(w, "Authorization successful! You can close this window and return to the terminal.")
	})

	server := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sendErr(errChan, fmt.Errorf("server error: %w", err))
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	authURL := config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	logger.Info("Please visit this URL to authorize the application:")
	logger.Info("%s", authURL)
	if err := openBrowser(authURL); err != nil {
		logger.Debug("Could not open a browser: %v", err)
	}

	timer := time.NewTimer(flowTimeout)
	defer timer.Stop()

	select {
	case code := <-codeChan:
		return code, nil
	case err := <-errChan:
		return "", err
	case <-ctx.Done():
		return "", ctx.Err()
	case <-timer.C:
		return "", errors.New("OAuth flow timed out after 5 minutes")
	}
}

func sendErr(ch chan error, err error) {
	select {
	case ch <- err:
	default:
	}
}

// parseRedirect returns the host:port the redirect URL points to
func parseRedirect(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid redirect URL %q: %w", raw, err)
	}
	if u.Port() == "" {
		return "", fmt.Errorf("redirect URL %q has no port", raw)
	}
	return u.Host, nil
}
