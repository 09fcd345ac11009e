// Package google provides the authenticated Google Calendar client used
// by the calendar tools.
package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"

	"github.com/daykeep/daykeep/pkg/logging"
)

// authLocalPort is the local port the OAuth redirect listener binds to.
// The OAuth client in Google Cloud Console must allow this redirect.
const authLocalPort = "6789"

var authLog *logging.Logger

func init() {
	var err error
	authLog, err = logging.NewLogger("google-auth")
	if err != nil {
		authLog.Warnf("Failed to initialize google auth logger, using stderr fallback: %v", err)
	}
}

// scopes covers event read/write on the user's calendars.
var scopes = []string{
	calendar.CalendarEventsScope,
	calendar.CalendarReadonlyScope,
}

// loadConfig builds the oauth2 config from a downloaded client secret
// file, forcing a localhost redirect on our listener port.
func loadConfig(credentialsPath string) (*oauth2.Config, error) {
	data, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read client secret file %s: %w", credentialsPath, err)
	}

	config, err := google.ConfigFromJSON(data, scopes...)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secret file: %w", err)
	}

	config.RedirectURL = fmt.Sprintf("http://localhost:%s/oauth2callback", authLocalPort)
	return config, nil
}

// httpClient returns an authenticated HTTP client, running the browser
// authorization flow when no cached token exists.
func httpClient(ctx context.Context, credentialsPath, tokenPath string) (*http.Client, error) {
	config, err := loadConfig(credentialsPath)
	if err != nil {
		return nil, err
	}

	token, err := tokenFromFile(tokenPath)
	if err != nil {
		authLog.Infof("no cached token at %s, starting authorization flow", tokenPath)
		token, err = tokenFromWeb(ctx, config)
		if err != nil {
			return nil, fmt.Errorf("authorization failed: %w", err)
		}
		if err := saveToken(tokenPath, token); err != nil {
			authLog.Warnf("could not cache token: %v", err)
		}
	}

	return config.Client(ctx, token), nil
}

// tokenFromWeb runs the authorization code flow, capturing the redirect
// on a local listener.
func tokenFromWeb(ctx context.Context, config *oauth2.Config) (*oauth2.Token, error) {
	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	listener, err := net.Listen("tcp", ":"+authLocalPort)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on port %s: %w", authLocalPort, err)
	}
	defer listener.Close()

	server := &http.Server{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			code := r.URL.Query().Get("code")
			if code == "" {
				http.Error(w, "authorization code not found", http.StatusBadRequest)
				errCh <- fmt.Errorf("authorization code not found in redirect")
				return
			}
			fmt.Fprint(w, "Authentication successful! You can close this window.")
			codeCh <- code
		}),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	defer server.Shutdown(context.Background())

	// AccessTypeOffline so a refresh token comes back
	authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Printf("Open this URL in your browser to authorize calendar access:\n%s\n", authURL)

	select {
	case code := <-codeCh:
		exchangeCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		return config.Exchange(exchangeCtx, code)
	case err := <-errCh:
		return nil, err
	case <-time.After(5 * time.Minute):
		return nil, fmt.Errorf("authorization timed out")
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// tokenFromFile reads a cached oauth2 token.
func tokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	token := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(token); err != nil {
		return nil, fmt.Errorf("failed to decode token from %s: %w", path, err)
	}
	return token, nil
}

// saveToken caches a token for the next run.
func saveToken(path string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	return json.NewEncoder(f).Encode(token)
}
