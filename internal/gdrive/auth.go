package gdrive

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// scopeDriveReadonly grants read-only access to Drive file metadata and
// content, which is all the backup fetcher needs.
const scopeDriveReadonly = "https://www.googleapis.com/auth/drive.readonly"

// AuthMode selects how the client authenticates with the Drive API.
type AuthMode string

const (
	// AuthClient uses browser-delegated OAuth client credentials with a
	// cached token, suitable for interactive first-time setup.
	AuthClient AuthMode = "client"

	// AuthService uses non-interactive service account credentials,
	// suitable for scheduled runs.
	AuthService AuthMode = "service"
)

// Validate reports an error when m is not a known auth mode.
func (m AuthMode) Validate() error {
	switch m {
	case AuthClient, AuthService:
		return nil
	default:
		return fmt.Errorf("unknown auth mode %q", m)
	}
}

// Credentials locates the files used to authenticate with Google Drive.
type Credentials struct {
	// ClientSecretsFile is the OAuth client JSON used in AuthClient mode.
	ClientSecretsFile string

	// ServiceAccountFile is the service account key JSON used in
	// AuthService mode.
	ServiceAccountFile string

	// TokenFile caches the OAuth token between runs in AuthClient mode.
	TokenFile string
}

// tokenSource builds an oauth2 token source for the selected mode.
func tokenSource(ctx context.Context, mode AuthMode, creds Credentials) (oauth2.TokenSource, error) {
	switch mode {
	case AuthService:
		data, err := os.ReadFile(creds.ServiceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("reading service account file: %w", err)
		}
		cfg, err := google.JWTConfigFromJSON(data, scopeDriveReadonly)
		if err != nil {
			return nil, fmt.Errorf("parsing service account file: %w", err)
		}
		return cfg.TokenSource(ctx), nil
	case AuthClient:
		return clientTokenSource(ctx, creds)
	default:
		return nil, fmt.Errorf("unknown auth mode %q", mode)
	}
}

// clientTokenSource authenticates with OAuth client credentials, reusing a
// cached token when one exists and running the installed-app browser flow
// otherwise. Refreshes are handled by the returned token source.
func clientTokenSource(ctx context.Context, creds Credentials) (oauth2.TokenSource, error) {
	data, err := os.ReadFile(creds.ClientSecretsFile)
	if err != nil {
		return nil, fmt.Errorf("reading client secrets file: %w", err)
	}
	cfg, err := google.ConfigFromJSON(data, scopeDriveReadonly)
	if err != nil {
		return nil, fmt.Errorf("parsing client secrets file: %w", err)
	}

	tok, err := loadToken(creds.TokenFile)
	if err != nil {
		// Corrupt token cache - warn and re-authenticate.
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		tok = nil
	}

	if tok == nil {
		tok, err = authorize(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := saveToken(creds.TokenFile, tok); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not save token: %v\n", err)
		}
	}

	return cfg.TokenSource(ctx, tok), nil
}

// authorize runs the installed-app authorization flow: the user opens the
// printed URL in a browser and is redirected back to a local listener that
// captures the authorization code.
func authorize(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("starting local listener: %w", err)
	}
	defer func() { _ = ln.Close() }()

	stateBytes := make([]byte, 16)
	if _, err := rand.Read(stateBytes); err != nil {
		return nil, fmt.Errorf("generating state: %w", err)
	}
	state := hex.EncodeToString(stateBytes)

	redirect := *cfg
	redirect.RedirectURL = fmt.Sprintf("http://%s/", ln.Addr().String())

	codeCh := make(chan string, 1)
	srv := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("state") != state {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			return
		}
		fmt.Fprintln(w, "Authorization received, you can close this window.")
		codeCh <- r.URL.Query().Get("code")
	})}
	go func() { _ = srv.Serve(ln) }()
	defer func() { _ = srv.Close() }()

	fmt.Println()
	fmt.Println("To authorize access to Google Drive, open the page:")
	fmt.Printf("  %s\n", redirect.AuthCodeURL(state, oauth2.AccessTypeOffline))
	fmt.Println()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case code := <-codeCh:
		if code == "" {
			return nil, errors.New("authorization denied")
		}
		tok, err := redirect.Exchange(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("exchanging authorization code: %w", err)
		}
		return tok, nil
	}
}

// loadToken loads a previously cached token from disk. A missing file is not
// an error; it returns (nil, nil).
func loadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading token file: %w", err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("corrupt token file (delete %s to re-authenticate): %w", path, err)
	}
	return &tok, nil
}

// saveToken persists a token to disk with owner-only permissions.
func saveToken(path string, tok *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating token directory: %w", err)
	}
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling token: %w", err)
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("writing token file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("saving token file: %w", err)
	}
	return nil
}
