// Package auth manages the sportsbook session: credentials on disk and a
// headless-browser login flow that mines them from a real session.
package auth

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
)

// Credentials is the authenticated session state the API client needs.
// LocalStorage and Cookies keep the raw session dump so a future token
// format change can be recovered from an old file.
type Credentials struct {
	PlayerID        string            `json:"player_id"`
	SportsbookToken string            `json:"sportsbook_token"`
	LocalStorage    map[string]string `json:"localStorage,omitempty"`
	Cookies         map[string]string `json:"cookies,omitempty"`
}

// Valid reports whether both tokens are present.
func (c *Credentials) Valid() bool {
	return c != nil && c.PlayerID != "" && c.SportsbookToken != ""
}

// LoadCredentials resolves the session tokens. Environment variables win
// over the credentials file so one-off runs can override a stale session.
func LoadCredentials(path string) (*Credentials, error) {
	creds := &Credentials{
		PlayerID:        os.Getenv("PLAYER_ID"),
		SportsbookToken: os.Getenv("SPORTSBOOK_TOKEN"),
	}
	if creds.Valid() {
		slog.Info("Using credentials from environment")
		return creds, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("no credentials: set PLAYER_ID and SPORTSBOOK_TOKEN or run the login command to create %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	var fileCreds Credentials
	if err := json.Unmarshal(data, &fileCreds); err != nil {
		return nil, fmt.Errorf("failed to parse credentials file: %w", err)
	}

	// Environment variables still override individual fields.
	if creds.PlayerID == "" {
		creds.PlayerID = fileCreds.PlayerID
	}
	if creds.SportsbookToken == "" {
		creds.SportsbookToken = fileCreds.SportsbookToken
	}
	creds.LocalStorage = fileCreds.LocalStorage
	creds.Cookies = fileCreds.Cookies

	if !creds.Valid() {
		return nil, fmt.Errorf("credentials file %s is missing player_id or sportsbook_token", path)
	}
	return creds, nil
}

// Save writes the credentials file with owner-only permissions; it holds a
// live session token.
func (c *Credentials) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write credentials file: %w", err)
	}
	slog.Info("Saved credentials", "path", path)
	return nil
}
