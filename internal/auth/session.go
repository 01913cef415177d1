package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/tencric/cricbet/internal/pkg/config"
)

const sessionUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// MineSession drives a Chrome instance through the sportsbook login and
// extracts the session tokens from localStorage. With headless disabled the
// operator completes the login form by hand and the miner waits for the
// token to appear; headless mode only works when the profile already holds
// a session.
func MineSession(ctx context.Context, cfg *config.AuthConfig) (*Credentials, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.UserAgent(sessionUserAgent),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(format string, v ...interface{}) {
		slog.Debug("chromedp: " + fmt.Sprintf(format, v...))
	}))
	defer cancelBrowser()

	runCtx, cancelRun := context.WithTimeout(browserCtx, cfg.Timeout)
	defer cancelRun()

	slog.Info("Opening sportsbook login page", "url", cfg.LoginURL, "headless", cfg.Headless)
	if err := chromedp.Run(runCtx, chromedp.Navigate(cfg.LoginURL)); err != nil {
		return nil, fmt.Errorf("failed to open login page: %w", err)
	}

	storage, err := waitForToken(runCtx)
	if err != nil {
		return nil, err
	}

	// The sportsbook subdomain sets its own localStorage entries; merge
	// them in before extracting.
	if cfg.SportsURL != "" {
		if err := chromedp.Run(runCtx,
			chromedp.Navigate(cfg.SportsURL),
			chromedp.Sleep(5*time.Second),
		); err != nil {
			slog.Warn("Failed to load sports page, using login page session", "error", err)
		} else if more, err := readLocalStorage(runCtx); err == nil {
			for k, v := range more {
				storage[k] = v
			}
		}
	}

	cookies, err := readCookies(runCtx)
	if err != nil {
		slog.Warn("Failed to read cookies", "error", err)
		cookies = map[string]string{}
	}

	creds := extractCredentials(storage, cookies)
	if !creds.Valid() {
		return nil, fmt.Errorf("login finished but no session tokens found in localStorage")
	}

	slog.Info("Mined session tokens", "player_id", creds.PlayerID)
	return creds, nil
}

// waitForToken polls localStorage until the session token shows up or the
// context expires. Manual logins take as long as the operator takes.
func waitForToken(ctx context.Context) (map[string]string, error) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		storage, err := readLocalStorage(ctx)
		if err == nil && findToken(storage) != "" {
			return storage, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("timed out waiting for login to complete: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

func readLocalStorage(ctx context.Context) (map[string]string, error) {
	var raw string
	err := chromedp.Run(ctx,
		chromedp.Evaluate(`JSON.stringify(Object.fromEntries(Object.entries(localStorage)))`, &raw),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to read localStorage: %w", err)
	}

	storage := map[string]string{}
	if err := json.Unmarshal([]byte(raw), &storage); err != nil {
		return nil, fmt.Errorf("failed to parse localStorage dump: %w", err)
	}
	return storage, nil
}

func readCookies(ctx context.Context) (map[string]string, error) {
	out := map[string]string{}
	err := chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		cookies, err := network.GetCookies().Do(ctx)
		if err != nil {
			return err
		}
		for _, c := range cookies {
			out[c.Name] = c.Value
		}
		return nil
	}))
	if err != nil {
		return nil, err
	}
	return out, nil
}

// extractCredentials pulls the tokens out of a localStorage dump. Key names
// have changed across site releases, so exact keys are tried first and
// substring matches second.
func extractCredentials(storage, cookies map[string]string) *Credentials {
	creds := &Credentials{
		LocalStorage: storage,
		Cookies:      cookies,
	}

	creds.SportsbookToken = findToken(storage)

	for _, key := range []string{"sportsbookPlayerId", "playerId"} {
		if v, ok := storage[key]; ok && v != "" {
			creds.PlayerID = unquote(v)
			break
		}
	}
	if creds.PlayerID == "" {
		if v, ok := storage["apc_user_id"]; ok && v != "" {
			creds.PlayerID = unquote(v)
		}
	}

	return creds
}

func findToken(storage map[string]string) string {
	for _, key := range []string{"sportsbook:token", "sportsbookToken"} {
		if v, ok := storage[key]; ok && v != "" {
			return unquote(v)
		}
	}
	for key, v := range storage {
		if strings.Contains(strings.ToLower(key), "sportsbook") && strings.Contains(strings.ToLower(key), "token") && v != "" {
			return unquote(v)
		}
	}
	return ""
}

// unquote strips the JSON quoting some frontend code leaves on stored
// string values.
func unquote(v string) string {
	return strings.Trim(v, `"`)
}
