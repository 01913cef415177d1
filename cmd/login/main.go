// The login command opens a browser session on the sportsbook, waits for
// the operator to finish logging in and writes the mined session tokens to
// the credentials file.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/tencric/cricbet/internal/app"
	"github.com/tencric/cricbet/internal/auth"
)

const defaultConfigPath = "configs/production.yaml"

func main() {
	fmt.Println("Starting sportsbook login...")

	defaultConfig := os.Getenv("CONFIG_PATH")
	if defaultConfig == "" {
		defaultConfig = defaultConfigPath
	}

	var (
		configPath string
		headless   bool
	)
	flag.StringVar(&configPath, "config", defaultConfig, "Path to config file (can be set via CONFIG_PATH env var)")
	flag.BoolVar(&headless, "headless", false, "Run Chrome headless (needs an existing browser profile session)")
	flag.Parse()

	cfg, err := app.Bootstrap(configPath, "login")
	if err != nil {
		log.Fatalf("login: %v", err)
	}
	cfg.Auth.Headless = headless

	creds, err := auth.MineSession(context.Background(), &cfg.Auth)
	if err != nil {
		slog.Error("Login failed", "error", err)
		log.Fatalf("login: %v", err)
	}

	if err := creds.Save(cfg.Auth.CredentialsFile); err != nil {
		log.Fatalf("login: %v", err)
	}

	fmt.Printf("Session saved to %s (player %s)\n", cfg.Auth.CredentialsFile, creds.PlayerID)
}
