package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
logging:
  level: debug
ledger:
  backend: postgres
scheduler:
  betting_window: 2h
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("logging level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Ledger.Backend != "postgres" {
		t.Errorf("ledger backend = %q, want postgres", cfg.Ledger.Backend)
	}
	if cfg.Scheduler.BettingWindow != 2*time.Hour {
		t.Errorf("betting window = %v, want 2h", cfg.Scheduler.BettingWindow)
	}

	// Defaults fill what the file omits.
	if cfg.Tencric.BaseURL != "https://www.my10cric.com" {
		t.Errorf("base url = %q", cfg.Tencric.BaseURL)
	}
	if cfg.Tencric.Currency != "INR" {
		t.Errorf("currency = %q, want INR", cfg.Tencric.Currency)
	}
	if cfg.Scheduler.Timezone != "Asia/Kolkata" {
		t.Errorf("timezone = %q, want Asia/Kolkata", cfg.Scheduler.Timezone)
	}
	if cfg.Scheduler.Lookahead != 3*time.Hour {
		t.Errorf("lookahead = %v, want 3h", cfg.Scheduler.Lookahead)
	}
	if cfg.Ledger.DedupWindowHours != 24 {
		t.Errorf("dedup window = %d, want 24", cfg.Ledger.DedupWindowHours)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("Load on missing file returned no error")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Ledger.Backend != "file" || cfg.Ledger.File != "successful_bets.json" {
		t.Errorf("ledger defaults = %q/%q", cfg.Ledger.Backend, cfg.Ledger.File)
	}
	if cfg.Scheduler.WeekdayStart != "19:30" {
		t.Errorf("weekday start = %q, want 19:30", cfg.Scheduler.WeekdayStart)
	}
	if cfg.Scheduler.WeekendEarlyStart != "15:30" || cfg.Scheduler.WeekendLateStart != "19:30" {
		t.Errorf("weekend starts = %q/%q", cfg.Scheduler.WeekendEarlyStart, cfg.Scheduler.WeekendLateStart)
	}
	if len(cfg.Tencric.MirrorURLs) == 0 {
		t.Error("no default mirror urls")
	}
}
