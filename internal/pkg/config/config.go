package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Tencric   TencricConfig   `yaml:"tencric"`
	Auth      AuthConfig      `yaml:"auth"`
	Sanction  SanctionConfig  `yaml:"sanction"`
	Ledger    LedgerConfig    `yaml:"ledger"`
	Postgres  PostgresConfig  `yaml:"postgres"`
	Redis     RedisConfig     `yaml:"redis"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Telegram  TelegramConfig  `yaml:"telegram"`
	Betting   BettingConfig   `yaml:"betting"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"` // optional log file alongside stdout
}

type TencricConfig struct {
	BaseURL    string        `yaml:"base_url"`
	MirrorURLs []string      `yaml:"mirror_urls"` // alternate domains tried in order
	Tenant     string        `yaml:"tenant"`
	SportID    string        `yaml:"sport_id"`
	SportName  string        `yaml:"sport_name"`
	LeagueID   string        `yaml:"league_id"`
	LeagueName string        `yaml:"league_name"`
	Currency   string        `yaml:"currency"`
	Timeout    time.Duration `yaml:"timeout"`
	UserAgent  string        `yaml:"user_agent"`
}

type AuthConfig struct {
	LoginURL        string        `yaml:"login_url"`
	SportsURL       string        `yaml:"sports_url"`
	Headless        bool          `yaml:"headless"`
	CredentialsFile string        `yaml:"credentials_file"`
	Timeout         time.Duration `yaml:"timeout"`
}

type SanctionConfig struct {
	PolicyFile string `yaml:"policy_file"`
}

type LedgerConfig struct {
	Backend          string `yaml:"backend"` // "file" or "postgres"
	File             string `yaml:"file"`
	DedupWindowHours int    `yaml:"dedup_window_hours"`
}

type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type SchedulerConfig struct {
	Timezone          string        `yaml:"timezone"`
	BettingWindow     time.Duration `yaml:"betting_window"`
	Lookahead         time.Duration `yaml:"lookahead"`
	WeekdayStart      string        `yaml:"weekday_start"`       // "19:30"
	WeekendEarlyStart string        `yaml:"weekend_early_start"` // "15:30"
	WeekendLateStart  string        `yaml:"weekend_late_start"`  // "19:30"
}

type TelegramConfig struct {
	Enabled  bool   `yaml:"enabled"`
	BotToken string `yaml:"bot_token"`
	ChatID   int64  `yaml:"chat_id"`
}

type BettingConfig struct {
	DryRun bool `yaml:"dry_run"`
}

func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyDefaults()
	return &config, nil
}

// Default builds a config with all fallbacks applied, for commands run
// without a config file.
func Default() *Config {
	var config Config
	config.applyDefaults()
	return &config
}

func (c *Config) applyDefaults() {
	if c.Tencric.BaseURL == "" {
		c.Tencric.BaseURL = "https://www.my10cric.com"
	}
	if c.Tencric.Tenant == "" {
		c.Tencric.Tenant = "10CRIC"
	}
	if c.Tencric.Currency == "" {
		c.Tencric.Currency = "INR"
	}
	if c.Tencric.SportID == "" {
		c.Tencric.SportID = "51ba17ce-bf66-352f-a3bc-1e8984e1d4a7"
	}
	if c.Tencric.SportName == "" {
		c.Tencric.SportName = "Cricket"
	}
	if c.Tencric.LeagueID == "" {
		c.Tencric.LeagueID = "30a6e759-f406-33ac-ba2c-a11c9d161898"
	}
	if c.Tencric.LeagueName == "" {
		c.Tencric.LeagueName = "Indian Premier League"
	}
	if len(c.Tencric.MirrorURLs) == 0 {
		c.Tencric.MirrorURLs = []string{
			"https://www.10crics.com",
			"https://www.10cric10.com",
		}
	}
	if c.Tencric.Timeout <= 0 {
		c.Tencric.Timeout = 15 * time.Second
	}
	if c.Auth.LoginURL == "" {
		c.Auth.LoginURL = "https://www.10cric.com"
	}
	if c.Auth.SportsURL == "" {
		c.Auth.SportsURL = "https://www.my10cric.com/cricket/indian-premier-league"
	}
	if c.Auth.CredentialsFile == "" {
		c.Auth.CredentialsFile = ".credentials.json"
	}
	if c.Auth.Timeout <= 0 {
		c.Auth.Timeout = 2 * time.Minute
	}
	if c.Sanction.PolicyFile == "" {
		c.Sanction.PolicyFile = "sanctioned_bets.json"
	}
	if c.Ledger.Backend == "" {
		c.Ledger.Backend = "file"
	}
	if c.Ledger.File == "" {
		c.Ledger.File = "successful_bets.json"
	}
	if c.Ledger.DedupWindowHours <= 0 {
		c.Ledger.DedupWindowHours = 24
	}
	if c.Scheduler.Timezone == "" {
		c.Scheduler.Timezone = "Asia/Kolkata"
	}
	if c.Scheduler.BettingWindow <= 0 {
		c.Scheduler.BettingWindow = 3 * time.Hour
	}
	if c.Scheduler.Lookahead <= 0 {
		c.Scheduler.Lookahead = 3 * time.Hour
	}
	if c.Scheduler.WeekdayStart == "" {
		c.Scheduler.WeekdayStart = "19:30"
	}
	if c.Scheduler.WeekendEarlyStart == "" {
		c.Scheduler.WeekendEarlyStart = "15:30"
	}
	if c.Scheduler.WeekendLateStart == "" {
		c.Scheduler.WeekendLateStart = "19:30"
	}
}
