package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

type Config struct {
	Timezone  string    `yaml:"timezone"`
	Output    Output    `yaml:"output"`
	Server    Server    `yaml:"server"`
	Fetch     Fetch     `yaml:"fetch"`
	Leagues   Leagues   `yaml:"leagues"`
	Headlines Headlines `yaml:"headlines"`
	Schedule  Schedule  `yaml:"schedule"`
	Page      Page      `yaml:"page"`
	Logging   Logging   `yaml:"logging"`
}

type Output struct {
	DataDir  string `yaml:"data_dir"`
	Artifact string `yaml:"artifact"`
	SiteDir  string `yaml:"site_dir"`
	KeepRuns int    `yaml:"keep_runs"` // 0 keeps all run history
}

type Server struct {
	Port int `yaml:"port"`
	// DataURL, when set, makes the server fetch the artifact over HTTP
	// instead of reading it from disk.
	DataURL string `yaml:"data_url"`
}

type Fetch struct {
	TimeoutSeconds int  `yaml:"timeout_seconds"`
	Parallel       bool `yaml:"parallel"`
}

type Leagues struct {
	MLB League `yaml:"mlb"`
	NHL League `yaml:"nhl"`
	NBA League `yaml:"nba"`
	EPL League `yaml:"epl"`
}

type League struct {
	Enabled bool   `yaml:"enabled"`
	BaseURL string `yaml:"base_url"`
	// CoreURL is the secondary API some leagues need (NBA leaders).
	CoreURL       string `yaml:"core_url"`
	APIKeyEnv     string `yaml:"api_key_env"`
	CompetitionID int    `yaml:"competition_id"`
}

type Headlines struct {
	Enabled     bool              `yaml:"enabled"`
	LeadExcerpt bool              `yaml:"lead_excerpt"`
	MaxItems    int               `yaml:"max_items"`
	DaysBack    int               `yaml:"days_back"`
	Feeds       map[string]string `yaml:"feeds"`
}

type Schedule struct {
	Cron string `yaml:"cron"`
}

type Page struct {
	Title string `yaml:"title"`
	// Note is Markdown shown under the masthead.
	Note string `yaml:"note"`
}

type Logging struct {
	Level string `yaml:"level"`
}

// ConfigDir returns the XDG config directory for sportspage.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "sportspage")
}

// DataDir returns the XDG data directory for sportspage.
func DataDir() string {
	return filepath.Join(homeDir(), ".local", "share", "sportspage")
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/sportspage/config.yaml > ./config.yaml
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", fmt.Errorf(
		"no config file found; searched:\n  %s\n  ./config.yaml\n\nRun 'sportspage init' to create a default config",
		xdgConfig,
	)
}

// Load reads and parses a config YAML file. A .env file next to the config
// is loaded first so API keys can live there; variables already set in the
// environment win.
func Load(path string) (*Config, error) {
	envFile := filepath.Join(filepath.Dir(path), ".env")
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(data)
}

// Default returns the embedded default configuration.
func Default() *Config {
	cfg, err := parse(DefaultConfigYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded default config: %v", err))
	}
	return cfg
}

// parse parses YAML bytes into a Config, applying defaults. ${VAR}
// references are expanded from the environment.
func parse(data []byte) (*Config, error) {
	cfg := &Config{
		Timezone: "America/New_York",
		Output:   Output{Artifact: "sports_data.json", KeepRuns: 90},
		Server:   Server{Port: 8000},
		Fetch:    Fetch{TimeoutSeconds: 60, Parallel: true},
		Leagues: Leagues{
			MLB: League{Enabled: true, BaseURL: "https://statsapi.mlb.com/api/v1"},
			NHL: League{Enabled: true, BaseURL: "https://api-web.nhle.com/v1"},
			NBA: League{
				Enabled: true,
				BaseURL: "https://site.api.espn.com/apis",
				CoreURL: "https://sports.core.api.espn.com/v2",
			},
			EPL: League{
				Enabled:       true,
				BaseURL:       "https://api.football-data.org/v4",
				APIKeyEnv:     "FOOTBALL_DATA_API_KEY",
				CompetitionID: 2021,
			},
		},
		Headlines: Headlines{MaxItems: 5, DaysBack: 2},
		Schedule:  Schedule{Cron: "0 3 * * *"},
		Page:      Page{Title: "The Sports Page"},
		Logging:   Logging{Level: "INFO"},
	}

	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}

	return cfg, nil
}

// GetDataDir returns the effective data directory from config or XDG default.
func (c *Config) GetDataDir() string {
	if c.Output.DataDir != "" {
		return c.Output.DataDir
	}
	return DataDir()
}

// ArtifactPath returns the full path of the sports data JSON file.
func (c *Config) ArtifactPath() string {
	if filepath.IsAbs(c.Output.Artifact) {
		return c.Output.Artifact
	}
	return filepath.Join(c.GetDataDir(), c.Output.Artifact)
}

// GetSiteDir returns where the static export is written.
func (c *Config) GetSiteDir() string {
	if c.Output.SiteDir != "" {
		return c.Output.SiteDir
	}
	return filepath.Join(c.GetDataDir(), "site")
}

// DBPath returns the path of the local state database.
func (c *Config) DBPath() string {
	return filepath.Join(c.GetDataDir(), "sportspage.db")
}

// Location returns the configured timezone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// FetchTimeout is the per-league time budget.
func (c *Config) FetchTimeout() time.Duration {
	if c.Fetch.TimeoutSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.Fetch.TimeoutSeconds) * time.Second
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
