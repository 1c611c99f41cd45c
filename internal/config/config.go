package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	Storage  StorageConfig  `json:"storage" yaml:"storage"`
	Elite    EliteConfig    `json:"elite" yaml:"elite"`
	Chat     ChatConfig     `json:"chat" yaml:"chat"`
	Database DatabaseConfig `json:"database" yaml:"database"`
	Sync     SyncConfig     `json:"sync" yaml:"sync"`
	Logging  LoggingConfig  `json:"logging" yaml:"logging"`
}

// StorageConfig names the record files
type StorageConfig struct {
	JobsFile          string `json:"jobs_file" yaml:"jobs_file"`
	ChatFile          string `json:"chat_file" yaml:"chat_file"`
	AppliedLedgerFile string `json:"applied_ledger_file" yaml:"applied_ledger_file"`
	DedupKey          string `json:"dedup_key" yaml:"dedup_key"`
}

// EliteConfig holds the elite job filter
type EliteConfig struct {
	Platform string  `json:"platform" yaml:"platform"`
	MinScore float64 `json:"min_score" yaml:"min_score"`
	Limit    int     `json:"limit" yaml:"limit"`
}

// ChatConfig holds hive chat settings
type ChatConfig struct {
	MaxHistory int `json:"max_history" yaml:"max_history"` // 0 keeps everything
}

// DatabaseConfig holds Supabase connection configuration
type DatabaseConfig struct {
	SupabaseURL string `json:"supabase_url" yaml:"supabase_url"`
	SupabaseKey string `json:"supabase_key" yaml:"supabase_key"`
	Table       string `json:"table" yaml:"table"`
}

// SyncConfig holds mirror sync tuning
type SyncConfig struct {
	BatchSize     int      `json:"batch_size" yaml:"batch_size"`
	RateLimit     int      `json:"rate_limit" yaml:"rate_limit"`
	RetryAttempts int      `json:"retry_attempts" yaml:"retry_attempts"`
	RetryDelay    Duration `json:"retry_delay" yaml:"retry_delay"`
	MaxRetryDelay Duration `json:"max_retry_delay" yaml:"max_retry_delay"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
	File   string `json:"file" yaml:"file"`
}

// DefaultConfig returns a default configuration. Supabase credentials are
// taken from the environment only.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			JobsFile:          "found_jobs.json",
			ChatFile:          "hive_chat.json",
			AppliedLedgerFile: "applied_ledger.json",
			DedupKey:          "url",
		},
		Elite: EliteConfig{
			Platform: "Upwork",
			MinScore: 80,
			Limit:    10,
		},
		Chat: ChatConfig{
			MaxHistory: 0,
		},
		Database: DatabaseConfig{
			SupabaseURL: os.Getenv("SUPABASE_URL"),
			SupabaseKey: os.Getenv("SUPABASE_KEY"),
			Table:       "jobs",
		},
		Sync: SyncConfig{
			BatchSize:     50,
			RateLimit:     60,
			RetryAttempts: 3,
			RetryDelay:    Duration(1 * time.Second),
			MaxRetryDelay: Duration(30 * time.Second),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from a JSON or YAML file on top of the
// defaults. A missing file yields the defaults. SUPABASE_URL and SUPABASE_KEY
// in the environment override file values.
func LoadConfig(filename string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filename)
	if os.IsNotExist(err) {
		return config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	default:
		if err := json.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to decode config file: %w", err)
		}
	}

	if v := os.Getenv("SUPABASE_URL"); v != "" {
		config.Database.SupabaseURL = v
	}
	if v := os.Getenv("SUPABASE_KEY"); v != "" {
		config.Database.SupabaseKey = v
	}

	return config, nil
}

// SaveConfig saves configuration to a JSON file
func (c *Config) SaveConfig(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Storage.JobsFile == "" {
		return fmt.Errorf("jobs file is required")
	}

	if c.Storage.ChatFile == "" {
		return fmt.Errorf("chat file is required")
	}

	if c.Storage.DedupKey == "" {
		return fmt.Errorf("dedup key is required")
	}

	if c.Elite.Limit < 0 {
		return fmt.Errorf("elite limit cannot be negative")
	}

	if c.Chat.MaxHistory < 0 {
		return fmt.Errorf("chat max history cannot be negative")
	}

	return nil
}

// ValidateSync validates the settings needed to mirror records to Supabase
func (c *Config) ValidateSync() error {
	if err := c.Validate(); err != nil {
		return err
	}

	if c.Database.SupabaseURL == "" {
		return fmt.Errorf("supabase URL is required")
	}

	if c.Database.SupabaseKey == "" {
		return fmt.Errorf("supabase key is required")
	}

	if c.Database.Table == "" {
		return fmt.Errorf("supabase table is required")
	}

	if c.Sync.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive")
	}

	if c.Sync.RetryAttempts < 0 {
		return fmt.Errorf("retry attempts cannot be negative")
	}

	if c.Sync.RateLimit < 0 {
		return fmt.Errorf("rate limit cannot be negative")
	}

	return nil
}
