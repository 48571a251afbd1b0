package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the config file
const (
	EnvAPIKey       = "API_KEY"
	EnvGeminiAPIKey = "GEMINI_API_KEY"
	EnvWebhookURL   = "INVOICEFLOW_WEBHOOK_URL"
)

type Config struct {
	// Database settings
	Database DatabaseConfig `yaml:"database"`

	// Invoice settings
	Invoice InvoiceConfig `yaml:"invoice"`

	// Outgoing webhook
	Webhook WebhookConfig `yaml:"webhook"`

	// Generative AI
	AI AIConfig `yaml:"ai"`

	// Mock payment links
	Payment PaymentConfig `yaml:"payment"`

	// Issuing company shown on invoices
	Company CompanyConfig `yaml:"company"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"` // Path to SQLite database
}

type InvoiceConfig struct {
	Currency       string `yaml:"currency"`         // ISO currency code
	DefaultDueDays int    `yaml:"default_due_days"` // Suggested days until an invoice is due
	OutputDir      string `yaml:"output_dir"`       // Directory for generated PDFs
	NumberPrefix   string `yaml:"number_prefix"`    // Invoice number prefix (e.g., "INV")
}

type WebhookConfig struct {
	URL     string        `yaml:"url"`     // Empty disables delivery
	Timeout time.Duration `yaml:"timeout"` // Per-request timeout
}

type AIConfig struct {
	Model     string        `yaml:"model"`
	ChatModel string        `yaml:"chat_model"` // Assistant conversations
	APIKey    string        `yaml:"api_key,omitempty"`
	Timeout   time.Duration `yaml:"timeout"` // 0 = no timeout
}

type PaymentConfig struct {
	LinkBaseURL string `yaml:"link_base_url"`
}

type CompanyConfig struct {
	Name         string `yaml:"name"`
	Address      string `yaml:"address"`
	Phone        string `yaml:"phone"`
	Email        string `yaml:"email"`
	Website      string `yaml:"website"`
	PrimaryColor string `yaml:"primary_color"`
}

// Dir returns ~/.config/invoiceflow
func Dir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home dir unavailable
		return filepath.Join(".", ".config", "invoiceflow")
	}
	return filepath.Join(homeDir, ".config", "invoiceflow")
}

// DefaultConfigPath returns ~/.config/invoiceflow/config.yaml
func DefaultConfigPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// LogPath returns the debug log written while the TUI runs
func LogPath() string {
	return filepath.Join(Dir(), "debug.log")
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	dir := Dir()

	return &Config{
		Database: DatabaseConfig{
			Path: filepath.Join(dir, "invoiceflow.db"),
		},
		Invoice: InvoiceConfig{
			Currency:       "UGX",
			DefaultDueDays: 14,
			OutputDir:      filepath.Join(dir, "invoices"),
			NumberPrefix:   "INV",
		},
		Webhook: WebhookConfig{
			URL:     "",
			Timeout: 10 * time.Second,
		},
		AI: AIConfig{
			Model:     "gemini-2.5-flash",
			ChatModel: "gemini-2.5-pro",
			Timeout:   0,
		},
		Payment: PaymentConfig{
			LinkBaseURL: "https://pay.invoiceflow.ai/pay",
		},
		Company: CompanyConfig{
			Name:         "InvoiceFlow Uganda Ltd",
			Address:      "Plot 42, Kampala Road\nKampala, Uganda",
			Phone:        "+256 700 123 456",
			Email:        "accounts@invoiceflow.ug",
			Website:      "www.invoiceflow.ug",
			PrimaryColor: "#2563eb",
		},
	}
}

// Load loads config from the given path, or returns defaults if file doesn't exist.
// A .env file in the working directory is loaded first; environment overrides apply last.
func Load(path string) (*Config, error) {
	// Missing .env is fine
	_ = godotenv.Load()

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// LoadDefault loads from the default config path
func LoadDefault() (*Config, error) {
	return Load(DefaultConfigPath())
}

func (c *Config) applyEnv() {
	if key := os.Getenv(EnvGeminiAPIKey); key != "" {
		c.AI.APIKey = key
	}
	if key := os.Getenv(EnvAPIKey); key != "" {
		c.AI.APIKey = key
	}
	if url := os.Getenv(EnvWebhookURL); url != "" {
		c.Webhook.URL = url
	}
}

// Save writes the config to the given path
func (c *Config) Save(path string) error {
	// Create parent directories if they don't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	// Secrets stay in the environment
	out := *c
	out.AI.APIKey = ""

	data, err := yaml.Marshal(&out)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// EnsureDirectories creates all necessary directories (for database, invoices, etc.)
func (c *Config) EnsureDirectories() error {
	// Create database directory
	dbDir := filepath.Dir(c.Database.Path)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return err
	}

	// Create invoice output directory
	if err := os.MkdirAll(c.Invoice.OutputDir, 0755); err != nil {
		return err
	}

	return nil
}
