package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	configDirName  = ".contactscout"
	configFileName = "config.yaml"
	envPrefix      = "CONTACTSCOUT"
)

// Config holds the application configuration
type Config struct {
	SearchEngine        string   `mapstructure:"search_engine" validate:"oneof=google bing duckduckgo"`
	MaxPages            int      `mapstructure:"max_pages" validate:"min=1,max=10"`
	RequestDelaySeconds int      `mapstructure:"request_delay_seconds" validate:"min=0,max=60"`
	BlockImages         bool     `mapstructure:"block_images"`
	Debug               bool     `mapstructure:"debug"`
	Browser             string   `mapstructure:"browser" validate:"oneof=chromedp playwright rod static"`
	BrowserType         string   `mapstructure:"browser_type" validate:"oneof=chromium firefox webkit"` // playwright only
	Headless            bool     `mapstructure:"headless"`
	UserAgent           string   `mapstructure:"user_agent"`
	Concurrency         int      `mapstructure:"concurrency" validate:"min=1,max=8"`
	ResultsPerPage      int      `mapstructure:"results_per_page" validate:"min=1,max=20"`
	PageTimeoutSeconds  int      `mapstructure:"page_timeout_seconds" validate:"min=5,max=300"`
	EmailProviders      []string `mapstructure:"email_providers" validate:"min=1,dive,required"`
	DatabasePath        string   `mapstructure:"database_path"`
}

// RequestDelay is the pause between profile page loads
func (c *Config) RequestDelay() time.Duration {
	return time.Duration(c.RequestDelaySeconds) * time.Second
}

// PageTimeout bounds a single page render
func (c *Config) PageTimeout() time.Duration {
	return time.Duration(c.PageTimeoutSeconds) * time.Second
}

var AppConfig *Config

var validate = validator.New()

// defaults mirrors the values written to a fresh config file
var defaults = map[string]interface{}{
	"search_engine":         "google",
	"max_pages":             3,
	"request_delay_seconds": 2,
	"block_images":          true,
	"debug":                 false,
	"browser":               "chromedp",
	"browser_type":          "chromium",
	"headless":              true,
	"user_agent":            "",
	"concurrency":           2,
	"results_per_page":      5,
	"page_timeout_seconds":  30,
	"email_providers":       []string{"@gmail.com", "@yahoo.com"},
	"database_path":         "",
}

// Initialize loads or creates the configuration file
func Initialize() error {
	configFile := GetConfigPath()
	configDir := filepath.Dir(configFile)

	// Create config directory if it doesn't exist
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Create default config if it doesn't exist
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		if err := createDefaultConfig(configFile); err != nil {
			return err
		}
	}

	cfg, err := Load(configFile)
	if err != nil {
		return err
	}
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = filepath.Join(configDir, "contactscout.db")
	}

	AppConfig = cfg
	return nil
}

// Load reads and validates a config file through the global viper instance.
// CONTACTSCOUT_* environment variables override file values.
func Load(configFile string) (*Config, error) {
	viper.SetConfigFile(configFile)
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	for key, value := range defaults {
		viper.SetDefault(key, value)
	}

	// Read config
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	// Unmarshal into struct
	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.EmailProviders = splitProviders(cfg.EmailProviders)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the value ranges of cfg
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok {
			msgs := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q (got %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// splitProviders accepts both YAML lists and comma separated env values
func splitProviders(in []string) []string {
	out := []string{}
	for _, item := range in {
		for _, p := range strings.Split(item, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

// createDefaultConfig creates a default config file
func createDefaultConfig(path string) error {
	defaultConfig := `# ContactScout Configuration
# Search engine: google, bing, duckduckgo
search_engine: google
max_pages: 3
results_per_page: 5
request_delay_seconds: 2

# Mail providers OR-ed into the search query
email_providers:
  - "@gmail.com"
  - "@yahoo.com"

# Browser backend: chromedp, playwright, rod, static
browser: chromedp
# Playwright only: chromium, firefox, webkit
browser_type: chromium
headless: true
block_images: true
user_agent: ""
concurrency: 2
page_timeout_seconds: 30

# Leave empty to use ~/.contactscout/contactscout.db
database_path: ""
debug: false
`
	return os.WriteFile(path, []byte(defaultConfig), 0600)
}

// Set updates a configuration value after checking the result still validates
func Set(key, value string) error {
	key = strings.ToLower(strings.TrimSpace(key))
	if _, ok := defaults[key]; !ok {
		return fmt.Errorf("unknown config key: %s", key)
	}

	previous := viper.Get(key)
	if key == "email_providers" {
		viper.Set(key, splitProviders([]string{value}))
	} else {
		viper.Set(key, value)
	}

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		viper.Set(key, previous)
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	if err := Validate(cfg); err != nil {
		viper.Set(key, previous)
		return err
	}
	return viper.WriteConfig()
}

// Get retrieves a configuration value
func Get(key string) string {
	if key == "email_providers" {
		return strings.Join(splitProviders(viper.GetStringSlice(key)), ", ")
	}
	return viper.GetString(key)
}

// Keys lists the known configuration keys
func Keys() []string {
	return []string{
		"search_engine", "max_pages", "results_per_page", "request_delay_seconds",
		"email_providers", "browser", "browser_type", "headless", "block_images",
		"user_agent", "concurrency", "page_timeout_seconds", "database_path", "debug",
	}
}

// GetConfigPath returns the path to the config file
func GetConfigPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, configDirName, configFileName)
}
