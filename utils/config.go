package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config represents the application configuration
type Config struct {
	AI      AIConfig      `json:"ai"`
	UI      UIConfig      `json:"ui"`
	Data    DataConfig    `json:"data"`
	Scanner ScannerConfig `json:"scanner"`
}

// AIConfig selects and configures the generative-AI backend
type AIConfig struct {
	Provider    string  `json:"provider"` // "gemini", "openai" or "claude"
	APIKey      string  `json:"api_key"`
	BaseURL     string  `json:"base_url,omitempty"`
	Model       string  `json:"model"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
}

// UIConfig represents UI configuration
type UIConfig struct {
	Theme        string `json:"theme"`
	Locale       string `json:"locale"`
	FontSize     int    `json:"font_size"`
	WindowWidth  int    `json:"window_width"`
	WindowHeight int    `json:"window_height"`
}

// DataConfig represents data storage configuration
type DataConfig struct {
	Backend string `json:"backend"` // "sqlite" or "badger"
	Path    string `json:"path"`
}

// ScannerConfig controls how camera captures are encoded
type ScannerConfig struct {
	Device  string `json:"device,omitempty"` // empty selects the first camera found
	MaxEdge uint   `json:"max_edge"`
	Quality int    `json:"quality"`
}

// apiKeyEnv maps a provider to the environment variable holding its key
var apiKeyEnv = map[string]string{
	"gemini":    "GEMINI_API_KEY",
	"openai":    "OPENAI_API_KEY",
	"claude":    "ANTHROPIC_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
}

// LoadConfig loads configuration from file
func LoadConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if config.Data.Path != "" {
		config.Data.Path = ExpandPath(config.Data.Path)
	}

	return config, nil
}

// ResolvedAPIKey returns the configured key, or the provider's environment
// variable when the file leaves it empty. The environment value is never
// written back to the config file.
func (c AIConfig) ResolvedAPIKey() string {
	if c.APIKey != "" {
		return c.APIKey
	}
	if name, ok := apiKeyEnv[strings.ToLower(c.Provider)]; ok {
		return os.Getenv(name)
	}
	return ""
}

// SaveConfig saves configuration to file
func SaveConfig(configPath string, config *Config) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Ensure directory exists
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetConfigPath returns the default config path
func GetConfigPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to current directory
		return "./config/default.json"
	}

	return filepath.Join(configDir, "nonprofit-assistant", "config.json")
}

// DefaultConfig returns the configuration written on first start
func DefaultConfig() *Config {
	return &Config{
		AI: AIConfig{
			Provider:    "gemini",
			Model:       "gemini-2.5-flash",
			MaxTokens:   8192,
			Temperature: 0.4,
		},
		UI: UIConfig{
			Theme:        "light",
			Locale:       "fr",
			FontSize:     14,
			WindowWidth:  1200,
			WindowHeight: 800,
		},
		Data: DataConfig{
			Backend: "sqlite",
			Path:    "./data/assistant.db",
		},
		Scanner: ScannerConfig{
			MaxEdge: 2048,
			Quality: 90,
		},
	}
}

// EnsureDefaultConfig creates a default config file if it doesn't exist
func EnsureDefaultConfig() (string, error) {
	configPath := GetConfigPath()

	if _, err := os.Stat(configPath); err == nil {
		return configPath, nil
	}

	if err := SaveConfig(configPath, DefaultConfig()); err != nil {
		return "", err
	}

	return configPath, nil
}
