package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the chat service
type Config struct {
	General   GeneralConfig   `mapstructure:"general"`
	Server    ServerConfig    `mapstructure:"server"`
	Model     ModelConfig     `mapstructure:"model"`
	Session   SessionConfig   `mapstructure:"session"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// ModelConfig describes the inference backend and its generation parameters.
// Device is recorded for the backend only; the service itself never
// interprets it.
type ModelConfig struct {
	Provider     string        `mapstructure:"provider"` // ollama, openai
	Name         string        `mapstructure:"name"`
	Device       string        `mapstructure:"device"`
	BaseURL      string        `mapstructure:"base_url"`
	APIKey       string        `mapstructure:"api_key"`
	Temperature  float64       `mapstructure:"temperature"`
	MaxTokens    int           `mapstructure:"max_tokens"`
	TopP         float64       `mapstructure:"top_p"`
	Timeout      time.Duration `mapstructure:"timeout"`
	SystemPrompt string        `mapstructure:"system_prompt"`
}

func (m ModelConfig) Validate() error {
	switch m.Provider {
	case "ollama", "openai":
	default:
		return fmt.Errorf("model.provider must be ollama or openai, got %q", m.Provider)
	}
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("model.name is required")
	}
	if m.Temperature < 0 || m.Temperature > 2 {
		return fmt.Errorf("model.temperature must be in [0,2]")
	}
	if m.MaxTokens <= 0 {
		return fmt.Errorf("model.max_tokens must be > 0")
	}
	if m.TopP <= 0 || m.TopP > 1 {
		return fmt.Errorf("model.top_p must be in (0,1]")
	}
	return nil
}

// SessionConfig controls conversation history retention.
type SessionConfig struct {
	MaxHistory    int           `mapstructure:"max_history"`    // turns kept per session
	TTL           time.Duration `mapstructure:"ttl"`            // 0 keeps sessions forever
	SweepSchedule string        `mapstructure:"sweep_schedule"` // @hourly, @daily or 5-field cron
}

func (s SessionConfig) Validate() error {
	if s.MaxHistory <= 0 {
		return fmt.Errorf("session.max_history must be > 0")
	}
	if s.TTL < 0 {
		return fmt.Errorf("session.ttl cannot be negative")
	}
	return nil
}

// TelemetryConfig contains monitoring settings
type TelemetryConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

const defaultSystemPrompt = "You are a knowledgeable world history expert. " +
	"Provide accurate, detailed, and engaging historical information."

// LoadConfig loads config from file
func LoadConfig(path string) *Config {
	viper.SetConfigName("config") // name of config file (without extension)
	viper.SetConfigType("json")   // REQUIRED if the config file does not have the extension in the name
	viper.SetDefault("general.log_level", "info")
	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("model.provider", "ollama")
	viper.SetDefault("model.base_url", "http://localhost:11434")
	viper.SetDefault("model.temperature", 0.7)
	viper.SetDefault("model.max_tokens", 512)
	viper.SetDefault("model.top_p", 0.9)
	viper.SetDefault("model.timeout", 60*time.Second)
	viper.SetDefault("model.system_prompt", defaultSystemPrompt)
	viper.SetDefault("session.max_history", 10)
	viper.SetDefault("session.ttl", 0)
	viper.SetDefault("session.sweep_schedule", "@hourly")
	viper.SetDefault("telemetry.enabled", true)

	if path == "" {
		viper.AddConfigPath("./config") // path to look for the config file in
		viper.AddConfigPath(".")        // optionally look for config in the working directory
		exe, _ := os.Executable()
		exeDir := filepath.Dir(exe)
		viper.AddConfigPath(exeDir)                      // bin/
		viper.AddConfigPath(filepath.Join(exeDir, "..")) // repo root
	} else {
		viper.SetConfigFile(path)
	}

	viper.SetEnvPrefix("HISTCHAT")
	replacer := strings.NewReplacer(".", "_")
	viper.SetEnvKeyReplacer(replacer)

	viper.AutomaticEnv() // read in environment variables that match (HISTCHAT_*)

	err := viper.ReadInConfig() // Find and read the config file
	if err != nil {             // Handle errors reading the config file
		panic(fmt.Errorf("fatal error config file: %w", err))
	}

	// unmarshal config
	var config Config

	if err = viper.Unmarshal(&config); err != nil {
		panic(fmt.Errorf("fatal error config file: %w", err))
	}

	if err := config.Model.Validate(); err != nil {
		panic(err)
	}
	if err := config.Session.Validate(); err != nil {
		panic(err)
	}
	return &config
}
