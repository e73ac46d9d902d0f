package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/harunnryd/pace/internal/pathutil"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
)

type Config struct {
	Server ServerConfig `koanf:"server"`
	Models ModelsConfig `koanf:"models"`
	Agent  AgentConfig  `koanf:"agent"`
	Tools  ToolsConfig  `koanf:"tools"`
	GPS    GPSConfig    `koanf:"gps"`
}

type ServerConfig struct {
	Port            int    `koanf:"port"`
	LogLevel        string `koanf:"log_level"`
	ReadTimeout     string `koanf:"read_timeout"`
	WriteTimeout    string `koanf:"write_timeout"`
	IdleTimeout     string `koanf:"idle_timeout"`
	ShutdownTimeout string `koanf:"shutdown_timeout"`
}

type ModelsConfig struct {
	Default             string          `koanf:"default"`
	Fallback            string          `koanf:"fallback"`
	MaxFallbackAttempts int             `koanf:"max_fallback_attempts"`
	Temperature         float64         `koanf:"temperature"`
	Registry            []ModelRegistry `koanf:"registry"`
}

type ModelRegistry struct {
	Name           string `koanf:"name"`
	Provider       string `koanf:"provider"`
	BaseURL        string `koanf:"base_url"`
	APIKey         string `koanf:"api_key"`
	RequestTimeout string `koanf:"request_timeout"`
}

type AgentConfig struct {
	MaxTurns     int    `koanf:"max_turns"`
	SystemPrompt string `koanf:"system_prompt"`
	Question     string `koanf:"question"`
}

type ToolsConfig struct {
	SpecFile    string         `koanf:"spec_file"`
	GPSEndpoint string         `koanf:"gps_endpoint"`
	HTTP        HTTPToolConfig `koanf:"http"`
}

type HTTPToolConfig struct {
	Timeout          string `koanf:"timeout"`
	MaxResponseBytes int64  `koanf:"max_response_bytes"`
}

type GPSConfig struct {
	Latitude  float64 `koanf:"latitude"`
	Longitude float64 `koanf:"longitude"`
}

const (
	DefaultServerPort            = 8000
	DefaultServerLogLevel        = "info"
	DefaultServerReadTimeout     = "10s"
	DefaultServerWriteTimeout    = "10s"
	DefaultServerIdleTimeout     = "60s"
	DefaultServerShutdownTimeout = "5s"
	DefaultModelDefault          = "gpt-4o-mini"
	DefaultModelMaxFallback      = 2
	DefaultModelTemperature      = 0.25
	DefaultModelRequestTimeout   = "120s"
	DefaultOpenAIBaseURL         = "https://api.openai.com/v1"
	DefaultOllamaBaseURL         = "http://localhost:11434/v1"
	DefaultOllamaAPIKey          = "ollama"
	DefaultAgentMaxTurns         = 10
	DefaultAgentSystemPrompt     = "Just believe locations returned from the tools. You don't need to correct them."
	DefaultAgentQuestion         = "What's the location of Thailand?"
	DefaultToolsGPSEndpoint      = "http://localhost:8000/ai/gps"
	DefaultToolsHTTPTimeout      = "10s"
	DefaultToolsMaxResponseBytes = 2 << 20
	DefaultGPSLatitude           = 37.7749
	DefaultGPSLongitude          = -122.4194
	DefaultDotEnvFile            = ".env"
)

func Load(cmd *cobra.Command) (*Config, error) {
	k := koanf.New(".")

	// Hardcoded Defaults
	defaults := map[string]interface{}{
		"server.port":                   DefaultServerPort,
		"server.log_level":              DefaultServerLogLevel,
		"server.read_timeout":           DefaultServerReadTimeout,
		"server.write_timeout":          DefaultServerWriteTimeout,
		"server.idle_timeout":           DefaultServerIdleTimeout,
		"server.shutdown_timeout":       DefaultServerShutdownTimeout,
		"models.default":                DefaultModelDefault,
		"models.max_fallback_attempts":  DefaultModelMaxFallback,
		"models.temperature":            DefaultModelTemperature,
		"agent.max_turns":               DefaultAgentMaxTurns,
		"agent.system_prompt":           DefaultAgentSystemPrompt,
		"agent.question":                DefaultAgentQuestion,
		"tools.gps_endpoint":            DefaultToolsGPSEndpoint,
		"tools.http.timeout":            DefaultToolsHTTPTimeout,
		"tools.http.max_response_bytes": DefaultToolsMaxResponseBytes,
		"gps.latitude":                  DefaultGPSLatitude,
		"gps.longitude":                 DefaultGPSLongitude,
		"models.registry": []ModelRegistry{
			{Name: DefaultModelDefault, Provider: "openai"},
		},
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	// Config file loading
	configPath := ""
	if cmd != nil {
		if flag := cmd.Flags().Lookup("config"); flag != nil {
			configPath = strings.TrimSpace(flag.Value.String())
		}
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, err
		}
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			globalPath := filepath.Join(home, ".pace", "config.yaml")
			if err := k.Load(file.Provider(globalPath), yaml.Parser()); err != nil {
				slog.Debug("Global config not found or invalid", "path", globalPath, "error", err)
			}
		}
	}

	// .env does not override variables already present in the environment
	if err := godotenv.Load(DefaultDotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("Failed to load dotenv file", "path", DefaultDotEnvFile, "error", err)
	}

	// Environment Variables
	k.Load(env.Provider("PACE_", ".", envKeyMapper(append(k.Keys(), envOnlyKeys...))), nil)

	// CLI Flags
	if cmd != nil {
		k.Load(posflag.Provider(cmd.Flags(), ".", k), nil)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	for i, m := range cfg.Models.Registry {
		if m.Provider == "" {
			cfg.Models.Registry[i].Provider = "openai"
		}
	}

	specFile, err := pathutil.Expand(cfg.Tools.SpecFile)
	if err != nil {
		return nil, err
	}
	cfg.Tools.SpecFile = specFile

	// Post-Process: Inject standard Env Vars if missing
	injectAPIKey(&cfg, "openai", os.Getenv("OPENAI_API_KEY"))
	injectAPIKey(&cfg, "anthropic", os.Getenv("ANTHROPIC_API_KEY"))
	injectAPIKey(&cfg, "gemini", os.Getenv("GEMINI_API_KEY"))

	return &cfg, nil
}

func injectAPIKey(cfg *Config, provider, key string) {
	if key == "" {
		return
	}
	for i, m := range cfg.Models.Registry {
		if m.Provider == provider && m.APIKey == "" {
			cfg.Models.Registry[i].APIKey = key
		}
	}
}

// envOnlyKeys are config keys without a default that env vars may still set.
var envOnlyKeys = []string{"models.fallback", "tools.spec_file"}

// envKeyMapper maps PACE_TOOLS_GPS_ENDPOINT to tools.gps_endpoint. Key
// segments may contain underscores themselves, so known keys are matched
// first and unknown names split only at the first underscore.
func envKeyMapper(known []string) func(string) string {
	byEnv := make(map[string]string, len(known))
	for _, key := range known {
		byEnv[strings.ToUpper(strings.ReplaceAll(key, ".", "_"))] = key
	}
	return func(s string) string {
		name := strings.TrimPrefix(s, "PACE_")
		if key, ok := byEnv[name]; ok {
			return key
		}
		return strings.Replace(strings.ToLower(name), "_", ".", 1)
	}
}
