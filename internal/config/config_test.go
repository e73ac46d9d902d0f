package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")

	// We pass nil for cmd to skip flags
	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Server.Port != DefaultServerPort {
		t.Errorf("Expected default port %d, got %d", DefaultServerPort, cfg.Server.Port)
	}
	if cfg.Models.Default != DefaultModelDefault {
		t.Errorf("Expected default model %s, got %s", DefaultModelDefault, cfg.Models.Default)
	}
	if cfg.Models.Temperature != DefaultModelTemperature {
		t.Errorf("Expected default temperature %v, got %v", DefaultModelTemperature, cfg.Models.Temperature)
	}
	if len(cfg.Models.Registry) != 1 || cfg.Models.Registry[0].Provider != "openai" {
		t.Errorf("Expected single openai registry entry, got %+v", cfg.Models.Registry)
	}
	if cfg.Agent.MaxTurns != DefaultAgentMaxTurns {
		t.Errorf("Expected default max turns %d, got %d", DefaultAgentMaxTurns, cfg.Agent.MaxTurns)
	}
	if cfg.Agent.SystemPrompt != DefaultAgentSystemPrompt {
		t.Errorf("Expected default system prompt, got %s", cfg.Agent.SystemPrompt)
	}
	if cfg.Agent.Question != DefaultAgentQuestion {
		t.Errorf("Expected default question, got %s", cfg.Agent.Question)
	}
	if cfg.Tools.GPSEndpoint != DefaultToolsGPSEndpoint {
		t.Errorf("Expected default gps endpoint %s, got %s", DefaultToolsGPSEndpoint, cfg.Tools.GPSEndpoint)
	}
	if cfg.Tools.HTTP.Timeout != DefaultToolsHTTPTimeout {
		t.Errorf("Expected default tool timeout %s, got %s", DefaultToolsHTTPTimeout, cfg.Tools.HTTP.Timeout)
	}
	if cfg.Tools.HTTP.MaxResponseBytes != DefaultToolsMaxResponseBytes {
		t.Errorf("Expected default max response bytes %d, got %d", DefaultToolsMaxResponseBytes, cfg.Tools.HTTP.MaxResponseBytes)
	}
	if cfg.GPS.Latitude != DefaultGPSLatitude || cfg.GPS.Longitude != DefaultGPSLongitude {
		t.Errorf("Expected default gps coordinates, got %v,%v", cfg.GPS.Latitude, cfg.GPS.Longitude)
	}
}

func TestLoadWithConfigFlag(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	content := []byte(`
server:
  port: 9090
models:
  default: custom-model
tools:
  gps_endpoint: http://example.invalid/ai/gps
`)
	if err := os.WriteFile(configPath, content, 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cmd := &cobra.Command{}
	cmd.Flags().String("config", "", "config file path")
	if err := cmd.Flags().Set("config", configPath); err != nil {
		t.Fatalf("failed to set config flag: %v", err)
	}

	cfg, err := Load(cmd)
	if err != nil {
		t.Fatalf("failed to load config with --config: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Fatalf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Models.Default != "custom-model" {
		t.Fatalf("expected default model custom-model, got %s", cfg.Models.Default)
	}
	if cfg.Tools.GPSEndpoint != "http://example.invalid/ai/gps" {
		t.Fatalf("expected overridden gps endpoint, got %s", cfg.Tools.GPSEndpoint)
	}
}

func TestLoadWithMissingConfigFlagReturnsError(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().String("config", "", "config file path")
	if err := cmd.Flags().Set("config", filepath.Join(t.TempDir(), "missing.yaml")); err != nil {
		t.Fatalf("failed to set config flag: %v", err)
	}

	if _, err := Load(cmd); err == nil {
		t.Fatal("expected error when --config points to missing file")
	}
}

func TestLoadInjectsProviderAPIKeys(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Models.Registry[0].APIKey != "sk-test" {
		t.Fatalf("api key = %q, want sk-test", cfg.Models.Registry[0].APIKey)
	}
}

func TestLoadReadsEnvOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PACE_AGENT_QUESTION", "Where is Japan?")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Agent.Question != "Where is Japan?" {
		t.Fatalf("question = %q, want env override", cfg.Agent.Question)
	}
}

func TestLoadMapsEnvKeysWithUnderscores(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PACE_TOOLS_GPS_ENDPOINT", "http://127.0.0.1:9999/ai/gps")
	t.Setenv("PACE_AGENT_MAX_TURNS", "3")
	t.Setenv("PACE_TOOLS_HTTP_MAX_RESPONSE_BYTES", "2048")
	t.Setenv("PACE_MODELS_FALLBACK", "gpt-4o")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Tools.GPSEndpoint != "http://127.0.0.1:9999/ai/gps" {
		t.Fatalf("gps endpoint = %q, want env override", cfg.Tools.GPSEndpoint)
	}
	if cfg.Agent.MaxTurns != 3 {
		t.Fatalf("max turns = %d, want 3", cfg.Agent.MaxTurns)
	}
	if cfg.Tools.HTTP.MaxResponseBytes != 2048 {
		t.Fatalf("max response bytes = %d, want 2048", cfg.Tools.HTTP.MaxResponseBytes)
	}
	if cfg.Models.Fallback != "gpt-4o" {
		t.Fatalf("fallback = %q, want gpt-4o", cfg.Models.Fallback)
	}
}

func TestLoad_ExpandsSpecFilePath(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)

	configPath := filepath.Join(tmpDir, "config.yaml")
	content := []byte(`
tools:
  spec_file: ~/.pace/tools.yaml
`)
	if err := os.WriteFile(configPath, content, 0644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	cmd := &cobra.Command{}
	cmd.Flags().String("config", "", "config file path")
	if err := cmd.Flags().Set("config", configPath); err != nil {
		t.Fatalf("set config flag: %v", err)
	}

	cfg, err := Load(cmd)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	want := filepath.Join(tmpDir, ".pace", "tools.yaml")
	if cfg.Tools.SpecFile != want {
		t.Fatalf("spec file = %q, want %q", cfg.Tools.SpecFile, want)
	}
}
