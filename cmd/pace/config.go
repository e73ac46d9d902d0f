package main

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harunnryd/pace/internal/config"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

//go:embed templates/config.yaml
var embeddedDefaultConfig []byte

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Manage Pace configuration file.`,
}

var configViewCmd = &cobra.Command{
	Use:   "view",
	Short: "Dump fully resolved configuration",
	Long:  `Display current configuration with all defaults applied and environment variables resolved.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		loadedCfg, err := loadConfigForCommand(cmd)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(redactConfigSecrets(loadedCfg)); err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		return enc.Close()
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize default configuration",
	Long:  `Create a default configuration file at $HOME/.pace/config.yaml if it doesn't exist.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}

		configDir := filepath.Join(home, ".pace")
		if err := os.MkdirAll(configDir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory %s: %w", configDir, err)
		}

		out := cmd.OutOrStdout()
		configPath := filepath.Join(configDir, "config.yaml")
		if _, err := os.Stat(configPath); err == nil {
			fmt.Fprintf(out, "Config already exists at %s\n", configPath)
			fmt.Fprintln(out, "Use 'pace config view' to see current configuration.")
			return nil
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to check config file: %w", err)
		}

		defaultConfig := strings.TrimSpace(string(embeddedDefaultConfig)) + "\n"
		if err := os.WriteFile(configPath, []byte(defaultConfig), 0644); err != nil {
			return fmt.Errorf("failed to write config to %s: %w", configPath, err)
		}

		fmt.Fprintf(out, "✓ Initialized config at %s\n", configPath)
		fmt.Fprintln(out, "\nNext steps:")
		fmt.Fprintln(out, "1. Set OPENAI_API_KEY in the environment or a .env file")
		fmt.Fprintln(out, "2. Run 'pace serve' to start the GPS endpoint")
		fmt.Fprintln(out, "3. Run 'pace ask' in another terminal")
		return nil
	},
}

func redactConfigSecrets(in *config.Config) *config.Config {
	if in == nil {
		return nil
	}

	out := *in

	if len(in.Models.Registry) > 0 {
		out.Models.Registry = make([]config.ModelRegistry, len(in.Models.Registry))
		copy(out.Models.Registry, in.Models.Registry)
		for i := range out.Models.Registry {
			out.Models.Registry[i].APIKey = maskSecret(out.Models.Registry[i].APIKey)
		}
	}

	return &out
}

func maskSecret(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 4 {
		return "****"
	}
	return secret[:2] + strings.Repeat("*", len(secret)-4) + secret[len(secret)-2:]
}

func init() {
	configCmd.AddCommand(configViewCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
