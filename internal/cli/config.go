package cli

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/stride-coach/stride/internal/daemon"
)

func init() {
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set a configuration value",
	Long: `Set a configuration value and save it to the config file.

Supported keys:
  api.host, api.port, user.email, narrative.enabled, narrative.url,
  logging.level, logging.file, telemetry.prometheus`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := daemon.LoadConfig()
	if err != nil {
		return err
	}

	fmt.Printf("Config file:          %s\n", filepath.Join(daemon.StrideHome(), "config.toml"))
	fmt.Printf("api.host:             %s\n", cfg.API.Host)
	fmt.Printf("api.port:             %d\n", cfg.API.Port)
	fmt.Printf("user.email:           %s\n", cfg.User.Email)
	fmt.Printf("narrative.enabled:    %t\n", cfg.Narrative.Enabled)
	fmt.Printf("narrative.url:        %s\n", cfg.Narrative.URL)
	fmt.Printf("logging.level:        %s\n", cfg.Logging.Level)
	fmt.Printf("logging.file:         %s\n", cfg.Logging.File)
	fmt.Printf("telemetry.prometheus: %t\n", cfg.Telemetry.Prometheus)

	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	cfg, err := daemon.LoadConfig()
	if err != nil {
		return err
	}

	switch key {
	case "api.host":
		cfg.API.Host = value
	case "api.port":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("api.port must be a number: %q", value)
		}
		cfg.API.Port = port
	case "user.email":
		cfg.User.Email = value
	case "narrative.enabled":
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("narrative.enabled must be true or false: %q", value)
		}
		cfg.Narrative.Enabled = enabled
	case "narrative.url":
		cfg.Narrative.URL = value
	case "logging.level":
		cfg.Logging.Level = value
	case "logging.file":
		cfg.Logging.File = value
	case "telemetry.prometheus":
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("telemetry.prometheus must be true or false: %q", value)
		}
		cfg.Telemetry.Prometheus = enabled
	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	if err := daemon.SaveConfig(cfg); err != nil {
		return err
	}
	fmt.Printf("%s = %s\n", key, value)
	return nil
}
