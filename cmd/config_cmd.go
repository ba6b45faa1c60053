package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/zjrosen/rulekit/internal/config"
	"github.com/zjrosen/rulekit/internal/templates"
)

var (
	configInitForce   bool
	configInitCatalog bool
)

var configInitCmd = &cobra.Command{
	Use:         "config:init [path]",
	Short:       "Write a commented default config file",
	Long: `Write a commented default config file, by default .rulekit/config.yaml.

With --catalog a starter descriptor catalog is written next to it and
registry.catalog_file points at it, so rulekit works without a server.`,
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{"skipValidation": "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ".rulekit/config.yaml"
		if len(args) == 1 {
			path = args[0]
		}
		if _, err := os.Stat(path); err == nil && !configInitForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err := config.WriteDefaultConfig(path); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)

		if configInitCatalog {
			catalogPath := filepath.Join(filepath.Dir(path), "catalog.yaml")
			if err := os.WriteFile(catalogPath, templates.StarterCatalog(), 0o600); err != nil {
				return fmt.Errorf("writing starter catalog: %w", err)
			}
			if err := config.SaveSection(path, "registry.catalog_file", catalogPath); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", catalogPath)
		}
		return nil
	},
}

var (
	setServerURL     string
	setServerToken   string
	setServerTimeout time.Duration
)

var configSetServerCmd = &cobra.Command{
	Use:         "config:set-server",
	Short:       "Point the config file at a rule engine server",
	Annotations: map[string]string{"skipValidation": "true"},
	RunE: func(cmd *cobra.Command, _ []string) error {
		server := config.ServerConfig{
			URL:     setServerURL,
			Token:   setServerToken,
			Timeout: setServerTimeout,
		}
		if err := config.ValidateServer(server, false); err != nil {
			return err
		}

		path := configPath()
		if err := config.SaveServer(path, server); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated server in %s\n", path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "Overwrite an existing file")
	configInitCmd.Flags().BoolVar(&configInitCatalog, "catalog", false, "Also write a starter catalog and use it")

	configSetServerCmd.Flags().StringVar(&setServerURL, "url", "", "Server base URL (required)")
	configSetServerCmd.Flags().StringVar(&setServerToken, "token", "", "Bearer token")
	configSetServerCmd.Flags().DurationVar(&setServerTimeout, "timeout", 30*time.Second, "Request timeout")
	_ = configSetServerCmd.MarkFlagRequired("url")

	rootCmd.AddCommand(configInitCmd, configSetServerCmd)
}
