package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/rulekit/internal/config"
	"github.com/zjrosen/rulekit/internal/log"
)

var (
	version   = "dev"
	cfgFile   string
	debugFlag bool
	cfg       config.Config

	logCleanup func()
)

var rootCmd = &cobra.Command{
	Use:   "rulekit",
	Short: "Rule-node component registry and rule chain resolver",
	Long: `rulekit discovers the rule-node components a rule engine offers, caches
them sorted by type and name, and resolves rule chain references into full
rule chain entities.

It runs as a one-shot CLI or as an HTTP daemon (rulekit serve).`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) {
		if logCleanup != nil {
			logCleanup()
		}
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .rulekit/config.yaml, then ~/.config/rulekit/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false,
		"enable debug logging (also RULEKIT_DEBUG)")
	rootCmd.PersistentFlags().String("server", "", "rule engine base URL (overrides server.url)")
	rootCmd.PersistentFlags().String("token", "", "bearer token (overrides server.token)")
	rootCmd.PersistentFlags().String("catalog", "", "read descriptors from a YAML catalog file or directory")

	bindFlags()
}

func bindFlags() {
	_ = viper.BindPFlag("server.url", rootCmd.PersistentFlags().Lookup("server"))
	_ = viper.BindPFlag("server.token", rootCmd.PersistentFlags().Lookup("token"))
	_ = viper.BindPFlag("registry.catalog_file", rootCmd.PersistentFlags().Lookup("catalog"))
}

// replacer maps dotted config keys to RULEKIT_* env names.
func replacer() *strings.Replacer {
	return strings.NewReplacer(".", "_")
}

func initConfig() {
	setDefaults(viper.GetViper(), config.Defaults())

	viper.SetEnvPrefix("RULEKIT")
	viper.SetEnvKeyReplacer(replacer())
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .rulekit/config.yaml (current directory)
		// 2. ~/.config/rulekit/config.yaml (user config)
		if _, err := os.Stat(".rulekit/config.yaml"); err == nil {
			viper.SetConfigFile(".rulekit/config.yaml")
		} else {
			viper.AddConfigPath(config.DefaultConfigDir())
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "warning: reading config: %v\n", err)
		}
	}

	_ = viper.Unmarshal(&cfg)
	cfg.Resources.DBPath = config.ExpandHome(cfg.Resources.DBPath)
	cfg.Tracing.FilePath = config.ExpandHome(cfg.Tracing.FilePath)
	if cfg.Tracing.FilePath == "" {
		cfg.Tracing.FilePath = config.DefaultTracesFilePath()
	}
}

// setDefaults registers every key so env overrides apply even without a
// config file.
func setDefaults(v *viper.Viper, d config.Config) {
	v.SetDefault("server.url", d.Server.URL)
	v.SetDefault("server.token", d.Server.Token)
	v.SetDefault("server.timeout", d.Server.Timeout)
	v.SetDefault("registry.component_types", d.Registry.ComponentTypes)
	v.SetDefault("registry.cache_ttl", d.Registry.CacheTTL)
	v.SetDefault("registry.catalog_file", d.Registry.CatalogFile)
	v.SetDefault("registry.watch_catalog", d.Registry.WatchCatalog)
	v.SetDefault("resources.db_path", d.Resources.DBPath)
	v.SetDefault("resources.base_url", d.Resources.BaseURL)
	v.SetDefault("api.addr", d.API.Addr)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.file_path", d.Tracing.FilePath)
	v.SetDefault("tracing.otlp_endpoint", d.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", d.Tracing.SampleRate)
	v.SetDefault("tracing.service_name", d.Tracing.ServiceName)
}

// setup initializes logging and validates the loaded configuration.
func setup(cmd *cobra.Command, _ []string) error {
	if debugFlag || os.Getenv("RULEKIT_DEBUG") != "" {
		logPath := cfg.Log.File
		if logPath == "" {
			logPath = "debug.log"
		}
		cleanup, err := log.Init(filepath.Clean(logPath))
		if err != nil {
			return fmt.Errorf("initializing logging: %w", err)
		}
		logCleanup = cleanup
		log.SetMinLevel(log.ParseLevel(cfg.Log.Level))
		log.Info(log.CatConfig, "rulekit starting", "command", cmd.Name(), "config", viper.ConfigFileUsed())
	}

	if cmd.Annotations["skipValidation"] == "true" {
		return nil
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
