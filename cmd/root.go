// Package cmd provides the command-line interface for weft with
// configuration management supporting multiple configuration sources.
//
// Configuration System:
//
//	The CLI supports flexible configuration through multiple sources with clear precedence:
//	1. Command-line flags (--config, --mode, etc.) - highest priority
//	2. WEFT_CONFIG_FILE environment variable - custom config file path
//	3. Individual environment variables (WEFT_CONTENT_ROOT, etc.)
//	4. Configuration files (.weft.yml) - lowest priority
//
// Environment Variables:
//
//	WEFT_CONFIG_FILE: Path to custom configuration file
//	WEFT_CONTENT_ROOT: Override the project content root
//	WEFT_MODE: Override the resolution mode (development, production)
//	And more following the WEFT_<SECTION>_<OPTION> pattern
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/weftworks/weft/internal/config"
	"github.com/weftworks/weft/internal/engine"
	"github.com/weftworks/weft/internal/logging"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "weft",
	Short: "Content resolution engine for data-driven sites",
	Long: `Weft resolves structured content files into fully materialized,
renderable page trees: shared fragments are inlined with per-use-site
overrides, style classes cascade through a themeable group system, and an
access-filtered public export is produced for external data APIs.

Key Features:
  • Multi-source content loading with module/project precedence
  • Shared component references with local overrides
  • Style group cascade with utility-class conflict resolution
  • Access-filtered public data projection
  • Development mode with automatic cache invalidation

Quick Start:
  weft resolve                    Resolve all content
  weft resolve pages/home         Print one resolved page
  weft validate                   Report broken references
  weft export                     Print the public site export
  weft watch                      Watch content and reload on change`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .weft.yml, can also use WEFT_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringP("mode", "m", "", "resolution mode (development, production)")
	rootCmd.PersistentFlags().String("content-root", "", "project content root directory")

	// Persistent flags map onto config keys so flags, env vars, and config
	// files share one precedence chain through viper.
	flagConfigKeys := map[string]string{
		"log-level":    "log.level",
		"mode":         "mode",
		"content-root": "content.root",
	}
	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		if key, ok := flagConfigKeys[f.Name]; ok {
			viper.BindPFlag(key, f)
		}
	})
}

// initConfig initializes the configuration system with support for multiple
// config sources, mirroring the precedence documented on the package.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("WEFT_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".weft")
	}

	viper.SetEnvPrefix("WEFT")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger builds the CLI logger from the loaded configuration.
func newLogger(cfg *config.Config) logging.Logger {
	return logging.NewLogger(&logging.LoggerConfig{
		Level:  logging.ParseLevel(cfg.Log.Level),
		Format: cfg.Log.Format,
		Output: os.Stderr,
	})
}

// newEngine loads configuration and constructs the content engine every
// command shares.
func newEngine() (*engine.Engine, *config.Config, logging.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := newLogger(cfg)
	eng := engine.New(engine.Options{
		ContentRoot:    cfg.Content.Root,
		ModulesDir:     cfg.Content.ModulesDir,
		Mode:           cfg.Mode,
		ReservedFields: cfg.Projection.ReservedFields,
		PublicRole:     cfg.Projection.PublicRole,
		Logger:         logger,
	})
	return eng, cfg, logger, nil
}
