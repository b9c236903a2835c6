// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the impact-finder CLI. Running it with
// no subcommand prints the example report; serve starts the web form.
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/impact-finder/internal/observability"
	"github.com/pdiddy/impact-finder/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets secrets.Store

// rootCmd is the base command. Without a subcommand it behaves like report.
var rootCmd = &cobra.Command{
	Use:   "impact-finder",
	Short: "Find PubMed papers published in high-impact journals",
	Long: `impact-finder builds a PubMed query for a research topic and a disease,
fetches the matching article summaries from NCBI E-utilities, and keeps only
the papers published in a fixed list of high-impact journals.

Run without arguments to print the example report (Prognostic Model,
hepatocellular carcinoma, since 2021), or use "serve" for the web form.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runReportCmd,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./impact-finder.yaml or ~/.config/impact-finder/impact-finder.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "log format: console or json")
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))

	addReportFlags(rootCmd)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("impact-finder")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "impact-finder"))
		}
	}

	configureEnv(viper.GetViper())
	setDefaults(viper.GetViper())

	_ = viper.ReadInConfig()
}

// configureEnv maps IMPACT_FINDER_EUTILS_API_KEY and friends onto config keys.
func configureEnv(v *viper.Viper) {
	v.SetEnvPrefix("IMPACT_FINDER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// setup builds the logger, loads secrets and stores the logger on the command
// context so every package below can reach it with zerolog.Ctx.
func setup(cmd *cobra.Command, _ []string) error {
	v := viper.GetViper()
	logger := observability.NewLogger(loadConfig(v, nil).Log, cmd.ErrOrStderr())
	ctx := logger.WithContext(cmd.Context())

	s, err := secrets.Load(ctx, secrets.DefaultDir)
	if err != nil {
		return err
	}
	loadedSecrets = s
	if keys := s.Keys(); len(keys) > 0 {
		logger.Debug().Strs("keys", keys).Msg("loaded secrets")
	}
	if f := v.ConfigFileUsed(); f != "" {
		logger.Debug().Str("file", f).Msg("using config file")
	}

	cmd.SetContext(ctx)
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
