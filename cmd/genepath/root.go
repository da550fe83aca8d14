package main

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/agenthands/genepath/internal/config"
	"github.com/agenthands/genepath/internal/observability"
)

// app is shared by every subcommand. cfg is set in PersistentPreRunE.
type app struct {
	v   *viper.Viper
	cfg *config.Config
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{v: viper.New()}
	a.v.SetEnvPrefix("GENEPATH")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	a.v.AutomaticEnv()

	defaultConfig := os.Getenv("CONFIG_PATH")
	if defaultConfig == "" {
		defaultConfig = "config/config.toml"
	}

	rootCmd := &cobra.Command{
		Use:           "genepath",
		Short:         "Build gene interaction networks from the STRING database.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()

			cfg, err := config.LoadOrDefault(a.v.GetString("config"))
			if err != nil {
				return err
			}
			if level := a.v.GetString("log-level"); level != "" {
				cfg.Logger.Level = level
			}
			// Logs go to stderr so stdout carries only results.
			observability.Initialize(cfg.Logger, zapcore.Lock(os.Stderr))
			a.cfg = cfg
			return nil
		},
	}

	rootCmd.PersistentFlags().StringP("config", "c", defaultConfig, "path to the TOML config file")
	rootCmd.PersistentFlags().String("log-level", "", "override the configured log level")
	_ = a.v.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = a.v.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(newQueryCmd(a), newServeCmd(a))
	return rootCmd, a
}
