package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jingkaihe/lingo/pkg/logger"
	"github.com/jingkaihe/lingo/pkg/presenter"
	"github.com/jingkaihe/lingo/pkg/telemetry"
	"github.com/jingkaihe/lingo/pkg/version"
)

func init() {
	// Environment variables
	viper.SetEnvPrefix("LINGO")
	viper.AutomaticEnv()

	// Config file support
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME/.lingo")
	viper.AddConfigPath(".")

	// Load config file if it exists (ignore errors if it doesn't)
	_ = viper.ReadInConfig()
}

var tracerShutdown func(context.Context) error

var rootCmd = &cobra.Command{
	Use:   "lingo",
	Short: "Extract hardcoded UI strings into translation catalogs",
	Long: `Lingo scans component templates for hardcoded user-facing strings, assigns
them stable namespaced keys, rewrites the source to reference those keys and
keeps the per-locale translation catalogs structurally synchronized.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if level := viper.GetString("log_level"); level != "" {
			if err := logger.SetLogLevel(level); err != nil {
				return err
			}
		}
		logger.SetLogFormat(viper.GetString("log_format"))

		if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
			presenter.SetQuiet(true)
		}

		shutdown, err := telemetry.InitTracer(cmd.Context(), telemetry.Config{
			Enabled:        viper.GetBool("tracing"),
			ServiceName:    "lingo",
			ServiceVersion: version.Get().Version,
		})
		if err != nil {
			return err
		}
		tracerShutdown = shutdown
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
		os.Exit(1)
	},
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		presenter.Warning("Cancellation requested, shutting down...")
		cancel()
	}()

	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format (text, json)")
	rootCmd.PersistentFlags().String("profile", "", "Named configuration profile to apply")
	rootCmd.PersistentFlags().Bool("quiet", false, "Suppress non-error output")
	rootCmd.PersistentFlags().Bool("tracing", false, "Enable OpenTelemetry tracing")

	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("profile", rootCmd.PersistentFlags().Lookup("profile"))
	viper.BindPFlag("tracing", rootCmd.PersistentFlags().Lookup("tracing"))

	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)

	err := rootCmd.ExecuteContext(ctx)

	if tracerShutdown != nil {
		if shutdownErr := tracerShutdown(context.Background()); shutdownErr != nil {
			logger.G(ctx).WithError(shutdownErr).Warn("failed to shut down tracer")
		}
	}
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
