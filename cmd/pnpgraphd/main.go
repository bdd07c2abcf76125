// Package main runs the pnpgraph HTTP daemon.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kylerisse/pnpgraph/pkg/config"
	"github.com/kylerisse/pnpgraph/pkg/server"
	"github.com/kylerisse/pnpgraph/pkg/template/builtin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	configPath string
	envFile    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "pnpgraphd",
		Short:        "Serve graph descriptions and rrdtool graphs over HTTP",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         run,
	}

	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "JSON or YAML config file (default: built-in defaults)")
	rootCmd.Flags().StringVar(&envFile, "env-file", ".env", "Optional .env file with PNPGRAPH_* overrides")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(_ *cobra.Command, _ []string) error {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if err := cfg.LoadEnv(envFile); err != nil {
		return err
	}

	logger := setupLogging(cfg)

	reg := builtin.NewRegistry()
	if err := cfg.ApplyAliases(reg); err != nil {
		return fmt.Errorf("failed to apply aliases: %w", err)
	}
	logger.Infof("Loaded %d template command(s).", len(reg.Names()))

	srv, err := server.New(cfg, reg, logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	srv.Start()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	logger.Info("Server is running. Press Ctrl+C to stop.")
	<-stop
	logger.Info("Shutting down server...")
	srv.Stop()

	logger.Info("Server stopped.")
	return nil
}

func setupLogging(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetLevel(cfg.Level())
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	return logger
}
