package main

import (
	"os"

	"baby-health-tracker/internal/platform/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// @title Baby Health Tracker API
// @version 1.0
// @description Bebés, vacunas, mediciones y plan de comidas.
// @BasePath /

var configPath string

var rootCmd = &cobra.Command{
	Use:           "api",
	Short:         "Baby health tracker backend",
	SilenceUsage:  true,
	SilenceErrors: true,
	// sin subcomando => serve
	RunE: runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv("CONFIG_FILE"), "ruta al YAML de configuración (o CONFIG_FILE)")
	rootCmd.AddCommand(serveCmd, vaccinesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		// el logger del config puede no existir todavía
		logger.NewFromEnv().Error("command failed", zap.Error(err))
		os.Exit(1)
	}
}
