package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/skill-intel/internal/config"
	"github.com/jonathan/skill-intel/internal/schemas"
	"github.com/jonathan/skill-intel/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server exposing skill extraction, ingestion and trend analysis endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}

	srv, err := server.New(server.Config{
		Port:        cfg.Port,
		CatalogPath: cfg.Catalog,
		SchemaPath:  schemas.ResolveSchemaPath(cfg.Schema),
		DataDir:     cfg.DataDir,
		DatabaseURL: cfg.DatabaseURL,
		CORSOrigins: cfg.Origins(),
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}

// loadConfig merges the optional config file over the built-in and
// environment defaults.
func loadConfig() (config.Config, error) {
	defaults := config.Defaults()
	if configPath == "" {
		return defaults, nil
	}

	fileCfg, err := config.LoadConfig(configPath)
	if err != nil {
		return config.Config{}, err
	}
	cfg := fileCfg.MergeWithDefaults(defaults)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
