package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"garageQueue/internal/config"
)

var (
	configPath string
	cfg        *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "garage",
	Short:         "Workshop queue: server, migrations and client commands",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = loadConfig()
		return err
	},
}

// loadConfig reads --config when given. Production requires a real JWT_SECRET.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFile(configPath)
	}
	c, err := config.LoadWithDefaults()
	if err != nil {
		return nil, err
	}
	if c.App.Env == "production" {
		return config.Load()
	}
	return c, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (yaml, json, toml or env)")

	// Server
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(bootstrapAdminCmd)
	rootCmd.AddCommand(profilesCmd)

	// Database
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateStatusCmd)
	rootCmd.AddCommand(migrateCmd)

	// Identity
	rootCmd.AddCommand(tokenCmd)

	// Client
	addClientFlags(clientCmds...)
	rootCmd.AddCommand(clientCmds...)
}
