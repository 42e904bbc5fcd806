package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/NeroQue/academy-player/internal/app"
	"github.com/NeroQue/academy-player/internal/config"
)

// addGlobalFlags registers the flags every command understands
func addGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("config", "", "config file (env: ACADEMY_CONFIG, default: ~/.academy/config.yaml)")
	cmd.PersistentFlags().String("api-url", "", "student API base url (env: ACADEMY_API_URL)")
	cmd.PersistentFlags().String("token", "", "bearer token, overrides the stored session (env: ACADEMY_TOKEN)")
	cmd.PersistentFlags().StringP("output", "o", "text", "output format: json / text")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "more detailed logging")
}

// loadConfig reads the config file and env, then applies flags on top
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = os.Getenv("ACADEMY_CONFIG")
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if v, _ := cmd.Flags().GetString("api-url"); v != "" {
		cfg.APIURL = v
	}
	if v, _ := cmd.Flags().GetString("token"); v != "" {
		cfg.Token = v
	}
	return cfg, nil
}

// openApp loads config and builds the app; callers must Close it
func openApp(cmd *cobra.Command) (*app.App, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	// keep the terminal quiet unless asked
	if verbose, _ := cmd.Flags().GetBool("verbose"); !verbose && os.Getenv("LOG_LEVEL") == "" {
		cfg.Log.Level = "warn"
	}
	return app.New(cfg)
}

func outputFormat(cmd *cobra.Command) string {
	v, _ := cmd.Flags().GetString("output")
	return v
}
