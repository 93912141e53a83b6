package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show merged configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.cfg
			if cfg.Extractor.APIKey != "" {
				cfg.Extractor.APIKey = "********"
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			fmt.Fprintln(app.Out, "# Merged configuration (defaults + file + environment)")
			fmt.Fprint(app.Out, string(data))
			return nil
		},
	}, &cobra.Command{
		Use:   "path",
		Short: "Show configuration and data file paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(app.Out, "config:      %s\n", app.configPath)
			fmt.Fprintf(app.Out, "credentials: %s\n", app.cfg.Auth.CredentialsFile)
			fmt.Fprintf(app.Out, "token:       %s\n", app.cfg.Auth.TokenFile)
			fmt.Fprintf(app.Out, "database:    %s\n", app.cfg.Storage.DBPath)
			fmt.Fprintf(app.Out, "log:         %s\n", app.cfg.Log.File)
			return nil
		},
	})
	return cmd
}
