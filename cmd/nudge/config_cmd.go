package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zoobzio/nudge/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect nudge configuration",
	// Overrides the root hook: describing the config must not require a
	// loadable one.
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
}

var configSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of nudge.yaml",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), config.Schema())
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the resolved configuration with the API key masked",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		resolved, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "api_key:        %s\n", resolved.Credential())
		fmt.Fprintf(out, "provider:       %s\n", resolved.Provider)
		fmt.Fprintf(out, "model:          %s\n", resolved.Model)
		fmt.Fprintf(out, "timeout:        %s\n", resolved.Timeout)
		fmt.Fprintf(out, "temperature:    %g\n", resolved.Generation.Temperature)
		fmt.Fprintf(out, "top_k:          %d\n", resolved.Generation.TopK)
		fmt.Fprintf(out, "top_p:          %g\n", resolved.Generation.TopP)
		fmt.Fprintf(out, "max_tokens:     %d\n", resolved.Generation.MaxOutputTokens)
		fmt.Fprintf(out, "dismiss_after:  %s\n", resolved.Error.DismissAfter)
		fmt.Fprintf(out, "verbatim_limit: %d\n", resolved.Error.VerbatimLimit)
		fmt.Fprintf(out, "max_height:     %d\n", resolved.Input.MaxHeight)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configSchemaCmd)
	configCmd.AddCommand(configShowCmd)
}
