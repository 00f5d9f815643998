package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sakshisonawane10/Blast-Radius/internal/infra/ai/schema"
)

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "blast",
		Short: "Score a proposed feature on the BLAST risk framework",
		Long: `blast sends a feature proposal to a generative model and reports its
Business criticality, Legal exposure, Amplification speed, State reversibility
and Trust impact, with containment and launch-readiness guidance.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.yaml (defaults to $CONFIG_PATH, then ./config.yaml)")

	root.AddCommand(
		newAnalyzeCmd(&configPath),
		newSchemaCmd(),
		newVersionCmd(),
	)
	return root
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema the model must answer with",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var v any
			if err := json.Unmarshal(schema.JSON(), &v); err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(v)
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "blast %s\n", version)
		},
	}
}
