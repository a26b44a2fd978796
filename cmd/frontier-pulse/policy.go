// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/frontier-pulse/pkg/types"
)

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Print the effective pipeline policies",
	Long: `Policy prints the read-only policy views of the effective configuration:
ingestion, inference, and project. Credentials are never included.`,
	RunE: runPolicy,
}

func init() {
	policyCmd.Flags().String("section", "", "limit output to one section: ingestion, inference, or project")
	rootCmd.AddCommand(policyCmd)
}

func runPolicy(cmd *cobra.Command, args []string) error {
	cfg := buildConfig()
	section, _ := cmd.Flags().GetString("section")

	full := map[string]any{
		"ingestion": types.IngestionPolicyOf(cfg.Ingestion),
		"inference": types.InferencePolicyOf(cfg.Inference),
		"project":   types.ProjectPolicyOf(cfg.Project),
	}

	var out any = full
	if section != "" {
		v, ok := full[section]
		if !ok {
			return fmt.Errorf("unknown policy section %q", section)
		}
		out = v
	}

	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(out)
}
