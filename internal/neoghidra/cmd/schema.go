package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"

	"neoghidra/internal/report"
)

var schemaCmd = &cobra.Command{
	Use:    "schema [analysis|error|mutation]",
	Short:  "Generate JSON schema for the report documents",
	Long:   "Generate JSON schema for the documents emitted between the markers",
	Hidden: true,
	Args:   cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		shape := "analysis"
		if len(args) == 1 {
			shape = args[0]
		}

		var target any
		switch shape {
		case "analysis":
			target = &report.Analysis{}
		case "error":
			target = &report.Failure{}
		case "mutation":
			target = &report.MutationResult{}
		default:
			return fmt.Errorf("unknown document shape: %s", shape)
		}

		reflector := new(jsonschema.Reflector)
		bts, err := json.MarshalIndent(reflector.Reflect(target), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal schema: %w", err)
		}
		fmt.Println(string(bts))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
