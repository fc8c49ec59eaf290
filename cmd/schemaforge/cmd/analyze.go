package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TFMV/schemaforge/pkg/selection"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Infer and display the schema of a JSON or Parquet file",
	Long: `Infer the field schema of a JSON or Parquet file.

Nested objects are listed with dotted names. Arrays are sampled from their
first element. Files with any other extension are rejected.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query, _ := cmd.Flags().GetString("query")
		outputFormat, _ := cmd.Flags().GetString("output")

		res, err := newAnalyzer(query).AnalyzeFile(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("analysis failed: %w", err)
		}

		out := cmd.OutOrStdout()
		switch outputFormat {
		case "json":
			return displaySchemaJSON(out, res)
		default:
			displaySchemaTable(out, res, selection.Set{})
			fmt.Fprintf(out, "\n%s\n", res.Summary())
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringP("query", "q", "", "jq expression selecting the JSON subtree to analyze")
	analyzeCmd.Flags().StringP("output", "o", "table", "Output format (table, json)")
}
