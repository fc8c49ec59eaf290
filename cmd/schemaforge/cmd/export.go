package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/TFMV/schemaforge/pkg/analyzer"
	"github.com/TFMV/schemaforge/pkg/export"
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export the inferred schema as JSON Schema",
	Long: `Export the inferred schema of a file as a JSON Schema (Draft 2020-12).

With --verify the source JSON document is validated against the exported
schema. Verification is not available for Parquet files.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		query, _ := cmd.Flags().GetString("query")
		verify, _ := cmd.Flags().GetBool("verify")
		outFile, _ := cmd.Flags().GetString("out")

		res, err := newAnalyzer(query).AnalyzeFile(cmd.Context(), path)
		if err != nil {
			return fmt.Errorf("analysis failed: %w", err)
		}

		sch := export.ToJSONSchema(res.Fields, res.RootArray)
		data, err := export.Marshal(sch)
		if err != nil {
			return err
		}

		if verify {
			if res.Format != analyzer.FormatJSON || query != "" {
				return fmt.Errorf("--verify needs a JSON file analyzed without --query")
			}
			doc, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read file: %w", err)
			}
			if err := export.Verify(sch, doc); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Verified %s against exported schema\n", res.FileName)
		}

		if outFile == "" {
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		}
		if err := os.WriteFile(outFile, append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("failed to write schema: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote JSON Schema to %s\n", outFile)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringP("query", "q", "", "jq expression selecting the JSON subtree to analyze")
	exportCmd.Flags().Bool("verify", false, "Validate the source document against the exported schema")
	exportCmd.Flags().StringP("out", "O", "", "Write the schema to a file instead of stdout")
}
