package cmd

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/TFMV/schemaforge/pkg/clipboard"
	"github.com/TFMV/schemaforge/pkg/session"
)

var generateCmd = &cobra.Command{
	Use:   "generate [file]",
	Short: "Generate Spark code for a JSON or Parquet file",
	Long: `Analyze a file and generate two PySpark snippets:

- array code: explode and re-collect each selected array field
- non-array code: select, transform and null-filter the remaining
  non-array fields

Select array fields with --select. Only fields inferred as arrays can be selected.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query, _ := cmd.Flags().GetString("query")
		selected, _ := cmd.Flags().GetStringSlice("select")
		copyBlock, _ := cmd.Flags().GetString("copy")
		outputFormat, _ := cmd.Flags().GetString("output")

		res, err := newAnalyzer(query).AnalyzeFile(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("analysis failed: %w", err)
		}
		if res.Notice != "" {
			log.Warn().Str("file", res.FileName).Msg(res.Notice)
		}

		actions := []session.Action{
			session.SetTable{Table: tableName()},
			session.UploadStarted{FileName: res.FileName},
			session.UploadSucceeded{FileName: res.FileName, Fields: res.Fields},
		}
		for _, name := range selected {
			actions = append(actions, session.Toggle{Name: name, Selected: true})
		}
		actions = append(actions, session.Generate{})

		state := session.Initial()
		for _, a := range actions {
			if state, err = session.Reduce(state, a); err != nil {
				return fmt.Errorf("failed to generate code: %w", err)
			}
		}
		code := state.Code()

		log.Debug().
			Str("file", res.FileName).
			Strs("selected", state.Selection.Names()).
			Str("table", state.Table).
			Msg("Generated code")

		out := cmd.OutOrStdout()
		switch outputFormat {
		case "json":
			data, err := json.MarshalIndent(map[string]string{
				"array":    code.Array,
				"nonArray": code.NonArray,
			}, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal JSON: %w", err)
			}
			fmt.Fprintln(out, string(data))
		default:
			displayCode(out, code)
			printer.Fprintf(out, "Generated Spark code for %d array fields\n", state.Selection.Len())
		}

		if copyBlock == "" {
			return nil
		}
		text, label, err := pickBlock(code.Array, code.NonArray, copyBlock)
		if err != nil {
			return err
		}
		report := clipboard.Copy(clipboard.System{}, text, label)
		fmt.Fprintln(cmd.ErrOrStderr(), report.String())
		if !report.OK {
			return report.Err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringP("query", "q", "", "jq expression selecting the JSON subtree to analyze")
	generateCmd.Flags().StringSliceP("select", "s", nil, "Array fields to explode (comma separated)")
	generateCmd.Flags().String("copy", "", "Copy a block to the clipboard (array, non-array)")
	generateCmd.Flags().StringP("output", "o", "text", "Output format (text, json)")
}

// pickBlock resolves a block name to its text and display label.
func pickBlock(arrayCode, nonArrayCode, name string) (string, string, error) {
	switch name {
	case "array":
		return arrayCode, "Array", nil
	case "non-array", "nonarray":
		return nonArrayCode, "Non-array", nil
	}
	return "", "", fmt.Errorf("unknown code block %q (want array or non-array)", name)
}
