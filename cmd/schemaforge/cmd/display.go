package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/TFMV/schemaforge/pkg/analyzer"
	"github.com/TFMV/schemaforge/pkg/codegen"
	"github.com/TFMV/schemaforge/pkg/schema"
	"github.com/TFMV/schemaforge/pkg/selection"
)

var printer = message.NewPrinter(language.English)

func displaySchemaTable(w io.Writer, res *analyzer.Result, sel selection.Set) {
	fmt.Fprintf(w, "Schema Analysis\n")
	fmt.Fprintf(w, "===============\n\n")
	fmt.Fprintf(w, "File: %s\n", res.FileName)
	fmt.Fprintf(w, "Format: %s\n", res.Format)
	if res.Notice != "" {
		fmt.Fprintf(w, "Notice: %s\n", res.Notice)
	}
	printer.Fprintf(w, "Fields: %d\n", len(res.Fields))

	displayFieldGroup(w, "Array Fields", schema.ArrayFields(res.Fields), sel, "No array fields found")
	displayFieldGroup(w, "Non-Array Fields", schema.NonArrayFields(res.Fields), sel, "No non-array fields found")
}

func displayFieldGroup(w io.Writer, title string, fields []schema.Field, sel selection.Set, empty string) {
	heading := printer.Sprintf("%s (%d)", title, len(fields))
	fmt.Fprintf(w, "\n%s\n%s\n", heading, strings.Repeat("-", len(heading)))
	if len(fields) == 0 {
		fmt.Fprintf(w, "  %s\n", empty)
		return
	}
	for _, f := range fields {
		displayField(w, f, sel, 1)
	}
}

func displayField(w io.Writer, f schema.Field, sel selection.Set, level int) {
	indent := strings.Repeat("  ", level)
	box := ""
	if f.IsArray {
		box = "[ ] "
		if sel.Has(f.Name) {
			box = "[x] "
		}
	}
	fmt.Fprintf(w, "%s%s%s: %s\n", indent, box, f.Name, f.Type())
	for _, n := range f.Nested {
		displayField(w, n, sel, level+1)
	}
}

func displaySchemaJSON(w io.Writer, res *analyzer.Result) error {
	output := map[string]any{
		"file":   res.FileName,
		"format": res.Format,
		"fields": res.Fields,
	}
	if res.Notice != "" {
		output["notice"] = res.Notice
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

func displayCode(w io.Writer, code codegen.Code) {
	fmt.Fprintf(w, "Array Fields Spark Code\n")
	fmt.Fprintf(w, "=======================\n\n")
	fmt.Fprintln(w, code.Array)
	fmt.Fprintf(w, "\nNon-Array Fields Spark Code\n")
	fmt.Fprintf(w, "===========================\n\n")
	fmt.Fprintln(w, code.NonArray)
}
