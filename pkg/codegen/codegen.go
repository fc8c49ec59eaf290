// Package codegen renders PySpark snippets from an inferred schema.
//
// Both generators are pure: the same schema, selection and table name always
// produce byte-identical text.
package codegen

import (
	"fmt"
	"strings"

	"github.com/TFMV/schemaforge/pkg/schema"
	"github.com/TFMV/schemaforge/pkg/selection"
)

// DefaultTable is the DataFrame name used when none is given.
const DefaultTable = "df"

const (
	NoArraySelection = "# No array fields selected"
	NoNonArrayFields = "# No non-array fields available"
)

const arrayHeader = `# Spark code for handling array fields
from pyspark.sql import SparkSession
from pyspark.sql.functions import explode, col, collect_list

`

const nonArrayHeader = `# Spark code for handling non-array fields
from pyspark.sql import SparkSession
from pyspark.sql.functions import col, when, isNull

`

// Code holds both generated blocks.
type Code struct {
	Array    string
	NonArray string
}

// Generate renders both blocks.
func Generate(fields []schema.Field, sel selection.Set, table string) Code {
	return Code{
		Array:    GenerateArrayCode(fields, sel, table),
		NonArray: GenerateNonArrayCode(fields, sel, table),
	}
}

// GenerateArrayCode emits an explode step and a collect step for every
// top-level field whose name is selected, in schema order.
func GenerateArrayCode(fields []schema.Field, sel selection.Set, table string) string {
	if sel.Len() == 0 {
		return NoArraySelection
	}
	t := tableName(table)

	var b strings.Builder
	b.WriteString(arrayHeader)
	for _, f := range fields {
		if !sel.Has(f.Name) {
			continue
		}
		n := f.Name
		fmt.Fprintf(&b, "# Explode %s array\n", n)
		fmt.Fprintf(&b, "%s_exploded_%s = %s.select(\"*\", explode(col(\"%s\")).alias(\"%s_item\"))\n\n", t, n, t, n, n)

		b.WriteString("# Collect back to array if needed\n")
		fmt.Fprintf(&b, "%s_collected_%s = %s_exploded_%s.groupBy([col for col in %s.columns if col != \"%s\"]).agg(collect_list(\"%s_item\").alias(\"%s_collected\"))\n\n",
			t, n, t, n, t, n, n, n)
	}
	return b.String()
}

// GenerateNonArrayCode emits a select, per-field transforms and a null filter
// for the top-level fields that are neither arrays nor selected.
func GenerateNonArrayCode(fields []schema.Field, sel selection.Set, table string) string {
	var plain []schema.Field
	for _, f := range fields {
		if !f.IsArray && !sel.Has(f.Name) {
			plain = append(plain, f)
		}
	}
	if len(plain) == 0 {
		return NoNonArrayFields
	}
	t := tableName(table)

	quoted := make([]string, len(plain))
	notNull := make([]string, len(plain))
	for i, f := range plain {
		quoted[i] = `"` + f.Name + `"`
		notNull[i] = `col("` + f.Name + `").isNotNull()`
	}

	var b strings.Builder
	b.WriteString(nonArrayHeader)
	b.WriteString("# Select non-array fields\n")
	fmt.Fprintf(&b, "%s_non_arrays = %s.select(%s)\n\n", t, t, strings.Join(quoted, ", "))

	b.WriteString("# Basic operations on non-array fields\n")
	for _, f := range plain {
		writeTransform(&b, f, t)
	}

	b.WriteString("\n# Filter out null values\n")
	fmt.Fprintf(&b, "%s_clean = %s_processed.filter(%s)\n", t, t, strings.Join(notNull, " & "))
	return b.String()
}

// writeTransform emits the transformation for one field. Kinds other than
// text and numbers get none.
func writeTransform(b *strings.Builder, f schema.Field, t string) {
	n := f.Name
	switch {
	case f.Kind.IsString():
		fmt.Fprintf(b, "# String operations for %s\n", n)
		fmt.Fprintf(b, "%s_processed = %s_non_arrays.withColumn(\"%s_upper\", upper(col(\"%s\")))\n", t, t, n, n)
	case f.Kind.IsNumeric():
		fmt.Fprintf(b, "# Numeric operations for %s\n", n)
		fmt.Fprintf(b, "%s_processed = %s_non_arrays.withColumn(\"%s_squared\", col(\"%s\") * col(\"%s\"))\n", t, t, n, n, n)
	}
}

func tableName(table string) string {
	if strings.TrimSpace(table) == "" {
		return DefaultTable
	}
	return table
}
