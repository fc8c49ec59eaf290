// Package parquet provides schema extraction for Parquet uploads.
//
// The default reader is Stub, which does not parse the file at all and returns
// a fixed example schema together with a notice saying so. ArrowReader reads
// the footer metadata with arrow-go and is selected explicitly through
// configuration.
package parquet

import (
	"context"
	"io"

	"github.com/rs/zerolog/log"

	"github.com/TFMV/schemaforge/pkg/schema"
)

// StubNotice is shown to the user whenever Stub answers a request.
const StubNotice = "Parquet file analysis is coming soon. Using mock schema for demo."

// Result is the outcome of reading a Parquet schema.
type Result struct {
	Fields []schema.Field
	Notice string
	Stub   bool // Fields are canned and do not describe the file
}

// SchemaReader extracts a field schema from a Parquet file.
type SchemaReader interface {
	ReadSchema(ctx context.Context, r io.ReaderAt, size int64) (*Result, error)
}

// Stub is the placeholder SchemaReader. It ignores the file content.
type Stub struct{}

// ReadSchema returns the canned example schema.
func (Stub) ReadSchema(ctx context.Context, _ io.ReaderAt, size int64) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log.Debug().Int64("size", size).Msg("Parquet stub returning mock schema")
	return &Result{
		Fields: MockFields(),
		Notice: StubNotice,
		Stub:   true,
	}, nil
}

// MockFields returns a fresh copy of the example schema served by Stub.
func MockFields() []schema.Field {
	return []schema.Field{
		{Name: "id", Kind: schema.KindInt64},
		{Name: "name", Kind: schema.KindString},
		{Name: "tags", Kind: schema.KindArray, Elem: schema.KindString, IsArray: true},
		{Name: "metrics", Kind: schema.KindArray, Elem: schema.KindDouble, IsArray: true},
		{Name: "created_at", Kind: schema.KindTimestamp},
	}
}

// NewReader returns the reader registered under name. Unknown names fall back to Stub.
func NewReader(name string) SchemaReader {
	switch name {
	case "arrow":
		return ArrowReader{}
	default:
		return Stub{}
	}
}

var (
	_ SchemaReader = Stub{}
	_ SchemaReader = ArrowReader{}
)
