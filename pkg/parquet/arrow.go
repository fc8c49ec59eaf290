package parquet

import (
	"context"
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/rs/zerolog/log"

	"github.com/TFMV/schemaforge/pkg/schema"
)

// ArrowReader reads the schema from the Parquet footer metadata.
type ArrowReader struct{}

// ReadSchema parses the footer of the Parquet file held in r.
func (ArrowReader) ReadSchema(ctx context.Context, r io.ReaderAt, size int64) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pf, err := file.NewParquetReader(io.NewSectionReader(r, 0, size))
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet file: %w", err)
	}
	defer pf.Close()

	fr, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{}, memory.NewGoAllocator())
	if err != nil {
		return nil, fmt.Errorf("failed to create parquet reader: %w", err)
	}

	sc, err := fr.Schema()
	if err != nil {
		return nil, fmt.Errorf("failed to get parquet schema: %w", err)
	}

	fields := FromArrow(sc.Fields(), "")
	log.Debug().
		Int64("size", size).
		Int64("rows", pf.NumRows()).
		Int("fields", len(fields)).
		Msg("Read parquet footer schema")

	return &Result{Fields: fields}, nil
}

// FromArrow converts arrow fields into schema fields. Struct children are
// named prefix.child; children of a list of structs are named relative to the
// element and marked IsArray.
func FromArrow(fields []arrow.Field, prefix string) []schema.Field {
	out := make([]schema.Field, 0, len(fields))
	for _, af := range fields {
		name := af.Name
		if prefix != "" {
			name = prefix + "." + af.Name
		}
		out = append(out, fromArrowField(name, af.Type))
	}
	return out
}

func fromArrowField(name string, dt arrow.DataType) schema.Field {
	switch t := dt.(type) {
	case *arrow.StructType:
		return schema.Field{Name: name, Kind: schema.KindObject, Nested: FromArrow(t.Fields(), name)}
	case *arrow.MapType:
		return schema.Field{Name: name, Kind: schema.KindObject}
	case arrow.ListLikeType:
		f := schema.Field{Name: name, Kind: schema.KindArray, IsArray: true}
		elem := t.Elem()
		f.Elem = kindOf(elem)
		if st, ok := elem.(*arrow.StructType); ok {
			f.Elem = schema.KindObject
			f.Nested = FromArrow(st.Fields(), "")
			for i := range f.Nested {
				f.Nested[i].IsArray = true
			}
		}
		return f
	}
	return schema.Field{Name: name, Kind: kindOf(dt)}
}

func kindOf(dt arrow.DataType) schema.Kind {
	switch dt.ID() {
	case arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64,
		arrow.UINT8, arrow.UINT16, arrow.UINT32, arrow.UINT64:
		return schema.KindInt64
	case arrow.FLOAT16, arrow.FLOAT32, arrow.FLOAT64, arrow.DECIMAL128, arrow.DECIMAL256:
		return schema.KindDouble
	case arrow.STRING, arrow.LARGE_STRING, arrow.STRING_VIEW:
		return schema.KindString
	case arrow.BOOL:
		return schema.KindBoolean
	case arrow.TIMESTAMP, arrow.DATE32, arrow.DATE64:
		return schema.KindTimestamp
	case arrow.STRUCT, arrow.MAP:
		return schema.KindObject
	case arrow.LIST, arrow.LARGE_LIST, arrow.FIXED_SIZE_LIST, arrow.LIST_VIEW, arrow.LARGE_LIST_VIEW:
		return schema.KindArray
	}
	return schema.KindUnknown
}
