package parquet

import (
	"bytes"
	"context"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TFMV/schemaforge/pkg/schema"
)

// writeParquet serializes an empty table with the given schema.
func writeParquet(t *testing.T, sc *arrow.Schema) []byte {
	t.Helper()

	mem := memory.NewGoAllocator()
	b := array.NewRecordBuilder(mem, sc)
	defer b.Release()
	rec := b.NewRecord()
	defer rec.Release()

	var buf bytes.Buffer
	w, err := pqarrow.NewFileWriter(sc, &buf, nil, pqarrow.ArrowWriterProperties{})
	require.NoError(t, err)
	require.NoError(t, w.Write(rec))
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestStub_ReturnsMockSchemaRegardlessOfContent(t *testing.T) {
	for _, content := range [][]byte{nil, []byte("not parquet at all")} {
		res, err := Stub{}.ReadSchema(context.Background(), bytes.NewReader(content), int64(len(content)))
		require.NoError(t, err)

		assert.True(t, res.Stub)
		assert.Equal(t, StubNotice, res.Notice)
		require.Len(t, res.Fields, 5)

		got := make([]string, 0, len(res.Fields))
		for _, f := range res.Fields {
			got = append(got, f.Name+":"+f.Type())
		}
		assert.Equal(t, []string{
			"id:int64",
			"name:string",
			"tags:array[string]",
			"metrics:array[double]",
			"created_at:timestamp",
		}, got)
		assert.True(t, res.Fields[2].IsArray)
		assert.True(t, res.Fields[3].IsArray)
		assert.False(t, res.Fields[0].IsArray)
	}
}

func TestMockFields_ReturnsIndependentCopies(t *testing.T) {
	a := MockFields()
	a[0].Name = "changed"
	assert.Equal(t, "id", MockFields()[0].Name)
}

func TestStub_HonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Stub{}.ReadSchema(ctx, bytes.NewReader(nil), 0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestArrowReader_ReadsFooterSchema(t *testing.T) {
	sc := arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int64},
		{Name: "name", Type: arrow.BinaryTypes.String, Nullable: true},
		{Name: "tags", Type: arrow.ListOf(arrow.BinaryTypes.String), Nullable: true},
		{Name: "score", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
		{Name: "meta", Type: arrow.StructOf(
			arrow.Field{Name: "ok", Type: arrow.FixedWidthTypes.Boolean, Nullable: true},
		), Nullable: true},
		{Name: "events", Type: arrow.ListOf(arrow.StructOf(
			arrow.Field{Name: "at", Type: arrow.FixedWidthTypes.Timestamp_ms, Nullable: true},
		)), Nullable: true},
	}, nil)
	data := writeParquet(t, sc)

	res, err := ArrowReader{}.ReadSchema(context.Background(), bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	assert.False(t, res.Stub)
	require.Len(t, res.Fields, 6)

	assert.Equal(t, "int64", res.Fields[0].Type())
	assert.Equal(t, "string", res.Fields[1].Type())
	assert.Equal(t, "array[string]", res.Fields[2].Type())
	assert.True(t, res.Fields[2].IsArray)
	assert.Equal(t, "double", res.Fields[3].Type())

	meta := res.Fields[4]
	assert.Equal(t, schema.KindObject, meta.Kind)
	require.Len(t, meta.Nested, 1)
	assert.Equal(t, "meta.ok", meta.Nested[0].Name)
	assert.Equal(t, "boolean", meta.Nested[0].Type())

	events := res.Fields[5]
	assert.Equal(t, "array[object]", events.Type())
	require.Len(t, events.Nested, 1)
	assert.Equal(t, "at", events.Nested[0].Name)
	assert.Equal(t, "timestamp", events.Nested[0].Type())
	assert.True(t, events.Nested[0].IsArray)
}

func TestArrowReader_RejectsGarbage(t *testing.T) {
	data := []byte("definitely not a parquet footer")
	_, err := ArrowReader{}.ReadSchema(context.Background(), bytes.NewReader(data), int64(len(data)))
	assert.Error(t, err)
}

func TestNewReader(t *testing.T) {
	assert.IsType(t, ArrowReader{}, NewReader("arrow"))
	assert.IsType(t, Stub{}, NewReader("stub"))
	assert.IsType(t, Stub{}, NewReader(""))
}
