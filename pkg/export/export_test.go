package export

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TFMV/schemaforge/pkg/infer"
	"github.com/TFMV/schemaforge/pkg/parquet"
)

func TestToJSONSchema_Shape(t *testing.T) {
	doc := []byte(`{"id":1,"tags":["a"],"meta":{"x":true},"rows":[{"n":"v"}],"none":[]}`)
	fields, err := infer.InferJSON(doc)
	require.NoError(t, err)

	s := ToJSONSchema(fields, false)
	assert.Equal(t, "object", s.Type)

	keys := []string{}
	for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	assert.Equal(t, []string{"id", "tags", "meta", "rows", "none"}, keys)

	tags, _ := s.Properties.Get("tags")
	require.Len(t, tags.AnyOf, 2)
	assert.Equal(t, "array", tags.AnyOf[0].Type)
	assert.Equal(t, "null", tags.AnyOf[1].Type)
	assert.Nil(t, tags.AnyOf[0].Items, "scalar elements are not constrained")

	id, _ := s.Properties.Get("id")
	require.Len(t, id.AnyOf, 2)
	assert.Equal(t, "number", id.AnyOf[0].Type)

	meta, _ := s.Properties.Get("meta")
	_, ok := meta.AnyOf[0].Properties.Get("x")
	assert.True(t, ok, "nested keys are relative to their parent")

	rows, _ := s.Properties.Get("rows")
	require.NotNil(t, rows.AnyOf[0].Items)
	assert.Empty(t, rows.AnyOf[0].Items.Type)
	_, ok = rows.AnyOf[0].Items.Properties.Get("n")
	assert.True(t, ok)

	none, _ := s.Properties.Get("none")
	assert.Nil(t, none.AnyOf[0].Items)
}

func TestVerify_SourceDocumentMatches(t *testing.T) {
	doc := []byte(`{"id":1,"tags":["a","b"],"meta":{"x":true,"gone":null},"rows":[{"n":"v"}]}`)
	fields, err := infer.InferJSON(doc)
	require.NoError(t, err)

	require.NoError(t, Verify(ToJSONSchema(fields, false), doc))
}

func TestVerify_SampledDocumentsMatch(t *testing.T) {
	docs := map[string]string{
		"null in a later record":  `{"rows":[{"a":"x"},{"a":null}]}`,
		"mixed scalar array":      `{"v":["a",1]}`,
		"root array of scalars":   `[1,2]`,
		"nested lists of records": `{"m":[[{"a":1}],[{"a":null}]]}`,
		"null object":             `{"rows":[{"m":{"x":1}},{"m":null}]}`,
	}
	for name, doc := range docs {
		t.Run(name, func(t *testing.T) {
			v, err := infer.ParseJSON([]byte(doc))
			require.NoError(t, err)

			s := ToJSONSchema(infer.Infer(v, ""), v.Kind == infer.ValueArray)
			assert.NoError(t, Verify(s, []byte(doc)))
		})
	}
}

func TestVerify_RootArray(t *testing.T) {
	doc := []byte(`[{"id":1},{"id":2}]`)
	fields, err := infer.InferJSON(doc)
	require.NoError(t, err)

	s := ToJSONSchema(fields, true)
	assert.Equal(t, "array", s.Type)
	require.NoError(t, Verify(s, doc))
	assert.Error(t, Verify(s, []byte(`[{"id":"one"}]`)))
}

func TestVerify_DetectsMismatch(t *testing.T) {
	fields, err := infer.InferJSON([]byte(`{"id":1}`))
	require.NoError(t, err)

	assert.Error(t, Verify(ToJSONSchema(fields, false), []byte(`{"id":"x"}`)))
	assert.Error(t, Verify(ToJSONSchema(fields, false), []byte(`{`)))
}

func TestMarshal_IncludesDraftAndTimestampFormat(t *testing.T) {
	data, err := Marshal(ToJSONSchema(parquet.MockFields(), false))
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "https://json-schema.org/draft/2020-12/schema", out["$schema"])

	props := out["properties"].(map[string]any)
	assert.Equal(t, "date-time", anyOfFirst(t, props["created_at"])["format"])
	assert.Equal(t, "integer", anyOfFirst(t, props["id"])["type"])
}

func anyOfFirst(t *testing.T, prop any) map[string]any {
	t.Helper()
	alts, ok := prop.(map[string]any)["anyOf"].([]any)
	require.True(t, ok)
	require.Len(t, alts, 2)
	return alts[0].(map[string]any)
}
