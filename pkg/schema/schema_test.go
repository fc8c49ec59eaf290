package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindArray(t *testing.T) {
	fields := []Field{
		{Name: "a", Kind: KindNumber},
		{Name: "rows", Kind: KindArray, Elem: KindObject, IsArray: true, Nested: []Field{
			{Name: "a", Kind: KindArray, Elem: KindNumber, IsArray: true},
			{Name: "b", Kind: KindString, IsArray: true},
		}},
		{Name: "meta", Kind: KindObject, Nested: []Field{{Name: "meta.x", Kind: KindBoolean}}},
	}

	f, ok := FindArray(fields, "a")
	require.True(t, ok)
	assert.Equal(t, "array[number]", f.Type())

	_, ok = FindArray(fields, "rows")
	assert.True(t, ok)
	_, ok = FindArray(fields, "b")
	assert.True(t, ok)

	for _, name := range []string{"meta", "meta.x", "missing"} {
		_, ok = FindArray(fields, name)
		assert.False(t, ok, name)
	}
}

func TestArrayAndNonArrayFieldsAreTopLevel(t *testing.T) {
	fields := []Field{
		{Name: "id", Kind: KindNumber},
		{Name: "tags", Kind: KindArray, Elem: KindString, IsArray: true},
		{Name: "meta", Kind: KindObject, Nested: []Field{{Name: "meta.list", Kind: KindArray, IsArray: true}}},
	}

	arrays := ArrayFields(fields)
	require.Len(t, arrays, 1)
	assert.Equal(t, "tags", arrays[0].Name)

	rest := NonArrayFields(fields)
	require.Len(t, rest, 2)
	assert.Equal(t, "id", rest[0].Name)
	assert.Equal(t, "meta", rest[1].Name)
}
