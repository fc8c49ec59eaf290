package clipboard

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type memWriter struct {
	text string
	err  error
}

func (m *memWriter) WriteText(text string) error {
	if m.err != nil {
		return m.err
	}
	m.text = text
	return nil
}

func TestCopy_Success(t *testing.T) {
	w := &memWriter{}
	r := Copy(w, "df_clean = ...", "Non-array")

	assert.True(t, r.OK)
	assert.NoError(t, r.Err)
	assert.Equal(t, "df_clean = ...", w.text)
	assert.Equal(t, "Code copied!: Non-array code copied to clipboard", r.String())
}

func TestCopy_Failure(t *testing.T) {
	w := &memWriter{err: ErrUnavailable}
	r := Copy(w, "x", "Array")

	assert.False(t, r.OK)
	assert.True(t, errors.Is(r.Err, ErrUnavailable))
	assert.Equal(t, "Copy failed", r.Title)
	assert.Empty(t, w.text)
}
