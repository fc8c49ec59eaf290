package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToggle(t *testing.T) {
	var s Set
	assert.Equal(t, 0, s.Len())

	s1 := s.Toggle("tags", true)
	assert.True(t, s1.Has("tags"))
	assert.False(t, s.Has("tags"), "original set must not change")

	s2 := s1.Toggle("tags", true)
	assert.Equal(t, 1, s2.Len(), "adding twice is a no-op")

	s3 := s2.Toggle("missing", false)
	assert.Equal(t, []string{"tags"}, s3.Names(), "removing an absent name is a no-op")

	s4 := s3.Toggle("metrics", true).Toggle("tags", false)
	assert.Equal(t, []string{"metrics"}, s4.Names())
	assert.True(t, s3.Has("tags"))
}

func TestNew(t *testing.T) {
	s := New("b", "a", "b")
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []string{"a", "b"}, s.Names())
}
