package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(ls []Listing) []int {
	out := make([]int, 0, len(ls))
	for _, l := range ls {
		out = append(out, l.ID)
	}
	return out
}

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := Load(strings.NewReader(`[
		{"id":1,"title":"Alpha","description":"writing","category":"Creative","difficulty":"Beginner",
		 "earningsPotential":"$100 - $900/month","skills":["Go"],"rating":4.0,"popularityScore":50,"featured":false},
		{"id":2,"title":"Beta","description":"selling","category":"E-commerce","difficulty":"Advanced",
		 "earningsPotential":"$1,000 - $5,000/month","skills":["SQL"],"rating":4.9,"popularityScore":80,"featured":false},
		{"id":3,"title":"Gamma","description":"teaching","category":"Education","difficulty":"Beginner",
		 "earningsPotential":"varies","skills":["Speaking"],"rating":3.5,"popularityScore":20,"featured":true},
		{"id":4,"title":"Delta","description":"more writing","category":"Creative","difficulty":"Intermediate",
		 "earningsPotential":"$10 - $2,000","skills":["Writing"],"rating":4.0,"popularityScore":50,"featured":false}
	]`))
	require.NoError(t, err)
	return c
}

func TestDefault(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	assert.Equal(t, 8, c.Len())

	l, ok := c.Get(3)
	require.True(t, ok)
	assert.Equal(t, "Online Tutoring", l.Title)
}

func TestSearch_Sorts(t *testing.T) {
	c := testCatalog(t)

	assert.Equal(t, []int{3, 2, 1, 4}, ids(c.Search(Filter{Sort: SortFeatured})))
	assert.Equal(t, []int{2, 1, 4, 3}, ids(c.Search(Filter{Sort: SortPopularity})), "ties keep source order")
	assert.Equal(t, []int{2, 1, 4, 3}, ids(c.Search(Filter{Sort: SortRating})))
	assert.Equal(t, []int{2, 4, 1, 3}, ids(c.Search(Filter{Sort: SortEarnings})))
}

func TestSearch_Term(t *testing.T) {
	c := testCatalog(t)

	assert.Equal(t, []int{1, 4}, ids(c.Search(Filter{Search: "WRITING", Sort: SortPopularity})))
	assert.Equal(t, []int{2}, ids(c.Search(Filter{Search: "sql"})), "skills are searched")
	assert.Equal(t, []int{3}, ids(c.Search(Filter{Search: "educ"})), "category is searched")
	assert.Empty(t, c.Search(Filter{Search: "nothing matches"}))
}

func TestSearch_CategoryAndDifficulty(t *testing.T) {
	c := testCatalog(t)

	f := Filter{Search: "beta", Sort: SortPopularity}.SelectCategory("Creative")
	assert.Empty(t, f.Search)
	assert.Equal(t, []int{1, 4}, ids(c.Search(f)))

	f.Difficulty = "Intermediate"
	assert.True(t, f.Active())
	assert.Equal(t, []int{4}, ids(c.Search(f)))

	cleared := f.Clear()
	assert.False(t, cleared.Active())
	assert.Equal(t, SortPopularity, cleared.Sort)
	assert.Len(t, c.Search(cleared), 4)
}

func TestMaxEarnings(t *testing.T) {
	assert.Equal(t, 5000, MaxEarnings("$1,000 - $5,000/month"))
	assert.Equal(t, 0, MaxEarnings("$500"))
	assert.Equal(t, 0, MaxEarnings("varies"))
}

func TestCategories(t *testing.T) {
	cats := Categories()
	require.Len(t, cats, 8)
	assert.Equal(t, "Remote Work", cats[0].Name)
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load(strings.NewReader(`{"not":"a list"}`))
	assert.Error(t, err)
}
