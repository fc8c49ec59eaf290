// Package catalog serves the side hustle listings: search, filtering,
// sorting and the category tiles.
package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"golang.org/x/text/cases"
)

//go:embed listings.json
var defaultListings []byte

// Listing is one side hustle card.
type Listing struct {
	ID                int      `json:"id"`
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	Category          string   `json:"category"`
	Difficulty        string   `json:"difficulty"`
	TimeCommitment    string   `json:"timeCommitment"`
	EarningsPotential string   `json:"earningsPotential"`
	UpfrontCost       string   `json:"upfrontCost"`
	Skills            []string `json:"skills"`
	Rating            float64  `json:"rating"`
	PopularityScore   int      `json:"popularityScore"`
	Featured          bool     `json:"featured"`
}

// Category is a browsable category tile.
type Category struct {
	Name        string
	Description string
	Count       int
}

// Categories returns the fixed category tiles.
func Categories() []Category {
	return []Category{
		{Name: "Remote Work", Description: "Work from anywhere opportunities", Count: 45},
		{Name: "Creative", Description: "Design, writing, and artistic ventures", Count: 32},
		{Name: "E-commerce", Description: "Online selling and retail", Count: 28},
		{Name: "Education", Description: "Teaching and course creation", Count: 24},
		{Name: "Passive Income", Description: "Earn while you sleep", Count: 19},
		{Name: "Social Media", Description: "Content creation and influence", Count: 22},
		{Name: "Apps & Tech", Description: "Software and app development", Count: 17},
		{Name: "Photography", Description: "Visual content and stock photos", Count: 15},
	}
}

// SortMode orders search results.
type SortMode string

const (
	SortFeatured   SortMode = "featured"
	SortPopularity SortMode = "popularity"
	SortRating     SortMode = "rating"
	SortEarnings   SortMode = "earnings"
)

// DifficultyAll disables the difficulty filter.
const DifficultyAll = "all"

// Filter selects and orders listings. Empty fields match everything.
type Filter struct {
	Search     string
	Category   string
	Difficulty string
	Sort       SortMode
}

// SelectCategory narrows f to a category tile and clears the search term.
func (f Filter) SelectCategory(name string) Filter {
	f.Category = strings.ToLower(name)
	f.Search = ""
	return f
}

// Clear drops search, category and difficulty, keeping the sort mode.
func (f Filter) Clear() Filter {
	return Filter{Difficulty: DifficultyAll, Sort: f.Sort}
}

// Active reports whether a category or difficulty filter is applied.
func (f Filter) Active() bool {
	return f.Category != "" || (f.Difficulty != "" && f.Difficulty != DifficultyAll)
}

// Catalog holds the listings.
type Catalog struct {
	listings []Listing
}

// Default returns the catalog of embedded listings.
func Default() (*Catalog, error) {
	return Load(bytes.NewReader(defaultListings))
}

// Load decodes a JSON array of listings.
func Load(r io.Reader) (*Catalog, error) {
	var listings []Listing
	if err := json.NewDecoder(r).Decode(&listings); err != nil {
		return nil, fmt.Errorf("failed to decode listings: %w", err)
	}
	return &Catalog{listings: listings}, nil
}

// Len returns the number of listings.
func (c *Catalog) Len() int {
	return len(c.listings)
}

// Get returns the listing with the given id.
func (c *Catalog) Get(id int) (Listing, bool) {
	for _, l := range c.listings {
		if l.ID == id {
			return l, true
		}
	}
	return Listing{}, false
}

// Search returns the listings matching f in f.Sort order.
func (c *Catalog) Search(f Filter) []Listing {
	fold := cases.Fold()
	term := fold.String(f.Search)
	category := fold.String(f.Category)

	var out []Listing
	for _, l := range c.listings {
		if term != "" && !matchesTerm(fold, l, term) {
			continue
		}
		if category != "" && !strings.Contains(fold.String(l.Category), category) {
			continue
		}
		if f.Difficulty != "" && f.Difficulty != DifficultyAll && l.Difficulty != f.Difficulty {
			continue
		}
		out = append(out, l)
	}

	sortListings(out, f.Sort)
	return out
}

func matchesTerm(fold cases.Caser, l Listing, term string) bool {
	if strings.Contains(fold.String(l.Title), term) ||
		strings.Contains(fold.String(l.Description), term) ||
		strings.Contains(fold.String(l.Category), term) {
		return true
	}
	for _, s := range l.Skills {
		if strings.Contains(fold.String(s), term) {
			return true
		}
	}
	return false
}

func sortListings(ls []Listing, mode SortMode) {
	switch mode {
	case SortFeatured, "":
		sort.SliceStable(ls, func(i, j int) bool {
			if ls[i].Featured != ls[j].Featured {
				return ls[i].Featured
			}
			return ls[i].PopularityScore > ls[j].PopularityScore
		})
	case SortPopularity:
		sort.SliceStable(ls, func(i, j int) bool {
			return ls[i].PopularityScore > ls[j].PopularityScore
		})
	case SortRating:
		sort.SliceStable(ls, func(i, j int) bool {
			return ls[i].Rating > ls[j].Rating
		})
	case SortEarnings:
		sort.SliceStable(ls, func(i, j int) bool {
			return MaxEarnings(ls[i].EarningsPotential) > MaxEarnings(ls[j].EarningsPotential)
		})
	}
}

var amountPattern = regexp.MustCompile(`\$[\d,]+`)

// MaxEarnings returns the upper bound of an earnings range such as
// "$500 - $3,000/month". Strings without a second amount yield 0.
func MaxEarnings(potential string) int {
	amounts := amountPattern.FindAllString(potential, -1)
	if len(amounts) < 2 {
		return 0
	}
	n, err := strconv.Atoi(strings.NewReplacer("$", "", ",", "").Replace(amounts[1]))
	if err != nil {
		return 0
	}
	return n
}
