package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/TFMV/schemaforge/pkg/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Browse side hustle listings",
	Long: `Search, filter and sort the side hustle catalog.

Search matches titles, descriptions, categories and skills. Sort modes are
featured, popularity, rating and earnings.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		search, _ := cmd.Flags().GetString("search")
		category, _ := cmd.Flags().GetString("category")
		difficulty, _ := cmd.Flags().GetString("difficulty")
		sortBy, _ := cmd.Flags().GetString("sort")
		showCategories, _ := cmd.Flags().GetBool("categories")
		id, _ := cmd.Flags().GetInt("id")

		out := cmd.OutOrStdout()
		if showCategories {
			displayCategories(out)
			return nil
		}

		c, err := loadCatalog()
		if err != nil {
			return err
		}

		if id != 0 {
			l, ok := c.Get(id)
			if !ok {
				return fmt.Errorf("no listing with id %d", id)
			}
			displayListing(out, l)
			return nil
		}

		f := catalog.Filter{Search: search, Difficulty: difficulty, Sort: catalog.SortMode(sortBy)}
		if category != "" {
			f = f.SelectCategory(category)
		}
		displaySearch(out, c, f)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)

	catalogCmd.Flags().StringP("search", "s", "", "Search term")
	catalogCmd.Flags().StringP("category", "c", "", "Category filter (clears --search)")
	catalogCmd.Flags().StringP("difficulty", "d", catalog.DifficultyAll, "Difficulty (all, Beginner, Intermediate, Advanced)")
	catalogCmd.Flags().String("sort", string(catalog.SortFeatured), "Sort mode (featured, popularity, rating, earnings)")
	catalogCmd.Flags().Bool("categories", false, "List categories")
	catalogCmd.Flags().Int("id", 0, "Show a single listing")
	catalogCmd.Flags().String("listings", "", "JSON listings file (default is the built-in catalog)")

	if err := viper.BindPFlag("catalog.file", catalogCmd.Flags().Lookup("listings")); err != nil {
		log.Fatal().Err(err).Msg("Failed to bind listings flag")
	}
}

func loadCatalog() (*catalog.Catalog, error) {
	path := viper.GetString("catalog.file")
	if path == "" {
		return catalog.Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open listings: %w", err)
	}
	defer f.Close()
	return catalog.Load(f)
}

// displaySearch prints the listings matching f. When an active filter matches
// nothing, the filters are cleared and every listing is shown.
func displaySearch(w io.Writer, c *catalog.Catalog, f catalog.Filter) {
	if f.Active() {
		fmt.Fprintf(w, "Filters: category=%s difficulty=%s\n", orAll(f.Category), orAll(f.Difficulty))
	}

	listings := c.Search(f)
	if len(listings) == 0 && f.Active() {
		fmt.Fprintf(w, "No opportunities found, clearing filters\n")
		f = f.Clear()
		listings = c.Search(f)
	}

	if strings.TrimSpace(f.Search) != "" {
		printer.Fprintf(w, "Found %d opportunities matching %q\n\n", len(listings), f.Search)
	} else {
		printer.Fprintf(w, "%d opportunities\n\n", len(listings))
	}
	for _, l := range listings {
		displayListing(w, l)
	}
}

func orAll(s string) string {
	if s == "" {
		return catalog.DifficultyAll
	}
	return s
}

func displayCategories(w io.Writer) {
	fmt.Fprintf(w, "Categories\n")
	fmt.Fprintf(w, "==========\n\n")
	for _, c := range catalog.Categories() {
		printer.Fprintf(w, "%-16s %-42s %d opportunities\n", c.Name, c.Description, c.Count)
	}
}

func displayListing(w io.Writer, l catalog.Listing) {
	star := ""
	if l.Featured {
		star = " [featured]"
	}
	fmt.Fprintf(w, "#%d %s%s\n", l.ID, l.Title, star)
	fmt.Fprintf(w, "  %s\n", l.Description)
	fmt.Fprintf(w, "  %s | %s | rating %.1f | popularity %d\n", l.Category, l.Difficulty, l.Rating, l.PopularityScore)
	fmt.Fprintf(w, "  Earnings: %s  Time: %s  Upfront: %s\n", l.EarningsPotential, l.TimeCommitment, l.UpfrontCost)
	if len(l.Skills) > 0 {
		fmt.Fprintf(w, "  Skills: %s\n", strings.Join(l.Skills, ", "))
	}
	fmt.Fprintln(w)
}
