package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"recipebook/internal/catalog"
	"recipebook/internal/domain"
)

var (
	listCategory  string
	listQuery     string
	listFavorites bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved recipes",
	Long: `List saved recipes, newest first, using the same filters as the page.

Examples:
  recipebook list                       # everything
  recipebook list --favorites           # favorites only
  recipebook list --category Dinner     # one category
  recipebook list --query garlic        # title, category or ingredient match`,
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		store, closeStore, err := openStore(cfg, log, false)
		if err != nil {
			return err
		}
		defer closeStore()

		repo := catalog.NewRepository(cmd.Context(), store, log)
		recipes := catalog.Filter(repo.All(), catalog.Criteria{
			FavoritesOnly: listFavorites,
			Category:      listCategory,
			Query:         listQuery,
		})
		return printRecipes(cmd.OutOrStdout(), recipes)
	},
}

func init() {
	listCmd.Flags().StringVar(&listCategory, "category", catalog.AllCategories, "only this category")
	listCmd.Flags().StringVarP(&listQuery, "query", "q", "", "search text")
	listCmd.Flags().BoolVar(&listFavorites, "favorites", false, "favorites only")
}

func printRecipes(out io.Writer, recipes []domain.Recipe) error {
	if len(recipes) == 0 {
		_, err := fmt.Fprintln(out, "No recipes found.")
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FAV\tTITLE\tCATEGORY\tINGREDIENTS\tADDED")
	for _, r := range recipes {
		fav := ""
		if r.Favorite {
			fav = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
			fav, r.Title, r.CategoryLabel(), len(r.Ingredients), humanize.Time(r.Created))
	}
	return tw.Flush()
}
