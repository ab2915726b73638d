package main

import (
	"fmt"
	"strings"

	"github.com/mmcdole/reel/internal/domain"
	"github.com/spf13/cobra"
)

var (
	searchJSON  bool
	searchLocal bool
)

var searchCmd = &cobra.Command{
	Use:   "search QUERY...",
	Short: "Search the catalog by title",
	Long: `Search TMDB by title. When TMDB cannot be reached the query is
answered from favorites and cached listings instead.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")

		a, err := openApp(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()

		var movies []domain.Movie
		local := searchLocal
		if local {
			movies = a.search.SearchLocal(query)
		} else {
			movies, local, err = a.search.Search(cmd.Context(), query)
			if err != nil {
				return err
			}
		}

		if local && !searchJSON {
			fmt.Fprintln(cmd.ErrOrStderr(), "Showing matches from favorites and cached listings")
		}
		return printMovies(cmd.OutOrStdout(), movies, searchJSON, a.favorites)
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Output in JSON format")
	searchCmd.Flags().BoolVar(&searchLocal, "local", false, "Only search favorites and cached listings")
}
