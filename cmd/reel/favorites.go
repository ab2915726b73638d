package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/export"
	"github.com/mmcdole/reel/internal/filter"
	"github.com/mmcdole/reel/internal/search"
	"github.com/mmcdole/reel/internal/tui/styles"
	"github.com/spf13/cobra"
)

var (
	listJSON   bool
	listWhere  string
	listMatch  string
	exportFmt  string
	exportPath string
	importFmt  string
)

var favoritesCmd = &cobra.Command{
	Use:     "favorites",
	Aliases: []string{"fav"},
	Short:   "Manage the favorites list",
}

var favListCmd = &cobra.Command{
	Use:   "list",
	Short: "List favorites in the order they were added",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var pred *filter.Predicate
		if listWhere != "" {
			p, err := filter.Compile(listWhere)
			if err != nil {
				return err
			}
			pred = p
		}

		a, err := openApp(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()

		movies, err := selectFavorites(a.favorites.CurrentFavorites(), pred, listMatch)
		if err != nil {
			return err
		}
		return printMovies(cmd.OutOrStdout(), movies, listJSON, a.favorites)
	},
}

var favToggleCmd = &cobra.Command{
	Use:   "toggle ID",
	Short: "Add a movie by TMDB id, or remove it if already a favorite",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil || id <= 0 {
			return fmt.Errorf("invalid movie id %q", args[0])
		}

		a, err := openApp(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()

		movie, added, err := toggleByID(cmd.Context(), a.favorites, a.catalog.LookupMovie, id)
		if err != nil {
			return err
		}
		if added {
			fmt.Fprintf(cmd.OutOrStdout(), "%s Added %s\n", styles.FavoriteChar, movie.Title)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "%s Removed %s\n", styles.NotFavoriteChar, movie.Title)
		}
		return nil
	},
}

var favExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write favorites as JSON, YAML or TOML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := resolveFormat(exportFmt, exportPath)
		if err != nil {
			return err
		}

		a, err := openApp(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()

		w := cmd.OutOrStdout()
		if exportPath != "" {
			f, err := os.Create(exportPath)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", exportPath, err)
			}
			defer f.Close()
			w = f
		}

		movies := a.favorites.CurrentFavorites()
		if err := export.Encode(w, format, movies); err != nil {
			return err
		}
		if exportPath != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "✓ Exported %d favorites to %s\n", len(movies), exportPath)
		}
		return nil
	},
}

var favImportCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Add every movie in an exported file that is not already a favorite",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		format, err := resolveFormat(importFmt, path)
		if err != nil {
			return err
		}

		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()

		movies, err := export.Decode(f, format)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		a, err := openApp(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()

		added := importMovies(a.favorites, movies)
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Imported %d of %d movies\n", added, len(movies))
		return nil
	},
}

var favStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the favorites list",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()

		printStats(cmd.OutOrStdout(), a.favorites.Stats())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(favoritesCmd)
	favoritesCmd.AddCommand(favListCmd, favToggleCmd, favExportCmd, favImportCmd, favStatsCmd)

	favListCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	favListCmd.Flags().StringVar(&listWhere, "where", "", `Filter expression, e.g. 'rating >= 7 && year < 2000'`)
	favListCmd.Flags().StringVar(&listMatch, "match", "", "Fuzzy title match, best matches first")

	favExportCmd.Flags().StringVarP(&exportFmt, "format", "f", "", "Output format: json, yaml or toml (default from --output, else json)")
	favExportCmd.Flags().StringVarP(&exportPath, "output", "o", "", "Write to a file instead of stdout")

	favImportCmd.Flags().StringVarP(&importFmt, "format", "f", "", "Input format (default from the file extension)")
}

// selectFavorites applies the optional predicate, then the optional fuzzy match
func selectFavorites(movies []domain.Movie, pred *filter.Predicate, match string) ([]domain.Movie, error) {
	if pred != nil {
		filtered, err := pred.Apply(movies)
		if err != nil {
			return nil, err
		}
		movies = filtered
	}
	if strings.TrimSpace(match) != "" {
		movies = search.Rank(movies, match)
	}
	return movies, nil
}

// toggleByID flips membership for id. Movies not yet in favorites are
// looked up so the stored record is complete.
func toggleByID(
	ctx context.Context,
	access domain.FavoritesAccess,
	lookup func(ctx context.Context, id int) (domain.Movie, error),
	id int,
) (movie domain.Movie, added bool, err error) {
	for _, m := range access.CurrentFavorites() {
		if m.ID == id {
			access.ToggleFavorite(m)
			return m, false, nil
		}
	}

	movie, err = lookup(ctx, id)
	if err != nil {
		return domain.Movie{}, false, err
	}
	access.ToggleFavorite(movie)
	return movie, true, nil
}

// importMovies adds movies that are not favorites yet, keeping file order.
// Returns how many were added.
func importMovies(access domain.FavoritesAccess, movies []domain.Movie) int {
	added := 0
	for _, m := range movies {
		if access.IsFavorite(m.ID) {
			continue
		}
		access.ToggleFavorite(m)
		added++
	}
	return added
}

func resolveFormat(flag, path string) (export.Format, error) {
	if flag != "" {
		return export.ParseFormat(flag)
	}
	if path == "" {
		return export.FormatJSON, nil
	}
	return export.FormatFromPath(path)
}

// printMovies writes one line per movie, or an indented JSON array
func printMovies(w io.Writer, movies []domain.Movie, asJSON bool, access domain.FavoritesAccess) error {
	if asJSON {
		if movies == nil {
			movies = []domain.Movie{}
		}
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(movies)
	}

	if len(movies) == 0 {
		fmt.Fprintln(w, "No movies.")
		return nil
	}
	for _, m := range movies {
		mark := styles.NotFavoriteChar
		if access != nil && access.IsFavorite(m.ID) {
			mark = styles.FavoriteChar
		}
		fmt.Fprintf(w, "%s %-8d %s (%s)  %s %s\n",
			mark, m.ID, m.Title, m.YearLabel(), styles.StarChar, m.RatingLabel())
	}
	return nil
}

func printStats(w io.Writer, stats domain.FavoritesStats) {
	if stats.Count == 0 {
		fmt.Fprintln(w, "No favorites yet.")
		return
	}
	hours := int(stats.EstimatedRuntime.Hours())
	minutes := int(stats.EstimatedRuntime.Minutes()) % 60
	fmt.Fprintf(w, "Favorites:       %d\n", stats.Count)
	fmt.Fprintf(w, "Average rating:  %s %.1f\n", styles.StarChar, stats.AverageRating)
	fmt.Fprintf(w, "Est. runtime:    %dh %02dm\n", hours, minutes)
}
