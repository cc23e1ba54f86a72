package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/search"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list [query]",
	Short: "Print the movie collection",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		a, err := openApp(nil, "")
		if err != nil {
			return err
		}
		defer a.Close()

		status := a.initialize(cmd.Context())
		if !status.Connected {
			fmt.Fprintf(os.Stderr, "Offline: showing %s data (%v)\n", status.Source, status.Err)
		}

		movies := a.svc.List().Movies
		if len(args) == 1 {
			movies = search.Rank(args[0], movies)
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(movies)
		}
		return printMovies(movies)
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the sample movies into an empty table",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(nil, "")
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), a.backendTimeout())
		defer cancel()

		status := a.svc.Initialize(ctx)
		if !status.Connected {
			return fmt.Errorf("cannot seed: %w", status.Err)
		}

		n, err := a.svc.Seed(ctx)
		if err != nil {
			return err
		}
		if n == 0 {
			fmt.Printf("Table already has %d movies, nothing to do\n", status.Count)
			return nil
		}
		fmt.Printf("✓ Inserted %d sample movies\n", n)
		return nil
	},
}

func init() {
	listCmd.Flags().Bool("json", false, "print JSON instead of a table")
}

func printMovies(movies []domain.Movie) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tYEAR\tDIRECTOR\tRATING")
	for _, m := range movies {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", m.ID, m.Title, m.Year, m.Director, m.FormattedRating())
	}
	return w.Flush()
}
