package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"marquee/internal/catalog"
	"marquee/internal/recommend"
	"marquee/internal/services"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var (
		asJSON  bool
		genres  []string
		decade  string
		critics bool
		adult   bool
	)

	cmd := &cobra.Command{
		Use:   "search [prompt]",
		Short: "Recommend movies for a description",
		Example: `  marquee search "a romantic movie under 90 minutes"
  marquee search "something scary" --decade 1980s --critics`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			svc, closeFn, err := recommend.Build(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer closeFn()

			var prompt string
			if len(args) == 1 {
				prompt = args[0]
			}
			outcome, err := svc.Recommend(cmd.Context(), recommend.Request{
				Prompt: prompt,
				Manual: recommend.ManualFilters(genres, decade, critics, adult),
			})
			if err != nil {
				if errors.Is(err, services.ErrEmptyPrompt) {
					return errors.New(recommend.MessageEmptyPrompt)
				}
				return fmt.Errorf("%s: %w", recommend.UserMessage(err), err)
			}

			if asJSON {
				return writeJSON(cmd, outcome)
			}
			printOutcome(cmd, outcome)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the outcome as JSON")
	cmd.Flags().StringArrayVarP(&genres, "genre", "g", nil, "Require a genre (repeatable)")
	cmd.Flags().StringVar(&decade, "decade", "", "Restrict to a decade, e.g. 1990s")
	cmd.Flags().BoolVar(&critics, "critics", false, "Critically acclaimed only (rating >= 7.0)")
	cmd.Flags().BoolVar(&adult, "adult", false, "Include adult titles")
	return cmd
}

func printOutcome(cmd *cobra.Command, outcome recommend.Outcome) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Filters: %s\n", outcome.Filters.Summary())
	if applied := outcome.Applied.Summary(); applied != outcome.Filters.Summary() {
		fmt.Fprintf(out, "Searched with: %s\n", applied)
	}
	if outcome.ParseFailed {
		fmt.Fprintln(out, "Could not interpret the description; showing popular movies.")
	}
	for _, notice := range outcome.Notices {
		fmt.Fprintln(out, notice)
	}
	if len(outcome.Movies) == 0 {
		fmt.Fprintln(out, outcome.Message)
		return
	}
	fmt.Fprintln(out, renderTable(movieColumns, movieRows(outcome.Movies)))
}

var movieColumns = []column{
	{Header: "#", Right: true},
	{Header: "Title", WidthMax: 40},
	{Header: "Year", Right: true},
	{Header: "Rating", Right: true},
	{Header: "Runtime", Right: true},
	{Header: "Genres", WidthMax: 32},
}

func movieRows(movies []catalog.Movie) [][]string {
	rows := make([][]string, 0, len(movies))
	for i, movie := range movies {
		year := ""
		if movie.Year > 0 {
			year = strconv.Itoa(movie.Year)
		}
		runtime := ""
		if movie.Runtime > 0 {
			runtime = fmt.Sprintf("%d min", movie.Runtime)
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			movie.Title,
			year,
			fmt.Sprintf("%.1f", movie.Rating),
			runtime,
			strings.Join(movie.Genres, ", "),
		})
	}
	return rows
}
