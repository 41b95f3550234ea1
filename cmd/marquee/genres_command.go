package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"marquee/internal/recommend"
)

func newGenresCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "genres",
		Short: "List the TMDB movie genres",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			cat, err := recommend.NewCatalog(cfg, logger)
			if err != nil {
				return err
			}
			names, err := cat.GenreNames(cmd.Context())
			if err != nil {
				return fmt.Errorf("%s: %w", recommend.UserMessage(err), err)
			}
			if asJSON {
				return writeJSON(cmd, names)
			}
			out := cmd.OutOrStdout()
			for _, name := range names {
				fmt.Fprintln(out, name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the genre list as JSON")
	return cmd
}
