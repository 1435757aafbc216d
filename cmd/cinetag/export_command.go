package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"cinetag/internal/export"
	"cinetag/internal/preflight"
	"cinetag/internal/services"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var opts export.Options

	cmd := &cobra.Command{
		Use:   "export <snapshot.yaml>...",
		Short: "Write cinematic scene tags from scene snapshots",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger()
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer ctx.close()
			if failed := preflight.Summary(preflight.RunAll(cmd.Context(), cfg)); failed != "" {
				return services.Wrap(services.ErrConfiguration, "preflight", "check", "preflight failed: "+failed+" (run `cinetag check`)", nil)
			}
			store, err := ctx.openHistory()
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			if store != nil {
				defer store.Close()
			}

			exp := export.New(cfg, logger, store)
			results, runErr := exp.ExportAll(cmd.Context(), args, opts)

			rows := make([][]string, 0, len(results))
			for _, res := range results {
				scene := res.Scene
				if scene == "" {
					scene = res.Snapshot
				}
				rows = append(rows, []string{
					scene,
					res.Schema.String(),
					res.Outcome(),
					strconv.Itoa(res.Summary.Shots),
					strconv.Itoa(res.Summary.Frames),
					fmt.Sprintf("%d (+%d/-%d)", res.Summary.Actors, res.Summary.Added, res.Summary.Removed),
					res.Paths.Tag,
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(out, []column{col("Scene"), col("Schema"), col("Outcome"), num("Shots"), num("Frames"), num("Actors"), col("Tag")}, rows))
			if opts.DryRun {
				fmt.Fprintln(out, "Dry run: no files were written")
			}
			return runErr
		},
	}

	cmd.Flags().StringVar(&opts.Engine, "engine", "", "Tag schema override: legacy or split")
	cmd.Flags().BoolVar(&opts.WriteQua, "qua", false, "Also write the legacy .qua text file")
	cmd.Flags().BoolVar(&opts.Backup, "backup", false, "Copy existing tags to <tag>.bak before replacing them")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Build and synchronise without writing any file")
	return cmd
}
