package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"cinetag/internal/history"
)

var errHistoryDisabled = errors.New("export history is disabled (set [history] enabled = true)")

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var filter history.Filter

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded exports",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openHistory()
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			if store == nil {
				return errHistoryDisabled
			}
			defer store.Close()

			records, err := store.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No exports recorded")
				return nil
			}

			rows := make([][]string, 0, len(records))
			for _, rec := range records {
				rows = append(rows, []string{
					rec.StartedAt.Local().Format("2006-01-02 15:04:05"),
					rec.Scene,
					rec.Engine,
					rec.Outcome,
					yesNo(rec.DryRun),
					strconv.Itoa(rec.ShotCount),
					strconv.Itoa(rec.FrameCount),
					fmt.Sprintf("%d (+%d/-%d)", rec.ActorCount, rec.ActorsAdded, rec.ActorsRemoved),
					rec.Duration().Round(time.Millisecond).String(),
					shortID(rec.RunID),
				})
			}
			fmt.Fprintln(out, renderTable(out, []column{col("Started"), col("Scene"), col("Schema"), col("Outcome"), col("Dry Run"), num("Shots"), num("Frames"), num("Actors"), num("Took"), col("Run")}, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&filter.Scene, "scene", "", "Only show exports of this scene")
	cmd.Flags().StringVar(&filter.Outcome, "outcome", "", "Only show exports with this outcome (success, invalid, failed, canceled)")
	cmd.Flags().IntVarP(&filter.Limit, "limit", "n", 20, "Maximum number of exports to show (0 for all)")
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
