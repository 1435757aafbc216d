package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cinetag/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the tags root, working directories and history store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			results := preflight.RunAll(cmd.Context(), cfg)
			rows := make([][]string, 0, len(results))
			for _, r := range results {
				status := "ok"
				if !r.Passed {
					status = "FAIL"
				}
				rows = append(rows, []string{r.Name, status, r.Detail})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(out, []column{col("Check"), col("Status"), col("Detail")}, rows))

			if failed := preflight.Summary(results); failed != "" {
				return fmt.Errorf("preflight failed: %s", failed)
			}
			return nil
		},
	}
}
