package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"cozycast/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent broadcast runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			store, err := history.Open(cfg.HistoryDBPath())
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No broadcast runs recorded")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				status := "ok"
				if !run.Succeeded() {
					status = "failed"
				}
				rows = append(rows, []string{
					run.CreatedAt.Local().Format(time.DateTime),
					status,
					strconv.Itoa(run.EventCount),
					fmt.Sprintf("%.1fs", run.ElapsedSeconds),
					run.AudioFile,
				})
			}
			headers := []string{"Created", "Status", "Events", "Elapsed", "Audio"}
			aligns := []columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft}
			fmt.Fprintln(out, renderTable(headers, rows, aligns))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum number of runs to list")
	return cmd
}
