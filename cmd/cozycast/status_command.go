package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cozycast/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check the environment for broadcast readiness",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			results := preflight.RunAll(cmd.Context(), cfg)
			rows := make([][]string, 0, len(results))
			failures := 0
			for _, result := range results {
				status := "ok"
				if !result.Passed {
					status = "FAIL"
					failures++
				}
				rows = append(rows, []string{result.Name, status, result.Detail})
			}
			fmt.Fprintln(out, renderTable([]string{"Check", "Status", "Detail"}, rows, nil))

			depRows := make([][]string, 0, 4)
			for _, status := range preflight.CheckSystemDeps(cfg) {
				state := "ok"
				if !status.Available {
					state = "MISSING"
					if !status.Optional {
						failures++
					}
				}
				detail := status.Detail
				if detail == "" {
					detail = status.Description
				}
				depRows = append(depRows, []string{status.Name, state, detail})
			}
			fmt.Fprintln(out, renderTable([]string{"Dependency", "Status", "Detail"}, depRows, nil))

			if failures > 0 {
				return fmt.Errorf("%d preflight check(s) failed", failures)
			}
			fmt.Fprintln(out, "Ready to broadcast")
			return nil
		},
	}
}
