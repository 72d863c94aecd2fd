package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cozycast/internal/broadcast"
	"cozycast/internal/logging"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the latest broadcast record",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			store := broadcast.NewStore(cfg.LatestRecordPath(), cfg.RecordsDir(), logging.NewNop())
			record := store.Load()

			out := cmd.OutOrStdout()
			if asJSON {
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")
				return encoder.Encode(record)
			}

			if record.RunID == "" {
				fmt.Fprintln(out, "No broadcast has been produced yet")
				return nil
			}

			fmt.Fprintf(out, "Run:     %s\n", record.RunID)
			fmt.Fprintf(out, "Created: %s\n", record.CreatedAt)
			fmt.Fprintf(out, "Events:  %d\n", len(record.Events))
			for _, event := range record.Events {
				fmt.Fprintf(out, "  - %s\n", event)
			}
			if record.AudioFile != "" {
				fmt.Fprintf(out, "Audio:   %s\n", record.AudioFile)
			}
			if record.Error != "" {
				fmt.Fprintf(out, "Error:   %s\n", record.Error)
			}
			if script := strings.TrimSpace(record.Script); script != "" {
				fmt.Fprintln(out, "Script:")
				for _, line := range strings.Split(script, "\n") {
					fmt.Fprintf(out, "  %s\n", line)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the record as JSON")
	return cmd
}
