package main

import (
	"encoding/json"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/talgya/dilemma-lab/internal/store"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect archived simulation runs",
	}
	cmd.AddCommand(newHistoryListCmd())
	cmd.AddCommand(newHistoryShowCmd())
	return cmd
}

func newHistoryListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List archived runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := store.Open(dbPath())
			if err != nil {
				return err
			}
			defer db.Close()

			runs, err := db.ListRuns(limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No archived runs.")
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%-36s  %-24s  %-18s %7s %7s  %s\n",
				"ID", "NAME", "DILEMMA", "ROUNDS", "AGENTS", "WHEN")
			for _, r := range runs {
				fmt.Fprintf(cmd.OutOrStdout(), "%-36s  %-24s  %-18s %7d %7d  %s\n",
					r.ID, r.Name, r.Dilemma, r.TotalRounds, r.NumAgents,
					humanize.Time(r.CreatedAt))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of runs to list")
	return cmd
}

func newHistoryShowCmd() *cobra.Command {
	var full bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one archived run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := store.Open(dbPath())
			if err != nil {
				return err
			}
			defer db.Close()

			run, err := db.GetRun(args[0])
			if err != nil {
				return fmt.Errorf("run %s: %w", args[0], err)
			}

			if full {
				var pretty json.RawMessage = []byte(run.ResultJSON)
				out, err := json.MarshalIndent(pretty, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
				return nil
			}

			res, err := run.Result()
			if err != nil {
				return err
			}

			var cfg struct {
				Strategies map[string]int `json:"strategies"`
			}
			agents := run.NumAgents
			if err := json.Unmarshal([]byte(run.ConfigJSON), &cfg); err == nil {
				agents = 0
				for _, n := range cfg.Strategies {
					agents += n
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Run:      %s (%s)\n", run.Name, run.ID)
			fmt.Fprintf(cmd.OutOrStdout(), "Created:  %s\n", humanize.Time(run.CreatedAt))
			fmt.Fprintf(cmd.OutOrStdout(), "Dilemma:  %s\n", res.Dilemma)
			fmt.Fprintf(cmd.OutOrStdout(), "Rounds:   %d\n", run.TotalRounds)
			fmt.Fprintf(cmd.OutOrStdout(), "Agents:   %d\n", agents)
			fmt.Fprintf(cmd.OutOrStdout(), "Seed:     %d\n", run.Seed)
			return nil
		},
	}

	cmd.Flags().BoolVar(&full, "full", false, "print the full result JSON")
	return cmd
}
