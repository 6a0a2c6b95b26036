package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/talgya/dilemma-lab/internal/engine"
	"github.com/talgya/dilemma-lab/internal/store"
)

func newRunCmd() *cobra.Command {
	var (
		configPath string
		seed       int64
		outPath    string
		save       bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a simulation from a config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("seed") {
				cfg.Seed = seed
			}

			res, err := engine.Run(cfg)
			if err != nil {
				return err
			}

			printSummary(cmd.OutOrStdout(), &cfg, res)

			if outPath != "" {
				raw, err := json.MarshalIndent(res, "", "  ")
				if err != nil {
					return fmt.Errorf("marshal result: %w", err)
				}
				if err := os.WriteFile(outPath, raw, 0644); err != nil {
					return fmt.Errorf("write result: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "\nResult written to %s\n", outPath)
			}

			if save {
				path := dbPath()
				if dir := filepath.Dir(path); dir != "." {
					if err := os.MkdirAll(dir, 0755); err != nil {
						return fmt.Errorf("create archive dir: %w", err)
					}
				}
				db, err := store.Open(path)
				if err != nil {
					return err
				}
				defer db.Close()

				id, err := db.SaveRun(cfg, res)
				if err != nil {
					return err
				}
				slog.Info("run archived", "id", id, "path", path)
				fmt.Fprintf(cmd.OutOrStdout(), "\nArchived as %s\n", id)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "simulation config file (YAML or JSON)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "override the config's random seed")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write the full result JSON to this file")
	cmd.Flags().BoolVar(&save, "save", false, "archive the run in the local database")
	cmd.MarkFlagRequired("config")
	return cmd
}

// loadConfig reads a simulation config from YAML or JSON, by extension.
func loadConfig(path string) (engine.Config, error) {
	var cfg engine.Config
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(raw, &cfg)
	default:
		err = yaml.Unmarshal(raw, &cfg)
	}
	if err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// printSummary writes a human-readable digest of a result: warnings, final
// per-strategy stats, and dilemma-specific outcome lines.
func printSummary(w io.Writer, cfg *engine.Config, res *engine.Result) {
	fmt.Fprintf(w, "Dilemma:  %s\n", res.Dilemma)
	fmt.Fprintf(w, "Rounds:   %d\n", len(res.Rounds))
	fmt.Fprintf(w, "Agents:   %d\n", cfg.AgentCount())
	fmt.Fprintf(w, "Seed:     %d\n", res.Seed)

	for _, warning := range res.Warnings {
		fmt.Fprintf(w, "Warning:  %s\n", warning)
	}

	kinds := make([]string, 0, len(res.FinalStats.Strategies))
	for k := range res.FinalStats.Strategies {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)

	fmt.Fprintf(w, "\n%-20s %12s %14s %8s %8s %8s\n",
		"STRATEGY", "SCORE", "TOTAL", "COOP", "SUSTAIN", "WELFARE")
	for _, k := range kinds {
		p := res.FinalStats.Strategies[k]
		if p.AgentCount == 0 {
			continue
		}
		fmt.Fprintf(w, "%-20s %12s %14s %8.2f %8.2f %8.2f\n",
			k,
			humanize.CommafWithDigits(p.Score, 2),
			humanize.CommafWithDigits(p.TotalResources, 2),
			p.CooperationRate,
			p.SustainabilityImpact,
			p.SocialWelfare,
		)
	}

	switch res.Dilemma {
	case engine.TragedyCommons:
		if n := len(res.ResourceLevels); n > 0 {
			final := res.ResourceLevels[n-1]
			fmt.Fprintf(w, "\nFinal pool: %s", humanize.CommafWithDigits(final, 2))
			if final <= 0 {
				fmt.Fprintf(w, "  (collapsed)")
			}
			fmt.Fprintln(w)
		}
	case engine.FreeRider:
		status := "failed"
		if res.ProjectCompleted {
			status = "completed"
		}
		final := 0.0
		if n := len(res.FundingProgress); n > 0 {
			final = res.FundingProgress[n-1]
		}
		fmt.Fprintf(w, "\nProject %s at %.1f%% funding\n", status, final)
	case engine.PublicGoods:
		if n := len(res.AverageContribution); n > 0 {
			fmt.Fprintf(w, "\nFinal average contribution: %s\n",
				humanize.CommafWithDigits(res.AverageContribution[n-1], 2))
		}
	}
}
