package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/talgya/dilemma-lab/internal/catalog"
	"github.com/talgya/dilemma-lab/internal/strategy"
)

const defaultCatalogPath = "config/strategy_descriptions.yaml"

func newStrategiesCmd() *cobra.Command {
	var catalogPath string

	cmd := &cobra.Command{
		Use:   "strategies [kind]",
		Short: "List available strategies and their behavior",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := catalog.NewService(catalog.YAMLLoader{}, catalog.TextFormatter{}, catalogPath)

			if len(args) == 1 {
				desc, err := svc.Description(args[0])
				if err != nil {
					return err
				}
				if desc == "" {
					return fmt.Errorf("unknown strategy %q", args[0])
				}
				fmt.Fprintln(cmd.OutOrStdout(), desc)
				return nil
			}

			keys, err := svc.Keys()
			if err != nil {
				return err
			}
			for i, key := range keys {
				if i > 0 {
					fmt.Fprintln(cmd.OutOrStdout())
				}
				desc, err := svc.Description(key)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  (%s)\n", key, families(key))
				fmt.Fprintln(cmd.OutOrStdout(), desc)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&catalogPath, "catalog", catalogEnvOrDefault(), "strategy description file")
	return cmd
}

func catalogEnvOrDefault() string {
	if p := os.Getenv("DILEMMALAB_CATALOG"); p != "" {
		return p
	}
	return defaultCatalogPath
}

// families names the dilemma families a strategy kind plays in.
func families(key string) string {
	k := strategy.Kind(key)
	var names []string
	for f, label := range map[strategy.Family]string{
		strategy.FamilyMatrix:  "matrix",
		strategy.FamilyHarvest: "commons",
		strategy.FamilyFunding: "free rider",
		strategy.FamilyPooling: "public goods",
	} {
		if strategy.Belongs(k, f) {
			names = append(names, label)
		}
	}
	return joinSorted(names)
}

func joinSorted(names []string) string {
	if len(names) == 0 {
		return "uncatalogued"
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
