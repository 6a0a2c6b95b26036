package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/talgya/dilemma-lab/internal/api"
	"github.com/talgya/dilemma-lab/internal/catalog"
	"github.com/talgya/dilemma-lab/internal/store"
)

func newServeCmd() *cobra.Command {
	var (
		port        int
		catalogPath string
		noArchive   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the simulation HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
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

			srv := &api.Server{
				Catalog:     catalog.NewService(catalog.YAMLLoader{}, catalog.TextFormatter{}, catalogPath),
				DB:          db,
				Port:        port,
				ArchiveRuns: !noArchive,
			}
			return srv.Start()
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "listen port")
	cmd.Flags().StringVar(&catalogPath, "catalog", catalogEnvOrDefault(), "strategy description file")
	cmd.Flags().BoolVar(&noArchive, "no-archive", false, "do not archive simulate requests")
	return cmd
}
