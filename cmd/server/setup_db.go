package main

import (
	"context"
	"fmt"
	"time"

	"lifeos-backend/internal/repository"

	_ "github.com/go-kivik/kivik/v4/couchdb"

	"github.com/go-kivik/kivik/v4"
	"github.com/spf13/cobra"
)

var setupDBCmd = &cobra.Command{
	Use:   "setup-db",
	Short: "Create the CouchDB databases and indexes, then exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		client, err := connectCouch(ctx, cfg.Database.URL, cfg.Database.Name)
		if err != nil {
			return err
		}
		defer client.Close()

		logger.Info("Databases ready", "prefix", cfg.Database.Name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(setupDBCmd)
}

// connectCouch opens the store and makes sure every collection database exists.
func connectCouch(ctx context.Context, url, prefix string) (*kivik.Client, error) {
	client, err := kivik.New("couch", url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to CouchDB: %w", err)
	}

	if err := repository.EnsureDatabases(ctx, client, prefix); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}
