package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-kivik/kivik/v4"
)

// EnsureDatabases creates any missing collection databases and the Mango indexes the
// list queries rely on. It is safe to run repeatedly.
func EnsureDatabases(ctx context.Context, client *kivik.Client, prefix string) error {
	for _, collection := range Collections {
		name := DatabaseName(prefix, collection)

		exists, err := client.DBExists(ctx, name)
		if err != nil {
			return fmt.Errorf("failed to check database %s: %w", name, err)
		}

		if !exists {
			if err := client.CreateDB(ctx, name); err != nil {
				return fmt.Errorf("failed to create database %s: %w", name, err)
			}
			slog.Info("Created database", "name", name)
		}

		// users are addressed by key, never queried
		if collection == CollectionUsers {
			continue
		}

		field := "created_at"
		if collection == CollectionNotes {
			field = "user_id"
		}

		index := map[string]interface{}{"fields": []string{field}}
		if err := client.DB(name).CreateIndex(ctx, "", "by_"+field, index); err != nil {
			return fmt.Errorf("failed to create index on %s: %w", name, err)
		}
	}

	return nil
}
