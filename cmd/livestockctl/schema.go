package main

import (
	"context"
	"log"
	"time"

	"github.com/spf13/cobra"

	"livestock/internal/app"
	"livestock/internal/config"
	"livestock/internal/docstore"
	"livestock/internal/docstore/dynamo"
	"livestock/internal/docstore/postgres"
)

func newCreateTablesCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "create-tables",
		Short: "Create the DynamoDB tables and secondary indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			client, err := app.NewDynamoDBClient(ctx, cfg.DynamoDB)
			if err != nil {
				return err
			}

			return dynamo.CreateTables(ctx, client, cfg.DynamoDB.TablePrefix, docstore.Collections, dynamo.DefaultIndexes)
		},
	}
}

func newMigrateCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the PostgreSQL documents table and indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			db, err := app.NewDatabase(ctx, cfg.Database, nil)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := postgres.EnsureSchema(ctx, db); err != nil {
				return err
			}

			log.Println("Schema is up to date")
			return nil
		},
	}
}
