package main

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"github.com/trezcool/goose"
	"github.com/spf13/cobra"

	"github.com/trezcool/masomo-portal/core"
	"github.com/trezcool/masomo-portal/storage/database"
)

var (
	gooseRunFunc = goose.RunFS // mockable

	errNoDatabase = errors.New("no database configured")
)

func (cli *commandLine) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate COMMAND [ARGS...]",
		Short: "Run goose migrations against the configured database",
		Long: `Run goose migrations against the configured database.

Commands:
  up                   Migrate the DB to the most recent version available
  up-by-one            Migrate the DB up by 1
  up-to VERSION        Migrate the DB to a specific VERSION
  down                 Roll back the version by 1
  down-to VERSION      Roll back to a specific VERSION
  redo                 Re-run the latest migration
  reset                Roll back all migrations
  status               Dump the migration status for the current DB
  version              Print the current version of the database`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.migrate(args[0], args[1:])
		},
	}
}

func (cli *commandLine) migrate(command string, args []string) error {
	conf, err := cli.loadConfig()
	if err != nil {
		return errors.Wrap(err, "loading config")
	}
	if conf.Database.InMemory() {
		return errNoDatabase
	}
	if err = database.PrepareMigrations(conf.Database.Engine); err != nil {
		return err
	}

	db, err := cli.openDB(conf)
	if err != nil {
		return errors.Wrap(err, "opening database")
	}
	defer func() { _ = db.Close() }()

	return gooseRunFunc(command, db, database.MigrationsFS, database.MigrationsDir, args...)
}

func openDB(conf *core.Config) (*sql.DB, error) {
	db, err := database.Open(context.Background(), conf)
	if err != nil {
		return nil, err
	}
	return db.DB, nil
}
