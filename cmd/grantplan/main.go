package main

import (
	"fmt"
	"os"

	"github.com/alexanderramin/grantplan/internal/cli"
	"github.com/alexanderramin/grantplan/internal/config"
	"github.com/alexanderramin/grantplan/internal/db"
	"github.com/alexanderramin/grantplan/internal/replication"
	"github.com/alexanderramin/grantplan/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := cfg.NewLogger(os.Stderr)

	// Open database
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	settings := service.Settings{
		CreateTimeout:    cfg.CreateTimeout,
		RestoreTimeout:   cfg.RestoreTimeout,
		MembershipPolicy: replication.MembershipLenient,
	}
	if cfg.StrictMembership {
		settings.MembershipPolicy = replication.MembershipStrict
	}

	interactive := func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	var hook service.CompletionHook = service.NoopCompletionHook{}
	if isatty.IsTerminal(os.Stderr.Fd()) {
		hook = cli.NewReadyHook(os.Stderr)
	}
	observer := service.NewSlogUseCaseObserver(logger)

	app := &cli.App{
		Planning:      service.NewPlanningService(database, uow, settings, hook, logger, observer),
		Snapshots:     service.NewSnapshotService(database, uow, settings, hook, logger, observer),
		Orgs:          service.NewOrganizationService(database),
		Principal:     service.StaticPrincipal(cfg.User),
		Prompter:      cli.NewHuhPrompter(),
		IsInteractive: interactive,
	}

	// Execute root command
	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
