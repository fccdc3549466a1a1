package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"office_climate/internal/cli"
	"office_climate/internal/config"
	"office_climate/internal/logger"
	"office_climate/internal/repository"
	"office_climate/internal/repository/db"
	"office_climate/internal/service"
)

var CLI struct {
	Version kong.VersionFlag
	DB      string `name:"db" help:"SQLite database path." type:"path" default:"${db_path}"`

	Seed   cli.SeedCmd   `cmd:"" help:"Replace recent readings with random values."`
	Status cli.StatusCmd `cmd:"" help:"Show effective target, latest reading and socket recommendation."`
	Schema struct {
		List     cli.SchemaListCmd     `cmd:"" help:"List schemas."`
		Activate cli.SchemaActivateCmd `cmd:"" help:"Activate a schema, or deactivate all with --none."`
	} `cmd:"" help:"Manage weekly schedules."`
	Target struct {
		Set cli.TargetSetCmd `cmd:"" help:"Set the default target temperature."`
	} `cmd:"" help:"Manage the default target."`
}

func main() {
	dbPath := "data/climate.db"
	cfg, err := config.Load()
	if err == nil && cfg.DB.Path != "" {
		dbPath = cfg.DB.Path
	}

	kctx := kong.Parse(&CLI,
		kong.Name("climatectl"),
		kong.Description("Operator tool for the office climate controller database."),
		kong.UsageOnError(),
		kong.Vars{"version": "v1.0.0", "db_path": dbPath},
	)

	// CLI output is for humans; keep the service logger quiet unless it matters.
	log := logger.Setup(logger.Options{Level: "warn", Format: "console"})
	defer func() { _ = log.Sync() }()

	database, err := db.InitDB(CLI.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	repos := repository.NewRepository(database)
	appCtx := &cli.Context{
		Ctx:      ctx,
		Services: service.NewService(repos, service.Options{Log: log.Named("cli")}),
		Repos:    repos,
		Out:      os.Stdout,
		Now:      time.Now,
		Rand:     rand.Float64,
	}

	err = kctx.Run(appCtx)
	stop()
	_ = database.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
