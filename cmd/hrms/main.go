// hrms is the terminal client for HRMS Lite: an employee directory, an
// employee creation form and a daily attendance board, backed by a hosted
// records store.
//
// The store is chosen by STORE_DRIVER (rest, mongo or memory). --demo runs
// against an in-memory store seeded with sample employees. When REDIS_ADDR
// is set, attendance marks take a cross-process lock; when DIAG_ADDR is set,
// a diagnostics server exposes health probes and Prometheus metrics.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/hrmslite/hrms/internal/core/ports"
	"github.com/hrmslite/hrms/internal/infrastructure/config"
	"github.com/hrmslite/hrms/internal/infrastructure/db/memory"
	mongodb "github.com/hrmslite/hrms/internal/infrastructure/db/mongo"
	redisdb "github.com/hrmslite/hrms/internal/infrastructure/db/redis"
	apphttp "github.com/hrmslite/hrms/internal/infrastructure/http"
	"github.com/hrmslite/hrms/internal/infrastructure/http/handlers"
	"github.com/hrmslite/hrms/internal/infrastructure/metrics"
	"github.com/hrmslite/hrms/internal/infrastructure/rest"
	"github.com/hrmslite/hrms/internal/pkg/clock"
	"github.com/hrmslite/hrms/internal/ui"
	"github.com/hrmslite/hrms/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		logFile  string
		logLevel string
		demo     bool
	)
	flagSet := pflag.NewFlagSet("hrms", pflag.ContinueOnError)
	flagSet.StringVar(&logFile, "log-file", "", "append JSON logs to this file (default: discard)")
	flagSet.StringVar(&logLevel, "log-level", "", "override LOG_LEVEL (trace, debug, info, warn, error)")
	flagSet.BoolVar(&demo, "demo", false, "run against an in-memory store seeded with sample employees")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if args := flagSet.Args(); len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	lookuper := envconfig.OsLookuper()
	if demo {
		lookuper = envconfig.MultiLookuper(
			envconfig.MapLookuper(map[string]string{"STORE_DRIVER": config.DriverMemory}),
			envconfig.OsLookuper(),
		)
	}
	cfg, err := config.LoadWith(ctx, lookuper)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	logOut, err := logger.OpenFile(logFile)
	if err != nil {
		return err
	}
	defer logOut.Close()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Output: logOut,
		Fields: map[string]string{"env": cfg.Env, "driver": cfg.Store.Driver},
	})

	clk := clock.Real()
	store, err := openStore(ctx, cfg, clk, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(context.WithoutCancel(ctx)); err != nil {
			log.Warn().Err(err).Msg("store close failed")
		}
	}()
	if demo {
		if err := seedDemo(ctx, store, clk); err != nil {
			return fmt.Errorf("seed demo data: %w", err)
		}
	}

	instrumented := metrics.InstrumentStore(store)
	checks := map[string]handlers.Pinger{"store": instrumented}

	var lock ports.MarkLock
	if cfg.LockEnabled() {
		client, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:    cfg.Redis.Addr,
			DB:      cfg.Redis.DB,
			Timeout: cfg.Redis.Timeout,
		})
		if err != nil {
			return fmt.Errorf("mark lock: %w", err)
		}
		defer client.Close()
		markLock, err := redisdb.NewMarkLock(client, cfg.Redis.LockTTL)
		if err != nil {
			return fmt.Errorf("mark lock: %w", err)
		}
		lock = metrics.InstrumentMarkLock(markLock)
		checks["mark_lock"] = markLock
	}

	diagCtx, stopDiag := context.WithCancel(ctx)
	defer stopDiag()
	var diag errgroup.Group
	if cfg.DiagAddr != "" {
		ln, err := apphttp.Listen(cfg.DiagAddr)
		if err != nil {
			return err
		}
		router := apphttp.NewRouter(apphttp.RouterConfig{Checks: checks, Log: log})
		diag.Go(func() error {
			return apphttp.Serve(diagCtx, router, ln, log)
		})
	}

	sender := &ui.ProgramSender{}
	model := ui.NewModel(ui.Deps{
		Context:  ctx,
		Store:    instrumented,
		Lock:     lock,
		Clock:    clk,
		Location: loc,
		Log:      log,
		Sender:   sender,
	})
	program := tea.NewProgram(model, tea.WithAltScreen())
	sender.SetProgram(program)

	log.Info().Str("timezone", loc.String()).Bool("mark_lock", lock != nil).Msg("hrms started")
	_, runErr := program.Run()

	stopDiag()
	if err := diag.Wait(); err != nil {
		log.Error().Err(err).Msg("diagnostics server failed")
		if runErr == nil {
			runErr = err
		}
	}
	return runErr
}

func openStore(ctx context.Context, cfg *config.Config, clk clock.Clock, log zerolog.Logger) (ports.Store, error) {
	switch cfg.Store.Driver {
	case config.DriverMemory:
		return memory.New(clk), nil

	case config.DriverMongo:
		_, db, err := mongodb.Connect(ctx, mongodb.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			Timeout:  cfg.Store.Timeout,
		})
		if err != nil {
			return nil, err
		}
		store := mongodb.NewStore(db, clk)
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = store.Close(ctx)
			return nil, err
		}
		return store, nil

	default:
		info, err := rest.InspectAnonKey(cfg.Store.AnonKey)
		if err != nil {
			log.Warn().Err(err).Msg("anon key is not a JWT; sending it as is")
		}
		for _, w := range info.Warnings(clk.Now()) {
			log.Warn().Str("role", info.Role).Str("issuer", info.Issuer).Msg(w)
		}
		return rest.New(rest.Config{
			BaseURL:     cfg.Store.URL,
			AnonKey:     cfg.Store.AnonKey,
			RecordsPath: cfg.Store.RecordsPath,
			Timeout:     cfg.Store.Timeout,
		}, log)
	}
}
