package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/odyssey-erp/itstock/cmd/itstock/cli"
	"github.com/odyssey-erp/itstock/internal/app"
	"github.com/odyssey-erp/itstock/internal/platform/kv"
	"github.com/odyssey-erp/itstock/internal/storage"
)

const usage = `usage: itstock [command]

commands:
  serve                  run the HTTP API (default)
  export [-format text]  print the shopping list built from the stored state
  jobs trigger low-scan  enqueue a low-stock scan on the worker queue
  jobs stats             print default queue statistics`

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := app.NewLogger(cfg)

	args := os.Args[1:]
	command := "serve"
	if len(args) > 0 {
		command, args = args[0], args[1:]
	}

	switch command {
	case "serve":
		err = serve(ctx, cfg, logger)
	case "export":
		os.Exit(export(ctx, cfg, logger, args))
	case "jobs":
		err = runJobs(ctx, cfg, args)
	case "help", "-h", "--help":
		fmt.Println(usage)
		return
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		logger.Error(command, slog.Any("error", err))
		os.Exit(1)
	}
}

func serve(ctx context.Context, cfg *app.Config, logger *slog.Logger) error {
	container, err := app.OpenContainer(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := container.Close(); err != nil {
			logger.Warn("close container", slog.Any("error", err))
		}
	}()

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      container.Router(),
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr), slog.String("store", cfg.StoreDriver))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func export(ctx context.Context, cfg *app.Config, logger *slog.Logger, args []string) int {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	format := fs.String("format", string(cli.ExportFormatText), "output format: text or json")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	backend, err := kv.Open(ctx, cfg.KVConfig())
	if err != nil {
		logger.Error("open store", slog.Any("error", err))
		return 1
	}
	defer func() {
		if err := backend.Close(); err != nil {
			logger.Warn("close store", slog.Any("error", err))
		}
	}()
	store := storage.New(backend, storage.Options{Prefix: cfg.StoreKeyPrefix, Logger: logger})
	return cli.ExportCommand(ctx, cli.ExportOptions{Loader: store, Format: cli.ExportFormat(*format)})
}

func runJobs(ctx context.Context, cfg *app.Config, args []string) error {
	if len(args) == 0 {
		return errors.New("jobs: expected trigger or stats")
	}
	jobsCLI, err := cli.NewJobsCLI(cfg.RedisAddr)
	if err != nil {
		return err
	}
	defer func() { _ = jobsCLI.Close() }()

	switch args[0] {
	case "trigger":
		if len(args) < 2 {
			return errors.New("jobs trigger: job name is required")
		}
		info, err := jobsCLI.Trigger(ctx, args[1])
		if err != nil {
			return err
		}
		fmt.Printf("enqueued %s as %s on queue %s\n", info.Type, info.ID, info.Queue)
	case "stats":
		stats, err := jobsCLI.InspectQueue(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("queue=%s pending=%d active=%d scheduled=%d retry=%d\n",
			stats.Queue, stats.Pending, stats.Active, stats.Scheduled, stats.Retry)
	default:
		return fmt.Errorf("jobs: unknown subcommand %s", args[0])
	}
	return nil
}
