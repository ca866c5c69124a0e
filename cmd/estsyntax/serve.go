package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gonuts/commander"

	"github.com/dgallion1/estsyntax/internal/api"
	"github.com/dgallion1/estsyntax/internal/config"
	"github.com/dgallion1/estsyntax/internal/pipeline"
)

func serve(cmd *commander.Command, args []string) error {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if port := cmd.Flag.Lookup("port").Value.String(); port != "" {
		cfg.Port = port
	}
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		return err
	}
	defaults, err := config.LoadOptions(cfg.OptionsFile)
	if err != nil {
		log.Error("invalid options file", "path", cfg.OptionsFile, "error", err)
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	orch := pipeline.NewOrchestrator(cfg, log)
	orch.Start(ctx)

	srv := api.NewServer(orch, defaults, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting estsyntax", "port", cfg.Port, "workers", cfg.WorkerCount, "options", defaults.Key())
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		return err
	}
	return nil
}

func serveCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       serve,
		UsageLine: "serve [-port <port>]",
		Short:     "run the HTTP API",
		Long: `
run the HTTP API. Settings come from the environment (and a .env file):
PORT, ESTSYNTAX_API_KEY, WORKER_COUNT, MAX_QUEUE_SIZE, MAX_UPLOAD_BYTES,
JOB_TTL, RESULT_CACHE_SIZE, OPTIONS_FILE, CG3_LAYER, CONLL_LAYER.

	$ ./estsyntax serve -port 8090

`,
		Flag: *flag.NewFlagSet("serve", flag.ExitOnError),
	}
	cmd.Flag.String("port", "", "listen port, overrides PORT")
	return cmd
}
