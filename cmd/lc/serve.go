package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/alfredjeanlab/leadcommander/internal/config"
	"github.com/alfredjeanlab/leadcommander/internal/events"
	"github.com/alfredjeanlab/leadcommander/internal/graph"
	"github.com/alfredjeanlab/leadcommander/internal/ingest"
	"github.com/alfredjeanlab/leadcommander/internal/server"
	"github.com/alfredjeanlab/leadcommander/internal/store"
	"github.com/alfredjeanlab/leadcommander/internal/store/memory"
	"github.com/alfredjeanlab/leadcommander/internal/store/postgres"
	"github.com/alfredjeanlab/leadcommander/internal/style"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:               "serve",
	Short:             "Start the lead server (HTTP, and gRPC when LEADS_GRPC_ADDR is set)",
	GroupID:           "system",
	PersistentPreRunE: noClient,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logger := cfg.NewLogger(os.Stderr)
		slog.SetDefault(logger)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg, logger)
	},
}

// openSource returns the lead source selected by cfg.Source.
func openSource(ctx context.Context, cfg *config.Config) (store.LeadSource, error) {
	switch cfg.Source {
	case config.SourcePostgres:
		c, err := postgres.New(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return c, nil
	case config.SourceS3:
		s, err := ingest.NewS3Source(ctx, cfg.S3Bucket, cfg.S3Key, cfg.S3Region, cfg.S3Endpoint)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.SourceFile:
		s, err := ingest.NewFileSource(cfg.File)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return memory.New(nil), nil
	}
}

func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	src, err := openSource(ctx, cfg)
	if err != nil {
		return fmt.Errorf("opening %s lead source: %w", cfg.Source, err)
	}
	defer func() {
		if err := src.Close(); err != nil {
			logger.Error("error closing lead source", "err", err)
		}
	}()
	logger.Info("lead source ready", "source", cfg.Source)

	publisher, err := events.Connect(cfg.NATSURL)
	if err != nil {
		return fmt.Errorf("connecting to NATS: %w", err)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error("error closing publisher", "err", err)
		}
	}()
	if cfg.NATSURL != "" {
		logger.Info("events enabled", "nats_url", cfg.NATSURL)
	} else {
		logger.Info("events disabled (LEADS_NATS_URL not set)")
	}

	leadServer := server.NewLeadServer(src, publisher)
	if cfg.PaletteFile != "" {
		p, err := style.LoadPalette(cfg.PaletteFile)
		if err != nil {
			return err
		}
		leadServer.Builder = graph.NewBuilder(p)
		logger.Info("palette loaded", "file", cfg.PaletteFile)
	}
	leadServer.Builder.Logger = logger
	leadServer.StartReaper(cfg.SessionIdle)
	defer leadServer.Close()

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           leadServer.NewHTTPHandler(cfg.AuthToken),
		ReadHeaderTimeout: 10 * time.Second,
	}

	var (
		grpcServer *grpc.Server
		grpcLis    net.Listener
	)
	if cfg.GRPCAddr != "" {
		grpcLis, err = net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			return fmt.Errorf("listening on %s: %w", cfg.GRPCAddr, err)
		}
		grpcServer = server.NewGRPCServer(leadServer, cfg.AuthToken)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server: %w", err)
		}
		return nil
	})
	if grpcServer != nil {
		g.Go(func() error {
			logger.Info("gRPC server listening", "addr", cfg.GRPCAddr)
			if err := grpcServer.Serve(grpcLis); err != nil {
				return fmt.Errorf("gRPC server: %w", err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		if grpcServer != nil {
			grpcServer.GracefulStop()
			logger.Info("gRPC server stopped")
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("HTTP shutdown: %w", err)
		}
		logger.Info("HTTP server stopped")
		return nil
	})

	logger.Info("lead server started", "http_addr", cfg.HTTPAddr, "grpc_addr", cfg.GRPCAddr)
	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("shutdown complete")
	return nil
}
