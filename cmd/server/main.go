package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/xtding233/gameplan-backend/internal/api"
	"github.com/xtding233/gameplan-backend/internal/config"
	"github.com/xtding233/gameplan-backend/internal/distribution"
	"github.com/xtding233/gameplan-backend/internal/mcptools"
	"github.com/xtding233/gameplan-backend/internal/rpc"
	"github.com/xtding233/gameplan-backend/internal/scheme"
	"github.com/xtding233/gameplan-backend/internal/session"
	"github.com/xtding233/gameplan-backend/internal/store"
	"github.com/xtding233/gameplan-backend/internal/validation"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := cfg.NewLogger(os.Stderr).WithField("version", version)

	loader := scheme.NewLoader(cfg.ConfigDir)
	schemes, err := scheme.NewRegistry(loader)
	if err != nil {
		return fmt.Errorf("load scheme catalog: %w", err)
	}
	log.WithFields(logrus.Fields{
		"offenses": len(schemes.Catalog().Offenses()),
		"defenses": len(schemes.Catalog().Defenses()),
	}).Info("scheme catalog loaded")

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	calc := distribution.NewCalculator(distribution.NewCache(cfg.CacheSize))
	validator := validation.New(schemes, calc)
	canModify := cfg.CanModify()

	mcpServer := mcptools.NewServer(mcptools.Deps{
		Catalogs:  schemes,
		Validator: validator,
		Calc:      calc,
		CanModify: canModify,
		Version:   version,
	})
	httpAPI := api.New(api.Options{
		Log:       log.WithField("component", "http"),
		Catalogs:  schemes,
		Validator: validator,
		Calc:      calc,
		Store:     st,
		Sessions:  session.NewRegistry(log.WithField("component", "session"), validator, st, canModify),
		CanModify: canModify,
		MCP:       mcptools.Handler(mcpServer),
	})
	grpcServer := rpc.NewServer(rpc.NewService(validator, calc, canModify), log.WithField("component", "grpc"))
	grpcServer.MarkServing()

	if cfg.ConfigDir != "" {
		wlog := log.WithField("component", "watcher")
		watcher := scheme.NewWatcher(loader.WatchPaths(), cfg.WatchInterval, func(paths []string) {
			if err := schemes.Reload(); err != nil {
				wlog.WithError(err).WithField("paths", paths).Error("catalog reload rejected, keeping previous catalog")
				return
			}
			wlog.WithField("paths", paths).Info("catalog reloaded")
		})
		watcher.Start()
		defer watcher.Stop()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.GRPCAddr, err)
	}
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpAPI.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return grpcServer.Serve(gctx, lis)
	})
	g.Go(func() error {
		log.WithField("addr", cfg.HTTPAddr).Info("http listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	log.Info("shut down")
	return err
}
