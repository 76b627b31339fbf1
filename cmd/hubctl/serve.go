package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-admin-hub/components/dashboard/gorouter"
	"github.com/goliatone/go-admin-hub/components/dashboard/httpapi"
	"github.com/goliatone/go-admin-hub/pkg/goadmin"
	"github.com/goliatone/go-admin-hub/pkg/telemetry"
)

type serveCmd struct {
	Addr      string `help:"Listen address (overrides HUB_ADDR)."`
	Transport string `enum:",chi,fiber" default:"" help:"HTTP stack: chi or fiber (overrides HUB_TRANSPORT)."`
}

func (cmd *serveCmd) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := openRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.close()

	addr := rt.cfg.Addr
	if cmd.Addr != "" {
		addr = cmd.Addr
	}
	transport := rt.cfg.Transport
	if cmd.Transport != "" {
		transport = cmd.Transport
	}

	admin, err := goadmin.New(goadmin.Config{EnableDashboard: true, Service: rt.hub.Service})
	if err != nil {
		return err
	}
	for _, item := range admin.MenuItems() {
		rt.logger.Debug().Str("route", item.Route).Str("url", item.URL).Msg("menu item")
	}

	exec := httpapi.NewCommandExecutor(rt.hub.Service, rt.hub.ChartCache, telemetry.NewRecorder(rt.logger))
	rt.logger.Info().
		Str("addr", addr).
		Str("transport", transport).
		Str("storage", rt.cfg.Storage).
		Str("preset", rt.hub.Presets.Get().String()).
		Msg("hub starting")

	if transport == "fiber" {
		return cmd.serveFiber(ctx, rt, exec, addr)
	}
	return cmd.serveChi(ctx, rt, exec, addr)
}

func (cmd *serveCmd) serveChi(ctx context.Context, rt *runtime, exec httpapi.Executor, addr string) error {
	handler := httpapi.NewRouter(&httpapi.Handlers{
		Exec:       exec,
		Controller: rt.hub.Controller,
		Broadcast:  rt.hub.Broadcast,
	}, httpapi.RouterOptions{
		BasePath:       rt.cfg.BasePath,
		MutationLimit:  rt.cfg.MutationLimit,
		MutationWindow: rt.cfg.MutationWindow,
		Development:    !rt.cfg.IsProduction(),
		Logger:         &rt.logger,
	})
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("hubctl: serve: %w", err)
	}
	return nil
}

func (cmd *serveCmd) serveFiber(ctx context.Context, rt *runtime, exec httpapi.Executor, addr string) error {
	server := router.NewFiberAdapter()
	err := gorouter.Register(gorouter.Config[*fiber.App]{
		Router:     server.Router(),
		Controller: rt.hub.Controller,
		API:        exec,
		Broadcast:  rt.hub.Broadcast,
		InstanceIDs: func() []string {
			widgets := rt.hub.Service.Widgets()
			ids := make([]string, len(widgets))
			for i, w := range widgets {
				ids[i] = w.ID
			}
			return ids
		},
		BasePath: rt.cfg.BasePath,
	})
	if err != nil {
		return err
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()
	if err := server.Serve(addr); err != nil && ctx.Err() == nil {
		return fmt.Errorf("hubctl: serve: %w", err)
	}
	return nil
}
