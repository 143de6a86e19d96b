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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/parisxmas/OxiDB/OxiPortal/internal/config"
	"github.com/parisxmas/OxiDB/OxiPortal/internal/handler"
	"github.com/parisxmas/OxiDB/OxiPortal/internal/metrics"
	"github.com/parisxmas/OxiDB/OxiPortal/internal/repository"
	"github.com/parisxmas/OxiDB/OxiPortal/internal/router"
	"github.com/parisxmas/OxiDB/OxiPortal/internal/service"
)

const shutdownTimeout = 10 * time.Second

var errSimulatedRejection = errors.New("simulated rejection")

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, logger)
		},
	}
}

// portal holds everything serve wires together.
type portal struct {
	forms   *repository.FormRepo
	chats   *repository.ChatRepo
	handler http.Handler
}

func newPortal(cfg config.Config, log *zap.Logger) *portal {
	var (
		rec      metrics.Recorder = metrics.Nop{}
		metricsH http.Handler
	)
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		rec = metrics.NewPrometheusRecorder(reg)
		metricsH = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}

	var backend service.SubmissionBackend = service.SimulatedBackend{}
	if cfg.Form.SimulateFailure {
		backend = service.SimulatedBackend{Fail: &service.SubmissionError{Kind: service.ErrRejected, Err: errSimulatedRejection}}
	}
	formCfg := cfg.FormSession()
	chatCfg := cfg.ChatSession()
	opts := []service.Option{service.WithLogger(log), service.WithMetrics(rec)}

	forms := repository.NewFormRepo(cfg.Sessions.TTL, log)
	chats := repository.NewChatRepo(cfg.Sessions.TTL, log)
	tokens := handler.Tokens{Secret: cfg.Auth.JWTSecret, TTL: cfg.Auth.TokenTTL}

	h := router.New(log, cfg.Auth.JWTSecret,
		handler.NewCatalogHandler(),
		handler.NewFormHandler(forms, func() *service.FormSession {
			return service.NewFormSession(backend, formCfg, opts...)
		}, tokens, log),
		handler.NewChatHandler(chats, func() *service.ChatSession {
			return service.NewChatSession(service.EchoResponder{}, chatCfg, opts...)
		}, tokens, log),
		metricsH,
	)
	return &portal{forms: forms, chats: chats, handler: h}
}

// Close ends every live session.
func (p *portal) Close() {
	p.forms.Close()
	p.chats.Close()
}

func serve(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	p := newPortal(cfg, log)
	defer p.Close()
	if cfg.Sessions.TTL > 0 {
		p.forms.StartReaper(cfg.Sessions.ReapInterval)
		p.chats.StartReaper(cfg.Sessions.ReapInterval)
	}

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           p.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("OxiPortal server starting", zap.String("addr", cfg.HTTP.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
