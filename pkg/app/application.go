package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"dentalave/pkg/config"
	"dentalave/pkg/contracts"
	apperrors "dentalave/pkg/errors"
	apphttp "dentalave/pkg/http"
	"dentalave/pkg/logger"
	"dentalave/pkg/middleware"
)

// Closer releases a resource during shutdown.
type Closer func(ctx context.Context) error

// Application owns the router, the middleware chain, and the server
// lifecycle. Handlers register their own routes; shutdown drains in-flight
// requests before closing backends.
type Application struct {
	cfg     *config.Config
	log     *logger.Logger
	router  *httprouter.Router
	server  *http.Server
	limiter *middleware.IPRateLimiter
	closers []Closer
}

func New(cfg *config.Config, handlers []contracts.Handler, closers ...Closer) *Application {
	router := httprouter.New()
	router.HandleMethodNotAllowed = true
	router.MethodNotAllowed = http.HandlerFunc(methodNotAllowed)

	for _, h := range handlers {
		h.RegisterRoutes(router)
	}

	router.Handler(http.MethodGet, "/metrics", promhttp.Handler())

	limiter := middleware.NewIPRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow, cfg.Log)

	chain := middleware.Recovery(cfg.Log)(
		middleware.RequestLogging(cfg.Log)(
			middleware.Metrics(
				middleware.CORS(cfg.AllowedOrigins)(
					middleware.MaxRequestSize(int64(cfg.MaxRequestSize))(
						middleware.ContentTypeValidation(cfg.Log)(
							middleware.IPRateLimit(limiter)(
								middleware.RequestTimeout(cfg.RequestTimeout)(router),
							),
						),
					),
				),
			),
		),
	)

	return &Application{
		cfg:     cfg,
		log:     cfg.Log,
		router:  router,
		limiter: limiter,
		closers: closers,
		server: &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      chain,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
	}
}

// Run serves until SIGINT or SIGTERM, then shuts down gracefully.
func (a *Application) Run() error {
	errCh := make(chan error, 1)

	go func() {
		a.log.Info("Server starting", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		a.log.Info("Shutdown signal received", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.log.Error("Server shutdown failed", "error", err)
	}

	a.limiter.Stop()

	for _, closeFn := range a.closers {
		if err := closeFn(ctx); err != nil {
			a.log.Error("Resource cleanup failed", "error", err)
		}
	}

	a.log.Info("Server stopped")
	return nil
}

// methodNotAllowed relies on the router having set the Allow header before
// invoking this handler.
func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	allow := w.Header().Get("Allow")
	_ = apphttp.WriteError(w, apperrors.MethodNotAllowed(allow))
}
