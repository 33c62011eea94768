package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"barberbook/internal/events"
	healthhandler "barberbook/internal/health/handler"
	"barberbook/pkg/config"
	"barberbook/pkg/contracts"
	"barberbook/pkg/kv"
	"barberbook/pkg/middleware"

	"github.com/julienschmidt/httprouter"
)

type Application struct {
	cfg              *config.Config
	server           *http.Server
	idempotencyStore *middleware.InMemoryIdempotencyStore
	rateLimiter      *middleware.ClientRateLimiter
	publisher        events.Publisher
	healthHandler    http.Handler
	authHandler      http.Handler
	apiHandler       http.Handler
}

func NewApplication(cfg *config.Config) *Application {
	return &Application{cfg: cfg}
}

// SetApp mounts three handler trees: the health endpoints behind minimal
// middleware, the auth endpoints behind the full stack minus authentication,
// and everything else behind the full stack plus bearer authentication.
func (a *Application) SetApp(
	store kv.Store,
	verifier middleware.IdentityVerifier,
	publisher events.Publisher,
	authHandler contracts.Handler,
	apiHandlers ...contracts.Handler,
) {
	a.publisher = publisher
	a.setHealthHandler(store)
	a.setAuthHandler(authHandler)
	a.setAPIHandler(verifier, apiHandlers...)
	a.setAppServer()
}

func (a *Application) setHealthHandler(store kv.Store) {
	healthRouter := httprouter.New()
	healthHandler := healthhandler.NewHealthHandler(store, a.cfg.Log)
	healthHandler.RegisterRoutes(healthRouter)

	var handler http.Handler = healthRouter
	handler = middleware.RequestLogging(a.cfg.Log)(handler)
	handler = middleware.Recovery(a.cfg.Log)(handler)
	a.healthHandler = handler
	a.cfg.Log.Info("Health endpoints configured with minimal middleware (Recovery + Logging only)")
}

func (a *Application) setAuthHandler(authHandler contracts.Handler) {
	authRouter := httprouter.New()
	authHandler.RegisterRoutes(authRouter)

	a.authHandler = a.wrapCommon(authRouter)
	a.cfg.Log.Info("Auth endpoints configured without bearer authentication")
}

func (a *Application) setAPIHandler(verifier middleware.IdentityVerifier, apiHandlers ...contracts.Handler) {
	apiRouter := httprouter.New()
	for _, h := range apiHandlers {
		h.RegisterRoutes(apiRouter)
	}

	var handler http.Handler = apiRouter
	handler = middleware.Authenticate(verifier, a.cfg.Log)(handler)
	a.apiHandler = a.wrapCommon(handler)
	a.cfg.Log.Info("Application endpoints configured with full security middleware stack")
}

// wrapCommon applies the shared middleware stack. Order matters: Recovery is
// outermost so a panic in any later layer is still caught, and Idempotency
// sits innermost so only handler responses get cached.
func (a *Application) wrapCommon(handler http.Handler) http.Handler {
	if a.idempotencyStore == nil {
		a.idempotencyStore = middleware.NewInMemoryIdempotencyStore(a.cfg.IdempotencyTTL)
	}
	if a.rateLimiter == nil {
		a.rateLimiter = middleware.NewClientRateLimiter(
			a.cfg.RateLimitRequests,
			a.cfg.RateLimitWindow,
			middleware.DefaultClientExtractor,
			a.cfg.Log,
		)
	}

	handler = middleware.Idempotency(a.idempotencyStore, "Idempotency-Key")(handler)
	handler = middleware.RequestTimeout(a.cfg.RequestTimeout)(handler)
	handler = middleware.RateLimit(a.rateLimiter)(handler)
	handler = middleware.ContentTypeValidation(a.cfg.Log)(handler)
	handler = middleware.MaxRequestSize(int64(a.cfg.MaxRequestSize))(handler)
	handler = middleware.RequestLogging(a.cfg.Log)(handler)
	handler = middleware.Recovery(a.cfg.Log)(handler)
	return handler
}

func (a *Application) setAppServer() {
	mux := http.NewServeMux()
	mux.Handle("/health", a.healthHandler)
	mux.Handle("/ready", a.healthHandler)
	mux.Handle("/api/v1/auth/", a.authHandler)
	mux.Handle("/", a.apiHandler)

	a.server = &http.Server{
		Addr:         ":" + a.cfg.Port,
		Handler:      mux,
		ReadTimeout:  a.cfg.ReadTimeout,
		WriteTimeout: a.cfg.WriteTimeout,
		IdleTimeout:  a.cfg.IdleTimeout,
	}

	a.cfg.Log.Info("HTTP server configured", "port", a.cfg.Port)
}

func (a *Application) Run() {
	serverErrors := make(chan error, 1)

	go func() {
		a.cfg.Log.Info("Starting HTTP server", "address", a.server.Addr)
		serverErrors <- a.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		a.cfg.Log.Fatal("HTTP server failed", "error", err)

	case sig := <-shutdown:
		a.cfg.Log.Info("Shutdown signal received", "signal", sig)
		a.gracefulShutdown()
	}
}

func (a *Application) gracefulShutdown() {
	a.cfg.Log.Info("Starting graceful shutdown...")

	a.cfg.Log.Info("Stopping background workers...")
	a.idempotencyStore.Stop()
	a.rateLimiter.Stop()
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.cfg.Log.Error("Event publisher shutdown failed", "error", err)
		}
	}
	a.cfg.Log.Info("Background workers stopped")

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.cfg.Log.Error("Server shutdown failed", "error", err)
		if err := a.server.Close(); err != nil {
			a.cfg.Log.Fatal("Could not stop server gracefully", "error", err)
		}
	}

	a.cfg.Log.Info("Server stopped gracefully")
}
