// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"karwaan/internal/adapters/in/http/middleware"
	"karwaan/internal/infra/config"
	"karwaan/internal/platform/di"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	log.Printf("[boot] starting api port=%s project=%s", cfg.Port, cfg.FirestoreProjectID)

	infra, err := di.NewInfra(ctx, cfg)
	if err != nil {
		log.Fatalf("[boot] infra init FAILED: %v", err)
	}
	defer infra.Close()

	mux := http.NewServeMux()
	di.Register(ctx, mux, cfg, infra)

	handler := middleware.CORS(cfg.CORSAllowedOrigin)(middleware.Recover(mux))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("[boot] listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[boot] listen FAILED: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("[shutdown] signal received, draining")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[shutdown] server shutdown: %v", err)
	}
	log.Printf("[shutdown] done")
}
