package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/axis-pay/ledger-service/src/internal/adapter/http/controller"
	"github.com/axis-pay/ledger-service/src/internal/adapter/http/middleware"
	"github.com/axis-pay/ledger-service/src/internal/adapter/http/router"
	"github.com/axis-pay/ledger-service/src/internal/adapter/repository/postgres"
	"github.com/axis-pay/ledger-service/src/internal/config"
	"github.com/axis-pay/ledger-service/src/internal/usecase/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := postgres.RunMigrations(startupCtx, cfg.DatabaseDSN, cfg.MigrationsDir); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	db, err := postgres.Open(startupCtx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	ledgerStore := postgres.NewLedgerStore(db)
	userRepo := postgres.NewUserRepository(db)

	tokenService := services.NewTokenService(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	userService := services.NewUserService(userRepo, tokenService)
	accountService := services.NewAccountService(ledgerStore, userRepo)

	mux := router.New(
		controller.NewAccountController(accountService),
		controller.NewAuthController(userService),
		middleware.BearerAuth(tokenService),
	)

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("server shutdown: %v", err)
		}
	}()

	log.Printf("account ledger service listening on %s", cfg.ListenAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("serve: %v", err)
	}
}
