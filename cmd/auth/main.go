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

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"simple-microservice/internal/config"
	"simple-microservice/internal/db"
	apihttp "simple-microservice/internal/http"
	"simple-microservice/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	store := db.NewHandle()
	supervisor := db.NewSupervisor(logger, store, func(ctx context.Context) (db.Backend, error) {
		return db.Open(ctx, cfg.StoreURL)
	}, cfg.ReconnectInterval)
	supervisor.Start(ctx)
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			logger.Warn("store close", zap.Error(err))
		}
	}()

	codec := service.NewTokenCodec(cfg.AccessTokenSecret, cfg.TokenTTL())
	authSvc := service.NewAuthService(logger, store.Users(), store.Tokens(), codec)
	authHandler := apihttp.NewAuthHandler(logger, authSvc)
	router := apihttp.NewAuthRouter(logger, authHandler, codec, store)

	server := &http.Server{
		Addr:              ":" + cfg.Port("3001"),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("server shutdown", zap.Error(err))
		}
	}()

	logger.Info("starting auth server", zap.String("addr", server.Addr))

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server error", zap.Error(err))
	}
}
