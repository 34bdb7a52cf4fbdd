package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ariefcatur/go-store-management.git/internal/config"
	"github.com/ariefcatur/go-store-management.git/internal/httpx"
	kafkax "github.com/ariefcatur/go-store-management.git/internal/kafka"
	"github.com/ariefcatur/go-store-management.git/internal/postgres"
	"github.com/ariefcatur/go-store-management.git/internal/redisx"
	"github.com/ariefcatur/go-store-management.git/internal/store"
)

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producer
	prod := kafkax.NewProducer(cfg.KafkaBrokers, 1024)
	prod.Start(ctx)

	// Repos + services
	products := &store.ProductRepo{DB: db}
	orders := &store.OrderRepo{DB: db}
	lines := &store.LineRepo{DB: db}

	lc := store.NewLifecycle(orders, prod, logger, cfg.SweepInterval)
	lc.Service = cfg.ServiceName
	lc.Start(ctx) // sweep PLACED -> COMPLETED tiap interval

	svc := store.NewService(products, orders, lines, lc, prod, logger, cfg.ServiceName)
	psvc := &store.ProductService{Products: products, Logger: logger}

	// HTTP
	router := httpx.NewRouter()
	(&httpx.OrdersHandler{Service: svc, Redis: rdb}).Register(router)
	(&httpx.ProductsHandler{Service: psvc}).Register(router)
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		logger.Info("HTTP listening", zap.String("addr", cfg.HTTPAddr),
			zap.Duration("sweepInterval", cfg.SweepInterval))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prod.Close()      // tutup inbox -> flush & close writer
	cancel()          // stop sweep & producer loop
	prod.WaitClosed() // drain
}
