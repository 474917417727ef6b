package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/falck5561-ux/miss-donitas-order-engine/internal/config"
	"github.com/falck5561-ux/miss-donitas-order-engine/internal/db"
	"github.com/falck5561-ux/miss-donitas-order-engine/internal/events"
	"github.com/falck5561-ux/miss-donitas-order-engine/internal/gateway/catalog"
	"github.com/falck5561-ux/miss-donitas-order-engine/internal/gateway/payment"
	"github.com/falck5561-ux/miss-donitas-order-engine/internal/gateway/shipping"
	"github.com/falck5561-ux/miss-donitas-order-engine/internal/httpserver"
	orderrepo "github.com/falck5561-ux/miss-donitas-order-engine/internal/repository/order"
	ordersvc "github.com/falck5561-ux/miss-donitas-order-engine/internal/service/order"
	"github.com/falck5561-ux/miss-donitas-order-engine/internal/service/pricing"
	"github.com/falck5561-ux/miss-donitas-order-engine/internal/service/reward"
	"github.com/falck5561-ux/miss-donitas-order-engine/internal/session"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	var publisher ordersvc.Publisher
	if cfg.AMQPURL != "" {
		pub, err := events.NewPublisher(cfg.AMQPURL, cfg.AMQPQueue, cfg.AMQPPoolSize)
		if err != nil {
			logger.Fatalf("connect to broker: %v", err)
		}
		defer pub.Close()
		publisher = pub
	} else {
		logger.Printf("AMQP_URL not set, fulfillment events disabled")
	}

	orderRepo := orderrepo.NewPostgres(dbpool)
	orderService := ordersvc.New(orderRepo, publisher, logger)

	catalogClient := catalog.NewClient(cfg.CatalogURL)
	shippingClient := shipping.NewClient(cfg.ShippingURL)
	paymentClient := payment.NewClient(cfg.PaymentURL)

	engine := pricing.NewEngine(cfg.FreeShippingThreshold)
	policy := reward.NewPolicy(cfg.RewardKeywords)
	sessions := session.NewStore(engine, policy, shippingClient, paymentClient, orderService, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		Sessions: sessions,
		Catalog:  catalogClient,
		Orders:   orderRepo,
	}, cfg.AllowedOrigins)
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
