package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/jesicacake/storefront-order-service/config"
	"github.com/jesicacake/storefront-order-service/internal/auth"
	"github.com/jesicacake/storefront-order-service/internal/cart"
	"github.com/jesicacake/storefront-order-service/internal/catalog"
	"github.com/jesicacake/storefront-order-service/internal/order"
	"github.com/jesicacake/storefront-order-service/internal/realtime"
	"github.com/jesicacake/storefront-order-service/pkg/blobstore"
	"github.com/jesicacake/storefront-order-service/pkg/httpserver"
	"github.com/jesicacake/storefront-order-service/pkg/logger"
	"github.com/jesicacake/storefront-order-service/pkg/postgres"
)

func main() {
	_ = godotenv.Load()

	log := logger.NewLogger("debug", &logger.MainLogHook{})

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configs: %v", err)
	}

	env, err := config.GetEnvironment()
	if err != nil {
		log.Fatalf(err.Error())
	}

	catalogLog := logger.NewLogger(env.LogLvl, &catalog.CatalogLogHook{})
	cartLog := logger.NewLogger(env.LogLvl, &cart.CartLogHook{})
	orderLog := logger.NewLogger(env.LogLvl, &order.OrderLogHook{})
	realtimeLog := logger.NewLogger(env.LogLvl, &realtime.RealtimeLogHook{})

	postgresConfig := postgres.Config{
		Host:     env.PgHost,
		Port:     env.PgPort,
		DBName:   env.PgDbName,
		SSLMode:  env.SSLMode,
		TimeZone: env.TimeZone,
		Roles: map[string]postgres.Credentials{
			postgres.AppRole:     {Username: env.PgAppUser, Password: env.PgAppPassword},
			postgres.ServiceRole: {Username: env.PgServiceUser, Password: env.PgServicePassword},
		},
	}

	rcp := postgres.NewRoleConnectionPool(postgresConfig, log)

	// Migrations run on the service connection, which owns the tables.
	db, err := rcp.GetConnectionPool(postgres.ServiceRole)
	if err != nil {
		log.Fatalf("failed connection to db: %v", err)
	}
	if err := catalog.RunMigration(db); err != nil {
		log.Fatalf("failed catalog migration: %v", err)
	}
	if err := cart.RunMigration(db); err != nil {
		log.Fatalf("failed cart migration: %v", err)
	}
	if err := order.RunMigration(db); err != nil {
		log.Fatalf("failed order migration: %v", err)
	}

	proofStore, err := blobstore.NewDiskStore(cfg.Upload.Dir, cfg.Upload.BaseURL)
	if err != nil {
		log.Fatalf("failed to init blob store: %v", err)
	}

	hub := realtime.NewHub(realtimeLog)

	catalogStorage := catalog.NewStorage(rcp)
	catalogService := catalog.NewService(catalogStorage, catalogLog)

	cartStorage := cart.NewStorage(rcp)
	cartService := cart.NewService(cartStorage, cartLog)

	orderStorage := order.NewStorage(rcp)
	orderService := order.NewService(orderStorage, hub, order.DeliveryWindow{
		MinDays: cfg.Delivery.MinDays,
		MaxDays: cfg.Delivery.MaxDays,
	}, orderLog)

	staleAfter := time.Duration(cfg.Maintenance.StalePendingHours) * time.Hour

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.Static(cfg.Upload.BaseURL, cfg.Upload.Dir)

	catalog.NewHandler(catalogService, catalogLog).Register(router)
	cart.NewHandler(cartService, cartLog).Register(router)
	order.NewHandler(orderService, cartService, proofStore, staleAfter, orderLog).Register(router)
	order.NewAdminGateway(orderService, orderLog).Register(router, auth.AdminOnly(env.JWTSecret))
	realtime.NewHandler(hub, realtimeLog).Register(router)

	// Daily sweep for stale pending orders, in addition to /api/cron.
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			cancelled, err := orderService.CancelStalePending(staleAfter)
			if err != nil {
				log.Errorf("stale order sweep failed: %v", err)
				continue
			}
			if cancelled > 0 {
				log.Infof("stale order sweep cancelled %d orders", cancelled)
			}
		}
	}()

	server := new(httpserver.Server)

	go func() {
		if err := server.Run(cfg.Server.Port, router); err != nil {
			log.Fatalf("Failed running server %v", err)
		}
	}()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	oscall := <-interrupt
	log.Infof("Shutdown server, %s", oscall)

	if err := server.Shutdown(context.Background()); err != nil {
		log.Errorf("Error occured on server shutting down: %v", err)
	}
}
