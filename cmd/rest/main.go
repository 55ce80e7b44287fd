package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"sales-assist-bff/internal/bootstrap"
	"sales-assist-bff/internal/config"
	"sales-assist-bff/internal/server"
	"sales-assist-bff/internal/tracer"
	"sales-assist-bff/pkg/database"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Tracer
	shutdownTracer := tracer.InitTracer(cfg.Infra.OtelEnabled)
	defer shutdownTracer(context.Background())

	// 3. Initialize Database (only the postgres history backend needs it)
	var gormDB *gorm.DB
	if cfg.History.Backend == "postgres" && cfg.Infra.DatabaseURL != "" {
		db, err := database.NewGormDBFromDSN(cfg.Infra.DatabaseURL)
		if err != nil {
			log.Panicf("Unable to connect to GORM DB: %v", err)
		}
		if err := database.Migrate(db); err != nil {
			log.Panicf("Unable to migrate database: %v", err)
		}
		gormDB = db
	}

	// 4. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)
	defer container.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, container)

	// 5. Start Background Services and Server
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		container.WebSocketHub.Run(gctx)
		return nil
	})

	g.Go(func() error {
		log.Println("Background: Starting Consumer Service...")
		return container.ConsumerService.Consume(gctx)
	})

	g.Go(func() error {
		return srv.Run()
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Println("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
