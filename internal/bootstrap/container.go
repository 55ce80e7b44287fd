package bootstrap

import (
	"context"
	"log"
	"os"
	"strings"

	"sales-assist-bff/internal/config"
	"sales-assist-bff/internal/controller"
	"sales-assist-bff/internal/handler"
	"sales-assist-bff/internal/pkg/logger"
	"sales-assist-bff/internal/repository/contract"
	"sales-assist-bff/internal/repository/implementation"
	"sales-assist-bff/internal/repository/memory"
	"sales-assist-bff/internal/service"
	"sales-assist-bff/internal/session"
	"sales-assist-bff/internal/websocket"
	"sales-assist-bff/pkg/analysis"
	pktNats "sales-assist-bff/pkg/nats"
	"sales-assist-bff/pkg/pushchannel"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	DeskController  controller.IDeskController
	AdminController controller.IAdminController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	DeskService     service.IDeskService

	// WebSockets
	DeskViewHandler *handler.DeskViewHandler
	WebSocketHub    *websocket.Hub

	Logger logger.ILogger

	closers []func()
}

// NewContainer wires the application. db is only used by the postgres history backend and may be nil.
func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	c := &Container{}

	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	c.Logger = sysLogger
	c.closers = append(c.closers, func() { _ = sysLogger.Sync() })

	analysisClient := analysis.NewClient(cfg.Analysis.BaseURL, cfg.Analysis.AdminKey, cfg.Analysis.Timeout)

	// 2. Desk event bus. Publishing blocks until the consumer acks so views see
	// events in the order the controller emitted them.
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{BlockPublishUntilSubscriberAck: true},
		watermillLogger,
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 3. Infrastructure
	// NATS
	var bus service.EventPublisher
	var subscriber service.EventSubscriber
	if cfg.Infra.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.Infra.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			bus = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}
		natsSub, err := pktNats.NewSubscriber(cfg.Infra.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
		} else {
			subscriber = natsSub
			c.closers = append(c.closers, natsSub.Close)
		}
	}

	// Redis
	rdb := newRedisClient(cfg.Infra.RedisURL)
	if rdb != nil {
		c.closers = append(c.closers, func() { _ = rdb.Close() })
	}

	// WebSocket Hub
	viewLogger := logger.NewIsolatedLogger(cfg.App.ViewLogFilePath)
	wsHub := websocket.NewHub(rdb, cfg.Session.DeskIdleTimeout, viewLogger)

	// 4. Services
	history := newHistoryRepository(cfg.History.Backend, db, rdb)

	opener := &session.PushOpener{
		Config: pushchannel.Config{
			BaseURL:              cfg.Analysis.WsURL,
			ReconnectBaseDelay:   cfg.Session.ReconnectBaseDelay,
			MaxReconnectAttempts: cfg.Session.MaxReconnectAttempts,
		},
		Logger: viewLogger,
	}

	publisherService := service.NewPublisherService(cfg.Session.DeskEventsTopic, pubSub)
	deskService := service.NewDeskService(
		service.DeskConfig{
			Session: session.Config{
				Poll: session.PollConfig{
					IdleThreshold: cfg.Session.PollIdleThreshold,
					Interval:      cfg.Session.PollInterval,
					MaxDuration:   cfg.Session.PollMaxDuration,
				},
			},
			IdleTimeout: cfg.Session.DeskIdleTimeout,
		},
		analysisClient,
		opener,
		history,
		publisherService,
		sysLogger,
	)
	c.closers = append(c.closers, deskService.Shutdown)

	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Session.DeskEventsTopic,
		wsHub, // Hub implements DeskDelivery
		bus,
		sysLogger,
	)

	adminService := service.NewAdminService(
		service.AdminConfig{
			Username:     cfg.Admin.Username,
			PasswordHash: cfg.Admin.PasswordHash,
			JwtSecret:    cfg.Admin.JwtSecret,
			TokenTTL:     cfg.Admin.TokenTTL,
			CacheTTL:     cfg.Admin.CacheTTL,
		},
		analysisClient,
		bus,
		sysLogger,
		sysLogger,
	)
	if subscriber != nil {
		if err := adminService.ListenForChanges(subscriber, instanceDurable("admin-kb")); err != nil {
			log.Printf("[WARN] Failed to subscribe to knowledge base changes: %v", err)
		}
	}
	if cfg.Admin.PasswordHash == "" || cfg.Admin.JwtSecret == "" {
		log.Printf("[WARN] ADMIN_PASSWORD_HASH or JWT_SECRET is empty; admin login is disabled")
	}

	// 5. Controllers
	c.DeskController = controller.NewDeskController(deskService)
	c.AdminController = controller.NewAdminController(adminService, cfg.Admin.JwtSecret)
	c.DeskViewHandler = handler.NewDeskViewHandler(deskService, wsHub, viewLogger)
	c.WebSocketHub = wsHub
	c.ConsumerService = consumerService
	c.DeskService = deskService

	return c
}

// Close releases desks and infrastructure connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

// newRedisClient returns nil when url is empty or the server does not answer.
func newRedisClient(url string) *redis.Client {
	if url == "" {
		return nil
	}

	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: url,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
		_ = rdb.Close()
		return nil
	}
	return rdb
}

func newHistoryRepository(backend string, db *gorm.DB, rdb *redis.Client) contract.RecentSessionRepository {
	switch backend {
	case "postgres":
		if db != nil {
			log.Printf("[INFO] Recent sessions stored in Postgres")
			return implementation.NewRecentSessionRepository(db)
		}
		log.Printf("[WARN] HISTORY_BACKEND=postgres without a database; using memory")
	case "redis":
		if rdb != nil {
			log.Printf("[INFO] Recent sessions stored in Redis")
			return implementation.NewRecentSessionRedisRepository(rdb)
		}
		log.Printf("[WARN] HISTORY_BACKEND=redis without a Redis connection; using memory")
	}
	return memory.NewRecentSessionRepository()
}

// instanceDurable names a consumer unique to this process so every instance sees every event.
func instanceDurable(prefix string) string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = uuid.NewString()[:8]
	}
	// Durable names may not contain dots.
	return prefix + "-" + strings.ReplaceAll(host, ".", "-")
}
