package bootstrap

import (
	"context"
	"log"

	"fitocharity-chatbot-be/internal/config"
	"fitocharity-chatbot-be/internal/controller"
	"fitocharity-chatbot-be/internal/handler"
	"fitocharity-chatbot-be/internal/pkg/logger"
	"fitocharity-chatbot-be/internal/repository/implementation"
	"fitocharity-chatbot-be/internal/repository/memory"
	"fitocharity-chatbot-be/internal/service"
	"fitocharity-chatbot-be/internal/websocket"
	"fitocharity-chatbot-be/pkg/gemini"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AdminController   controller.IAdminController
	ChatbotController controller.IChatbotController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	ProgressHandler *handler.ProgressHandler
	WebSocketHub    *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// Redis is optional; without it progress fanout stays single-instance
	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb = redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v. Progress fanout is local only", err)
			rdb = nil
		}
	}

	// WebSocket Hub
	wsHub := websocket.NewHub(rdb, sysLogger)
	go wsHub.Run()

	// 3. Repositories
	settingRepo := implementation.NewSettingRepository(db)
	sessionRepo := memory.NewSessionRepository()
	questionRepo := memory.NewQuestionRepository()

	// 4. Services
	clientFactory := func(apiKey string) *gemini.Client {
		return gemini.NewClient(apiKey)
	}

	credentialService := service.NewCredentialService(settingRepo, cfg.Keys.GoogleGemini, clientFactory, sysLogger)
	registryService := service.NewKnowledgeRegistryService(settingRepo, cfg.Knowledge.StoreName, sysLogger)
	gatewayService := service.NewGatewayService(
		credentialService,
		registryService,
		clientFactory,
		sysLogger,
		cfg.Ingest.PollIntervalSeconds,
		cfg.Ingest.MaxPollAttempts,
	)

	publisherService := service.NewPublisherService(cfg.Knowledge.EventTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Knowledge.EventTopic,
		gatewayService,
		registryService,
		questionRepo,
	)

	adminService := service.NewAdminService(
		gatewayService,
		credentialService,
		registryService,
		publisherService,
		wsHub,
		sysLogger,
	)
	chatbotService := service.NewChatbotService(
		gatewayService,
		credentialService,
		registryService,
		sessionRepo,
		questionRepo,
		sysLogger,
	)

	// 5. Controllers
	return &Container{
		AdminController:   controller.NewAdminController(adminService),
		ChatbotController: controller.NewChatbotController(chatbotService),

		ConsumerService: consumerService,

		ProgressHandler: handler.NewProgressHandler(wsHub, sysLogger),
		WebSocketHub:    wsHub,
	}
}
