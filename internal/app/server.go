// internal/app/server.go
package app

import (
	"context"
	"fmt"
	"log"

	"leadflow-service/internal/config"
	"leadflow-service/internal/db"
	appointmentHandler "leadflow-service/internal/handlers/appointment"
	contactHandler "leadflow-service/internal/handlers/contact"
	conversationHandler "leadflow-service/internal/handlers/conversation"
	metricsHandler "leadflow-service/internal/handlers/metrics"
	realtimeHandler "leadflow-service/internal/handlers/realtime"
	tagHandler "leadflow-service/internal/handlers/tag"
	templateHandler "leadflow-service/internal/handlers/template"
	webhookHandler "leadflow-service/internal/handlers/webhook"
	"leadflow-service/internal/middleware"
	"leadflow-service/internal/pkg/lock"
	"leadflow-service/internal/realtime"
	"leadflow-service/internal/repository/postgres"
	appointmentUsecase "leadflow-service/internal/service/appointment"
	contactUsecase "leadflow-service/internal/service/contact"
	conversationUsecase "leadflow-service/internal/service/conversation"
	"leadflow-service/internal/service/ingest"
	metricsUsecase "leadflow-service/internal/service/metrics"
	tagUsecase "leadflow-service/internal/service/tag"
	templateUsecase "leadflow-service/internal/service/template"
	webhookUsecase "leadflow-service/internal/service/webhook"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
}

func NewServer() *Server {
	cfg := config.Load()
	engine := gin.New()
	return &Server{cfg: cfg, engine: engine}
}

func (s *Server) Start() error {
	ctx := context.Background()

	// ----- Logger -----
	logger, _ := zap.NewProduction()
	defer logger.Sync()
	s.logger = logger

	// ----- PostgreSQL -----
	pool, err := db.ConnectDB(s.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	// ----- Redis -----
	// Redis only guards the per-phone ingestion lock. A dead Redis degrades
	// the resolver to the unguarded path instead of blocking startup.
	redisClient, err := db.NewRedisClient(db.RedisConfig{
		Addr:     s.cfg.RedisAddr,
		Password: s.cfg.RedisPass,
		DB:       s.cfg.RedisDB,
		PoolSize: 10,
	})
	if err != nil {
		logger.Warn("redis unavailable, ingestion runs without phone locks", zap.Error(err))
		redisClient = redis.NewClient(&redis.Options{
			Addr:     s.cfg.RedisAddr,
			Password: s.cfg.RedisPass,
			DB:       s.cfg.RedisDB,
		})
	}

	phoneLock := lock.NewRedisLock(redisClient, s.cfg.LockTTL, s.cfg.LockMaxWait)

	// ----- Repositories -----
	contactRepo := postgres.NewContactRepository(pool)
	conversationRepo := postgres.NewConversationRepository(pool)
	messageRepo := postgres.NewMessageRepository(pool)
	webhookConfigRepo := postgres.NewWebhookConfigRepository(pool)
	webhookLogRepo := postgres.NewWebhookLogRepository(pool)
	tagRepo := postgres.NewTagRepository(pool)
	appointmentRepo := postgres.NewAppointmentRepository(pool)
	templateRepo := postgres.NewTemplateRepository(pool)

	// ----- Realtime Hub -----
	hub := realtime.NewHub(logger)
	go hub.Run(context.Background())

	// ----- Services (Usecases) -----
	resolver := ingest.NewResolver(contactRepo, conversationRepo, phoneLock, logger)
	appender := ingest.NewAppender(messageRepo, conversationRepo, contactRepo, logger)
	auditor := ingest.NewAuditor(webhookConfigRepo, webhookLogRepo, s.cfg.Provider, logger)
	ingestService := ingest.NewService(resolver, appender, hub, logger)

	webhookConfigService := webhookUsecase.NewConfigService(webhookConfigRepo, webhookLogRepo, s.cfg.Provider, logger)
	webhookTester := webhookUsecase.NewTester(s.cfg.ProbeTimeout, logger)

	contactService := contactUsecase.NewContactService(
		contactRepo,
		conversationRepo,
		messageRepo,
		tagRepo,
		appointmentRepo,
		hub,
		logger,
	)
	conversationService := conversationUsecase.NewConversationService(
		conversationRepo,
		messageRepo,
		templateRepo,
		appender,
		hub,
		logger,
	)
	tagService := tagUsecase.NewTagService(tagRepo, logger)
	appointmentService := appointmentUsecase.NewAppointmentService(appointmentRepo, logger)
	templateService := templateUsecase.NewTemplateService(templateRepo, logger)
	metricsService := metricsUsecase.NewMetricsService(
		contactRepo,
		conversationRepo,
		messageRepo,
		appointmentRepo,
		logger,
	)

	// ----- Handlers -----
	webhookHandlerInst := webhookHandler.NewWebhookHandler(ingestService, auditor, webhookConfigService, webhookTester, logger)
	contactHandlerInst := contactHandler.NewContactHandler(contactService)
	conversationHandlerInst := conversationHandler.NewConversationHandler(conversationService)
	tagHandlerInst := tagHandler.NewTagHandler(tagService)
	appointmentHandlerInst := appointmentHandler.NewAppointmentHandler(appointmentService)
	templateHandlerInst := templateHandler.NewTemplateHandler(templateService)
	metricsHandlerInst := metricsHandler.NewMetricsHandler(metricsService)
	realtimeHandlerInst := realtimeHandler.NewRealtimeHandler(hub, logger)

	// ----- Middlewares -----
	s.engine.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(),
	)

	// ----- Router -----
	handlers := &Handlers{
		WebhookHandler:      webhookHandlerInst,
		ContactHandler:      contactHandlerInst,
		ConversationHandler: conversationHandlerInst,
		TagHandler:          tagHandlerInst,
		AppointmentHandler:  appointmentHandlerInst,
		TemplateHandler:     templateHandlerInst,
		MetricsHandler:      metricsHandlerInst,
		RealtimeHandler:     realtimeHandlerInst,
	}
	SetupRouter(s.engine, logger, handlers)

	// ----- Start HTTP -----
	log.Printf("server running on %s", s.cfg.HTTPAddr)
	return s.engine.Run(s.cfg.HTTPAddr)
}
