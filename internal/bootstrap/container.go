package bootstrap

import (
	"context"
	"log"
	"time"

	"hr-assistant-be/internal/config"
	"hr-assistant-be/internal/controller"
	"hr-assistant-be/internal/pkg/logger"
	memoryRepo "hr-assistant-be/internal/repository/memory"
	redisRepo "hr-assistant-be/internal/repository/redis"
	"hr-assistant-be/internal/service"
	"hr-assistant-be/pkg/embedding"
	"hr-assistant-be/pkg/hr"
	"hr-assistant-be/pkg/indexer"
	"hr-assistant-be/pkg/llm/factory"
	pkgNats "hr-assistant-be/pkg/nats"
	"hr-assistant-be/pkg/rag/agent"
	"hr-assistant-be/pkg/rag/executor"
	"hr-assistant-be/pkg/rag/intent"
	"hr-assistant-be/pkg/rag/router"
	"hr-assistant-be/pkg/rag/search"
	"hr-assistant-be/pkg/tools"
	"hr-assistant-be/pkg/vectorstore"
	memoryStore "hr-assistant-be/pkg/vectorstore/memory"
	pgvectorStore "hr-assistant-be/pkg/vectorstore/pgvector"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AssistantController controller.IAssistantController

	// Services (Exposed for main.go: startup index build, background consumer)
	AssistantService service.IAssistantService
	ConsumerService  service.IConsumerService
}

// NewContainer wires the whole dependency graph. db may be nil when the
// in-memory index backend is configured.
func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	stdLogger := log.Default()

	// Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// Embedding Provider
	var embeddingProvider embedding.Provider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewMistralProvider(cfg.Ai.MistralAPIKey)
		log.Printf("[INFO] Using Embedding Provider: MISTRAL")
	}

	// LLM Provider
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.MistralAPIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// Vector Store
	var vstore vectorstore.VectorStore
	if cfg.Index.Backend == "pgvector" && db != nil {
		pgStore, err := pgvectorStore.NewStorage(db)
		if err != nil {
			log.Fatalf("[FATAL] Failed to initialize pgvector store: %v", err)
		}
		vstore = pgStore
		log.Printf("[INFO] Using Vector Store: PGVECTOR")
	} else {
		vstore = memoryStore.NewStorage()
		log.Printf("[INFO] Using Vector Store: MEMORY")
	}

	// Retrieval Engine
	ix := indexer.NewIndexer(
		&indexer.DirLoader{Path: cfg.Index.DocsPath},
		embeddingProvider,
		vstore,
		cfg.Index.ChunkSize,
		cfg.Index.ChunkOverlap,
		stdLogger,
	)
	retriever := search.NewRetriever(embeddingProvider, vstore, stdLogger)

	// HR Tools
	hrClient := hr.NewClient(cfg.HR.BaseURL)
	registry := tools.NewRegistry(15*time.Second, 3, hr.IsTransient, stdLogger)
	hr.RegisterTools(registry, hrClient)

	// Conversation Engine
	classifier := intent.NewClassifier(llmProvider, stdLogger)
	policyAgent := agent.NewPolicyAgent(retriever, llmProvider, stdLogger)
	leaveAgent := agent.NewLeaveAgent(registry, llmProvider, stdLogger)
	payrollAgent := agent.NewPayrollAgent(registry, stdLogger)
	intentRouter := router.NewRouter(policyAgent, leaveAgent, payrollAgent)

	// Session Storage
	var sessionRepo executor.SessionRepository
	if cfg.Session.Backend == "redis" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		rdb := redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
		sessionRepo = redisRepo.NewSessionRepository(rdb)
		log.Printf("[INFO] Using Session Backend: REDIS")
	} else {
		sessionRepo = memoryRepo.NewSessionRepository()
		log.Printf("[INFO] Using Session Backend: MEMORY")
	}

	// NATS
	natsPub, err := pkgNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	publisherService := service.NewPublisherService(pubSub)
	consumerService := service.NewConsumerService(pubSub, natsPub)

	orchestrator := executor.NewOrchestrator(classifier, intentRouter, sessionRepo, publisherService, stdLogger)

	assistantService := service.NewAssistantService(orchestrator, ix, publisherService, sysLogger)

	return &Container{
		AssistantController: controller.NewAssistantController(assistantService),
		AssistantService:    assistantService,
		ConsumerService:     consumerService,
	}
}
