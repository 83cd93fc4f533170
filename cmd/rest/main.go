package main

import (
	"context"
	"log"

	"hr-assistant-be/internal/bootstrap"
	"hr-assistant-be/internal/config"
	"hr-assistant-be/internal/server"
	"hr-assistant-be/internal/tracer"
	"hr-assistant-be/pkg/database"

	"gorm.io/gorm"
)

func main() {
	// 0. Initialize Tracer
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database (only needed for the pgvector index backend)
	var gormDB *gorm.DB
	if cfg.Index.Backend == "pgvector" {
		var err error
		gormDB, err = database.NewGormDBFromDSN(cfg.Database.Connection)
		if err != nil {
			log.Panicf("Unable to connect to GORM DB: %v", err)
		}
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Build the retrieval index before serving traffic
	if res, err := container.AssistantService.RefreshIndex(context.Background()); err != nil {
		log.Printf("[WARN] Initial index build failed, policy answers degraded: %v", err)
	} else {
		log.Printf("[INFO] Retrieval index ready (%d chunks)", res.Chunks)
	}

	// 5. Start Background Services
	go func() {
		log.Println("Background: Starting Consumer Service...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()

	// 6. Initialize Server
	srv := server.New(cfg, container)

	// 7. Run Server
	log.Fatal(srv.Run())
}
