package main

import (
	"context"
	"log"

	"fitocharity-chatbot-be/internal/bootstrap"
	"fitocharity-chatbot-be/internal/config"
	"fitocharity-chatbot-be/internal/model"
	"fitocharity-chatbot-be/internal/server"
	"fitocharity-chatbot-be/internal/tracer"
	"fitocharity-chatbot-be/pkg/database"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Settings Database
	gormDB, err := database.NewGormDB(cfg.Database.Path)
	if err != nil {
		log.Panicf("Unable to open settings DB: %v", err)
	}
	if err := gormDB.AutoMigrate(&model.AppSetting{}); err != nil {
		log.Panicf("Unable to migrate settings DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Start Background Services
	go func() {
		log.Println("Background: Starting Consumer Service...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
