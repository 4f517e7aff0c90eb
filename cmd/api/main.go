package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"workload/internal/config"
	"workload/internal/db"
	"workload/internal/handler"
	"workload/internal/httpserver"
	"workload/internal/mq"
	"workload/internal/redisclient"
	"workload/internal/repository"
	"workload/internal/service/auth"
	"workload/internal/service/task"
	"workload/internal/session"
)

func main() {
	// Load config
	cfg := config.Load()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Init DB
	dbConn, err := db.NewConnection(cfg.DB, logger)
	if err != nil {
		logger.Fatal("DB initialization failed", zap.Error(err))
	}
	defer dbConn.Close()

	if err := db.EnsureSchema(context.Background(), dbConn, logger); err != nil {
		logger.Fatal("Schema bootstrap failed", zap.Error(err))
	}

	// Init Redis (session markers)
	rdb := redisclient.New(cfg.Redis)
	defer rdb.Close()

	// Init event publisher; noop when no broker is configured
	var publisher mq.Publisher = mq.NoopPublisher{}
	if cfg.MQ.URL != "" {
		producer, err := mq.NewProducer(cfg.MQ.URL)
		if err != nil {
			log.Fatalf("failed to init producer: %v", err)
		}
		defer producer.Close()
		publisher = producer
	}

	// Init repositories
	identityRepo := repository.NewIdentityRepository(dbConn, logger)
	taskRepo := repository.NewTaskRepository(dbConn, logger)

	// Init session store
	sessions := session.NewStore(rdb)

	// Init services
	gateway := auth.NewService(identityRepo, sessions, publisher, cfg.JWT.Secret, logger)
	taskService := task.NewService(taskRepo, identityRepo, publisher, logger)

	// Init handlers
	authHandler := handler.NewAuthHandler(gateway, logger)
	adminHandler := handler.NewAdminHandler(taskService, gateway, logger)
	employeeHandler := handler.NewEmployeeHandler(taskService, logger)

	// Router
	router := httpserver.NewRouter(
		authHandler,
		adminHandler,
		employeeHandler,
		cfg.JWT.Secret,
		sessions,
		gateway,
		dbConn,
	)

	// Start API server
	if err := router.Run(cfg.Server.Port); err != nil {
		logger.Fatal("server start failed", zap.Error(err))
	}
}
