package main

import (
	"flag"
	"log"

	"github.com/joho/godotenv"

	"github.com/sleepstars/modelgate/internal/backend"
	"github.com/sleepstars/modelgate/internal/config"
	"github.com/sleepstars/modelgate/internal/logger"
	"github.com/sleepstars/modelgate/internal/server"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to the configuration file")
	flag.Parse()

	// Optional .env file for local secrets; ignore when absent.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	logger.InitLogger(cfg.LogLevel, "modelgate")

	runner, err := backend.New(cfg.Backend)
	if err != nil {
		logger.GetLogger().Fatal("Backend setup failed: %v", err)
	}

	srv := server.New(cfg, runner)
	if err := srv.Run(); err != nil {
		logger.GetLogger().Fatal("Server exited: %v", err)
	}
}
