package main

import (
	"log"

	"github.com/abdelwahab/campuscard-api/config"
	"github.com/abdelwahab/campuscard-api/internal/api"
	"github.com/abdelwahab/campuscard-api/internal/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	slogger := logger.NewSlog(cfg.LogLevel, cfg.LogFormat)

	api.StartServer(cfg, slogger)
}
