package main

import (
	"flag"
	"log"
	"os"

	"github.com/maifast-lab/maifast/internal/di"
	"github.com/maifast-lab/maifast/pkg/config"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	log.Printf("env=%s clickhouse=%s kafka_enabled=%t assistant_enabled=%t",
		cfg.Environment, cfg.ClickHouse.Host, cfg.Kafka.Enabled, cfg.Assistant.Enabled)

	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	if err := app.Run(); err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}
