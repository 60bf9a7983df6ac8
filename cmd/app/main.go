package main

import (
	"flag"
	"log"
	"os"

	"SentiPull/internal/di"
	"SentiPull/pkg/config"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "config/config.yaml", "config file path")
	flag.Parse()

	// Load config
	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	log.Printf("env=%s source=%s backend=%s window=%d", cfg.Environment, cfg.Source.Type, cfg.Backend.Type, cfg.Window.Capacity)

	// Initialize application with all dependencies
	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	log.Printf("classifier: %s", cfg.Classifier.ServiceURL)

	// Run application (blocks until signal)
	if err := app.Run(); err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}
