package main

import (
	"flag"

	"github.com/radhian/expense-reconciliation/config"
	"github.com/radhian/expense-reconciliation/controllers"

	"github.com/labstack/gommon/log"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	config.ApplyLogLevel(cfg.LogLevel)

	app := controllers.App{}
	if err := app.Initialize(cfg); err != nil {
		log.Fatalf("failed to initialize app: %v", err)
	}
	defer app.DB.Close()

	if err := app.RunServer(); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
