package main

import (
	"os"

	_ "github.com/joho/godotenv/autoload"

	"schoolapi/internal/config"
	"schoolapi/internal/logger"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Log.Level, "console")

	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}
