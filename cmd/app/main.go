package main

import (
	"errors"
	"io/fs"
	"log"
	"os"

	"github.com/andreyxaxa/LocalStoreConnect/config"
	"github.com/andreyxaxa/LocalStoreConnect/internal/app"
	"github.com/joho/godotenv"
)

const dotEnv = ".env"

func main() {
	// Config
	if err := loadDotEnv(dotEnv); err != nil {
		log.Fatalf("config error: %s", err)
	}

	cfg, err := config.New()
	if err != nil {
		log.Fatalf("config error: %s", err)
	}

	// Run
	app.Run(cfg)
}

// loadDotEnv fills the environment from path when it exists. Variables already set win.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	return godotenv.Load(path)
}
