package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/dmitrijs2005/goalkeeper/internal/client/cli"
	"github.com/dmitrijs2005/goalkeeper/internal/client/config"
)

func main() {
	_ = godotenv.Load()

	cfg := config.LoadConfig()
	app, err := cli.NewApp(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(context.Background())
}
