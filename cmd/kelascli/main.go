package main

import (
	"context"
	"log"

	"github.com/infokelas/kelascli/internal/client/cli"
	"github.com/infokelas/kelascli/internal/client/config"
)

func main() {
	cfg := config.LoadConfig()

	app, err := cli.NewApp(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(context.Background())
}
