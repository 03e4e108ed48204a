// Package main is the entry point for the hero2saber API server
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/beatforge/hero2saber/pkg/api"
	"github.com/beatforge/hero2saber/pkg/config"
	"github.com/beatforge/hero2saber/pkg/logger"
)

func main() {
	port := flag.Int("port", 8080, "Server port")
	flag.Parse()

	cfg := config.Load()
	logger.Init(logger.Config{Level: logger.LogLevel(cfg.LogLevel), OutputPath: cfg.LogPath})
	defer logger.Sync()

	fmt.Printf("Starting hero2saber API server on port %d...\n", *port)
	fmt.Printf("Swagger docs available at http://localhost:%d/swagger/index.html\n", *port)

	if err := api.StartServer(cfg, *port); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
