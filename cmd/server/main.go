package main

import (
	"log"

	"taskcrafter/internal/config"
	"taskcrafter/internal/server"
)

// @title           Taskcrafter API
// @version         1.0
// @description     Task store with filtering, deadlines and cross-session change relay.

// @host      localhost:8080
// @BasePath  /

// @schemes http
func main() {
	cfg := config.Load()

	s, err := server.Init(cfg)
	if err != nil {
		log.Fatalf("❌ Server initialization failed: %v", err)
	}

	s.Run()
}
