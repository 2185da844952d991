package main

import (
	"flag"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/teatak/subword/config"
)

func main() {
	configPath := flag.String("config", "", "Optional YAML config file")
	addr := flag.String("addr", "", "Listen address (empty uses the config value)")
	flag.Parse()

	log.SetPrefix("[SERVER] ")

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	// 1. Access log for retraining
	var accessLog io.Writer
	if cfg.Server.AccessLog != "" {
		logF, err := os.OpenFile(cfg.Server.AccessLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Fatal(err)
		}
		defer logF.Close()
		accessLog = logF
	}

	// 2. Initial load
	s := newServer(cfg, accessLog)
	if err := s.reload(); err != nil {
		log.Fatalf("Initial load failed: %v", err)
	}

	log.Printf("Server started on %s", cfg.Server.Addr)
	log.Fatal(http.ListenAndServe(cfg.Server.Addr, s.routes()))
}
