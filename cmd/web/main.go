package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"uimage/internal/config"
	"uimage/internal/server"
	"uimage/internal/storage"
)

func main() {
	cfg, err := config.Default()
	if err != nil {
		log.Fatal(err)
	}

	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "Address to listen on")
	flag.StringVar(&cfg.Root, "root", cfg.Root, "Storage root; uploads go to <root>/cdn")
	verbose := flag.Bool("v", false, "Log every request")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	// 1. Storage must be usable before we accept anything
	store, err := storage.Open(cfg)
	if err != nil {
		log.Fatal(err)
	}

	// 2. Routes
	s, err := server.New(cfg, store, logger)
	if err != nil {
		log.Fatal(err)
	}

	logger.Info("server started", "addr", cfg.Addr, "storage", store.Dir())
	log.Fatal(s.HTTPServer().ListenAndServe())
}
