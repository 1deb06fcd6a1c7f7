package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	httpserver "github.com/lenagent/go-lenagent/server/http"
)

func handleServe() {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	port := fs.Int("port", 8080, "Port to listen on")
	provider := fs.String("provider", "scripted", "Model provider (scripted, openai, anthropic)")
	model := fs.String("model", "", "Model name override")
	fs.Parse(os.Args[2:])

	p, err := buildPipeline(*provider, *model)
	if err != nil {
		log.Printf("Error building pipeline: %v", err)
		os.Exit(1)
	}

	srv := httpserver.NewServer(p.agent, httpserver.Config{
		Port:       *port,
		Cache:      p.cached,
		CacheStore: p.store,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.ListenAndServe(ctx); err != nil {
		log.Printf("Server error: %v", err)
		os.Exit(1)
	}
	log.Println("Server stopped")
}
