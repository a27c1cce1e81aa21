/*
Package main
File: main.go
Description: Server entry point. Loads the colony configuration, starts the real-time
WebSocket hub, and runs the frame loop that keeps the asteroid colony alive.
*/

package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/everforgeworks/deepcore-colony/internal/api"
	"github.com/everforgeworks/deepcore-colony/internal/game"
)

func main() {
	configPath := flag.String("config", "colony.yaml", "path to the colony configuration")
	flag.Parse()

	// 1. Load the colony configuration from YAML
	cfg, err := game.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Config Fail: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Initialize and start the Real-Time WebSocket Hub
	hub := api.NewHub()
	go hub.Run(ctx)

	// 3. THE FRAME LOOP
	server := api.NewServer(cfg, hub)
	go server.Run(ctx)

	// 4. Hot-reload logic: SIGHUP stages a fresh config for the next launch
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGHUP)
		for {
			select {
			case <-ctx.Done():
				return
			case <-sigChan:
				log.Println("SIGNAL: Reloading colony config...")
				next, err := game.LoadConfig(*configPath)
				if err != nil {
					log.Printf("CONFIG: Reload rejected: %v", err)
					continue
				}
				server.StageConfig(next)
				log.Println("CONFIG: New balance applies on next prestige")
			}
		}
	}()

	// 5. Start the Server
	srv := &http.Server{Addr: cfg.Server.Listen, Handler: server.Routes()}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("DEEPCORE: Colony server live on %s", cfg.Server.Listen)
	log.Printf("Real-time Hub: Online")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
