// Package handler exposes the API as a single serverless function.
package handler

import (
	"fmt"
	"net/http"
	"sync"

	"badgr/internal/api"
	"badgr/internal/config"
	"badgr/internal/events"
	"badgr/internal/logger"
	"badgr/internal/store"
)

var (
	initOnce sync.Once
	router   http.Handler
	initErr  error
)

// initRouter builds the router once per cold start. Connections stay open
// for the lifetime of the function instance.
func initRouter() {
	cfg, err := config.Load()
	if err != nil {
		initErr = err
		return
	}
	cfg.Env = "production"

	log := logger.New(cfg.LogLevel)

	s, _, err := store.Open(cfg, log)
	if err != nil {
		initErr = err
		return
	}

	server := api.New(cfg, log, s, events.New(cfg.Brokers(), cfg.KafkaTopic, log))
	router = server.GetRouter()
}

func Handler(w http.ResponseWriter, r *http.Request) {
	initOnce.Do(initRouter)
	if initErr != nil {
		http.Error(w, fmt.Sprintf("Initialization failed: %v", initErr), http.StatusInternalServerError)
		return
	}
	router.ServeHTTP(w, r)
}
