// cmd/server/server.go
package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/roomclerk/roomclerk/internal/api"
	"github.com/roomclerk/roomclerk/internal/api/availability"
	"github.com/roomclerk/roomclerk/internal/api/meetings"
	"github.com/roomclerk/roomclerk/internal/config"
)

func newServer(cfg *config.Config) *http.Server {
	router := http.NewServeMux()

	// Setup middleware chain
	handler := api.ChainMiddleware(
		router,
		api.WithLogging,
		api.WithRecovery,
		api.WithRequestID,
	)

	registerRoutes(router)

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func registerRoutes(mux *http.ServeMux) {
	// Health check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Availability window
	mux.HandleFunc("GET /api/v1/availability", availability.HandleGetAvailability)
	mux.HandleFunc("PUT /api/v1/availability", availability.HandleSaveAvailability)

	// Meetings
	mux.HandleFunc("GET /api/v1/meetings", meetings.HandleListMeetings)
	mux.HandleFunc("POST /api/v1/meetings", meetings.HandleCreateMeeting)
	mux.HandleFunc("PUT /api/v1/meetings/{id}", meetings.HandleUpdateMeeting)
	mux.HandleFunc("DELETE /api/v1/meetings/{id}", meetings.HandleDeleteMeeting)
}
