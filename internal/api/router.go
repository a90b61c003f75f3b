package api

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/chillpill/chillpill/internal/api/recovery"
	"github.com/chillpill/chillpill/internal/mood"
	"github.com/chillpill/chillpill/internal/services"
)

// Deps are the components the HTTP surface serves.
type Deps struct {
	Journal *services.JournalService
	Mood    *mood.Analytics
	Health  ServiceHealth
	Log     zerolog.Logger
}

// NewRouter creates the HTTP router with all API routes.
func NewRouter(d Deps) *mux.Router {
	router := mux.NewRouter()
	router.Use(recovery.Middleware(d.Log))

	healthHandler := NewHealthHandler(d.Health)
	entryHandler := NewEntryHandler(d.Journal, d.Log)
	moodHandler := NewMoodHandler(d.Mood, d.Log)

	router.HandleFunc("/api/health", healthHandler.CheckHealth).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Entry endpoints
	router.HandleFunc("/api/entries", entryHandler.CreateEntry).Methods("POST")
	router.HandleFunc("/api/entries", entryHandler.ListEntries).Methods("GET")
	router.HandleFunc("/api/entries/{id}", entryHandler.GetEntry).Methods("GET")
	router.HandleFunc("/api/entries/{id}", entryHandler.UpdateEntry).Methods("PUT")
	router.HandleFunc("/api/entries/{id}", entryHandler.DeleteEntry).Methods("DELETE")

	// Mood tracker endpoints
	router.HandleFunc("/api/mood", moodHandler.Summary).Methods("GET")
	router.HandleFunc("/api/mood/series", moodHandler.Series).Methods("GET")
	router.HandleFunc("/api/mood/lowest", moodHandler.Lowest).Methods("GET")
	router.HandleFunc("/api/mood/highest", moodHandler.Highest).Methods("GET")
	router.HandleFunc("/api/mood/average", moodHandler.Average).Methods("GET")

	return router
}
