// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/tallygo/cliparse"
	"github.com/danielhkuo/tallygo/handlers"
	"github.com/danielhkuo/tallygo/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config, station handlers.Station) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	ballotHandler := handlers.NewBallotHandler(db, cfg)
	sessionHandler := handlers.NewSessionHandler(station)
	stationHandler := handlers.NewStationHandler(station)

	// gated wraps a station route with logging and the session check
	gated := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireSession(station.Session, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Operator session
	mux.HandleFunc("POST /session", middleware.WithLogging(sessionHandler.Login))
	mux.HandleFunc("DELETE /session", gated(sessionHandler.Logout))

	// Pipeline state
	mux.HandleFunc("GET /state", gated(stationHandler.GetState))
	mux.HandleFunc("GET /logs", gated(stationHandler.GetLogs))

	// Camera
	mux.HandleFunc("POST /camera/open", gated(stationHandler.OpenCamera))
	mux.HandleFunc("POST /camera/toggle", gated(stationHandler.ToggleCamera))
	mux.HandleFunc("POST /camera/close", gated(stationHandler.CloseCamera))
	mux.HandleFunc("GET /camera/preview", middleware.RequireSession(station.Session, stationHandler.Preview))

	// Capture cycle
	mux.HandleFunc("POST /capture", gated(stationHandler.Capture))
	mux.HandleFunc("POST /retake", gated(stationHandler.Retake))
	mux.HandleFunc("POST /error/dismiss", gated(stationHandler.DismissError))

	// Record editing and submission
	mux.HandleFunc("POST /record/edit", gated(stationHandler.EditRecord))
	mux.HandleFunc("PUT /record/fields", gated(stationHandler.SetField))
	mux.HandleFunc("POST /record/save", gated(stationHandler.SaveRecord))
	mux.HandleFunc("POST /record/cancel", gated(stationHandler.CancelEdit))
	mux.HandleFunc("POST /record/submit", gated(stationHandler.SubmitRecord))

	// Ballot backend sink
	mux.HandleFunc("POST /ballots", middleware.WithLogging(ballotHandler.SubmitBallot))
	mux.HandleFunc("GET /ballots/{id}", middleware.WithLogging(ballotHandler.GetBallot))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("tallygo station API v1"))
	})

	return mux
}
