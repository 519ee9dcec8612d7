// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/tallygo/middleware"
	"github.com/danielhkuo/tallygo/models"
)

type SessionHandler struct {
	station Station
}

func NewSessionHandler(station Station) *SessionHandler {
	return &SessionHandler{station: station}
}

// Login handles POST /session
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	token, err := h.station.Session.SignIn(req.Username, req.Password)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, err.Error())
		return
	}

	operatorID := h.station.Session.OperatorID()
	h.station.Log.Info("Signed in as " + operatorID)

	middleware.JSONResponse(w, http.StatusOK, models.LoginResponse{
		Token:      token,
		OperatorID: operatorID,
	})
}

// Logout handles DELETE /session. Ending the session drops the current
// record, releases the camera and empties the operator log.
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.station.Controller.Retake()
	if err := h.station.Controller.CloseCamera(); err != nil {
		slog.Warn("camera release on sign-out failed", "error", err)
	}
	if err := h.station.Log.Clear(r.Context()); err != nil {
		slog.Error("failed to clear operator log", "error", err)
	}
	h.station.Session.SignOut()

	w.WriteHeader(http.StatusNoContent)
}
