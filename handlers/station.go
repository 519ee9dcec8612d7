// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/tallygo/auth"
	"github.com/danielhkuo/tallygo/capture"
	"github.com/danielhkuo/tallygo/editor"
	"github.com/danielhkuo/tallygo/logs"
	"github.com/danielhkuo/tallygo/middleware"
	"github.com/danielhkuo/tallygo/models"
	"github.com/danielhkuo/tallygo/pipeline"
	"github.com/danielhkuo/tallygo/submission"
)

// Station bundles the single-operator state shared by the station handlers
type Station struct {
	Session    *auth.Session
	Controller *pipeline.Controller
	Log        *logs.Recorder
}

type StationHandler struct {
	station Station
}

func NewStationHandler(station Station) *StationHandler {
	return &StationHandler{station: station}
}

// GetState handles GET /state
func (h *StationHandler) GetState(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, h.station.Controller.State())
}

// OpenCamera handles POST /camera/open. The body is optional.
func (h *StationHandler) OpenCamera(w http.ResponseWriter, r *http.Request) {
	req := models.OpenCameraRequest{Facing: models.FacingUser}
	if err := middleware.ParseJSONBody(r, &req); err != nil && !errors.Is(err, io.EOF) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Facing == "" {
		req.Facing = models.FacingUser
	}
	if req.Facing != models.FacingUser && req.Facing != models.FacingEnvironment {
		middleware.ErrorResponse(w, http.StatusBadRequest, "facing must be 'user' or 'environment'")
		return
	}

	if err := h.station.Controller.OpenCamera(r.Context(), req.Facing); err != nil {
		writeStationError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, h.station.Controller.State().Camera)
}

// ToggleCamera handles POST /camera/toggle
func (h *StationHandler) ToggleCamera(w http.ResponseWriter, r *http.Request) {
	if err := h.station.Controller.ToggleCamera(r.Context()); err != nil {
		writeStationError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, h.station.Controller.State().Camera)
}

// CloseCamera handles POST /camera/close
func (h *StationHandler) CloseCamera(w http.ResponseWriter, r *http.Request) {
	if err := h.station.Controller.CloseCamera(); err != nil {
		slog.Warn("camera release failed", "error", err)
	}
	middleware.JSONResponse(w, http.StatusOK, h.station.Controller.State().Camera)
}

// Preview handles GET /camera/preview
func (h *StationHandler) Preview(w http.ResponseWriter, r *http.Request) {
	frame, ok := h.station.Controller.Preview()
	if !ok {
		middleware.ErrorResponse(w, http.StatusNotFound, "No frame available")
		return
	}
	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(frame)
}

// Capture handles POST /capture. Recognition continues in the background;
// poll GET /state for the outcome.
func (h *StationHandler) Capture(w http.ResponseWriter, r *http.Request) {
	if err := h.station.Controller.Capture(); err != nil {
		writeStationError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusAccepted, h.station.Controller.State())
}

// Retake handles POST /retake
func (h *StationHandler) Retake(w http.ResponseWriter, r *http.Request) {
	h.station.Controller.Retake()
	middleware.JSONResponse(w, http.StatusOK, h.station.Controller.State())
}

// DismissError handles POST /error/dismiss
func (h *StationHandler) DismissError(w http.ResponseWriter, r *http.Request) {
	h.stateAfter(w, h.station.Controller.Dismiss())
}

// EditRecord handles POST /record/edit
func (h *StationHandler) EditRecord(w http.ResponseWriter, r *http.Request) {
	h.stateAfter(w, h.station.Controller.Edit())
}

// SetField handles PUT /record/fields
func (h *StationHandler) SetField(w http.ResponseWriter, r *http.Request) {
	var req models.SetFieldRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Category == "" || req.Field == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "category and field are required")
		return
	}
	h.stateAfter(w, h.station.Controller.SetField(req.Category, req.Field, req.Value))
}

// SaveRecord handles POST /record/save
func (h *StationHandler) SaveRecord(w http.ResponseWriter, r *http.Request) {
	h.stateAfter(w, h.station.Controller.Save())
}

// CancelEdit handles POST /record/cancel
func (h *StationHandler) CancelEdit(w http.ResponseWriter, r *http.Request) {
	h.stateAfter(w, h.station.Controller.Cancel())
}

// SubmitRecord handles POST /record/submit
func (h *StationHandler) SubmitRecord(w http.ResponseWriter, r *http.Request) {
	resp, err := h.station.Controller.Submit(r.Context())
	if err != nil {
		writeStationError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, resp)
}

// GetLogs handles GET /logs
func (h *StationHandler) GetLogs(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, models.LogsResponse{
		Entries: h.station.Log.Entries(),
	})
}

func (h *StationHandler) stateAfter(w http.ResponseWriter, err error) {
	if err != nil {
		writeStationError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, h.station.Controller.State())
}

// writeStationError maps pipeline errors onto status codes. The message is the
// human-readable reason the operator sees.
func writeStationError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, capture.ErrDeviceUnavailable),
		errors.Is(err, pipeline.ErrClosed):
		status = http.StatusServiceUnavailable
	case errors.Is(err, capture.ErrNotReady),
		errors.Is(err, capture.ErrSingleDevice),
		errors.Is(err, capture.ErrClosed),
		errors.Is(err, pipeline.ErrNotReady),
		errors.Is(err, editor.ErrNoRecord),
		errors.Is(err, editor.ErrNotEditing),
		errors.Is(err, editor.ErrAlreadyEditing),
		errors.Is(err, editor.ErrSubmitInProgress):
		status = http.StatusConflict
	case errors.Is(err, editor.ErrUnknownCategory),
		errors.Is(err, editor.ErrUnknownField):
		status = http.StatusBadRequest
	case errors.Is(err, submission.ErrSubmission):
		status = http.StatusBadGateway
	}

	if status == http.StatusInternalServerError {
		slog.Error("station request failed", "error", err)
	}
	middleware.ErrorResponse(w, status, err.Error())
}
