// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	"github.com/danielhkuo/tallygo/auth"
	"github.com/danielhkuo/tallygo/capture"
	"github.com/danielhkuo/tallygo/cliparse"
	"github.com/danielhkuo/tallygo/db"
	"github.com/danielhkuo/tallygo/editor"
	"github.com/danielhkuo/tallygo/handlers"
	"github.com/danielhkuo/tallygo/logs"
	"github.com/danielhkuo/tallygo/middleware"
	"github.com/danielhkuo/tallygo/pipeline"
	"github.com/danielhkuo/tallygo/recognition"
	"github.com/danielhkuo/tallygo/router"
	"github.com/danielhkuo/tallygo/submission"
)

func main() {
	var err error

	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      slog.LevelInfo,
			TimeFormat: "15:04:05",
		}),
	))

	// A missing .env is fine
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("could not load .env", "error", err)
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Connect to the ballot database
	dbConn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "type", cfg.DatabaseType, "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	if err := db.CreateSchema(dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	// Operator log store
	var store logs.Store = logs.NewMemoryStore(logs.Namespace)
	if cfg.RedisURL != "" {
		rs, err := logs.ConnectRedis(ctx, cfg.RedisURL, logs.Namespace, cfg.LogTTL)
		if err != nil {
			slog.Error("redis connection failed", "error", err)
			os.Exit(1)
		}
		defer rs.Close()
		store = rs
	}
	recorder := logs.NewRecorder(ctx, store)

	if cfg.APIKey == "" {
		slog.Warn("OPENAI_API_KEY is not set, every capture will fail with a missing credential before any request is sent")
	}

	session := auth.NewSession(cfg.SessionSalt, cfg.OperatorPassword)
	ctrl := pipeline.New(pipeline.Config{
		Camera:     capture.NewSession(capture.NewFFmpegCamera(cfg.FFmpegPath, cfg.CameraGlob)),
		Recognizer: recognition.NewClient(cfg.RecognitionURL, cfg.RecognitionModel, nil),
		Editor:     editor.New(submission.NewClient(cfg.SubmitURL, nil)),
		Log:        recorder,
		Operator:   session,
		APIKey:     cfg.APIKey,
	})

	// Create router
	mux := router.NewRouter(dbConn, cfg, handlers.Station{
		Session:    session,
		Controller: ctrl,
		Log:        recorder,
	})

	// Create server
	server := http.Server{
		Handler: middleware.Recover(recorder, middleware.CORS(mux)),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port, "submit_url", cfg.SubmitURL)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}

	// Release the camera and cancel any in-flight recognition
	if err := ctrl.Close(); err != nil {
		slog.Warn("station shutdown", "error", err)
	}
}
