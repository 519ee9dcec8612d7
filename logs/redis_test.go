// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package logs

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	store, err := ConnectRedis(ctx, "redis://"+mr.Addr(), Namespace, time.Hour)
	if err != nil {
		t.Fatalf("ConnectRedis() error = %v", err)
	}
	defer store.Close()

	entries, err := store.Load(ctx)
	if err != nil || entries != nil {
		t.Fatalf("Load() on empty key = %v, %v; want nil, nil", entries, err)
	}

	rec := NewRecorder(ctx, store)
	rec.Info("camera opened")
	rec.Success("Image captured successfully")

	if !mr.Exists(Namespace) {
		t.Fatal("expected log key to exist")
	}
	if ttl := mr.TTL(Namespace); ttl != time.Hour {
		t.Errorf("TTL = %v, want 1h", ttl)
	}

	recovered := NewRecorder(ctx, store).Entries()
	if len(recovered) != 2 || recovered[0].Message != "Image captured successfully" {
		t.Errorf("unexpected recovered entries: %+v", recovered)
	}

	// Session end: key expires
	mr.FastForward(2 * time.Hour)
	if entries, _ := store.Load(ctx); len(entries) != 0 {
		t.Errorf("expected entries to expire, got %d", len(entries))
	}
}

func TestRedisStoreClear(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	store, err := ConnectRedis(ctx, "redis://"+mr.Addr(), Namespace, time.Hour)
	if err != nil {
		t.Fatalf("ConnectRedis() error = %v", err)
	}
	defer store.Close()

	rec := NewRecorder(ctx, store)
	rec.Error("recognition failed")
	if err := rec.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if mr.Exists(Namespace) {
		t.Error("expected log key to be deleted")
	}
}

func TestConnectRedisInvalidURL(t *testing.T) {
	if _, err := ConnectRedis(context.Background(), "not a url", Namespace, time.Hour); err == nil {
		t.Error("expected error for invalid URL")
	}
}
