// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package logs

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/danielhkuo/tallygo/models"
)

// Store is the volatile, session-scoped backing for a Recorder.
// It holds a JSON array of at most MaxEntries entries, most recent first.
type Store interface {
	Load(ctx context.Context) ([]models.LogEntry, error)
	Save(ctx context.Context, entries []models.LogEntry) error
	Clear(ctx context.Context) error
}

// MemoryStore keeps the encoded entries in process memory
type MemoryStore struct {
	mu   sync.Mutex
	key  string
	data map[string][]byte
}

func NewMemoryStore(key string) *MemoryStore {
	return &MemoryStore{
		key:  key,
		data: make(map[string][]byte),
	}
}

func (s *MemoryStore) Load(ctx context.Context) ([]models.LogEntry, error) {
	s.mu.Lock()
	raw, ok := s.data[s.key]
	s.mu.Unlock()

	if !ok {
		return nil, nil
	}
	return decodeEntries(raw)
}

func (s *MemoryStore) Save(ctx context.Context, entries []models.LogEntry) error {
	raw, err := encodeEntries(entries)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.data[s.key] = raw
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	delete(s.data, s.key)
	s.mu.Unlock()
	return nil
}

func encodeEntries(entries []models.LogEntry) ([]byte, error) {
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("failed to encode log entries: %w", err)
	}
	return raw, nil
}

func decodeEntries(raw []byte) ([]models.LogEntry, error) {
	var entries []models.LogEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode log entries: %w", err)
	}
	return entries, nil
}
