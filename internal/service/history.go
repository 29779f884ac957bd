package service

import (
	"context"
	"sync"

	"process-report/internal/model"
	"process-report/internal/storage"
)

// HistoryKey names the durable slot holding the newest-first history list.
const HistoryKey = "reportHistory"

// HistoryStore caches the history list in memory and writes the whole list
// back to its slot on every mutation.
type HistoryStore struct {
	store storage.Store

	mu    sync.RWMutex
	cache []model.HistoryEntry
}

func NewHistoryStore(s storage.Store) *HistoryStore {
	return &HistoryStore{store: s, cache: []model.HistoryEntry{}}
}

// Load refreshes the cache from durable storage. A corrupt slot loads as an
// empty list.
func (h *HistoryStore) Load(ctx context.Context) []model.HistoryEntry {
	list := storage.Read(ctx, h.store, HistoryKey, []model.HistoryEntry{})
	if list == nil {
		list = []model.HistoryEntry{}
	}
	h.mu.Lock()
	h.cache = list
	h.mu.Unlock()
	return h.List()
}

// Save replaces the list. The cache always takes the new list; a write error
// is returned so the caller can report that it was not persisted.
func (h *HistoryStore) Save(ctx context.Context, list []model.HistoryEntry) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.saveLocked(ctx, append([]model.HistoryEntry{}, list...))
}

// Prepend holds the lock from reading the cache until the write lands, so a
// concurrent Clear either runs before or after it, never in between.
func (h *HistoryStore) Prepend(ctx context.Context, e model.HistoryEntry) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	list := make([]model.HistoryEntry, 0, len(h.cache)+1)
	list = append(list, e)
	list = append(list, h.cache...)
	return h.saveLocked(ctx, list)
}

// saveLocked requires h.mu held for writing.
func (h *HistoryStore) saveLocked(ctx context.Context, list []model.HistoryEntry) error {
	h.cache = list
	return storage.Write(ctx, h.store, HistoryKey, h.cache)
}

func (h *HistoryStore) Clear(ctx context.Context) error {
	return h.Save(ctx, []model.HistoryEntry{})
}

func (h *HistoryStore) List() []model.HistoryEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]model.HistoryEntry{}, h.cache...)
}

func (h *HistoryStore) Find(id string) (model.HistoryEntry, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, e := range h.cache {
		if e.ID == id {
			return e, true
		}
	}
	return model.HistoryEntry{}, false
}
