// Package registry keeps the client-side view of the server's file list.
// The cache is a pure projection of the most recent "list" response: every
// response replaces it wholesale, and local actions never mutate it. A
// stale response arriving after a newer refresh was issued overwrites newer
// data (last arrival wins) — an accepted inconsistency window of the
// protocol, which carries no request/response correlation.
package registry

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"invoicer/internal/client/channel"
	"invoicer/internal/client/models"
	"invoicer/internal/logging"
)

// Channel is the connection surface the registry needs.
type Channel interface {
	Emit(event string, payload any) error
	On(event string, h channel.Handler)
	IsClosed() bool
}

type listRequest struct {
	Token string `json:"token"`
}

type listResponse struct {
	Files map[string]struct {
		Filename  string `json:"filename"`
		Processed string `json:"processed"`
	} `json:"files"`
}

// Registry caches the server-reported file records keyed by file id.
type Registry struct {
	ch   Channel
	sess *models.Session
	log  logging.Logger

	mu    sync.RWMutex
	files map[string]models.FileRecord
}

// New builds a registry bound to the given connection and subscribes its
// single inbound "list" handler.
func New(ch Channel, sess *models.Session, log logging.Logger) *Registry {
	r := &Registry{
		ch:    ch,
		sess:  sess,
		log:   log,
		files: make(map[string]models.FileRecord),
	}
	ch.On("list", r.handleList)
	return r
}

// Refresh requests a fresh list snapshot. With no live channel it is a
// no-op. Safe to call repeatedly: each response independently replaces the
// cache when it arrives.
func (r *Registry) Refresh() {
	if r.ch.IsClosed() {
		return
	}
	if err := r.ch.Emit("list", listRequest{Token: r.sess.Token()}); err != nil {
		r.log.Warn(context.Background(), "list request failed", "error", err)
	}
}

// handleList replaces the cached set with the response's files. A missing
// or empty "files" field yields an empty cache, not an error.
func (r *Registry) handleList(data json.RawMessage) {
	var resp listResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		r.log.Warn(context.Background(), "malformed list response", "error", err)
		return
	}

	next := make(map[string]models.FileRecord, len(resp.Files))
	for id, f := range resp.Files {
		next[id] = models.FileRecord{
			ID:       id,
			Filename: f.Filename,
			Status:   models.ParseStatus(f.Processed),
		}
	}

	r.mu.Lock()
	r.files = next
	r.mu.Unlock()

	r.log.Debug(context.Background(), "file list replaced", "count", len(next))
}

// Get returns the cached record for id.
func (r *Registry) Get(id string) (models.FileRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.files[id]
	return rec, ok
}

// Snapshot returns the cached records sorted by id.
func (r *Registry) Snapshot() []models.FileRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.FileRecord, 0, len(r.files))
	for _, rec := range r.files {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
