// Package dispatcher turns per-file user actions into channel commands and
// reacts to their completion events.
//
// Process and delete are fire-and-forget: the server performs the work
// asynchronously and sends no completion push, so the dispatcher schedules
// a list refresh after a fixed settle delay to observe the new status.
// Download is the only action with an inbound counterpart: the "download"
// event carries the file content as lines, which are reassembled and saved
// locally.
package dispatcher

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"invoicer/internal/client/channel"
	"invoicer/internal/client/models"
	"invoicer/internal/common"
	"invoicer/internal/logging"
)

// SettleDelay is the fixed wait before re-querying list state after an
// asynchronous server action. It substitutes for a completion notification.
const SettleDelay = time.Second

// Channel is the connection surface the dispatcher needs.
type Channel interface {
	Emit(event string, payload any) error
	On(event string, h channel.Handler)
}

// Registry is the file cache the dispatcher consults for action legality
// and refreshes after mutating commands.
type Registry interface {
	Get(id string) (models.FileRecord, bool)
	Refresh()
}

// Saver persists a downloaded file and returns its local path.
type Saver interface {
	Save(name string, content []byte) (string, error)
}

type actionRequest struct {
	Token  string `json:"token"`
	FileID string `json:"fileid"`
}

type downloadResponse struct {
	Data []string `json:"data"`
}

type pendingDownload struct {
	fileID   string
	filename string
}

// Dispatcher issues process/get/delete commands keyed by fileid and token.
type Dispatcher struct {
	ch    Channel
	sess  *models.Session
	reg   Registry
	saver Saver
	log   logging.Logger

	// settle is overridable in tests; production always uses SettleDelay.
	settle time.Duration

	mu sync.Mutex
	// The protocol's download response carries no fileid, so only the most
	// recently requested download can be attributed. Original limitation,
	// kept.
	pending *pendingDownload
}

func New(ch Channel, sess *models.Session, reg Registry, saver Saver, log logging.Logger) *Dispatcher {
	d := &Dispatcher{
		ch:     ch,
		sess:   sess,
		reg:    reg,
		saver:  saver,
		log:    log,
		settle: SettleDelay,
	}
	ch.On("download", d.handleDownload)
	return d
}

// Process asks the server to run the processing pipeline on the file. Only
// legal for files the server has not processed yet; an illegal or unknown
// file emits nothing.
func (d *Dispatcher) Process(id string) error {
	rec, ok := d.reg.Get(id)
	if !ok {
		return common.ErrUnknownFile
	}
	if !rec.CanProcess() {
		return common.ErrActionNotAllowed
	}

	if err := d.ch.Emit("process", actionRequest{Token: d.sess.Token(), FileID: id}); err != nil {
		return err
	}
	d.scheduleRefresh()
	return nil
}

// Delete removes the file server-side. Legal from any status. The record
// disappears from the cache once a later list response omits it.
func (d *Dispatcher) Delete(id string) error {
	rec, ok := d.reg.Get(id)
	if !ok {
		return common.ErrUnknownFile
	}
	if !rec.CanDelete() {
		return common.ErrActionNotAllowed
	}

	if err := d.ch.Emit("delete", actionRequest{Token: d.sess.Token(), FileID: id}); err != nil {
		return err
	}
	d.scheduleRefresh()
	return nil
}

// Download requests the processed file content. Only legal for processed
// files. The matching inbound "download" event saves the content locally.
func (d *Dispatcher) Download(id string) error {
	rec, ok := d.reg.Get(id)
	if !ok {
		return common.ErrUnknownFile
	}
	if !rec.CanDownload() {
		return common.ErrActionNotAllowed
	}

	d.mu.Lock()
	d.pending = &pendingDownload{fileID: id, filename: rec.Filename}
	d.mu.Unlock()

	if err := d.ch.Emit("get", actionRequest{Token: d.sess.Token(), FileID: id}); err != nil {
		return err
	}
	return nil
}

// scheduleRefresh observes the status transition after the settle delay,
// because the server processes asynchronously and pushes no notification.
func (d *Dispatcher) scheduleRefresh() {
	time.AfterFunc(d.settle, d.reg.Refresh)
}

// handleDownload reassembles the file from its lines and saves it under the
// pending request's filename. A response with no pending request is
// dropped; a missing "data" field produces an empty file, not an error.
func (d *Dispatcher) handleDownload(data json.RawMessage) {
	ctx := context.Background()

	d.mu.Lock()
	pending := d.pending
	d.pending = nil
	d.mu.Unlock()

	if pending == nil {
		d.log.Warn(ctx, "download event with no pending request, dropping")
		return
	}

	var resp downloadResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		d.log.Warn(ctx, "malformed download response", "fileid", pending.fileID, "error", err)
		return
	}

	content := []byte(strings.Join(resp.Data, "\n"))
	path, err := d.saver.Save(pending.filename, content)
	if err != nil {
		d.log.Error(ctx, "saving download failed", "fileid", pending.fileID, "error", err)
		return
	}
	d.log.Info(ctx, "download saved", "fileid", pending.fileID, "path", path)
}
