// Package uploader streams local files to the backend as ordered, paced,
// base64-encoded chunks over the message channel.
//
// A transfer is fire-and-forget: the protocol defines no per-chunk
// acknowledgment and no retry. If the channel drops mid-transfer the
// remaining chunks are silently never sent.
package uploader

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"invoicer/internal/client/models"
	"invoicer/internal/common"
	"invoicer/internal/logging"
)

const (
	// ChunkSize is the fixed number of raw bytes per chunk message.
	ChunkSize = 256 * 1024

	// PacingDelay is the fixed wait between consecutive chunk emissions of
	// one transfer. It bounds the outstanding-message rate on the channel;
	// it is not acknowledgment-based flow control.
	PacingDelay = 100 * time.Millisecond
)

// Channel is the outbound surface the uploader needs.
type Channel interface {
	Emit(event string, payload any) error
	IsClosed() bool
}

// chunkMessage is the wire payload of one "upload" event.
type chunkMessage struct {
	Filename    string `json:"filename"`
	Token       string `json:"token"`
	FileID      string `json:"fileid"`
	ChunkNumber int    `json:"chunk_number"`
	TotalChunks int    `json:"total_chunks"`
	Chunk       string `json:"chunk"`
}

// Progress describes one in-flight transfer.
type Progress struct {
	FileID   string
	Filename string
	Sent     int
	Total    int
}

// Uploader splits files into chunks and emits them over the channel.
// Transfers started concurrently are independent and unsynchronized.
type Uploader struct {
	ch       Channel
	sess     *models.Session
	disabled bool
	log      logging.Logger

	// pacing is overridable in tests; production always uses PacingDelay.
	pacing time.Duration

	mu        sync.Mutex
	transfers map[string]*Progress
}

func New(ch Channel, sess *models.Session, disabled bool, log logging.Logger) *Uploader {
	return &Uploader{
		ch:        ch,
		sess:      sess,
		disabled:  disabled,
		log:       log,
		pacing:    PacingDelay,
		transfers: make(map[string]*Progress),
	}
}

// UploadAll starts one independent transfer per path, each on its own
// goroutine, and waits for all of them to finish. In demo mode it performs
// nothing and returns common.ErrUploadsDisabled so the caller can surface
// the notice.
func (u *Uploader) UploadAll(ctx context.Context, paths []string) error {
	if u.disabled {
		return common.ErrUploadsDisabled
	}

	var wg sync.WaitGroup
	for _, path := range paths {
		wg.Add(1)
		go func(p string) {
			defer wg.Done()
			if err := u.Upload(ctx, p); err != nil {
				u.log.Error(ctx, "upload failed", "path", p, "error", err)
			}
		}(path)
	}
	wg.Wait()
	return nil
}

// Upload streams one file. With no live channel or no authenticated session
// it is a silent no-op: nothing is queued and no error is returned. An
// unreadable file is an error; a channel drop mid-transfer is not — the
// transfer is abandoned per protocol.
func (u *Uploader) Upload(ctx context.Context, path string) error {
	if u.ch == nil || u.ch.IsClosed() || !u.sess.Authenticated() {
		u.log.Debug(ctx, "upload skipped: no channel or not authenticated", "path", path)
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	filename := filepath.Base(path)
	size := info.Size()
	totalChunks := int((size + ChunkSize - 1) / ChunkSize)
	if totalChunks == 0 {
		// Empty file: zero chunk messages, nothing to emit.
		u.log.Info(ctx, "empty file, nothing to send", "filename", filename)
		return nil
	}

	fileID := NewFileID()
	u.track(fileID, filename, totalChunks)
	defer u.untrack(fileID)

	log := u.log.With("fileid", fileID, "filename", filename, "total_chunks", totalChunks)
	log.Info(ctx, "starting transfer", "size", size)

	buf := make([]byte, ChunkSize)
	for k := 0; k < totalChunks; k++ {
		want := ChunkSize
		if remaining := size - int64(k)*ChunkSize; remaining < int64(want) {
			want = int(remaining)
		}

		if _, err := io.ReadFull(f, buf[:want]); err != nil {
			return err
		}

		msg := chunkMessage{
			Filename:    filename,
			Token:       u.sess.Token(),
			FileID:      fileID,
			ChunkNumber: k,
			TotalChunks: totalChunks,
			Chunk:       base64.StdEncoding.EncodeToString(buf[:want]),
		}

		if err := u.ch.Emit("upload", msg); err != nil {
			if errors.Is(err, common.ErrChannelClosed) {
				log.Warn(ctx, "channel dropped mid-transfer, abandoning", "chunk_number", k)
				return nil
			}
			return err
		}
		u.advance(fileID)

		if k < totalChunks-1 {
			select {
			case <-time.After(u.pacing):
			case <-ctx.Done():
				log.Warn(ctx, "transfer cancelled", "chunk_number", k)
				return ctx.Err()
			}
		}
	}

	log.Info(ctx, "transfer complete")
	return nil
}

// Transfers returns a snapshot of in-flight transfers, sorted by fileid.
func (u *Uploader) Transfers() []Progress {
	u.mu.Lock()
	defer u.mu.Unlock()

	out := make([]Progress, 0, len(u.transfers))
	for _, p := range u.transfers {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FileID < out[j].FileID })
	return out
}

func (u *Uploader) track(fileID, filename string, total int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.transfers[fileID] = &Progress{FileID: fileID, Filename: filename, Total: total}
}

func (u *Uploader) advance(fileID string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if p, ok := u.transfers[fileID]; ok {
		p.Sent++
	}
}

func (u *Uploader) untrack(fileID string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	delete(u.transfers, fileID)
}
