package cli

import (
	"context"
	"errors"
	"fmt"

	"invoicer/internal/common"
)

// Upload sends each named file to the server over the channel. Transfers
// run concurrently and progress can be inspected with Transfers.
func (a *App) Upload(ctx context.Context, paths []string) error {
	if !a.connected() {
		printlnFn("Not connected")
		return common.ErrChannelClosed
	}

	if err := a.up.UploadAll(ctx, paths); err != nil {
		if errors.Is(err, common.ErrUploadsDisabled) {
			printlnFn(err.Error())
			return err
		}
		printlnFn("Upload failed:", err.Error())
		return err
	}

	printlnFn("Upload started for", len(paths), "file(s)")
	return nil
}

// List prints the cached file table and requests a fresh copy from the
// server. The cache reflects the last list response that arrived; a follow-up
// list shows any changes the refresh brought in.
func (a *App) List(ctx context.Context) error {
	if !a.connected() {
		printlnFn("Not connected")
		return common.ErrChannelClosed
	}

	a.reg.Refresh()

	files := a.reg.Snapshot()
	if len(files) == 0 {
		printlnFn("No files")
		return nil
	}
	for _, f := range files {
		printlnFn(fmt.Sprintf("%s  %-30s  %s", f.ID, f.Filename, f.Status))
	}
	return nil
}

// Process asks the server to run the processing pipeline on a file.
func (a *App) Process(id string) error {
	return a.action(id, "Processing started for", a.dispProcess)
}

// Download fetches a processed file and saves it to the download directory.
func (a *App) Download(id string) error {
	return a.action(id, "Download requested for", a.dispDownload)
}

// Delete removes a file from the server.
func (a *App) Delete(id string) error {
	return a.action(id, "Deletion requested for", a.dispDelete)
}

// Transfers prints the progress of in-flight uploads.
func (a *App) Transfers() error {
	if a.up == nil {
		printlnFn("Not connected")
		return common.ErrChannelClosed
	}

	transfers := a.up.Transfers()
	if len(transfers) == 0 {
		printlnFn("No active transfers")
		return nil
	}
	for _, t := range transfers {
		printlnFn(fmt.Sprintf("%s  %-30s  %d/%d chunks", t.FileID, t.Filename, t.Sent, t.Total))
	}
	return nil
}

// action runs a per-file dispatcher command and translates its sentinel
// errors into user notices.
func (a *App) action(id, okNotice string, fn func(string) error) error {
	if !a.connected() {
		printlnFn("Not connected")
		return common.ErrChannelClosed
	}

	if err := fn(id); err != nil {
		switch {
		case errors.Is(err, common.ErrUnknownFile):
			printlnFn("Unknown file:", id)
		case errors.Is(err, common.ErrActionNotAllowed):
			printlnFn("Action not allowed for file in its current state:", id)
		default:
			printlnFn("Command failed:", err.Error())
		}
		return err
	}

	printlnFn(okNotice, id)
	return nil
}

// The indirections below keep action generic over the dispatcher methods
// while the dispatcher itself stays nil-able between connections.
func (a *App) dispProcess(id string) error  { return a.disp.Process(id) }
func (a *App) dispDownload(id string) error { return a.disp.Download(id) }
func (a *App) dispDelete(id string) error   { return a.disp.Delete(id) }
