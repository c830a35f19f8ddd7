// Package cli provides the interactive invoicer command-line client.
//
// It wires configuration, the local credential store, the auth API, and the
// persistent ingestion channel into an interactive REPL. Typical flow:
// restore a saved session, open the channel, sync the file list, and execute
// user commands.
//
// Key features:
//   - Login / Register / Logout against the auth service
//   - Upload invoice files in fixed-size chunks
//   - List files and their processing status
//   - Process, download, and delete uploaded files
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
