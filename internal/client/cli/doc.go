// Package cli provides the interactive TripTales moderation client.
//
// It wires configuration, the HTTP API client and a REPL. A background
// watcher pings the server and flips the prompt between online and offline.
//
// Commands cover the review workflow: login/logout, list and pending, show
// with the stored proof verdict, and approve/reject with an optional note.
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
