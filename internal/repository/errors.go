// Package repository persists the two things this service keeps on a
// database: session snapshots (so a wizard survives a service restart)
// and booking receipts (so a confirmed booking leaves a durable record).
// Sentinel errors let handlers distinguish "nothing stored" from real
// database failures.
package repository

import "errors"

// ErrSnapshotNotFound is returned when no snapshot exists for a session.
// Handlers treat this as "start fresh", not as a failure.
var ErrSnapshotNotFound = errors.New("snapshot not found")
