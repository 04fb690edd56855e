package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/iliyamo/bus-ticket-booking/internal/model"
)

// SnapshotRepo stores booking-session snapshots keyed by session id.  The
// snapshot is the controller's persistable view (step, selection,
// passengers) serialized as JSON; latch and cache internals never reach
// this table.  Expected schema:
//
//   CREATE TABLE session_snapshots (
//     session_id VARCHAR(64) PRIMARY KEY,
//     snapshot   JSON NOT NULL,
//     updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
//                ON UPDATE CURRENT_TIMESTAMP
//   );
type SnapshotRepo struct {
	db *sql.DB
}

// NewSnapshotRepo returns a SnapshotRepo bound to the provided database.
func NewSnapshotRepo(db *sql.DB) *SnapshotRepo { return &SnapshotRepo{db: db} }

// Save upserts the snapshot for a session.
func (r *SnapshotRepo) Save(ctx context.Context, sessionID string, snap model.Snapshot) error {
	body, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	const q = `INSERT INTO session_snapshots (session_id, snapshot) VALUES (?, ?)
               ON DUPLICATE KEY UPDATE snapshot = VALUES(snapshot)`
	_, err = r.db.ExecContext(ctx, q, sessionID, body)
	return err
}

// Load returns the snapshot stored for a session, or ErrSnapshotNotFound.
func (r *SnapshotRepo) Load(ctx context.Context, sessionID string) (model.Snapshot, error) {
	const q = `SELECT snapshot FROM session_snapshots WHERE session_id = ?`
	var body []byte
	if err := r.db.QueryRowContext(ctx, q, sessionID).Scan(&body); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Snapshot{}, ErrSnapshotNotFound
		}
		return model.Snapshot{}, err
	}
	var snap model.Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return model.Snapshot{}, err
	}
	return snap, nil
}

// Delete removes the snapshot for a session.  Deleting a missing snapshot
// is not an error.
func (r *SnapshotRepo) Delete(ctx context.Context, sessionID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM session_snapshots WHERE session_id = ?`, sessionID)
	return err
}
