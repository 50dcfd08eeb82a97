package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/grantplan/internal/db"
	"github.com/alexanderramin/grantplan/internal/domain"
)

// SQLiteSnapshotRepo implements SnapshotRepo. Snapshots have no Update;
// the schema rejects UPDATE on the table as well.
type SQLiteSnapshotRepo struct {
	db db.DBTX
}

func NewSQLiteSnapshotRepo(db db.DBTX) *SQLiteSnapshotRepo {
	return &SQLiteSnapshotRepo{db: db}
}

func (r *SQLiteSnapshotRepo) Create(ctx context.Context, s *domain.Snapshot) error {
	query := `INSERT INTO snapshots (id, project_id, name, rev, payload, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.ProjectID, s.Name, s.Rev, s.Payload, s.CreatedBy, formatTimestamp(s.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting snapshot: %w", err)
	}
	return nil
}

func (r *SQLiteSnapshotRepo) GetByID(ctx context.Context, id string) (*domain.Snapshot, error) {
	query := `SELECT id, project_id, name, rev, payload, created_by, created_at FROM snapshots WHERE id = ?`
	s, err := scanSnapshot(r.db.QueryRowContext(ctx, query, id), true)
	if err != nil {
		return nil, notFoundOr(err, "snapshot")
	}
	return s, nil
}

// ListByProject returns snapshot headers, newest first, without payloads.
func (r *SQLiteSnapshotRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Snapshot, error) {
	query := `SELECT id, project_id, name, rev, created_by, created_at
		FROM snapshots WHERE project_id = ? ORDER BY created_at DESC, rowid DESC`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()

	var out []*domain.Snapshot
	for rows.Next() {
		s, err := scanSnapshot(rows, false)
		if err != nil {
			return nil, fmt.Errorf("scanning snapshot row: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating snapshots: %w", err)
	}
	return out, nil
}

func scanSnapshot(row scanner, withPayload bool) (*domain.Snapshot, error) {
	var s domain.Snapshot
	var createdAt string
	dest := []any{&s.ID, &s.ProjectID, &s.Name, &s.Rev}
	if withPayload {
		dest = append(dest, &s.Payload)
	}
	dest = append(dest, &s.CreatedBy, &createdAt)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if err := parseTimestamps(createdAt, "", &s.CreatedAt, nil); err != nil {
		return nil, err
	}
	return &s, nil
}
