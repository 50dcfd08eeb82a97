package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/grantplan/internal/db"
	"github.com/alexanderramin/grantplan/internal/domain"
)

// SQLiteActivityRepo implements ActivityRepo using a SQLite database.
type SQLiteActivityRepo struct {
	db db.DBTX
}

func NewSQLiteActivityRepo(db db.DBTX) *SQLiteActivityRepo {
	return &SQLiteActivityRepo{db: db}
}

func (r *SQLiteActivityRepo) Create(ctx context.Context, a *domain.Activity) error {
	query := `INSERT INTO activities (id, task_id, title, description, estimated_start, estimated_end, allocated_amount, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.TaskID, a.Title, a.Description,
		formatDate(a.EstimatedStart), formatDate(a.EstimatedEnd), a.AllocatedAmount,
		formatTimestamp(a.CreatedAt), formatTimestamp(a.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting activity: %w", err)
	}
	return nil
}

func (r *SQLiteActivityRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Activity, error) {
	query := `SELECT a.id, a.task_id, a.title, a.description, a.estimated_start, a.estimated_end,
			a.allocated_amount, a.created_at, a.updated_at
		FROM activities a
		JOIN tasks t ON t.id = a.task_id
		JOIN work_items w ON w.id = t.work_item_id
		WHERE w.project_id = ?
		ORDER BY a.estimated_start, a.rowid`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing activities: %w", err)
	}
	defer rows.Close()

	var activities []*domain.Activity
	for rows.Next() {
		var a domain.Activity
		var startStr, endStr, createdAt, updatedAt string
		if err := rows.Scan(&a.ID, &a.TaskID, &a.Title, &a.Description,
			&startStr, &endStr, &a.AllocatedAmount, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning activity row: %w", err)
		}
		if err := parseDate("estimated_start", startStr, &a.EstimatedStart); err != nil {
			return nil, err
		}
		if err := parseDate("estimated_end", endStr, &a.EstimatedEnd); err != nil {
			return nil, err
		}
		if err := parseTimestamps(createdAt, updatedAt, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		activities = append(activities, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating activities: %w", err)
	}
	return activities, nil
}
