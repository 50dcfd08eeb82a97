package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/grantplan/internal/db"
	"github.com/alexanderramin/grantplan/internal/domain"
)

// SQLiteTaskRepo implements TaskRepo using a SQLite database.
type SQLiteTaskRepo struct {
	db db.DBTX
}

func NewSQLiteTaskRepo(db db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: db}
}

func (r *SQLiteTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	query := `INSERT INTO tasks (id, work_item_id, title, description, start_date, end_date, budget, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID, t.WorkItemID, t.Title, t.Description,
		formatDate(t.StartDate), formatDate(t.EndDate), t.Budget,
		formatTimestamp(t.CreatedAt), formatTimestamp(t.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error) {
	query := `SELECT t.id, t.work_item_id, t.title, t.description, t.start_date, t.end_date, t.budget, t.created_at, t.updated_at
		FROM tasks t
		JOIN work_items w ON w.id = t.work_item_id
		WHERE w.project_id = ?
		ORDER BY t.start_date, t.rowid`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		var t domain.Task
		var startStr, endStr, createdAt, updatedAt string
		if err := rows.Scan(&t.ID, &t.WorkItemID, &t.Title, &t.Description,
			&startStr, &endStr, &t.Budget, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning task row: %w", err)
		}
		if err := parseDate("start_date", startStr, &t.StartDate); err != nil {
			return nil, err
		}
		if err := parseDate("end_date", endStr, &t.EndDate); err != nil {
			return nil, err
		}
		if err := parseTimestamps(createdAt, updatedAt, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return tasks, nil
}
