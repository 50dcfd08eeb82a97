package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/grantplan/internal/db"
	"github.com/alexanderramin/grantplan/internal/domain"
)

// SQLiteWorkItemRepo implements WorkItemRepo using a SQLite database.
type SQLiteWorkItemRepo struct {
	db db.DBTX
}

// NewSQLiteWorkItemRepo creates a new SQLiteWorkItemRepo.
func NewSQLiteWorkItemRepo(db db.DBTX) *SQLiteWorkItemRepo {
	return &SQLiteWorkItemRepo{db: db}
}

const workItemColumns = `id, project_id, section_id, title, description, start_date, end_date, budget, created_at, updated_at`

func (r *SQLiteWorkItemRepo) Create(ctx context.Context, w *domain.WorkItem) error {
	query := `INSERT INTO work_items (` + workItemColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		w.ID,
		w.ProjectID,
		nullableString(w.SectionID),
		w.Title,
		w.Description,
		formatDate(w.StartDate),
		formatDate(w.EndDate),
		w.Budget,
		formatTimestamp(w.CreatedAt),
		formatTimestamp(w.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting work item: %w", err)
	}
	return nil
}

func (r *SQLiteWorkItemRepo) GetByID(ctx context.Context, id string) (*domain.WorkItem, error) {
	query := `SELECT ` + workItemColumns + ` FROM work_items WHERE id = ?`
	w, err := scanWorkItem(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFoundOr(err, "work item")
	}
	return w, nil
}

// ListByProject returns every work item of a project, assigned or not, in
// start-date order with insertion order breaking ties.
func (r *SQLiteWorkItemRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.WorkItem, error) {
	query := `SELECT ` + workItemColumns + ` FROM work_items
		WHERE project_id = ? ORDER BY start_date, rowid`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing work items: %w", err)
	}
	defer rows.Close()

	var items []*domain.WorkItem
	for rows.Next() {
		w, err := scanWorkItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning work item row: %w", err)
		}
		items = append(items, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating work items: %w", err)
	}
	return items, nil
}

// DeleteByProject removes all work items. Tasks, activities, partner links
// and the modules below them go with them by cascade.
func (r *SQLiteWorkItemRepo) DeleteByProject(ctx context.Context, projectID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM work_items WHERE project_id = ?`, projectID); err != nil {
		return fmt.Errorf("deleting work items: %w", err)
	}
	return nil
}

func scanWorkItem(row scanner) (*domain.WorkItem, error) {
	var w domain.WorkItem
	var sectionID sql.NullString
	var startStr, endStr, createdAt, updatedAt string

	err := row.Scan(
		&w.ID, &w.ProjectID, &sectionID,
		&w.Title, &w.Description,
		&startStr, &endStr, &w.Budget,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	w.SectionID = stringPtr(sectionID)
	if err := parseDate("start_date", startStr, &w.StartDate); err != nil {
		return nil, err
	}
	if err := parseDate("end_date", endStr, &w.EndDate); err != nil {
		return nil, err
	}
	if err := parseTimestamps(createdAt, updatedAt, &w.CreatedAt, &w.UpdatedAt); err != nil {
		return nil, err
	}
	return &w, nil
}
