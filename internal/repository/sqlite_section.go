package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/grantplan/internal/db"
	"github.com/alexanderramin/grantplan/internal/domain"
)

// SQLiteSectionRepo implements SectionRepo using a SQLite database.
type SQLiteSectionRepo struct {
	db db.DBTX
}

func NewSQLiteSectionRepo(db db.DBTX) *SQLiteSectionRepo {
	return &SQLiteSectionRepo{db: db}
}

func (r *SQLiteSectionRepo) Create(ctx context.Context, s *domain.Section) error {
	query := `INSERT INTO sections (id, project_id, title, order_index, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.ProjectID, s.Title, s.OrderIndex,
		formatTimestamp(s.CreatedAt), formatTimestamp(s.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting section: %w", err)
	}
	return nil
}

func (r *SQLiteSectionRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Section, error) {
	query := `SELECT id, project_id, title, order_index, created_at, updated_at
		FROM sections WHERE project_id = ? ORDER BY order_index, rowid`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing sections: %w", err)
	}
	defer rows.Close()

	var sections []*domain.Section
	for rows.Next() {
		var s domain.Section
		var createdAt, updatedAt string
		if err := rows.Scan(&s.ID, &s.ProjectID, &s.Title, &s.OrderIndex, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning section row: %w", err)
		}
		if err := parseTimestamps(createdAt, updatedAt, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		sections = append(sections, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sections: %w", err)
	}
	return sections, nil
}

// DeleteByProject removes every section of a project together with the
// modules attached to them.
func (r *SQLiteSectionRepo) DeleteByProject(ctx context.Context, projectID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sections WHERE project_id = ?`, projectID); err != nil {
		return fmt.Errorf("deleting sections: %w", err)
	}
	return nil
}
