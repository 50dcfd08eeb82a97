package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/grantplan/internal/db"
	"github.com/alexanderramin/grantplan/internal/domain"
)

// SQLiteProjectRepo implements ProjectRepo using a SQLite database.
type SQLiteProjectRepo struct {
	db db.DBTX
}

// NewSQLiteProjectRepo creates a new SQLiteProjectRepo.
func NewSQLiteProjectRepo(db db.DBTX) *SQLiteProjectRepo {
	return &SQLiteProjectRepo{db: db}
}

const projectColumns = `id, title, acronym, start_date, duration_months, national_agency, language, is_template, created_at, updated_at`

func (r *SQLiteProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	query := `INSERT INTO projects (` + projectColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.Title,
		p.Acronym,
		formatDate(p.StartDate),
		p.DurationMonths,
		p.NationalAgency,
		p.Language,
		boolToInt(p.IsTemplate),
		formatTimestamp(p.CreatedAt),
		formatTimestamp(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}
	return nil
}

func (r *SQLiteProjectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = ?`
	p, err := scanProject(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFoundOr(err, "project")
	}
	return p, nil
}

func (r *SQLiteProjectRepo) List(ctx context.Context, templatesOnly bool) ([]*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects`
	if templatesOnly {
		query += ` WHERE is_template = 1`
	}
	query += ` ORDER BY created_at, title`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var projects []*domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning project row: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating projects: %w", err)
	}
	return projects, nil
}

func (r *SQLiteProjectRepo) SetTemplate(ctx context.Context, id string, isTemplate bool) error {
	query := `UPDATE projects SET is_template = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, boolToInt(isTemplate), nowUTC(), id)
	if err != nil {
		return fmt.Errorf("updating project template flag: %w", err)
	}
	return rowsAffectedOrNotFound(res, "project")
}

// Touch bumps updated_at without changing any metadata.
func (r *SQLiteProjectRepo) Touch(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE projects SET updated_at = ? WHERE id = ?`, nowUTC(), id)
	if err != nil {
		return fmt.Errorf("touching project: %w", err)
	}
	return rowsAffectedOrNotFound(res, "project")
}

func (r *SQLiteProjectRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	return rowsAffectedOrNotFound(res, "project")
}

func scanProject(row scanner) (*domain.Project, error) {
	var p domain.Project
	var startDateStr, createdAtStr, updatedAtStr string
	var isTemplate int

	err := row.Scan(
		&p.ID, &p.Title, &p.Acronym,
		&startDateStr, &p.DurationMonths,
		&p.NationalAgency, &p.Language, &isTemplate,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		return nil, err
	}

	p.IsTemplate = intToBool(isTemplate)
	if err := parseDate("start_date", startDateStr, &p.StartDate); err != nil {
		return nil, err
	}
	if err := parseTimestamps(createdAtStr, updatedAtStr, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
