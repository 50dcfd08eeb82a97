package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/grantplan/internal/db"
	"github.com/alexanderramin/grantplan/internal/domain"
)

// SQLiteModuleRepo implements ModuleRepo using a SQLite database. The
// parent reference is stored as parent_kind plus exactly one non-null FK
// column; the schema CHECK rejects anything else.
type SQLiteModuleRepo struct {
	db db.DBTX
}

// NewSQLiteModuleRepo creates a new SQLiteModuleRepo.
func NewSQLiteModuleRepo(db db.DBTX) *SQLiteModuleRepo {
	return &SQLiteModuleRepo{db: db}
}

const moduleColumns = `id, parent_kind, project_id, section_id, work_id, task_id, activity_id,
	title, subtitle, order_index, guidelines, char_limit, status, content, created_at, updated_at`

// parentColumns spreads a ParentRef over the five FK columns in schema order.
func parentColumns(ref domain.ParentRef) [5]interface{} {
	var cols [5]interface{}
	switch ref.Kind {
	case domain.ParentProject:
		cols[0] = ref.ID
	case domain.ParentSection:
		cols[1] = ref.ID
	case domain.ParentWork:
		cols[2] = ref.ID
	case domain.ParentTask:
		cols[3] = ref.ID
	case domain.ParentActivity:
		cols[4] = ref.ID
	}
	return cols
}

func (r *SQLiteModuleRepo) Create(ctx context.Context, m *domain.Module) error {
	if err := m.Validate(); err != nil {
		return fmt.Errorf("invalid module %q: %w", m.Title, err)
	}
	parents := parentColumns(m.Parent)
	query := `INSERT INTO modules (` + moduleColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		m.ID,
		string(m.Parent.Kind),
		parents[0], parents[1], parents[2], parents[3], parents[4],
		m.Title,
		m.Subtitle,
		m.OrderIndex,
		m.Guidelines,
		m.CharLimit,
		string(m.Status),
		m.Content,
		formatTimestamp(m.CreatedAt),
		formatTimestamp(m.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting module: %w", err)
	}
	return nil
}

func (r *SQLiteModuleRepo) GetByID(ctx context.Context, id string) (*domain.Module, error) {
	query := `SELECT ` + moduleColumns + ` FROM modules WHERE id = ?`
	m, err := scanModule(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFoundOr(err, "module")
	}
	return m, nil
}

// ListByProject returns the modules at every level of a project's tree,
// ordered by order_index.
func (r *SQLiteModuleRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Module, error) {
	query := `SELECT ` + moduleColumns + ` FROM modules
		WHERE project_id = ?
		   OR section_id IN (SELECT id FROM sections WHERE project_id = ?)
		   OR work_id IN (SELECT id FROM work_items WHERE project_id = ?)
		   OR task_id IN (SELECT t.id FROM tasks t
				JOIN work_items w ON w.id = t.work_item_id WHERE w.project_id = ?)
		   OR activity_id IN (SELECT a.id FROM activities a
				JOIN tasks t ON t.id = a.task_id
				JOIN work_items w ON w.id = t.work_item_id WHERE w.project_id = ?)
		ORDER BY order_index, rowid`
	rows, err := r.db.QueryContext(ctx, query, projectID, projectID, projectID, projectID, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing modules: %w", err)
	}
	defer rows.Close()

	var modules []*domain.Module
	for rows.Next() {
		m, err := scanModule(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning module row: %w", err)
		}
		modules = append(modules, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating modules: %w", err)
	}
	return modules, nil
}

// DeleteProjectLevel removes modules attached directly to the project.
func (r *SQLiteModuleRepo) DeleteProjectLevel(ctx context.Context, projectID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM modules WHERE project_id = ?`, projectID); err != nil {
		return fmt.Errorf("deleting project modules: %w", err)
	}
	return nil
}

func scanModule(row scanner) (*domain.Module, error) {
	var m domain.Module
	var kind, status, createdAt, updatedAt string
	var parents [5]sql.NullString

	err := row.Scan(
		&m.ID, &kind,
		&parents[0], &parents[1], &parents[2], &parents[3], &parents[4],
		&m.Title, &m.Subtitle, &m.OrderIndex, &m.Guidelines, &m.CharLimit,
		&status, &m.Content,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	var parentID string
	for _, p := range parents {
		if p.Valid {
			parentID = p.String
			break
		}
	}
	ref, err := domain.NewParentRef(domain.ParentKind(kind), parentID)
	if err != nil {
		return nil, fmt.Errorf("module %s: %w", m.ID, err)
	}
	m.Parent = ref
	m.Status = domain.ModuleStatus(status)
	if err := parseTimestamps(createdAt, updatedAt, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}
