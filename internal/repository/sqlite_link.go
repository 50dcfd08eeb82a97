package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/grantplan/internal/db"
	"github.com/alexanderramin/grantplan/internal/domain"
)

// SQLiteLinkRepo stores work-partner and task-partner associations.
type SQLiteLinkRepo struct {
	db db.DBTX
}

func NewSQLiteLinkRepo(db db.DBTX) *SQLiteLinkRepo {
	return &SQLiteLinkRepo{db: db}
}

func (r *SQLiteLinkRepo) CreateWorkPartner(ctx context.Context, l *domain.WorkPartner) error {
	query := `INSERT INTO work_partners (id, work_item_id, partner_id, role, budget) VALUES (?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, l.ID, l.WorkItemID, l.PartnerID, l.Role, l.Budget); err != nil {
		return fmt.Errorf("inserting work partner: %w", err)
	}
	return nil
}

func (r *SQLiteLinkRepo) CreateTaskPartner(ctx context.Context, l *domain.TaskPartner) error {
	query := `INSERT INTO task_partners (id, task_id, partner_id, role, budget) VALUES (?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, l.ID, l.TaskID, l.PartnerID, l.Role, l.Budget); err != nil {
		return fmt.Errorf("inserting task partner: %w", err)
	}
	return nil
}

func (r *SQLiteLinkRepo) ListWorkPartnersByProject(ctx context.Context, projectID string) ([]*domain.WorkPartner, error) {
	query := `SELECT l.id, l.work_item_id, l.partner_id, l.role, l.budget
		FROM work_partners l
		JOIN work_items w ON w.id = l.work_item_id
		WHERE w.project_id = ?
		ORDER BY l.rowid`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing work partners: %w", err)
	}
	defer rows.Close()

	var links []*domain.WorkPartner
	for rows.Next() {
		var l domain.WorkPartner
		if err := rows.Scan(&l.ID, &l.WorkItemID, &l.PartnerID, &l.Role, &l.Budget); err != nil {
			return nil, fmt.Errorf("scanning work partner row: %w", err)
		}
		links = append(links, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating work partners: %w", err)
	}
	return links, nil
}

func (r *SQLiteLinkRepo) ListTaskPartnersByProject(ctx context.Context, projectID string) ([]*domain.TaskPartner, error) {
	query := `SELECT l.id, l.task_id, l.partner_id, l.role, l.budget
		FROM task_partners l
		JOIN tasks t ON t.id = l.task_id
		JOIN work_items w ON w.id = t.work_item_id
		WHERE w.project_id = ?
		ORDER BY l.rowid`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing task partners: %w", err)
	}
	defer rows.Close()

	var links []*domain.TaskPartner
	for rows.Next() {
		var l domain.TaskPartner
		if err := rows.Scan(&l.ID, &l.TaskID, &l.PartnerID, &l.Role, &l.Budget); err != nil {
			return nil, fmt.Errorf("scanning task partner row: %w", err)
		}
		links = append(links, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating task partners: %w", err)
	}
	return links, nil
}
