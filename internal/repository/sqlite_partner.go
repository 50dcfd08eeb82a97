package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/grantplan/internal/db"
	"github.com/alexanderramin/grantplan/internal/domain"
)

// SQLitePartnerRepo implements PartnerRepo using a SQLite database.
type SQLitePartnerRepo struct {
	db db.DBTX
}

// NewSQLitePartnerRepo creates a new SQLitePartnerRepo.
func NewSQLitePartnerRepo(db db.DBTX) *SQLitePartnerRepo {
	return &SQLitePartnerRepo{db: db}
}

const partnerColumns = `id, project_id, organization_id, name, role, budget, nation, city, type,
	email, phone, website, address, created_at, updated_at`

func (r *SQLitePartnerRepo) Create(ctx context.Context, p *domain.Partner) error {
	query := `INSERT INTO partners (` + partnerColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.ProjectID, nullableString(p.OrganizationID),
		p.Name, string(p.Role), p.Budget,
		p.Nation, p.City, p.Type,
		p.Email, p.Phone, p.Website, p.Address,
		formatTimestamp(p.CreatedAt), formatTimestamp(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting partner: %w", err)
	}
	return nil
}

func (r *SQLitePartnerRepo) GetByID(ctx context.Context, id string) (*domain.Partner, error) {
	query := `SELECT ` + partnerColumns + ` FROM partners WHERE id = ?`
	p, err := scanPartner(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFoundOr(err, "partner")
	}
	return p, nil
}

// ListByProject returns partners in creation order.
func (r *SQLitePartnerRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Partner, error) {
	query := `SELECT ` + partnerColumns + ` FROM partners WHERE project_id = ? ORDER BY rowid`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing partners: %w", err)
	}
	defer rows.Close()

	var partners []*domain.Partner
	for rows.Next() {
		p, err := scanPartner(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning partner row: %w", err)
		}
		partners = append(partners, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating partners: %w", err)
	}
	return partners, nil
}

// DeleteByProject removes all partners; their links and memberships cascade.
func (r *SQLitePartnerRepo) DeleteByProject(ctx context.Context, projectID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM partners WHERE project_id = ?`, projectID); err != nil {
		return fmt.Errorf("deleting partners: %w", err)
	}
	return nil
}

func scanPartner(row scanner) (*domain.Partner, error) {
	var p domain.Partner
	var orgID sql.NullString
	var role, createdAt, updatedAt string

	err := row.Scan(
		&p.ID, &p.ProjectID, &orgID,
		&p.Name, &role, &p.Budget,
		&p.Nation, &p.City, &p.Type,
		&p.Email, &p.Phone, &p.Website, &p.Address,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.OrganizationID = stringPtr(orgID)
	p.Role = domain.PartnerRole(role)
	if err := parseTimestamps(createdAt, updatedAt, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
