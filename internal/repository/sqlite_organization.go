package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/grantplan/internal/db"
	"github.com/alexanderramin/grantplan/internal/domain"
)

// SQLiteOrganizationRepo implements OrganizationRepo using a SQLite database.
type SQLiteOrganizationRepo struct {
	db db.DBTX
}

func NewSQLiteOrganizationRepo(db db.DBTX) *SQLiteOrganizationRepo {
	return &SQLiteOrganizationRepo{db: db}
}

const organizationColumns = `id, name, nation, city, type, email, phone, website, address, created_at, updated_at`

func (r *SQLiteOrganizationRepo) Create(ctx context.Context, o *domain.Organization) error {
	query := `INSERT INTO organizations (` + organizationColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		o.ID, o.Name, o.Nation, o.City, o.Type,
		o.Email, o.Phone, o.Website, o.Address,
		formatTimestamp(o.CreatedAt), formatTimestamp(o.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting organization: %w", err)
	}
	return nil
}

func (r *SQLiteOrganizationRepo) GetByID(ctx context.Context, id string) (*domain.Organization, error) {
	query := `SELECT ` + organizationColumns + ` FROM organizations WHERE id = ?`
	o, err := scanOrganization(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFoundOr(err, "organization")
	}
	return o, nil
}

func (r *SQLiteOrganizationRepo) List(ctx context.Context) ([]*domain.Organization, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+organizationColumns+` FROM organizations ORDER BY name, rowid`)
	if err != nil {
		return nil, fmt.Errorf("listing organizations: %w", err)
	}
	defer rows.Close()

	var orgs []*domain.Organization
	for rows.Next() {
		o, err := scanOrganization(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning organization row: %w", err)
		}
		orgs = append(orgs, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating organizations: %w", err)
	}
	return orgs, nil
}

func scanOrganization(row scanner) (*domain.Organization, error) {
	var o domain.Organization
	var createdAt, updatedAt string
	err := row.Scan(
		&o.ID, &o.Name, &o.Nation, &o.City, &o.Type,
		&o.Email, &o.Phone, &o.Website, &o.Address,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := parseTimestamps(createdAt, updatedAt, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	return &o, nil
}

// SQLiteAffiliationRepo implements AffiliationRepo using a SQLite database.
type SQLiteAffiliationRepo struct {
	db db.DBTX
}

func NewSQLiteAffiliationRepo(db db.DBTX) *SQLiteAffiliationRepo {
	return &SQLiteAffiliationRepo{db: db}
}

func (r *SQLiteAffiliationRepo) Create(ctx context.Context, a *domain.Affiliation) error {
	query := `INSERT INTO affiliations (id, user_id, organization_id, position, created_at) VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, a.ID, a.UserID, a.OrganizationID, a.Position, formatTimestamp(a.CreatedAt))
	if err != nil {
		return fmt.Errorf("inserting affiliation: %w", err)
	}
	return nil
}

func (r *SQLiteAffiliationRepo) Find(ctx context.Context, userID, organizationID string) (*domain.Affiliation, error) {
	query := `SELECT id, user_id, organization_id, position, created_at
		FROM affiliations WHERE user_id = ? AND organization_id = ?`
	a, err := scanAffiliation(r.db.QueryRowContext(ctx, query, userID, organizationID))
	if err != nil {
		return nil, notFoundOr(err, "affiliation")
	}
	return a, nil
}

func (r *SQLiteAffiliationRepo) ListByUser(ctx context.Context, userID string) ([]*domain.Affiliation, error) {
	query := `SELECT id, user_id, organization_id, position, created_at
		FROM affiliations WHERE user_id = ? ORDER BY created_at, rowid`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing affiliations: %w", err)
	}
	defer rows.Close()

	var out []*domain.Affiliation
	for rows.Next() {
		a, err := scanAffiliation(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning affiliation row: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating affiliations: %w", err)
	}
	return out, nil
}

func scanAffiliation(row scanner) (*domain.Affiliation, error) {
	var a domain.Affiliation
	var createdAt string
	if err := row.Scan(&a.ID, &a.UserID, &a.OrganizationID, &a.Position, &createdAt); err != nil {
		return nil, err
	}
	if err := parseTimestamps(createdAt, "", &a.CreatedAt, nil); err != nil {
		return nil, err
	}
	return &a, nil
}
