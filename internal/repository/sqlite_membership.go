package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/grantplan/internal/db"
	"github.com/alexanderramin/grantplan/internal/domain"
)

// SQLiteMembershipRepo implements MembershipRepo using a SQLite database.
type SQLiteMembershipRepo struct {
	db db.DBTX
}

func NewSQLiteMembershipRepo(db db.DBTX) *SQLiteMembershipRepo {
	return &SQLiteMembershipRepo{db: db}
}

const membershipColumns = `id, project_id, user_id, partner_id, affiliation_id, role, project_role, created_at`

func (r *SQLiteMembershipRepo) Create(ctx context.Context, m *domain.Membership) error {
	query := `INSERT INTO memberships (` + membershipColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		m.ID, m.ProjectID, m.UserID, m.PartnerID,
		nullableString(m.AffiliationID),
		string(m.Role), m.ProjectRole,
		formatTimestamp(m.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting membership: %w", err)
	}
	return nil
}

func (r *SQLiteMembershipRepo) GetByProjectAndUser(ctx context.Context, projectID, userID string) (*domain.Membership, error) {
	query := `SELECT ` + membershipColumns + ` FROM memberships WHERE project_id = ? AND user_id = ?`
	m, err := scanMembership(r.db.QueryRowContext(ctx, query, projectID, userID))
	if err != nil {
		return nil, notFoundOr(err, "membership")
	}
	return m, nil
}

func (r *SQLiteMembershipRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Membership, error) {
	query := `SELECT ` + membershipColumns + ` FROM memberships WHERE project_id = ? ORDER BY rowid`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing memberships: %w", err)
	}
	defer rows.Close()

	var out []*domain.Membership
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning membership row: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating memberships: %w", err)
	}
	return out, nil
}

func scanMembership(row scanner) (*domain.Membership, error) {
	var m domain.Membership
	var affID sql.NullString
	var role, createdAt string
	if err := row.Scan(&m.ID, &m.ProjectID, &m.UserID, &m.PartnerID, &affID, &role, &m.ProjectRole, &createdAt); err != nil {
		return nil, err
	}
	m.AffiliationID = stringPtr(affID)
	m.Role = domain.MemberRole(role)
	if err := parseTimestamps(createdAt, "", &m.CreatedAt, nil); err != nil {
		return nil, err
	}
	return &m, nil
}
