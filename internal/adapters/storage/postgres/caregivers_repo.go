package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"baby-health-tracker/internal/domain/caregivers"
)

type CaregiverGrantsRepo struct {
	db *sql.DB
}

func NewCaregiverGrantsRepo(db *sql.DB) *CaregiverGrantsRepo {
	return &CaregiverGrantsRepo{db: db}
}

const grantColumns = `
	id, baby_id, owner_user_id, caregiver_user_id,
	scopes, status,
	created_at, updated_at, revoked_at`

func (r *CaregiverGrantsRepo) Create(ctx context.Context, g caregivers.Grant) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO caregiver_grants (`+grantColumns+`
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		g.ID,
		g.BabyID,
		g.OwnerUserID,
		g.CaregiverUserID,
		scopesToText(g.Scopes),
		string(g.Status),
		g.CreatedAt,
		g.UpdatedAt,
		toNullTime(g.RevokedAt),
	)
	return err
}

func (r *CaregiverGrantsRepo) Update(ctx context.Context, g caregivers.Grant) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE caregiver_grants
		SET
			scopes = $2,
			status = $3,
			updated_at = $4,
			revoked_at = $5
		WHERE id = $1
	`,
		g.ID,
		scopesToText(g.Scopes),
		string(g.Status),
		g.UpdatedAt,
		toNullTime(g.RevokedAt),
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return caregivers.ErrNotFound
	}
	return nil
}

func (r *CaregiverGrantsRepo) GetByID(ctx context.Context, id string) (caregivers.Grant, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return caregivers.Grant{}, caregivers.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+grantColumns+` FROM caregiver_grants WHERE id = $1`, id)
	g, err := scanGrant(row)
	if errors.Is(err, sql.ErrNoRows) {
		return caregivers.Grant{}, caregivers.ErrNotFound
	}
	return g, err
}

func (r *CaregiverGrantsRepo) ListByBaby(ctx context.Context, babyID string) ([]caregivers.Grant, error) {
	babyID = strings.TrimSpace(babyID)
	if babyID == "" {
		return nil, nil
	}
	return r.list(ctx, `
		SELECT `+grantColumns+`
		FROM caregiver_grants
		WHERE baby_id = $1
		ORDER BY created_at ASC
	`, babyID)
}

func (r *CaregiverGrantsRepo) ListByCaregiver(ctx context.Context, caregiverUserID string) ([]caregivers.Grant, error) {
	caregiverUserID = strings.TrimSpace(caregiverUserID)
	if caregiverUserID == "" {
		return nil, nil
	}
	return r.list(ctx, `
		SELECT `+grantColumns+`
		FROM caregiver_grants
		WHERE caregiver_user_id = $1
		ORDER BY created_at ASC
	`, caregiverUserID)
}

func (r *CaregiverGrantsRepo) list(ctx context.Context, query string, args ...any) ([]caregivers.Grant, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]caregivers.Grant, 0)
	for rows.Next() {
		g, err := scanGrant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func scanGrant(s scanner) (caregivers.Grant, error) {
	var g caregivers.Grant
	var scopes, status string
	var revokedAt sql.NullTime
	if err := s.Scan(
		&g.ID,
		&g.BabyID,
		&g.OwnerUserID,
		&g.CaregiverUserID,
		&scopes,
		&status,
		&g.CreatedAt,
		&g.UpdatedAt,
		&revokedAt,
	); err != nil {
		return caregivers.Grant{}, err
	}
	g.Scopes = textToScopes(scopes)
	g.Status = caregivers.Status(status)
	g.RevokedAt = fromNullTime(revokedAt)
	return g, nil
}

// scopes se guardan separados por espacio, como en OAuth.
func scopesToText(in []caregivers.Scope) string {
	parts := make([]string, 0, len(in))
	for _, s := range in {
		parts = append(parts, string(s))
	}
	return strings.Join(parts, " ")
}

func textToScopes(in string) []caregivers.Scope {
	fields := strings.Fields(in)
	out := make([]caregivers.Scope, 0, len(fields))
	for _, f := range fields {
		out = append(out, caregivers.Scope(f))
	}
	return out
}
