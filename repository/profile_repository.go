package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"garageQueue/internal/apperr"
	"garageQueue/internal/db"
	"garageQueue/models"
)

const (
	profilesTable  = "profiles"
	profileColumns = "id, full_name, email, phone, role"
)

// ProfileRepository stores the store-side record of identity-provider accounts.
type ProfileRepository struct {
	db *sql.DB
	sb sq.StatementBuilderType
}

// NewProfileRepository creates a new ProfileRepository for the given driver.
func NewProfileRepository(d *sql.DB, driver string) *ProfileRepository {
	return &ProfileRepository{db: d, sb: db.StatementBuilder(driver)}
}

// Create inserts a profile. Role defaults to 'user'.
func (r *ProfileRepository) Create(ctx context.Context, p *models.Profile) (*models.Profile, error) {
	if p == nil {
		return nil, errors.New("profile is nil")
	}
	if p.Role == "" {
		p.Role = models.RoleUser
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	query, args, err := r.sb.Insert(profilesTable).
		Columns("id", "full_name", "email", "phone", "role").
		Values(p.ID, p.FullName, p.Email, p.Phone, string(p.Role)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return nil, apperr.Store("create profile", err)
	}
	out := *p
	return &out, nil
}

func (r *ProfileRepository) getOne(ctx context.Context, where sq.Eq) (*models.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	query, args, err := r.sb.Select(profileColumns).From(profilesTable).Where(where).OrderBy("id").Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build profile query: %w", err)
	}
	var p models.Profile
	var role string
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&p.ID, &p.FullName, &p.Email, &p.Phone, &role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperr.Store("get profile", err)
	}
	p.Role = models.Role(role)
	return &p, nil
}

// GetByID returns the profile joined to an identity id, nil when absent.
func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	return r.getOne(ctx, sq.Eq{"id": id})
}

// GetByPhone finds the profile used to resolve a phone-number login.
func (r *ProfileRepository) GetByPhone(ctx context.Context, phone string) (*models.Profile, error) {
	return r.getOne(ctx, sq.Eq{"phone": phone})
}

// UpdateContact rewrites the display name and phone. Email is never touched.
func (r *ProfileRepository) UpdateContact(ctx context.Context, id, fullName, phone string) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	query, args, err := r.sb.Update(profilesTable).
		Set("full_name", fullName).
		Set("phone", phone).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	return r.execOne(ctx, "update profile", query, args)
}

// UpdateRole sets the role of a profile. Intended for administrative flows and tests.
func (r *ProfileRepository) UpdateRole(ctx context.Context, id string, role models.Role) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	query, args, err := r.sb.Update(profilesTable).Set("role", string(role)).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	return r.execOne(ctx, "update role", query, args)
}

// List returns profiles ordered by id.
func (r *ProfileRepository) List(ctx context.Context, limit, offset int) ([]models.Profile, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query, args, err := r.sb.Select(profileColumns).From(profilesTable).
		OrderBy("id").Limit(uint64(limit)).Offset(uint64(offset)).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list: %w", err)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Store("list profiles", err)
	}
	defer rows.Close()
	var out []models.Profile
	for rows.Next() {
		var p models.Profile
		var role string
		if err := rows.Scan(&p.ID, &p.FullName, &p.Email, &p.Phone, &role); err != nil {
			return nil, apperr.Store("list profiles", err)
		}
		p.Role = models.Role(role)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Store("list profiles", err)
	}
	return out, nil
}

func (r *ProfileRepository) execOne(ctx context.Context, op, query string, args []any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return apperr.Store(op, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperr.Store(op, apperr.ErrNotFound)
	}
	return nil
}
