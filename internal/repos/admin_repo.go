package repos

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"bizbook/internal/domain"
)

type AdminRepo struct{ db *sqlx.DB }

func NewAdminRepo(db *sqlx.DB) *AdminRepo { return &AdminRepo{db: db} }

func (r *AdminRepo) AdminByUsername(ctx context.Context, username string) (domain.AdminUser, error) {
	var u domain.AdminUser
	err := r.db.GetContext(ctx, &u, r.db.Rebind(`
		SELECT id, username, password_hash
		FROM admin_users
		WHERE username = ?`), username)
	if errors.Is(err, sql.ErrNoRows) {
		return u, domain.ErrNotFound
	}
	return u, wrap("admins.by_username", err)
}

// UpsertAdmin creates the admin or replaces its password hash.
func (r *AdminRepo) UpsertAdmin(ctx context.Context, username, hash string) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO admin_users(username, password_hash)
		VALUES (?, ?)
		ON CONFLICT(username) DO UPDATE SET password_hash = excluded.password_hash`), username, hash)
	return wrap("admins.upsert", err)
}
