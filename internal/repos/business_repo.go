package repos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"bizbook/internal/domain"
)

type BusinessRepo struct{ db *sqlx.DB }

func NewBusinessRepo(db *sqlx.DB) *BusinessRepo { return &BusinessRepo{db: db} }

func (r *BusinessRepo) BusinessDetails(ctx context.Context) (domain.BusinessDetails, error) {
	var b domain.BusinessDetails
	err := r.db.GetContext(ctx, &b, r.db.Rebind(`
		SELECT id, name, description, address, phone, email, created_at, updated_at
		FROM business_details
		WHERE id = ?`), domain.BusinessID)
	return b, wrapGet("business.get", "business", domain.BusinessID, err)
}

// UpdateBusinessDetails applies only the non-nil fields of p.
func (r *BusinessRepo) UpdateBusinessDetails(ctx context.Context, p domain.BusinessPatch) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE business_details
		SET name        = COALESCE(?, name),
		    description = COALESCE(?, description),
		    address     = COALESCE(?, address),
		    phone       = COALESCE(?, phone),
		    email       = COALESCE(?, email),
		    updated_at  = CURRENT_TIMESTAMP
		WHERE id = ?`),
		opt(p.Name), opt(p.Description), opt(p.Address), opt(p.Phone), opt(p.Email), domain.BusinessID)
	return affected("business.update", "business", domain.BusinessID, res, err)
}
