package repos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"bizbook/internal/domain"
)

type ServiceRepo struct{ db *sqlx.DB }

func NewServiceRepo(db *sqlx.DB) *ServiceRepo { return &ServiceRepo{db: db} }

const serviceCols = `id, name, description, price, duration, active, created_at`

func (r *ServiceRepo) ListServices(ctx context.Context, activeOnly bool) ([]domain.Service, error) {
	q := `SELECT ` + serviceCols + ` FROM services`
	var args []any
	if activeOnly {
		q += ` WHERE active = ?`
		args = append(args, true)
	}
	q += ` ORDER BY id`
	out := []domain.Service{}
	err := r.db.SelectContext(ctx, &out, r.db.Rebind(q), args...)
	return out, wrap("services.list", err)
}

func (r *ServiceRepo) GetService(ctx context.Context, id int64) (domain.Service, error) {
	var s domain.Service
	err := r.db.GetContext(ctx, &s, r.db.Rebind(`SELECT `+serviceCols+` FROM services WHERE id = ?`), id)
	return s, wrapGet("services.get", "service", id, err)
}

// CreateService inserts a service; it is active unless Active is explicitly false.
func (r *ServiceRepo) CreateService(ctx context.Context, in domain.NewService) (domain.Service, error) {
	active := in.Active == nil || *in.Active
	var price float64
	if in.Price != nil {
		price = *in.Price
	}
	var duration int
	if in.Duration != nil {
		duration = *in.Duration
	}
	var id int64
	err := r.db.GetContext(ctx, &id, r.db.Rebind(`
		INSERT INTO services(name, description, price, duration, active)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id`), in.Name, in.Description, price, duration, active)
	if err != nil {
		return domain.Service{}, wrap("services.create", err)
	}
	return r.GetService(ctx, id)
}

// UpdateService applies only the non-nil fields of p. Active keeps its
// tri-state: nil leaves the flag alone, false clears it, true sets it.
func (r *ServiceRepo) UpdateService(ctx context.Context, id int64, p domain.ServicePatch) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE services
		SET name        = COALESCE(?, name),
		    description = COALESCE(?, description),
		    price       = COALESCE(?, price),
		    duration    = COALESCE(?, duration),
		    active      = COALESCE(?, active)
		WHERE id = ?`),
		opt(p.Name), opt(p.Description), opt(p.Price), opt(p.Duration), opt(p.Active), id)
	return affected("services.update", "service", id, res, err)
}

// DeleteService removes the row without looking at appointments that reference it.
func (r *ServiceRepo) DeleteService(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM services WHERE id = ?`), id)
	return affected("services.delete", "service", id, res, err)
}
