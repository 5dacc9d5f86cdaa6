package repos

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"bizbook/internal/domain"
)

type CustomerRepo struct{ db *sqlx.DB }

func NewCustomerRepo(db *sqlx.DB) *CustomerRepo { return &CustomerRepo{db: db} }

const customerCols = `id, name, phone, email, created_at`

func (r *CustomerRepo) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	out := []domain.Customer{}
	err := r.db.SelectContext(ctx, &out, `SELECT `+customerCols+` FROM customers ORDER BY name, id`)
	return out, wrap("customers.list", err)
}

func (r *CustomerRepo) GetCustomer(ctx context.Context, id int64) (domain.Customer, error) {
	var c domain.Customer
	err := r.db.GetContext(ctx, &c, r.db.Rebind(`SELECT `+customerCols+` FROM customers WHERE id = ?`), id)
	return c, wrapGet("customers.get", "customer", id, err)
}

// FindCustomerByPhone returns domain.ErrNotFound when nobody has that phone.
func (r *CustomerRepo) FindCustomerByPhone(ctx context.Context, phone string) (domain.Customer, error) {
	c, err := customerByPhone(ctx, r.db, phone)
	if errors.Is(err, sql.ErrNoRows) {
		return c, domain.ErrNotFound
	}
	return c, wrap("customers.by_phone", err)
}

// AddCustomer is find-or-create keyed by phone. An existing customer is
// returned untouched, whatever name or email the caller supplied.
func (r *CustomerRepo) AddCustomer(ctx context.Context, in domain.NewCustomer) (domain.Customer, bool, error) {
	c, created, err := findOrCreateCustomer(ctx, r.db, in)
	return c, created, wrap("customers.add", err)
}

func customerByPhone(ctx context.Context, q sqlx.ExtContext, phone string) (domain.Customer, error) {
	var c domain.Customer
	err := sqlx.GetContext(ctx, q, &c, q.Rebind(`SELECT `+customerCols+` FROM customers WHERE phone = ?`), phone)
	return c, err
}

// findOrCreateCustomer relies on the unique phone index, so two concurrent
// callers with a new phone still end up with one row.
func findOrCreateCustomer(ctx context.Context, ext sqlx.ExtContext, in domain.NewCustomer) (domain.Customer, bool, error) {
	res, err := ext.ExecContext(ctx, ext.Rebind(`
		INSERT INTO customers(name, phone, email)
		VALUES (?, ?, ?)
		ON CONFLICT(phone) DO NOTHING`), in.Name, in.Phone, in.Email)
	if err != nil {
		return domain.Customer{}, false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.Customer{}, false, err
	}
	c, err := customerByPhone(ctx, ext, in.Phone)
	return c, n == 1, err
}
