package repos

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"bizbook/internal/domain"
)

// Store bundles the entity repos behind one handle so it satisfies
// services.Repository. The embedded repos share db.
type Store struct {
	*BusinessRepo
	*ServiceRepo
	*CustomerRepo
	*AppointmentRepo
	*MessageRepo
	*AdminRepo
	*StatsRepo
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{
		BusinessRepo:    NewBusinessRepo(db),
		ServiceRepo:     NewServiceRepo(db),
		CustomerRepo:    NewCustomerRepo(db),
		AppointmentRepo: NewAppointmentRepo(db),
		MessageRepo:     NewMessageRepo(db),
		AdminRepo:       NewAdminRepo(db),
		StatsRepo:       NewStatsRepo(db),
		db:              db,
	}
}

func (s *Store) Ping(ctx context.Context) error {
	return wrap("ping", s.db.PingContext(ctx))
}

func (s *Store) Close() error { return s.db.Close() }

// wrap turns a driver failure into a StoreError.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &domain.StoreError{Op: op, Err: err}
}

// wrapGet maps a missing row to NotFound and anything else to a StoreError.
func wrapGet(op, entity string, id int64, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFound(entity, id)
	}
	return wrap(op, err)
}

// affected returns NotFound when an update or delete touched no row.
func affected(op, entity string, id int64, res sql.Result, err error) error {
	if err != nil {
		return wrap(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrap(op, err)
	}
	if n == 0 {
		return domain.NotFound(entity, id)
	}
	return nil
}

// opt unwraps a patch field so a nil pointer binds as SQL NULL.
func opt[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
