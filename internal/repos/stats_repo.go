package repos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"bizbook/internal/domain"
)

type StatsRepo struct{ db *sqlx.DB }

func NewStatsRepo(db *sqlx.DB) *StatsRepo { return &StatsRepo{db: db} }

// Stats feeds the admin dashboard.
func (r *StatsRepo) Stats(ctx context.Context) (domain.Stats, error) {
	st := domain.Stats{AppointmentsByStatus: map[string]int{}}

	counts := []struct {
		dst  *int
		q    string
		args []any
	}{
		{&st.TotalAppointments, `SELECT COUNT(*) FROM appointments`, nil},
		{&st.TotalCustomers, `SELECT COUNT(*) FROM customers`, nil},
		{&st.TotalMessages, `SELECT COUNT(*) FROM messages`, nil},
		{&st.UnreadMessages, `SELECT COUNT(*) FROM messages WHERE read_status = ?`, []any{false}},
		{&st.ActiveServices, `SELECT COUNT(*) FROM services WHERE active = ?`, []any{true}},
	}
	for _, c := range counts {
		if err := r.db.GetContext(ctx, c.dst, r.db.Rebind(c.q), c.args...); err != nil {
			return st, wrap("stats.count", err)
		}
	}

	var rows []struct {
		Status string `db:"status"`
		N      int    `db:"n"`
	}
	if err := r.db.SelectContext(ctx, &rows, `SELECT status, COUNT(*) AS n FROM appointments GROUP BY status`); err != nil {
		return st, wrap("stats.by_status", err)
	}
	for _, row := range rows {
		st.AppointmentsByStatus[row.Status] = row.N
	}
	return st, nil
}
