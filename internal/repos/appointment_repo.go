package repos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"bizbook/internal/domain"
)

type AppointmentRepo struct{ db *sqlx.DB }

func NewAppointmentRepo(db *sqlx.DB) *AppointmentRepo { return &AppointmentRepo{db: db} }

const appointmentSelect = `
	SELECT a.id, a.customer_id, a.service_id, a.appointment_date, a.notes, a.status, a.created_at,
	       COALESCE(c.name, '') AS customer_name,
	       COALESCE(s.name, '') AS service_name
	FROM appointments a
	LEFT JOIN customers c ON c.id = a.customer_id
	LEFT JOIN services s ON s.id = a.service_id`

// ListAppointments returns every appointment with display names, earliest first.
func (r *AppointmentRepo) ListAppointments(ctx context.Context) ([]domain.Appointment, error) {
	out := []domain.Appointment{}
	err := r.db.SelectContext(ctx, &out, appointmentSelect+` ORDER BY a.appointment_date, a.id`)
	return out, wrap("appointments.list", err)
}

func (r *AppointmentRepo) GetAppointment(ctx context.Context, id int64) (domain.Appointment, error) {
	a, err := appointmentByID(ctx, r.db, id)
	return a, wrapGet("appointments.get", "appointment", id, err)
}

func appointmentByID(ctx context.Context, q sqlx.ExtContext, id int64) (domain.Appointment, error) {
	var a domain.Appointment
	err := sqlx.GetContext(ctx, q, &a, q.Rebind(appointmentSelect+` WHERE a.id = ?`), id)
	return a, err
}

// CreateAppointment inserts without checking the customer or service exist.
func (r *AppointmentRepo) CreateAppointment(ctx context.Context, in domain.NewAppointment) (domain.Appointment, error) {
	a, err := insertAppointment(ctx, r.db, in)
	return a, wrap("appointments.create", err)
}

func insertAppointment(ctx context.Context, ext sqlx.ExtContext, in domain.NewAppointment) (domain.Appointment, error) {
	status := in.Status
	if status == "" {
		status = domain.StatusScheduled
	}
	var id int64
	err := sqlx.GetContext(ctx, ext, &id, ext.Rebind(`
		INSERT INTO appointments(customer_id, service_id, appointment_date, notes, status)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id`), in.CustomerID, in.ServiceID, in.AppointmentDate, in.Notes, status)
	if err != nil {
		return domain.Appointment{}, err
	}
	return appointmentByID(ctx, ext, id)
}

// BookAppointment finds or creates the customer and inserts the appointment
// in one transaction; on any failure neither write survives.
func (r *AppointmentRepo) BookAppointment(ctx context.Context, cust domain.NewCustomer, in domain.NewAppointment) (domain.Appointment, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.Appointment{}, wrap("booking.begin", err)
	}
	defer func() { _ = tx.Rollback() }()

	c, _, err := findOrCreateCustomer(ctx, tx, cust)
	if err != nil {
		return domain.Appointment{}, wrap("booking.customer", err)
	}
	in.CustomerID = c.ID
	a, err := insertAppointment(ctx, tx, in)
	if err != nil {
		return domain.Appointment{}, wrap("booking.appointment", err)
	}
	if err := tx.Commit(); err != nil {
		return domain.Appointment{}, wrap("booking.commit", err)
	}
	return a, nil
}

func (r *AppointmentRepo) UpdateAppointment(ctx context.Context, id int64, p domain.AppointmentPatch) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE appointments
		SET customer_id      = COALESCE(?, customer_id),
		    service_id       = COALESCE(?, service_id),
		    appointment_date = COALESCE(?, appointment_date),
		    notes            = COALESCE(?, notes),
		    status           = COALESCE(?, status)
		WHERE id = ?`),
		opt(p.CustomerID), opt(p.ServiceID), opt(p.AppointmentDate), opt(p.Notes), opt(p.Status), id)
	return affected("appointments.update", "appointment", id, res, err)
}

func (r *AppointmentRepo) DeleteAppointment(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM appointments WHERE id = ?`), id)
	return affected("appointments.delete", "appointment", id, res, err)
}
