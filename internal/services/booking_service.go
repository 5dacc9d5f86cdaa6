package services

import (
	"context"

	"bizbook/internal/domain"
	"bizbook/internal/validate"
)

const maxNotes = 1000

var appointmentStatuses = map[string]bool{
	domain.StatusScheduled: true,
	domain.StatusCompleted: true,
	domain.StatusCancelled: true,
}

type BookingService struct {
	Store BookingStore
}

func NewBookingService(store BookingStore) *BookingService {
	return &BookingService{Store: store}
}

func (s *BookingService) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	return s.Store.ListCustomers(ctx)
}

func (s *BookingService) GetCustomer(ctx context.Context, id int64) (domain.Customer, error) {
	return s.Store.GetCustomer(ctx, id)
}

// AddCustomer returns the existing customer when the phone is already known.
// The bool reports whether a new row was created.
func (s *BookingService) AddCustomer(ctx context.Context, in domain.NewCustomer) (domain.Customer, bool, error) {
	c, err := checkCustomer(in.Name, in.Phone, in.Email)
	if err != nil {
		return domain.Customer{}, false, err
	}
	return s.Store.AddCustomer(ctx, c)
}

func (s *BookingService) ListAppointments(ctx context.Context) ([]domain.Appointment, error) {
	return s.Store.ListAppointments(ctx)
}

func (s *BookingService) GetAppointment(ctx context.Context, id int64) (domain.Appointment, error) {
	return s.Store.GetAppointment(ctx, id)
}

// UpdateAppointment applies the patch and returns the joined row.
func (s *BookingService) UpdateAppointment(ctx context.Context, id int64, p domain.AppointmentPatch) (domain.Appointment, error) {
	if p.Status != nil && !appointmentStatuses[*p.Status] {
		return domain.Appointment{}, domain.Invalid("status", "must be scheduled, completed or cancelled")
	}
	if p.AppointmentDate != nil {
		v, ok := validate.Text(*p.AppointmentDate, maxShort)
		if !ok {
			return domain.Appointment{}, domain.Invalid("appointment_date", "must not be empty")
		}
		p.AppointmentDate = &v
	}
	if err := optionalText(&p.Notes, "notes", maxNotes); err != nil {
		return domain.Appointment{}, err
	}
	if p.CustomerID != nil && *p.CustomerID <= 0 {
		return domain.Appointment{}, domain.Invalid("customer_id", "must be positive")
	}
	if p.ServiceID != nil && *p.ServiceID <= 0 {
		return domain.Appointment{}, domain.Invalid("service_id", "must be positive")
	}
	if err := s.Store.UpdateAppointment(ctx, id, p); err != nil {
		return domain.Appointment{}, err
	}
	return s.Store.GetAppointment(ctx, id)
}

func (s *BookingService) DeleteAppointment(ctx context.Context, id int64) error {
	return s.Store.DeleteAppointment(ctx, id)
}

// Book registers the customer if the phone is new and schedules the
// appointment. The service id is taken on trust and no slot check is made.
func (s *BookingService) Book(ctx context.Context, req domain.BookingRequest) (domain.Appointment, error) {
	serviceID := int64(req.ServiceID)
	if serviceID <= 0 {
		return domain.Appointment{}, domain.Invalid("serviceId", "is required")
	}
	cust, err := checkCustomer(req.CustomerName, req.CustomerPhone, req.CustomerEmail)
	if err != nil {
		return domain.Appointment{}, err
	}
	when, err := bookingDate(req.AppointmentDate, req.AppointmentTime)
	if err != nil {
		return domain.Appointment{}, err
	}
	notes, ok := validate.Optional(req.Notes, maxNotes)
	if !ok {
		return domain.Appointment{}, domain.Invalid("notes", "is too long")
	}
	return s.Store.BookAppointment(ctx, cust, domain.NewAppointment{
		ServiceID:       serviceID,
		AppointmentDate: when,
		Notes:           notes,
		Status:          domain.StatusScheduled,
	})
}

// bookingDate joins date and time as "YYYY-MM-DDTHH:MM:00". Without a time
// the date is kept as sent.
func bookingDate(date, clock string) (string, error) {
	d, ok := validate.Text(date, maxShort)
	if !ok {
		return "", domain.Invalid("appointmentDate", "is required")
	}
	if clock == "" {
		return d, nil
	}
	if d, ok = validate.Date(d); !ok {
		return "", domain.Invalid("appointmentDate", "must be YYYY-MM-DD")
	}
	t, ok := validate.Clock(clock)
	if !ok {
		return "", domain.Invalid("appointmentTime", "must be HH:MM")
	}
	return d + "T" + t + ":00", nil
}

func checkCustomer(name, phone, email string) (domain.NewCustomer, error) {
	n, ok := validate.Text(name, maxName)
	if !ok {
		return domain.NewCustomer{}, domain.Invalid("customerName", "is required")
	}
	if phone == "" {
		return domain.NewCustomer{}, domain.Invalid("customerPhone", "is required")
	}
	p, ok := validate.Phone(phone)
	if !ok {
		return domain.NewCustomer{}, domain.Invalid("customerPhone", "is not a valid phone number")
	}
	var e string
	if email != "" {
		if e, ok = validate.Email(email); !ok {
			return domain.NewCustomer{}, domain.Invalid("customerEmail", "is not a valid address")
		}
	}
	return domain.NewCustomer{Name: n, Phone: p, Email: e}, nil
}
