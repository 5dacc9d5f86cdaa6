// Package memstore is an in-memory services.Repository. It mirrors the SQL
// store's ordering and not-found behaviour and is meant for tests.
package memstore

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"bizbook/internal/domain"
)

const stamp = "2006-01-02 15:04:05"

type Store struct {
	mu sync.Mutex

	business  domain.BusinessDetails
	services  map[int64]domain.Service
	customers map[int64]domain.Customer
	appts     map[int64]domain.Appointment
	messages  map[int64]domain.Message
	admins    map[string]domain.AdminUser
	nextID    map[string]int64

	// Fail, when set, is returned by every call.
	Fail error
	// Now stamps created_at and updated_at.
	Now func() time.Time
}

// New returns a store holding the given business row and services.
func New(b domain.BusinessDetails, svcs ...domain.NewService) *Store {
	s := &Store{
		services:  map[int64]domain.Service{},
		customers: map[int64]domain.Customer{},
		appts:     map[int64]domain.Appointment{},
		messages:  map[int64]domain.Message{},
		admins:    map[string]domain.AdminUser{},
		nextID:    map[string]int64{},
		Now:       time.Now,
	}
	b.ID = domain.BusinessID
	b.CreatedAt = s.stamp()
	b.UpdatedAt = b.CreatedAt
	s.business = b
	for _, in := range svcs {
		s.insertService(in)
	}
	return s
}

func (s *Store) stamp() string { return s.Now().UTC().Format(stamp) }

func (s *Store) id(table string) int64 {
	s.nextID[table]++
	return s.nextID[table]
}

func (s *Store) lock() (func(), error) {
	s.mu.Lock()
	if s.Fail != nil {
		s.mu.Unlock()
		return nil, &domain.StoreError{Op: "memstore", Err: s.Fail}
	}
	return s.mu.Unlock, nil
}

func (s *Store) Ping(context.Context) error {
	unlock, err := s.lock()
	if err != nil {
		return err
	}
	unlock()
	return nil
}

func (s *Store) BusinessDetails(context.Context) (domain.BusinessDetails, error) {
	unlock, err := s.lock()
	if err != nil {
		return domain.BusinessDetails{}, err
	}
	defer unlock()
	return s.business, nil
}

func (s *Store) UpdateBusinessDetails(_ context.Context, p domain.BusinessPatch) error {
	unlock, err := s.lock()
	if err != nil {
		return err
	}
	defer unlock()
	b := &s.business
	set(&b.Name, p.Name)
	set(&b.Description, p.Description)
	set(&b.Address, p.Address)
	set(&b.Phone, p.Phone)
	set(&b.Email, p.Email)
	b.UpdatedAt = s.stamp()
	return nil
}

func (s *Store) ListServices(_ context.Context, activeOnly bool) ([]domain.Service, error) {
	unlock, err := s.lock()
	if err != nil {
		return nil, err
	}
	defer unlock()
	out := []domain.Service{}
	for _, sv := range s.services {
		if activeOnly && !sv.Active {
			continue
		}
		out = append(out, sv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetService(_ context.Context, id int64) (domain.Service, error) {
	unlock, err := s.lock()
	if err != nil {
		return domain.Service{}, err
	}
	defer unlock()
	sv, ok := s.services[id]
	if !ok {
		return sv, domain.NotFound("service", id)
	}
	return sv, nil
}

func (s *Store) CreateService(_ context.Context, in domain.NewService) (domain.Service, error) {
	unlock, err := s.lock()
	if err != nil {
		return domain.Service{}, err
	}
	defer unlock()
	return s.insertService(in), nil
}

func (s *Store) insertService(in domain.NewService) domain.Service {
	sv := domain.Service{
		ID:          s.id("services"),
		Name:        in.Name,
		Description: in.Description,
		Active:      in.Active == nil || *in.Active,
		CreatedAt:   s.stamp(),
	}
	if in.Price != nil {
		sv.Price = *in.Price
	}
	if in.Duration != nil {
		sv.Duration = *in.Duration
	}
	s.services[sv.ID] = sv
	return sv
}

func (s *Store) UpdateService(_ context.Context, id int64, p domain.ServicePatch) error {
	unlock, err := s.lock()
	if err != nil {
		return err
	}
	defer unlock()
	sv, ok := s.services[id]
	if !ok {
		return domain.NotFound("service", id)
	}
	set(&sv.Name, p.Name)
	set(&sv.Description, p.Description)
	set(&sv.Price, p.Price)
	set(&sv.Duration, p.Duration)
	set(&sv.Active, p.Active)
	s.services[id] = sv
	return nil
}

func (s *Store) DeleteService(_ context.Context, id int64) error {
	unlock, err := s.lock()
	if err != nil {
		return err
	}
	defer unlock()
	if _, ok := s.services[id]; !ok {
		return domain.NotFound("service", id)
	}
	delete(s.services, id)
	return nil
}

func (s *Store) ListCustomers(context.Context) ([]domain.Customer, error) {
	unlock, err := s.lock()
	if err != nil {
		return nil, err
	}
	defer unlock()
	out := make([]domain.Customer, 0, len(s.customers))
	for _, c := range s.customers {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) GetCustomer(_ context.Context, id int64) (domain.Customer, error) {
	unlock, err := s.lock()
	if err != nil {
		return domain.Customer{}, err
	}
	defer unlock()
	c, ok := s.customers[id]
	if !ok {
		return c, domain.NotFound("customer", id)
	}
	return c, nil
}

func (s *Store) FindCustomerByPhone(_ context.Context, phone string) (domain.Customer, error) {
	unlock, err := s.lock()
	if err != nil {
		return domain.Customer{}, err
	}
	defer unlock()
	if c, ok := s.byPhone(phone); ok {
		return c, nil
	}
	return domain.Customer{}, domain.ErrNotFound
}

func (s *Store) byPhone(phone string) (domain.Customer, bool) {
	for _, c := range s.customers {
		if c.Phone == phone {
			return c, true
		}
	}
	return domain.Customer{}, false
}

func (s *Store) AddCustomer(_ context.Context, in domain.NewCustomer) (domain.Customer, bool, error) {
	unlock, err := s.lock()
	if err != nil {
		return domain.Customer{}, false, err
	}
	defer unlock()
	c, created := s.findOrCreate(in)
	return c, created, nil
}

func (s *Store) findOrCreate(in domain.NewCustomer) (domain.Customer, bool) {
	if c, ok := s.byPhone(in.Phone); ok {
		return c, false
	}
	c := domain.Customer{
		ID:        s.id("customers"),
		Name:      in.Name,
		Phone:     in.Phone,
		Email:     in.Email,
		CreatedAt: s.stamp(),
	}
	s.customers[c.ID] = c
	return c, true
}

// joined fills in the display names the SQL store gets from its LEFT JOINs.
func (s *Store) joined(a domain.Appointment) domain.Appointment {
	a.CustomerName = s.customers[a.CustomerID].Name
	a.ServiceName = s.services[a.ServiceID].Name
	return a
}

func (s *Store) ListAppointments(context.Context) ([]domain.Appointment, error) {
	unlock, err := s.lock()
	if err != nil {
		return nil, err
	}
	defer unlock()
	out := make([]domain.Appointment, 0, len(s.appts))
	for _, a := range s.appts {
		out = append(out, s.joined(a))
	}
	sort.Slice(out, func(i, j int) bool {
		if c := strings.Compare(out[i].AppointmentDate, out[j].AppointmentDate); c != 0 {
			return c < 0
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) GetAppointment(_ context.Context, id int64) (domain.Appointment, error) {
	unlock, err := s.lock()
	if err != nil {
		return domain.Appointment{}, err
	}
	defer unlock()
	a, ok := s.appts[id]
	if !ok {
		return a, domain.NotFound("appointment", id)
	}
	return s.joined(a), nil
}

func (s *Store) CreateAppointment(_ context.Context, in domain.NewAppointment) (domain.Appointment, error) {
	unlock, err := s.lock()
	if err != nil {
		return domain.Appointment{}, err
	}
	defer unlock()
	return s.insertAppointment(in)
}

func (s *Store) insertAppointment(in domain.NewAppointment) (domain.Appointment, error) {
	status := in.Status
	if status == "" {
		status = domain.StatusScheduled
	}
	if !validStatus(status) {
		return domain.Appointment{}, &domain.StoreError{Op: "appointments.create", Err: errors.New("status check failed")}
	}
	a := domain.Appointment{
		ID:              s.id("appointments"),
		CustomerID:      in.CustomerID,
		ServiceID:       in.ServiceID,
		AppointmentDate: in.AppointmentDate,
		Notes:           in.Notes,
		Status:          status,
		CreatedAt:       s.stamp(),
	}
	s.appts[a.ID] = a
	return s.joined(a), nil
}

// BookAppointment holds the lock across both writes, which is all the
// atomicity a map store needs.
func (s *Store) BookAppointment(_ context.Context, cust domain.NewCustomer, in domain.NewAppointment) (domain.Appointment, error) {
	unlock, err := s.lock()
	if err != nil {
		return domain.Appointment{}, err
	}
	defer unlock()
	if in.Status != "" && !validStatus(in.Status) {
		return domain.Appointment{}, &domain.StoreError{Op: "booking.appointment", Err: errors.New("status check failed")}
	}
	c, _ := s.findOrCreate(cust)
	in.CustomerID = c.ID
	return s.insertAppointment(in)
}

func (s *Store) UpdateAppointment(_ context.Context, id int64, p domain.AppointmentPatch) error {
	unlock, err := s.lock()
	if err != nil {
		return err
	}
	defer unlock()
	a, ok := s.appts[id]
	if !ok {
		return domain.NotFound("appointment", id)
	}
	if p.Status != nil && !validStatus(*p.Status) {
		return &domain.StoreError{Op: "appointments.update", Err: errors.New("status check failed")}
	}
	set(&a.CustomerID, p.CustomerID)
	set(&a.ServiceID, p.ServiceID)
	set(&a.AppointmentDate, p.AppointmentDate)
	set(&a.Notes, p.Notes)
	set(&a.Status, p.Status)
	s.appts[id] = a
	return nil
}

func (s *Store) DeleteAppointment(_ context.Context, id int64) error {
	unlock, err := s.lock()
	if err != nil {
		return err
	}
	defer unlock()
	if _, ok := s.appts[id]; !ok {
		return domain.NotFound("appointment", id)
	}
	delete(s.appts, id)
	return nil
}

func (s *Store) ListMessages(context.Context) ([]domain.Message, error) {
	unlock, err := s.lock()
	if err != nil {
		return nil, err
	}
	defer unlock()
	out := make([]domain.Message, 0, len(s.messages))
	for _, m := range s.messages {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt > out[j].CreatedAt
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *Store) GetMessage(_ context.Context, id int64) (domain.Message, error) {
	unlock, err := s.lock()
	if err != nil {
		return domain.Message{}, err
	}
	defer unlock()
	m, ok := s.messages[id]
	if !ok {
		return m, domain.NotFound("message", id)
	}
	return m, nil
}

func (s *Store) CreateMessage(_ context.Context, in domain.NewMessage) (domain.Message, error) {
	unlock, err := s.lock()
	if err != nil {
		return domain.Message{}, err
	}
	defer unlock()
	m := domain.Message{
		ID:            s.id("messages"),
		CustomerName:  in.CustomerName,
		CustomerPhone: in.CustomerPhone,
		CustomerEmail: in.CustomerEmail,
		Subject:       in.Subject,
		Message:       in.Message,
		CreatedAt:     s.stamp(),
	}
	s.messages[m.ID] = m
	return m, nil
}

func (s *Store) MarkMessageRead(_ context.Context, id int64) error {
	unlock, err := s.lock()
	if err != nil {
		return err
	}
	defer unlock()
	m, ok := s.messages[id]
	if !ok {
		return domain.NotFound("message", id)
	}
	m.ReadStatus = true
	s.messages[id] = m
	return nil
}

func (s *Store) AdminByUsername(_ context.Context, username string) (domain.AdminUser, error) {
	unlock, err := s.lock()
	if err != nil {
		return domain.AdminUser{}, err
	}
	defer unlock()
	u, ok := s.admins[username]
	if !ok {
		return u, domain.ErrNotFound
	}
	return u, nil
}

func (s *Store) UpsertAdmin(_ context.Context, username, hash string) error {
	unlock, err := s.lock()
	if err != nil {
		return err
	}
	defer unlock()
	u, ok := s.admins[username]
	if !ok {
		u = domain.AdminUser{ID: s.id("admin_users"), Username: username}
	}
	u.Hash = hash
	s.admins[username] = u
	return nil
}

func (s *Store) Stats(context.Context) (domain.Stats, error) {
	unlock, err := s.lock()
	if err != nil {
		return domain.Stats{}, err
	}
	defer unlock()
	st := domain.Stats{
		TotalAppointments:    len(s.appts),
		TotalCustomers:       len(s.customers),
		TotalMessages:        len(s.messages),
		AppointmentsByStatus: map[string]int{},
	}
	for _, m := range s.messages {
		if !m.ReadStatus {
			st.UnreadMessages++
		}
	}
	for _, sv := range s.services {
		if sv.Active {
			st.ActiveServices++
		}
	}
	for _, a := range s.appts {
		st.AppointmentsByStatus[a.Status]++
	}
	return st, nil
}

func validStatus(s string) bool {
	switch s {
	case domain.StatusScheduled, domain.StatusCompleted, domain.StatusCancelled:
		return true
	}
	return false
}

func set[T any](dst *T, p *T) {
	if p != nil {
		*dst = *p
	}
}
