package services

import (
	"context"

	"bizbook/internal/domain"
)

// CatalogStore holds the business row and the service catalog.
type CatalogStore interface {
	BusinessDetails(ctx context.Context) (domain.BusinessDetails, error)
	UpdateBusinessDetails(ctx context.Context, p domain.BusinessPatch) error
	ListServices(ctx context.Context, activeOnly bool) ([]domain.Service, error)
	GetService(ctx context.Context, id int64) (domain.Service, error)
	CreateService(ctx context.Context, in domain.NewService) (domain.Service, error)
	UpdateService(ctx context.Context, id int64, p domain.ServicePatch) error
	DeleteService(ctx context.Context, id int64) error
}

// BookingStore holds customers and appointments.
type BookingStore interface {
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
	GetCustomer(ctx context.Context, id int64) (domain.Customer, error)
	FindCustomerByPhone(ctx context.Context, phone string) (domain.Customer, error)
	AddCustomer(ctx context.Context, in domain.NewCustomer) (domain.Customer, bool, error)
	ListAppointments(ctx context.Context) ([]domain.Appointment, error)
	GetAppointment(ctx context.Context, id int64) (domain.Appointment, error)
	CreateAppointment(ctx context.Context, in domain.NewAppointment) (domain.Appointment, error)
	BookAppointment(ctx context.Context, c domain.NewCustomer, in domain.NewAppointment) (domain.Appointment, error)
	UpdateAppointment(ctx context.Context, id int64, p domain.AppointmentPatch) error
	DeleteAppointment(ctx context.Context, id int64) error
}

type InboxStore interface {
	ListMessages(ctx context.Context) ([]domain.Message, error)
	GetMessage(ctx context.Context, id int64) (domain.Message, error)
	CreateMessage(ctx context.Context, in domain.NewMessage) (domain.Message, error)
	MarkMessageRead(ctx context.Context, id int64) error
}

type AdminStore interface {
	AdminByUsername(ctx context.Context, username string) (domain.AdminUser, error)
	UpsertAdmin(ctx context.Context, username, hash string) error
}

type StatsStore interface {
	Stats(ctx context.Context) (domain.Stats, error)
}

// Repository is everything the application persists. repos.Store is the
// production implementation and memstore.Store the in-memory one for tests.
type Repository interface {
	CatalogStore
	BookingStore
	InboxStore
	AdminStore
	StatsStore
	Ping(ctx context.Context) error
}
