package services_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizbook/internal/domain"
	"bizbook/internal/repos"
	"bizbook/internal/repos/memstore"
	"bizbook/internal/services"
)

func ptr[T any](v T) *T { return &v }

// stores runs fn against the in-memory store and a fresh SQLite database.
func stores(t *testing.T, fn func(t *testing.T, r services.Repository)) {
	t.Run("memstore", func(t *testing.T) {
		fn(t, memstore.New(domain.BusinessDetails{Name: "Wellness Center Pro"},
			domain.NewService{Name: "Individual Consultation", Price: ptr(120.0), Duration: ptr(60)}))
	})
	t.Run("sqlite", func(t *testing.T) {
		db, err := repos.OpenDB("sqlite", ":memory:")
		require.NoError(t, err)
		t.Cleanup(func() { _ = db.Close() })
		fn(t, repos.NewStore(db))
	})
}

func TestBook_CombinesDateAndTime(t *testing.T) {
	stores(t, func(t *testing.T, r services.Repository) {
		svc := services.NewBookingService(r)
		a, err := svc.Book(context.Background(), domain.BookingRequest{
			CustomerName:    "  Ivy  ",
			CustomerPhone:   "555-0001",
			ServiceID:       1,
			AppointmentDate: "2030-03-04",
			AppointmentTime: "14:30",
		})
		require.NoError(t, err)
		assert.Equal(t, "2030-03-04T14:30:00", a.AppointmentDate)
		assert.Equal(t, "Ivy", a.CustomerName)
		assert.Equal(t, "Individual Consultation", a.ServiceName)
		assert.Equal(t, domain.StatusScheduled, a.Status)
	})
}

func TestBook_DateOnlyKeptVerbatim(t *testing.T) {
	stores(t, func(t *testing.T, r services.Repository) {
		svc := services.NewBookingService(r)
		a, err := svc.Book(context.Background(), domain.BookingRequest{
			CustomerName: "Jo", CustomerPhone: "555-0002", ServiceID: 1,
			AppointmentDate: "next Tuesday morning",
		})
		require.NoError(t, err)
		assert.Equal(t, "next Tuesday morning", a.AppointmentDate)
	})
}

func TestBook_SamePhoneOneCustomer(t *testing.T) {
	stores(t, func(t *testing.T, r services.Repository) {
		svc := services.NewBookingService(r)
		ctx := context.Background()
		req := domain.BookingRequest{CustomerName: "Kai", CustomerPhone: "555-0003", ServiceID: 1, AppointmentDate: "2030-01-01"}
		a1, err := svc.Book(ctx, req)
		require.NoError(t, err)
		req.CustomerName = "Kai Renamed"
		a2, err := svc.Book(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, a1.CustomerID, a2.CustomerID)
		assert.Equal(t, "Kai", a2.CustomerName)

		cs, err := svc.ListCustomers(ctx)
		require.NoError(t, err)
		assert.Len(t, cs, 1)
	})
}

func TestBook_UnknownServiceAccepted(t *testing.T) {
	stores(t, func(t *testing.T, r services.Repository) {
		a, err := services.NewBookingService(r).Book(context.Background(), domain.BookingRequest{
			CustomerName: "Lu", CustomerPhone: "555-0004", ServiceID: 999, AppointmentDate: "2030-01-01",
		})
		require.NoError(t, err)
		assert.Equal(t, "", a.ServiceName)
	})
}

func TestBook_Validation(t *testing.T) {
	svc := services.NewBookingService(memstore.New(domain.BusinessDetails{Name: "x"}))
	ok := domain.BookingRequest{CustomerName: "Mo", CustomerPhone: "555-0005", ServiceID: 1, AppointmentDate: "2030-01-01"}

	cases := map[string]func(r *domain.BookingRequest){
		"no name":      func(r *domain.BookingRequest) { r.CustomerName = " " },
		"no phone":     func(r *domain.BookingRequest) { r.CustomerPhone = "" },
		"bad phone":    func(r *domain.BookingRequest) { r.CustomerPhone = "call me" },
		"no service":   func(r *domain.BookingRequest) { r.ServiceID = 0 },
		"no date":      func(r *domain.BookingRequest) { r.AppointmentDate = "" },
		"bad time":     func(r *domain.BookingRequest) { r.AppointmentTime = "25:00" },
		"loose date":   func(r *domain.BookingRequest) { r.AppointmentDate = "tomorrow"; r.AppointmentTime = "10:00" },
		"bad email":    func(r *domain.BookingRequest) { r.CustomerEmail = "not-an-email" },
		"huge comment": func(r *domain.BookingRequest) { r.Notes = strings.Repeat("x", 1001) },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := ok
			mutate(&req)
			_, err := svc.Book(context.Background(), req)
			assert.True(t, domain.IsValidation(err), "got %v", err)
		})
	}
}

func TestUpdateAppointment_StatusSet(t *testing.T) {
	stores(t, func(t *testing.T, r services.Repository) {
		svc := services.NewBookingService(r)
		ctx := context.Background()
		a, err := svc.Book(ctx, domain.BookingRequest{CustomerName: "Ned", CustomerPhone: "555-0006", ServiceID: 1, AppointmentDate: "2030-01-01"})
		require.NoError(t, err)

		_, err = svc.UpdateAppointment(ctx, a.ID, domain.AppointmentPatch{Status: ptr("pending")})
		assert.True(t, domain.IsValidation(err))

		got, err := svc.UpdateAppointment(ctx, a.ID, domain.AppointmentPatch{Status: ptr(domain.StatusCancelled), Notes: ptr("called off")})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCancelled, got.Status)
		assert.Equal(t, "called off", got.Notes)
		assert.Equal(t, "Ned", got.CustomerName)

		_, err = svc.UpdateAppointment(ctx, 999, domain.AppointmentPatch{Notes: ptr("x")})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestAddCustomer_CreatedFlag(t *testing.T) {
	stores(t, func(t *testing.T, r services.Repository) {
		svc := services.NewBookingService(r)
		ctx := context.Background()
		_, created, err := svc.AddCustomer(ctx, domain.NewCustomer{Name: "Oz", Phone: "555-0007"})
		require.NoError(t, err)
		assert.True(t, created)
		_, created, err = svc.AddCustomer(ctx, domain.NewCustomer{Name: "Oz", Phone: "555-0007"})
		require.NoError(t, err)
		assert.False(t, created)

		_, _, err = svc.AddCustomer(ctx, domain.NewCustomer{Phone: "555-0008"})
		assert.True(t, domain.IsValidation(err))
	})
}

func TestCatalog_ServiceLifecycle(t *testing.T) {
	stores(t, func(t *testing.T, r services.Repository) {
		svc := services.NewCatalogService(r)
		ctx := context.Background()

		_, err := svc.CreateService(ctx, domain.NewService{Name: "Free", Price: ptr(-1.0), Duration: ptr(10)})
		assert.True(t, domain.IsValidation(err))
		_, err = svc.CreateService(ctx, domain.NewService{Name: "Zero", Price: ptr(0.0), Duration: ptr(0)})
		assert.True(t, domain.IsValidation(err))
		_, err = svc.CreateService(ctx, domain.NewService{Price: ptr(1.0), Duration: ptr(10)})
		assert.True(t, domain.IsValidation(err))

		s, err := svc.CreateService(ctx, domain.NewService{Name: "Yoga", Price: ptr(0.0), Duration: ptr(45)})
		require.NoError(t, err)
		assert.True(t, s.Active)

		up, err := svc.UpdateService(ctx, s.ID, domain.ServicePatch{Active: ptr(false)})
		require.NoError(t, err)
		assert.False(t, up.Active)
		assert.Equal(t, 45, up.Duration)

		active, err := svc.ListServices(ctx, true)
		require.NoError(t, err)
		for _, a := range active {
			assert.NotEqual(t, s.ID, a.ID)
		}

		require.NoError(t, svc.DeleteService(ctx, s.ID))
		_, err = svc.GetService(ctx, s.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestCatalog_UpdateBusinessDetails(t *testing.T) {
	stores(t, func(t *testing.T, r services.Repository) {
		svc := services.NewCatalogService(r)
		ctx := context.Background()

		b, err := svc.UpdateBusinessDetails(ctx, domain.BusinessPatch{Address: ptr(" 1 Main St ")})
		require.NoError(t, err)
		assert.Equal(t, "1 Main St", b.Address)
		assert.Equal(t, "Wellness Center Pro", b.Name)

		_, err = svc.UpdateBusinessDetails(ctx, domain.BusinessPatch{Name: ptr("")})
		assert.True(t, domain.IsValidation(err))
		_, err = svc.UpdateBusinessDetails(ctx, domain.BusinessPatch{Email: ptr("nope")})
		assert.True(t, domain.IsValidation(err))
	})
}

func TestInbox_SubmitAndMarkRead(t *testing.T) {
	stores(t, func(t *testing.T, r services.Repository) {
		svc := services.NewInboxService(r)
		ctx := context.Background()

		_, err := svc.Submit(ctx, domain.NewMessage{CustomerName: "Pat"})
		assert.True(t, domain.IsValidation(err))

		m, err := svc.Submit(ctx, domain.NewMessage{CustomerName: "Pat", Message: "Do you open on Sundays?", CustomerEmail: "pat@example.com"})
		require.NoError(t, err)
		assert.False(t, m.ReadStatus)

		read, err := svc.MarkRead(ctx, m.ID)
		require.NoError(t, err)
		assert.True(t, read.ReadStatus)
		read, err = svc.MarkRead(ctx, m.ID)
		require.NoError(t, err)
		assert.True(t, read.ReadStatus)

		_, err = svc.MarkRead(ctx, 999)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestDashboard_ReportsAllStatuses(t *testing.T) {
	stores(t, func(t *testing.T, r services.Repository) {
		st, err := (&services.DashboardService{Store: r}).Stats(context.Background())
		require.NoError(t, err)
		assert.Len(t, st.AppointmentsByStatus, 3)
		assert.Equal(t, 0, st.AppointmentsByStatus[domain.StatusCompleted])
		assert.GreaterOrEqual(t, st.ActiveServices, 1)
	})
}
