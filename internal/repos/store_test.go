package repos_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"bizbook/internal/domain"
	"bizbook/internal/repos"
)

func init() { repos.BcryptCost = bcrypt.MinCost }

func openStore(t *testing.T) *repos.Store {
	t.Helper()
	db, err := repos.OpenDB("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return repos.NewStore(db)
}

func ptr[T any](v T) *T { return &v }

func TestOpenDB_SeedsOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "biz.db")
	db, err := repos.OpenDB("sqlite", path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = repos.OpenDB("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	st := repos.NewStore(db)
	ctx := context.Background()
	b, err := st.BusinessDetails(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Wellness Center Pro", b.Name)
	assert.EqualValues(t, domain.BusinessID, b.ID)

	svcs, err := st.ListServices(ctx, false)
	require.NoError(t, err)
	assert.Len(t, svcs, 4)
}

func TestOpenDB_DriverCaseInsensitive(t *testing.T) {
	db, err := repos.OpenDB(" SQLite ", ":memory:")
	require.NoError(t, err)
	defer db.Close()
	assert.Equal(t, "sqlite", db.DriverName())
}

func TestSchema_Drivers(t *testing.T) {
	s, err := repos.Schema("postgres")
	require.NoError(t, err)
	assert.Contains(t, s, "CREATE TABLE IF NOT EXISTS appointments")
	_, err = repos.Schema("mysql")
	assert.Error(t, err)
}

func TestBusiness_PartialUpdate(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	before, err := st.BusinessDetails(ctx)
	require.NoError(t, err)

	require.NoError(t, st.UpdateBusinessDetails(ctx, domain.BusinessPatch{Phone: ptr("555-0100")}))
	after, err := st.BusinessDetails(ctx)
	require.NoError(t, err)
	assert.Equal(t, "555-0100", after.Phone)
	assert.Equal(t, before.Name, after.Name)
	assert.Equal(t, before.Email, after.Email)
}

func TestServices_ActiveTriState(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	s, err := st.CreateService(ctx, domain.NewService{Name: "Massage", Price: ptr(50.0), Duration: ptr(30)})
	require.NoError(t, err)
	assert.True(t, s.Active)

	hidden, err := st.CreateService(ctx, domain.NewService{Name: "Hidden", Price: ptr(1.0), Duration: ptr(5), Active: ptr(false)})
	require.NoError(t, err)
	assert.False(t, hidden.Active)

	require.NoError(t, st.UpdateService(ctx, s.ID, domain.ServicePatch{Active: ptr(false)}))
	got, err := st.GetService(ctx, s.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)
	assert.Equal(t, "Massage", got.Name)

	// no Active in the patch leaves the flag alone
	require.NoError(t, st.UpdateService(ctx, s.ID, domain.ServicePatch{Price: ptr(55.5)}))
	got, err = st.GetService(ctx, s.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)
	assert.InDelta(t, 55.5, got.Price, 0.001)

	active, err := st.ListServices(ctx, true)
	require.NoError(t, err)
	for _, a := range active {
		assert.True(t, a.Active, a.Name)
	}
	all, err := st.ListServices(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, len(active)+2)
}

func TestServices_MissingRows(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	_, err := st.GetService(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, st.UpdateService(ctx, 999, domain.ServicePatch{Name: ptr("x")}), domain.ErrNotFound)
	assert.ErrorIs(t, st.DeleteService(ctx, 999), domain.ErrNotFound)
}

func TestCustomers_FindOrCreate(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	c1, created, err := st.AddCustomer(ctx, domain.NewCustomer{Name: "Ann", Phone: "555-1111"})
	require.NoError(t, err)
	assert.True(t, created)

	c2, created, err := st.AddCustomer(ctx, domain.NewCustomer{Name: "Someone Else", Phone: "555-1111", Email: "x@y.com"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, c1.ID, c2.ID)
	assert.Equal(t, "Ann", c2.Name, "existing customer is never updated")
	assert.Empty(t, c2.Email)

	_, err = st.FindCustomerByPhone(ctx, "000")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCustomers_ConcurrentSamePhone(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	const n = 8
	ids := make([]int64, n)
	created := make([]bool, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, ok, err := st.AddCustomer(ctx, domain.NewCustomer{Name: "Racer", Phone: "555-2222"})
			assert.NoError(t, err)
			ids[i], created[i] = c.ID, ok
		}(i)
	}
	wg.Wait()

	var fresh int
	for i := range ids {
		assert.Equal(t, ids[0], ids[i])
		if created[i] {
			fresh++
		}
	}
	assert.Equal(t, 1, fresh)
	all, err := st.ListCustomers(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestAppointments_BookAndList(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	cust := domain.NewCustomer{Name: "Bea", Phone: "555-3333"}

	late, err := st.BookAppointment(ctx, cust, domain.NewAppointment{ServiceID: 1, AppointmentDate: "2030-05-02T10:00:00"})
	require.NoError(t, err)
	assert.Equal(t, "Bea", late.CustomerName)
	assert.Equal(t, "Individual Consultation", late.ServiceName)
	assert.Equal(t, domain.StatusScheduled, late.Status)
	assert.Equal(t, "2030-05-02T10:00:00", late.AppointmentDate)

	early, err := st.BookAppointment(ctx, cust, domain.NewAppointment{ServiceID: 2, AppointmentDate: "2030-05-01T09:30:00"})
	require.NoError(t, err)
	assert.Equal(t, late.CustomerID, early.CustomerID)

	list, err := st.ListAppointments(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, early.ID, list[0].ID)
	assert.Equal(t, late.ID, list[1].ID)

	customers, err := st.ListCustomers(ctx)
	require.NoError(t, err)
	assert.Len(t, customers, 1)
}

func TestAppointments_UpdateDeleteAndDanglingService(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	c, _, err := st.AddCustomer(ctx, domain.NewCustomer{Name: "Cy", Phone: "555-4444"})
	require.NoError(t, err)
	a, err := st.CreateAppointment(ctx, domain.NewAppointment{CustomerID: c.ID, ServiceID: 3, AppointmentDate: "2030-01-01"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusScheduled, a.Status)

	require.NoError(t, st.UpdateAppointment(ctx, a.ID, domain.AppointmentPatch{Status: ptr(domain.StatusCompleted)}))
	got, err := st.GetAppointment(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)
	assert.Equal(t, "2030-01-01", got.AppointmentDate)

	// deleting the service leaves the appointment with an empty name
	require.NoError(t, st.DeleteService(ctx, 3))
	got, err = st.GetAppointment(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "", got.ServiceName)

	require.NoError(t, st.DeleteAppointment(ctx, a.ID))
	assert.ErrorIs(t, st.DeleteAppointment(ctx, a.ID), domain.ErrNotFound)
	assert.ErrorIs(t, st.UpdateAppointment(ctx, a.ID, domain.AppointmentPatch{Notes: ptr("x")}), domain.ErrNotFound)
}

func TestMessages_NewestFirstAndRead(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	first, err := st.CreateMessage(ctx, domain.NewMessage{CustomerName: "A", Message: "one"})
	require.NoError(t, err)
	second, err := st.CreateMessage(ctx, domain.NewMessage{CustomerName: "B", Message: "two"})
	require.NoError(t, err)
	assert.False(t, first.ReadStatus)

	list, err := st.ListMessages(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)

	require.NoError(t, st.MarkMessageRead(ctx, first.ID))
	require.NoError(t, st.MarkMessageRead(ctx, first.ID))
	m, err := st.GetMessage(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, m.ReadStatus)

	assert.ErrorIs(t, st.MarkMessageRead(ctx, 404), domain.ErrNotFound)
}

func TestStats(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	_, err := st.BookAppointment(ctx, domain.NewCustomer{Name: "D", Phone: "555-5555"},
		domain.NewAppointment{ServiceID: 1, AppointmentDate: "2030-01-01"})
	require.NoError(t, err)
	_, err = st.CreateMessage(ctx, domain.NewMessage{CustomerName: "E", Message: "hi"})
	require.NoError(t, err)

	s, err := st.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, s.TotalAppointments)
	assert.Equal(t, 1, s.TotalCustomers)
	assert.Equal(t, 1, s.TotalMessages)
	assert.Equal(t, 1, s.UnreadMessages)
	assert.Equal(t, 4, s.ActiveServices)
	assert.Equal(t, 1, s.AppointmentsByStatus[domain.StatusScheduled])
}

func TestSeedAdmin_HashesAndKeepsExisting(t *testing.T) {
	db, err := repos.OpenDB("sqlite", ":memory:")
	require.NoError(t, err)
	defer db.Close()
	ctx := context.Background()

	created, err := repos.SeedAdmin(ctx, db, "admin", "first-pass")
	require.NoError(t, err)
	assert.True(t, created)
	created, err = repos.SeedAdmin(ctx, db, "admin", "second-pass")
	require.NoError(t, err)
	assert.False(t, created)

	u, err := repos.NewAdminRepo(db).AdminByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.NotEqual(t, "first-pass", u.Hash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte("first-pass")))

	_, err = repos.NewAdminRepo(db).AdminByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
