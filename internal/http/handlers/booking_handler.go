package handlers

import (
	"github.com/gofiber/fiber/v2"

	"bizbook/internal/domain"
	applog "bizbook/internal/log"
	"bizbook/internal/metrics"
	"bizbook/internal/services"
)

type CustomerHandler struct {
	Booking *services.BookingService
}

// GET /api/customers
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	out, err := h.Booking.ListCustomers(c.UserContext())
	if err != nil {
		return fail(c, "customers.list", err)
	}
	return c.JSON(out)
}

// GET /api/customers/:id
func (h *CustomerHandler) Get(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return fail(c, "customers.get", err)
	}
	cu, err := h.Booking.GetCustomer(c.UserContext(), id)
	if err != nil {
		return fail(c, "customers.get", err)
	}
	return c.JSON(cu)
}

// POST /api/customers answers 201 for a new customer and 200 when the
// phone was already on file.
func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	var in domain.NewCustomer
	if err := bind(c, &in); err != nil {
		return fail(c, "customers.create", err)
	}
	cu, created, err := h.Booking.AddCustomer(c.UserContext(), in)
	if err != nil {
		return fail(c, "customers.create", err)
	}
	if !created {
		return c.JSON(cu)
	}
	applog.Audit(c, "customers.create", map[string]any{"customer_id": cu.ID})
	return c.Status(fiber.StatusCreated).JSON(cu)
}

type AppointmentHandler struct {
	Booking *services.BookingService
}

// GET /api/appointments
func (h *AppointmentHandler) List(c *fiber.Ctx) error {
	out, err := h.Booking.ListAppointments(c.UserContext())
	if err != nil {
		return fail(c, "appointments.list", err)
	}
	return c.JSON(out)
}

// GET /api/appointments/:id
func (h *AppointmentHandler) Get(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return fail(c, "appointments.get", err)
	}
	a, err := h.Booking.GetAppointment(c.UserContext(), id)
	if err != nil {
		return fail(c, "appointments.get", err)
	}
	return c.JSON(a)
}

// POST /api/appointments is the public booking form.
func (h *AppointmentHandler) Book(c *fiber.Ctx) error {
	var req domain.BookingRequest
	if err := bind(c, &req); err != nil {
		metrics.RecordBooking("invalid")
		return fail(c, "appointments.book", err)
	}
	a, err := h.Booking.Book(c.UserContext(), req)
	if err != nil {
		if domain.IsValidation(err) {
			metrics.RecordBooking("invalid")
		} else {
			metrics.RecordBooking("error")
		}
		return fail(c, "appointments.book", err)
	}
	metrics.RecordBooking("ok")
	applog.Info(c, "appointments.book", map[string]any{"appointment_id": a.ID, "service_id": a.ServiceID})
	return c.Status(fiber.StatusCreated).JSON(a)
}

// PATCH /api/appointments/:id
func (h *AppointmentHandler) Update(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return fail(c, "appointments.update", err)
	}
	var p domain.AppointmentPatch
	if err := bind(c, &p); err != nil {
		return fail(c, "appointments.update", err)
	}
	a, err := h.Booking.UpdateAppointment(c.UserContext(), id, p)
	if err != nil {
		return fail(c, "appointments.update", err)
	}
	applog.Audit(c, "appointments.update", map[string]any{"appointment_id": id, "status": a.Status})
	return c.JSON(a)
}

// DELETE /api/appointments/:id
func (h *AppointmentHandler) Delete(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return fail(c, "appointments.delete", err)
	}
	if err := h.Booking.DeleteAppointment(c.UserContext(), id); err != nil {
		return fail(c, "appointments.delete", err)
	}
	applog.Audit(c, "appointments.delete", map[string]any{"appointment_id": id})
	return ok(c, "Appointment deleted")
}
