package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Patch structs model coalesce-updates: a nil field leaves the stored value as is.

type BusinessPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Address     *string `json:"address"`
	Phone       *string `json:"phone"`
	Email       *string `json:"email"`
}

type NewService struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"`
	Duration    *int     `json:"duration"`
	Active      *bool    `json:"active"` // nil means active
}

type ServicePatch struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Duration    *int     `json:"duration"`
	Active      *bool    `json:"active"`
}

type NewCustomer struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

type NewAppointment struct {
	CustomerID      int64  `json:"customer_id"`
	ServiceID       int64  `json:"service_id"`
	AppointmentDate string `json:"appointment_date"`
	Notes           string `json:"notes"`
	Status          string `json:"status"` // empty means scheduled
}

type AppointmentPatch struct {
	CustomerID      *int64  `json:"customer_id"`
	ServiceID       *int64  `json:"service_id"`
	AppointmentDate *string `json:"appointment_date"`
	Notes           *string `json:"notes"`
	Status          *string `json:"status"`
}

// BookingRequest is the public booking form.
type BookingRequest struct {
	CustomerName    string `json:"customerName"`
	CustomerPhone   string `json:"customerPhone"`
	CustomerEmail   string `json:"customerEmail"`
	ServiceID       FlexID `json:"serviceId"`
	AppointmentDate string `json:"appointmentDate"`
	AppointmentTime string `json:"appointmentTime"`
	Notes           string `json:"notes"`
}

type NewMessage struct {
	CustomerName  string `json:"customerName"`
	CustomerPhone string `json:"customerPhone"`
	CustomerEmail string `json:"customerEmail"`
	Subject       string `json:"subject"`
	Message       string `json:"message"`
}

// FlexID is an id that decodes from a JSON number or a numeric string.
// Form selects post their values as strings.
type FlexID int64

func (id *FlexID) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		*id = 0
		return nil
	}
	if uq, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(uq)
	}
	if raw == "" {
		*id = 0
		return nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("id %s is not an integer", b)
	}
	*id = FlexID(n)
	return nil
}
