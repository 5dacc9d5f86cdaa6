package domain

import "time"

// BusinessID is the id of the single business_details row.
const BusinessID = 1

// Appointment statuses.
const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

type BusinessDetails struct {
	ID          int64  `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
	Address     string `db:"address" json:"address"`
	Phone       string `db:"phone" json:"phone"`
	Email       string `db:"email" json:"email"`
	CreatedAt   string `db:"created_at" json:"created_at"`
	UpdatedAt   string `db:"updated_at" json:"updated_at"`
}

type Service struct {
	ID          int64   `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	Description string  `db:"description" json:"description"`
	Price       float64 `db:"price" json:"price"`
	Duration    int     `db:"duration" json:"duration"` // minutes
	Active      bool    `db:"active" json:"active"`
	CreatedAt   string  `db:"created_at" json:"created_at"`
}

type Customer struct {
	ID        int64  `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	Phone     string `db:"phone" json:"phone"`
	Email     string `db:"email" json:"email,omitempty"`
	CreatedAt string `db:"created_at" json:"created_at"`
}

// Appointment carries the customer and service names joined at read time.
type Appointment struct {
	ID              int64  `db:"id" json:"id"`
	CustomerID      int64  `db:"customer_id" json:"customer_id"`
	ServiceID       int64  `db:"service_id" json:"service_id"`
	AppointmentDate string `db:"appointment_date" json:"appointment_date"`
	Notes           string `db:"notes" json:"notes"`
	Status          string `db:"status" json:"status"`
	CreatedAt       string `db:"created_at" json:"created_at"`
	CustomerName    string `db:"customer_name" json:"customer_name"`
	ServiceName     string `db:"service_name" json:"service_name"`
}

type Message struct {
	ID            int64  `db:"id" json:"id"`
	CustomerName  string `db:"customer_name" json:"customer_name"`
	CustomerPhone string `db:"customer_phone" json:"customer_phone,omitempty"`
	CustomerEmail string `db:"customer_email" json:"customer_email,omitempty"`
	Subject       string `db:"subject" json:"subject,omitempty"`
	Message       string `db:"message" json:"message"`
	ReadStatus    bool   `db:"read_status" json:"read_status"`
	CreatedAt     string `db:"created_at" json:"created_at"`
}

type AdminUser struct {
	ID       int64  `db:"id" json:"id"`
	Username string `db:"username" json:"username"`
	Hash     string `db:"password_hash" json:"-"`
}

// Principal is the admin identified by a valid session token.
type Principal struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"-"`
}

type Stats struct {
	TotalAppointments    int            `json:"total_appointments"`
	TotalCustomers       int            `json:"total_customers"`
	TotalMessages        int            `json:"total_messages"`
	UnreadMessages       int            `json:"unread_messages"`
	ActiveServices       int            `json:"active_services"`
	AppointmentsByStatus map[string]int `json:"appointments_by_status"`
}
