package handlers

import (
	"bizbook/internal/config"
	"bizbook/internal/services"
)

type Deps struct {
	Auth *services.AuthService

	AuthHandler        *AuthHandler
	BusinessHandler    *BusinessHandler
	ServiceHandler     *ServiceHandler
	CustomerHandler    *CustomerHandler
	AppointmentHandler *AppointmentHandler
	MessageHandler     *MessageHandler
	AdminHandler       *AdminHandler
	HealthHandler      *HealthHandler
}

func NewDeps(repo services.Repository, auth *services.AuthService, cfg config.Config) *Deps {
	catalogSvc := services.NewCatalogService(repo)
	bookingSvc := services.NewBookingService(repo)
	inboxSvc := services.NewInboxService(repo)

	return &Deps{
		Auth:               auth,
		AuthHandler:        &AuthHandler{Auth: auth, SecureCookie: cfg.CookieSecure},
		BusinessHandler:    &BusinessHandler{Catalog: catalogSvc},
		ServiceHandler:     &ServiceHandler{Catalog: catalogSvc},
		CustomerHandler:    &CustomerHandler{Booking: bookingSvc},
		AppointmentHandler: &AppointmentHandler{Booking: bookingSvc},
		MessageHandler:     &MessageHandler{Inbox: inboxSvc},
		AdminHandler:       &AdminHandler{Dashboard: &services.DashboardService{Store: repo}},
		HealthHandler:      &HealthHandler{Store: repo},
	}
}
