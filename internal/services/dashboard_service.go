package services

import (
	"context"

	"bizbook/internal/domain"
)

type DashboardService struct {
	Store StatsStore
}

// Stats always reports every appointment status, zero when unused.
func (s *DashboardService) Stats(ctx context.Context) (domain.Stats, error) {
	st, err := s.Store.Stats(ctx)
	if err != nil {
		return domain.Stats{}, err
	}
	if st.AppointmentsByStatus == nil {
		st.AppointmentsByStatus = map[string]int{}
	}
	for k := range appointmentStatuses {
		if _, ok := st.AppointmentsByStatus[k]; !ok {
			st.AppointmentsByStatus[k] = 0
		}
	}
	return st, nil
}
