package handler

import (
	"context"
	"net/http"

	"github.com/vfg2006/agency-crm-api/internal/domain"
	"github.com/vfg2006/agency-crm-api/internal/usecases/booking"
	"github.com/vfg2006/agency-crm-api/pkg/action"
)

func ListBookings(service booking.Booker, deps action.Dependencies) http.HandlerFunc {
	a := action.New(deps, action.Definition[struct{}, []*domain.Booking]{
		Name:        "booking.list",
		RequireAuth: true,
		Permission:  domain.PermissionBookingView,
		Handler: func(ctx context.Context, _ struct{}, actor *domain.Actor) ([]*domain.Booking, error) {
			return service.ListByAgency(ctx, actor.AgencyID)
		},
	})

	return serve(a, http.StatusOK, func(*http.Request) (struct{}, error) {
		return struct{}{}, nil
	})
}
