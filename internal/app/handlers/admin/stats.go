package admin

import (
	"context"

	"staykit/internal/domain/booking"
	"staykit/internal/domain/property"
	"staykit/internal/domain/user"
)

// StatsQuery backs the admin dashboard's headline counters.
type StatsQuery struct{}

func (StatsQuery) Key() string { return "admin.stats" }

type StatsView struct {
	TotalHosts      int64 `json:"total_hosts"`
	TotalProperties int64 `json:"total_properties"`
	TotalBookings   int64 `json:"total_bookings"`
}

type StatsHandler struct {
	users      user.Repository
	properties property.Repository
	bookings   booking.Repository
}

func NewStatsHandler(users user.Repository, properties property.Repository, bookings booking.Repository) *StatsHandler {
	return &StatsHandler{users: users, properties: properties, bookings: bookings}
}

func (h *StatsHandler) Handle(ctx context.Context, _ StatsQuery) (StatsView, error) {
	hosts, err := h.users.CountByRole(ctx, user.RoleHost)
	if err != nil {
		return StatsView{}, err
	}
	properties, err := h.properties.Count(ctx)
	if err != nil {
		return StatsView{}, err
	}
	bookings, err := h.bookings.Count(ctx)
	if err != nil {
		return StatsView{}, err
	}
	return StatsView{
		TotalHosts:      hosts,
		TotalProperties: properties,
		TotalBookings:   bookings,
	}, nil
}
