package properties

import (
	"context"

	"staykit/internal/domain/property"
)

// PropertyView is the dashboard and public-detail shape of a listing.
type PropertyView struct {
	ID               string   `json:"id"`
	HostID           string   `json:"host_id"`
	Name             string   `json:"name"`
	Description      string   `json:"description,omitempty"`
	Location         string   `json:"location,omitempty"`
	Address          string   `json:"address,omitempty"`
	Bedrooms         int      `json:"bedrooms"`
	Bathrooms        int      `json:"bathrooms"`
	MaxGuests        int      `json:"max_guests"`
	MinimumNights    int      `json:"minimum_nights"`
	CheckInTime      string   `json:"check_in_time"`
	CheckOutTime     string   `json:"check_out_time"`
	HouseRules       string   `json:"house_rules,omitempty"`
	Amenities        []string `json:"amenities,omitempty"`
	Photos           []string `json:"photos,omitempty"`
	Currency         string   `json:"currency"`
	BasePriceCents   int64    `json:"base_price_cents"`
	WeekendCents     *int64   `json:"weekend_price_cents,omitempty"`
	CleaningFeeCents *int64   `json:"cleaning_fee_cents,omitempty"`
	State            string   `json:"state"`
}

// GetPropertyQuery serves the public listing page.
type GetPropertyQuery struct {
	PropertyID string
}

func (GetPropertyQuery) Key() string { return "properties.get" }

type GetPropertyHandler struct {
	properties property.Repository
}

func NewGetPropertyHandler(properties property.Repository) *GetPropertyHandler {
	return &GetPropertyHandler{properties: properties}
}

func (h *GetPropertyHandler) Handle(ctx context.Context, q GetPropertyQuery) (PropertyView, error) {
	prop, err := h.properties.ByID(ctx, property.PropertyID(q.PropertyID))
	if err != nil {
		return PropertyView{}, err
	}
	return toView(prop), nil
}

// ListHostPropertiesQuery serves the host dashboard's own listings.
type ListHostPropertiesQuery struct {
	HostID string
}

func (ListHostPropertiesQuery) Key() string { return "properties.list_by_host" }

type ListHostPropertiesHandler struct {
	properties property.Repository
}

func NewListHostPropertiesHandler(properties property.Repository) *ListHostPropertiesHandler {
	return &ListHostPropertiesHandler{properties: properties}
}

func (h *ListHostPropertiesHandler) Handle(ctx context.Context, q ListHostPropertiesQuery) ([]PropertyView, error) {
	props, err := h.properties.ListByHost(ctx, property.HostID(q.HostID))
	if err != nil {
		return nil, err
	}
	views := make([]PropertyView, 0, len(props))
	for _, prop := range props {
		views = append(views, toView(prop))
	}
	return views, nil
}

func toView(prop *property.Property) PropertyView {
	view := PropertyView{
		ID:             string(prop.ID),
		HostID:         string(prop.Host),
		Name:           prop.Name,
		Description:    prop.Description,
		Location:       prop.Location,
		Address:        prop.Address,
		Bedrooms:       prop.Bedrooms,
		Bathrooms:      prop.Bathrooms,
		MaxGuests:      prop.MaxGuests,
		MinimumNights:  prop.MinimumNights,
		CheckInTime:    prop.CheckInTime,
		CheckOutTime:   prop.CheckOutTime,
		HouseRules:     prop.HouseRules,
		Amenities:      prop.Amenities,
		Photos:         prop.Photos,
		Currency:       prop.Rates.BasePrice.Currency,
		BasePriceCents: prop.Rates.BasePrice.Amount,
		State:          string(prop.State),
	}
	if prop.Rates.WeekendPrice != nil {
		cents := prop.Rates.WeekendPrice.Amount
		view.WeekendCents = &cents
	}
	if prop.Rates.CleaningFee != nil {
		cents := prop.Rates.CleaningFee.Amount
		view.CleaningFeeCents = &cents
	}
	return view
}
