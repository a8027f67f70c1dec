package property

import (
	"context"
	"errors"
	"strings"
	"time"

	"staykit/internal/domain/quote"
	"staykit/internal/domain/shared/events"
)

var (
	ErrNotFound        = errors.New("property: not found")
	ErrNameRequired    = errors.New("property: name is required")
	ErrHostRequired    = errors.New("property: host id is required")
	ErrGuestsLimit     = errors.New("property: max guests must be at least 1")
	ErrMinimumNights   = errors.New("property: minimum nights must be at least 1")
	ErrInvalidState    = errors.New("property: invalid state transition")
	ErrAddressRequired = errors.New("property: address must be set before activating")
	ErrNotOwnedByHost  = errors.New("property: not owned by this host")
)

type PropertyID string
type HostID string

type State string

const (
	StateDraft     State = "DRAFT"
	StateActive    State = "ACTIVE"
	StateSuspended State = "SUSPENDED"
)

// Property is one bookable short-term-rental unit belonging to a host. The
// rate card embedded here feeds the pricing calculator directly.
type Property struct {
	ID            PropertyID
	Host          HostID
	Name          string
	Description   string
	Location      string
	Address       string
	Bedrooms      int
	Bathrooms     int
	MaxGuests     int
	MinimumNights int
	CheckInTime   string
	CheckOutTime  string
	HouseRules    string
	Amenities     []string
	Photos        []string
	Rates         quote.RateCard
	State         State
	Version       int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id PropertyID) (*Property, error)
	Save(ctx context.Context, p *Property) error
	ListByHost(ctx context.Context, host HostID) ([]*Property, error)
	Count(ctx context.Context) (int64, error)
}

type CreateParams struct {
	ID            PropertyID
	Host          HostID
	Name          string
	Description   string
	Location      string
	Address       string
	Bedrooms      int
	Bathrooms     int
	MaxGuests     int
	MinimumNights int
	CheckInTime   string
	CheckOutTime  string
	HouseRules    string
	Amenities     []string
	Rates         quote.RateCard
	Now           time.Time
}

func New(params CreateParams) (*Property, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, errors.New("property: id is required")
	}
	if strings.TrimSpace(string(params.Host)) == "" {
		return nil, ErrHostRequired
	}
	if strings.TrimSpace(params.Name) == "" {
		return nil, ErrNameRequired
	}
	if params.MaxGuests < 1 {
		return nil, ErrGuestsLimit
	}
	if params.MinimumNights < 1 {
		return nil, ErrMinimumNights
	}
	if err := params.Rates.Validate(); err != nil {
		return nil, err
	}
	now := params.Now.UTC()
	checkIn := params.CheckInTime
	if checkIn == "" {
		checkIn = "15:00"
	}
	checkOut := params.CheckOutTime
	if checkOut == "" {
		checkOut = "11:00"
	}
	p := &Property{
		ID:            params.ID,
		Host:          params.Host,
		Name:          strings.TrimSpace(params.Name),
		Description:   params.Description,
		Location:      params.Location,
		Address:       params.Address,
		Bedrooms:      params.Bedrooms,
		Bathrooms:     params.Bathrooms,
		MaxGuests:     params.MaxGuests,
		MinimumNights: params.MinimumNights,
		CheckInTime:   checkIn,
		CheckOutTime:  checkOut,
		HouseRules:    params.HouseRules,
		Amenities:     append([]string(nil), params.Amenities...),
		Rates:         params.Rates,
		State:         StateDraft,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	p.Record(Created{PropertyID: p.ID, HostID: p.Host, Name: p.Name, At: now})
	return p, nil
}

// Activate makes the property bookable. An address is required so guest
// confirmation emails can include it.
func (p *Property) Activate(now time.Time) error {
	if p.State == StateActive {
		return nil
	}
	if p.State != StateDraft && p.State != StateSuspended {
		return ErrInvalidState
	}
	if strings.TrimSpace(p.Address) == "" {
		return ErrAddressRequired
	}
	p.State = StateActive
	p.UpdatedAt = now.UTC()
	p.Record(Activated{PropertyID: p.ID, At: p.UpdatedAt})
	return nil
}

func (p *Property) Suspend(reason string, now time.Time) error {
	if p.State != StateActive {
		return ErrInvalidState
	}
	p.State = StateSuspended
	p.UpdatedAt = now.UTC()
	p.Record(Suspended{PropertyID: p.ID, Reason: reason, At: p.UpdatedAt})
	return nil
}

// SetRates replaces the rate card. Existing bookings keep their quoted totals;
// the change affects future quotes only.
func (p *Property) SetRates(rates quote.RateCard, now time.Time) error {
	if err := rates.Validate(); err != nil {
		return err
	}
	p.Rates = rates
	p.UpdatedAt = now.UTC()
	p.Record(RatesUpdated{PropertyID: p.ID, BasePriceCents: rates.BasePrice.Amount, At: p.UpdatedAt})
	return nil
}

func (p *Property) SetMinimumNights(nights int, now time.Time) error {
	if nights < 1 {
		return ErrMinimumNights
	}
	p.MinimumNights = nights
	p.UpdatedAt = now.UTC()
	return nil
}

func (p *Property) AddPhoto(url string, now time.Time) {
	url = strings.TrimSpace(url)
	if url == "" {
		return
	}
	p.Photos = append(p.Photos, url)
	p.UpdatedAt = now.UTC()
}

// OwnedBy guards host-scoped operations in the multi-tenant dashboard.
func (p *Property) OwnedBy(host HostID) bool {
	return p.Host == host
}
