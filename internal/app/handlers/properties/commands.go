package properties

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"staykit/internal/app/outbox"
	"staykit/internal/app/policies"
	"staykit/internal/app/uow"
	"staykit/internal/domain/property"
	"staykit/internal/domain/quote"
	"staykit/internal/domain/shared/money"
)

// RatesInput is the wire shape of a rate card: minor units, optional
// weekend price and cleaning fee.
type RatesInput struct {
	Currency         string
	BasePriceCents   int64
	WeekendCents     *int64
	CleaningFeeCents *int64
	MinimumNights    int
}

func (in RatesInput) toRateCard() (quote.RateCard, error) {
	base, err := money.NewNonNegative(in.BasePriceCents, in.Currency)
	if err != nil {
		return quote.RateCard{}, err
	}
	card := quote.RateCard{BasePrice: base}
	if in.WeekendCents != nil {
		weekend, err := money.NewNonNegative(*in.WeekendCents, in.Currency)
		if err != nil {
			return quote.RateCard{}, err
		}
		card.WeekendPrice = &weekend
	}
	if in.CleaningFeeCents != nil {
		fee, err := money.NewNonNegative(*in.CleaningFeeCents, in.Currency)
		if err != nil {
			return quote.RateCard{}, err
		}
		card.CleaningFee = &fee
	}
	return card, nil
}

// CreatePropertyCommand registers a new listing in draft state for the
// requesting host.
type CreatePropertyCommand struct {
	HostID       string
	Name         string
	Description  string
	Location     string
	Address      string
	Bedrooms     int
	Bathrooms    int
	MaxGuests    int
	CheckInTime  string
	CheckOutTime string
	HouseRules   string
	Amenities    []string
	Rates        RatesInput
}

func (CreatePropertyCommand) Key() string { return "properties.create" }

func (c CreatePropertyCommand) Validate() error {
	if strings.TrimSpace(c.HostID) == "" {
		return property.ErrHostRequired
	}
	if strings.TrimSpace(c.Name) == "" {
		return property.ErrNameRequired
	}
	return nil
}

type PropertyResult struct {
	PropertyID string `json:"property_id"`
	State      string `json:"state"`
}

type CreatePropertyHandler struct {
	encoder outbox.Encoder
	now     func() time.Time
}

func NewCreatePropertyHandler(encoder outbox.Encoder, now func() time.Time) *CreatePropertyHandler {
	if now == nil {
		now = time.Now
	}
	return &CreatePropertyHandler{encoder: encoder, now: now}
}

func (h *CreatePropertyHandler) Handle(ctx context.Context, cmd CreatePropertyCommand) (PropertyResult, error) {
	unit, err := uow.FromContext(ctx)
	if err != nil {
		return PropertyResult{}, err
	}
	rates, err := cmd.Rates.toRateCard()
	if err != nil {
		return PropertyResult{}, err
	}
	minimumNights := cmd.Rates.MinimumNights
	if minimumNights == 0 {
		minimumNights = 1
	}
	prop, err := property.New(property.CreateParams{
		ID:            property.PropertyID(uuid.NewString()),
		Host:          property.HostID(cmd.HostID),
		Name:          cmd.Name,
		Description:   cmd.Description,
		Location:      cmd.Location,
		Address:       cmd.Address,
		Bedrooms:      cmd.Bedrooms,
		Bathrooms:     cmd.Bathrooms,
		MaxGuests:     cmd.MaxGuests,
		MinimumNights: minimumNights,
		CheckInTime:   cmd.CheckInTime,
		CheckOutTime:  cmd.CheckOutTime,
		HouseRules:    cmd.HouseRules,
		Amenities:     cmd.Amenities,
		Rates:         rates,
		Now:           h.now(),
	})
	if err != nil {
		return PropertyResult{}, err
	}
	if err := unit.Properties().Save(ctx, prop); err != nil {
		return PropertyResult{}, err
	}
	if err := outbox.RecordDomainEvents(ctx, unit.Outbox(), h.encoder, &prop.EventRecorder); err != nil {
		return PropertyResult{}, err
	}
	return PropertyResult{PropertyID: string(prop.ID), State: string(prop.State)}, nil
}

// UpdateRatesCommand replaces the standing rate card and minimum stay.
// Already-quoted bookings are unaffected.
type UpdateRatesCommand struct {
	PropertyID string
	HostID     string
	Rates      RatesInput
}

func (UpdateRatesCommand) Key() string { return "properties.update_rates" }

type UpdateRatesHandler struct {
	encoder outbox.Encoder
	now     func() time.Time
}

func NewUpdateRatesHandler(encoder outbox.Encoder, now func() time.Time) *UpdateRatesHandler {
	if now == nil {
		now = time.Now
	}
	return &UpdateRatesHandler{encoder: encoder, now: now}
}

func (h *UpdateRatesHandler) Handle(ctx context.Context, cmd UpdateRatesCommand) (PropertyResult, error) {
	unit, err := uow.FromContext(ctx)
	if err != nil {
		return PropertyResult{}, err
	}
	prop, err := ownedProperty(ctx, unit, cmd.PropertyID, cmd.HostID)
	if err != nil {
		return PropertyResult{}, err
	}
	rates, err := cmd.Rates.toRateCard()
	if err != nil {
		return PropertyResult{}, err
	}
	now := h.now()
	if err := prop.SetRates(rates, now); err != nil {
		return PropertyResult{}, err
	}
	if cmd.Rates.MinimumNights > 0 {
		if err := prop.SetMinimumNights(cmd.Rates.MinimumNights, now); err != nil {
			return PropertyResult{}, err
		}
	}
	if err := unit.Properties().Save(ctx, prop); err != nil {
		return PropertyResult{}, err
	}
	if err := outbox.RecordDomainEvents(ctx, unit.Outbox(), h.encoder, &prop.EventRecorder); err != nil {
		return PropertyResult{}, err
	}
	return PropertyResult{PropertyID: string(prop.ID), State: string(prop.State)}, nil
}

// ActivatePropertyCommand publishes a draft or suspended listing.
type ActivatePropertyCommand struct {
	PropertyID string
	HostID     string
}

func (ActivatePropertyCommand) Key() string { return "properties.activate" }

type ActivatePropertyHandler struct {
	encoder outbox.Encoder
	now     func() time.Time
}

func NewActivatePropertyHandler(encoder outbox.Encoder, now func() time.Time) *ActivatePropertyHandler {
	if now == nil {
		now = time.Now
	}
	return &ActivatePropertyHandler{encoder: encoder, now: now}
}

func (h *ActivatePropertyHandler) Handle(ctx context.Context, cmd ActivatePropertyCommand) (PropertyResult, error) {
	unit, err := uow.FromContext(ctx)
	if err != nil {
		return PropertyResult{}, err
	}
	prop, err := ownedProperty(ctx, unit, cmd.PropertyID, cmd.HostID)
	if err != nil {
		return PropertyResult{}, err
	}
	if err := prop.Activate(h.now()); err != nil {
		return PropertyResult{}, err
	}
	if err := unit.Properties().Save(ctx, prop); err != nil {
		return PropertyResult{}, err
	}
	if err := outbox.RecordDomainEvents(ctx, unit.Outbox(), h.encoder, &prop.EventRecorder); err != nil {
		return PropertyResult{}, err
	}
	return PropertyResult{PropertyID: string(prop.ID), State: string(prop.State)}, nil
}

// AddPhotoCommand uploads one photo to the media store and appends its URL
// to the listing.
type AddPhotoCommand struct {
	PropertyID  string
	HostID      string
	FileName    string
	ContentType string
	Size        int64
	Data        io.Reader
}

func (AddPhotoCommand) Key() string { return "properties.add_photo" }

func (c AddPhotoCommand) Validate() error {
	if c.Data == nil || c.Size <= 0 {
		return errors.New("properties: photo payload is required")
	}
	return nil
}

type AddPhotoResult struct {
	URL string `json:"url"`
}

type AddPhotoHandler struct {
	media policies.MediaStore
	now   func() time.Time
}

func NewAddPhotoHandler(media policies.MediaStore, now func() time.Time) *AddPhotoHandler {
	if now == nil {
		now = time.Now
	}
	return &AddPhotoHandler{media: media, now: now}
}

func (h *AddPhotoHandler) Handle(ctx context.Context, cmd AddPhotoCommand) (AddPhotoResult, error) {
	unit, err := uow.FromContext(ctx)
	if err != nil {
		return AddPhotoResult{}, err
	}
	prop, err := ownedProperty(ctx, unit, cmd.PropertyID, cmd.HostID)
	if err != nil {
		return AddPhotoResult{}, err
	}
	name := fmt.Sprintf("properties/%s/%s-%s", prop.ID, uuid.NewString(), strings.TrimSpace(cmd.FileName))
	url, err := h.media.Upload(ctx, name, cmd.ContentType, cmd.Data, cmd.Size)
	if err != nil {
		return AddPhotoResult{}, err
	}
	prop.AddPhoto(url, h.now())
	if err := unit.Properties().Save(ctx, prop); err != nil {
		return AddPhotoResult{}, err
	}
	return AddPhotoResult{URL: url}, nil
}

func ownedProperty(ctx context.Context, unit uow.UnitOfWork, propertyID, hostID string) (*property.Property, error) {
	prop, err := unit.Properties().ByID(ctx, property.PropertyID(propertyID))
	if err != nil {
		return nil, err
	}
	if !prop.OwnedBy(property.HostID(hostID)) {
		return nil, property.ErrNotOwnedByHost
	}
	return prop, nil
}
