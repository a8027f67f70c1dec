package calendars

import (
	"context"
	"errors"
	"strings"
	"time"

	"staykit/internal/app/outbox"
	"staykit/internal/app/uow"
	"staykit/internal/domain/calendar"
	"staykit/internal/domain/property"
	"staykit/internal/domain/quote"
	"staykit/internal/domain/shared/money"
)

var ErrNothingToChange = errors.New("calendars: no availability or price change requested")

// SetDateCommand is the host's per-date edit: toggle availability, set or
// clear a price override, or both in one call. Untouched aspects keep their
// current state.
type SetDateCommand struct {
	PropertyID    string
	HostID        string
	Date          time.Time
	Available     *bool
	Reason        string
	OverrideCents *int64
	ClearOverride bool
}

func (SetDateCommand) Key() string { return "calendars.set_date" }

func (c SetDateCommand) Validate() error {
	if strings.TrimSpace(c.PropertyID) == "" {
		return errors.New("calendars: property id is required")
	}
	if c.Date.IsZero() {
		return errors.New("calendars: date is required")
	}
	if c.Available == nil && c.OverrideCents == nil && !c.ClearOverride {
		return ErrNothingToChange
	}
	if c.OverrideCents != nil && c.ClearOverride {
		return errors.New("calendars: cannot set and clear an override together")
	}
	return nil
}

type SetDateResult struct {
	Date       string `json:"date"`
	Available  bool   `json:"available"`
	Reason     string `json:"reason,omitempty"`
	PriceCents int64  `json:"price_cents"`
	Currency   string `json:"currency"`
	Overridden bool   `json:"overridden"`
}

type SetDateHandler struct {
	encoder outbox.Encoder
	now     func() time.Time
}

func NewSetDateHandler(encoder outbox.Encoder, now func() time.Time) *SetDateHandler {
	if now == nil {
		now = time.Now
	}
	return &SetDateHandler{encoder: encoder, now: now}
}

func (h *SetDateHandler) Handle(ctx context.Context, cmd SetDateCommand) (SetDateResult, error) {
	unit, err := uow.FromContext(ctx)
	if err != nil {
		return SetDateResult{}, err
	}

	prop, err := unit.Properties().ByID(ctx, property.PropertyID(cmd.PropertyID))
	if err != nil {
		return SetDateResult{}, err
	}
	if !prop.OwnedBy(property.HostID(cmd.HostID)) {
		return SetDateResult{}, property.ErrNotOwnedByHost
	}

	cal, err := unit.Calendars().Calendar(ctx, prop.ID)
	if errors.Is(err, calendar.ErrNotFound) {
		cal = calendar.New(prop.ID)
	} else if err != nil {
		return SetDateResult{}, err
	}

	now := h.now()
	if cmd.Available != nil {
		if *cmd.Available {
			cal.OpenDate(cmd.Date, now)
		} else {
			cal.BlockDate(cmd.Date, cmd.Reason, now)
		}
	}
	if cmd.OverrideCents != nil {
		price, err := money.NewNonNegative(*cmd.OverrideCents, prop.Rates.BasePrice.Currency)
		if err != nil {
			return SetDateResult{}, err
		}
		if err := cal.SetOverride(cmd.Date, price, now); err != nil {
			return SetDateResult{}, err
		}
	}
	if cmd.ClearOverride {
		if err := cal.ClearOverride(cmd.Date, now); err != nil {
			return SetDateResult{}, err
		}
	}

	if err := unit.Calendars().Save(ctx, cal); err != nil {
		return SetDateResult{}, err
	}
	if err := outbox.RecordDomainEvents(ctx, unit.Outbox(), h.encoder, &cal.EventRecorder); err != nil {
		return SetDateResult{}, err
	}

	dr := singleDay(cmd.Date)
	day, err := quote.DayQuote(cmd.Date, prop.Rates, cal.OverridesInRange(dr), cal.BlockedInRange(dr))
	if err != nil {
		return SetDateResult{}, err
	}
	return SetDateResult{
		Date:       day.Date.Format("2006-01-02"),
		Available:  day.Available,
		Reason:     day.Reason,
		PriceCents: day.Price.Amount,
		Currency:   day.Price.Currency,
		Overridden: day.Overridden,
	}, nil
}
