package mongo

import (
	"time"

	"staykit/internal/domain/booking"
	"staykit/internal/domain/calendar"
	"staykit/internal/domain/property"
	"staykit/internal/domain/quote"
	"staykit/internal/domain/shared/daterange"
	"staykit/internal/domain/shared/money"
	"staykit/internal/domain/user"
)

type moneyDoc struct {
	Cents    int64  `bson:"cents"`
	Currency string `bson:"currency"`
}

func toMoneyDoc(m money.Money) moneyDoc {
	return moneyDoc{Cents: m.Amount, Currency: m.Currency}
}

func (d moneyDoc) toMoney() money.Money {
	return money.Money{Amount: d.Cents, Currency: d.Currency}
}

type propertyDoc struct {
	ID            string    `bson:"_id"`
	Host          string    `bson:"host_id"`
	Name          string    `bson:"name"`
	Description   string    `bson:"description,omitempty"`
	Location      string    `bson:"location,omitempty"`
	Address       string    `bson:"address,omitempty"`
	Bedrooms      int       `bson:"bedrooms"`
	Bathrooms     int       `bson:"bathrooms"`
	MaxGuests     int       `bson:"max_guests"`
	MinimumNights int       `bson:"minimum_nights"`
	CheckInTime   string    `bson:"check_in_time"`
	CheckOutTime  string    `bson:"check_out_time"`
	HouseRules    string    `bson:"house_rules,omitempty"`
	Amenities     []string  `bson:"amenities,omitempty"`
	Photos        []string  `bson:"photos,omitempty"`
	BasePrice     moneyDoc  `bson:"base_price"`
	WeekendPrice  *moneyDoc `bson:"weekend_price,omitempty"`
	CleaningFee   *moneyDoc `bson:"cleaning_fee,omitempty"`
	State         string    `bson:"state"`
	Version       int64     `bson:"version"`
	CreatedAt     time.Time `bson:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at"`
}

func toPropertyDoc(p *property.Property) propertyDoc {
	doc := propertyDoc{
		ID:            string(p.ID),
		Host:          string(p.Host),
		Name:          p.Name,
		Description:   p.Description,
		Location:      p.Location,
		Address:       p.Address,
		Bedrooms:      p.Bedrooms,
		Bathrooms:     p.Bathrooms,
		MaxGuests:     p.MaxGuests,
		MinimumNights: p.MinimumNights,
		CheckInTime:   p.CheckInTime,
		CheckOutTime:  p.CheckOutTime,
		HouseRules:    p.HouseRules,
		Amenities:     p.Amenities,
		Photos:        p.Photos,
		BasePrice:     toMoneyDoc(p.Rates.BasePrice),
		State:         string(p.State),
		Version:       p.Version,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if p.Rates.WeekendPrice != nil {
		weekend := toMoneyDoc(*p.Rates.WeekendPrice)
		doc.WeekendPrice = &weekend
	}
	if p.Rates.CleaningFee != nil {
		fee := toMoneyDoc(*p.Rates.CleaningFee)
		doc.CleaningFee = &fee
	}
	return doc
}

func (doc propertyDoc) toProperty() *property.Property {
	rates := quote.RateCard{BasePrice: doc.BasePrice.toMoney()}
	if doc.WeekendPrice != nil {
		weekend := doc.WeekendPrice.toMoney()
		rates.WeekendPrice = &weekend
	}
	if doc.CleaningFee != nil {
		fee := doc.CleaningFee.toMoney()
		rates.CleaningFee = &fee
	}
	return &property.Property{
		ID:            property.PropertyID(doc.ID),
		Host:          property.HostID(doc.Host),
		Name:          doc.Name,
		Description:   doc.Description,
		Location:      doc.Location,
		Address:       doc.Address,
		Bedrooms:      doc.Bedrooms,
		Bathrooms:     doc.Bathrooms,
		MaxGuests:     doc.MaxGuests,
		MinimumNights: doc.MinimumNights,
		CheckInTime:   doc.CheckInTime,
		CheckOutTime:  doc.CheckOutTime,
		HouseRules:    doc.HouseRules,
		Amenities:     doc.Amenities,
		Photos:        doc.Photos,
		Rates:         rates,
		State:         property.State(doc.State),
		Version:       doc.Version,
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
	}
}

type dayDoc struct {
	Date      time.Time `bson:"date"`
	Available bool      `bson:"available"`
	Reason    string    `bson:"reason,omitempty"`
	Override  *moneyDoc `bson:"override,omitempty"`
	UpdatedAt time.Time `bson:"updated_at"`
}

type calendarDoc struct {
	ID      string   `bson:"_id"`
	Version int64    `bson:"version"`
	Days    []dayDoc `bson:"days"`
}

func toCalendarDoc(cal *calendar.Calendar) calendarDoc {
	entries := cal.Entries()
	days := make([]dayDoc, 0, len(entries))
	for _, entry := range entries {
		day := dayDoc{
			Date:      entry.Date,
			Available: entry.Available,
			Reason:    entry.Reason,
			UpdatedAt: entry.UpdatedAt,
		}
		if entry.Override != nil {
			override := toMoneyDoc(*entry.Override)
			day.Override = &override
		}
		days = append(days, day)
	}
	return calendarDoc{ID: string(cal.PropertyID), Version: cal.Version, Days: days}
}

func (doc calendarDoc) toCalendar() *calendar.Calendar {
	entries := make([]calendar.DayEntry, 0, len(doc.Days))
	for _, day := range doc.Days {
		entry := calendar.DayEntry{
			Date:      day.Date,
			Available: day.Available,
			Reason:    day.Reason,
			UpdatedAt: day.UpdatedAt,
		}
		if day.Override != nil {
			override := day.Override.toMoney()
			entry.Override = &override
		}
		entries = append(entries, entry)
	}
	return calendar.Restore(property.PropertyID(doc.ID), doc.Version, entries)
}

type nightDoc struct {
	Date  time.Time `bson:"date"`
	Price moneyDoc  `bson:"price"`
}

type bookingDoc struct {
	ID              string     `bson:"_id"`
	PropertyID      string     `bson:"property_id"`
	FirstName       string     `bson:"first_name"`
	LastName        string     `bson:"last_name"`
	Email           string     `bson:"email"`
	Phone           string     `bson:"phone,omitempty"`
	Guests          int        `bson:"guests"`
	CheckIn         time.Time  `bson:"check_in"`
	CheckOut        time.Time  `bson:"check_out"`
	Nights          []nightDoc `bson:"nights"`
	CleaningFee     moneyDoc   `bson:"cleaning_fee"`
	Total           moneyDoc   `bson:"total"`
	SpecialRequests string     `bson:"special_requests,omitempty"`
	Status          string     `bson:"status"`
	PaymentSession  string     `bson:"payment_session,omitempty"`
	Version         int64      `bson:"version"`
	CreatedAt       time.Time  `bson:"created_at"`
	UpdatedAt       time.Time  `bson:"updated_at"`
}

func toBookingDoc(b *booking.Booking) bookingDoc {
	nights := make([]nightDoc, 0, len(b.Quote.Nights))
	for _, night := range b.Quote.Nights {
		nights = append(nights, nightDoc{Date: night.Date, Price: toMoneyDoc(night.Price)})
	}
	return bookingDoc{
		ID:              string(b.ID),
		PropertyID:      string(b.PropertyID),
		FirstName:       b.Guest.FirstName,
		LastName:        b.Guest.LastName,
		Email:           b.Guest.Email,
		Phone:           b.Guest.Phone,
		Guests:          b.Guests,
		CheckIn:         b.Range.CheckIn,
		CheckOut:        b.Range.CheckOut,
		Nights:          nights,
		CleaningFee:     toMoneyDoc(b.Quote.CleaningFee),
		Total:           toMoneyDoc(b.Quote.Total),
		SpecialRequests: b.SpecialRequests,
		Status:          string(b.Status),
		PaymentSession:  b.PaymentSession,
		Version:         b.Version,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func (doc bookingDoc) toBooking() *booking.Booking {
	nights := make([]quote.NightPrice, 0, len(doc.Nights))
	for _, night := range doc.Nights {
		nights = append(nights, quote.NightPrice{Date: night.Date, Price: night.Price.toMoney()})
	}
	return &booking.Booking{
		ID:         booking.BookingID(doc.ID),
		PropertyID: property.PropertyID(doc.PropertyID),
		Guest: booking.Guest{
			FirstName: doc.FirstName,
			LastName:  doc.LastName,
			Email:     doc.Email,
			Phone:     doc.Phone,
		},
		Guests: doc.Guests,
		Range:  daterange.DateRange{CheckIn: doc.CheckIn, CheckOut: doc.CheckOut},
		Quote: quote.PriceQuote{
			Nights:      nights,
			NightsCount: len(nights),
			CleaningFee: doc.CleaningFee.toMoney(),
			Total:       doc.Total.toMoney(),
		},
		SpecialRequests: doc.SpecialRequests,
		Status:          booking.Status(doc.Status),
		PaymentSession:  doc.PaymentSession,
		Version:         doc.Version,
		CreatedAt:       doc.CreatedAt,
		UpdatedAt:       doc.UpdatedAt,
	}
}

type userDoc struct {
	ID           string    `bson:"_id"`
	Email        string    `bson:"email"`
	FirstName    string    `bson:"first_name"`
	LastName     string    `bson:"last_name,omitempty"`
	Phone        string    `bson:"phone,omitempty"`
	PasswordHash string    `bson:"password_hash"`
	Roles        []string  `bson:"roles"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

func toUserDoc(u *user.User) userDoc {
	roles := make([]string, 0, len(u.Roles))
	for _, role := range u.Roles {
		roles = append(roles, string(role))
	}
	return userDoc{
		ID:           string(u.ID),
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Phone:        u.Phone,
		PasswordHash: u.PasswordHash,
		Roles:        roles,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (doc userDoc) toUser() *user.User {
	roles := make([]user.Role, 0, len(doc.Roles))
	for _, role := range doc.Roles {
		roles = append(roles, user.Role(role))
	}
	return &user.User{
		ID:           user.ID(doc.ID),
		Email:        doc.Email,
		FirstName:    doc.FirstName,
		LastName:     doc.LastName,
		Phone:        doc.Phone,
		PasswordHash: doc.PasswordHash,
		Roles:        roles,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}
}
