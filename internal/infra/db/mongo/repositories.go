package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"staykit/internal/domain/booking"
	"staykit/internal/domain/calendar"
	"staykit/internal/domain/property"
	"staykit/internal/domain/user"
)

var ErrConcurrentUpdate = errors.New("mongo: concurrent update")

// versionedReplace enforces optimistic concurrency: an insert for version
// zero, otherwise a replace matched on the previous version.
func versionedReplace(ctx context.Context, coll *mongo.Collection, id string, prevVersion int64, doc any) error {
	if prevVersion == 0 {
		_, err := coll.InsertOne(ctx, doc)
		if mongo.IsDuplicateKeyError(err) {
			return ErrConcurrentUpdate
		}
		return err
	}
	res, err := coll.ReplaceOne(ctx, bson.M{"_id": id, "version": prevVersion}, doc)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrConcurrentUpdate
	}
	return nil
}

type PropertyRepository struct {
	coll *mongo.Collection
}

func (d *Database) Properties() *PropertyRepository {
	return &PropertyRepository{coll: d.db.Collection(collProperties)}
}

func (r *PropertyRepository) ByID(ctx context.Context, id property.PropertyID) (*property.Property, error) {
	var doc propertyDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, property.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toProperty(), nil
}

func (r *PropertyRepository) Save(ctx context.Context, p *property.Property) error {
	prev := p.Version
	p.Version++
	if err := versionedReplace(ctx, r.coll, string(p.ID), prev, toPropertyDoc(p)); err != nil {
		p.Version = prev
		return err
	}
	return nil
}

func (r *PropertyRepository) ListByHost(ctx context.Context, host property.HostID) ([]*property.Property, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"host_id": string(host)})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var out []*property.Property
	for cursor.Next(ctx) {
		var doc propertyDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toProperty())
	}
	return out, cursor.Err()
}

func (r *PropertyRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}

type CalendarRepository struct {
	coll *mongo.Collection
}

func (d *Database) Calendars() *CalendarRepository {
	return &CalendarRepository{coll: d.db.Collection(collCalendars)}
}

func (r *CalendarRepository) Calendar(ctx context.Context, id property.PropertyID) (*calendar.Calendar, error) {
	var doc calendarDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, calendar.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toCalendar(), nil
}

func (r *CalendarRepository) Save(ctx context.Context, cal *calendar.Calendar) error {
	prev := cal.Version
	cal.Version++
	if err := versionedReplace(ctx, r.coll, string(cal.PropertyID), prev, toCalendarDoc(cal)); err != nil {
		cal.Version = prev
		return err
	}
	return nil
}

type BookingRepository struct {
	coll *mongo.Collection
}

func (d *Database) Bookings() *BookingRepository {
	return &BookingRepository{coll: d.db.Collection(collBookings)}
}

func (r *BookingRepository) ByID(ctx context.Context, id booking.BookingID) (*booking.Booking, error) {
	return r.findOne(ctx, bson.M{"_id": string(id)})
}

func (r *BookingRepository) ByPaymentSession(ctx context.Context, sessionID string) (*booking.Booking, error) {
	return r.findOne(ctx, bson.M{"payment_session": sessionID})
}

func (r *BookingRepository) findOne(ctx context.Context, filter bson.M) (*booking.Booking, error) {
	var doc bookingDoc
	err := r.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, booking.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toBooking(), nil
}

func (r *BookingRepository) Save(ctx context.Context, b *booking.Booking) error {
	prev := b.Version
	b.Version++
	if err := versionedReplace(ctx, r.coll, string(b.ID), prev, toBookingDoc(b)); err != nil {
		b.Version = prev
		return err
	}
	return nil
}

func (r *BookingRepository) ListByProperty(ctx context.Context, id property.PropertyID) ([]*booking.Booking, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"property_id": string(id)})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var out []*booking.Booking
	for cursor.Next(ctx) {
		var doc bookingDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toBooking())
	}
	return out, cursor.Err()
}

func (r *BookingRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}

type UserRepository struct {
	coll *mongo.Collection
}

func (d *Database) Users() *UserRepository {
	return &UserRepository{coll: d.db.Collection(collUsers)}
}

func (r *UserRepository) ByID(ctx context.Context, id user.ID) (*user.User, error) {
	return r.findOne(ctx, bson.M{"_id": string(id)})
}

func (r *UserRepository) ByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.findOne(ctx, bson.M{"email": user.NormalizeEmail(email)})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*user.User, error) {
	var doc userDoc
	err := r.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, user.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toUser(), nil
}

func (r *UserRepository) Save(ctx context.Context, u *user.User) error {
	opts := replaceUpsert()
	_, err := r.coll.ReplaceOne(ctx, bson.M{"_id": string(u.ID)}, toUserDoc(u), opts)
	if mongo.IsDuplicateKeyError(err) {
		return user.ErrEmailAlreadyUsed
	}
	return err
}

func (r *UserRepository) CountByRole(ctx context.Context, role user.Role) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"roles": string(role)})
}
