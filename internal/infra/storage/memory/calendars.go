package memory

import (
	"context"

	"staykit/internal/domain/calendar"
	"staykit/internal/domain/property"
)

type CalendarRepository struct {
	store *Store
	unit  *Unit
}

func NewCalendarRepository(store *Store) *CalendarRepository {
	return &CalendarRepository{store: store}
}

func (r *CalendarRepository) Calendar(ctx context.Context, id property.PropertyID) (*calendar.Calendar, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	state, ok := r.store.calendars[id]
	if !ok {
		return nil, calendar.ErrNotFound
	}
	return calendar.Restore(id, state.version, state.entries), nil
}

func (r *CalendarRepository) Save(ctx context.Context, cal *calendar.Calendar) error {
	if r.unit == nil {
		r.store.mu.Lock()
		defer r.store.mu.Unlock()
		return applyCalendar(r.store, cal)
	}
	r.unit.stage(func(s *Store) error { return applyCalendar(s, cal) })
	return nil
}

func applyCalendar(s *Store, cal *calendar.Calendar) error {
	state, exists := s.calendars[cal.PropertyID]
	if exists && state.version != cal.Version {
		return ErrConcurrentUpdate
	}
	cal.Version++
	entries := cal.Entries()
	stored := make([]calendar.DayEntry, len(entries))
	copy(stored, entries)
	s.calendars[cal.PropertyID] = calendarState{version: cal.Version, entries: stored}
	return nil
}
