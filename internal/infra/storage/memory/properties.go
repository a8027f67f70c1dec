package memory

import (
	"context"
	"sort"

	"staykit/internal/domain/property"
	"staykit/internal/domain/shared/events"
)

// PropertyRepository is the read-side view; writes go through a unit of
// work so they stay transactional.
type PropertyRepository struct {
	store *Store
	unit  *Unit
}

func NewPropertyRepository(store *Store) *PropertyRepository {
	return &PropertyRepository{store: store}
}

func (r *PropertyRepository) ByID(ctx context.Context, id property.PropertyID) (*property.Property, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	stored, ok := r.store.properties[id]
	if !ok {
		return nil, property.ErrNotFound
	}
	return clonedProperty(stored), nil
}

func (r *PropertyRepository) Save(ctx context.Context, p *property.Property) error {
	if r.unit == nil {
		r.store.mu.Lock()
		defer r.store.mu.Unlock()
		return applyProperty(r.store, p)
	}
	r.unit.stage(func(s *Store) error { return applyProperty(s, p) })
	return nil
}

func (r *PropertyRepository) ListByHost(ctx context.Context, host property.HostID) ([]*property.Property, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []*property.Property
	for _, stored := range r.store.properties {
		if stored.Host == host {
			out = append(out, clonedProperty(stored))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *PropertyRepository) Count(ctx context.Context) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return int64(len(r.store.properties)), nil
}

func applyProperty(s *Store, p *property.Property) error {
	stored, exists := s.properties[p.ID]
	if exists && stored.Version != p.Version {
		return ErrConcurrentUpdate
	}
	p.Version++
	snapshot := *p
	snapshot.Amenities = copyStrings(p.Amenities)
	snapshot.Photos = copyStrings(p.Photos)
	snapshot.EventRecorder = events.EventRecorder{}
	s.properties[p.ID] = snapshot
	return nil
}

func clonedProperty(stored property.Property) *property.Property {
	clone := stored
	clone.Amenities = copyStrings(stored.Amenities)
	clone.Photos = copyStrings(stored.Photos)
	return &clone
}
