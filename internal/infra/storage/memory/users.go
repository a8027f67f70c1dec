package memory

import (
	"context"

	"staykit/internal/domain/auth"
	"staykit/internal/domain/user"
)

type UserRepository struct {
	store *Store
	unit  *Unit
}

func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) ByID(ctx context.Context, id user.ID) (*user.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	stored, ok := r.store.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return clonedUser(stored), nil
}

func (r *UserRepository) ByEmail(ctx context.Context, email string) (*user.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	id, ok := r.store.byEmail[user.NormalizeEmail(email)]
	if !ok {
		return nil, user.ErrNotFound
	}
	stored, ok := r.store.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return clonedUser(stored), nil
}

func (r *UserRepository) Save(ctx context.Context, u *user.User) error {
	if r.unit == nil {
		r.store.mu.Lock()
		defer r.store.mu.Unlock()
		return applyUser(r.store, u)
	}
	r.unit.stage(func(s *Store) error { return applyUser(s, u) })
	return nil
}

func (r *UserRepository) CountByRole(ctx context.Context, role user.Role) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var count int64
	for _, stored := range r.store.users {
		if (&stored).HasRole(role) {
			count++
		}
	}
	return count, nil
}

func applyUser(s *Store, u *user.User) error {
	if existing, ok := s.byEmail[u.Email]; ok && existing != u.ID {
		return user.ErrEmailAlreadyUsed
	}
	snapshot := *u
	snapshot.Roles = append([]user.Role(nil), u.Roles...)
	s.users[u.ID] = snapshot
	s.byEmail[u.Email] = u.ID
	return nil
}

func clonedUser(stored user.User) *user.User {
	clone := stored
	clone.Roles = append([]user.Role(nil), stored.Roles...)
	return &clone
}

// SessionStore keeps bearer sessions in memory; restarts therefore log
// everyone out, which is fine for the dashboard.
type SessionStore struct {
	store *Store
}

func NewSessionStore(store *Store) *SessionStore {
	return &SessionStore{store: store}
}

func (s *SessionStore) Save(ctx context.Context, session *auth.Session) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	s.store.sessions[session.Token] = *session
	return nil
}

func (s *SessionStore) Get(ctx context.Context, token auth.Token) (*auth.Session, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	stored, ok := s.store.sessions[token]
	if !ok {
		return nil, auth.ErrSessionNotFound
	}
	clone := stored
	return &clone, nil
}

func (s *SessionStore) Delete(ctx context.Context, token auth.Token) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	delete(s.store.sessions, token)
	return nil
}

func (s *SessionStore) DeleteByUser(ctx context.Context, userID user.ID) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	for token, session := range s.store.sessions {
		if session.UserID == userID {
			delete(s.store.sessions, token)
		}
	}
	return nil
}
