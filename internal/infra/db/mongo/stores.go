package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	appoutbox "staykit/internal/app/outbox"
	"staykit/internal/domain/auth"
	"staykit/internal/domain/user"
)

func replaceUpsert() *options.ReplaceOptions {
	return options.Replace().SetUpsert(true)
}

type sessionDoc struct {
	Token     string    `bson:"_id"`
	UserID    string    `bson:"user_id"`
	Roles     []string  `bson:"roles"`
	CreatedAt time.Time `bson:"created_at"`
	ExpiresAt time.Time `bson:"expires_at"`
}

// SessionStore persists bearer sessions; a TTL index on expires_at is
// worth adding out of band, expired sessions are also rejected on read.
type SessionStore struct {
	coll *mongo.Collection
}

func (d *Database) Sessions() *SessionStore {
	return &SessionStore{coll: d.db.Collection(collSessions)}
}

func (s *SessionStore) Save(ctx context.Context, session *auth.Session) error {
	roles := make([]string, 0, len(session.Roles))
	for _, role := range session.Roles {
		roles = append(roles, string(role))
	}
	doc := sessionDoc{
		Token:     string(session.Token),
		UserID:    string(session.UserID),
		Roles:     roles,
		CreatedAt: session.CreatedAt,
		ExpiresAt: session.ExpiresAt,
	}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": doc.Token}, doc, replaceUpsert())
	return err
}

func (s *SessionStore) Get(ctx context.Context, token auth.Token) (*auth.Session, error) {
	var doc sessionDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": string(token)}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, auth.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	roles := make([]user.Role, 0, len(doc.Roles))
	for _, role := range doc.Roles {
		roles = append(roles, user.Role(role))
	}
	return &auth.Session{
		Token:     auth.Token(doc.Token),
		UserID:    user.ID(doc.UserID),
		Roles:     roles,
		CreatedAt: doc.CreatedAt,
		ExpiresAt: doc.ExpiresAt,
	}, nil
}

func (s *SessionStore) Delete(ctx context.Context, token auth.Token) error {
	_, err := s.coll.DeleteOne(ctx, bson.M{"_id": string(token)})
	return err
}

func (s *SessionStore) DeleteByUser(ctx context.Context, userID user.ID) error {
	_, err := s.coll.DeleteMany(ctx, bson.M{"user_id": string(userID)})
	return err
}

type idempotencyDoc struct {
	Key    string `bson:"_id"`
	Result []byte `bson:"result"`
}

type IdempotencyStore struct {
	coll *mongo.Collection
}

func (d *Database) Idempotency() *IdempotencyStore {
	return &IdempotencyStore{coll: d.db.Collection(collIdempotency)}
}

func (s *IdempotencyStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var doc idempotencyDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return doc.Result, true, nil
}

func (s *IdempotencyStore) Put(ctx context.Context, key string, result []byte) error {
	doc := idempotencyDoc{Key: key, Result: result}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": key}, doc, replaceUpsert())
	return err
}

type outboxDoc struct {
	ID          string    `bson:"_id"`
	EventName   string    `bson:"event_name"`
	AggregateID string    `bson:"aggregate_id"`
	Payload     []byte    `bson:"payload"`
	OccurredAt  time.Time `bson:"occurred_at"`
	State       string    `bson:"state"`
	Attempts    int       `bson:"attempts"`
	NextAttempt time.Time `bson:"next_attempt"`
	LastError   string    `bson:"last_error,omitempty"`
}

// OutboxStore implements both the append side used by units of work and
// the claim protocol the worker drives.
type OutboxStore struct {
	coll *mongo.Collection
}

func (d *Database) Outbox() *OutboxStore {
	return &OutboxStore{coll: d.db.Collection(collOutbox)}
}

func (s *OutboxStore) Append(ctx context.Context, records ...appoutbox.EventRecord) error {
	if len(records) == 0 {
		return nil
	}
	docs := make([]any, 0, len(records))
	for _, record := range records {
		docs = append(docs, outboxDoc{
			ID:          record.ID,
			EventName:   record.EventName,
			AggregateID: record.AggregateID,
			Payload:     record.Payload,
			OccurredAt:  record.OccurredAt,
			State:       record.State,
			Attempts:    record.Attempts,
			NextAttempt: record.NextAttempt,
			LastError:   record.LastError,
		})
	}
	_, err := s.coll.InsertMany(ctx, docs)
	return err
}

// Claim flips due NEW records to CLAIMED one at a time so concurrent
// workers never double-publish the same record.
func (s *OutboxStore) Claim(ctx context.Context, now time.Time, limit int) ([]appoutbox.EventRecord, error) {
	var claimed []appoutbox.EventRecord
	for len(claimed) < limit {
		filter := bson.M{
			"state":        appoutbox.StateNew,
			"next_attempt": bson.M{"$lte": now},
		}
		update := bson.M{
			"$set": bson.M{"state": appoutbox.StateClaimed},
			"$inc": bson.M{"attempts": 1},
		}
		var doc outboxDoc
		err := s.coll.FindOneAndUpdate(ctx, filter, update,
			options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
		if errors.Is(err, mongo.ErrNoDocuments) {
			break
		}
		if err != nil {
			return claimed, err
		}
		claimed = append(claimed, appoutbox.EventRecord{
			ID:          doc.ID,
			EventName:   doc.EventName,
			AggregateID: doc.AggregateID,
			Payload:     doc.Payload,
			OccurredAt:  doc.OccurredAt,
			State:       doc.State,
			Attempts:    doc.Attempts,
			NextAttempt: doc.NextAttempt,
			LastError:   doc.LastError,
		})
	}
	return claimed, nil
}

func (s *OutboxStore) MarkSent(ctx context.Context, id string) error {
	_, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"state": appoutbox.StateSent, "last_error": ""},
	})
	return err
}

func (s *OutboxStore) MarkFailed(ctx context.Context, id string, cause string, nextAttempt time.Time, maxAttempts int) error {
	var doc outboxDoc
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return err
	}
	set := bson.M{"last_error": cause}
	if doc.Attempts >= maxAttempts {
		set["state"] = appoutbox.StateFailed
	} else {
		set["state"] = appoutbox.StateNew
		set["next_attempt"] = nextAttempt
	}
	_, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	return err
}
