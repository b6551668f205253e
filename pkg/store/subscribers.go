package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// SubscriberRepo is the MongoDB-backed SubscriberStore.
type SubscriberRepo struct {
	coll *mongo.Collection
}

func (r *SubscriberRepo) Active(ctx context.Context) ([]Subscriber, error) {
	return r.find(ctx, bson.M{"active": true})
}

func (r *SubscriberRepo) All(ctx context.Context) ([]Subscriber, error) {
	return r.find(ctx, bson.M{})
}

func (r *SubscriberRepo) find(ctx context.Context, filter bson.M) ([]Subscriber, error) {
	cur, err := r.coll.Find(ctx, filter, findOptions(bson.D{{Key: "created_at", Value: 1}}, 0, 0))
	if err != nil {
		return nil, fmt.Errorf("find subscribers: %w", err)
	}

	var subscribers []Subscriber
	if err := cur.All(ctx, &subscribers); err != nil {
		return nil, fmt.Errorf("decode subscribers: %w", err)
	}
	return subscribers, nil
}

func (r *SubscriberRepo) FindByEmail(ctx context.Context, email string) (*Subscriber, error) {
	var s Subscriber
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&s); err != nil {
		return nil, mapNotFound(err)
	}
	return &s, nil
}

func (r *SubscriberRepo) FindByToken(ctx context.Context, token string) (*Subscriber, error) {
	var s Subscriber
	if err := r.coll.FindOne(ctx, bson.M{"unsubscribe_token": token}).Decode(&s); err != nil {
		return nil, mapNotFound(err)
	}
	return &s, nil
}

func (r *SubscriberRepo) Create(ctx context.Context, s *Subscriber) error {
	s.ID = newID()
	s.CreatedAt = time.Now().UTC()

	if _, err := r.coll.InsertOne(ctx, s); err != nil {
		return fmt.Errorf("insert subscriber: %w", err)
	}
	return nil
}

func (r *SubscriberRepo) SetActive(ctx context.Context, id string, active bool) error {
	res, err := r.coll.UpdateOne(ctx, byID(id), bson.M{"$set": bson.M{"active": active}})
	if err != nil {
		return fmt.Errorf("set subscriber active: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete hard-removes a subscriber; admin-only, unsubscribes merely
// deactivate.
func (r *SubscriberRepo) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, byID(id))
	if err != nil {
		return fmt.Errorf("delete subscriber: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SubscriberRepo) CountActive(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"active": true})
}
