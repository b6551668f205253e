package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ContactRepo is the MongoDB-backed ContactStore.
type ContactRepo struct {
	coll *mongo.Collection
}

func (r *ContactRepo) List(ctx context.Context, f ContactFilter) ([]ContactMessage, error) {
	filter := bson.M{}
	if f.Unread != nil {
		filter["read"] = !*f.Unread
	}

	cur, err := r.coll.Find(ctx, filter, findOptions(bson.D{{Key: "created_at", Value: -1}}, f.Page, f.Limit))
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}

	var messages []ContactMessage
	if err := cur.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("decode contacts: %w", err)
	}
	return messages, nil
}

func (r *ContactRepo) Create(ctx context.Context, m *ContactMessage) error {
	m.ID = newID()
	m.CreatedAt = time.Now().UTC()
	m.Read = false

	if _, err := r.coll.InsertOne(ctx, m); err != nil {
		return fmt.Errorf("insert contact message: %w", err)
	}
	return nil
}

func (r *ContactRepo) MarkRead(ctx context.Context, id string) error {
	res, err := r.coll.UpdateOne(ctx, byID(id), bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return fmt.Errorf("mark contact read: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ContactRepo) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, byID(id))
	if err != nil {
		return fmt.Errorf("delete contact message: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ContactRepo) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}
