package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ExperienceRepo is the MongoDB-backed ExperienceStore.
type ExperienceRepo struct {
	coll *mongo.Collection
}

func (r *ExperienceRepo) List(ctx context.Context) ([]Experience, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, findOptions(bson.D{{Key: "start_date", Value: -1}}, 0, 0))
	if err != nil {
		return nil, fmt.Errorf("list experience: %w", err)
	}

	var entries []Experience
	if err := cur.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("decode experience: %w", err)
	}
	return entries, nil
}

func (r *ExperienceRepo) Get(ctx context.Context, id string) (*Experience, error) {
	var e Experience
	if err := r.coll.FindOne(ctx, byID(id)).Decode(&e); err != nil {
		return nil, mapNotFound(err)
	}
	return &e, nil
}

func (r *ExperienceRepo) Create(ctx context.Context, e *Experience) error {
	e.ID = newID()
	e.CreatedAt = time.Now().UTC()

	if _, err := r.coll.InsertOne(ctx, e); err != nil {
		return fmt.Errorf("insert experience: %w", err)
	}
	return nil
}

func (r *ExperienceRepo) Update(ctx context.Context, id string, upd ExperienceUpdate) (*Experience, error) {
	set := bson.M{}
	if upd.Company != nil {
		set["company"] = *upd.Company
	}
	if upd.Role != nil {
		set["role"] = *upd.Role
	}
	if upd.Summary != nil {
		set["summary"] = *upd.Summary
	}
	if upd.StartDate != nil {
		set["start_date"] = *upd.StartDate
	}
	if upd.EndDate != nil {
		set["end_date"] = *upd.EndDate
	}
	if upd.Current != nil {
		set["current"] = *upd.Current
	}
	if len(set) == 0 {
		return r.Get(ctx, id)
	}

	var prev Experience
	err := r.coll.FindOneAndUpdate(ctx, byID(id), bson.M{"$set": set}, returnBefore).Decode(&prev)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &prev, nil
}

func (r *ExperienceRepo) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, byID(id))
	if err != nil {
		return fmt.Errorf("delete experience: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ExperienceRepo) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}
