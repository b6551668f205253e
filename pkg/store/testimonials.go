package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// TestimonialRepo is the MongoDB-backed TestimonialStore.
type TestimonialRepo struct {
	coll *mongo.Collection
}

func (r *TestimonialRepo) List(ctx context.Context, f TestimonialFilter) ([]Testimonial, error) {
	filter := bson.M{}
	if f.Approved != nil {
		filter["approved"] = *f.Approved
	}

	cur, err := r.coll.Find(ctx, filter, findOptions(bson.D{{Key: "created_at", Value: -1}}, 0, 0))
	if err != nil {
		return nil, fmt.Errorf("list testimonials: %w", err)
	}

	var testimonials []Testimonial
	if err := cur.All(ctx, &testimonials); err != nil {
		return nil, fmt.Errorf("decode testimonials: %w", err)
	}
	return testimonials, nil
}

func (r *TestimonialRepo) Get(ctx context.Context, id string) (*Testimonial, error) {
	var tm Testimonial
	if err := r.coll.FindOne(ctx, byID(id)).Decode(&tm); err != nil {
		return nil, mapNotFound(err)
	}
	return &tm, nil
}

func (r *TestimonialRepo) Create(ctx context.Context, tm *Testimonial) error {
	tm.ID = newID()
	tm.CreatedAt = time.Now().UTC()

	if _, err := r.coll.InsertOne(ctx, tm); err != nil {
		return fmt.Errorf("insert testimonial: %w", err)
	}
	return nil
}

func (r *TestimonialRepo) Update(ctx context.Context, id string, upd TestimonialUpdate) (*Testimonial, error) {
	set := bson.M{}
	if upd.Author != nil {
		set["author"] = *upd.Author
	}
	if upd.Role != nil {
		set["role"] = *upd.Role
	}
	if upd.Quote != nil {
		set["quote"] = *upd.Quote
	}
	if upd.Avatar != nil {
		set["avatar"] = *upd.Avatar
	}
	if upd.Approved != nil {
		set["approved"] = *upd.Approved
	}
	if len(set) == 0 {
		return r.Get(ctx, id)
	}

	var prev Testimonial
	err := r.coll.FindOneAndUpdate(ctx, byID(id), bson.M{"$set": set}, returnBefore).Decode(&prev)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &prev, nil
}

func (r *TestimonialRepo) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, byID(id))
	if err != nil {
		return fmt.Errorf("delete testimonial: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TestimonialRepo) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}
