package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// BlogRepo is the MongoDB-backed BlogStore.
type BlogRepo struct {
	coll *mongo.Collection
}

func (r *BlogRepo) List(ctx context.Context, f BlogFilter) ([]Blog, error) {
	filter := bson.M{}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.Tag != "" {
		filter["tags"] = f.Tag
	}
	if f.Published != nil {
		filter["published"] = *f.Published
	}

	cur, err := r.coll.Find(ctx, filter, findOptions(bson.D{{Key: "created_at", Value: -1}}, f.Page, f.Limit))
	if err != nil {
		return nil, fmt.Errorf("list blogs: %w", err)
	}

	var blogs []Blog
	if err := cur.All(ctx, &blogs); err != nil {
		return nil, fmt.Errorf("decode blogs: %w", err)
	}
	return blogs, nil
}

func (r *BlogRepo) Get(ctx context.Context, id string) (*Blog, error) {
	var b Blog
	if err := r.coll.FindOne(ctx, byID(id)).Decode(&b); err != nil {
		return nil, mapNotFound(err)
	}
	return &b, nil
}

func (r *BlogRepo) GetBySlug(ctx context.Context, slug string) (*Blog, error) {
	var b Blog
	if err := r.coll.FindOne(ctx, bson.M{"slug": slug}).Decode(&b); err != nil {
		return nil, mapNotFound(err)
	}
	return &b, nil
}

func (r *BlogRepo) Create(ctx context.Context, b *Blog) error {
	now := time.Now().UTC()
	b.ID = newID()
	b.CreatedAt = now
	b.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, b); err != nil {
		return fmt.Errorf("insert blog: %w", err)
	}
	return nil
}

// Update applies the non-nil fields and returns the pre-mutation document.
func (r *BlogRepo) Update(ctx context.Context, id string, upd BlogUpdate) (*Blog, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Title != nil {
		set["title"] = *upd.Title
	}
	if upd.Slug != nil {
		set["slug"] = *upd.Slug
	}
	if upd.Excerpt != nil {
		set["excerpt"] = *upd.Excerpt
	}
	if upd.Content != nil {
		set["content"] = *upd.Content
	}
	if upd.Category != nil {
		set["category"] = *upd.Category
	}
	if upd.Tags != nil {
		set["tags"] = *upd.Tags
	}
	if upd.Image != nil {
		set["image"] = *upd.Image
	}
	if upd.Published != nil {
		set["published"] = *upd.Published
	}

	var prev Blog
	err := r.coll.FindOneAndUpdate(ctx, byID(id), bson.M{"$set": set}, returnBefore).Decode(&prev)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &prev, nil
}

func (r *BlogRepo) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, byID(id))
	if err != nil {
		return fmt.Errorf("delete blog: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *BlogRepo) IncrementViews(ctx context.Context, id string) error {
	res, err := r.coll.UpdateOne(ctx, byID(id), bson.M{"$inc": bson.M{"views": 1}})
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *BlogRepo) MarkNotified(ctx context.Context, id string, at time.Time) error {
	res, err := r.coll.UpdateOne(ctx, byID(id), bson.M{"$set": bson.M{"notified_at": at}})
	if err != nil {
		return fmt.Errorf("mark notified: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *BlogRepo) Popular(ctx context.Context, limit int64) ([]Blog, error) {
	cur, err := r.coll.Find(ctx, bson.M{"published": true},
		findOptions(bson.D{{Key: "views", Value: -1}}, 1, limit))
	if err != nil {
		return nil, fmt.Errorf("popular blogs: %w", err)
	}

	var blogs []Blog
	if err := cur.All(ctx, &blogs); err != nil {
		return nil, fmt.Errorf("decode blogs: %w", err)
	}
	return blogs, nil
}

func (r *BlogRepo) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}
