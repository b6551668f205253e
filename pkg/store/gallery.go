package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// GalleryRepo is the MongoDB-backed GalleryStore.
type GalleryRepo struct {
	coll *mongo.Collection
}

func (r *GalleryRepo) List(ctx context.Context) ([]GalleryItem, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, findOptions(bson.D{{Key: "created_at", Value: -1}}, 0, 0))
	if err != nil {
		return nil, fmt.Errorf("list gallery: %w", err)
	}

	var items []GalleryItem
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode gallery: %w", err)
	}
	return items, nil
}

func (r *GalleryRepo) Get(ctx context.Context, id string) (*GalleryItem, error) {
	var g GalleryItem
	if err := r.coll.FindOne(ctx, byID(id)).Decode(&g); err != nil {
		return nil, mapNotFound(err)
	}
	return &g, nil
}

func (r *GalleryRepo) Create(ctx context.Context, g *GalleryItem) error {
	g.ID = newID()
	g.CreatedAt = time.Now().UTC()

	if _, err := r.coll.InsertOne(ctx, g); err != nil {
		return fmt.Errorf("insert gallery item: %w", err)
	}
	return nil
}

func (r *GalleryRepo) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, byID(id))
	if err != nil {
		return fmt.Errorf("delete gallery item: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GalleryRepo) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}
