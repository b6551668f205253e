package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ProjectRepo is the MongoDB-backed ProjectStore.
type ProjectRepo struct {
	coll *mongo.Collection
}

func (r *ProjectRepo) List(ctx context.Context, f ProjectFilter) ([]Project, error) {
	filter := bson.M{}
	if f.Featured != nil {
		filter["featured"] = *f.Featured
	}
	if f.Tech != "" {
		filter["tech"] = f.Tech
	}

	cur, err := r.coll.Find(ctx, filter, findOptions(bson.D{{Key: "created_at", Value: -1}}, f.Page, f.Limit))
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	var projects []Project
	if err := cur.All(ctx, &projects); err != nil {
		return nil, fmt.Errorf("decode projects: %w", err)
	}
	return projects, nil
}

func (r *ProjectRepo) Get(ctx context.Context, id string) (*Project, error) {
	var p Project
	if err := r.coll.FindOne(ctx, byID(id)).Decode(&p); err != nil {
		return nil, mapNotFound(err)
	}
	return &p, nil
}

func (r *ProjectRepo) Create(ctx context.Context, p *Project) error {
	now := time.Now().UTC()
	p.ID = newID()
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

func (r *ProjectRepo) Update(ctx context.Context, id string, upd ProjectUpdate) (*Project, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Title != nil {
		set["title"] = *upd.Title
	}
	if upd.Summary != nil {
		set["summary"] = *upd.Summary
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Image != nil {
		set["image"] = *upd.Image
	}
	if upd.RepoURL != nil {
		set["repo_url"] = *upd.RepoURL
	}
	if upd.LiveURL != nil {
		set["live_url"] = *upd.LiveURL
	}
	if upd.Tech != nil {
		set["tech"] = *upd.Tech
	}
	if upd.Featured != nil {
		set["featured"] = *upd.Featured
	}

	var prev Project
	err := r.coll.FindOneAndUpdate(ctx, byID(id), bson.M{"$set": set}, returnBefore).Decode(&prev)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &prev, nil
}

func (r *ProjectRepo) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, byID(id))
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ProjectRepo) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}
