package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo bundles the per-collection repositories over one database handle.
type Mongo struct {
	Blogs        *BlogRepo
	Projects     *ProjectRepo
	Gallery      *GalleryRepo
	Testimonials *TestimonialRepo
	Experience   *ExperienceRepo
	Contacts     *ContactRepo
	Subscribers  *SubscriberRepo
}

// NewMongo creates the repository set over db.
func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{
		Blogs:        &BlogRepo{coll: db.Collection("blogs")},
		Projects:     &ProjectRepo{coll: db.Collection("projects")},
		Gallery:      &GalleryRepo{coll: db.Collection("gallery")},
		Testimonials: &TestimonialRepo{coll: db.Collection("testimonials")},
		Experience:   &ExperienceRepo{coll: db.Collection("experience")},
		Contacts:     &ContactRepo{coll: db.Collection("contacts")},
		Subscribers:  &SubscriberRepo{coll: db.Collection("subscribers")},
	}
}

// EnsureIndexes creates the indexes the repositories rely on: unique
// subscriber email and token, unique blog slug.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	if _, err := m.Subscribers.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "unsubscribe_token", Value: 1}}, Options: unique},
	}); err != nil {
		return fmt.Errorf("subscriber indexes: %w", err)
	}

	if _, err := m.Blogs.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "slug", Value: 1}}, Options: unique,
	}); err != nil {
		return fmt.Errorf("blog indexes: %w", err)
	}

	return nil
}

// newID generates a document id. ObjectID hex keeps ids sortable by
// creation time.
func newID() string {
	return primitive.NewObjectID().Hex()
}

// mapNotFound translates the driver's no-documents sentinel.
func mapNotFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

// findOptions builds sort + pagination options. Page is 1-based; limit 0
// means unpaginated.
func findOptions(sort bson.D, page, limit int64) *options.FindOptions {
	opts := options.Find().SetSort(sort)
	if limit > 0 {
		if page < 1 {
			page = 1
		}
		opts.SetSkip((page - 1) * limit).SetLimit(limit)
	}
	return opts
}

// byID wraps an id into the canonical filter document.
func byID(id string) bson.M {
	return bson.M{"_id": id}
}

// returnBefore configures FindOneAndUpdate to decode the pre-mutation
// document, which is how publish transitions are detected.
var returnBefore = options.FindOneAndUpdate().SetReturnDocument(options.Before)
