// Package store provides the typed repositories over the MongoDB document
// store backing the portfolio API.
package store

import "time"

// Image references an uploaded media asset by its hosted URL and the
// provider-side identifier used for deletion.
type Image struct {
	URL      string `bson:"url" json:"url"`
	PublicID string `bson:"public_id" json:"public_id"`
}

// Blog is a blog post. NotifiedAt records the one-time newsletter dispatch
// fired on the first transition to published.
type Blog struct {
	ID         string    `bson:"_id,omitempty" json:"id"`
	Title      string    `bson:"title" json:"title"`
	Slug       string    `bson:"slug" json:"slug"`
	Excerpt    string    `bson:"excerpt" json:"excerpt"`
	Content    string    `bson:"content" json:"content"`
	Category   string    `bson:"category,omitempty" json:"category,omitempty"`
	Tags       []string  `bson:"tags,omitempty" json:"tags,omitempty"`
	Image      Image     `bson:"image,omitempty" json:"image"`
	Published  bool      `bson:"published" json:"published"`
	Views      int64     `bson:"views" json:"views"`
	NotifiedAt time.Time `bson:"notified_at,omitempty" json:"-"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time `bson:"updated_at" json:"updated_at"`
}

// Project is a portfolio project entry.
type Project struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Title       string    `bson:"title" json:"title"`
	Summary     string    `bson:"summary" json:"summary"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	Image       Image     `bson:"image,omitempty" json:"image"`
	RepoURL     string    `bson:"repo_url,omitempty" json:"repo_url,omitempty"`
	LiveURL     string    `bson:"live_url,omitempty" json:"live_url,omitempty"`
	Tech        []string  `bson:"tech,omitempty" json:"tech,omitempty"`
	Featured    bool      `bson:"featured" json:"featured"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

// GalleryItem is a single gallery entry.
type GalleryItem struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Title     string    `bson:"title" json:"title"`
	Caption   string    `bson:"caption,omitempty" json:"caption,omitempty"`
	Image     Image     `bson:"image" json:"image"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// Testimonial is a visitor testimonial; only approved ones are public.
type Testimonial struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Author    string    `bson:"author" json:"author"`
	Role      string    `bson:"role,omitempty" json:"role,omitempty"`
	Quote     string    `bson:"quote" json:"quote"`
	Avatar    Image     `bson:"avatar,omitempty" json:"avatar"`
	Approved  bool      `bson:"approved" json:"approved"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// Experience is a work history entry.
type Experience struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Company   string    `bson:"company" json:"company"`
	Role      string    `bson:"role" json:"role"`
	Summary   string    `bson:"summary,omitempty" json:"summary,omitempty"`
	StartDate time.Time `bson:"start_date" json:"start_date"`
	EndDate   time.Time `bson:"end_date,omitempty" json:"end_date,omitempty"`
	Current   bool      `bson:"current" json:"current"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// ContactMessage is an inbound contact form submission.
type ContactMessage struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Email     string    `bson:"email" json:"email"`
	Subject   string    `bson:"subject,omitempty" json:"subject,omitempty"`
	Message   string    `bson:"message" json:"message"`
	Read      bool      `bson:"read" json:"read"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// Subscriber is a newsletter recipient. Email is the case-insensitive
// identity; UnsubscribeToken is unique and never reused. Unsubscribing
// deactivates the record, it never hard-deletes it.
type Subscriber struct {
	ID               string    `bson:"_id,omitempty" json:"id"`
	Email            string    `bson:"email" json:"email"`
	Name             string    `bson:"name,omitempty" json:"name,omitempty"`
	Active           bool      `bson:"active" json:"active"`
	UnsubscribeToken string    `bson:"unsubscribe_token" json:"-"`
	CreatedAt        time.Time `bson:"created_at" json:"created_at"`
}
