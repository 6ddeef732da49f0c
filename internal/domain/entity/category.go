package entity

import "time"

type Category struct {
	ID        string    `json:"id" firestore:"id"`
	Name      string    `json:"name" firestore:"name"`
	Slug      string    `json:"slug" firestore:"slug"`
	ImageURL  string    `json:"image_url,omitempty" firestore:"imageUrl,omitempty"`
	SortOrder int       `json:"sort_order" firestore:"sortOrder"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}
