package entity

import "time"

// Product is a social-media account listing. Platform is the network the
// account lives on (tiktok, instagram, youtube, ...).
type Product struct {
	ID          string   `json:"id" firestore:"id"`
	Title       string   `json:"title" firestore:"title"`
	Description string   `json:"description,omitempty" firestore:"description,omitempty"`
	CategoryID  string   `json:"category_id" firestore:"categoryId"`
	Platform    string   `json:"platform,omitempty" firestore:"platform,omitempty"`
	Price       float64  `json:"price" firestore:"price"`
	Currency    string   `json:"currency,omitempty" firestore:"currency,omitempty"`
	Followers   int64    `json:"followers,omitempty" firestore:"followers,omitempty"`
	SellerID    string   `json:"seller_id" firestore:"sellerId"`
	ImageURLs   []string `json:"image_urls,omitempty" firestore:"imageUrls,omitempty"`
	Status      string   `json:"status" firestore:"status"` // "available", "sold", "hidden"
	SortOrder   int      `json:"sort_order" firestore:"sortOrder"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}
