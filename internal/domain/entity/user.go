package entity

import "time"

// User roles as stored across the role sources. RoleEscrowAgent and
// RoleAdmin both qualify for escrow mediation.
const (
	RoleAdmin       = "admin"
	RoleEscrowAgent = "escrow_agent"
	RoleUser        = "user"
)

type User struct {
	ID       string `json:"id" firestore:"id"`
	Email    string `json:"email" firestore:"email"`
	Username string `json:"username" firestore:"username"`
	PhotoURL string `json:"photo_url,omitempty" firestore:"photoURL,omitempty"`
	Phone    string `json:"phone,omitempty" firestore:"phone,omitempty"`
	Bio      string `json:"bio,omitempty" firestore:"bio,omitempty"`
	Role     string `json:"role,omitempty" firestore:"role,omitempty"`
	Admin    bool   `json:"admin,omitempty" firestore:"admin,omitempty"`
	Provider string `json:"provider,omitempty" firestore:"provider,omitempty"`
	Language string `json:"language,omitempty" firestore:"language,omitempty"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}
