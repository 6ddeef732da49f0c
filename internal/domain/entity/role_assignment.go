package entity

import "time"

// RoleAssignment is a document in the Firestore "roles" collection, keyed by
// uid or by email. It exists alongside the role fields on the user document;
// the role provider collapses all sources into one answer.
type RoleAssignment struct {
	ID        string    `json:"id" firestore:"id"`
	UserID    string    `json:"user_id,omitempty" firestore:"userId,omitempty"`
	Email     string    `json:"email,omitempty" firestore:"email,omitempty"`
	Role      string    `json:"role" firestore:"role"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}
