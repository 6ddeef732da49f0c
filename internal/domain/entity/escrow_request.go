package entity

// Escrow request status values. Transitions are driven by agent dashboard
// action, not enforced by a state machine here.
const (
	EscrowStatusActive    = "active"
	EscrowStatusCompleted = "completed"
	EscrowStatusCancelled = "cancelled"
)

// EscrowRequest is an active mediation case, stored at
// escrowRequests/{roomID}. One request per room; repeated requests for the
// same room overwrite it back to active.
type EscrowRequest struct {
	RoomID        string   `json:"roomId"`
	RequesterID   string   `json:"requesterId"`
	RequesterName string   `json:"requesterName,omitempty"`
	Participants  []string `json:"participants"`
	ProductID     string   `json:"productId,omitempty"`
	Status        string   `json:"status"`
	RequestedAt   int64    `json:"requestedAt"`
	UpdatedAt     int64    `json:"updatedAt,omitempty"`
}
