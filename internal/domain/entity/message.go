package entity

const (
	MessageTypeText            = "text"
	MessageTypePurchaseRequest = "purchase-request"

	// EscrowAgentID is the shared pseudo-identity escrow agents post under.
	// Individual agent identity is not preserved in messages.
	EscrowAgentID = "escrow_agent"

	// SystemSenderID authors room announcements (agent joined, etc).
	SystemSenderID = "system"
)

// Purchase-request status values. A request only moves forward:
// pending -> agreed -> completed. "completed" is set by agent dashboard
// action, never by this service.
const (
	PurchaseStatusPending   = "pending"
	PurchaseStatusAgreed    = "agreed"
	PurchaseStatusCompleted = "completed"
)

// ChatMessage lives at messages/{roomID}/{messageID}. Immutable after
// creation except for Read and Status.
type ChatMessage struct {
	ID          string       `json:"id"`
	RoomID      string       `json:"roomId"`
	SenderID    string       `json:"senderId"`
	SenderName  string       `json:"senderName,omitempty"`
	RecipientID string       `json:"recipientId,omitempty"`
	Text        string       `json:"text"`
	Timestamp   int64        `json:"timestamp"`
	Read        bool         `json:"read"`
	MessageType string       `json:"messageType,omitempty"`
	Status      string       `json:"status,omitempty"`
	Payment     *PaymentInfo `json:"payment,omitempty"`
}

// PaymentInfo carries the transaction metadata attached to a
// purchase-request message. It is opaque to the chat layer.
type PaymentInfo struct {
	TransactionID string  `json:"transactionId"`
	ItemLabel     string  `json:"itemLabel"`
	Amount        float64 `json:"amount"`
	Method        string  `json:"method"`
	WalletAddress string  `json:"walletAddress,omitempty"`
	WithAgent     bool    `json:"withAgent"`
}
