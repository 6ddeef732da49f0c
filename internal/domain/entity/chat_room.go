package entity

// ChatRoom is a conversation node stored at chatRooms/{roomID} in the
// realtime tree. The room ID is derived from its participants and scope, so
// the same pair talking about the same product always lands in the same room.
type ChatRoom struct {
	ID             string   `json:"id"`
	Participants   []string `json:"participants"`
	ProductID      string   `json:"productId,omitempty"`
	HasEscrowAgent bool     `json:"hasEscrowAgent,omitempty"`
	LastMessage    string   `json:"lastMessage,omitempty"`
	LastMessageAt  int64    `json:"lastMessageAt,omitempty"`
	LastSenderID   string   `json:"lastSenderId,omitempty"`
	CreatedAt      int64    `json:"createdAt"`
}

func (r *ChatRoom) HasParticipant(userID string) bool {
	for _, p := range r.Participants {
		if p == userID {
			return true
		}
	}
	return false
}
