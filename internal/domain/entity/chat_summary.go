package entity

// ChatSummary is the denormalized inbox projection stored at
// userChats/{userID}/{roomID}. It is maintained alongside every send/read so
// an inbox renders without scanning messages.
type ChatSummary struct {
	RoomID        string `json:"roomId"`
	OtherUserID   string `json:"otherUserId,omitempty"`
	ProductID     string `json:"productId,omitempty"`
	LastMessage   string `json:"lastMessage,omitempty"`
	LastMessageAt int64  `json:"lastMessageAt,omitempty"`
	UnreadCount   int    `json:"unreadCount"`
}
