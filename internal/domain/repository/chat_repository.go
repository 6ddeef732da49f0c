package repository

import (
	"context"

	"pasarsosmed/internal/domain/entity"
)

// ChatRepository wraps the hosted realtime tree:
//
//	chatRooms/{roomId}
//	messages/{roomId}/{messageId}
//	userChats/{userId}/{roomId}
//	escrowRequests/{roomId}
//
// AppendMessage, MarkMessagesRead and DeleteRoom commit their fan-out as a
// single multi-location update, so a message and its denormalized summaries
// never drift apart on a crash.
type ChatRepository interface {
	CreateRoom(ctx context.Context, room *entity.ChatRoom, summaries map[string]*entity.ChatSummary) error
	GetRoom(ctx context.Context, roomID string) (*entity.ChatRoom, error)
	UpdateRoom(ctx context.Context, room *entity.ChatRoom) error
	DeleteRoom(ctx context.Context, roomID string, participantIDs []string) error

	// AppendMessage writes the message node together with the room's
	// last-message fields and the given per-user summary nodes.
	AppendMessage(ctx context.Context, message *entity.ChatMessage, summaries map[string]*entity.ChatSummary) error
	MessagesByRoom(ctx context.Context, roomID string) ([]*entity.ChatMessage, error)
	GetMessage(ctx context.Context, roomID, messageID string) (*entity.ChatMessage, error)
	UpdateMessageStatus(ctx context.Context, roomID, messageID, status string) error

	// MarkMessagesRead flips read=true on every unread message in the room
	// sent by senderID to readerID and zeroes the reader's summary unread
	// count. Returns the number of messages flipped.
	MarkMessagesRead(ctx context.Context, roomID, senderID, readerID string) (int, error)

	SummariesByUser(ctx context.Context, userID string) ([]*entity.ChatSummary, error)
	GetSummary(ctx context.Context, userID, roomID string) (*entity.ChatSummary, error)
	SetSummary(ctx context.Context, userID string, summary *entity.ChatSummary) error

	UpsertEscrowRequest(ctx context.Context, request *entity.EscrowRequest) error
	GetEscrowRequest(ctx context.Context, roomID string) (*entity.EscrowRequest, error)
	ListEscrowRequests(ctx context.Context, status string) ([]*entity.EscrowRequest, error)

	// RoleByUserID reads the realtime-db role field at users/{uid}/role; it
	// is the first stop of the role provider's resolution order.
	RoleByUserID(ctx context.Context, userID string) (string, error)
}
