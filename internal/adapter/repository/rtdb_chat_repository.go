package repository

import (
	"context"
	"fmt"
	"sort"

	"firebase.google.com/go/v4/db"

	"pasarsosmed/internal/domain/entity"
	"pasarsosmed/internal/domain/repository"
	"pasarsosmed/pkg/errors"
)

type rtdbChatRepository struct {
	client *db.Client
}

func NewRTDBChatRepository(client *db.Client) repository.ChatRepository {
	return &rtdbChatRepository{
		client: client,
	}
}

func roomPath(roomID string) string {
	return "chatRooms/" + roomID
}

func messagesPath(roomID string) string {
	return "messages/" + roomID
}

func summaryPath(userID, roomID string) string {
	return "userChats/" + userID + "/" + roomID
}

func escrowRequestPath(roomID string) string {
	return "escrowRequests/" + roomID
}

func (r *rtdbChatRepository) CreateRoom(ctx context.Context, room *entity.ChatRoom, summaries map[string]*entity.ChatSummary) error {
	updates := map[string]interface{}{
		roomPath(room.ID): room,
	}
	for userID, summary := range summaries {
		updates[summaryPath(userID, room.ID)] = summary
	}

	if err := r.client.NewRef("/").Update(ctx, updates); err != nil {
		return errors.Internal("Failed to create chat room", err)
	}
	return nil
}

func (r *rtdbChatRepository) GetRoom(ctx context.Context, roomID string) (*entity.ChatRoom, error) {
	var room entity.ChatRoom
	if err := r.client.NewRef(roomPath(roomID)).Get(ctx, &room); err != nil {
		return nil, errors.Internal("Failed to get chat room", err)
	}
	if room.ID == "" {
		return nil, errors.NotFound("Chat room", nil)
	}
	return &room, nil
}

func (r *rtdbChatRepository) UpdateRoom(ctx context.Context, room *entity.ChatRoom) error {
	if err := r.client.NewRef(roomPath(room.ID)).Set(ctx, room); err != nil {
		return errors.Internal("Failed to update chat room", err)
	}
	return nil
}

// DeleteRoom removes the message subtree, every participant's summary entry
// and the room node in one multi-location update.
func (r *rtdbChatRepository) DeleteRoom(ctx context.Context, roomID string, participantIDs []string) error {
	updates := map[string]interface{}{
		messagesPath(roomID): nil,
		roomPath(roomID):     nil,
	}
	for _, userID := range participantIDs {
		updates[summaryPath(userID, roomID)] = nil
	}

	if err := r.client.NewRef("/").Update(ctx, updates); err != nil {
		return errors.Internal("Failed to delete chat room", err)
	}
	return nil
}

// AppendMessage fans out the message node, the room's last-message fields
// and the callers' summary nodes as one atomic write.
func (r *rtdbChatRepository) AppendMessage(ctx context.Context, message *entity.ChatMessage, summaries map[string]*entity.ChatSummary) error {
	updates := map[string]interface{}{
		messagesPath(message.RoomID) + "/" + message.ID:  message,
		roomPath(message.RoomID) + "/lastMessage":        message.Text,
		roomPath(message.RoomID) + "/lastMessageAt":      message.Timestamp,
		roomPath(message.RoomID) + "/lastSenderId":       message.SenderID,
	}
	for userID, summary := range summaries {
		updates[summaryPath(userID, message.RoomID)] = summary
	}

	if err := r.client.NewRef("/").Update(ctx, updates); err != nil {
		return errors.Internal("Failed to append message", err)
	}
	return nil
}

func (r *rtdbChatRepository) MessagesByRoom(ctx context.Context, roomID string) ([]*entity.ChatMessage, error) {
	nodes, err := r.client.NewRef(messagesPath(roomID)).OrderByChild("timestamp").GetOrdered(ctx)
	if err != nil {
		return nil, errors.Internal("Failed to load messages", err)
	}

	messages := make([]*entity.ChatMessage, 0, len(nodes))
	for _, node := range nodes {
		var message entity.ChatMessage
		if err := node.Unmarshal(&message); err != nil {
			continue // skip malformed nodes
		}
		if message.ID == "" {
			message.ID = node.Key()
		}
		messages = append(messages, &message)
	}

	// OrderByChild already sorts by timestamp; keep a stable tiebreak on ID
	// so equal-timestamp messages render deterministically.
	sort.SliceStable(messages, func(i, j int) bool {
		if messages[i].Timestamp != messages[j].Timestamp {
			return messages[i].Timestamp < messages[j].Timestamp
		}
		return messages[i].ID < messages[j].ID
	})

	return messages, nil
}

func (r *rtdbChatRepository) GetMessage(ctx context.Context, roomID, messageID string) (*entity.ChatMessage, error) {
	var message entity.ChatMessage
	if err := r.client.NewRef(messagesPath(roomID) + "/" + messageID).Get(ctx, &message); err != nil {
		return nil, errors.Internal("Failed to get message", err)
	}
	if message.ID == "" {
		return nil, errors.NotFound("Message", nil)
	}
	return &message, nil
}

func (r *rtdbChatRepository) UpdateMessageStatus(ctx context.Context, roomID, messageID, status string) error {
	err := r.client.NewRef(messagesPath(roomID)+"/"+messageID).Update(ctx, map[string]interface{}{
		"status": status,
	})
	if err != nil {
		return errors.Internal("Failed to update message status", err)
	}
	return nil
}

func (r *rtdbChatRepository) MarkMessagesRead(ctx context.Context, roomID, senderID, readerID string) (int, error) {
	messages, err := r.MessagesByRoom(ctx, roomID)
	if err != nil {
		return 0, err
	}

	updates := map[string]interface{}{
		summaryPath(readerID, roomID) + "/unreadCount": 0,
	}
	count := 0
	for _, message := range messages {
		if message.Read || message.SenderID != senderID || message.RecipientID != readerID {
			continue
		}
		updates[fmt.Sprintf("%s/%s/read", messagesPath(roomID), message.ID)] = true
		count++
	}

	if err := r.client.NewRef("/").Update(ctx, updates); err != nil {
		return 0, errors.Internal("Failed to mark messages read", err)
	}
	return count, nil
}

func (r *rtdbChatRepository) SummariesByUser(ctx context.Context, userID string) ([]*entity.ChatSummary, error) {
	var raw map[string]*entity.ChatSummary
	if err := r.client.NewRef("userChats/"+userID).Get(ctx, &raw); err != nil {
		return nil, errors.Internal("Failed to load chat summaries", err)
	}

	summaries := make([]*entity.ChatSummary, 0, len(raw))
	for roomID, summary := range raw {
		if summary == nil {
			continue
		}
		if summary.RoomID == "" {
			summary.RoomID = roomID
		}
		summaries = append(summaries, summary)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].LastMessageAt > summaries[j].LastMessageAt
	})

	return summaries, nil
}

func (r *rtdbChatRepository) GetSummary(ctx context.Context, userID, roomID string) (*entity.ChatSummary, error) {
	var summary entity.ChatSummary
	if err := r.client.NewRef(summaryPath(userID, roomID)).Get(ctx, &summary); err != nil {
		return nil, errors.Internal("Failed to get chat summary", err)
	}
	if summary.RoomID == "" {
		return nil, errors.NotFound("Chat summary", nil)
	}
	return &summary, nil
}

func (r *rtdbChatRepository) SetSummary(ctx context.Context, userID string, summary *entity.ChatSummary) error {
	if err := r.client.NewRef(summaryPath(userID, summary.RoomID)).Set(ctx, summary); err != nil {
		return errors.Internal("Failed to write chat summary", err)
	}
	return nil
}

func (r *rtdbChatRepository) UpsertEscrowRequest(ctx context.Context, request *entity.EscrowRequest) error {
	if err := r.client.NewRef(escrowRequestPath(request.RoomID)).Set(ctx, request); err != nil {
		return errors.Internal("Failed to write escrow request", err)
	}
	return nil
}

func (r *rtdbChatRepository) GetEscrowRequest(ctx context.Context, roomID string) (*entity.EscrowRequest, error) {
	var request entity.EscrowRequest
	if err := r.client.NewRef(escrowRequestPath(roomID)).Get(ctx, &request); err != nil {
		return nil, errors.Internal("Failed to get escrow request", err)
	}
	if request.RoomID == "" {
		return nil, errors.NotFound("Escrow request", nil)
	}
	return &request, nil
}

func (r *rtdbChatRepository) ListEscrowRequests(ctx context.Context, status string) ([]*entity.EscrowRequest, error) {
	var raw map[string]*entity.EscrowRequest
	if err := r.client.NewRef("escrowRequests").Get(ctx, &raw); err != nil {
		return nil, errors.Internal("Failed to list escrow requests", err)
	}

	requests := make([]*entity.EscrowRequest, 0, len(raw))
	for roomID, request := range raw {
		if request == nil {
			continue
		}
		if request.RoomID == "" {
			request.RoomID = roomID
		}
		if status != "" && request.Status != status {
			continue
		}
		requests = append(requests, request)
	}

	sort.Slice(requests, func(i, j int) bool {
		return requests[i].RequestedAt > requests[j].RequestedAt
	})

	return requests, nil
}

func (r *rtdbChatRepository) RoleByUserID(ctx context.Context, userID string) (string, error) {
	var role string
	if err := r.client.NewRef("users/"+userID+"/role").Get(ctx, &role); err != nil {
		return "", errors.Internal("Failed to read user role", err)
	}
	return role, nil
}
