package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"pasarsosmed/internal/domain/entity"
	"pasarsosmed/internal/domain/repository"
	"pasarsosmed/internal/infrastructure/ratelimit"
	ws "pasarsosmed/internal/infrastructure/websocket"
	"pasarsosmed/pkg/errors"
	"pasarsosmed/pkg/logger"
)

// SendMessageInput addresses a text message by recipient and scope rather
// than room id. The room is resolved (and created if missing) on the way in.
type SendMessageInput struct {
	RecipientID string `json:"recipient_id" validate:"required"`
	ScopeID     string `json:"scope_id"`
	Text        string `json:"text" validate:"required"`
}

// MessageListener receives the full ordered message list of a room: once on
// subscribe and again after every write this service mediates.
type MessageListener func(messages []*entity.ChatMessage)

type ChatUseCase struct {
	chatRepo    repository.ChatRepository
	userRepo    repository.UserRepository
	keys        *RoomKeyResolver
	wsManager   *ws.Manager
	rateLimiter *ratelimit.RateLimiter

	subMutex    sync.Mutex
	nextSubID   int64
	subscribers map[string]map[int64]MessageListener
}

func NewChatUseCase(
	chatRepo repository.ChatRepository,
	userRepo repository.UserRepository,
	keys *RoomKeyResolver,
	wsManager *ws.Manager,
) *ChatUseCase {
	rateLimiter := ratelimit.NewRateLimiter()
	rateLimiter.StartCleanupRoutine()

	return &ChatUseCase{
		chatRepo:    chatRepo,
		userRepo:    userRepo,
		keys:        keys,
		wsManager:   wsManager,
		rateLimiter: rateLimiter,
		subscribers: make(map[string]map[int64]MessageListener),
	}
}

// GetOrCreateRoom resolves the room key for the pair and scope, returning
// the existing room or creating it along with both participants' inbox
// summaries. An existing room with drifted participant or scope fields is
// reconciled in place.
func (uc *ChatUseCase) GetOrCreateRoom(ctx context.Context, userID, recipientID, scopeID string) (*entity.ChatRoom, error) {
	if recipientID == "" {
		return nil, errors.BadRequest("Recipient is required", nil)
	}
	if userID == recipientID {
		return nil, errors.BadRequest("Cannot open a chat with yourself", nil)
	}

	if _, err := uc.userRepo.GetByID(ctx, recipientID); err != nil {
		return nil, err
	}

	scopeID = uc.keys.NormalizeScope(scopeID)
	roomID := uc.keys.Resolve(userID, recipientID, scopeID)

	room, err := uc.chatRepo.GetRoom(ctx, roomID)
	if err == nil {
		uc.reconcileRoom(ctx, room, userID, recipientID, scopeID)
		return room, nil
	}
	if !errors.Is(err, "NOT_FOUND") {
		return nil, err
	}

	if allowed, wait := uc.rateLimiter.Allow(userID, "create_room"); !allowed {
		return nil, errors.TooManyRequests("Too many new conversations, slow down", wait)
	}

	now := time.Now().UnixMilli()
	room = &entity.ChatRoom{
		ID:           roomID,
		Participants: sortedPair(userID, recipientID),
		ProductID:    scopeID,
		CreatedAt:    now,
	}
	summaries := map[string]*entity.ChatSummary{
		userID:      {RoomID: roomID, OtherUserID: recipientID, ProductID: scopeID},
		recipientID: {RoomID: roomID, OtherUserID: userID, ProductID: scopeID},
	}

	if err := uc.chatRepo.CreateRoom(ctx, room, summaries); err != nil {
		return nil, err
	}
	return room, nil
}

// reconcileRoom heals rooms whose participant list or scope drifted from the
// key they were stored under (partial writes from older clients).
func (uc *ChatUseCase) reconcileRoom(ctx context.Context, room *entity.ChatRoom, userID, recipientID, scopeID string) {
	changed := false
	for _, id := range []string{userID, recipientID} {
		if !room.HasParticipant(id) {
			room.Participants = append(room.Participants, id)
			changed = true
		}
	}
	if room.ProductID == "" && scopeID != "" {
		room.ProductID = scopeID
		changed = true
	}
	if !changed {
		return
	}
	if err := uc.chatRepo.UpdateRoom(ctx, room); err != nil {
		logger.Warn("Failed to reconcile room %s: %v", room.ID, err)
	}
}

// SendMessage posts a text message into the (possibly new) room for the
// recipient and scope, bumping the recipient's unread count and resetting
// the sender's in the same write as the message itself.
func (uc *ChatUseCase) SendMessage(ctx context.Context, senderID string, input SendMessageInput) (*entity.ChatMessage, error) {
	if input.Text == "" {
		return nil, errors.BadRequest("Message text is required", nil)
	}
	if allowed, wait := uc.rateLimiter.Allow(senderID, "send_message"); !allowed {
		return nil, errors.TooManyRequests("Sending messages too fast", wait)
	}

	room, err := uc.GetOrCreateRoom(ctx, senderID, input.RecipientID, input.ScopeID)
	if err != nil {
		return nil, err
	}

	sender, err := uc.userRepo.GetByID(ctx, senderID)
	if err != nil {
		return nil, err
	}

	message := &entity.ChatMessage{
		ID:          uuid.New().String(),
		RoomID:      room.ID,
		SenderID:    senderID,
		SenderName:  sender.Username,
		RecipientID: input.RecipientID,
		Text:        input.Text,
		Timestamp:   time.Now().UnixMilli(),
		MessageType: entity.MessageTypeText,
	}

	summaries := uc.fanoutSummaries(ctx, room, message, []string{input.RecipientID}, []string{senderID})
	if err := uc.postMessage(ctx, room, message, summaries); err != nil {
		return nil, err
	}
	return message, nil
}

// SendSystemMessage posts an announcement authored by the system identity.
// Announcements refresh every participant's last-message fields but never
// count as unread.
func (uc *ChatUseCase) SendSystemMessage(ctx context.Context, roomID, text string) (*entity.ChatMessage, error) {
	room, err := uc.chatRepo.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	message := &entity.ChatMessage{
		ID:          uuid.New().String(),
		RoomID:      roomID,
		SenderID:    entity.SystemSenderID,
		Text:        text,
		Timestamp:   time.Now().UnixMilli(),
		MessageType: entity.MessageTypeText,
		Read:        true,
	}

	summaries := uc.fanoutSummaries(ctx, room, message, nil, nil)
	if err := uc.postMessage(ctx, room, message, summaries); err != nil {
		return nil, err
	}
	return message, nil
}

// RoomMessages returns the room's ordered history to a participant.
func (uc *ChatUseCase) RoomMessages(ctx context.Context, userID, roomID string) ([]*entity.ChatMessage, error) {
	if _, err := uc.roomForParticipant(ctx, userID, roomID); err != nil {
		return nil, err
	}
	return uc.chatRepo.MessagesByRoom(ctx, roomID)
}

// GetRoom returns the room to a participant.
func (uc *ChatUseCase) GetRoom(ctx context.Context, userID, roomID string) (*entity.ChatRoom, error) {
	return uc.roomForParticipant(ctx, userID, roomID)
}

// Inbox lists the caller's chat summaries, most recent first.
func (uc *ChatUseCase) Inbox(ctx context.Context, userID string) ([]*entity.ChatSummary, error) {
	return uc.chatRepo.SummariesByUser(ctx, userID)
}

// MarkRead flips every unread message from senderID to the caller and zeroes
// the caller's unread counter, then fans out a read receipt.
func (uc *ChatUseCase) MarkRead(ctx context.Context, userID, roomID, senderID string) (int, error) {
	if _, err := uc.roomForParticipant(ctx, userID, roomID); err != nil {
		return 0, err
	}
	if senderID == userID {
		return 0, nil // own messages are never unread to the sender
	}

	count, err := uc.chatRepo.MarkMessagesRead(ctx, roomID, senderID, userID)
	if err != nil {
		return 0, err
	}

	receipt, _ := json.Marshal(map[string]interface{}{
		"type":      "read_receipt",
		"room_id":   roomID,
		"reader_id": userID,
		"count":     count,
	})
	uc.wsManager.SendToRoom(roomID, receipt, userID)
	uc.notifySubscribers(ctx, roomID)

	return count, nil
}

// DeleteRoom removes the room, its messages and every participant's summary.
// A later GetOrCreateRoom with the same scope starts over with fresh state.
func (uc *ChatUseCase) DeleteRoom(ctx context.Context, userID, roomID string) error {
	room, err := uc.roomForParticipant(ctx, userID, roomID)
	if err != nil {
		return err
	}

	if err := uc.chatRepo.DeleteRoom(ctx, roomID, room.Participants); err != nil {
		return err
	}

	notice, _ := json.Marshal(map[string]interface{}{
		"type":    "room_deleted",
		"room_id": roomID,
	})
	uc.wsManager.SendToRoom(roomID, notice, userID)
	uc.dropRoomSubscribers(roomID)

	return nil
}

// SubscribeMessages registers a listener for the room. The listener is
// immediately replayed the current ordered history, then called again after
// every mediated write. The returned function cancels the subscription.
func (uc *ChatUseCase) SubscribeMessages(ctx context.Context, userID, roomID string, listener MessageListener) (func(), error) {
	if _, err := uc.roomForParticipant(ctx, userID, roomID); err != nil {
		return nil, err
	}

	messages, err := uc.chatRepo.MessagesByRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	uc.subMutex.Lock()
	uc.nextSubID++
	id := uc.nextSubID
	if uc.subscribers[roomID] == nil {
		uc.subscribers[roomID] = make(map[int64]MessageListener)
	}
	uc.subscribers[roomID][id] = listener
	uc.subMutex.Unlock()

	listener(messages)

	cancel := func() {
		uc.subMutex.Lock()
		defer uc.subMutex.Unlock()
		if subs, ok := uc.subscribers[roomID]; ok {
			delete(subs, id)
			if len(subs) == 0 {
				delete(uc.subscribers, roomID)
			}
		}
	}
	return cancel, nil
}

// postMessage commits the message with its summary fan-out, then pushes
// realtime notifications to the room, to each participant's inbox view and
// to message subscribers.
func (uc *ChatUseCase) postMessage(ctx context.Context, room *entity.ChatRoom, message *entity.ChatMessage, summaries map[string]*entity.ChatSummary) error {
	if err := uc.chatRepo.AppendMessage(ctx, message, summaries); err != nil {
		return err
	}

	room.LastMessage = message.Text
	room.LastMessageAt = message.Timestamp
	room.LastSenderID = message.SenderID

	payload, _ := json.Marshal(map[string]interface{}{
		"type":    "new_message",
		"room_id": room.ID,
		"message": message,
	})
	uc.wsManager.SendToRoom(room.ID, payload, message.SenderID)

	for _, participantID := range room.Participants {
		if participantID == message.SenderID || participantID == entity.EscrowAgentID {
			continue
		}
		update, _ := json.Marshal(map[string]interface{}{
			"type":            "chat_list_update",
			"room_id":         room.ID,
			"last_message":    message.Text,
			"last_message_at": message.Timestamp,
			"sender_id":       message.SenderID,
		})
		uc.wsManager.SendToUser(participantID, update)
	}

	uc.notifySubscribers(ctx, room.ID)
	return nil
}

// fanoutSummaries builds the per-user summary nodes to commit alongside a
// message. Users in incrementIDs get unread+1, users in resetIDs get unread
// 0; every other participant keeps their current count with refreshed
// last-message fields. The escrow pseudo-identity never owns a summary.
func (uc *ChatUseCase) fanoutSummaries(ctx context.Context, room *entity.ChatRoom, message *entity.ChatMessage, incrementIDs, resetIDs []string) map[string]*entity.ChatSummary {
	mode := make(map[string]int, len(incrementIDs)+len(resetIDs))
	for _, id := range incrementIDs {
		mode[id] = 1
	}
	for _, id := range resetIDs {
		mode[id] = -1
	}

	summaries := make(map[string]*entity.ChatSummary, len(room.Participants))
	for _, participantID := range room.Participants {
		if participantID == entity.EscrowAgentID {
			continue
		}

		summary, err := uc.chatRepo.GetSummary(ctx, participantID, room.ID)
		if err != nil {
			summary = &entity.ChatSummary{
				RoomID:      room.ID,
				OtherUserID: otherParticipant(room, participantID),
				ProductID:   room.ProductID,
			}
		}

		switch mode[participantID] {
		case 1:
			summary.UnreadCount++
		case -1:
			summary.UnreadCount = 0
		}
		summary.LastMessage = message.Text
		summary.LastMessageAt = message.Timestamp
		summaries[participantID] = summary
	}
	return summaries
}

func (uc *ChatUseCase) notifySubscribers(ctx context.Context, roomID string) {
	uc.subMutex.Lock()
	listeners := make([]MessageListener, 0, len(uc.subscribers[roomID]))
	for _, listener := range uc.subscribers[roomID] {
		listeners = append(listeners, listener)
	}
	uc.subMutex.Unlock()

	if len(listeners) == 0 {
		return
	}

	messages, err := uc.chatRepo.MessagesByRoom(ctx, roomID)
	if err != nil {
		logger.Error("Failed to load messages for subscribers of %s: %v", roomID, err)
		return
	}
	for _, listener := range listeners {
		listener(messages)
	}
}

func (uc *ChatUseCase) dropRoomSubscribers(roomID string) {
	uc.subMutex.Lock()
	listeners := uc.subscribers[roomID]
	delete(uc.subscribers, roomID)
	uc.subMutex.Unlock()

	// Final empty snapshot so subscribed views clear out.
	for _, listener := range listeners {
		listener(nil)
	}
}

func (uc *ChatUseCase) roomForParticipant(ctx context.Context, userID, roomID string) (*entity.ChatRoom, error) {
	room, err := uc.chatRepo.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !room.HasParticipant(userID) {
		return nil, errors.Forbidden(fmt.Sprintf("Not a participant of room %s", roomID), nil)
	}
	return room, nil
}

func sortedPair(a, b string) []string {
	if b < a {
		a, b = b, a
	}
	return []string{a, b}
}

func otherParticipant(room *entity.ChatRoom, userID string) string {
	for _, p := range room.Participants {
		if p != userID && p != entity.EscrowAgentID {
			return p
		}
	}
	return ""
}
