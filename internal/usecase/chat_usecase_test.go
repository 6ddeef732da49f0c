package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"pasarsosmed/internal/domain/entity"
	ws "pasarsosmed/internal/infrastructure/websocket"
	"pasarsosmed/pkg/errors"
)

func newChatFixture() (*ChatUseCase, *fakeChatRepo, *fakeUserRepo) {
	chatRepo := newFakeChatRepo()
	userRepo := newFakeUserRepo(
		&entity.User{ID: "u1", Username: "Alice", Email: "alice@example.com"},
		&entity.User{ID: "u2", Username: "Bob", Email: "bob@example.com"},
	)
	uc := NewChatUseCase(chatRepo, userRepo, NewRoomKeyResolver(true), ws.NewManager())
	return uc, chatRepo, userRepo
}

func TestGetOrCreateRoomCreatesRoomWithSummaries(t *testing.T) {
	uc, chatRepo, _ := newChatFixture()
	ctx := context.Background()

	room, err := uc.GetOrCreateRoom(ctx, "u2", "u1", "p42")
	assert.NoError(t, err)
	assert.Equal(t, "u1_u2_p42", room.ID)
	assert.Equal(t, []string{"u1", "u2"}, room.Participants)
	assert.Equal(t, "p42", room.ProductID)

	for userID, other := range map[string]string{"u1": "u2", "u2": "u1"} {
		summary, err := chatRepo.GetSummary(ctx, userID, room.ID)
		assert.NoError(t, err)
		assert.Equal(t, other, summary.OtherUserID)
		assert.Equal(t, 0, summary.UnreadCount)
	}
}

func TestGetOrCreateRoomIsIdempotent(t *testing.T) {
	uc, chatRepo, _ := newChatFixture()
	ctx := context.Background()

	first, err := uc.GetOrCreateRoom(ctx, "u1", "u2", "p42")
	assert.NoError(t, err)
	second, err := uc.GetOrCreateRoom(ctx, "u2", "u1", "p42")
	assert.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, chatRepo.rooms, 1)
}

func TestGetOrCreateRoomRejectsSelfChat(t *testing.T) {
	uc, _, _ := newChatFixture()

	_, err := uc.GetOrCreateRoom(context.Background(), "u1", "u1", "p42")
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestGetOrCreateRoomUnknownRecipient(t *testing.T) {
	uc, _, _ := newChatFixture()

	_, err := uc.GetOrCreateRoom(context.Background(), "u1", "ghost", "p42")
	assert.True(t, errors.Is(err, "NOT_FOUND"))
}

func TestSendMessageUpdatesRoomAndUnreadCounts(t *testing.T) {
	uc, chatRepo, _ := newChatFixture()
	ctx := context.Background()

	message, err := uc.SendMessage(ctx, "u1", SendMessageInput{
		RecipientID: "u2",
		ScopeID:     "p42",
		Text:        "is the account still available?",
	})
	assert.NoError(t, err)
	assert.Equal(t, "Alice", message.SenderName)
	assert.Equal(t, entity.MessageTypeText, message.MessageType)

	room, err := chatRepo.GetRoom(ctx, "u1_u2_p42")
	assert.NoError(t, err)
	assert.Equal(t, "is the account still available?", room.LastMessage)
	assert.Equal(t, "u1", room.LastSenderID)
	assert.Equal(t, message.Timestamp, room.LastMessageAt)

	recipient, _ := chatRepo.GetSummary(ctx, "u2", room.ID)
	assert.Equal(t, 1, recipient.UnreadCount)
	assert.Equal(t, message.Text, recipient.LastMessage)

	sender, _ := chatRepo.GetSummary(ctx, "u1", room.ID)
	assert.Equal(t, 0, sender.UnreadCount)

	_, err = uc.SendMessage(ctx, "u1", SendMessageInput{RecipientID: "u2", ScopeID: "p42", Text: "hello?"})
	assert.NoError(t, err)

	recipient, _ = chatRepo.GetSummary(ctx, "u2", room.ID)
	assert.Equal(t, 2, recipient.UnreadCount)
}

func TestSendMessageRequiresText(t *testing.T) {
	uc, _, _ := newChatFixture()

	_, err := uc.SendMessage(context.Background(), "u1", SendMessageInput{RecipientID: "u2", ScopeID: "p42"})
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestMarkReadFlipsMessagesAndZeroesUnread(t *testing.T) {
	uc, chatRepo, _ := newChatFixture()
	ctx := context.Background()

	for _, text := range []string{"first", "second"} {
		_, err := uc.SendMessage(ctx, "u1", SendMessageInput{RecipientID: "u2", ScopeID: "p42", Text: text})
		assert.NoError(t, err)
	}

	count, err := uc.MarkRead(ctx, "u2", "u1_u2_p42", "u1")
	assert.NoError(t, err)
	assert.Equal(t, 2, count)

	messages, _ := chatRepo.MessagesByRoom(ctx, "u1_u2_p42")
	for _, message := range messages {
		assert.True(t, message.Read)
	}

	summary, _ := chatRepo.GetSummary(ctx, "u2", "u1_u2_p42")
	assert.Equal(t, 0, summary.UnreadCount)
}

func TestMarkReadOwnMessagesIsNoop(t *testing.T) {
	uc, chatRepo, _ := newChatFixture()
	ctx := context.Background()

	_, err := uc.SendMessage(ctx, "u1", SendMessageInput{RecipientID: "u2", ScopeID: "p42", Text: "hi"})
	assert.NoError(t, err)

	count, err := uc.MarkRead(ctx, "u1", "u1_u2_p42", "u1")
	assert.NoError(t, err)
	assert.Equal(t, 0, count)

	messages, _ := chatRepo.MessagesByRoom(ctx, "u1_u2_p42")
	assert.False(t, messages[0].Read)
}

func TestRoomMessagesRequiresParticipant(t *testing.T) {
	uc, _, userRepo := newChatFixture()
	ctx := context.Background()
	userRepo.Create(ctx, &entity.User{ID: "u3", Username: "Mallory"})

	_, err := uc.SendMessage(ctx, "u1", SendMessageInput{RecipientID: "u2", ScopeID: "p42", Text: "hi"})
	assert.NoError(t, err)

	_, err = uc.RoomMessages(ctx, "u3", "u1_u2_p42")
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestDeleteRoomThenRecreateStartsFresh(t *testing.T) {
	uc, chatRepo, _ := newChatFixture()
	ctx := context.Background()

	_, err := uc.SendMessage(ctx, "u1", SendMessageInput{RecipientID: "u2", ScopeID: "p42", Text: "old history"})
	assert.NoError(t, err)

	assert.NoError(t, uc.DeleteRoom(ctx, "u1", "u1_u2_p42"))

	_, err = chatRepo.GetRoom(ctx, "u1_u2_p42")
	assert.True(t, errors.Is(err, "NOT_FOUND"))
	_, err = chatRepo.GetSummary(ctx, "u2", "u1_u2_p42")
	assert.True(t, errors.Is(err, "NOT_FOUND"))

	room, err := uc.GetOrCreateRoom(ctx, "u1", "u2", "p42")
	assert.NoError(t, err)
	assert.Equal(t, "u1_u2_p42", room.ID)

	messages, _ := chatRepo.MessagesByRoom(ctx, room.ID)
	assert.Empty(t, messages)
}

func TestSendSystemMessageDoesNotCountAsUnread(t *testing.T) {
	uc, chatRepo, _ := newChatFixture()
	ctx := context.Background()

	_, err := uc.GetOrCreateRoom(ctx, "u1", "u2", "p42")
	assert.NoError(t, err)

	message, err := uc.SendSystemMessage(ctx, "u1_u2_p42", "agent joined")
	assert.NoError(t, err)
	assert.Equal(t, entity.SystemSenderID, message.SenderID)

	for _, userID := range []string{"u1", "u2"} {
		summary, _ := chatRepo.GetSummary(ctx, userID, "u1_u2_p42")
		assert.Equal(t, 0, summary.UnreadCount)
		assert.Equal(t, "agent joined", summary.LastMessage)
	}
}

func TestSubscribeMessagesReplaysAndPushesUpdates(t *testing.T) {
	uc, _, _ := newChatFixture()
	ctx := context.Background()

	_, err := uc.SendMessage(ctx, "u1", SendMessageInput{RecipientID: "u2", ScopeID: "p42", Text: "first"})
	assert.NoError(t, err)

	var snapshots [][]*entity.ChatMessage
	cancel, err := uc.SubscribeMessages(ctx, "u2", "u1_u2_p42", func(messages []*entity.ChatMessage) {
		snapshots = append(snapshots, messages)
	})
	assert.NoError(t, err)
	assert.Len(t, snapshots, 1)
	assert.Len(t, snapshots[0], 1)

	_, err = uc.SendMessage(ctx, "u2", SendMessageInput{RecipientID: "u1", ScopeID: "p42", Text: "second"})
	assert.NoError(t, err)
	assert.Len(t, snapshots, 2)
	assert.Len(t, snapshots[1], 2)

	cancel()
	_, err = uc.SendMessage(ctx, "u1", SendMessageInput{RecipientID: "u2", ScopeID: "p42", Text: "third"})
	assert.NoError(t, err)
	assert.Len(t, snapshots, 2)
}

func TestSubscribeMessagesRequiresParticipant(t *testing.T) {
	uc, _, userRepo := newChatFixture()
	ctx := context.Background()
	userRepo.Create(ctx, &entity.User{ID: "u3", Username: "Mallory"})

	_, err := uc.SendMessage(ctx, "u1", SendMessageInput{RecipientID: "u2", ScopeID: "p42", Text: "hi"})
	assert.NoError(t, err)

	_, err = uc.SubscribeMessages(ctx, "u3", "u1_u2_p42", func([]*entity.ChatMessage) {})
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}
