package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"pasarsosmed/internal/domain/entity"
	ws "pasarsosmed/internal/infrastructure/websocket"
	"pasarsosmed/pkg/errors"
)

func newEscrowFixture() (*EscrowUseCase, *ChatUseCase, *fakeChatRepo, *fakeUserRepo) {
	chatRepo := newFakeChatRepo()
	userRepo := newFakeUserRepo(
		&entity.User{ID: "u1", Username: "Alice"},
		&entity.User{ID: "u2", Username: "Bob"},
		&entity.User{ID: "agent1", Username: "Trent", Role: entity.RoleEscrowAgent},
	)
	roleRepo := newFakeRoleRepo()
	chat := NewChatUseCase(chatRepo, userRepo, NewRoomKeyResolver(true), ws.NewManager())
	roles := NewRoleProvider(chatRepo, userRepo, roleRepo)
	return NewEscrowUseCase(chat, userRepo, roles), chat, chatRepo, userRepo
}

func systemMessages(t *testing.T, chatRepo *fakeChatRepo, roomID string) []*entity.ChatMessage {
	t.Helper()
	messages, err := chatRepo.MessagesByRoom(context.Background(), roomID)
	assert.NoError(t, err)

	var system []*entity.ChatMessage
	for _, message := range messages {
		if message.SenderID == entity.SystemSenderID {
			system = append(system, message)
		}
	}
	return system
}

func TestRequestEscrowAgentJoinsRoom(t *testing.T) {
	uc, chat, chatRepo, _ := newEscrowFixture()
	ctx := context.Background()

	_, err := chat.GetOrCreateRoom(ctx, "u1", "u2", "p42")
	assert.NoError(t, err)

	request, err := uc.RequestEscrowAgent(ctx, "u1", "u1_u2_p42")
	assert.NoError(t, err)
	assert.Equal(t, entity.EscrowStatusActive, request.Status)
	assert.Equal(t, "u1", request.RequesterID)
	assert.Equal(t, "Alice", request.RequesterName)

	room, _ := chatRepo.GetRoom(ctx, "u1_u2_p42")
	assert.True(t, room.HasEscrowAgent)
	assert.Contains(t, room.Participants, "agent1")

	announcements := systemMessages(t, chatRepo, room.ID)
	assert.Len(t, announcements, 1)
	assert.Contains(t, announcements[0].Text, "Trent")
	assert.Contains(t, announcements[0].Text, "Alice")

	// The agent's inbox now shows the room.
	summary, err := chatRepo.GetSummary(ctx, "agent1", room.ID)
	assert.NoError(t, err)
	assert.Equal(t, "u1", summary.OtherUserID)
}

func TestRequestEscrowAgentTwiceAddsAgentOnce(t *testing.T) {
	uc, chat, chatRepo, _ := newEscrowFixture()
	ctx := context.Background()

	_, err := chat.GetOrCreateRoom(ctx, "u1", "u2", "p42")
	assert.NoError(t, err)

	_, err = uc.RequestEscrowAgent(ctx, "u1", "u1_u2_p42")
	assert.NoError(t, err)
	_, err = uc.RequestEscrowAgent(ctx, "u2", "u1_u2_p42")
	assert.NoError(t, err)

	room, _ := chatRepo.GetRoom(ctx, "u1_u2_p42")
	agentCount := 0
	for _, p := range room.Participants {
		if p == "agent1" {
			agentCount++
		}
	}
	assert.Equal(t, 1, agentCount)

	// Each request posts its own announcement.
	assert.Len(t, systemMessages(t, chatRepo, room.ID), 2)
}

func TestRequestEscrowAgentFallsBackToAdmin(t *testing.T) {
	chatRepo := newFakeChatRepo()
	userRepo := newFakeUserRepo(
		&entity.User{ID: "u1", Username: "Alice"},
		&entity.User{ID: "u2", Username: "Bob"},
		&entity.User{ID: "boss", Username: "Root", Role: entity.RoleAdmin},
	)
	chat := NewChatUseCase(chatRepo, userRepo, NewRoomKeyResolver(true), ws.NewManager())
	uc := NewEscrowUseCase(chat, userRepo, NewRoleProvider(chatRepo, userRepo, newFakeRoleRepo()))
	ctx := context.Background()

	_, err := chat.GetOrCreateRoom(ctx, "u1", "u2", "p42")
	assert.NoError(t, err)

	_, err = uc.RequestEscrowAgent(ctx, "u1", "u1_u2_p42")
	assert.NoError(t, err)

	room, _ := chatRepo.GetRoom(ctx, "u1_u2_p42")
	assert.Contains(t, room.Participants, "boss")
}

func TestRequestEscrowAgentRequiresParticipant(t *testing.T) {
	uc, chat, _, userRepo := newEscrowFixture()
	ctx := context.Background()
	userRepo.Create(ctx, &entity.User{ID: "u3", Username: "Mallory"})

	_, err := chat.GetOrCreateRoom(ctx, "u1", "u2", "p42")
	assert.NoError(t, err)

	_, err = uc.RequestEscrowAgent(ctx, "u3", "u1_u2_p42")
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestSendAsEscrowAgentUsesPseudoIdentity(t *testing.T) {
	uc, chat, chatRepo, _ := newEscrowFixture()
	ctx := context.Background()

	_, err := chat.GetOrCreateRoom(ctx, "u1", "u2", "p42")
	assert.NoError(t, err)
	_, err = uc.RequestEscrowAgent(ctx, "u1", "u1_u2_p42")
	assert.NoError(t, err)

	message, err := uc.SendAsEscrowAgent(ctx, "agent1", "u1_u2_p42", "please share the credentials")
	assert.NoError(t, err)
	assert.Equal(t, entity.EscrowAgentID, message.SenderID)
	assert.Equal(t, "Escrow Agent", message.SenderName)

	// Both humans see it as unread; the calling agent does not.
	for _, userID := range []string{"u1", "u2"} {
		summary, _ := chatRepo.GetSummary(ctx, userID, "u1_u2_p42")
		assert.Equal(t, 1, summary.UnreadCount, userID)
	}
	agentSummary, _ := chatRepo.GetSummary(ctx, "agent1", "u1_u2_p42")
	assert.Equal(t, 0, agentSummary.UnreadCount)
}

func TestSendAsEscrowAgentRejectsRegularUsers(t *testing.T) {
	uc, chat, _, _ := newEscrowFixture()
	ctx := context.Background()

	_, err := chat.GetOrCreateRoom(ctx, "u1", "u2", "p42")
	assert.NoError(t, err)

	_, err = uc.SendAsEscrowAgent(ctx, "u1", "u1_u2_p42", "I am totally the agent")
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestUpdateRequestStatus(t *testing.T) {
	uc, chat, _, _ := newEscrowFixture()
	ctx := context.Background()

	_, err := chat.GetOrCreateRoom(ctx, "u1", "u2", "p42")
	assert.NoError(t, err)
	_, err = uc.RequestEscrowAgent(ctx, "u1", "u1_u2_p42")
	assert.NoError(t, err)

	updated, err := uc.UpdateRequestStatus(ctx, "agent1", "u1_u2_p42", entity.EscrowStatusCompleted)
	assert.NoError(t, err)
	assert.Equal(t, entity.EscrowStatusCompleted, updated.Status)
	assert.NotZero(t, updated.UpdatedAt)

	_, err = uc.UpdateRequestStatus(ctx, "agent1", "u1_u2_p42", "paused")
	assert.True(t, errors.Is(err, "BAD_REQUEST"))

	_, err = uc.UpdateRequestStatus(ctx, "u1", "u1_u2_p42", entity.EscrowStatusCancelled)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestListRequestsFiltersByStatus(t *testing.T) {
	uc, chat, _, _ := newEscrowFixture()
	ctx := context.Background()

	_, err := chat.GetOrCreateRoom(ctx, "u1", "u2", "p42")
	assert.NoError(t, err)
	_, err = uc.RequestEscrowAgent(ctx, "u1", "u1_u2_p42")
	assert.NoError(t, err)

	active, err := uc.ListRequests(ctx, "agent1", entity.EscrowStatusActive)
	assert.NoError(t, err)
	assert.Len(t, active, 1)

	completed, err := uc.ListRequests(ctx, "agent1", entity.EscrowStatusCompleted)
	assert.NoError(t, err)
	assert.Empty(t, completed)

	_, err = uc.ListRequests(ctx, "u1", "")
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}
