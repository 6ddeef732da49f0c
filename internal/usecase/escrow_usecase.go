package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"pasarsosmed/internal/domain/entity"
	"pasarsosmed/internal/domain/repository"
	"pasarsosmed/pkg/errors"
)

type EscrowUseCase struct {
	chat     *ChatUseCase
	userRepo repository.UserRepository
	roles    *RoleProvider
}

func NewEscrowUseCase(chat *ChatUseCase, userRepo repository.UserRepository, roles *RoleProvider) *EscrowUseCase {
	return &EscrowUseCase{
		chat:     chat,
		userRepo: userRepo,
		roles:    roles,
	}
}

// RequestEscrowAgent pulls an escrow agent into the room at a participant's
// request. The agent's real account joins the participant list; messages the
// agent later sends are authored by the shared pseudo-identity. Calling this
// again is idempotent on membership but still posts a fresh announcement and
// refreshes the escrow request record.
func (uc *EscrowUseCase) RequestEscrowAgent(ctx context.Context, requesterID, roomID string) (*entity.EscrowRequest, error) {
	room, err := uc.chat.roomForParticipant(ctx, requesterID, roomID)
	if err != nil {
		return nil, err
	}

	requester, err := uc.userRepo.GetByID(ctx, requesterID)
	if err != nil {
		return nil, err
	}

	agent, err := uc.findAgent(ctx)
	if err != nil {
		return nil, err
	}

	if !room.HasParticipant(agent.ID) || !room.HasEscrowAgent {
		if !room.HasParticipant(agent.ID) {
			room.Participants = append(room.Participants, agent.ID)
		}
		room.HasEscrowAgent = true
		if err := uc.chat.chatRepo.UpdateRoom(ctx, room); err != nil {
			return nil, err
		}
	}

	announcement := fmt.Sprintf("🛡️ Escrow agent %s joined the conversation at %s's request.", agent.Username, requester.Username)
	message, err := uc.chat.SendSystemMessage(ctx, roomID, announcement)
	if err != nil {
		return nil, err
	}

	// The agent gets an inbox entry so the room shows up on their dashboard.
	agentSummary := &entity.ChatSummary{
		RoomID:        roomID,
		OtherUserID:   requesterID,
		ProductID:     room.ProductID,
		LastMessage:   message.Text,
		LastMessageAt: message.Timestamp,
	}
	if err := uc.chat.chatRepo.SetSummary(ctx, agent.ID, agentSummary); err != nil {
		return nil, err
	}

	request := &entity.EscrowRequest{
		RoomID:        roomID,
		RequesterID:   requesterID,
		RequesterName: requester.Username,
		Participants:  room.Participants,
		ProductID:     room.ProductID,
		Status:        entity.EscrowStatusActive,
		RequestedAt:   time.Now().UnixMilli(),
	}
	if err := uc.chat.chatRepo.UpsertEscrowRequest(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

// SendAsEscrowAgent posts a message authored by the escrow pseudo-identity.
// Every human participant except the calling agent sees it as unread.
func (uc *EscrowUseCase) SendAsEscrowAgent(ctx context.Context, callerID, roomID, text string) (*entity.ChatMessage, error) {
	if text == "" {
		return nil, errors.BadRequest("Message text is required", nil)
	}

	allowed, err := uc.roles.IsEscrowAgent(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, errors.Forbidden("Escrow agent role required", nil)
	}

	room, err := uc.chat.chatRepo.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	message := &entity.ChatMessage{
		ID:          uuid.New().String(),
		RoomID:      roomID,
		SenderID:    entity.EscrowAgentID,
		SenderName:  "Escrow Agent",
		Text:        text,
		Timestamp:   time.Now().UnixMilli(),
		MessageType: entity.MessageTypeText,
	}

	increments := make([]string, 0, len(room.Participants))
	for _, participantID := range room.Participants {
		if participantID == callerID || participantID == entity.EscrowAgentID {
			continue
		}
		increments = append(increments, participantID)
	}

	summaries := uc.chat.fanoutSummaries(ctx, room, message, increments, []string{callerID})
	if err := uc.chat.postMessage(ctx, room, message, summaries); err != nil {
		return nil, err
	}
	return message, nil
}

// ListRequests returns escrow requests for the agent dashboard, optionally
// filtered by status.
func (uc *EscrowUseCase) ListRequests(ctx context.Context, callerID, status string) ([]*entity.EscrowRequest, error) {
	allowed, err := uc.roles.IsEscrowAgent(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, errors.Forbidden("Escrow agent role required", nil)
	}
	return uc.chat.chatRepo.ListEscrowRequests(ctx, status)
}

// UpdateRequestStatus moves an escrow request to active, completed or
// cancelled. Agent dashboard action only.
func (uc *EscrowUseCase) UpdateRequestStatus(ctx context.Context, callerID, roomID, status string) (*entity.EscrowRequest, error) {
	switch status {
	case entity.EscrowStatusActive, entity.EscrowStatusCompleted, entity.EscrowStatusCancelled:
	default:
		return nil, errors.BadRequest("Invalid escrow request status", nil)
	}

	allowed, err := uc.roles.IsEscrowAgent(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, errors.Forbidden("Escrow agent role required", nil)
	}

	request, err := uc.chat.chatRepo.GetEscrowRequest(ctx, roomID)
	if err != nil {
		return nil, err
	}
	request.Status = status
	request.UpdatedAt = time.Now().UnixMilli()

	if err := uc.chat.chatRepo.UpsertEscrowRequest(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

// findAgent picks the account escrow traffic routes to: the first registered
// escrow agent, falling back to the first admin.
func (uc *EscrowUseCase) findAgent(ctx context.Context) (*entity.User, error) {
	agents, err := uc.userRepo.ListByRole(ctx, entity.RoleEscrowAgent, 1)
	if err != nil {
		return nil, err
	}
	if len(agents) > 0 {
		return agents[0], nil
	}

	admins, err := uc.userRepo.ListByRole(ctx, entity.RoleAdmin, 1)
	if err != nil {
		return nil, err
	}
	if len(admins) > 0 {
		return admins[0], nil
	}

	return nil, errors.NotFound("Escrow agent", nil)
}
