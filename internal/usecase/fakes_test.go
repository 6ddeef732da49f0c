package usecase

import (
	"context"
	"sort"
	"sync"

	"pasarsosmed/internal/domain/entity"
	"pasarsosmed/pkg/errors"
)

// fakeChatRepo is an in-memory stand-in for the realtime tree. Writes mimic
// the multi-location fan-out: a message lands together with its summaries
// and the room's last-message fields.
type fakeChatRepo struct {
	mu        sync.Mutex
	rooms     map[string]*entity.ChatRoom
	messages  map[string]map[string]*entity.ChatMessage
	summaries map[string]map[string]*entity.ChatSummary
	escrows   map[string]*entity.EscrowRequest
	rtdbRoles map[string]string
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{
		rooms:     make(map[string]*entity.ChatRoom),
		messages:  make(map[string]map[string]*entity.ChatMessage),
		summaries: make(map[string]map[string]*entity.ChatSummary),
		escrows:   make(map[string]*entity.EscrowRequest),
		rtdbRoles: make(map[string]string),
	}
}

func (f *fakeChatRepo) setSummaryLocked(userID string, summary *entity.ChatSummary) {
	if f.summaries[userID] == nil {
		f.summaries[userID] = make(map[string]*entity.ChatSummary)
	}
	copied := *summary
	f.summaries[userID][summary.RoomID] = &copied
}

func (f *fakeChatRepo) CreateRoom(ctx context.Context, room *entity.ChatRoom, summaries map[string]*entity.ChatSummary) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *room
	copied.Participants = append([]string(nil), room.Participants...)
	f.rooms[room.ID] = &copied
	for userID, summary := range summaries {
		f.setSummaryLocked(userID, summary)
	}
	return nil
}

func (f *fakeChatRepo) GetRoom(ctx context.Context, roomID string) (*entity.ChatRoom, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	room, ok := f.rooms[roomID]
	if !ok {
		return nil, errors.NotFound("Chat room", nil)
	}
	copied := *room
	copied.Participants = append([]string(nil), room.Participants...)
	return &copied, nil
}

func (f *fakeChatRepo) UpdateRoom(ctx context.Context, room *entity.ChatRoom) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *room
	copied.Participants = append([]string(nil), room.Participants...)
	f.rooms[room.ID] = &copied
	return nil
}

func (f *fakeChatRepo) DeleteRoom(ctx context.Context, roomID string, participantIDs []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rooms, roomID)
	delete(f.messages, roomID)
	for _, userID := range participantIDs {
		delete(f.summaries[userID], roomID)
	}
	return nil
}

func (f *fakeChatRepo) AppendMessage(ctx context.Context, message *entity.ChatMessage, summaries map[string]*entity.ChatSummary) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.messages[message.RoomID] == nil {
		f.messages[message.RoomID] = make(map[string]*entity.ChatMessage)
	}
	copied := *message
	f.messages[message.RoomID][message.ID] = &copied

	if room, ok := f.rooms[message.RoomID]; ok {
		room.LastMessage = message.Text
		room.LastMessageAt = message.Timestamp
		room.LastSenderID = message.SenderID
	}
	for userID, summary := range summaries {
		f.setSummaryLocked(userID, summary)
	}
	return nil
}

func (f *fakeChatRepo) MessagesByRoom(ctx context.Context, roomID string) ([]*entity.ChatMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	messages := make([]*entity.ChatMessage, 0, len(f.messages[roomID]))
	for _, message := range f.messages[roomID] {
		copied := *message
		messages = append(messages, &copied)
	}
	sort.SliceStable(messages, func(i, j int) bool {
		if messages[i].Timestamp != messages[j].Timestamp {
			return messages[i].Timestamp < messages[j].Timestamp
		}
		return messages[i].ID < messages[j].ID
	})
	return messages, nil
}

func (f *fakeChatRepo) GetMessage(ctx context.Context, roomID, messageID string) (*entity.ChatMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	message, ok := f.messages[roomID][messageID]
	if !ok {
		return nil, errors.NotFound("Message", nil)
	}
	copied := *message
	return &copied, nil
}

func (f *fakeChatRepo) UpdateMessageStatus(ctx context.Context, roomID, messageID, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	message, ok := f.messages[roomID][messageID]
	if !ok {
		return errors.NotFound("Message", nil)
	}
	message.Status = status
	return nil
}

func (f *fakeChatRepo) MarkMessagesRead(ctx context.Context, roomID, senderID, readerID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, message := range f.messages[roomID] {
		if message.Read || message.SenderID != senderID || message.RecipientID != readerID {
			continue
		}
		message.Read = true
		count++
	}
	if summary, ok := f.summaries[readerID][roomID]; ok {
		summary.UnreadCount = 0
	}
	return count, nil
}

func (f *fakeChatRepo) SummariesByUser(ctx context.Context, userID string) ([]*entity.ChatSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	summaries := make([]*entity.ChatSummary, 0, len(f.summaries[userID]))
	for _, summary := range f.summaries[userID] {
		copied := *summary
		summaries = append(summaries, &copied)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].LastMessageAt > summaries[j].LastMessageAt
	})
	return summaries, nil
}

func (f *fakeChatRepo) GetSummary(ctx context.Context, userID, roomID string) (*entity.ChatSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	summary, ok := f.summaries[userID][roomID]
	if !ok {
		return nil, errors.NotFound("Chat summary", nil)
	}
	copied := *summary
	return &copied, nil
}

func (f *fakeChatRepo) SetSummary(ctx context.Context, userID string, summary *entity.ChatSummary) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setSummaryLocked(userID, summary)
	return nil
}

func (f *fakeChatRepo) UpsertEscrowRequest(ctx context.Context, request *entity.EscrowRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *request
	f.escrows[request.RoomID] = &copied
	return nil
}

func (f *fakeChatRepo) GetEscrowRequest(ctx context.Context, roomID string) (*entity.EscrowRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	request, ok := f.escrows[roomID]
	if !ok {
		return nil, errors.NotFound("Escrow request", nil)
	}
	copied := *request
	return &copied, nil
}

func (f *fakeChatRepo) ListEscrowRequests(ctx context.Context, status string) ([]*entity.EscrowRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	requests := make([]*entity.EscrowRequest, 0, len(f.escrows))
	for _, request := range f.escrows {
		if status != "" && request.Status != status {
			continue
		}
		copied := *request
		requests = append(requests, &copied)
	}
	sort.Slice(requests, func(i, j int) bool {
		return requests[i].RequestedAt > requests[j].RequestedAt
	})
	return requests, nil
}

func (f *fakeChatRepo) RoleByUserID(ctx context.Context, userID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rtdbRoles[userID], nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[string]*entity.User)}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

func (f *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	return user, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, errors.NotFound("User", nil)
}

func (f *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) ListByRole(ctx context.Context, role string, limit int) ([]*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []*entity.User
	for _, user := range f.users {
		if user.Role == role {
			matched = append(matched, user)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

type fakeRoleRepo struct {
	byUserID map[string]*entity.RoleAssignment
	byEmail  map[string]*entity.RoleAssignment
}

func newFakeRoleRepo() *fakeRoleRepo {
	return &fakeRoleRepo{
		byUserID: make(map[string]*entity.RoleAssignment),
		byEmail:  make(map[string]*entity.RoleAssignment),
	}
}

func (f *fakeRoleRepo) GetByUserID(ctx context.Context, userID string) (*entity.RoleAssignment, error) {
	assignment, ok := f.byUserID[userID]
	if !ok {
		return nil, errors.NotFound("Role assignment", nil)
	}
	return assignment, nil
}

func (f *fakeRoleRepo) GetByEmail(ctx context.Context, email string) (*entity.RoleAssignment, error) {
	assignment, ok := f.byEmail[email]
	if !ok {
		return nil, errors.NotFound("Role assignment", nil)
	}
	return assignment, nil
}

func (f *fakeRoleRepo) Set(ctx context.Context, assignment *entity.RoleAssignment) error {
	if assignment.UserID != "" {
		f.byUserID[assignment.UserID] = assignment
	}
	if assignment.Email != "" {
		f.byEmail[assignment.Email] = assignment
	}
	return nil
}
