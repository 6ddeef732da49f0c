package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"pasarsosmed/internal/domain/entity"
)

func newRoleFixture() (*RoleProvider, *fakeChatRepo, *fakeUserRepo, *fakeRoleRepo) {
	chatRepo := newFakeChatRepo()
	userRepo := newFakeUserRepo()
	roleRepo := newFakeRoleRepo()
	return NewRoleProvider(chatRepo, userRepo, roleRepo), chatRepo, userRepo, roleRepo
}

func TestResolveRealtimeRoleWins(t *testing.T) {
	provider, chatRepo, userRepo, _ := newRoleFixture()
	ctx := context.Background()

	chatRepo.rtdbRoles["u1"] = entity.RoleEscrowAgent
	userRepo.Create(ctx, &entity.User{ID: "u1", Role: entity.RoleUser})

	role, err := provider.Resolve(ctx, "u1")
	assert.NoError(t, err)
	assert.Equal(t, entity.RoleEscrowAgent, role)
}

func TestResolveUserDocumentRole(t *testing.T) {
	provider, _, userRepo, _ := newRoleFixture()
	ctx := context.Background()

	userRepo.Create(ctx, &entity.User{ID: "u1", Role: entity.RoleEscrowAgent})

	role, err := provider.Resolve(ctx, "u1")
	assert.NoError(t, err)
	assert.Equal(t, entity.RoleEscrowAgent, role)
}

func TestResolveAdminFlag(t *testing.T) {
	provider, _, userRepo, _ := newRoleFixture()
	ctx := context.Background()

	userRepo.Create(ctx, &entity.User{ID: "u1", Admin: true})

	role, err := provider.Resolve(ctx, "u1")
	assert.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, role)
}

func TestResolveRolesCollectionByUserID(t *testing.T) {
	provider, _, userRepo, roleRepo := newRoleFixture()
	ctx := context.Background()

	userRepo.Create(ctx, &entity.User{ID: "u1"})
	roleRepo.Set(ctx, &entity.RoleAssignment{UserID: "u1", Role: entity.RoleEscrowAgent})

	role, err := provider.Resolve(ctx, "u1")
	assert.NoError(t, err)
	assert.Equal(t, entity.RoleEscrowAgent, role)
}

func TestResolveRolesCollectionByEmail(t *testing.T) {
	provider, _, userRepo, roleRepo := newRoleFixture()
	ctx := context.Background()

	userRepo.Create(ctx, &entity.User{ID: "u1", Email: "trent@example.com"})
	roleRepo.Set(ctx, &entity.RoleAssignment{Email: "trent@example.com", Role: entity.RoleAdmin})

	role, err := provider.Resolve(ctx, "u1")
	assert.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, role)
}

func TestResolveDefaultsToUser(t *testing.T) {
	provider, _, userRepo, _ := newRoleFixture()
	ctx := context.Background()

	userRepo.Create(ctx, &entity.User{ID: "u1", Email: "nobody@example.com"})

	role, err := provider.Resolve(ctx, "u1")
	assert.NoError(t, err)
	assert.Equal(t, entity.RoleUser, role)

	// Unknown users are plain users too.
	role, err = provider.Resolve(ctx, "ghost")
	assert.NoError(t, err)
	assert.Equal(t, entity.RoleUser, role)
}

func TestIsEscrowAgentIncludesAdmins(t *testing.T) {
	provider, _, userRepo, _ := newRoleFixture()
	ctx := context.Background()

	userRepo.Create(ctx, &entity.User{ID: "agent", Role: entity.RoleEscrowAgent})
	userRepo.Create(ctx, &entity.User{ID: "boss", Role: entity.RoleAdmin})
	userRepo.Create(ctx, &entity.User{ID: "pleb"})

	for _, id := range []string{"agent", "boss"} {
		ok, err := provider.IsEscrowAgent(ctx, id)
		assert.NoError(t, err)
		assert.True(t, ok, id)
	}

	ok, err := provider.IsEscrowAgent(ctx, "pleb")
	assert.NoError(t, err)
	assert.False(t, ok)

	ok, err = provider.IsAdmin(ctx, "agent")
	assert.NoError(t, err)
	assert.False(t, ok)
}
