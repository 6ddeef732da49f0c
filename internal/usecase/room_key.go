package usecase

import (
	"fmt"
	"time"
)

// RoomKeyResolver derives the stable identity of a conversation from its two
// participants and a transaction scope (usually a product id). For an
// explicit scope the derivation is pure: sort the participant ids, join with
// "_", append the scope. Resolving (u1, u2, p42) and (u2, u1, p42) both give
// "u1_u2_p42", so the same conversation never forks into duplicate rooms.
type RoomKeyResolver struct {
	reuseGeneralRoom bool
	now              func() time.Time
}

func NewRoomKeyResolver(reuseGeneralRoom bool) *RoomKeyResolver {
	return &RoomKeyResolver{
		reuseGeneralRoom: reuseGeneralRoom,
		now:              time.Now,
	}
}

// NormalizeScope replaces an empty scope with a synthesized one: "general"
// when room reuse is on, otherwise the legacy "general_<millis>" stamp,
// which deliberately opens a fresh room on every un-scoped contact.
func (r *RoomKeyResolver) NormalizeScope(scopeID string) string {
	if scopeID != "" {
		return scopeID
	}
	if r.reuseGeneralRoom {
		return "general"
	}
	return fmt.Sprintf("general_%d", r.now().UnixMilli())
}

// Resolve returns the room key for the pair and scope.
func (r *RoomKeyResolver) Resolve(userA, userB, scopeID string) string {
	scopeID = r.NormalizeScope(scopeID)

	first, second := userA, userB
	if second < first {
		first, second = second, first
	}

	return first + "_" + second + "_" + scopeID
}
