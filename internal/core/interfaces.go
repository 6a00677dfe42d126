package core

import (
	"context"

	"github.com/dkeye/GuessWho/internal/domain"
)

// Frame is a raw payload written to a chat connection.
type Frame []byte

// ChatConnection abstracts the chat transport endpoint of one player.
// Owned by the adapter; the adapter must Close() it.
type ChatConnection interface {
	TrySend(Frame) error
	Close()
}

// Notifier delivers a text message to a single player.
// Failures are per recipient and never fatal to the caller.
type Notifier interface {
	Notify(ctx context.Context, to domain.PlayerID, text string) error
}

// Notice is one outbound message produced by a session operation.
type Notice struct {
	To   domain.PlayerID
	Text string
}

// Caller identifies who issued a command.
type Caller struct {
	ID       domain.PlayerID
	Username string
}

// MemberDTO is a read-only copy of a player taken under the registry lock.
type MemberDTO struct {
	ID                domain.PlayerID `json:"id"`
	Username          string          `json:"username"`
	ProposedCharacter string          `json:"proposed_character,omitempty"`
	AssignedCharacter string          `json:"assigned_character,omitempty"`
}

func NewMemberDTO(p *domain.Player) MemberDTO {
	return MemberDTO{
		ID:                p.ID,
		Username:          p.Username,
		ProposedCharacter: p.ProposedCharacter,
		AssignedCharacter: p.AssignedCharacter,
	}
}

// MembersOf copies a room's players in join order.
func MembersOf(r *domain.Room) []MemberDTO {
	ordered := r.Ordered()
	out := make([]MemberDTO, 0, len(ordered))
	for _, p := range ordered {
		out = append(out, NewMemberDTO(p))
	}
	return out
}

// RoomInfo is a point-in-time summary of one room.
type RoomInfo struct {
	Code     domain.RoomCode `json:"code"`
	Host     domain.PlayerID `json:"host"`
	HostName string          `json:"host_name"`
	Status   string          `json:"status"`
	Assigned bool            `json:"assigned"`
	Members  []MemberDTO     `json:"members"`
}

func NewRoomInfo(r *domain.Room) RoomInfo {
	info := RoomInfo{
		Code:     r.Code,
		Host:     r.Host,
		Status:   r.Status.String(),
		Assigned: r.Assigned,
		Members:  MembersOf(r),
	}
	if h := r.HostPlayer(); h != nil {
		info.HostName = h.Username
	}
	return info
}

// Rand is the randomness source used for codes and assignment.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}
