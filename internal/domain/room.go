package domain

import (
	"cmp"
	"slices"
	"strings"
)

type (
	RoomCode   string
	RoomStatus int
)

const (
	StatusWaiting RoomStatus = iota
	StatusStarted
)

func (s RoomStatus) String() string {
	switch s {
	case StatusWaiting:
		return "Waiting"
	case StatusStarted:
		return "Started"
	default:
		return "Unknown"
	}
}

// Room is one lobby. It is not safe for concurrent use; the registry owns the lock.
type Room struct {
	Code     RoomCode
	Host     PlayerID
	Players  map[PlayerID]*Player
	Status   RoomStatus
	Assigned bool
}

// NewRoom returns a Waiting room whose only player is the host.
func NewRoom(code RoomCode, host *Player) *Room {
	return &Room{
		Code:    code,
		Host:    host.ID,
		Players: map[PlayerID]*Player{host.ID: host},
		Status:  StatusWaiting,
	}
}

func (r *Room) Has(id PlayerID) bool {
	_, ok := r.Players[id]
	return ok
}

func (r *Room) Len() int { return len(r.Players) }

func (r *Room) Empty() bool { return len(r.Players) == 0 }

func (r *Room) HostPlayer() *Player { return r.Players[r.Host] }

func (r *Room) Add(p *Player) error {
	if r.Has(p.ID) {
		return ErrAlreadyMember
	}
	if r.Assigned {
		return ErrGameInProgress
	}
	r.Players[p.ID] = p
	return nil
}

// Remove drops a player. When the host leaves, the earliest remaining joiner
// takes over and is returned; nil means the host did not change.
func (r *Room) Remove(id PlayerID) (*Player, *Player, error) {
	p, ok := r.Players[id]
	if !ok {
		return nil, nil, ErrNotInRoom
	}
	delete(r.Players, id)
	if r.Host != id || r.Empty() {
		return p, nil, nil
	}
	next := r.Ordered()[0]
	r.Host = next.ID
	return p, next, nil
}

// Ordered returns players in join order. This is the fixed ordering used for
// host succession and character assignment.
func (r *Room) Ordered() []*Player {
	out := make([]*Player, 0, len(r.Players))
	for _, p := range r.Players {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b *Player) int { return cmp.Compare(a.Seq, b.Seq) })
	return out
}

func (r *Room) Start() error {
	if r.Len() < 2 {
		return ErrTooFewPlayers
	}
	if r.Status == StatusStarted {
		return ErrAlreadyStarted
	}
	r.Status = StatusStarted
	return nil
}

// Propose records a player's character once the room has started.
func (r *Room) Propose(id PlayerID, character string) error {
	p, ok := r.Players[id]
	if !ok {
		return ErrNotInRoom
	}
	if r.Status != StatusStarted {
		return ErrNotStarted
	}
	if p.HasProposed() {
		return ErrAlreadyProposed
	}
	normalized, err := NormalizeCharacter(character)
	if err != nil {
		return err
	}
	for _, other := range r.Players {
		if other.HasProposed() && strings.EqualFold(other.ProposedCharacter, normalized) {
			return ErrCharacterTaken
		}
	}
	return p.Propose(normalized)
}

// MissingProposals returns usernames of players without a character, in join order.
func (r *Room) MissingProposals() []string {
	var names []string
	for _, p := range r.Ordered() {
		if !p.HasProposed() {
			names = append(names, p.Username)
		}
	}
	return names
}

// CanAssign reports whether characters may be handed out now.
func (r *Room) CanAssign() error {
	if r.Status != StatusStarted {
		return ErrNotStarted
	}
	if r.Assigned {
		return ErrAlreadyAssigned
	}
	if r.Len() < 2 {
		return ErrTooFewPlayers
	}
	if missing := r.MissingProposals(); len(missing) > 0 {
		return &MissingProposalsError{Names: missing}
	}
	return nil
}
