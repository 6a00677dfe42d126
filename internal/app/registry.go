package app

import (
	"slices"
	"strings"
	"sync"

	"github.com/dkeye/GuessWho/internal/core"
	"github.com/dkeye/GuessWho/internal/domain"
	"github.com/rs/zerolog/log"
)

// Registry owns every room. A single mutex guards the whole collection so
// that player and host lookups always see one consistent state. Nothing in
// here performs outbound I/O; results carry what callers need to notify.
type Registry struct {
	mu      sync.Mutex
	rooms   map[domain.RoomCode]*domain.Room
	members map[domain.PlayerID]domain.RoomCode
	codes   core.CodeSpace
	rng     core.Rand
	seq     uint64
}

type Option func(*Registry)

func WithCodes(codes core.CodeSpace) Option {
	return func(r *Registry) { r.codes = codes }
}

func WithRand(rng core.Rand) Option {
	return func(r *Registry) { r.rng = rng }
}

func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		rooms:   make(map[domain.RoomCode]*domain.Room),
		members: make(map[domain.PlayerID]domain.RoomCode),
		codes:   core.NewNumericCodes(core.DefaultCodeWidth),
		rng:     core.DefaultRand,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type JoinResult struct {
	Code    domain.RoomCode
	Joined  core.MemberDTO
	Members []core.MemberDTO
}

type LeaveResult struct {
	Code      domain.RoomCode
	Left      core.MemberDTO
	Remaining []core.MemberDTO
	NewHost   *core.MemberDTO
	Closed    bool
}

type CharacterResult struct {
	Code   domain.RoomCode
	Player core.MemberDTO
}

type PreparationResult struct {
	Code    domain.RoomCode
	Members []core.MemberDTO
}

type AssignmentResult struct {
	Code    domain.RoomCode
	Members []core.MemberDTO
}

type EndResult struct {
	Code    domain.RoomCode
	Host    core.MemberDTO
	Members []core.MemberDTO
}

func (r *Registry) Create(owner domain.PlayerID, username string) (domain.RoomCode, error) {
	r.mu.Lock()
	code, err := r.createLocked(owner, username)
	r.mu.Unlock()
	if err != nil {
		return "", err
	}
	log.Info().Str("module", "app.registry").Int64("player", int64(owner)).Str("room", string(code)).Msg("room created")
	return code, nil
}

func (r *Registry) createLocked(owner domain.PlayerID, username string) (domain.RoomCode, error) {
	if _, ok := r.members[owner]; ok {
		return "", domain.ErrAlreadyInRoom
	}
	code, err := r.freeCodeLocked()
	if err != nil {
		return "", err
	}
	r.rooms[code] = domain.NewRoom(code, r.newPlayerLocked(owner, username))
	r.members[owner] = code
	return code, nil
}

// freeCodeLocked draws a random code and probes forward past taken ones, so
// it terminates after at most Size() steps.
func (r *Registry) freeCodeLocked() (domain.RoomCode, error) {
	size := r.codes.Size()
	if len(r.rooms) >= size {
		return "", domain.ErrNoFreeCode
	}
	start := r.rng.IntN(size)
	for i := range size {
		code := r.codes.Code((start + i) % size)
		if _, taken := r.rooms[code]; !taken {
			return code, nil
		}
	}
	return "", domain.ErrNoFreeCode
}

func (r *Registry) newPlayerLocked(id domain.PlayerID, username string) *domain.Player {
	r.seq++
	return domain.NewPlayer(id, username, r.seq)
}

func (r *Registry) Join(code domain.RoomCode, id domain.PlayerID, username string) (JoinResult, error) {
	r.mu.Lock()
	res, err := r.joinLocked(code, id, username)
	r.mu.Unlock()
	if err != nil {
		return JoinResult{}, err
	}
	log.Info().Str("module", "app.registry").Int64("player", int64(id)).Str("room", string(code)).Int("players", len(res.Members)).Msg("player joined")
	return res, nil
}

func (r *Registry) joinLocked(code domain.RoomCode, id domain.PlayerID, username string) (JoinResult, error) {
	if current, ok := r.members[id]; ok {
		if current == code {
			return JoinResult{}, domain.ErrAlreadyMember
		}
		return JoinResult{}, domain.ErrAlreadyInRoom
	}
	room, ok := r.rooms[code]
	if !ok {
		return JoinResult{}, domain.ErrRoomNotFound
	}
	p := r.newPlayerLocked(id, username)
	if err := room.Add(p); err != nil {
		return JoinResult{}, err
	}
	r.members[id] = code
	return JoinResult{Code: code, Joined: core.NewMemberDTO(p), Members: core.MembersOf(room)}, nil
}

func (r *Registry) Leave(id domain.PlayerID) (LeaveResult, error) {
	r.mu.Lock()
	res, err := r.leaveLocked(id)
	r.mu.Unlock()
	if err != nil {
		return LeaveResult{}, err
	}
	ev := log.Info().Str("module", "app.registry").Int64("player", int64(id)).Str("room", string(res.Code))
	if res.NewHost != nil {
		ev = ev.Int64("new_host", int64(res.NewHost.ID))
	}
	ev.Bool("closed", res.Closed).Msg("player left")
	return res, nil
}

func (r *Registry) leaveLocked(id domain.PlayerID) (LeaveResult, error) {
	room := r.roomOfLocked(id)
	if room == nil {
		return LeaveResult{}, domain.ErrNotInRoom
	}
	left, newHost, err := room.Remove(id)
	if err != nil {
		return LeaveResult{}, err
	}
	delete(r.members, id)
	res := LeaveResult{Code: room.Code, Left: core.NewMemberDTO(left), Remaining: core.MembersOf(room)}
	if newHost != nil {
		dto := core.NewMemberDTO(newHost)
		res.NewHost = &dto
	}
	if room.Empty() {
		delete(r.rooms, room.Code)
		res.Closed = true
	}
	return res, nil
}

func (r *Registry) SetCharacter(id domain.PlayerID, character string) (CharacterResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room := r.roomOfLocked(id)
	if room == nil {
		return CharacterResult{}, domain.ErrNotInRoom
	}
	if err := room.Propose(id, character); err != nil {
		return CharacterResult{}, err
	}
	return CharacterResult{Code: room.Code, Player: core.NewMemberDTO(room.Players[id])}, nil
}

func (r *Registry) BeginPreparation(host domain.PlayerID) (PreparationResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room := r.hostedLocked(host)
	if room == nil {
		return PreparationResult{}, domain.ErrNotHost
	}
	if err := room.Start(); err != nil {
		return PreparationResult{}, err
	}
	return PreparationResult{Code: room.Code, Members: core.MembersOf(room)}, nil
}

// FinalizeAssignment hands every player the character proposed by a peer,
// using join order as the fixed ordering for the derangement.
func (r *Registry) FinalizeAssignment(host domain.PlayerID) (AssignmentResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room := r.hostedLocked(host)
	if room == nil {
		return AssignmentResult{}, domain.ErrNotHost
	}
	if err := room.CanAssign(); err != nil {
		return AssignmentResult{}, err
	}
	ordered := room.Ordered()
	proposals := make([]string, len(ordered))
	for i, p := range ordered {
		proposals[i] = p.ProposedCharacter
	}
	assigned, err := core.Derange(proposals, r.rng)
	if err != nil {
		return AssignmentResult{}, err
	}
	for i, p := range ordered {
		p.AssignedCharacter = assigned[i]
	}
	room.Assigned = true
	return AssignmentResult{Code: room.Code, Members: core.MembersOf(room)}, nil
}

func (r *Registry) End(host domain.PlayerID) (EndResult, error) {
	r.mu.Lock()
	room := r.hostedLocked(host)
	if room == nil {
		r.mu.Unlock()
		return EndResult{}, domain.ErrNotHost
	}
	res := EndResult{Code: room.Code, Host: core.NewMemberDTO(room.HostPlayer()), Members: core.MembersOf(room)}
	for id := range room.Players {
		delete(r.members, id)
	}
	delete(r.rooms, room.Code)
	r.mu.Unlock()

	log.Info().Str("module", "app.registry").Int64("host", int64(host)).Str("room", string(res.Code)).Msg("room ended")
	return res, nil
}

// Snapshot returns every room sorted by code, taken under one lock acquisition.
func (r *Registry) Snapshot() []core.RoomInfo {
	r.mu.Lock()
	out := make([]core.RoomInfo, 0, len(r.rooms))
	for _, room := range r.rooms {
		out = append(out, core.NewRoomInfo(room))
	}
	r.mu.Unlock()
	slices.SortFunc(out, func(a, b core.RoomInfo) int {
		return strings.Compare(string(a.Code), string(b.Code))
	})
	return out
}

func (r *Registry) PlayerRoom(id domain.PlayerID) (core.RoomInfo, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room := r.roomOfLocked(id)
	if room == nil {
		return core.RoomInfo{}, false
	}
	return core.NewRoomInfo(room), true
}

func (r *Registry) roomOfLocked(id domain.PlayerID) *domain.Room {
	code, ok := r.members[id]
	if !ok {
		return nil
	}
	return r.rooms[code]
}

func (r *Registry) hostedLocked(id domain.PlayerID) *domain.Room {
	room := r.roomOfLocked(id)
	if room == nil || room.Host != id {
		return nil
	}
	return room
}
