package domain

import (
	"errors"
	"strings"
)

var (
	ErrAlreadyInRoom    = errors.New("already in another room")
	ErrAlreadyMember    = errors.New("already a member of this room")
	ErrRoomNotFound     = errors.New("room not found")
	ErrNotInRoom        = errors.New("not in any room")
	ErrNotStarted       = errors.New("game not started")
	ErrAlreadyProposed  = errors.New("character already proposed")
	ErrCharacterTaken   = errors.New("character already taken in this room")
	ErrNotHost          = errors.New("not the host of any room")
	ErrTooFewPlayers    = errors.New("too few players")
	ErrAlreadyStarted   = errors.New("game already started")
	ErrAlreadyAssigned  = errors.New("characters already assigned")
	ErrGameInProgress   = errors.New("game in progress")
	ErrNoFreeCode       = errors.New("no free room code")
	ErrMissingProposals = errors.New("missing proposals")
)

// MissingProposalsError lists the usernames that still have to propose a character.
type MissingProposalsError struct {
	Names []string
}

func (e *MissingProposalsError) Error() string {
	return "missing proposals: " + strings.Join(e.Names, ", ")
}

func (e *MissingProposalsError) Is(target error) bool {
	return target == ErrMissingProposals
}
