// Package domain contains the lobby entities and the rules that keep them consistent.
package domain

import (
	"errors"
	"strings"
	"unicode/utf8"
)

const MaxCharacterLen = 64

var (
	ErrCharacterEmpty   = errors.New("character empty")
	ErrCharacterTooLong = errors.New("character too long")
)

// PlayerID is the opaque numeric identity handed over by the chat transport.
type PlayerID int64

type Player struct {
	ID                PlayerID
	Username          string
	ProposedCharacter string
	AssignedCharacter string
	// Seq orders players by join time across the whole registry.
	Seq uint64
}

func NewPlayer(id PlayerID, username string, seq uint64) *Player {
	return &Player{ID: id, Username: username, Seq: seq}
}

func (p *Player) HasProposed() bool { return p.ProposedCharacter != "" }

// Propose sets the character once. Callers check uniqueness inside the room.
func (p *Player) Propose(character string) error {
	if p.HasProposed() {
		return ErrAlreadyProposed
	}
	character, err := NormalizeCharacter(character)
	if err != nil {
		return err
	}
	p.ProposedCharacter = character
	return nil
}

func NormalizeCharacter(character string) (string, error) {
	character = strings.TrimSpace(character)
	if character == "" {
		return "", ErrCharacterEmpty
	}
	if utf8.RuneCountInString(character) > MaxCharacterLen {
		return "", ErrCharacterTooLong
	}
	return character, nil
}
