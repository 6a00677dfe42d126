package orch

import (
	"fmt"

	"github.com/dkeye/GuessWho/internal/core"
	"github.com/dkeye/GuessWho/internal/domain"
	"github.com/rs/zerolog/log"
)

func (o *Orchestrator) Create(caller core.Caller) (Outcome, error) {
	code, err := o.Registry.Create(caller.ID, caller.Username)
	if err != nil {
		return Outcome{}, fmt.Errorf("create room: %w", err)
	}
	return Outcome{Reply: fmt.Sprintf("Room created! The code is: %s", code)}, nil
}

func (o *Orchestrator) Join(caller core.Caller, code domain.RoomCode) (Outcome, error) {
	res, err := o.Registry.Join(code, caller.ID, caller.Username)
	if err != nil {
		return Outcome{}, fmt.Errorf("join room %s: %w", code, err)
	}
	text := fmt.Sprintf("%s joined the room", displayName(caller.Username))
	return Outcome{
		Reply:   fmt.Sprintf("You joined room %s\nPlayers: %s", res.Code, names(res.Members)),
		Notices: broadcast(res.Members, caller.ID, text),
	}, nil
}

func (o *Orchestrator) Leave(caller core.Caller) (Outcome, error) {
	res, err := o.Registry.Leave(caller.ID)
	if err != nil {
		return Outcome{}, fmt.Errorf("leave room: %w", err)
	}
	notices := broadcast(res.Remaining, caller.ID, fmt.Sprintf("%s left the room", displayName(res.Left.Username)))
	if res.NewHost != nil {
		text := fmt.Sprintf("%s is the new host of the room", displayName(res.NewHost.Username))
		notices = append(notices, broadcast(res.Remaining, caller.ID, text)...)
	}
	return Outcome{Reply: "You left the room", Notices: notices}, nil
}

func (o *Orchestrator) End(caller core.Caller) (Outcome, error) {
	res, err := o.Registry.End(caller.ID)
	if err != nil {
		return Outcome{}, fmt.Errorf("end room: %w", err)
	}
	text := fmt.Sprintf("The room was closed by %s", displayName(res.Host.Username))
	return Outcome{
		Reply:   "The game is over! The room has been closed",
		Notices: broadcast(res.Members, caller.ID, text),
	}, nil
}

// Info describes every room and dumps the full snapshot, characters
// included, to the debug log.
func (o *Orchestrator) Info() Outcome {
	rooms := o.Registry.Snapshot()
	log.Debug().Str("module", "orch").Interface("rooms", rooms).Msg("info snapshot")
	return Outcome{Reply: roomsText(rooms)}
}
