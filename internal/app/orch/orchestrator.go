// Package orch composes registry primitives into the actions a player can
// trigger from chat, and turns their results into replies and notices.
package orch

import (
	"context"
	"errors"

	"github.com/dkeye/GuessWho/internal/app"
	"github.com/dkeye/GuessWho/internal/command"
	"github.com/dkeye/GuessWho/internal/core"
	"github.com/dkeye/GuessWho/internal/domain"
	"github.com/rs/zerolog/log"
)

type Orchestrator struct {
	Registry *app.Registry
	Fanout   *app.Fanout
}

// Outcome is what a successful operation produced: the reply for the caller
// and the notices for everybody else affected.
type Outcome struct {
	Reply   string
	Notices []core.Notice
}

// DispatchText parses a chat line and runs it for caller.
func (o *Orchestrator) DispatchText(ctx context.Context, caller core.Caller, text string) string {
	cmd, err := command.Parse(text)
	if err != nil {
		log.Debug().Str("module", "orch").Int64("player", int64(caller.ID)).Err(err).Msg("rejected command")
		return describeError(err)
	}
	return o.Dispatch(ctx, caller, cmd)
}

// Dispatch runs cmd, delivers its notices once the registry is no longer
// locked and returns the reply for the caller. A failed delivery never turns
// into a failed command.
func (o *Orchestrator) Dispatch(ctx context.Context, caller core.Caller, cmd command.Command) string {
	out, err := o.Execute(caller, cmd)
	if err != nil {
		log.Info().Str("module", "orch").Int64("player", int64(caller.ID)).Str("command", cmd.Kind.String()).Err(err).Msg("command failed")
		return describeError(err)
	}
	if o.Fanout != nil {
		o.Fanout.Deliver(ctx, out.Notices)
	}
	return out.Reply
}

// Execute performs the state change without any delivery.
func (o *Orchestrator) Execute(caller core.Caller, cmd command.Command) (Outcome, error) {
	switch cmd.Kind {
	case command.KindStart:
		return Outcome{Reply: greetingText}, nil
	case command.KindHelp:
		return Outcome{Reply: command.Help()}, nil
	case command.KindCreate:
		return o.Create(caller)
	case command.KindJoin:
		return o.Join(caller, domain.RoomCode(cmd.Arg))
	case command.KindLeave:
		return o.Leave(caller)
	case command.KindCharacter:
		return o.SetCharacter(caller, cmd.Arg)
	case command.KindPlay:
		return o.Play(caller)
	case command.KindStartGame:
		return o.StartGame(caller)
	case command.KindEnd:
		return o.End(caller)
	case command.KindInfo:
		return o.Info(), nil
	default:
		return Outcome{}, command.ErrUnknownCommand
	}
}

func describeError(err error) string {
	var missing *domain.MissingProposalsError
	var missingArg *command.MissingArgumentError
	switch {
	case errors.As(err, &missing):
		return missingProposalsText(missing.Names)
	case errors.As(err, &missingArg):
		return "Please add an argument. Usage: " + missingArg.Usage
	case errors.Is(err, command.ErrEmpty), errors.Is(err, command.ErrUnknownCommand):
		return "Unknown command. Use /help to see what you can do"
	case errors.Is(err, domain.ErrAlreadyInRoom):
		return "You are already in a room. Use /leave first"
	case errors.Is(err, domain.ErrAlreadyMember):
		return "You are already in this room"
	case errors.Is(err, domain.ErrRoomNotFound):
		return "No room found with that code"
	case errors.Is(err, domain.ErrNotInRoom):
		return "You are not in any room"
	case errors.Is(err, domain.ErrNotStarted):
		return "The game has not been prepared yet. The host has to use /play first"
	case errors.Is(err, domain.ErrAlreadyProposed):
		return "You have already chosen a character"
	case errors.Is(err, domain.ErrCharacterTaken):
		return "Another player already chose that character"
	case errors.Is(err, domain.ErrCharacterEmpty), errors.Is(err, domain.ErrCharacterTooLong):
		return "A character name must be between 1 and 64 characters"
	case errors.Is(err, domain.ErrNotHost):
		return "You are not the host of any room"
	case errors.Is(err, domain.ErrTooFewPlayers):
		return "At least 2 players are needed to play"
	case errors.Is(err, domain.ErrAlreadyStarted):
		return "The game has already been prepared"
	case errors.Is(err, domain.ErrAlreadyAssigned):
		return "Characters have already been assigned"
	case errors.Is(err, domain.ErrGameInProgress):
		return "That room is already playing"
	case errors.Is(err, domain.ErrNoFreeCode):
		return "No room codes are free right now, try again later"
	default:
		return "Something went wrong"
	}
}
