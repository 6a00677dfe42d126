package orch

import (
	"fmt"

	"github.com/dkeye/GuessWho/internal/core"
)

const preparationText = "The game is about to begin! Every player has to choose a character with /character <name>"

func (o *Orchestrator) SetCharacter(caller core.Caller, character string) (Outcome, error) {
	if _, err := o.Registry.SetCharacter(caller.ID, character); err != nil {
		return Outcome{}, fmt.Errorf("set character: %w", err)
	}
	return Outcome{Reply: "Character set"}, nil
}

func (o *Orchestrator) Play(caller core.Caller) (Outcome, error) {
	res, err := o.Registry.BeginPreparation(caller.ID)
	if err != nil {
		return Outcome{}, fmt.Errorf("begin preparation: %w", err)
	}
	return Outcome{
		Reply:   preparationText,
		Notices: broadcast(res.Members, caller.ID, preparationText),
	}, nil
}

// StartGame assigns characters and sends each player, host included, the
// characters of everyone else. Nobody is told their own.
func (o *Orchestrator) StartGame(caller core.Caller) (Outcome, error) {
	res, err := o.Registry.FinalizeAssignment(caller.ID)
	if err != nil {
		return Outcome{}, fmt.Errorf("finalize assignment: %w", err)
	}
	notices := make([]core.Notice, 0, len(res.Members))
	for _, m := range res.Members {
		notices = append(notices, core.Notice{To: m.ID, Text: assignmentText(m, res.Members)})
	}
	return Outcome{
		Reply:   "The game has started! Characters have been assigned",
		Notices: notices,
	}, nil
}
