package orch

import (
	"fmt"
	"strings"

	"github.com/dkeye/GuessWho/internal/core"
	"github.com/dkeye/GuessWho/internal/domain"
)

const greetingText = "Hi! Fancy a round of Guess Who?\n" +
	"You are in the right place.\n\n" +
	"Explore the commands with /help. Have fun!"

func displayName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "A player"
	}
	return name
}

func names(members []core.MemberDTO) string {
	out := make([]string, 0, len(members))
	for _, m := range members {
		out = append(out, displayName(m.Username))
	}
	return strings.Join(out, ", ")
}

func missingProposalsText(missing []string) string {
	shown := make([]string, 0, len(missing))
	for _, n := range missing {
		shown = append(shown, displayName(n))
	}
	return "Every player has to choose a character before the game can start. Missing: " + strings.Join(shown, ", ")
}

// assignmentText lists what everybody except self has to make the others guess.
func assignmentText(self core.MemberDTO, members []core.MemberDTO) string {
	var b strings.Builder
	b.WriteString("Characters assigned:\n")
	for _, m := range members {
		if m.ID == self.ID {
			continue
		}
		fmt.Fprintf(&b, "\n%s -> %s", displayName(m.Username), m.AssignedCharacter)
	}
	return b.String()
}

func roomsText(rooms []core.RoomInfo) string {
	if len(rooms) == 0 {
		return "There are no active rooms right now"
	}
	blocks := make([]string, 0, len(rooms))
	for _, r := range rooms {
		blocks = append(blocks, fmt.Sprintf("Room: %s\nHost: %s\nPlayers: %s\nStatus: %s",
			r.Code, displayName(r.HostName), names(r.Members), r.Status))
	}
	return strings.Join(blocks, "\n\n")
}

// broadcast addresses text to every member but skip.
func broadcast(members []core.MemberDTO, skip domain.PlayerID, text string) []core.Notice {
	out := make([]core.Notice, 0, len(members))
	for _, m := range members {
		if m.ID == skip {
			continue
		}
		out = append(out, core.Notice{To: m.ID, Text: text})
	}
	return out
}
