// Package command turns chat text into validated commands before they reach
// the session operations, so the core never sees an empty argument.
package command

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

type Kind int

const (
	KindStart Kind = iota
	KindHelp
	KindCreate
	KindJoin
	KindLeave
	KindCharacter
	KindPlay
	KindStartGame
	KindEnd
	KindInfo
)

// Command is the tagged variant produced by Parse. Arg is only set, and then
// always non-empty, for KindJoin and KindCharacter.
type Command struct {
	Kind Kind
	Arg  string
}

var (
	ErrEmpty           = errors.New("empty command")
	ErrUnknownCommand  = errors.New("unknown command")
	ErrMissingArgument = errors.New("missing argument")
)

type MissingArgumentError struct {
	Usage string
}

func (e *MissingArgumentError) Error() string {
	return fmt.Sprintf("missing argument, usage: %s", e.Usage)
}

func (e *MissingArgumentError) Is(target error) bool { return target == ErrMissingArgument }

type entry struct {
	name        string
	kind        Kind
	arg         string
	description string
}

var table = []entry{
	{"start", KindStart, "", "Start the bot"},
	{"help", KindHelp, "", "Show this help text"},
	{"create", KindCreate, "", "Create a room"},
	{"join", KindJoin, "code", "Join a room"},
	{"leave", KindLeave, "", "Leave your room"},
	{"character", KindCharacter, "name", "Choose your character"},
	{"play", KindPlay, "", "Prepare the game (host only)"},
	{"startgame", KindStartGame, "", "Assign characters at random (host only)"},
	{"end", KindEnd, "", "Close the room (host only)"},
	{"info", KindInfo, "", "Show the state of the rooms"},
}

func (k Kind) String() string {
	for _, e := range table {
		if e.kind == k {
			return e.name
		}
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

func (e entry) usage() string {
	if e.arg == "" {
		return "/" + e.name
	}
	return fmt.Sprintf("/%s <%s>", e.name, e.arg)
}

// Parse accepts "/join 0042", "join 0042" and "/join@SomeBot 0042".
// Keywords are case-insensitive; the argument keeps its case.
func Parse(text string) (Command, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "/")
	if text == "" {
		return Command{}, ErrEmpty
	}
	word, rest := text, ""
	if i := strings.IndexFunc(text, unicode.IsSpace); i >= 0 {
		word, rest = text[:i], text[i:]
	}
	word, _, _ = strings.Cut(word, "@")
	word = strings.ToLower(word)
	rest = strings.TrimSpace(rest)

	for _, e := range table {
		if e.name != word {
			continue
		}
		if e.arg == "" {
			return Command{Kind: e.kind}, nil
		}
		if rest == "" {
			return Command{}, &MissingArgumentError{Usage: e.usage()}
		}
		return Command{Kind: e.kind, Arg: rest}, nil
	}
	return Command{}, fmt.Errorf("%w: %s", ErrUnknownCommand, word)
}

// Help lists every command with its usage, one per line.
func Help() string {
	var b strings.Builder
	b.WriteString("Available commands:\n")
	for _, e := range table {
		fmt.Fprintf(&b, "%s - %s\n", e.usage(), e.description)
	}
	return strings.TrimSuffix(b.String(), "\n")
}
