package core

import (
	"fmt"
	"math/rand/v2"

	"github.com/dkeye/GuessWho/internal/domain"
)

const (
	DefaultCodeWidth = 4
	maxCodeWidth     = 9
)

// CodeSpace enumerates every room code that may be handed out.
type CodeSpace interface {
	Size() int
	Code(i int) domain.RoomCode
}

// NumericCodes produces fixed-width zero-padded decimal codes, "0000".."9999"
// for the default width. Numbers are easy to type in a chat client.
type NumericCodes struct {
	width int
	size  int
}

func NewNumericCodes(width int) NumericCodes {
	if width < 1 || width > maxCodeWidth {
		width = DefaultCodeWidth
	}
	size := 1
	for range width {
		size *= 10
	}
	return NumericCodes{width: width, size: size}
}

func (c NumericCodes) Size() int { return c.size }

func (c NumericCodes) Code(i int) domain.RoomCode {
	return domain.RoomCode(fmt.Sprintf("%0*d", c.width, i%c.size))
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// DefaultRand draws from the math/rand/v2 global source, safe for concurrent use.
var DefaultRand Rand = globalRand{}
