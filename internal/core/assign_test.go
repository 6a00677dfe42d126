package core

import (
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/dkeye/GuessWho/internal/domain"
)

// fixedRand always draws v, reduced into range.
type fixedRand int

func (f fixedRand) IntN(n int) int { return int(f) % n }

func proposals(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("character-%d", i)
	}
	return out
}

func TestDerangeEveryShift(t *testing.T) {
	for n := 2; n <= 9; n++ {
		in := proposals(n)
		for draw := 0; draw < n-1; draw++ {
			got, err := Derange(in, fixedRand(draw))
			if err != nil {
				t.Fatalf("n=%d draw=%d: unexpected error: %v", n, draw, err)
			}
			for i := range in {
				if got[i] == in[i] {
					t.Errorf("n=%d draw=%d: position %d got its own character", n, draw, i)
				}
			}
			sortedIn, sortedOut := slices.Clone(in), slices.Clone(got)
			slices.Sort(sortedIn)
			slices.Sort(sortedOut)
			if !slices.Equal(sortedIn, sortedOut) {
				t.Errorf("n=%d draw=%d: not a bijection: %v", n, draw, got)
			}
		}
	}
}

func TestDerangeTwoPlayersSwap(t *testing.T) {
	got, err := Derange([]string{"Alice", "Bob"}, DefaultRand)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(got, []string{"Bob", "Alice"}) {
		t.Errorf("wrong assignment expected: %v got: %v", []string{"Bob", "Alice"}, got)
	}
}

func TestDerangeTooFewPlayers(t *testing.T) {
	for _, in := range [][]string{nil, {"solo"}} {
		if _, err := Derange(in, DefaultRand); !errors.Is(err, domain.ErrTooFewPlayers) {
			t.Errorf("wrong error expected: %v got: %v", domain.ErrTooFewPlayers, err)
		}
	}
}
