package core

import "github.com/dkeye/GuessWho/internal/domain"

// Derange returns assigned where assigned[i] = proposals[(i+s) mod n] for a
// shift s drawn uniformly from [1, n-1]. No position ever gets its own entry.
//
// Only n-1 of the !n derangements of n items are reachable this way, so the
// result is not a uniform sample over all derangements.
func Derange(proposals []string, rng Rand) ([]string, error) {
	n := len(proposals)
	if n < 2 {
		return nil, domain.ErrTooFewPlayers
	}
	shift := 1 + rng.IntN(n-1)
	assigned := make([]string, n)
	for i := range proposals {
		assigned[i] = proposals[(i+shift)%n]
	}
	return assigned, nil
}
