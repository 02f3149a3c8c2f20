package game

// Policy decides plays for a non-interactive side. The engine consults it
// only in the Playing phase, after the think delay.
type Policy interface {
	ChoosePlay(state Snapshot, legal []Play, rng Rand) (Play, bool)
}

// PolicyFunc adapts a function to Policy.
type PolicyFunc func(state Snapshot, legal []Play, rng Rand) (Play, bool)

func (f PolicyFunc) ChoosePlay(state Snapshot, legal []Play, rng Rand) (Play, bool) {
	return f(state, legal, rng)
}

// RandomPolicy picks a hand card uniformly at random and places it in the
// leftmost free waiting slot.
type RandomPolicy struct{}

func (RandomPolicy) ChoosePlay(state Snapshot, legal []Play, rng Rand) (Play, bool) {
	if len(legal) == 0 {
		return Play{}, false
	}
	// Collect distinct hand indices; legal is ordered by hand then slot, so
	// the first entry per hand index carries the leftmost slot.
	var firsts []Play
	seen := -1
	for _, p := range legal {
		if p.HandIndex != seen {
			firsts = append(firsts, p)
			seen = p.HandIndex
		}
	}
	return firsts[rng.IntN(len(firsts))], true
}
