package model

import "math/rand/v2"

type Timetabler interface {
	// Build places every subject of every section and returns a new timetable. Hours that cannot be placed are
	// silently left out; the only error is malformed input
	Build(
		modelInput ModelInput,
		rng *rand.Rand,
	) (Timetable, error)

	Verify(
		timetable Timetable,
		modelInput ModelInput,
	) bool
}

// NewRand returns the generator all random orderings of a solve are drawn from. The same seed yields the same timetable
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

// Solve builds a timetable with the default greedy timetabler
func Solve(modelInput ModelInput, seed uint64) (Timetable, error) {
	return NewGreedyTimetabler().Build(modelInput, NewRand(seed))
}
