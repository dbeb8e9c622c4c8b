package model

type dailyKey struct {
	section int
	subject string
	day     int
}

// constraintState tracks slot occupancy for every section and every faculty identity during a single Build.
// Faculty grids are global across sections, which is what keeps a named faculty from being double-booked
type constraintState struct {
	indexer     indexer
	facultyBusy map[string][]bool
	sectionBusy map[int][]bool
	dailyCount  map[dailyKey]int
}

func newConstraintState(sections int) *constraintState {
	state := &constraintState{
		indexer:     newIndexer(Days, Periods),
		facultyBusy: make(map[string][]bool),
		sectionBusy: make(map[int][]bool, sections),
		dailyCount:  make(map[dailyKey]int),
	}
	for section := 1; section <= sections; section++ {
		state.sectionBusy[section] = make([]bool, state.indexer.Size())
	}
	return state
}

// canPlace checks whether the faculty identity can teach the subject to the section at the given day and period
func (state *constraintState) canPlace(identity string, section, day, period int, subject Subject) bool {
	if !(Slot{Day: day, Period: period}).Valid() {
		return false
	}
	index := state.indexer.Index(day, period)

	// Section already busy at this time (or unknown section)
	sectionGrid, ok := state.sectionBusy[section]
	if !ok || sectionGrid[index] {
		return false
	}

	// Global faculty exclusivity; an identity not seen yet is free
	if facultyGrid, ok := state.facultyBusy[identity]; ok && facultyGrid[index] {
		return false
	}

	// The intensive subject happens all in one day, so it is exempt from the daily cap
	if !subject.IsIntensive() && state.dailyCount[dailyKey{section, subject.Id, day}] >= MaxDailyOccurrences {
		return false
	}

	return true
}

// markBusy must be called exactly once per accepted placement
func (state *constraintState) markBusy(identity string, section, day, period int, subject Subject) {
	index := state.indexer.Index(day, period)

	if _, ok := state.facultyBusy[identity]; !ok {
		state.facultyBusy[identity] = make([]bool, state.indexer.Size())
	}
	state.facultyBusy[identity][index] = true
	state.sectionBusy[section][index] = true
	state.dailyCount[dailyKey{section, subject.Id, day}]++
}

// freeSlots lists every slot, in day and then period order, where the identity could teach the subject to the section
func (state *constraintState) freeSlots(identity string, section int, subject Subject) []Slot {
	slots := make([]Slot, 0, state.indexer.Size())
	for index := range state.indexer.Size() {
		day, period := state.indexer.Attributes(index)
		if state.canPlace(identity, section, day, period, subject) {
			slots = append(slots, Slot{Day: day, Period: period})
		}
	}
	return slots
}
