package model

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func mustInput(t *testing.T, raw RawModelInput) ModelInput {
	t.Helper()
	input, err := ProcessRawInput(raw)
	require.NoError(t, err)
	return input
}

func newTestContext(input ModelInput, seed uint64) *placementContext {
	return &placementContext{
		state:       newConstraintState(input.Sections),
		resolver:    newFacultyResolver(input.Faculty),
		rng:         NewRand(seed),
		blockStarts: DefaultBlockStarts,
		logger:      zap.NewNop(),
		timetable:   make(Timetable),
	}
}

// occupy marks every listed period of the given days busy for the identity, using a section no test subject uses
func occupy(state *constraintState, identity string, section int, days []int, periods []int) {
	filler := Subject{Id: "FILLER", Kind: IntensiveSubject}
	for _, day := range days {
		for _, period := range periods {
			state.markBusy(identity, section, day, period, filler)
		}
	}
}

// curriculumInput is a small but contended curriculum exercising every phase and every fallback pool
func curriculumInput(t *testing.T) ModelInput {
	t.Helper()
	return mustInput(t, RawModelInput{
		Sections: 4,
		Subjects: []RawSubject{
			{Id: "CNS", HoursPerWeek: 5},
			{Id: "SE", HoursPerWeek: 5},
			{Id: "ML", HoursPerWeek: 5, Sections: []int{1, 2}},
			{Id: "ADS", HoursPerWeek: 5, Sections: []int{3, 4}},
			{Id: "IDP", HoursPerWeek: 3},
			{Id: "QLR", HoursPerWeek: 3, Family: "softSkill"},
			{Id: "OE", HoursPerWeek: 3, Family: "openElective"},
			{Id: "CNS-L", HoursPerWeek: 2, IsLabOrTutorial: true},
			{Id: "SE-L", HoursPerWeek: 4, IsLabOrTutorial: true},
			{Id: "PDC-T", HoursPerWeek: 2, IsLabOrTutorial: true, Family: "tutorial"},
			{Id: "TRAINING", HoursPerWeek: 6, Kind: "intensive"},
		},
		Faculty: []RawFaculty{
			{Id: "F1", Subjects: []string{"CNS"}, AllottedSections: []int{1, 2, 3}},
			{Id: "F2", Subjects: []string{"SE"}, AllottedSections: []int{1, 2, 3, 4}},
			{Id: "F3", Subjects: []string{"ML", "ADS"}, AllottedSections: []int{1, 2, 3, 4}},
			{Id: "F4", Subjects: []string{"IDP"}, AllottedSections: lo.RangeFrom(1, 4)},
			{Id: "OE_DEPT", Subjects: []string{"OE"}, Kind: "openElective"},
		},
	})
}
