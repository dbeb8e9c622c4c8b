package model

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestGreedyTimetabler(t *testing.T) {
	timetabler := NewGreedyTimetabler(WithLogger(zaptest.NewLogger(t)))

	t.Run("Single subject with a dedicated faculty", func(t *testing.T) {
		//** Arrange
		input := mustInput(t, RawModelInput{
			Sections: 1,
			Subjects: []RawSubject{{Id: "CNS", HoursPerWeek: 5, Sections: []int{1}}},
			Faculty:  []RawFaculty{{Id: "F1", Subjects: []string{"CNS"}, AllottedSections: []int{1}}},
		})

		//** Act
		timetable, err := timetabler.Build(input, NewRand(1))

		//** Assert
		require.NoError(t, err)
		entries := timetable[1]
		require.Len(t, entries, 5)
		assert.True(t, lo.EveryBy(entries, func(entry ScheduleEntry) bool { return entry.FacultyId == "F1" && entry.SubjectId == "CNS" }))
		days := lo.CountValuesBy(entries, func(entry ScheduleEntry) int { return entry.Day })
		assert.LessOrEqual(t, len(days), 5)
		for _, count := range days {
			assert.LessOrEqual(t, count, MaxDailyOccurrences)
		}
		assert.True(t, timetabler.Verify(timetable, input))
	})

	t.Run("Every section is present", func(t *testing.T) {
		//** Arrange
		input := mustInput(t, RawModelInput{
			Sections: 3,
			Subjects: []RawSubject{{Id: "CNS", HoursPerWeek: 2, Sections: []int{2}}},
		})

		//** Act
		timetable, err := timetabler.Build(input, NewRand(1))

		//** Assert
		require.NoError(t, err)
		assert.Len(t, timetable, 3)
		assert.NotNil(t, timetable[1])
		assert.Empty(t, timetable[1])
		assert.Len(t, timetable[2], 2)
	})

	t.Run("Earlier sections claim a contended named faculty", func(t *testing.T) {
		//** Arrange
		// Five sections need 60 hours of a single faculty who only has 48
		input := mustInput(t, RawModelInput{
			Sections: 5,
			Subjects: []RawSubject{{Id: "SE", HoursPerWeek: 12}},
			Faculty:  []RawFaculty{{Id: "F1", Subjects: []string{"SE"}}},
		})
		const seed = 9
		order := shuffle(NewRand(seed), lo.RangeFrom(1, input.Sections))

		//** Act
		timetable, err := timetabler.Build(input, NewRand(seed))

		//** Assert
		require.NoError(t, err)
		assert.Len(t, timetable[order[0]], 12)
		total := lo.SumBy(lo.Values(timetable), func(entries []ScheduleEntry) int { return len(entries) })
		assert.LessOrEqual(t, total, Days*Periods)
		assert.True(t, timetabler.Verify(timetable, input))
	})

	t.Run("Same seed same timetable", func(t *testing.T) {
		//** Arrange
		input := curriculumInput(t)

		//** Act
		first, err := timetabler.Build(input, NewRand(77))
		require.NoError(t, err)
		second, err := timetabler.Build(input, NewRand(77))
		require.NoError(t, err)

		//** Assert
		assert.Empty(t, cmp.Diff(first, second))
		firstJson, _ := json.Marshal(first)
		secondJson, _ := json.Marshal(second)
		assert.Equal(t, string(firstJson), string(secondJson))
	})

	t.Run("Holds every rule across seeds", func(t *testing.T) {
		input := curriculumInput(t)

		for seed := range uint64(25) {
			//** Act
			timetable, err := timetabler.Build(input, NewRand(seed))

			//** Assert
			require.NoError(t, err)
			assert.NoError(t, verify(timetable, input, DefaultBlockStarts), "seed %v", seed)
		}
	})

	t.Run("Custom block starts", func(t *testing.T) {
		//** Arrange
		input := mustInput(t, RawModelInput{
			Sections: 1,
			Subjects: []RawSubject{{Id: "SE-L", HoursPerWeek: 4, IsLabOrTutorial: true}},
		})
		custom := NewGreedyTimetabler(WithBlockStarts([]int{2}))

		//** Act
		timetable, err := custom.Build(input, NewRand(4))

		//** Assert
		require.NoError(t, err)
		require.Len(t, timetable[1], 4)
		assert.True(t, lo.EveryBy(timetable[1], func(entry ScheduleEntry) bool { return entry.Period == 2 || entry.Period == 3 }))
		assert.True(t, custom.Verify(timetable, input))
		assert.False(t, timetabler.Verify(timetable, input), "period 2 is not a default block start")
	})

	t.Run("Rejects bad configuration", func(t *testing.T) {
		input := mustInput(t, RawModelInput{Sections: 1})

		_, err := NewGreedyTimetabler(WithBlockStarts([]int{8})).Build(input, NewRand(1))
		assert.Error(t, err)

		_, err = timetabler.Build(input, nil)
		assert.Error(t, err)

		_, err = timetabler.Build(ModelInput{}, NewRand(1))
		assert.Error(t, err)
	})
}

func TestSolve(t *testing.T) {
	input := curriculumInput(t)

	first, err := Solve(input, 3)
	require.NoError(t, err)
	second, err := NewGreedyTimetabler().Build(input, NewRand(3))
	require.NoError(t, err)

	assert.Empty(t, cmp.Diff(first, second))
}

func TestVerify(t *testing.T) {
	input := mustInput(t, RawModelInput{
		Sections: 2,
		Subjects: []RawSubject{
			{Id: "CNS", HoursPerWeek: 3},
			{Id: "CNS-L", HoursPerWeek: 2, IsLabOrTutorial: true},
			{Id: "TRAINING", HoursPerWeek: 6, Kind: "intensive"},
			{Id: "ML", HoursPerWeek: 2, Sections: []int{1}},
		},
		Faculty: []RawFaculty{
			{Id: "F1", Subjects: []string{"CNS"}},
			{Id: "F62", Subjects: []string{"ML"}, Kind: "department"},
		},
	})
	entry := func(subject, faculty string, section, day, period int) ScheduleEntry {
		return ScheduleEntry{SubjectId: subject, FacultyId: faculty, Section: section, Day: day, Period: period}
	}
	intensive := func(section, day int) []ScheduleEntry {
		return lo.Map([]int{1, 2, 3, 4, 5, 6}, func(period int, _ int) ScheduleEntry {
			return entry("TRAINING", IntensivePoolId, section, day, period)
		})
	}

	cases := []struct {
		name      string
		timetable Timetable
		valid     bool
	}{
		{"Empty sections", Timetable{1: {}, 2: {}}, true},
		{"Missing section", Timetable{1: {}}, false},
		{"Pooled identities do not collide", Timetable{1: append(intensive(1, 0), entry("ML", "F62", 1, 1, 1)), 2: intensive(2, 0)}, true},
		{"Section double-booked", Timetable{1: {entry("CNS", "F1", 1, 0, 1), entry("ML", "F62", 1, 0, 1)}, 2: {}}, false},
		{"Named faculty double-booked", Timetable{1: {entry("CNS", "F1", 1, 0, 1)}, 2: {entry("CNS", "F1", 2, 0, 1)}}, false},
		{"Daily cap", Timetable{1: {entry("CNS", "F1", 1, 0, 1), entry("CNS", "F1", 1, 0, 2), entry("CNS", "F1", 1, 0, 3)}, 2: {}}, false},
		{"Too many hours", Timetable{1: {entry("ML", "F62", 1, 0, 1), entry("ML", "F62", 1, 1, 1), entry("ML", "F62", 1, 2, 1)}, 2: {}}, false},
		{"Not eligible", Timetable{1: {}, 2: {entry("ML", "F62", 2, 0, 1)}}, false},
		{"Unknown subject", Timetable{1: {entry("XYZ", "F1", 1, 0, 1)}, 2: {}}, false},
		{"Outside the grid", Timetable{1: {entry("CNS", "F1", 1, 0, 9)}, 2: {}}, false},
		{"Lab block", Timetable{1: {entry("CNS-L", "F1", 1, 0, 3), entry("CNS-L", "F1", 1, 0, 4)}, 2: {}}, true},
		{"Lab block over lunch", Timetable{1: {entry("CNS-L", "F1", 1, 0, 5), entry("CNS-L", "F1", 1, 0, 6)}, 2: {}}, false},
		{"Half a lab block", Timetable{1: {entry("CNS-L", "F1", 1, 0, 1)}, 2: {}}, false},
		{"Intensive split over days", Timetable{1: append(intensive(1, 0)[:3], intensive(1, 1)[3:]...), 2: {}}, false},
		{"Misfiled entry", Timetable{1: {entry("CNS", "F1", 2, 0, 1)}, 2: {}}, false},
	}

	timetabler := NewGreedyTimetabler()
	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.valid, timetabler.Verify(testCase.timetable, input))
		})
	}
}
