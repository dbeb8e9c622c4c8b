package model

import (
	"slices"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceLabs(t *testing.T) {
	t.Run("Lands on the only free day", func(t *testing.T) {
		//** Arrange
		input := mustInput(t, RawModelInput{
			Sections: 2,
			Subjects: []RawSubject{{Id: "CNS-L", HoursPerWeek: 2, Sections: []int{1}, IsLabOrTutorial: true}},
			Faculty:  []RawFaculty{{Id: "F1", Subjects: []string{"CNS-L"}, AllottedSections: []int{1}}},
		})
		for seed := range uint64(20) {
			ctx := newTestContext(input, seed)
			occupy(ctx.state, "F1", 2, []int{0, 1, 2, 3, 4}, lo.RangeFrom(1, Periods))

			//** Act
			ctx.placeLabs(1, input.Subjects)

			//** Assert
			entries := ctx.timetable[1]
			require.Len(t, entries, 2)
			slices.SortFunc(entries, func(a, b ScheduleEntry) int { return a.Period - b.Period })
			assert.Equal(t, 5, entries[0].Day)
			assert.Equal(t, 5, entries[1].Day)
			assert.Equal(t, entries[0].Period+1, entries[1].Period)
			assert.Contains(t, DefaultBlockStarts, entries[0].Period)
			assert.Equal(t, "F1", entries[0].FacultyId)
		}
	})

	t.Run("One block per day", func(t *testing.T) {
		//** Arrange
		input := mustInput(t, RawModelInput{
			Sections: 1,
			Subjects: []RawSubject{{Id: "SE-L", HoursPerWeek: 6, IsLabOrTutorial: true}},
		})
		ctx := newTestContext(input, 3)

		//** Act
		ctx.placeLabs(1, input.Subjects)

		//** Assert
		entries := ctx.timetable[1]
		require.Len(t, entries, 6)
		days := lo.CountValuesBy(entries, func(entry ScheduleEntry) int { return entry.Day })
		assert.Len(t, days, 3)
		assert.NoError(t, verify(ctx.timetable, input, DefaultBlockStarts))
	})

	t.Run("Never writes half a block", func(t *testing.T) {
		//** Arrange
		input := mustInput(t, RawModelInput{
			Sections: 1,
			Subjects: []RawSubject{{Id: "SE-L", HoursPerWeek: 2, IsLabOrTutorial: true}},
		})
		ctx := newTestContext(input, 1)
		// Every permitted start has its second period taken
		occupy(ctx.state, "OTHER", 1, lo.Range(Days), []int{2, 4, 5, 7, 8})

		//** Act
		ctx.placeLabs(1, input.Subjects)

		//** Assert
		assert.Empty(t, ctx.timetable[1])
	})
}

func TestPlaceIntensive(t *testing.T) {
	input := mustInput(t, RawModelInput{
		Sections: 1,
		Subjects: []RawSubject{{Id: "TRAINING", HoursPerWeek: 6, Kind: "intensive"}},
	})
	subject := input.Subjects[0]

	t.Run("Takes the first six free periods of one day", func(t *testing.T) {
		//** Arrange
		ctx := newTestContext(input, 5)
		occupy(ctx.state, "OTHER", 1, lo.Range(Days), []int{2})

		//** Act
		ctx.placeIntensive(1, subject)

		//** Assert
		entries := ctx.timetable[1]
		require.Len(t, entries, IntensiveBlockSize)
		assert.Len(t, lo.Uniq(lo.Map(entries, func(entry ScheduleEntry, _ int) int { return entry.Day })), 1)
		assert.Equal(t, []int{1, 3, 4, 5, 6, 7}, lo.Map(entries, func(entry ScheduleEntry, _ int) int { return entry.Period }))
		assert.Equal(t, IntensivePoolId, entries[0].FacultyId)
	})

	t.Run("Left out when no day has six free periods", func(t *testing.T) {
		//** Arrange
		ctx := newTestContext(input, 5)
		occupy(ctx.state, "OTHER", 1, lo.Range(Days), []int{1, 4, 8})

		//** Act
		ctx.placeIntensive(1, subject)

		//** Assert
		assert.Empty(t, ctx.timetable[1])
	})

	t.Run("Always taught by the intensive pool", func(t *testing.T) {
		//** Arrange
		input := mustInput(t, RawModelInput{
			Sections: 2,
			Subjects: []RawSubject{{Id: "TRAINING", HoursPerWeek: 6, Kind: "intensive"}},
			Faculty:  []RawFaculty{{Id: "F9", Subjects: []string{"T"}}},
		})
		ctx := newTestContext(input, 1)
		// Both sections can only use Monday, so they share the same six periods
		occupy(ctx.state, "OTHER", 1, []int{1, 2, 3, 4, 5}, lo.RangeFrom(1, Periods))
		occupy(ctx.state, "OTHER", 2, []int{1, 2, 3, 4, 5}, lo.RangeFrom(1, Periods))

		//** Act
		ctx.placeIntensive(1, input.Subjects[0])
		ctx.placeIntensive(2, input.Subjects[0])

		//** Assert
		for _, section := range []int{1, 2} {
			entries := ctx.timetable[section]
			require.Len(t, entries, IntensiveBlockSize, "section %v", section)
			for _, entry := range entries {
				assert.Equal(t, IntensivePoolId, entry.FacultyId)
				assert.Equal(t, 0, entry.Day)
			}
		}
		assert.NoError(t, verify(ctx.timetable, input, DefaultBlockStarts))
	})
}

func TestPlaceTheory(t *testing.T) {
	t.Run("Spread before backfill", func(t *testing.T) {
		//** Arrange
		input := mustInput(t, RawModelInput{
			Sections: 1,
			Subjects: []RawSubject{{Id: "CNS", HoursPerWeek: 5}},
			Faculty:  []RawFaculty{{Id: "F1", Subjects: []string{"CNS"}}},
		})
		ctx := newTestContext(input, 11)

		//** Act
		ctx.placeTheory(1, input.Subjects)

		//** Assert
		entries := ctx.timetable[1]
		require.Len(t, entries, 5)
		days := lo.CountValuesBy(entries, func(entry ScheduleEntry) int { return entry.Day })
		assert.Len(t, days, 5)
	})

	t.Run("Backfill respects the daily cap", func(t *testing.T) {
		//** Arrange
		input := mustInput(t, RawModelInput{
			Sections: 1,
			Subjects: []RawSubject{{Id: "CNS", HoursPerWeek: 20}},
		})
		ctx := newTestContext(input, 11)

		//** Act
		ctx.placeTheory(1, input.Subjects)

		//** Assert
		assert.Len(t, ctx.timetable[1], Days*MaxDailyOccurrences)
		for day, count := range lo.CountValuesBy(ctx.timetable[1], func(entry ScheduleEntry) int { return entry.Day }) {
			assert.Equal(t, MaxDailyOccurrences, count, "day %v", day)
		}
	})

	t.Run("Larger requirements go first", func(t *testing.T) {
		//** Arrange
		input := mustInput(t, RawModelInput{
			Sections: 1,
			Subjects: []RawSubject{
				{Id: "SMALL", HoursPerWeek: 12},
				{Id: "LARGE", HoursPerWeek: 12},
				{Id: "HUGE", HoursPerWeek: 40},
			},
		})
		ctx := newTestContext(input, 2)
		// Leave only twelve free slots in the section
		occupy(ctx.state, "OTHER", 1, lo.Range(Days), []int{1, 2, 3, 4, 5, 6})

		//** Act
		ctx.placeTheory(1, input.Subjects)

		//** Assert
		placed := lo.CountValuesBy(ctx.timetable[1], func(entry ScheduleEntry) string { return entry.SubjectId })
		assert.Equal(t, map[string]int{"HUGE": 12}, placed)
	})
}

func TestPooledAndNamedExclusivity(t *testing.T) {
	input := mustInput(t, RawModelInput{
		Sections: 2,
		Subjects: []RawSubject{
			{Id: "OE", HoursPerWeek: 3, Family: "openElective"},
			{Id: "SE", HoursPerWeek: 5},
		},
		Faculty: []RawFaculty{
			{Id: "F62", Subjects: []string{"OE"}, Kind: "openElective"},
			{Id: "F1", Subjects: []string{"SE"}},
		},
	})
	open, theory := input.Subjects[0], input.Subjects[1]

	t.Run("Pooled resource serves two sections at the same hour", func(t *testing.T) {
		//** Arrange
		ctx := newTestContext(input, 0)
		identity := ctx.resolver.Resolve(open, 1)

		//** Act
		ctx.place(identity, 1, 0, 1, open)

		//** Assert
		other := ctx.resolver.Resolve(open, 2)
		assert.True(t, ctx.state.canPlace(disambiguate(other, 2), 2, 0, 1, open))
		assert.Equal(t, "F62", ctx.timetable[1][0].FacultyId)
	})

	t.Run("Named faculty is claimed by the first section", func(t *testing.T) {
		//** Arrange
		ctx := newTestContext(input, 0)
		identity := ctx.resolver.Resolve(theory, 1)

		//** Act
		ctx.place(identity, 1, 0, 1, theory)

		//** Assert
		other := ctx.resolver.Resolve(theory, 2)
		assert.False(t, ctx.state.canPlace(disambiguate(other, 2), 2, 0, 1, theory))
	})
}
