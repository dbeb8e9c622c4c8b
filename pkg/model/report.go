package model

import (
	"cmp"
	"slices"

	"github.com/samber/lo"
)

type Stats struct {
	TotalSlots     int `json:"totalSlots"`
	FilledSlots    int `json:"filledSlots"`
	SectionsFilled int `json:"sectionsFilled"`
	Sections       int `json:"sections"`
	// Named faculty teaching two entries at the same day and period; pooled identities never collide
	Collisions int `json:"collisions"`
}

// Summarize computes the global fill statistics of a timetable
func Summarize(timetable Timetable, modelInput ModelInput) Stats {
	kinds := modelInput.IdentityKinds()
	slotsPerSection := Days * Periods

	stats := Stats{
		Sections:   len(timetable),
		TotalSlots: len(timetable) * slotsPerSection,
	}

	seen := make(map[occupancyKey]bool)
	for _, entries := range timetable {
		stats.FilledSlots += len(entries)
		if len(entries) == slotsPerSection {
			stats.SectionsFilled++
		}
		for _, entry := range entries {
			if kinds[entry.FacultyId].Pooled() {
				continue
			}
			key := occupancyKey{entry.FacultyId, entry.Day, entry.Period}
			if seen[key] {
				stats.Collisions++
			}
			seen[key] = true
		}
	}
	return stats
}

type Shortfall struct {
	Section   int    `json:"section"`
	SubjectId string `json:"subjectId"`
	Required  int    `json:"required"`
	Placed    int    `json:"placed"`
}

func (shortfall Shortfall) Missing() int {
	return shortfall.Required - shortfall.Placed
}

// Shortfalls lists every (section, subject) pair that received fewer hours than it requires, ordered by section and
// then by the subjects' input order
func Shortfalls(timetable Timetable, modelInput ModelInput) []Shortfall {
	shortfalls := make([]Shortfall, 0)
	for _, section := range lo.RangeFrom(1, modelInput.Sections) {
		placed := lo.CountValuesBy(timetable[section], func(entry ScheduleEntry) string { return entry.SubjectId })
		for _, subject := range modelInput.Subjects {
			if !subject.Eligible(section) || placed[subject.Id] >= subject.HoursPerWeek {
				continue
			}
			shortfalls = append(shortfalls, Shortfall{
				Section:   section,
				SubjectId: subject.Id,
				Required:  subject.HoursPerWeek,
				Placed:    placed[subject.Id],
			})
		}
	}
	return shortfalls
}

type Assignment struct {
	SubjectId string `json:"subjectId"`
	FacultyId string `json:"facultyId"`
}

// Legend returns the distinct subject-faculty pairs used by the entries, sorted by subject and then faculty
func Legend(entries []ScheduleEntry) []Assignment {
	assignments := lo.Uniq(lo.Map(entries, func(entry ScheduleEntry, _ int) Assignment {
		return Assignment{SubjectId: entry.SubjectId, FacultyId: entry.FacultyId}
	}))
	slices.SortFunc(assignments, func(a, b Assignment) int {
		return cmp.Or(cmp.Compare(a.SubjectId, b.SubjectId), cmp.Compare(a.FacultyId, b.FacultyId))
	})
	return assignments
}
