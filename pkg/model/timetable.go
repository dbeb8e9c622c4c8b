package model

import (
	"fmt"
	"slices"
)

const (
	Days                = 6 // Monday..Saturday, numbered 0..5
	Periods             = 8 // Teaching periods numbered 1..8, period 0 is never used
	DefaultSections     = 19
	LabBlockSize        = 2
	IntensiveBlockSize  = 6
	MaxDailyOccurrences = 2
)

var DayNames = map[int]string{
	0: "Monday",
	1: "Tuesday",
	2: "Wednesday",
	3: "Thursday",
	4: "Friday",
	5: "Saturday",
}

type Slot struct {
	Day    int `json:"day"`
	Period int `json:"period"`
}

func (slot Slot) Valid() bool {
	return slot.Day >= 0 && slot.Day < Days && slot.Period >= 1 && slot.Period <= Periods
}

// ScheduleEntry is one section occupying one slot with one subject-faculty pair. FacultyId is the displayed
// identity, never the section-scoped one used for exclusivity
type ScheduleEntry struct {
	SubjectId string `json:"subjectId"`
	FacultyId string `json:"facultyId"`
	Section   int    `json:"section"`
	Day       int    `json:"day"`
	Period    int    `json:"period"`
}

func (entry ScheduleEntry) Slot() Slot {
	return Slot{Day: entry.Day, Period: entry.Period}
}

type Timetable map[int][]ScheduleEntry

// Sorted returns a copy of the section's entries ordered by day and then period
func (timetable Timetable) Sorted(section int) []ScheduleEntry {
	entries := slices.Clone(timetable[section])
	slices.SortFunc(entries, func(a, b ScheduleEntry) int {
		if a.Day != b.Day {
			return a.Day - b.Day
		}
		return a.Period - b.Period
	})
	return entries
}

type PeriodInfo struct {
	No    int    `json:"no"`
	Start string `json:"start"`
	End   string `json:"end"`
}

func (period PeriodInfo) String() string {
	return fmt.Sprintf("P%d %s-%s", period.No, period.Start, period.End)
}

// DefaultBellSchedule has a short break between periods 2 and 3 and lunch between periods 5 and 6
var DefaultBellSchedule = []PeriodInfo{
	{No: 1, Start: "08:15", End: "09:05"},
	{No: 2, Start: "09:05", End: "09:55"},
	{No: 3, Start: "10:10", End: "11:00"},
	{No: 4, Start: "11:00", End: "11:50"},
	{No: 5, Start: "11:50", End: "12:40"},
	{No: 6, Start: "13:40", End: "14:30"},
	{No: 7, Start: "14:30", End: "15:20"},
	{No: 8, Start: "15:20", End: "16:05"},
}

var DefaultBlockStarts = BlockStarts(DefaultBellSchedule)

// BlockStarts returns the periods that can open a two-period block without the block straddling a break
func BlockStarts(schedule []PeriodInfo) []int {
	starts := make([]int, 0, len(schedule))
	for i := range len(schedule) - 1 {
		current, next := schedule[i], schedule[i+1]
		if next.No == current.No+1 && next.Start == current.End {
			starts = append(starts, current.No)
		}
	}
	return starts
}
