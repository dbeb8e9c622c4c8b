package model

import (
	"fmt"
	"slices"

	"github.com/samber/lo"
	"go.uber.org/multierr"
)

type occupancyKey struct {
	owner  string
	day    int
	period int
}

type subjectKey struct {
	section int
	subject string
}

// verify re-checks every hard rule over a finished timetable and reports each violation found
func verify(timetable Timetable, modelInput ModelInput, blockStarts []int) error {
	evaluator := newPredicateEvaluator(modelInput, blockStarts)

	var errs error
	sectionAssistance := make(map[occupancyKey]bool)
	facultyAssistance := make(map[occupancyKey]ScheduleEntry)
	dailyCount := make(map[dailyKey]int)
	placedHours := make(map[subjectKey]int)
	perDay := make(map[dailyKey][]int)

	for _, section := range lo.RangeFrom(1, modelInput.Sections) {
		if _, ok := timetable[section]; !ok {
			errs = multierr.Append(errs, fmt.Errorf("section %v is missing from the timetable", section))
		}
	}

	for section, entries := range timetable {
		if section < 1 || section > modelInput.Sections {
			errs = multierr.Append(errs, fmt.Errorf("section %v is out of range", section))
			continue
		}

		for _, entry := range entries {
			// Check that:
			// - The entry belongs to the section it is listed under and lies inside the grid
			// - The subject exists and is taught to the section
			// - Neither the section nor the faculty identity is already busy at that time
			if entry.Section != section {
				errs = multierr.Append(errs, fmt.Errorf("entry %+v is listed under section %v", entry, section))
				continue
			}
			if !entry.Slot().Valid() {
				errs = multierr.Append(errs, fmt.Errorf("entry %+v lies outside the grid", entry))
				continue
			}
			if !evaluator.Known(entry.SubjectId) {
				errs = multierr.Append(errs, fmt.Errorf("entry %+v has an unknown subject", entry))
				continue
			}
			if !evaluator.Eligible(entry.SubjectId, section) {
				errs = multierr.Append(errs, fmt.Errorf("subject %q is not taught to section %v", entry.SubjectId, section))
			}

			sectionSlot := occupancyKey{fmt.Sprint(section), entry.Day, entry.Period}
			if sectionAssistance[sectionSlot] {
				errs = multierr.Append(errs, fmt.Errorf("section %v is double-booked on day %v period %v", section, entry.Day, entry.Period))
			}
			sectionAssistance[sectionSlot] = true

			facultySlot := occupancyKey{evaluator.Identity(entry), entry.Day, entry.Period}
			if other, ok := facultyAssistance[facultySlot]; ok {
				errs = multierr.Append(errs, fmt.Errorf("faculty %q is double-booked on day %v period %v (sections %v and %v)", entry.FacultyId, entry.Day, entry.Period, other.Section, section))
			}
			facultyAssistance[facultySlot] = entry

			key := dailyKey{section, entry.SubjectId, entry.Day}
			dailyCount[key]++
			placedHours[subjectKey{section, entry.SubjectId}]++
			perDay[key] = append(perDay[key], entry.Period)
		}
	}

	for key, count := range dailyCount {
		if !evaluator.Intensive(key.subject) && count > MaxDailyOccurrences {
			errs = multierr.Append(errs, fmt.Errorf("subject %q is taught %v times to section %v on day %v", key.subject, count, key.section, key.day))
		}
	}

	for key, hours := range placedHours {
		if required := evaluator.RequiredHours(key.subject); hours > required {
			errs = multierr.Append(errs, fmt.Errorf("subject %q has %v hours in section %v but requires %v", key.subject, hours, key.section, required))
		}
	}

	intensiveDays := make(map[subjectKey][]int)
	for key, periods := range perDay {
		switch {
		case evaluator.Lab(key.subject):
			errs = multierr.Append(errs, verifyBlocks(key, periods, evaluator))
		case evaluator.Intensive(key.subject):
			skey := subjectKey{key.section, key.subject}
			intensiveDays[skey] = append(intensiveDays[skey], key.day)
			if len(periods) != IntensiveBlockSize {
				errs = multierr.Append(errs, fmt.Errorf("intensive subject %q has %v periods in section %v on day %v", key.subject, len(periods), key.section, key.day))
			}
		}
	}
	for key, days := range intensiveDays {
		if len(days) > 1 {
			errs = multierr.Append(errs, fmt.Errorf("intensive subject %q is split over days %v in section %v", key.subject, days, key.section))
		}
	}

	return errs
}

// verifyBlocks checks that a lab's periods in one day form consecutive pairs opened at permitted starts
func verifyBlocks(key dailyKey, periods []int, evaluator predicateEvaluator) error {
	sorted := slices.Sorted(slices.Values(periods))
	if len(sorted)%LabBlockSize != 0 {
		return fmt.Errorf("lab subject %q has an incomplete block in section %v on day %v: %v", key.subject, key.section, key.day, sorted)
	}
	for i := 0; i < len(sorted); i += LabBlockSize {
		start, end := sorted[i], sorted[i+1]
		if end != start+1 || !evaluator.PermittedStart(start) {
			return fmt.Errorf("lab subject %q has an invalid block %v-%v in section %v on day %v", key.subject, start, end, key.section, key.day)
		}
	}
	return nil
}
