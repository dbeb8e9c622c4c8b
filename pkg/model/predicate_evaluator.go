package model

type predicateEvaluator interface {
	// Checks whether the subject exists in the input
	Known(subjectId string) bool

	// Checks whether the subject is taught to the section
	Eligible(subjectId string, section int) bool

	// Checks whether the subject is placed as two-period blocks
	Lab(subjectId string) bool

	// Checks whether the subject is the single-day intensive one (exempt from the daily cap)
	Intensive(subjectId string) bool

	// Returns the weekly hours the subject requires per section
	RequiredHours(subjectId string) int

	// Checks whether a two-period block may start at the given period
	PermittedStart(period int) bool

	// Returns the identity an entry occupies for faculty exclusivity
	Identity(entry ScheduleEntry) string
}
