package model

import (
	"slices"

	"github.com/samber/lo"
)

type predicateEvaluatorStandard struct {
	subjects    map[string]Subject
	kinds       map[string]FacultyKind
	blockStarts []int
}

func newPredicateEvaluator(modelInput ModelInput, blockStarts []int) predicateEvaluator {
	return &predicateEvaluatorStandard{
		subjects:    lo.KeyBy(modelInput.Subjects, func(subject Subject) string { return subject.Id }),
		kinds:       modelInput.IdentityKinds(),
		blockStarts: blockStarts,
	}
}

func (evaluator *predicateEvaluatorStandard) Known(subjectId string) bool {
	_, ok := evaluator.subjects[subjectId]
	return ok
}

func (evaluator *predicateEvaluatorStandard) Eligible(subjectId string, section int) bool {
	subject, ok := evaluator.subjects[subjectId]
	return ok && subject.Eligible(section)
}

func (evaluator *predicateEvaluatorStandard) Lab(subjectId string) bool {
	return evaluator.subjects[subjectId].IsLab()
}

func (evaluator *predicateEvaluatorStandard) Intensive(subjectId string) bool {
	return evaluator.subjects[subjectId].IsIntensive()
}

func (evaluator *predicateEvaluatorStandard) RequiredHours(subjectId string) int {
	return evaluator.subjects[subjectId].HoursPerWeek
}

func (evaluator *predicateEvaluatorStandard) PermittedStart(period int) bool {
	return slices.Contains(evaluator.blockStarts, period)
}

func (evaluator *predicateEvaluatorStandard) Identity(entry ScheduleEntry) string {
	return ExclusivityKey(entry, evaluator.kinds)
}
