package model

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

type greedyTimetabler struct {
	logger      *zap.Logger
	blockStarts []int
}

type Option func(*greedyTimetabler)

func WithLogger(logger *zap.Logger) Option {
	return func(timetabler *greedyTimetabler) {
		if logger != nil {
			timetabler.logger = logger
		}
	}
}

// WithBlockStarts overrides the periods a two-period lab block may start at
func WithBlockStarts(starts []int) Option {
	return func(timetabler *greedyTimetabler) {
		timetabler.blockStarts = slices.Clone(starts)
	}
}

func NewGreedyTimetabler(opts ...Option) Timetabler {
	timetabler := &greedyTimetabler{
		logger:      zap.NewNop(),
		blockStarts: slices.Clone(DefaultBlockStarts),
	}
	for _, opt := range opts {
		opt(timetabler)
	}
	return timetabler
}

func (timetabler *greedyTimetabler) Build(modelInput ModelInput, rng *rand.Rand) (Timetable, error) {
	//** Validate input
	if err := modelInput.Validate(); err != nil {
		return nil, fmt.Errorf("invalid model input: %w", err)
	}
	if rng == nil {
		return nil, fmt.Errorf("a random generator is required")
	}
	if invalid, ok := lo.Find(timetabler.blockStarts, func(start int) bool {
		return start < 1 || start+1 > Periods
	}); ok {
		return nil, fmt.Errorf("block start %v leaves no room for a second period", invalid)
	}

	//** Initialize state
	ctx := &placementContext{
		state:       newConstraintState(modelInput.Sections),
		resolver:    newFacultyResolver(modelInput.Faculty),
		rng:         rng,
		blockStarts: timetabler.blockStarts,
		logger:      timetabler.logger,
		timetable:   make(Timetable, modelInput.Sections),
	}

	//** Place sections in random order
	sections := shuffle(rng, lo.RangeFrom(1, modelInput.Sections))
	for _, section := range sections {
		ctx.timetable[section] = []ScheduleEntry{}

		eligible := lo.Filter(modelInput.Subjects, func(subject Subject, _ int) bool {
			return subject.HoursPerWeek > 0 && subject.Eligible(section)
		})
		labs, rest := lo.FilterReject(eligible, func(subject Subject, _ int) bool { return subject.IsLab() })
		intensive, theory := lo.FilterReject(rest, func(subject Subject, _ int) bool { return subject.IsIntensive() })

		ctx.placeLabs(section, labs)
		for _, subject := range intensive {
			ctx.placeIntensive(section, subject)
		}
		ctx.placeTheory(section, theory)
	}

	timetabler.logger.Debug("timetable built",
		zap.Ints("sectionOrder", sections),
		zap.Int("placedHours", lo.Sum(lo.MapToSlice(ctx.timetable, func(_ int, entries []ScheduleEntry) int { return len(entries) }))),
	)
	return ctx.timetable, nil
}

func (timetabler *greedyTimetabler) Verify(timetable Timetable, modelInput ModelInput) bool {
	err := verify(timetable, modelInput, timetabler.blockStarts)
	if err != nil {
		timetabler.logger.Debug("timetable verification failed", zap.Error(err))
	}
	return err == nil
}
