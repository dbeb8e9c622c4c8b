package model

import (
	"cmp"
	"math/rand/v2"
	"slices"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// placementContext carries everything the placement phases of a single solve share. It is created per Build call
// and never escapes it
type placementContext struct {
	state       *constraintState
	resolver    facultyResolver
	rng         *rand.Rand
	blockStarts []int
	logger      *zap.Logger
	timetable   Timetable
}

// place marks the slot busy and records the entry under the displayed (non-scoped) faculty id
func (ctx *placementContext) place(identity facultyIdentity, section, day, period int, subject Subject) {
	ctx.state.markBusy(disambiguate(identity, section), section, day, period, subject)
	ctx.timetable[section] = append(ctx.timetable[section], ScheduleEntry{
		SubjectId: subject.Id,
		FacultyId: identity.Id,
		Section:   section,
		Day:       day,
		Period:    period,
	})
}

func (ctx *placementContext) shuffledDays() []int {
	return shuffle(ctx.rng, lo.Range(Days))
}

func (ctx *placementContext) shuffledPeriods() []int {
	return shuffle(ctx.rng, lo.RangeFrom(1, Periods))
}

func (ctx *placementContext) logUnplaced(phase string, section int, subject Subject, remaining int) {
	if remaining <= 0 {
		return
	}
	ctx.logger.Debug("hours left unplaced",
		zap.String("phase", phase),
		zap.Int("section", section),
		zap.String("subject", subject.Id),
		zap.Int("required", subject.HoursPerWeek),
		zap.Int("unplaced", remaining),
	)
}

// placeLabs places every lab subject of the section as two-period blocks, at most one block per day. A block is
// accepted only when both of its periods are free, and both are then marked together
func (ctx *placementContext) placeLabs(section int, subjects []Subject) {
	for _, subject := range subjects {
		identity := ctx.resolver.Resolve(subject, section)
		key := disambiguate(identity, section)
		remaining := subject.HoursPerWeek

		for _, day := range ctx.shuffledDays() {
			if remaining <= 0 {
				break
			}
			for _, start := range shuffle(ctx.rng, slices.Clone(ctx.blockStarts)) {
				if !ctx.state.canPlace(key, section, day, start, subject) || !ctx.state.canPlace(key, section, day, start+1, subject) {
					continue
				}
				ctx.place(identity, section, day, start, subject)
				ctx.place(identity, section, day, start+1, subject)
				remaining -= LabBlockSize
				break
			}
		}
		ctx.logUnplaced("labs", section, subject, remaining)
	}
}

// placeIntensive places the intensive subject on the first day, in random order, offering enough free periods. The
// first free periods in period order are taken, contiguous or not; otherwise nothing is placed. It is always taught
// by the intensive pool, whatever faculty record happens to match its id
func (ctx *placementContext) placeIntensive(section int, subject Subject) {
	identity := intensivePool
	key := disambiguate(identity, section)

	free := lo.GroupBy(ctx.state.freeSlots(key, section, subject), func(slot Slot) int { return slot.Day })
	for _, day := range ctx.shuffledDays() {
		if len(free[day]) < IntensiveBlockSize {
			continue
		}
		for _, slot := range free[day][:IntensiveBlockSize] {
			ctx.place(identity, section, slot.Day, slot.Period, subject)
		}
		return
	}
	ctx.logUnplaced("intensive", section, subject, IntensiveBlockSize)
}

// placeTheory distributes the remaining subjects, largest requirement first. A spread pass places at most one hour
// per day, then a backfill pass over a new day order fills whatever the daily cap still allows
func (ctx *placementContext) placeTheory(section int, subjects []Subject) {
	ordered := slices.Clone(subjects)
	slices.SortStableFunc(ordered, func(a, b Subject) int {
		return cmp.Compare(b.HoursPerWeek, a.HoursPerWeek)
	})

	for _, subject := range ordered {
		identity := ctx.resolver.Resolve(subject, section)
		key := disambiguate(identity, section)
		remaining := subject.HoursPerWeek

		// Spread
		for _, day := range ctx.shuffledDays() {
			if remaining <= 0 {
				break
			}
			for _, period := range ctx.shuffledPeriods() {
				if ctx.state.canPlace(key, section, day, period, subject) {
					ctx.place(identity, section, day, period, subject)
					remaining--
					break
				}
			}
		}

		// Backfill
		for _, day := range ctx.shuffledDays() {
			if remaining <= 0 {
				break
			}
			for _, period := range ctx.shuffledPeriods() {
				if remaining <= 0 {
					break
				}
				if ctx.state.canPlace(key, section, day, period, subject) {
					ctx.place(identity, section, day, period, subject)
					remaining--
				}
			}
		}
		ctx.logUnplaced("theory", section, subject, remaining)
	}
}

// shuffle permutes values in place using the solve's generator and returns them
func shuffle[T any](rng *rand.Rand, values []T) []T {
	rng.Shuffle(len(values), func(i, j int) {
		values[i], values[j] = values[j], values[i]
	})
	return values
}
