package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/limaJavier/sectiontable/internal/cache"
	"github.com/limaJavier/sectiontable/internal/metrics"
	"github.com/limaJavier/sectiontable/pkg/model"
)

type GenerateRequest struct {
	// Input replaces the default curriculum when present
	Input *model.RawModelInput `json:"input"`
	// Document is an alternative textual input, decoded according to Format (JSON by default)
	Document string  `json:"document" validate:"excluded_with=Input"`
	Format   string  `json:"format" validate:"omitempty,oneof=json yaml"`
	Seed     *uint64 `json:"seed"`
}

type Result struct {
	RunID       string            `json:"runId"`
	Seed        uint64            `json:"seed"`
	Cached      bool              `json:"cached"`
	GeneratedAt time.Time         `json:"generatedAt"`
	Stats       model.Stats       `json:"stats"`
	Shortfalls  []model.Shortfall `json:"shortfalls"`
	Timetable   model.Timetable   `json:"timetable"`

	Input model.ModelInput `json:"-"`
}

type SectionView struct {
	Section int                   `json:"section"`
	Entries []model.ScheduleEntry `json:"entries"`
	Legend  []model.Assignment    `json:"legend"`
}

type Options struct {
	// Seed is used for every request that does not carry one
	Seed    *uint64
	Cache   cache.Cache
	Metrics *metrics.Metrics
	Logger  *zap.Logger
}

// TimetableService runs solves on behalf of callers and keeps the latest successful result. A failed or aborted
// solve never replaces it
type TimetableService struct {
	timetabler   model.Timetabler
	defaultInput model.ModelInput
	seed         *uint64
	cache        cache.Cache
	metrics      *metrics.Metrics
	logger       *zap.Logger
	validate     *validator.Validate
	seedSource   func() uint64

	mu      sync.RWMutex
	current *Result
}

func NewTimetableService(timetabler model.Timetabler, defaultInput model.ModelInput, opts Options) *TimetableService {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableService{
		timetabler:   timetabler,
		defaultInput: defaultInput,
		seed:         opts.Seed,
		cache:        opts.Cache,
		metrics:      opts.Metrics,
		logger:       logger,
		validate:     validator.New(),
		seedSource:   rand.Uint64,
	}
}

func (s *TimetableService) DefaultInput() model.ModelInput {
	return s.defaultInput
}

// Generate solves the requested (or default) curriculum and makes the result current
func (s *TimetableService) Generate(ctx context.Context, req GenerateRequest) (*Result, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, wrap(err, ErrValidation)
	}

	input, err := s.resolveInput(req)
	if err != nil {
		return nil, wrap(err, ErrValidation)
	}

	seed := s.resolveSeed(req)
	runID := uuid.NewString()
	logger := s.logger.With(zap.String("run_id", runID), zap.Uint64("seed", seed))

	var key string
	useCache := s.cache != nil
	if useCache {
		if key, err = cache.Key(input, seed); err != nil {
			logger.Warn("cannot derive cache key", zap.Error(err))
			useCache = false
		}
	}

	var timetable model.Timetable
	cached := false
	if useCache {
		timetable, err = s.cache.Get(ctx, key)
		cached = err == nil
		if err != nil && !errors.Is(err, cache.ErrCacheMiss) {
			logger.Warn("cache lookup failed", zap.Error(err))
		}
		s.metrics.RecordCacheLookup(cached)
	}

	if !cached {
		start := time.Now()
		timetable, err = s.solve(input, seed)
		if err != nil {
			s.metrics.ObserveSolveFailure(time.Since(start))
			logger.Error("timetable generation failed", zap.Error(err))
			return nil, err
		}
		s.metrics.ObserveSolve(time.Since(start), requiredHours(input), placedHours(timetable))

		if useCache {
			if err := s.cache.Set(ctx, key, timetable); err != nil {
				logger.Warn("cache store failed", zap.Error(err))
			}
		}
	}

	result := &Result{
		RunID:       runID,
		Seed:        seed,
		Cached:      cached,
		GeneratedAt: time.Now().UTC(),
		Stats:       model.Summarize(timetable, input),
		Shortfalls:  model.Shortfalls(timetable, input),
		Timetable:   timetable,
		Input:       input,
	}

	s.mu.Lock()
	s.current = result
	s.mu.Unlock()

	logger.Info("timetable generated",
		zap.Bool("cached", cached),
		zap.Int("filled_slots", result.Stats.FilledSlots),
		zap.Int("total_slots", result.Stats.TotalSlots),
		zap.Int("shortfalls", len(result.Shortfalls)),
	)
	return result, nil
}

// Current returns the latest successful result
func (s *TimetableService) Current() (*Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return nil, ErrNoTimetable
	}
	return s.current, nil
}

// Section returns one section of the current timetable in display order, with its legend
func (s *TimetableService) Section(section int) (*SectionView, error) {
	current, err := s.Current()
	if err != nil {
		return nil, err
	}
	if _, ok := current.Timetable[section]; !ok {
		return nil, wrap(fmt.Errorf("section %v does not exist", section), ErrNotFound)
	}

	entries := current.Timetable.Sorted(section)
	return &SectionView{
		Section: section,
		Entries: entries,
		Legend:  model.Legend(entries),
	}, nil
}

// solve runs the engine behind a recover boundary; a panic aborts only this solve
func (s *TimetableService) solve(input model.ModelInput, seed uint64) (timetable model.Timetable, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			s.logger.Error("timetable solve panicked", zap.Any("panic", recovered), zap.Stack("stack"))
			timetable, err = nil, wrap(fmt.Errorf("solve aborted: %v", recovered), ErrSolve)
		}
	}()

	timetable, err = s.timetabler.Build(input, model.NewRand(seed))
	if err != nil {
		return nil, wrap(err, ErrValidation)
	}
	return timetable, nil
}

func (s *TimetableService) resolveInput(req GenerateRequest) (model.ModelInput, error) {
	switch {
	case req.Input != nil:
		return model.ProcessRawInput(*req.Input)
	case req.Document != "":
		return model.InputFromBytes([]byte(req.Document), req.Format)
	default:
		return s.defaultInput, nil
	}
}

func (s *TimetableService) resolveSeed(req GenerateRequest) uint64 {
	switch {
	case req.Seed != nil:
		return *req.Seed
	case s.seed != nil:
		return *s.seed
	default:
		return s.seedSource()
	}
}

func requiredHours(input model.ModelInput) int {
	return lo.SumBy(input.Subjects, func(subject model.Subject) int {
		return subject.HoursPerWeek * len(subject.Sections)
	})
}

func placedHours(timetable model.Timetable) int {
	return lo.SumBy(lo.Values(timetable), func(entries []model.ScheduleEntry) int { return len(entries) })
}
