// Package session owns the current schedule of one editing session.
// It coordinates the period grid, the slot store, the directory, the
// repository and the suggestion generator. Both CLI and TUI use it.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/javiermolinar/roster/internal/config"
	"github.com/javiermolinar/roster/internal/conflict"
	"github.com/javiermolinar/roster/internal/llm"
	"github.com/javiermolinar/roster/internal/schedule"
	"github.com/javiermolinar/roster/internal/view"
)

// ErrNoSuggester is returned by Suggest when no generator is configured.
var ErrNoSuggester = errors.New("no suggestion generator configured")

// Result describes the outcome of a mutation.
// A non-nil SaveErr is a warning: the in-memory schedule keeps the change.
type Result struct {
	Merge     schedule.MergeReport
	Warnings  []Warning
	Suggested int
	SaveErr   error
}

// Session holds the single "current schedule".
// It is not safe for concurrent use; callers serialize access.
type Session struct {
	cfg       *config.Config
	repo      schedule.Repository
	grid      *schedule.Grid
	store     *schedule.Store
	dir       *schedule.Directory
	suggester llm.Generator
	log       *zap.Logger
	now       func() time.Time
}

// Option configures a Session.
type Option func(*Session)

// WithSuggester sets the suggestion generator.
func WithSuggester(g llm.Generator) Option {
	return func(s *Session) { s.suggester = g }
}

// WithClock overrides the clock used for suggestion batch IDs.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithLogger sets the debug logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// New creates an empty session seeded with the configured grid.
// repo may be nil, in which case nothing is persisted.
func New(cfg *config.Config, repo schedule.Repository, opts ...Option) *Session {
	store, _ := schedule.NewStore(nil)
	s := &Session{
		cfg:   cfg,
		repo:  repo,
		grid:  cfg.Grid(),
		store: store,
		dir:   schedule.NewDirectory(nil, nil),
		log:   zap.NewNop(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open creates a session and loads it from the repository.
// Load failures are returned as a warning alongside a usable session.
func Open(ctx context.Context, cfg *config.Config, repo schedule.Repository, opts ...Option) (*Session, error) {
	s := New(cfg, repo, opts...)
	return s, s.Load(ctx)
}

// Load refreshes the session from the repository.
//
// Each part falls back independently: on failure the slots, grid or
// directory already held by the session are kept. The returned error
// joins every failure and never leaves the session unusable. A grid that
// was never saved is seeded from the configuration.
func (s *Session) Load(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}

	var errs []error

	if slots, err := s.repo.LoadSchedule(ctx); err != nil {
		errs = append(errs, fmt.Errorf("loading schedule: %w", err))
		s.log.Warn("load_schedule_fallback", zap.Error(err), zap.Int("kept", s.store.Len()))
	} else if err := s.store.ReplaceAll(slots); err != nil {
		errs = append(errs, fmt.Errorf("loading schedule: %w", err))
		s.log.Warn("load_schedule_fallback", zap.Error(err), zap.Int("kept", s.store.Len()))
	} else {
		s.log.Debug("load_schedule", zap.Int("slots", len(slots)))
	}

	if periods, saved, err := s.repo.LoadPeriods(ctx); err != nil {
		errs = append(errs, fmt.Errorf("loading periods: %w", err))
		s.log.Warn("load_periods_fallback", zap.Error(err))
	} else if saved {
		s.grid = schedule.NewGrid(periods...)
	} else {
		s.grid = s.cfg.Grid()
		s.log.Debug("grid_seeded_from_config", zap.Int("periods", s.grid.Len()))
	}

	teachers, terr := s.repo.ListTeachers(ctx)
	rooms, rerr := s.repo.ListRooms(ctx)
	switch {
	case terr != nil:
		errs = append(errs, fmt.Errorf("loading teachers: %w", terr))
		s.log.Warn("load_directory_fallback", zap.Error(terr))
	case rerr != nil:
		errs = append(errs, fmt.Errorf("loading rooms: %w", rerr))
		s.log.Warn("load_directory_fallback", zap.Error(rerr))
	default:
		s.dir = schedule.NewDirectory(teachers, rooms)
	}

	return errors.Join(errs...)
}

// Config returns the configuration the session was built with.
func (s *Session) Config() *config.Config {
	return s.cfg
}

// Days returns the configured school days in display order.
func (s *Session) Days() []string {
	return append([]string(nil), s.cfg.Schedule.Days...)
}

// Classes returns the configured classes followed by any other class
// found in the schedule.
func (s *Session) Classes() []string {
	return view.ClassNames(s.cfg.Schedule.Classes, s.store.Slots())
}

// Grid returns a copy of the active period grid.
func (s *Session) Grid() *schedule.Grid {
	return s.grid.Clone()
}

// Slots returns a copy of the current slots.
func (s *Session) Slots() []schedule.Slot {
	return s.store.Slots()
}

// Slot returns the slot with the given ID.
func (s *Session) Slot(id string) (schedule.Slot, bool) {
	return s.store.Get(id)
}

// Directory returns the teacher and room directory.
func (s *Session) Directory() *schedule.Directory {
	return s.dir
}

// Conflicts computes the conflict set from the current slots.
func (s *Session) Conflicts() conflict.Set {
	return conflict.NewIndex(s.store.Slots()).Conflicts()
}

// Conflicting reports whether slot collides with a stored slot.
func (s *Session) Conflicting(slot schedule.Slot) bool {
	return conflict.NewIndex(s.store.Slots()).IsConflicting(slot)
}

// Projector returns a projector over the current slots.
// It must be rebuilt after every mutation.
func (s *Session) Projector() *view.Projector {
	return view.NewProjector(s.store.Slots(), s.grid, s.cfg.Schedule.Days, s.dir)
}

// AddSlot creates a slot from a manual edit and appends it.
//
// teacher may be a teacher ID or an exact name. A reference that matches
// no teacher is stored as typed and reported as a warning, as are break
// rows and periods missing from the grid. An empty teacher is stored as
// schedule.UnknownTeacherID.
func (s *Session) AddSlot(ctx context.Context, day string, period float64, className, subject, teacher, roomID string) (schedule.Slot, Result, error) {
	var res Result

	teacherID, known := s.resolveTeacher(teacher)
	if !known {
		res.Warnings = append(res.Warnings, Warning{
			Index:   -1,
			Field:   "teacher",
			Message: fmt.Sprintf("'%s' does not match any teacher", teacherID),
		})
	}
	if p, ok := s.grid.Get(period); !ok {
		res.Warnings = append(res.Warnings, Warning{
			Index:   -1,
			Field:   "period",
			Message: fmt.Sprintf("period %s is not in the grid", schedule.FormatPeriodID(period)),
		})
	} else if p.Break {
		res.Warnings = append(res.Warnings, Warning{
			Index:   -1,
			Field:   "period",
			Message: fmt.Sprintf("period %s is a break row", schedule.FormatPeriodID(period)),
		})
	}
	if roomID = strings.TrimSpace(roomID); roomID != "" {
		if _, ok := s.dir.Room(roomID); !ok {
			res.Warnings = append(res.Warnings, Warning{
				Index:   -1,
				Field:   "room",
				Message: fmt.Sprintf("'%s' does not match any room", roomID),
			})
		}
	}

	slot, err := schedule.New(s.cfg.Schedule.Days, day, period, className, subject, teacherID, roomID)
	if err != nil {
		return schedule.Slot{}, Result{}, err
	}
	if err := s.store.Append(slot); err != nil {
		return schedule.Slot{}, Result{}, err
	}
	s.log.Debug("slot_added", zap.String("id", slot.ID), zap.String("slot", slot.String()))

	res.SaveErr = s.saveSchedule(ctx)
	return slot, res, nil
}

// RemoveSlot deletes a slot by ID.
func (s *Session) RemoveSlot(ctx context.Context, id string) (schedule.Slot, Result, error) {
	removed, err := s.store.RemoveByID(id)
	if err != nil {
		return schedule.Slot{}, Result{}, err
	}
	s.log.Debug("slot_removed", zap.String("id", id))
	return removed, Result{SaveErr: s.saveSchedule(ctx)}, nil
}

// ReplaceAll swaps the whole schedule.
func (s *Session) ReplaceAll(ctx context.Context, slots []schedule.Slot) (Result, error) {
	if err := s.store.ReplaceAll(slots); err != nil {
		return Result{}, err
	}
	s.log.Debug("schedule_replaced", zap.Int("slots", len(slots)))
	return Result{SaveErr: s.saveSchedule(ctx)}, nil
}

// ApplyBatch merges a batch of proposed slots into the schedule.
// Nothing is saved when the merge changes nothing.
func (s *Session) ApplyBatch(ctx context.Context, batch []schedule.Slot) Result {
	report := s.store.UpsertBatch(batch)
	s.logMerge(report)

	res := Result{Merge: report}
	if report.Changed() {
		res.SaveErr = s.saveSchedule(ctx)
	}
	return res
}

// SuggestRequest shapes the generator request from the directory and
// configuration.
func (s *Session) SuggestRequest() llm.SuggestRequest {
	return llm.NewSuggestRequest(s.dir, s.cfg.Schedule.Classes, s.cfg.Schedule.Days, llm.Limits{
		MaxTeachers: s.cfg.LLM.MaxTeachers,
		MaxClasses:  s.cfg.LLM.MaxClasses,
		MaxPeriods:  s.cfg.LLM.MaxPeriods,
	})
}

// RequestSuggestions calls the generator without touching the schedule.
// It only reads the session, so the TUI may run it off the update loop.
func (s *Session) RequestSuggestions(ctx context.Context) ([]llm.Suggestion, error) {
	if s.suggester == nil {
		return nil, ErrNoSuggester
	}
	req := s.SuggestRequest()
	s.log.Debug("suggest_request",
		zap.Int("teachers", len(req.Teachers)),
		zap.Int("classes", len(req.Classes)),
		zap.Int("periods", len(req.Periods)),
	)

	suggestions, err := s.suggester.Suggest(ctx, req)
	if err != nil {
		s.log.Warn("suggest_failed", zap.Error(err))
		return nil, err
	}
	s.log.Debug("suggest_response", zap.Int("suggestions", len(suggestions)))
	return suggestions, nil
}

// ApplySuggestions reviews a generated batch and merges it.
// Warnings never block the merge.
func (s *Session) ApplySuggestions(ctx context.Context, suggestions []llm.Suggestion) Result {
	batchID := fmt.Sprintf("ai-gen-%d", s.now().UnixMilli())
	slots, warnings := NewReviewer(s.grid, s.cfg.Schedule.Days, s.dir).Review(batchID, suggestions)

	for _, w := range warnings {
		if w.Field == "teacherName" {
			s.log.Info("teacher_unresolved", zap.Int("index", w.Index), zap.String("message", w.Message))
		}
	}

	res := s.ApplyBatch(ctx, slots)
	res.Warnings = warnings
	res.Suggested = len(slots)
	return res
}

// Suggest asks the generator for a timetable draft and merges it.
// On failure the schedule is left unchanged and the error is returned,
// typically a *llm.GenerationError.
func (s *Session) Suggest(ctx context.Context) (Result, error) {
	suggestions, err := s.RequestSuggestions(ctx)
	if err != nil {
		return Result{}, err
	}
	return s.ApplySuggestions(ctx, suggestions), nil
}

// AddPeriod inserts a period into the grid.
// isBreak forces a break row; non-integer IDs are breaks anyway.
func (s *Session) AddPeriod(ctx context.Context, id float64, label string, isBreak bool) (Result, error) {
	var err error
	if isBreak {
		if strings.TrimSpace(label) == "" {
			label = schedule.BreakLabel
		}
		err = s.grid.AddPeriod(schedule.Period{ID: id, Label: label, Break: true})
	} else {
		err = s.grid.Add(id, label)
	}
	if err != nil {
		return Result{}, err
	}
	s.log.Debug("period_added", zap.Float64("id", id), zap.String("label", label))
	return Result{SaveErr: s.savePeriods(ctx)}, nil
}

// RemovePeriod removes a period. Slots that reference it stay in the
// schedule and show up as orphans in the views.
func (s *Session) RemovePeriod(ctx context.Context, id float64) (Result, error) {
	if err := s.grid.Remove(id); err != nil {
		return Result{}, err
	}

	var res Result
	if n := s.slotsAt(id); n > 0 {
		res.Warnings = append(res.Warnings, Warning{
			Index:   -1,
			Field:   "period",
			Message: fmt.Sprintf("%d slot(s) still reference period %s", n, schedule.FormatPeriodID(id)),
		})
	}
	s.log.Debug("period_removed", zap.Float64("id", id))
	res.SaveErr = s.savePeriods(ctx)
	return res, nil
}

// RelabelPeriod changes the label of a period.
func (s *Session) RelabelPeriod(ctx context.Context, id float64, label string) (Result, error) {
	if err := s.grid.Relabel(id, label); err != nil {
		return Result{}, err
	}
	s.log.Debug("period_relabeled", zap.Float64("id", id), zap.String("label", label))
	return Result{SaveErr: s.savePeriods(ctx)}, nil
}

// Save persists both the schedule and the grid.
func (s *Session) Save(ctx context.Context) error {
	return errors.Join(s.saveSchedule(ctx), s.savePeriods(ctx))
}

// resolveTeacher maps an ID or name to a teacher ID. Unmatched references
// come back unchanged with known set to false.
func (s *Session) resolveTeacher(ref string) (id string, known bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return schedule.UnknownTeacherID, true
	}
	if _, ok := s.dir.Teacher(ref); ok {
		return ref, true
	}
	if id, ok := s.dir.ResolveTeacher(ref); ok {
		return id, true
	}
	return ref, false
}

func (s *Session) slotsAt(period float64) int {
	n := 0
	for _, slot := range s.store.Slots() {
		if slot.Period == period {
			n++
		}
	}
	return n
}

func (s *Session) saveSchedule(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	if err := s.repo.SaveSchedule(ctx, s.store.Slots()); err != nil {
		s.log.Warn("save_schedule_failed", zap.Error(err))
		return fmt.Errorf("saving schedule: %w", err)
	}
	return nil
}

func (s *Session) savePeriods(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	if err := s.repo.SavePeriods(ctx, s.grid.Periods()); err != nil {
		s.log.Warn("save_periods_failed", zap.Error(err))
		return fmt.Errorf("saving periods: %w", err)
	}
	return nil
}

func (s *Session) logMerge(report schedule.MergeReport) {
	s.log.Debug("merge",
		zap.Int("replaced", report.Replaced),
		zap.Int("appended", report.Appended),
	)
	for _, sup := range report.Superseded {
		s.log.Info("slot_superseded",
			zap.String("old_id", sup.Old.ID),
			zap.String("new_id", sup.New.ID),
			zap.String("old", sup.Old.String()),
		)
	}
}
