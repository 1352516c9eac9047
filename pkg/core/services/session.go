package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/runroster/pkg/clients/quoteclient"
	"github.com/jakechorley/runroster/pkg/core/calendar"
	"github.com/jakechorley/runroster/pkg/core/draft"
	"github.com/jakechorley/runroster/pkg/core/leaderboard"
	"github.com/jakechorley/runroster/pkg/core/model"
	"github.com/jakechorley/runroster/pkg/core/regulars"
	"github.com/jakechorley/runroster/pkg/core/roster"
)

// DefaultStorageKey is the key the roster is persisted under
const DefaultStorageKey = "runningDays"

// MotivationFailedQuote is shown when fetching a quote fails outright
const MotivationFailedQuote = "Failed to fetch motivation. Just run!"

var (
	ErrEmptyName      = errors.New("runner name cannot be empty")
	ErrReadOnlyDay    = errors.New("day is in the past and read-only")
	ErrNotJoining     = errors.New("runner is not joining, mileage cannot be logged")
	ErrInvalidMiles   = draft.ErrInvalidMiles
	ErrDayNotFound    = errors.New("day not found")
	ErrRunnerNotFound = errors.New("runner not found")
	ErrQuoteInFlight  = errors.New("a quote is already being fetched")
	ErrOutsideWindow  = errors.New("day is beyond the current week")
)

// RosterStore defines the persistence operations needed by a session
type RosterStore interface {
	Load(ctx context.Context, key string, def model.RosterCollection) model.RosterCollection
	Save(ctx context.Context, key string, value model.RosterCollection) error
}

// SessionOptions configures a Session. Zero values fall back to defaults.
type SessionOptions struct {
	Key      string
	Clock    calendar.Clock
	Location *time.Location
	Quotes   quoteclient.Fetcher
	Regulars []regulars.Regular
	NewID    roster.IDFunc
}

// Signup represents a runner added to a day on someone's behalf
type Signup struct {
	Date   string
	Runner model.Runner
}

// Session owns the roster for the lifetime of a process. Every mutation
// replaces the collection and then persists it.
type Session struct {
	mu     sync.Mutex
	days   model.RosterCollection
	store  RosterStore
	logger *zap.Logger

	key      string
	clock    calendar.Clock
	loc      *time.Location
	quotes   quoteclient.Fetcher
	regulars []regulars.Regular
	newID    roster.IDFunc

	quoteInFlight   atomic.Bool
	persistFailures atomic.Int64
}

// OpenSession loads the stored roster, normalizes it, merges today's window and persists the result
func OpenSession(ctx context.Context, rosterStore RosterStore, logger *zap.Logger, opts SessionOptions) *Session {
	s := &Session{
		store:    rosterStore,
		logger:   logger,
		key:      opts.Key,
		clock:    opts.Clock,
		loc:      opts.Location,
		quotes:   opts.Quotes,
		regulars: opts.Regulars,
		newID:    opts.NewID,
	}
	if s.key == "" {
		s.key = DefaultStorageKey
	}
	if s.clock == nil {
		s.clock = calendar.SystemClock{}
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	if s.quotes == nil {
		s.quotes = quoteclient.Disabled{}
	}

	loaded := s.store.Load(ctx, s.key, model.RosterCollection{})
	days := roster.Normalize(loaded)

	window := calendar.ComputeWindow(s.clock.Now().In(s.loc))
	s.days = roster.MergeWindow(days, window)

	logger.Debug("Opened roster session",
		zap.String("key", s.key),
		zap.Int("stored_days", len(loaded)),
		zap.Int("days", len(s.days)),
		zap.String("today", window[0]))

	s.persist(ctx)
	return s
}

// Today returns today's date identifier in the session's timezone
func (s *Session) Today() string {
	return calendar.Today(s.clock, s.loc)
}

// Days returns the current collection. Callers must not modify it.
func (s *Session) Days() model.RosterCollection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.days
}

// Day returns the record for date
func (s *Session) Day(date string) (model.DayRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return roster.Find(s.days, date)
}

// Upcoming returns today and later days, ascending, at most one window long
func (s *Session) Upcoming() []model.DayRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return roster.PartitionView(s.days, s.Today()).Upcoming
}

// History returns days before today, most recent first
func (s *Session) History() []model.DayRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return roster.PartitionView(s.days, s.Today()).History
}

// Leaderboard ranks runner names by total logged miles
func (s *Session) Leaderboard() []model.LeaderboardEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return leaderboard.Compute(s.days)
}

// PersistFailures counts saves that failed since the session opened
func (s *Session) PersistFailures() int64 {
	return s.persistFailures.Load()
}

// AddRunner signs name up for date, which must fall inside the current window.
// The day is created if it is not yet in the collection.
func (s *Session) AddRunner(ctx context.Context, date, name string) (model.Runner, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Runner{}, ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkWritable(date); err != nil {
		return model.Runner{}, err
	}
	if last := s.windowEnd(); date > last {
		return model.Runner{}, fmt.Errorf("%w: %s is after %s", ErrOutsideWindow, date, last)
	}

	days, id := roster.AddRunner(roster.EnsureDay(s.days, date), date, name, s.newID)
	s.days = days
	s.logger.Info("Runner added", zap.String("date", date), zap.String("name", name), zap.String("id", id))
	s.persist(ctx)

	runner, _ := roster.FindRunner(s.days, date, id)
	return runner, nil
}

// ToggleJoining flips whether a runner is joining and returns the updated runner
func (s *Session) ToggleJoining(ctx context.Context, date, runnerID string) (model.Runner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.lookup(date, runnerID); err != nil {
		return model.Runner{}, err
	}

	s.days = roster.ToggleJoining(s.days, date, runnerID)
	runner, _ := roster.FindRunner(s.days, date, runnerID)
	s.logger.Info("Runner joining toggled",
		zap.String("date", date),
		zap.String("id", runnerID),
		zap.Bool("is_joining", runner.IsJoining))
	s.persist(ctx)

	return runner, nil
}

// CommitMiles parses text as a mileage draft and commits it for a joining runner.
// Invalid input leaves the stored miles untouched.
func (s *Session) CommitMiles(ctx context.Context, date, runnerID, text string) (model.Runner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	runner, err := s.lookup(date, runnerID)
	if err != nil {
		return model.Runner{}, err
	}
	if !runner.IsJoining {
		return runner, ErrNotJoining
	}

	miles := draft.NewMiles(runner.Miles)
	miles.Set(text)
	committed, err := miles.Commit()
	if err != nil {
		s.logger.Debug("Rejected mileage edit",
			zap.String("date", date),
			zap.String("id", runnerID),
			zap.String("input", text))
		return runner, fmt.Errorf("invalid mileage %q: %w", text, err)
	}

	s.days = roster.UpdateMiles(s.days, date, runnerID, committed)
	runner, _ = roster.FindRunner(s.days, date, runnerID)
	s.logger.Info("Miles logged", zap.String("date", date), zap.String("id", runnerID), zap.Float64("miles", committed))
	s.persist(ctx)

	return runner, nil
}

// RemoveRunner deletes a runner's signup and returns the removed runner
func (s *Session) RemoveRunner(ctx context.Context, date, runnerID string) (model.Runner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	runner, err := s.lookup(date, runnerID)
	if err != nil {
		return model.Runner{}, err
	}

	s.days = roster.RemoveRunner(s.days, date, runnerID)
	s.logger.Info("Runner removed", zap.String("date", date), zap.String("id", runnerID), zap.String("name", runner.Name))
	s.persist(ctx)

	return runner, nil
}

// SignUpRegulars adds each configured regular to the upcoming days their
// rule matches, skipping days that already list that name.
func (s *Session) SignUpRegulars(ctx context.Context) ([]Signup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.regulars) == 0 {
		return nil, nil
	}

	window := calendar.ComputeWindow(s.clock.Now().In(s.loc))
	plan, err := regulars.Plan(s.regulars, window)
	if err != nil {
		return nil, fmt.Errorf("failed to plan regular signups: %w", err)
	}

	var added []Signup
	days := roster.MergeWindow(s.days, window)
	for _, date := range window {
		for _, name := range plan[date] {
			if hasRunnerNamed(days, date, name) {
				continue
			}
			var id string
			days, id = roster.AddRunner(days, date, name, s.newID)
			runner, _ := roster.FindRunner(days, date, id)
			added = append(added, Signup{Date: date, Runner: runner})
		}
	}

	if len(added) == 0 {
		s.logger.Debug("No regular signups needed")
		return nil, nil
	}

	s.days = days
	s.logger.Info("Regular runners signed up", zap.Int("count", len(added)))
	s.persist(ctx)

	return added, nil
}

// Motivate fetches one motivational quote. Only one fetch may be outstanding;
// concurrent callers get ErrQuoteInFlight without disturbing it.
func (s *Session) Motivate(ctx context.Context) (string, error) {
	fetch, err := s.StartMotivate()
	if err != nil {
		return "", err
	}
	return fetch(ctx), nil
}

// StartMotivate claims the single quote slot and returns the fetch to run,
// possibly on another goroutine. The slot is released when the fetch returns.
// Callers must run the returned func exactly once.
func (s *Session) StartMotivate() (func(context.Context) string, error) {
	if !s.quoteInFlight.CompareAndSwap(false, true) {
		return nil, ErrQuoteInFlight
	}

	return func(ctx context.Context) string {
		defer s.quoteInFlight.Store(false)
		return s.fetchQuote(ctx)
	}, nil
}

// QuoteInFlight reports whether a quote fetch is outstanding
func (s *Session) QuoteInFlight() bool {
	return s.quoteInFlight.Load()
}

func (s *Session) fetchQuote(ctx context.Context) (quote string) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Quote fetch failed", zap.Any("panic", r))
			quote = MotivationFailedQuote
		}
	}()

	quote = strings.TrimSpace(s.quotes.FetchMotivationalQuote(ctx))
	if quote == "" {
		return MotivationFailedQuote
	}
	return quote
}

// lookup validates that date is writable and that runnerID is on it
func (s *Session) lookup(date, runnerID string) (model.Runner, error) {
	if err := s.checkWritable(date); err != nil {
		return model.Runner{}, err
	}
	if _, ok := roster.Find(s.days, date); !ok {
		return model.Runner{}, fmt.Errorf("%w: %s", ErrDayNotFound, date)
	}
	runner, ok := roster.FindRunner(s.days, date, runnerID)
	if !ok {
		return model.Runner{}, fmt.Errorf("%w: %s on %s", ErrRunnerNotFound, runnerID, date)
	}
	return runner, nil
}

func (s *Session) checkWritable(date string) error {
	if _, err := calendar.ParseDate(date); err != nil {
		return err
	}
	if date < s.Today() {
		return fmt.Errorf("%w: %s", ErrReadOnlyDay, date)
	}
	return nil
}

func (s *Session) windowEnd() string {
	window := calendar.ComputeWindow(s.clock.Now().In(s.loc))
	return window[len(window)-1]
}

// persist saves the current collection. The in-memory state stays authoritative on failure.
func (s *Session) persist(ctx context.Context) {
	if err := s.store.Save(ctx, s.key, s.days); err != nil {
		failures := s.persistFailures.Add(1)
		s.logger.Warn("Roster change kept in memory only", zap.Int64("persist_failures", failures), zap.Error(err))
	}
}

func hasRunnerNamed(days model.RosterCollection, date, name string) bool {
	day, ok := roster.Find(days, date)
	if !ok {
		return false
	}
	for _, r := range day.Runners {
		if r.Name == name {
			return true
		}
	}
	return false
}
