// Package scheduler runs the periodic reminder check.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/modules/reminders"
	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/wellness"
	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
)

// ReminderSource lists enabled reminders across all users.
type ReminderSource interface {
	Enabled() ([]reminders.Reminder, error)
}

// LocationResolver maps users to the timezone their reminders fire in. Every
// requested user must be present in the result.
type LocationResolver interface {
	Locations(userIDs []uuid.UUID) (map[uuid.UUID]*time.Location, error)
}

// Dispatcher delivers one due reminder. Failures are logged by the scheduler
// and never retried.
type Dispatcher interface {
	Dispatch(ctx context.Context, userID uuid.UUID, reminder wellness.Reminder, at time.Time) error
}

// ReminderScheduler evaluates every enabled reminder once per interval and
// dispatches the due ones.
//
// By default a reminder is dispatched on every tick that falls inside its
// minute, so ticks faster than a minute or a restart inside the minute can
// repeat an alert. WithDedupe makes delivery at most once per reminder and
// minute.
type ReminderScheduler struct {
	source     ReminderSource
	locations  LocationResolver
	dispatcher Dispatcher

	interval time.Duration
	dedupe   bool
	now      func() time.Time

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}

	firedMu   sync.Mutex
	lastFired map[string]int64
}

type Option func(*ReminderScheduler)

// WithInterval sets the tick period. Defaults to one minute.
func WithInterval(d time.Duration) Option {
	return func(s *ReminderScheduler) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithDedupe enables the at-most-once-per-minute guarantee.
func WithDedupe(enabled bool) Option {
	return func(s *ReminderScheduler) { s.dedupe = enabled }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *ReminderScheduler) { s.now = now }
}

func NewReminderScheduler(source ReminderSource, locations LocationResolver, dispatcher Dispatcher, opts ...Option) (*ReminderScheduler, error) {
	if source == nil || locations == nil || dispatcher == nil {
		return nil, errors.New("scheduler: source, locations and dispatcher are required")
	}

	s := &ReminderScheduler{
		source:     source,
		locations:  locations,
		dispatcher: dispatcher,
		interval:   time.Minute,
		now:        time.Now,
		lastFired:  make(map[string]int64),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Start runs the loop in the background until Stop is called.
func (s *ReminderScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return errors.New("scheduler is already running")
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	s.running = true

	slog.Info("reminder scheduler started", "interval", s.interval.String(), "dedupe", s.dedupe)

	go func(done chan struct{}) {
		defer close(done)
		s.loop(ctx)
	}(s.done)
	return nil
}

// Stop cancels the loop and waits for an in-flight tick to finish. Calling
// Stop on a stopped scheduler is a no-op.
func (s *ReminderScheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	cancel, done := s.cancel, s.done
	s.mu.Unlock()

	cancel()
	<-done
	slog.Info("reminder scheduler stopped")
}

func (s *ReminderScheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Run blocks, ticking until ctx is done. It is the foreground form of
// Start/Stop.
func (s *ReminderScheduler) Run(ctx context.Context) error {
	s.loop(ctx)
	return ctx.Err()
}

func (s *ReminderScheduler) loop(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx, s.now())
		}
	}
}

// Tick evaluates all reminders at now and returns how many were dispatched.
func (s *ReminderScheduler) Tick(now time.Time) int {
	return s.tick(context.Background(), now)
}

func (s *ReminderScheduler) tick(ctx context.Context, now time.Time) (fired int) {
	m := metrics.Get()
	m.SchedulerTicksTotal.Inc()
	start := time.Now()
	defer func() {
		m.TickDuration.Observe(time.Since(start).Seconds())
	}()

	defer func() {
		if r := recover(); r != nil {
			m.SchedulerTickErrors.Inc()
			sentry.CurrentHub().Recover(r)
			slog.Error("reminder tick panicked", "action", "reminder_tick", "error", fmt.Sprint(r))
		}
	}()

	byUser, err := s.load()
	if err != nil {
		m.SchedulerTickErrors.Inc()
		slog.Error("failed to load reminders", "action", "reminder_tick", "error", err)
		return 0
	}
	if len(byUser) == 0 {
		return 0
	}

	userIDs := make([]uuid.UUID, 0, len(byUser))
	for id := range byUser {
		userIDs = append(userIDs, id)
	}
	sort.Slice(userIDs, func(i, j int) bool { return userIDs[i].String() < userIDs[j].String() })

	locs, err := s.locations.Locations(userIDs)
	if err != nil {
		m.SchedulerTickErrors.Inc()
		slog.Error("failed to resolve reminder timezones", "action", "reminder_tick", "error", err)
		return 0
	}

	minute := now.Truncate(time.Minute).Unix()
	if s.dedupe {
		s.pruneFired(minute)
	}

	for _, userID := range userIDs {
		loc := locs[userID]
		if loc == nil {
			loc = time.UTC
		}
		localNow := now.In(loc)

		for _, r := range wellness.DueReminders(byUser[userID], localNow) {
			if s.dedupe && !s.markFired(r.ID, minute) {
				m.RemindersDedupedTotal.Inc()
				continue
			}
			fired++
			m.RemindersFiredTotal.Inc()
			if err := s.dispatcher.Dispatch(ctx, userID, r, localNow); err != nil {
				slog.Warn("reminder dispatch failed",
					"action", "dispatch_reminder",
					"user_id", userID.String(),
					"reminder_id", r.ID,
					"error", err,
				)
			}
		}
	}
	return fired
}

func (s *ReminderScheduler) load() (map[uuid.UUID][]wellness.Reminder, error) {
	rows, err := s.source.Enabled()
	if err != nil {
		return nil, err
	}

	byUser := make(map[uuid.UUID][]wellness.Reminder)
	for _, row := range rows {
		r, err := row.ToWellness()
		if err != nil {
			slog.Warn("skipping unreadable reminder", "reminder_id", row.ID.String(), "error", err)
			continue
		}
		byUser[row.UserID] = append(byUser[row.UserID], r)
	}
	return byUser, nil
}

// markFired records that id fired in minute and reports whether it had not
// already.
func (s *ReminderScheduler) markFired(id string, minute int64) bool {
	s.firedMu.Lock()
	defer s.firedMu.Unlock()
	if s.lastFired[id] == minute {
		return false
	}
	s.lastFired[id] = minute
	return true
}

func (s *ReminderScheduler) pruneFired(minute int64) {
	s.firedMu.Lock()
	defer s.firedMu.Unlock()
	for id, m := range s.lastFired {
		if m != minute {
			delete(s.lastFired, id)
		}
	}
}
