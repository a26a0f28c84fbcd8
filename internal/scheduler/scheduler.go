// Package scheduler runs the pipeline on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Task is one scheduled run.
type Task func(ctx context.Context) error

// Scheduler fires a Task on a cron spec. A run that is still going when the
// next one is due causes that tick to be skipped.
type Scheduler struct {
	cron     *cron.Cron
	schedule cron.Schedule
	entryID  cron.EntryID
	task     Task
	log      *slog.Logger

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
}

// New parses spec (standard five fields or descriptors like "@daily") in
// the given IANA timezone; an empty timezone means UTC.
func New(spec, timezone string, task Task, log *slog.Logger) (*Scheduler, error) {
	if log == nil {
		log = slog.Default()
	}
	loc := time.UTC
	if timezone != "" {
		l, err := time.LoadLocation(timezone)
		if err != nil {
			return nil, fmt.Errorf("invalid timezone: %w", err)
		}
		loc = l
	}

	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}

	cl := cronLogger{log}
	s := &Scheduler{
		cron:     cron.New(cron.WithLocation(loc), cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		schedule: schedule,
		task:     task,
		log:      log,
		ctx:      context.Background(),
	}
	s.entryID = s.cron.Schedule(schedule, cron.FuncJob(s.run))
	return s, nil
}

func (s *Scheduler) run() {
	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()
	if err := s.RunNow(ctx); err != nil {
		s.log.Error("Scheduled run failed", "error", err)
	}
}

// RunNow runs the task immediately on the caller's goroutine.
func (s *Scheduler) RunNow(ctx context.Context) error {
	start := time.Now()
	s.log.Info("Run started")
	err := s.task(ctx)
	s.log.Info("Run finished", "duration", time.Since(start).Round(time.Millisecond), "ok", err == nil)
	return err
}

// Start begins firing. Runs get a context that is cancelled by Stop or
// when ctx is done.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()
	s.cron.Start()
	s.log.Info("Scheduler started", "next", s.Next())
}

// Stop cancels a running task and waits for it to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()
	<-s.cron.Stop().Done()
}

// Next returns the next fire time. Before Start it is computed from now.
func (s *Scheduler) Next() time.Time {
	if e := s.cron.Entry(s.entryID); !e.Next.IsZero() {
		return e.Next
	}
	return s.NextAfter(time.Now())
}

// NextAfter returns the first fire time after t, in the scheduler's
// timezone.
func (s *Scheduler) NextAfter(t time.Time) time.Time {
	return s.schedule.Next(t.In(s.cron.Location()))
}

type cronLogger struct{ log *slog.Logger }

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
