// Package scheduler owns the single recurring publish job (Mon, Wed,
// Fri at 09:00 local time) and any one-shot scheduled publishes.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"postflow/internal/config"
	"postflow/internal/domain"
	"postflow/internal/pipeline"
	"postflow/internal/store"
)

// ErrInvalidScheduleTime reports an unparseable one-shot timestamp.
var ErrInvalidScheduleTime = errors.New("invalid schedule time")

// Mon/Wed/Fri at 09:00.
const recurringSpec = "0 9 * * 1,3,5"

type Service struct {
	cron     *cron.Cron
	pipeline *pipeline.Pipeline
	store    store.Store
	mode     string

	mu      sync.Mutex
	running bool
	jobID   string
	entryID cron.EntryID
	timers  []*time.Timer
}

func NewService(p *pipeline.Pipeline, st store.Store, mode string) *Service {
	return &Service{
		cron:     cron.New(),
		pipeline: p,
		store:    st,
		mode:     mode,
	}
}

// Start begins cron processing. Job callbacks run on the cron
// goroutine, detached from HTTP request handling.
func (s *Service) Start() {
	s.mu.Lock()
	s.running = true
	s.mu.Unlock()
	s.cron.Start()
	log.Info().Msg("scheduler started")
}

// Running reports whether the cron executor is active.
func (s *Service) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Shutdown stops future fires; in-flight jobs run to completion.
func (s *Service) Shutdown() {
	s.mu.Lock()
	s.running = false
	for _, t := range s.timers {
		t.Stop()
	}
	s.timers = nil
	s.mu.Unlock()
	<-s.cron.Stop().Done()
	log.Info().Msg("scheduler stopped")
}

// Schedule activates the recurring job. The check-and-set on the job
// slot is atomic under the mutex: calling Schedule while a job is
// already held returns the existing identifier. Store calls stay
// outside the critical section so a slow database cannot stall
// Running, NextRun, or Stop.
func (s *Service) Schedule(ctx context.Context) (string, error) {
	s.mu.Lock()
	if s.jobID != "" {
		held := s.jobID
		s.mu.Unlock()
		return held, nil
	}
	s.mu.Unlock()

	content := ""
	if s.mode == config.ModeStatic {
		next, err := s.store.NextScheduledContent(ctx)
		if err != nil {
			return "", err
		}
		content = next
	}

	s.mu.Lock()
	// Re-check: another caller may have taken the slot during the
	// snapshot fetch.
	if s.jobID != "" {
		held := s.jobID
		s.mu.Unlock()
		return held, nil
	}

	entryID, err := s.cron.AddFunc(recurringSpec, s.fire)
	if err != nil {
		s.mu.Unlock()
		return "", err
	}

	jobID := "job_" + uuid.NewString()
	s.jobID = jobID
	s.entryID = entryID
	nextRun := s.cron.Entry(entryID).Schedule.Next(time.Now())
	s.mu.Unlock()

	rec := domain.ScheduleRecord{
		JobID:     jobID,
		Content:   content,
		CreatedAt: time.Now(),
		NextRun:   nextRun,
	}
	if err := s.store.InsertSchedule(ctx, rec); err != nil {
		log.Error().Err(err).Msg("failed to persist schedule record")
	}

	log.Info().Str("job_id", jobID).Time("next_run", nextRun).Msg("recurring posts scheduled")
	return jobID, nil
}

// fire runs one scheduled publish. Pipeline failures are recorded by
// the pipeline itself; nothing propagates here.
func (s *Service) fire() {
	ctx := context.Background()
	if s.mode == config.ModeStatic {
		content, err := s.store.NextScheduledContent(ctx)
		if err != nil {
			log.Error().Err(err).Msg("failed to load scheduled content")
			content = domain.DefaultContent
		}
		_, _ = s.pipeline.PublishContent(ctx, content)
		return
	}
	_, _ = s.pipeline.Run(ctx)
}

// Stop removes the recurring job. It reports whether a job was
// actually cleared; historical schedule records are untouched.
func (s *Service) Stop() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.jobID == "" {
		return false
	}
	s.cron.Remove(s.entryID)
	s.jobID = ""
	s.entryID = 0
	log.Info().Msg("scheduled posts stopped")
	return true
}

// ScheduleOnce registers a single future publish of the given content.
func (s *Service) ScheduleOnce(content string, at time.Time) string {
	jobID := "job_" + uuid.NewString()
	delay := time.Until(at)
	if delay < 0 {
		delay = 0
	}

	// The timer pointer is published under the mutex; the callback
	// reads it under the same mutex before pruning.
	s.mu.Lock()
	var timer *time.Timer
	timer = time.AfterFunc(delay, func() {
		s.mu.Lock()
		s.removeTimerLocked(timer)
		s.mu.Unlock()
		_, _ = s.pipeline.PublishContent(context.Background(), content)
	})
	s.timers = append(s.timers, timer)
	s.mu.Unlock()

	log.Info().Str("job_id", jobID).Time("at", at).Msg("one-shot post scheduled")
	return jobID
}

// removeTimerLocked drops a fired one-shot timer so the slice does not
// grow for the process lifetime. Caller holds s.mu.
func (s *Service) removeTimerLocked(t *time.Timer) {
	for i, cur := range s.timers {
		if cur == t {
			s.timers = append(s.timers[:i], s.timers[i+1:]...)
			return
		}
	}
}

// ParseScheduleTime parses an ISO-8601 timestamp for a one-shot job.
func ParseScheduleTime(value string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidScheduleTime
}

// NextRun reports the next fire time: the live cron entry when the
// recurring job is held, otherwise the computed next slot.
func (s *Service) NextRun() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.jobID != "" {
		if next := s.cron.Entry(s.entryID).Next; !next.IsZero() {
			return next
		}
	}
	return NextPostTime(time.Now())
}

// NextPostTime computes the next Monday, Wednesday, or Friday at
// 09:00:00 strictly after now. Weekday indices follow 0=Monday.
func NextPostTime(now time.Time) time.Time {
	weekday := (int(now.Weekday()) + 6) % 7

	targetDays := []int{0, 2, 4}
	nextDay := 7
	for _, d := range targetDays {
		if d > weekday {
			nextDay = d
			break
		}
	}
	daysToAdd := (nextDay - weekday) % 7

	next := time.Date(now.Year(), now.Month(), now.Day(), 9, 0, 0, 0, now.Location()).
		AddDate(0, 0, daysToAdd)
	if !next.After(now) {
		next = next.AddDate(0, 0, 7)
	}
	return next
}
