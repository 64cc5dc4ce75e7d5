package service

import (
	"context"
	"fmt"
	"sync"

	"remindme/internal/infrastructure/scheduler"
	appErrors "remindme/internal/pkg/errors"
	"remindme/internal/pkg/logger"

	"github.com/robfig/cron/v3"
)

// pollJob is one registered inbox. running serialises polls of the same
// inbox between cron ticks and PollNow.
type pollJob struct {
	inbox   Inbox
	entryID cron.EntryID
	running sync.Mutex
}

type pollerService struct {
	cronScheduler *scheduler.Scheduler
	messageSvc    MessageService
	log           logger.Logger
	// map[inboxName]*pollJob
	jobStore map[string]*pollJob
	mu       sync.Mutex // Protect jobStore access
}

// NewPollerService creates a new instance of PollerService implementation.
func NewPollerService(cronScheduler *scheduler.Scheduler, messageSvc MessageService, log logger.Logger) PollerService {
	return &pollerService{
		cronScheduler: cronScheduler,
		messageSvc:    messageSvc,
		log:           log,
		jobStore:      make(map[string]*pollJob),
	}
}

func (s *pollerService) storeJob(name string, job *pollJob) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobStore[name] = job
	s.log.Debug(fmt.Sprintf("Stored job ID %d for inbox %s", job.entryID, name))
}

func (s *pollerService) removeJob(name string) (*pollJob, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobStore[name]
	if ok {
		delete(s.jobStore, name)
	}
	return job, ok
}

func (s *pollerService) getJob(name string) (*pollJob, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobStore[name]
	return job, ok
}

// Register schedules inbox to be polled on spec.
func (s *pollerService) Register(name, spec string, inbox Inbox) error {
	s.Unregister(name)

	job := &pollJob{inbox: inbox}
	jobFunc := func() {
		// Use background context for cron job execution
		if _, err := s.poll(context.Background(), name, job); err != nil {
			s.log.Error(fmt.Sprintf("Error polling inbox %s", name), err)
		}
	}

	entryID, err := s.cronScheduler.AddJob(spec, jobFunc)
	if err != nil {
		return fmt.Errorf("%w: %v", appErrors.ErrScheduling, err)
	}
	job.entryID = entryID

	s.storeJob(name, job)
	s.log.Info(fmt.Sprintf("Scheduled polling for inbox %s on %q (Job ID: %d)", name, spec, entryID))
	s.log.Debug(fmt.Sprintf("Current cron entries: %d", len(s.cronScheduler.GetEntries())))
	return nil
}

// Unregister cancels the job for name.
func (s *pollerService) Unregister(name string) {
	if job, ok := s.removeJob(name); ok {
		s.cronScheduler.RemoveJob(job.entryID)
		s.log.Info(fmt.Sprintf("Cancelled polling for inbox %s (Job ID: %d)", name, job.entryID))
	} else {
		s.log.Debug(fmt.Sprintf("No active polling found for inbox %s to cancel.", name))
	}
}

// PollNow drains the named inbox once.
func (s *pollerService) PollNow(ctx context.Context, name string) (int, error) {
	job, ok := s.getJob(name)
	if !ok {
		return 0, fmt.Errorf("%w: inbox %s is not registered", appErrors.ErrScheduling, name)
	}
	return s.poll(ctx, name, job)
}

func (s *pollerService) poll(ctx context.Context, name string, job *pollJob) (int, error) {
	if !job.running.TryLock() {
		s.log.Debug(fmt.Sprintf("Inbox %s is already being polled, skipping", name))
		return 0, nil
	}
	defer job.running.Unlock()

	n, err := s.messageSvc.ProcessMessages(ctx, job.inbox)
	if n > 0 {
		s.log.Info(fmt.Sprintf("Processed %d messages from inbox %s", n, name))
	}
	return n, err
}

// Stop stops the underlying scheduler.
func (s *pollerService) Stop() {
	s.cronScheduler.Stop()
}
