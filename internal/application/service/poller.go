package service

import "context"

// PollerService periodically drains registered inboxes through MessageService.
type PollerService interface {
	// Register schedules inbox to be polled on spec. Registering a name again
	// replaces the earlier job.
	Register(name, spec string, inbox Inbox) error
	// Unregister cancels the job for name, if any.
	Unregister(name string)
	// PollNow drains the named inbox once. It returns the number of processed
	// messages, or zero when a poll for that inbox is already in progress.
	PollNow(ctx context.Context, name string) (int, error)
	// Stop stops the underlying scheduler.
	Stop()
}
