package service

import (
	"context"
	"remindme/internal/application/dto"
)

// ReminderService defines the command handlers behind the bot's keywords.
// Each returns the reply body (without footer).
type ReminderService interface {
	// CreateReminder handles "RemindMe! <time> [message]".
	CreateReminder(ctx context.Context, msg dto.Message) (string, error)
	// ListReminders renders the user's current reminders.
	ListReminders(ctx context.Context, userID string) (string, error)
	// RemoveReminder handles "Remove! <id>".
	RemoveReminder(ctx context.Context, msg dto.Message) (string, error)
	// RemoveAllReminders handles "RemoveAll!".
	RemoveAllReminders(ctx context.Context, msg dto.Message) (string, error)
	// DeleteComment handles "Delete! <id>". Not supported yet; always empty.
	DeleteComment(ctx context.Context, msg dto.Message) (string, error)
}
