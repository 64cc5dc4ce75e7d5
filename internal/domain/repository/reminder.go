package repository

import (
	"context"
	"remindme/internal/domain/entity"
)

// ReminderRepository defines the interface for reminder data operations.
type ReminderRepository interface {
	// Save persists a new reminder and assigns its ID.
	Save(ctx context.Context, reminder *entity.Reminder) error
	// FindByID retrieves a reminder by its ID.
	FindByID(ctx context.Context, id uint) (*entity.Reminder, error)
	// FindByUserID retrieves all reminders owned by a user, soonest first.
	FindByUserID(ctx context.Context, userID string) ([]*entity.Reminder, error)
	// Delete removes one reminder. It reports whether this call removed it.
	Delete(ctx context.Context, id uint) (bool, error)
	// DeleteByUserID removes every reminder owned by a user and returns the count.
	DeleteByUserID(ctx context.Context, userID string) (int64, error)
}
