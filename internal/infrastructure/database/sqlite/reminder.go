package sqlite

import (
	"context"
	"errors"
	"fmt"
	"remindme/internal/domain/entity"
	"remindme/internal/domain/repository"

	"gorm.io/gorm"
)

type reminderRepository struct {
	db *gorm.DB
}

// NewReminderRepository creates a new instance of ReminderRepository.
func NewReminderRepository(db *gorm.DB) repository.ReminderRepository {
	return &reminderRepository{db: db}
}

// Save persists a new reminder; GORM fills in reminder.ID.
func (r *reminderRepository) Save(ctx context.Context, reminder *entity.Reminder) error {
	if reminder.ID != 0 {
		return fmt.Errorf("reminder %d is already saved", reminder.ID)
	}
	if err := r.db.WithContext(ctx).Create(reminder).Error; err != nil {
		return fmt.Errorf("failed to create reminder for user %s: %w", reminder.UserID, err)
	}
	return nil
}

// FindByID retrieves a reminder by its ID.
func (r *reminderRepository) FindByID(ctx context.Context, id uint) (*entity.Reminder, error) {
	var reminder entity.Reminder
	if err := r.db.WithContext(ctx).First(&reminder, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("reminder with ID %d not found: %w", id, err)
		}
		return nil, fmt.Errorf("failed to find reminder by id %d: %w", id, err)
	}
	return &reminder, nil
}

// FindByUserID retrieves all reminders for a specific user, soonest first.
func (r *reminderRepository) FindByUserID(ctx context.Context, userID string) ([]*entity.Reminder, error) {
	var reminders []*entity.Reminder
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("target_date asc").
		Order("id asc").
		Find(&reminders).Error; err != nil {
		return nil, fmt.Errorf("failed to find reminders by user_id %s: %w", userID, err)
	}
	return reminders, nil
}

// Delete deletes a reminder by its ID. Only the caller whose statement
// actually removed the row gets true.
func (r *reminderRepository) Delete(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&entity.Reminder{}, id)
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete reminder %d: %w", id, res.Error)
	}
	return res.RowsAffected == 1, nil
}

// DeleteByUserID deletes all reminders for a specific user.
func (r *reminderRepository) DeleteByUserID(ctx context.Context, userID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&entity.Reminder{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete reminders for user %s: %w", userID, res.Error)
	}
	return res.RowsAffected, nil
}
