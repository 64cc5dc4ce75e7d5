package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"remindme/internal/application/dto"
	"remindme/internal/application/render"
	"remindme/internal/domain/entity"
	"remindme/internal/domain/repository"
	"remindme/internal/domain/timeparse"
	appErrors "remindme/internal/pkg/errors"
	"remindme/internal/pkg/logger"

	"gorm.io/gorm"
)

// User-facing replies.
const (
	SaveFailedText   = "Something went wrong saving the reminder"
	NoReminderIDText = "I couldn't find a reminder id to remove."
	NotOwnedText     = "It looks like you don't own this reminder or it doesn't exist."
	DeletedText      = "Reminder deleted."
	DeleteFailedText = "Something went wrong, reminder not deleted."
)

var removeIDPattern = regexp.MustCompile(`(?i)remove!\s(\d+)`)

type reminderService struct {
	reminderRepo repository.ReminderRepository
	formatter    *render.ListFormatter
	links        render.Links
	log          logger.Logger
	now          func() time.Time
}

// NewReminderService creates a new instance of ReminderService implementation.
func NewReminderService(
	reminderRepo repository.ReminderRepository,
	formatter *render.ListFormatter,
	links render.Links,
	log logger.Logger,
) ReminderService {
	return &reminderService{
		reminderRepo: reminderRepo,
		formatter:    formatter,
		links:        links,
		log:          log,
		now:          time.Now,
	}
}

// CreateReminder parses the time and label out of the message and saves a reminder.
func (s *reminderService) CreateReminder(ctx context.Context, msg dto.Message) (string, error) {
	s.log.Info("Processing RemindMe message")

	timeString, _ := timeparse.FindTimeString(msg.Body)
	message, ok := timeparse.FindMessage(msg.Body)
	if !ok {
		s.log.Debug("Couldn't find message, defaulting to message link")
	}

	reminder := entity.NewReminder(s.sourceLink(msg), message, msg.Author, msg.CreatedAt, timeString)
	if reminder.Valid {
		reminder.ValidateAt(s.now())
	}
	if !reminder.Valid {
		s.log.Debug(fmt.Sprintf("Reminder not valid for %s: %v", msg.Author, reminder.Err))
		return reminder.ResultMessage, nil
	}

	if err := s.reminderRepo.Save(ctx, reminder); err != nil {
		s.log.Error(fmt.Sprintf("Failed to save reminder for user %s", msg.Author), err)
		return SaveFailedText, nil
	}
	s.log.Info(fmt.Sprintf("Saved reminder %d for user %s at %s", reminder.ID, msg.Author, entity.RenderTime(reminder.TargetDate)))

	var b strings.Builder
	b.WriteString(reminder.RenderConfirmation())
	b.WriteString("\n\n[Click here](")
	b.WriteString(s.links.Compose("List Of Reminders", "MyReminders!"))
	b.WriteString(") to see all your reminders.")
	return b.String(), nil
}

// ListReminders renders the user's current reminders.
func (s *reminderService) ListReminders(ctx context.Context, userID string) (string, error) {
	s.log.Info("Processing get reminders message")
	return s.remindersString(ctx, userID, false)
}

// RemoveReminder deletes one reminder owned by the sender and shows what is left.
func (s *reminderService) RemoveReminder(ctx context.Context, msg dto.Message) (string, error) {
	s.log.Info("Processing remove reminder message")

	m := removeIDPattern.FindStringSubmatch(msg.Body)
	if m == nil {
		return NoReminderIDText, nil
	}

	var b strings.Builder
	reminder, err := s.findReminder(ctx, m[1])
	switch {
	case errors.Is(err, appErrors.ErrReminderNotFound):
		b.WriteString(NotOwnedText)
	case err != nil:
		return "", err
	case reminder.UserID != msg.Author:
		s.log.Warn(fmt.Sprintf("User %s tried to remove reminder %d owned by someone else", msg.Author, reminder.ID))
		b.WriteString(NotOwnedText)
	default:
		deleted, err := s.reminderRepo.Delete(ctx, reminder.ID)
		if err != nil {
			s.log.Error(fmt.Sprintf("Failed to delete reminder %d", reminder.ID), err)
		}
		if deleted {
			s.log.Info(fmt.Sprintf("Deleted reminder %d for user %s", reminder.ID, msg.Author))
			b.WriteString(DeletedText)
		} else {
			b.WriteString(DeleteFailedText)
		}
	}

	listing, err := s.remindersString(ctx, msg.Author, false)
	if err != nil {
		return "", err
	}
	b.WriteString(" ")
	b.WriteString(listing)
	return b.String(), nil
}

// RemoveAllReminders deletes every reminder of the sender. The listing
// shown is captured before deleting, so it reports what was removed.
func (s *reminderService) RemoveAllReminders(ctx context.Context, msg dto.Message) (string, error) {
	s.log.Info("Processing remove all reminders message")

	previous, err := s.remindersString(ctx, msg.Author, true)
	if err != nil {
		return "", err
	}

	count, err := s.reminderRepo.DeleteByUserID(ctx, msg.Author)
	if err != nil {
		s.log.Error(fmt.Sprintf("Failed to delete reminders for user %s", msg.Author), err)
		return "", fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	s.log.Info(fmt.Sprintf("Deleted %d reminders for user %s", count, msg.Author))

	var b strings.Builder
	if count != 0 {
		b.WriteString("Deleted **")
		b.WriteString(strconv.FormatInt(count, 10))
		b.WriteString("** reminders.\n\n")
	}
	b.WriteString(previous)
	return b.String(), nil
}

// DeleteComment is a placeholder for deleting the bot's own public replies.
func (s *reminderService) DeleteComment(ctx context.Context, msg dto.Message) (string, error) {
	s.log.Info("Processing delete comment")
	return "", nil
}

func (s *reminderService) remindersString(ctx context.Context, userID string, previous bool) (string, error) {
	reminders, err := s.reminderRepo.FindByUserID(ctx, userID)
	if err != nil {
		s.log.Error(fmt.Sprintf("Failed to list reminders for user %s", userID), err)
		return "", fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	s.log.Debug(fmt.Sprintf("Building list with %d reminders", len(reminders)))
	return s.formatter.Format(reminders, previous), nil
}

// findReminder looks up a reminder by its textual id. Ids too large to
// exist are reported as not found.
func (s *reminderService) findReminder(ctx context.Context, rawID string) (*entity.Reminder, error) {
	id, err := strconv.ParseUint(rawID, 10, strconv.IntSize)
	if err != nil {
		return nil, appErrors.ErrReminderNotFound
	}
	reminder, err := s.reminderRepo.FindByID(ctx, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErrors.ErrReminderNotFound
		}
		s.log.Error(fmt.Sprintf("Failed to get reminder %d", id), err)
		return nil, fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	return reminder, nil
}

func (s *reminderService) sourceLink(msg dto.Message) string {
	if msg.Permalink != "" {
		return msg.Permalink
	}
	return s.links.MessageLink(msg.ID)
}
