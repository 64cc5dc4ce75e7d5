package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"remindme/internal/application/dto"
	"remindme/internal/application/render"
	"remindme/internal/domain/entity"
	"remindme/internal/infrastructure/database/sqlite"
	"remindme/internal/infrastructure/database/sqlite/sqlitetest"
	"remindme/internal/mocks"
	"remindme/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	testLinks = render.Links{
		AccountName: "RemindMeBot",
		WebURL:      "https://www.reddit.com",
		InfoURL:     "https://www.reddit.com/r/RemindMeBot/comments/24duzp/",
		OwnerName:   "Watchful1",
	}
	testCreated = time.Date(2019, time.January, 1, 4, 0, 0, 0, time.UTC)
)

func newTestReminderService(t *testing.T) (*reminderService, *entityStore) {
	t.Helper()
	repo := sqlite.NewReminderRepository(sqlitetest.NewDB(t))
	svc := NewReminderService(repo, render.NewListFormatter(testLinks, 0), testLinks, logger.NewNop()).(*reminderService)
	svc.now = func() time.Time { return testCreated }
	return svc, &entityStore{t: t, svc: svc}
}

// entityStore seeds reminders straight through the repository.
type entityStore struct {
	t   *testing.T
	svc *reminderService
}

func (e *entityStore) add(userID, message string, target time.Time) *entity.Reminder {
	e.t.Helper()
	r := &entity.Reminder{
		Source:        "https://www.reddit.com/message/messages/seed",
		Message:       message,
		UserID:        userID,
		RequestedDate: testCreated,
		TargetDate:    target,
	}
	require.NoError(e.t, e.svc.reminderRepo.Save(context.Background(), r))
	return r
}

func (e *entityStore) list(userID string) []*entity.Reminder {
	e.t.Helper()
	reminders, err := e.svc.reminderRepo.FindByUserID(context.Background(), userID)
	require.NoError(e.t, err)
	return reminders
}

func message(author, body string) dto.Message {
	return dto.Message{ID: "abc123", Author: author, Body: body, CreatedAt: testCreated}
}

func TestCreateReminder(t *testing.T) {
	svc, store := newTestReminderService(t)

	reply, err := svc.CreateReminder(context.Background(), message("Watchful1", "[https://www.reddit.com/r/test/comments/abc]\nRemindMe! 1 day"))
	require.NoError(t, err)

	assert.Contains(t, reply, "I will be messaging you on 2019-01-02 04:00:00 UTC to remind you of **https://www.reddit.com/r/test/comments/abc**")
	assert.Contains(t, reply, "to see all your reminders.")

	reminders := store.list("Watchful1")
	require.Len(t, reminders, 1)
	assert.Equal(t, "https://www.reddit.com/r/test/comments/abc", reminders[0].Message)
	assert.Equal(t, "https://www.reddit.com/message/messages/abc123", reminders[0].Source)
	assert.True(t, reminders[0].TargetDate.Equal(testCreated.Add(24*time.Hour)))
}

func TestCreateReminder_BracketedMessage(t *testing.T) {
	svc, store := newTestReminderService(t)

	reply, err := svc.CreateReminder(context.Background(), message("Watchful1", "[reminderstring]\nRemindMe! 1 day"))
	require.NoError(t, err)
	assert.Contains(t, reply, "reminderstring")
	assert.NotContains(t, reply, "Could not")
	assert.NotContains(t, reply, "already passed")

	reminders := store.list("Watchful1")
	require.Len(t, reminders, 1)
	assert.Equal(t, "reminderstring", reminders[0].Message)
	assert.True(t, reminders[0].TargetDate.Equal(testCreated.Add(24*time.Hour)))

	listing, err := svc.ListReminders(context.Background(), "Watchful1")
	require.NoError(t, err)
	assert.Contains(t, listing, "|reminderstring|")
}

func TestCreateReminder_UsesPermalinkAsSource(t *testing.T) {
	svc, store := newTestReminderService(t)
	msg := message("Watchful1", "RemindMe! 2 hours")
	msg.Permalink = "https://t.me/c/1/2"

	reply, err := svc.CreateReminder(context.Background(), msg)
	require.NoError(t, err)
	assert.Contains(t, reply, "**https://t.me/c/1/2**")

	reminders := store.list("Watchful1")
	require.Len(t, reminders, 1)
	assert.Equal(t, "https://t.me/c/1/2", reminders[0].Source)
}

func TestCreateReminder_NoTime(t *testing.T) {
	svc, store := newTestReminderService(t)

	reply, err := svc.CreateReminder(context.Background(), message("Watchful1", "RemindMe! whenever"))
	require.NoError(t, err)
	assert.Equal(t, "Could not find a time in message", reply)
	assert.Empty(t, store.list("Watchful1"))
}

func TestCreateReminder_PassedWhileQueued(t *testing.T) {
	svc, store := newTestReminderService(t)
	svc.now = func() time.Time { return testCreated.Add(48 * time.Hour) }

	reply, err := svc.CreateReminder(context.Background(), message("Watchful1", "RemindMe! 1 day"))
	require.NoError(t, err)
	assert.Equal(t, "This time, 2019-01-02 04:00:00 UTC, has already passed", reply)
	assert.Empty(t, store.list("Watchful1"))
}

func TestCreateReminder_SaveFailure(t *testing.T) {
	repo := new(mocks.MockReminderRepository)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*entity.Reminder")).Return(errors.New("disk full"))

	svc := NewReminderService(repo, render.NewListFormatter(testLinks, 0), testLinks, logger.NewNop()).(*reminderService)
	svc.now = func() time.Time { return testCreated }

	reply, err := svc.CreateReminder(context.Background(), message("Watchful1", "RemindMe! 1 day"))
	require.NoError(t, err)
	assert.Equal(t, SaveFailedText, reply)
	repo.AssertExpectations(t)
}

func TestListReminders_Empty(t *testing.T) {
	svc, _ := newTestReminderService(t)

	reply, err := svc.ListReminders(context.Background(), "Watchful1")
	require.NoError(t, err)
	assert.Equal(t, render.NoRemindersText, reply)
}

func TestListReminders_OnlyOwn(t *testing.T) {
	svc, store := newTestReminderService(t)
	store.add("Watchful1", "mine", testCreated.Add(time.Hour))
	store.add("Watchful2", "theirs", testCreated.Add(time.Hour))

	reply, err := svc.ListReminders(context.Background(), "Watchful1")
	require.NoError(t, err)
	assert.Contains(t, reply, "Your current reminders:")
	assert.Contains(t, reply, "|mine|")
	assert.NotContains(t, reply, "theirs")
}

func TestRemoveReminder_NoID(t *testing.T) {
	svc, _ := newTestReminderService(t)

	reply, err := svc.RemoveReminder(context.Background(), message("Watchful1", "Remove! test"))
	require.NoError(t, err)
	assert.Equal(t, NoReminderIDText, reply)
}

func TestRemoveReminder_NotOwned(t *testing.T) {
	svc, store := newTestReminderService(t)
	r := store.add("Watchful2", "theirs", testCreated.Add(time.Hour))

	reply, err := svc.RemoveReminder(context.Background(), message("Watchful1", "Remove! "+idString(r)))
	require.NoError(t, err)
	assert.Contains(t, reply, NotOwnedText)
	assert.Contains(t, reply, render.NoRemindersText)
	assert.Len(t, store.list("Watchful2"), 1)
}

func TestRemoveReminder_Missing(t *testing.T) {
	svc, _ := newTestReminderService(t)

	reply, err := svc.RemoveReminder(context.Background(), message("Watchful1", "Remove! 99999999999999999999999"))
	require.NoError(t, err)
	assert.Contains(t, reply, NotOwnedText)
}

func TestRemoveReminder_NotOwnedMatchesMissing(t *testing.T) {
	svc, store := newTestReminderService(t)
	r := store.add("Watchful2", "theirs", testCreated.Add(time.Hour))
	require.NotEqual(t, uint(4242), r.ID)

	notOwned, err := svc.RemoveReminder(context.Background(), message("Watchful1", "Remove! "+idString(r)))
	require.NoError(t, err)
	missing, err := svc.RemoveReminder(context.Background(), message("Watchful1", "Remove! 4242"))
	require.NoError(t, err)

	assert.Equal(t, missing, notOwned)
	assert.True(t, strings.HasPrefix(notOwned, NotOwnedText))
}

func TestRemoveReminder_DeleteFailed(t *testing.T) {
	repo := new(mocks.MockReminderRepository)
	repo.On("FindByID", mock.Anything, uint(7)).Return(&entity.Reminder{ID: 7, UserID: "Watchful1", Message: "mine"}, nil)
	repo.On("Delete", mock.Anything, uint(7)).Return(false, nil)
	repo.On("FindByUserID", mock.Anything, "Watchful1").Return([]*entity.Reminder{}, nil)

	svc := NewReminderService(repo, render.NewListFormatter(testLinks, 0), testLinks, logger.NewNop())

	reply, err := svc.RemoveReminder(context.Background(), message("Watchful1", "Remove! 7"))
	require.NoError(t, err)
	assert.Equal(t, DeleteFailedText+" "+render.NoRemindersText, reply)
	assert.NotContains(t, reply, DeletedText)
	repo.AssertExpectations(t)
}

func TestRemoveReminder_DeleteError(t *testing.T) {
	repo := new(mocks.MockReminderRepository)
	repo.On("FindByID", mock.Anything, uint(7)).Return(&entity.Reminder{ID: 7, UserID: "Watchful1"}, nil)
	repo.On("Delete", mock.Anything, uint(7)).Return(false, errors.New("database is locked"))
	repo.On("FindByUserID", mock.Anything, "Watchful1").Return([]*entity.Reminder{}, nil)

	svc := NewReminderService(repo, render.NewListFormatter(testLinks, 0), testLinks, logger.NewNop())

	reply, err := svc.RemoveReminder(context.Background(), message("Watchful1", "Remove! 7"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(reply, DeleteFailedText))
}

func TestRemoveReminder_Deletes(t *testing.T) {
	svc, store := newTestReminderService(t)
	r1 := store.add("Watchful1", "first", testCreated.Add(time.Hour))
	store.add("Watchful1", "second", testCreated.Add(2*time.Hour))

	reply, err := svc.RemoveReminder(context.Background(), message("Watchful1", "Remove! "+idString(r1)))
	require.NoError(t, err)
	assert.Contains(t, reply, DeletedText)
	assert.Contains(t, reply, "|second|")
	assert.NotContains(t, reply, "|first|")

	remaining := store.list("Watchful1")
	require.Len(t, remaining, 1)
	assert.Equal(t, "second", remaining[0].Message)
}

func TestRemoveAllReminders(t *testing.T) {
	svc, store := newTestReminderService(t)
	store.add("Watchful1", "first", testCreated.Add(time.Hour))
	store.add("Watchful1", "second", testCreated.Add(2*time.Hour))
	store.add("Watchful2", "theirs", testCreated.Add(time.Hour))

	reply, err := svc.RemoveAllReminders(context.Background(), message("Watchful1", "RemoveAll!"))
	require.NoError(t, err)
	assert.Contains(t, reply, "Deleted **2** reminders.\n\nYour previous reminders:")
	assert.Contains(t, reply, "|first|")
	assert.Contains(t, reply, "|second|")

	assert.Empty(t, store.list("Watchful1"))
	assert.Len(t, store.list("Watchful2"), 1)
}

func TestRemoveAllReminders_None(t *testing.T) {
	svc, _ := newTestReminderService(t)

	reply, err := svc.RemoveAllReminders(context.Background(), message("Watchful1", "RemoveAll!"))
	require.NoError(t, err)
	assert.Equal(t, render.NoRemindersText, reply)
}

func TestDeleteComment_Empty(t *testing.T) {
	svc, _ := newTestReminderService(t)

	reply, err := svc.DeleteComment(context.Background(), message("Watchful1", "Delete! abc"))
	require.NoError(t, err)
	assert.Empty(t, reply)
}

func idString(r *entity.Reminder) string {
	return strconv.FormatUint(uint64(r.ID), 10)
}
