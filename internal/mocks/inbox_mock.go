package mocks

import (
	"context"

	"remindme/internal/application/dto"

	"github.com/stretchr/testify/mock"
)

// MockInbox is a mock implementation of service.Inbox
type MockInbox struct {
	mock.Mock
}

func (m *MockInbox) FetchUnread(ctx context.Context) ([]dto.Message, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.Message), args.Error(1)
}

func (m *MockInbox) MarkRead(ctx context.Context, msg dto.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockInbox) Reply(ctx context.Context, msg dto.Message, text string) error {
	args := m.Called(ctx, msg, text)
	return args.Error(0)
}

// MockReminderService is a mock implementation of service.ReminderService
type MockReminderService struct {
	mock.Mock
}

func (m *MockReminderService) CreateReminder(ctx context.Context, msg dto.Message) (string, error) {
	args := m.Called(ctx, msg)
	return args.String(0), args.Error(1)
}

func (m *MockReminderService) ListReminders(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockReminderService) RemoveReminder(ctx context.Context, msg dto.Message) (string, error) {
	args := m.Called(ctx, msg)
	return args.String(0), args.Error(1)
}

func (m *MockReminderService) RemoveAllReminders(ctx context.Context, msg dto.Message) (string, error) {
	args := m.Called(ctx, msg)
	return args.String(0), args.Error(1)
}

func (m *MockReminderService) DeleteComment(ctx context.Context, msg dto.Message) (string, error) {
	args := m.Called(ctx, msg)
	return args.String(0), args.Error(1)
}
