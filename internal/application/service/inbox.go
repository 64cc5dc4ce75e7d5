package service

import (
	"context"
	"remindme/internal/application/dto"
)

// Inbox is a messaging platform seen from the bot: a source of unread
// private messages that can be marked read and answered.
type Inbox interface {
	// FetchUnread returns the current batch of unread messages.
	FetchUnread(ctx context.Context) ([]dto.Message, error)
	// MarkRead acknowledges a message so it is not fetched again.
	MarkRead(ctx context.Context, msg dto.Message) error
	// Reply sends text as an answer to msg.
	Reply(ctx context.Context, msg dto.Message, text string) error
}
