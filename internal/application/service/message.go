package service

import (
	"context"
	"remindme/internal/application/dto"
)

// MessageService defines how inbound messages are turned into replies.
type MessageService interface {
	// Dispatch picks the command for msg and returns its reply body.
	Dispatch(ctx context.Context, msg dto.Message) (string, error)
	// ProcessMessage dispatches msg, marks it read and sends the reply with footer.
	ProcessMessage(ctx context.Context, inbox Inbox, msg dto.Message) error
	// ProcessMessages drains one batch of unread messages from inbox.
	// It returns how many messages were handled.
	ProcessMessages(ctx context.Context, inbox Inbox) (int, error)
}
