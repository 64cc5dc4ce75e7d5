package service

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"

	"remindme/internal/application/dto"
	"remindme/internal/application/render"
	appErrors "remindme/internal/pkg/errors"
	"remindme/internal/pkg/logger"

	"github.com/google/uuid"
)

const (
	NoCommandText       = "I couldn't find anything in your message."
	ProcessingErrorText = "Something went wrong processing your message, please try again later."
)

// command pairs a keyword test with its handler. Commands are evaluated in
// slice order and the first match wins, so "RemindMe" beats every other
// keyword when several appear in one message.
type command struct {
	name    string
	matches func(lowerBody string) bool
	handle  func(ctx context.Context, msg dto.Message) (string, error)
}

func keyword(k string) func(string) bool {
	return func(lowerBody string) bool { return strings.Contains(lowerBody, k) }
}

type messageService struct {
	reminderSvc ReminderService
	links       render.Links
	log         logger.Logger
	commands    []command
}

// NewMessageService creates a new instance of MessageService implementation.
func NewMessageService(reminderSvc ReminderService, links render.Links, log logger.Logger) MessageService {
	s := &messageService{
		reminderSvc: reminderSvc,
		links:       links,
		log:         log,
	}
	s.commands = []command{
		{name: "remindme", matches: keyword("remindme"), handle: reminderSvc.CreateReminder},
		{name: "myreminders", matches: keyword("myreminders!"), handle: func(ctx context.Context, msg dto.Message) (string, error) {
			return reminderSvc.ListReminders(ctx, msg.Author)
		}},
		{name: "remove", matches: keyword("remove!"), handle: reminderSvc.RemoveReminder},
		{name: "removeall", matches: keyword("removeall!"), handle: reminderSvc.RemoveAllReminders},
		{name: "delete", matches: keyword("delete!"), handle: reminderSvc.DeleteComment},
	}
	return s
}

// Dispatch runs the first command whose keyword appears in the body.
func (s *messageService) Dispatch(ctx context.Context, msg dto.Message) (string, error) {
	body := strings.ToLower(msg.Body)
	for _, c := range s.commands {
		if c.matches(body) {
			s.log.Debug(fmt.Sprintf("Message %s matched command %s", msg.ID, c.name))
			return c.handle(ctx, msg)
		}
	}
	return NoCommandText, nil
}

// ProcessMessage handles one message end to end. The message is marked read
// exactly once whatever happens, including a panic in a handler.
func (s *messageService) ProcessMessage(ctx context.Context, inbox Inbox, msg dto.Message) (err error) {
	s.log.Info(fmt.Sprintf("Message /u/%s : %s", msg.Author, msg.ID))

	marked := false
	markRead := func() {
		if marked {
			return
		}
		marked = true
		if mErr := inbox.MarkRead(ctx, msg); mErr != nil {
			s.log.Error(fmt.Sprintf("Failed to mark message %s read", msg.ID), mErr)
		}
	}
	defer markRead()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic processing message %s: %v", msg.ID, r)
			s.log.Error(fmt.Sprintf("Error processing message: %s : %s\n%s", msg.ID, msg.Author, debug.Stack()), err)
		}
	}()

	reply, dErr := s.Dispatch(ctx, msg)
	markRead()
	if dErr != nil {
		s.log.Error(fmt.Sprintf("Error processing message: %s : %s", msg.ID, msg.Author), dErr)
		reply = ProcessingErrorText
	}

	if rErr := inbox.Reply(ctx, msg, reply+s.links.Footer()); rErr != nil {
		s.log.Error(fmt.Sprintf("Failed to reply to message %s", msg.ID), rErr)
		return fmt.Errorf("%w: %v", appErrors.ErrPlatformAPI, rErr)
	}
	return dErr
}

// ProcessMessages fetches one batch and processes it sequentially. A failure
// on one message is logged and does not stop the rest of the batch.
func (s *messageService) ProcessMessages(ctx context.Context, inbox Inbox) (int, error) {
	batchID := uuid.NewString()

	messages, err := inbox.FetchUnread(ctx)
	if err != nil {
		s.log.Error(fmt.Sprintf("batch %s: failed to fetch unread messages", batchID), err)
		return 0, fmt.Errorf("%w: %v", appErrors.ErrPlatformAPI, err)
	}
	if len(messages) == 0 {
		return 0, nil
	}
	s.log.Info(fmt.Sprintf("batch %s: processing %d messages", batchID, len(messages)))

	processed := 0
	for _, msg := range messages {
		if ctx.Err() != nil {
			s.log.Warn(fmt.Sprintf("batch %s: stopping early, %d messages left unread", batchID, len(messages)-processed))
			return processed, ctx.Err()
		}
		if err := s.ProcessMessage(ctx, inbox, msg); err != nil {
			s.log.Warn(fmt.Sprintf("batch %s: message %s from %s failed: %v", batchID, msg.ID, msg.Author, err))
		}
		processed++
	}
	s.log.Info(fmt.Sprintf("batch %s: done", batchID))
	return processed, nil
}
