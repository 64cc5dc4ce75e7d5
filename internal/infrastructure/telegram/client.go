// Package telegram implements the bot's inbox on the Telegram Bot API.
package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"remindme/internal/application/dto"
	appErrors "remindme/internal/pkg/errors"
	"remindme/internal/pkg/logger"
	"remindme/internal/pkg/textbuilder"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// MaxMessageLength is Telegram's limit for one text message, in characters.
const MaxMessageLength = 4096

const updateLimit = 100

// botAPI is the part of tgbotapi.BotAPI the inbox uses.
type botAPI interface {
	GetUpdates(config tgbotapi.UpdateConfig) ([]tgbotapi.Update, error)
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Client polls getUpdates and answers in the originating chat.
type Client struct {
	bot         botAPI
	accountName string
	log         logger.Logger

	mu     sync.Mutex
	offset int // next update id to request
}

// NewClient logs in with token and returns a client for that bot.
func NewClient(token string, log logger.Logger) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: telegram bot token is required", appErrors.ErrInvalidConfig)
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("%w: telegram login: %v", appErrors.ErrPlatformAPI, err)
	}
	log.Info("Logged into telegram as @" + bot.Self.UserName)
	return newClient(bot, bot.Self.UserName, log), nil
}

func newClient(bot botAPI, accountName string, log logger.Logger) *Client {
	return &Client{bot: bot, accountName: accountName, log: log}
}

// AccountName returns the bot's username.
func (c *Client) AccountName() string {
	return c.accountName
}

// FetchUnread returns text messages received since the last acknowledged
// update. Updates that carry no text are dropped; they are acknowledged here
// only when no text message precedes them, since acknowledging an update
// also acknowledges every earlier one.
func (c *Client) FetchUnread(ctx context.Context) ([]dto.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	cfg := tgbotapi.NewUpdate(c.offset)
	c.mu.Unlock()
	cfg.Limit = updateLimit
	cfg.AllowedUpdates = []string{"message"}

	updates, err := c.bot.GetUpdates(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: getUpdates: %v", appErrors.ErrPlatformAPI, err)
	}

	messages := make([]dto.Message, 0, len(updates))
	for _, u := range updates {
		msg, ok := toMessage(u)
		if !ok {
			if len(messages) == 0 {
				c.ack(u.UpdateID)
			}
			continue
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

func toMessage(u tgbotapi.Update) (dto.Message, bool) {
	m := u.Message
	if m == nil || strings.TrimSpace(m.Text) == "" || m.Chat == nil {
		return dto.Message{}, false
	}
	author := strconv.FormatInt(m.Chat.ID, 10)
	if m.From != nil {
		author = strconv.FormatInt(m.From.ID, 10)
	}
	msg := dto.Message{
		ID:        strconv.Itoa(u.UpdateID),
		Body:      m.Text,
		Author:    author,
		CreatedAt: m.Time().UTC(),
		ReplyTo:   fmt.Sprintf("%d:%d", m.Chat.ID, m.MessageID),
	}
	if m.Chat.UserName != "" {
		msg.Permalink = fmt.Sprintf("https://t.me/%s/%d", m.Chat.UserName, m.MessageID)
	} else {
		msg.Permalink = fmt.Sprintf("telegram message %d", m.MessageID)
	}
	return msg, true
}

func (c *Client) ack(updateID int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if updateID >= c.offset {
		c.offset = updateID + 1
	}
}

// MarkRead acknowledges the update so the next getUpdates skips it.
func (c *Client) MarkRead(ctx context.Context, msg dto.Message) error {
	id, err := strconv.Atoi(msg.ID)
	if err != nil {
		return fmt.Errorf("invalid telegram update id %q: %w", msg.ID, err)
	}
	c.ack(id)
	return nil
}

// Reply sends text to the chat msg came from, quoting the original message
// on the first chunk.
func (c *Client) Reply(ctx context.Context, msg dto.Message, text string) error {
	chatID, messageID, err := parseReplyTo(msg.ReplyTo)
	if err != nil {
		return err
	}
	for i, chunk := range textbuilder.Split(text, MaxMessageLength) {
		if err := ctx.Err(); err != nil {
			return err
		}
		out := tgbotapi.NewMessage(chatID, chunk)
		out.DisableWebPagePreview = true
		if i == 0 {
			out.ReplyToMessageID = messageID
		}
		if _, err := c.bot.Send(out); err != nil {
			return fmt.Errorf("%w: sendMessage to %d: %v", appErrors.ErrPlatformAPI, chatID, err)
		}
	}
	c.log.Debug(fmt.Sprintf("Replied to telegram chat %d", chatID))
	return nil
}

func parseReplyTo(s string) (int64, int, error) {
	chat, message, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, fmt.Errorf("invalid telegram reply handle %q", s)
	}
	chatID, err := strconv.ParseInt(chat, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid telegram chat id in %q: %w", s, err)
	}
	messageID, err := strconv.Atoi(message)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid telegram message id in %q: %w", s, err)
	}
	return chatID, messageID, nil
}
