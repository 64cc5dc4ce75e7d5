// Package line adapts LINE webhook deliveries to the bot's inbox.
package line

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"remindme/internal/application/dto"
	appErrors "remindme/internal/pkg/errors"
	"remindme/internal/pkg/logger"
	"remindme/internal/pkg/textbuilder"

	"github.com/line/line-bot-sdk-go/v7/linebot"
)

const (
	// MaxMessageLength is LINE's limit for one text message, in characters.
	MaxMessageLength = 5000
	// MaxReplyMessages is how many messages one reply token may carry.
	MaxReplyMessages = 5
)

// Client wraps the linebot.Client.
type Client struct {
	*linebot.Client
	log logger.Logger
}

// NewClient creates a LINE Bot client from the channel credentials.
func NewClient(channelSecret, channelToken string, log logger.Logger) (*Client, error) {
	if channelSecret == "" || channelToken == "" {
		return nil, fmt.Errorf("%w: CHANNEL_SECRET and CHANNEL_ACCESS_TOKEN must be set", appErrors.ErrInvalidConfig)
	}
	bot, err := linebot.New(channelSecret, channelToken)
	if err != nil {
		return nil, fmt.Errorf("%w: creating LINE client: %v", appErrors.ErrPlatformAPI, err)
	}
	log.Info("Successfully created LINE Bot client.")
	return &Client{
		Client: bot,
		log:    log,
	}, nil
}

// ParseRequest parses and verifies incoming webhook requests.
func (c *Client) ParseRequest(r *http.Request) ([]*linebot.Event, error) {
	return c.Client.ParseRequest(r)
}

// SendMessages sends one or more messages using the ReplyMessage API.
func (c *Client) SendMessages(replyToken string, messages ...linebot.SendingMessage) error {
	if _, err := c.ReplyMessage(replyToken, messages...).Do(); err != nil {
		return fmt.Errorf("%w: LINE reply: %v", appErrors.ErrPlatformAPI, err)
	}
	return nil
}

// NewBatch turns one webhook delivery into an inbox holding its text messages.
func (c *Client) NewBatch(events []*linebot.Event) *Batch {
	return NewBatch(events, c.SendMessages, c.log)
}

// NewBatch builds a batch whose replies go through send.
func NewBatch(events []*linebot.Event, send func(replyToken string, messages ...linebot.SendingMessage) error, log logger.Logger) *Batch {
	return &Batch{
		messages: MessagesFromEvents(events),
		send:     send,
		log:      log,
	}
}

// MessagesFromEvents keeps the text message events of a delivery, in order.
func MessagesFromEvents(events []*linebot.Event) []dto.Message {
	var messages []dto.Message
	for _, event := range events {
		if event.Type != linebot.EventTypeMessage || event.Source == nil {
			continue
		}
		text, ok := event.Message.(*linebot.TextMessage)
		if !ok || text.Text == "" {
			continue
		}
		author := event.Source.UserID
		if author == "" {
			author = event.Source.GroupID + event.Source.RoomID
		}
		created := event.Timestamp.UTC()
		if created.IsZero() {
			created = time.Now().UTC()
		}
		messages = append(messages, dto.Message{
			ID:        text.ID,
			Body:      text.Text,
			Author:    author,
			CreatedAt: created,
			Permalink: "LINE message " + text.ID,
			ReplyTo:   event.ReplyToken,
		})
	}
	return messages
}

// Batch is an inbox over a single webhook delivery. LINE delivers each
// event once, so there is nothing to mark read.
type Batch struct {
	messages []dto.Message
	send     func(replyToken string, messages ...linebot.SendingMessage) error
	log      logger.Logger
}

// FetchUnread returns the batch's messages.
func (b *Batch) FetchUnread(ctx context.Context) ([]dto.Message, error) {
	return b.messages, nil
}

// MarkRead is a no-op.
func (b *Batch) MarkRead(ctx context.Context, msg dto.Message) error {
	return nil
}

// Reply answers with the event's reply token. Text beyond what one reply
// can carry is cut off.
func (b *Batch) Reply(ctx context.Context, msg dto.Message, text string) error {
	chunks := textbuilder.Split(text, MaxMessageLength)
	if len(chunks) > MaxReplyMessages {
		b.log.Warn(fmt.Sprintf("Reply to LINE message %s truncated from %d to %d messages", msg.ID, len(chunks), MaxReplyMessages))
		chunks = chunks[:MaxReplyMessages]
	}
	out := make([]linebot.SendingMessage, 0, len(chunks))
	for _, chunk := range chunks {
		out = append(out, linebot.NewTextMessage(chunk))
	}
	if err := b.send(msg.ReplyTo, out...); err != nil {
		return err
	}
	b.log.Debug("Successfully sent reply message.")
	return nil
}
