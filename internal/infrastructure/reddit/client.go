// Package reddit implements the bot's inbox on top of the Reddit OAuth API.
package reddit

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"remindme/internal/application/dto"
	appErrors "remindme/internal/pkg/errors"
	"remindme/internal/pkg/logger"

	"github.com/vartanbeno/go-reddit/v2/reddit"
)

const (
	pageSize           = 100
	defaultUnreadLimit = 500
)

// Config holds the script-app credentials used to log in as the bot account.
type Config struct {
	Username     string
	Password     string
	ClientID     string
	ClientSecret string
	UserAgent    string
	// APIURL and TokenURL override the Reddit endpoints; empty keeps the defaults.
	APIURL   string
	TokenURL string
	// NoPost logs replies instead of sending them.
	NoPost bool
	// UnreadLimit caps how many unread messages one fetch returns.
	UnreadLimit int
}

// Client talks to Reddit as the bot account.
type Client struct {
	cfg    Config
	reddit *reddit.Client
	log    logger.Logger
}

// NewClient creates a Reddit client. Nothing is sent until the first call.
func NewClient(cfg Config, log logger.Logger) (*Client, error) {
	if cfg.Username == "" || cfg.Password == "" || cfg.ClientID == "" {
		return nil, fmt.Errorf("%w: reddit username, password and client id are required", appErrors.ErrInvalidConfig)
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "remindme-bot (by /u/" + cfg.Username + ")"
	}
	if cfg.UnreadLimit <= 0 {
		cfg.UnreadLimit = defaultUnreadLimit
	}

	opts := []reddit.Opt{
		reddit.WithUserAgent(cfg.UserAgent),
		reddit.WithHTTPClient(&http.Client{Timeout: 30 * time.Second}),
	}
	if cfg.APIURL != "" {
		opts = append(opts, reddit.WithBaseURL(strings.TrimRight(cfg.APIURL, "/")+"/"))
	}
	if cfg.TokenURL != "" {
		opts = append(opts, reddit.WithTokenURL(cfg.TokenURL))
	}

	rc, err := reddit.NewClient(reddit.Credentials{
		ID:       cfg.ClientID,
		Secret:   cfg.ClientSecret,
		Username: cfg.Username,
		Password: cfg.Password,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: creating reddit client: %v", appErrors.ErrInvalidConfig, err)
	}

	return &Client{
		cfg:    cfg,
		reddit: rc,
		log:    log,
	}, nil
}

// AccountName returns the name of the logged in account.
func (c *Client) AccountName(ctx context.Context) (string, error) {
	me, _, err := c.reddit.Account.Info(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: /api/v1/me: %v", appErrors.ErrPlatformAPI, err)
	}
	c.log.Info("Logged into reddit as /u/" + me.Name)
	return me.Name, nil
}

// FetchUnread returns unread private messages and comment replies, oldest first.
func (c *Client) FetchUnread(ctx context.Context) ([]dto.Message, error) {
	var messages []dto.Message
	opts := &reddit.ListOptions{Limit: pageSize}
	for len(messages) < c.cfg.UnreadLimit {
		comments, private, resp, err := c.reddit.Message.InboxUnread(ctx, opts)
		if err != nil {
			return nil, fmt.Errorf("%w: unread inbox: %v", appErrors.ErrPlatformAPI, err)
		}
		for _, m := range comments {
			messages = append(messages, toMessage(m))
		}
		for _, m := range private {
			messages = append(messages, toMessage(m))
		}
		if resp == nil || resp.After == "" || len(comments)+len(private) == 0 {
			break
		}
		opts.After = resp.After
	}

	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})
	if len(messages) > c.cfg.UnreadLimit {
		messages = messages[:c.cfg.UnreadLimit]
	}
	return messages, nil
}

func toMessage(m *reddit.Message) dto.Message {
	msg := dto.Message{
		ID:      m.ID,
		Body:    m.Text,
		Author:  m.Author,
		ReplyTo: m.FullID,
	}
	if m.Created != nil {
		msg.CreatedAt = m.Created.Time.UTC()
	}
	return msg
}

// MarkRead marks a message read so it drops out of the unread listing.
func (c *Client) MarkRead(ctx context.Context, msg dto.Message) error {
	if _, err := c.reddit.Message.Read(ctx, msg.ReplyTo); err != nil {
		return fmt.Errorf("%w: marking %s read: %v", appErrors.ErrPlatformAPI, msg.ReplyTo, err)
	}
	return nil
}

// Reply answers msg. With NoPost set the reply is only logged.
func (c *Client) Reply(ctx context.Context, msg dto.Message, text string) error {
	if c.cfg.NoPost {
		c.log.Info(fmt.Sprintf("Not posting reply to %s:\n%s", msg.ReplyTo, text))
		return nil
	}
	if _, _, err := c.reddit.Comment.Submit(ctx, msg.ReplyTo, text); err != nil {
		return fmt.Errorf("%w: reply to %s: %v", appErrors.ErrPlatformAPI, msg.ReplyTo, err)
	}
	return nil
}
