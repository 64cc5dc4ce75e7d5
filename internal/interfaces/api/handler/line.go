package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"remindme/internal/application/service"
	"remindme/internal/infrastructure/line"
	"remindme/internal/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/line/line-bot-sdk-go/v7/linebot"
)

// webhookParser verifies and decodes a LINE webhook delivery into an inbox.
type webhookParser interface {
	ParseRequest(r *http.Request) ([]*linebot.Event, error)
	NewBatch(events []*linebot.Event) *line.Batch
}

// LineHandler handles incoming LINE webhook events.
type LineHandler struct {
	lineClient     webhookParser
	messageService service.MessageService
	log            logger.Logger
}

// NewLineHandler creates a new LineHandler.
func NewLineHandler(
	lineClient *line.Client,
	messageService service.MessageService,
	log logger.Logger,
) *LineHandler {
	return &LineHandler{
		lineClient:     lineClient,
		messageService: messageService,
		log:            log,
	}
}

// HandleWebhook is the main entry point for webhook requests. The delivery
// is acknowledged once every message in it has been answered.
func (h *LineHandler) HandleWebhook(c echo.Context) error {
	events, err := h.lineClient.ParseRequest(c.Request())
	if err != nil {
		if errors.Is(err, linebot.ErrInvalidSignature) {
			h.log.Warn("Invalid LINE signature received")
			return c.String(http.StatusBadRequest, "Invalid signature")
		}
		h.log.Error("Failed to parse LINE webhook request", err)
		return c.String(http.StatusInternalServerError, "Error parsing request")
	}
	h.log.Debug(fmt.Sprintf("Received %d LINE events", len(events)))

	// Replies must go out even if LINE drops the connection early.
	ctx := context.WithoutCancel(c.Request().Context())
	n, err := h.messageService.ProcessMessages(ctx, h.lineClient.NewBatch(events))
	if err != nil {
		h.log.Error("Failed to process LINE webhook batch", err)
	}
	if n > 0 {
		h.log.Info(fmt.Sprintf("Processed %d LINE messages", n))
	}
	return c.String(http.StatusOK, "OK")
}
