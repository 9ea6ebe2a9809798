package handler

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
	"gorm.io/gorm"

	"github.com/fairhub-io/fairhub-api/internal/service"
	"github.com/fairhub-io/fairhub-api/internal/utils"
)

// NotificationHandler exposes recipient-facing notification endpoints.
type NotificationHandler struct {
	service service.NotificationService
	logger  zerolog.Logger
}

// NewNotificationHandler constructs the handler.
func NewNotificationHandler(service service.NotificationService, logger zerolog.Logger) *NotificationHandler {
	return &NotificationHandler{
		service: service,
		logger:  logger.With().Str("component", "notification_handler").Logger(),
	}
}

// Register attaches routes.
func (h *NotificationHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Patch("/:id/read", h.markRead)
	router.Get("/stream", h.stream)
}

func recipientRoles(c *fiber.Ctx) []string {
	role := strings.ToUpper(strings.TrimSpace(userRoleFromContext(c)))
	if role == "" {
		return nil
	}
	return []string{role}
}

func (h *NotificationHandler) list(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == 0 {
		return utils.Fail(c, fiber.StatusUnauthorized, "authentication required", nil)
	}

	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "invalid page", nil)
	}
	pageSize, err := parseQueryInt(c, "pageSize")
	if err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "invalid page size", nil)
	}

	result, err := h.service.List(c.Context(), userID, recipientRoles(c), page, pageSize)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list notifications")
		return utils.Fail(c, fiber.StatusInternalServerError, "failed to list notifications", nil)
	}

	meta := fiber.Map{
		"pagination":   result.Pagination,
		"unread_count": result.UnreadCount,
	}
	return utils.OK(c, result.Items, "notifications retrieved", meta)
}

func (h *NotificationHandler) markRead(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == 0 {
		return utils.Fail(c, fiber.StatusUnauthorized, "authentication required", nil)
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, err.Error(), nil)
	}

	notification, err := h.service.MarkRead(c.Context(), id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Fail(c, fiber.StatusNotFound, "notification not found", nil)
		}
		requestLogger(h.logger, c).Error().Err(err).Uint("notification_id", id).Msg("failed to mark notification read")
		return utils.Fail(c, fiber.StatusInternalServerError, "failed to mark notification read", nil)
	}

	return utils.OK(c, notification, "notification marked read", nil)
}

func (h *NotificationHandler) stream(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == 0 {
		return utils.Fail(c, fiber.StatusUnauthorized, "authentication required", nil)
	}

	notifications, cleanup := h.service.Subscribe(userID)

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cleanup()

		for notification := range notifications {
			payload, err := json.Marshal(notification)
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				return
			}
		}
	}))

	return nil
}
