package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/fairhub-io/fairhub-api/internal/dto"
	"github.com/fairhub-io/fairhub-api/internal/lifecycle"
	"github.com/fairhub-io/fairhub-api/internal/service"
	"github.com/fairhub-io/fairhub-api/internal/utils"
)

// EventModerationHandler exposes the admin event moderation endpoint.
type EventModerationHandler struct {
	service service.EventModerationService
	logger  zerolog.Logger
}

// NewEventModerationHandler constructs the handler.
func NewEventModerationHandler(service service.EventModerationService, logger zerolog.Logger) *EventModerationHandler {
	return &EventModerationHandler{
		service: service,
		logger:  logger.With().Str("component", "event_moderation_handler").Logger(),
	}
}

// Register attaches routes.
func (h *EventModerationHandler) Register(router fiber.Router) {
	router.Post("/:id/moderate", h.moderate)
}

func (h *EventModerationHandler) moderate(c *fiber.Ctx) error {
	eventID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, err.Error(), nil)
	}

	var payload dto.EventModerationRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "invalid request body", nil)
	}

	result, err := h.service.Moderate(c.Context(), sessionClaimsFromContext(c), eventID, payload, requestMetaFromContext(c))
	if err != nil {
		return h.failModeration(c, eventID, err)
	}

	return utils.OK(c, fiber.Map{"event": result.Event}, result.Message, nil)
}

func (h *EventModerationHandler) failModeration(c *fiber.Ctx, eventID uint, err error) error {
	var validationErrs validator.ValidationErrors

	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		return utils.Fail(c, fiber.StatusUnauthorized, "authentication required", nil)
	case errors.Is(err, service.ErrActorForbidden):
		return utils.Fail(c, fiber.StatusForbidden, "insufficient permissions", nil)
	case errors.Is(err, service.ErrActorNotFound):
		return utils.Fail(c, fiber.StatusNotFound, "actor not found", nil)
	case errors.Is(err, service.ErrEventNotFound):
		return utils.Fail(c, fiber.StatusNotFound, "event not found", nil)
	case errors.Is(err, lifecycle.ErrUnknownAction):
		return utils.Fail(c, fiber.StatusBadRequest, "unknown moderation action", nil)
	case errors.Is(err, lifecycle.ErrReasonRequired):
		return utils.Fail(c, fiber.StatusBadRequest, "rejection reason is required", nil)
	case errors.As(err, &validationErrs):
		return utils.Fail(c, fiber.StatusBadRequest, "invalid payload", validationErrs.Error())
	case errors.Is(err, service.ErrAuditFailed):
		requestLogger(h.logger, c).Error().Err(err).Uint("event_id", eventID).Msg("moderation applied but audit append failed")
		return utils.Fail(c, fiber.StatusInternalServerError, "moderation applied but not audited", "the event state change is durable; the audit record could not be written")
	default:
		requestLogger(h.logger, c).Error().Err(err).Uint("event_id", eventID).Msg("event moderation failed")
		return utils.Fail(c, fiber.StatusInternalServerError, "failed to moderate event", nil)
	}
}
