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

// AppointmentHandler exposes exhibitor-scoped appointment lifecycle endpoints.
type AppointmentHandler struct {
	service service.AppointmentService
	logger  zerolog.Logger
}

// NewAppointmentHandler constructs the handler.
func NewAppointmentHandler(service service.AppointmentService, logger zerolog.Logger) *AppointmentHandler {
	return &AppointmentHandler{
		service: service,
		logger:  logger.With().Str("component", "appointment_handler").Logger(),
	}
}

// Register attaches routes under an exhibitor scope.
func (h *AppointmentHandler) Register(router fiber.Router) {
	router.Put("/:exhibitorID/appointments/:id", h.update)
	router.Delete("/:exhibitorID/appointments/:id", h.remove)
}

func (h *AppointmentHandler) update(c *fiber.Ctx) error {
	exhibitorID, err := parseUintParam(c, "exhibitorID")
	if err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, err.Error(), nil)
	}
	appointmentID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, err.Error(), nil)
	}

	var payload dto.AppointmentUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "invalid request body", nil)
	}

	appointment, err := h.service.Update(c.Context(), sessionClaimsFromContext(c), appointmentID, exhibitorID, payload, requestMetaFromContext(c))
	if err != nil {
		return h.failAppointment(c, appointmentID, err)
	}

	return utils.OK(c, fiber.Map{"appointment": appointment}, "appointment updated", nil)
}

func (h *AppointmentHandler) remove(c *fiber.Ctx) error {
	exhibitorID, err := parseUintParam(c, "exhibitorID")
	if err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, err.Error(), nil)
	}
	appointmentID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, err.Error(), nil)
	}

	if err := h.service.Remove(c.Context(), sessionClaimsFromContext(c), appointmentID, exhibitorID, requestMetaFromContext(c)); err != nil {
		return h.failAppointment(c, appointmentID, err)
	}

	return utils.OK(c, nil, "appointment deleted", nil)
}

func (h *AppointmentHandler) failAppointment(c *fiber.Ctx, appointmentID uint, err error) error {
	var validationErrs validator.ValidationErrors

	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		return utils.Fail(c, fiber.StatusUnauthorized, "authentication required", nil)
	case errors.Is(err, service.ErrActorForbidden):
		return utils.Fail(c, fiber.StatusForbidden, "insufficient permissions", nil)
	case errors.Is(err, service.ErrActorNotFound):
		return utils.Fail(c, fiber.StatusNotFound, "actor not found", nil)
	case errors.Is(err, service.ErrAppointmentNotFound):
		return utils.Fail(c, fiber.StatusNotFound, "appointment not found", nil)
	case errors.Is(err, lifecycle.ErrInvalidStatus):
		return utils.Fail(c, fiber.StatusBadRequest, "invalid appointment status", nil)
	case errors.Is(err, lifecycle.ErrCancelReasonRequired):
		return utils.Fail(c, fiber.StatusBadRequest, "cancellation reason is required", nil)
	case errors.Is(err, lifecycle.ErrTerminalState):
		return utils.Fail(c, fiber.StatusConflict, "appointment is in a terminal state", nil)
	case errors.As(err, &validationErrs):
		return utils.Fail(c, fiber.StatusBadRequest, "invalid payload", validationErrs.Error())
	case errors.Is(err, service.ErrAuditFailed):
		requestLogger(h.logger, c).Error().Err(err).Uint("appointment_id", appointmentID).Msg("appointment change applied but audit append failed")
		return utils.Fail(c, fiber.StatusInternalServerError, "change applied but not audited", "the appointment state change is durable; the audit record could not be written")
	default:
		requestLogger(h.logger, c).Error().Err(err).Uint("appointment_id", appointmentID).Msg("appointment update failed")
		return utils.Fail(c, fiber.StatusInternalServerError, "failed to update appointment", nil)
	}
}
