package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/fairhub-io/fairhub-api/internal/dto"
	"github.com/fairhub-io/fairhub-api/internal/service"
	"github.com/fairhub-io/fairhub-api/internal/utils"
)

// AdminLogHandler exposes the audit trail listing for admin dashboards.
type AdminLogHandler struct {
	service service.AuditService
	logger  zerolog.Logger
}

// NewAdminLogHandler constructs the handler.
func NewAdminLogHandler(service service.AuditService, logger zerolog.Logger) *AdminLogHandler {
	return &AdminLogHandler{
		service: service,
		logger:  logger.With().Str("component", "admin_log_handler").Logger(),
	}
}

// Register attaches routes.
func (h *AdminLogHandler) Register(router fiber.Router) {
	router.Get("", h.list)
}

func (h *AdminLogHandler) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "invalid page", nil)
	}
	pageSize, err := parseQueryInt(c, "pageSize")
	if err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "invalid page size", nil)
	}
	adminID, err := parseQueryInt(c, "adminId")
	if err != nil || adminID < 0 {
		return utils.Fail(c, fiber.StatusBadRequest, "invalid admin id", nil)
	}

	req := dto.AdminLogListRequest{
		Page:      page,
		PageSize:  pageSize,
		AdminID:   uint(adminID),
		AdminType: c.Query("adminType"),
		Action:    c.Query("action"),
		Resource:  c.Query("resource"),
	}

	result, err := h.service.List(c.Context(), req)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list audit logs")
		return utils.Fail(c, fiber.StatusInternalServerError, "failed to list audit logs", nil)
	}

	meta := fiber.Map{
		"pagination": result.Pagination,
		"filters": fiber.Map{
			"adminType": req.AdminType,
			"action":    req.Action,
			"resource":  req.Resource,
		},
	}
	return utils.OK(c, result.Items, "audit logs retrieved", meta)
}
