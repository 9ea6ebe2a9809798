package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/fairhub-io/fairhub-api/internal/dto"
	"github.com/fairhub-io/fairhub-api/internal/models"
	"github.com/fairhub-io/fairhub-api/internal/observability"
	"github.com/fairhub-io/fairhub-api/internal/repository"
)

// ErrAuditActorKind indicates an audit record attempted for a non-admin actor.
var ErrAuditActorKind = errors.New("audit entries require an admin actor")

// RequestMeta captures the provenance of the inbound request.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// AuditEntry captures the details required to persist an audit record.
type AuditEntry struct {
	Actor      Actor
	Action     string
	Resource   string
	ResourceID uint
	Details    map[string]interface{}
	Meta       RequestMeta
}

// AuditRecorder defines behaviour for appending audit records. Record is only
// called after the primary mutation has been durably applied.
type AuditRecorder interface {
	Record(ctx context.Context, entry AuditEntry) (dto.AdminLogResponse, error)
}

// AuditService exposes methods to append and query the audit trail.
type AuditService interface {
	AuditRecorder
	List(ctx context.Context, req dto.AdminLogListRequest) (dto.AdminLogListResponse, error)
}

type auditService struct {
	repo   repository.AdminLogRepository
	logger zerolog.Logger
}

// NewAuditService constructs the audit service.
func NewAuditService(repo repository.AdminLogRepository, logger zerolog.Logger) AuditService {
	return &auditService{
		repo:   repo,
		logger: logger.With().Str("component", "audit_service").Logger(),
	}
}

func (s *auditService) Record(ctx context.Context, entry AuditEntry) (dto.AdminLogResponse, error) {
	if strings.TrimSpace(entry.Action) == "" {
		return dto.AdminLogResponse{}, fmt.Errorf("action is required")
	}
	if strings.TrimSpace(entry.Resource) == "" {
		return dto.AdminLogResponse{}, fmt.Errorf("resource is required")
	}
	if !entry.Actor.IsAdmin() {
		return dto.AdminLogResponse{}, ErrAuditActorKind
	}

	model := models.AdminLog{
		AdminID:    entry.Actor.ID,
		AdminType:  entry.Actor.AdminType(),
		Action:     strings.ToUpper(strings.TrimSpace(entry.Action)),
		Resource:   strings.ToLower(strings.TrimSpace(entry.Resource)),
		ResourceID: entry.ResourceID,
		Details:    sanitizeDetails(entry.Details),
		IPAddress:  entry.Meta.IPAddress,
		UserAgent:  entry.Meta.UserAgent,
	}

	if err := s.repo.Create(ctx, &model); err != nil {
		observability.AuditAppendFailures().Inc()
		s.logger.Error().Err(err).Str("action", model.Action).Msg("failed to append audit log")
		return dto.AdminLogResponse{}, err
	}

	return dto.NewAdminLogResponse(model), nil
}

func (s *auditService) List(ctx context.Context, req dto.AdminLogListRequest) (dto.AdminLogListResponse, error) {
	filter := repository.AdminLogFilter{
		Page:      req.Page,
		PageSize:  req.PageSize,
		AdminType: strings.TrimSpace(req.AdminType),
		Action:    strings.TrimSpace(req.Action),
		Resource:  strings.TrimSpace(req.Resource),
	}
	if req.AdminID > 0 {
		filter.AdminID = &req.AdminID
	}

	entries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.AdminLogListResponse{}, err
	}

	responses := make([]dto.AdminLogResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, dto.NewAdminLogResponse(entry))
	}

	pagination := dto.PaginationMeta{
		Page:       maxInt(req.Page, 1),
		PageSize:   req.PageSize,
		TotalItems: total,
	}
	if req.PageSize > 0 {
		pagination.TotalPages = int(math.Ceil(float64(total) / float64(req.PageSize)))
	} else {
		pagination.TotalPages = 1
	}

	return dto.AdminLogListResponse{Items: responses, Pagination: pagination}, nil
}

func sanitizeDetails(details map[string]interface{}) datatypes.JSONMap {
	if details == nil {
		return datatypes.JSONMap{}
	}

	sanitized := datatypes.JSONMap{}
	for key, value := range details {
		lower := strings.ToLower(key)
		if strings.Contains(lower, "email") || strings.Contains(lower, "token") {
			sanitized[key] = "***"
			continue
		}
		sanitized[key] = value
	}
	return sanitized
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
