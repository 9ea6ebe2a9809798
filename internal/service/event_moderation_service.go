package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/fairhub-io/fairhub-api/internal/dto"
	"github.com/fairhub-io/fairhub-api/internal/lifecycle"
	"github.com/fairhub-io/fairhub-api/internal/models"
	"github.com/fairhub-io/fairhub-api/internal/repository"
)

var (
	// ErrActorForbidden indicates an authenticated actor of the wrong kind.
	ErrActorForbidden = errors.New("insufficient permissions")
	// ErrEventNotFound indicates the moderation target is absent.
	ErrEventNotFound = errors.New("event not found")
	// ErrAuditFailed indicates the mutation committed but the audit append
	// did not. The mutation is not rolled back.
	ErrAuditFailed = errors.New("action applied but not audited")
)

// EventModerationService orchestrates the event approval workflow: resolve
// actor, apply the moderation transition, append the audit record, notify the
// affected parties.
type EventModerationService interface {
	Moderate(ctx context.Context, claims SessionClaims, eventID uint, payload dto.EventModerationRequest, meta RequestMeta) (dto.EventModerationResult, error)
}

type eventModerationService struct {
	events     repository.EventRepository
	resolver   ActorResolver
	audit      AuditRecorder
	dispatcher NotificationDispatcher
	validator  *validator.Validate
	logger     zerolog.Logger
	now        func() time.Time
}

// NewEventModerationService constructs the event moderation orchestrator.
func NewEventModerationService(events repository.EventRepository, resolver ActorResolver, audit AuditRecorder, dispatcher NotificationDispatcher, validate *validator.Validate, logger zerolog.Logger) EventModerationService {
	return &eventModerationService{
		events:     events,
		resolver:   resolver,
		audit:      audit,
		dispatcher: dispatcher,
		validator:  validate,
		logger:     logger.With().Str("component", "event_moderation_service").Logger(),
		now:        time.Now,
	}
}

func (s *eventModerationService) Moderate(ctx context.Context, claims SessionClaims, eventID uint, payload dto.EventModerationRequest, meta RequestMeta) (dto.EventModerationResult, error) {
	// Identity is settled before the payload is even inspected, so an
	// unauthenticated request reads as 401 rather than 400.
	actor, err := s.resolver.Resolve(ctx, claims)
	if err != nil {
		return dto.EventModerationResult{}, err
	}
	if !actor.IsAdmin() {
		return dto.EventModerationResult{}, ErrActorForbidden
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.EventModerationResult{}, err
	}

	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EventModerationResult{}, ErrEventNotFound
		}
		return dto.EventModerationResult{}, err
	}

	change, err := lifecycle.Moderate(&event, payload.Action, payload.Reason, actor.ID, s.now())
	if err != nil {
		return dto.EventModerationResult{}, err
	}

	if err := s.events.ApplyModeration(ctx, event.ID, change.Updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EventModerationResult{}, ErrEventNotFound
		}
		return dto.EventModerationResult{}, err
	}

	// Point of no return: the moderation is durable. Audit failure surfaces
	// as ErrAuditFailed without undoing it.
	if err := s.recordAudit(ctx, actor, event, change, meta); err != nil {
		return dto.EventModerationResult{}, fmt.Errorf("%w: %v", ErrAuditFailed, err)
	}

	s.notify(ctx, actor, event, change)

	message := fmt.Sprintf("Event %q approved and published", event.Title)
	if change.NewStatus == models.EventStatusRejected {
		message = fmt.Sprintf("Event %q rejected", event.Title)
	}

	return dto.EventModerationResult{Event: dto.NewEventResponse(event), Message: message}, nil
}

func (s *eventModerationService) recordAudit(ctx context.Context, actor Actor, event models.Event, change lifecycle.ModerationChange, meta RequestMeta) error {
	action := models.ActionEventApproved
	if change.NewStatus == models.EventStatusRejected {
		action = models.ActionEventRejected
	}

	details := map[string]interface{}{
		"event_title":     event.Title,
		"previous_status": change.PreviousStatus,
		"new_status":      change.NewStatus,
		"organizer_name":  organizerName(event),
	}
	if event.RejectionReason != nil {
		details["rejection_reason"] = *event.RejectionReason
	}

	_, err := s.audit.Record(ctx, AuditEntry{
		Actor:      actor,
		Action:     action,
		Resource:   "event",
		ResourceID: event.ID,
		Details:    details,
		Meta:       meta,
	})
	return err
}

func (s *eventModerationService) notify(ctx context.Context, actor Actor, event models.Event, change lifecycle.ModerationChange) {
	approved := change.NewStatus == models.EventStatusPublished

	organizerType := models.NotificationEventApproved
	organizerTitle := "Event approved"
	organizerMessage := fmt.Sprintf("Your event %q has been approved and is now live.", event.Title)
	if !approved {
		organizerType = models.NotificationEventRejected
		organizerTitle = "Event rejected"
		reason := ""
		if event.RejectionReason != nil {
			reason = *event.RejectionReason
		}
		organizerMessage = fmt.Sprintf("Your event %q was rejected. Reason: %s", event.Title, reason)
	}

	metadata := map[string]interface{}{
		"event_id":        event.ID,
		"event_title":     event.Title,
		"previous_status": change.PreviousStatus,
		"new_status":      change.NewStatus,
	}
	if event.RejectionReason != nil {
		metadata["rejection_reason"] = *event.RejectionReason
	}

	organizerID := event.OrganizerID
	if _, err := s.dispatcher.Dispatch(ctx, Dispatch{
		UserID:   &organizerID,
		Email:    organizerEmail(event),
		Type:     organizerType,
		Title:    organizerTitle,
		Message:  organizerMessage,
		Priority: models.PriorityHigh,
		Metadata: metadata,
	}); err != nil {
		s.logger.Warn().Err(err).Uint("event_id", event.ID).Msg("organizer notification failed")
	}

	actorID := actor.ID
	verb := "approved"
	if !approved {
		verb = "rejected"
	}
	if _, err := s.dispatcher.Dispatch(ctx, Dispatch{
		UserID:   &actorID,
		Type:     models.NotificationAdminAction,
		Title:    "Moderation recorded",
		Message:  fmt.Sprintf("You %s the event %q.", verb, event.Title),
		Channels: []string{models.ChannelPush},
		Priority: models.PriorityMedium,
		Metadata: metadata,
	}); err != nil {
		s.logger.Warn().Err(err).Uint("event_id", event.ID).Msg("admin self-notification failed")
	}
}

func organizerName(event models.Event) string {
	if event.Organizer != nil && event.Organizer.Name != "" {
		return event.Organizer.Name
	}
	return "Unknown Organizer"
}

func organizerEmail(event models.Event) string {
	if event.Organizer != nil {
		return event.Organizer.Email
	}
	return ""
}
