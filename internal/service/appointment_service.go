package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/fairhub-io/fairhub-api/internal/dto"
	"github.com/fairhub-io/fairhub-api/internal/lifecycle"
	"github.com/fairhub-io/fairhub-api/internal/models"
	"github.com/fairhub-io/fairhub-api/internal/repository"
)

// ErrAppointmentNotFound indicates the appointment is absent or does not
// belong to the given exhibitor.
var ErrAppointmentNotFound = errors.New("appointment not found")

// AppointmentService orchestrates the appointment lifecycle: resolve actor,
// apply the transition, append the audit record for admin actors, notify the
// counter-party.
type AppointmentService interface {
	Update(ctx context.Context, claims SessionClaims, appointmentID, exhibitorID uint, payload dto.AppointmentUpdateRequest, meta RequestMeta) (dto.AppointmentResponse, error)
	Remove(ctx context.Context, claims SessionClaims, appointmentID, exhibitorID uint, meta RequestMeta) error
}

type appointmentService struct {
	appointments repository.AppointmentRepository
	resolver     ActorResolver
	audit        AuditRecorder
	dispatcher   NotificationDispatcher
	validator    *validator.Validate
	logger       zerolog.Logger
	tracer       trace.Tracer
	now          func() time.Time
}

// NewAppointmentService constructs the appointment orchestrator.
func NewAppointmentService(appointments repository.AppointmentRepository, resolver ActorResolver, audit AuditRecorder, dispatcher NotificationDispatcher, validate *validator.Validate, logger zerolog.Logger) AppointmentService {
	return &appointmentService{
		appointments: appointments,
		resolver:     resolver,
		audit:        audit,
		dispatcher:   dispatcher,
		validator:    validate,
		logger:       logger.With().Str("component", "appointment_service").Logger(),
		tracer:       otel.Tracer("github.com/fairhub-io/fairhub-api/internal/service/appointment"),
		now:          time.Now,
	}
}

// authorize admits admin actors and the owning exhibitor, nobody else.
func (s *appointmentService) authorize(actor Actor, exhibitorID uint) error {
	if actor.IsAdmin() {
		return nil
	}
	if actor.ID == exhibitorID {
		return nil
	}
	return ErrActorForbidden
}

func (s *appointmentService) Update(ctx context.Context, claims SessionClaims, appointmentID, exhibitorID uint, payload dto.AppointmentUpdateRequest, meta RequestMeta) (dto.AppointmentResponse, error) {
	actor, err := s.resolver.Resolve(ctx, claims)
	if err != nil {
		return dto.AppointmentResponse{}, err
	}
	if err := s.authorize(actor, exhibitorID); err != nil {
		return dto.AppointmentResponse{}, err
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.AppointmentResponse{}, err
	}

	spanCtx, span := s.tracer.Start(ctx, "appointments.update", trace.WithAttributes(
		attribute.Int64("appointment.id", int64(appointmentID)),
		attribute.String("appointment.target_status", payload.Status),
	))
	defer span.End()

	appt, err := s.appointments.FindForExhibitor(spanCtx, appointmentID, exhibitorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AppointmentResponse{}, ErrAppointmentNotFound
		}
		return dto.AppointmentResponse{}, err
	}

	change, err := lifecycle.Transition(&appt, lifecycle.AppointmentTransition{
		Status:         payload.Status,
		ConfirmedDate:  payload.ConfirmedDate,
		ConfirmedTime:  payload.ConfirmedTime,
		Notes:          payload.Notes,
		Outcome:        payload.Outcome,
		CancelReason:   payload.CancelReason,
		AdminInitiated: actor.IsAdmin(),
	}, actor.ID, s.now())
	if err != nil {
		span.RecordError(err)
		return dto.AppointmentResponse{}, err
	}

	if err := s.appointments.ApplyTransition(spanCtx, appt.ID, change.Updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AppointmentResponse{}, ErrAppointmentNotFound
		}
		return dto.AppointmentResponse{}, err
	}

	// Admin-initiated transitions are audited; participant self-service is
	// not. The mutation is durable before this point and is never undone by
	// an audit failure.
	if actor.IsAdmin() {
		if err := s.recordAudit(spanCtx, actor, appt, auditAction(change.NewStatus), change.PreviousStatus, change.NewStatus, meta); err != nil {
			return dto.AppointmentResponse{}, fmt.Errorf("%w: %v", ErrAuditFailed, err)
		}
	}

	s.notifyTransition(spanCtx, actor, appt, change)

	return dto.NewAppointmentResponse(appt), nil
}

func (s *appointmentService) Remove(ctx context.Context, claims SessionClaims, appointmentID, exhibitorID uint, meta RequestMeta) error {
	actor, err := s.resolver.Resolve(ctx, claims)
	if err != nil {
		return err
	}
	if err := s.authorize(actor, exhibitorID); err != nil {
		return err
	}

	appt, err := s.appointments.FindForExhibitor(ctx, appointmentID, exhibitorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAppointmentNotFound
		}
		return err
	}

	if err := s.appointments.Delete(ctx, appt.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAppointmentNotFound
		}
		return err
	}

	if actor.IsAdmin() {
		if err := s.recordAudit(ctx, actor, appt, models.ActionAppointmentDeleted, appt.Status, "", meta); err != nil {
			return fmt.Errorf("%w: %v", ErrAuditFailed, err)
		}
	}

	requesterID := appt.RequesterID
	if _, err := s.dispatcher.Dispatch(ctx, Dispatch{
		UserID:   &requesterID,
		Email:    appt.RequesterEmail,
		Type:     models.NotificationAppointmentDeleted,
		Title:    "Appointment removed",
		Message:  fmt.Sprintf("Your appointment with %s was removed.", exhibitorName(appt)),
		Metadata: appointmentMetadata(appt, appt.Status, ""),
	}); err != nil {
		s.logger.Warn().Err(err).Uint("appointment_id", appt.ID).Msg("requester notification failed")
	}

	return nil
}

func auditAction(newStatus string) string {
	if newStatus == models.AppointmentStatusCancelled {
		return models.ActionAppointmentCancelled
	}
	return models.ActionAppointmentUpdated
}

func (s *appointmentService) recordAudit(ctx context.Context, actor Actor, appt models.Appointment, action, previousStatus, newStatus string, meta RequestMeta) error {
	details := map[string]interface{}{
		"previous_status": previousStatus,
		"exhibitor_name":  exhibitorName(appt),
		"requester_name":  requesterName(appt),
		"event_title":     eventTitle(appt),
	}
	if newStatus != "" {
		details["new_status"] = newStatus
	}
	if appt.CancelReason != nil {
		details["cancellation_reason"] = *appt.CancelReason
	}

	_, err := s.audit.Record(ctx, AuditEntry{
		Actor:      actor,
		Action:     action,
		Resource:   "appointment",
		ResourceID: appt.ID,
		Details:    details,
		Meta:       meta,
	})
	return err
}

func (s *appointmentService) notifyTransition(ctx context.Context, actor Actor, appt models.Appointment, change lifecycle.AppointmentChange) {
	metadata := appointmentMetadata(appt, change.PreviousStatus, change.NewStatus)

	switch change.NewStatus {
	case models.AppointmentStatusConfirmed:
		s.notifyRequester(ctx, appt, models.NotificationAppointmentConfirmed, "Appointment confirmed",
			fmt.Sprintf("Your appointment with %s has been confirmed.", exhibitorName(appt)), metadata)

	case models.AppointmentStatusCancelled:
		reason := ""
		if appt.CancelReason != nil {
			reason = *appt.CancelReason
		}
		message := fmt.Sprintf("Your appointment with %s was cancelled. Reason: %s", exhibitorName(appt), reason)
		s.notifyRequester(ctx, appt, models.NotificationAppointmentCancelled, "Appointment cancelled", message, metadata)

		// When an admin cancels on behalf of the participants the exhibitor
		// did not initiate either, so they are notified as well.
		if actor.IsAdmin() {
			exhibitorID := appt.ExhibitorID
			if _, err := s.dispatcher.Dispatch(ctx, Dispatch{
				UserID:   &exhibitorID,
				Email:    exhibitorEmail(appt),
				Type:     models.NotificationAppointmentCancelled,
				Title:    "Appointment cancelled",
				Message:  fmt.Sprintf("Your appointment with %s was cancelled by platform administration. Reason: %s", requesterName(appt), reason),
				Metadata: metadata,
			}); err != nil {
				s.logger.Warn().Err(err).Uint("appointment_id", appt.ID).Msg("exhibitor notification failed")
			}
		}

	case models.AppointmentStatusCompleted:
		s.notifyRequester(ctx, appt, models.NotificationAppointmentCompleted, "Appointment completed",
			fmt.Sprintf("Your appointment with %s has been marked completed.", exhibitorName(appt)), metadata)
	}
}

func (s *appointmentService) notifyRequester(ctx context.Context, appt models.Appointment, notificationType, title, message string, metadata map[string]interface{}) {
	requesterID := appt.RequesterID
	if _, err := s.dispatcher.Dispatch(ctx, Dispatch{
		UserID:   &requesterID,
		Email:    appt.RequesterEmail,
		Type:     notificationType,
		Title:    title,
		Message:  message,
		Metadata: metadata,
	}); err != nil {
		s.logger.Warn().Err(err).Uint("appointment_id", appt.ID).Msg("requester notification failed")
	}
}

func appointmentMetadata(appt models.Appointment, previousStatus, newStatus string) map[string]interface{} {
	metadata := map[string]interface{}{
		"appointment_id":  appt.ID,
		"event_id":        appt.EventID,
		"previous_status": previousStatus,
	}
	if newStatus != "" {
		metadata["new_status"] = newStatus
	}
	if appt.CancelReason != nil {
		metadata["cancellation_reason"] = *appt.CancelReason
	}
	if appt.CancelledAt != nil {
		metadata["cancelled_at"] = appt.CancelledAt.Format(time.RFC3339)
	}
	return metadata
}

func exhibitorName(appt models.Appointment) string {
	if appt.Exhibitor != nil && appt.Exhibitor.Name != "" {
		return appt.Exhibitor.Name
	}
	return "Unknown Exhibitor"
}

func exhibitorEmail(appt models.Appointment) string {
	if appt.Exhibitor != nil {
		return appt.Exhibitor.Email
	}
	return ""
}

func requesterName(appt models.Appointment) string {
	if appt.Requester != nil && appt.Requester.Name != "" {
		return appt.Requester.Name
	}
	return "Unknown Requester"
}

func eventTitle(appt models.Appointment) string {
	if appt.Event != nil && appt.Event.Title != "" {
		return appt.Event.Title
	}
	return "Unknown Event"
}
