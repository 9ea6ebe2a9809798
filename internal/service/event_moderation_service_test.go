package service

import (
	"context"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/fairhub-io/fairhub-api/internal/dto"
	"github.com/fairhub-io/fairhub-api/internal/lifecycle"
	"github.com/fairhub-io/fairhub-api/internal/models"
)

type stubEventRepo struct {
	event      models.Event
	findErr    error
	applyErr   error
	applied    map[string]interface{}
	applyCalls int
}

func (s *stubEventRepo) FindByID(_ context.Context, id uint) (models.Event, error) {
	if s.findErr != nil {
		return models.Event{}, s.findErr
	}
	if s.event.ID != id {
		return models.Event{}, gorm.ErrRecordNotFound
	}
	return s.event, nil
}

func (s *stubEventRepo) ApplyModeration(_ context.Context, _ uint, updates map[string]interface{}) error {
	s.applyCalls++
	if s.applyErr != nil {
		return s.applyErr
	}
	s.applied = updates
	return nil
}

type stubResolver struct {
	actor Actor
	err   error
}

func (s *stubResolver) Resolve(_ context.Context, _ SessionClaims) (Actor, error) {
	return s.actor, s.err
}

type recordingAudit struct {
	entries []AuditEntry
	err     error
}

func (r *recordingAudit) Record(_ context.Context, entry AuditEntry) (dto.AdminLogResponse, error) {
	if r.err != nil {
		return dto.AdminLogResponse{}, r.err
	}
	r.entries = append(r.entries, entry)
	return dto.AdminLogResponse{ID: uint(len(r.entries))}, nil
}

type recordingDispatcher struct {
	dispatches []Dispatch
	err        error
}

func (r *recordingDispatcher) Dispatch(_ context.Context, payload Dispatch) (dto.NotificationResponse, error) {
	r.dispatches = append(r.dispatches, payload)
	if r.err != nil {
		return dto.NotificationResponse{}, r.err
	}
	return dto.NotificationResponse{ID: uint(len(r.dispatches))}, nil
}

func pendingEvent() models.Event {
	return models.Event{
		ID:          42,
		Title:       "Spring Expo",
		Status:      models.EventStatusPendingReview,
		OrganizerID: 9,
		Organizer:   &models.User{ID: 9, Name: "Ada", Email: "ada@example.com", Role: models.RoleOrganizer},
	}
}

func newModerationFixture(events *stubEventRepo, actor Actor) (EventModerationService, *recordingAudit, *recordingDispatcher) {
	audit := &recordingAudit{}
	dispatcher := &recordingDispatcher{}
	svc := NewEventModerationService(events, &stubResolver{actor: actor}, audit, dispatcher, validator.New(validator.WithRequiredStructEnabled()), testLogger())
	return svc, audit, dispatcher
}

func TestModerateApprovePublishesAuditsAndNotifies(t *testing.T) {
	events := &stubEventRepo{event: pendingEvent()}
	admin := Actor{Kind: ActorKindSuperAdmin, ID: 1, Name: "Root"}
	svc, audit, dispatcher := newModerationFixture(events, admin)

	result, err := svc.Moderate(context.Background(), SessionClaims{SubjectID: 1}, 42,
		dto.EventModerationRequest{Action: "approve"}, RequestMeta{IPAddress: "10.0.0.1"})
	require.NoError(t, err)

	require.Equal(t, models.EventStatusPublished, result.Event.Status)
	require.True(t, result.Event.IsPublic)
	require.Nil(t, result.Event.RejectionReason)
	require.Equal(t, `Event "Spring Expo" approved and published`, result.Message)

	require.Equal(t, models.EventStatusPublished, events.applied["status"])

	require.Len(t, audit.entries, 1)
	require.Equal(t, models.ActionEventApproved, audit.entries[0].Action)
	require.Equal(t, "event", audit.entries[0].Resource)
	require.Equal(t, uint(42), audit.entries[0].ResourceID)
	require.Equal(t, "10.0.0.1", audit.entries[0].Meta.IPAddress)

	require.Len(t, dispatcher.dispatches, 2)
	organizer := dispatcher.dispatches[0]
	require.Equal(t, models.NotificationEventApproved, organizer.Type)
	require.Equal(t, uint(9), *organizer.UserID)
	require.Equal(t, "ada@example.com", organizer.Email)
	selfNotice := dispatcher.dispatches[1]
	require.Equal(t, models.NotificationAdminAction, selfNotice.Type)
	require.Equal(t, uint(1), *selfNotice.UserID)
}

func TestModerateRejectStampsReason(t *testing.T) {
	events := &stubEventRepo{event: pendingEvent()}
	admin := Actor{Kind: ActorKindSubAdmin, ID: 3, Name: "Moderator"}
	svc, audit, dispatcher := newModerationFixture(events, admin)

	result, err := svc.Moderate(context.Background(), SessionClaims{SubjectID: 3}, 42,
		dto.EventModerationRequest{Action: "reject", Reason: "missing venue details"}, RequestMeta{})
	require.NoError(t, err)

	require.Equal(t, models.EventStatusRejected, result.Event.Status)
	require.False(t, result.Event.IsPublic)
	require.NotNil(t, result.Event.RejectionReason)
	require.Equal(t, "missing venue details", *result.Event.RejectionReason)
	require.Equal(t, uint(3), *result.Event.RejectedByID)
	require.Equal(t, `Event "Spring Expo" rejected`, result.Message)

	require.Len(t, audit.entries, 1)
	require.Equal(t, models.ActionEventRejected, audit.entries[0].Action)
	require.Equal(t, "missing venue details", audit.entries[0].Details["rejection_reason"])

	require.Equal(t, models.NotificationEventRejected, dispatcher.dispatches[0].Type)
}

func TestModerateRejectRequiresReason(t *testing.T) {
	events := &stubEventRepo{event: pendingEvent()}
	svc, audit, dispatcher := newModerationFixture(events, Actor{Kind: ActorKindSuperAdmin, ID: 1})

	_, err := svc.Moderate(context.Background(), SessionClaims{SubjectID: 1}, 42,
		dto.EventModerationRequest{Action: "reject", Reason: "   "}, RequestMeta{})
	require.ErrorIs(t, err, lifecycle.ErrReasonRequired)
	require.Zero(t, events.applyCalls)
	require.Empty(t, audit.entries)
	require.Empty(t, dispatcher.dispatches)
}

func TestModerateUnknownActionLeavesEventUntouched(t *testing.T) {
	events := &stubEventRepo{event: pendingEvent()}
	svc, audit, _ := newModerationFixture(events, Actor{Kind: ActorKindSuperAdmin, ID: 1})

	_, err := svc.Moderate(context.Background(), SessionClaims{SubjectID: 1}, 42,
		dto.EventModerationRequest{Action: "archive"}, RequestMeta{})
	require.ErrorIs(t, err, lifecycle.ErrUnknownAction)
	require.Zero(t, events.applyCalls)
	require.Empty(t, audit.entries)
}

func TestModerateUnauthenticatedBeforePayloadValidation(t *testing.T) {
	events := &stubEventRepo{event: pendingEvent()}
	audit := &recordingAudit{}
	dispatcher := &recordingDispatcher{}
	svc := NewEventModerationService(events, &stubResolver{err: ErrUnauthenticated}, audit, dispatcher, validator.New(validator.WithRequiredStructEnabled()), testLogger())

	// The payload is also invalid (no action); identity still decides first.
	_, err := svc.Moderate(context.Background(), SessionClaims{}, 42,
		dto.EventModerationRequest{}, RequestMeta{})
	require.ErrorIs(t, err, ErrUnauthenticated)
	require.Zero(t, events.applyCalls)
}

func TestModerateNonAdminForbidden(t *testing.T) {
	events := &stubEventRepo{event: pendingEvent()}
	visitor := Actor{Kind: ActorKindUser, ID: 7, Role: models.RoleVisitor}
	svc, audit, dispatcher := newModerationFixture(events, visitor)

	_, err := svc.Moderate(context.Background(), SessionClaims{SubjectID: 7}, 42,
		dto.EventModerationRequest{Action: "approve"}, RequestMeta{})
	require.ErrorIs(t, err, ErrActorForbidden)
	require.Zero(t, events.applyCalls)
	require.Empty(t, audit.entries)
	require.Empty(t, dispatcher.dispatches)
}

func TestModerateMissingEvent(t *testing.T) {
	events := &stubEventRepo{event: pendingEvent()}
	svc, _, _ := newModerationFixture(events, Actor{Kind: ActorKindSuperAdmin, ID: 1})

	_, err := svc.Moderate(context.Background(), SessionClaims{SubjectID: 1}, 4040,
		dto.EventModerationRequest{Action: "approve"}, RequestMeta{})
	require.ErrorIs(t, err, ErrEventNotFound)
}

func TestModerateDispatcherFailureDoesNotFailModeration(t *testing.T) {
	events := &stubEventRepo{event: pendingEvent()}
	audit := &recordingAudit{}
	dispatcher := &recordingDispatcher{err: errors.New("broker unavailable")}
	svc := NewEventModerationService(events, &stubResolver{actor: Actor{Kind: ActorKindSuperAdmin, ID: 1}}, audit, dispatcher, validator.New(validator.WithRequiredStructEnabled()), testLogger())

	result, err := svc.Moderate(context.Background(), SessionClaims{SubjectID: 1}, 42,
		dto.EventModerationRequest{Action: "approve"}, RequestMeta{})
	require.NoError(t, err)
	require.Equal(t, models.EventStatusPublished, result.Event.Status)
	require.Len(t, audit.entries, 1)
	require.Len(t, dispatcher.dispatches, 2)
}

func TestModerateAuditFailureSurfacesAfterMutation(t *testing.T) {
	events := &stubEventRepo{event: pendingEvent()}
	audit := &recordingAudit{err: errors.New("audit store down")}
	dispatcher := &recordingDispatcher{}
	svc := NewEventModerationService(events, &stubResolver{actor: Actor{Kind: ActorKindSuperAdmin, ID: 1}}, audit, dispatcher, validator.New(validator.WithRequiredStructEnabled()), testLogger())

	_, err := svc.Moderate(context.Background(), SessionClaims{SubjectID: 1}, 42,
		dto.EventModerationRequest{Action: "approve"}, RequestMeta{})
	require.ErrorIs(t, err, ErrAuditFailed)

	// The moderation itself stays applied even though auditing failed.
	require.Equal(t, 1, events.applyCalls)
	require.NotNil(t, events.applied)
	require.Empty(t, dispatcher.dispatches)
}
