package service

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/fairhub-io/fairhub-api/internal/models"
)

type memoryNotificationRepo struct {
	notifications []models.Notification
	err           error
}

func (m *memoryNotificationRepo) Create(_ context.Context, notification *models.Notification) error {
	if m.err != nil {
		return m.err
	}
	notification.ID = uint(len(m.notifications) + 1)
	notification.CreatedAt = time.Now()
	m.notifications = append(m.notifications, *notification)
	return nil
}

func (m *memoryNotificationRepo) ListForRecipient(_ context.Context, userID uint, roles []string, limit, offset int) ([]models.Notification, int64, error) {
	var matched []models.Notification
	for _, n := range m.notifications {
		if n.UserID != nil && *n.UserID == userID {
			matched = append(matched, n)
			continue
		}
		for _, role := range roles {
			if n.UserRole == role {
				matched = append(matched, n)
				break
			}
		}
	}
	return matched, int64(len(matched)), nil
}

func (m *memoryNotificationRepo) MarkRead(_ context.Context, id, userID uint) (models.Notification, error) {
	for i, n := range m.notifications {
		if n.ID == id && n.UserID != nil && *n.UserID == userID {
			m.notifications[i].IsRead = true
			return m.notifications[i], nil
		}
	}
	return models.Notification{}, errors.New("not found")
}

func (m *memoryNotificationRepo) CountUnread(_ context.Context, userID uint, roles []string) (int64, error) {
	var count int64
	for _, n := range m.notifications {
		if !n.IsRead && n.UserID != nil && *n.UserID == userID {
			count++
		}
	}
	return count, nil
}

type recordingEmailDelivery struct {
	recipients []string
	subjects   []string
	err        error
}

func (r *recordingEmailDelivery) Deliver(_ context.Context, recipient, subject, _ string) error {
	r.recipients = append(r.recipients, recipient)
	r.subjects = append(r.subjects, subject)
	return r.err
}

func TestDispatchRequiresRecipient(t *testing.T) {
	svc := NewNotificationService(&memoryNotificationRepo{}, nil, "", nil, nil, testLogger())

	_, err := svc.Dispatch(context.Background(), Dispatch{
		Type:    models.NotificationEventApproved,
		Message: "hello",
	})
	require.ErrorIs(t, err, ErrNotificationRecipient)
}

func TestDispatchAppliesDefaultsAndSanitizes(t *testing.T) {
	repo := &memoryNotificationRepo{}
	svc := NewNotificationService(repo, nil, "", nil, nil, testLogger())

	response, err := svc.Dispatch(context.Background(), Dispatch{
		UserID:  ptrUint(7),
		Type:    models.NotificationEventApproved,
		Title:   "Event approved",
		Message: "<script>alert('x')</script>Your event is live.",
	})
	require.NoError(t, err)

	require.Equal(t, "Your event is live.", response.Message)
	require.Equal(t, []string{models.ChannelPush, models.ChannelEmail}, response.Channels)
	require.Equal(t, models.PriorityHigh, response.Priority)
	require.False(t, response.IsRead)
	require.Len(t, repo.notifications, 1)
}

func TestDispatchAdminSelfNoticeDefaultsToPushMedium(t *testing.T) {
	svc := NewNotificationService(&memoryNotificationRepo{}, nil, "", nil, nil, testLogger())

	response, err := svc.Dispatch(context.Background(), Dispatch{
		UserID:  ptrUint(2),
		Type:    models.NotificationAdminAction,
		Message: "You approved the event.",
	})
	require.NoError(t, err)
	require.Equal(t, []string{models.ChannelPush}, response.Channels)
	require.Equal(t, models.PriorityMedium, response.Priority)
}

func TestDispatchRoleAudience(t *testing.T) {
	repo := &memoryNotificationRepo{}
	svc := NewNotificationService(repo, nil, "", nil, nil, testLogger())

	response, err := svc.Dispatch(context.Background(), Dispatch{
		UserRole: models.RoleOrganizer,
		Type:     models.NotificationEventApproved,
		Message:  "Moderation queue cleared.",
	})
	require.NoError(t, err)
	require.Nil(t, response.UserID)
	require.Equal(t, models.RoleOrganizer, response.UserRole)
}

func TestDispatchDeliversEmailBestEffort(t *testing.T) {
	email := &recordingEmailDelivery{err: errors.New("relay down")}
	svc := NewNotificationService(&memoryNotificationRepo{}, nil, "", nil, email, testLogger())

	// A failing relay must not fail the dispatch.
	response, err := svc.Dispatch(context.Background(), Dispatch{
		UserID:  ptrUint(7),
		Email:   "organizer@example.com",
		Type:    models.NotificationEventRejected,
		Title:   "Event rejected",
		Message: "Your event was rejected.",
	})
	require.NoError(t, err)
	require.Equal(t, uint(1), response.ID)
	require.Equal(t, []string{"organizer@example.com"}, email.recipients)
}

func TestDispatchBroadcastsToSubscriber(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer redisClient.Close()

	svc := NewNotificationService(&memoryNotificationRepo{}, redisClient, "fairhub", nil, nil, testLogger())

	channel, cleanup := svc.Subscribe(7)
	defer cleanup()

	_, err = svc.Dispatch(context.Background(), Dispatch{
		UserID:  ptrUint(7),
		Type:    models.NotificationAppointmentConfirmed,
		Message: "Your appointment is confirmed.",
	})
	require.NoError(t, err)

	select {
	case notification := <-channel:
		require.Equal(t, models.NotificationAppointmentConfirmed, notification.Type)
	case <-time.After(time.Second):
		t.Fatal("expected a broadcast notification")
	}
}

func TestDispatchDropsForSlowSubscriber(t *testing.T) {
	repo := &memoryNotificationRepo{}
	svc := NewNotificationService(repo, nil, "", nil, nil, testLogger())

	// The subscriber never drains its channel; once the buffer is full,
	// further broadcasts are dropped instead of blocking dispatch.
	channel, cleanup := svc.Subscribe(7)
	defer cleanup()

	total := notificationBufferSize + 8
	for i := 0; i < total; i++ {
		_, err := svc.Dispatch(context.Background(), Dispatch{
			UserID:  ptrUint(7),
			Type:    models.NotificationAppointmentConfirmed,
			Message: "Your appointment is confirmed.",
		})
		require.NoError(t, err)
	}

	require.Len(t, repo.notifications, total)

	buffered := 0
	for {
		select {
		case <-channel:
			buffered++
			continue
		default:
		}
		break
	}
	require.Equal(t, notificationBufferSize, buffered)
}

func TestDispatchStoreFailureSurfacesToCaller(t *testing.T) {
	repo := &memoryNotificationRepo{err: errors.New("insert failed")}
	svc := NewNotificationService(repo, nil, "", nil, nil, testLogger())

	_, err := svc.Dispatch(context.Background(), Dispatch{
		UserID:  ptrUint(1),
		Type:    models.NotificationEventApproved,
		Message: "hello",
	})
	require.Error(t, err)
}

func TestListAndMarkRead(t *testing.T) {
	repo := &memoryNotificationRepo{}
	svc := NewNotificationService(repo, nil, "", nil, nil, testLogger())

	_, err := svc.Dispatch(context.Background(), Dispatch{
		UserID:  ptrUint(5),
		Type:    models.NotificationAppointmentCancelled,
		Message: "Cancelled.",
	})
	require.NoError(t, err)

	listed, err := svc.List(context.Background(), 5, []string{models.RoleVisitor}, 1, 10)
	require.NoError(t, err)
	require.Len(t, listed.Items, 1)
	require.Equal(t, int64(1), listed.UnreadCount)

	read, err := svc.MarkRead(context.Background(), listed.Items[0].ID, 5)
	require.NoError(t, err)
	require.True(t, read.IsRead)
}
