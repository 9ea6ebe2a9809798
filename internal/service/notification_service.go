package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/fairhub-io/fairhub-api/internal/dto"
	"github.com/fairhub-io/fairhub-api/internal/models"
	"github.com/fairhub-io/fairhub-api/internal/observability"
	"github.com/fairhub-io/fairhub-api/internal/repository"
)

const notificationBufferSize = 16

// ErrNotificationRecipient indicates a dispatch without any recipient.
var ErrNotificationRecipient = errors.New("notification requires a user id or role audience")

// Dispatch describes one outbound notification. Exactly one of UserID or
// UserRole must be set. Email is the resolved recipient address for the EMAIL
// channel, when known.
type Dispatch struct {
	UserID   *uint
	UserRole string
	Email    string
	Type     string
	Title    string
	Message  string
	Channels []string
	Priority string
	Metadata map[string]interface{}
}

// NotificationDispatcher creates notification records as best-effort side
// effects. Errors returned here are logged and discarded by orchestration
// code; they must never abort the primary mutation.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, payload Dispatch) (dto.NotificationResponse, error)
}

// NotificationService persists, lists and streams notifications.
type NotificationService interface {
	NotificationDispatcher
	List(ctx context.Context, userID uint, roles []string, page, pageSize int) (dto.NotificationListResponse, error)
	MarkRead(ctx context.Context, id, userID uint) (dto.NotificationResponse, error)
	Subscribe(userID uint) (<-chan dto.NotificationResponse, func())
	Start(ctx context.Context)
}

type notificationService struct {
	repo        repository.NotificationRepository
	redis       *redis.Client
	redisStream string
	nats        *nats.Conn
	natsSubject string
	email       EmailDelivery
	logger      zerolog.Logger
	tracer      trace.Tracer
	sanitizer   *bluemonday.Policy
	broker      *notificationBroker
	nodeID      string
}

type notificationEvent struct {
	Source       string                   `json:"source"`
	Notification dto.NotificationResponse `json:"notification"`
	SentAt       time.Time                `json:"sent_at"`
}

type notificationBroker struct {
	mu          sync.RWMutex
	subscribers map[uint]map[chan dto.NotificationResponse]struct{}
}

// NewNotificationService constructs the notification service.
func NewNotificationService(repo repository.NotificationRepository, redisClient *redis.Client, channelBase string, natsConn *nats.Conn, email EmailDelivery, logger zerolog.Logger) NotificationService {
	stream := ""
	subject := ""
	if channelBase != "" {
		stream = channelBase + ":notifications"
		subject = strings.ReplaceAll(channelBase, ":", ".") + ".notifications"
	}

	return &notificationService{
		repo:        repo,
		redis:       redisClient,
		redisStream: stream,
		nats:        natsConn,
		natsSubject: subject,
		email:       email,
		logger:      logger.With().Str("component", "notification_service").Logger(),
		tracer:      otel.Tracer("github.com/fairhub-io/fairhub-api/internal/service/notification"),
		sanitizer:   bluemonday.StrictPolicy(),
		broker: &notificationBroker{
			subscribers: make(map[uint]map[chan dto.NotificationResponse]struct{}),
		},
		nodeID: uuid.NewString(),
	}
}

func (s *notificationService) Start(ctx context.Context) {
	if s.redis != nil && s.redisStream != "" {
		go s.consumeRedis(ctx)
	}
	if s.nats != nil && s.natsSubject != "" {
		go s.consumeNATS(ctx)
	}
}

func defaultChannels(notificationType string) []string {
	if notificationType == models.NotificationAdminAction {
		return []string{models.ChannelPush}
	}
	return []string{models.ChannelPush, models.ChannelEmail}
}

func defaultPriority(notificationType string) string {
	if notificationType == models.NotificationAdminAction {
		return models.PriorityMedium
	}
	return models.PriorityHigh
}

func (s *notificationService) Dispatch(ctx context.Context, payload Dispatch) (dto.NotificationResponse, error) {
	if payload.UserID == nil && strings.TrimSpace(payload.UserRole) == "" {
		return dto.NotificationResponse{}, ErrNotificationRecipient
	}

	cleanTitle := strings.TrimSpace(s.sanitizer.Sanitize(payload.Title))
	cleanMessage := strings.TrimSpace(s.sanitizer.Sanitize(payload.Message))
	if cleanMessage == "" {
		return dto.NotificationResponse{}, errors.New("notification message empty after sanitization")
	}

	channels := payload.Channels
	if len(channels) == 0 {
		channels = defaultChannels(payload.Type)
	}
	priority := payload.Priority
	if priority == "" {
		priority = defaultPriority(payload.Type)
	}

	attrs := []attribute.KeyValue{
		attribute.String("notification.type", payload.Type),
		attribute.String("notification.priority", priority),
	}

	spanCtx, span := s.tracer.Start(ctx, "notifications.dispatch", trace.WithAttributes(attrs...))
	defer span.End()

	model := models.Notification{
		UserID:   payload.UserID,
		UserRole: strings.TrimSpace(payload.UserRole),
		Type:     payload.Type,
		Title:    cleanTitle,
		Message:  cleanMessage,
		Channels: channels,
		Priority: priority,
		Metadata: payload.Metadata,
	}

	if err := s.repo.Create(spanCtx, &model); err != nil {
		span.RecordError(err)
		observability.NotificationFailures().WithLabelValues(payload.Type).Inc()
		return dto.NotificationResponse{}, err
	}

	response := dto.NewNotificationResponse(model)

	if containsChannel(channels, models.ChannelPush) {
		s.broadcast(response)
		if err := s.publish(spanCtx, response); err != nil {
			s.logger.Warn().Err(err).Msg("failed to publish notification to broker")
		}
	}

	if containsChannel(channels, models.ChannelEmail) && payload.Email != "" && s.email != nil {
		if err := s.email.Deliver(spanCtx, payload.Email, cleanTitle, cleanMessage); err != nil {
			s.logger.Warn().Err(err).Str("type", payload.Type).Msg("email delivery failed")
		}
	}

	observability.NotificationsDispatched().WithLabelValues(response.Type).Inc()

	return response, nil
}

func containsChannel(channels []string, channel string) bool {
	for _, c := range channels {
		if strings.EqualFold(c, channel) {
			return true
		}
	}
	return false
}

func (s *notificationService) List(ctx context.Context, userID uint, roles []string, page, pageSize int) (dto.NotificationListResponse, error) {
	if userID == 0 {
		return dto.NotificationListResponse{}, errors.New("user id is required")
	}
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	notifications, total, err := s.repo.ListForRecipient(ctx, userID, roles, pageSize, (page-1)*pageSize)
	if err != nil {
		return dto.NotificationListResponse{}, err
	}

	unread, err := s.repo.CountUnread(ctx, userID, roles)
	if err != nil {
		return dto.NotificationListResponse{}, err
	}

	pagination := dto.PaginationMeta{
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: totalPages(total, pageSize),
	}

	return dto.NotificationListResponse{
		Items:       dto.NewNotificationResponseSlice(notifications),
		UnreadCount: unread,
		Pagination:  pagination,
	}, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id, userID uint) (dto.NotificationResponse, error) {
	attrs := []attribute.KeyValue{
		attribute.Int64("notification.id", int64(id)),
	}
	spanCtx, span := s.tracer.Start(ctx, "notifications.mark_read", trace.WithAttributes(attrs...))
	defer span.End()

	notification, err := s.repo.MarkRead(spanCtx, id, userID)
	if err != nil {
		span.RecordError(err)
		return dto.NotificationResponse{}, err
	}

	return dto.NewNotificationResponse(notification), nil
}

func (s *notificationService) Subscribe(userID uint) (<-chan dto.NotificationResponse, func()) {
	channel := make(chan dto.NotificationResponse, notificationBufferSize)

	s.broker.subscribe(userID, channel)
	observability.StreamClients().Inc()

	cleanup := func() {
		s.broker.unsubscribe(userID, channel)
		observability.StreamClients().Dec()
	}

	return channel, cleanup
}

func (s *notificationService) broadcast(notification dto.NotificationResponse) {
	if notification.UserID == nil {
		return
	}
	s.broker.broadcast(*notification.UserID, notification)
}

func (s *notificationService) publish(ctx context.Context, notification dto.NotificationResponse) error {
	event := notificationEvent{
		Source:       s.nodeID,
		Notification: notification,
		SentAt:       time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if s.redis != nil && s.redisStream != "" {
		if err := s.redis.Publish(ctx, s.redisStream, payload).Err(); err != nil {
			return err
		}
	}

	if s.nats != nil && s.natsSubject != "" {
		if err := s.nats.Publish(s.natsSubject, payload); err != nil {
			return err
		}
	}

	return nil
}

func (s *notificationService) consumeRedis(ctx context.Context) {
	pubsub := s.redis.Subscribe(ctx, s.redisStream)
	defer func() { _ = pubsub.Close() }()

	for {
		msg, err := pubsub.ReceiveMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			s.logger.Error().Err(err).Msg("notification redis subscription closed")
			return
		}
		s.handleEvent([]byte(msg.Payload))
	}
}

func (s *notificationService) consumeNATS(ctx context.Context) {
	sub, err := s.nats.QueueSubscribe(s.natsSubject, "fairhub-notifications", func(msg *nats.Msg) {
		s.handleEvent(msg.Data)
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to subscribe to nats notifications subject")
		return
	}

	go func() {
		<-ctx.Done()
		if err := sub.Drain(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to drain notification nats subscription")
		}
	}()
}

func (s *notificationService) handleEvent(payload []byte) {
	var event notificationEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		s.logger.Warn().Err(err).Msg("invalid notification event payload")
		return
	}

	// Events published by this node were already broadcast locally.
	if event.Source == s.nodeID {
		return
	}

	s.broadcast(event.Notification)
}

func (b *notificationBroker) subscribe(userID uint, channel chan dto.NotificationResponse) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subscribers[userID] == nil {
		b.subscribers[userID] = make(map[chan dto.NotificationResponse]struct{})
	}
	b.subscribers[userID][channel] = struct{}{}
}

func (b *notificationBroker) unsubscribe(userID uint, channel chan dto.NotificationResponse) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if subscribers, ok := b.subscribers[userID]; ok {
		delete(subscribers, channel)
		if len(subscribers) == 0 {
			delete(b.subscribers, userID)
		}
	}
	close(channel)
}

func (b *notificationBroker) broadcast(userID uint, notification dto.NotificationResponse) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for channel := range b.subscribers[userID] {
		select {
		case channel <- notification:
		default:
			// Slow subscriber; drop rather than block dispatch.
		}
	}
}

func totalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 1
	}
	pages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		pages++
	}
	if pages == 0 {
		pages = 1
	}
	return pages
}
