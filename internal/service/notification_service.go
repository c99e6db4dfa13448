package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-whisperer/internal/config"
	"github.com/spec-kit/ticket-whisperer/internal/events"
	"github.com/spec-kit/ticket-whisperer/internal/persistence"
)

// NotificationService forwards store events to the log and, when Redis is
// configured, to a pub/sub channel for external observers.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	redis      *persistence.Redis
	channel    string
}

// NewNotificationService creates the service. redis may be nil.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, redis *persistence.Redis, cfg config.RedisConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		redis:      redis,
		channel:    cfg.EventChannel,
	}
}

// RegisterHandlers subscribes to store events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleEvent)
	n.dispatcher.Subscribe(events.EventTicketUpdated, n.handleEvent)
	n.dispatcher.Subscribe(events.EventTicketDeleted, n.handleEvent)
}

func (n *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	n.logger.Info(string(event.Type),
		zap.String("ticket_id", event.TicketID),
		zap.Any("payload", event.Payload))
	n.publishToRedis(ctx, event)
	return nil
}

func (n *NotificationService) publishToRedis(ctx context.Context, event events.Event) {
	if n.redis == nil || n.channel == "" {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		n.logger.Warn("marshal event", zap.Error(err))
		return
	}
	if err := n.redis.Publish(ctx, n.channel, payload); err != nil {
		n.logger.Warn("publish event to redis",
			zap.String("channel", n.channel),
			zap.Error(err))
	}
}
