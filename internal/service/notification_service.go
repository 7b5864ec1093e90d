package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/ride-hail-service/internal/config"
	"github.com/spec-kit/ride-hail-service/internal/events"
)

// NotificationService handles emitting notifications for auth events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventUserRegistered, n.handleRegistered)
	n.dispatcher.Subscribe(events.EventCaptainRegistered, n.handleRegistered)
	n.dispatcher.Subscribe(events.EventActorLoggedIn, n.handleLoggedIn)
	n.dispatcher.Subscribe(events.EventActorLoggedOut, n.handleLoggedOut)
}

func (n *NotificationService) handleRegistered(ctx context.Context, event events.Event) error {
	n.logger.Info("ActorRegistered",
		zap.String("actor_id", event.ActorID),
		zap.String("role", string(event.Role)))
	n.sendWelcomeEmailStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleLoggedIn(ctx context.Context, event events.Event) error {
	n.logger.Info("ActorLoggedIn",
		zap.String("actor_id", event.ActorID),
		zap.String("role", string(event.Role)))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleLoggedOut(ctx context.Context, event events.Event) error {
	n.logger.Info("ActorLoggedOut",
		zap.String("actor_id", event.ActorID),
		zap.String("role", string(event.Role)))
	return nil
}

func (n *NotificationService) sendWelcomeEmailStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendWelcomeEmailStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("actor_id", event.ActorID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("actor_id", event.ActorID),
		zap.String("event_type", string(event.Type)))
}
