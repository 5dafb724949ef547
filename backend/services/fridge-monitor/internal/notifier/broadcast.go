package notifier

import (
	"context"

	"go.uber.org/zap"

	"fridgewatch/backend/services/fridge-monitor/internal/metrics"
)

// ChannelFeed labels deliveries to live alert feed subscribers.
const ChannelFeed = "feed"

// Broadcaster fans a payload out to connected subscribers and returns how many got it.
type Broadcaster interface {
	Broadcast(payload []byte) int
}

// FeedNotifier pushes alerts to the websocket alert feed. It never fails;
// having no subscribers is not an error.
type FeedNotifier struct {
	hub    Broadcaster
	logger *zap.Logger
}

// NewFeedNotifier returns notifier.
func NewFeedNotifier(hub Broadcaster, logger *zap.Logger) *FeedNotifier {
	return &FeedNotifier{hub: hub, logger: logger}
}

// Notify broadcasts message to the feed.
func (n *FeedNotifier) Notify(_ context.Context, message string) error {
	delivered := n.hub.Broadcast([]byte(message))
	metrics.NotificationsTotal.WithLabelValues(ChannelFeed, "delivered").Inc()
	n.logger.Debug("alert broadcast to feed", zap.Int("subscribers", delivered))
	return nil
}
