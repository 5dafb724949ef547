package notifier

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"fridgewatch/backend/libs/httpclient"
	"fridgewatch/backend/services/fridge-monitor/internal/metrics"
	"fridgewatch/backend/services/fridge-monitor/internal/service"
)

const (
	// ChannelWebhook labels deliveries through the incoming webhook.
	ChannelWebhook = "webhook"

	maxErrorBody = 512
)

var errNoWebhookURL = errors.New("webhook url is not configured")

type webhookPayload struct {
	Text string `json:"text"`
}

// WebhookNotifier posts {"text": message} to a Slack-style incoming webhook.
type WebhookNotifier struct {
	url    string
	client *httpclient.Client
	logger *zap.Logger
}

// NewWebhookNotifier returns notifier. An empty url is reported on every Notify.
func NewWebhookNotifier(url string, client *httpclient.Client, logger *zap.Logger) *WebhookNotifier {
	return &WebhookNotifier{
		url:    strings.TrimSpace(url),
		client: client,
		logger: logger,
	}
}

// Notify sends the message once. Anything other than HTTP 200 is a *service.DeliveryError.
func (n *WebhookNotifier) Notify(ctx context.Context, message string) error {
	err := n.send(ctx, message)
	if err != nil {
		metrics.NotificationsTotal.WithLabelValues(ChannelWebhook, "failed").Inc()
		n.logger.Debug("webhook notification failed", zap.Error(err))
		return err
	}
	metrics.NotificationsTotal.WithLabelValues(ChannelWebhook, "delivered").Inc()
	n.logger.Info("notification sent to webhook successfully")
	return nil
}

func (n *WebhookNotifier) send(ctx context.Context, message string) error {
	if n.url == "" {
		return &service.DeliveryError{Channel: ChannelWebhook, Err: errNoWebhookURL}
	}

	resp, err := n.client.PostJSON(ctx, n.url, webhookPayload{Text: message})
	if err != nil {
		return &service.DeliveryError{Channel: ChannelWebhook, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return &service.DeliveryError{
			Channel:    ChannelWebhook,
			StatusCode: resp.StatusCode,
			Body:       truncate(string(resp.Body), maxErrorBody),
		}
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
