package fcm

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/messaging"

	"fitai-backend/pkg/logging"
)

// Client wraps Firebase Cloud Messaging functionality
type Client struct {
	messagingClient *messaging.Client
	icon            string
}

// NewClient creates an FCM client from an initialized messaging client
func NewClient(messagingClient *messaging.Client) *Client {
	return &Client{
		messagingClient: messagingClient,
		icon:            "/icons/icon-192.png",
	}
}

// NotificationData contains the data to send in a push notification
type NotificationData struct {
	Title    string
	Body     string
	ImageURL string            // Optional notification image
	Data     map[string]string // Custom data payload
	// Click action
	ClickAction string // URL to open when notification is clicked
}

// SendResult describes per-token outcomes of a multicast send.
type SendResult struct {
	SuccessCount int
	FailureCount int
	// Unregistered holds tokens the provider rejected as no longer valid.
	Unregistered []string
}

// SendToDevices sends a push notification to multiple device tokens
func (c *Client) SendToDevices(ctx context.Context, tokens []string, notification NotificationData) (*SendResult, error) {
	if len(tokens) == 0 {
		return &SendResult{}, nil
	}

	message := &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title:    notification.Title,
			Body:     notification.Body,
			ImageURL: notification.ImageURL,
		},
		Data:    notification.Data,
		Webpush: c.webpushConfig(notification),
	}

	response, err := c.messagingClient.SendEachForMulticast(ctx, message)
	if err != nil {
		return nil, fmt.Errorf("failed to send FCM multicast message: %w", err)
	}

	log := logging.Component("fcm")
	log.Debug().Int("success", response.SuccessCount).Int("failure", response.FailureCount).Msg("multicast sent")

	result := &SendResult{
		SuccessCount: response.SuccessCount,
		FailureCount: response.FailureCount,
	}
	for i, resp := range response.Responses {
		if resp.Success {
			continue
		}
		log.Warn().Str("token", shortToken(tokens[i])).Err(resp.Error).Msg("send failed")
		if messaging.IsUnregistered(resp.Error) || messaging.IsInvalidArgument(resp.Error) {
			result.Unregistered = append(result.Unregistered, tokens[i])
		}
	}

	return result, nil
}

func (c *Client) webpushConfig(notification NotificationData) *messaging.WebpushConfig {
	cfg := &messaging.WebpushConfig{
		Notification: &messaging.WebpushNotification{
			Title: notification.Title,
			Body:  notification.Body,
			Icon:  c.icon,
		},
	}
	if notification.ClickAction != "" {
		cfg.FCMOptions = &messaging.WebpushFCMOptions{Link: notification.ClickAction}
	}
	return cfg
}

func shortToken(token string) string {
	if len(token) <= 20 {
		return token
	}
	return token[:20] + "..."
}
