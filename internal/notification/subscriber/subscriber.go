package subscriber

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"

	"fitai-backend/internal/notification/domain"
	"fitai-backend/pkg/logging"
)

var ErrInvalidRequest = errors.New("invalid push request")

// PushRequest is the message other backends publish to ask for a push
type PushRequest struct {
	UserID      string            `json:"userId"`
	Title       string            `json:"title"`
	Body        string            `json:"body"`
	Type        string            `json:"type,omitempty"`
	ClickAction string            `json:"clickAction,omitempty"`
	Data        map[string]string `json:"data,omitempty"`
}

// Sender delivers a notification to a user
type Sender interface {
	SendToUser(ctx context.Context, userID string, n domain.Notification) (*domain.DeliveryReport, error)
}

// Service receives push requests from a Pub/Sub subscription
type Service struct {
	client  *pubsub.Client
	subName string
	sender  Sender
}

func NewService(ctx context.Context, projectID, subscription, credentialsFile string, sender Sender) (*Service, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := pubsub.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %w", err)
	}

	return &Service{client: client, subName: subscription, sender: sender}, nil
}

// Start blocks receiving messages until ctx is canceled
func (s *Service) Start(ctx context.Context) {
	log := logging.Component("pubsub")

	sub := s.client.Subscription(s.subName)
	exists, err := sub.Exists(ctx)
	if err != nil {
		log.Error().Err(err).Str("subscription", s.subName).Msg("error checking subscription existence")
		return
	}
	if !exists {
		log.Error().Str("subscription", s.subName).Msg("subscription does not exist")
		return
	}

	log.Info().Str("subscription", s.subName).Msg("listening for push requests")
	err = sub.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		if err := Handle(ctx, s.sender, msg.Data); err != nil {
			if errors.Is(err, ErrInvalidRequest) {
				// Redelivery will not fix a malformed message
				log.Warn().Err(err).Str("message_id", msg.ID).Msg("dropping push request")
				msg.Ack()
				return
			}
			log.Error().Err(err).Str("message_id", msg.ID).Msg("push request failed")
			msg.Nack()
			return
		}
		msg.Ack()
	})
	if err != nil {
		log.Error().Err(err).Msg("error receiving messages")
	}
}

func (s *Service) Close() error {
	return s.client.Close()
}

// Handle decodes one push request and dispatches it
func Handle(ctx context.Context, sender Sender, data []byte) error {
	var req PushRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	req.UserID = strings.TrimSpace(req.UserID)
	if req.UserID == "" {
		return fmt.Errorf("%w: userId is required", ErrInvalidRequest)
	}
	if req.Title == "" && req.Body == "" {
		return fmt.Errorf("%w: title or body is required", ErrInvalidRequest)
	}

	typ := req.Type
	if typ == "" {
		typ = "push_request"
	}

	report, err := sender.SendToUser(ctx, req.UserID, domain.Notification{
		Type:        typ,
		Title:       req.Title,
		Body:        req.Body,
		ClickAction: req.ClickAction,
		Data:        req.Data,
	})
	if err != nil {
		return err
	}

	logging.Component("pubsub").Debug().
		Str("user_id", req.UserID).
		Int("sent", report.Sent).
		Int("sessions", report.Sessions).
		Msg("push request delivered")
	return nil
}
