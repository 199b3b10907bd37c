package push

import (
	"context"
	"errors"

	"github.com/mindnest/backend/internal/models"
	"github.com/mindnest/backend/internal/repositories"
	"go.uber.org/zap"
)

// pushTitle is the fixed application name shown on every push message.
const pushTitle = "MindNest"

// Dispatcher reacts to newly created notifications by delivering a push
// message to the recipient's registered device.
type Dispatcher interface {
	// Dispatch attempts delivery and reports the outcome. An empty message id
	// with a nil error means delivery was skipped (no token, push disabled, or
	// a dead token that was just cleared).
	Dispatch(ctx context.Context, notification *models.Notification) (messageID string, err error)

	// OnNotificationCreated is the fire-and-forget trigger path: outcomes are
	// logged, never propagated. Push delivery must not fail the user action
	// that produced the notification.
	OnNotificationCreated(ctx context.Context, notification *models.Notification)
}

// NotificationDispatcher implements Dispatcher over a ProfileRepository and a
// push Gateway, self-healing invalid registrations.
type NotificationDispatcher struct {
	profiles repositories.ProfileRepository
	gateway  Gateway
	logger   *zap.Logger
}

// NewNotificationDispatcher creates a NotificationDispatcher.
func NewNotificationDispatcher(profiles repositories.ProfileRepository, gateway Gateway, logger *zap.Logger) *NotificationDispatcher {
	return &NotificationDispatcher{
		profiles: profiles,
		gateway:  gateway,
		logger:   logger,
	}
}

// Dispatch resolves the recipient's profile and token, sends the payload, and
// clears the registration when the gateway reports the token dead. At-most-once:
// no retries, no delivery receipt.
func (d *NotificationDispatcher) Dispatch(ctx context.Context, n *models.Notification) (string, error) {
	profile, err := d.profiles.GetProfile(ctx, n.RecipientID)
	if err != nil {
		return "", err
	}

	// The expected common case: recipient never granted push permission.
	if profile.PushToken == "" || !profile.PushEnabled {
		return "", nil
	}

	payload := Payload{
		Title: pushTitle,
		Body:  n.Message,
		Data: map[string]string{
			"type":   n.Type,
			"postId": n.PostID,
		},
	}

	messageID, err := d.gateway.Send(ctx, profile.PushToken, payload)
	if err != nil {
		if IsInvalidToken(err) {
			if clearErr := d.profiles.ClearPushToken(ctx, n.RecipientID); clearErr != nil {
				d.logger.Error("failed to clear dead push token",
					zap.String("recipient_id", n.RecipientID),
					zap.Error(clearErr))
			} else {
				d.logger.Info("cleared dead push token and disabled push",
					zap.String("recipient_id", n.RecipientID))
			}
			return "", nil
		}
		return "", err
	}
	return messageID, nil
}

// OnNotificationCreated runs Dispatch and swallows every failure.
func (d *NotificationDispatcher) OnNotificationCreated(ctx context.Context, n *models.Notification) {
	messageID, err := d.Dispatch(ctx, n)
	switch {
	case errors.Is(err, repositories.ErrProfileNotFound):
		d.logger.Warn("notification recipient has no profile, skipping push",
			zap.String("recipient_id", n.RecipientID))
	case err != nil:
		d.logger.Error("push delivery failed",
			zap.String("recipient_id", n.RecipientID),
			zap.String("type", n.Type),
			zap.Error(err))
	case messageID != "":
		d.logger.Info("push delivered",
			zap.String("recipient_id", n.RecipientID),
			zap.String("message_id", messageID))
	}
}
