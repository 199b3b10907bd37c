package push

import (
	"context"
	"errors"
	"fmt"
	"time"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// ErrInvalidToken marks a delivery failure caused by an invalid or
// unregistered device token. All other gateway failures are opaque.
var ErrInvalidToken = errors.New("push token invalid or unregistered")

// IsInvalidToken reports whether a gateway error means the token is dead and
// the recipient's registration should be cleared.
func IsInvalidToken(err error) bool {
	return errors.Is(err, ErrInvalidToken)
}

// Payload is a push message addressed to one device token.
type Payload struct {
	Title string
	Body  string
	Data  map[string]string
}

// Gateway delivers push messages. Implementations classify dead-token
// failures with ErrInvalidToken.
type Gateway interface {
	Send(ctx context.Context, token string, payload Payload) (messageID string, err error)
}

// FCMGateway sends push messages through Firebase Cloud Messaging.
type FCMGateway struct {
	client *messaging.Client
}

// NewFCMGateway creates an FCMGateway around an initialized messaging client.
func NewFCMGateway(client *messaging.Client) *FCMGateway {
	return &FCMGateway{client: client}
}

// Send delivers the payload to a single token via FCM.
func (g *FCMGateway) Send(ctx context.Context, token string, payload Payload) (string, error) {
	msg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: payload.Title,
			Body:  payload.Body,
		},
		Data: payload.Data,
	}

	messageID, err := g.client.Send(ctx, msg)
	if err != nil {
		if messaging.IsUnregistered(err) || messaging.IsSenderIDMismatch(err) {
			return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
		return "", err
	}
	return messageID, nil
}

// DryRunGateway logs would-be deliveries instead of sending them. Selected by
// configuration for environments without push credentials.
type DryRunGateway struct {
	logger *zap.Logger
}

// NewDryRunGateway creates a DryRunGateway.
func NewDryRunGateway(logger *zap.Logger) *DryRunGateway {
	return &DryRunGateway{logger: logger}
}

// Send logs the payload and returns a synthetic message id.
func (g *DryRunGateway) Send(_ context.Context, token string, payload Payload) (string, error) {
	g.logger.Info("dry-run push delivery",
		zap.String("token", token),
		zap.String("title", payload.Title),
		zap.String("body", payload.Body))
	return fmt.Sprintf("dry-run-%d", time.Now().UnixNano()), nil
}
