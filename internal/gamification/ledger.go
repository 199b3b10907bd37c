package gamification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mindnest/backend/internal/models"
	"github.com/mindnest/backend/internal/repositories"
	"go.uber.org/zap"
)

// ErrLedgerUnavailable is returned once the retry budget for a profile update
// is exhausted. The triggering user action should surface a retry affordance.
var ErrLedgerUnavailable = errors.New("points ledger unavailable")

// Result is the profile state after a ledger operation.
type Result struct {
	Points int `json:"points"`
	Level  int `json:"level"`
}

// Ledger applies or reverses point-bearing actions against a user's profile.
type Ledger interface {
	Apply(ctx context.Context, userID string, kind models.ActionKind) (Result, error)
	Reverse(ctx context.Context, userID string, kind models.ActionKind) (Result, error)
}

const (
	ledgerMaxAttempts = 3
	ledgerRetryDelay  = time.Second
)

// EventLedger updates points, level and the matching stats counter as a single
// store request per attempt. Transient store failures are retried with a fixed
// backoff; a missing profile is not.
type EventLedger struct {
	profiles   repositories.ProfileRepository
	logger     *zap.Logger
	retryDelay time.Duration
}

// NewEventLedger creates an EventLedger backed by the given profile store.
func NewEventLedger(profiles repositories.ProfileRepository, logger *zap.Logger) *EventLedger {
	return &EventLedger{
		profiles:   profiles,
		logger:     logger,
		retryDelay: ledgerRetryDelay,
	}
}

// Apply awards the points for kind to the user and recomputes their level.
func (l *EventLedger) Apply(ctx context.Context, userID string, kind models.ActionKind) (Result, error) {
	return l.shift(ctx, userID, kind, 1)
}

// Reverse undoes a previously applied action of the same kind. The balance is
// floor-clamped at zero: rapid like/unlike cycling can make the reversal
// smaller than the original award, never negative.
func (l *EventLedger) Reverse(ctx context.Context, userID string, kind models.ActionKind) (Result, error) {
	return l.shift(ctx, userID, kind, -1)
}

func (l *EventLedger) shift(ctx context.Context, userID string, kind models.ActionKind, direction int) (Result, error) {
	var lastErr error
	for attempt := 1; attempt <= ledgerMaxAttempts; attempt++ {
		result, err := l.attempt(ctx, userID, kind, direction)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return Result{}, err
		}
		lastErr = err
		l.logger.Warn("ledger update failed",
			zap.String("user_id", userID),
			zap.String("action", string(kind)),
			zap.Int("attempt", attempt),
			zap.Error(err))

		if attempt == ledgerMaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		case <-time.After(l.retryDelay):
		}
	}
	return Result{}, fmt.Errorf("%w: %v", ErrLedgerUnavailable, lastErr)
}

func (l *EventLedger) attempt(ctx context.Context, userID string, kind models.ActionKind, direction int) (Result, error) {
	profile, err := l.profiles.GetProfile(ctx, userID)
	if err != nil {
		return Result{}, err
	}

	delta := kind.Points() * direction
	newPoints := profile.Points + delta
	if newPoints < 0 {
		newPoints = 0
	}
	newLevel := LevelFor(newPoints)

	statsField := kind.StatsField()
	statsDelta := 0
	if statsField != "" {
		statsDelta = direction
	}

	if err := l.profiles.ApplyPointsDelta(ctx, userID, newPoints, newLevel, statsField, statsDelta); err != nil {
		return Result{}, err
	}
	return Result{Points: newPoints, Level: newLevel}, nil
}
