package gamification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mindnest/backend/internal/models"
	"github.com/mindnest/backend/internal/repositories"
	"go.uber.org/zap"
)

// fakeProfileStore is an in-memory ProfileRepository with failure injection.
type fakeProfileStore struct {
	profiles   map[string]*models.Profile
	getCalls   int
	writeCalls int
	failWrites int // fail this many writes before succeeding
	writeErr   error
}

func newFakeProfileStore(profiles ...*models.Profile) *fakeProfileStore {
	s := &fakeProfileStore{profiles: map[string]*models.Profile{}}
	for _, p := range profiles {
		s.profiles[p.ID] = p
	}
	return s
}

func (s *fakeProfileStore) GetProfile(_ context.Context, userID string) (*models.Profile, error) {
	s.getCalls++
	p, ok := s.profiles[userID]
	if !ok {
		return nil, repositories.ErrProfileNotFound
	}
	copied := *p
	return &copied, nil
}

func (s *fakeProfileStore) CreateProfile(_ context.Context, p *models.Profile) error {
	s.profiles[p.ID] = p
	return nil
}

func (s *fakeProfileStore) ApplyPointsDelta(_ context.Context, userID string, points, level int, statsField string, statsDelta int) error {
	s.writeCalls++
	if s.failWrites > 0 {
		s.failWrites--
		return s.writeErr
	}
	p, ok := s.profiles[userID]
	if !ok {
		return repositories.ErrProfileNotFound
	}
	p.Points = points
	p.Level = level
	switch statsField {
	case "posts_count":
		p.Stats.PostsCount += statsDelta
	case "comments_count":
		p.Stats.CommentsCount += statsDelta
	case "likes_given_count":
		p.Stats.LikesGivenCount += statsDelta
	case "likes_received_count":
		p.Stats.LikesReceivedCount += statsDelta
	}
	return nil
}

func (s *fakeProfileStore) SavePushToken(_ context.Context, userID, token string) error {
	s.profiles[userID].PushToken = token
	s.profiles[userID].PushEnabled = true
	return nil
}

func (s *fakeProfileStore) ClearPushToken(_ context.Context, userID string) error {
	s.profiles[userID].PushToken = ""
	s.profiles[userID].PushEnabled = false
	return nil
}

func (s *fakeProfileStore) SetPushEnabled(_ context.Context, userID string, enabled bool) error {
	s.profiles[userID].PushEnabled = enabled
	return nil
}

func testLedger(store *fakeProfileStore) *EventLedger {
	l := NewEventLedger(store, zap.NewNop())
	l.retryDelay = time.Millisecond
	return l
}

func TestLedgerApplyScenario(t *testing.T) {
	t.Parallel()
	store := newFakeProfileStore(&models.Profile{ID: "u1", Points: 0, Level: 1})
	ledger := testLedger(store)
	ctx := context.Background()

	steps := []struct {
		kind   models.ActionKind
		points int
		level  int
	}{
		{models.ActionPost, 3, 1},
		{models.ActionLikeReceived, 6, 1},
		{models.ActionMeditationCompleted, 16, 2},
	}

	for _, step := range steps {
		result, err := ledger.Apply(ctx, "u1", step.kind)
		if err != nil {
			t.Fatalf("Apply(%s) failed: %v", step.kind, err)
		}
		if result.Points != step.points || result.Level != step.level {
			t.Fatalf("Apply(%s) = {%d, %d}, want {%d, %d}",
				step.kind, result.Points, result.Level, step.points, step.level)
		}
	}

	if got := store.profiles["u1"].Stats.PostsCount; got != 1 {
		t.Errorf("posts_count = %d, want 1", got)
	}
	if got := store.profiles["u1"].Stats.LikesReceivedCount; got != 1 {
		t.Errorf("likes_received_count = %d, want 1", got)
	}
}

func TestLedgerReverseClampsAtZero(t *testing.T) {
	t.Parallel()
	store := newFakeProfileStore(&models.Profile{ID: "u1", Points: 2, Level: 1})
	ledger := testLedger(store)
	ctx := context.Background()

	result, err := ledger.Reverse(ctx, "u1", models.ActionLikeGiven)
	if err != nil {
		t.Fatalf("first Reverse failed: %v", err)
	}
	if result.Points != 1 {
		t.Fatalf("first Reverse points = %d, want 1", result.Points)
	}

	result, err = ledger.Reverse(ctx, "u1", models.ActionLikeGiven)
	if err != nil {
		t.Fatalf("second Reverse failed: %v", err)
	}
	if result.Points != 0 {
		t.Fatalf("second Reverse points = %d, want 0", result.Points)
	}

	// Balance saturates at zero, never negative.
	result, err = ledger.Reverse(ctx, "u1", models.ActionLikeGiven)
	if err != nil {
		t.Fatalf("third Reverse failed: %v", err)
	}
	if result.Points != 0 {
		t.Fatalf("third Reverse points = %d, want 0 (clamped)", result.Points)
	}
}

func TestLedgerRoundTrip(t *testing.T) {
	t.Parallel()
	store := newFakeProfileStore(&models.Profile{ID: "u1", Points: 40, Level: 3})
	ledger := testLedger(store)
	ctx := context.Background()

	before := *store.profiles["u1"]

	if _, err := ledger.Apply(ctx, "u1", models.ActionComment); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	result, err := ledger.Reverse(ctx, "u1", models.ActionComment)
	if err != nil {
		t.Fatalf("Reverse failed: %v", err)
	}

	if result.Points != before.Points || result.Level != before.Level {
		t.Errorf("round trip = {%d, %d}, want {%d, %d}",
			result.Points, result.Level, before.Points, before.Level)
	}
	if got := store.profiles["u1"].Stats.CommentsCount; got != before.Stats.CommentsCount {
		t.Errorf("comments_count = %d, want %d", got, before.Stats.CommentsCount)
	}
}

func TestLedgerProfileNotFoundNotRetried(t *testing.T) {
	t.Parallel()
	store := newFakeProfileStore()
	ledger := testLedger(store)

	_, err := ledger.Apply(context.Background(), "missing", models.ActionPost)
	if !errors.Is(err, repositories.ErrProfileNotFound) {
		t.Fatalf("err = %v, want ErrProfileNotFound", err)
	}
	if store.getCalls != 1 {
		t.Errorf("getCalls = %d, want 1 (no retry for missing profile)", store.getCalls)
	}
}

func TestLedgerRetriesTransientWriteFailures(t *testing.T) {
	t.Parallel()
	store := newFakeProfileStore(&models.Profile{ID: "u1", Points: 5, Level: 1})
	store.failWrites = 2
	store.writeErr = errors.New("connection reset")
	ledger := testLedger(store)

	result, err := ledger.Apply(context.Background(), "u1", models.ActionPost)
	if err != nil {
		t.Fatalf("Apply failed after transient errors: %v", err)
	}
	if result.Points != 8 {
		t.Errorf("points = %d, want 8", result.Points)
	}
	if store.writeCalls != 3 {
		t.Errorf("writeCalls = %d, want 3", store.writeCalls)
	}
}

func TestLedgerUnavailableAfterRetryBudget(t *testing.T) {
	t.Parallel()
	store := newFakeProfileStore(&models.Profile{ID: "u1", Points: 5, Level: 1})
	store.failWrites = 10
	store.writeErr = errors.New("connection reset")
	ledger := testLedger(store)

	_, err := ledger.Apply(context.Background(), "u1", models.ActionPost)
	if !errors.Is(err, ErrLedgerUnavailable) {
		t.Fatalf("err = %v, want ErrLedgerUnavailable", err)
	}
	if store.writeCalls != 3 {
		t.Errorf("writeCalls = %d, want exactly 3 attempts", store.writeCalls)
	}
	if store.profiles["u1"].Points != 5 {
		t.Errorf("points mutated to %d on failed apply", store.profiles["u1"].Points)
	}
}
