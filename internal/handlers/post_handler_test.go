package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/mindnest/backend/internal/gamification"
	"github.com/mindnest/backend/internal/models"
	"go.uber.org/zap"
)

type fakePostRepo struct {
	posts            map[string]*models.Post
	likeExists       bool
	heartExists      bool
	incCommentsCalls int
	decCommentsCalls int
	commentsCountErr error
}

func (r *fakePostRepo) CreatePost(_ context.Context, post *models.Post) error {
	return nil
}

func (r *fakePostRepo) GetPostByID(_ context.Context, id string) (*models.Post, error) {
	p, ok := r.posts[id]
	if !ok {
		return nil, echo.NewHTTPError(http.StatusNotFound, "post not found")
	}
	return p, nil
}

func (r *fakePostRepo) GetAllPosts(context.Context, int64, int64) ([]models.Post, error) {
	return nil, nil
}

func (r *fakePostRepo) AddLike(context.Context, string, string) (bool, error) {
	return !r.likeExists, nil
}

func (r *fakePostRepo) RemoveLike(context.Context, string, string) (bool, error) {
	return r.likeExists, nil
}

func (r *fakePostRepo) AddHeart(context.Context, string, string) (bool, error) {
	return !r.heartExists, nil
}

func (r *fakePostRepo) RemoveHeart(context.Context, string, string) (bool, error) {
	return r.heartExists, nil
}

func (r *fakePostRepo) IncrementCommentsCount(context.Context, string) error {
	r.incCommentsCalls++
	return r.commentsCountErr
}

func (r *fakePostRepo) DecrementCommentsCount(context.Context, string) error {
	r.decCommentsCalls++
	return r.commentsCountErr
}

type fakeNotificationRepo struct {
	created   []*models.Notification
	createErr error
}

func (r *fakeNotificationRepo) CreateNotification(n *models.Notification) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.created = append(r.created, n)
	return nil
}

func (r *fakeNotificationRepo) GetByRecipientID(string, int, int) ([]models.Notification, int64, error) {
	return nil, 0, nil
}
func (r *fakeNotificationRepo) GetUnreadCount(string) (int64, error) { return 0, nil }
func (r *fakeNotificationRepo) MarkAsRead(uint, string) error        { return nil }
func (r *fakeNotificationRepo) MarkAllAsRead(string) error           { return nil }
func (r *fakeNotificationRepo) Delete(uint, string) error            { return nil }
func (r *fakeNotificationRepo) DeleteAllForRecipient(string) error   { return nil }

type ledgerCall struct {
	userID  string
	kind    models.ActionKind
	reverse bool
}

type fakeLedger struct {
	mu    sync.Mutex
	calls []ledgerCall
	err   error
}

func (l *fakeLedger) Apply(_ context.Context, userID string, kind models.ActionKind) (gamification.Result, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return gamification.Result{}, l.err
	}
	l.calls = append(l.calls, ledgerCall{userID: userID, kind: kind})
	return gamification.Result{Points: 1, Level: 1}, nil
}

func (l *fakeLedger) Reverse(_ context.Context, userID string, kind models.ActionKind) (gamification.Result, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return gamification.Result{}, l.err
	}
	l.calls = append(l.calls, ledgerCall{userID: userID, kind: kind, reverse: true})
	return gamification.Result{Points: 0, Level: 1}, nil
}

type fakeDispatcher struct{}

func (d *fakeDispatcher) Dispatch(context.Context, *models.Notification) (string, error) {
	return "", nil
}
func (d *fakeDispatcher) OnNotificationCreated(context.Context, *models.Notification) {}

func likeRequest(t *testing.T, handler *PostHandler, actorID, postID string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/posts/"+postID+"/likes", strings.NewReader(""))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("post_id")
	c.SetParamValues(postID)
	c.Set("firebaseUID", actorID)

	if err := handler.LikePost(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestLikePostNotifiesAndAwardsBothSides(t *testing.T) {
	postRepo := &fakePostRepo{posts: map[string]*models.Post{
		"p1": {AuthorID: "owner", Content: "hello"},
	}}
	notifRepo := &fakeNotificationRepo{}
	ledger := &fakeLedger{}
	handler := NewPostHandler(postRepo, notifRepo, ledger, &fakeDispatcher{}, zap.NewNop())

	rec := likeRequest(t, handler, "actor", "p1")
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	if len(notifRepo.created) != 1 {
		t.Fatalf("notifications created = %d, want 1", len(notifRepo.created))
	}
	n := notifRepo.created[0]
	if n.RecipientID != "owner" || n.SenderID != "actor" || n.Type != models.NotificationTypeLike {
		t.Errorf("notification = %+v, want like from actor to owner", n)
	}

	if len(ledger.calls) != 2 {
		t.Fatalf("ledger calls = %d, want 2", len(ledger.calls))
	}
	if ledger.calls[0] != (ledgerCall{userID: "actor", kind: models.ActionLikeGiven}) {
		t.Errorf("first ledger call = %+v, want actor like_given", ledger.calls[0])
	}
	if ledger.calls[1] != (ledgerCall{userID: "owner", kind: models.ActionLikeReceived}) {
		t.Errorf("second ledger call = %+v, want owner like_received", ledger.calls[1])
	}
}

func TestSelfLikeAwardsActorOnly(t *testing.T) {
	postRepo := &fakePostRepo{posts: map[string]*models.Post{
		"p1": {AuthorID: "actor", Content: "my own post"},
	}}
	notifRepo := &fakeNotificationRepo{}
	ledger := &fakeLedger{}
	handler := NewPostHandler(postRepo, notifRepo, ledger, &fakeDispatcher{}, zap.NewNop())

	rec := likeRequest(t, handler, "actor", "p1")
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	if len(notifRepo.created) != 0 {
		t.Errorf("self-like created %d notifications, want 0", len(notifRepo.created))
	}
	if len(ledger.calls) != 1 {
		t.Fatalf("ledger calls = %d, want 1 (actor side only)", len(ledger.calls))
	}
	if ledger.calls[0] != (ledgerCall{userID: "actor", kind: models.ActionLikeGiven}) {
		t.Errorf("ledger call = %+v, want actor like_given", ledger.calls[0])
	}
}

func TestLikeFailsWhenLedgerUnavailable(t *testing.T) {
	postRepo := &fakePostRepo{posts: map[string]*models.Post{
		"p1": {AuthorID: "owner"},
	}}
	notifRepo := &fakeNotificationRepo{}
	ledger := &fakeLedger{err: gamification.ErrLedgerUnavailable}
	handler := NewPostHandler(postRepo, notifRepo, ledger, &fakeDispatcher{}, zap.NewNop())

	rec := likeRequest(t, handler, "actor", "p1")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	if len(notifRepo.created) != 0 {
		t.Errorf("notification created despite failed points award")
	}
}

func TestLikeSucceedsWhenNotificationCreationFails(t *testing.T) {
	postRepo := &fakePostRepo{posts: map[string]*models.Post{
		"p1": {AuthorID: "owner"},
	}}
	notifRepo := &fakeNotificationRepo{createErr: context.DeadlineExceeded}
	ledger := &fakeLedger{}
	handler := NewPostHandler(postRepo, notifRepo, ledger, &fakeDispatcher{}, zap.NewNop())

	// Notification creation and points are independent siblings: the broken
	// notification write must not fail the like.
	rec := likeRequest(t, handler, "actor", "p1")
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 despite notification failure", rec.Code)
	}
	if len(ledger.calls) != 2 {
		t.Errorf("ledger calls = %d, want both sides awarded", len(ledger.calls))
	}
}

func TestDuplicateLikeConflicts(t *testing.T) {
	postRepo := &fakePostRepo{
		posts:      map[string]*models.Post{"p1": {AuthorID: "owner"}},
		likeExists: true,
	}
	notifRepo := &fakeNotificationRepo{}
	ledger := &fakeLedger{}
	handler := NewPostHandler(postRepo, notifRepo, ledger, &fakeDispatcher{}, zap.NewNop())

	rec := likeRequest(t, handler, "actor", "p1")
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	if len(ledger.calls) != 0 {
		t.Errorf("duplicate like awarded points: %+v", ledger.calls)
	}
}
