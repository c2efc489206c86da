package rejectnew

import (
	"context"
	stderrors "errors"
	"net/http"
	"testing"

	"market-admin/internal/common/errors"
	"market-admin/internal/common/firebase"
	"market-admin/internal/common/firebase/firebasetest"
	"market-admin/internal/common/logger"
	"market-admin/internal/models"
	"market-admin/internal/notification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockNotifier struct {
	SendFunc func(ctx context.Context, req notification.Request) (*notification.Result, error)
	requests []notification.Request
}

func (m *MockNotifier) Send(ctx context.Context, req notification.Request) (*notification.Result, error) {
	m.requests = append(m.requests, req)
	return m.SendFunc(ctx, req)
}

func setup(t *testing.T) (*firebasetest.Server, *firebase.Client) {
	t.Helper()
	srv := firebasetest.NewServer()
	t.Cleanup(srv.Close)
	return srv, firebase.NewClient(srv.StoreConfig(), nil, logger.NewNoOpLogger())
}

func TestHandler_Execute_RejectsAndNotifies(t *testing.T) {
	srv, store := setup(t)
	srv.Seed("markets/m2", models.Market{Name: "Night Bazaar", Status: models.StatusPending, SubmittedBy: "user-9"})

	h := NewHandler(&Config{}, store, notification.NewSender(store, logger.NewNoOpLogger()), nil, logger.NewTestLogger(t))

	output, err := h.Execute(context.Background(), &Input{ID: "m2"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, output.Status)
	assert.True(t, output.Notified)

	assert.Equal(t, models.StatusRejected, srv.Value("markets/m2").(map[string]interface{})["Status"])

	inbox := srv.Children("notifications/user-9")
	require.Len(t, inbox, 1)
	for _, record := range inbox {
		assert.Equal(t, models.NotificationTypeRejection, record["Type"])
		assert.Equal(t, NotificationTitle, record["Title"])
		assert.Equal(t, "We reviewed your submission for 'Night Bazaar' but could not approve it at this time.", record["Body"])
		assert.Equal(t, "m2", record["RelatedMarketId"])
	}
}

func TestHandler_Execute_MissingMarket(t *testing.T) {
	srv, store := setup(t)
	notifier := &MockNotifier{SendFunc: func(ctx context.Context, req notification.Request) (*notification.Result, error) {
		t.Fatal("no notification expected for a missing market")
		return nil, nil
	}}
	h := NewHandler(&Config{}, store, notifier, nil, logger.NewNoOpLogger())

	output, err := h.Execute(context.Background(), &Input{ID: "ghost"})
	require.NoError(t, err)
	assert.False(t, output.Found)
	assert.Len(t, srv.WritesTo("markets/ghost"), 1)
}

func TestHandler_Execute_SubmitterWithoutUserID(t *testing.T) {
	srv, store := setup(t)
	srv.Seed("markets/m3", models.Market{Name: "Anonymous", Status: models.StatusPending})

	h := NewHandler(&Config{}, store, notification.NewSender(store, logger.NewNoOpLogger()), nil, logger.NewNoOpLogger())

	output, err := h.Execute(context.Background(), &Input{ID: "m3"})
	require.NoError(t, err)
	assert.True(t, output.Found)
	assert.False(t, output.Notified)
	assert.Empty(t, srv.WritesTo("notifications"))
}

func TestHandler_Execute_PatchFailure(t *testing.T) {
	notifier := &MockNotifier{SendFunc: func(ctx context.Context, req notification.Request) (*notification.Result, error) {
		return &notification.Result{Written: true}, nil
	}}
	store := &failingPatchStore{}
	h := NewHandler(&Config{}, store, notifier, nil, logger.NewNoOpLogger())

	_, err := h.Execute(context.Background(), &Input{ID: "m1"})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeStoreUnreachable))
	assert.Empty(t, notifier.requests)
}

type failingPatchStore struct{}

func (f *failingPatchStore) Get(ctx context.Context, path string, out interface{}) (bool, error) {
	*(out.(*models.Market)) = models.Market{Name: "x", SubmittedBy: "u1"}
	return true, nil
}

func (f *failingPatchStore) Patch(ctx context.Context, path string, fields interface{}) error {
	return errors.NewStoreUnreachableError(http.MethodPatch, path, stderrors.New("connection refused"))
}
