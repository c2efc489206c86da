package approvenew

import (
	"context"
	stderrors "errors"
	"net/http"
	"testing"

	"market-admin/internal/audit"
	"market-admin/internal/common/errors"
	"market-admin/internal/common/firebase"
	"market-admin/internal/common/firebase/firebasetest"
	"market-admin/internal/common/logger"
	"market-admin/internal/models"
	"market-admin/internal/notification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Mock Implementations
// ==========================

type MockNotifier struct {
	SendFunc func(ctx context.Context, req notification.Request) (*notification.Result, error)
	requests []notification.Request
}

func (m *MockNotifier) Send(ctx context.Context, req notification.Request) (*notification.Result, error) {
	m.requests = append(m.requests, req)
	return m.SendFunc(ctx, req)
}

type MockAuditor struct {
	RecordFunc func(ctx context.Context, entry audit.Entry) error
	entries    []audit.Entry
}

func (m *MockAuditor) Record(ctx context.Context, entry audit.Entry) error {
	m.entries = append(m.entries, entry)
	if m.RecordFunc == nil {
		return nil
	}
	return m.RecordFunc(ctx, entry)
}

// ==========================
// Test Helper Functions
// ==========================

func setup(t *testing.T) (*firebasetest.Server, *firebase.Client) {
	t.Helper()
	srv := firebasetest.NewServer()
	t.Cleanup(srv.Close)
	return srv, firebase.NewClient(srv.StoreConfig(), nil, logger.NewNoOpLogger())
}

func okNotifier() *MockNotifier {
	return &MockNotifier{SendFunc: func(ctx context.Context, req notification.Request) (*notification.Result, error) {
		return &notification.Result{NotificationID: "n-1", Key: "-Nkey", Written: true}, nil
	}}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_ApprovesAndNotifiesSubmitter(t *testing.T) {
	srv, store := setup(t)
	srv.Seed("markets/m1", models.Market{Name: "Harbour Market", Status: models.StatusPending, SubmittedBy: "user-7"})

	sender := notification.NewSender(store, logger.NewNoOpLogger())
	auditor := &MockAuditor{}
	h := NewHandler(&Config{}, store, sender, auditor, logger.NewTestLogger(t))

	output, err := h.Execute(context.Background(), &Input{ID: "m1"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, output.Status)
	assert.True(t, output.Found)
	assert.True(t, output.Notified)

	market := srv.Value("markets/m1").(map[string]interface{})
	assert.Equal(t, models.StatusApproved, market["Status"])

	inbox := srv.Children("notifications/user-7")
	require.Len(t, inbox, 1)
	for _, record := range inbox {
		assert.Equal(t, models.NotificationTypeApproval, record["Type"])
		assert.Equal(t, NotificationTitle, record["Title"])
		assert.Equal(t, "Good news! Your submission for 'Harbour Market' has been approved and is now visible.", record["Body"])
		assert.Equal(t, "m1", record["RelatedMarketId"])
		assert.Equal(t, output.NotificationID, record["Id"])
	}

	require.Len(t, auditor.entries, 1)
	assert.Equal(t, ActionName, auditor.entries[0].Action)
	assert.Equal(t, "user-7", auditor.entries[0].UserID)
	assert.True(t, auditor.entries[0].Notified)
}

func TestHandler_Execute_Repeat_SendsAgain(t *testing.T) {
	srv, store := setup(t)
	srv.Seed("markets/m1", models.Market{Name: "Harbour Market", Status: models.StatusPending, SubmittedBy: "user-7"})

	h := NewHandler(&Config{}, store, notification.NewSender(store, logger.NewNoOpLogger()), nil, logger.NewNoOpLogger())

	for i := 0; i < 2; i++ {
		_, err := h.Execute(context.Background(), &Input{ID: "m1"})
		require.NoError(t, err)
	}

	assert.Len(t, srv.Children("notifications/user-7"), 2)
	assert.Len(t, srv.WritesTo("markets/m1"), 2)
}

func TestHandler_Execute_DefaultsMarketName(t *testing.T) {
	srv, store := setup(t)
	srv.Seed("markets/m1", models.Market{Status: models.StatusPending, SubmittedBy: "u1"})

	notifier := okNotifier()
	h := NewHandler(&Config{}, store, notifier, nil, logger.NewNoOpLogger())

	_, err := h.Execute(context.Background(), &Input{ID: "m1"})
	require.NoError(t, err)
	require.Len(t, notifier.requests, 1)
	assert.Contains(t, notifier.requests[0].Body, "'Market'")
	assert.Equal(t, "market:m1", notifier.requests[0].SourceID)
	assert.Equal(t, models.StatusApproved, notifier.requests[0].TargetStatus)
}

func TestHandler_Execute_MissingMarket_PatchesWithoutNotifying(t *testing.T) {
	srv, store := setup(t)
	notifier := okNotifier()
	h := NewHandler(&Config{}, store, notifier, nil, logger.NewTestLogger(t))

	output, err := h.Execute(context.Background(), &Input{ID: "ghost"})
	require.NoError(t, err)
	assert.False(t, output.Found)
	assert.False(t, output.Notified)
	assert.Empty(t, notifier.requests)

	writes := srv.Writes()
	require.Len(t, writes, 1)
	assert.Equal(t, "markets/ghost", writes[0].Path)
	assert.Equal(t, http.MethodPatch, writes[0].Method)
}

// ==========================
// Failure Tests
// ==========================

func TestHandler_Execute_Failures(t *testing.T) {
	tests := []struct {
		name        string
		id          string
		failPath    string
		wantCode    errors.ErrorCode
		wantPatches int
	}{
		{
			name:     "invalid id",
			id:       "markets/../x",
			wantCode: errors.ErrCodeInvalidInput,
		},
		{
			name:     "store read fails",
			id:       "m1",
			failPath: "markets/m1",
			wantCode: errors.ErrCodeStoreRequestFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, store := setup(t)
			if tt.failPath != "" {
				srv.Fail(tt.failPath, http.StatusServiceUnavailable)
			}
			notifier := okNotifier()
			h := NewHandler(&Config{}, store, notifier, nil, logger.NewNoOpLogger())

			output, err := h.Execute(context.Background(), &Input{ID: tt.id})
			require.Error(t, err)
			assert.Nil(t, output)
			assert.True(t, errors.HasCode(err, tt.wantCode), "got %v", err)
			assert.Empty(t, srv.Writes())
			assert.Empty(t, notifier.requests)
		})
	}
}

func TestHandler_Execute_NotificationFailureIsPartialSuccess(t *testing.T) {
	srv, store := setup(t)
	srv.Seed("markets/m1", models.Market{Name: "Harbour Market", Status: models.StatusPending, SubmittedBy: "u1"})

	notifier := &MockNotifier{SendFunc: func(ctx context.Context, req notification.Request) (*notification.Result, error) {
		return nil, errors.NewNotificationSendFailedError(req.Type, stderrors.New("store down"))
	}}
	auditor := &MockAuditor{RecordFunc: func(ctx context.Context, entry audit.Entry) error {
		return errors.NewAuditWriteFailedError(stderrors.New("db down"))
	}}
	h := NewHandler(&Config{}, store, notifier, auditor, logger.NewTestLogger(t))

	output, err := h.Execute(context.Background(), &Input{ID: "m1"})
	require.NoError(t, err)
	assert.False(t, output.Notified)
	assert.Equal(t, models.StatusApproved, srv.Value("markets/m1").(map[string]interface{})["Status"])
	require.Len(t, auditor.entries, 1)
	assert.False(t, auditor.entries[0].Notified)
}
