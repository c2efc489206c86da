package sendbroadcast

import (
	"context"
	stderrors "errors"
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

type MockBroadcaster struct {
	BroadcastFunc func(ctx context.Context, message string) (*notification.Result, error)
	calls         int
}

func (m *MockBroadcaster) Broadcast(ctx context.Context, message string) (*notification.Result, error) {
	m.calls++
	return m.BroadcastFunc(ctx, message)
}

type MockAuditor struct {
	entries []audit.Entry
}

func (m *MockAuditor) Record(ctx context.Context, entry audit.Entry) error {
	m.entries = append(m.entries, entry)
	return nil
}

func TestHandler_Execute_BroadcastsToAll(t *testing.T) {
	srv := firebasetest.NewServer()
	defer srv.Close()
	store := firebase.NewClient(srv.StoreConfig(), nil, logger.NewNoOpLogger())

	auditor := &MockAuditor{}
	h := NewHandler(&Config{}, notification.NewSender(store, logger.NewNoOpLogger()), auditor, logger.NewTestLogger(t))

	output, err := h.Execute(context.Background(), &Input{Message: "Maintenance tonight"})
	require.NoError(t, err)
	assert.True(t, output.Sent)
	assert.NotEmpty(t, output.NotificationID)

	records := srv.Children("notifications/broadcast")
	require.Len(t, records, 1)
	record := records[output.Key]
	assert.Equal(t, models.BroadcastUserID, record["UserId"])
	assert.Equal(t, models.NotificationTypeBroadcast, record["Type"])
	assert.Equal(t, "Maintenance tonight", record["Body"])
	assert.Len(t, srv.Writes(), 1)

	require.Len(t, auditor.entries, 1)
	assert.Equal(t, audit.KindBroadcast, auditor.entries[0].RecordKind)
	assert.Equal(t, output.Key, auditor.entries[0].RecordID)
}

func TestHandler_Execute_BlankMessage(t *testing.T) {
	for _, message := range []string{"", "   ", "\n\t"} {
		broadcaster := &MockBroadcaster{}
		h := NewHandler(&Config{}, broadcaster, nil, logger.NewNoOpLogger())

		output, err := h.Execute(context.Background(), &Input{Message: message})
		require.NoError(t, err)
		assert.False(t, output.Sent)
		assert.Equal(t, 0, broadcaster.calls)
	}
}

func TestHandler_Execute_StoreFailure(t *testing.T) {
	broadcaster := &MockBroadcaster{BroadcastFunc: func(ctx context.Context, message string) (*notification.Result, error) {
		return nil, errors.NewNotificationSendFailedError(models.NotificationTypeBroadcast, stderrors.New("timeout"))
	}}
	h := NewHandler(&Config{}, broadcaster, nil, logger.NewNoOpLogger())

	output, err := h.Execute(context.Background(), &Input{Message: "hello"})
	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotificationSendFailed))
}

func TestFlashMessage(t *testing.T) {
	assert.Equal(t, "✅ Broadcast sent: 'Maintenance tonight'", FlashMessage("Maintenance tonight"))
}
