package rejectdelete

import (
	"context"
	"testing"
	"time"

	"market-admin/internal/common/firebase"
	"market-admin/internal/common/firebase/firebasetest"
	"market-admin/internal/common/logger"
	"market-admin/internal/models"
	"market-admin/internal/notification"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*firebasetest.Server, *firebase.Client) {
	t.Helper()
	srv := firebasetest.NewServer()
	t.Cleanup(srv.Close)
	srv.Seed("markets/m5", models.Market{Name: "Corner Stall", Status: models.StatusApproved, SubmittedBy: "owner"})
	srv.Seed("submissions/s5", models.Submission{
		MarketName:    "Corner Stall",
		MarketID:      "m5",
		SubmittedBy:   "reporter",
		Status:        models.StatusPending,
		RequestType:   models.RequestTypeDelete,
		ChangeDetails: "Seems closed",
	})
	return srv, firebase.NewClient(srv.StoreConfig(), nil, logger.NewNoOpLogger())
}

func TestHandler_Execute_RejectsAndLeavesMarket(t *testing.T) {
	srv, store := setup(t)
	h := NewHandler(&Config{}, store, notification.NewSender(store, logger.NewNoOpLogger()), nil, logger.NewTestLogger(t))

	output, err := h.Execute(context.Background(), &Input{ID: "s5"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, output.Status)
	assert.True(t, output.Notified)

	assert.Equal(t, models.StatusRejected, srv.Value("submissions/s5").(map[string]interface{})["Status"])
	assert.Equal(t, models.StatusApproved, srv.Value("markets/m5").(map[string]interface{})["Status"])
	assert.Empty(t, srv.WritesTo("markets"))

	inbox := srv.Children("notifications/reporter")
	require.Len(t, inbox, 1)
	for _, record := range inbox {
		assert.Equal(t, models.NotificationTypeRejection, record["Type"])
		assert.Equal(t, NotificationTitle, record["Title"])
		assert.Equal(t, "Your request to delete 'Corner Stall' was not approved. The market remains listed.", record["Body"])
		assert.Equal(t, "m5", record["RelatedMarketId"])
	}
}

func TestHandler_Execute_MissingSubmission(t *testing.T) {
	srv, store := setup(t)
	h := NewHandler(&Config{}, store, notification.NewSender(store, logger.NewNoOpLogger()), nil, logger.NewNoOpLogger())

	output, err := h.Execute(context.Background(), &Input{ID: "s404"})
	require.NoError(t, err)
	assert.False(t, output.Found)
	assert.Empty(t, srv.Writes())
}

func TestHandler_Execute_RepeatWithDedup_WritesOneNotification(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	srv, store := setup(t)
	sender := notification.NewSender(store, logger.NewNoOpLogger(),
		notification.WithDeduper(notification.NewDeduper(rdb, time.Hour, logger.NewNoOpLogger())))
	h := NewHandler(&Config{}, store, sender, nil, logger.NewNoOpLogger())

	first, err := h.Execute(context.Background(), &Input{ID: "s5"})
	require.NoError(t, err)
	second, err := h.Execute(context.Background(), &Input{ID: "s5"})
	require.NoError(t, err)

	assert.True(t, first.Notified)
	assert.False(t, second.Notified)
	assert.Equal(t, first.NotificationID, second.NotificationID)
	assert.Len(t, srv.Children("notifications/reporter"), 1)
	assert.Len(t, srv.WritesTo("submissions/s5"), 2)
}
