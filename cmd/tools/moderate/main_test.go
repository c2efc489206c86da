package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"market-admin/internal/app"
	"market-admin/internal/common/config"
	"market-admin/internal/common/errors"
	"market-admin/internal/common/firebase/firebasetest"
	"market-admin/internal/common/logger"
	"market-admin/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*firebasetest.Server, *app.App) {
	t.Helper()
	srv := firebasetest.NewServer()
	t.Cleanup(srv.Close)

	a, err := app.New(context.Background(), &config.Config{Store: srv.StoreConfig()}, app.Once, logger.NewNoOpLogger())
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return srv, a
}

func TestRun_ListPrintsJSON(t *testing.T) {
	srv, a := setup(t)
	srv.Seed("markets/m1", models.Market{Name: "Harbour", Status: models.StatusPending})

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"list"}, a.Actions, &out))

	var decoded struct {
		Items []models.PendingItem `json:"items"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	require.Len(t, decoded.Items, 1)
	assert.Equal(t, "m1", decoded.Items[0].ID)
}

func TestRun_ApproveNew(t *testing.T) {
	srv, a := setup(t)
	srv.Seed("markets/m1", models.Market{Name: "Harbour", Status: models.StatusPending, SubmittedBy: "u1"})

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"approve-new", "-id", "m1"}, a.Actions, &out))

	assert.Contains(t, out.String(), `"notified": true`)
	assert.Equal(t, models.StatusApproved, srv.Value("markets/m1").(map[string]interface{})["Status"])
}

func TestRun_Broadcast(t *testing.T) {
	srv, a := setup(t)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"broadcast", "-message", "Closed Monday"}, a.Actions, &out))

	assert.Contains(t, out.String(), `"sent": true`)
	assert.Len(t, srv.Children("notifications/broadcast"), 1)
}

func TestRun_MissingRecordIsReported(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantWrites int
	}{
		{name: "market", args: []string{"approve-new", "-id", "ghost"}, wantWrites: 1},
		{name: "submission", args: []string{"reject-delete", "-id", "ghost"}, wantWrites: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, a := setup(t)

			var out bytes.Buffer
			err := run(context.Background(), tt.args, a.Actions, &out)
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.ErrCodeRecordNotFound), "got %v", err)
			assert.Contains(t, out.String(), `"found": false`)
			assert.Len(t, srv.Writes(), tt.wantWrites)
		})
	}
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "no command", args: nil},
		{name: "unknown command", args: []string{"archive"}},
		{name: "missing id", args: []string{"reject-delete"}},
		{name: "bad flag", args: []string{"reject-new", "-nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, a := setup(t)
			err := run(context.Background(), tt.args, a.Actions, &bytes.Buffer{})
			require.Error(t, err)
			assert.Empty(t, srv.Writes())
		})
	}
}
