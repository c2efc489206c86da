package firebase

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"market-admin/internal/common/config"
	"market-admin/internal/common/errors"
	"market-admin/internal/common/firebase/firebasetest"
	commonhttp "market-admin/internal/common/http"
	"market-admin/internal/common/logger"
	"market-admin/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, srv *firebasetest.Server) *Client {
	t.Helper()
	return NewClient(srv.StoreConfig(), nil, logger.NewTestLogger(t))
}

func TestClient_Get(t *testing.T) {
	srv := firebasetest.NewServer()
	defer srv.Close()

	srv.Seed("markets/m1", models.Market{Name: "Harbour Market", Status: models.StatusPending, SubmittedBy: "u1"})
	client := newTestClient(t, srv)

	t.Run("existing record", func(t *testing.T) {
		var market models.Market
		found, err := client.Get(context.Background(), "markets/m1", &market)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "Harbour Market", market.Name)
		assert.Equal(t, "u1", market.SubmittedBy)
	})

	t.Run("null body means not found", func(t *testing.T) {
		var market models.Market
		found, err := client.Get(context.Background(), "markets/missing", &market)
		require.NoError(t, err)
		assert.False(t, found)
		assert.Empty(t, market.Name)
	})

	t.Run("collection", func(t *testing.T) {
		var markets map[string]models.Market
		found, err := client.Get(context.Background(), "markets", &markets)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Contains(t, markets, "m1")
	})
}

func TestClient_Get_Errors(t *testing.T) {
	t.Run("non-2xx becomes request failed", func(t *testing.T) {
		srv := firebasetest.NewServer()
		defer srv.Close()
		srv.Fail("markets", http.StatusUnauthorized)

		var out map[string]models.Market
		_, err := newTestClient(t, srv).Get(context.Background(), "markets", &out)
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.ErrCodeStoreRequestFailed))
	})

	t.Run("closed server becomes unreachable", func(t *testing.T) {
		srv := firebasetest.NewServer()
		client := newTestClient(t, srv)
		srv.Close()

		var out map[string]models.Market
		_, err := client.Get(context.Background(), "markets", &out)
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.ErrCodeStoreUnreachable))
	})

	t.Run("undecodable body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`"just a string"`))
		}))
		defer server.Close()

		client := NewClient(config.StoreConfig{BaseURL: server.URL}, nil, logger.NewNoOpLogger())
		var out map[string]models.Market
		_, err := client.Get(context.Background(), "markets", &out)
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.ErrCodeStoreDecodeFailed))
	})
}

func TestClient_Patch(t *testing.T) {
	srv := firebasetest.NewServer()
	defer srv.Close()

	srv.Seed("markets/m1", models.Market{Name: "Harbour Market", Status: models.StatusPending})
	client := newTestClient(t, srv)

	require.NoError(t, client.Patch(context.Background(), "markets/m1", models.StatusPatch{Status: models.StatusApproved}))

	stored := srv.Value("markets/m1").(map[string]interface{})
	assert.Equal(t, models.StatusApproved, stored["Status"])
	assert.Equal(t, "Harbour Market", stored["Name"])

	writes := srv.Writes()
	require.Len(t, writes, 1)
	assert.Equal(t, http.MethodPatch, writes[0].Method)
	assert.Equal(t, map[string]interface{}{"Status": "Approved"}, writes[0].Body)
}

func TestClient_Post_ReturnsPushKey(t *testing.T) {
	srv := firebasetest.NewServer()
	defer srv.Close()
	client := newTestClient(t, srv)

	key, err := client.Post(context.Background(), "notifications/u1", models.Notification{ID: "n1", UserID: "u1"})
	require.NoError(t, err)
	assert.NotEmpty(t, key)

	children := srv.Children("notifications/u1")
	require.Contains(t, children, key)
	assert.Equal(t, "n1", children[key]["Id"])
}

func TestClient_URLAndAuth(t *testing.T) {
	var gotPath, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.URL.Query().Get("auth")
		_, _ = w.Write([]byte("null"))
	}))
	defer server.Close()

	client := NewClient(config.StoreConfig{BaseURL: server.URL, AuthToken: "tok en"}, commonhttp.NewClient(time.Second), logger.NewNoOpLogger())

	var out interface{}
	_, err := client.Get(context.Background(), "/submissions/s1/", &out)
	require.NoError(t, err)
	assert.Equal(t, "/submissions/s1.json", gotPath)
	assert.Equal(t, "tok en", gotAuth)
}

func TestClient_Ping(t *testing.T) {
	srv := firebasetest.NewServer()
	srv.Seed("markets/m1", models.Market{Name: "x"})
	client := newTestClient(t, srv)

	require.NoError(t, client.Ping(context.Background()))
	requests := srv.Requests()
	require.Len(t, requests, 1)
	assert.Equal(t, "", requests[0].Path)
	assert.Equal(t, "true", requests[0].Query.Get("shallow"))

	srv.Close()
	assert.Error(t, client.Ping(context.Background()))
}
