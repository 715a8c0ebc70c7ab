package twitch

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmbot/internal/core/domain"
)

func testClient(apiBase, authBase string) *Client {
	log := logrus.New()
	log.SetOutput(io.Discard)
	c := NewClient("client-id", "client-secret", log)
	if apiBase != "" {
		c.apiBase = apiBase
	}
	if authBase != "" {
		c.authBase = authBase
	}
	return c
}

func TestAuthenticate(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"access_token":"tok123"}`))
	}))
	defer srv.Close()

	c := testClient("", srv.URL)
	require.NoError(t, c.Authenticate(context.Background()))

	assert.Equal(t, "tok123", c.token)
	assert.Equal(t, "client-id", gotQuery.Get("client_id"))
	assert.Equal(t, "client-secret", gotQuery.Get("client_secret"))
	assert.Equal(t, "client_credentials", gotQuery.Get("grant_type"))
}

func TestAuthenticateRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"status":403,"message":"invalid client secret"}`))
	}))
	defer srv.Close()

	c := testClient("", srv.URL)
	err := c.Authenticate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid client secret")
}

func TestTopCreators(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/streams", r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("first"))
		assert.Equal(t, "Bearer tok123", r.Header.Get("Authorization"))
		assert.Equal(t, "client-id", r.Header.Get("Client-ID"))
		w.Write([]byte(`{"data":[
			{"user_id":"1","user_name":"Alpha","viewer_count":9000},
			{"user_id":"","user_name":"Broken"},
			{"user_id":"2","user_name":"Beta","viewer_count":100}
		]}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL, "")
	c.token = "tok123"

	creators, err := c.TopCreators(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, []domain.Creator{
		{ID: "1", DisplayName: "Alpha"},
		{ID: "2", DisplayName: "Beta"},
	}, creators)
}

func TestResolveCreator(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/users", r.URL.Path)
		switch r.URL.Query().Get("login") {
		case "alpha":
			w.Write([]byte(`{"data":[{"id":"42","display_name":"Alpha"}]}`))
		default:
			w.Write([]byte(`{"data":[]}`))
		}
	}))
	defer srv.Close()

	c := testClient(srv.URL, "")

	creator, err := c.ResolveCreator(context.Background(), "alpha")
	require.NoError(t, err)
	assert.Equal(t, domain.Creator{ID: "42", DisplayName: "Alpha"}, creator)

	_, err = c.ResolveCreator(context.Background(), "nobody")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no user found")
}

func TestClipsSince(t *testing.T) {
	since := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/clips", r.URL.Path)
		assert.Equal(t, "42", r.URL.Query().Get("broadcaster_id"))
		assert.Equal(t, "20", r.URL.Query().Get("first"))
		assert.Equal(t, "2024-05-01T12:00:00Z", r.URL.Query().Get("started_at"))
		w.Write([]byte(`{"data":[
			{"id":"c1","url":"https://clips/c1","view_count":900,"created_at":"2024-05-01T13:00:00Z"},
			{"id":"c2","url":"","view_count":700,"created_at":"2024-05-01T14:00:00Z"},
			{"id":"c3","url":"https://clips/c3","view_count":1500,"created_at":"not-a-time"}
		]}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL, "")
	creator := domain.Creator{ID: "42", DisplayName: "Alpha"}

	clips, err := c.ClipsSince(context.Background(), creator, since, 20)
	require.NoError(t, err)

	// c2 (missing url) and c3 (bad timestamp) are dropped, not defaulted.
	require.Len(t, clips, 1)
	assert.Equal(t, "c1", clips[0].ID)
	assert.Equal(t, "Alpha", clips[0].CreatorName)
	assert.Equal(t, 900, clips[0].Views)
}

func TestRecentClipsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := testClient(srv.URL, "")
	_, err := c.RecentClips(context.Background(), domain.Creator{ID: "42", DisplayName: "Alpha"}, 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 500")
}
