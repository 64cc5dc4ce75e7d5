package reddit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"remindme/internal/application/dto"
	appErrors "remindme/internal/pkg/errors"
	"remindme/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReddit struct {
	*httptest.Server
	mu       sync.Mutex
	read     []string
	comments []string
	unread   string
	down     bool
}

func newFakeReddit(t *testing.T) *fakeReddit {
	t.Helper()
	f := &fakeReddit{unread: `{"kind":"Listing","data":{"after":null,"children":[]}}`}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/access_token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok","token_type":"bearer","expires_in":3600}`))
	})
	authed := func(h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer tok" {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			h(w, r)
		}
	}
	mux.HandleFunc("/api/v1/me", authed(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"name":"RemindMeBot"}`))
	}))
	mux.HandleFunc("/message/unread", authed(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.down {
			http.Error(w, "try later", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(f.unread))
	}))
	mux.HandleFunc("/api/read_message", authed(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		f.mu.Lock()
		f.read = append(f.read, r.PostForm.Get("id"))
		f.mu.Unlock()
		_, _ = w.Write([]byte(`{}`))
	}))
	mux.HandleFunc("/api/comment", authed(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if r.PostForm.Get("text") == "rejected" {
			http.Error(w, `{"message":"Forbidden","error":403}`, http.StatusForbidden)
			return
		}
		f.mu.Lock()
		f.comments = append(f.comments, r.PostForm.Get("text"))
		f.mu.Unlock()
		_, _ = w.Write([]byte(`{}`))
	}))
	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Close)
	return f
}

func newTestClient(t *testing.T, f *fakeReddit, noPost bool) *Client {
	t.Helper()
	c, err := NewClient(Config{
		Username:     "RemindMeBot",
		Password:     "hunter2",
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		UserAgent:    "test-agent",
		APIURL:       f.URL,
		TokenURL:     f.URL + "/api/v1/access_token",
		NoPost:       noPost,
	}, logger.NewNop())
	require.NoError(t, err)
	return c
}

func TestNewClient_RequiresCredentials(t *testing.T) {
	_, err := NewClient(Config{Username: "RemindMeBot"}, logger.NewNop())
	assert.ErrorIs(t, err, appErrors.ErrInvalidConfig)
}

func TestAccountName(t *testing.T) {
	f := newFakeReddit(t)
	c := newTestClient(t, f, false)

	name, err := c.AccountName(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "RemindMeBot", name)
}

func TestFetchUnread_MergesAndOrdersOldestFirst(t *testing.T) {
	f := newFakeReddit(t)
	f.unread = `{"kind":"Listing","data":{"after":null,"children":[
		{"kind":"t4","data":{"id":"c","name":"t4_c","author":"Watchful1","body":"RemindMe! 1 day","created_utc":1546315300}},
		{"kind":"t1","data":{"id":"b","name":"t1_b","author":"Watchful2","body":"RemindMe! 2 days","created_utc":1546315250,"was_comment":true}},
		{"kind":"t4","data":{"id":"a","name":"t4_a","author":"Watchful1","body":"MyReminders!","created_utc":1546315200}}
	]}}`
	c := newTestClient(t, f, false)

	messages, err := c.FetchUnread(context.Background())
	require.NoError(t, err)
	require.Len(t, messages, 3)

	assert.Equal(t, "a", messages[0].ID)
	assert.Equal(t, "t4_a", messages[0].ReplyTo)
	assert.Equal(t, "Watchful1", messages[0].Author)
	assert.Equal(t, "MyReminders!", messages[0].Body)
	assert.True(t, messages[0].CreatedAt.Equal(time.Date(2019, time.January, 1, 4, 0, 0, 0, time.UTC)))

	assert.Equal(t, "b", messages[1].ID)
	assert.Equal(t, "t1_b", messages[1].ReplyTo)
	assert.Equal(t, "c", messages[2].ID)
}

func TestFetchUnread_HTTPError(t *testing.T) {
	f := newFakeReddit(t)
	c := newTestClient(t, f, false)
	f.down = true

	_, err := c.FetchUnread(context.Background())
	assert.ErrorIs(t, err, appErrors.ErrPlatformAPI)
}

func TestMarkRead(t *testing.T) {
	f := newFakeReddit(t)
	c := newTestClient(t, f, false)

	require.NoError(t, c.MarkRead(context.Background(), dto.Message{ID: "abc", ReplyTo: "t4_abc"}))
	assert.Equal(t, []string{"t4_abc"}, f.read)
}

func TestReply(t *testing.T) {
	f := newFakeReddit(t)
	c := newTestClient(t, f, false)

	require.NoError(t, c.Reply(context.Background(), dto.Message{ReplyTo: "t4_abc"}, "hello"))
	assert.Equal(t, []string{"hello"}, f.comments)
}

func TestReply_Rejected(t *testing.T) {
	f := newFakeReddit(t)
	c := newTestClient(t, f, false)

	err := c.Reply(context.Background(), dto.Message{ReplyTo: "t4_abc"}, "rejected")
	assert.ErrorIs(t, err, appErrors.ErrPlatformAPI)
	assert.Empty(t, f.comments)
}

func TestReply_NoPost(t *testing.T) {
	f := newFakeReddit(t)
	c := newTestClient(t, f, true)

	require.NoError(t, c.Reply(context.Background(), dto.Message{ReplyTo: "t4_abc"}, "hello"))
	assert.Empty(t, f.comments)
}
