package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deusflow/ainews/internal/metrics"
	"github.com/deusflow/ainews/internal/retry"
)

type botServer struct {
	mu       sync.Mutex
	requests []map[string]interface{}
	paths    []string
	status   []int
}

func (b *botServer) handler(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var payload map[string]interface{}
	_ = json.NewDecoder(r.Body).Decode(&payload)
	b.requests = append(b.requests, payload)
	b.paths = append(b.paths, r.URL.Path)

	status := http.StatusOK
	if len(b.status) > 0 {
		status, b.status = b.status[0], b.status[1:]
	}
	w.WriteHeader(status)
	if status == http.StatusOK {
		w.Write([]byte(`{"ok":true}`))
		return
	}
	w.Write([]byte(`{"ok":false,"description":"Bad Request: can't parse entities"}`))
}

func newTestClient(t *testing.T, status ...int) (*Client, *botServer, *metrics.Metrics) {
	t.Helper()
	b := &botServer{status: status}
	srv := httptest.NewServer(http.HandlerFunc(b.handler))
	t.Cleanup(srv.Close)
	m := metrics.New()
	c := New("TOKEN", "@channel",
		WithBaseURL(srv.URL),
		WithRetry(retry.RetryConfig{MaxAttempts: 3, Delay: time.Millisecond}),
		WithMetrics(m))
	return c, b, m
}

func TestSendMessage(t *testing.T) {
	c, b, m := newTestClient(t)
	require.NoError(t, c.SendMessage(context.Background(), "<b>hi</b>", false))

	require.Len(t, b.requests, 1)
	assert.Equal(t, "/botTOKEN/sendMessage", b.paths[0])
	assert.Equal(t, "@channel", b.requests[0]["chat_id"])
	assert.Equal(t, "HTML", b.requests[0]["parse_mode"])
	assert.Equal(t, true, b.requests[0]["disable_web_page_preview"])
	assert.Equal(t, int64(1), m.TelegramMessagesSent)
}

func TestSendMessageRetriesServerErrors(t *testing.T) {
	c, b, _ := newTestClient(t, http.StatusBadGateway, http.StatusTooManyRequests)
	require.NoError(t, c.SendMessage(context.Background(), "x", true))
	assert.Len(t, b.requests, 3)
	assert.Equal(t, false, b.requests[2]["disable_web_page_preview"])
}

func TestSendMessageBadRequestIsNotRetried(t *testing.T) {
	c, b, m := newTestClient(t, http.StatusBadRequest)
	err := c.SendMessage(context.Background(), "<b>broken", false)
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Contains(t, apiErr.Description, "can't parse entities")
	assert.Len(t, b.requests, 1)
	assert.Equal(t, int64(0), m.TelegramMessagesSent)
}

func TestSendPhotoTrimsCaption(t *testing.T) {
	c, b, _ := newTestClient(t)
	require.NoError(t, c.SendPhoto(context.Background(), "https://img.example.com/a.jpg", strings.Repeat("я", 2000)))
	assert.Equal(t, "/botTOKEN/sendPhoto", b.paths[0])
	caption := b.requests[0]["caption"].(string)
	assert.Equal(t, maxCaptionLen, utf8.RuneCountInString(caption))
}

func TestSendDigestSplits(t *testing.T) {
	c, b, m := newTestClient(t)
	block := strings.Repeat("line of digest text\n", 100)
	n, err := c.SendDigest(context.Background(), block+"\n"+block+"\n"+block)
	require.NoError(t, err)
	assert.Equal(t, n, len(b.requests))
	assert.Greater(t, n, 1)
	assert.Equal(t, int64(n), m.TelegramMessagesSent)
}

func TestSplit(t *testing.T) {
	assert.Nil(t, Split("  ", 10))
	assert.Equal(t, []string{"short"}, Split("short", 10))

	chunks := Split("aaaa\n\nbbbb\n\ncccc", 10)
	assert.Equal(t, []string{"aaaa\n\nbbbb", "cccc"}, chunks)

	chunks = Split("one\ntwo\nthree\nfour", 9)
	assert.Equal(t, []string{"one\ntwo", "three", "four"}, chunks)

	chunks = Split(strings.Repeat("ж", 25), 10)
	require.Len(t, chunks, 3)
	for _, c := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(c), 10)
	}
	assert.Equal(t, strings.Repeat("ж", 25), strings.Join(chunks, ""))
}
