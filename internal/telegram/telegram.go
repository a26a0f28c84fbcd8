package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/deusflow/ainews/internal/metrics"
	"github.com/deusflow/ainews/internal/retry"
)

const (
	defaultAPI = "https://api.telegram.org"
	// MaxMessageLen is Telegram's limit for one message.
	MaxMessageLen = 4096
	maxCaptionLen = 1024
)

// Client sends messages to one Telegram chat or channel.
type Client struct {
	token   string
	chatID  string
	baseURL string
	http    *http.Client
	retry   retry.RetryConfig
	metrics *metrics.Metrics
	log     *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL points the client at another Bot API server.
func WithBaseURL(u string) Option { return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") } }

func WithRetry(cfg retry.RetryConfig) Option { return func(c *Client) { c.retry = cfg } }

func WithMetrics(m *metrics.Metrics) Option { return func(c *Client) { c.metrics = m } }

func WithLogger(l *slog.Logger) Option { return func(c *Client) { c.log = l } }

func New(token, chatID string, opts ...Option) *Client {
	c := &Client{
		token:   token,
		chatID:  chatID,
		baseURL: defaultAPI,
		http:    &http.Client{Timeout: 30 * time.Second},
		retry:   retry.DefaultConfig(),
		metrics: metrics.Global,
		log:     slog.Default(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// APIError is a non-200 answer from the Bot API.
type APIError struct {
	Status      int
	Description string
}

func (e *APIError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("telegram API error: status %d: %s", e.Status, e.Description)
	}
	return fmt.Sprintf("telegram API error: status %d", e.Status)
}

// SendMessage sends text with HTML parse mode. Link previews are shown only
// when preview is true.
func (c *Client) SendMessage(ctx context.Context, text string, preview bool) error {
	return c.send(ctx, "sendMessage", map[string]interface{}{
		"chat_id":                  c.chatID,
		"text":                     text,
		"parse_mode":               "HTML",
		"disable_web_page_preview": !preview,
	})
}

// SendPhoto sends a photo with an optional caption.
func (c *Client) SendPhoto(ctx context.Context, photoURL, caption string) error {
	if utf8.RuneCountInString(caption) > maxCaptionLen {
		caption = string([]rune(caption)[:maxCaptionLen-1]) + "…"
	}
	return c.send(ctx, "sendPhoto", map[string]interface{}{
		"chat_id":    c.chatID,
		"photo":      photoURL,
		"caption":    caption,
		"parse_mode": "HTML",
	})
}

// SendDigest splits text into message-sized chunks and sends them in order.
// It stops at the first chunk that still fails after retries.
func (c *Client) SendDigest(ctx context.Context, text string) (int, error) {
	chunks := Split(text, MaxMessageLen)
	for i, chunk := range chunks {
		if err := c.SendMessage(ctx, chunk, false); err != nil {
			return i, fmt.Errorf("send part %d/%d: %w", i+1, len(chunks), err)
		}
	}
	return len(chunks), nil
}

func (c *Client) send(ctx context.Context, method string, payload map[string]interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("error make JSON: %w", err)
	}
	attempt := 0
	err = retry.WithRetry(ctx, c.retry, func() error {
		attempt++
		err := c.sendOnce(ctx, method, body)
		if err != nil {
			c.log.Warn("Error send to Telegram", "method", method, "attempt", attempt, "error", err)
		}
		return err
	})
	if err != nil {
		return err
	}
	c.metrics.IncrementTelegramMessagesSent()
	c.log.Info("Message sent to Telegram", "method", method, "attempt", attempt)
	return nil
}

func (c *Client) sendOnce(ctx context.Context, method string, body []byte) error {
	url := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return retry.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("error HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		return nil
	}
	apiErr := &APIError{Status: resp.StatusCode}
	var answer struct {
		Description string `json:"description"`
	}
	if data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10)); err == nil && json.Unmarshal(data, &answer) == nil {
		apiErr.Description = answer.Description
	}
	// bad markup or a wrong chat will not get better by retrying
	if resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
		return retry.Permanent(apiErr)
	}
	return apiErr
}

// Split breaks text into chunks of at most limit runes. It cuts at blank
// lines, then at line ends, and only splits inside a line when a single
// line is longer than limit.
func Split(text string, limit int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var (
		chunks []string
		cur    strings.Builder
		curLen int
	)
	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			chunks = append(chunks, s)
		}
		cur.Reset()
		curLen = 0
	}
	add := func(piece, sep string) {
		n := utf8.RuneCountInString(piece)
		sepLen := utf8.RuneCountInString(sep)
		if curLen > 0 && curLen+sepLen+n > limit {
			flush()
		}
		if curLen > 0 {
			cur.WriteString(sep)
			curLen += sepLen
		}
		cur.WriteString(piece)
		curLen += n
	}

	for _, block := range strings.Split(text, "\n\n") {
		if utf8.RuneCountInString(block) <= limit {
			add(block, "\n\n")
			continue
		}
		for i, line := range strings.Split(block, "\n") {
			sep := "\n"
			if i == 0 {
				sep = "\n\n"
			}
			for utf8.RuneCountInString(line) > limit {
				r := []rune(line)
				flush()
				chunks = append(chunks, string(r[:limit]))
				line = string(r[limit:])
			}
			add(line, sep)
		}
	}
	flush()
	return chunks
}
