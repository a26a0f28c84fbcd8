package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Budget caps AI provider calls per run, per provider and in total. A limit
// of zero means unlimited. Calls are also spaced by a token-bucket limiter.
type Budget struct {
	mu       sync.Mutex
	limits   map[string]int
	used     map[string]int
	maxTotal int
	total    int
	denied   int
	limiter  *rate.Limiter
}

// NewBudget creates a Budget. limits maps provider names to per-run caps;
// minInterval spaces consecutive calls (zero disables spacing).
func NewBudget(limits map[string]int, maxTotal int, minInterval time.Duration) *Budget {
	b := &Budget{
		limits:   make(map[string]int, len(limits)),
		used:     make(map[string]int),
		maxTotal: maxTotal,
		limiter:  rate.NewLimiter(rate.Inf, 1),
	}
	for k, v := range limits {
		b.limits[k] = v
	}
	if minInterval > 0 {
		b.limiter = rate.NewLimiter(rate.Every(minInterval), 1)
	}
	return b
}

// CanUse reports whether provider has calls left.
func (b *Budget) CanUse(provider string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.available(provider) == nil
}

func (b *Budget) available(provider string) error {
	if max := b.limits[provider]; max > 0 && b.used[provider] >= max {
		return fmt.Errorf("%s rate limit exceeded (%d/%d)", provider, b.used[provider], max)
	}
	if b.maxTotal > 0 && b.total >= b.maxTotal {
		return fmt.Errorf("total AI rate limit exceeded (%d/%d)", b.total, b.maxTotal)
	}
	return nil
}

// Use reserves one call for provider, waiting for the spacing limiter.
func (b *Budget) Use(ctx context.Context, provider string) error {
	b.mu.Lock()
	if err := b.available(provider); err != nil {
		b.denied++
		b.mu.Unlock()
		slog.Warn("AI budget exhausted", "provider", provider, "error", err)
		return err
	}
	b.used[provider]++
	b.total++
	used, total := b.used[provider], b.total
	b.mu.Unlock()

	slog.Debug("AI usage", "provider", provider, "used", used, "total", total, "max_total", b.maxTotal)
	return b.limiter.Wait(ctx)
}

// GetStats returns usage counters.
func (b *Budget) GetStats() map[string]interface{} {
	b.mu.Lock()
	defer b.mu.Unlock()
	stats := map[string]interface{}{
		"total_used":  b.total,
		"total_limit": b.maxTotal,
		"denied":      b.denied,
	}
	for p, n := range b.used {
		stats[p+"_used"] = n
		stats[p+"_limit"] = b.limits[p]
	}
	return stats
}

// Hosts hands out one limiter per host so that feeds sharing a host are
// fetched politely.
type Hosts struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	every    time.Duration
	burst    int
}

// NewHosts allows burst requests per host, refilled once every every.
func NewHosts(every time.Duration, burst int) *Hosts {
	if burst < 1 {
		burst = 1
	}
	return &Hosts{limiters: make(map[string]*rate.Limiter), every: every, burst: burst}
}

// Wait blocks until a request to host is allowed or ctx is done.
func (h *Hosts) Wait(ctx context.Context, host string) error {
	return h.limiter(host).Wait(ctx)
}

func (h *Hosts) limiter(host string) *rate.Limiter {
	h.mu.Lock()
	defer h.mu.Unlock()
	l, ok := h.limiters[host]
	if !ok {
		limit := rate.Inf
		if h.every > 0 {
			limit = rate.Every(h.every)
		}
		l = rate.NewLimiter(limit, h.burst)
		h.limiters[host] = l
	}
	return l
}
