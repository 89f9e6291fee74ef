package ratelimiter

import (
	"sync"
	"time"

	"github.com/formadoc/FormaSign/internal/config"
	"github.com/formadoc/FormaSign/internal/util"
	"go.uber.org/zap"
)

func NewRateLimiter(cfg config.RateLimiterConfig, logger *zap.SugaredLogger) *FixedWindowRateLimiter {
	// For unit test
	if logger == nil {
		logger = util.NewLogger("development")
	}

	return NewFixedWindowLimiter(cfg, logger)
}

// FixedWindowRateLimiter counts requests per client per fixed time window.
// Counts reset when the window rolls over; no sliding behavior.
type FixedWindowRateLimiter struct {
	mu          sync.Mutex
	clients     map[string]int
	windowStart time.Time
	cfg         config.RateLimiterConfig
	logger      *zap.SugaredLogger
}

func NewFixedWindowLimiter(cfg config.RateLimiterConfig, logger *zap.SugaredLogger) *FixedWindowRateLimiter {
	return &FixedWindowRateLimiter{
		clients:     make(map[string]int),
		windowStart: time.Now(),
		cfg:         cfg,
		logger:      logger,
	}
}

// Allow returns whether the client may proceed and, when it may not, how long
// until the current window resets.
func (rl *FixedWindowRateLimiter) Allow(clientId string) (bool, time.Duration) {
	if !rl.cfg.Enabled {
		return true, 0
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	if now.Sub(rl.windowStart) >= rl.cfg.TimeFrame {
		rl.clients = make(map[string]int)
		rl.windowStart = now
	}

	if rl.clients[clientId] >= rl.cfg.RequestsPerTimeFrame {
		retryAfter := rl.cfg.TimeFrame - now.Sub(rl.windowStart)
		rl.logger.Debugf("rate limit exceeded for client %s", clientId)
		return false, retryAfter
	}

	rl.clients[clientId]++
	return true, 0
}
