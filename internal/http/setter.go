package http

import (
	"github.com/rogerio-castellano/kitchen-stock/internal/auth"
	rl "github.com/rogerio-castellano/kitchen-stock/internal/http/rate_limiter"
)

var (
	tokens  *auth.TokenManager
	limiter *rl.Limiter
)

func SetTokenManager(m *auth.TokenManager) {
	tokens = m
}

// SetRateLimiter enables per-client rate limiting. A nil limiter disables it.
func SetRateLimiter(l *rl.Limiter) {
	limiter = l
}
