package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const rateLimitMessage = "Demasiados pedidos deste IP, tente novamente mais tarde"

// Limiter janela deslizante por chave
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// MemoryLimiter limitador em memória para uma única instância
type MemoryLimiter struct {
	mu     sync.Mutex
	hits   map[string][]time.Time
	max    int
	window time.Duration
	now    func() time.Time
}

func NewMemoryLimiter(max int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		hits:   make(map[string][]time.Time),
		max:    max,
		window: window,
		now:    time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	// limpa chaves paradas para o mapa não crescer sem limite
	for k, times := range l.hits {
		if k != key && len(times) > 0 && times[len(times)-1].Before(cutoff) {
			delete(l.hits, k)
		}
	}

	times := l.hits[key]
	kept := times[:0]
	for _, t := range times {
		if !t.Before(cutoff) {
			kept = append(kept, t)
		}
	}
	kept = append(kept, now)
	l.hits[key] = kept

	return len(kept) <= l.max, nil
}

// RateLimit 429 acima do limite por IP; se o limitador falhar o pedido passa
func RateLimit(limiter Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		ok, err := limiter.Allow(c.Request.Context(), ip)
		if err != nil {
			log.WithError(err).Warn("rate limiter unavailable")
			c.Next()
			return
		}
		if !ok {
			log.WithField("ip", ip).Warn("rate limit exceeded")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": rateLimitMessage})
			return
		}

		c.Next()
	}
}
