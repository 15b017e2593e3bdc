package redis

import (
	"context"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const rateLimitPrefix = "ratelimit:"

// SlidingWindow limitador partilhado entre instâncias: um sorted set por chave,
// score = instante do pedido em nanossegundos.
type SlidingWindow struct {
	client *redis.Client
	max    int
	window time.Duration
	now    func() time.Time
}

func (c *Client) SlidingWindow(max int, window time.Duration) *SlidingWindow {
	return &SlidingWindow{
		client: c.client,
		max:    max,
		window: window,
		now:    time.Now,
	}
}

// Allow regista o pedido e indica se a chave ainda está dentro do limite
func (w *SlidingWindow) Allow(ctx context.Context, key string) (bool, error) {
	now := w.now()
	redisKey := rateLimitPrefix + key
	minScore := strconv.FormatInt(now.Add(-w.window).UnixNano(), 10)

	pipe := w.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "-inf", "("+minScore)
	pipe.ZAdd(ctx, redisKey, &redis.Z{Score: float64(now.UnixNano()), Member: uuid.NewString()})
	card := pipe.ZCard(ctx, redisKey)
	pipe.Expire(ctx, redisKey, w.window)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}

	return card.Val() <= int64(w.max), nil
}
