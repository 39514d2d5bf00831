package ratelimit

import (
	"context"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "ratelimit:"

// RedisLimiter compartilha os contadores entre instâncias.
// A janela começa no primeiro INCR da chave e termina com o PEXPIRE.
// Uma chave sem TTL (PEXPIRE que falhou) recebe a expiração na próxima tentativa.
type RedisLimiter struct {
	client redis.Cmdable
}

func NewRedisLimiter(client redis.Cmdable) *RedisLimiter {
	return &RedisLimiter{client: client}
}

func (l *RedisLimiter) Check(ctx context.Context, rule Rule, identifier string) (bool, error) {
	if rule.Disabled() {
		return true, nil
	}

	key := redisKeyPrefix + rule.Key(identifier)

	var (
		incr *redis.IntCmd
		pttl *redis.DurationCmd
	)
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pttl = pipe.PTTL(ctx, key)
		return nil
	})
	if err != nil {
		return false, errors.Wrapf(err, "erro ao incrementar contador %s", key)
	}

	count := incr.Val()

	// PTTL negativo: a chave está sem expiração
	if count == 1 || pttl.Val() < 0 {
		if err := l.client.PExpire(ctx, key, rule.Window).Err(); err != nil {
			return false, errors.Wrapf(err, "erro ao definir expiração do contador %s", key)
		}
	}

	return count <= int64(rule.Attempts), nil
}
