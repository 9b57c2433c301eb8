package infra

import (
	"context"
	"fmt"
	"time"

	"comandapos/internal/config"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const redisClientName = "comandapos"

// NewRedis abre el cliente único que comparten la cola de jobs, el relay de
// eventos y el health check, y valida la conexión antes de devolverlo.
func NewRedis(cfg *config.Config) (*redis.Client, error) {
	opts, err := redisOptions(cfg)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opts.Addr, err)
	}

	log.Info().Str("addr", opts.Addr).Int("db", opts.DB).Int("pool_size", opts.PoolSize).Msg("redis connected")
	return rdb, nil
}

// redisOptions arma las opciones desde REDIS_URL y REDIS_POOL_SIZE. Cada
// worker retiene una conexión en BRPOP y el relay otra para el SUBSCRIBE:
// el pool nunca queda por debajo de workers + relay + margen para requests.
func redisOptions(cfg *config.Config) (*redis.Options, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("REDIS_URL inválida: %w", err)
	}
	opts.ClientName = redisClientName
	if cfg.RedisPoolSize > 0 {
		opts.PoolSize = cfg.RedisPoolSize
	}
	if minimo := cfg.WorkerPoolSize + 1 + 4; opts.PoolSize < minimo {
		opts.PoolSize = minimo
	}
	return opts, nil
}
