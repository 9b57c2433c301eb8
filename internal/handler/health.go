package handler

import (
	"context"
	"net/http"
	"time"

	"comandapos/internal/infra"
	"comandapos/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health returns a JSON health check response.
// Checks DB and Redis connectivity; never exposes credentials or internals.
// Los circuit breakers y las DLQ son informativos: no cambian el status.
func Health(db *gorm.DB, rdb *redis.Client, breakers ...*infra.CircuitBreaker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		redisStatus := "connected"
		if rdb.Ping(ctx).Err() != nil {
			redisStatus = "error"
		}

		status := http.StatusOK
		if dbStatus != "connected" || redisStatus != "connected" {
			status = http.StatusServiceUnavailable
		}

		cbs := make(map[string]string, len(breakers))
		for _, cb := range breakers {
			cbs[cb.Name()] = cb.State().String()
		}

		body := gin.H{
			"ok":               status == http.StatusOK,
			"db":               dbStatus,
			"redis":            redisStatus,
			"circuit_breakers": cbs,
		}
		if redisStatus == "connected" {
			if dlq, err := worker.DLQLengths(ctx, rdb); err == nil {
				body["dlq"] = dlq
			}
		}
		c.JSON(status, body)
	}
}
