package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	idempotencyCacheTTL = 24 * time.Hour
	// Lock pendek agar crash server tidak meninggalkan lock permanen.
	idempotencyLockTTL = 30 * time.Second
)

type storedResponse struct {
	Status int    `json:"status"`
	Body   string `json:"body"`
}

// responseRecorder menyalin body yang ditulis handler supaya bisa
// disimpan ke cache idempotency setelah request selesai.
type responseRecorder struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *responseRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *responseRecorder) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Idempotency melindungi POST yang membawa Idempotency-Key dari
// double-submit (generate jadwal, pengajuan cuti). Retry dengan key yang
// sama mendapat replay respons sukses pertama, bukan operasi kedua.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		idempKey := c.GetHeader("Idempotency-Key")
		actorID := c.GetString(ContextActorID)

		if idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		cacheKey := fmt.Sprintf("idemp:%s:%s:%s", c.FullPath(), actorID, idempKey)
		lockKey := cacheKey + ":lock"

		// 1. Replay respons tersimpan untuk key yang sama
		if val, err := rdb.Get(ctx, cacheKey).Result(); err == nil {
			var stored storedResponse
			if json.Unmarshal([]byte(val), &stored) == nil {
				c.Data(stored.Status, "application/json; charset=utf-8", []byte(stored.Body))
				c.Abort()
				return
			}
		}

		// 2. Atomic lock (SetNX). Jika sudah ada, request kembar sedang jalan.
		isNew, _ := rdb.SetNX(ctx, lockKey, "locked", idempotencyLockTTL).Result()
		if !isNew {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"code":    "PROCESSING",
				"message": "Permintaan Anda sedang diproses, mohon tunggu sebentar.",
			})
			return
		}

		rec := &responseRecorder{ResponseWriter: c.Writer}
		c.Writer = rec

		c.Next()

		// 3. Hasil sukses disimpan untuk replay; lock selalu dilepas supaya
		// retry setelah kegagalan tidak perlu menunggu TTL.
		status := rec.Status()
		if status >= http.StatusOK && status < http.StatusMultipleChoices {
			if payload, err := json.Marshal(storedResponse{Status: status, Body: rec.body.String()}); err == nil {
				rdb.Set(ctx, cacheKey, payload, idempotencyCacheTTL)
			}
		}
		rdb.Del(ctx, lockKey)
	}
}
