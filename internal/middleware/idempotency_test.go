package middleware_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pawon-ops/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func storedPayload(t *testing.T, status int, body string) []byte {
	t.Helper()
	payload, err := json.Marshal(struct {
		Status int    `json:"status"`
		Body   string `json:"body"`
	}{Status: status, Body: body})
	assert.NoError(t, err)
	return payload
}

func setupIdempotencyRouter(rdb *redis.Client, actorID string, handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/schedules/generate",
		func(c *gin.Context) {
			c.Set(middleware.ContextActorID, actorID)
			c.Next()
		},
		middleware.Idempotency(rdb),
		handler,
	)
	return router
}

func TestIdempotency(t *testing.T) {
	actorID := "mgr-1"
	idempKey := "key-1"
	cacheKey := fmt.Sprintf("idemp:/schedules/generate:%s:%s", actorID, idempKey)
	lockKey := cacheKey + ":lock"

	doPost := func(router *gin.Engine) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/schedules/generate", nil)
		req.Header.Set("Idempotency-Key", idempKey)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	t.Run("success stores the response and releases the lock", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()

		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(true)
		mock.ExpectSet(cacheKey, storedPayload(t, http.StatusCreated, `{"ok":true}`), 24*time.Hour).SetVal("OK")
		mock.ExpectDel(lockKey).SetVal(1)

		router := setupIdempotencyRouter(rdb, actorID, func(c *gin.Context) {
			c.JSON(http.StatusCreated, gin.H{"ok": true})
		})

		rec := doPost(router)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("retry with same key replays without rerunning the handler", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()

		mock.ExpectGet(cacheKey).SetVal(string(storedPayload(t, http.StatusCreated, `{"ok":true}`)))

		calls := 0
		router := setupIdempotencyRouter(rdb, actorID, func(c *gin.Context) {
			calls++
			c.JSON(http.StatusCreated, gin.H{"ok": true})
		})

		rec := doPost(router)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
		assert.Equal(t, 0, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("negative concurrent duplicate gets conflict", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()

		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(false)

		calls := 0
		router := setupIdempotencyRouter(rdb, actorID, func(c *gin.Context) {
			calls++
		})

		rec := doPost(router)

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, 0, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failed request releases the lock without caching", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()

		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(true)
		mock.ExpectDel(lockKey).SetVal(1)

		router := setupIdempotencyRouter(rdb, actorID, func(c *gin.Context) {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false})
		})

		rec := doPost(router)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("request without key passes through untouched", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()

		calls := 0
		router := setupIdempotencyRouter(rdb, actorID, func(c *gin.Context) {
			calls++
			c.JSON(http.StatusCreated, gin.H{"ok": true})
		})

		req := httptest.NewRequest(http.MethodPost, "/schedules/generate", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, 1, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
