package web

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"
	"time"

	"rk-textiles/internal/logger"

	"github.com/redis/go-redis/v9"
)

const (
	cacheGenerationKey = "rkt:cache:generation"
	cacheKeyPrefix     = "rkt:cache:"
)

// responseCache keeps successful report and summary responses in redis. Every
// successful write bumps a generation counter that is part of each key, so one
// INCR invalidates everything cached before it. A nil client disables caching.
type responseCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func newResponseCache(rdb *redis.Client, ttl time.Duration) *responseCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &responseCache{rdb: rdb, ttl: ttl}
}

// Cached serves GET responses from redis when present and stores 200 responses otherwise.
func (c *responseCache) Cached(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c.rdb == nil || r.Method != http.MethodGet {
			next.ServeHTTP(w, r)
			return
		}
		ctx := r.Context()

		gen, err := c.rdb.Get(ctx, cacheGenerationKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			logger.Warn(ctx).Err(err).Msg("cache generation lookup failed")
			next.ServeHTTP(w, r)
			return
		}
		key := cacheKeyPrefix + strconv.FormatInt(gen, 10) + ":" + r.URL.RequestURI()

		body, err := c.rdb.Get(ctx, key).Bytes()
		if err == nil {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Cache", "HIT")
			_, _ = w.Write(body)
			return
		}
		if !errors.Is(err, redis.Nil) {
			logger.Warn(ctx).Err(err).Str("key", key).Msg("cache read failed")
		}

		rec := &bufferingRecorder{ResponseWriter: w, status: http.StatusOK}
		w.Header().Set("X-Cache", "MISS")
		next.ServeHTTP(rec, r)
		if rec.status != http.StatusOK {
			return
		}
		if err := c.rdb.Set(ctx, key, rec.body.Bytes(), c.ttl).Err(); err != nil {
			logger.Warn(ctx).Err(err).Str("key", key).Msg("cache write failed")
		}
	})
}

// Invalidate bumps the cache generation after every successful non-GET request.
func (c *responseCache) Invalidate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c.rdb == nil || r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		if rec.status >= http.StatusBadRequest {
			return
		}
		if err := c.rdb.Incr(r.Context(), cacheGenerationKey).Err(); err != nil {
			logger.Warn(r.Context()).Err(err).Msg("cache invalidation failed")
		}
	})
}

// bufferingRecorder passes the response through while keeping a copy of the body.
type bufferingRecorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (r *bufferingRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *bufferingRecorder) Write(p []byte) (int, error) {
	r.body.Write(p)
	return r.ResponseWriter.Write(p)
}
