// Package cache implements the Redis-backed response cache for the public
// read endpoints.  Entries are keyed by (entity group, route, query) and the
// store keeps a per-group index of live keys, so mutating handlers can
// invalidate a whole group explicitly instead of waiting for the TTL.
package cache

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/fenui/festival-menu-api/internal/config"
)

// Store holds the cache configuration and the Redis client.  A Store built
// with a nil client is a no-op: the middleware passes through and Invalidate
// does nothing, so the API works without Redis.
type Store struct {
	cfg config.CacheConfig
	rdb *redis.Client
}

// New constructs a Store.  rdb may be nil.
func New(cfg config.CacheConfig, rdb *redis.Client) *Store {
	return &Store{cfg: cfg, rdb: rdb}
}

func (s *Store) enabled() bool {
	return s.cfg.Enabled && s.rdb != nil
}

// key builds the entry key for a request: prefix, group, then a digest of the
// matched route and the raw query so every filter combination caches
// separately.
func (s *Store) key(group string, c echo.Context) string {
	tail := c.Path() + "?" + c.Request().URL.RawQuery
	sum := sha1.Sum([]byte(tail))
	return fmt.Sprintf("%s:%s:%x", s.cfg.Prefix, group, sum[:])
}

// indexKey is the Redis SET that tracks every live entry of a group.
func (s *Store) indexKey(group string) string {
	return s.cfg.Prefix + ":idx:" + group
}

// Invalidate drops every cached response belonging to the given groups.
// Mutating handlers call this after a successful write so the next read
// refetches from the database.  Failures are logged and swallowed: a stale
// entry expires by TTL anyway.
func (s *Store) Invalidate(ctx context.Context, groups ...string) {
	if !s.enabled() {
		return
	}
	for _, g := range groups {
		idx := s.indexKey(g)
		keys, err := s.rdb.SMembers(ctx, idx).Result()
		if err != nil {
			log.Printf("cache: invalidate %s: %v", g, err)
			continue
		}
		if len(keys) > 0 {
			if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
				log.Printf("cache: invalidate %s: %v", g, err)
			}
		}
		_ = s.rdb.Del(ctx, idx).Err()
	}
}

// captureWriter captures response body/status while forwarding to the client.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	size   int64
	limit  int64
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	if cw.limit <= 0 {
		cw.buf.Write(b)
	} else if remain := cw.limit - cw.size; remain > 0 {
		if int64(len(b)) <= remain {
			cw.buf.Write(b)
		} else {
			cw.buf.Write(b[:remain])
		}
	}
	cw.size += int64(len(b))
	return cw.ResponseWriter.Write(b)
}

// encodePayload packs: [4 bytes status][4 bytes headerLen][headerJSON][body]
func encodePayload(status int, header http.Header, body []byte) ([]byte, error) {
	hdrJSON, err := json.Marshal(header)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 8+len(hdrJSON)+len(body))
	binary.BigEndian.PutUint32(out[0:4], uint32(status))
	binary.BigEndian.PutUint32(out[4:8], uint32(len(hdrJSON)))
	copy(out[8:], hdrJSON)
	copy(out[8+len(hdrJSON):], body)
	return out, nil
}

func decodePayload(bs []byte) (status int, header http.Header, body []byte, ok bool) {
	if len(bs) < 8 {
		return 0, nil, nil, false
	}
	status = int(binary.BigEndian.Uint32(bs[0:4]))
	hlen := int(binary.BigEndian.Uint32(bs[4:8]))
	if hlen < 0 || 8+hlen > len(bs) {
		return 0, nil, nil, false
	}
	header = make(http.Header)
	if hlen > 0 {
		if err := json.Unmarshal(bs[8:8+hlen], &header); err != nil {
			return 0, nil, nil, false
		}
	}
	return status, header, bs[8+hlen:], true
}

// Middleware returns an Echo middleware that serves GET responses for the
// given group from Redis.  Headers and body are stored together so clients
// see identical formatting on a HIT.  Only 200 responses are cached.
func (s *Store) Middleware(group string) echo.MiddlewareFunc {
	if !s.enabled() {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}
	ttl := s.cfg.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	maxBody := int64(s.cfg.MaxBodyBytes)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet {
				return next(c)
			}

			ctx := c.Request().Context()
			key := s.key(group, c)

			if bs, err := s.rdb.Get(ctx, key).Bytes(); err == nil {
				if status, hdr, body, ok := decodePayload(bs); ok {
					for k, vals := range hdr {
						if strings.EqualFold(k, "Content-Length") {
							continue // Echo recomputes it
						}
						for _, v := range vals {
							c.Response().Header().Add(k, v)
						}
					}
					c.Response().Header().Set("X-Cache", "HIT")
					c.Response().WriteHeader(status)
					if len(body) > 0 {
						_, _ = c.Response().Write(body)
					}
					return nil
				}
			}

			// Miss: capture the handler's response on the way out.
			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: maxBody}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}

			if cw.status == http.StatusOK && (maxBody <= 0 || cw.size <= maxBody) {
				hdr := make(http.Header, len(c.Response().Header()))
				for k, vals := range c.Response().Header() {
					vv := make([]string, len(vals))
					copy(vv, vals)
					hdr[k] = vv
				}
				if payload, err := encodePayload(cw.status, hdr, cw.buf.Bytes()); err == nil {
					bg := context.Background()
					if err := s.rdb.SetEx(bg, key, payload, ttl).Err(); err == nil {
						// Track the key so Invalidate can find it.  The index
						// outlives its members slightly; stale members are
						// harmless (DEL on a gone key is a no-op).
						_ = s.rdb.SAdd(bg, s.indexKey(group), key).Err()
						_ = s.rdb.Expire(bg, s.indexKey(group), ttl+time.Minute).Err()
					}
				}
			}
			return nil
		}
	}
}
