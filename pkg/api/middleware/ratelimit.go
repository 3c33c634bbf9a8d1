// Zaparoo Extract
// Copyright (c) 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Zaparoo Extract.
//
// Zaparoo Extract is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Zaparoo Extract is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Zaparoo Extract.  If not, see <http://www.gnu.org/licenses/>.

package middleware

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/ZaparooProject/zaparoo-extract/pkg/helpers/syncutil"
	"github.com/jonboulle/clockwork"
	"github.com/olahol/melody"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	RequestsPerMinute = 120
	BurstSize         = 20
	StaleAfter        = 10 * time.Minute
	CleanupInterval   = 5 * time.Minute
	// CostUnit is how many request bytes one token pays for. Large
	// extraction payloads spend several tokens.
	CostUnit = 64 << 10
)

// rateLimitedResponse is sent on a websocket in place of a JSON-RPC result.
var rateLimitedResponse = []byte(
	`{"jsonrpc":"2.0","id":null,"error":{"code":-32000,"message":"Rate limit exceeded"}}`,
)

// ParseRemoteIP extracts the IP from a RemoteAddr, with or without a port.
func ParseRemoteIP(remoteAddr string) net.IP {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}
	return net.ParseIP(host)
}

// IsLoopbackAddr checks if a RemoteAddr string represents a loopback address.
func IsLoopbackAddr(remoteAddr string) bool {
	ip := ParseRemoteIP(remoteAddr)
	if ip == nil {
		return false
	}
	return ip.IsLoopback()
}

// IPRateLimiter manages rate limiters per IP address for both HTTP and WebSocket
type IPRateLimiter struct {
	clock    clockwork.Clock
	limiters map[string]*rateLimiterEntry
	limit    rate.Limit
	burst    int
	mu       syncutil.RWMutex
}

type rateLimiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewIPRateLimiter creates a limiter allowing RequestsPerMinute per IP.
func NewIPRateLimiter(clock clockwork.Clock) *IPRateLimiter {
	return NewIPRateLimiterWithLimit(clock, rate.Limit(float64(RequestsPerMinute)/60.0), BurstSize)
}

func NewIPRateLimiterWithLimit(clock clockwork.Clock, limit rate.Limit, burst int) *IPRateLimiter {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &IPRateLimiter{
		clock:    clock,
		limiters: make(map[string]*rateLimiterEntry),
		limit:    limit,
		burst:    burst,
	}
}

// GetLimiter returns the rate limiter for the given IP
func (rl *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	entry, exists := rl.limiters[ip]
	if !exists {
		entry = &rateLimiterEntry{
			limiter:  rate.NewLimiter(rl.limit, rl.burst),
			lastSeen: rl.clock.Now(),
		}
		rl.limiters[ip] = entry
	} else {
		entry.lastSeen = rl.clock.Now()
	}

	return entry.limiter
}

// Len returns the number of tracked IPs.
func (rl *IPRateLimiter) Len() int {
	rl.mu.RLock()
	defer rl.mu.RUnlock()
	return len(rl.limiters)
}

// Cleanup removes old entries that haven't been seen recently
func (rl *IPRateLimiter) Cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.clock.Now()
	for ip, entry := range rl.limiters {
		if now.Sub(entry.lastSeen) > StaleAfter {
			delete(rl.limiters, ip)
			log.Debug().Str("ip", ip).Msg("removed stale rate limiter")
		}
	}
}

// StartCleanup starts a goroutine to periodically clean up old rate limiters.
// The cleanup goroutine will stop when the provided context is cancelled.
func (rl *IPRateLimiter) StartCleanup(ctx context.Context) {
	go func() {
		ticker := rl.clock.NewTicker(CleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.Chan():
				rl.Cleanup()
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Cost returns the tokens a request of size bytes spends, capped at burst so
// a single oversized request can still pass on a full bucket.
func (rl *IPRateLimiter) Cost(size int) int {
	n := 1
	if size > 0 {
		n += size / CostUnit
	}
	return min(n, max(rl.burst, 1))
}

// Allow reports whether host may send a request of size bytes now.
func (rl *IPRateLimiter) Allow(host string, size int) bool {
	return rl.GetLimiter(host).AllowN(rl.clock.Now(), rl.Cost(size))
}

// HTTPRateLimitMiddleware rejects requests over the per-IP budget with 429.
// Bodies without a Content-Length are buffered, up to maxBody+1 bytes, so
// they are charged for what they carry.
func HTTPRateLimitMiddleware(limiter *IPRateLimiter, maxBody int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host := ParseRemoteIP(r.RemoteAddr).String()

			size := r.ContentLength
			if size < 0 && r.Body != nil && r.Body != http.NoBody {
				body, err := io.ReadAll(io.LimitReader(r.Body, maxBody+1))
				if err != nil {
					log.Debug().Err(err).Str("ip", host).Msg("failed to read request body")
					http.Error(w, "Bad Request", http.StatusBadRequest)
					return
				}
				_ = r.Body.Close()
				r.Body = io.NopCloser(bytes.NewReader(body))
				size = int64(len(body))
			}

			if !limiter.Allow(host, int(size)) {
				log.Warn().
					Str("ip", host).
					Str("path", r.URL.Path).
					Int64("size", size).
					Msg("HTTP rate limit exceeded")
				http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WebSocketRateLimitHandler wraps a websocket message handler. Messages over
// the budget get a JSON-RPC error instead of reaching handler.
func WebSocketRateLimitHandler(
	limiter *IPRateLimiter,
	handler func(*melody.Session, []byte),
) func(*melody.Session, []byte) {
	return func(session *melody.Session, msg []byte) {
		host := ParseRemoteIP(session.Request.RemoteAddr).String()
		if limiter.Allow(host, len(msg)) {
			handler(session, msg)
			return
		}

		log.Warn().
			Str("ip", host).
			Int("size", len(msg)).
			Msg("websocket rate limit exceeded")
		if err := session.Write(rateLimitedResponse); err != nil {
			log.Error().Err(err).Msg("failed to send rate limit error")
		}
	}
}
