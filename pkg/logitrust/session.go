package logitrust

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

const (
	sessionCookieName = "logitrust_session"
	sessionContextKey = "logitrust.session"
)

type clientContextKey struct{}

type session struct {
	slot    *semaphore.Weighted
	limiter *rate.Limiter

	// refs counts callers between get and release; guarded by sessionGuard.mu.
	refs int
}

type limit struct {
	perMinute int
	burst     int
}

func (l limit) newLimiter() *rate.Limiter {
	if l.perMinute <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(l.perMinute)), l.burst)
}

// sessionGuard allows one in-flight analysis per session and applies the
// per-session and per-client rate limits. Waiters on the same session are
// served in FIFO order.
//
// Idle sessions live in an expirable LRU. A session with callers is pinned in
// active until the last one releases it, so eviction never hands out a second
// slot for the same id.
type sessionGuard struct {
	sessions *expirable.LRU[string, *session]
	active   map[string]*session
	clients  *expirable.LRU[string, *rate.Limiter]

	sessionLimit limit
	clientLimit  limit

	mu sync.Mutex
}

func newSessionGuard(size int, ttl time.Duration, sessionLimit limit, clientLimit limit) *sessionGuard {
	return &sessionGuard{
		sessions:     expirable.NewLRU[string, *session](size, nil, ttl),
		active:       make(map[string]*session),
		clients:      expirable.NewLRU[string, *rate.Limiter](size, nil, ttl),
		sessionLimit: sessionLimit,
		clientLimit:  clientLimit,
	}
}

func (g *sessionGuard) get(id string) *session {
	g.mu.Lock()
	defer g.mu.Unlock()

	s, ok := g.active[id]
	if !ok {
		s, ok = g.sessions.Get(id)
		if !ok {
			s = &session{
				slot:    semaphore.NewWeighted(1),
				limiter: g.sessionLimit.newLimiter(),
			}
		}
		g.active[id] = s
	}
	s.refs++
	// re-adding refreshes the TTL
	g.sessions.Add(id, s)

	return s
}

func (g *sessionGuard) put(id string, s *session) {
	g.mu.Lock()
	defer g.mu.Unlock()

	s.refs--
	if s.refs == 0 {
		delete(g.active, id)
		g.sessions.Add(id, s)
	}
}

func (g *sessionGuard) clientLimiter(client string) *rate.Limiter {
	g.mu.Lock()
	defer g.mu.Unlock()

	limiter, ok := g.clients.Get(client)
	if !ok {
		limiter = g.clientLimit.newLimiter()
	}
	g.clients.Add(client, limiter)

	return limiter
}

// Acquire blocks until the session has no other analysis in flight. The
// returned func must be called once the analysis is finished.
func (g *sessionGuard) Acquire(ctx context.Context, id string) (func(), error) {
	s := g.get(id)

	if !s.limiter.Allow() {
		g.put(id, s)
		return nil, ErrRateLimited
	}

	if client := clientFromContext(ctx); client != "" && !g.clientLimiter(client).Allow() {
		g.put(id, s)
		return nil, ErrRateLimited
	}

	if err := s.slot.Acquire(ctx, 1); err != nil {
		g.put(id, s)
		return nil, err
	}

	return func() {
		s.slot.Release(1)
		g.put(id, s)
	}, nil
}

// WithClient tags ctx with the caller's network identity for the per-client
// rate limit.
func WithClient(ctx context.Context, client string) context.Context {
	return context.WithValue(ctx, clientContextKey{}, client)
}

func clientFromContext(ctx context.Context) string {
	client, _ := ctx.Value(clientContextKey{}).(string)
	return client
}

func sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(sessionCookieName)
		if err != nil || uuid.Validate(id) != nil {
			id = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(sessionCookieName, id, 0, "/", "", false, true)
		}

		c.Set(sessionContextKey, id)
		c.Request = c.Request.WithContext(WithClient(c.Request.Context(), c.ClientIP()))
		c.Next()
	}
}

func sessionID(c *gin.Context) string {
	return c.GetString(sessionContextKey)
}
