package middleware

import (
	"net/http"
	"sync"
	"time"

	"cantina/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// slidingWindow counts hits per IP inside fixed windows. Every limiter created
// through newSlidingWindow registers itself so a single purge goroutine can
// drop expired entries.
type slidingWindow struct {
	mu       sync.Mutex
	limit    int
	period   time.Duration
	ventanas map[string]*ventana
}

type ventana struct {
	intentos int
	hasta    time.Time
}

var (
	registroMu sync.Mutex
	registro   []*slidingWindow
)

func newSlidingWindow(limit int, period time.Duration) *slidingWindow {
	w := &slidingWindow{limit: limit, period: period, ventanas: make(map[string]*ventana)}
	registroMu.Lock()
	registro = append(registro, w)
	registroMu.Unlock()
	return w
}

// allow counts one hit for ip and reports whether it stays under the limit,
// plus when the current window ends.
func (w *slidingWindow) allow(ip string) (bool, time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := time.Now()
	v, ok := w.ventanas[ip]
	if !ok || now.After(v.hasta) {
		v = &ventana{hasta: now.Add(w.period)}
		w.ventanas[ip] = v
	}
	v.intentos++
	return v.intentos <= w.limit, v.hasta
}

func (w *slidingWindow) purge(now time.Time) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	n := 0
	for ip, v := range w.ventanas {
		if now.After(v.hasta) {
			delete(w.ventanas, ip)
			n++
		}
	}
	return n
}

// LoginRateLimiter caps login attempts at 20 per minute per IP.
func LoginRateLimiter() gin.HandlerFunc {
	w := newSlidingWindow(20, time.Minute)
	return func(c *gin.Context) {
		if ok, _ := w.allow(c.ClientIP()); !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiados intentos de login. Intente en 1 minuto."))
			return
		}
		c.Next()
	}
}

// RateLimiter caps total requests per IP across the whole API.
func RateLimiter(limit int, period time.Duration) gin.HandlerFunc {
	w := newSlidingWindow(limit, period)
	return func(c *gin.Context) {
		ok, hasta := w.allow(c.ClientIP())
		if !ok {
			c.Header("Retry-After", hasta.Format(time.RFC1123))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiadas solicitudes. Intente nuevamente en un momento."))
			return
		}
		c.Next()
	}
}

// One goroutine purges all registered limiters so IPs that never come back do
// not accumulate forever.
func init() {
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			now := time.Now()

			registroMu.Lock()
			limiters := make([]*slidingWindow, len(registro))
			copy(limiters, registro)
			registroMu.Unlock()

			total := 0
			for _, w := range limiters {
				total += w.purge(now)
			}
			if total > 0 {
				log.Debug().Int("ventanas", total).Msg("rate limiter: ventanas vencidas purgadas")
			}
		}
	}()
}
