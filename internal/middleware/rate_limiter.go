package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Per-IP sliding window counters. Each limiter owns an independent window so
// kiosk traffic on the public price check cannot starve the login endpoint
// and vice versa.

type rateEntry struct {
	mu        sync.Mutex
	count     int
	windowEnd time.Time
}

type slidingWindow struct {
	name    string
	mu      sync.Mutex
	entries map[string]*rateEntry
}

// windows is only appended to during package initialization; the purge
// goroutine reads it without locking.
var windows []*slidingWindow

func newSlidingWindow(name string) *slidingWindow {
	w := &slidingWindow{name: name, entries: make(map[string]*rateEntry)}
	windows = append(windows, w)
	return w
}

var (
	loginWindow      = newSlidingWindow("login")
	apiWindow        = newSlidingWindow("api")
	priceCheckWindow = newSlidingWindow("price_check")
)

// take registers one hit for ip and reports whether it stays within limit,
// along with the instant the current window resets.
func (w *slidingWindow) take(ip string, limit int, window time.Duration) (bool, time.Time) {
	w.mu.Lock()
	entry, exists := w.entries[ip]
	if !exists {
		entry = &rateEntry{}
		w.entries[ip] = entry
	}
	w.mu.Unlock()

	entry.mu.Lock()
	defer entry.mu.Unlock()

	now := time.Now()
	if now.After(entry.windowEnd) {
		entry.count = 0
		entry.windowEnd = now.Add(window)
	}
	entry.count++
	return entry.count <= limit, entry.windowEnd
}

// LoginRateLimiter limits login attempts to 20 per minute per IP. Account
// level lockouts (wrong password, exhausted PIN attempts) live in the service
// layer; this only slows credential stuffing from a single address.
func LoginRateLimiter() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, _ := loginWindow.take(c.ClientIP(), 20, time.Minute)
		if !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiados intentos de login. Intente en 1 minuto."))
			return
		}
		c.Next()
	}
}

// RateLimiter is the general sliding-window limiter applied to the whole API.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, retryAt := apiWindow.take(c.ClientIP(), limit, window)
		if !ok {
			c.Header("Retry-After", retryAt.Format(time.RFC1123))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiadas solicitudes. Intente nuevamente en un momento."))
			return
		}
		c.Next()
	}
}

// PriceCheckRateLimiter covers the public price check endpoint. The in-store
// verifier kiosks scan in bursts, so the ceiling is well above what a browser
// needs while still blocking catalog scraping.
func PriceCheckRateLimiter() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, retryAt := priceCheckWindow.take(c.ClientIP(), 120, time.Minute)
		if !ok {
			c.Header("Retry-After", retryAt.Format(time.RFC1123))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiadas consultas de precio. Intente nuevamente en un momento."))
			return
		}
		c.Next()
	}
}

// ── Purge goroutine ───────────────────────────────────────────────────────────
// Periodically removes expired entries from every window to prevent memory
// growth from IPs that never return.

const purgeInterval = 5 * time.Minute

func init() {
	go purgeExpiredEntries()
}

func purgeExpiredEntries() {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		for _, w := range windows {
			w.mu.Lock()
			purged := 0
			for ip, entry := range w.entries {
				entry.mu.Lock()
				if now.After(entry.windowEnd) {
					delete(w.entries, ip)
					purged++
				}
				entry.mu.Unlock()
			}
			remaining := len(w.entries)
			w.mu.Unlock()

			if purged > 0 {
				log.Debug().
					Str("limiter", w.name).
					Int("purged", purged).
					Int("remaining", remaining).
					Msg("rate limiter window purged")
			}
		}
	}
}
