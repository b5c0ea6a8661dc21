package main

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/iabhijais/portfolio/internal/store"
	"github.com/iabhijais/portfolio/internal/theme"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portfolio_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	themeTogglesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_theme_toggles_total",
			Help: "Theme toggles by the mode entered.",
		},
		[]string{"to"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal, httpRequestDuration, themeTogglesTotal)
}

const requestIDKey = "request_id"

// requestIDMiddleware generates or propagates X-Request-ID headers.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// loggingMiddleware logs each request and records Prometheus metrics.
// Paths in skipPaths are still counted but not logged.
func loggingMiddleware(logger *zap.Logger, skipPaths ...string) gin.HandlerFunc {
	skip := make(map[string]bool, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = true
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()

		if !skip[c.Request.URL.Path] {
			logger.Info("http request",
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Int("status", status),
				zap.Duration("duration", duration),
				zap.String("request_id", c.GetString(requestIDKey)),
			)
		}

		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, route).Observe(duration.Seconds())
	}
}

// recoveryMiddleware turns panics into a logged 500.
func recoveryMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("panic recovered",
					zap.Any("panic", rec),
					zap.String("path", c.Request.URL.Path),
					zap.String("request_id", c.GetString(requestIDKey)),
				)
				c.AbortWithStatus(http.StatusInternalServerError)
			}
		}()
		c.Next()
	}
}

// securityHeadersMiddleware adds standard security headers to all responses.
func securityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("X-Frame-Options", "SAMEORIGIN")
		c.Next()
	}
}

var untrackedPrefixes = []string{
	"/static/", "/admin", "/theme/", "/cursor/", "/metrics", "/healthz", "/favicon", "/privacy", "/contact",
}

// visitorTrackingMiddleware records successful page views with a hashed
// client address. Do Not Track is honoured.
func (a *app) visitorTrackingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, p := range untrackedPrefixes {
			if strings.HasPrefix(path, p) {
				c.Next()
				return
			}
		}
		if c.Request.Method != http.MethodGet || c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}

		c.Next()
		if c.Writer.Status() != http.StatusOK {
			return
		}

		visit := store.Visit{
			HashedIP:  a.admin.hashIP(c.ClientIP()),
			UserAgent: c.GetHeader("User-Agent"),
			Path:      path,
			Theme:     theme.ModeOr(c.Query("theme"), a.defaultTheme).String(),
			Timestamp: time.Now(),
		}
		a.background.Add(1)
		go func() {
			defer a.background.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := a.store.RecordVisit(ctx, visit); err != nil {
				a.logger.Warn("recording visitor failed", zap.Error(err))
			}
		}()
	}
}

// clientLimiter tracks per-client token buckets.
type clientLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	rateVal  rate.Limit
	burst    int
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newClientLimiter(perSecond float64, burst int) *clientLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &clientLimiter{
		limiters: make(map[string]*limiterEntry),
		rateVal:  rate.Limit(perSecond),
		burst:    burst,
	}
}

func (l *clientLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	e, ok := l.limiters[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(l.rateVal, l.burst)}
		l.limiters[key] = e
	}
	e.lastSeen = now

	// Drop idle clients so the map does not grow without bound.
	for k, v := range l.limiters {
		if now.Sub(v.lastSeen) > time.Hour {
			delete(l.limiters, k)
		}
	}
	return e.limiter.AllowN(now, 1)
}
