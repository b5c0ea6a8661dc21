package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/gin-gonic/gin"
	"github.com/iabhijais/portfolio/internal/config"
	"github.com/iabhijais/portfolio/internal/content"
	"github.com/iabhijais/portfolio/internal/store"
	"github.com/iabhijais/portfolio/internal/theme"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// page is one routed portfolio page.
type page struct {
	Path     string
	Template string
	Title    string
}

var pages = []page{
	{Path: "/", Template: "index.html", Title: "Home"},
	{Path: "/projects", Template: "projects.html", Title: "Projects"},
	{Path: "/gaming", Template: "gaming.html", Title: "Gaming"},
	{Path: "/hire-me", Template: "hire-me.html", Title: "Hire Me"},
	{Path: "/resume", Template: "resume.html", Title: "Resume"},
}

func pageFor(path string) page {
	for _, p := range pages {
		if p.Path == path {
			return p
		}
	}
	return pages[0]
}

// app carries everything the handlers need.
type app struct {
	cfg          *config.Config
	logger       *zap.Logger
	store        *store.Store
	site         *content.Site
	defaultTheme theme.Mode
	tones        *toneCache
	admin        *adminAuth
	contact      *clientLimiter
	sendMail     func(smtp config.SMTPConfig, name, email, message string) error

	// background holds in-flight visitor writes.
	background sync.WaitGroup
}

func newApp(cfg *config.Config, logger *zap.Logger, st *store.Store, site *content.Site) *app {
	def, err := theme.ParseMode(cfg.Theme.Default)
	if err != nil {
		logger.Warn("unknown default theme, using dark", zap.Error(err))
		def = theme.Default
	}
	a := &app{
		cfg:          cfg,
		logger:       logger,
		store:        st,
		site:         site,
		defaultTheme: def,
		tones:        newToneCache(cfg.Audio.SampleRate),
		admin:        newAdminAuth(logger),
		contact:      newClientLimiter(cfg.Contact.RatePerMinute/60, cfg.Contact.Burst),
		sendMail:     sendContactEmail,
	}
	return a
}

func (a *app) router() *gin.Engine {
	r := gin.New()
	r.Use(
		recoveryMiddleware(a.logger),
		requestIDMiddleware(),
		loggingMiddleware(a.logger, "/healthz", "/metrics"),
		securityHeadersMiddleware(),
		a.visitorTrackingMiddleware(),
	)

	r.LoadHTMLGlob(a.cfg.Server.TemplatesGlob)
	r.Static("/static", a.cfg.Server.StaticDir)

	for _, p := range pages {
		r.GET(p.Path, func(c *gin.Context) {
			mode := theme.ModeOr(c.Query("theme"), a.defaultTheme)
			c.HTML(http.StatusOK, p.Template, a.pageData(p, mode))
		})
	}

	r.POST("/theme/toggle", a.handleThemeToggle)
	r.GET("/theme/tone.wav", a.handleTone)
	r.GET("/cursor/config.json", a.handleCursorConfig)

	// HTMX contact form on the hire-me page
	r.POST("/contact", a.handleContact)

	r.GET("/healthz", func(c *gin.Context) {
		if err := a.store.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	a.setupAdminRoutes(r)
	return r
}

// pageData is the template context shared by every page. The theme is
// always passed in; templates never read it from anywhere else.
func (a *app) pageData(p page, mode theme.Mode) gin.H {
	return gin.H{
		"page":       p,
		"pages":      pages,
		"site":       a.site,
		"theme":      mode.String(),
		"themeClass": mode.ClassName(),
		"toggleTo":   mode.Toggled().String(),
		"year":       time.Now().Year(),
		"oob":        false,
	}
}

// cleanupLoop drops tracked data past the retention window once at start and
// then daily.
func (a *app) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	for {
		a.cleanup(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (a *app) cleanup(ctx context.Context) {
	cutoff := time.Now().Add(-a.cfg.Database.Retention)
	n, err := a.store.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		a.logger.Error("privacy cleanup failed", zap.Error(err))
		return
	}
	if n > 0 {
		a.logger.Info("privacy cleanup removed old records",
			zap.Int64("rows", n),
			zap.Time("cutoff", cutoff),
		)
	}
}

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	v, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg, err := config.Decode(v)
	if err != nil {
		return err
	}
	logger, err := config.NewLogger(v)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.New(ctx, cfg.Database.Path)
	if err != nil {
		return err
	}
	defer st.Close()

	site, err := content.Load()
	if err != nil {
		return err
	}

	a := newApp(cfg, logger, st, site)
	go a.cleanupLoop(ctx)

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      a.router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting HTTP server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("HTTP server error: %w", err)
	}

	logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownGrace)
	defer cancel()
	err = srv.Shutdown(shutdownCtx)
	a.background.Wait()
	return err
}
