package main

import (
	"encoding/json"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gopxl/beep"
	"github.com/iabhijais/portfolio/internal/cursor"
	"github.com/iabhijais/portfolio/internal/theme"
	"go.uber.org/zap"
)

// toneCache renders each mode's toggle tone to WAV once.
type toneCache struct {
	rate beep.SampleRate

	mu     sync.Mutex
	byMode map[theme.Mode][]byte
}

func newToneCache(sampleRate int) *toneCache {
	return &toneCache{
		rate:   beep.SampleRate(sampleRate),
		byMode: make(map[theme.Mode][]byte),
	}
}

func (tc *toneCache) get(m theme.Mode) ([]byte, error) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	if b, ok := tc.byMode[m]; ok {
		return b, nil
	}
	b, err := theme.RenderWAV(theme.ToneFor(m), tc.rate)
	if err != nil {
		return nil, err
	}
	tc.byMode[m] = b
	return b, nil
}

func toneURL(m theme.Mode) string {
	return "/theme/tone.wav?mode=" + url.QueryEscape(m.String())
}

// handleThemeToggle flips the posted mode. The browser gets the nav, toggle
// included, as an out-of-band swap and a theme-changed event telling it which
// class to apply and which tone to play. Do Not Track requests are counted
// but not stored.
func (a *app) handleThemeToggle(c *gin.Context) {
	current := theme.ModeOr(c.PostForm("mode"), a.defaultTheme)

	var cue theme.Tone
	state := theme.NewState(current, theme.FeedbackFunc(func(t theme.Tone) error {
		cue = t
		return nil
	}), a.logger)
	to := state.Toggle()

	themeTogglesTotal.WithLabelValues(to.String()).Inc()
	if c.GetHeader("DNT") != "1" {
		if err := a.store.RecordThemeToggle(c.Request.Context(), a.admin.hashIP(c.ClientIP()), to.String(), time.Now()); err != nil {
			a.logger.Warn("recording theme toggle failed", zap.Error(err))
		}
	}

	event, err := json.Marshal(gin.H{
		"theme-changed": gin.H{
			"mode":      to.String(),
			"class":     state.ClassName(),
			"tone":      toneURL(to),
			"frequency": cue.Frequency,
		},
	})
	if err == nil {
		c.Header("HX-Trigger", string(event))
	}

	data := a.pageData(pageFor(c.PostForm("page")), to)
	data["oob"] = true
	c.HTML(http.StatusOK, "theme-toggle.html", data)
}

// handleTone serves the tone played when entering ?mode=.
func (a *app) handleTone(c *gin.Context) {
	mode, err := theme.ParseMode(c.Query("mode"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	data, err := a.tones.get(mode)
	if err != nil {
		a.logger.Error("rendering theme tone failed", zap.String("mode", mode.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "tone unavailable"})
		return
	}
	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, "audio/wav", data)
}

// handleCursorConfig publishes the cursor glow parameters to site.js.
func (a *app) handleCursorConfig(c *gin.Context) {
	opts := cursor.Options{
		GlowSmoothing: a.cfg.Cursor.GlowSmoothing,
		DotSmoothing:  a.cfg.Cursor.DotSmoothing,
		HotScale:      a.cfg.Cursor.HotScale,
	}.WithDefaults()

	c.JSON(http.StatusOK, gin.H{
		"glowSmoothing":   opts.GlowSmoothing,
		"dotSmoothing":    opts.DotSmoothing,
		"hotScale":        opts.HotScale,
		"selector":        cursor.Selector(),
		"textClass":       cursor.TextAnimClass,
		"hotClass":        cursor.HotClass,
		"hotTextClass":    cursor.HotTextClass,
		"hideNativeClass": cursor.HideNativeClass,
	})
}
