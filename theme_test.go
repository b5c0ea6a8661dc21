package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

type themeChanged struct {
	Event struct {
		Mode      string  `json:"mode"`
		Class     string  `json:"class"`
		Tone      string  `json:"tone"`
		Frequency float64 `json:"frequency"`
	} `json:"theme-changed"`
}

func toggle(t *testing.T, r http.Handler, mode, page string) (themeChanged, string) {
	t.Helper()
	w := do(r, postForm("/theme/toggle", url.Values{"mode": {mode}, "page": {page}}))
	if w.Code != http.StatusOK {
		t.Fatalf("toggle status = %d", w.Code)
	}
	var ev themeChanged
	if err := json.Unmarshal([]byte(w.Header().Get("HX-Trigger")), &ev); err != nil {
		t.Fatalf("HX-Trigger %q: %v", w.Header().Get("HX-Trigger"), err)
	}
	return ev, w.Body.String()
}

func TestThemeToggle_DarkToLight(t *testing.T) {
	_, r := newTestApp(t)

	ev, body := toggle(t, r, "dark", "/projects")
	if ev.Event.Mode != "light" || ev.Event.Class != "light-mode" {
		t.Errorf("event = %+v, want light/light-mode", ev.Event)
	}
	if ev.Event.Frequency != 800 {
		t.Errorf("frequency = %v, want 800", ev.Event.Frequency)
	}
	if ev.Event.Tone != "/theme/tone.wav?mode=light" {
		t.Errorf("tone = %q", ev.Event.Tone)
	}
	nav := siteNav(t, body)
	if !strings.Contains(nav, `hx-swap-oob="true"`) || !strings.Contains(nav, `href="/projects?theme=light"`) {
		t.Error("nav not swapped out of band with the new theme")
	}
	// The swapped nav replaces the old toggle, so it must carry a new one.
	if !strings.Contains(nav, `id="theme-toggle"`) || !strings.Contains(nav, `hx-post="/theme/toggle"`) {
		t.Errorf("swapped nav has no toggle:\n%s", nav)
	}
	if !strings.Contains(nav, `name="mode" value="light"`) {
		t.Error("new toggle does not carry the new mode")
	}
	if strings.Count(body, `id="theme-toggle"`) != 1 {
		t.Error("toggle rendered outside the nav")
	}
}

// siteNav returns the #site-nav element of body.
func siteNav(t *testing.T, body string) string {
	t.Helper()
	start := strings.Index(body, `<nav id="site-nav"`)
	if start < 0 {
		t.Fatalf("no #site-nav in:\n%s", body)
	}
	end := strings.Index(body[start:], "</nav>")
	if end < 0 {
		t.Fatal("unterminated #site-nav")
	}
	return body[start : start+end]
}

func TestPageNav_HasToggleWithoutOOB(t *testing.T) {
	_, r := newTestApp(t)

	nav := siteNav(t, do(r, httptest.NewRequest(http.MethodGet, "/?theme=light", nil)).Body.String())
	if strings.Contains(nav, "hx-swap-oob") {
		t.Error("page nav marked for out-of-band swap")
	}
	if !strings.Contains(nav, `id="theme-toggle"`) || !strings.Contains(nav, `hx-swap="none"`) {
		t.Errorf("page nav toggle missing or swapping itself:\n%s", nav)
	}
}

func TestThemeToggle_ChainedFromResponse(t *testing.T) {
	_, r := newTestApp(t)

	mode := "dark"
	for _, want := range []string{"light", "dark", "light"} {
		ev, body := toggle(t, r, mode, "/")
		if ev.Event.Mode != want {
			t.Fatalf("toggle from %s = %s, want %s", mode, ev.Event.Mode, want)
		}
		// Post what the swapped-in toggle would post next.
		nav := siteNav(t, body)
		i := strings.Index(nav, `name="mode" value="`)
		if i < 0 {
			t.Fatalf("no mode field in swapped nav:\n%s", nav)
		}
		rest := nav[i+len(`name="mode" value="`):]
		mode = rest[:strings.Index(rest, `"`)]
	}
}

func TestThemeToggle_LightToDark(t *testing.T) {
	_, r := newTestApp(t)

	ev, _ := toggle(t, r, "light", "/")
	if ev.Event.Mode != "dark" || ev.Event.Class != "dark-mode" || ev.Event.Frequency != 600 {
		t.Errorf("event = %+v, want dark/dark-mode/600", ev.Event)
	}
}

func TestThemeToggle_MissingModeUsesDefault(t *testing.T) {
	_, r := newTestApp(t)

	ev, _ := toggle(t, r, "", "")
	if ev.Event.Mode != "light" {
		t.Errorf("toggle from default = %q, want light", ev.Event.Mode)
	}
}

func TestThemeToggle_TwiceRestores(t *testing.T) {
	_, r := newTestApp(t)

	first, _ := toggle(t, r, "dark", "/")
	second, _ := toggle(t, r, first.Event.Mode, "/")
	if second.Event.Mode != "dark" {
		t.Errorf("two toggles ended at %q, want dark", second.Event.Mode)
	}
}

func TestThemeToggle_Recorded(t *testing.T) {
	a, r := newTestApp(t)

	toggle(t, r, "dark", "/")
	toggle(t, r, "dark", "/")
	toggle(t, r, "light", "/")

	stats, err := a.store.Stats(context.Background(), time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if stats.TogglesToLight != 2 || stats.TogglesToDark != 1 {
		t.Errorf("toggles light=%d dark=%d, want 2 and 1", stats.TogglesToLight, stats.TogglesToDark)
	}
}

func TestThemeToggle_DoNotTrack(t *testing.T) {
	a, r := newTestApp(t)

	req := postForm("/theme/toggle", url.Values{"mode": {"dark"}, "page": {"/"}})
	req.Header.Set("DNT", "1")
	w := do(r, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if w.Header().Get("HX-Trigger") == "" {
		t.Error("DNT request did not get the theme-changed event")
	}

	stats, err := a.store.Stats(context.Background(), time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if stats.TogglesToLight != 0 || stats.TogglesToDark != 0 {
		t.Errorf("DNT toggle stored: light=%d dark=%d", stats.TogglesToLight, stats.TogglesToDark)
	}
}

func TestTone_ServesWAV(t *testing.T) {
	_, r := newTestApp(t)

	w := do(r, httptest.NewRequest(http.MethodGet, "/theme/tone.wav?mode=light", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "audio/wav" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("RIFF")) {
		t.Error("body is not a RIFF file")
	}

	// Second request comes from the cache and must be identical.
	again := do(r, httptest.NewRequest(http.MethodGet, "/theme/tone.wav?mode=light", nil))
	if !bytes.Equal(again.Body.Bytes(), w.Body.Bytes()) {
		t.Error("cached tone differs")
	}
}

func TestTone_BadMode(t *testing.T) {
	_, r := newTestApp(t)

	w := do(r, httptest.NewRequest(http.MethodGet, "/theme/tone.wav?mode=purple", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestCursorConfig(t *testing.T) {
	_, r := newTestApp(t)

	w := do(r, httptest.NewRequest(http.MethodGet, "/cursor/config.json", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var cfg struct {
		GlowSmoothing float64 `json:"glowSmoothing"`
		DotSmoothing  float64 `json:"dotSmoothing"`
		HotScale      float64 `json:"hotScale"`
		Selector      string  `json:"selector"`
		HotTextClass  string  `json:"hotTextClass"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.GlowSmoothing != 0.15 || cfg.DotSmoothing != 0.25 || cfg.HotScale != 1.5 {
		t.Errorf("cursor config = %+v", cfg)
	}
	if !strings.Contains(cfg.Selector, "button") || cfg.HotTextClass != "hot-text" {
		t.Errorf("cursor config = %+v", cfg)
	}
}
