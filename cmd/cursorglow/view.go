package main

import (
	"math"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/iabhijais/portfolio/internal/content"
	"github.com/iabhijais/portfolio/internal/cursor"
	"github.com/iabhijais/portfolio/internal/scroll"
	"github.com/iabhijais/portfolio/internal/theme"
)

const (
	glowRadiusX = 8.0
	glowRadiusY = 4.0
	margin      = 2

	dotRune    = '●'
	hotDotRune = '◉'
)

// element is one block of home page copy laid out on the terminal.
type element struct {
	tag     string
	classes []string
	parent  *element
	text    string
}

func (e *element) Tag() string { return e.tag }

func (e *element) HasClass(name string) bool {
	for _, c := range e.classes {
		if c == name {
			return true
		}
	}
	return false
}

func (e *element) Parent() cursor.Node {
	if e.parent == nil {
		return nil
	}
	return e.parent
}

// docLine is one wrapped row of the document.
type docLine struct {
	el   *element
	text []rune
}

type document struct {
	root  *element
	lines []docLine
}

// layout wraps the home copy to width columns.
func layout(site *content.Site, width int) *document {
	root := &element{tag: "main"}
	doc := &document{root: root}
	textWidth := width - 2*margin
	if textWidth < 10 {
		textWidth = 10
	}

	blank := func() { doc.lines = append(doc.lines, docLine{}) }
	add := func(section *element, tag string, classes []string, text string) {
		el := &element{tag: tag, classes: classes, parent: section, text: text}
		for _, row := range wrap(text, textWidth) {
			doc.lines = append(doc.lines, docLine{el: el, text: []rune(row)})
		}
	}
	section := func(name string) *element {
		return &element{tag: "section", classes: []string{name}, parent: root}
	}

	anim := []string{cursor.TextAnimClass}

	hero := section("hero")
	add(hero, "h2", anim, site.Owner.Name)
	add(hero, "p", nil, site.Owner.Tagline)
	blank()
	for _, h := range site.Home.Headline {
		add(hero, "h2", anim, h)
	}
	blank()

	power := section("superpower")
	for _, s := range site.Home.Superpower {
		add(power, "h3", anim, s)
	}
	blank()

	intro := section("intro")
	for _, p := range site.Home.Intro {
		add(intro, "p", anim, p)
		blank()
	}

	buttons := section("buttons")
	for _, b := range site.Home.Buttons {
		add(buttons, "a", []string{cursor.HoverTargetClass}, "[ "+b.Subtitle+" ] "+b.Title)
	}
	blank()

	footer := section("footer")
	for _, l := range site.Footer {
		add(footer, "li", nil, l.Title+"  "+l.URL)
	}
	return doc
}

// wrap breaks text into rows of at most width runes on word boundaries.
func wrap(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	var rows []string
	var cur []rune
	for _, w := range words {
		r := []rune(w)
		for len(r) > width {
			if len(cur) > 0 {
				rows = append(rows, string(cur))
				cur = nil
			}
			rows = append(rows, string(r[:width]))
			r = r[width:]
		}
		switch {
		case len(cur) == 0:
			cur = r
		case len(cur)+1+len(r) <= width:
			cur = append(append(cur, ' '), r...)
		default:
			rows = append(rows, string(cur))
			cur = r
		}
	}
	if len(cur) > 0 {
		rows = append(rows, string(cur))
	}
	return rows
}

type palette struct {
	bg, fg, hot, dot, hotDot tcell.Color
	glowNear, glowFar        tcell.Color
	bar                      tcell.Color
}

var palettes = map[theme.Mode]palette{
	theme.Dark: {
		bg:       tcell.NewRGBColor(0x0b, 0x0b, 0x12),
		fg:       tcell.NewRGBColor(0xe8, 0xe8, 0xf0),
		hot:      tcell.NewRGBColor(0x00, 0xf0, 0xff),
		dot:      tcell.NewRGBColor(0x00, 0xf0, 0xff),
		hotDot:   tcell.NewRGBColor(0xff, 0x2f, 0xd6),
		glowNear: tcell.NewRGBColor(0x00, 0x3a, 0x44),
		glowFar:  tcell.NewRGBColor(0x06, 0x1e, 0x28),
		bar:      tcell.NewRGBColor(0xff, 0x2f, 0xd6),
	},
	theme.Light: {
		bg:       tcell.NewRGBColor(0xf7, 0xf7, 0xfb),
		fg:       tcell.NewRGBColor(0x16, 0x16, 0x1d),
		hot:      tcell.NewRGBColor(0x00, 0x5f, 0x8a),
		dot:      tcell.NewRGBColor(0x00, 0x5f, 0x8a),
		hotDot:   tcell.NewRGBColor(0xc0, 0x10, 0x9a),
		glowNear: tcell.NewRGBColor(0xc8, 0xf0, 0xff),
		glowFar:  tcell.NewRGBColor(0xe4, 0xf6, 0xff),
		bar:      tcell.NewRGBColor(0xc0, 0x10, 0x9a),
	},
}

// view draws the home copy, the glow and the dot onto a tcell screen and is
// the cursor.Surface for the terminal.
type view struct {
	screen tcell.Screen
	site   *content.Site

	mu           sync.Mutex
	mode         theme.Mode
	doc          *document
	scrollY      int
	glow         cursor.Vec
	dot          cursor.Vec
	dotScale     float64
	followerHot  bool
	hot          map[*element]bool
	nativeHidden bool
}

func newView(screen tcell.Screen, site *content.Site, mode theme.Mode) *view {
	v := &view{
		screen:   screen,
		site:     site,
		mode:     mode,
		dotScale: 1,
		hot:      make(map[*element]bool),
	}
	w, _ := screen.Size()
	v.doc = layout(site, w)
	return v
}

func (v *view) MoveGlow(p cursor.Vec) {
	v.mu.Lock()
	v.glow = p
	v.mu.Unlock()
}

// MoveDot is the last call of every frame, so it also redraws.
func (v *view) MoveDot(p cursor.Vec, scale float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.dot = p
	v.dotScale = scale
	v.drawLocked()
}

func (v *view) SetFollowerHot(hot bool) {
	v.mu.Lock()
	v.followerHot = hot
	v.mu.Unlock()
}

func (v *view) MarkTarget(n cursor.Node, hot bool) {
	el, ok := n.(*element)
	if !ok {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if hot {
		v.hot[el] = true
	} else {
		delete(v.hot, el)
	}
}

func (v *view) HideNativeCursor(hidden bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.nativeHidden = hidden
	if hidden {
		v.screen.HideCursor()
	} else {
		v.screen.ShowCursor(0, 0)
	}
}

func (v *view) setMode(m theme.Mode) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.mode = m
	v.drawLocked()
}

func (v *view) contentHeight() int {
	_, h := v.screen.Size()
	if h < 3 {
		return 1
	}
	return h - 2
}

func (v *view) maxScroll() int {
	m := len(v.doc.lines) - v.contentHeight()
	if m < 0 {
		return 0
	}
	return m
}

// scrollBy moves the viewport by rows, clamped to the document.
func (v *view) scrollBy(rows int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.scrollY += rows
	if v.scrollY < 0 {
		v.scrollY = 0
	}
	if m := v.maxScroll(); v.scrollY > m {
		v.scrollY = m
	}
	v.drawLocked()
}

// progress returns the reading progress in percent.
func (v *view) progress() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.progressLocked()
}

func (v *view) progressLocked() float64 {
	return scroll.Progress(float64(v.scrollY), float64(len(v.doc.lines)), float64(v.contentHeight()))
}

// resize re-wraps the document for the new width.
func (v *view) resize() {
	v.mu.Lock()
	defer v.mu.Unlock()
	w, _ := v.screen.Size()
	v.doc = layout(v.site, w)
	clear(v.hot)
	if m := v.maxScroll(); v.scrollY > m {
		v.scrollY = m
	}
	v.screen.Sync()
	v.drawLocked()
}

// nodeAt returns the element under screen cell (x, y), or the document root
// when the pointer is over empty space.
func (v *view) nodeAt(x, y int) cursor.Node {
	v.mu.Lock()
	defer v.mu.Unlock()
	if line, ok := v.lineAt(y); ok && line.el != nil {
		if x >= margin && x < margin+len(line.text) {
			return line.el
		}
	}
	return v.doc.root
}

func (v *view) lineAt(y int) (docLine, bool) {
	if y < 1 || y > v.contentHeight() {
		return docLine{}, false
	}
	row := v.scrollY + y - 1
	if row < 0 || row >= len(v.doc.lines) {
		return docLine{}, false
	}
	return v.doc.lines[row], true
}

func (v *view) draw() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.drawLocked()
}

func (v *view) glowBg(p palette, x, y int) tcell.Color {
	dx := (float64(x) - v.glow.X) / glowRadiusX
	dy := (float64(y) - v.glow.Y) / glowRadiusY
	d := math.Sqrt(dx*dx + dy*dy)
	switch {
	case d < 0.5:
		return p.glowNear
	case d < 1:
		return p.glowFar
	}
	return p.bg
}

func (v *view) drawLocked() {
	p := palettes[v.mode]
	w, h := v.screen.Size()
	base := tcell.StyleDefault.Background(p.bg).Foreground(p.fg)

	// Progress bar.
	filled := scroll.Bar(v.progressLocked(), w)
	for x := 0; x < w; x++ {
		st := base
		r := ' '
		if x < filled {
			st = base.Foreground(p.bar)
			r = '▀'
		}
		v.screen.SetContent(x, 0, r, nil, st)
	}

	for y := 1; y <= v.contentHeight() && y < h; y++ {
		line, _ := v.lineAt(y)
		isHot := line.el != nil && v.hot[line.el]
		for x := 0; x < w; x++ {
			st := base.Background(v.glowBg(p, x, y))
			r := ' '
			if i := x - margin; i >= 0 && i < len(line.text) {
				r = line.text[i]
				if isHot {
					st = st.Foreground(p.hot).Bold(true)
				}
			}
			v.screen.SetContent(x, y, r, nil, st)
		}
	}

	dx, dy := int(math.Round(v.dot.X)), int(math.Round(v.dot.Y))
	if dx >= 0 && dx < w && dy >= 1 && dy <= v.contentHeight() {
		r, color := dotRune, p.dot
		if v.followerHot || v.dotScale > 1 {
			r, color = hotDotRune, p.hotDot
		}
		v.screen.SetContent(dx, dy, r, nil, base.Background(v.glowBg(p, dx, dy)).Foreground(color))
	}

	if h >= 2 {
		status := []rune(" cursorglow · " + v.mode.String() + " · t theme · wheel scroll · q quit")
		st := base.Reverse(true)
		for x := 0; x < w; x++ {
			r := ' '
			if x < len(status) {
				r = status[x]
			}
			v.screen.SetContent(x, h-1, r, nil, st)
		}
	}
	v.screen.Show()
}
