// Package scroll computes the reading progress indicator.
package scroll

// Progress returns how far through a document the viewport is, as a
// percentage in [0, 100]. A document that fits the viewport reports 0.
func Progress(scrollY, scrollHeight, clientHeight float64) float64 {
	total := scrollHeight - clientHeight
	if total <= 0 {
		return 0
	}
	p := scrollY / total * 100
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}

// Bar returns how many of width cells a progress bar fills.
func Bar(percent float64, width int) int {
	if width <= 0 || percent <= 0 {
		return 0
	}
	if percent >= 100 {
		return width
	}
	return int(percent / 100 * float64(width))
}
