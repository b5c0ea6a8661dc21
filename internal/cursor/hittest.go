package cursor

import "strings"

// Class names shared with the view layer.
const (
	HoverTargetClass = "hover-cursor-target"
	TextAnimClass    = "text-anim"
	HotClass         = "hot"
	HotTextClass     = "hot-text"
	HideNativeClass  = "hide-native-cursor"
)

var hotTags = []string{"a", "h2", "h3", "h4", "h5", "h6", "p", "mark", "li", "button"}

// Node is the part of a view element the hit test needs.
// Parent returns nil at the root. Nodes are compared with ==, so
// implementations should be pointer types.
type Node interface {
	Tag() string
	HasClass(name string) bool
	Parent() Node
}

// HotTags returns the element tags that qualify as hot targets.
func HotTags() []string {
	out := make([]string, len(hotTags))
	copy(out, hotTags)
	return out
}

// Selector renders the hot target set as a CSS selector list.
func Selector() string {
	parts := append(HotTags(), "."+HoverTargetClass)
	return strings.Join(parts, ", ")
}

// Qualifies reports whether n itself is an interactive or text element, or
// carries the hover target marker.
func Qualifies(n Node) bool {
	if n == nil {
		return false
	}
	tag := strings.ToLower(n.Tag())
	for _, t := range hotTags {
		if tag == t {
			return true
		}
	}
	return n.HasClass(HoverTargetClass)
}

// Closest returns the hot target for a pointer entering n: n itself when it
// is an animated text node, otherwise the nearest qualifying node among n and
// its ancestors. It returns nil when nothing qualifies.
func Closest(n Node) Node {
	if n == nil {
		return nil
	}
	if n.HasClass(TextAnimClass) {
		return n
	}
	for cur := n; cur != nil; cur = cur.Parent() {
		if Qualifies(cur) {
			return cur
		}
	}
	return nil
}
