package scrollspy

import "math"

const (
	// DefaultAnchorRatio places the anchor line at 45% of the viewport height.
	DefaultAnchorRatio = 0.45

	// DefaultSafeZone is the inward margin, in pixels, applied to both edges
	// of a section before testing it against the anchor line.
	DefaultSafeZone = 24.0
)

// Rect is the vertical extent of an element relative to the viewport top.
type Rect struct {
	Top    float64
	Bottom float64
}

// Contains reports whether y lies within r shrunk by margin on both edges.
func (r Rect) Contains(y, margin float64) bool {
	return r.Top+margin <= y && y <= r.Bottom-margin
}

// EdgeDistance returns the distance from y to the nearer edge of r.
func (r Rect) EdgeDistance(y float64) float64 {
	return math.Min(math.Abs(r.Top-y), math.Abs(r.Bottom-y))
}

// Section is a measured section.
type Section struct {
	Key  string
	Rect Rect
}

// Pick selects the active section for the given anchor line.
//
// The first section whose padded bounds contain anchor wins. Otherwise the
// section with the smallest edge distance wins; on equal distances the
// earlier section is kept. ok is false when sections is empty.
func Pick(sections []Section, anchor, safeZone float64) (key string, ok bool) {
	for _, s := range sections {
		if s.Rect.Contains(anchor, safeZone) {
			return s.Key, true
		}
	}

	best := math.Inf(1)
	for _, s := range sections {
		if d := s.Rect.EdgeDistance(anchor); d < best {
			best = d
			key = s.Key
			ok = true
		}
	}
	return key, ok
}
