package scatter

import "math"

const (
	// MinExtent is the floor applied to the container width and height.
	MinExtent = 320.0

	// DefaultPadding is the inward padding from the container edges.
	DefaultPadding = 20.0

	// DefaultItemSize is the width used when an item cannot be measured.
	DefaultItemSize = 120.0

	// MinItemSize is the smallest width an item is measured at.
	MinItemSize = 60.0

	// DefaultHeaderGap separates the header from the top of the gallery.
	DefaultHeaderGap = 16.0

	// minSpan is the smallest sampling extent along either axis.
	minSpan = 10.0

	// fallbackViewport is used when the viewport height is unknown.
	fallbackViewport = 800.0
)

// Domain is the container an item set is laid out in.
type Domain struct {
	W, H       float64 // container size, floored at MinExtent
	Padding    float64 // inward padding P
	HalfExtent float64 // largest max(w,h)/2 over all items
}

// NewDomain builds a domain for the given container size and item sizes.
// Width and height below MinExtent or not finite (negative, zero, NaN,
// ±Inf) are floored to MinExtent. A negative or non-finite padding is
// treated as zero. Non-finite item extents count as DefaultItemSize.
func NewDomain(width, height, padding float64, sizes []Size) Domain {
	d := Domain{
		W:       floorExtent(width),
		H:       floorExtent(height),
		Padding: padding,
	}
	if !finite(d.Padding) || d.Padding < 0 {
		d.Padding = 0
	}
	for _, s := range sizes {
		d.HalfExtent = max(d.HalfExtent, max(itemExtent(s.W), itemExtent(s.H))/2)
	}
	return d
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// itemExtent replaces an unusable item width or height with DefaultItemSize.
func itemExtent(v float64) float64 {
	if !finite(v) {
		return DefaultItemSize
	}
	return v
}

// Bounds returns the rectangle centers may occupy: the container shrunk by
// padding plus the largest half extent on every side. When items are too
// large for the container the span collapses to a minSpan-wide strip
// starting at the minimum, so MaxX >= MinX and MaxY >= MinY always hold.
func (d Domain) Bounds() Bounds {
	inset := d.Padding + d.HalfExtent
	b := Bounds{
		MinX: inset,
		MinY: inset,
		MaxX: d.W - inset,
		MaxY: d.H - inset,
	}
	if b.MaxX-b.MinX < minSpan {
		b.MaxX = b.MinX + minSpan
	}
	if b.MaxY-b.MinY < minSpan {
		b.MaxY = b.MinY + minSpan
	}
	return b
}

func floorExtent(v float64) float64 {
	if !finite(v) || v < MinExtent {
		return MinExtent
	}
	return v
}

// ViewportHeight computes the height budget for the gallery: the viewport
// height minus the header's bottom edge minus a gap, floored at MinExtent.
// A header taller than the viewport therefore still yields MinExtent.
// A non-positive viewport height falls back to 800.
func ViewportHeight(viewportH, headerBottom, gap float64) float64 {
	if math.IsNaN(viewportH) || viewportH <= 0 {
		viewportH = fallbackViewport
	}
	if math.IsNaN(headerBottom) {
		headerBottom = 0
	}
	return floorExtent(viewportH - headerBottom - gap)
}

// MeasureSize converts a rendered width into an item size. Unknown widths
// (zero, negative, NaN) default to DefaultItemSize; known widths are
// floored at MinItemSize. Heights are treated as equal to widths, since
// images are measured before they load.
func MeasureSize(width float64) Size {
	if math.IsNaN(width) || math.IsInf(width, 0) || width <= 0 {
		width = DefaultItemSize
	}
	w := max(MinItemSize, width)
	return Size{W: w, H: w}
}
