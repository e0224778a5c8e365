package scatter

// Place writes a top-left position onto every item.
//
// Item i is centered on centers[i % len(centers)], so fewer centers than
// items are reused cyclically. The corner is then clamped into the padded
// container:
//
//	left = clamp(cx - w/2, P, W-P-w)
//	top  = clamp(cy - h/2, P, H-P-h)
//
// With no centers at all, items are centered on the container before
// clamping, so no item is ever left without a position. A non-finite item
// width or height is placed as DefaultItemSize.
func Place(items []Item, centers []Point, d Domain) {
	fallback := Point{X: d.W / 2, Y: d.H / 2}
	for i := range items {
		c := fallback
		if len(centers) > 0 {
			c = centers[i%len(centers)]
		}
		it := &items[i]
		w, h := itemExtent(it.Size.W), itemExtent(it.Size.H)
		it.Pos = Pos{
			Left: clamp(c.X-w/2, d.Padding, d.W-d.Padding-w),
			Top:  clamp(c.Y-h/2, d.Padding, d.H-d.Padding-h),
		}
		it.Placed = true
	}
}
