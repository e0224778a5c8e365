package handoff

import (
	"encoding/json"
	"math"
)

// Value is the single-use record passed between pages. Coordinates are
// viewport pixels of the arrow's box. Fields missing from a decoded record
// are NaN and fall back to the arriving page's own arrow.
type Value struct {
	X, Y, W, H float64
	Rot        float64 // initial rotation in degrees
	Char       string  // glyph shown while flying
}

// wireValue is the JSON form; absent fields decode to nil.
type wireValue struct {
	X    *float64 `json:"x,omitempty"`
	Y    *float64 `json:"y,omitempty"`
	W    *float64 `json:"w,omitempty"`
	H    *float64 `json:"h,omitempty"`
	Rot  *float64 `json:"rot,omitempty"`
	Char string   `json:"char,omitempty"`
}

func ptr(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

func val(p *float64) float64 {
	if p == nil {
		return math.NaN()
	}
	return *p
}

// MarshalJSON writes the value as {x, y, w, h, char}; NaN fields are
// omitted and a zero rotation is dropped.
func (v Value) MarshalJSON() ([]byte, error) {
	w := wireValue{X: ptr(v.X), Y: ptr(v.Y), W: ptr(v.W), H: ptr(v.H), Char: v.Char}
	if v.Rot != 0 {
		w.Rot = ptr(v.Rot)
	}
	return json.Marshal(w)
}

// UnmarshalJSON reads a value, marking absent coordinates as NaN. A
// missing rotation is zero.
func (v *Value) UnmarshalJSON(data []byte) error {
	var w wireValue
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*v = Value{X: val(w.X), Y: val(w.Y), W: val(w.W), H: val(w.H), Char: w.Char}
	if w.Rot != nil {
		v.Rot = *w.Rot
	}
	return nil
}

// Box returns the stored box, taking each missing field from fallback.
func (v Value) Box(fallback Rect) Rect {
	pick := func(a, b float64) float64 {
		if math.IsNaN(a) {
			return b
		}
		return a
	}
	return Rect{
		X: pick(v.X, fallback.X),
		Y: pick(v.Y, fallback.Y),
		W: pick(v.W, fallback.W),
		H: pick(v.H, fallback.H),
	}
}
