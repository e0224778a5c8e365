package handoff

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// FlightTimeout is how long a page waits for a flight to report
// completion before navigating anyway.
const FlightTimeout = 700 * time.Millisecond

// Defaults for the page's CSS custom properties.
const (
	DefaultCornerPad   = 16.0
	DefaultHomeCenterY = "4vh"

	// fallbackCenterRatio places the home target when --home-center-y
	// is neither a vh nor a px length.
	fallbackCenterRatio = 0.125
)

// Glyphs shown by the flying arrow.
const (
	CharBack    = "<"
	CharForward = ">"
)

// Rect is a box in viewport pixels.
type Rect struct {
	X, Y, W, H float64
}

// Viewport is the size of the browser window in pixels.
type Viewport struct {
	W, H float64
}

// Direction is the way the visitor is navigating.
type Direction int

const (
	// ToPortfolio leaves the home page for the portfolio.
	ToPortfolio Direction = iota
	// ToHome leaves the portfolio for the home page.
	ToHome
)

func (d Direction) String() string {
	if d == ToHome {
		return "home"
	}
	return "portfolio"
}

// ParseDirection accepts "portfolio" and "home".
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "portfolio":
		return ToPortfolio, true
	case "home":
		return ToHome, true
	}
	return 0, false
}

// Style holds the raw CSS custom property values that shape a flight:
// --corner-pad and --home-center-y. Empty strings use the defaults.
type Style struct {
	CornerPad   string
	HomeCenterY string
}

// Flight animates an arrow between two boxes with a rotation.
type Flight struct {
	From, To       Rect
	FromRot, ToRot float64
	Char           string
}

// Exit computes the leaving page's flight and the value to hand off.
//
// Home to portfolio: the arrow flies to the corner (pad, pad) turning 180°,
// and the next page starts it there as "<".
//
// Portfolio to home: the arrow heads for the horizontal center at the
// home center height; the stored box is clamped to at least pad on both
// axes and shown as ">".
func Exit(dir Direction, arrow Rect, vp Viewport, st Style) (Flight, Value) {
	pad := ParsePad(st.CornerPad)

	if dir == ToPortfolio {
		to := Rect{X: pad, Y: pad, W: arrow.W, H: arrow.H}
		return Flight{From: arrow, To: to, FromRot: 0, ToRot: 180, Char: CharBack},
			Value{X: pad, Y: pad, W: arrow.W, H: arrow.H, Char: CharBack}
	}

	centerY := ParseLength(st.HomeCenterY, vp.H)
	left := vp.W*0.5 - arrow.W/2
	top := centerY - arrow.H/2
	v := Value{
		X:    max(pad, left),
		Y:    max(pad, top),
		W:    arrow.W,
		H:    arrow.H,
		Char: CharForward,
	}
	return Flight{From: arrow, To: Rect{X: v.X, Y: v.Y, W: arrow.W, H: arrow.H}, Char: CharForward}, v
}

// Entrance builds the arriving page's flight from a handed-off value into
// the page's own arrow. Missing fields fall back to the target box; a
// missing glyph falls back to the direction's default.
func Entrance(v Value, target Rect, dir Direction) Flight {
	char := v.Char
	if char == "" {
		char = CharForward
		if dir == ToPortfolio {
			char = CharBack
		}
	}
	return Flight{
		From:    v.Box(target),
		To:      target,
		FromRot: v.Rot,
		ToRot:   0,
		Char:    char,
	}
}

// ParsePad reads --corner-pad the way parseFloat does: the leading number
// of the string. Empty or unparsable values yield DefaultCornerPad.
func ParsePad(s string) float64 {
	if v, ok := leadingFloat(s); ok {
		return v
	}
	return DefaultCornerPad
}

// ParseLength resolves --home-center-y against the viewport height.
// "Nvh" is N% of the height, "Npx" is N pixels; anything else falls back
// to 12.5% of the height. An empty value means DefaultHomeCenterY.
func ParseLength(s string, viewportH float64) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		s = DefaultHomeCenterY
	}
	switch {
	case strings.HasSuffix(s, "vh"):
		if v, ok := leadingFloat(s); ok {
			return v / 100 * viewportH
		}
	case strings.HasSuffix(s, "px"):
		if v, ok := leadingFloat(s); ok {
			return v
		}
	}
	return fallbackCenterRatio * viewportH
}

// leadingFloat parses the longest numeric prefix of s.
func leadingFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && strings.IndexByte("+-.0123456789eE", s[end]) >= 0 {
		end++
	}
	for ; end > 0; end-- {
		if v, err := strconv.ParseFloat(s[:end], 64); err == nil && !math.IsInf(v, 0) {
			return v, true
		}
	}
	return 0, false
}
