package board

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/scatterbox/pkg/gallery"
	"github.com/matzehuels/scatterbox/pkg/scatter"
)

// Board is a laid-out gallery.
type Board struct {
	ID          string    `json:"id" bson:"_id"`
	Source      string    `json:"source,omitempty" bson:"source,omitempty"`
	GalleryHash string    `json:"gallery_hash,omitempty" bson:"gallery_hash,omitempty"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`

	// Container size. Height is the height the wall reserves.
	Width   float64 `json:"width" bson:"width"`
	Height  float64 `json:"height" bson:"height"`
	Padding float64 `json:"padding" bson:"padding"`

	// Ready is set once every tile has a position.
	Ready bool `json:"ready" bson:"ready"`

	Seed        uint64  `json:"seed,omitempty" bson:"seed,omitempty"`
	Radius      float64 `json:"radius,omitempty" bson:"radius,omitempty"`
	SampleCount int     `json:"sample_count,omitempty" bson:"sample_count,omitempty"`
	Bounds      Bounds  `json:"bounds" bson:"bounds"`

	Tiles []Tile `json:"tiles" bson:"tiles"`

	// Diagnostics
	Samples []Point `json:"samples,omitempty" bson:"samples,omitempty"`
	Centers []Point `json:"centers,omitempty" bson:"centers,omitempty"`
}

// Tile is one placed project.
type Tile struct {
	Index int     `json:"index" bson:"index"`
	X     float64 `json:"x" bson:"x"`
	Y     float64 `json:"y" bson:"y"`
	W     float64 `json:"w" bson:"w"`
	H     float64 `json:"h" bson:"h"`

	Title       string   `json:"title" bson:"title"`
	Alt         string   `json:"alt" bson:"alt"`
	Image       string   `json:"image,omitempty" bson:"image,omitempty"`
	Link        string   `json:"link,omitempty" bson:"link,omitempty"`
	LinkLabel   string   `json:"link_label" bson:"link_label"`
	Description string   `json:"description,omitempty" bson:"description,omitempty"`
	Why         string   `json:"why,omitempty" bson:"why,omitempty"`
	Anim        string   `json:"anim,omitempty" bson:"anim,omitempty"`
	Skills      []string `json:"skills,omitempty" bson:"skills,omitempty"`
}

// Center returns the center of the tile's box.
func (t Tile) Center() Point { return Point{X: t.X + t.W/2, Y: t.Y + t.H/2} }

// Point mirrors scatter.Point with serialization tags.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Bounds mirrors scatter.Bounds with serialization tags.
type Bounds struct {
	MinX float64 `json:"min_x" bson:"min_x"`
	MaxX float64 `json:"max_x" bson:"max_x"`
	MinY float64 `json:"min_y" bson:"min_y"`
	MaxY float64 `json:"max_y" bson:"max_y"`
}

// Meta carries the fields New cannot derive from the layout pass.
type Meta struct {
	ID          string // default: a fresh UUID
	Seed        uint64
	Width       float64 // container size recorded for an empty pass
	Height      float64
	Diagnostics bool // keep samples and centers
	Now         func() time.Time
}

// NewID returns a fresh board ID.
func NewID() string { return uuid.NewString() }

// New builds a board from a gallery and the items it was laid out with.
// items[i] must correspond to g.Projects[i]. g may be nil, in which case
// tiles carry only geometry and generated alt text.
func New(g *gallery.Gallery, items []scatter.Item, res scatter.Result, meta Meta) *Board {
	now := time.Now
	if meta.Now != nil {
		now = meta.Now
	}
	id := meta.ID
	if id == "" {
		id = NewID()
	}

	d := res.Domain
	if res.Empty() {
		// Layout wrote nothing; record the container the wall would use.
		d = scatter.NewDomain(meta.Width, meta.Height, scatter.DefaultPadding, nil)
	}

	b := &Board{
		ID:          id,
		CreatedAt:   now().UTC(),
		Width:       d.W,
		Height:      d.H,
		Padding:     d.Padding,
		Seed:        meta.Seed,
		Radius:      res.Radius,
		SampleCount: len(res.Samples),
		Bounds:      fromBounds(res.Bounds),
		Tiles:       make([]Tile, len(items)),
		Ready:       true,
	}
	if g != nil {
		b.Source = g.Source
		b.GalleryHash = g.Hash
	}

	for i, it := range items {
		t := Tile{
			Index: i,
			X:     it.Pos.Left,
			Y:     it.Pos.Top,
			W:     it.Size.W,
			H:     it.Size.H,
		}
		var p gallery.Project
		if g != nil && i < g.Len() {
			p = g.Projects[i]
		}
		t.Title = p.DisplayTitle()
		t.Alt = p.Alt(i)
		t.Image = p.Image
		t.Link = p.Link
		t.LinkLabel = p.LinkLabel()
		t.Description = p.Description
		t.Why = p.Why
		t.Anim = p.Anim
		t.Skills = p.Skills
		b.Tiles[i] = t
		if !it.Placed {
			b.Ready = false
		}
	}

	if meta.Diagnostics {
		b.Samples = fromPoints(res.Samples)
		b.Centers = fromPoints(res.Centers)
	}
	return b
}

func fromBounds(b scatter.Bounds) Bounds {
	return Bounds{MinX: b.MinX, MaxX: b.MaxX, MinY: b.MinY, MaxY: b.MaxY}
}

func fromPoints(ps []scatter.Point) []Point {
	if len(ps) == 0 {
		return nil
	}
	out := make([]Point, len(ps))
	for i, p := range ps {
		out[i] = Point{X: p.X, Y: p.Y}
	}
	return out
}

// Items rebuilds the engine items from the tiles, for renderers that take
// scatter items.
func (b *Board) Items() []scatter.Item {
	items := make([]scatter.Item, len(b.Tiles))
	for i, t := range b.Tiles {
		items[i] = scatter.Item{
			Size:   scatter.Size{W: t.W, H: t.H},
			Pos:    scatter.Pos{Left: t.X, Top: t.Y},
			Placed: b.Ready,
		}
	}
	return items
}

// Outside returns the indexes of tiles that leave the padded container.
// Tiles larger than the container are reported too.
func (b *Board) Outside() []int {
	var out []int
	const tol = 1e-6
	for i, t := range b.Tiles {
		if t.X < b.Padding-tol || t.Y < b.Padding-tol ||
			t.X+t.W > b.Width-b.Padding+tol || t.Y+t.H > b.Height-b.Padding+tol {
			out = append(out, i)
		}
	}
	return out
}

// MinSpacing returns the smallest distance between two tile centers, or
// +Inf for fewer than two tiles.
func (b *Board) MinSpacing() float64 {
	best := math.Inf(1)
	for i := range b.Tiles {
		ci := b.Tiles[i].Center()
		for j := i + 1; j < len(b.Tiles); j++ {
			cj := b.Tiles[j].Center()
			best = min(best, math.Hypot(ci.X-cj.X, ci.Y-cj.Y))
		}
	}
	return best
}

// Marshal serializes a board to indented JSON.
func Marshal(b *Board) ([]byte, error) {
	return json.MarshalIndent(b, "", "  ")
}

// Unmarshal decodes a board and checks that it is usable.
func Unmarshal(data []byte) (*Board, error) {
	var b Board
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("unmarshal board: %w", err)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

// Validate checks the fields every consumer relies on.
func (b *Board) Validate() error {
	if b.ID == "" {
		return fmt.Errorf("board has no id")
	}
	if _, err := uuid.Parse(b.ID); err != nil {
		return fmt.Errorf("board id %q: %w", b.ID, err)
	}
	if b.Width < scatter.MinExtent || b.Height < scatter.MinExtent {
		return fmt.Errorf("board size %.0fx%.0f below minimum %.0f", b.Width, b.Height, scatter.MinExtent)
	}
	for i, t := range b.Tiles {
		if t.Index != i {
			return fmt.Errorf("tile %d has index %d", i, t.Index)
		}
		if t.W <= 0 || t.H <= 0 {
			return fmt.Errorf("tile %d has empty size", i)
		}
	}
	return nil
}

// WriteFile writes a board to a JSON file.
func WriteFile(b *Board, path string) error {
	data, err := Marshal(b)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadFile reads a board from a JSON file.
func ReadFile(path string) (*Board, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Unmarshal(data)
}
