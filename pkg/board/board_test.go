package board

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/matzehuels/scatterbox/pkg/gallery"
	"github.com/matzehuels/scatterbox/pkg/scatter"
)

var fixedNow = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

func testBoard(t *testing.T, diagnostics bool) (*gallery.Gallery, *Board) {
	t.Helper()
	g, err := gallery.Load(context.Background(), "../gallery/testdata/projects.json", nil)
	if err != nil {
		t.Fatalf("load gallery: %v", err)
	}
	items := gallery.Items(context.Background(), g, gallery.FixedWidth(100))
	res := scatter.Layout(items, 600, 400, &scatter.Options{Rand: scatter.NewRand(3)})
	return g, New(g, items, res, Meta{Seed: 3, Diagnostics: diagnostics, Now: fixedNow})
}

func TestNew(t *testing.T) {
	g, b := testBoard(t, false)

	if err := b.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	if !b.Ready {
		t.Error("Ready = false, want true after a full pass")
	}
	if b.Width != 600 || b.Height != 400 || b.Padding != scatter.DefaultPadding {
		t.Errorf("container = %vx%v pad %v", b.Width, b.Height, b.Padding)
	}
	if b.GalleryHash != g.Hash || b.Source != g.Source {
		t.Errorf("gallery fields = %q %q", b.Source, b.GalleryHash)
	}
	if len(b.Tiles) != 3 {
		t.Fatalf("got %d tiles, want 3", len(b.Tiles))
	}
	if got := b.Outside(); len(got) != 0 {
		t.Errorf("tiles outside the container: %v", got)
	}
	if b.Samples != nil || b.Centers != nil {
		t.Error("diagnostics recorded without Meta.Diagnostics")
	}

	tests := []struct {
		idx       int
		title     string
		linkLabel string
		alt       string
	}{
		{0, "Kite", "Open project", "Project drawing — Kite"},
		{1, "Teapot", "Coming soon", "Project drawing — Teapot"},
		{2, "Untitled project", "Coming soon", "Project drawing 3"},
	}
	for _, tt := range tests {
		tile := b.Tiles[tt.idx]
		if tile.Title != tt.title || tile.LinkLabel != tt.linkLabel || tile.Alt != tt.alt {
			t.Errorf("tile %d = %q/%q/%q, want %q/%q/%q", tt.idx,
				tile.Title, tile.LinkLabel, tile.Alt, tt.title, tt.linkLabel, tt.alt)
		}
	}
}

func TestNewDiagnostics(t *testing.T) {
	_, b := testBoard(t, true)
	if len(b.Centers) != 3 {
		t.Errorf("got %d centers, want 3", len(b.Centers))
	}
	if len(b.Samples) < 3 {
		t.Errorf("got %d samples, want a cloud", len(b.Samples))
	}
}

func TestNewEmpty(t *testing.T) {
	b := New(nil, nil, scatter.Result{}, Meta{Width: 800, Height: 100, Now: fixedNow})
	if len(b.Tiles) != 0 || !b.Ready {
		t.Errorf("empty board = %+v", b)
	}
	if b.Width != 800 || b.Height != scatter.MinExtent {
		t.Errorf("container = %vx%v, want 800x320", b.Width, b.Height)
	}
}

func TestNewUnplacedIsNotReady(t *testing.T) {
	items := []scatter.Item{{Size: scatter.Size{W: 80, H: 80}}}
	b := New(nil, items, scatter.Result{}, Meta{Now: fixedNow})
	if b.Ready {
		t.Error("Ready = true with an unplaced item")
	}
	if b.Tiles[0].Alt != "Project drawing 1" {
		t.Errorf("Alt = %q", b.Tiles[0].Alt)
	}
}

func TestFileRoundTrip(t *testing.T) {
	_, b := testBoard(t, true)
	path := filepath.Join(t.TempDir(), "board.json")

	if err := WriteFile(b, path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got.ID != b.ID || len(got.Tiles) != len(b.Tiles) || !got.CreatedAt.Equal(b.CreatedAt) {
		t.Errorf("round trip = %+v", got)
	}
	for i := range b.Tiles {
		if got.Tiles[i].X != b.Tiles[i].X || got.Tiles[i].Y != b.Tiles[i].Y {
			t.Errorf("tile %d moved: %+v vs %+v", i, got.Tiles[i], b.Tiles[i])
		}
	}
}

func TestBSONUsesIDField(t *testing.T) {
	_, b := testBoard(t, false)
	data, err := bson.Marshal(b)
	if err != nil {
		t.Fatalf("bson.Marshal: %v", err)
	}
	raw := bson.Raw(data)
	if id := raw.Lookup("_id").StringValue(); id != b.ID {
		t.Errorf("_id = %q, want %q", id, b.ID)
	}

	var got Board
	if err := bson.Unmarshal(data, &got); err != nil {
		t.Fatalf("bson.Unmarshal: %v", err)
	}
	if len(got.Tiles) != 3 || got.Tiles[0].Title != "Kite" {
		t.Errorf("decoded tiles = %+v", got.Tiles)
	}
}

func TestUnmarshalValidation(t *testing.T) {
	tests := []struct {
		name string
		json string
		want string
	}{
		{"malformed", `{`, "unmarshal board"},
		{"no id", `{"width": 400, "height": 400}`, "no id"},
		{"bad id", `{"id": "x", "width": 400, "height": 400}`, "board id"},
		{"too small", `{"id": "6f1c0a4e-5d5b-4f57-9e55-0d1b43c6b0c1", "width": 10, "height": 400}`, "below minimum"},
		{"bad index", `{"id": "6f1c0a4e-5d5b-4f57-9e55-0d1b43c6b0c1", "width": 400, "height": 400,
			"tiles": [{"index": 4, "w": 10, "h": 10}]}`, "has index"},
		{"empty tile", `{"id": "6f1c0a4e-5d5b-4f57-9e55-0d1b43c6b0c1", "width": 400, "height": 400,
			"tiles": [{"index": 0}]}`, "empty size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal([]byte(tt.json))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Unmarshal error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestItemsAndSpacing(t *testing.T) {
	b := &Board{
		Width: 400, Height: 400, Padding: 20, Ready: true,
		Tiles: []Tile{
			{Index: 0, X: 20, Y: 20, W: 60, H: 60},
			{Index: 1, X: 20, Y: 100, W: 60, H: 60},
			{Index: 2, X: 360, Y: 20, W: 60, H: 60},
		},
	}
	items := b.Items()
	if len(items) != 3 || items[1].Pos.Top != 100 || !items[1].Placed {
		t.Errorf("Items() = %+v", items)
	}
	if got := b.MinSpacing(); got != 80 {
		t.Errorf("MinSpacing() = %v, want 80", got)
	}
	if got := b.Outside(); len(got) != 1 || got[0] != 2 {
		t.Errorf("Outside() = %v, want [2]", got)
	}
}
