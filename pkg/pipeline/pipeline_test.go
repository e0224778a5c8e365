package pipeline

import (
	"bytes"
	"context"
	"math"
	"slices"
	"testing"
	"time"

	"github.com/matzehuels/scatterbox/pkg/cache"
	"github.com/matzehuels/scatterbox/pkg/errors"
	"github.com/matzehuels/scatterbox/pkg/gallery"
)

const testGallery = "../gallery/testdata/projects.json"

func fixedNow() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

func TestValidateFormats(t *testing.T) {
	formats := []string{"svg", "PNG", ".html", "dot"}
	if err := ValidateFormats(formats); err != nil {
		t.Fatalf("ValidateFormats() error = %v", err)
	}
	want := []string{"svg", "png", "html", "diagram"}
	if !slices.Equal(formats, want) {
		t.Errorf("formats = %v, want %v", formats, want)
	}

	if err := ValidateFormats([]string{"svg", "gif"}); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("ValidateFormats(gif) error = %v, want INVALID_FORMAT", err)
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateStyle(t *testing.T) {
	tests := []struct {
		style   string
		wantErr bool
	}{
		{"simple", false},
		{"handdrawn", false},
		{"", false}, // simple
		{"crayon", true},
	}

	for _, tt := range tests {
		err := ValidateStyle(tt.style)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateStyle(%q) error = %v, wantErr %v", tt.style, err, tt.wantErr)
		}
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	opts := Options{Gallery: "projects.json"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}

	if opts.Width != DefaultWidth {
		t.Errorf("Width = %v, want %v", opts.Width, DefaultWidth)
	}
	if want := DefaultViewportHeight - 16; opts.Height != want {
		t.Errorf("Height = %v, want %v", opts.Height, want)
	}
	if !slices.Equal(opts.Formats, []string{"svg"}) {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.Style != DefaultStyle {
		t.Errorf("Style = %q, want %q", opts.Style, DefaultStyle)
	}
	if opts.Scale != DefaultScale {
		t.Errorf("Scale = %v, want %v", opts.Scale, DefaultScale)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}

	// Idempotent
	opts.Width = math.NaN()
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("second call should be a no-op, got %v", err)
	}
}

func TestHeightFromViewport(t *testing.T) {
	tests := []struct {
		name                  string
		viewport, header, gap float64
		height, want          float64
	}{
		{"header and default gap", 600, 200, 0, 0, 384},
		{"custom gap", 600, 200, 40, 0, 360},
		{"floored", 300, 100, 0, 0, 320},
		{"explicit height wins", 600, 200, 0, 500, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := Options{ViewportHeight: tt.viewport, HeaderBottom: tt.header, HeaderGap: tt.gap, Height: tt.height}
			opts.SetLayoutDefaults()
			if opts.Height != tt.want {
				t.Errorf("Height = %v, want %v", opts.Height, tt.want)
			}
		})
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"no gallery", Options{}, errors.ErrCodeInvalidInput},
		{"bad gallery format", Options{Gallery: "g", GalleryFormat: "toml"}, errors.ErrCodeInvalidFormat},
		{"nan width", Options{Gallery: "g", Width: math.NaN()}, errors.ErrCodeInvalidInput},
		{"huge height", Options{Gallery: "g", Height: 1e9}, errors.ErrCodeInvalidInput},
		{"shrink factor", Options{Gallery: "g", ShrinkFactor: 1.5}, errors.ErrCodeInvalidInput},
		{"bad format", Options{Gallery: "g", Formats: []string{"bmp"}}, errors.ErrCodeInvalidFormat},
		{"bad style", Options{Gallery: "g", Style: "crayon"}, errors.ErrCodeInvalidStyle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestMeasurer(t *testing.T) {
	fixed := (&Options{ItemWidth: 90}).Measurer()
	if _, ok := fixed.(gallery.FixedWidth); !ok {
		t.Errorf("Measurer() = %T, want FixedWidth", fixed)
	}
	measured := (&Options{MaxItemWidth: 140}).Measurer()
	if m, ok := measured.(gallery.ImageWidth); !ok || m.Max != 140 {
		t.Errorf("Measurer() = %#v, want ImageWidth{Max: 140}", measured)
	}
}

func TestCacheable(t *testing.T) {
	tests := []struct {
		opts Options
		want bool
	}{
		{Options{Seed: 3}, true},
		{Options{}, false},
		{Options{Seed: 3, Refresh: true}, false},
	}
	for _, tt := range tests {
		if got := tt.opts.Cacheable(); got != tt.want {
			t.Errorf("Cacheable(%+v) = %v, want %v", tt.opts, got, tt.want)
		}
	}
}

func TestKeyOptsTrackOptions(t *testing.T) {
	a := Options{Width: 800, Seed: 1, ItemWidth: 100}
	b := a
	b.ItemWidth = 120
	k := cache.NewDefaultKeyer()
	if k.LayoutKey("h", a.LayoutKeyOpts()) == k.LayoutKey("h", b.LayoutKeyOpts()) {
		t.Error("item width should change the layout key")
	}

	c := Options{Style: "simple"}
	d := c
	d.Labels = true
	if k.ArtifactKey("h", c.ArtifactKeyOpts("svg")) == k.ArtifactKey("h", d.ArtifactKeyOpts("svg")) {
		t.Error("labels should change the artifact key")
	}
}

func testOptions(formats ...string) Options {
	return Options{
		Gallery:   testGallery,
		ItemWidth: 100,
		Width:     700,
		Height:    500,
		Seed:      7,
		Formats:   formats,
		Style:     "simple",
		Now:       fixedNow,
	}
}

func TestExecute(t *testing.T) {
	ctx := context.Background()
	runner := NewRunner(cache.NewMemoryCache(), nil, nil)
	defer runner.Close()

	result, err := runner.Execute(ctx, testOptions("svg", "html", "json", "png"))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if result.Stats.ItemCount != 3 || len(result.Board.Tiles) != 3 {
		t.Fatalf("items = %d, tiles = %d, want 3", result.Stats.ItemCount, len(result.Board.Tiles))
	}
	if !result.Board.Ready {
		t.Error("board should be ready")
	}
	if out := result.Board.Outside(); len(out) != 0 {
		t.Errorf("tiles %v leave the container", out)
	}
	if result.Board.Seed != 7 {
		t.Errorf("board seed = %d, want 7", result.Board.Seed)
	}
	if result.CacheInfo.LayoutHit || result.CacheInfo.RenderHit {
		t.Errorf("first run should miss the cache: %+v", result.CacheInfo)
	}

	for _, f := range []string{"svg", "html", "json", "png"} {
		if len(result.Artifacts[f]) == 0 {
			t.Errorf("artifact %s is empty", f)
		}
	}
	if !bytes.HasPrefix(result.Artifacts["png"], []byte("\x89PNG")) {
		t.Error("png artifact lacks the PNG signature")
	}
	if !bytes.Contains(result.Artifacts["svg"], []byte("<svg")) {
		t.Error("svg artifact lacks an <svg> element")
	}

	again, err := runner.Execute(ctx, testOptions("svg", "html", "json", "png"))
	if err != nil {
		t.Fatalf("second Execute() error = %v", err)
	}
	if !again.CacheInfo.LayoutHit || !again.CacheInfo.RenderHit {
		t.Errorf("second run should hit the cache: %+v", again.CacheInfo)
	}
	if again.Board.ID != result.Board.ID {
		t.Errorf("cached board id = %s, want %s", again.Board.ID, result.Board.ID)
	}
}

func TestExecuteUnseededSkipsLayoutCache(t *testing.T) {
	ctx := context.Background()
	runner := NewRunner(cache.NewMemoryCache(), nil, nil)

	opts := testOptions("json")
	opts.Seed = 0

	first, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	second, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if second.CacheInfo.LayoutHit {
		t.Error("unseeded layout should not come from cache")
	}
	if first.Board.Seed == 0 || first.Board.Seed == second.Board.Seed {
		t.Errorf("seeds = %d, %d; want distinct recorded seeds", first.Board.Seed, second.Board.Seed)
	}
}

func TestExecuteSeedIsDeterministic(t *testing.T) {
	ctx := context.Background()
	a, err := NewRunner(nil, nil, nil).Execute(ctx, testOptions("json"))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	b, err := NewRunner(nil, nil, nil).Execute(ctx, testOptions("json"))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	for i := range a.Board.Tiles {
		ta, tb := a.Board.Tiles[i], b.Board.Tiles[i]
		if ta.X != tb.X || ta.Y != tb.Y {
			t.Errorf("tile %d at (%v,%v) and (%v,%v) with the same seed", i, ta.X, ta.Y, tb.X, tb.Y)
		}
	}
}

func TestExecuteMissingGallery(t *testing.T) {
	opts := testOptions("svg")
	opts.Gallery = "testdata/nope.json"
	_, err := NewRunner(nil, nil, nil).Execute(context.Background(), opts)
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Execute() error = %v, want NOT_FOUND", err)
	}
}

func TestGenerateBoardEmpty(t *testing.T) {
	opts := testOptions()
	opts.SetLayoutDefaults()
	b, err := GenerateBoard(context.Background(), &gallery.Gallery{Source: "empty.json"}, opts)
	if err != nil {
		t.Fatalf("GenerateBoard() error = %v", err)
	}
	if len(b.Tiles) != 0 || !b.Ready {
		t.Errorf("tiles = %d, ready = %v; want an empty ready board", len(b.Tiles), b.Ready)
	}
	if b.Width != 700 || b.Height != 500 {
		t.Errorf("size = %vx%v, want 700x500", b.Width, b.Height)
	}
}

func TestGenerateBoardTooMany(t *testing.T) {
	g := &gallery.Gallery{Projects: make([]gallery.Project, errors.MaxItems+1)}
	_, err := GenerateBoard(context.Background(), g, testOptions())
	if !errors.Is(err, errors.ErrCodeInvalidGallery) {
		t.Errorf("GenerateBoard() error = %v, want INVALID_GALLERY", err)
	}
}

func TestRelayout(t *testing.T) {
	ctx := context.Background()
	runner := NewRunner(nil, nil, nil)
	opts := testOptions()
	g, err := runner.Load(ctx, opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	b, err := runner.Layout(ctx, g, opts)
	if err != nil {
		t.Fatalf("Layout() error = %v", err)
	}

	opts.Width, opts.Height, opts.Seed = 400, 900, 11
	nb := Relayout(b, opts)

	if nb.ID == b.ID {
		t.Error("relayout should issue a new board id")
	}
	if nb.Width != 400 || nb.Height != 900 {
		t.Errorf("size = %vx%v, want 400x900", nb.Width, nb.Height)
	}
	if nb.Source != b.Source || nb.GalleryHash != b.GalleryHash {
		t.Error("relayout should keep the gallery reference")
	}
	for i, tile := range nb.Tiles {
		if tile.Title != b.Tiles[i].Title || tile.W != b.Tiles[i].W {
			t.Errorf("tile %d = %+v, want project data of %+v", i, tile, b.Tiles[i])
		}
	}
	if out := nb.Outside(); len(out) != 0 {
		t.Errorf("tiles %v leave the resized container", out)
	}
}

func TestSaveLoadBoard(t *testing.T) {
	ctx := context.Background()
	runner := NewRunner(cache.NewMemoryCache(), nil, nil)

	opts := testOptions()
	opts.SetLayoutDefaults()
	g, err := runner.Load(ctx, opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	b, err := GenerateBoard(ctx, g, opts)
	if err != nil {
		t.Fatalf("GenerateBoard() error = %v", err)
	}

	if _, err := runner.LoadBoard(ctx, b.ID); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("LoadBoard() before save error = %v, want NOT_FOUND", err)
	}
	if err := runner.SaveBoard(ctx, b); err != nil {
		t.Fatalf("SaveBoard() error = %v", err)
	}
	got, err := runner.LoadBoard(ctx, b.ID)
	if err != nil {
		t.Fatalf("LoadBoard() error = %v", err)
	}
	if got.ID != b.ID || len(got.Tiles) != len(b.Tiles) {
		t.Errorf("LoadBoard() = %s with %d tiles, want %s with %d", got.ID, len(got.Tiles), b.ID, len(b.Tiles))
	}

	if _, err := runner.LoadBoard(ctx, "not-a-uuid"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("LoadBoard(bad id) error = %v, want INVALID_INPUT", err)
	}
}

func TestRenderDebugOverlay(t *testing.T) {
	ctx := context.Background()
	opts := testOptions("svg")
	opts.Diagnostics = true
	opts.ShowDebug = true
	opts.ShowGrid = true

	result, err := NewRunner(nil, nil, nil).Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(result.Board.Samples) == 0 {
		t.Fatal("diagnostics should keep the sample cloud")
	}
	plain := testOptions("svg")
	plainResult, err := NewRunner(nil, nil, nil).Execute(ctx, plain)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(result.Artifacts["svg"]) <= len(plainResult.Artifacts["svg"]) {
		t.Error("debug overlay should add markup")
	}
}
