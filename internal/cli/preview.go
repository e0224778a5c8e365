package cli

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/matzehuels/scatterbox/pkg/board"
	"github.com/matzehuels/scatterbox/pkg/guard"
	"github.com/matzehuels/scatterbox/pkg/pipeline"
	"github.com/matzehuels/scatterbox/pkg/trigger"
)

// Terminal cells stand in for pixels at this ratio.
const (
	cellW = 8.0
	cellH = 16.0

	previewChrome = 3 // footer lines below the wall
	previewFrame  = time.Second / 60
	previewGlide  = 0.45 // seconds a drawing takes to reach its new spot

	// Selection ignores keys while drawings are still gliding after a
	// reshuffle.
	previewSettle = time.Duration(previewGlide * float64(time.Second))
)

var (
	previewWallStyle   = lipgloss.NewStyle().Foreground(colorGray)
	previewFooterStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// previewCommand creates the interactive preview.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		noCache bool
		flagged pipeline.Options
	)

	cmd := &cobra.Command{
		Use:   "preview [gallery.json|gallery.yaml|URL]",
		Short: "Preview the doodle wall in the terminal",
		Long: `Preview the doodle wall in the terminal.

The wall is laid out for the terminal size and laid out again, debounced,
whenever the window is resized; drawings glide to their new places.

Keys: r reshuffle, tab/shift+tab select a drawing, q quit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.options(cmd, &flagged, layoutFlags)
			opts.Gallery = args[0]
			return c.runPreview(cmd.Context(), opts, noCache)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	addLayoutFlags(cmd, &flagged)

	return cmd
}

func (c *CLI) runPreview(ctx context.Context, opts pipeline.Options, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	g, err := runner.Load(ctx, opts)
	if err != nil {
		return err
	}
	b, _, err := runner.LayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		return err
	}

	m := newPreviewModel(b, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	m.send = p.Send
	defer m.debounce.Stop()

	_, err = p.Run()
	return err
}

// =============================================================================
// Model
// =============================================================================

type relayoutMsg struct{}

type frameMsg time.Time

// glide moves one drawing between two positions.
type glide struct {
	x, y *gween.Tween
}

// previewModel shows a board on a character grid. Resizes are coalesced by
// a debouncer; each layout animates from the previous positions. Selection
// keys pass through a guard until the first layout and during a reshuffle.
type previewModel struct {
	board *board.Board
	opts  pipeline.Options

	pos    []board.Point // drawn top-left of each tile, in pixels
	glides []glide
	last   time.Time

	cols, rows int
	selected   int
	err        error

	debounce *trigger.Debouncer
	guard    *guard.Guard
	send     func(tea.Msg)
}

func newPreviewModel(b *board.Board, opts pipeline.Options) *previewModel {
	m := &previewModel{
		board:    b,
		opts:     opts,
		pos:      tilePositions(b),
		selected: -1,
		guard:    guard.New(time.Now(), nil),
		send:     func(tea.Msg) {},
	}
	// The timer goroutine posts into the program; Update does the work.
	m.debounce = trigger.NewDebouncer(func() { m.send(relayoutMsg{}) }, nil)
	return m
}

func tilePositions(b *board.Board) []board.Point {
	pos := make([]board.Point, len(b.Tiles))
	for i, t := range b.Tiles {
		pos[i] = board.Point{X: t.X, Y: t.Y}
	}
	return pos
}

func (m *previewModel) Init() tea.Cmd { return nil }

func (m *previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.debounce.Stop()
			return m, tea.Quit
		case "r":
			m.opts.Seed = 0
			cmd := m.relayout()
			m.guard.Suppress(time.Now(), previewSettle)
			return m, cmd
		case "tab":
			if m.guard.Allow(time.Now()) {
				m.selected = m.step(1)
			}
		case "shift+tab":
			if m.guard.Allow(time.Now()) {
				m.selected = m.step(-1)
			}
		}

	case tea.WindowSizeMsg:
		first := m.cols == 0
		m.cols, m.rows = msg.Width, msg.Height
		if first {
			return m, m.relayout()
		}
		m.debounce.Trigger()

	case relayoutMsg:
		return m, m.relayout()

	case frameMsg:
		return m, m.advance(time.Time(msg))
	}
	return m, nil
}

func (m *previewModel) step(d int) int {
	n := len(m.board.Tiles)
	if n == 0 {
		return -1
	}
	return ((m.selected+d)%n + n) % n
}

// layoutOptions sizes the container to the terminal.
func (m *previewModel) layoutOptions() pipeline.Options {
	opts := m.opts
	opts.Width = float64(m.cols) * cellW
	opts.ViewportHeight = float64(max(m.rows-previewChrome, 1)) * cellH
	opts.Height = 0
	opts.HeaderBottom = 0
	opts.SetLayoutDefaults()
	return opts
}

// relayout scatters the board for the current size and starts the glide.
func (m *previewModel) relayout() tea.Cmd {
	if m.cols == 0 || m.rows == 0 {
		return nil
	}
	opts := m.layoutOptions()
	if err := opts.ValidateForLayout(); err != nil {
		m.err = err
		return nil
	}
	m.err = nil

	next := pipeline.Relayout(m.board, opts)
	pos := make([]board.Point, len(next.Tiles))
	m.glides = make([]glide, len(next.Tiles))
	for i, t := range next.Tiles {
		pos[i] = board.Point{X: t.X, Y: t.Y}
		if i < len(m.pos) {
			pos[i] = m.pos[i]
		}
		m.glides[i] = glide{
			x: gween.New(float32(pos[i].X), float32(t.X), previewGlide, ease.OutCubic),
			y: gween.New(float32(pos[i].Y), float32(t.Y), previewGlide, ease.OutCubic),
		}
	}
	m.board = next
	m.pos = pos
	m.last = time.Time{}
	m.guard.MarkReady(time.Now())
	return frame()
}

func frame() tea.Cmd {
	return tea.Tick(previewFrame, func(t time.Time) tea.Msg { return frameMsg(t) })
}

// advance moves every glide forward to now and schedules the next frame
// while any is still moving.
func (m *previewModel) advance(now time.Time) tea.Cmd {
	if len(m.glides) == 0 {
		return nil
	}
	dt := float32(previewFrame.Seconds())
	if !m.last.IsZero() {
		dt = float32(now.Sub(m.last).Seconds())
	}
	m.last = now

	moving := false
	for i, g := range m.glides {
		x, doneX := g.x.Update(dt)
		y, doneY := g.y.Update(dt)
		m.pos[i] = board.Point{X: float64(x), Y: float64(y)}
		moving = moving || !doneX || !doneY
	}
	if !moving {
		m.glides = nil
		return nil
	}
	return frame()
}

// =============================================================================
// View
// =============================================================================

func (m *previewModel) View() string {
	if m.cols == 0 {
		return "laying out..."
	}
	var b strings.Builder
	b.WriteString(previewWallStyle.Render(drawWall(m.board, m.pos, m.cols, max(m.rows-previewChrome, 1), m.selected)))
	b.WriteString("\n")
	b.WriteString(m.footer())
	return b.String()
}

func (m *previewModel) footer() string {
	var line1 string
	switch {
	case m.err != nil:
		line1 = StyleWarning.Render(m.err.Error())
	case m.selected >= 0 && m.selected < len(m.board.Tiles):
		t := m.board.Tiles[m.selected]
		line1 = StyleTitle.Render(t.Title)
		if t.Link != "" {
			line1 += " " + StyleLink.Render(t.Link)
		}
	default:
		line1 = StyleTitle.Render(fmt.Sprintf("%d drawings", len(m.board.Tiles)))
	}
	stats := fmt.Sprintf("%.0fx%.0f · r=%.1f · seed %d", m.board.Width, m.board.Height, m.board.Radius, m.board.Seed)
	keys := "r reshuffle · tab select · q quit"
	return line1 + "\n" + previewFooterStyle.Render(stats) + "\n" + previewFooterStyle.Render(keys)
}

// drawWall draws each tile as a box on a cols x rows grid. pos overrides
// the tile positions; the selected tile gets a heavy border.
func drawWall(b *board.Board, pos []board.Point, cols, rows, selected int) string {
	grid := make([][]rune, rows)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", cols))
	}
	set := func(c, r int, ch rune) {
		if r >= 0 && r < rows && c >= 0 && c < cols {
			grid[r][c] = ch
		}
	}

	for i, t := range b.Tiles {
		x, y := t.X, t.Y
		if i < len(pos) {
			x, y = pos[i].X, pos[i].Y
		}
		c0 := int(math.Round(x / cellW))
		r0 := int(math.Round(y / cellH))
		c1 := c0 + max(int(math.Round(t.W/cellW)), 2) - 1
		r1 := r0 + max(int(math.Round(t.H/cellH)), 2) - 1

		h, v, tl, tr, bl, br := '─', '│', '╭', '╮', '╰', '╯'
		if i == selected {
			h, v, tl, tr, bl, br = '━', '┃', '┏', '┓', '┗', '┛'
		}
		for c := c0 + 1; c < c1; c++ {
			set(c, r0, h)
			set(c, r1, h)
		}
		for r := r0 + 1; r < r1; r++ {
			set(c0, r, v)
			set(c1, r, v)
		}
		set(c0, r0, tl)
		set(c1, r0, tr)
		set(c0, r1, bl)
		set(c1, r1, br)

		label := []rune(t.Title)
		if room := c1 - c0 - 1; len(label) > room {
			label = label[:max(room, 0)]
		}
		mid := (r0 + r1) / 2
		if mid > r0 && mid < r1 {
			for k, ch := range label {
				set(c0+1+k, mid, ch)
			}
		}
	}

	lines := make([]string, rows)
	for r, row := range grid {
		lines[r] = strings.TrimRight(string(row), " ")
	}
	return strings.Join(lines, "\n")
}
