package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/scatterbox/pkg/errors"
	"github.com/matzehuels/scatterbox/pkg/handoff"
)

// handoffCommand groups the navigation arrow calculators. They print what
// a page would animate, which helps tune --corner-pad and --home-center-y.
func (c *CLI) handoffCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "handoff",
		Short: "Compute navigation arrow flights",
	}

	cmd.AddCommand(c.handoffExitCommand())
	cmd.AddCommand(c.handoffEnterCommand())

	return cmd
}

func (c *CLI) handoffExitCommand() *cobra.Command {
	var (
		direction, arrow, viewport string
		style                      handoff.Style
		motion                     frameFlags
		asJSON                     bool
	)

	cmd := &cobra.Command{
		Use:   "exit",
		Short: "Flight and handoff value for a page being left",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := parseDirection(direction)
			if err != nil {
				return err
			}
			box, err := parseRect(arrow)
			if err != nil {
				return err
			}
			vp, err := parseFloats(viewport, 2)
			if err != nil {
				return err
			}

			flight, v := handoff.Exit(dir, box, handoff.Viewport{W: vp[0], H: vp[1]}, style)
			frames := motion.sample(flight)
			if asJSON {
				return printJSON(map[string]any{"flight": flight, "handoff": v, "frames": frames})
			}
			printFlight(flight)
			printKeyValue("handoff", mustJSON(v))
			printFrames(frames, motion.step())
			return nil
		},
	}

	cmd.Flags().StringVar(&direction, "direction", "portfolio", "portfolio or home")
	cmd.Flags().StringVar(&arrow, "arrow", "0,0,40,40", "arrow box x,y,w,h")
	cmd.Flags().StringVar(&viewport, "viewport", "1280,800", "viewport w,h")
	cmd.Flags().StringVar(&style.CornerPad, "corner-pad", "", "--corner-pad value (default 16)")
	cmd.Flags().StringVar(&style.HomeCenterY, "home-center-y", "", "--home-center-y value (default "+handoff.DefaultHomeCenterY+")")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	motion.register(cmd)
	return cmd
}

func (c *CLI) handoffEnterCommand() *cobra.Command {
	var (
		direction, target, value string
		motion                   frameFlags
		asJSON                   bool
	)

	cmd := &cobra.Command{
		Use:   "enter",
		Short: "Flight for a page being entered with a handoff value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := parseDirection(direction)
			if err != nil {
				return err
			}
			box, err := parseRect(target)
			if err != nil {
				return err
			}
			var v handoff.Value
			if err := json.Unmarshal([]byte(value), &v); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidInput, err, "parse --value")
			}

			flight := handoff.Entrance(v, box, dir)
			frames := motion.sample(flight)
			if asJSON {
				return printJSON(map[string]any{"flight": flight, "frames": frames})
			}
			printFlight(flight)
			printFrames(frames, motion.step())
			return nil
		},
	}

	cmd.Flags().StringVar(&direction, "direction", "portfolio", "portfolio or home")
	cmd.Flags().StringVar(&target, "target", "0,0,40,40", "own arrow box x,y,w,h")
	cmd.Flags().StringVar(&value, "value", "{}", "handoff value as JSON")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	motion.register(cmd)
	return cmd
}

// frameFlags samples a flight's animation at even steps.
type frameFlags struct {
	frames   int
	duration time.Duration
}

func (f *frameFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.frames, "frames", 0, "print this many animation frames")
	cmd.Flags().DurationVar(&f.duration, "duration", handoff.DefaultFlightDuration, "flight duration")
}

func (f frameFlags) step() time.Duration {
	if f.frames <= 0 {
		return 0
	}
	d := f.duration
	if d <= 0 {
		d = handoff.DefaultFlightDuration
	}
	return d / time.Duration(f.frames)
}

// sample runs the flight's animation and returns one frame per step. The
// last frame is the flight's end.
func (f frameFlags) sample(flight handoff.Flight) []handoff.Frame {
	if f.frames <= 0 {
		return nil
	}
	anim := flight.Animate(f.duration, nil)
	frames := make([]handoff.Frame, f.frames)
	for i := range frames {
		frames[i] = anim.Update(f.step())
	}
	return frames
}

func printFrames(frames []handoff.Frame, step time.Duration) {
	if len(frames) == 0 {
		return
	}
	rows := make([][]string, len(frames))
	for i, fr := range frames {
		rows[i] = []string{
			(step * time.Duration(i+1)).String(),
			strconv.FormatFloat(fr.X, 'f', 1, 64),
			strconv.FormatFloat(fr.Y, 'f', 1, 64),
			strconv.FormatFloat(fr.Rot, 'f', 1, 64),
		}
	}
	fmt.Println(renderTable([]string{"t", "x", "y", "rot"}, rows))
}

func parseDirection(s string) (handoff.Direction, error) {
	dir, ok := handoff.ParseDirection(s)
	if !ok {
		return dir, errors.New(errors.ErrCodeInvalidInput, "direction must be portfolio or home, got %q", s)
	}
	return dir, nil
}

func parseRect(s string) (handoff.Rect, error) {
	v, err := parseFloats(s, 4)
	if err != nil {
		return handoff.Rect{}, err
	}
	return handoff.Rect{X: v[0], Y: v[1], W: v[2], H: v[3]}, nil
}

// parseFloats reads exactly n comma-separated numbers.
func parseFloats(s string, n int) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, errors.New(errors.ErrCodeInvalidInput, "want %d comma-separated numbers, got %q", n, s)
	}
	out := make([]float64, n)
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse %q", p)
		}
		out[i] = f
	}
	return out, nil
}

func printFlight(f handoff.Flight) {
	box := func(r handoff.Rect) string {
		return fmt.Sprintf("%g,%g %gx%g", r.X, r.Y, r.W, r.H)
	}
	printKeyValue("from", fmt.Sprintf("%s  rot %g°", box(f.From), f.FromRot))
	printKeyValue("to", fmt.Sprintf("%s  rot %g°", box(f.To), f.ToRot))
	printKeyValue("glyph", f.Char)
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func mustJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return err.Error()
	}
	return string(data)
}
