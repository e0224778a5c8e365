package sink

import "github.com/matzehuels/scatterbox/pkg/board"

// RenderJSON exports the board document. Diagnostics are included only if
// the board was built with them.
func RenderJSON(b *board.Board) ([]byte, error) {
	return board.Marshal(b)
}
