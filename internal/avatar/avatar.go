// Package avatar builds the small text sprite that stands in for the player.
package avatar

import "strings"

// Transparent marks an empty cell; it never covers what lies below.
const Transparent = ' '

// Sprite is a rectangular grid of runes. Cells that came from an overlay are
// flagged as accent so the renderer can color them apart.
type Sprite struct {
	cells  [][]rune
	accent [][]bool
}

const face = `
 ,---.
( o o )
 '-u-' `

const glasses = `[=-=]`

// Face is the bare base sprite.
func Face() Sprite { return Parse(face) }

// Glasses is the accessory overlaid on the face.
func Glasses() Sprite { return Parse(glasses) }

// Default is the face wearing glasses.
func Default() Sprite {
	return Compose(Face(), Glasses(), 1, 1)
}

// Parse turns multi-line art into a sprite. A leading newline is dropped and
// short lines are padded with transparent cells.
func Parse(art string) Sprite {
	art = strings.TrimPrefix(art, "\n")
	lines := strings.Split(art, "\n")

	width := 0
	rows := make([][]rune, len(lines))
	for i, line := range lines {
		rows[i] = []rune(line)
		width = max(width, len(rows[i]))
	}

	s := Sprite{cells: make([][]rune, len(rows)), accent: make([][]bool, len(rows))}
	for i, row := range rows {
		s.cells[i] = make([]rune, width)
		s.accent[i] = make([]bool, width)
		for x := range s.cells[i] {
			if x < len(row) {
				s.cells[i][x] = row[x]
			} else {
				s.cells[i][x] = Transparent
			}
		}
	}
	return s
}

// Compose returns a copy of base with overlay placed so its top-left corner
// lands at (dx, dy). Transparent overlay cells keep the base; anything outside
// base is clipped.
func Compose(base, overlay Sprite, dx, dy int) Sprite {
	out := base.clone()
	for y, row := range overlay.cells {
		ty := y + dy
		if ty < 0 || ty >= out.Height() {
			continue
		}
		for x, r := range row {
			tx := x + dx
			if tx < 0 || tx >= out.Width() || r == Transparent {
				continue
			}
			out.cells[ty][tx] = r
			out.accent[ty][tx] = true
		}
	}
	return out
}

// Width returns the number of columns.
func (s Sprite) Width() int {
	if len(s.cells) == 0 {
		return 0
	}
	return len(s.cells[0])
}

// Height returns the number of rows.
func (s Sprite) Height() int { return len(s.cells) }

// At returns the rune at (x, y) and whether it came from an overlay.
// Out-of-range cells are transparent.
func (s Sprite) At(x, y int) (r rune, accent bool) {
	if y < 0 || y >= len(s.cells) || x < 0 || x >= len(s.cells[y]) {
		return Transparent, false
	}
	return s.cells[y][x], s.accent[y][x]
}

// Lines renders the sprite as text, one string per row.
func (s Sprite) Lines() []string {
	lines := make([]string, len(s.cells))
	for i, row := range s.cells {
		lines[i] = string(row)
	}
	return lines
}

func (s Sprite) String() string {
	return strings.Join(s.Lines(), "\n")
}

func (s Sprite) clone() Sprite {
	out := Sprite{cells: make([][]rune, len(s.cells)), accent: make([][]bool, len(s.accent))}
	for i := range s.cells {
		out.cells[i] = append([]rune(nil), s.cells[i]...)
		out.accent[i] = append([]bool(nil), s.accent[i]...)
	}
	return out
}
