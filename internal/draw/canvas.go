package draw

import (
	"io"
	"math"
	"slices"
	"strings"
	"unicode/utf8"
)

// Half-block glyphs; each terminal cell holds two vertical pixels.
const (
	BlockFull      = '█'
	BlockEmpty     = ' '
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// unknownGlyph marks a cell whose on-screen content is unknown, so the
// next Render rewrites it even if it stays empty.
const unknownGlyph rune = -1

// Canvas rasterises the playfield into half-block characters. Drawing
// calls take logical coordinates (the game's 1200x800 style space) and
// scale them to the pixel grid of cols x rows*2. Render only emits the
// cells that changed since the previous Render.
type Canvas struct {
	cols, rows int
	px         []bool // cols*rows*2, row-major
	shown      []rune // glyph currently on screen per cell

	logicalW, logicalH float64
	sx, sy             float64 // pixels per logical unit

	offCol, offRow int // 0-based placement of the canvas in the terminal

	out       []byte
	scaled    []Point
	crossings []float64
	points    []Point
}

// NewCanvas creates a canvas whose logical space is its own pixel grid.
func NewCanvas(cols, rows int) *Canvas {
	return NewScaledCanvas(cols, rows, float64(cols), float64(rows*2))
}

// NewScaledCanvas creates a cols x rows canvas drawing a logicalW x
// logicalH space.
func NewScaledCanvas(cols, rows int, logicalW, logicalH float64) *Canvas {
	c := &Canvas{logicalW: logicalW, logicalH: logicalH}
	c.Resize(cols, rows)
	return c
}

// Resize changes the terminal area while keeping the logical space.
// A size change invalidates everything previously rendered.
func (c *Canvas) Resize(cols, rows int) {
	cols, rows = max(cols, 1), max(rows, 1)
	if cols != c.cols || rows != c.rows || c.px == nil {
		c.cols, c.rows = cols, rows
		c.px = make([]bool, cols*rows*2)
		c.shown = make([]rune, cols*rows)
		c.ForceRedraw()
	}
	c.sx = float64(c.cols) / c.logicalW
	c.sy = float64(c.rows*2) / c.logicalH
}

// SetOffset places the canvas at terminal cell (col+1, row+1).
func (c *Canvas) SetOffset(col, row int) {
	c.offCol, c.offRow = col, row
}

func (c *Canvas) OffsetCol() int { return c.offCol }

func (c *Canvas) OffsetRow() int { return c.offRow }

// TerminalWidth returns the render area's column count.
func (c *Canvas) TerminalWidth() int { return c.cols }

// TerminalHeight returns the render area's row count.
func (c *Canvas) TerminalHeight() int { return c.rows }

// Clear unsets every pixel. The screen keeps its content until Render.
func (c *Canvas) Clear() {
	clear(c.px)
}

// ForceRedraw makes the next Render rewrite every cell, e.g. after the
// terminal was cleared.
func (c *Canvas) ForceRedraw() {
	for i := range c.shown {
		c.shown[i] = unknownGlyph
	}
}

// MarkTextDirty records that n cells starting at the 1-based canvas
// position (col, row) were overwritten by text, so the next Render
// repaints them.
func (c *Canvas) MarkTextDirty(col, row, n int) {
	r := row - 1
	if r < 0 || r >= c.rows {
		return
	}
	from := max(col-1, 0)
	to := min(col-1+n, c.cols)
	for x := from; x < to; x++ {
		c.shown[r*c.cols+x] = unknownGlyph
	}
}

func (c *Canvas) inside(x, y int) bool {
	return x >= 0 && x < c.cols && y >= 0 && y < c.rows*2
}

func (c *Canvas) plot(x, y int) {
	if c.inside(x, y) {
		c.px[y*c.cols+x] = true
	}
}

// Pixel reports whether the pixel at grid position (x, y) is set.
func (c *Canvas) Pixel(x, y int) bool {
	return c.inside(x, y) && c.px[y*c.cols+x]
}

func (c *Canvas) toPixel(p Point) (int, int) {
	return int(math.Round(p.X * c.sx)), int(math.Round(p.Y * c.sy))
}

// SetFloat sets the pixel under a logical point.
func (c *Canvas) SetFloat(x, y float64) {
	c.plot(c.toPixel(Point{x, y}))
}

// DrawLine draws a segment between two logical points (Bresenham).
func (c *Canvas) DrawLine(a, b Point) {
	x, y := c.toPixel(a)
	x2, y2 := c.toPixel(b)

	dx, dy := abs(x2-x), -abs(y2-y)
	stepX, stepY := 1, 1
	if x > x2 {
		stepX = -1
	}
	if y > y2 {
		stepY = -1
	}

	e := dx + dy
	for {
		c.plot(x, y)
		if x == x2 && y == y2 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x += stepX
		}
		if e2 <= dx {
			e += dx
			y += stepY
		}
	}
}

// DrawPolygon outlines a closed polygon and optionally fills it.
func (c *Canvas) DrawPolygon(points []Point, filled bool) {
	if len(points) < 3 {
		return
	}
	if filled {
		c.fill(points)
	}
	prev := points[len(points)-1]
	for _, p := range points {
		c.DrawLine(prev, p)
		prev = p
	}
}

// DrawRect outlines an axis-aligned rectangle.
func (c *Canvas) DrawRect(x, y, w, h float64) {
	c.DrawPolygon([]Point{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}}, false)
}

// fill rasterises the polygon interior with an even-odd scanline sweep
// sampled at pixel centres.
func (c *Canvas) fill(points []Point) {
	c.scaled = c.scaled[:0]
	top, bottom := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		q := Point{p.X * c.sx, p.Y * c.sy}
		c.scaled = append(c.scaled, q)
		top = math.Min(top, q.Y)
		bottom = math.Max(bottom, q.Y)
	}

	first := max(int(math.Floor(top)), 0)
	last := min(int(math.Ceil(bottom)), c.rows*2-1)
	for y := first; y <= last; y++ {
		mid := float64(y) + 0.5
		xs := c.crossings[:0]
		prev := c.scaled[len(c.scaled)-1]
		for _, p := range c.scaled {
			if (prev.Y <= mid) != (p.Y <= mid) {
				xs = append(xs, prev.X+(mid-prev.Y)/(p.Y-prev.Y)*(p.X-prev.X))
			}
			prev = p
		}
		slices.Sort(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			for x := int(math.Ceil(xs[i])); x <= int(math.Floor(xs[i+1])); x++ {
				c.plot(x, y)
			}
		}
		c.crossings = xs
	}
}

// glyph returns the half-block character for a cell.
func (c *Canvas) glyph(col, row int) rune {
	upper := c.px[2*row*c.cols+col]
	lower := c.px[(2*row+1)*c.cols+col]
	switch {
	case upper && lower:
		return BlockFull
	case upper:
		return BlockUpperHalf
	case lower:
		return BlockLowerHalf
	}
	return BlockEmpty
}

// Render writes the cells that changed since the last Render. A run of
// changed cells on one row shares a single cursor move.
func (c *Canvas) Render(w io.Writer) {
	buf := c.out[:0]
	for row := range c.rows {
		next := -1 // column the cursor sits at after the last write
		for col := range c.cols {
			g := c.glyph(col, row)
			i := row*c.cols + col
			if c.shown[i] == g {
				continue
			}
			c.shown[i] = g
			if col != next {
				buf = appendCursor(buf, col+1+c.offCol, row+1+c.offRow)
			}
			buf = utf8.AppendRune(buf, g)
			next = col + 1
		}
	}
	if len(buf) > 0 {
		w.Write(buf)
	}
	c.out = buf
}

// RenderBorder frames the canvas when the terminal is larger than the
// render area. Sides without room for a line are skipped.
func (c *Canvas) RenderBorder(w io.Writer) {
	sides := c.offCol >= 1
	caps := c.offRow >= 1
	if !sides && !caps {
		return
	}

	left, right := c.offCol, c.offCol+c.cols+1
	top, bottom := c.offRow, c.offRow+c.rows+1

	var buf []byte
	put := func(col, row int, s string) {
		buf = appendCursor(buf, col, row)
		buf = append(buf, s...)
	}

	if caps {
		line := strings.Repeat("─", c.cols)
		if sides {
			put(left, top, "┌"+line+"┐")
			put(left, bottom, "└"+line+"┘")
		} else {
			put(left+1, top, line)
			put(left+1, bottom, line)
		}
	}
	if sides {
		for row := c.offRow + 1; row <= c.offRow+c.rows; row++ {
			put(left, row, "│")
			put(right, row, "│")
		}
	}
	w.Write(buf)
}

// LogicalToTerminal converts a logical point to the 1-based canvas cell
// that shows it.
func (c *Canvas) LogicalToTerminal(x, y float64) (col, row int) {
	px, py := c.toPixel(Point{x, y})
	return px + 1, py/2 + 1
}

// TerminalToLogical converts a 1-based screen position, as reported by
// mouse events, to the logical coordinates at the centre of that cell.
// ok is false when the position lies outside the render area.
func (c *Canvas) TerminalToLogical(col, row int) (x, y float64, ok bool) {
	cc := col - 1 - c.offCol
	rr := row - 1 - c.offRow
	if cc < 0 || cc >= c.cols || rr < 0 || rr >= c.rows {
		return 0, 0, false
	}
	return (float64(cc) + 0.5) / c.sx, float64(2*rr+1) / c.sy, true
}

// BorrowPoints returns a scratch slice of n points, valid until the next call.
func (c *Canvas) BorrowPoints(n int) []Point {
	if cap(c.points) < n {
		c.points = make([]Point, n)
	}
	return c.points[:n]
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
