package draw

import (
	"bytes"
	"math"
	"strings"
	"testing"
)

func TestRenderOnlyEmitsChanges(t *testing.T) {
	c := NewCanvas(10, 5)
	var buf bytes.Buffer

	c.Render(&buf)
	if got := strings.Count(buf.String(), " "); got != 50 {
		t.Fatalf("first render wrote %d blank cells, want 50", got)
	}

	buf.Reset()
	c.Render(&buf)
	if buf.Len() != 0 {
		t.Fatalf("unchanged frame wrote %q", buf.String())
	}

	c.SetFloat(3, 4)
	buf.Reset()
	c.Render(&buf)
	if got := buf.String(); got != "\033[3;4H"+string(BlockUpperHalf) {
		t.Fatalf("render = %q", got)
	}

	c.Clear()
	buf.Reset()
	c.Render(&buf)
	if got := buf.String(); got != "\033[3;4H " {
		t.Fatalf("erase = %q", got)
	}
}

func TestMarkTextDirtyRepaints(t *testing.T) {
	c := NewCanvas(10, 5)
	var buf bytes.Buffer
	c.Render(&buf)

	c.MarkTextDirty(2, 1, 3)
	buf.Reset()
	c.Render(&buf)
	if got := buf.String(); got != "\033[1;2H   " {
		t.Fatalf("render = %q", got)
	}

	c.ForceRedraw()
	buf.Reset()
	c.Render(&buf)
	if got := strings.Count(buf.String(), " "); got != 50 {
		t.Fatalf("forced redraw wrote %d cells, want 50", got)
	}
}

func TestTerminalToLogicalInvertsScaling(t *testing.T) {
	c := NewScaledCanvas(120, 40, 1200, 800)
	c.SetOffset(5, 2)

	x, y, ok := c.TerminalToLogical(6, 3)
	if !ok || math.Abs(x-5) > 1e-9 || math.Abs(y-10) > 1e-9 {
		t.Fatalf("TerminalToLogical(6, 3) = %v, %v, %v; want 5, 10, true", x, y, ok)
	}

	col, row := c.LogicalToTerminal(605, 410)
	x, y, ok = c.TerminalToLogical(col+5, row+2)
	if !ok || math.Abs(x-605) > 15 || math.Abs(y-410) > 20 {
		t.Fatalf("round trip of (605, 410) = %v, %v, %v", x, y, ok)
	}

	if _, _, ok := c.TerminalToLogical(5, 3); ok {
		t.Fatal("position left of the render area reported as inside")
	}
	if _, _, ok := c.TerminalToLogical(6, 43); ok {
		t.Fatal("position below the render area reported as inside")
	}
}

func TestFilledEllipseCoversCentre(t *testing.T) {
	c := NewScaledCanvas(40, 20, 400, 400)
	pts := Ellipse(c.BorrowPoints(16), 200, 200, 30, 60, 45)
	c.DrawPolygon(pts, true)

	if !c.Pixel(20, 20) {
		t.Fatal("centre of filled ellipse not set")
	}
	if c.Pixel(0, 0) {
		t.Fatal("corner set by ellipse")
	}
}

func TestRotateQuarterTurn(t *testing.T) {
	p := Rotate(Point{X: 0, Y: -1}, 0, 0, 90)
	if math.Abs(p.X-1) > 1e-9 || math.Abs(p.Y) > 1e-9 {
		t.Fatalf("Rotate up by 90 = %+v, want right", p)
	}
}
