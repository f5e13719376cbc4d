package viz

import (
	"bytes"
	"context"
	"image/gif"
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/eyespot/internal/eyespot"
	"github.com/san-kum/eyespot/internal/grid"
	"github.com/san-kum/eyespot/internal/sim"
)

func solve(t *testing.T) *eyespot.Solution {
	t.Helper()
	p := eyespot.DefaultParams()
	p.GridSize = 9
	m, err := eyespot.NewModel(p)
	if err != nil {
		t.Fatal(err)
	}
	_ = m.Foci().Add(eyespot.Pos{Row: 4, Col: 4})

	span := sim.Span{Start: 0, End: 2}
	times, _ := sim.EvalGrid(span, 0.5)
	sol, err := m.Solve(context.Background(), span, times, eyespot.RunOptions{})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	return sol
}

func TestStride(t *testing.T) {
	tests := []struct{ n, limit, want int }{
		{10, 0, 1},
		{10, 20, 1},
		{101, 64, 2},
		{101, 25, 5},
	}
	for _, tt := range tests {
		if got := stride(tt.n, tt.limit); got != tt.want {
			t.Errorf("stride(%d, %d) = %d, want %d", tt.n, tt.limit, got, tt.want)
		}
	}
}

func TestRenderPigmentShape(t *testing.T) {
	m := eyespot.PigmentMap{N: 5, Cells: make([]eyespot.Pigment, 25)}
	out := RenderPigment(m, ThemeClassic, 0)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Errorf("expected 3 half-block rows for 5 grid rows, got %d", len(lines))
	}
}

func TestRenderFieldShades(t *testing.T) {
	f, _ := grid.FromRows([][]float64{{0, 1}, {0, 1}})
	out := RenderField(f, 0)
	if !strings.HasPrefix(out, " █") {
		t.Errorf("expected blank then full block, got %q", out)
	}
}

func TestMaskSetsDots(t *testing.T) {
	m := eyespot.PigmentMap{N: 2, Cells: []eyespot.Pigment{eyespot.PigmentP2, 0, 0, eyespot.PigmentP2}}
	c := Mask(m, eyespot.PigmentP2)
	if c.Width != 1 || c.Height != 1 {
		t.Fatalf("unexpected canvas %dx%d", c.Width, c.Height)
	}
	if got := c.Grid[0][0]; got != 0x2800|0x1|0x10 {
		t.Errorf("unexpected braille rune %U", got)
	}
}

func TestRenderMask(t *testing.T) {
	m := eyespot.PigmentMap{N: 5, Cells: make([]eyespot.Pigment, 25)}
	for i := range m.Cells {
		m.Cells[i] = eyespot.PigmentP2
	}

	out := RenderMask(m, eyespot.PigmentP2, ThemeClassic)
	if lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n"); len(lines) != 2 {
		t.Errorf("expected 2 braille rows for 5 grid rows, got %d", len(lines))
	}
	if !strings.ContainsRune(out, 0x28FF) {
		t.Errorf("expected a fully lit cell in %q", out)
	}

	empty := RenderMask(m, eyespot.PigmentP1, ThemeClassic)
	if strings.ContainsRune(empty, 0x28FF) {
		t.Errorf("P1 mask of an all-P2 map should be blank, got %q", empty)
	}
}

func TestPalette(t *testing.T) {
	p := ThemeClassic.Palette()
	if len(p) != 4 {
		t.Fatalf("expected 4 colors, got %d", len(p))
	}
	r, g, b, _ := p[eyespot.PigmentP2].RGBA()
	if r>>8 != 0xff || g>>8 != 0xff || b>>8 != 0 {
		t.Errorf("P2 should be yellow, got %d %d %d", r>>8, g>>8, b>>8)
	}
}

func TestEncodeGIF(t *testing.T) {
	sol := solve(t)

	var buf bytes.Buffer
	if err := EncodeGIF(&buf, sol, GIFOptions{Scale: 2}); err != nil {
		t.Fatalf("EncodeGIF: %v", err)
	}
	anim, err := gif.DecodeAll(&buf)
	if err != nil {
		t.Fatalf("DecodeAll: %v", err)
	}
	if len(anim.Image) != sol.Len() {
		t.Errorf("expected %d frames, got %d", sol.Len(), len(anim.Image))
	}
	if b := anim.Image[0].Bounds(); b.Dx() != 18 {
		t.Errorf("expected 18px frames, got %d", b.Dx())
	}
}

func TestFrameLabel(t *testing.T) {
	m := eyespot.PigmentMap{N: 4, Cells: make([]eyespot.Pigment, 16)}
	for i := range m.Cells {
		m.Cells[i] = eyespot.PigmentP2
	}

	img := Frame(m, "t=1.5", GIFOptions{Scale: 10, Label: true})
	if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 40+labelHeight {
		t.Fatalf("unexpected bounds %v", b)
	}

	want := uint8(contrastIndex(ThemeClassic.Palette()))
	if want != uint8(eyespot.PigmentP1) {
		t.Errorf("classic text color should be black, got index %d", want)
	}
	inked := 0
	for y := 0; y < labelHeight; y++ {
		for x := 0; x < 40; x++ {
			if img.ColorIndexAt(x, y) == want {
				inked++
			}
		}
	}
	if inked == 0 {
		t.Error("label band has no text pixels")
	}
	if img.ColorIndexAt(0, labelHeight) != uint8(eyespot.PigmentP2) {
		t.Error("map should start below the label band")
	}
}

func TestPlotTotals(t *testing.T) {
	sol := solve(t)
	out, err := PlotTotals(sol, []int{0, 3}, 6, 30)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "total M1 P1") {
		t.Errorf("missing caption in %q", out)
	}

	totals, _ := Totals(sol)
	// The focus starts with no precursor.
	if want := 0.2 * 80; math.Abs(totals[2][0]-want) > 1e-12 {
		t.Errorf("initial P0 total %g, want %g", totals[2][0], want)
	}
}

func TestPlayerKeys(t *testing.T) {
	sol := solve(t)
	p, err := NewPlayer(sol, "test", "")
	if err != nil {
		t.Fatal(err)
	}

	press := func(p Player, key string) Player {
		var msg tea.KeyMsg
		switch key {
		case " ":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
		case "end":
			msg = tea.KeyMsg{Type: tea.KeyEnd}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
		}
		next, _ := p.Update(msg)
		return next.(Player)
	}

	p = press(p, " ")
	if p.running {
		t.Error("space should pause")
	}
	p = press(p, "]")
	p = press(p, "]")
	if p.playHead != 2 {
		t.Errorf("expected frame 2, got %d", p.playHead)
	}
	p = press(p, "end")
	if p.playHead != sol.Len()-1 {
		t.Errorf("end should seek to last frame, got %d", p.playHead)
	}
	p = press(p, "]")
	if p.playHead != sol.Len()-1 {
		t.Errorf("seek past end should clamp, got %d", p.playHead)
	}
	p = press(p, "g")
	if p.status != "no GIF path configured" {
		t.Errorf("unexpected status %q", p.status)
	}
	if !strings.Contains(p.View(), "PAUSED") {
		t.Error("view should show paused status")
	}
}
