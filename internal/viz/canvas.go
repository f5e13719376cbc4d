package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/eyespot/internal/eyespot"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a braille dot canvas: each character cell holds 2x4 dots, so
// a 101-cell grid fits in 51 columns.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Set lights the dot at (x, y) in sub-pixel coordinates. The canvas is
// (Width*2) x (Height*4) dots.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Mask draws one dot per grid cell whose dominant pigment is class.
func Mask(m eyespot.PigmentMap, class eyespot.Pigment) *Canvas {
	c := NewCanvas((m.N+1)/2, (m.N+3)/4)
	for r := 0; r < m.N; r++ {
		for col := 0; col < m.N; col++ {
			if m.At(r, col) == class {
				c.Set(col, r)
			}
		}
	}
	return c
}

// RenderMask draws Mask in the theme color of class. The none class is
// drawn in the accent color, since its pigment color is the background.
func RenderMask(m eyespot.PigmentMap, class eyespot.Pigment, theme Theme) string {
	color := theme.Color(class)
	if class == eyespot.PigmentNone {
		color = theme.Accent
	}
	style := lipgloss.NewStyle().Foreground(color)
	var b strings.Builder
	for _, row := range Mask(m, class).Grid {
		b.WriteString(style.Render(string(row)) + "\n")
	}
	return b.String()
}
