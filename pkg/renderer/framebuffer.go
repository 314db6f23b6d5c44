package renderer

import (
	"fmt"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Framebuffer holds summed pixel colors indexed [row][column].
// Row 0 is the bottom of the scene; output emits the highest row first.
// A Framebuffer has a single owner and is not safe for concurrent use.
type Framebuffer struct {
	width, height int
	pixels        [][]core.Color
	written       [][]bool
	count         int
}

// NewFramebuffer allocates an empty framebuffer
func NewFramebuffer(width, height int) *Framebuffer {
	pixels := make([][]core.Color, height)
	written := make([][]bool, height)
	for y := range pixels {
		pixels[y] = make([]core.Color, width)
		written[y] = make([]bool, width)
	}
	return &Framebuffer{
		width:   width,
		height:  height,
		pixels:  pixels,
		written: written,
	}
}

// Width returns the number of columns
func (fb *Framebuffer) Width() int { return fb.width }

// Height returns the number of rows
func (fb *Framebuffer) Height() int { return fb.height }

// Set stores the summed color of one pixel. Each cell may be written once.
func (fb *Framebuffer) Set(row, col int, color core.Color) error {
	if row < 0 || row >= fb.height || col < 0 || col >= fb.width {
		return fmt.Errorf("pixel (%d, %d) outside %dx%d framebuffer", row, col, fb.width, fb.height)
	}
	if fb.written[row][col] {
		return fmt.Errorf("pixel (%d, %d) written twice", row, col)
	}
	fb.pixels[row][col] = color
	fb.written[row][col] = true
	fb.count++
	return nil
}

// At returns the stored color of one pixel
func (fb *Framebuffer) At(row, col int) core.Color {
	return fb.pixels[row][col]
}

// IsSet reports whether a pixel has been written
func (fb *Framebuffer) IsSet(row, col int) bool {
	return fb.written[row][col]
}

// Written returns how many distinct pixels have been stored
func (fb *Framebuffer) Written() int {
	return fb.count
}

// Complete reports whether every pixel has been stored
func (fb *Framebuffer) Complete() bool {
	return fb.count == fb.width*fb.height
}
