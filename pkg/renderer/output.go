package renderer

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/go-pathtracer/pkg/core"
)

// MaxChannelValue is the largest channel value written to PPM files
const MaxChannelValue = 255

// PixelToRGB averages a summed pixel over its samples, applies gamma 2.0
// and quantizes each channel to [0, 255]
func PixelToRGB(sum core.Color, samplesPerPixel int) (r, g, b int) {
	c := sum.Multiply(1.0 / float64(samplesPerPixel)).GammaCorrect(2.0)
	return quantize(c.X), quantize(c.Y), quantize(c.Z)
}

func quantize(channel float64) int {
	if math.IsNaN(channel) {
		return 0
	}
	return int(256 * max(0, min(0.999, channel)))
}

// EncodePPM writes the framebuffer as a plain-text P3 image, top row first
func EncodePPM(w io.Writer, fb *Framebuffer, samplesPerPixel int) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P3\n%d %d\n%d\n", fb.Width(), fb.Height(), MaxChannelValue); err != nil {
		return err
	}

	for j := fb.Height() - 1; j >= 0; j-- {
		for i := 0; i < fb.Width(); i++ {
			r, g, b := PixelToRGB(fb.At(j, i), samplesPerPixel)
			sep := " "
			if i == fb.Width()-1 {
				sep = "\n"
			}
			if _, err := fmt.Fprintf(bw, "%d %d %d%s", r, g, b, sep); err != nil {
				return err
			}
		}
	}

	return bw.Flush()
}

// ToImage converts the framebuffer to an RGBA image using the same color mapping as EncodePPM
func ToImage(fb *Framebuffer, samplesPerPixel int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width(), fb.Height()))
	for j := 0; j < fb.Height(); j++ {
		for i := 0; i < fb.Width(); i++ {
			r, g, b := PixelToRGB(fb.At(j, i), samplesPerPixel)
			img.SetRGBA(i, fb.Height()-1-j, color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 255})
		}
	}
	return img
}

// WriteImageFile writes the framebuffer to path, as PNG for a .png extension
// and as PPM otherwise. The image is written to a temporary file first and
// renamed into place, so a failed write never leaves a truncated image at path.
func WriteImageFile(path string, fb *Framebuffer, samplesPerPixel int) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".png") {
		err = png.Encode(tmp, ToImage(fb, samplesPerPixel))
	} else {
		err = EncodePPM(tmp, fb, samplesPerPixel)
	}
	if err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}

	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move output file into place: %w", err)
	}
	return nil
}
