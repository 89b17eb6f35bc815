package tzmap

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"

	"github.com/ngrash/go-tzmap/internal/fsutil"
)

// FileMode is the permission of written map files.
const FileMode os.FileMode = 0o644

// Image returns the grid as an opaque image, one slot per color channel.
// The width is that of the longest row; shorter rows are padded with EmptyPixel.
func (g Grid) Image() *image.NRGBA {
	var w int
	for _, r := range g.Rows {
		w = max(w, len(r))
	}
	img := image.NewNRGBA(image.Rect(0, 0, w, len(g.Rows)))
	for y, r := range g.Rows {
		for x := 0; x < w; x++ {
			p := EmptyPixel
			if x < len(r) {
				p = r[x]
			}
			img.SetNRGBA(x, y, color.NRGBA{R: p[0], G: p[1], B: p[2], A: 0xff})
		}
	}
	return img
}

// Encode writes the grid to w as an 8-bit RGB PNG.
func (g Grid) Encode(w io.Writer) error {
	if g.Height() == 0 {
		return ErrEmptyGrid
	}
	// Opaque NRGBA images are written as truecolor without alpha.
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(w, g.Image()); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// Decode reads a map written by Encode. The alpha channel, if any, is ignored.
func Decode(r io.Reader) (Grid, error) {
	img, err := png.Decode(r)
	if err != nil {
		return Grid{}, fmt.Errorf("decode png: %w", err)
	}
	b := img.Bounds()
	g := Grid{Rows: make([][]Pixel, b.Dy())}
	for y := range g.Rows {
		row := make([]Pixel, b.Dx())
		for x := range row {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			row[x] = Pixel{c.R, c.G, c.B}
		}
		g.Rows[y] = row
	}
	return g, nil
}

// WriteFile encodes g to path, replacing an existing file.
func WriteFile(path string, g Grid) error {
	if err := fsutil.WriteFile(path, FileMode, g.Encode); err != nil {
		return fmt.Errorf("write map %s: %w", path, err)
	}
	return nil
}

// ReadFile decodes the map stored at path.
func ReadFile(path string) (Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return Grid{}, fmt.Errorf("open map: %w", err)
	}
	defer f.Close()
	g, err := Decode(bufio.NewReader(f))
	if err != nil {
		return Grid{}, fmt.Errorf("read map %s: %w", path, err)
	}
	return g, nil
}
