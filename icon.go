package winloop

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

// MaxIconSize bounds the icon handed to the backend. Larger images are
// scaled down.
const MaxIconSize = 256

// LoadIcon decodes a PNG, JPEG, GIF or BMP file into an RGBA image.
func LoadIcon(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	slog.Debug("LoadIcon", "path", path, "format", format, "size", img.Bounds().Size())
	return IconImage(img), nil
}

// IconImage converts img to RGBA, scaling it to fit MaxIconSize.
func IconImage(img image.Image) *image.RGBA {
	size := img.Bounds().Size()
	dstSize := size
	if size.X > MaxIconSize || size.Y > MaxIconSize {
		if size.X >= size.Y {
			dstSize = Size{X: MaxIconSize, Y: max(1, size.Y*MaxIconSize/size.X)}
		} else {
			dstSize = Size{X: max(1, size.X*MaxIconSize/size.Y), Y: MaxIconSize}
		}
	}
	dst := image.NewRGBA(image.Rectangle{Max: dstSize})
	if dstSize == size {
		draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	}
	return dst
}
