package winloop

import (
	"image"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

type FontSizeInPoints = float64

type Font struct {
	font  *opentype.Font
	faces map[FontSizeInPoints]font.Face
}

func (f *Font) GetFace(size FontSizeInPoints) (font.Face, error) {
	if face, ok := f.faces[size]; ok {
		return face, nil
	}
	faceOpts := &opentype.FaceOptions{
		Size:    size,
		DPI:     96,
		Hinting: font.HintingFull,
	}
	face, err := opentype.NewFace(f.font, faceOpts)
	if err != nil {
		return nil, err
	}
	f.faces[size] = face
	return face, nil
}

// RenderString rasterizes s on a transparent background. The result is
// one line high and as wide as the string advance.
func (f *Font) RenderString(size FontSizeInPoints, s string, c Color) (*image.RGBA, error) {
	face, err := f.GetFace(size)
	if err != nil {
		return nil, err
	}
	metrics := face.Metrics()
	ascent := metrics.Ascent.Ceil()
	height := metrics.Height.Ceil()
	if height == 0 {
		height = ascent + metrics.Descent.Ceil()
	}
	width := font.MeasureString(face, s).Ceil()
	img := image.NewRGBA(image.Rect(0, 0, max(width, 1), max(height, 1)))
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.Point26_6{X: 0, Y: fixed.I(ascent)},
	}
	d.DrawString(s)
	return img, nil
}

func (f *Font) Close() error {
	for size, face := range f.faces {
		face.Close()
		delete(f.faces, size)
	}
	return nil
}

func LoadFontFromBytes(bytes []byte) (*Font, error) {
	f, err := opentype.Parse(bytes)
	if err != nil {
		return nil, err
	}
	return &Font{
		font:  f,
		faces: make(map[FontSizeInPoints]font.Face),
	}, nil
}

func LoadFontFromFile(name string) (*Font, error) {
	bytes, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	return LoadFontFromBytes(bytes)
}

// DefaultFont returns the Go Regular font.
func DefaultFont() (*Font, error) {
	return LoadFontFromBytes(goregular.TTF)
}

// Text draws a single line of text. The rasterized string is cached
// until one of the fields changes.
type Text struct {
	Font   *Font
	Size   FontSizeInPoints
	String string
	Color  Color
	At     image.Point

	rendered    *image.RGBA
	renderedKey textKey
}

type textKey struct {
	font  *Font
	size  FontSizeInPoints
	s     string
	color Color
}

func (t *Text) Draw(target Target) error {
	if t.String == "" {
		return nil
	}
	if t.Font == nil {
		f, err := DefaultFont()
		if err != nil {
			return err
		}
		t.Font = f
	}
	if t.Size == 0 {
		t.Size = 14
	}
	key := textKey{t.Font, t.Size, t.String, t.Color}
	if t.rendered == nil || t.renderedKey != key {
		img, err := t.Font.RenderString(t.Size, t.String, t.Color)
		if err != nil {
			return err
		}
		t.rendered = img
		t.renderedKey = key
	}
	return drawImage(target, t.rendered, t.At)
}

// Bounds returns the area covered by the last rendering.
func (t *Text) Bounds() image.Rectangle {
	if t.rendered == nil {
		return image.Rectangle{Min: t.At, Max: t.At}
	}
	return t.rendered.Bounds().Add(t.At)
}
