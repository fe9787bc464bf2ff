package winloop

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// Drawable is anything that can render itself onto a target.
type Drawable interface {
	Draw(target Target) error
}

type DrawFunc func(target Target) error

func (f DrawFunc) Draw(target Target) error {
	return f(target)
}

// Group draws its children in order.
type Group []Drawable

func (g Group) Draw(target Target) error {
	for _, child := range g {
		if child == nil {
			continue
		}
		if err := child.Draw(target); err != nil {
			return err
		}
	}
	return nil
}

// Picture draws an image with its top left corner at At. A non-zero
// Size scales the image.
type Picture struct {
	Image image.Image
	At    image.Point
	Size  Size

	scaled *image.RGBA
}

func (p *Picture) Draw(target Target) error {
	if p.Image == nil {
		return nil
	}
	return drawImage(target, p.source(), p.At)
}

func (p *Picture) source() image.Image {
	if p.Size == (Size{}) || p.Size == p.Image.Bounds().Size() {
		return p.Image
	}
	if p.scaled == nil || p.scaled.Bounds().Size() != p.Size {
		p.scaled = image.NewRGBA(image.Rectangle{Max: p.Size})
		draw.ApproxBiLinear.Scale(p.scaled, p.scaled.Bounds(), p.Image, p.Image.Bounds(), draw.Src, nil)
	}
	return p.scaled
}

// Rect fills Bounds with Color.
type Rect struct {
	Bounds image.Rectangle
	Color  Color

	img *image.RGBA
}

func (r *Rect) Draw(target Target) error {
	if r.Bounds.Empty() {
		return nil
	}
	if dst, ok := target.(draw.Image); ok {
		draw.Draw(dst, r.Bounds, image.NewUniform(r.Color), image.Point{}, draw.Src)
		return nil
	}
	size := r.Bounds.Size()
	if r.img == nil || r.img.Bounds().Size() != size || r.img.RGBAAt(0, 0) != rgba(r.Color) {
		r.img = image.NewRGBA(image.Rectangle{Max: size})
		draw.Draw(r.img, r.img.Bounds(), image.NewUniform(r.Color), image.Point{}, draw.Src)
	}
	return drawImage(target, r.img, r.Bounds.Min)
}

// drawImage composites img onto target at the given point, either
// directly for in-memory targets or through ImageDrawer.
func drawImage(target Target, img image.Image, at image.Point) error {
	switch dst := target.(type) {
	case ImageDrawer:
		return dst.DrawImage(img, at)
	case draw.Image:
		bounds := img.Bounds()
		r := image.Rectangle{Min: at, Max: at.Add(bounds.Size())}
		draw.Draw(dst, r, img, bounds.Min, draw.Over)
		return nil
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedTarget, target)
	}
}
