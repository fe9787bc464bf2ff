package winloop

import "image"

type Size = image.Point

// Geometry holds the window dimensions. Only width and height are
// stored, so Size always equals (Width, Height).
type Geometry struct {
	width  int
	height int
}

func NewGeometry(size Size) Geometry {
	return Geometry{width: size.X, height: size.Y}
}

func (g *Geometry) Width() int {
	return g.width
}

func (g *Geometry) Height() int {
	return g.height
}

func (g *Geometry) Size() Size {
	return Size{X: g.width, Y: g.height}
}

func (g *Geometry) SetWidth(width int) {
	g.width = width
}

func (g *Geometry) SetHeight(height int) {
	g.height = height
}

func (g *Geometry) SetSize(size Size) {
	g.width = size.X
	g.height = size.Y
}
