package winloop

import (
	"fmt"
	"image"
)

// Display owns the render target. Show clears it and draws the root
// drawable, Present pushes it to the screen.
type Display struct {
	backend    Backend
	target     Target
	title      string
	background Color
	root       Drawable
}

func NewDisplay(backend Backend, size Size, title string, icon image.Image) (*Display, error) {
	if size.X <= 0 || size.Y <= 0 {
		return nil, &InitError{
			Op:  "create target",
			Err: fmt.Errorf("%w: %dx%d", ErrInvalidSize, size.X, size.Y),
		}
	}
	target, err := backend.CreateTarget(size)
	if err != nil {
		return nil, &InitError{Op: "create target", Err: err}
	}
	backend.SetTitle(title)
	if icon != nil {
		if err := backend.SetIcon(icon); err != nil {
			return nil, &InitError{Op: "set icon", Err: err}
		}
	}
	return &Display{
		backend:    backend,
		target:     target,
		title:      title,
		background: White,
	}, nil
}

func (d *Display) Target() Target {
	return d.target
}

func (d *Display) Title() string {
	return d.title
}

func (d *Display) SetTitle(title string) {
	d.title = title
	d.backend.SetTitle(title)
}

func (d *Display) Background() Color {
	return d.background
}

func (d *Display) SetBackground(c Color) {
	d.background = c
}

func (d *Display) Root() Drawable {
	return d.root
}

// SetRoot replaces the drawable rendered by Show. Passing nil leaves
// only the background.
func (d *Display) SetRoot(root Drawable) {
	d.root = root
}

func (d *Display) Show() error {
	d.backend.Fill(d.target, d.background)
	if d.root != nil {
		if err := d.root.Draw(d.target); err != nil {
			return fmt.Errorf("draw: %w", err)
		}
	}
	return nil
}

func (d *Display) Present() error {
	return d.backend.Present(d.target)
}

func (d *Display) resize(size Size) error {
	if r, ok := d.backend.(Resizer); ok {
		return r.Resize(d.target, size)
	}
	return nil
}
