package winloop

import (
	"fmt"
	"image"
	"time"

	"golang.org/x/image/draw"
)

// DefaultHeadlessMaxSize is the largest target a zero Headless creates.
var DefaultHeadlessMaxSize = Size{X: 8192, Y: 8192}

// Headless renders into an in-memory RGBA image. Events are queued in
// batches with Push; every PollEvents call returns one batch.
type Headless struct {
	MaxSize Size
	// OnPresent, when set, receives the target after every Present.
	OnPresent func(frame *image.RGBA)

	target    *image.RGBA
	title     string
	icon      image.Image
	batches   [][]Event
	presented int
	waited    time.Duration
	closed    bool
}

func NewHeadless() *Headless {
	return &Headless{MaxSize: DefaultHeadlessMaxSize}
}

func (h *Headless) CreateTarget(size Size) (Target, error) {
	if h.closed {
		return nil, ErrBackendClosed
	}
	maxSize := h.MaxSize
	if maxSize == (Size{}) {
		maxSize = DefaultHeadlessMaxSize
	}
	if size.X <= 0 || size.Y <= 0 || size.X > maxSize.X || size.Y > maxSize.Y {
		return nil, fmt.Errorf("%w: %dx%d exceeds %dx%d", ErrInvalidSize, size.X, size.Y, maxSize.X, maxSize.Y)
	}
	h.target = image.NewRGBA(image.Rectangle{Max: size})
	return h.target, nil
}

func (h *Headless) SetTitle(title string) {
	h.title = title
}

func (h *Headless) Title() string {
	return h.title
}

func (h *Headless) SetIcon(icon image.Image) error {
	h.icon = icon
	return nil
}

func (h *Headless) Icon() image.Image {
	return h.icon
}

func (h *Headless) Fill(target Target, c Color) {
	if dst, ok := target.(draw.Image); ok {
		draw.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	}
}

func (h *Headless) Present(target Target) error {
	if h.closed {
		return ErrBackendClosed
	}
	h.presented++
	if h.OnPresent != nil {
		if frame, ok := target.(*image.RGBA); ok {
			h.OnPresent(frame)
		}
	}
	return nil
}

// Presented returns the number of frames presented so far.
func (h *Headless) Presented() int {
	return h.presented
}

// Frame returns the current render target.
func (h *Headless) Frame() *image.RGBA {
	return h.target
}

// Push queues one batch of events for a later PollEvents.
func (h *Headless) Push(events ...Event) {
	h.batches = append(h.batches, events)
}

func (h *Headless) PollEvents() []Event {
	if len(h.batches) == 0 {
		return nil
	}
	batch := h.batches[0]
	h.batches = h.batches[1:]
	return batch
}

func (h *Headless) Resize(target Target, size Size) error {
	if size.X <= 0 || size.Y <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, size.X, size.Y)
	}
	old, ok := target.(*image.RGBA)
	if !ok || old != h.target {
		return fmt.Errorf("%w: %T", ErrUnsupportedTarget, target)
	}
	// The Display keeps its target, so resize in place.
	resized := image.NewRGBA(image.Rectangle{Max: size})
	draw.Draw(resized, resized.Bounds(), old, image.Point{}, draw.Src)
	*old = *resized
	return nil
}

// WaitEvents only records the requested time; a headless loop never
// sleeps.
func (h *Headless) WaitEvents(timeout time.Duration) {
	h.waited += timeout
}

func (h *Headless) Waited() time.Duration {
	return h.waited
}

func (h *Headless) Close() error {
	h.closed = true
	return nil
}

func (h *Headless) Closed() bool {
	return h.closed
}
