package winloop

import (
	"image"
	"time"
)

// Target is the backend-owned surface a display draws into.
type Target interface {
	Bounds() image.Rectangle
}

// ImageDrawer is implemented by targets that cannot be written pixel by
// pixel and upload images themselves.
type ImageDrawer interface {
	DrawImage(img image.Image, at image.Point) error
}

// EventSource returns the events queued since the last call. It must
// not block.
type EventSource interface {
	PollEvents() []Event
}

// Backend is the rendering toolkit behind a Display.
type Backend interface {
	EventSource
	CreateTarget(size Size) (Target, error)
	SetTitle(title string)
	SetIcon(icon image.Image) error
	Fill(target Target, c Color)
	Present(target Target) error
	Close() error
}

// Resizer is implemented by backends whose target can change size after
// creation.
type Resizer interface {
	Resize(target Target, size Size) error
}

// EventWaiter is implemented by backends that can sleep until an event
// arrives or the timeout expires. The frame clock prefers it over
// time.Sleep.
type EventWaiter interface {
	WaitEvents(timeout time.Duration)
}
