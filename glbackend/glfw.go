// Package glbackend renders winloop windows with GLFW and OpenGL ES 2.
package glbackend

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"runtime"
	"time"

	gl "github.com/go-gl/gl/v3.1/gles2"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/cellux/winloop"
)

// GLFW must be driven from the main thread.
func init() {
	runtime.LockOSThread()
}

var ErrNoWindow = errors.New("window not created")

type Options struct {
	Resizable bool
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Backend implements winloop.Backend on a single GLFW window.
type Backend struct {
	opts   Options
	logger *slog.Logger
	window *glfw.Window
	target *Target
	quads  *quadRenderer
	title  string
	fbSize image.Point
	events []winloop.Event
	closed bool
}

var (
	_ winloop.Backend     = (*Backend)(nil)
	_ winloop.Resizer     = (*Backend)(nil)
	_ winloop.EventWaiter = (*Backend)(nil)
)

func New(opts Options) (*Backend, error) {
	if err := glfw.Init(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Backend{opts: opts, logger: logger}, nil
}

func boolHint(v bool) int {
	if v {
		return glfw.True
	}
	return glfw.False
}

func (b *Backend) CreateTarget(size winloop.Size) (winloop.Target, error) {
	if b.closed {
		return nil, winloop.ErrBackendClosed
	}
	if b.window != nil {
		return nil, fmt.Errorf("target already created")
	}
	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.Resizable, boolHint(b.opts.Resizable))
	glfw.WindowHint(glfw.Focused, glfw.True)
	glfw.WindowHint(glfw.DoubleBuffer, glfw.True)
	glfw.WindowHint(glfw.ClientAPI, glfw.OpenGLESAPI)
	glfw.WindowHint(glfw.ContextVersionMajor, 2)
	window, err := glfw.CreateWindow(size.X, size.Y, b.title, nil, nil)
	if err != nil {
		return nil, err
	}
	window.MakeContextCurrent()
	if err := gl.Init(); err != nil {
		window.Destroy()
		return nil, err
	}
	quads, err := newQuadRenderer()
	if err != nil {
		window.Destroy()
		return nil, err
	}
	b.window = window
	b.quads = quads
	b.target = &Target{backend: b}
	b.installCallbacks()
	width, height := window.GetFramebufferSize()
	b.onFramebufferSize(width, height)
	b.logger.Debug("CreateTarget", "size", size, "framebuffer", b.fbSize)
	return b.target, nil
}

func (b *Backend) push(code winloop.EventCode, payload any) {
	b.events = append(b.events, winloop.Event{Code: code, Payload: payload})
}

func (b *Backend) onFramebufferSize(width, height int) {
	b.fbSize = image.Point{X: width, Y: height}
	gl.Viewport(0, 0, int32(width), int32(height))
}

// installCallbacks turns GLFW callbacks into queued events. The
// callbacks run inside glfw.PollEvents, on the loop goroutine.
func (b *Backend) installCallbacks() {
	w := b.window
	w.SetCloseCallback(func(w *glfw.Window) {
		// closing is up to the EventQuit handler
		w.SetShouldClose(false)
		b.push(winloop.EventQuit, nil)
	})
	w.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		b.onFramebufferSize(width, height)
	})
	w.SetSizeCallback(func(w *glfw.Window, width, height int) {
		b.push(winloop.EventResize, winloop.Size{X: width, Y: height})
	})
	w.SetFocusCallback(func(w *glfw.Window, focused bool) {
		b.push(winloop.EventFocus, focused)
	})
	w.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		base, ok := baseKeyName(key, scancode)
		if !ok {
			return
		}
		m := convertMods(mods)
		payload := winloop.KeyPayload{
			Name:     winloop.KeyName(base, m),
			Key:      int(key),
			Scancode: scancode,
			Mods:     m,
		}
		switch action {
		case glfw.Press, glfw.Repeat:
			b.push(winloop.EventKeyDown, payload)
		case glfw.Release:
			b.push(winloop.EventKeyUp, payload)
		}
	})
	w.SetCharCallback(func(w *glfw.Window, char rune) {
		b.push(winloop.EventChar, char)
	})
	w.SetCursorPosCallback(func(w *glfw.Window, x, y float64) {
		b.push(winloop.EventMouseMotion, winloop.MousePayload{X: x, Y: y})
	})
	w.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		x, y := w.GetCursorPos()
		payload := winloop.MousePayload{
			X:      x,
			Y:      y,
			Button: int(button) + 1,
			Mods:   convertMods(mods),
		}
		if action == glfw.Press {
			b.push(winloop.EventMouseButtonDown, payload)
		} else {
			b.push(winloop.EventMouseButtonUp, payload)
		}
	})
	w.SetScrollCallback(func(w *glfw.Window, dx, dy float64) {
		b.push(winloop.EventMouseWheel, winloop.WheelPayload{DX: dx, DY: dy})
	})
}

func (b *Backend) SetTitle(title string) {
	b.title = title
	if b.window != nil {
		b.window.SetTitle(title)
	}
}

func (b *Backend) SetIcon(icon image.Image) error {
	if b.window == nil {
		return ErrNoWindow
	}
	b.window.SetIcon([]image.Image{winloop.IconImage(icon)})
	return nil
}

func (b *Backend) Fill(target winloop.Target, c winloop.Color) {
	if b.window == nil {
		return
	}
	gl.ClearColor(c.Floats())
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

func (b *Backend) Present(target winloop.Target) error {
	if b.closed {
		return winloop.ErrBackendClosed
	}
	if b.window == nil {
		return ErrNoWindow
	}
	b.quads.endFrame()
	b.window.SwapBuffers()
	return nil
}

// PollEvents processes pending GLFW events without waiting and returns
// the events they produced.
func (b *Backend) PollEvents() []winloop.Event {
	if b.closed {
		return nil
	}
	glfw.PollEvents()
	events := b.events
	b.events = nil
	return events
}

func (b *Backend) WaitEvents(timeout time.Duration) {
	if b.closed {
		return
	}
	glfw.WaitEventsTimeout(timeout.Seconds())
}

func (b *Backend) Resize(target winloop.Target, size winloop.Size) error {
	if b.window == nil {
		return ErrNoWindow
	}
	b.window.SetSize(size.X, size.Y)
	return nil
}

func (b *Backend) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	if b.quads != nil {
		b.quads.close()
		b.quads = nil
	}
	if b.window != nil {
		b.window.Destroy()
		b.window = nil
	}
	glfw.Terminate()
	b.logger.Debug("Close")
	return nil
}

// Target is the framebuffer of the backend window.
type Target struct {
	backend *Backend
}

func (t *Target) Bounds() image.Rectangle {
	return image.Rectangle{Max: t.backend.fbSize}
}

func (t *Target) DrawImage(img image.Image, at image.Point) error {
	b := t.backend
	if b.quads == nil {
		return ErrNoWindow
	}
	b.quads.draw(img, at, b.fbSize)
	return nil
}
