package winloop

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Loop is the handle hooks use to inspect and stop the run loop.
type Loop struct {
	alive   bool
	started bool
	tick    uint64
}

// Stop ends the loop once the current tick has been presented.
func (l *Loop) Stop() {
	l.alive = false
}

func (l *Loop) Alive() bool {
	return l.alive
}

func (l *Loop) Started() bool {
	return l.started
}

// Tick returns the number of the tick in progress, starting at 1.
func (l *Loop) Tick() uint64 {
	return l.tick
}

// Hooks are the extension points of a Window. All of them are optional
// and all run on the goroutine that calls Run. A returned error aborts
// the loop.
type Hooks struct {
	// OnCreate runs at the end of NewWindow.
	OnCreate func(w *Window) error
	// OnStart runs once, during the first tick, before events are
	// dispatched.
	OnStart func(l *Loop) error
	// OnUpdate runs every tick after events are dispatched.
	OnUpdate func(l *Loop) error
	// OnExit replaces the default close procedure, which stops the loop.
	OnExit func(l *Loop) error
}

type Window struct {
	config     Config
	logger     *slog.Logger
	backend    Backend
	geometry   Geometry
	display    *Display
	dispatcher *Dispatcher
	hooks      Hooks
	loop       Loop
	frameDelay time.Duration
	closed     bool
}

// NewWindow creates the render target described by cfg and runs the
// OnCreate hook. The window owns backend from then on and closes it
// when Run returns. If NewWindow fails, backend is already closed.
func NewWindow(backend Backend, cfg Config, hooks Hooks) (*Window, error) {
	if err := cfg.Validate(); err != nil {
		backend.Close()
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		l, err := NewLogger(os.Stderr, cfg.LogLevel)
		if err != nil {
			backend.Close()
			return nil, err
		}
		logger = l
	}
	icon := cfg.Icon
	if icon == nil && cfg.IconPath != "" {
		img, err := LoadIcon(cfg.IconPath)
		if err != nil {
			backend.Close()
			return nil, &InitError{Op: "load icon", Err: err}
		}
		icon = img
	}
	display, err := NewDisplay(backend, cfg.Size(), cfg.Title, icon)
	if err != nil {
		backend.Close()
		return nil, err
	}
	display.SetBackground(cfg.Background)
	w := &Window{
		config:   cfg,
		logger:   logger,
		backend:  backend,
		geometry: NewGeometry(cfg.Size()),
		display:  display,
		hooks:    hooks,
		loop:     Loop{alive: true},
	}
	w.dispatcher = NewDispatcher(backend)
	w.dispatcher.Observe(w.trackResize)
	if cfg.FrameRate > 0 {
		w.frameDelay = time.Second / time.Duration(cfg.FrameRate)
	}
	logger.Debug("NewWindow", "title", cfg.Title, "size", cfg.Size(), "frameRate", cfg.FrameRate)
	if hooks.OnCreate != nil {
		if err := hooks.OnCreate(w); err != nil {
			w.Close()
			return nil, makeHookError("OnCreate", err)
		}
	}
	return w, nil
}

func (w *Window) Config() Config {
	return w.config
}

func (w *Window) Logger() *slog.Logger {
	return w.logger
}

func (w *Window) Display() *Display {
	return w.display
}

func (w *Window) Dispatcher() *Dispatcher {
	return w.dispatcher
}

func (w *Window) Loop() *Loop {
	return &w.loop
}

func (w *Window) Alive() bool {
	return w.loop.alive
}

func (w *Window) Started() bool {
	return w.loop.started
}

// Stop makes Run return after the current tick.
func (w *Window) Stop() {
	w.loop.Stop()
}

func (w *Window) Bind(code EventCode, handler Handler) {
	w.dispatcher.Bind(code, handler)
}

func (w *Window) BindKeys(km KeyMap) {
	w.dispatcher.Bind(EventKeyDown, km.Handler())
}

func (w *Window) Root() Drawable {
	return w.display.Root()
}

func (w *Window) SetRoot(root Drawable) {
	w.display.SetRoot(root)
}

func (w *Window) Title() string {
	return w.display.Title()
}

func (w *Window) SetTitle(title string) {
	w.config.Title = title
	w.display.SetTitle(title)
}

func (w *Window) Geometry() Geometry {
	return w.geometry
}

func (w *Window) Width() int {
	return w.geometry.Width()
}

func (w *Window) Height() int {
	return w.geometry.Height()
}

func (w *Window) Size() Size {
	return w.geometry.Size()
}

func (w *Window) SetWidth(width int) error {
	return w.SetSize(Size{X: width, Y: w.geometry.Height()})
}

func (w *Window) SetHeight(height int) error {
	return w.SetSize(Size{X: w.geometry.Width(), Y: height})
}

// SetSize resizes the render target when the backend supports it and
// updates the geometry on success.
func (w *Window) SetSize(size Size) error {
	if err := w.display.resize(size); err != nil {
		return err
	}
	w.geometry.SetSize(size)
	return nil
}

// trackResize applies a backend resize to the geometry when the
// dispatcher reaches it, so earlier events in the batch see the old size.
func (w *Window) trackResize(ev Event) {
	if ev.Code != EventResize {
		return
	}
	if size := ev.Size(); size.X > 0 && size.Y > 0 {
		w.geometry.SetSize(size)
	}
}

// Exit is the close procedure bound to EventQuit.
func (w *Window) Exit() error {
	w.logger.Debug("Exit", "tick", w.loop.tick)
	if w.hooks.OnExit != nil {
		return makeHookError("OnExit", w.hooks.OnExit(&w.loop))
	}
	w.loop.Stop()
	return nil
}

// Run ticks until the loop is stopped, a hook fails or ctx is done.
// The backend is closed before Run returns.
func (w *Window) Run(ctx context.Context) (err error) {
	if w.closed {
		return ErrBackendClosed
	}
	defer func() {
		if closeErr := w.Close(); err == nil {
			err = closeErr
		}
	}()
	if !w.dispatcher.Bound(EventQuit) {
		w.dispatcher.Bind(EventQuit, func(Event) error {
			return w.Exit()
		})
	}
	for w.loop.alive {
		if err := ctx.Err(); err != nil {
			return err
		}
		start := time.Now()
		if err := w.tick(); err != nil {
			w.logger.Debug("Run", "tick", w.loop.tick, "error", err)
			return err
		}
		if w.loop.alive {
			w.pace(start)
		}
	}
	w.logger.Debug("Run finished", "ticks", w.loop.tick)
	return nil
}

func (w *Window) tick() error {
	w.loop.tick++
	if err := w.display.Show(); err != nil {
		return err
	}
	if !w.loop.started {
		w.loop.started = true
		if w.hooks.OnStart != nil {
			if err := w.hooks.OnStart(&w.loop); err != nil {
				return makeHookError("OnStart", err)
			}
		}
	}
	if _, err := w.dispatcher.PollAndDispatch(); err != nil {
		return err
	}
	if w.hooks.OnUpdate != nil {
		if err := w.hooks.OnUpdate(&w.loop); err != nil {
			return makeHookError("OnUpdate", err)
		}
	}
	return w.display.Present()
}

// pace waits out the rest of the frame when a frame rate is set.
func (w *Window) pace(start time.Time) {
	if w.frameDelay == 0 {
		return
	}
	remaining := w.frameDelay - time.Since(start)
	if remaining <= 0 {
		return
	}
	if waiter, ok := w.backend.(EventWaiter); ok {
		waiter.WaitEvents(remaining)
	} else {
		time.Sleep(remaining)
	}
}

// Close tears down the backend. It is safe to call more than once.
func (w *Window) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	w.loop.alive = false
	return w.backend.Close()
}
