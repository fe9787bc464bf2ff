package winloop

import (
	"context"
	"errors"
	"image"
	"io"
	"log/slog"
	"reflect"
	"testing"
	"time"
)

// recordingBackend logs the backend calls made by a window.
type recordingBackend struct {
	*Headless
	calls []string
}

func newRecordingBackend() *recordingBackend {
	return &recordingBackend{Headless: NewHeadless()}
}

func (b *recordingBackend) record(call string) {
	b.calls = append(b.calls, call)
}

func (b *recordingBackend) Fill(target Target, c Color) {
	b.record("fill")
	b.Headless.Fill(target, c)
}

func (b *recordingBackend) Present(target Target) error {
	b.record("present")
	return b.Headless.Present(target)
}

func (b *recordingBackend) PollEvents() []Event {
	b.record("poll")
	return b.Headless.PollEvents()
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 32, 24
	cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return cfg
}

func TestWindowCreate(t *testing.T) {
	b := NewHeadless()
	created := 0
	cfg := testConfig()
	cfg.Title = "hello"
	cfg.Background = Color{1, 2, 3}
	w, err := NewWindow(b, cfg, Hooks{
		OnCreate: func(w *Window) error {
			created++
			if !w.Alive() || w.Started() {
				t.Errorf("alive=%v started=%v during OnCreate", w.Alive(), w.Started())
			}
			return nil
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if created != 1 {
		t.Errorf("OnCreate ran %d times", created)
	}
	if b.Title() != "hello" || w.Title() != "hello" {
		t.Errorf("title %q / %q", b.Title(), w.Title())
	}
	if w.Size() != (Size{X: 32, Y: 24}) || b.Frame().Bounds().Size() != w.Size() {
		t.Errorf("size %v, frame %v", w.Size(), b.Frame().Bounds())
	}
	if w.Display().Background() != (Color{1, 2, 3}) {
		t.Errorf("background %v", w.Display().Background())
	}
}

func TestWindowCreateFailure(t *testing.T) {
	b := NewHeadless()
	b.MaxSize = Size{X: 16, Y: 16}
	_, err := NewWindow(b, testConfig(), Hooks{})
	var initErr *InitError
	if !errors.As(err, &initErr) {
		t.Fatalf("got %v, want InitError", err)
	}
	if !errors.Is(err, ErrInvalidSize) {
		t.Errorf("got %v, want ErrInvalidSize", err)
	}
}

func TestWindowOnCreateError(t *testing.T) {
	b := NewHeadless()
	boom := errors.New("boom")
	_, err := NewWindow(b, testConfig(), Hooks{
		OnCreate: func(*Window) error { return boom },
	})
	var hookErr *HookError
	if !errors.As(err, &hookErr) || hookErr.Hook != "OnCreate" || !errors.Is(err, boom) {
		t.Fatalf("got %v", err)
	}
	if !b.Closed() {
		t.Error("backend should be closed")
	}
}

func TestTickOrder(t *testing.T) {
	b := newRecordingBackend()
	w, err := NewWindow(b, testConfig(), Hooks{
		OnStart: func(l *Loop) error {
			b.record("start")
			return nil
		},
		OnUpdate: func(l *Loop) error {
			b.record("update")
			if l.Tick() == 2 {
				l.Stop()
			}
			return nil
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	want := []string{
		"fill", "start", "poll", "update", "present",
		"fill", "poll", "update", "present",
	}
	if !reflect.DeepEqual(b.calls, want) {
		t.Errorf("calls %v\nwant  %v", b.calls, want)
	}
	if !b.Closed() {
		t.Error("backend should be closed after Run")
	}
}

func TestOnStartFiresOnce(t *testing.T) {
	for _, n := range []uint64{2, 3, 10} {
		starts := 0
		w, err := NewWindow(NewHeadless(), testConfig(), Hooks{
			OnStart: func(*Loop) error {
				starts++
				return nil
			},
			OnUpdate: func(l *Loop) error {
				if l.Tick() == n {
					l.Stop()
				}
				return nil
			},
		})
		if err != nil {
			t.Fatal(err)
		}
		if err := w.Run(context.Background()); err != nil {
			t.Fatal(err)
		}
		if starts != 1 {
			t.Errorf("%d ticks: OnStart ran %d times", n, starts)
		}
		if w.Loop().Tick() != n {
			t.Errorf("ran %d ticks, want %d", w.Loop().Tick(), n)
		}
	}
}

func TestStopInUpdateCompletesTick(t *testing.T) {
	b := NewHeadless()
	updates := 0
	w, err := NewWindow(b, testConfig(), Hooks{
		OnUpdate: func(l *Loop) error {
			updates++
			if updates == 3 {
				l.Stop()
			}
			return nil
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if updates != 3 || b.Presented() != 3 {
		t.Errorf("updates=%d presented=%d, want 3 and 3", updates, b.Presented())
	}
}

func TestQuitEventStopsLoop(t *testing.T) {
	const quit = EventUser + 7
	b := NewHeadless()
	w, err := NewWindow(b, testConfig(), Hooks{
		OnCreate: func(w *Window) error {
			w.Bind(quit, func(Event) error {
				w.Stop()
				return nil
			})
			return nil
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	// tick 1 polls nothing, tick 2 polls the quit event
	b.Push()
	b.Push(Event{Code: quit})
	if err := w.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if b.Presented() != 2 {
		t.Errorf("presented %d frames, want 2", b.Presented())
	}
}

func TestDefaultExitOnQuit(t *testing.T) {
	b := newRecordingBackend()
	w, err := NewWindow(b, testConfig(), Hooks{})
	if err != nil {
		t.Fatal(err)
	}
	b.Push(Event{Code: EventQuit})
	if err := w.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	want := []string{"fill", "poll", "present"}
	if !reflect.DeepEqual(b.calls, want) {
		t.Errorf("calls %v, want %v", b.calls, want)
	}
	if w.Alive() || !b.Closed() {
		t.Errorf("alive=%v closed=%v", w.Alive(), b.Closed())
	}
}

func TestOnExitOverride(t *testing.T) {
	b := NewHeadless()
	exits := 0
	w, err := NewWindow(b, testConfig(), Hooks{
		OnExit: func(l *Loop) error {
			exits++
			if exits == 2 {
				l.Stop()
			}
			return nil
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	b.Push(Event{Code: EventQuit})
	b.Push(Event{Code: EventQuit})
	if err := w.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if exits != 2 || b.Presented() != 2 {
		t.Errorf("exits=%d presented=%d", exits, b.Presented())
	}
}

func TestHookErrorAbortsRun(t *testing.T) {
	boom := errors.New("boom")
	cases := []struct {
		name  string
		hooks Hooks
		hook  string
		// frames presented before the failure
		presented int
	}{
		{"start", Hooks{OnStart: func(*Loop) error { return boom }}, "OnStart", 0},
		{"update", Hooks{OnUpdate: func(l *Loop) error {
			if l.Tick() == 2 {
				return boom
			}
			return nil
		}}, "OnUpdate", 1},
		{"exit", Hooks{OnExit: func(*Loop) error { return boom }}, "OnExit", 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := NewHeadless()
			b.Push(Event{Code: EventKeyDown})
			b.Push(Event{Code: EventQuit})
			w, err := NewWindow(b, testConfig(), tc.hooks)
			if err != nil {
				t.Fatal(err)
			}
			err = w.Run(context.Background())
			var hookErr *HookError
			if !errors.As(err, &hookErr) || hookErr.Hook != tc.hook || !errors.Is(err, boom) {
				t.Fatalf("got %v", err)
			}
			if b.Presented() != tc.presented {
				t.Errorf("presented %d, want %d", b.Presented(), tc.presented)
			}
			if !b.Closed() {
				t.Error("backend should be closed")
			}
		})
	}
}

func TestRunHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	w, err := NewWindow(NewHeadless(), testConfig(), Hooks{
		OnUpdate: func(l *Loop) error {
			if l.Tick() == 4 {
				cancel()
			}
			return nil
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	err = w.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v", err)
	}
	if w.Loop().Tick() != 4 {
		t.Errorf("ran %d ticks, want 4", w.Loop().Tick())
	}
	if err := w.Run(context.Background()); !errors.Is(err, ErrBackendClosed) {
		t.Errorf("second Run: got %v", err)
	}
}

func TestResizeEventUpdatesGeometry(t *testing.T) {
	b := NewHeadless()
	var seen Size
	w, err := NewWindow(b, testConfig(), Hooks{
		OnUpdate: func(l *Loop) error {
			l.Stop()
			return nil
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	w.Bind(EventResize, func(ev Event) error {
		seen = w.Size()
		return nil
	})
	b.Push(Event{Code: EventResize, Payload: Size{X: 64, Y: 48}})
	if err := w.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if seen != (Size{X: 64, Y: 48}) || w.Width() != 64 || w.Height() != 48 {
		t.Errorf("seen %v, geometry %v", seen, w.Size())
	}
}

func TestWindowSetSizeResizesTarget(t *testing.T) {
	b := NewHeadless()
	w, err := NewWindow(b, testConfig(), Hooks{})
	if err != nil {
		t.Fatal(err)
	}
	if err := w.SetWidth(40); err != nil {
		t.Fatal(err)
	}
	if err := w.SetHeight(30); err != nil {
		t.Fatal(err)
	}
	if w.Size() != (Size{X: 40, Y: 30}) || b.Frame().Bounds().Size() != w.Size() {
		t.Errorf("size %v, frame %v", w.Size(), b.Frame().Bounds())
	}
	if err := w.SetSize(Size{X: 0, Y: 10}); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("got %v", err)
	}
	if w.Size() != (Size{X: 40, Y: 30}) {
		t.Errorf("failed resize changed geometry to %v", w.Size())
	}
}

func TestFramePacingUsesWaiter(t *testing.T) {
	b := NewHeadless()
	cfg := testConfig()
	cfg.FrameRate = 1
	w, err := NewWindow(b, cfg, Hooks{
		OnUpdate: func(l *Loop) error {
			if l.Tick() == 3 {
				l.Stop()
			}
			return nil
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	// no wait after the last tick
	if b.Waited() < time.Second || b.Waited() > 2*time.Second {
		t.Errorf("waited %v", b.Waited())
	}
}

func TestShowDrawsRoot(t *testing.T) {
	b := NewHeadless()
	cfg := testConfig()
	cfg.Background = Color{10, 20, 30}
	w, err := NewWindow(b, cfg, Hooks{
		OnUpdate: func(l *Loop) error {
			l.Stop()
			return nil
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	w.SetRoot(&Rect{Bounds: image.Rect(0, 0, 4, 4), Color: Color{200, 0, 0}})
	var frame *image.RGBA
	b.OnPresent = func(f *image.RGBA) {
		frame = f
	}
	if err := w.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := frame.RGBAAt(1, 1); got != rgba(Color{200, 0, 0}) {
		t.Errorf("root pixel %v", got)
	}
	if got := frame.RGBAAt(20, 20); got != rgba(Color{10, 20, 30}) {
		t.Errorf("background pixel %v", got)
	}
}

func TestResizeAppliesInBatchOrder(t *testing.T) {
	b := NewHeadless()
	w, err := NewWindow(b, testConfig(), Hooks{
		OnUpdate: func(l *Loop) error {
			l.Stop()
			return nil
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	var beforeResize, afterResize Size
	w.Bind(EventKeyDown, func(Event) error {
		beforeResize = w.Size()
		return nil
	})
	w.Bind(EventChar, func(Event) error {
		afterResize = w.Size()
		return nil
	})
	b.Push(
		Event{Code: EventKeyDown},
		Event{Code: EventResize, Payload: Size{X: 64, Y: 48}},
		Event{Code: EventChar, Payload: 'a'},
	)
	if err := w.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if beforeResize != (Size{X: 32, Y: 24}) {
		t.Errorf("event queued before the resize saw %v", beforeResize)
	}
	if afterResize != (Size{X: 64, Y: 48}) {
		t.Errorf("event queued after the resize saw %v", afterResize)
	}
}

func TestNewWindowClosesBackendOnFailure(t *testing.T) {
	icon := image.NewRGBA(image.Rect(0, 0, 1, 1))
	cases := []struct {
		name    string
		backend interface {
			Backend
			Closed() bool
		}
		cfg func(*Config)
	}{
		{"invalid config", NewHeadless(), func(c *Config) { c.Width = 0 }},
		{"target", &Headless{MaxSize: Size{X: 8, Y: 8}}, func(*Config) {}},
		{"icon", &failingBackend{Headless: NewHeadless(), iconErr: errors.New("no icon")}, func(c *Config) { c.Icon = icon }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig()
			tc.cfg(&cfg)
			if _, err := NewWindow(tc.backend, cfg, Hooks{}); err == nil {
				t.Fatal("expected an error")
			}
			if !tc.backend.Closed() {
				t.Error("backend left open")
			}
		})
	}
}

func TestLoggerFromConfigLevel(t *testing.T) {
	cfg := testConfig()
	cfg.Logger = nil
	cfg.LogLevel = "error"
	w, err := NewWindow(NewHeadless(), cfg, Hooks{})
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if w.Logger().Enabled(ctx, slog.LevelWarn) || !w.Logger().Enabled(ctx, slog.LevelError) {
		t.Error("logger does not follow log_level")
	}
}
