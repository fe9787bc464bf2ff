package main

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/cellux/winloop"
	"github.com/cellux/winloop/glbackend"
)

var (
	flagTitle      string
	flagWidth      int
	flagHeight     int
	flagFrameRate  int
	flagBackground winloop.Color
	flagLogLevel   string
	flagResizable  bool
)

var rootCmd = &cobra.Command{
	Use:          "winloop [config.yml]",
	Short:        "Open a window and run its event loop",
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := winloop.DefaultConfig()
		if len(args) == 1 {
			var err error
			cfg, err = winloop.LoadConfig(args[0])
			if err != nil {
				return err
			}
		}
		flags := cmd.Flags()
		if flags.Changed("title") {
			cfg.Title = flagTitle
		}
		if flags.Changed("width") {
			cfg.Width = flagWidth
		}
		if flags.Changed("height") {
			cfg.Height = flagHeight
		}
		if flags.Changed("fps") {
			cfg.FrameRate = flagFrameRate
		}
		if flags.Changed("background") {
			cfg.Background = flagBackground
		}
		if flags.Changed("log-level") {
			cfg.LogLevel = flagLogLevel
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		logger, err := winloop.NewLogger(os.Stderr, cfg.LogLevel)
		if err != nil {
			return err
		}
		slog.SetDefault(logger)
		cfg.Logger = logger

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return runDemo(ctx, cfg, flagResizable)
	},
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&flagTitle, "title", "winloop", "window title")
	flags.IntVar(&flagWidth, "width", 500, "window width")
	flags.IntVar(&flagHeight, "height", 500, "window height")
	flags.IntVar(&flagFrameRate, "fps", 60, "frame rate, 0 for unpaced")
	flagBackground = winloop.White
	flags.Var(&flagBackground, "background", "background color (#rrggbb)")
	flags.StringVar(&flagLogLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flags.BoolVar(&flagResizable, "resizable", true, "allow the window to be resized")
}

func runDemo(ctx context.Context, cfg winloop.Config, resizable bool) error {
	backend, err := glbackend.New(glbackend.Options{
		Resizable: resizable,
		Logger:    cfg.Logger,
	})
	if err != nil {
		return err
	}
	scene := newScene()
	window, err := winloop.NewWindow(backend, cfg, winloop.Hooks{
		OnCreate: scene.create,
		OnStart:  scene.start,
		OnUpdate: scene.update,
	})
	if err != nil {
		return err
	}
	return window.Run(ctx)
}

type scene struct {
	window  *winloop.Window
	logger  *slog.Logger
	font    *winloop.Font
	banner  *winloop.Rect
	title   *winloop.Text
	status  *winloop.Text
	typed   *winloop.Text
	started time.Time
}

func newScene() *scene {
	return &scene{}
}

func (s *scene) create(w *winloop.Window) error {
	font, err := winloop.DefaultFont()
	if err != nil {
		return err
	}
	s.window = w
	s.logger = w.Logger()
	s.font = font
	fg := contrast(w.Display().Background())
	s.banner = &winloop.Rect{
		Bounds: image.Rect(0, 0, w.Width(), 48),
		Color:  winloop.Color{R: 0x30, G: 0x60, B: 0xa0},
	}
	s.title = &winloop.Text{Font: font, Size: 20, String: w.Title(), Color: winloop.White, At: image.Pt(12, 10)}
	s.status = &winloop.Text{Font: font, Size: 14, Color: fg, At: image.Pt(12, 64)}
	s.typed = &winloop.Text{Font: font, Size: 14, Color: fg, At: image.Pt(12, 88)}
	w.SetRoot(winloop.Group{s.banner, s.title, s.status, s.typed})

	km := winloop.CreateKeyMap()
	km.Bind("Escape", w.Exit)
	km.Bind("C-q", w.Exit)
	km.Bind("C-l", func() error {
		s.typed.String = ""
		return nil
	})
	w.BindKeys(km)
	w.Bind(winloop.EventChar, func(ev winloop.Event) error {
		s.typed.String += string(ev.Char())
		return nil
	})
	w.Bind(winloop.EventMouseButtonDown, func(ev winloop.Event) error {
		m := ev.Mouse()
		s.logger.Info("click", "button", m.Button, "x", m.X, "y", m.Y)
		return nil
	})
	w.Bind(winloop.EventResize, func(ev winloop.Event) error {
		s.banner.Bounds = image.Rect(0, 0, w.Width(), 48)
		return nil
	})
	return nil
}

func (s *scene) start(l *winloop.Loop) error {
	s.started = time.Now()
	s.logger.Info("started", "title", s.window.Title(), "size", s.window.Size())
	return nil
}

func (s *scene) update(l *winloop.Loop) error {
	elapsed := time.Since(s.started).Seconds()
	fps := 0.0
	if elapsed > 0 {
		fps = float64(l.Tick()) / elapsed
	}
	s.status.String = fmt.Sprintf("tick %d  %.1f fps  %dx%d", l.Tick(), fps, s.window.Width(), s.window.Height())
	return nil
}

func contrast(bg winloop.Color) winloop.Color {
	luma := 299*int(bg.R) + 587*int(bg.G) + 114*int(bg.B)
	if luma > 128*1000 {
		return winloop.Black
	}
	return winloop.White
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
