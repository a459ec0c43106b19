package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/enigmacurry/glcd/internal/cliconfig"
	"github.com/enigmacurry/glcd/pkg/lcd"
	logAdapter "github.com/enigmacurry/glcd/pkg/log"
)

const helpDescription = `
Drive a SparkFun Graphic LCD Serial Backpack without overrunning its buffer.

Highlights:
  - Paces output to the device's real absorption rate (heartbeat + quantum).
  - Bypass mode for text-only use where buffering never matters.
  - Configure via file, env (GLCD_*), or flags.
  - Runs a demonstration drawing sequence against the attached screen.

The backpack only has ~416 bytes of on-board buffering and silently drops
data when it overflows. Tune --heartbeat and --quantum to taste.
`

var longHelp = strings.TrimSpace(helpDescription)

var exampleUsage = strings.TrimSpace(`
  glcd --device /dev/ttyUSB0
  glcd --device /dev/rfcomm0 --baud 115200 --quantum 0 --once
  glcd --config $HOME/.glcd/config.toml --watch-config
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string
	var watchConfig bool

	zl := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	root := &cobra.Command{
		Use:     "glcd",
		Short:   "Drive a SparkFun Graphic LCD Serial Backpack without overrunning its buffer",
		Long:    longHelp,
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Load config file first (default $HOME/.glcd/config.toml),
			// then env, then flag overrides.
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			// Build set of changed flags
			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			// Apply environment variables (GLCD_*)
			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			zl.Info().Interface("config", cfg).Msg("configuration")

			logger := logAdapter.NewZerologAdapterWithLogger(zl)

			l, err := lcd.Open(cfg.Device, cfg.Baud, lcd.Config{
				Width:     cfg.Width,
				Height:    cfg.Height,
				Heartbeat: cfg.Heartbeat,
				Quantum:   cfg.Quantum,
			}, lcd.WithLogger(logger), lcd.WithEnqueueWait(cfg.EnqueueWait))
			if err != nil {
				return err
			}
			defer l.Close()

			if err := l.Start(); err != nil {
				return fmt.Errorf("start: %w", err)
			}
			if err := l.InitDisplay(); err != nil {
				return fmt.Errorf("init display: %w", err)
			}
			if err := l.SetBacklight(cfg.Backlight); err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			if watchConfig && cfgFile != "" {
				watcher := cliconfig.NewConfigWatcher(cfgFile, func(fc cliconfig.FileConfig) {
					if fc.Backlight == nil {
						return
					}
					if err := l.SetBacklight(*fc.Backlight); err != nil {
						zl.Warn().Err(err).Int("backlight", *fc.Backlight).
							Msg("failed to apply backlight from config")
					}
				}, logger)
				go watcher.Run(ctx)
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			demoErr := make(chan error, 1)
			go func() { demoErr <- runDemo(ctx, l, cfg.Once) }()

			select {
			case <-sigCh:
				zl.Info().Msg("received signal, flushing buffer and quitting...")
				cancel()
				<-demoErr
			case err := <-demoErr:
				if err != nil && !errors.Is(err, context.Canceled) {
					_ = l.Stop()
					return err
				}
			}

			// Leave the screen clean, then let Stop drain whatever the
			// queue still holds.
			if err := l.InitDisplay(); err != nil && !errors.Is(err, lcd.ErrNotRunning) {
				zl.Warn().Err(err).Msg("failed to reset display")
			}
			if err := l.Stop(); err != nil {
				return fmt.Errorf("stop: %w", err)
			}
			return nil
		},
	}

	// Flags
	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.glcd/config.toml)")
	root.Flags().StringVar(&cfg.Device, "device", cfg.Device, "serial device, e.g. /dev/ttyUSB0")
	root.Flags().IntVar(&cfg.Baud, "baud", cfg.Baud, "serial baud rate")
	root.Flags().IntVar(&cfg.Width, "width", cfg.Width, "screen width in pixels")
	root.Flags().IntVar(&cfg.Height, "height", cfg.Height, "screen height in pixels")
	root.Flags().DurationVar(&cfg.Heartbeat, "heartbeat", cfg.Heartbeat, "interval between paced flushes")
	root.Flags().IntVar(&cfg.Quantum, "quantum", cfg.Quantum, "bytes flushed per heartbeat and queue capacity (0 disables buffering)")
	root.Flags().DurationVar(&cfg.EnqueueWait, "enqueue-wait", cfg.EnqueueWait, "maximum wait for queue space before failing a send")
	root.Flags().IntVar(&cfg.Backlight, "backlight", cfg.Backlight, "backlight level 0-100")
	root.Flags().BoolVar(&cfg.Once, "once", cfg.Once, "run the demo sequence once and exit")
	root.Flags().BoolVar(&watchConfig, "watch-config", false, "apply backlight changes from the config file while running")

	if err := root.Execute(); err != nil {
		zl.Error().Err(err).Msg("glcd")
		os.Exit(1)
	}
}

// runDemo draws the demonstration sequence until ctx is canceled, or once
// if once is set.
func runDemo(ctx context.Context, l *lcd.LCD, once bool) error {
	for {
		if err := demoPass(l); err != nil {
			return err
		}
		if once {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
}

// demoPass exercises most of the command set: text, circles, boxes, lines,
// character positioning, and a wipe.
func demoPass(l *lcd.LCD) error {
	if err := l.Clear(); err != nil {
		return err
	}
	if err := l.Type("Just a silly test..."); err != nil {
		return err
	}
	for x := 20; x < 30; x += 2 {
		if err := l.Circle(x, x, 10, true); err != nil {
			return err
		}
	}
	for x := 1; x < 30; x += 2 {
		if err := l.Box(45, 10, 45+x, 10+x); err != nil {
			return err
		}
	}
	for x := 1; x < 30; x += 2 {
		if err := l.Line(80+x, 10, 80+x, 40, true); err != nil {
			return err
		}
	}
	for x := 1; x < 30; x += 2 {
		if err := l.Line(80, 10+x, 110, 10+x, true); err != nil {
			return err
		}
	}
	if err := l.SetCharPosition(l.Rows()-1, 10); err != nil {
		return err
	}
	if err := l.Type("See ya :)"); err != nil {
		return err
	}
	w, h := l.Size()
	for x := 0; x < w; x++ {
		if err := l.Line(x, 0, x, h-1, true); err != nil {
			return err
		}
	}
	for r := 0; r < h/2; r++ {
		if err := l.Circle(w/2, h/2, r, false); err != nil {
			return err
		}
	}
	return nil
}
