package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/juststeveking/pingtray/internal/config"
	"github.com/juststeveking/pingtray/internal/icon"
	"github.com/juststeveking/pingtray/internal/monitor"
	"github.com/juststeveking/pingtray/internal/notify"
	"github.com/juststeveking/pingtray/internal/probe"
	"github.com/juststeveking/pingtray/internal/tray"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
	foreground bool
)

var rootCmd = &cobra.Command{
	Use:   "pingtray",
	Short: "Show your internet connection quality in the system tray",
	Long: `pingtray pings a fixed host in the background and shows the round-trip
time as a coloured badge in the system tray. Green is fast, orange is slow
and a red X means the host did not answer.

Settings live in ~/.config/pingtray/config.yml (run 'pingtray init' to create
one); without a config file the built-in defaults are used.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetPrefix("[pingtray] ")
		log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings()
		if err != nil {
			return err
		}

		if foreground {
			return runForeground(cmd.Context(), settings)
		}
		return runWithTray(cmd.Context(), settings)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default ~/.config/pingtray/config.yml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log probe failures to stderr")
	rootCmd.Flags().BoolVar(&foreground, "foreground", false, "show the status in the terminal instead of the system tray")
}

// loadSettings reads the config file (or defaults) and validates it
func loadSettings() (*config.Settings, error) {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w (run 'pingtray init' to create one)", err)
	}

	settings, err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return settings, nil
}

// diagnostics returns the logger handed to the poll loop
func diagnostics() *log.Logger {
	if !verbose {
		return log.New(io.Discard, "", 0)
	}
	return log.Default()
}

// newMonitor wires the prober, icon renderer and notifier for settings
func newMonitor(settings *config.Settings, icons monitor.IconRenderer) (*monitor.Monitor, error) {
	prober, err := probe.New(settings.Method, probe.Options{
		Port:           settings.TCPPort,
		Privileged:     settings.Privileged,
		ExpectedStatus: settings.HTTP.ExpectedStatus,
		JSONPath:       settings.HTTP.JSONPath,
		JSONValue:      settings.HTTP.JSONValue,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create prober: %w", err)
	}

	mon := monitor.NewMonitor(monitor.Options{
		Target:   settings.ProbeTarget(),
		Timeout:  settings.Timeout,
		Interval: settings.Interval,
		Policy: monitor.Policy{
			Threshold: settings.Threshold,
			Moderate:  settings.ModerateThreshold,
		},
		Renderer: monitor.Renderer{
			Marker:    settings.Icon.Marker,
			ShowCause: settings.ShowCause,
		},
		Icons:  icons,
		Logger: diagnostics(),
	}, prober)

	if settings.Notify {
		mon.AddSink(notify.NewNotifier(true))
	}

	return mon, nil
}

// newIconRenderer builds the badge renderer, falling back to the built-in
// font when the configured one cannot be loaded
func newIconRenderer(settings *config.Settings) *icon.Renderer {
	f, err := icon.FontOrDefault(settings.Icon.Font)
	if err != nil {
		log.Printf("Using built-in font: %v", err)
	}

	return icon.New(icon.Options{
		Size:     settings.Icon.Size,
		FontSize: settings.Icon.FontSize,
		Style:    settings.Icon.Style,
		Font:     f,
		Format:   icon.NativeFormat(),
	})
}

// runWithTray runs the monitor with a system tray icon on the main goroutine.
// systray.Run must occupy the main goroutine on macOS (Cocoa requirement).
func runWithTray(ctx context.Context, settings *config.Settings) error {
	mon, err := newMonitor(settings, newIconRenderer(settings))
	if err != nil {
		return err
	}

	t := tray.New(settings.ProbeTarget(), log.Default())
	mon.AddSink(t)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	onStart := func() {
		mon.Start(ctx)

		// Quit the tray on SIGINT/SIGTERM
		go func() {
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(sigCh)

			select {
			case sig := <-sigCh:
				log.Printf("Received signal %v, shutting down...", sig)
				t.Quit()
			case <-ctx.Done():
			}
		}()
	}

	onExit := func() {
		cancel()
		mon.Stop()
	}

	// This blocks the main goroutine until the tray exits
	t.Run(onStart, onExit)
	return nil
}
