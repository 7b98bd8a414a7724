package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/juststeveking/pingtray/internal/config"
	"github.com/juststeveking/pingtray/internal/tui"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Show the connection status in the terminal",
	Long: `Run the monitor with a terminal dashboard instead of the system tray.
Useful over SSH or on machines without a notification area.

Same as 'pingtray --foreground'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings()
		if err != nil {
			return err
		}
		return runForeground(cmd.Context(), settings)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

// runForeground runs the monitor with the terminal dashboard, blocking until
// the user quits or a signal arrives
func runForeground(ctx context.Context, settings *config.Settings) error {
	mon, err := newMonitor(settings, nil)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	shell := tui.New(tui.Info{
		Target:    settings.ProbeTarget(),
		Method:    settings.Method,
		Interval:  settings.Interval,
		Threshold: settings.Threshold,
	}, cancel)
	mon.AddSink(shell)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGTERM)
		defer signal.Stop(sigCh)

		select {
		case <-sigCh:
			shell.Quit()
		case <-ctx.Done():
		}
	}()

	return shell.Run(func() {
		mon.Start(ctx)
	}, func() {
		cancel()
		mon.Stop()
	})
}
