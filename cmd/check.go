package cmd

import (
	"fmt"

	"github.com/juststeveking/pingtray/internal/monitor"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Probe the target once and print the result",
	Long: `Run a single probe with the configured settings and print the tier,
badge and tooltip the tray would show. Exits non-zero when the target is
unreachable.

Example:
  pingtray check
  pingtray check --config ./office.yml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings()
		if err != nil {
			return err
		}

		mon, err := newMonitor(settings, nil)
		if err != nil {
			return err
		}

		ds, ok := mon.Poll(cmd.Context())
		if !ok {
			return cmd.Context().Err()
		}

		fmt.Printf("Target:   %s (%s)\n", ds.Target, settings.Method)
		fmt.Printf("Tier:     %s\n", ds.Tier)
		fmt.Printf("Badge:    %s (%s)\n", ds.Glyph, ds.Color)
		fmt.Printf("Tooltip:  %s\n", ds.Tooltip)
		if ds.Cause != "" {
			fmt.Printf("Cause:    %s\n", ds.Cause)
		}

		if ds.Tier == monitor.TierUnreachable {
			return fmt.Errorf("%s is unreachable", ds.Target)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
