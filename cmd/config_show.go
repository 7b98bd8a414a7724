package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var configShowCmd = &cobra.Command{
	Use:   "config:show",
	Short: "Show the effective configuration",
	Long: `Display the settings pingtray will run with, after defaults and
${VAR} placeholders have been applied.

Example:
  pingtray config:show`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings()
		if err != nil {
			return err
		}

		fmt.Printf("Target: %s\n", settings.ProbeTarget())
		fmt.Println("─────────────────────────────────────")
		fmt.Printf("Method:           %s\n", settings.Method)
		fmt.Printf("Timeout:          %s\n", settings.Timeout)
		fmt.Printf("Interval:         %s\n", settings.Interval)
		fmt.Printf("Slow above:       %s\n", settings.Threshold)

		if settings.ModerateThreshold > 0 {
			fmt.Printf("Moderate up to:   %s\n", settings.ModerateThreshold)
		}

		switch settings.Method {
		case "tcp":
			if settings.TCPPort > 0 {
				fmt.Printf("Port:             %d\n", settings.TCPPort)
			}
		case "http":
			if settings.HTTP.ExpectedStatus > 0 {
				fmt.Printf("Expected Status:  %d\n", settings.HTTP.ExpectedStatus)
			}
			if settings.HTTP.JSONPath != "" {
				fmt.Printf("JSON Assertion:   %s == %q\n", settings.HTTP.JSONPath, settings.HTTP.JSONValue)
			}
		case "icmp":
			fmt.Printf("Privileged:       %t\n", settings.Privileged)
		}

		fmt.Println("\nIcon:")
		fmt.Printf("  Size:      %dpx\n", settings.Icon.Size)
		fmt.Printf("  Font size: %g\n", settings.Icon.FontSize)
		fmt.Printf("  Style:     %s\n", settings.Icon.Style)
		fmt.Printf("  Marker:    %s\n", settings.Icon.Marker)
		if settings.Icon.Font != "" {
			fmt.Printf("  Font:      %s\n", settings.Icon.Font)
		}

		fmt.Printf("\nNotifications:    %t\n", settings.Notify)
		fmt.Printf("Show cause:       %t\n", settings.ShowCause)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(configShowCmd)
}
