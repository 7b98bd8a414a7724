package cmd

import (
	"fmt"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/juststeveking/pingtray/internal/config"
	"github.com/juststeveking/pingtray/internal/probe"
	"github.com/spf13/cobra"
)

var (
	forceInit       bool
	interactiveInit bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize pingtray configuration",
	Long: `Create a new pingtray configuration file at ~/.config/pingtray/config.yml
with sensible defaults. Use --interactive to pick the target, probe method,
interval and threshold from a short form.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Default()

		if interactiveInit {
			if err := runInitForm(cfg); err != nil {
				return err
			}
		}

		if err := config.InitConfig(configPath, cfg, forceInit); err != nil {
			return err
		}

		path := configPath
		if path == "" {
			path, _ = config.GetConfigPath()
		}

		if forceInit {
			fmt.Printf("✓ Configuration reset at %s\n", path)
		} else {
			fmt.Printf("✓ Configuration initialized at %s\n", path)
		}

		fmt.Println("\nEdit the config file if needed, then run:")
		fmt.Println("  pingtray")

		return nil
	},
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "overwrite existing configuration")
	initCmd.Flags().BoolVarP(&interactiveInit, "interactive", "i", false, "answer a few questions instead of writing the defaults")
	rootCmd.AddCommand(initCmd)
}

// runInitForm asks for the main settings and stores the answers in cfg
func runInitForm(cfg *config.Config) error {
	options := make([]huh.Option[string], 0, len(probe.Methods))
	for _, m := range probe.Methods {
		options = append(options, huh.NewOption(m, m))
	}

	validDuration := func(s string) error {
		d, err := time.ParseDuration(s)
		if err != nil {
			return err
		}
		if d <= 0 {
			return fmt.Errorf("must be positive")
		}
		return nil
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Target host").
				Description("Host or IP address to probe").
				Value(&cfg.Target),
			huh.NewSelect[string]().
				Title("Probe method").
				Options(options...).
				Value(&cfg.Method),
		).Title("Target"),
		huh.NewGroup(
			huh.NewInput().
				Title("Poll interval").
				Description("e.g. 20s").
				Validate(validDuration).
				Value(&cfg.Interval),
			huh.NewInput().
				Title("Probe timeout").
				Validate(validDuration).
				Value(&cfg.Timeout),
			huh.NewInput().
				Title("Slow above").
				Description("Latency threshold, e.g. 500ms").
				Validate(validDuration).
				Value(&cfg.Threshold),
			huh.NewConfirm().
				Title("Desktop notifications on changes?").
				Value(&cfg.Notifications.Enabled),
		).Title("Timing"),
	).WithTheme(huh.ThemeCatppuccin()).WithShowHelp(true)

	if err := form.Run(); err != nil {
		return fmt.Errorf("init form: %w", err)
	}
	return nil
}
