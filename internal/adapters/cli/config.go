package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/railempire-go/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long: `Manage Rail Empire configuration settings.

Configuration is loaded from multiple sources with priority:
1. Environment variables (RE_* prefix)
2. Config file (config.yaml)
3. Default values

Example:
  railempire config show`,
	}
	cmd.AddCommand(newConfigShowCommand())
	return cmd
}

// newConfigShowCommand creates the config show subcommand
func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}

			fmt.Println("Rail Empire Configuration")
			fmt.Println("=========================")

			fmt.Println("Game Server:")
			fmt.Printf("  Host:             %s\n", cfg.Server.Host)
			fmt.Printf("  Port:             %d\n", cfg.Server.Port)
			fmt.Printf("  Timeout:          %ds\n", cfg.Server.Timeout)
			fmt.Printf("  Username:         %s\n", cfg.Server.Username)
			if cfg.Server.Game != "" {
				fmt.Printf("  Game:             %s\n", cfg.Server.Game)
				fmt.Printf("  Players:          %d\n", cfg.Server.NumPlayers)
				fmt.Printf("  Turns:            %d\n", cfg.Server.NumTurns)
			}

			fmt.Println("\nBot:")
			fmt.Printf("  Upgrade Budget:   %.0f%% of armor\n", cfg.Bot.UpgradeBudgetRatio*100)
			fmt.Printf("  Record Runs:      %t\n", cfg.Bot.RecordRuns)

			fmt.Println("\nDatabase:")
			fmt.Printf("  Type:             %s\n", cfg.Database.Type)
			if cfg.Database.Type == "sqlite" {
				path := cfg.Database.Path
				if path == "" {
					path = ":memory:"
				}
				fmt.Printf("  Path:             %s\n", path)
			} else {
				fmt.Printf("  Host:             %s\n", cfg.Database.Host)
				fmt.Printf("  Port:             %d\n", cfg.Database.Port)
				fmt.Printf("  Database:         %s\n", cfg.Database.Name)
				fmt.Printf("  User:             %s\n", cfg.Database.User)
				fmt.Printf("  Max Connections:  %d\n", cfg.Database.Pool.MaxOpen)
			}

			fmt.Println("\nVisualizer:")
			fmt.Printf("  Enabled:          %t\n", cfg.Viz.Enabled)
			fmt.Printf("  Address:          %s\n", cfg.Viz.Address)
			fmt.Printf("  Metrics:          %t\n", cfg.Viz.Metrics)

			fmt.Println("\nLogging:")
			fmt.Printf("  Level:            %s\n", cfg.Logging.Level)
			fmt.Printf("  Output:           %s\n", cfg.Logging.Output)

			return nil
		},
	}
}
