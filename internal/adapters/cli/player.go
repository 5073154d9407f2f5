package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/railempire-go/internal/adapters/api"
	"github.com/andrescamacho/railempire-go/internal/infrastructure/config"
)

// NewPlayerCommand creates the player command
func NewPlayerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "player",
		Short: "Log in and show the player record",
		Long: `Connect to the game server, log in with the configured credentials
and print the player record.

Example:
  railempire player`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			client := api.NewClient(api.NewTransport(cfg.Server.Timeout))
			if err := client.Connect(ctx, cfg.Server.Host, cfg.Server.Port); err != nil {
				return fmt.Errorf("failed to connect to %s:%d: %w", cfg.Server.Host, cfg.Server.Port, err)
			}
			defer func() { _ = client.Close() }()

			if _, err := client.Login(ctx, api.LoginRequest{
				Name:     cfg.Server.Username,
				Password: cfg.Server.Password,
				Game:     cfg.Server.Game,
			}); err != nil {
				return err
			}
			defer func() { _ = client.Logout(ctx) }()

			player, err := client.Player(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("Player:  %s (%s)\n", player.Name, player.Idx)
			fmt.Printf("Rating:  %d\n", player.Rating)
			fmt.Printf("Town:    %s (post %d at point %d)\n", player.Town.Name, player.Town.Idx, player.Town.PointIdx)
			return nil
		},
	}
}
