package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/railempire-go/internal/adapters/api"
	"github.com/andrescamacho/railempire-go/internal/infrastructure/config"
)

// NewGamesCommand creates the games command
func NewGamesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "games",
		Short: "List games known to the server",
		Long: `Connect to the game server and list the available games with their
player counts and state.

Example:
  railempire games`,
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

			games, err := client.Games(ctx)
			if err != nil {
				return err
			}

			if len(games.Games) == 0 {
				fmt.Println("No games available.")
				return nil
			}
			fmt.Printf("%-24s %-10s %-10s %s\n", "NAME", "PLAYERS", "TURNS", "STATE")
			for _, g := range games.Games {
				fmt.Printf("%-24s %-10d %-10d %s\n", g.Name, g.NumPlayers, g.NumTurns, gameStateName(g.State))
			}
			return nil
		},
	}
}

func gameStateName(state int) string {
	switch state {
	case 1:
		return "INIT"
	case 2:
		return "RUN"
	case 3:
		return "FINISHED"
	}
	return fmt.Sprintf("UNKNOWN(%d)", state)
}
