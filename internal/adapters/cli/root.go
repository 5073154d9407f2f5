package cli

import (
	"errors"
	"fmt"
	"net"
	"os"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/railempire-go/internal/domain/shared"
)

// Exit codes
const (
	ExitOK        = 0
	ExitError     = 1
	ExitProtocol  = 2
	ExitTransport = 3
)

var (
	// Global flags
	configPath string
	verbose    bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "railempire",
		Short: "Rail Empire bot - autonomous client for the train empire game",
		Long: `Rail Empire bot connects to a game server, drives the player's trains
and streams the game to the visualizer.

Examples:
  railempire play
  railempire play --config ./configs/config.yaml
  railempire games
  railempire player
  railempire config show`,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose output")

	rootCmd.AddCommand(NewPlayCommand())
	rootCmd.AddCommand(NewGamesCommand())
	rootCmd.AddCommand(NewPlayerCommand())
	rootCmd.AddCommand(NewConfigCommand())

	return rootCmd
}

// Execute runs the root command and maps errors to exit codes: 2 for
// protocol and configuration failures, 3 for transport failures
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	var badResponse *shared.BadServerResponse
	var configErr *shared.ConfigError
	if errors.As(err, &badResponse) || errors.As(err, &configErr) {
		return ExitProtocol
	}
	var notConnected *shared.NotConnectedError
	var netErr net.Error
	if errors.As(err, &notConnected) || errors.As(err, &netErr) {
		return ExitTransport
	}
	return ExitError
}
