package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/railempire-go/internal/adapters/api"
	"github.com/andrescamacho/railempire-go/internal/adapters/bridge"
	"github.com/andrescamacho/railempire-go/internal/adapters/metrics"
	"github.com/andrescamacho/railempire-go/internal/adapters/persistence"
	"github.com/andrescamacho/railempire-go/internal/adapters/viz"
	"github.com/andrescamacho/railempire-go/internal/application/bot"
	"github.com/andrescamacho/railempire-go/internal/domain/graph"
	"github.com/andrescamacho/railempire-go/internal/domain/planning"
	"github.com/andrescamacho/railempire-go/internal/domain/world"
	"github.com/andrescamacho/railempire-go/internal/infrastructure/config"
	"github.com/andrescamacho/railempire-go/internal/infrastructure/database"
)

// NewPlayCommand creates the play command: login, run the bot until
// game over, logout
func NewPlayCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Connect to the game server and run the bot",
		Long: `Connect to the game server, log in and drive the player's trains
until the game ends or the process is interrupted.

Example:
  railempire play --config ./configs/config.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			return runPlay(cmd.Context(), cfg)
		},
	}
}

func runPlay(parent context.Context, cfg *config.Config) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	client := api.NewClient(api.NewTransport(cfg.Server.Timeout))
	if err := client.Connect(ctx, cfg.Server.Host, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to connect to %s:%d: %w", cfg.Server.Host, cfg.Server.Port, err)
	}
	defer func() { _ = client.Close() }()

	player, err := client.Login(ctx, api.LoginRequest{
		Name:       cfg.Server.Username,
		Password:   cfg.Server.Password,
		Game:       cfg.Server.Game,
		NumPlayers: cfg.Server.NumPlayers,
		NumTurns:   cfg.Server.NumTurns,
	})
	if err != nil {
		return err
	}
	log.Printf("Logged in as %s (player %s)", player.Name, player.Idx)

	queue := bridge.NewQueue()
	if id, err := json.Marshal(player.Idx); err == nil {
		queue.Publish(bridge.TagPlayerID, id)
	}

	state := world.NewState(player.Idx)
	static, rawStatic, err := client.MapStatic(ctx)
	if err != nil {
		return err
	}
	if err := state.ApplyStatic(static); err != nil {
		return fmt.Errorf("invalid static map: %w", err)
	}
	queue.Publish(bridge.TagMapStatic, rawStatic)

	// Point coordinates are optional; older servers do not serve layer 10
	if _, rawCoords, err := client.MapCoords(ctx); err == nil {
		queue.Publish(bridge.TagMapCoords, rawCoords)
	} else {
		log.Printf("Coordinates unavailable: %v", err)
	}

	snapshot, rawDynamic, err := client.MapDynamic(ctx)
	if err != nil {
		return err
	}
	if err := state.ApplyDynamic(snapshot); err != nil {
		return fmt.Errorf("invalid dynamic map: %w", err)
	}
	queue.Publish(bridge.TagMapDynamic, rawDynamic)

	var observer bot.Observer
	if cfg.Viz.Enabled && cfg.Viz.Metrics {
		metrics.InitRegistry()
		collector := metrics.NewBotMetricsCollector()
		if err := collector.Register(); err != nil {
			return fmt.Errorf("failed to register metrics: %w", err)
		}
		observer = collector
	}

	var recorder bot.RunRecorder
	if cfg.Bot.RecordRuns {
		db, err := database.NewConnection(&cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer func() { _ = database.Close(db) }()
		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		repo := persistence.NewGormRunRepository(db)
		server := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		if err := repo.StartRun(ctx, player.Idx, player.Name, server); err != nil {
			return err
		}
		recorder = repo
	}

	engine := graph.NewEngine(state)
	planner := planning.NewPlanner(state, engine)
	executor := bot.NewExecutor(client, state, engine, planner, queue, recorder, observer)
	executor.SetUpgradeBudgetRatio(cfg.Bot.UpgradeBudgetRatio)

	if cfg.Viz.Enabled {
		server := viz.NewServer(queue, cfg.Viz.Address, cfg.Viz.Metrics)
		go func() {
			if err := server.Run(ctx); err != nil {
				log.Printf("Visualizer server failed: %v", err)
			}
		}()
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signals)
	go func() {
		select {
		case sig := <-signals:
			log.Printf("Received %s, shutting down", sig)
			executor.Stop()
		case <-ctx.Done():
		}
	}()

	return executor.Run(ctx)
}
