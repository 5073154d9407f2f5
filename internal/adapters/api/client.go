package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/andrescamacho/railempire-go/internal/domain/shared"
	"github.com/andrescamacho/railempire-go/internal/domain/world"
)

// Map layers
const (
	LayerStatic  = 0
	LayerDynamic = 1
	LayerCoords  = 10
)

// LoginRequest is the LOGIN body. Optional fields are omitted from the
// wire when unset, matching what the server expects.
type LoginRequest struct {
	Name       string `json:"name"`
	Password   string `json:"password,omitempty"`
	Game       string `json:"game,omitempty"`
	NumPlayers int    `json:"num_players,omitempty"`
	NumTurns   int    `json:"num_turns,omitempty"`
}

// TownRef is the town reference inside LOGIN and PLAYER responses
type TownRef struct {
	Idx      int    `json:"idx"`
	Name     string `json:"name"`
	PointIdx int    `json:"point_idx"`
}

// PlayerResponse is the LOGIN and PLAYER response body
type PlayerResponse struct {
	Idx    string  `json:"idx"`
	Name   string  `json:"name"`
	Rating int     `json:"rating"`
	Town   TownRef `json:"town"`
}

// GameInfo is one entry of the GAMES listing
type GameInfo struct {
	Name       string `json:"name"`
	NumPlayers int    `json:"num_players"`
	NumTurns   int    `json:"num_turns"`
	State      int    `json:"state"`
}

// GamesResponse is the GAMES response body
type GamesResponse struct {
	Games []GameInfo `json:"games"`
}

type moveRequest struct {
	LineIdx  int `json:"line_idx"`
	Speed    int `json:"speed"`
	TrainIdx int `json:"train_idx"`
}

type upgradeRequest struct {
	Posts  []int `json:"posts"`
	Trains []int `json:"trains"`
}

type mapRequest struct {
	Layer int `json:"layer"`
}

// Client exposes one typed operation per protocol action. All
// operations propagate server errors as *shared.BadServerResponse with
// the server's message verbatim; transport failures are fatal for the
// run and surface unwrapped.
type Client struct {
	transport *Transport
}

// NewClient creates a client over the given transport
func NewClient(transport *Transport) *Client {
	return &Client{transport: transport}
}

// Connect dials the game server; must precede Login
func (c *Client) Connect(ctx context.Context, host string, port int) error {
	return c.transport.Connect(ctx, host, port)
}

// Login authenticates the player. The name must be non-empty; password,
// game, num_players and num_turns ride along only when set.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*PlayerResponse, error) {
	if req.Name == "" {
		return nil, shared.NewConfigError("username", "is missing")
	}
	body, err := c.call(ctx, ActionLogin, req)
	if err != nil {
		return nil, err
	}
	var player PlayerResponse
	if err := json.Unmarshal(body, &player); err != nil {
		return nil, fmt.Errorf("failed to decode login response: %w", err)
	}
	return &player, nil
}

// Logout ends the session and closes the connection
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.call(ctx, ActionLogout, nil)
	closeErr := c.transport.Close()
	if err != nil {
		return err
	}
	return closeErr
}

// MoveTrain places a train on a line with the given speed for the next
// turn
func (c *Client) MoveTrain(ctx context.Context, lineIdx, speed, trainIdx int) error {
	if speed < -1 || speed > 1 {
		return fmt.Errorf("invalid speed %d: must be -1, 0 or 1", speed)
	}
	_, err := c.call(ctx, ActionMove, moveRequest{LineIdx: lineIdx, Speed: speed, TrainIdx: trainIdx})
	return err
}

// Upgrade levels up the given posts and trains; either list may be empty
func (c *Client) Upgrade(ctx context.Context, posts, trains []int) error {
	if posts == nil {
		posts = []int{}
	}
	if trains == nil {
		trains = []int{}
	}
	_, err := c.call(ctx, ActionUpgrade, upgradeRequest{Posts: posts, Trains: trains})
	return err
}

// Turn forces the next game tick; the call blocks until the server has
// advanced
func (c *Client) Turn(ctx context.Context) error {
	_, err := c.call(ctx, ActionTurn, nil)
	return err
}

// Player fetches the player record
func (c *Client) Player(ctx context.Context) (*PlayerResponse, error) {
	body, err := c.call(ctx, ActionPlayer, nil)
	if err != nil {
		return nil, err
	}
	var player PlayerResponse
	if err := json.Unmarshal(body, &player); err != nil {
		return nil, fmt.Errorf("failed to decode player response: %w", err)
	}
	return &player, nil
}

// Games lists the games known to the server
func (c *Client) Games(ctx context.Context) (*GamesResponse, error) {
	body, err := c.call(ctx, ActionGames, nil)
	if err != nil {
		return nil, err
	}
	var games GamesResponse
	if err := json.Unmarshal(body, &games); err != nil {
		return nil, fmt.Errorf("failed to decode games response: %w", err)
	}
	return &games, nil
}

// MapStatic fetches layer 0: points and lines. The raw body is returned
// alongside the parsed form so it can be forwarded verbatim.
func (c *Client) MapStatic(ctx context.Context) (*world.MapStatic, json.RawMessage, error) {
	body, err := c.call(ctx, ActionMap, mapRequest{Layer: LayerStatic})
	if err != nil {
		return nil, nil, err
	}
	var m world.MapStatic
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, nil, fmt.Errorf("failed to decode static map: %w", err)
	}
	return &m, body, nil
}

// MapDynamic fetches layer 1: posts, trains and ratings
func (c *Client) MapDynamic(ctx context.Context) (*world.MapDynamic, json.RawMessage, error) {
	body, err := c.call(ctx, ActionMap, mapRequest{Layer: LayerDynamic})
	if err != nil {
		return nil, nil, err
	}
	var m world.MapDynamic
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, nil, fmt.Errorf("failed to decode dynamic map: %w", err)
	}
	return &m, body, nil
}

// MapCoords fetches layer 10: point coordinates for the visualizer
func (c *Client) MapCoords(ctx context.Context) (*world.MapCoords, json.RawMessage, error) {
	body, err := c.call(ctx, ActionMap, mapRequest{Layer: LayerCoords})
	if err != nil {
		return nil, nil, err
	}
	var m world.MapCoords
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, nil, fmt.Errorf("failed to decode coordinates: %w", err)
	}
	return &m, body, nil
}

// Close tears the connection down without a LOGOUT
func (c *Client) Close() error {
	return c.transport.Close()
}

func (c *Client) call(ctx context.Context, action Action, body interface{}) ([]byte, error) {
	status, payload, err := c.transport.Call(ctx, action, body)
	if err != nil {
		return nil, err
	}
	if status != StatusOK {
		return nil, shared.NewBadServerResponse(status, serverError(payload))
	}
	return payload, nil
}

// serverError extracts the error message from a non-OK response body
func serverError(payload []byte) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return string(payload)
	}
	return body.Error
}
