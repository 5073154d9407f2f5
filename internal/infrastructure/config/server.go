package config

// ServerConfig holds the game server connection and session settings
type ServerConfig struct {
	Host string `mapstructure:"host" validate:"required"`
	Port int    `mapstructure:"port" validate:"required,min=1,max=65535"`

	// Socket timeout in seconds; 0 disables the deadline
	Timeout int `mapstructure:"timeout" validate:"min=0"`

	Username string `mapstructure:"username" validate:"required"`
	Password string `mapstructure:"password"`

	// Optional game selection for multiplayer sessions
	Game       string `mapstructure:"game"`
	NumPlayers int    `mapstructure:"num_players" validate:"min=0"`
	NumTurns   int    `mapstructure:"num_turns" validate:"min=0"`
}
