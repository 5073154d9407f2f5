package shared

import "fmt"

// DomainError is the base error type for all domain errors
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

// Protocol errors

// BadServerResponse carries a non-OK status and the server's error message
// decoded from the response body
type BadServerResponse struct {
	Status  int
	Message string
}

func (e *BadServerResponse) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server responded with status %d (%s)", e.Status, StatusName(e.Status))
	}
	return fmt.Sprintf("server responded with status %d (%s): %s", e.Status, StatusName(e.Status), e.Message)
}

func NewBadServerResponse(status int, message string) *BadServerResponse {
	return &BadServerResponse{Status: status, Message: message}
}

// StatusName maps a wire status code to its protocol name
func StatusName(status int) string {
	switch status {
	case 0:
		return "OK"
	case 1:
		return "BAD_COMMAND"
	case 2:
		return "RESOURCE_NOT_FOUND"
	case 3:
		return "ACCESS_DENIED"
	case 4:
		return "NOT_READY"
	case 5:
		return "TIMEOUT"
	case 500:
		return "INTERNAL_SERVER_ERROR"
	}
	return "UNKNOWN"
}

// Transport errors

type NotConnectedError struct {
	*DomainError
}

func NewNotConnectedError() *NotConnectedError {
	return &NotConnectedError{DomainError: &DomainError{Message: "connection is not established"}}
}

// Configuration errors

type ConfigError struct {
	*DomainError
	Field string
}

func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{
		DomainError: &DomainError{Message: fmt.Sprintf("%s: %s", field, message)},
		Field:       field,
	}
}

// Game errors

// GameOverError signals normal termination after a GAME_OVER event
type GameOverError struct {
	*DomainError
	Tick int
}

func NewGameOverError(tick int) *GameOverError {
	return &GameOverError{
		DomainError: &DomainError{Message: fmt.Sprintf("game over at tick %d", tick)},
		Tick:        tick,
	}
}
