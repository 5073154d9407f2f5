package api

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
)

// Action is a wire request code
type Action int32

const (
	ActionLogin   Action = 1
	ActionLogout  Action = 2
	ActionMove    Action = 3
	ActionUpgrade Action = 4
	ActionTurn    Action = 5
	ActionPlayer  Action = 6
	ActionGames   Action = 7
	ActionMap     Action = 10
)

// Response statuses as sent by the server
const (
	StatusOK                  = 0
	StatusBadCommand          = 1
	StatusResourceNotFound    = 2
	StatusAccessDenied        = 3
	StatusNotReady            = 4
	StatusTimeout             = 5
	StatusInternalServerError = 500
)

const frameHeaderSize = 8

// EncodeRequest packs a request frame:
// <action:i32 LE><length:i32 LE><body JSON>. A nil body encodes a
// zero-length frame.
func EncodeRequest(action Action, body interface{}) ([]byte, error) {
	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		payload = data
	}
	frame := make([]byte, frameHeaderSize+len(payload))
	binary.LittleEndian.PutUint32(frame[0:4], uint32(action))
	binary.LittleEndian.PutUint32(frame[4:8], uint32(len(payload)))
	copy(frame[frameHeaderSize:], payload)
	return frame, nil
}

// DecodeRequest unpacks a request frame; the inverse of EncodeRequest.
// Used by test doubles standing in for the game server.
func DecodeRequest(r io.Reader) (Action, []byte, error) {
	action, body, err := readFrame(r)
	return Action(action), body, err
}

// ReadResponse unpacks a response frame:
// <status:i32 LE><length:i32 LE><body JSON>. The body is read in full
// even when it spans several reads; a partial frame is an error, never
// a short result.
func ReadResponse(r io.Reader) (status int, body []byte, err error) {
	return readFrame(r)
}

func readFrame(r io.Reader) (int, []byte, error) {
	header := make([]byte, frameHeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return 0, nil, fmt.Errorf("failed to read frame header: %w", err)
	}
	code := int(int32(binary.LittleEndian.Uint32(header[0:4])))
	length := int(int32(binary.LittleEndian.Uint32(header[4:8])))
	if length < 0 {
		return 0, nil, fmt.Errorf("invalid frame length %d", length)
	}
	if length == 0 {
		return code, nil, nil
	}
	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		return 0, nil, fmt.Errorf("failed to read frame body (%d bytes): %w", length, err)
	}
	return code, body, nil
}
