package api_test

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/railempire-go/internal/adapters/api"
)

func TestEncodeRequest_MoveFrame(t *testing.T) {
	// Arrange
	body := struct {
		LineIdx  int `json:"line_idx"`
		Speed    int `json:"speed"`
		TrainIdx int `json:"train_idx"`
	}{LineIdx: 12, Speed: 1, TrainIdx: 1}

	// Act
	frame, err := api.EncodeRequest(api.ActionMove, body)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []byte{0x03, 0x00, 0x00, 0x00}, frame[0:4])
	payload := frame[8:]
	assert.Equal(t, uint32(len(payload)), binary.LittleEndian.Uint32(frame[4:8]))
	assert.JSONEq(t, `{"line_idx":12,"speed":1,"train_idx":1}`, string(payload))
}

func TestEncodeRequest_NilBody(t *testing.T) {
	// Act
	frame, err := api.EncodeRequest(api.ActionTurn, nil)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []byte{0x05, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}, frame)
}

func TestDecodeRequest_RoundTrip(t *testing.T) {
	// Arrange
	frame, err := api.EncodeRequest(api.ActionLogin, map[string]string{"name": "Boris"})
	require.NoError(t, err)

	// Act
	action, body, err := api.DecodeRequest(bytes.NewReader(frame))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, api.ActionLogin, action)
	assert.JSONEq(t, `{"name":"Boris"}`, string(body))
}

func TestReadResponse_ZeroLengthBody(t *testing.T) {
	// Arrange
	frame := []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}

	// Act
	status, body, err := api.ReadResponse(bytes.NewReader(frame))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, api.StatusOK, status)
	assert.Nil(t, body)
}

func TestReadResponse_BodySpansReads(t *testing.T) {
	// Arrange: a reader that hands out one byte at a time
	payload := []byte(`{"error":"access denied"}`)
	frame := make([]byte, 8+len(payload))
	binary.LittleEndian.PutUint32(frame[0:4], uint32(api.StatusAccessDenied))
	binary.LittleEndian.PutUint32(frame[4:8], uint32(len(payload)))
	copy(frame[8:], payload)
	reader := &byteAtATimeReader{data: frame}

	// Act
	status, body, err := api.ReadResponse(reader)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, api.StatusAccessDenied, status)
	assert.Equal(t, payload, body)
}

func TestReadResponse_TruncatedBody(t *testing.T) {
	// Arrange: header promises 10 bytes, only 3 follow
	frame := make([]byte, 8+3)
	binary.LittleEndian.PutUint32(frame[4:8], 10)

	// Act
	_, _, err := api.ReadResponse(bytes.NewReader(frame))

	// Assert
	assert.Error(t, err)
}

func TestReadResponse_NegativeLength(t *testing.T) {
	// Arrange
	frame := make([]byte, 8)
	binary.LittleEndian.PutUint32(frame[4:8], 0xFFFFFFFF)

	// Act
	_, _, err := api.ReadResponse(bytes.NewReader(frame))

	// Assert
	assert.Error(t, err)
}

type byteAtATimeReader struct {
	data []byte
	pos  int
}

func (r *byteAtATimeReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	p[0] = r.data[r.pos]
	r.pos++
	return 1, nil
}
