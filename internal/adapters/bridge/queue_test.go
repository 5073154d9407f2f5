package bridge_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/railempire-go/internal/adapters/bridge"
)

func TestQueue_CoalescesLatestWinsTags(t *testing.T) {
	// Arrange
	q := bridge.NewQueue()

	// Act: three dynamic snapshots before the consumer wakes up
	q.Publish(bridge.TagMapDynamic, json.RawMessage(`{"tick":1}`))
	q.Publish(bridge.TagMapDynamic, json.RawMessage(`{"tick":2}`))
	q.Publish(bridge.TagMapDynamic, json.RawMessage(`{"tick":3}`))
	messages := q.Drain()

	// Assert: only the latest survives
	require.Len(t, messages, 1)
	assert.Equal(t, bridge.TagMapDynamic, messages[0].Tag)
	assert.JSONEq(t, `{"tick":3}`, string(messages[0].Payload))
}

func TestQueue_LosslessTagsKeepEveryMessage(t *testing.T) {
	// Arrange
	q := bridge.NewQueue()

	// Act: the board, the coordinates and the end of the game each keep
	// their own tag so the consumer can tell the bodies apart
	q.Publish(bridge.TagMapStatic, json.RawMessage(`{"lines":[]}`))
	q.Publish(bridge.TagMapCoords, json.RawMessage(`{"coordinates":[]}`))
	q.Publish(bridge.TagGameOver, nil)
	messages := q.Drain()

	// Assert
	require.Len(t, messages, 3)
	assert.Equal(t, bridge.TagMapStatic, messages[0].Tag)
	assert.Equal(t, bridge.TagMapCoords, messages[1].Tag)
	assert.JSONEq(t, `{"coordinates":[]}`, string(messages[1].Payload))
	assert.Equal(t, bridge.TagGameOver, messages[2].Tag)
}

func TestQueue_MixedDrainOrder(t *testing.T) {
	// Arrange
	q := bridge.NewQueue()
	q.PublishStatus("hello")
	q.Publish(bridge.TagMapStatic, json.RawMessage(`{}`))
	q.PublishStatus("world")

	// Act
	messages := q.Drain()

	// Assert: lossless backlog first, then the coalesced status
	require.Len(t, messages, 2)
	assert.Equal(t, bridge.TagMapStatic, messages[0].Tag)
	assert.Equal(t, bridge.TagStatusText, messages[1].Tag)
	assert.JSONEq(t, `"world"`, string(messages[1].Payload))
}

func TestQueue_NotifiesWaiter(t *testing.T) {
	// Arrange
	q := bridge.NewQueue()

	// Act
	q.PublishStatus("tick")

	// Assert
	select {
	case <-q.Wait():
	default:
		t.Fatal("expected a pending notification")
	}
}

func TestQueue_DropsAfterClose(t *testing.T) {
	// Arrange
	q := bridge.NewQueue()
	q.Close()

	// Act
	q.PublishStatus("late")

	// Assert
	assert.True(t, q.Closed())
	assert.Empty(t, q.Drain())
}

func TestQueue_DrainEmptiesState(t *testing.T) {
	// Arrange
	q := bridge.NewQueue()
	q.Publish(bridge.TagMapDynamic, json.RawMessage(`{}`))
	require.Len(t, q.Drain(), 1)

	// Act / Assert
	assert.Empty(t, q.Drain())
}
