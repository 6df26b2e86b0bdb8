package kafka

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type basketCleared struct {
	BasketID string `json:"basket_id"`
}

func TestNewEvent(t *testing.T) {
	before := time.Now().UTC()
	event, err := NewEvent("ecommerce.basket.cleared", "b-1", "basket", "basket-service", basketCleared{BasketID: "b-1"})
	require.NoError(t, err)

	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, "ecommerce.basket.cleared", event.EventType)
	assert.Equal(t, "b-1", event.AggregateID)
	assert.Equal(t, "basket", event.AggregateType)
	assert.Equal(t, 1, event.Version)
	assert.False(t, event.Timestamp.Before(before))
	assert.JSONEq(t, `{"basket_id":"b-1"}`, string(event.Data))

	other, err := NewEvent("x", "b-1", "basket", "s", nil)
	require.NoError(t, err)
	assert.NotEqual(t, event.EventID, other.EventID)
}

func TestNewEvent_UnencodableData(t *testing.T) {
	_, err := NewEvent("ecommerce.basket.updated", "b-1", "basket", "s", math.Inf(1))
	assert.ErrorContains(t, err, "marshal ecommerce.basket.updated data")
}

func TestEvent_WithCorrelationID(t *testing.T) {
	event := &Event{}
	assert.Equal(t, "corr-1", event.WithCorrelationID("corr-1").CorrelationID)
	assert.Equal(t, "corr-1", event.WithCorrelationID("").CorrelationID)
}

func TestUnmarshalEvent(t *testing.T) {
	event, err := NewEvent("ecommerce.basket.cleared", "b-1", "basket", "basket-service", basketCleared{BasketID: "b-1"})
	require.NoError(t, err)
	raw, err := event.Marshal()
	require.NoError(t, err)

	got, err := UnmarshalEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, event.EventID, got.EventID)
	assert.True(t, event.Timestamp.Equal(got.Timestamp))

	data, err := DecodeData[basketCleared](got)
	require.NoError(t, err)
	assert.Equal(t, "b-1", data.BasketID)
}

func TestUnmarshalEvent_Rejects(t *testing.T) {
	tests := map[string]string{
		"invalid json":  `{{`,
		"no event type": `{"event_id":"e","data":{}}`,
		"no data":       `{"event_id":"e","event_type":"ecommerce.basket.cleared"}`,
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := UnmarshalEvent([]byte(raw))
			assert.Error(t, err)
		})
	}
}

func TestDecodeData_TypeMismatch(t *testing.T) {
	event := &Event{EventType: "ecommerce.basket.cleared", Data: json.RawMessage(`{"basket_id":42}`)}

	_, err := DecodeData[basketCleared](event)
	assert.ErrorContains(t, err, "decode ecommerce.basket.cleared data")
}
