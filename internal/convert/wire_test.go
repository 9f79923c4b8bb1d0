package convert

import (
	"encoding/json"
	"testing"

	"github.com/and161185/starostahub/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventFromWire_NestedGroup(t *testing.T) {
	t.Parallel()

	raw := json.RawMessage(`{"id":"11","name":"Lecture","url":"https://meet","date":"2024-05-01","time":"10:00:00",
		"weekday":2,"recurring":true,"recurring_until":"2024-06-01","is_active":true,
		"group":{"id":3,"name":"G1","starosta":null,"students":[]}}`)
	ev, err := EventFromWire(raw)
	require.NoError(t, err)
	require.NotNil(t, ev.ID)
	assert.Equal(t, model.ID(11), *ev.ID)
	assert.Equal(t, model.ID(3), ev.Group)
	require.NotNil(t, ev.Weekday)
	assert.Equal(t, 2, *ev.Weekday)
	require.NotNil(t, ev.RecurringUntil)
	assert.Equal(t, "2024-06-01", *ev.RecurringUntil)
}

func TestEventFromWire_GroupVariants(t *testing.T) {
	t.Parallel()

	ev, err := EventFromWire(json.RawMessage(`{"id":1,"group":"4"}`))
	require.NoError(t, err)
	assert.Equal(t, model.ID(4), ev.Group)

	ev, err = EventFromWire(json.RawMessage(`{"id":1,"group":null}`))
	require.NoError(t, err)
	assert.Equal(t, model.ID(0), ev.Group)

	ev, err = EventFromWire(json.RawMessage(`{"id":1}`))
	require.NoError(t, err)
	assert.Equal(t, model.ID(0), ev.Group)

	_, err = EventFromWire(json.RawMessage(`{"id":1,"group":true}`))
	assert.Error(t, err)
}

func TestEventsFromWire(t *testing.T) {
	t.Parallel()

	evs, err := EventsFromWire(json.RawMessage(`[{"id":1,"name":"a","group":2},{"id":1,"name":"a","date":"2024-05-08","group":2}]`))
	require.NoError(t, err)
	require.Len(t, evs, 2)
	assert.Equal(t, "2024-05-08", evs[1].Date)

	_, err = EventsFromWire(json.RawMessage(`{"id":1}`))
	assert.Error(t, err)

	_, err = EventsFromWire(json.RawMessage(`[{"id":"x"}]`))
	assert.Error(t, err)
}

func TestFlattenErrors(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"a", "b", "c"}, FlattenErrors(json.RawMessage(`[["a","b"],["c"]]`)))
	assert.Equal(t, []string{"a", "c"}, FlattenErrors(json.RawMessage(`["a","c"]`)))
	assert.Equal(t, []string{"a", "b", "c"}, FlattenErrors(json.RawMessage(`["a",["b","c"],7]`)))
	assert.Equal(t, []string{"Group not found"}, FlattenErrors(json.RawMessage(`"Group not found"`)))
	assert.Nil(t, FlattenErrors(json.RawMessage(`{}`)))
}

func TestErrorsFromEnvelopeData(t *testing.T) {
	t.Parallel()

	msgs, msg := ErrorsFromEnvelopeData([]byte(`{"data":{"errors":[["Email is taken"],["Password too short"]]},"message":null}`))
	assert.Equal(t, []string{"Email is taken", "Password too short"}, msgs)
	assert.Empty(t, msg)

	msgs, msg = ErrorsFromEnvelopeData([]byte(`{"data":null,"message":"Bad request"}`))
	assert.Nil(t, msgs)
	assert.Equal(t, "Bad request", msg)

	msgs, msg = ErrorsFromEnvelopeData([]byte(`<html>`))
	assert.Nil(t, msgs)
	assert.Empty(t, msg)
}
