// Package convert maps remote wire shapes onto domain models.
package convert

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/and161185/starostahub/internal/model"
)

// --- events ---

// wireEvent is an event as returned by the remote service: the group is
// either a nested group object or a bare identifier.
type wireEvent struct {
	ID             *model.ID       `json:"id"`
	Name           string          `json:"name"`
	URL            string          `json:"url"`
	Date           string          `json:"date"`
	Time           string          `json:"time"`
	Weekday        *int            `json:"weekday"`
	Recurring      bool            `json:"recurring"`
	RecurringUntil *string         `json:"recurring_until"`
	IsActive       bool            `json:"is_active"`
	Group          json.RawMessage `json:"group"`
}

// EventFromWire decodes a single remote event.
func EventFromWire(raw json.RawMessage) (model.Event, error) {
	var w wireEvent
	if err := json.Unmarshal(raw, &w); err != nil {
		return model.Event{}, fmt.Errorf("decode event: %w", err)
	}
	gid, err := groupRef(w.Group)
	if err != nil {
		return model.Event{}, err
	}
	return model.Event{
		ID:             w.ID,
		Name:           w.Name,
		URL:            w.URL,
		Date:           w.Date,
		Time:           w.Time,
		Weekday:        w.Weekday,
		Recurring:      w.Recurring,
		RecurringUntil: w.RecurringUntil,
		IsActive:       w.IsActive,
		Group:          gid,
	}, nil
}

// EventsFromWire decodes a list of remote events, keeping server order.
func EventsFromWire(raw json.RawMessage) ([]model.Event, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}
	out := make([]model.Event, 0, len(items))
	for i, it := range items {
		ev, err := EventFromWire(it)
		if err != nil {
			return nil, fmt.Errorf("event[%d]: %w", i, err)
		}
		out = append(out, ev)
	}
	return out, nil
}

func groupRef(raw json.RawMessage) (model.ID, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, nil
	}
	if raw[0] == '{' {
		var g struct {
			ID model.ID `json:"id"`
		}
		if err := json.Unmarshal(raw, &g); err != nil {
			return 0, fmt.Errorf("decode event group: %w", err)
		}
		return g.ID, nil
	}
	var id model.ID
	if err := id.UnmarshalJSON(raw); err != nil {
		return 0, fmt.Errorf("decode event group: %w", err)
	}
	return id, nil
}

// --- validation errors ---

// FlattenErrors turns the remote error list into display lines.
// Accepts [["a","b"],["c"]], ["a","c"] and mixes of both; other values are skipped.
func FlattenErrors(raw json.RawMessage) []string {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		var one string
		if json.Unmarshal(raw, &one) == nil && one != "" {
			return []string{one}
		}
		return nil
	}
	var out []string
	for _, it := range items {
		var s string
		if json.Unmarshal(it, &s) == nil {
			out = append(out, s)
			continue
		}
		var ss []string
		if json.Unmarshal(it, &ss) == nil {
			out = append(out, ss...)
		}
	}
	return out
}

// ErrorsFromEnvelopeData extracts data.errors from an error response body.
func ErrorsFromEnvelopeData(body []byte) (messages []string, message string) {
	var env struct {
		Data struct {
			Errors json.RawMessage `json:"errors"`
		} `json:"data"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, ""
	}
	if len(env.Data.Errors) > 0 {
		messages = FlattenErrors(env.Data.Errors)
	}
	return messages, env.Message
}
