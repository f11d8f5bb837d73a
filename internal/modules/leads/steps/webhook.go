package steps

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyPayload    = errors.New("payload must be a non-empty array of events")
	ErrNotArray        = errors.New("payload must be a JSON array")
	ErrIncompleteEvent = errors.New("event requires objectTypeId, objectId and occurredAt")
)

// flexString decodes a JSON string or number into its text form. HubSpot sends ids and
// timestamps as numbers; other senders quote them.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", string(b))
	}
	*f = flexString(n.String())
	return nil
}

// WebhookEvent is one element of the CRM notification array. Only the identifying fields are
// required; the rest are carried for logging.
type WebhookEvent struct {
	ObjectTypeID     string `json:"objectTypeId"`
	ObjectID         string `json:"objectId"`
	OccurredAt       string `json:"occurredAt"`
	EventID          string `json:"eventId,omitempty"`
	SubscriptionType string `json:"subscriptionType,omitempty"`
	PropertyName     string `json:"propertyName,omitempty"`
	PortalID         string `json:"portalId,omitempty"`
}

func (e *WebhookEvent) UnmarshalJSON(b []byte) error {
	var wire struct {
		ObjectTypeID     flexString `json:"objectTypeId"`
		ObjectID         flexString `json:"objectId"`
		OccurredAt       flexString `json:"occurredAt"`
		EventID          flexString `json:"eventId"`
		SubscriptionType flexString `json:"subscriptionType"`
		PropertyName     flexString `json:"propertyName"`
		PortalID         flexString `json:"portalId"`
	}
	if err := json.Unmarshal(b, &wire); err != nil {
		return err
	}
	*e = WebhookEvent{
		ObjectTypeID:     string(wire.ObjectTypeID),
		ObjectID:         string(wire.ObjectID),
		OccurredAt:       string(wire.OccurredAt),
		EventID:          string(wire.EventID),
		SubscriptionType: string(wire.SubscriptionType),
		PropertyName:     string(wire.PropertyName),
		PortalID:         string(wire.PortalID),
	}
	return nil
}

func (e WebhookEvent) complete() bool {
	return e.ObjectTypeID != "" && e.ObjectID != "" && e.OccurredAt != ""
}

// ParseWebhook decodes the first event of the notification array and reports how many events
// the batch carried. Only the first event is validated and acted on; later elements are counted
// but never decoded, since the sender batches unrelated changes and retries the whole batch on
// failure.
func ParseWebhook(raw []byte) (WebhookEvent, int, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return WebhookEvent{}, 0, ErrEmptyPayload
	}
	if raw[0] != '[' {
		return WebhookEvent{}, 0, ErrNotArray
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return WebhookEvent{}, 0, fmt.Errorf("decode payload: %w", err)
	}
	if len(elems) == 0 {
		return WebhookEvent{}, 0, ErrEmptyPayload
	}
	var first WebhookEvent
	if err := json.Unmarshal(elems[0], &first); err != nil {
		return WebhookEvent{}, 0, fmt.Errorf("decode event 0: %w", err)
	}
	if !first.complete() {
		return WebhookEvent{}, 0, fmt.Errorf("event 0: %w", ErrIncompleteEvent)
	}
	return first, len(elems), nil
}

// ObjectTypeName maps HubSpot numeric object type ids to the path segment the objects API expects.
// Unknown values pass through, which covers custom objects addressed by id.
func ObjectTypeName(objectTypeID string) string {
	switch strings.TrimSpace(objectTypeID) {
	case "0-1":
		return "contacts"
	case "0-2":
		return "companies"
	case "0-3":
		return "deals"
	case "0-5":
		return "tickets"
	}
	return strings.TrimSpace(objectTypeID)
}
