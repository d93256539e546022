// Package kafka moves notifications over Kafka: intents go out to the mail
// relay as JSON envelopes, open receipts come back on a second topic.
package kafka

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/notification"
)

const (
	EventNotificationRequested = "NotificationRequested"
	EventNotificationOpened    = "NotificationOpened"

	envelopeVersion = 1
)

// Envelope is the wire wrapper shared by both topics.
type Envelope struct {
	EventID       string          `json:"eventId"`
	EventType     string          `json:"eventType"`
	EventVersion  int             `json:"eventVersion"`
	OccurredAt    time.Time       `json:"occurredAt"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlationId,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

// NotificationPayload is what the mail relay needs to send one message.
type NotificationPayload struct {
	IntentID  string   `json:"intentId"`
	Tag       string   `json:"tag"`
	Category  string   `json:"category"`
	To        string   `json:"to"`
	CC        []string `json:"cc,omitempty"`
	Subject   string   `json:"subject"`
	HTML      string   `json:"html"`
	OrderID   string   `json:"orderId,omitempty"`
	OpenPixel string   `json:"openPixel,omitempty"`
}

// OpenedPayload is a receipt reported by the mail relay.
type OpenedPayload struct {
	IntentID string    `json:"intentId"`
	OpenedAt time.Time `json:"openedAt"`
}

func newNotificationPayload(intent *notification.Intent, pixelBaseURL string) NotificationPayload {
	p := NotificationPayload{
		IntentID: intent.ID().String(),
		Tag:      string(intent.Tag()),
		Category: string(intent.Category()),
		To:       intent.Recipient(),
		CC:       intent.CC(),
		Subject:  intent.Subject(),
		HTML:     intent.Body(),
	}
	if id := intent.OrderID(); id != nil {
		p.OrderID = id.String()
	}
	if pixelBaseURL != "" {
		p.OpenPixel = fmt.Sprintf("%s/notifications/%s/open", strings.TrimRight(pixelBaseURL, "/"), p.IntentID)
	}
	return p
}

func encode(eventType, producer, correlationID string, at time.Time, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", eventType, err)
	}
	return json.Marshal(Envelope{
		EventID:       newEventID(),
		EventType:     eventType,
		EventVersion:  envelopeVersion,
		OccurredAt:    at.UTC(),
		Producer:      producer,
		CorrelationID: correlationID,
		Payload:       raw,
	})
}

// decodePayload unwraps an envelope of the expected type.
func decodePayload[T any](b []byte, eventType string) (T, error) {
	var zero T
	var env Envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return zero, fmt.Errorf("decode envelope: %w", err)
	}
	if env.EventType != eventType {
		return zero, fmt.Errorf("unexpected event type %q, want %q", env.EventType, eventType)
	}
	var payload T
	if err := json.Unmarshal(env.Payload, &payload); err != nil {
		return zero, fmt.Errorf("decode %s payload: %w", eventType, err)
	}
	return payload, nil
}
