package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/oms-platform/claim-service/internal/application"
	"github.com/oms-platform/claim-service/pkg/cloudevents"
	"github.com/oms-platform/claim-service/pkg/kafka"
	"github.com/oms-platform/claim-service/pkg/logging"
)

// ShippingUpdater is the application surface the consumer drives
type ShippingUpdater interface {
	UpdateReturnShipping(ctx context.Context, cmd application.UpdateReturnShippingCommand) (*application.ClaimDTO, error)
}

// EventConsumer is the Kafka consumer surface the tracking consumer needs.
// Both the instrumented and circuit breaker consumers satisfy it.
type EventConsumer interface {
	Subscribe(topic string, eventType string, handler kafka.EventHandler)
	Start(ctx context.Context) error
	Close() error
}

// CarrierTrackingConsumer applies carrier tracking pushes from the Kafka
// tracking topic onto claim return shipping. It covers carriers that
// integrate through the event bus rather than the HTTP webhook.
type CarrierTrackingConsumer struct {
	consumer EventConsumer
	service  ShippingUpdater
	logger   *logging.Logger
}

// NewCarrierTrackingConsumer creates a new CarrierTrackingConsumer
func NewCarrierTrackingConsumer(
	consumer EventConsumer,
	service ShippingUpdater,
	logger *logging.Logger,
) *CarrierTrackingConsumer {
	c := &CarrierTrackingConsumer{
		consumer: consumer,
		service:  service,
		logger:   logger,
	}

	consumer.Subscribe(kafka.Topics.CarrierTracking, cloudevents.CarrierTrackingUpdated, c.handleTrackingUpdate)

	return c
}

// Start begins consuming tracking events. Blocks until ctx is cancelled.
func (c *CarrierTrackingConsumer) Start(ctx context.Context) error {
	c.logger.Info("Starting carrier tracking consumer", "topic", kafka.Topics.CarrierTracking)
	return c.consumer.Start(ctx)
}

// Close stops the underlying consumer
func (c *CarrierTrackingConsumer) Close() error {
	return c.consumer.Close()
}

func (c *CarrierTrackingConsumer) handleTrackingUpdate(ctx context.Context, event *cloudevents.ClaimCloudEvent) error {
	data, err := decodeTrackingData(event)
	if err != nil {
		// Malformed payloads are logged and dropped; retrying cannot fix them
		c.logger.WithError(err).Error("Dropping malformed carrier tracking event",
			"eventId", event.ID,
			"eventType", event.Type)
		return nil
	}

	cmd := application.UpdateReturnShippingCommand{
		ClaimID:        data.ClaimID,
		Status:         data.Status,
		TrackingNumber: data.TrackingNumber,
	}

	if _, err := c.service.UpdateReturnShipping(ctx, cmd); err != nil {
		c.logger.WithError(err).Error("Failed to apply carrier tracking update",
			"claimId", data.ClaimID,
			"status", data.Status)
		return err
	}

	c.logger.Info("Carrier tracking update applied",
		"claimId", data.ClaimID,
		"status", data.Status,
		"trackingNumber", data.TrackingNumber)

	return nil
}

// decodeTrackingData extracts the typed payload from a consumed event. The
// generic JSON decode on the consumer side leaves Data as map[string]interface{}.
func decodeTrackingData(event *cloudevents.ClaimCloudEvent) (*cloudevents.CarrierTrackingData, error) {
	raw, err := json.Marshal(event.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to re-encode event data: %w", err)
	}

	var data cloudevents.CarrierTrackingData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to decode tracking data: %w", err)
	}

	if data.ClaimID == "" {
		return nil, fmt.Errorf("tracking event %s has no claim ID", event.ID)
	}
	if data.Status == "" {
		return nil, fmt.Errorf("tracking event %s has no status", event.ID)
	}

	return &data, nil
}
