package messaging

import (
	"context"
	"errors"
	"testing"

	"github.com/oms-platform/claim-service/internal/application"
	"github.com/oms-platform/claim-service/pkg/cloudevents"
	"github.com/oms-platform/claim-service/pkg/kafka"
	"github.com/oms-platform/claim-service/pkg/logging"
)

// fakeEventConsumer records subscriptions so handlers can be invoked directly
type fakeEventConsumer struct {
	handlers map[string]map[string]kafka.EventHandler
	started  bool
	closed   bool
}

func newFakeEventConsumer() *fakeEventConsumer {
	return &fakeEventConsumer{handlers: make(map[string]map[string]kafka.EventHandler)}
}

func (f *fakeEventConsumer) Subscribe(topic string, eventType string, handler kafka.EventHandler) {
	if f.handlers[topic] == nil {
		f.handlers[topic] = make(map[string]kafka.EventHandler)
	}
	f.handlers[topic][eventType] = handler
}

func (f *fakeEventConsumer) Start(ctx context.Context) error {
	f.started = true
	<-ctx.Done()
	return ctx.Err()
}

func (f *fakeEventConsumer) Close() error {
	f.closed = true
	return nil
}

type fakeShippingUpdater struct {
	commands []application.UpdateReturnShippingCommand
	err      error
}

func (f *fakeShippingUpdater) UpdateReturnShipping(ctx context.Context, cmd application.UpdateReturnShippingCommand) (*application.ClaimDTO, error) {
	f.commands = append(f.commands, cmd)
	if f.err != nil {
		return nil, f.err
	}
	return &application.ClaimDTO{ClaimID: cmd.ClaimID}, nil
}

func newTrackingEvent(data interface{}) *cloudevents.ClaimCloudEvent {
	return &cloudevents.ClaimCloudEvent{
		SpecVersion: "1.0",
		Type:        cloudevents.CarrierTrackingUpdated,
		Source:      "/oms/carrier-gateway",
		ID:          "evt-1",
		Data:        data,
	}
}

func TestNewCarrierTrackingConsumer_SubscribesToTrackingTopic(t *testing.T) {
	consumer := newFakeEventConsumer()
	updater := &fakeShippingUpdater{}
	logger := logging.New(logging.DefaultConfig("test"))

	NewCarrierTrackingConsumer(consumer, updater, logger)

	if consumer.handlers[kafka.Topics.CarrierTracking] == nil {
		t.Fatalf("expected subscription on %s", kafka.Topics.CarrierTracking)
	}
	if consumer.handlers[kafka.Topics.CarrierTracking][cloudevents.CarrierTrackingUpdated] == nil {
		t.Fatalf("expected handler for %s", cloudevents.CarrierTrackingUpdated)
	}
}

func TestHandleTrackingUpdate_AppliesShippingUpdate(t *testing.T) {
	consumer := newFakeEventConsumer()
	updater := &fakeShippingUpdater{}
	logger := logging.New(logging.DefaultConfig("test"))

	NewCarrierTrackingConsumer(consumer, updater, logger)
	handler := consumer.handlers[kafka.Topics.CarrierTracking][cloudevents.CarrierTrackingUpdated]

	// Consumed events carry Data as a generic map after JSON decoding
	event := newTrackingEvent(map[string]interface{}{
		"claimId":        "CLM-abc12345",
		"trackingNumber": "1234567890",
		"carrier":        "CJGLS",
		"status":         "IN_TRANSIT",
	})

	if err := handler(context.Background(), event); err != nil {
		t.Fatalf("handler error = %v", err)
	}

	if len(updater.commands) != 1 {
		t.Fatalf("expected 1 command, got %d", len(updater.commands))
	}
	cmd := updater.commands[0]
	if cmd.ClaimID != "CLM-abc12345" || cmd.Status != "IN_TRANSIT" || cmd.TrackingNumber != "1234567890" {
		t.Errorf("unexpected command %+v", cmd)
	}
}

func TestHandleTrackingUpdate_DropsMalformedPayload(t *testing.T) {
	consumer := newFakeEventConsumer()
	updater := &fakeShippingUpdater{}
	logger := logging.New(logging.DefaultConfig("test"))

	NewCarrierTrackingConsumer(consumer, updater, logger)
	handler := consumer.handlers[kafka.Topics.CarrierTracking][cloudevents.CarrierTrackingUpdated]

	// Missing claimId must not reach the application service or trigger a retry
	event := newTrackingEvent(map[string]interface{}{
		"status": "IN_TRANSIT",
	})

	if err := handler(context.Background(), event); err != nil {
		t.Fatalf("malformed payload should be dropped, got error %v", err)
	}
	if len(updater.commands) != 0 {
		t.Errorf("expected no commands, got %d", len(updater.commands))
	}
}

func TestHandleTrackingUpdate_PropagatesServiceError(t *testing.T) {
	consumer := newFakeEventConsumer()
	updater := &fakeShippingUpdater{err: errors.New("claim not found")}
	logger := logging.New(logging.DefaultConfig("test"))

	NewCarrierTrackingConsumer(consumer, updater, logger)
	handler := consumer.handlers[kafka.Topics.CarrierTracking][cloudevents.CarrierTrackingUpdated]

	event := newTrackingEvent(map[string]interface{}{
		"claimId": "CLM-abc12345",
		"status":  "RECEIVED",
	})

	if err := handler(context.Background(), event); err == nil {
		t.Fatal("expected service error to propagate for redelivery")
	}
}

func TestCarrierTrackingConsumer_Close(t *testing.T) {
	consumer := newFakeEventConsumer()
	logger := logging.New(logging.DefaultConfig("test"))

	c := NewCarrierTrackingConsumer(consumer, &fakeShippingUpdater{}, logger)
	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !consumer.closed {
		t.Error("expected underlying consumer to be closed")
	}
}
