package cloudevents

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventFactory creates CloudEvents for claim domain events
type EventFactory struct {
	source string
}

// NewEventFactory creates a new EventFactory for a specific source
func NewEventFactory(source string) *EventFactory {
	return &EventFactory{source: source}
}

// CreateEvent creates a new ClaimCloudEvent with the given parameters
func (f *EventFactory) CreateEvent(
	ctx context.Context,
	eventType string,
	subject string,
	data interface{},
) *ClaimCloudEvent {
	event := &ClaimCloudEvent{
		SpecVersion:     "1.0",
		Type:            eventType,
		Source:          f.source,
		Subject:         subject,
		ID:              uuid.New().String(),
		Time:            time.Now().UTC(),
		DataContentType: "application/json",
		Data:            data,
		Extensions:      make(map[string]interface{}),
	}

	return event
}

// CreateEventWithCorrelation creates an event with correlation tracking
func (f *EventFactory) CreateEventWithCorrelation(
	ctx context.Context,
	eventType string,
	subject string,
	data interface{},
	correlationID string,
) *ClaimCloudEvent {
	event := f.CreateEvent(ctx, eventType, subject, data)
	event.CorrelationID = correlationID
	return event
}

// CreateClaimRequestedEvent creates a ClaimRequested event
func (f *EventFactory) CreateClaimRequestedEvent(
	ctx context.Context,
	data ClaimRequestedData,
) *ClaimCloudEvent {
	event := f.CreateEvent(ctx, ClaimRequested, "claim/"+data.ClaimID, data)
	event.ClaimID = data.ClaimID
	event.OrderID = data.OrderID
	return event
}

// CreateClaimStatusEvent creates a lifecycle transition event of the given type
func (f *EventFactory) CreateClaimStatusEvent(
	ctx context.Context,
	eventType string,
	data ClaimStatusChangedData,
) *ClaimCloudEvent {
	event := f.CreateEvent(ctx, eventType, "claim/"+data.ClaimID, data)
	event.ClaimID = data.ClaimID
	event.OrderID = data.OrderID
	return event
}

// CreateReturnShippingEvent creates a return logistics event of the given type
func (f *EventFactory) CreateReturnShippingEvent(
	ctx context.Context,
	eventType string,
	data ReturnShippingData,
) *ClaimCloudEvent {
	event := f.CreateEvent(ctx, eventType, "claim/"+data.ClaimID+"/return", data)
	event.ClaimID = data.ClaimID
	event.OrderID = data.OrderID
	return event
}

// CreateReturnReceivedEvent creates a ReturnReceived event
func (f *EventFactory) CreateReturnReceivedEvent(
	ctx context.Context,
	data ReturnReceivedData,
) *ClaimCloudEvent {
	event := f.CreateEvent(ctx, ReturnReceived, "claim/"+data.ClaimID+"/return", data)
	event.ClaimID = data.ClaimID
	event.OrderID = data.OrderID
	return event
}

// CreateExchangeShippingEvent creates an exchange shipment event of the given type
func (f *EventFactory) CreateExchangeShippingEvent(
	ctx context.Context,
	eventType string,
	data ExchangeShippingData,
) *ClaimCloudEvent {
	event := f.CreateEvent(ctx, eventType, "claim/"+data.ClaimID+"/exchange", data)
	event.ClaimID = data.ClaimID
	event.OrderID = data.OrderID
	return event
}
