package cloudevents

// CloudEvents extension attribute names for claim correlation context
const (
	ExtCorrelationID = "omscorrelationid"
	ExtOrderID       = "omsorderid"
	ExtClaimID       = "omsclaimid"
	ExtSellerID      = "omssellerid"
	ExtChannelID     = "omschannelid"
)

// HTTP header names for claim correlation context
const (
	HeaderCorrelationID = "X-OMS-Correlation-ID"
	HeaderOrderID       = "X-OMS-Order-ID"
	HeaderClaimID       = "X-OMS-Claim-ID"
	HeaderSellerID      = "X-OMS-Seller-ID"
	HeaderChannelID     = "X-OMS-Channel-ID"
)

// WithCorrelation sets correlation tracking fields and returns the event
func (e *ClaimCloudEvent) WithCorrelation(correlationID string) *ClaimCloudEvent {
	e.CorrelationID = correlationID
	return e
}

// WithClaim sets claim and order identifiers and returns the event
func (e *ClaimCloudEvent) WithClaim(claimID, orderID string) *ClaimCloudEvent {
	e.ClaimID = claimID
	e.OrderID = orderID
	return e
}

// WithSeller sets seller and channel and returns the event
func (e *ClaimCloudEvent) WithSeller(sellerID, channelID string) *ClaimCloudEvent {
	e.SellerID = sellerID
	e.ChannelID = channelID
	return e
}

// ExtensionAttributes returns the populated extension attributes as a map,
// keyed by CloudEvents extension names for message header propagation.
func (e *ClaimCloudEvent) ExtensionAttributes() map[string]string {
	ext := make(map[string]string)
	if e.CorrelationID != "" {
		ext[ExtCorrelationID] = e.CorrelationID
	}
	if e.OrderID != "" {
		ext[ExtOrderID] = e.OrderID
	}
	if e.ClaimID != "" {
		ext[ExtClaimID] = e.ClaimID
	}
	if e.SellerID != "" {
		ext[ExtSellerID] = e.SellerID
	}
	if e.ChannelID != "" {
		ext[ExtChannelID] = e.ChannelID
	}
	return ext
}
