package application

import (
	"github.com/oms-platform/claim-service/internal/domain"
)

// ToClaimDTO maps a Claim aggregate to its response DTO
func ToClaimDTO(claim *domain.Claim) *ClaimDTO {
	dto := &ClaimDTO{
		ClaimID:           claim.ClaimID,
		ClaimNumber:       claim.ClaimNumber,
		OrderID:           claim.OrderID,
		OrderItemID:       claim.OrderItemID,
		ClaimType:         string(claim.ClaimType),
		ClaimReason:       string(claim.ClaimReason),
		ClaimReasonDetail: claim.ClaimReasonDetail,
		Quantity:          claim.Quantity,
		RefundAmount:      claim.RefundAmount,
		Status:            string(claim.Status),
		ProcessedBy:       claim.ProcessedBy,
		ProcessedAt:       claim.ProcessedAt,
		RejectReason:      claim.RejectReason,
		CreatedAt:         claim.CreatedAt,
		UpdatedAt:         claim.UpdatedAt,
	}

	if claim.HasReturnShipping() {
		dto.ReturnShipping = &ReturnShippingDTO{
			Method:            string(claim.ReturnShippingMethod),
			Status:            string(claim.ReturnShippingStatus),
			PickupScheduledAt: claim.ReturnPickupScheduledAt,
			PickupAddress:     claim.ReturnPickupAddress,
			CustomerPhone:     claim.ReturnCustomerPhone,
			TrackingNumber:    claim.ReturnTrackingNumber,
			Carrier:           claim.ReturnCarrier,
			ReceivedAt:        claim.ReturnReceivedAt,
			InspectionResult:  string(claim.InspectionResult),
			InspectionNote:    claim.InspectionNote,
		}
	}

	if claim.ClaimType == domain.ClaimTypeExchange && claim.ExchangeShippedAt != nil {
		dto.Exchange = &ExchangeDTO{
			TrackingNumber: claim.ExchangeTrackingNumber,
			Carrier:        claim.ExchangeCarrier,
			ShippedAt:      claim.ExchangeShippedAt,
			DeliveredAt:    claim.ExchangeDeliveredAt,
		}
	}

	return dto
}

// ToClaimListDTO maps a Claim aggregate to its list-row DTO
func ToClaimListDTO(claim *domain.Claim) ClaimListDTO {
	return ClaimListDTO{
		ClaimID:              claim.ClaimID,
		ClaimNumber:          claim.ClaimNumber,
		OrderID:              claim.OrderID,
		ClaimType:            string(claim.ClaimType),
		ClaimReason:          string(claim.ClaimReason),
		Status:               string(claim.Status),
		ReturnShippingStatus: string(claim.ReturnShippingStatus),
		RefundAmount:         claim.RefundAmount,
		CreatedAt:            claim.CreatedAt,
		UpdatedAt:            claim.UpdatedAt,
	}
}

// ToClaimListDTOs maps a slice of claims to list-row DTOs
func ToClaimListDTOs(claims []*domain.Claim) []ClaimListDTO {
	dtos := make([]ClaimListDTO, 0, len(claims))
	for _, claim := range claims {
		dtos = append(dtos, ToClaimListDTO(claim))
	}
	return dtos
}
