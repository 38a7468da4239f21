package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/oms-platform/claim-service/internal/domain"
	"github.com/oms-platform/claim-service/pkg/cloudevents"
	"github.com/oms-platform/claim-service/pkg/kafka"
	"github.com/oms-platform/claim-service/pkg/outbox"
	outboxMongo "github.com/oms-platform/claim-service/pkg/outbox/mongodb"
)

// ClaimRepository implements domain.ClaimRepository using MongoDB
type ClaimRepository struct {
	collection   *mongo.Collection
	db           *mongo.Database
	outboxRepo   *outboxMongo.OutboxRepository
	eventFactory *cloudevents.EventFactory
}

// NewClaimRepository creates a new ClaimRepository
func NewClaimRepository(db *mongo.Database, eventFactory *cloudevents.EventFactory) *ClaimRepository {
	collection := db.Collection("claims")
	outboxRepo := outboxMongo.NewOutboxRepository(db)

	// Create indexes
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "claimId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "claimNumber", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "orderId", Value: 1}},
		},
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "createdAt", Value: -1},
			},
		},
		{
			Keys: bson.D{
				{Key: "claimType", Value: 1},
				{Key: "returnShippingStatus", Value: 1},
			},
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)

	// Create outbox indexes
	_ = outboxRepo.EnsureIndexes(ctx)

	return &ClaimRepository{
		collection:   collection,
		db:           db,
		outboxRepo:   outboxRepo,
		eventFactory: eventFactory,
	}
}

// Save persists a claim with its domain events in a single transaction
func (r *ClaimRepository) Save(ctx context.Context, claim *domain.Claim) error {
	session, err := r.db.Client().StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		// 1. Save the aggregate
		opts := options.Update().SetUpsert(true)
		filter := bson.M{"claimId": claim.ClaimID}
		update := bson.M{"$set": claim}

		if _, err := r.collection.UpdateOne(sessCtx, filter, update, opts); err != nil {
			return nil, fmt.Errorf("failed to save claim: %w", err)
		}

		// 2. Save domain events to outbox
		domainEvents := claim.DomainEvents()
		if len(domainEvents) > 0 {
			outboxEvents := make([]*outbox.OutboxEvent, 0, len(domainEvents))

			for _, event := range domainEvents {
				cloudEvent := r.eventFactory.CreateEvent(
					sessCtx,
					event.EventType(),
					"claim/"+event.AggregateID(),
					event,
				).WithClaim(claim.ClaimID, claim.OrderID)

				outboxEvent, err := outbox.NewOutboxEventFromCloudEvent(
					claim.ClaimID,
					"Claim",
					kafka.Topics.ClaimsEvents,
					cloudEvent,
				)
				if err != nil {
					return nil, fmt.Errorf("failed to create outbox event: %w", err)
				}

				outboxEvents = append(outboxEvents, outboxEvent)
			}

			if err := r.outboxRepo.SaveAll(sessCtx, outboxEvents); err != nil {
				return nil, fmt.Errorf("failed to save outbox events: %w", err)
			}
		}

		// 3. Clear domain events from the aggregate
		claim.ClearDomainEvents()

		return nil, nil
	})

	if err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}

	return nil
}

// FindByID retrieves a claim by its ClaimID
func (r *ClaimRepository) FindByID(ctx context.Context, claimID string) (*domain.Claim, error) {
	return r.findOne(ctx, bson.M{"claimId": claimID})
}

// FindByClaimNumber retrieves a claim by its human-readable number
func (r *ClaimRepository) FindByClaimNumber(ctx context.Context, claimNumber string) (*domain.Claim, error) {
	return r.findOne(ctx, bson.M{"claimNumber": claimNumber})
}

// FindByOrderID retrieves all claims filed against an order
func (r *ClaimRepository) FindByOrderID(ctx context.Context, orderID string, pagination domain.Pagination) ([]*domain.Claim, error) {
	filter := bson.M{"orderId": orderID}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(pagination.Skip()).
		SetLimit(pagination.Limit())

	return r.findMany(ctx, filter, opts)
}

// FindByFilter retrieves claims matching the filter
func (r *ClaimRepository) FindByFilter(ctx context.Context, filter domain.ClaimFilter, pagination domain.Pagination) ([]*domain.Claim, error) {
	mongoFilter := r.buildFilter(filter)
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(pagination.Skip()).
		SetLimit(pagination.Limit())

	return r.findMany(ctx, mongoFilter, opts)
}

// Count returns the total number of claims matching the filter
func (r *ClaimRepository) Count(ctx context.Context, filter domain.ClaimFilter) (int64, error) {
	return r.collection.CountDocuments(ctx, r.buildFilter(filter))
}

// findOne decodes a single document through the rehydration path
func (r *ClaimRepository) findOne(ctx context.Context, filter bson.M) (*domain.Claim, error) {
	var state domain.ClaimState

	err := r.collection.FindOne(ctx, filter).Decode(&state)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}

	return domain.RehydrateClaim(state)
}

// findMany is a helper for finding multiple claims
func (r *ClaimRepository) findMany(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.Claim, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var states []domain.ClaimState
	if err := cursor.All(ctx, &states); err != nil {
		return nil, err
	}

	claims := make([]*domain.Claim, 0, len(states))
	for _, state := range states {
		claim, err := domain.RehydrateClaim(state)
		if err != nil {
			return nil, fmt.Errorf("corrupt claim document %s: %w", state.ClaimID, err)
		}
		claims = append(claims, claim)
	}

	return claims, nil
}

// buildFilter builds a MongoDB filter from a ClaimFilter
func (r *ClaimRepository) buildFilter(filter domain.ClaimFilter) bson.M {
	mongoFilter := bson.M{}

	if filter.OrderID != nil {
		mongoFilter["orderId"] = *filter.OrderID
	}

	if filter.Status != nil {
		mongoFilter["status"] = *filter.Status
	}

	if filter.ClaimType != nil {
		mongoFilter["claimType"] = *filter.ClaimType
	}

	if filter.Reason != nil {
		mongoFilter["claimReason"] = *filter.Reason
	}

	dateRange := bson.M{}
	if filter.FromDate != nil {
		dateRange["$gte"] = *filter.FromDate
	}
	if filter.ToDate != nil {
		dateRange["$lt"] = *filter.ToDate
	}
	if len(dateRange) > 0 {
		mongoFilter["createdAt"] = dateRange
	}

	return mongoFilter
}

// GetOutboxRepository returns the outbox repository for this service
func (r *ClaimRepository) GetOutboxRepository() outbox.Repository {
	return r.outboxRepo
}
