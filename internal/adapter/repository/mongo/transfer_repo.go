package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ColuLocalNetwork/inventory-manager/internal/domain"
)

// transferRepository implements domain.TransferRepository
type transferRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewTransferRepository creates a new transfer repository
func NewTransferRepository(db *DB) domain.TransferRepository {
	return &transferRepository{coll: db.Transfers, now: time.Now}
}

// Create inserts a new transfer; the id, timestamps and NEW state are assigned here
func (r *transferRepository) Create(ctx context.Context, tx *domain.Transfer) (*domain.Transfer, error) {
	created := tx.Clone()
	if err := created.PrepareForInsert(r.now()); err != nil {
		return nil, err
	}

	doc, err := newTransferDocument(created)
	if err != nil {
		return nil, err
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, domain.StoreError("failed to create transfer", err)
	}

	return created, nil
}

// GetByID retrieves a transfer by its ID
func (r *transferRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transfer, error) {
	var doc transferDocument
	err := r.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("transfer not found for id %s: %w", id, domain.ErrNotFound)
		}
		return nil, domain.StoreError("failed to get transfer by ID", err)
	}

	return doc.toDomain()
}

// Get retrieves all transfers matching the filter, oldest first
func (r *transferRepository) Get(ctx context.Context, filter domain.TransferFilter) ([]*domain.Transfer, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := r.coll.Find(ctx, transferFilterDocument(filter), findOptions)
	if err != nil {
		return nil, domain.StoreError("failed to query transfers", err)
	}

	var docs []transferDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, domain.StoreError("failed to decode transfers", err)
	}

	if len(docs) == 0 {
		return nil, fmt.Errorf("no transfers found: %w", domain.ErrNotFound)
	}

	transfers := make([]*domain.Transfer, 0, len(docs))
	for i := range docs {
		tx, err := docs[i].toDomain()
		if err != nil {
			return nil, err
		}
		transfers = append(transfers, tx)
	}

	return transfers, nil
}

// CompareAndSet moves the transfer from expected to next with a single FindOneAndUpdate
func (r *transferRepository) CompareAndSet(ctx context.Context, id uuid.UUID, expected, next domain.TransferState) (*domain.Transfer, error) {
	now := r.now().UTC().Truncate(time.Millisecond)

	var doc transferDocument
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id.String(), "state": string(expected)},
		bson.M{"$set": bson.M{"state": string(next), "updatedAt": now}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("transfer %s is not in state %s: %w", id, expected, domain.ErrConcurrencyConflict)
		}
		return nil, domain.StoreError("failed to update transfer state", err)
	}

	return doc.toDomain()
}
