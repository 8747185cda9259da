package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ColuLocalNetwork/inventory-manager/internal/domain"
)

var pendingFilter = bson.M{"balances": bson.M{"$elemMatch": bson.M{"pendingTxs.0": bson.M{"$exists": true}}}}

// walletRepository implements domain.WalletRepository
type walletRepository struct {
	coll *mongo.Collection
}

// NewWalletRepository creates a new wallet repository
func NewWalletRepository(db *DB) domain.WalletRepository {
	return &walletRepository{coll: db.Wallets}
}

// Apply sends the ops as one ordered bulk write.
// Each op is atomic on its document; the batch as a whole is not.
func (r *walletRepository) Apply(ctx context.Context, ops ...domain.BalanceOp) (domain.BatchResult, error) {
	var models []mongo.WriteModel
	for _, op := range ops {
		opModels, err := balanceOpModels(op)
		if err != nil {
			return domain.BatchResult{}, err
		}
		models = append(models, opModels...)
	}
	if len(models) == 0 {
		return domain.BatchResult{}, nil
	}

	res, err := r.coll.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(true))
	if err != nil {
		return domain.BatchResult{}, domain.StoreError("failed to apply balance ops", err)
	}

	return domain.BatchResult{Modified: res.ModifiedCount}, nil
}

// Get retrieves the wallet of an address
func (r *walletRepository) Get(ctx context.Context, address string) (*domain.Wallet, error) {
	var doc walletDocument
	err := r.coll.FindOne(ctx, bson.M{"address": address}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("wallet not found for address %s: %w", address, domain.ErrNotFound)
		}
		return nil, domain.StoreError("failed to get wallet", err)
	}

	return doc.toDomain()
}

// ListWithPending returns every wallet with at least one pending marker, ordered by address
func (r *walletRepository) ListWithPending(ctx context.Context) ([]*domain.Wallet, error) {
	cursor, err := r.coll.Find(ctx,
		pendingFilter,
		options.Find().SetSort(bson.D{{Key: "address", Value: 1}}),
	)
	if err != nil {
		return nil, domain.StoreError("failed to query wallets", err)
	}

	var docs []walletDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, domain.StoreError("failed to decode wallets", err)
	}

	wallets := make([]*domain.Wallet, 0, len(docs))
	for i := range docs {
		w, err := docs[i].toDomain()
		if err != nil {
			return nil, err
		}
		wallets = append(wallets, w)
	}

	return wallets, nil
}
