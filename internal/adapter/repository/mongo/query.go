package mongo

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ColuLocalNetwork/inventory-manager/internal/domain"
)

// transferFilterDocument renders a TransferFilter; address and currency match either side
func transferFilterDocument(filter domain.TransferFilter) bson.M {
	var and bson.A
	if filter.Address != "" {
		and = append(and, bson.M{"$or": bson.A{
			bson.M{"from.accountAddress": filter.Address},
			bson.M{"to.accountAddress": filter.Address},
		}})
	}
	if filter.Currency != "" {
		and = append(and, bson.M{"$or": bson.A{
			bson.M{"from.currency": filter.Currency},
			bson.M{"to.currency": filter.Currency},
		}})
	}
	if filter.State != "" {
		and = append(and, bson.M{"state": string(filter.State)})
	}

	if len(and) == 0 {
		return bson.M{}
	}
	return bson.M{"$and": and}
}

// balanceOpModels renders an op as conditional updates on the wallet document.
// Entry conditions use $elemMatch so that every condition applies to the same
// balance element, and the positional operator then updates that element.
func balanceOpModels(op domain.BalanceOp) ([]mongo.WriteModel, error) {
	switch op.Kind {
	case domain.BalanceOpEnsureEntry:
		amount, err := toDecimal128(op.Amount)
		if err != nil {
			return nil, err
		}
		// The upsert creates the wallet document; only the push counts as a modification
		createWallet := mongo.NewUpdateOneModel().
			SetFilter(bson.M{"address": op.Address}).
			SetUpdate(bson.M{"$setOnInsert": bson.M{"address": op.Address, "balances": bson.A{}}}).
			SetUpsert(true)
		addEntry := mongo.NewUpdateOneModel().
			SetFilter(bson.M{
				"address":  op.Address,
				"balances": bson.M{"$not": bson.M{"$elemMatch": bson.M{"currency": op.Currency}}},
			}).
			SetUpdate(bson.M{"$push": bson.M{"balances": balanceDocument{
				Currency:       op.Currency,
				OffchainAmount: amount,
				PendingTxs:     []string{},
			}}})
		return []mongo.WriteModel{createWallet, addEntry}, nil

	case domain.BalanceOpRegisterPending:
		return []mongo.WriteModel{mongo.NewUpdateOneModel().
			SetFilter(entryFilter(op, bson.M{"pendingTxs": bson.M{"$ne": op.TxID}})).
			SetUpdate(bson.M{"$push": bson.M{"balances.$.pendingTxs": op.TxID}}),
		}, nil

	case domain.BalanceOpDebitIfSufficient:
		amount, err := toDecimal128(op.Amount)
		if err != nil {
			return nil, err
		}
		negated, err := toDecimal128(op.Amount.Neg())
		if err != nil {
			return nil, err
		}
		return []mongo.WriteModel{mongo.NewUpdateOneModel().
			SetFilter(entryFilter(op, bson.M{
				"pendingTxs":     op.TxID,
				"offchainAmount": bson.M{"$gte": amount},
			})).
			SetUpdate(bson.M{
				"$inc":  bson.M{"balances.$.offchainAmount": negated},
				"$pull": bson.M{"balances.$.pendingTxs": op.TxID},
			}),
		}, nil

	case domain.BalanceOpCredit:
		amount, err := toDecimal128(op.Amount)
		if err != nil {
			return nil, err
		}
		return []mongo.WriteModel{mongo.NewUpdateOneModel().
			SetFilter(entryFilter(op, bson.M{"pendingTxs": op.TxID})).
			SetUpdate(bson.M{
				"$inc":  bson.M{"balances.$.offchainAmount": amount},
				"$pull": bson.M{"balances.$.pendingTxs": op.TxID},
			}),
		}, nil

	case domain.BalanceOpUnregisterPending:
		return []mongo.WriteModel{mongo.NewUpdateOneModel().
			SetFilter(entryFilter(op, bson.M{"pendingTxs": op.TxID})).
			SetUpdate(bson.M{"$pull": bson.M{"balances.$.pendingTxs": op.TxID}}),
		}, nil

	default:
		return nil, fmt.Errorf("%w: unknown balance op %s", domain.ErrValidation, op.Kind)
	}
}

func entryFilter(op domain.BalanceOp, conditions bson.M) bson.M {
	match := bson.M{"currency": op.Currency}
	for k, v := range conditions {
		match[k] = v
	}
	return bson.M{
		"address":  op.Address,
		"balances": bson.M{"$elemMatch": match},
	}
}
