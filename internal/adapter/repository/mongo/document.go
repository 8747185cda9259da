package mongo

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ColuLocalNetwork/inventory-manager/internal/domain"
)

type participantDocument struct {
	AccountAddress string `bson:"accountAddress"`
	Currency       string `bson:"currency"`
}

type transferDocument struct {
	ID            string               `bson:"_id"`
	CreatedAt     time.Time            `bson:"createdAt"`
	UpdatedAt     time.Time            `bson:"updatedAt"`
	From          participantDocument  `bson:"from"`
	To            participantDocument  `bson:"to"`
	Amount        primitive.Decimal128 `bson:"amount"`
	SettlementRef *string              `bson:"bctx,omitempty"`
	State         string               `bson:"state"`
}

type balanceDocument struct {
	Currency       string               `bson:"currency"`
	OffchainAmount primitive.Decimal128 `bson:"offchainAmount"`
	PendingTxs     []string             `bson:"pendingTxs"`
}

type walletDocument struct {
	Address  string            `bson:"address"`
	Balances []balanceDocument `bson:"balances"`
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("%w: amount %s does not fit decimal128", domain.ErrValidation, d)
	}
	return v, nil
}

func fromDecimal128(v primitive.Decimal128) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("failed to parse decimal128 %s: %w", v, err)
	}
	return d, nil
}

func newTransferDocument(tx *domain.Transfer) (*transferDocument, error) {
	amount, err := toDecimal128(tx.Amount)
	if err != nil {
		return nil, err
	}
	return &transferDocument{
		ID:            tx.ID.String(),
		CreatedAt:     tx.CreatedAt,
		UpdatedAt:     tx.UpdatedAt,
		From:          participantDocument(tx.From),
		To:            participantDocument(tx.To),
		Amount:        amount,
		SettlementRef: tx.SettlementRef,
		State:         string(tx.State),
	}, nil
}

func (d *transferDocument) toDomain() (*domain.Transfer, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse transfer id %s: %w", d.ID, err)
	}
	amount, err := fromDecimal128(d.Amount)
	if err != nil {
		return nil, err
	}
	return &domain.Transfer{
		ID:            id,
		CreatedAt:     d.CreatedAt.UTC(),
		UpdatedAt:     d.UpdatedAt.UTC(),
		From:          domain.Participant(d.From),
		To:            domain.Participant(d.To),
		Amount:        amount,
		SettlementRef: d.SettlementRef,
		State:         domain.TransferState(d.State),
	}, nil
}

func (d *walletDocument) toDomain() (*domain.Wallet, error) {
	w := &domain.Wallet{Address: d.Address, Balances: make([]domain.Balance, 0, len(d.Balances))}
	for _, b := range d.Balances {
		amount, err := fromDecimal128(b.OffchainAmount)
		if err != nil {
			return nil, err
		}
		pending := b.PendingTxs
		if pending == nil {
			pending = []string{}
		}
		w.Balances = append(w.Balances, domain.Balance{
			Currency:       b.Currency,
			OffchainAmount: amount,
			PendingTxs:     pending,
		})
	}
	return w, nil
}
