package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransferState represents the lifecycle state of a transfer
type TransferState string

const (
	TransferStateNew      TransferState = "NEW"
	TransferStatePending  TransferState = "PENDING"
	TransferStateDone     TransferState = "DONE"
	TransferStateCanceled TransferState = "CANCELED"
	// TransferStateTransmitted is reserved for settlement driven outside this service
	TransferStateTransmitted TransferState = "TRANSMITTED"
)

// transitions lists, for each state, the states a compare-and-set may move it to
var transitions = map[TransferState][]TransferState{
	TransferStateNew:     {TransferStatePending},
	TransferStatePending: {TransferStateDone, TransferStateCanceled},
	TransferStateDone:    {TransferStateTransmitted},
}

// IsValid reports whether s is one of the known states
func (s TransferState) IsValid() bool {
	switch s {
	case TransferStateNew, TransferStatePending, TransferStateDone, TransferStateCanceled, TransferStateTransmitted:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the protocol has nothing left to do for s
func (s TransferState) IsTerminal() bool {
	return s == TransferStateDone || s == TransferStateCanceled || s == TransferStateTransmitted
}

// CanTransitionTo reports whether next follows s in the transition table
func (s TransferState) CanTransitionTo(next TransferState) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Participant is one side of a transfer
type Participant struct {
	AccountAddress string `json:"accountAddress"`
	Currency       string `json:"currency"` // Opaque currency reference
}

// IsZero reports whether neither field is set
func (p Participant) IsZero() bool {
	return p.AccountAddress == "" && p.Currency == ""
}

// Transfer represents a peer-to-peer value transfer between two wallet balances
type Transfer struct {
	ID            uuid.UUID       `json:"id"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
	From          Participant     `json:"from"`
	To            Participant     `json:"to"`
	Amount        decimal.Decimal `json:"amount"`         // Immutable after creation
	SettlementRef *string         `json:"bctx,omitempty"` // External settlement reference, if any
	State         TransferState   `json:"state"`
}

// Validate ensures the transfer carries the fields required for insertion
func (t *Transfer) Validate() error {
	if t.From.IsZero() {
		return validationError("from is required")
	}
	if t.To.IsZero() {
		return validationError("to is required")
	}
	if t.From.AccountAddress == "" || t.From.Currency == "" {
		return validationError("from must have an account address and a currency")
	}
	if t.To.AccountAddress == "" || t.To.Currency == "" {
		return validationError("to must have an account address and a currency")
	}
	if t.From == t.To {
		return validationError("from and to must reference different balances")
	}
	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return validationError("amount must be positive")
	}
	if t.State != "" && !t.State.IsValid() {
		return validationError("unknown state " + string(t.State))
	}
	return nil
}

// PrepareForInsert validates t and fills in the store-generated fields:
// a fresh id, creation/update timestamps, and the default NEW state
func (t *Transfer) PrepareForInsert(now time.Time) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if t.State != "" && t.State != TransferStateNew {
		return validationError("a transfer is inserted in state NEW, got " + string(t.State))
	}
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	t.State = TransferStateNew
	now = now.UTC().Truncate(time.Millisecond)
	t.CreatedAt = now
	t.UpdatedAt = now
	return nil
}

// Clone returns a deep copy of the transfer
func (t *Transfer) Clone() *Transfer {
	c := *t
	if t.SettlementRef != nil {
		ref := *t.SettlementRef
		c.SettlementRef = &ref
	}
	return &c
}

// Matches reports whether the transfer satisfies every predicate set on f
func (f TransferFilter) Matches(t *Transfer) bool {
	if f.Address != "" && t.From.AccountAddress != f.Address && t.To.AccountAddress != f.Address {
		return false
	}
	if f.State != "" && t.State != f.State {
		return false
	}
	if f.Currency != "" && t.From.Currency != f.Currency && t.To.Currency != f.Currency {
		return false
	}
	return true
}

// TransferFilter selects transfers by the conjunction of its non-empty fields.
// Address and Currency match either side of the transfer.
type TransferFilter struct {
	Address  string
	State    TransferState
	Currency string
}
