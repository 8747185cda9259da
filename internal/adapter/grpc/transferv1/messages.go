package transferv1

import (
	"google.golang.org/protobuf/types/known/timestamppb"
)

type Participant struct {
	AccountAddress string `json:"accountAddress"`
	Currency       string `json:"currency"`
}

type Transfer struct {
	Id        string                 `json:"id"`
	From      *Participant           `json:"from"`
	To        *Participant           `json:"to"`
	Amount    string                 `json:"amount"`
	State     string                 `json:"state"`
	Bctx      string                 `json:"bctx,omitempty"`
	CreatedAt *timestamppb.Timestamp `json:"createdAt"`
	UpdatedAt *timestamppb.Timestamp `json:"updatedAt"`
}

type Balance struct {
	Currency       string   `json:"currency"`
	OffchainAmount string   `json:"offchainAmount"`
	PendingTxs     []string `json:"pendingTxs"`
}

type CreateTransferRequest struct {
	From   *Participant `json:"from"`
	To     *Participant `json:"to"`
	Amount string       `json:"amount"`
}

type CreateTransferResponse struct {
	Transfer *Transfer `json:"transfer"`
}

type GetTransferRequest struct {
	Id string `json:"id"`
}

type GetTransferResponse struct {
	Transfer *Transfer `json:"transfer"`
}

// ListTransfersRequest filters on any combination of fields; empty fields match everything
type ListTransfersRequest struct {
	Address  string `json:"address,omitempty"`
	Currency string `json:"currency,omitempty"`
	State    string `json:"state,omitempty"`
}

type ListTransfersResponse struct {
	Transfers []*Transfer `json:"transfers"`
}

type ResumeTransferRequest struct {
	Id string `json:"id"`
}

type ResumeTransferResponse struct {
	Transfer *Transfer `json:"transfer"`
}

type GetWalletRequest struct {
	Address string `json:"address"`
}

type GetWalletResponse struct {
	Address  string     `json:"address"`
	Balances []*Balance `json:"balances"`
}
